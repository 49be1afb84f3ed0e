package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const separatorWidth = 60

// Info is a flat, serializable view of a bundle.
type Info struct {
	Name      string   `json:"name" yaml:"name"`
	File      string   `json:"file" yaml:"file"`
	BuildType string   `json:"buildType" yaml:"buildType"`
	Size      int      `json:"size" yaml:"size"`
	Bundles   []string `json:"bundles" yaml:"bundles"`
	Modules   []string `json:"modules" yaml:"modules"`
}

// Infos converts a bundle collection for display, preserving its order.
func Infos(bundles []*Bundle) []Info {
	out := make([]Info, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, Info{
			Name:      b.Name,
			File:      b.FileName(),
			BuildType: string(b.BuildType),
			Size:      b.Size,
			Bundles:   b.Bundles.Sorted(),
			Modules:   b.ModuleNames(),
		})
	}
	return out
}

// ToJSON outputs the collection as a JSON array of Info.
func ToJSON(bundles []*Bundle) ([]byte, error) {
	return json.MarshalIndent(Infos(bundles), "", "  ")
}

// ToText outputs a human-readable report: one block per bundle followed by
// the per-entry-point depth.
func ToText(bundles []*Bundle) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Bundles: %d\n", len(bundles)))
	buf.WriteString(strings.Repeat("=", separatorWidth) + "\n")

	for _, b := range bundles {
		name := b.FileName()
		if name == "" {
			name = "(unnamed)"
		}
		buf.WriteString(fmt.Sprintf("\n%s  %d bytes  %s\n", name, b.Size, b.Bundles))
		names := b.ModuleNames()
		for i, m := range names {
			connector := "├── "
			if i == len(names)-1 {
				connector = "└── "
			}
			buf.WriteString(" " + connector + m + "\n")
		}
	}

	depths := Depths(bundles)
	if len(depths) > 0 {
		buf.WriteString("\nDepth per entry point:\n")
		for _, entry := range entryPoints(bundles) {
			buf.WriteString(fmt.Sprintf("  %s: %d\n", entry, depths[entry]))
		}
	}
	return buf.String()
}
