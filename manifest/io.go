package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const manifestPermissions = 0o644

// ReadFile reads and parses a manifest from the given path.
func ReadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses manifest JSON data.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}
	if m.Version > CurrentVersion {
		return nil, fmt.Errorf("unsupported manifest version %d (max %d)", m.Version, CurrentVersion)
	}
	m.normalize()
	return &m, nil
}

// WriteFile writes the manifest to the given path with deterministic formatting.
func (m *Manifest) WriteFile(path string) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, manifestPermissions)
}

// WriteTo writes the manifest to the given writer.
func (m *Manifest) WriteTo(w io.Writer) (int64, error) {
	data, err := m.Marshal()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Marshal serializes the manifest to indented JSON. Map keys are sorted and
// nil maps are written as {}, so equal manifests produce identical bytes.
func (m *Manifest) Marshal() ([]byte, error) {
	c := *m
	c.normalize()

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent serializes the manifest with custom indentation.
func (m *Manifest) MarshalIndent(prefix, indent string) ([]byte, error) {
	data, err := m.Marshal()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalize initializes nil maps to empty maps for consistency.
func (m *Manifest) normalize() {
	if m.Paths == nil {
		m.Paths = make(map[string]string)
	}
	if m.Bundles == nil {
		m.Bundles = make(map[string][]string)
	}
	if m.Entries == nil {
		m.Entries = make(map[string][]string)
	}
	if m.Version == 0 {
		m.Version = CurrentVersion
	}
}

// Exists returns true if a manifest exists at the given path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
