package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	gobundle "github.com/albertocavalcante/go-bundle"
	"github.com/albertocavalcante/go-bundle/internal/output"
	"github.com/albertocavalcante/go-bundle/manifest"
)

// ErrDiffFound is returned by diff --exit-code when the manifests differ.
var ErrDiffFound = errors.New("manifests differ")

func (a *app) newDiffCommand() *cobra.Command {
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "diff OLD_MANIFEST NEW_MANIFEST",
		Short: "Compare the bundles of two manifests",
		Long: `Diff lists bundles added, removed or changed between two manifests, and the
modules that moved between bundles. Every changed bundle is a file clients
have to download again.`,
		Example: `  gobundle diff old/bundles.json dist/bundles.json
  gobundle diff old/bundles.json dist/bundles.json --exit-code -q`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			old, err := manifest.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			new, err := manifest.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}

			diff := gobundle.DiffManifests(old, new)
			if err := a.printDiff(diff); err != nil {
				return err
			}
			if exitCode && !diff.IsEmpty() {
				return fmt.Errorf("%w: %d bundles changed", ErrDiffFound, diff.TotalChanges())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with an error when the manifests differ")
	return cmd
}

func (a *app) printDiff(diff *gobundle.ResultDiff) error {
	if a.formatter.Format != output.FormatTable {
		return a.formatter.Print(diff)
	}
	if diff.IsEmpty() {
		a.formatter.PrintSuccess("No changes")
		return nil
	}

	table := output.TableData{Headers: []string{"Change", "Bundle", "Modules"}}
	for _, c := range diff.Added {
		table.Rows = append(table.Rows, []string{"added", c.File, strings.Join(c.Modules, ",")})
	}
	for _, c := range diff.Removed {
		table.Rows = append(table.Rows, []string{"removed", c.File, strings.Join(c.Modules, ",")})
	}
	for _, c := range diff.Changed {
		var parts []string
		for _, m := range c.Added {
			parts = append(parts, "+"+m)
		}
		for _, m := range c.Removed {
			parts = append(parts, "-"+m)
		}
		table.Rows = append(table.Rows, []string{"changed", c.File, strings.Join(parts, ",")})
	}
	for _, m := range diff.Moved {
		table.Rows = append(table.Rows, []string{"moved", m.OldFile + " -> " + m.NewFile, m.Module})
	}
	return a.formatter.PrintTable(table)
}
