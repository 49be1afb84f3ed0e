package cli

import (
	"github.com/spf13/cobra"

	gobundle "github.com/albertocavalcante/go-bundle"
	"github.com/albertocavalcante/go-bundle/internal/output"
)

func (a *app) newExplainCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain GRAPH_FILE MODULE",
		Short: "Show which bundle a module ends up in",
		Long: `Explain builds the graph file and reports the bundle holding MODULE, the
entry points that load it and the modules it shares the bundle with.
It accepts the same settings as build.`,
		Example: `  gobundle explain graph.bzl jquery
  gobundle explain graph.bzl app/admin --bundles app/admin -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bindBuildFlags(cmd); err != nil {
				return err
			}

			result, err := a.buildFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			e, err := gobundle.Explain(result, args[1])
			if err != nil {
				return err
			}

			if a.formatter.Format != output.FormatTable {
				return a.formatter.Print(e)
			}
			return a.formatter.PrintText(e.String())
		},
	}

	addBuildFlags(cmd.Flags())
	return cmd
}
