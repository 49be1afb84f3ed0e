package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	gobundle "github.com/albertocavalcante/go-bundle"
	"github.com/albertocavalcante/go-bundle/graph"
	"github.com/albertocavalcante/go-bundle/internal/output"
)

func (a *app) newGraphCommand() *cobra.Command {
	var (
		root   string
		dot    bool
		ignore []string
	)

	cmd := &cobra.Command{
		Use:   "graph GRAPH_FILE",
		Short: "Show the module dependency graph",
		Long: `Graph prints the dependency tree under an entry point, or the whole graph
in Graphviz DOT format with --dot. JSON and YAML output list every module
with the entry points that require it and its load order.`,
		Example: `  gobundle graph graph.bzl
  gobundle graph graph.bzl --dot | dot -Tsvg > graph.svg
  gobundle graph graph.bzl -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gf, err := gobundle.ParseGraphFile(args[0])
			if err != nil {
				return err
			}

			modules := gf.Modules
			if len(ignore) > 0 {
				modules = graph.FilterModules(modules, func(name string) bool {
					return slices.Contains(ignore, name)
				})
			}
			g, err := graph.New(modules)
			if err != nil {
				return fmt.Errorf("build graph: %w", err)
			}

			if root == "" {
				root = gf.Config.Main
			}
			for _, entry := range append([]string{root}, gf.Config.Bundles...) {
				if entry == "" || !g.Contains(entry) {
					continue
				}
				if err := g.MarkBundle(entry); err != nil {
					return err
				}
				if err := g.AssignOrder(entry); err != nil {
					return err
				}
			}

			switch {
			case a.formatter.Format != output.FormatTable:
				return a.formatter.Print(g.ToModuleList())
			case dot:
				return a.formatter.PrintText(g.ToDOT())
			case root == "":
				return fmt.Errorf("no root module (set --root or bundle_config(main = ...))")
			case !g.Contains(root):
				return fmt.Errorf("%w: %q", gobundle.ErrModuleNotFound, root)
			default:
				return a.formatter.PrintText(g.ToText(root))
			}
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "module to print the tree from (default is the main module)")
	cmd.Flags().BoolVar(&dot, "dot", false, "print Graphviz DOT")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "modules to leave out of the graph")

	return cmd
}
