package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	gobundle "github.com/albertocavalcante/go-bundle"
	"github.com/albertocavalcante/go-bundle/bundle"
	"github.com/albertocavalcante/go-bundle/internal/output"
	"github.com/albertocavalcante/go-bundle/manifest"
)

// ManifestFile is the manifest name written by build --out.
const ManifestFile = "bundles.json"

const outputPermissions = 0o644

// buildFlags maps viper keys to the flag names shared by build and explain.
var buildFlags = map[string]string{
	"main":          "main",
	"bundles":       "bundles",
	"bundle_depth":  "depth",
	"bundles_path":  "bundles-path",
	"bundle_steal":  "bundle-steal",
	"minify":        "minify",
	"config_module": "config-module",
	"base_url":      "base-url",
	"config_call":   "config-call",
	"ignore":        "ignore",
}

func addBuildFlags(flags *pflag.FlagSet) {
	flags.String("main", "", "main entry point (overrides bundle_config main)")
	flags.StringSlice("bundles", nil, "additional entry points")
	flags.Int("depth", bundle.DefaultDepth, "maximum bundles an entry point may load")
	flags.String("bundles-path", manifest.DefaultBundlesPath, "location bundles are served from")
	flags.Bool("bundle-steal", false, "put the loader runtime in the bootstrap bundle")
	flags.Bool("minify", false, "value modules by minified size")
	flags.String("config-module", "", "loader configuration module for the bootstrap bundle")
	flags.String("base-url", "", "loader base URL recorded in the manifest")
	flags.String("config-call", manifest.DefaultConfigCall, "loader function used for config text")
	flags.StringSlice("ignore", nil, "modules to leave out of the build")
}

// bindBuildFlags binds the running command's build flags. Binding happens at
// run time because build and explain share keys.
func (a *app) bindBuildFlags(cmd *cobra.Command) error {
	for key, name := range buildFlags {
		if err := a.v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

// buildOptions returns options for every setting given on the command line,
// in the environment or in the config file. Unset settings are left to the
// graph file.
func (a *app) buildOptions() []gobundle.Option {
	v := a.v
	var opts []gobundle.Option
	if v.IsSet("bundles") {
		opts = append(opts, gobundle.WithBundles(v.GetStringSlice("bundles")...))
	}
	if v.IsSet("bundle_depth") {
		opts = append(opts, gobundle.WithBundleDepth(v.GetInt("bundle_depth")))
	}
	if v.IsSet("bundles_path") {
		opts = append(opts, gobundle.WithBundlesPath(v.GetString("bundles_path")))
	}
	if v.IsSet("bundle_steal") {
		opts = append(opts, gobundle.WithBundleSteal(v.GetBool("bundle_steal")))
	}
	if v.IsSet("minify") {
		opts = append(opts, gobundle.WithMinify(v.GetBool("minify")))
	}
	if v.IsSet("config_module") {
		opts = append(opts, gobundle.WithConfigModule(v.GetString("config_module")))
	}
	if v.IsSet("base_url") {
		opts = append(opts, gobundle.WithBaseURL(v.GetString("base_url")))
	}
	if v.IsSet("config_call") {
		opts = append(opts, gobundle.WithConfigCall(v.GetString("config_call")))
	}
	if ignore := v.GetStringSlice("ignore"); len(ignore) > 0 {
		opts = append(opts, gobundle.WithIgnore(func(name string) bool {
			return slices.Contains(ignore, name)
		}))
	}
	return append(opts, gobundle.WithLogger(a.logger))
}

// buildFile parses a graph file and builds it with the CLI settings layered
// over its bundle_config.
func (a *app) buildFile(ctx context.Context, path string) (*gobundle.Result, error) {
	gf, err := gobundle.ParseGraphFile(path)
	if err != nil {
		return nil, err
	}

	main := gf.Config.Main
	if a.v.IsSet("main") {
		main = a.v.GetString("main")
	}
	if main == "" {
		return nil, fmt.Errorf("%s: no main module (set --main or bundle_config(main = ...))", path)
	}

	a.logger.Debug("parsed graph file", "path", path, "modules", len(gf.Modules), "main", main)
	return gobundle.Build(ctx, gf.Modules, main, slices.Concat(gf.Config.Options(), a.buildOptions())...)
}

// buildReport is the JSON/YAML form of a build.
type buildReport struct {
	Main     string             `json:"main"`
	Bundles  []bundle.Info      `json:"bundles"`
	Manifest *manifest.Manifest `json:"manifest"`
	Summary  gobundle.Summary   `json:"summary"`
}

func (a *app) newBuildCommand() *cobra.Command {
	var (
		outDir     string
		configText bool
	)

	cmd := &cobra.Command{
		Use:   "build GRAPH_FILE",
		Short: "Partition a module graph into bundles",
		Long: `Build reads a graph file, partitions its modules into bundles and prints
the resulting bundles. With --out, each bundle's sources are concatenated in
load order into DIR/<bundle file> and the manifest is written to
DIR/` + ManifestFile + `.`,
		Example: `  gobundle build graph.bzl
  gobundle build graph.bzl --bundles app/admin --depth 2 -o json
  gobundle build graph.bzl --out dist --config-text`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.bindBuildFlags(cmd); err != nil {
				return err
			}

			result, err := a.buildFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if outDir != "" {
				n, err := WriteBundles(outDir, result)
				if err != nil {
					return err
				}
				a.formatter.PrintSuccess(fmt.Sprintf("Wrote %d bundles and %s to %s", n, ManifestFile, outDir))
			}

			if configText {
				text, err := result.ConfigText()
				if err != nil {
					return err
				}
				_, err = fmt.Fprint(a.stdout, text)
				return err
			}
			return a.printResult(result)
		},
	}

	addBuildFlags(cmd.Flags())
	cmd.Flags().StringVar(&outDir, "out", "", "write bundle files and the manifest to this directory")
	cmd.Flags().BoolVar(&configText, "config-text", false, "print loader configuration instead of the bundle table")

	return cmd
}

func (a *app) printResult(result *gobundle.Result) error {
	all := result.AllBundles()
	if a.formatter.Format != output.FormatTable {
		return a.formatter.Print(buildReport{
			Main:     result.Main,
			Bundles:  bundle.Infos(all),
			Manifest: result.Manifest,
			Summary:  result.Summary,
		})
	}

	table := output.TableData{Headers: []string{"File", "Size", "Entries", "Modules"}}
	for _, b := range all {
		table.Rows = append(table.Rows, []string{
			b.FileName(),
			strconv.Itoa(b.Size),
			strings.Join(b.Bundles.Sorted(), ","),
			strings.Join(b.ModuleNames(), ","),
		})
	}
	if err := a.formatter.PrintTable(table); err != nil {
		return err
	}

	s := result.Summary
	a.formatter.PrintSuccess(fmt.Sprintf("\n%d modules in %d bundles, %d bytes", s.Modules, s.Bundles, s.TotalSize))
	if len(s.Pruned) > 0 {
		a.formatter.PrintSuccess("Not required by any entry point: " + strings.Join(s.Pruned, ", "))
	}
	return nil
}

// WriteBundles writes every bundle of a result under dir, module sources
// concatenated in load order, followed by the manifest. It returns the
// number of bundle files written.
func WriteBundles(dir string, result *gobundle.Result) (int, error) {
	all := result.AllBundles()
	for _, b := range all {
		path := filepath.Join(dir, filepath.FromSlash(b.FileName()))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return 0, fmt.Errorf("failed to create bundle directory: %w", err)
		}

		var sb strings.Builder
		for _, n := range b.Nodes {
			sb.WriteString(n.Module.Source)
			if !strings.HasSuffix(n.Module.Source, "\n") {
				sb.WriteByte('\n')
			}
		}
		if err := os.WriteFile(path, []byte(sb.String()), outputPermissions); err != nil {
			return 0, fmt.Errorf("failed to write bundle %s: %w", b.FileName(), err)
		}
	}

	if err := result.Manifest.WriteFile(filepath.Join(dir, ManifestFile)); err != nil {
		return 0, fmt.Errorf("failed to write manifest: %w", err)
	}
	return len(all), nil
}
