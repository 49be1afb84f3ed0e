// Package cli provides the Cobra commands for the gobundle CLI.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/albertocavalcante/go-bundle/internal/output"
)

// Version information (set via ldflags during build)
var (
	Version = "dev"
	Commit  = "unknown"
)

// EnvPrefix prefixes environment variables read by the CLI, e.g.
// GOBUNDLE_BUNDLE_DEPTH.
const EnvPrefix = "GOBUNDLE"

// DefaultConfigName is the config file looked up in the working directory
// when --config is not given.
const DefaultConfigName = ".gobundle"

// app holds state shared by the commands of one root command.
type app struct {
	v      *viper.Viper
	stdout io.Writer
	stderr io.Writer

	cfgFile   string
	noHeaders bool
	quiet     bool

	formatter *output.Formatter
	logger    *slog.Logger
}

// NewRootCommand creates the gobundle command tree writing to the given
// streams. Each call has its own configuration state.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "gobundle",
		Short: "Split a module dependency graph into production bundles",
		Long: `gobundle partitions a loaded module graph into shared and per-page
bundles, keeping the number of bundles each entry point loads bounded.

The graph is read from a Starlark graph file:

  bundle_config(main = "app/main", bundles = ["app/admin"])
  module(name = "jquery", src = "node_modules/jquery/dist/jquery.js")
  module(name = "app/main", deps = ["jquery"], src = "app/main.js")

Settings come from flags, GOBUNDLE_* environment variables, .gobundle.yaml
and the graph file's bundle_config, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./.gobundle.yaml)")
	flags.StringP("output", "o", "table", "output format: table, json, yaml")
	flags.BoolVar(&a.noHeaders, "no-headers", false, "hide table headers")
	flags.BoolVarP(&a.quiet, "quiet", "q", false, "minimal output")
	flags.BoolP("verbose", "v", false, "log build diagnostics to stderr")
	flags.String("log-format", "text", "log format: text, json")

	_ = a.v.BindPFlag("output", flags.Lookup("output"))
	_ = a.v.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = a.v.BindPFlag("log_format", flags.Lookup("log-format"))

	root.AddCommand(a.newBuildCommand())
	root.AddCommand(a.newGraphCommand())
	root.AddCommand(a.newExplainCommand())
	root.AddCommand(a.newDiffCommand())
	root.AddCommand(newVersionCommand())

	return root
}

// Execute runs the CLI against the process streams, cancelling on interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// loadConfig reads configuration and sets up the formatter and logger.
func (a *app) loadConfig() error {
	v := a.v
	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	format, err := output.ParseFormat(v.GetString("output"))
	if err != nil {
		return err
	}
	a.formatter = output.NewFormatter(a.stdout, format, a.noHeaders, a.quiet)

	a.logger, err = newLogger(a.stderr, v.GetString("log_format"), v.GetBool("verbose"))
	return err
}

func newLogger(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s (valid: text, json)", format)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gobundle %s (%s)\n", Version, Commit)
		},
	}
}
