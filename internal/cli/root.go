// Package cli implements the iomap command line tool.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yacchi/iomap"
	"github.com/yacchi/iomap/format"
	"github.com/yacchi/iomap/registry"
)

// Version is reported by --version.
var Version = "0.1.0"

// app carries what every subcommand needs.
type app struct {
	registry *registry.Registry
	stdout   io.Writer
	stderr   io.Writer

	// newLogger is replaced in tests.
	newLogger func(verbose bool) (*zap.Logger, error)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewCommand builds the root command.
func NewCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{
		registry:  registry.Default(),
		stdout:    stdout,
		stderr:    stderr,
		newLogger: newLogger,
	}

	root := &cobra.Command{
		Use:           "iomap",
		Short:         "Convert documents between JSON, YAML, TOML, XML, INI, query string, Base64 and CSV",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.BoolP("verbose", "v", false, "enable debug logging")
	pf.StringP("from", "f", "", "input format; detected when empty")
	pf.String("encoding", "", "character encoding of file and URL inputs (e.g. shift_jis)")

	root.AddCommand(
		a.convertCommand(),
		a.detectCommand(),
		a.inspectCommand(),
	)
	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewCommand(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// setup loads the configuration and builds the logger for a subcommand.
func (a *app) setup(cmd *cobra.Command) (*Config, *zap.Logger, error) {
	cfg, err := loadConfig(cmd, a.registry)
	if err != nil {
		return nil, nil, err
	}
	logger, err := a.newLogger(cfg.Verbose)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

// load decodes input with the format from cfg, or detects it.
func (a *app) load(ctx context.Context, input string, cfg *Config, logger *zap.Logger) (format.Identifier, iomap.Map, error) {
	opts := []iomap.Option{
		iomap.WithLogger(logger),
		iomap.WithRegistry(a.registry),
		iomap.WithEncoding(cfg.Encoding),
	}
	if cfg.From != "" {
		id := format.Identifier(cfg.From)
		m, err := iomap.From(ctx, id, input, opts...)
		return id, m, err
	}
	return iomap.Detect(ctx, input, opts...)
}
