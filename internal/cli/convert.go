package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yacchi/iomap"
	"github.com/yacchi/iomap/format"
	fssrc "github.com/yacchi/iomap/source/fs"
)

func (a *app) convertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Decode an input and encode it in another format",
		Long: `Decode an input and encode it in another format.

The input is a URL (http, https, s3), a file path, or the document itself.
The result is written to stdout, or to --out. With --watch the conversion
is repeated whenever the input file changes.`,
		Example: `  iomap convert config.yaml --to json --indent 2
  iomap convert 'a=1&b=2' --to yaml
  iomap convert https://example.com/data.xml --to toml --out data.toml`,
		Args: cobra.ExactArgs(1),
		RunE: a.runConvert,
	}

	f := cmd.Flags()
	f.StringP("to", "t", "", "output format (required)")
	f.StringP("out", "o", "", "write the output to this file instead of stdout")
	f.Int("indent", 0, "indentation width for formats that support it")
	f.Bool("sort-keys", false, "write keys in sorted order")
	f.BoolP("watch", "w", false, "convert again whenever the input file changes (requires --out)")
	return cmd
}

func (a *app) runConvert(cmd *cobra.Command, args []string) error {
	cfg, logger, err := a.setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.To == "" {
		return errors.New("an output format is required (--to)")
	}

	ctx := cmd.Context()
	input := args[0]

	if err := a.convert(ctx, input, cfg, logger); err != nil {
		return err
	}
	if !cfg.Watch {
		return nil
	}

	isFile, err := fssrc.IsFile(input)
	if err != nil {
		return err
	}
	if !isFile {
		return fmt.Errorf("--watch needs a file input, got %q", input)
	}

	logger.Info("watching input for changes", zap.String("path", input))
	err = fssrc.New(input).Watch(ctx,
		func() {
			if err := a.convert(ctx, input, cfg, logger); err != nil {
				logger.Error("conversion failed", zap.String("path", input), zap.Error(err))
			}
		},
		func(err error) {
			logger.Warn("watch error", zap.Error(err))
		},
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *app) convert(ctx context.Context, input string, cfg *Config, logger *zap.Logger) error {
	from, m, err := a.load(ctx, input, cfg, logger)
	if err != nil {
		return err
	}

	opts := []iomap.Option{iomap.WithRegistry(a.registry), iomap.WithLogger(logger)}
	if cfg.Indent > 0 {
		opts = append(opts, iomap.Indent(cfg.Indent))
	}
	if cfg.SortKeys {
		opts = append(opts, iomap.SortKeys())
	}
	if cfg.Out != "" {
		opts = append(opts, iomap.WithFile(cfg.Out))
	}

	to := format.Identifier(cfg.To)
	out, err := m.To(to, opts...)
	if err != nil {
		return err
	}

	logger.Debug("converted input", zap.Stringer("from", from), zap.Stringer("to", to))
	if cfg.Out != "" {
		return nil
	}
	if _, err := fmt.Fprintln(a.stdout, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
