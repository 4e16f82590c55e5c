package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

// dumper prints decoded values with their Go types, which shows how each
// format's scalars came out (string vs int64 vs float64).
var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func (a *app) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <input>",
		Short: "Dump the decoded mapping of an input with Go types",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := a.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			id, m, err := a.load(cmd.Context(), args[0], cfg, logger)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(a.stdout, "format: %s\n", id); err != nil {
				return err
			}
			dumper.Fdump(a.stdout, map[string]any(m))
			return nil
		},
	}
}
