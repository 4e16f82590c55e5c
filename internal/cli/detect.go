package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) detectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <input>",
		Short: "Print the format of an input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := a.setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			id, _, err := a.load(cmd.Context(), args[0], cfg, logger)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, id)
			return err
		},
	}
}
