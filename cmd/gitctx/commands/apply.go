package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/walteh/gitctx/cmd/gitctx/opts"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Regenerate fragments and the managed git config block",
		Long: `Apply rewrites every context's config fragment and regenerates the
conditional-include block in the global git config from the stored contexts.
Run it after editing the context list by hand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Store.Apply(cmd.Context()); err != nil {
				return err
			}
			pterm.Success.Println("Global git config is in sync.")
			return nil
		},
	}
}
