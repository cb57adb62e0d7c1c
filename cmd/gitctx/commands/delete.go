package commands

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gitctx/cmd/gitctx/opts"
)

// NewDeleteCmd creates a new delete command
func NewDeleteCmd(opts *opts.RootOpts) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a context and its config fragment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			if !force {
				confirmed := false
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Delete context %q and its config fragment?", name),
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return errors.Errorf("reading confirmation: %w", err)
				}
				if !confirmed {
					pterm.Info.Println("Aborted.")
					return nil
				}
			}

			if err := opts.Store.Remove(ctx, name); err != nil {
				return err
			}

			pterm.Success.Printfln("Deleted context %q", name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")
	return cmd
}
