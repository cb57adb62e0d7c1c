package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/walteh/gitctx/cmd/gitctx/opts"
	"github.com/walteh/gitctx/pkg/identity"
)

// NewTemplateCmd creates a new template command
func NewTemplateCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Inspect built-in context templates",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := pterm.TableData{{"NAME", "DESCRIPTION"}}
			for _, name := range identity.TemplateNames() {
				tpl, err := identity.LookupTemplate(name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{name, tpl.Description})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	})

	return cmd
}
