package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/walteh/gitctx/cmd/gitctx/opts"
)

// NewImportCmd creates a new import command
func NewImportCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import contexts from a JSON file",
		Long: `Import reads a JSON array of context records and adds each one.
Items that fail validation or collide with an existing name are skipped and
reported; successfully imported items are kept either way.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := opts.Store.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, name := range result.Imported {
				pterm.Success.Printfln("Imported %q", name)
			}
			for _, skipped := range result.Skipped {
				name := skipped.Name
				if name == "" {
					name = "(unnamed)"
				}
				pterm.Warning.Printfln("Skipped %s: %v", name, skipped.Reason)
			}
			return nil
		},
	}
}

// NewExportCmd creates a new export command
func NewExportCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Export all contexts to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Store.Export(cmd.Context(), args[0]); err != nil {
				return err
			}
			pterm.Success.Printfln("Exported contexts to %s", args[0])
			return nil
		},
	}
}
