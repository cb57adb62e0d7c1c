package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/walteh/gitctx/cmd/gitctx/opts"
	"github.com/walteh/gitctx/pkg/scan"
)

// NewScanCmd creates a new scan command
func NewScanCmd(opts *opts.RootOpts) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "scan <root>",
		Short: "Scan a directory tree and report each repository's context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			contexts, err := opts.Store.Load(ctx)
			if err != nil {
				return err
			}

			reports, err := scan.Scan(ctx, contexts, args[0], filter, opts.HomeDir)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				pterm.Info.Println("No repositories found.")
				return nil
			}

			rows := pterm.TableData{{"REPOSITORY", "REMOTE", "CONTEXT"}}
			for _, r := range reports {
				name := "-"
				if r.Match != nil {
					name = r.Match.Context.Name
				}
				rows = append(rows, []string{r.Path, r.RemoteURL, name})
			}
			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "doublestar glob on repository paths (e.g. 'work/**')")
	return cmd
}
