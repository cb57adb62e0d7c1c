package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gitctx/cmd/gitctx/opts"
)

// NewListCmd creates a new list command
func NewListCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			contexts, err := opts.Store.Load(ctx)
			if err != nil {
				return errors.Errorf("loading contexts: %w", err)
			}

			if len(contexts) == 0 {
				pterm.Info.Println("No contexts yet. Create one with `gitctx create`.")
				return nil
			}

			rows := pterm.TableData{{"NAME", "USER", "EMAIL", "PATH PATTERNS", "URL PATTERNS"}}
			for _, c := range contexts {
				rows = append(rows, []string{
					c.Name,
					c.UserName(),
					c.UserEmail(),
					strings.Join(c.EffectivePathPatterns(), ", "),
					strings.Join(c.URLPatterns, ", "),
				})
			}

			return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		},
	}
}
