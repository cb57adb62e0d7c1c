package commands

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gitctx/cmd/gitctx/opts"
	"github.com/walteh/gitctx/pkg/scan"
)

// NewDetectCmd creates a new detect command
func NewDetectCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [path]",
		Short: "Show which context claims the repository at path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			if path == "." {
				cwd, err := os.Getwd()
				if err != nil {
					return errors.Errorf("getting working directory: %w", err)
				}
				path = cwd
			}

			contexts, err := opts.Store.Load(ctx)
			if err != nil {
				return err
			}

			match, root := scan.DetectHere(ctx, contexts, path, opts.HomeDir)
			if root == "" {
				pterm.Warning.Printfln("%s is not inside a git repository", path)
				return nil
			}
			if match == nil {
				pterm.Warning.Printfln("no context claims %s", root)
				return nil
			}

			pterm.Success.Printfln("%s -> %s (matched by %s pattern)", root, match.Context.Name, match.Source)
			return nil
		},
	}
}
