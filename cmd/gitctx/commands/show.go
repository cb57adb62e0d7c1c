package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/walteh/gitctx/cmd/gitctx/opts"
)

// NewShowCmd creates a new show command
func NewShowCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one context in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := opts.Store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)
			bold.Println(c.Name)
			if c.Description != "" {
				fmt.Println(c.Description)
			}
			fmt.Println()

			fmt.Printf("user.name:       %s\n", c.UserName())
			fmt.Printf("user.email:      %s\n", c.UserEmail())
			if key := c.SigningKey(); key != "" {
				fmt.Printf("user.signingkey: %s\n", key)
				fmt.Printf("commit.gpgsign:  %t\n", c.AutoSign())
			}

			if patterns := c.EffectivePathPatterns(); len(patterns) > 0 {
				fmt.Println()
				bold.Println("path patterns")
				for _, p := range patterns {
					fmt.Printf("  %s\n", p)
				}
			}
			if len(c.URLPatterns) > 0 {
				fmt.Println()
				bold.Println("url patterns")
				for _, p := range c.URLPatterns {
					fmt.Printf("  %s\n", p)
				}
			}

			fmt.Println()
			bold.Println("config fragment")
			fmt.Print(c.ConfigFragment())
			return nil
		},
	}
}
