package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/walteh/gitctx/cmd/gitctx/opts"
	"github.com/walteh/gitctx/pkg/identity"
)

// NewEditCmd creates a new edit command
func NewEditCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		description  string
		userName     string
		userEmail    string
		signingKey   string
		gpgSign      bool
		pathPatterns []string
		urlPatterns  []string
		addPath      []string
		addURL       []string
	)

	cmd := &cobra.Command{
		Use:   "edit <name>",
		Short: "Edit an existing context",
		Long: `Edit fields of an existing context. --path-pattern and --url-pattern
replace the pattern lists; --add-path-pattern and --add-url-pattern append.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := opts.Store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("description") {
				c.Description = identity.SanitizeDescription(description)
			}
			if userName != "" {
				c.GitConfig["user.name"] = userName
			}
			if userEmail != "" {
				c.GitConfig["user.email"] = userEmail
			}
			if signingKey != "" {
				c.GitConfig["user.signingkey"] = signingKey
			}
			if cmd.Flags().Changed("gpg-sign") {
				c.GitConfig["commit.gpgsign"] = boolValue(gpgSign)
			}
			if cmd.Flags().Changed("path-pattern") {
				c.PathPatterns = pathPatterns
			}
			if cmd.Flags().Changed("url-pattern") {
				c.URLPatterns = urlPatterns
			}
			c.PathPatterns = append(c.PathPatterns, addPath...)
			c.URLPatterns = append(c.URLPatterns, addURL...)

			if err := opts.Store.Update(ctx, c); err != nil {
				return err
			}

			pterm.Success.Printfln("Updated context %q", c.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "context description")
	cmd.Flags().StringVar(&userName, "user-name", "", "git user.name")
	cmd.Flags().StringVar(&userEmail, "email", "", "git user.email")
	cmd.Flags().StringVar(&signingKey, "signing-key", "", "git user.signingkey (hex)")
	cmd.Flags().BoolVar(&gpgSign, "gpg-sign", false, "enable commit.gpgsign")
	cmd.Flags().StringSliceVar(&pathPatterns, "path-pattern", nil, "replace path glob list (repeatable)")
	cmd.Flags().StringSliceVar(&urlPatterns, "url-pattern", nil, "replace remote URL glob list (repeatable)")
	cmd.Flags().StringSliceVar(&addPath, "add-path-pattern", nil, "append a path glob (repeatable)")
	cmd.Flags().StringSliceVar(&addURL, "add-url-pattern", nil, "append a remote URL glob (repeatable)")

	return cmd
}
