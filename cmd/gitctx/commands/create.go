package commands

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gitctx/cmd/gitctx/opts"
	"github.com/walteh/gitctx/pkg/identity"
)

// NewCreateCmd creates a new create command
func NewCreateCmd(opts *opts.RootOpts) *cobra.Command {
	var (
		template     string
		description  string
		userName     string
		userEmail    string
		signingKey   string
		gpgSign      bool
		pathPatterns []string
		urlPatterns  []string
	)

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new context",
		Long: `Create a new context, optionally from a built-in template. Identity
fields not given as flags are prompted for interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				prompt := &survey.Input{Message: "Context name (e.g. work, personal):"}
				if err := survey.AskOne(prompt, &name, survey.WithValidator(survey.Required)); err != nil {
					return errors.Errorf("reading context name: %w", err)
				}
			}

			if template == "" && !cmd.Flags().Changed("template") {
				template = opts.Settings.DefaultTemplate
			}

			var c identity.Context
			if template != "" {
				var err error
				c, err = identity.FromTemplate(name, template)
				if err != nil {
					return err
				}
			} else {
				c = identity.New(name, description, nil, nil, nil)
			}
			if description != "" {
				c.Description = identity.SanitizeDescription(description)
			}

			if userName == "" && c.UserName() == "" {
				prompt := &survey.Input{Message: "Git user name:"}
				if err := survey.AskOne(prompt, &userName, survey.WithValidator(survey.Required)); err != nil {
					return errors.Errorf("reading user name: %w", err)
				}
			}
			if userEmail == "" && c.UserEmail() == "" {
				prompt := &survey.Input{Message: "Git email:"}
				if err := survey.AskOne(prompt, &userEmail, survey.WithValidator(survey.Required)); err != nil {
					return errors.Errorf("reading email: %w", err)
				}
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
			c.PathPatterns = append(c.PathPatterns, pathPatterns...)
			c.URLPatterns = append(c.URLPatterns, urlPatterns...)

			if err := opts.Store.Add(ctx, c); err != nil {
				return err
			}

			pterm.Success.Printfln("Created context %q", c.Name)
			if len(c.EffectivePathPatterns()) == 0 {
				pterm.Info.Println("No path patterns yet; add one with `gitctx edit` so repositories can pick this context up.")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "", "built-in template to start from")
	cmd.Flags().StringVar(&description, "description", "", "context description")
	cmd.Flags().StringVar(&userName, "user-name", "", "git user.name")
	cmd.Flags().StringVar(&userEmail, "email", "", "git user.email")
	cmd.Flags().StringVar(&signingKey, "signing-key", "", "git user.signingkey (hex)")
	cmd.Flags().BoolVar(&gpgSign, "gpg-sign", false, "enable commit.gpgsign")
	cmd.Flags().StringSliceVar(&pathPatterns, "path-pattern", nil, "path glob selecting this context (repeatable)")
	cmd.Flags().StringSliceVar(&urlPatterns, "url-pattern", nil, "remote URL glob selecting this context (repeatable)")

	return cmd
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
