package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/gitctx/cmd/gitctx/commands"
	"github.com/walteh/gitctx/cmd/gitctx/opts"
	"github.com/walteh/gitctx/pkg/fileio"
	"github.com/walteh/gitctx/pkg/settings"
	"github.com/walteh/gitctx/pkg/store"
)

var (
	// Flags
	settingsFile string
	debug        bool
)

// NewRootCmd creates the gitctx root command.
func NewRootCmd() *cobra.Command {
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "gitctx",
		Short: "Manage named git identity contexts",
		Long: `gitctx keeps named git identities (user name, email, signing key) and
routes each repository to the right one through conditional includes in your
global git config, selected by path or remote URL patterns.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			ctx := cmd.Context()

			home, err := os.UserHomeDir()
			if err != nil {
				return errors.Errorf("getting home directory: %w", err)
			}

			cfg, err := settings.Load(ctx, settingsFile, home)
			if err != nil {
				return errors.Errorf("loading settings: %w", err)
			}

			st, err := store.New(store.Options{
				ListPath:      cfg.ContextListPath,
				FragmentDir:   cfg.FragmentDir,
				GitConfigPath: cfg.GitConfigPath,
				HomeDir:       home,
				Coordinator:   fileio.NewCoordinator(),
			})
			if err != nil {
				return errors.Errorf("creating context store: %w", err)
			}

			rootOpts.Settings = cfg
			rootOpts.Store = st
			rootOpts.HomeDir = home
			return nil
		},
	}

	addRootFlags(cmd)

	cmd.AddCommand(
		commands.NewListCmd(rootOpts),
		commands.NewShowCmd(rootOpts),
		commands.NewCreateCmd(rootOpts),
		commands.NewEditCmd(rootOpts),
		commands.NewDeleteCmd(rootOpts),
		commands.NewApplyCmd(rootOpts),
		commands.NewDetectCmd(rootOpts),
		commands.NewScanCmd(rootOpts),
		commands.NewImportCmd(rootOpts),
		commands.NewExportCmd(rootOpts),
		commands.NewTemplateCmd(rootOpts),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&settingsFile, "settings", "s", "", "settings file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

// setupLogging configures zerolog based on flags
func setupLogging() {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	log := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log
}
