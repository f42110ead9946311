// Package cli implements the terminal client: sign in through the browser,
// inspect the stored session and sign out.
package cli

import (
	"context"
	"os"
	"time"

	"github.com/jrsteele09/go-issue-workspace/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var (
		envFile string
		verbose bool
	)
	root := &cobra.Command{
		Use:   "issue-workspace",
		Short: "Sign in to GitHub for the issue workspace from a terminal",
		Long: `Sign in to GitHub for the issue workspace from a terminal.

The login command opens your browser on GitHub's authorization page and
listens on 127.0.0.1 for the redirect back. The token is stored in the
session file (SESSION_FILE) for later commands.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			setupLogger(verbose)
			if envFile != "" {
				return config.LoadDotEnv(envFile)
			}
			return config.LoadDotEnv()
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "environment file to load (default .env)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newLoginCommand(), newWhoAmICommand(), newLogoutCommand())
	return root
}

func ExecuteContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func setupLogger(verbose bool) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}
