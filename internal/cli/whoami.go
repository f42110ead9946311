package cli

import (
	"errors"
	"fmt"

	"github.com/jrsteele09/go-issue-workspace/githubapi"
	apperrors "github.com/jrsteele09/go-issue-workspace/internal/errors"
	"github.com/jrsteele09/go-issue-workspace/internal/config"
	"github.com/jrsteele09/go-issue-workspace/internal/utils"
	"github.com/jrsteele09/go-issue-workspace/session"
	"github.com/spf13/cobra"
)

var (
	errNotSignedIn    = fmt.Errorf("%w: run login first", apperrors.ErrSessionNotFound)
	errSessionExpired = fmt.Errorf("%w. Please sign in again", apperrors.ErrSessionExpired)
)

func newWhoAmICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in GitHub user",
		Long: `Show the signed-in GitHub user.

The identity is fetched from GitHub with the stored token rather than read
from the cached profile. A rejected token clears the stored session.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := config.New()
			sessions := newSessionStore(c)
			sess, ok := sessions.Read()
			if !ok {
				return errNotSignedIn
			}

			gh, err := newGitHubClient(c).FetchUser(cmd.Context(), sess.AccessToken)
			if err != nil {
				if githubapi.IsUnauthorized(err) {
					if clearErr := sessions.Clear(); clearErr != nil {
						return errors.Join(errSessionExpired, clearErr)
					}
					return errSessionExpired
				}
				return fmt.Errorf("fetching identity: %w", err)
			}

			user := session.User{
				ID:        gh.ID,
				Login:     gh.Login,
				Name:      gh.DisplayName(),
				AvatarURL: gh.AvatarURL,
				Email:     utils.Value(gh.Email),
			}
			if err := sessions.Save(sess.AccessToken, user); err != nil {
				return fmt.Errorf("refreshing session: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (@%s)\n", user.Name, user.Login)
			if user.Email != "" {
				fmt.Fprintln(out, user.Email)
			}
			return nil
		},
	}
}
