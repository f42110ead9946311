package cli

import (
	"github.com/jrsteele09/go-issue-workspace/apiclient"
	"github.com/jrsteele09/go-issue-workspace/authflow"
	"github.com/jrsteele09/go-issue-workspace/exchange"
	"github.com/jrsteele09/go-issue-workspace/githubapi"
	"github.com/jrsteele09/go-issue-workspace/internal/config"
	"github.com/jrsteele09/go-issue-workspace/session"
	"github.com/jrsteele09/go-issue-workspace/storage"
	"github.com/rs/zerolog/log"
)

// backend is where configuration and code exchange come from.
type backend interface {
	authflow.ConfigSource
	authflow.Exchanger
}

func newGitHubClient(c config.Config) *githubapi.Client {
	return githubapi.NewClient(githubapi.Config{
		ClientID:     c.GetClientID(),
		ClientSecret: c.GetClientSecret(),
		TokenURL:     c.GetTokenURL(),
		APIURL:       c.GetGitHubAPIURL(),
	})
}

// newBackend talks to API_URL when set. Otherwise the exchange runs in this
// process with the local client secret and the loopback callback as the only
// accepted redirect.
func newBackend(c config.Config, gh *githubapi.Client, redirectURI string) backend {
	if apiURL := c.GetAPIURL(); apiURL != "" {
		log.Debug().Str("api_url", apiURL).Msg("using remote backend")
		return apiclient.New(apiURL, nil)
	}
	log.Debug().Msg("exchanging codes in-process")
	return exchange.NewService(exchange.Config{
		ClientID:    c.GetClientID(),
		RedirectURI: redirectURI,
	}, gh)
}

// newSessionStore keeps token and display snapshot in the same 0600 file.
func newSessionStore(c config.Config) *session.Store {
	area := storage.NewFileArea(c.GetSessionFile())
	return session.NewStore(area, area)
}
