package authflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/jrsteele09/go-issue-workspace/oauthmodel"
	"github.com/jrsteele09/go-issue-workspace/session"
	"github.com/rs/zerolog/log"
)

// Exchanger redeems a validated code for a token and identity. The backend
// service satisfies it in-process and the API client satisfies it remotely.
type Exchanger interface {
	Exchange(ctx context.Context, req oauthmodel.ExchangeRequest) (oauthmodel.ExchangeResponse, error)
}

// Client runs whole attempts for a single user agent: one round-trip store, one
// session store, at most one pending attempt.
type Client struct {
	redirector *Redirector
	store      *VerifierStore
	sessions   *session.Store
	exchanger  Exchanger
	navigator  Navigator
	codes      *CodeLatch

	mu       sync.Mutex
	attempts attempts
}

// ClientConfig wires a Client.
type ClientConfig struct {
	Redirector *Redirector
	Store      *VerifierStore
	Sessions   *session.Store
	Exchanger  Exchanger
	Navigator  Navigator
	// Codes defaults to a ten minute latch private to this client.
	Codes *CodeLatch
}

func NewClient(cfg ClientConfig) *Client {
	codes := cfg.Codes
	if codes == nil {
		codes = NewCodeLatch(defaultCodeTTL)
	}
	return &Client{
		redirector: cfg.Redirector,
		store:      cfg.Store,
		sessions:   cfg.Sessions,
		exchanger:  cfg.Exchanger,
		navigator:  cfg.Navigator,
		codes:      codes,
	}
}

// Initiate starts a new attempt, superseding any attempt still in flight.
func (c *Client) Initiate(ctx context.Context) error {
	c.mu.Lock()
	c.attempts.begin()
	c.mu.Unlock()
	return c.redirector.InitiateAuthorization(ctx, c.store, c.navigator)
}

// HandleCallback validates the callback, exchanges the code and saves the session.
// The session is written only if no newer attempt began and ctx is still live
// when the exchange returns.
func (c *Client) HandleCallback(ctx context.Context, p CallbackParams) (session.User, error) {
	generation := c.attempts.load()

	if p.Code != "" && !c.codes.TryAcquire(p.Code) {
		return session.User{}, ErrDuplicateCallback
	}
	res, err := CompleteAuthorization(c.store, p)
	if err != nil {
		return session.User{}, err
	}
	return ExchangeAndSave(ctx, c.exchanger, c.sessions, res, func() bool {
		return c.attempts.load() == generation
	}, &c.mu)
}

// ExchangeAndSave redeems res and stores the session while holding mu, provided
// stillCurrent reports true and ctx has not been cancelled.
func ExchangeAndSave(ctx context.Context, ex Exchanger, sessions *session.Store, res Result, stillCurrent func() bool, mu sync.Locker) (session.User, error) {
	resp, err := ex.Exchange(ctx, oauthmodel.ExchangeRequest{
		Code:         res.Code,
		RedirectURI:  res.RedirectURI,
		CodeVerifier: res.CodeVerifier,
	})
	if err != nil {
		return session.User{}, fmt.Errorf("exchanging authorization code: %w", err)
	}

	user := session.User{
		ID:        resp.User.ID,
		Login:     resp.User.Login,
		Name:      resp.User.Name,
		AvatarURL: resp.User.AvatarURL,
		Email:     resp.User.Email,
	}

	if mu != nil {
		mu.Lock()
		defer mu.Unlock()
	}
	if ctx.Err() != nil || (stillCurrent != nil && !stillCurrent()) {
		log.Info().Str("login", user.Login).Msg("discarding exchange result for an abandoned attempt")
		return session.User{}, ErrAttemptSuperseded
	}
	if err := sessions.Save(resp.AccessToken, user); err != nil {
		return session.User{}, fmt.Errorf("saving session: %w", err)
	}
	return user, nil
}
