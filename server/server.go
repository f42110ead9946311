package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-issue-workspace/authflow"
	"github.com/jrsteele09/go-issue-workspace/exchange"
	"github.com/jrsteele09/go-issue-workspace/githubapi"
	"github.com/jrsteele09/go-issue-workspace/internal/config"
	"github.com/jrsteele09/go-issue-workspace/ratelimit"
	"github.com/jrsteele09/go-issue-workspace/session"
	"github.com/jrsteele09/go-issue-workspace/storage"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators the server does not build itself.
type Deps struct {
	GitHub *githubapi.Client
	// Sealer encrypts the token and round-trip cookies. Required.
	Sealer storage.Sealer
	// Backend, when set, serves configuration and code exchange for the web
	// flow instead of the in-process exchange service.
	Backend interface {
		authflow.ConfigSource
		authflow.Exchanger
	}
}

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config

	github     *githubapi.Client
	exchange   *exchange.Service
	exchanger  authflow.Exchanger
	redirector *authflow.Redirector
	codes      *authflow.CodeLatch
	guard      session.Guard
	limiter    *ratelimit.Limiter
	sealer     storage.Sealer

	pages map[string]*template.Template
}

func New(c config.Config, deps Deps) (*Server, error) {
	if deps.GitHub == nil {
		return nil, fmt.Errorf("[Server New] github client is required")
	}
	if deps.Sealer == nil {
		return nil, fmt.Errorf("[Server New] cookie sealer is required")
	}

	s := &Server{
		env:     c.GetEnv(),
		mux:     http.NewServeMux(),
		config:  c,
		github:  deps.GitHub,
		guard:   session.DefaultGuard(),
		limiter: ratelimit.New(c.GetAuthRateLimit(), c.GetAuthRateWindow()),
		codes:   authflow.NewCodeLatch(c.GetRoundTripTimeout()),
		sealer:  deps.Sealer,
	}
	s.exchange = exchange.NewService(exchange.Config{
		ClientID:    c.GetClientID(),
		RedirectURI: c.GetRedirectURI(),
	}, deps.GitHub)

	var configSource authflow.ConfigSource = s.exchange
	s.exchanger = s.exchange
	if deps.Backend != nil {
		configSource = deps.Backend
		s.exchanger = deps.Backend
	}
	s.redirector = &authflow.Redirector{
		Config:       configSource,
		AuthorizeURL: c.GetAuthorizeURL(),
	}

	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}
	s.pages = pages

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Debug().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request, trustProxy bool) string {
	if r.TLS != nil {
		return "https"
	}
	if !trustProxy {
		return "http"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
