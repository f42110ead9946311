package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-issue-workspace/apiclient"
	"github.com/jrsteele09/go-issue-workspace/githubapi"
	"github.com/jrsteele09/go-issue-workspace/internal/config"
	"github.com/jrsteele09/go-issue-workspace/internal/sealed"
	"github.com/jrsteele09/go-issue-workspace/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	c := config.New()
	setupLogger(c.GetEnv())
	displayAppname(c.GetAppName())

	handler, err := newHandler(c)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(srv) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func newHandler(c config.Config) (*server.Server, error) {
	if !c.IsOAuthConfigured() {
		log.Warn().Msg("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET are not both set; sign-in is disabled")
	}

	codec, err := cookieCodec(c)
	if err != nil {
		return nil, err
	}

	deps := server.Deps{
		GitHub: githubapi.NewClient(githubapi.Config{
			ClientID:     c.GetClientID(),
			ClientSecret: c.GetClientSecret(),
			TokenURL:     c.GetTokenURL(),
			APIURL:       c.GetGitHubAPIURL(),
		}),
		Sealer: codec,
	}
	if apiURL := c.GetAPIURL(); apiURL != "" {
		log.Info().Str("api_url", apiURL).Msg("exchanging codes through the remote backend")
		deps.Backend = apiclient.New(apiURL, nil)
	}

	s, err := server.New(c, deps)
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}
	return s, nil
}

// cookieCodec uses COOKIE_KEYS when present. Without it a random key is
// generated, which signs every user out on restart.
func cookieCodec(c config.Config) (*sealed.Codec, error) {
	current, keys, err := c.GetCookieKeys()
	if err != nil {
		return nil, err
	}
	if current == "" {
		if c.GetEnv() != "DEV" {
			log.Warn().Msg("COOKIE_KEYS is not set; sessions will not survive a restart")
		}
		return sealed.NewRandom()
	}
	return sealed.New(current, keys)
}

func setupLogger(env string) {
	zerolog.TimeFieldFormat = time.RFC3339
	if env == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
