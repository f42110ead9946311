package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jrsteele09/go-issue-workspace/authflow"
	"github.com/jrsteele09/go-issue-workspace/internal/config"
	"github.com/jrsteele09/go-issue-workspace/internal/loopback"
	"github.com/jrsteele09/go-issue-workspace/storage"
	"github.com/rs/zerolog/log"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

// openURL opens the system browser. Replaced in tests.
var openURL = open.Start

type loginOptions struct {
	port      int
	noBrowser bool
	timeout   time.Duration
}

func newLoginCommand() *cobra.Command {
	var opts loginOptions
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with GitHub in the browser",
		Long: `Sign in with GitHub in the browser.

A local callback server is started on 127.0.0.1 and its address is sent as the
redirect_uri, so the GitHub OAuth app must allow loopback callbacks. Use
--no-browser to print the authorization URL instead of opening it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().IntVar(&opts.port, "port", 0, "loopback callback port (0 picks a free port)")
	cmd.Flags().BoolVar(&opts.noBrowser, "no-browser", false, "print the authorization URL instead of opening a browser")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "how long to wait for the browser (default 10m)")
	return cmd
}

func runLogin(ctx context.Context, out io.Writer, opts loginOptions) error {
	c := config.New()
	if opts.timeout <= 0 {
		opts.timeout = c.GetRoundTripTimeout()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	lb, err := loopback.Listen(opts.port)
	if err != nil {
		return err
	}
	defer lb.Close()

	redirectURI := lb.RedirectURI()
	be := newBackend(c, newGitHubClient(c), redirectURI)
	client := authflow.NewClient(authflow.ClientConfig{
		Redirector: &authflow.Redirector{
			Config:       be,
			AuthorizeURL: c.GetAuthorizeURL(),
			RedirectURI:  redirectURI,
		},
		Store:     authflow.NewVerifierStore(storage.NewMemoryArea()),
		Sessions:  newSessionStore(c),
		Exchanger: be,
		Navigator: browserNavigator(out, opts.noBrowser),
	})

	if err := client.Initiate(ctx); err != nil {
		return fmt.Errorf("starting sign-in: %w", err)
	}
	fmt.Fprintln(out, "Waiting for GitHub to redirect back...")

	params, err := lb.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for the browser: %w", err)
	}
	user, err := client.HandleCallback(ctx, params)
	lb.Respond(err)
	if err != nil {
		if authflow.Retryable(err) {
			return fmt.Errorf("%w (run login again to retry)", err)
		}
		return err
	}

	log.Debug().Str("login", user.Login).Msg("session saved")
	fmt.Fprintf(out, "Signed in as %s (@%s)\n", user.Name, user.Login)
	return nil
}

func browserNavigator(out io.Writer, noBrowser bool) authflow.Navigator {
	return authflow.NavigatorFunc(func(_ context.Context, u string) error {
		if !noBrowser {
			err := openURL(u)
			if err == nil {
				fmt.Fprintln(out, "Opened GitHub in your browser.")
				return nil
			}
			log.Warn().Err(err).Msg("failed to open browser automatically")
		}
		fmt.Fprintf(out, "Visit the following URL to continue:\n%s\n", u)
		return nil
	})
}
