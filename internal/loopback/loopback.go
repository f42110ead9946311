// Package loopback receives the OAuth callback for terminal clients on a
// 127.0.0.1 listener.
package loopback

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jrsteele09/go-issue-workspace/authflow"
	"github.com/jrsteele09/go-issue-workspace/session"
	"github.com/rs/zerolog/log"
)

// ErrClosed is returned by Wait after Close.
var ErrClosed = errors.New("loopback listener closed")

var resultPage = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 10vh">
<h1>{{.Title}}</h1><p>{{.Message}}</p>
</body></html>`))

type callback struct {
	params authflow.CallbackParams
	reply  chan error
}

// Server accepts exactly one callback. Later requests are told the sign-in
// has already been handled.
type Server struct {
	listener net.Listener
	srv      *http.Server
	path     string

	accepted  atomic.Bool
	callbacks chan callback
	once      sync.Once
	closed    chan struct{}

	mu      sync.Mutex
	pending chan error
}

// Listen binds 127.0.0.1:port. Port 0 picks a free port.
func Listen(port int) (*Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("listening for callback: %w", err)
	}
	s := &Server{
		listener:  ln,
		path:      session.CallbackPath,
		callbacks: make(chan callback, 1),
		closed:    make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+s.path, s.handleCallback)
	s.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Msg("loopback callback server stopped")
		}
	}()
	return s, nil
}

// RedirectURI is the callback URL to register with the authorization request.
func (s *Server) RedirectURI() string {
	return "http://" + s.listener.Addr().String() + s.path
}

// Wait blocks until the browser arrives at the callback or ctx is done.
func (s *Server) Wait(ctx context.Context) (authflow.CallbackParams, error) {
	select {
	case cb := <-s.callbacks:
		s.mu.Lock()
		s.pending = cb.reply
		s.mu.Unlock()
		return cb.params, nil
	case <-ctx.Done():
		return authflow.CallbackParams{}, ctx.Err()
	case <-s.closed:
		return authflow.CallbackParams{}, ErrClosed
	}
}

// Respond tells the waiting browser how the attempt ended.
func (s *Server) Respond(err error) {
	s.mu.Lock()
	reply := s.pending
	s.pending = nil
	s.mu.Unlock()
	if reply != nil {
		reply <- err
	}
}

func (s *Server) Close() error {
	s.once.Do(func() { close(s.closed) })
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if !s.accepted.CompareAndSwap(false, true) {
		render(w, http.StatusConflict, "Already handled", "This sign-in has already been received. You can close this window.")
		return
	}
	cb := callback{params: authflow.ParseCallback(r.URL.Query()), reply: make(chan error, 1)}
	s.callbacks <- cb

	select {
	case err := <-cb.reply:
		if err != nil {
			render(w, http.StatusBadRequest, "Sign-in failed", err.Error())
			return
		}
		render(w, http.StatusOK, "Signed in", "You can close this window and return to the terminal.")
	case <-r.Context().Done():
	case <-s.closed:
		render(w, http.StatusServiceUnavailable, "Sign-in cancelled", "The terminal stopped waiting for this sign-in.")
	}
}

func render(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.WriteHeader(status)
	_ = resultPage.Execute(w, map[string]string{"Title": title, "Message": message})
}
