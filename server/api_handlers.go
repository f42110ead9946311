package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jrsteele09/go-issue-workspace/exchange"
	"github.com/jrsteele09/go-issue-workspace/oauthmodel"
	"github.com/rs/zerolog/log"
)

// maxExchangeBody bounds POST /api/auth/exchange bodies.
const maxExchangeBody = 16 << 10

// exchangeBody accepts any JSON type per field so that type errors get the
// same messages as bound errors.
type exchangeBody struct {
	Code         any `json:"code"`
	RedirectURI  any `json:"redirect_uri"`
	CodeVerifier any `json:"code_verifier"`
}

// AuthConfigHandler serves the public client configuration.
func (s *Server) AuthConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := s.exchange.AuthConfig(r.Context())
		if err != nil {
			status, msg := exchange.StatusOf(err)
			writeJSON(w, status, oauthmodel.ErrorResponse{Error: msg})
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

// AuthExchangeHandler redeems an authorization code with the client secret.
func (s *Server) AuthExchangeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxExchangeBody)

		var body exchangeBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}

		req, msg := body.request()
		if msg != "" {
			writeJSONError(w, http.StatusBadRequest, msg)
			return
		}

		resp, err := s.exchange.Exchange(r.Context(), req)
		if err != nil {
			status, message := exchange.StatusOf(err)
			if status >= http.StatusInternalServerError {
				log.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg("code exchange failed")
			}
			writeJSONError(w, status, message)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// request applies the type checks in field order and returns the first failure.
func (b exchangeBody) request() (oauthmodel.ExchangeRequest, string) {
	code, ok := b.Code.(string)
	if !ok || code == "" {
		return oauthmodel.ExchangeRequest{}, "Missing code"
	}
	if len(code) > exchange.MaxCodeLength {
		return oauthmodel.ExchangeRequest{}, "Invalid code"
	}
	req := oauthmodel.ExchangeRequest{Code: code}

	if b.CodeVerifier != nil {
		v, ok := b.CodeVerifier.(string)
		if !ok {
			return oauthmodel.ExchangeRequest{}, "Invalid code_verifier"
		}
		req.CodeVerifier = v
	}
	if b.RedirectURI != nil {
		v, ok := b.RedirectURI.(string)
		if !ok {
			return oauthmodel.ExchangeRequest{}, "Invalid redirect_uri"
		}
		req.RedirectURI = v
	}
	return req, ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to write JSON response")
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, oauthmodel.ErrorResponse{Error: message})
}
