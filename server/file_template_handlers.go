package server

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const (
	pageLayout    = "layout.html"
	pageIndex     = "index.html"
	pageWorkspace = "workspace.html"
	pageAuthError = "auth_error.html"
	pageNotFound  = "not_found.html"
)

func TemplateFilesFS() fs.FS {
	// Create the sub filesystem once
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a page together with the shared layout
func ParseTemplate(name string) (*template.Template, error) {
	return template.New(name).ParseFS(TemplateFilesFS(), pageLayout, name)
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{pageIndex, pageWorkspace, pageAuthError, pageNotFound} {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, err
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// renderPage executes into a buffer first so a template error never leaves a
// half-written page behind a 200.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]interface{}) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Ctx(r.Context()).Error().Str("page", name).Msg("unknown page template")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, pageLayout, data); err != nil {
		log.Ctx(r.Context()).Err(err).Str("page", name).Msg("failed to render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
