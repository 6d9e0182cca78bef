package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jokero/webpack.js.org/internal/router"
	"github.com/Jokero/webpack.js.org/internal/site"
	"github.com/Jokero/webpack.js.org/internal/theme"
)

// SessionCookie names the cookie carrying the visitor's session id.
const SessionCookie = "docsite_session"

const sessionMaxAge = 365 * 24 * 60 * 60

// RegisterRoutes mounts the site endpoints on the given router. The page
// handler is the catch-all and must be registered last.
func RegisterRoutes(r chi.Router, s *Server) {
	r.Get("/assets/{name}", handleAsset)
	r.Get("/search-index.json", s.handleSearchIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/view", s.handleView)
		r.Post("/theme", s.handleTheme)
		r.Post("/sidebar", s.handleSidebar)
	})

	r.Get("/*", s.handlePage)
}

// controller returns the session controller for the request, issuing a new
// session cookie when the request has none.
func (s *Server) controller(w http.ResponseWriter, r *http.Request) *site.Controller {
	id := ""
	if c, err := r.Cookie(SessionCookie); err == nil {
		if parsed, err := uuid.Parse(c.Value); err == nil {
			id = parsed.String()
		}
	}
	if id == "" {
		id = uuid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   sessionMaxAge,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s.sessions.Get(r.Context(), id)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	c := s.controller(w, r)

	view, err := c.Render(r.Context(), site.Location{Pathname: r.URL.Path})
	if err != nil {
		s.logger.Error("render failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer s.observe(view.Outcome, start)

	if view.Outcome == router.OutcomeRedirect {
		// The escaped path keeps %3F and friends out of the query.
		target := router.RedirectTarget(r.URL.EscapedPath())
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	var buf bytes.Buffer
	if err := s.renderer.Render(&buf, view); err != nil {
		s.logger.Error("template failed", zap.String("path", r.URL.Path), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if view.Outcome == router.OutcomeNotFound {
		status = http.StatusNotFound
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	view, err := s.controller(w, r).Render(r.Context(), site.Location{Pathname: path})
	if err != nil {
		s.logger.Error("render failed", zap.String("path", path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "render failed"})
		return
	}
	s.observe(view.Outcome, start)
	writeJSON(w, http.StatusOK, view)
}

type themeRequest struct {
	Theme string `json:"theme"`
}

func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	choice, err := theme.Parse(req.Theme)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	c := s.controller(w, r)
	if err := c.SwitchTheme(r.Context(), choice); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if s.metrics != nil {
		s.metrics.ThemeSwitchesTotal.WithLabelValues(string(choice)).Inc()
	}
	writeJSON(w, http.StatusOK, map[string]theme.Choice{"theme": c.Theme()})
}

type sidebarRequest struct {
	Open *bool `json:"open"`
}

// handleSidebar sets the mobile sidebar state, or toggles it when the body
// carries no "open" field.
func (s *Server) handleSidebar(w http.ResponseWriter, r *http.Request) {
	var req sidebarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	c := s.controller(w, r)
	var open bool
	if req.Open != nil {
		c.SetSidebar(*req.Open)
		open = *req.Open
	} else {
		open = c.ToggleSidebar()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"open": open})
}

func (s *Server) handleSearchIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, site.BuildSearchIndex(s.site.Source().Tree()))
}

func handleAsset(w http.ResponseWriter, r *http.Request) {
	data, contentType, ok := site.Asset(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=300")
	io.WriteString(w, data)
}

func (s *Server) observe(outcome router.Outcome, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RendersTotal.WithLabelValues(outcome.String()).Inc()
	s.metrics.RenderDurationSeconds.WithLabelValues(outcome.String()).Observe(time.Since(start).Seconds())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
