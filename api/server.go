package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DeafMist/newsdesk/internal/store"
	"github.com/DeafMist/newsdesk/internal/theme"
)

const fetchTimeout = 15 * time.Second

type newsStore interface {
	Snapshot() store.Snapshot
	FetchNews(ctx context.Context, category string) error
	SearchNews(ctx context.Context, query string) error
	ToggleAutoRefresh() bool
}

type server struct {
	log    *slog.Logger
	news   newsStore
	themes *theme.Store
}

type errorResponse struct {
	Error string `json:"error"`
}

type themeBody struct {
	Theme theme.Theme `json:"theme"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/news", func(r chi.Router) {
		r.Get("/", s.handleSnapshot)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/search", s.handleSearch)
		r.Post("/auto-refresh/toggle", s.handleToggleAutoRefresh)
	})

	r.Route("/theme", func(r chi.Router) {
		r.Get("/", s.handleGetTheme)
		r.Put("/", s.handleSetTheme)
		r.Post("/toggle", s.handleToggleTheme)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.news.Snapshot())
}

func (s *server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if err := s.news.FetchNews(ctx, category); err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, s.news.Snapshot())
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "q is required"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()

	if err := s.news.SearchNews(ctx, query); err != nil {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, s.news.Snapshot())
}

func (s *server) handleToggleAutoRefresh(w http.ResponseWriter, _ *http.Request) {
	enabled := s.news.ToggleAutoRefresh()
	s.log.Info("auto refresh toggled", slog.Bool("enabled", enabled))
	writeJSON(w, http.StatusOK, s.news.Snapshot())
}

func (s *server) handleGetTheme(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, themeBody{Theme: s.themes.Current()})
}

func (s *server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid body"})
		return
	}
	if err := s.themes.Set(body.Theme); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, themeBody{Theme: s.themes.Current()})
}

func (s *server) handleToggleTheme(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, themeBody{Theme: s.themes.Toggle()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
