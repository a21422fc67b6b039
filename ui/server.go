// Package ui serves a read-only inspector over the report JSON artifacts
// written by the weld and parity services.
package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"

	"umcp/app"
)

// Config holds server configuration.
type Config struct {
	Port      string
	ReportDir string
}

// Server exposes the report directory over HTTP.
type Server struct {
	router    *chi.Mux
	reportDir string
	port      string
}

// NewServer builds the router. The report directory must exist.
func NewServer(cfg Config) (*Server, error) {
	info, err := os.Stat(cfg.ReportDir)
	if err != nil {
		return nil, fmt.Errorf("report dir %s: %w", cfg.ReportDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("report dir %s is not a directory", cfg.ReportDir)
	}

	s := &Server{
		router:    chi.NewRouter(),
		reportDir: cfg.ReportDir,
		port:      cfg.Port,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/", s.handleOverview)
	s.router.Get("/reports", s.handleList)
	s.router.Get("/reports/{name}", s.handleReport)
}

// Start serves until the context is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.router,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// handleOverview renders a markdown summary of every report in the
// directory.
func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	names, err := s.reportNames()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var b strings.Builder
	b.WriteString("# Continuity Reports\n\n")
	if len(names) == 0 {
		b.WriteString("No reports found.\n")
	}
	for _, name := range names {
		report, err := app.LoadReport(filepath.Join(s.reportDir, name))
		if err != nil {
			fmt.Fprintf(&b, "- `%s` (unreadable: %v)\n", name, err)
			continue
		}
		fmt.Fprintf(&b, "- [`%s`](/reports/%s) run `%s`: %d boundaries, cum |Δκ| %.6g\n",
			name, name, report.RunID, report.Summary.Boundaries,
			report.Summary.CumKappaJump)
	}

	html := markdown.ToHTML([]byte(b.String()), nil, nil)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
}

// handleList returns the report filenames as JSON.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	names, err := s.reportNames()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(names)
}

// handleReport streams one report file. The name is restricted to the
// report directory.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if name != filepath.Base(name) || !strings.HasSuffix(name, ".json") {
		http.Error(w, "invalid report name", http.StatusBadRequest)
		return
	}
	path := filepath.Join(s.reportDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		http.Error(w, "report not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) reportNames() ([]string, error) {
	entries, err := os.ReadDir(s.reportDir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
