// Package dashboard serves the team pulse over HTTP and pushes fresh
// snapshots to browsers over a websocket.
package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/application"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/analytics"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/schedule"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

//go:embed templates/*
var templatesFS embed.FS

// TeamProvider projects developer queues.
type TeamProvider interface {
	Snapshot(ctx context.Context) (application.TeamSnapshot, error)
	Developer(ctx context.Context, name string) (schedule.SimulatedDeveloper, error)
}

// KPIProvider computes the team KPIs.
type KPIProvider interface {
	Summary(ctx context.Context) (analytics.Summary, error)
}

// Pulse is the combined payload rendered on the index page and pushed to
// websocket clients.
type Pulse struct {
	Team application.TeamSnapshot `json:"team"`
	KPI  analytics.Summary        `json:"kpi"`
}

// Server is the dashboard HTTP server.
type Server struct {
	addr   string
	team   TeamProvider
	kpi    KPIProvider
	hub    *Hub
	logger *slog.Logger
	server *http.Server
	tmpl   *template.Template
}

// NewServer creates a new dashboard server.
func NewServer(addr string, team TeamProvider, kpi KPIProvider, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	funcMap := template.FuncMap{
		"formatTime": formatTime,
		"formatDays": formatDays,
		"rowClass":   rowClass,
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	return &Server{
		addr:   addr,
		team:   team,
		kpi:    kpi,
		hub:    NewHub(logger),
		logger: logger,
		tmpl:   tmpl,
	}, nil
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/team", s.handleAPITeam)
	mux.HandleFunc("GET /api/developers/{name}", s.handleAPIDeveloper)
	mux.HandleFunc("GET /api/kpi", s.handleAPIKPI)
	mux.HandleFunc("GET /api/insights", s.handleAPIInsights)
	mux.HandleFunc("GET /ws", s.handleWS)

	return mux
}

// Start starts the dashboard server. It blocks until the server stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
	}

	s.logger.Info("dashboard server starting", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown disconnects websocket clients and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Publish recomputes the pulse and pushes it to every websocket client.
func (s *Server) Publish(ctx context.Context) error {
	pulse, err := s.pulse(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(pulse)
	if err != nil {
		return fmt.Errorf("marshal pulse: %w", err)
	}
	s.hub.Broadcast(data)
	return nil
}

func (s *Server) pulse(ctx context.Context) (Pulse, error) {
	snapshot, err := s.team.Snapshot(ctx)
	if err != nil {
		return Pulse{}, err
	}
	summary, err := s.kpi.Summary(ctx)
	if err != nil {
		return Pulse{}, err
	}
	return Pulse{Team: snapshot, KPI: summary}, nil
}

// PageData holds data for template rendering.
type PageData struct {
	Title string
	Pulse Pulse
	Error string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := PageData{Title: "Team pulse"}

	pulse, err := s.pulse(r.Context())
	if err != nil {
		data.Error = err.Error()
	} else {
		data.Pulse = pulse
	}

	s.render(w, "index.html", data)
}

func (s *Server) handleAPITeam(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.team.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, snapshot)
}

func (s *Server) handleAPIDeveloper(w http.ResponseWriter, r *http.Request) {
	dev, err := s.team.Developer(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, dev)
}

func (s *Server) handleAPIKPI(w http.ResponseWriter, r *http.Request) {
	summary, err := s.kpi.Summary(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, summary)
}

func (s *Server) handleAPIInsights(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.team.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"generated_at": snapshot.GeneratedAt,
		"insights":     snapshot.Insights,
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	pulse, err := s.pulse(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	initial, err := json.Marshal(pulse)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.hub.Serve(w, r, initial)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template error", "template", name, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, application.ErrDeveloperNotFound) {
		status = http.StatusNotFound
	} else {
		s.logger.Error("dashboard request failed", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Template helper functions
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}

func formatDays(d float64) string {
	return fmt.Sprintf("%.1f", d)
}

func rowClass(t schedule.SimulatedTicket) string {
	switch {
	case t.IsBlocked:
		return "row-blocked"
	case t.IsRisk:
		return "row-risk"
	case t.Status == ticket.StatusNotStarted:
		return "row-pending"
	default:
		return "row-active"
	}
}
