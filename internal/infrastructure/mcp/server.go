// Package mcp exposes the team projection and KPIs as MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/naineet-code/engineer-velocity-view/internal/infrastructure/wiring"
	"github.com/naineet-code/engineer-velocity-view/pkg/application"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
	"github.com/naineet-code/engineer-velocity-view/pkg/storage"
)

type Server struct {
	mcpServer     *mcp.Server
	simulationSvc *application.SimulationService
	kpiSvc        *application.KPIService
	logger        *slog.Logger
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
func mcpErr(friendly string) error {
	return errors.New(friendly)
}

// toolErr maps service errors onto messages an MCP client can act on.
func toolErr(err error, fallback string) error {
	switch {
	case errors.Is(err, storage.ErrNotInitialized):
		return mcpErr("Workspace not initialized. Run 'velocity init' and import tickets first.")
	case errors.Is(err, application.ErrDeveloperNotFound):
		return mcpErr(err.Error())
	default:
		return mcpErr(fallback)
	}
}

func NewServer(services *wiring.AppServices, logger *slog.Logger) (*Server, error) {
	if services == nil {
		return nil, fmt.Errorf("services initialization returned nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	info := mcp.ServerInfo{
		Name:    "velocity",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("Velocity MCP Server"),
			mcp.WithDescription("Projects developer ticket queues forward in working days and reports team KPIs."),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Use velocity_team for every queue, velocity_developer for one person, velocity_kpi for the team pulse and velocity_eta_risk for tickets likely to miss their ETA."),
		),
		simulationSvc: services.Simulation,
		kpiSvc:        services.KPI,
		logger:        logger,
	}

	s.registerTools()
	s.registerSchemaResource()
	return s, nil
}

type DeveloperArgs struct {
	Name string `json:"name" jsonschema:"description=Developer name exactly as it appears in the owner field"`
}

type KPIArgs struct {
	Developer string `json:"developer,omitempty" jsonschema:"description=Optional developer name to return a single developer card"`
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("velocity_team").
		Description("Project every developer's open ticket queue with start, end and risk flags").
		Handler(s.handleTeam)

	s.mcpServer.Tool("velocity_developer").
		Description("Project one developer's open ticket queue").
		Handler(s.handleDeveloper)

	s.mcpServer.Tool("velocity_insights").
		Description("List the highest priority team insights (blocked, at-risk, overloaded or idle developers)").
		Handler(s.handleInsights)

	s.mcpServer.Tool("velocity_kpi").
		Description("Compute team KPIs: blocked tickets, ETA risk, closures, time distribution and velocity").
		Handler(s.handleKPI)

	s.mcpServer.Tool("velocity_eta_risk").
		Description("List open tickets whose projected finish falls after their ETA").
		Handler(s.handleETARisk)

	s.mcpServer.Tool("velocity_sprint").
		Description("Split each developer's queue into work that fits the current sprint and work that spills over").
		Handler(s.handleSprint)
}

func (s *Server) handleTeam(ctx context.Context, _ struct{}) (any, error) {
	snapshot, err := s.simulationSvc.Snapshot(ctx)
	if err != nil {
		return nil, toolErr(err, "Failed to project the team queues.")
	}
	return snapshot, nil
}

func (s *Server) handleDeveloper(ctx context.Context, args DeveloperArgs) (any, error) {
	if args.Name == "" {
		return nil, mcpErr("name is required")
	}
	dev, err := s.simulationSvc.Developer(ctx, args.Name)
	if err != nil {
		return nil, toolErr(err, "Failed to project the developer queue.")
	}
	return dev, nil
}

func (s *Server) handleInsights(ctx context.Context, _ struct{}) (any, error) {
	insights, err := s.simulationSvc.Insights(ctx)
	if err != nil {
		return nil, toolErr(err, "Failed to generate insights.")
	}
	if len(insights) == 0 {
		return "No insights: nobody is blocked, at risk, overloaded or idle.", nil
	}
	return insights, nil
}

func (s *Server) handleKPI(ctx context.Context, args KPIArgs) (any, error) {
	if args.Developer != "" {
		m, err := s.kpiSvc.DeveloperMetrics(ctx, args.Developer)
		if err != nil {
			return nil, toolErr(err, "Failed to compute developer metrics.")
		}
		return m, nil
	}
	summary, err := s.kpiSvc.Summary(ctx)
	if err != nil {
		return nil, toolErr(err, "Failed to compute KPIs.")
	}
	return summary, nil
}

// RiskReport is the velocity_eta_risk payload.
type RiskReport struct {
	Count      int             `json:"count"`
	Developers []string        `json:"developers"`
	Tickets    []ticket.Ticket `json:"tickets"`
}

func (s *Server) handleETARisk(ctx context.Context, _ struct{}) (any, error) {
	tickets, err := s.kpiSvc.ETARisk(ctx)
	if err != nil {
		return nil, toolErr(err, "Failed to compute ETA risk.")
	}
	report := RiskReport{Count: len(tickets), Developers: []string{}, Tickets: tickets}
	seen := make(map[string]bool)
	for _, t := range tickets {
		if !seen[t.Owner] {
			seen[t.Owner] = true
			report.Developers = append(report.Developers, t.Owner)
		}
	}
	return report, nil
}

func (s *Server) handleSprint(ctx context.Context, _ struct{}) (any, error) {
	plan, err := s.simulationSvc.Sprint(ctx)
	if err != nil {
		return nil, toolErr(err, "Failed to plan the sprint.")
	}
	return plan, nil
}

func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Debug("mcp serving on stdio")
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	s.logger.Info("mcp serving over http", "addr", addr)
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}
