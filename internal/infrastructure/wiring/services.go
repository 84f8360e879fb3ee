package wiring

import (
	"log/slog"
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/application"
)

// AppServices exposes the application layer services wired together with a workspace.
type AppServices struct {
	Workspace  *Workspace
	Settings   application.Settings
	Simulation *application.SimulationService
	KPI        *application.KPIService
	Tickets    *application.TicketService
	Import     *application.ImportService
}

// BuildAppServices constructs the services for a repo root using the wall clock.
func BuildAppServices(root string, logger *slog.Logger) (*AppServices, error) {
	return BuildAppServicesWithClock(root, time.Now, logger)
}

// BuildAppServicesWithClock is BuildAppServices with an injected wall clock.
func BuildAppServicesWithClock(root string, wall func() time.Time, logger *slog.Logger) (*AppServices, error) {
	if wall == nil {
		wall = time.Now
	}
	workspace, err := NewWorkspace(root, wall)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	// A configured now stays pinned; otherwise long-running servers keep
	// reading the wall clock in the configured zone.
	var clock application.Clock = workspace.Clock
	if !workspace.Clock.Fixed() {
		loc := workspace.Clock.Now().Location()
		clock = application.ClockFunc(func() time.Time { return wall().In(loc) })
	}

	cfg := workspace.Config
	settings := application.Settings{
		Clock:      clock,
		Engine:     cfg.EngineOptions(),
		Calculator: cfg.CalculatorOptions(),
		SprintEnd:  cfg.SprintEnd,
	}

	simulation := application.NewSimulationService(workspace.Repo, settings, logger)
	return &AppServices{
		Workspace:  workspace,
		Settings:   settings,
		Simulation: simulation,
		KPI:        application.NewKPIService(workspace.Repo, settings, logger),
		Tickets:    application.NewTicketService(workspace.Repo, simulation, settings, logger),
		Import:     application.NewImportService(workspace.Repo, settings, logger),
	}, nil
}
