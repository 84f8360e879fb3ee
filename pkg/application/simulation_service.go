package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/schedule"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

// ErrDeveloperNotFound indicates no open ticket is owned by the developer.
var ErrDeveloperNotFound = errors.New("developer not found")

// TeamSnapshot is one consistent projection of the whole team.
type TeamSnapshot struct {
	GeneratedAt time.Time                     `json:"generated_at"`
	Developers  []schedule.SimulatedDeveloper `json:"developers"`
	Insights    []string                      `json:"insights"`
}

// SimulationService projects developer queues from the working set.
type SimulationService struct {
	repo     domain.TicketRepository
	settings Settings
	logger   *slog.Logger
}

func NewSimulationService(repo domain.TicketRepository, settings Settings, logger *slog.Logger) *SimulationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulationService{repo: repo, settings: settings, logger: logger}
}

func (s *SimulationService) simulate(ctx context.Context) (schedule.Engine, []schedule.SimulatedDeveloper, error) {
	set, err := loadTickets(ctx, s.repo)
	if err != nil {
		return schedule.Engine{}, nil, err
	}
	now := s.settings.now()
	engine := s.settings.engine(now)

	devs, err := engine.SimulateTeam(refreshBlockedDays(set.Tickets, now))
	if err != nil {
		return engine, nil, fmt.Errorf("simulate team: %w", err)
	}
	s.logger.Debug("simulated team", "developers", len(devs), "tickets", len(set.Tickets), "now", engine.Now())
	return engine, devs, nil
}

// Team projects every developer's open queue.
func (s *SimulationService) Team(ctx context.Context) ([]schedule.SimulatedDeveloper, error) {
	_, devs, err := s.simulate(ctx)
	return devs, err
}

// Developer projects one developer's open queue.
func (s *SimulationService) Developer(ctx context.Context, name string) (schedule.SimulatedDeveloper, error) {
	devs, err := s.Team(ctx)
	if err != nil {
		return schedule.SimulatedDeveloper{}, err
	}
	for _, d := range devs {
		if d.Name == name {
			return d, nil
		}
	}
	return schedule.SimulatedDeveloper{}, fmt.Errorf("%w: %s", ErrDeveloperNotFound, name)
}

// Insights returns the prioritized team insights.
func (s *SimulationService) Insights(ctx context.Context) ([]string, error) {
	engine, devs, err := s.simulate(ctx)
	if err != nil {
		return nil, err
	}
	return engine.GenerateInsights(devs), nil
}

// Snapshot returns the team projection and its insights from a single load.
func (s *SimulationService) Snapshot(ctx context.Context) (TeamSnapshot, error) {
	engine, devs, err := s.simulate(ctx)
	if err != nil {
		return TeamSnapshot{}, err
	}
	return TeamSnapshot{
		GeneratedAt: engine.Now(),
		Developers:  devs,
		Insights:    engine.GenerateInsights(devs),
	}, nil
}

// Sprint plans the current sprint against each developer's projected queue.
func (s *SimulationService) Sprint(ctx context.Context) (schedule.SprintPlan, error) {
	engine, devs, err := s.simulate(ctx)
	if err != nil {
		return schedule.SprintPlan{}, err
	}
	end, err := s.settings.sprintEnd(engine.Now())
	if err != nil {
		return schedule.SprintPlan{}, fmt.Errorf("resolve sprint end: %w", err)
	}
	return engine.PlanSprint(devs, end), nil
}

// developer re-simulates one developer's queue from tickets already in hand.
func (s *SimulationService) developer(tickets []ticket.Ticket, name string) (schedule.SimulatedDeveloper, error) {
	now := s.settings.now()
	var open []ticket.Ticket
	for _, t := range refreshBlockedDays(tickets, now) {
		if t.Owner == name && !t.Status.IsClosed() {
			open = append(open, t)
		}
	}
	return s.settings.engine(now).SimulateDeveloper(ticket.Developer{Name: name, Tickets: open})
}
