package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/analytics"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

// KPIService computes team-pulse metrics over the working set.
type KPIService struct {
	repo     domain.TicketRepository
	settings Settings
	logger   *slog.Logger
}

func NewKPIService(repo domain.TicketRepository, settings Settings, logger *slog.Logger) *KPIService {
	if logger == nil {
		logger = slog.Default()
	}
	return &KPIService{repo: repo, settings: settings, logger: logger}
}

// Calculator snapshots the working set at the configured instant.
func (s *KPIService) Calculator(ctx context.Context) (*analytics.Calculator, error) {
	set, err := loadTickets(ctx, s.repo)
	if err != nil {
		return nil, err
	}
	now := s.settings.now()
	s.logger.Debug("kpi snapshot", "tickets", len(set.Tickets), "now", now)
	return analytics.NewCalculator(set.Tickets, now, s.settings.Calculator...), nil
}

// Summary returns every team metric from one snapshot.
func (s *KPIService) Summary(ctx context.Context) (analytics.Summary, error) {
	c, err := s.Calculator(ctx)
	if err != nil {
		return analytics.Summary{}, err
	}
	return c.Summary(), nil
}

// DeveloperMetrics returns one developer's card. Only owners present in the
// working set, open or closed, have a card.
func (s *KPIService) DeveloperMetrics(ctx context.Context, name string) (analytics.DeveloperMetrics, error) {
	c, err := s.Calculator(ctx)
	if err != nil {
		return analytics.DeveloperMetrics{}, err
	}
	if !slices.Contains(c.Developers(), name) {
		return analytics.DeveloperMetrics{}, fmt.Errorf("%w: %s", ErrDeveloperNotFound, name)
	}
	return c.DeveloperMetrics(name), nil
}

// ETARisk returns the tickets whose naive projection misses their ETA.
func (s *KPIService) ETARisk(ctx context.Context) ([]ticket.Ticket, error) {
	c, err := s.Calculator(ctx)
	if err != nil {
		return nil, err
	}
	return c.ETARiskTickets(), nil
}
