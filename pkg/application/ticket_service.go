package application

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/schedule"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

// TicketService applies dashboard edits to the working set. Every mutation
// is persisted, logged to the activity log, and answered with the affected
// developer's fresh projection.
type TicketService struct {
	repo       domain.TicketRepository
	simulation *SimulationService
	settings   Settings
	logger     *slog.Logger
}

func NewTicketService(repo domain.TicketRepository, simulation *SimulationService, settings Settings, logger *slog.Logger) *TicketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TicketService{repo: repo, simulation: simulation, settings: settings, logger: logger}
}

// mutate loads the set, applies fn to the ticket, saves, and records the event.
func (s *TicketService) mutate(ctx context.Context, id, action string, fn func(t *ticket.Ticket) (map[string]string, error)) (schedule.SimulatedDeveloper, error) {
	set, err := loadTickets(ctx, s.repo)
	if err != nil {
		return schedule.SimulatedDeveloper{}, err
	}
	t, err := set.Get(id)
	if err != nil {
		return schedule.SimulatedDeveloper{}, err
	}
	previousOwner := t.Owner

	details, err := fn(t)
	if err != nil {
		return schedule.SimulatedDeveloper{}, err
	}
	owner := t.Owner

	if err := s.repo.SaveTickets(set); err != nil {
		return schedule.SimulatedDeveloper{}, fmt.Errorf("save tickets: %w", err)
	}
	if err := s.repo.RecordEvent(domain.Event{
		Timestamp: s.settings.now(),
		Action:    action,
		TicketID:  id,
		Details:   details,
	}); err != nil {
		s.logger.Warn("failed to record activity", "action", action, "ticket", id, "error", err)
	}

	attrs := []any{"ticket", id, "owner", owner}
	for k, v := range details {
		attrs = append(attrs, k, v)
	}
	s.logger.Info(action, attrs...)
	if previousOwner != owner {
		s.logger.Debug("ticket moved between queues", "ticket", id, "from", previousOwner, "to", owner)
	}

	return s.simulation.developer(set.Tickets, owner)
}

// Block moves a ticket into a blocked status attributed to source. An empty
// status means the generic Blocked status.
func (s *TicketService) Block(ctx context.Context, id string, status ticket.Status, source string) (schedule.SimulatedDeveloper, error) {
	return s.mutate(ctx, id, domain.ActionBlock, func(t *ticket.Ticket) (map[string]string, error) {
		if err := t.Block(status, source, s.settings.now()); err != nil {
			return nil, err
		}
		return map[string]string{"status": string(t.Status), "source": source}, nil
	})
}

// Unblock resolves a ticket's blocker.
func (s *TicketService) Unblock(ctx context.Context, id string) (schedule.SimulatedDeveloper, error) {
	return s.mutate(ctx, id, domain.ActionUnblock, func(t *ticket.Ticket) (map[string]string, error) {
		source := t.BlockedBy
		if err := t.Unblock(s.settings.now()); err != nil {
			return nil, err
		}
		return map[string]string{"status": string(t.Status), "resolved": source}, nil
	})
}

// Close marks a ticket done. The returned projection no longer includes it.
func (s *TicketService) Close(ctx context.Context, id string) (schedule.SimulatedDeveloper, error) {
	return s.mutate(ctx, id, domain.ActionClose, func(t *ticket.Ticket) (map[string]string, error) {
		if err := t.Close(s.settings.now()); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// Reassign moves a ticket to owner's queue at rank. A nil rank puts it last.
// last_updated tracks status changes only and is left alone.
func (s *TicketService) Reassign(ctx context.Context, id, owner string, rank *int) (schedule.SimulatedDeveloper, error) {
	if owner == "" {
		return schedule.SimulatedDeveloper{}, fmt.Errorf("reassign %s: owner is required", id)
	}
	return s.mutate(ctx, id, domain.ActionReassign, func(t *ticket.Ticket) (map[string]string, error) {
		details := map[string]string{"from": t.Owner, "to": owner}
		t.Owner = owner
		t.Rank = nil
		if rank != nil {
			r := *rank
			t.Rank = &r
			details["rank"] = strconv.Itoa(r)
		}
		return details, nil
	})
}

// SetETA changes a ticket's ETA. A zero date clears it.
func (s *TicketService) SetETA(ctx context.Context, id string, eta ticket.Date) (schedule.SimulatedDeveloper, error) {
	return s.mutate(ctx, id, domain.ActionSetETA, func(t *ticket.Ticket) (map[string]string, error) {
		details := map[string]string{"from": t.ETA.String(), "to": eta.String()}
		t.ETA = eta
		return details, nil
	})
}

// Activity returns the working-set activity log, oldest first.
func (s *TicketService) Activity(ctx context.Context) ([]domain.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.repo.LoadEvents()
}
