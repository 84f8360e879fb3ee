package application

import (
	"context"
	"fmt"
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/analytics"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/schedule"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

// Clock supplies the instant a command computes at.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Settings carries the thresholds and time source shared by the services.
type Settings struct {
	Clock      Clock
	Engine     []schedule.Option
	Calculator []analytics.CalculatorOption
	// SprintEnd resolves the current sprint's last day. Nil means a ten
	// working-day sprint starting today.
	SprintEnd func(now time.Time) (ticket.Date, error)
}

func (s Settings) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

func (s Settings) engine(now time.Time) schedule.Engine {
	return schedule.NewEngine(now, s.Engine...)
}

func (s Settings) sprintEnd(now time.Time) (ticket.Date, error) {
	if s.SprintEnd != nil {
		return s.SprintEnd(now)
	}
	return schedule.SprintEnd(ticket.DateOf(now), 10, now.Location())
}

// loadTickets reads the working set.
func loadTickets(ctx context.Context, repo domain.TicketRepository) (*ticket.Set, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	set, err := repo.LoadTickets()
	if err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}
	if set == nil {
		set = &ticket.Set{}
	}
	return set, nil
}

// refreshBlockedDays raises each blocked ticket's DaysBlocked to the working
// days elapsed since it entered its blocked status, so a ticket blocked from
// the CLI ages without further edits. Imported counters are never lowered.
func refreshBlockedDays(tickets []ticket.Ticket, now time.Time) []ticket.Ticket {
	out := make([]ticket.Ticket, len(tickets))
	for i, t := range tickets {
		t = t.Clone()
		if t.Status.IsBlocked() {
			if n := len(t.EventLog); n > 0 && t.EventLog[n-1].Status == t.Status {
				if days := schedule.WorkingDaysBetween(t.EventLog[n-1].Timestamp, now); days > t.DaysBlocked {
					t.DaysBlocked = days
				}
			}
		}
		out[i] = t
	}
	return out
}
