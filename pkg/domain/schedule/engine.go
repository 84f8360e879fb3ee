package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

// Default thresholds.
const (
	DefaultBlockedRiskDays = 3
	DefaultOverflowDays    = 10
	DefaultMaxInsights     = 3
)

// Engine runs the forward-fill queue simulation. It holds no per-call state:
// the zero value is not usable, build one with NewEngine.
type Engine struct {
	now             time.Time
	blockedRiskDays int
	overflowDays    int
	maxInsights     int
}

// Option configures an Engine.
type Option func(*Engine)

// WithBlockedRiskDays sets the blocked-day count above which a ticket is at risk.
func WithBlockedRiskDays(days int) Option {
	return func(e *Engine) { e.blockedRiskDays = days }
}

// WithOverflowDays sets the queued-effort total above which a developer overflows.
func WithOverflowDays(days int) Option {
	return func(e *Engine) { e.overflowDays = days }
}

// WithMaxInsights caps the number of messages from GenerateInsights.
func WithMaxInsights(n int) Option {
	return func(e *Engine) { e.maxInsights = n }
}

// NewEngine creates an engine anchored at now. The time-of-day is dropped so
// every projected date is a calendar date in now's location.
func NewEngine(now time.Time, opts ...Option) Engine {
	e := Engine{
		now:             ticket.DateOf(now).In(now.Location()),
		blockedRiskDays: DefaultBlockedRiskDays,
		overflowDays:    DefaultOverflowDays,
		maxInsights:     DefaultMaxInsights,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// Now returns the simulation start date.
func (e Engine) Now() time.Time {
	return e.now
}

// SimulatedTicket is a ticket with its projected schedule.
type SimulatedTicket struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Effort          int           `json:"effort"`
	EffortRemaining int           `json:"effort_remaining"`
	Status          ticket.Status `json:"status"`
	ETA             ticket.Date   `json:"eta"`
	ProjectedStart  time.Time     `json:"projected_start"`
	ProjectedEnd    time.Time     `json:"projected_end"`
	IsRisk          bool          `json:"is_risk"`
	IsBlocked       bool          `json:"is_blocked"`
	DaysBlocked     int           `json:"days_blocked"`
	BlockedBy       string        `json:"blocked_by,omitempty"`
	Rank            *int          `json:"rank,omitempty"`
	Owner           string        `json:"owner"`
}

// SlipDays returns how many working days the projection lands past the ETA,
// or zero when on time or no ETA is set.
func (s SimulatedTicket) SlipDays() int {
	if s.ETA.IsZero() {
		return 0
	}
	return max(0, WorkingDaysBetween(s.ETA.In(s.ProjectedEnd.Location()), s.ProjectedEnd))
}

// SimulatedDeveloper aggregates one developer's projected queue.
type SimulatedDeveloper struct {
	Name               string            `json:"name"`
	Tickets            []SimulatedTicket `json:"tickets"`
	TotalEffortDays    int               `json:"total_effort_days"`
	RiskTicketCount    int               `json:"risk_ticket_count"`
	HasQueueOverflow   bool              `json:"has_queue_overflow"`
	BlockedTicketCount int               `json:"blocked_ticket_count"`
	NotStartedCount    int               `json:"not_started_count"`
	ProjectedFinish    time.Time         `json:"projected_finish"`
}

// SimulateQueue projects tickets for one developer. Tickets are stable-sorted
// by rank (unranked last) and laid end to end starting today: each ticket
// starts exactly where the previous one ends.
func (e Engine) SimulateQueue(tickets []ticket.Ticket, developer string) ([]SimulatedTicket, error) {
	ordered := make([]ticket.Ticket, len(tickets))
	copy(ordered, tickets)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RankKey() < ordered[j].RankKey()
	})

	loc := e.now.Location()
	cursor := e.now
	out := make([]SimulatedTicket, 0, len(ordered))

	for _, t := range ordered {
		remaining, err := EffortRemaining(t)
		if err != nil {
			return nil, err
		}

		blocked := t.Status.IsBlocked()
		daysBlocked := max(0, t.DaysBlocked)
		duration := remaining
		if blocked {
			duration += daysBlocked
		}

		start := cursor
		end, err := AddWorkingDays(cursor, duration)
		if err != nil {
			return nil, fmt.Errorf("ticket %s: %w", t.ID, err)
		}
		cursor = end

		missesETA := !t.ETA.IsZero() && end.After(t.ETA.In(loc))

		out = append(out, SimulatedTicket{
			ID:              t.ID,
			Title:           t.Title,
			Effort:          t.Effort,
			EffortRemaining: remaining,
			Status:          t.Status,
			ETA:             t.ETA,
			ProjectedStart:  start,
			ProjectedEnd:    end,
			IsRisk:          missesETA || daysBlocked > e.blockedRiskDays,
			IsBlocked:       blocked,
			DaysBlocked:     daysBlocked,
			BlockedBy:       t.BlockedBy,
			Rank:            t.Rank,
			Owner:           developer,
		})
	}

	return out, nil
}

// SimulateDeveloper wraps SimulateQueue and adds the queue-level aggregates.
func (e Engine) SimulateDeveloper(dev ticket.Developer) (SimulatedDeveloper, error) {
	sims, err := e.SimulateQueue(dev.Tickets, dev.Name)
	if err != nil {
		return SimulatedDeveloper{}, fmt.Errorf("simulate %s: %w", dev.Name, err)
	}

	out := SimulatedDeveloper{
		Name:            dev.Name,
		Tickets:         sims,
		ProjectedFinish: e.now,
	}
	for _, s := range sims {
		out.TotalEffortDays += s.EffortRemaining
		if s.IsRisk {
			out.RiskTicketCount++
		}
		if s.IsBlocked {
			out.BlockedTicketCount++
		}
		if s.Status.IsNotStarted() {
			out.NotStartedCount++
		}
	}
	if n := len(sims); n > 0 {
		out.ProjectedFinish = sims[n-1].ProjectedEnd
	}
	out.HasQueueOverflow = out.TotalEffortDays > e.overflowDays
	return out, nil
}

// SimulateTeam groups tickets by owner and simulates each queue on its own.
// Closed tickets take no queue time and are left out.
func (e Engine) SimulateTeam(tickets []ticket.Ticket) ([]SimulatedDeveloper, error) {
	open := make([]ticket.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if !t.Status.IsClosed() {
			open = append(open, t)
		}
	}

	devs := ticket.GroupByOwner(open)
	out := make([]SimulatedDeveloper, 0, len(devs))
	for _, d := range devs {
		sim, err := e.SimulateDeveloper(d)
		if err != nil {
			return nil, err
		}
		out = append(out, sim)
	}
	return out, nil
}
