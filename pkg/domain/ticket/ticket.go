// Package ticket models the tracker records the dashboard computes over.
package ticket

import (
	"encoding/json"
	"math"
	"time"
)

// UnrankedSentinel is the sort key used for tickets without a rank, placing
// them after every ranked ticket.
const UnrankedSentinel = math.MaxInt

// Transition is a single status change in a ticket's event log.
type Transition struct {
	Status    Status    `json:"status" yaml:"status"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Ticket is a unit of work assigned to one developer.
type Ticket struct {
	ID              string       `json:"id" yaml:"id"`
	Title           string       `json:"title" yaml:"title"`
	Owner           string       `json:"owner" yaml:"owner"`
	Rank            *int         `json:"rank,omitempty" yaml:"rank,omitempty"`
	Effort          int          `json:"effort" yaml:"effort"`
	EffortRemaining *int         `json:"effort_remaining,omitempty" yaml:"effort_remaining,omitempty"`
	Status          Status       `json:"status" yaml:"status"`
	ETA             Date         `json:"eta" yaml:"eta"`
	BlockedBy       string       `json:"blocked_by,omitempty" yaml:"blocked_by,omitempty"`
	DaysBlocked     int          `json:"days_blocked" yaml:"days_blocked"`
	LastUpdated     time.Time    `json:"last_updated" yaml:"last_updated"`
	ResumedAt       *time.Time   `json:"resumed_at,omitempty" yaml:"resumed_at,omitempty"`
	EventLog        []Transition `json:"event_log,omitempty" yaml:"event_log,omitempty"`
}

// Validate checks the fields whose violation indicates a bug in the producer
// rather than missing data.
func (t Ticket) Validate() error {
	if t.Effort < 0 {
		return &ValidationError{TicketID: t.ID, Field: "effort", Err: ErrNegativeEffort}
	}
	if t.DaysBlocked < 0 {
		return &ValidationError{TicketID: t.ID, Field: "days_blocked", Err: ErrNegativeDaysBlocked}
	}
	return nil
}

// RankKey returns the queue sort key.
func (t Ticket) RankKey() int {
	if t.Rank == nil {
		return UnrankedSentinel
	}
	return *t.Rank
}

// CurrentStatusSince returns when the ticket entered its current status.
func (t Ticket) CurrentStatusSince() time.Time {
	if n := len(t.EventLog); n > 0 {
		return t.EventLog[n-1].Timestamp
	}
	return t.LastUpdated
}

// FirstEntered returns the earliest transition into status, if any.
func (t Ticket) FirstEntered(status Status) (time.Time, bool) {
	for _, e := range t.EventLog {
		if e.Status == status {
			return e.Timestamp, true
		}
	}
	return time.Time{}, false
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (t Ticket) Clone() Ticket {
	c := t
	if t.Rank != nil {
		r := *t.Rank
		c.Rank = &r
	}
	if t.EffortRemaining != nil {
		e := *t.EffortRemaining
		c.EffortRemaining = &e
	}
	if t.ResumedAt != nil {
		at := *t.ResumedAt
		c.ResumedAt = &at
	}
	if t.EventLog != nil {
		c.EventLog = append([]Transition(nil), t.EventLog...)
	}
	return c
}

// IntPtr is a small helper for optional integer fields.
func IntPtr(v int) *int {
	return &v
}

// UnmarshalJSON accepts the alternate field names used by tracker exports
// (developer, effort_points, effortDays, ETA, blockedBy, daysBlocked, ...).
func (t *Ticket) UnmarshalJSON(data []byte) error {
	type plain Ticket
	var wire struct {
		plain
		Developer       *string `json:"developer"`
		EffortPoints    *int    `json:"effort_points"`
		EffortDays      *int    `json:"effortDays"`
		EffortRemCamel  *int    `json:"effortRemaining"`
		ETAUpper        *Date   `json:"ETA"`
		BlockedByCamel  *string `json:"blockedBy"`
		DaysBlockedCaml *int    `json:"daysBlocked"`
		BlockedDays     *int    `json:"blockedDays"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*t = Ticket(wire.plain)
	if t.Owner == "" && wire.Developer != nil {
		t.Owner = *wire.Developer
	}
	if t.Effort == 0 {
		switch {
		case wire.EffortPoints != nil:
			t.Effort = *wire.EffortPoints
		case wire.EffortDays != nil:
			t.Effort = *wire.EffortDays
		}
	}
	if t.EffortRemaining == nil && wire.EffortRemCamel != nil {
		t.EffortRemaining = wire.EffortRemCamel
	}
	if t.ETA.IsZero() && wire.ETAUpper != nil {
		t.ETA = *wire.ETAUpper
	}
	if t.BlockedBy == "" && wire.BlockedByCamel != nil {
		t.BlockedBy = *wire.BlockedByCamel
	}
	if t.DaysBlocked == 0 {
		switch {
		case wire.DaysBlockedCaml != nil:
			t.DaysBlocked = *wire.DaysBlockedCaml
		case wire.BlockedDays != nil:
			t.DaysBlocked = *wire.BlockedDays
		}
	}
	return nil
}
