package ticket

import (
	"fmt"
	"time"
)

// Set is the persisted working set of tickets. Version is bumped on every
// save and used for optimistic locking.
type Set struct {
	Version    int       `json:"version"`
	Source     string    `json:"source,omitempty"`
	ImportedAt time.Time `json:"imported_at,omitempty"`
	Tickets    []Ticket  `json:"tickets"`
}

// ConflictError is returned when a save fails due to a version mismatch.
type ConflictError struct {
	Expected int
	Actual   int
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: expected version %d but found %d; reload and retry", e.Expected, e.Actual)
}

// Replace swaps in an imported batch.
func (s *Set) Replace(tickets []Ticket, source string, at time.Time) {
	s.Tickets = tickets
	s.Source = source
	s.ImportedAt = at
}

// Merge upserts tickets by id. Existing tickets keep their position; new
// ones are appended in input order. It returns how many were added and
// updated.
func (s *Set) Merge(tickets []Ticket, source string, at time.Time) (added, updated int) {
	index := make(map[string]int, len(s.Tickets))
	for i, t := range s.Tickets {
		index[t.ID] = i
	}
	for _, t := range tickets {
		if i, ok := index[t.ID]; ok {
			s.Tickets[i] = t
			updated++
			continue
		}
		index[t.ID] = len(s.Tickets)
		s.Tickets = append(s.Tickets, t)
		added++
	}
	s.Source = source
	s.ImportedAt = at
	return added, updated
}

// Get returns a pointer to the ticket with id for in-place mutation.
func (s *Set) Get(id string) (*Ticket, error) {
	if _, i := Find(s.Tickets, id); i >= 0 {
		return &s.Tickets[i], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, id)
}

// Open returns every ticket that is not closed.
func (s *Set) Open() []Ticket {
	var out []Ticket
	for _, t := range s.Tickets {
		if !t.Status.IsClosed() {
			out = append(out, t)
		}
	}
	return out
}
