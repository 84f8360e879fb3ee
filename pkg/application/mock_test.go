package application_test

import (
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/application"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

type MockRepo struct {
	Set         *ticket.Set
	Events      []domain.Event
	Initialized bool
	SaveError   error
	LoadError   error
	Saves       int
}

func (m *MockRepo) Initialize() error   { m.Initialized = true; return nil }
func (m *MockRepo) IsInitialized() bool { return m.Initialized }
func (m *MockRepo) SaveTickets(s *ticket.Set) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	s.Version++
	m.Set = s
	m.Saves++
	return nil
}
func (m *MockRepo) LoadTickets() (*ticket.Set, error) {
	if m.LoadError != nil || m.Set == nil {
		return &ticket.Set{}, m.LoadError
	}
	// Hand out a copy so callers cannot mutate the stored set in place.
	cp := *m.Set
	cp.Tickets = make([]ticket.Ticket, len(m.Set.Tickets))
	for i, t := range m.Set.Tickets {
		cp.Tickets[i] = t.Clone()
	}
	return &cp, nil
}
func (m *MockRepo) RecordEvent(e domain.Event) error     { m.Events = append(m.Events, e); return nil }
func (m *MockRepo) LoadEvents() ([]domain.Event, error) { return m.Events, m.LoadError }

// Monday 2026-10-19, 10:30 UTC.
var now = time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)

func settings() application.Settings {
	return application.Settings{Clock: application.ClockFunc(func() time.Time { return now })}
}

func daysAgo(n int) time.Time {
	return now.AddDate(0, 0, -n)
}

// teamRepo holds two developers: Asha with a ranked queue that slips past
// one ETA, and Ravi with a single blocked ticket.
func teamRepo() *MockRepo {
	return &MockRepo{Initialized: true, Set: &ticket.Set{Version: 1, Tickets: []ticket.Ticket{
		{ID: "T1", Owner: "Asha", Rank: ticket.IntPtr(1), Effort: 5, Status: ticket.StatusNotStarted,
			ETA: ticket.MustParseDate("2026-10-22")},
		{ID: "T2", Owner: "Asha", Rank: ticket.IntPtr(2), Effort: 2, Status: ticket.StatusNotStarted},
		{ID: "R1", Owner: "Ravi", Rank: ticket.IntPtr(1), Effort: 4, Status: ticket.StatusClarification,
			BlockedBy: "Client", DaysBlocked: 1, LastUpdated: daysAgo(4),
			EventLog: []ticket.Transition{
				{Status: ticket.StatusInDevelopment, Timestamp: daysAgo(8)},
				{Status: ticket.StatusClarification, Timestamp: daysAgo(4)},
			}},
		{ID: "C1", Owner: "Ravi", Effort: 1, Status: ticket.StatusClosed, LastUpdated: daysAgo(1)},
	}}}
}
