// Package domain holds the persistence contracts shared by the services.
package domain

import "github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"

// TicketRepository persists the working set in the .velocity/ directory.
type TicketRepository interface {
	Initialize() error
	IsInitialized() bool
	SaveTickets(set *ticket.Set) error
	LoadTickets() (*ticket.Set, error)
	RecordEvent(event Event) error
	LoadEvents() ([]Event, error)
}
