package sdk

import "github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"

// SchemaInfo is the content of the velocity://schema resource.
type SchemaInfo struct {
	SchemaVersion string   `json:"schema_version"`
	ServerVersion string   `json:"server_version"`
	Tools         []string `json:"tools"`
}

// RiskReport is the velocity_eta_risk payload.
type RiskReport struct {
	Count      int             `json:"count"`
	Developers []string        `json:"developers"`
	Tickets    []ticket.Ticket `json:"tickets"`
}

// BlockedTicket is a blocked ticket in a developer's projected queue.
type BlockedTicket struct {
	Developer   string `json:"developer"`
	TicketID    string `json:"ticket_id"`
	Title       string `json:"title"`
	BlockedBy   string `json:"blocked_by,omitempty"`
	DaysBlocked int    `json:"days_blocked"`
}
