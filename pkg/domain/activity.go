package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"time"
)

// Activity actions recorded in the working-set log.
const (
	ActionImport   = "tickets.import"
	ActionBlock    = "ticket.block"
	ActionUnblock  = "ticket.unblock"
	ActionClose    = "ticket.close"
	ActionReassign = "ticket.reassign"
	ActionSetETA   = "ticket.eta"
)

// Event is one change to the working set. Events form a hash chain so a
// hand-edited log is detectable.
type Event struct {
	ID        string            `json:"id"`
	Timestamp time.Time         `json:"timestamp"`
	Action    string            `json:"action"`
	TicketID  string            `json:"ticket_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	PrevHash  string            `json:"prev_hash,omitempty"`
	Hash      string            `json:"hash,omitempty"`
}

// CalculateHash returns the SHA256 of the event's content and PrevHash.
func (e *Event) CalculateHash() string {
	h := sha256.New()
	h.Write([]byte(e.PrevHash))
	h.Write([]byte(e.ID))
	h.Write([]byte(e.Timestamp.UTC().Format(time.RFC3339Nano)))
	h.Write([]byte(e.Action))
	h.Write([]byte(e.TicketID))

	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(e.Details[k]))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyChain returns the index of the first event whose hash or link is
// wrong, or -1 when the chain is intact.
func VerifyChain(events []Event) int {
	prev := ""
	for i := range events {
		if events[i].PrevHash != prev || events[i].CalculateHash() != events[i].Hash {
			return i
		}
		prev = events[i].Hash
	}
	return -1
}
