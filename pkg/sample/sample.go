// Package sample provides a deterministic demo team for trying the
// dashboard without a tracker export.
package sample

import (
	"time"

	"github.com/google/uuid"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

var namespace = uuid.MustParse("0b8e4d4a-3f5c-4c57-a3a1-5d2f7e9c1b64")

// step is one event-log entry, daysAgo days before now at 09:00.
type step struct {
	status  ticket.Status
	daysAgo int
}

type seed struct {
	key       string
	title     string
	owner     string
	rank      int
	effort    int
	status    ticket.Status
	etaIn     int // calendar days from today; 0 means no ETA
	blockedBy string
	blocked   int
	history   []step
}

var seeds = []seed{
	{"checkout", "Checkout redesign", "Asha", 1, 5, ticket.StatusInDevelopment, 3, "", 0,
		[]step{{ticket.StatusNotStarted, 8}, {ticket.StatusInDevelopment, 2}}},
	{"retries", "Payment retries", "Asha", 2, 3, ticket.StatusNotStarted, 6, "", 0, nil},
	{"fraud", "Fraud rules", "Asha", 3, 4, ticket.StatusClarification, 4, "Client", 2,
		[]step{{ticket.StatusInDevelopment, 6}, {ticket.StatusClarification, 2}}},
	{"receipts", "Receipt emails", "Asha", 0, 2, ticket.StatusClosed, 0, "", 0,
		[]step{{ticket.StatusInDevelopment, 5}, {ticket.StatusTechQC, 3}, {ticket.StatusRelease, 2}, {ticket.StatusClosed, 1}}},

	{"billing", "Billing export", "Ravi", 1, 6, ticket.StatusCodeReview, 2, "", 0,
		[]step{{ticket.StatusInDevelopment, 7}, {ticket.StatusCodeReview, 1}}},
	{"invoices", "Invoice PDFs", "Ravi", 2, 5, ticket.StatusNotStarted, 5, "", 0, nil},
	{"tax", "Tax report", "Ravi", 3, 4, ticket.StatusNotStarted, 0, "", 0, nil},
	{"ledger", "Ledger sync", "Ravi", 4, 3, ticket.StatusBusinessQC, 8, "Success", 3,
		[]step{{ticket.StatusInDevelopment, 10}, {ticket.StatusTechQC, 6}, {ticket.StatusBusinessQC, 3}}},
	{"refunds", "Refund API", "Ravi", 0, 3, ticket.StatusClosed, 0, "", 0,
		[]step{{ticket.StatusInDevelopment, 9}, {ticket.StatusCodeReview, 6}, {ticket.StatusClosed, 4}}},

	{"search", "Search indexing", "Chen", 1, 8, ticket.StatusBlocked, 5, "Infra", 4,
		[]step{{ticket.StatusInDevelopment, 9}, {ticket.StatusBlocked, 4}}},
	{"cache", "Query cache", "Chen", 2, 2, ticket.StatusTechQC, 3, "", 0,
		[]step{{ticket.StatusInDevelopment, 4}, {ticket.StatusTechQC, 1}}},
	{"reindex", "Reindex job", "Chen", 0, 2, ticket.StatusClosed, 0, "", 0,
		[]step{{ticket.StatusInDevelopment, 13}, {ticket.StatusClosed, 9}}},

	{"onboarding", "Onboarding flow", "Dana", 1, 4, ticket.StatusReleasePlan, 1, "Infra", 2,
		[]step{{ticket.StatusInDevelopment, 8}, {ticket.StatusTechQC, 4}, {ticket.StatusReleasePlan, 2}}},
	{"events", "Analytics events", "Dana", 2, 2, ticket.StatusRelease, 2, "", 0,
		[]step{{ticket.StatusInDevelopment, 5}, {ticket.StatusRelease, 1}}},
}

// ID returns the stable id of the sample ticket with key.
func ID(key string) string {
	return uuid.NewSHA1(namespace, []byte("sample/"+key)).String()
}

// Tickets returns the demo team anchored to now. Calling it twice with the
// same now yields identical data.
func Tickets(now time.Time) []ticket.Ticket {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	at := func(daysAgo int) time.Time {
		return today.AddDate(0, 0, -daysAgo).Add(9 * time.Hour)
	}

	tickets := make([]ticket.Ticket, 0, len(seeds))
	for _, s := range seeds {
		t := ticket.Ticket{
			ID:          ID(s.key),
			Title:       s.title,
			Owner:       s.owner,
			Effort:      s.effort,
			Status:      s.status,
			BlockedBy:   s.blockedBy,
			DaysBlocked: s.blocked,
			LastUpdated: at(0),
		}
		if s.rank > 0 {
			t.Rank = ticket.IntPtr(s.rank)
		}
		if s.etaIn > 0 {
			t.ETA = ticket.DateOf(today).AddDays(s.etaIn)
		}
		for _, h := range s.history {
			t.EventLog = append(t.EventLog, ticket.Transition{Status: h.status, Timestamp: at(h.daysAgo)})
		}
		if n := len(t.EventLog); n > 0 {
			t.LastUpdated = t.EventLog[n-1].Timestamp
		}
		tickets = append(tickets, t)
	}
	return tickets
}
