package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

func TestParseJSON(t *testing.T) {
	data := []byte(`[
	  {"id": "ENG-1", "developer": "Asha", "effortDays": 4, "status": "In Development",
	   "ETA": "2026-10-23", "last_updated": "2026-10-15T09:00:00Z",
	   "event_log": [{"status": "In Development", "timestamp": "2026-10-15T09:00:00Z"}]},
	  {"owner": "Ravi", "title": "Billing", "effort": 2, "status": "clarification", "blockedBy": "Client"}
	]`)

	res, err := ParseJSON(data)
	if err != nil {
		t.Fatalf("ParseJSON failed: %v", err)
	}
	if len(res.Tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(res.Tickets))
	}

	first := res.Tickets[0]
	if first.Owner != "Asha" || first.Effort != 4 || first.ETA != ticket.MustParseDate("2026-10-23") {
		t.Errorf("aliases not applied: %+v", first)
	}
	if !first.LastUpdated.Equal(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)) || len(first.EventLog) != 1 {
		t.Errorf("timestamps not decoded: %+v", first)
	}

	second := res.Tickets[1]
	if second.ID == "" || second.Status != ticket.StatusClarification || second.BlockedBy != "Client" {
		t.Errorf("unexpected second ticket: %+v", second)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Row != 2 {
		t.Errorf("expected a generated-id warning for row 2, got %v", res.Warnings)
	}
}

func TestParseJSON_SchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"not an array", `{"id": "A"}`, "array"},
		{"negative effort", `[{"id": "A", "effort": -2}]`, "effort"},
		{"bad timestamp", `[{"id": "A", "last_updated": "yesterday"}]`, "last_updated"},
		{"event without timestamp", `[{"id": "A", "event_log": [{"status": "Closed"}]}]`, "timestamp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.data))
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if len(schemaErr.Issues) == 0 || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseJSON_Empty(t *testing.T) {
	if _, err := ParseJSON([]byte("  \n")); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("ParseJSON() error = %v, want ErrEmptyInput", err)
	}
}

func TestParseYAML(t *testing.T) {
	data := []byte(`
- id: ENG-9
  owner: Chen
  effort: 3
  status: Code Review
  eta: 2026-10-21
  event_log:
    - status: In Development
      timestamp: 2026-10-14T09:00:00Z
- id: ENG-10
  owner: Chen
  effort: -1
`)

	res, err := ParseYAML(data)
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if len(res.Tickets) != 1 || len(res.Rejected) != 1 {
		t.Fatalf("expected 1 ticket and 1 rejection, got %d/%d", len(res.Tickets), len(res.Rejected))
	}
	got := res.Tickets[0]
	if got.Status != ticket.StatusCodeReview || got.ETA != ticket.MustParseDate("2026-10-21") {
		t.Errorf("unexpected ticket: %+v", got)
	}
	if len(got.EventLog) != 1 || got.EventLog[0].Status != ticket.StatusInDevelopment {
		t.Errorf("unexpected event log: %v", got.EventLog)
	}
	if res.Rejected[0].TicketID != "ENG-10" {
		t.Errorf("rejected %q, want ENG-10", res.Rejected[0].TicketID)
	}
}
