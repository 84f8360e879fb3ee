package ingest

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

var now = time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

func TestParseCSV_Aliases(t *testing.T) {
	input := "Ticket ID,Summary,Developer,Priority,Effort Points,Status,Due Date,Blocker,Blocked Days,Updated,History\n" +
		"ENG-1,Login page,Asha,1,5,in progress,2026-10-23,,0,2026-10-15 09:00,Not Started@2026-10-12;In Development@2026-10-15T09:00:00Z\n" +
		"ENG-2,Billing export,Ravi,,3,Clarification,,Client,2,2026-10-16,\n"

	res, err := ParseCSV(strings.NewReader(input), now)
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(res.Rejected) != 0 || len(res.Warnings) != 0 {
		t.Fatalf("unexpected issues: warnings=%v rejected=%v", res.Warnings, res.Rejected)
	}

	want := []ticket.Ticket{
		{
			ID: "ENG-1", Title: "Login page", Owner: "Asha", Rank: ticket.IntPtr(1), Effort: 5,
			Status: ticket.StatusInDevelopment, ETA: ticket.MustParseDate("2026-10-23"),
			LastUpdated: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
			EventLog: []ticket.Transition{
				{Status: ticket.StatusNotStarted, Timestamp: time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)},
				{Status: ticket.StatusInDevelopment, Timestamp: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)},
			},
		},
		{
			ID: "ENG-2", Title: "Billing export", Owner: "Ravi", Effort: 3,
			Status: ticket.StatusClarification, BlockedBy: "Client", DaysBlocked: 2,
			LastUpdated: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		},
	}
	if diff := cmp.Diff(want, res.Tickets); diff != "" {
		t.Errorf("tickets mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCSV_DefaultsAndWarnings(t *testing.T) {
	input := "id,owner,effort,rank,eta,event_log\n" +
		"A,Asha,abc,x,someday,garbage;Tech QC@2026-10-14\n" +
		"B,Asha,2.7,,,\n"

	res, err := ParseCSV(strings.NewReader(input), now)
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(res.Tickets) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(res.Tickets))
	}

	a := res.Tickets[0]
	if a.Effort != 0 || a.Rank != nil || !a.ETA.IsZero() {
		t.Errorf("expected defaults for unparseable fields, got %+v", a)
	}
	if a.Status != ticket.StatusNotStarted {
		t.Errorf("Status = %q, want %q", a.Status, ticket.StatusNotStarted)
	}
	if len(a.EventLog) != 1 || a.EventLog[0].Status != ticket.StatusTechQC {
		t.Errorf("expected only the valid event entry, got %v", a.EventLog)
	}

	var fields []string
	for _, w := range res.Warnings {
		fields = append(fields, w.Field)
	}
	if diff := cmp.Diff([]string{"rank", "effort", "eta", "event_log"}, fields); diff != "" {
		t.Errorf("warning fields mismatch (-want +got):\n%s", diff)
	}

	if b := res.Tickets[1]; b.Effort != 2 {
		t.Errorf("fractional effort = %d, want 2", b.Effort)
	}
}

func TestParseCSV_RejectsNegativeEffort(t *testing.T) {
	input := "id,owner,effort\nA,Asha,-1\nB,Asha,2\n"

	res, err := ParseCSV(strings.NewReader(input), now)
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(res.Tickets) != 1 || res.Tickets[0].ID != "B" {
		t.Errorf("expected only B to survive, got %v", res.Tickets)
	}
	if len(res.Rejected) != 1 || res.Rejected[0].Row != 1 || res.Rejected[0].Field != "effort" {
		t.Errorf("unexpected rejections: %v", res.Rejected)
	}
}

func TestParseCSV_GeneratedIDsAreStable(t *testing.T) {
	input := "owner,title,effort\nAsha,Login,3\n\nRavi,Billing,2\n"

	first, err := ParseCSV(strings.NewReader(input), now)
	if err != nil {
		t.Fatal(err)
	}
	second, err := ParseCSV(strings.NewReader(input), now)
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Tickets) != 2 {
		t.Fatalf("expected blank line to be skipped, got %d tickets", len(first.Tickets))
	}
	if first.Tickets[0].ID == "" || first.Tickets[0].ID == first.Tickets[1].ID {
		t.Errorf("expected distinct generated ids, got %q and %q", first.Tickets[0].ID, first.Tickets[1].ID)
	}
	if first.Tickets[0].ID != second.Tickets[0].ID {
		t.Errorf("generated id changed between imports: %q vs %q", first.Tickets[0].ID, second.Tickets[0].ID)
	}
	if len(first.Warnings) != 2 || first.Warnings[0].Field != "id" {
		t.Errorf("expected a missing-id warning per row, got %v", first.Warnings)
	}
}

func TestParseCSV_NoHeader(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unknown columns", "foo,bar\n1,2\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.input), now)
			if !errors.Is(err, ErrNoHeader) {
				t.Errorf("ParseCSV() error = %v, want ErrNoHeader", err)
			}
		})
	}
}

func TestParseCSV_UsesClockLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	res, err := ParseCSV(strings.NewReader("id,last_updated\nA,2026-10-16 09:00\n"), now.In(loc))
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 10, 16, 9, 0, 0, 0, loc)
	if got := res.Tickets[0].LastUpdated; !got.Equal(want) {
		t.Errorf("LastUpdated = %v, want %v", got, want)
	}
}
