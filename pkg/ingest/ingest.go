// Package ingest turns tracker exports into ticket records.
//
// Parsers are lenient about missing or malformed optional data: such fields
// fall back to their zero value and the row is reported as a warning. Only
// contract violations (negative effort or blocked days) reject a row.
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

var (
	// ErrNoHeader indicates a CSV export without a header row.
	ErrNoHeader = errors.New("csv export has no header row")

	// ErrEmptyInput indicates there was nothing to import.
	ErrEmptyInput = errors.New("no ticket data to import")
)

// idNamespace seeds generated ticket ids so the same row always gets the
// same id across imports.
var idNamespace = uuid.MustParse("6f1c2f4e-8a43-4f0b-9d6c-1f5a3c2b7e90")

// RowIssue describes a problem with one input row. Row is 1-based and counts
// data rows only.
type RowIssue struct {
	Row      int    `json:"row"`
	TicketID string `json:"ticket_id,omitempty"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

func (i RowIssue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "row %d", i.Row)
	if i.TicketID != "" {
		fmt.Fprintf(&b, " (%s)", i.TicketID)
	}
	if i.Field != "" {
		fmt.Fprintf(&b, " %s", i.Field)
	}
	b.WriteString(": ")
	b.WriteString(i.Message)
	return b.String()
}

// Result is the outcome of one import.
type Result struct {
	Tickets  []ticket.Ticket `json:"tickets"`
	Warnings []RowIssue      `json:"warnings,omitempty"`
	Rejected []RowIssue      `json:"rejected,omitempty"`
}

func (r *Result) warn(row int, id, field, format string, args ...any) {
	r.Warnings = append(r.Warnings, RowIssue{Row: row, TicketID: id, Field: field, Message: fmt.Sprintf(format, args...)})
}

// accept validates t and either keeps it or records the rejection.
func (r *Result) accept(row int, t ticket.Ticket) {
	if err := t.Validate(); err != nil {
		issue := RowIssue{Row: row, TicketID: t.ID, Message: err.Error()}
		var verr *ticket.ValidationError
		if errors.As(err, &verr) {
			issue.Field = verr.Field
			issue.Message = verr.Err.Error()
		}
		r.Rejected = append(r.Rejected, issue)
		return
	}
	r.Tickets = append(r.Tickets, t)
}

// SchemaError lists every schema violation in a JSON import.
type SchemaError struct {
	Issues []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("ticket import failed schema validation: %s", strings.Join(e.Issues, "; "))
}

// generatedID derives a stable id from a row's content.
func generatedID(parts ...string) string {
	return uuid.NewSHA1(idNamespace, []byte(strings.Join(parts, "\x1f"))).String()
}
