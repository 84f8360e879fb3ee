package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

// Canonical column names.
const (
	colID              = "id"
	colTitle           = "title"
	colOwner           = "owner"
	colRank            = "rank"
	colEffort          = "effort"
	colEffortRemaining = "effort_remaining"
	colStatus          = "status"
	colETA             = "eta"
	colBlockedBy       = "blocked_by"
	colDaysBlocked     = "days_blocked"
	colLastUpdated     = "last_updated"
	colResumedAt       = "resumed_at"
	colEventLog        = "event_log"
)

// columnAliases maps normalized header text to a canonical column.
var columnAliases = map[string]string{
	"id": colID, "ticketid": colID, "ticket": colID, "key": colID,
	"title": colTitle, "summary": colTitle, "name": colTitle,
	"owner": colOwner, "developer": colOwner, "assignee": colOwner, "dev": colOwner,
	"rank": colRank, "priority": colRank, "order": colRank,
	"effort": colEffort, "effortpoints": colEffort, "effortdays": colEffort, "estimate": colEffort, "points": colEffort,
	"effortremaining": colEffortRemaining, "remaining": colEffortRemaining, "remainingeffort": colEffortRemaining,
	"status": colStatus, "state": colStatus,
	"eta": colETA, "due": colETA, "duedate": colETA, "deadline": colETA,
	"blockedby": colBlockedBy, "blocker": colBlockedBy,
	"daysblocked": colDaysBlocked, "blockeddays": colDaysBlocked,
	"lastupdated": colLastUpdated, "updated": colLastUpdated, "updatedat": colLastUpdated,
	"resumedat": colResumedAt, "resumed": colResumedAt,
	"eventlog": colEventLog, "history": colEventLog, "events": colEventLog,
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

// ParseCSV reads a header-driven tracker export. Zone-less timestamps are
// read in now's location.
func ParseCSV(r io.Reader, now time.Time) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, ErrNoHeader
	}
	if err != nil {
		return Result{}, fmt.Errorf("read csv header: %w", err)
	}

	columns := make(map[string]int)
	for i, h := range header {
		if canonical, ok := columnAliases[normalizeHeader(h)]; ok {
			if _, dup := columns[canonical]; !dup {
				columns[canonical] = i
			}
		}
	}
	if len(columns) == 0 {
		return Result{}, ErrNoHeader
	}

	p := rowParser{columns: columns, loc: now.Location()}
	var res Result
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, fmt.Errorf("read csv row %d: %w", row, err)
		}
		if blankRecord(record) {
			continue
		}
		t := p.parse(row, record, &res)
		res.accept(row, t)
	}
	return res, nil
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

type rowParser struct {
	columns map[string]int
	loc     *time.Location
}

func (p rowParser) field(record []string, col string) string {
	i, ok := p.columns[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func (p rowParser) parse(row int, record []string, res *Result) ticket.Ticket {
	t := ticket.Ticket{
		ID:        p.field(record, colID),
		Title:     p.field(record, colTitle),
		Owner:     p.field(record, colOwner),
		Status:    ticket.ParseStatus(p.field(record, colStatus)),
		BlockedBy: p.field(record, colBlockedBy),
	}
	if t.ID == "" {
		t.ID = generatedID(record...)
		res.warn(row, t.ID, colID, "missing id; generated one")
	}
	if t.Status == "" {
		t.Status = ticket.StatusNotStarted
	}

	if v, ok := p.intField(row, record, colRank, t.ID, res); ok {
		t.Rank = &v
	}
	if v, ok := p.intField(row, record, colEffort, t.ID, res); ok {
		t.Effort = v
	}
	if v, ok := p.intField(row, record, colEffortRemaining, t.ID, res); ok {
		t.EffortRemaining = &v
	}
	if v, ok := p.intField(row, record, colDaysBlocked, t.ID, res); ok {
		t.DaysBlocked = v
	}

	if raw := p.field(record, colETA); raw != "" {
		d, err := ticket.ParseDate(raw)
		if err != nil {
			res.warn(row, t.ID, colETA, "unparseable date %q; treated as no ETA", raw)
		}
		t.ETA = d
	}
	if raw := p.field(record, colLastUpdated); raw != "" {
		ts, err := p.timestamp(raw)
		if err != nil {
			res.warn(row, t.ID, colLastUpdated, "unparseable timestamp %q", raw)
		}
		t.LastUpdated = ts
	}
	if raw := p.field(record, colResumedAt); raw != "" {
		if ts, err := p.timestamp(raw); err != nil {
			res.warn(row, t.ID, colResumedAt, "unparseable timestamp %q", raw)
		} else {
			t.ResumedAt = &ts
		}
	}
	if raw := p.field(record, colEventLog); raw != "" {
		t.EventLog = p.eventLog(row, t.ID, raw, res)
	}
	return t
}

// intField parses a numeric cell. Fractional values are floored; anything
// unparseable is reported and ignored.
func (p rowParser) intField(row int, record []string, col, id string, res *Result) (int, bool) {
	raw := p.field(record, col)
	if raw == "" {
		return 0, false
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(math.Floor(f)), true
	}
	res.warn(row, id, col, "not a number: %q", raw)
	return 0, false
}

func (p rowParser) timestamp(raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, p.loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", raw)
}

// eventLog parses "status@timestamp;status@timestamp". Malformed entries are
// skipped with a warning.
func (p rowParser) eventLog(row int, id, raw string, res *Result) []ticket.Transition {
	var log []ticket.Transition
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		at := strings.LastIndex(entry, "@")
		if at <= 0 {
			res.warn(row, id, colEventLog, "malformed entry %q", entry)
			continue
		}
		ts, err := p.timestamp(strings.TrimSpace(entry[at+1:]))
		if err != nil {
			res.warn(row, id, colEventLog, "malformed entry %q", entry)
			continue
		}
		log = append(log, ticket.Transition{
			Status:    ticket.ParseStatus(entry[:at]),
			Timestamp: ts,
		})
	}
	return log
}
