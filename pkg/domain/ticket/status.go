package ticket

import (
	"encoding/json"
	"strings"
)

// Status is the workflow state a ticket is currently in.
type Status string

const (
	StatusNotStarted    Status = "Not Started"
	StatusInDevelopment Status = "In Development"
	StatusOnTrack       Status = "On Track"
	StatusBlocked       Status = "Blocked"
	StatusClarification Status = "Clarification"
	StatusBusinessQC    Status = "Business QC"
	StatusTechQC        Status = "Tech QC"
	StatusCodeReview    Status = "Code Review"
	StatusReleasePlan   Status = "Release Plan"
	StatusRelease       Status = "Release"
	StatusClosed        Status = "Closed"
)

// AllStatuses returns the known status vocabulary in workflow order.
func AllStatuses() []Status {
	return []Status{
		StatusNotStarted,
		StatusInDevelopment,
		StatusOnTrack,
		StatusBlocked,
		StatusClarification,
		StatusBusinessQC,
		StatusTechQC,
		StatusCodeReview,
		StatusReleasePlan,
		StatusRelease,
		StatusClosed,
	}
}

// BlockingStatuses returns the statuses in which a ticket is waiting on someone
// outside the team and not progressing.
func BlockingStatuses() []Status {
	return []Status{StatusClarification, StatusBusinessQC, StatusReleasePlan}
}

var normalized = func() map[string]Status {
	m := make(map[string]Status)
	for _, s := range AllStatuses() {
		m[normalizeKey(string(s))] = s
	}
	// Common spellings seen in tracker exports.
	m["todo"] = StatusNotStarted
	m["open"] = StatusNotStarted
	m["inprogress"] = StatusInDevelopment
	m["indev"] = StatusInDevelopment
	m["ontrack"] = StatusOnTrack
	m["done"] = StatusClosed
	m["businessqa"] = StatusBusinessQC
	m["techqa"] = StatusTechQC
	m["review"] = StatusCodeReview
	return m
}()

func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	r := strings.NewReplacer(" ", "", "_", "", "-", "")
	return r.Replace(s)
}

// ParseStatus maps a free-form status label to the canonical vocabulary.
// Unknown labels are returned trimmed but otherwise verbatim.
func ParseStatus(s string) Status {
	if st, ok := normalized[normalizeKey(s)]; ok {
		return st
	}
	return Status(strings.TrimSpace(s))
}

// IsKnown reports whether the status belongs to the fixed vocabulary.
func (s Status) IsKnown() bool {
	_, ok := normalized[normalizeKey(string(s))]
	return ok
}

// IsBlocking reports whether the status is one of BlockingStatuses.
func (s Status) IsBlocking() bool {
	switch s {
	case StatusClarification, StatusBusinessQC, StatusReleasePlan:
		return true
	default:
		return false
	}
}

// IsBlocked reports whether work on the ticket is stalled: either an explicit
// Blocked status or one of the blocking statuses.
func (s Status) IsBlocked() bool {
	return s == StatusBlocked || s.IsBlocking()
}

// IsClosed returns true for the terminal status.
func (s Status) IsClosed() bool {
	return s == StatusClosed
}

// IsInProgress returns true if a developer is actively working on the ticket.
func (s Status) IsInProgress() bool {
	return s == StatusInDevelopment || s == StatusOnTrack
}

// IsNotStarted returns true if no work has begun.
func (s Status) IsNotStarted() bool {
	return s == StatusNotStarted
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// UnmarshalJSON accepts any spelling ParseStatus understands.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ParseStatus(str)
	return nil
}

// UnmarshalText lets YAML and CSV decoders share the same normalisation.
func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}
