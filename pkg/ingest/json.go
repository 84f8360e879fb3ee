package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const nonNegativeInt = `{"type": "integer", "minimum": 0}`

var ticketSchemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "id": {"type": "string"},
      "title": {"type": "string"},
      "owner": {"type": "string"},
      "developer": {"type": "string"},
      "rank": {"type": ["integer", "null"]},
      "effort": ` + nonNegativeInt + `,
      "effort_points": ` + nonNegativeInt + `,
      "effortDays": ` + nonNegativeInt + `,
      "effort_remaining": {"type": ["integer", "null"]},
      "effortRemaining": {"type": ["integer", "null"]},
      "status": {"type": "string"},
      "eta": {"type": "string"},
      "ETA": {"type": "string"},
      "blocked_by": {"type": "string"},
      "blockedBy": {"type": "string"},
      "days_blocked": ` + nonNegativeInt + `,
      "daysBlocked": ` + nonNegativeInt + `,
      "blockedDays": ` + nonNegativeInt + `,
      "last_updated": {"type": "string", "format": "date-time"},
      "resumed_at": {"type": ["string", "null"], "format": "date-time"},
      "event_log": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["status", "timestamp"],
          "properties": {
            "status": {"type": "string"},
            "timestamp": {"type": "string", "format": "date-time"}
          }
        }
      }
    }
  }
}`

var ticketSchemaLoader = gojsonschema.NewStringLoader(ticketSchemaJSON)

// ParseJSON reads a JSON array of ticket records. The document is checked
// against the ticket schema first; every violation is returned in a
// SchemaError.
func ParseJSON(data []byte) (Result, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Result{}, ErrEmptyInput
	}

	result, err := gojsonschema.Validate(ticketSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Result{}, fmt.Errorf("parse ticket json: %w", err)
	}
	if !result.Valid() {
		schemaErr := &SchemaError{}
		for _, desc := range result.Errors() {
			schemaErr.Issues = append(schemaErr.Issues, desc.String())
		}
		return Result{}, schemaErr
	}

	var tickets []ticket.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return Result{}, fmt.Errorf("decode ticket json: %w", err)
	}
	return collect(tickets), nil
}

// ParseYAML reads a YAML list of ticket records using the canonical field
// names.
func ParseYAML(data []byte) (Result, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Result{}, ErrEmptyInput
	}
	var tickets []ticket.Ticket
	if err := yaml.Unmarshal(data, &tickets); err != nil {
		return Result{}, fmt.Errorf("decode ticket yaml: %w", err)
	}
	return collect(tickets), nil
}

func collect(tickets []ticket.Ticket) Result {
	var res Result
	for i, t := range tickets {
		row := i + 1
		if t.ID == "" {
			t.ID = generatedID(t.Owner, t.Title, fmt.Sprint(row))
			res.warn(row, t.ID, colID, "missing id; generated one")
		}
		if t.Status == "" {
			t.Status = ticket.StatusNotStarted
		}
		res.accept(row, t)
	}
	return res
}
