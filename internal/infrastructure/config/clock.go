package config

import (
	"fmt"
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain/schedule"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

var nowLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Clock is the single time source for one command. It is resolved once so
// every computation in the command sees the same instant.
type Clock struct {
	now   time.Time
	fixed bool
}

// NewClock resolves now from the configured fixed time, or from wall when
// none is set, in the configured zone.
func (c *Config) NewClock(wall func() time.Time) (Clock, error) {
	loc, err := c.Location()
	if err != nil {
		return Clock{}, err
	}
	if c.Now == "" {
		return Clock{now: wall().In(loc)}, nil
	}
	for _, layout := range nowLayouts {
		if t, err := time.ParseInLocation(layout, c.Now, loc); err == nil {
			return Clock{now: t.In(loc), fixed: true}, nil
		}
	}
	return Clock{}, fmt.Errorf("%w: now %q is not RFC3339 or YYYY-MM-DD", ErrInvalidConfig, c.Now)
}

// FixedClock returns a clock pinned to t.
func FixedClock(t time.Time) Clock {
	return Clock{now: t, fixed: true}
}

// Now returns the resolved instant.
func (c Clock) Now() time.Time {
	return c.now
}

// Fixed reports whether the instant came from configuration rather than the
// wall clock.
func (c Clock) Fixed() bool {
	return c.fixed
}

// SprintEnd returns the last day of the sprint containing now. Sprints run
// back to back from sprint.start; without a start the sprint begins today.
func (c *Config) SprintEnd(now time.Time) (ticket.Date, error) {
	loc := now.Location()
	today := ticket.DateOf(now)

	start := today
	if c.Sprint.Start != "" {
		d, err := ticket.ParseDate(c.Sprint.Start)
		if err != nil {
			return ticket.Date{}, fmt.Errorf("%w: sprint.start: %v", ErrInvalidConfig, err)
		}
		start = d
	}

	end, err := schedule.SprintEnd(start, c.Sprint.LengthDays, loc)
	if err != nil {
		return ticket.Date{}, err
	}
	for end.Before(today) {
		next, err := schedule.AddWorkingDays(end.In(loc), 1)
		if err != nil {
			return ticket.Date{}, err
		}
		if end, err = schedule.SprintEnd(ticket.DateOf(next), c.Sprint.LengthDays, loc); err != nil {
			return ticket.Date{}, err
		}
	}
	return end, nil
}
