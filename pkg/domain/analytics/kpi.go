package analytics

import (
	"sort"
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

const day = 24 * time.Hour

// Default thresholds.
const (
	DefaultBlockedMinDays = 1.0
	DefaultIdleWindow     = 48 * time.Hour
)

// Calculator computes KPIs over a fixed ticket snapshot at a fixed instant.
// Every method reads the same now, so results from one Calculator are
// mutually consistent however long the caller takes between calls.
type Calculator struct {
	tickets        []ticket.Ticket
	now            time.Time
	blockedMinDays float64
	idleWindow     time.Duration
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithBlockedMinDays sets how long a ticket must sit in a blocking status
// before it counts as blocked.
func WithBlockedMinDays(days float64) CalculatorOption {
	return func(c *Calculator) { c.blockedMinDays = days }
}

// WithIdleWindow sets how recently a developer must have started development
// work to not count as idle.
func WithIdleWindow(d time.Duration) CalculatorOption {
	return func(c *Calculator) { c.idleWindow = d }
}

// NewCalculator snapshots tickets at now.
func NewCalculator(tickets []ticket.Ticket, now time.Time, opts ...CalculatorOption) *Calculator {
	snapshot := make([]ticket.Ticket, len(tickets))
	for i, t := range tickets {
		snapshot[i] = t.Clone()
	}
	c := &Calculator{
		tickets:        snapshot,
		now:            now,
		blockedMinDays: DefaultBlockedMinDays,
		idleWindow:     DefaultIdleWindow,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Now returns the instant the calculator is anchored to.
func (c *Calculator) Now() time.Time {
	return c.now
}

func (c *Calculator) daysSince(t time.Time) float64 {
	return float64(c.now.Sub(t)) / float64(day)
}

// statusSince prefers last_updated and falls back to the event log.
func statusSince(t ticket.Ticket) time.Time {
	if !t.LastUpdated.IsZero() {
		return t.LastUpdated
	}
	return t.CurrentStatusSince()
}

func (c *Calculator) closedAt(t ticket.Ticket) time.Time {
	return statusSince(t)
}

// isBlocked reports whether t is in a blocking status and has been for at
// least blockedMinDays. A ticket with no timestamps cannot show that and is
// not counted.
func (c *Calculator) isBlocked(t ticket.Ticket) bool {
	if !t.Status.IsBlocking() {
		return false
	}
	since := statusSince(t)
	if since.IsZero() {
		return false
	}
	return c.daysSince(since) >= c.blockedMinDays
}

// BlockedTickets returns the tickets TotalBlockedTickets counts.
func (c *Calculator) BlockedTickets() []ticket.Ticket {
	var out []ticket.Ticket
	for _, t := range c.tickets {
		if c.isBlocked(t) {
			out = append(out, t)
		}
	}
	return out
}

// TotalBlockedTickets counts tickets in a blocking status for at least a day.
func (c *Calculator) TotalBlockedTickets() int {
	return len(c.BlockedTickets())
}

// AverageDaysBlocked averages, over BlockedTickets, the days since each
// ticket last entered a blocking status. Returns 0 when nothing is blocked.
func (c *Calculator) AverageDaysBlocked() float64 {
	blocked := c.BlockedTickets()
	if len(blocked) == 0 {
		return 0
	}

	var total float64
	for _, t := range blocked {
		since := lastBlockingEntry(t)
		if since.IsZero() {
			since = statusSince(t)
		}
		total += c.daysSince(since)
	}
	return total / float64(len(blocked))
}

// lastBlockingEntry returns the latest event-log timestamp whose status is a
// blocking status.
func lastBlockingEntry(t ticket.Ticket) time.Time {
	var latest time.Time
	for _, e := range t.EventLog {
		if e.Status.IsBlocking() && !e.Timestamp.Before(latest) {
			latest = e.Timestamp
		}
	}
	return latest
}

// ETARiskTickets returns open tickets whose naive projection misses the ETA.
//
// Projection is in calendar days: the days since the ticket first entered
// In Development are subtracted from effort and the rest is added to now.
// Tickets that never entered development, or have no ETA, are never at risk.
func (c *Calculator) ETARiskTickets() []ticket.Ticket {
	var out []ticket.Ticket
	for _, t := range c.tickets {
		if t.Status.IsClosed() || t.ETA.IsZero() {
			continue
		}
		devStart, ok := t.FirstEntered(ticket.StatusInDevelopment)
		if !ok {
			continue
		}
		remaining := max(0, float64(t.Effort)-c.daysSince(devStart))
		projected := c.now.Add(time.Duration(remaining * float64(day)))
		if ticket.DateOf(projected).After(t.ETA) {
			out = append(out, t)
		}
	}
	return out
}

// DevelopersWithRisk lists owners of ETARiskTickets in first-seen order.
func (c *Calculator) DevelopersWithRisk() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range c.ETARiskTickets() {
		if !seen[t.Owner] {
			seen[t.Owner] = true
			out = append(out, t.Owner)
		}
	}
	return out
}

// TicketsClosedYesterday counts tickets closed on the calendar day before now.
func (c *Calculator) TicketsClosedYesterday() int {
	yesterday := ticket.DateOf(c.now).AddDays(-1)
	n := 0
	for _, t := range c.tickets {
		if t.Status.IsClosed() && ticket.DateOf(c.closedAt(t).In(c.now.Location())) == yesterday {
			n++
		}
	}
	return n
}

// TicketsClosedLast7Days counts tickets closed within the trailing week.
func (c *Calculator) TicketsClosedLast7Days() int {
	cutoff := c.now.Add(-7 * day)
	n := 0
	for _, t := range c.tickets {
		if !t.Status.IsClosed() {
			continue
		}
		at := c.closedAt(t)
		if !at.Before(cutoff) && !at.After(c.now) {
			n++
		}
	}
	return n
}

// TimeDistribution is the total time, in days, tickets spent per stage.
type TimeDistribution struct {
	Development float64 `json:"development"`
	Blocked     float64 `json:"blocked"`
	Review      float64 `json:"review"`
	Release     float64 `json:"release"`
}

// Total returns the sum of every bucket.
func (d TimeDistribution) Total() float64 {
	return d.Development + d.Blocked + d.Review + d.Release
}

// TimeDistribution attributes each closed interval of every event log to a
// stage. The open-ended current status contributes nothing. Business QC is
// both blocking and review; it is counted as Blocked because that bucket is
// checked first.
func (c *Calculator) TimeDistribution() TimeDistribution {
	var dist TimeDistribution
	for _, t := range c.tickets {
		for i := 0; i+1 < len(t.EventLog); i++ {
			cur, next := t.EventLog[i], t.EventLog[i+1]
			elapsed := max(0, float64(next.Timestamp.Sub(cur.Timestamp))/float64(day))

			switch {
			case cur.Status == ticket.StatusInDevelopment:
				dist.Development += elapsed
			case cur.Status.IsBlocking():
				dist.Blocked += elapsed
			case cur.Status == ticket.StatusTechQC || cur.Status == ticket.StatusBusinessQC:
				dist.Review += elapsed
			case cur.Status == ticket.StatusRelease:
				dist.Release += elapsed
			}
		}
	}
	return dist
}

// BlockersBySource counts tickets currently in a blocking status per blocked_by.
func (c *Calculator) BlockersBySource() map[string]int {
	out := make(map[string]int)
	for _, t := range c.tickets {
		if t.Status.IsBlocking() && t.BlockedBy != "" {
			out[t.BlockedBy]++
		}
	}
	return out
}

// DeveloperMetrics is the per-developer card.
type DeveloperMetrics struct {
	Name        string `json:"name"`
	TotalEffort int    `json:"total_effort"`
	Completed   int    `json:"completed"`
	AtRisk      int    `json:"at_risk"`
	Idle        bool   `json:"idle"`
}

// DeveloperMetrics summarises one developer's load. A developer is idle when
// nothing of theirs is In Development and none of their tickets entered
// In Development within the idle window.
func (c *Calculator) DeveloperMetrics(name string) DeveloperMetrics {
	m := DeveloperMetrics{Name: name}

	risky := make(map[string]bool)
	for _, t := range c.ETARiskTickets() {
		risky[t.ID] = true
	}

	active := false
	cutoff := c.now.Add(-c.idleWindow)
	for _, t := range c.tickets {
		if t.Owner != name {
			continue
		}
		if t.Status.IsClosed() {
			m.Completed++
		} else {
			m.TotalEffort += t.Effort
		}
		if risky[t.ID] {
			m.AtRisk++
		}
		if t.Status == ticket.StatusInDevelopment {
			active = true
		}
		for _, e := range t.EventLog {
			if e.Status == ticket.StatusInDevelopment && !e.Timestamp.Before(cutoff) {
				active = true
			}
		}
	}
	m.Idle = !active
	return m
}

// Developers returns every owner in first-seen order.
func (c *Calculator) Developers() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range c.tickets {
		if t.Owner != "" && !seen[t.Owner] {
			seen[t.Owner] = true
			out = append(out, t.Owner)
		}
	}
	return out
}

// SourceCount is one row of BlockersBySource in display order.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// Summary is the full team-pulse snapshot.
type Summary struct {
	GeneratedAt            time.Time          `json:"generated_at"`
	TotalTickets           int                `json:"total_tickets"`
	TotalBlockedTickets    int                `json:"total_blocked_tickets"`
	AverageDaysBlocked     float64            `json:"average_days_blocked"`
	ETARiskCount           int                `json:"eta_risk_count"`
	DevelopersWithRisk     []string           `json:"developers_with_risk"`
	TicketsClosedYesterday int                `json:"tickets_closed_yesterday"`
	TicketsClosedLast7Days int                `json:"tickets_closed_last_7_days"`
	TimeDistribution       TimeDistribution   `json:"time_distribution"`
	BlockersBySource       []SourceCount      `json:"blockers_by_source"`
	Developers             []DeveloperMetrics `json:"developers"`
	Velocity               VelocityTrend      `json:"velocity"`
}

// Summary gathers every metric into one snapshot.
func (c *Calculator) Summary() Summary {
	s := Summary{
		GeneratedAt:            c.now,
		TotalTickets:           len(c.tickets),
		TotalBlockedTickets:    c.TotalBlockedTickets(),
		AverageDaysBlocked:     c.AverageDaysBlocked(),
		ETARiskCount:           len(c.ETARiskTickets()),
		DevelopersWithRisk:     c.DevelopersWithRisk(),
		TicketsClosedYesterday: c.TicketsClosedYesterday(),
		TicketsClosedLast7Days: c.TicketsClosedLast7Days(),
		TimeDistribution:       c.TimeDistribution(),
		Velocity:               c.VelocityTrend(),
	}

	for src, n := range c.BlockersBySource() {
		s.BlockersBySource = append(s.BlockersBySource, SourceCount{Source: src, Count: n})
	}
	sort.Slice(s.BlockersBySource, func(i, j int) bool {
		a, b := s.BlockersBySource[i], s.BlockersBySource[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Source < b.Source
	})

	for _, name := range c.Developers() {
		s.Developers = append(s.Developers, c.DeveloperMetrics(name))
	}
	return s
}
