package schedule

import (
	"fmt"
	"math"
)

// GenerateInsights summarises simulated queues as short messages, in a fixed
// priority order: blocked-ticket escalation, per-developer queue overflow (in
// input order), then the dominant blocker source. At most maxInsights are
// returned.
func (e Engine) GenerateInsights(devs []SimulatedDeveloper) []string {
	var msgs []string

	stale := 0
	for _, d := range devs {
		for _, t := range d.Tickets {
			if t.DaysBlocked > e.blockedRiskDays {
				stale++
			}
		}
	}
	if stale > 0 {
		msgs = append(msgs, fmt.Sprintf("%d %s blocked for more than %d days. Escalate with the blocking party.",
			stale, plural(stale, "ticket has been", "tickets have been"), e.blockedRiskDays))
	}

	for _, d := range devs {
		if !d.HasQueueOverflow || d.NotStartedCount == 0 {
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s has %d days of work queued with %d %s not started. Consider redistributing.",
			d.Name, d.TotalEffortDays, d.NotStartedCount, plural(d.NotStartedCount, "ticket", "tickets")))
	}

	if source, count, total := dominantBlocker(devs); total > 0 {
		pct := int(math.Round(float64(count) / float64(total) * 100))
		msgs = append(msgs, fmt.Sprintf("%s accounts for %d%% of blocked tickets.", source, pct))
	}

	if len(msgs) > e.maxInsights {
		msgs = msgs[:e.maxInsights]
	}
	return msgs
}

// dominantBlocker returns the most frequent BlockedBy value, its count, and
// the number of tickets carrying any source. Ties go to the source seen first.
func dominantBlocker(devs []SimulatedDeveloper) (string, int, int) {
	counts := make(map[string]int)
	var order []string
	total := 0
	for _, d := range devs {
		for _, t := range d.Tickets {
			if t.BlockedBy == "" {
				continue
			}
			if _, seen := counts[t.BlockedBy]; !seen {
				order = append(order, t.BlockedBy)
			}
			counts[t.BlockedBy]++
			total++
		}
	}

	best, bestCount := "", 0
	for _, src := range order {
		if counts[src] > bestCount {
			best, bestCount = src, counts[src]
		}
	}
	return best, bestCount, total
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
