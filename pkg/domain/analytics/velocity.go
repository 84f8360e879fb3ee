// Package analytics computes point-in-time team KPIs over the ticket set.
package analytics

import (
	"math"
	"sort"
)

// TrendDirection indicates the direction of velocity change over time.
type TrendDirection string

const (
	// TrendAccelerating indicates velocity is increasing.
	TrendAccelerating TrendDirection = "accelerating"
	// TrendDecelerating indicates velocity is decreasing.
	TrendDecelerating TrendDirection = "decelerating"
	// TrendStable indicates velocity is relatively constant.
	TrendStable TrendDirection = "stable"
)

// DefaultVelocityWindows are the trailing windows, in days, used for velocity.
var DefaultVelocityWindows = []int{7, 14, 30}

// trendThreshold is the relative change between the shortest and longest
// window below which the trend counts as stable.
const trendThreshold = 0.1

// VelocityWindow represents velocity calculated over a specific time window.
type VelocityWindow struct {
	Days     int     `json:"days"`     // Number of days in this window (e.g., 7, 14, 30)
	Velocity float64 `json:"velocity"` // Tickets closed per day in this window
	Count    int     `json:"count"`    // Number of tickets closed in this window
	Effort   int     `json:"effort"`   // Effort days closed in this window
}

// VelocityTrend captures the trend analysis of velocity over multiple time windows.
type VelocityTrend struct {
	Direction  TrendDirection   `json:"direction"`
	Slope      float64          `json:"slope"`      // Relative change, positive = accelerating
	Confidence float64          `json:"confidence"` // 0.0-1.0
	Windows    []VelocityWindow `json:"windows"`
}

// IsPositive returns true if the trend indicates improving velocity.
func (t VelocityTrend) IsPositive() bool {
	return t.Direction == TrendAccelerating
}

// IsNegative returns true if the trend indicates declining velocity.
func (t VelocityTrend) IsNegative() bool {
	return t.Direction == TrendDecelerating
}

// VelocityWindows returns closed-ticket throughput for each trailing window.
// Windows are returned shortest first.
func (c *Calculator) VelocityWindows(days ...int) []VelocityWindow {
	if len(days) == 0 {
		days = DefaultVelocityWindows
	}
	sorted := append([]int(nil), days...)
	sort.Ints(sorted)

	result := make([]VelocityWindow, 0, len(sorted))
	for _, d := range sorted {
		if d <= 0 {
			continue
		}
		cutoff := c.now.AddDate(0, 0, -d)
		w := VelocityWindow{Days: d}
		for _, t := range c.tickets {
			if !t.Status.IsClosed() {
				continue
			}
			at := c.closedAt(t)
			if at.After(cutoff) && !at.After(c.now) {
				w.Count++
				w.Effort += t.Effort
			}
		}
		w.Velocity = float64(w.Count) / float64(d)
		result = append(result, w)
	}
	return result
}

// VelocityTrend compares the most recent window with the longest one.
func (c *Calculator) VelocityTrend() VelocityTrend {
	windows := c.VelocityWindows()
	if len(windows) < 2 {
		return VelocityTrend{Direction: TrendStable, Windows: windows}
	}

	shortTerm := windows[0].Velocity
	longTerm := windows[len(windows)-1].Velocity

	var slope float64
	switch {
	case longTerm > 0:
		slope = (shortTerm - longTerm) / longTerm
	case shortTerm > 0:
		slope = 1.0
	}

	direction := TrendStable
	switch {
	case slope > trendThreshold:
		direction = TrendAccelerating
	case slope < -trendThreshold:
		direction = TrendDecelerating
	}

	return VelocityTrend{
		Direction:  direction,
		Slope:      slope,
		Confidence: trendConfidence(windows),
		Windows:    windows,
	}
}

// trendConfidence grows with data volume and shrinks with disagreement
// between windows.
func trendConfidence(windows []VelocityWindow) float64 {
	total := 0
	var sum float64
	for _, w := range windows {
		total += w.Count
		sum += w.Velocity
	}
	if total == 0 {
		return 0
	}

	volume := math.Min(math.Log10(float64(total+1))/2, 1.0)

	mean := sum / float64(len(windows))
	var variance float64
	for _, w := range windows {
		variance += (w.Velocity - mean) * (w.Velocity - mean)
	}
	variance /= float64(len(windows))

	consistency := 1.0
	if mean > 0 {
		cv := math.Sqrt(variance) / mean
		consistency = math.Max(0, 1-cv)
	}

	return volume*0.6 + consistency*0.4
}
