package schedule

import (
	"math"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

// Progress factors applied to effort when no remaining figure is supplied.
const (
	inDevelopmentProgress = 0.3
	codeReviewProgress    = 0.8
)

// EffortRemaining returns the work left on t in days.
//
// An explicit EffortRemaining is returned clamped to [0, Effort]; an Effort of 0
// means the total is unknown and only the lower bound applies. Otherwise
// it is approximated from status: the days already spent are guessed as 0 for
// Not Started, DaysBlocked for blocked statuses, 30% of effort while in
// development and 80% in code review. This is a heuristic, not a measurement.
// Negative effort is the only input it rejects; negative DaysBlocked reads as 0.
func EffortRemaining(t ticket.Ticket) (int, error) {
	if t.Effort < 0 {
		return 0, &ticket.ValidationError{TicketID: t.ID, Field: "effort", Err: ticket.ErrNegativeEffort}
	}
	if t.EffortRemaining != nil {
		remaining := max(0, *t.EffortRemaining)
		// Remaining never exceeds a known total.
		if t.Effort > 0 {
			remaining = min(remaining, t.Effort)
		}
		return remaining, nil
	}

	var spent int
	switch {
	case t.Status.IsNotStarted():
		spent = 0
	case t.Status.IsBlocked():
		spent = max(0, t.DaysBlocked)
	case t.Status.IsInProgress():
		spent = int(math.Floor(float64(t.Effort) * inDevelopmentProgress))
	case t.Status == ticket.StatusCodeReview:
		spent = int(math.Floor(float64(t.Effort) * codeReviewProgress))
	}
	return max(0, t.Effort-spent), nil
}
