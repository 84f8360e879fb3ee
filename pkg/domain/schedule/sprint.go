package schedule

import (
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

// SprintPlan is the sprint-planning view over simulated queues.
type SprintPlan struct {
	SprintEnd  ticket.Date       `json:"sprint_end"`
	Developers []DeveloperSprint `json:"developers"`
}

// DeveloperSprint reports how one developer's queue fits the sprint.
type DeveloperSprint struct {
	Name          string            `json:"name"`
	CapacityDays  int               `json:"capacity_days"`
	CommittedDays int               `json:"committed_days"`
	Fits          []SimulatedTicket `json:"fits"`
	SpillOver     []SimulatedTicket `json:"spill_over"`
	AtRisk        []SimulatedTicket `json:"at_risk"`
}

// Utilization returns committed work as a fraction of capacity.
func (d DeveloperSprint) Utilization() float64 {
	if d.CapacityDays == 0 {
		return 0
	}
	return float64(d.CommittedDays) / float64(d.CapacityDays)
}

// SpillOverDays sums the remaining effort that will not land in the sprint.
func (d DeveloperSprint) SpillOverDays() int {
	n := 0
	for _, t := range d.SpillOver {
		n += t.EffortRemaining
	}
	return n
}

// PlanSprint splits each developer's projected queue into tickets finishing by
// sprintEnd and tickets spilling past it.
func (e Engine) PlanSprint(devs []SimulatedDeveloper, sprintEnd ticket.Date) SprintPlan {
	end := sprintEnd.In(e.now.Location())
	capacity := max(0, WorkingDaysBetween(e.now, end))

	plan := SprintPlan{SprintEnd: sprintEnd, Developers: make([]DeveloperSprint, 0, len(devs))}
	for _, d := range devs {
		ds := DeveloperSprint{Name: d.Name, CapacityDays: capacity}
		for _, t := range d.Tickets {
			if t.ProjectedEnd.After(end) {
				ds.SpillOver = append(ds.SpillOver, t)
			} else {
				ds.Fits = append(ds.Fits, t)
				ds.CommittedDays += t.EffortRemaining
			}
			if t.IsRisk {
				ds.AtRisk = append(ds.AtRisk, t)
			}
		}
		plan.Developers = append(plan.Developers, ds)
	}
	return plan
}

// SprintEnd returns the date length working days after start.
func SprintEnd(start ticket.Date, length int, loc *time.Location) (ticket.Date, error) {
	end, err := AddWorkingDays(start.In(loc), max(0, length-1))
	if err != nil {
		return ticket.Date{}, err
	}
	return ticket.DateOf(end), nil
}
