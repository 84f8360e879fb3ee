package ticket

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"
)

// Lifecycle states tracked by the blocker workflow. These are coarser than
// Status: every blocking status maps to StateBlocked.
const (
	StateActive  = "active"
	StateBlocked = "blocked"
	StateClosed  = "closed"
)

// Lifecycle events.
const (
	EventBlock   = "block"
	EventUnblock = "unblock"
	EventClose   = "close"
	EventReopen  = "reopen"
)

// lifecycleState maps a status onto the workflow machine.
func lifecycleState(s Status) string {
	switch {
	case s.IsClosed():
		return StateClosed
	case s.IsBlocked():
		return StateBlocked
	default:
		return StateActive
	}
}

type workflowContext struct {
	TicketID string
}

// Workflow drives a ticket through the blocker lifecycle.
type Workflow struct {
	interpreter *statekit.Interpreter[workflowContext]
}

// NewWorkflow builds a machine positioned at the ticket's current lifecycle state.
func NewWorkflow(t Ticket) (*Workflow, error) {
	builder := statekit.NewMachine[workflowContext]("ticket-lifecycle").
		WithInitial(statekit.StateID(lifecycleState(t.Status))).
		WithContext(workflowContext{TicketID: t.ID})

	builder.State(StateActive).
		On(EventBlock).Target(StateBlocked).
		On(EventClose).Target(StateClosed).
		Done()

	builder.State(StateBlocked).
		On(EventUnblock).Target(StateActive).
		On(EventClose).Target(StateClosed).
		Done()

	builder.State(StateClosed).
		On(EventReopen).Target(StateActive).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build ticket workflow: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &Workflow{interpreter: interpreter}, nil
}

// Current returns the current lifecycle state.
func (w *Workflow) Current() string {
	return string(w.interpreter.State().Value)
}

// Send applies event and reports whether the machine moved.
func (w *Workflow) Send(event string) bool {
	before := w.Current()
	w.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	return w.Current() != before
}

func (t *Ticket) fire(event string) error {
	wf, err := NewWorkflow(*t)
	if err != nil {
		return err
	}
	from := wf.Current()
	if !wf.Send(event) {
		return &TransitionError{TicketID: t.ID, From: from, Event: event}
	}
	return nil
}

func (t *Ticket) record(status Status, at time.Time) {
	t.Status = status
	t.LastUpdated = at
	t.EventLog = append(t.EventLog, Transition{Status: status, Timestamp: at})
}

// Block moves the ticket into a blocked status attributed to source. An
// empty status means StatusBlocked; anything that is not a blocked status is
// rejected.
func (t *Ticket) Block(status Status, source string, at time.Time) error {
	if status == "" {
		status = StatusBlocked
	}
	if !status.IsBlocked() {
		return &TransitionError{TicketID: t.ID, From: lifecycleState(t.Status), Event: EventBlock + " as " + string(status)}
	}
	if err := t.fire(EventBlock); err != nil {
		return err
	}
	t.BlockedBy = source
	t.DaysBlocked = 0
	t.record(status, at)
	return nil
}

// Unblock resolves the current blocker. The ticket resumes the last
// non-blocked status in its log, or In Development when there is none.
func (t *Ticket) Unblock(at time.Time) error {
	if err := t.fire(EventUnblock); err != nil {
		return err
	}
	resume := StatusInDevelopment
	for i := len(t.EventLog) - 1; i >= 0; i-- {
		s := t.EventLog[i].Status
		if !s.IsBlocked() && !s.IsClosed() && s != "" {
			resume = s
			break
		}
	}
	t.BlockedBy = ""
	t.DaysBlocked = 0
	resumed := at
	t.ResumedAt = &resumed
	t.record(resume, at)
	return nil
}

// Close marks the ticket done.
func (t *Ticket) Close(at time.Time) error {
	if err := t.fire(EventClose); err != nil {
		return err
	}
	t.BlockedBy = ""
	t.DaysBlocked = 0
	t.record(StatusClosed, at)
	return nil
}

// Reopen returns a closed ticket to development.
func (t *Ticket) Reopen(at time.Time) error {
	if err := t.fire(EventReopen); err != nil {
		return err
	}
	t.record(StatusInDevelopment, at)
	return nil
}
