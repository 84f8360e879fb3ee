package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/application"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

func TestSimulationService_Team(t *testing.T) {
	svc := application.NewSimulationService(teamRepo(), settings(), nil)

	devs, err := svc.Team(context.Background())
	if err != nil {
		t.Fatalf("Team failed: %v", err)
	}
	if len(devs) != 2 {
		t.Fatalf("expected 2 developers, got %d", len(devs))
	}

	asha := devs[0]
	if asha.Name != "Asha" || asha.TotalEffortDays != 7 || asha.RiskTicketCount != 1 {
		t.Errorf("unexpected Asha projection: %+v", asha)
	}
	if end := ticket.DateOf(asha.Tickets[0].ProjectedEnd); end != ticket.MustParseDate("2026-10-26") {
		t.Errorf("T1 ends %s, want 2026-10-26", end)
	}

	ravi := devs[1]
	if len(ravi.Tickets) != 1 {
		t.Fatalf("expected closed ticket to be excluded, got %d tickets", len(ravi.Tickets))
	}
	if got := ravi.Tickets[0].DaysBlocked; got != 2 {
		t.Errorf("DaysBlocked = %d, want 2 working days since blocking", got)
	}
}

func TestSimulationService_Developer(t *testing.T) {
	svc := application.NewSimulationService(teamRepo(), settings(), nil)

	dev, err := svc.Developer(context.Background(), "Ravi")
	if err != nil {
		t.Fatalf("Developer failed: %v", err)
	}
	if dev.BlockedTicketCount != 1 {
		t.Errorf("BlockedTicketCount = %d, want 1", dev.BlockedTicketCount)
	}

	if _, err := svc.Developer(context.Background(), "Nobody"); !errors.Is(err, application.ErrDeveloperNotFound) {
		t.Errorf("expected ErrDeveloperNotFound, got %v", err)
	}
}

func TestSimulationService_Snapshot(t *testing.T) {
	svc := application.NewSimulationService(teamRepo(), settings(), nil)

	snap, err := svc.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(snap.Developers) != 2 || snap.GeneratedAt.Hour() != 0 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Insights) == 0 {
		t.Fatal("expected insights")
	}
	if snap.Insights[0] != "Client accounts for 100% of blocked tickets." {
		t.Errorf("Insights[0] = %q", snap.Insights[0])
	}
}

func TestSimulationService_Sprint(t *testing.T) {
	s := settings()
	s.SprintEnd = func(time.Time) (ticket.Date, error) { return ticket.MustParseDate("2026-10-23"), nil }
	svc := application.NewSimulationService(teamRepo(), s, nil)

	plan, err := svc.Sprint(context.Background())
	if err != nil {
		t.Fatalf("Sprint failed: %v", err)
	}
	if plan.SprintEnd != ticket.MustParseDate("2026-10-23") || len(plan.Developers) != 2 {
		t.Fatalf("unexpected plan: %+v", plan)
	}
	asha := plan.Developers[0]
	if asha.CapacityDays != 4 || len(asha.SpillOver) != 2 {
		t.Errorf("capacity=%d spill=%d, want 4 and 2", asha.CapacityDays, len(asha.SpillOver))
	}
}

func TestSimulationService_LoadError(t *testing.T) {
	repo := teamRepo()
	repo.LoadError = errors.New("disk gone")
	svc := application.NewSimulationService(repo, settings(), nil)

	if _, err := svc.Team(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
}

func TestSimulationService_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := application.NewSimulationService(teamRepo(), settings(), nil)

	if _, err := svc.Team(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
