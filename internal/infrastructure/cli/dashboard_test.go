package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/naineet-code/engineer-velocity-view/pkg/application"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/analytics"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/schedule"
	"github.com/naineet-code/engineer-velocity-view/pkg/storage"
)

func dashboardFixture() dashboardData {
	return dashboardData{
		Team: application.TeamSnapshot{
			Developers: []schedule.SimulatedDeveloper{
				{Name: "Asha", TotalEffortDays: 7, Tickets: []schedule.SimulatedTicket{
					{ID: "T1", Title: "Checkout", EffortRemaining: 4, IsRisk: true},
					{ID: "T2", Title: "Refunds", EffortRemaining: 3},
				}},
				{Name: "Ravi", TotalEffortDays: 2, Tickets: []schedule.SimulatedTicket{
					{ID: "R1", Title: "Ledger", EffortRemaining: 2, IsBlocked: true, DaysBlocked: 4, BlockedBy: "Client"},
				}},
			},
			Insights: []string{"Client accounts for 100% of blocked tickets."},
		},
		KPI: analytics.Summary{TotalBlockedTickets: 1, ETARiskCount: 1},
	}
}

func loadedModel(t *testing.T) dashboardModel {
	t.Helper()
	data := dashboardFixture()
	m := newDashboardModel(func(context.Context) (dashboardData, error) { return data, nil })
	msg := m.Init()()
	next, _ := m.Update(msg)
	return next.(dashboardModel)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDashboardModel_TeamView(t *testing.T) {
	m := loadedModel(t)

	view := m.View()
	assertContains(t, view, "Team pulse", "Asha", "Ravi", "ETA risk 1", "Client accounts for 100%")
	if got := len(m.table.Rows()); got != 2 {
		t.Errorf("team rows = %d, want 2", got)
	}
}

func TestDashboardModel_DrillDown(t *testing.T) {
	m := loadedModel(t)

	next, _ := m.Update(key("down"))
	m = next.(dashboardModel)
	next, _ = m.Update(key("enter"))
	m = next.(dashboardModel)

	if m.selected != "Ravi" {
		t.Fatalf("selected = %q, want Ravi", m.selected)
	}
	view := m.View()
	assertContains(t, view, "Ravi's queue", "R1", "blocked 4d by Client")

	next, _ = m.Update(key("esc"))
	m = next.(dashboardModel)
	if m.selected != "" {
		t.Errorf("selected = %q after esc, want team view", m.selected)
	}
}

func TestDashboardModel_ReloadDropsMissingDeveloper(t *testing.T) {
	m := loadedModel(t)
	m.selected = "Asha"

	data := dashboardFixture()
	data.Team.Developers = data.Team.Developers[1:]
	next, _ := m.Update(loadedMsg{data: data})
	m = next.(dashboardModel)

	if m.selected != "" {
		t.Errorf("selected = %q, want reset to team view", m.selected)
	}
}

func TestDashboardModel_RefreshAndQuit(t *testing.T) {
	m := loadedModel(t)

	if _, cmd := m.Update(refreshMsg{}); cmd == nil {
		t.Error("refresh should schedule a reload")
	}
	if _, cmd := m.Update(key("r")); cmd == nil {
		t.Error("r should schedule a reload")
	}
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestDashboardModel_Error(t *testing.T) {
	m := newDashboardModel(func(context.Context) (dashboardData, error) {
		return dashboardData{}, storage.ErrNotInitialized
	})
	next, _ := m.Update(m.Init()())
	view := next.(dashboardModel).View()

	assertContains(t, view, "Error loading dashboard", "velocity init")
	if !strings.Contains(view, "retry") {
		t.Error("expected retry hint")
	}
}

func TestDashboardModel_Loading(t *testing.T) {
	m := newDashboardModel(func(context.Context) (dashboardData, error) { return dashboardData{}, errors.New("unused") })
	if got := m.View(); got != "Loading team pulse...\n" {
		t.Errorf("View() = %q", got)
	}
}

func TestLoadDashboardData(t *testing.T) {
	dir := sampleWorkspace(t)
	t.Setenv("VELOCITY_NOW", fixedNow)
	t.Setenv("VELOCITY_TZ", "UTC")

	data, err := workspaceLoader(dir)(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Team.Developers) != 4 || data.KPI.TotalTickets != 14 {
		t.Errorf("unexpected data: %d developers, %d tickets", len(data.Team.Developers), data.KPI.TotalTickets)
	}
}
