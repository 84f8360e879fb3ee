package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/naineet-code/engineer-velocity-view/internal/infrastructure/watch"
	"github.com/naineet-code/engineer-velocity-view/internal/infrastructure/wiring"
	"github.com/naineet-code/engineer-velocity-view/pkg/application"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/analytics"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/schedule"
	"github.com/naineet-code/engineer-velocity-view/pkg/storage"
	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive terminal dashboard with live reload",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		// Building once up front surfaces config errors before the TUI starts.
		if _, err := loadServices(root); err != nil {
			return err
		}

		p := tea.NewProgram(newDashboardModel(workspaceLoader(root)), tea.WithAltScreen(), tea.WithContext(cmd.Context()))

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		w, err := watch.NewWatcher(0, watch.WorkspaceFilter(), func([]watch.ChangeEvent) {
			p.Send(refreshMsg{})
		}, logger)
		if err != nil {
			return err
		}
		if err := w.Add(filepath.Join(root, storage.VelocityDir)); err != nil {
			logger.Warn("live reload disabled", "error", err)
		} else {
			go func() { _ = w.Run(ctx) }()
		}

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("dashboard run failed: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dashboardCmd)
}

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

type dashboardData struct {
	Team application.TeamSnapshot
	KPI  analytics.Summary
}

type dashboardLoader func(ctx context.Context) (dashboardData, error)

// workspaceLoader rebuilds the services on every load so config edits and a
// moving wall clock are picked up.
func workspaceLoader(root string) dashboardLoader {
	return func(ctx context.Context) (dashboardData, error) {
		services, err := wiring.BuildAppServices(root, logger)
		if err != nil {
			return dashboardData{}, err
		}
		return loadDashboardData(ctx, services)
	}
}

func loadDashboardData(ctx context.Context, services *wiring.AppServices) (dashboardData, error) {
	team, err := services.Simulation.Snapshot(ctx)
	if err != nil {
		return dashboardData{}, err
	}
	kpi, err := services.KPI.Summary(ctx)
	if err != nil {
		return dashboardData{}, err
	}
	return dashboardData{Team: team, KPI: kpi}, nil
}

type loadedMsg struct {
	data dashboardData
	err  error
}

type refreshMsg struct{}

type dashboardModel struct {
	load     dashboardLoader
	data     dashboardData
	table    table.Model
	selected string
	loaded   bool
	err      error
}

func newDashboardModel(load dashboardLoader) dashboardModel {
	m := dashboardModel{load: load}
	m.table = m.buildTable()
	return m
}

func (m dashboardModel) fetch() tea.Msg {
	data, err := m.load(context.Background())
	return loadedMsg{data: data, err: err}
}

func (m dashboardModel) Init() tea.Cmd { return m.fetch }

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case loadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.data = msg.data
			m.loaded = true
			if m.selected != "" && m.developer() == nil {
				m.selected = ""
			}
		}
		m.table = m.buildTable()
		return m, nil
	case refreshMsg:
		return m, m.fetch
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.fetch
		case "enter":
			if m.selected == "" {
				if row := m.table.SelectedRow(); len(row) > 0 {
					m.selected = row[0]
					m.table = m.buildTable()
				}
			}
			return m, nil
		case "esc", "backspace":
			if m.selected != "" {
				m.selected = ""
				m.table = m.buildTable()
			}
			return m, nil
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m dashboardModel) developer() *schedule.SimulatedDeveloper {
	for i := range m.data.Team.Developers {
		if m.data.Team.Developers[i].Name == m.selected {
			return &m.data.Team.Developers[i]
		}
	}
	return nil
}

func (m dashboardModel) buildTable() table.Model {
	var (
		columns []table.Column
		rows    []table.Row
	)
	if dev := m.developer(); dev != nil {
		columns = []table.Column{
			{Title: "#", Width: 3},
			{Title: "ID", Width: 12},
			{Title: "Title", Width: 28},
			{Title: "Status", Width: 16},
			{Title: "Left", Width: 5},
			{Title: "End", Width: 15},
			{Title: "ETA", Width: 10},
			{Title: "Flags", Width: 24},
		}
		for i, t := range dev.Tickets {
			rows = append(rows, table.Row{
				fmt.Sprintf("%d", i+1), t.ID, t.Title, string(t.Status),
				fmt.Sprintf("%dd", t.EffortRemaining), formatDay(t.ProjectedEnd), formatETA(t.ETA), ticketFlags(t),
			})
		}
	} else {
		columns = []table.Column{
			{Title: "Developer", Width: 16},
			{Title: "Queued", Width: 7},
			{Title: "At risk", Width: 7},
			{Title: "Blocked", Width: 7},
			{Title: "Overflow", Width: 8},
			{Title: "Finishes", Width: 15},
		}
		for _, d := range m.data.Team.Developers {
			rows = append(rows, table.Row{
				d.Name, fmt.Sprintf("%dd", d.TotalEffortDays), fmt.Sprintf("%d", d.RiskTicketCount),
				fmt.Sprintf("%d", d.BlockedTicketCount), yesNo(d.HasQueueOverflow), formatDay(d.ProjectedFinish),
			})
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)
	return t
}

func (m dashboardModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error loading dashboard: %v\n%s\nPress r to retry, q to quit.\n", m.err, hintFor(m.err))
	}
	if !m.loaded {
		return "Loading team pulse...\n"
	}

	k := m.data.KPI
	title := "Team pulse"
	help := "[Enter] Open queue  [r] Reload  [q] Quit"
	if m.selected != "" {
		title = m.selected + "'s queue"
		help = "[Esc] Back  [r] Reload  [q] Quit"
	}

	pulse := fmt.Sprintf("Blocked %d (avg %.1fd) · ETA risk %d · Closed yesterday %d · Last 7 days %d · Velocity %s",
		k.TotalBlockedTickets, k.AverageDaysBlocked, k.ETARiskCount, k.TicketsClosedYesterday, k.TicketsClosedLast7Days, k.Velocity.Direction)

	var insights strings.Builder
	for _, msg := range m.data.Team.Insights {
		insights.WriteString(riskStyle.Render("• "+msg) + "\n")
	}
	if insights.Len() == 0 {
		insights.WriteString(okStyle.Render("No insights: the team is clear.") + "\n")
	}

	return baseStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			headerStyle.Render(title)+mutedStyle.Render("  "+m.data.Team.GeneratedAt.Format("2006-01-02 15:04")),
			pulse,
			"",
			m.table.View(),
			"",
			insights.String(),
			mutedStyle.Render(help),
		),
	) + "\n"
}

func hintFor(err error) string {
	if cliErr, ok := MapError(err).(*CLIError); ok && cliErr.Hint != "" {
		return "Hint: " + cliErr.Hint
	}
	return ""
}
