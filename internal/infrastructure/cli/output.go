package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/analytics"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/schedule"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	riskStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	blockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cellStyle    = lipgloss.NewStyle().PaddingRight(1)
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("Mon 2006-01-02")
}

func formatETA(d ticket.Date) string {
	if d.IsZero() {
		return "-"
	}
	return d.String()
}

func ticketFlags(t schedule.SimulatedTicket) string {
	var flags []string
	if t.IsBlocked {
		f := fmt.Sprintf("blocked %dd", t.DaysBlocked)
		if t.BlockedBy != "" {
			f += " by " + t.BlockedBy
		}
		flags = append(flags, f)
	}
	if t.IsRisk {
		flags = append(flags, "ETA risk")
	}
	return strings.Join(flags, ", ")
}

func newTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return cellStyle.Bold(true)
			}
			return cellStyle
		})
}

func developerHeader(d schedule.SimulatedDeveloper) string {
	parts := []string{fmt.Sprintf("%dd queued", d.TotalEffortDays)}
	if d.RiskTicketCount > 0 {
		parts = append(parts, riskStyle.Render(fmt.Sprintf("%d at risk", d.RiskTicketCount)))
	}
	if d.BlockedTicketCount > 0 {
		parts = append(parts, blockedStyle.Render(fmt.Sprintf("%d blocked", d.BlockedTicketCount)))
	}
	if d.HasQueueOverflow {
		parts = append(parts, riskStyle.Render("queue overflow"))
	}
	if !d.ProjectedFinish.IsZero() {
		parts = append(parts, "finishes "+formatDay(d.ProjectedFinish))
	}
	return titleStyle.Render(d.Name) + "  " + strings.Join(parts, " · ")
}

func renderQueue(w io.Writer, d schedule.SimulatedDeveloper) {
	fmt.Fprintln(w, developerHeader(d))
	if len(d.Tickets) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  No open tickets."))
		return
	}

	t := newTable().Headers("#", "ID", "TITLE", "STATUS", "LEFT", "START", "END", "ETA", "FLAGS")
	for i, tk := range d.Tickets {
		t.Row(
			fmt.Sprintf("%d", i+1),
			tk.ID,
			tk.Title,
			string(tk.Status),
			fmt.Sprintf("%dd", tk.EffortRemaining),
			formatDay(tk.ProjectedStart),
			formatDay(tk.ProjectedEnd),
			formatETA(tk.ETA),
			ticketFlags(tk),
		)
	}
	fmt.Fprintln(w, t.String())
}

func renderInsights(w io.Writer, insights []string) {
	if len(insights) == 0 {
		fmt.Fprintln(w, okStyle.Render("No insights: nobody is blocked, at risk or overloaded."))
		return
	}
	for _, msg := range insights {
		fmt.Fprintf(w, "• %s\n", msg)
	}
}

func renderSummary(w io.Writer, s analytics.Summary) {
	fmt.Fprintln(w, titleStyle.Render("Team pulse")+mutedStyle.Render("  as of "+s.GeneratedAt.Format("2006-01-02 15:04 MST")))
	fmt.Fprintf(w, "  Tickets:            %d\n", s.TotalTickets)
	fmt.Fprintf(w, "  Blocked:            %d (avg %.1f days)\n", s.TotalBlockedTickets, s.AverageDaysBlocked)
	fmt.Fprintf(w, "  ETA risk:           %d", s.ETARiskCount)
	if len(s.DevelopersWithRisk) > 0 {
		fmt.Fprintf(w, " (%s)", strings.Join(s.DevelopersWithRisk, ", "))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Closed yesterday:   %d\n", s.TicketsClosedYesterday)
	fmt.Fprintf(w, "  Closed last 7 days: %d\n", s.TicketsClosedLast7Days)
	fmt.Fprintf(w, "  Velocity:           %s (%.0f%% confidence)\n", s.Velocity.Direction, s.Velocity.Confidence*100)

	d := s.TimeDistribution
	fmt.Fprintf(w, "  Time spent (days):  development %.1f · blocked %.1f · review %.1f · release %.1f\n",
		d.Development, d.Blocked, d.Review, d.Release)

	if len(s.BlockersBySource) > 0 {
		var parts []string
		for _, b := range s.BlockersBySource {
			parts = append(parts, fmt.Sprintf("%s %d", b.Source, b.Count))
		}
		fmt.Fprintf(w, "  Blockers:           %s\n", strings.Join(parts, " · "))
	}

	if len(s.Developers) == 0 {
		return
	}
	fmt.Fprintln(w)
	t := newTable().Headers("DEVELOPER", "OPEN EFFORT", "COMPLETED", "AT RISK", "IDLE")
	for _, m := range s.Developers {
		t.Row(m.Name, fmt.Sprintf("%dd", m.TotalEffort), fmt.Sprintf("%d", m.Completed), fmt.Sprintf("%d", m.AtRisk), yesNo(m.Idle))
	}
	fmt.Fprintln(w, t.String())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
