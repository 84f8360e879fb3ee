package cli

import (
	"fmt"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
	"github.com/spf13/cobra"
)

var (
	kpiJSON      bool
	kpiDeveloper string
)

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Compute the team pulse KPIs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if kpiDeveloper != "" {
			m, err := services.KPI.DeveloperMetrics(cmd.Context(), kpiDeveloper)
			if err != nil {
				return MapError(err)
			}
			if kpiJSON {
				return writeJSON(out, m)
			}
			fmt.Fprintln(out, titleStyle.Render(m.Name))
			fmt.Fprintf(out, "  Open effort: %dd\n  Completed:   %d\n  At risk:     %d\n  Idle:        %s\n",
				m.TotalEffort, m.Completed, m.AtRisk, yesNo(m.Idle))
			return nil
		}

		summary, err := services.KPI.Summary(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		if kpiJSON {
			return writeJSON(out, summary)
		}
		renderSummary(out, summary)
		return nil
	},
}

var riskJSON bool

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "List open tickets likely to miss their ETA",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		tickets, err := services.KPI.ETARisk(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		out := cmd.OutOrStdout()
		if riskJSON {
			if tickets == nil {
				tickets = []ticket.Ticket{}
			}
			return writeJSON(out, tickets)
		}
		if len(tickets) == 0 {
			fmt.Fprintln(out, okStyle.Render("No tickets at risk of missing their ETA."))
			return nil
		}
		t := newTable().Headers("ID", "TITLE", "OWNER", "STATUS", "EFFORT", "ETA")
		for _, tk := range tickets {
			t.Row(tk.ID, tk.Title, tk.Owner, string(tk.Status), fmt.Sprintf("%dd", tk.Effort), formatETA(tk.ETA))
		}
		fmt.Fprintln(out, t.String())
		return nil
	},
}

func init() {
	kpiCmd.Flags().BoolVar(&kpiJSON, "json", false, "Output in JSON format")
	kpiCmd.Flags().StringVar(&kpiDeveloper, "developer", "", "Show one developer's card")
	riskCmd.Flags().BoolVar(&riskJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(kpiCmd, riskCmd)
}
