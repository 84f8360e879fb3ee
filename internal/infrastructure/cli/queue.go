package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var queueJSON bool

var queueCmd = &cobra.Command{
	Use:   "queue [developer]",
	Short: "Project developer queues forward in working days",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			dev, err := services.Simulation.Developer(cmd.Context(), args[0])
			if err != nil {
				return MapError(err)
			}
			if queueJSON {
				return writeJSON(out, dev)
			}
			renderQueue(out, dev)
			return nil
		}

		snapshot, err := services.Simulation.Snapshot(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		if queueJSON {
			return writeJSON(out, snapshot)
		}
		if len(snapshot.Developers) == 0 {
			fmt.Fprintln(out, "No open tickets. Import some with 'velocity import'.")
			return nil
		}
		for i, dev := range snapshot.Developers {
			if i > 0 {
				fmt.Fprintln(out)
			}
			renderQueue(out, dev)
		}
		return nil
	},
}

var insightsJSON bool

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show the highest priority team insights",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		insights, err := services.Simulation.Insights(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		if insightsJSON {
			if insights == nil {
				insights = []string{}
			}
			return writeJSON(cmd.OutOrStdout(), insights)
		}
		renderInsights(cmd.OutOrStdout(), insights)
		return nil
	},
}

var planJSON bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what fits in the current sprint and what spills over",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		plan, err := services.Simulation.Sprint(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		out := cmd.OutOrStdout()
		if planJSON {
			return writeJSON(out, plan)
		}

		fmt.Fprintln(out, titleStyle.Render("Sprint ends "+plan.SprintEnd.String()))
		t := newTable().Headers("DEVELOPER", "CAPACITY", "COMMITTED", "UTILIZATION", "FITS", "SPILL-OVER", "AT RISK")
		for _, d := range plan.Developers {
			spill := fmt.Sprintf("%d", len(d.SpillOver))
			if len(d.SpillOver) > 0 {
				spill = riskStyle.Render(fmt.Sprintf("%d (%dd)", len(d.SpillOver), d.SpillOverDays()))
			}
			t.Row(
				d.Name,
				fmt.Sprintf("%dd", d.CapacityDays),
				fmt.Sprintf("%dd", d.CommittedDays),
				fmt.Sprintf("%.0f%%", d.Utilization()*100),
				fmt.Sprintf("%d", len(d.Fits)),
				spill,
				fmt.Sprintf("%d", len(d.AtRisk)),
			)
		}
		fmt.Fprintln(out, t.String())

		for _, d := range plan.Developers {
			for _, tk := range d.SpillOver {
				fmt.Fprintf(out, "  %s: %s %s finishes %s\n", d.Name, tk.ID, tk.Title, formatDay(tk.ProjectedEnd))
			}
		}
		return nil
	},
}

func init() {
	queueCmd.Flags().BoolVar(&queueJSON, "json", false, "Output in JSON format")
	insightsCmd.Flags().BoolVar(&insightsJSON, "json", false, "Output in JSON format")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "Output in JSON format")
	RootCmd.AddCommand(queueCmd, insightsCmd, planCmd)
}
