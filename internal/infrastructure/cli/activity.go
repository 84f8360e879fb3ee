package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain"
	"github.com/spf13/cobra"
)

var (
	activityJSON  bool
	activityLimit int
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show the working-set activity log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		events, err := services.Tickets.Activity(cmd.Context())
		if err != nil {
			return MapError(err)
		}
		out := cmd.OutOrStdout()

		broken := domain.VerifyChain(events)
		if broken >= 0 {
			logger.Warn("activity log hash chain broken", "index", broken)
		}

		if activityLimit > 0 && len(events) > activityLimit {
			events = events[len(events)-activityLimit:]
		}
		if activityJSON {
			if events == nil {
				events = []domain.Event{}
			}
			return writeJSON(out, events)
		}
		if len(events) == 0 {
			fmt.Fprintln(out, "No activity yet.")
			return nil
		}

		for _, e := range events {
			keys := make([]string, 0, len(e.Details))
			for k := range e.Details {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			var details []string
			for _, k := range keys {
				details = append(details, k+"="+e.Details[k])
			}
			subject := e.TicketID
			if subject == "" {
				subject = "-"
			}
			fmt.Fprintf(out, "%s  %-16s %-12s %s\n",
				e.Timestamp.Format("2006-01-02 15:04"), e.Action, subject, mutedStyle.Render(strings.Join(details, " ")))
		}
		if broken >= 0 {
			fmt.Fprintln(out, blockedStyle.Render(fmt.Sprintf("Activity log was modified at entry %d.", broken+1)))
		}
		return nil
	},
}

func init() {
	activityCmd.Flags().BoolVar(&activityJSON, "json", false, "Output in JSON format")
	activityCmd.Flags().IntVarP(&activityLimit, "limit", "n", 20, "Show only the most recent entries (0 for all)")
	RootCmd.AddCommand(activityCmd)
}
