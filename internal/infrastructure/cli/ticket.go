package cli

import (
	"context"
	"fmt"

	"github.com/naineet-code/engineer-velocity-view/pkg/application"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/schedule"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
	"github.com/spf13/cobra"
)

var (
	ticketJSON   bool
	blockStatus  string
	blockSource  string
	reassignRank int
)

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Edit tickets in the working set",
	Long:  "Edit tickets in the working set. Each edit prints the affected developer's re-projected queue.",
}

func ticketRunner(action string, run func(ctx context.Context, svc *application.TicketService, cmd *cobra.Command, args []string) (schedule.SimulatedDeveloper, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		dev, err := run(cmd.Context(), services.Tickets, cmd, args)
		if err != nil {
			return MapError(err)
		}
		out := cmd.OutOrStdout()
		if ticketJSON {
			return writeJSON(out, dev)
		}
		fmt.Fprintf(out, "%s %s\n\n", okStyle.Render(action), args[0])
		renderQueue(out, dev)
		return nil
	}
}

var ticketBlockCmd = &cobra.Command{
	Use:   "block <id>",
	Short: "Mark a ticket blocked",
	Args:  cobra.ExactArgs(1),
	RunE: ticketRunner("Blocked", func(ctx context.Context, svc *application.TicketService, _ *cobra.Command, args []string) (schedule.SimulatedDeveloper, error) {
		status := ticket.ParseStatus(blockStatus)
		if !status.IsBlocked() {
			return schedule.SimulatedDeveloper{}, NewCLIError(
				fmt.Sprintf("%q is not a blocked status", blockStatus),
				"Use Blocked, Clarification, Business QC or Release Plan",
				nil,
			)
		}
		return svc.Block(ctx, args[0], status, blockSource)
	}),
}

var ticketUnblockCmd = &cobra.Command{
	Use:   "unblock <id>",
	Short: "Resolve a ticket's blocker",
	Args:  cobra.ExactArgs(1),
	RunE: ticketRunner("Unblocked", func(ctx context.Context, svc *application.TicketService, _ *cobra.Command, args []string) (schedule.SimulatedDeveloper, error) {
		return svc.Unblock(ctx, args[0])
	}),
}

var ticketCloseCmd = &cobra.Command{
	Use:   "close <id>",
	Short: "Mark a ticket done",
	Args:  cobra.ExactArgs(1),
	RunE: ticketRunner("Closed", func(ctx context.Context, svc *application.TicketService, _ *cobra.Command, args []string) (schedule.SimulatedDeveloper, error) {
		return svc.Close(ctx, args[0])
	}),
}

var ticketReassignCmd = &cobra.Command{
	Use:   "reassign <id> <owner>",
	Short: "Move a ticket to another developer's queue",
	Args:  cobra.ExactArgs(2),
	RunE: ticketRunner("Reassigned", func(ctx context.Context, svc *application.TicketService, cmd *cobra.Command, args []string) (schedule.SimulatedDeveloper, error) {
		var rank *int
		if cmd.Flags().Changed("rank") {
			r := reassignRank
			rank = &r
		}
		return svc.Reassign(ctx, args[0], args[1], rank)
	}),
}

var ticketETACmd = &cobra.Command{
	Use:   "eta <id> <date|none>",
	Short: "Change a ticket's ETA",
	Args:  cobra.ExactArgs(2),
	RunE: ticketRunner("ETA set", func(ctx context.Context, svc *application.TicketService, _ *cobra.Command, args []string) (schedule.SimulatedDeveloper, error) {
		var eta ticket.Date
		if args[1] != "none" {
			d, err := ticket.ParseDate(args[1])
			if err != nil {
				return schedule.SimulatedDeveloper{}, NewCLIError("invalid ETA", "Use YYYY-MM-DD, or 'none' to clear it", err)
			}
			eta = d
		}
		return svc.SetETA(ctx, args[0], eta)
	}),
}

func init() {
	ticketCmd.PersistentFlags().BoolVar(&ticketJSON, "json", false, "Output the re-projected queue in JSON format")
	ticketBlockCmd.Flags().StringVar(&blockStatus, "status", string(ticket.StatusClarification), "Blocked status to move the ticket into")
	ticketBlockCmd.Flags().StringVar(&blockSource, "by", "", "Who the ticket is blocked by (e.g. Client, Infra)")
	ticketReassignCmd.Flags().IntVar(&reassignRank, "rank", 0, "Rank in the new queue (default: last)")
	ticketCmd.AddCommand(ticketBlockCmd, ticketUnblockCmd, ticketCloseCmd, ticketReassignCmd, ticketETACmd)
	RootCmd.AddCommand(ticketCmd)
}
