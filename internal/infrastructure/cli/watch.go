package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/naineet-code/engineer-velocity-view/internal/infrastructure/watch"
	"github.com/naineet-code/engineer-velocity-view/pkg/storage"
	"github.com/spf13/cobra"
)

var watchOnce bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-print the team pulse whenever the tickets or config change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := workspaceRoot()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if err := printPulse(cmd.Context(), out, root); err != nil {
			return err
		}
		if watchOnce {
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w, err := watch.NewWatcher(0, watch.WorkspaceFilter(), func(batch []watch.ChangeEvent) {
			fmt.Fprintln(out)
			for _, ev := range batch {
				fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%s %s", filepath.Base(ev.Path), ev.Kind)))
			}
			if err := printPulse(ctx, out, root); err != nil {
				fmt.Fprintln(out, blockedStyle.Render(err.Error()))
			}
		}, logger)
		if err != nil {
			return err
		}
		if err := w.Add(filepath.Join(root, storage.VelocityDir)); err != nil {
			return MapError(fmt.Errorf("%w: %v", storage.ErrNotInitialized, err))
		}

		fmt.Fprintln(out, mutedStyle.Render("\nWatching .velocity for changes (Ctrl+C to stop)"))
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// printPulse reloads the workspace so config edits take effect, then prints
// the KPIs followed by the insights.
func printPulse(ctx context.Context, out io.Writer, root string) error {
	services, err := loadServices(root)
	if err != nil {
		return err
	}
	summary, err := services.KPI.Summary(ctx)
	if err != nil {
		return MapError(err)
	}
	insights, err := services.Simulation.Insights(ctx)
	if err != nil {
		return MapError(err)
	}
	renderSummary(out, summary)
	fmt.Fprintln(out)
	renderInsights(out, insights)
	return nil
}

func init() {
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Print the pulse once and exit")
	RootCmd.AddCommand(watchCmd)
}
