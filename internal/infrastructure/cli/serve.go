package cli

import (
	"context"
	"errors"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/naineet-code/engineer-velocity-view/internal/infrastructure/watch"
	"github.com/naineet-code/engineer-velocity-view/pkg/infrastructure/dashboard"
	"github.com/naineet-code/engineer-velocity-view/pkg/storage"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard with live updates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		if !services.Workspace.Repo.IsInitialized() {
			return MapError(storage.ErrNotInitialized)
		}

		addr := serveAddr
		if addr == "" {
			addr = services.Workspace.Config.Dashboard.Addr
		}

		server, err := dashboard.NewServer(addr, services.Simulation, services.KPI, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		w, err := watch.NewWatcher(0, watch.WorkspaceFilter(), func(batch []watch.ChangeEvent) {
			logger.Info("tickets changed, pushing fresh pulse", "files", len(batch), "path", batch[len(batch)-1].Path)
			if err := server.Publish(ctx); err != nil {
				logger.Warn("failed to publish pulse", "error", err)
			}
		}, logger)
		if err != nil {
			return err
		}
		if err := w.Add(filepath.Join(services.Workspace.Root, storage.VelocityDir)); err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watcher stopped", "error", err)
			}
		}()

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("dashboard server stopping")
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: dashboard.addr from config)")
	RootCmd.AddCommand(serveCmd)
}
