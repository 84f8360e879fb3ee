package cli

import (
	"fmt"
	"os"

	"github.com/naineet-code/engineer-velocity-view/internal/infrastructure/config"
	"github.com/naineet-code/engineer-velocity-view/pkg/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a velocity workspace in the project directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getProjectRoot()
		if err != nil {
			return err
		}
		repo := storage.NewFilesystemRepository(root)
		if err := repo.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}

		path, err := repo.ResolvePath(storage.ConfigFile)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := config.Save(root, config.Default()); err != nil {
				return fmt.Errorf("failed to write default config: %w", err)
			}
		}

		logger.Info("workspace initialized", "root", root)
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized velocity workspace in %s\n", root)
		fmt.Fprintln(cmd.OutOrStdout(), "Next: velocity import csv <file>  (or 'velocity import sample' to explore)")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
