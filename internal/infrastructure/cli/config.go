package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the workspace configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration, including environment overrides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(services.Workspace.Config)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprint(out, string(data))

		clock := services.Workspace.Clock
		source := "wall clock"
		if clock.Fixed() {
			source = "fixed"
		}
		fmt.Fprintf(out, "# now resolves to %s (%s)\n", clock.Now().Format("2006-01-02T15:04:05Z07:00"), source)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	RootCmd.AddCommand(configCmd)
}
