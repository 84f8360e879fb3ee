package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/naineet-code/engineer-velocity-view/pkg/application"
	"github.com/spf13/cobra"
)

var (
	importMerge bool
	importJSON  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load tickets into the working set",
	Long: `Load tickets from a tracker export. By default the working set is replaced;
with --merge tickets are upserted by id.`,
}

func importRunner(run func(ctx context.Context, svc *application.ImportService, args []string) (application.ImportReport, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		report, err := run(cmd.Context(), services.Import, args)
		if err != nil {
			return MapError(err)
		}
		if importJSON {
			return writeJSON(cmd.OutOrStdout(), report)
		}
		renderImport(cmd.OutOrStdout(), report)
		return nil
	}
}

var importCSVCmd = &cobra.Command{
	Use:   "csv <file>",
	Short: "Import a CSV export",
	Args:  cobra.ExactArgs(1),
	RunE: importRunner(func(ctx context.Context, svc *application.ImportService, args []string) (application.ImportReport, error) {
		return svc.ImportCSV(ctx, args[0], importMerge)
	}),
}

var importJSONCmd = &cobra.Command{
	Use:   "json <file>",
	Short: "Import a JSON array of tickets",
	Args:  cobra.ExactArgs(1),
	RunE: importRunner(func(ctx context.Context, svc *application.ImportService, args []string) (application.ImportReport, error) {
		return svc.ImportJSON(ctx, args[0], importMerge)
	}),
}

var importYAMLCmd = &cobra.Command{
	Use:   "yaml <file>",
	Short: "Import a YAML list of tickets",
	Args:  cobra.ExactArgs(1),
	RunE: importRunner(func(ctx context.Context, svc *application.ImportService, args []string) (application.ImportReport, error) {
		return svc.ImportYAML(ctx, args[0], importMerge)
	}),
}

var importSampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Import the built-in demo team",
	Args:  cobra.NoArgs,
	RunE: importRunner(func(ctx context.Context, svc *application.ImportService, _ []string) (application.ImportReport, error) {
		return svc.ImportSample(ctx, importMerge)
	}),
}

func renderImport(w io.Writer, r application.ImportReport) {
	if r.Merged {
		fmt.Fprintf(w, "Merged %d tickets from %s (%d added, %d updated, %d total)\n", r.Imported, r.Source, r.Added, r.Updated, r.Total)
	} else {
		fmt.Fprintf(w, "Imported %d tickets from %s\n", r.Imported, r.Source)
	}
	for _, issue := range r.Rejected {
		fmt.Fprintln(w, blockedStyle.Render("  rejected: "+issue.String()))
	}
	for _, issue := range r.Warnings {
		fmt.Fprintln(w, mutedStyle.Render("  warning: "+issue.String()))
	}
}

func init() {
	importCmd.PersistentFlags().BoolVar(&importMerge, "merge", false, "Upsert by id instead of replacing the working set")
	importCmd.PersistentFlags().BoolVar(&importJSON, "json", false, "Output the import report in JSON format")
	importCmd.AddCommand(importCSVCmd, importJSONCmd, importYAMLCmd, importSampleCmd)
	RootCmd.AddCommand(importCmd)
}
