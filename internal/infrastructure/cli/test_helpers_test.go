package cli

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const fixedNow = "2026-10-19T10:00:00Z"

// resetFlags restores every flag to its default so RootCmd can be executed
// repeatedly within one test binary.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// runCLI executes velocity against dir with a pinned clock and returns stdout.
func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("VELOCITY_NOW", fixedNow)
	t.Setenv("VELOCITY_TZ", "UTC")

	resetFlags(RootCmd)
	logLevel.Set(slog.LevelInfo)
	t.Cleanup(func() { logger = slog.Default() })

	out := new(bytes.Buffer)
	RootCmd.SetOut(out)
	RootCmd.SetErr(io.Discard)
	RootCmd.SetArgs(append([]string{"--project", dir}, args...))

	err := RootCmd.Execute()
	return out.String(), err
}

// sampleWorkspace returns an initialised workspace holding the demo team.
func sampleWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if _, err := runCLI(t, dir, "init"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := runCLI(t, dir, "import", "sample"); err != nil {
		t.Fatalf("import sample: %v", err)
	}
	return dir
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}
