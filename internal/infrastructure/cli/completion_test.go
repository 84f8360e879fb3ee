package cli

import (
	"testing"
)

func TestCompletionCmd(t *testing.T) {
	shells := []string{"bash", "zsh", "fish", "powershell"}

	for _, shell := range shells {
		t.Run(shell, func(t *testing.T) {
			out, err := runCLI(t, t.TempDir(), "completion", shell)
			if err != nil {
				t.Fatalf("completion %s failed: %v", shell, err)
			}
			if len(out) == 0 {
				t.Errorf("completion %s produced no output", shell)
			}
		})
	}
}

func TestCompletionCmd_RejectsUnknownShell(t *testing.T) {
	if _, err := runCLI(t, t.TempDir(), "completion", "tcsh"); err == nil {
		t.Fatal("expected error for unsupported shell")
	}
}
