package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/naineet-code/engineer-velocity-view/pkg/storage"
)

func TestFindWorkspaceRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "services", "billing")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	if got := findWorkspaceRoot(nested); got != nested {
		t.Errorf("without a workspace: got %q, want %q", got, nested)
	}

	if err := os.Mkdir(filepath.Join(root, storage.VelocityDir), 0o755); err != nil {
		t.Fatal(err)
	}
	if got := findWorkspaceRoot(nested); got != root {
		t.Errorf("from nested dir: got %q, want %q", got, root)
	}
	if got := findWorkspaceRoot(root); got != root {
		t.Errorf("from root: got %q, want %q", got, root)
	}
}

func TestFindWorkspaceRoot_IgnoresVelocityFile(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, storage.VelocityDir), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	sub := filepath.Join(root, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if got := findWorkspaceRoot(sub); got != sub {
		t.Errorf("got %q, want %q", got, sub)
	}
}
