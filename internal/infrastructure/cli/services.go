package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/naineet-code/engineer-velocity-view/internal/infrastructure/wiring"
	"github.com/naineet-code/engineer-velocity-view/pkg/storage"
)

func loadServices(root string) (*wiring.AppServices, error) {
	services, err := wiring.BuildAppServices(root, logger)
	if err != nil {
		return nil, MapError(fmt.Errorf("failed to build services: %w", err))
	}
	applyLogLevel(services.Workspace.Config.Log.Level)
	logger.Debug("workspace loaded", "root", root, "now", services.Workspace.Clock.Now(), "fixed_clock", services.Workspace.Clock.Fixed())
	return services, nil
}

// getProjectRoot returns --project as an absolute directory, or the working
// directory. init creates the workspace here.
func getProjectRoot() (string, error) {
	if projectPath == "" {
		return os.Getwd()
	}
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return "", fmt.Errorf("invalid project path %q: %w", projectPath, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project path %q: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project path %q is not a directory", abs)
	}
	return abs, nil
}

// workspaceRoot is getProjectRoot for commands that read an existing
// workspace: without --project it walks up from the working directory to the
// nearest .velocity.
func workspaceRoot() (string, error) {
	root, err := getProjectRoot()
	if err != nil || projectPath != "" {
		return root, err
	}
	return findWorkspaceRoot(root), nil
}

// findWorkspaceRoot returns the nearest directory at or above start holding a
// .velocity directory, or start itself when there is none.
func findWorkspaceRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, storage.VelocityDir)); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}

func loadServicesForCurrentDir() (*wiring.AppServices, error) {
	root, err := workspaceRoot()
	if err != nil {
		return nil, err
	}
	return loadServices(root)
}
