package wiring

import (
	"fmt"
	"time"

	"github.com/naineet-code/engineer-velocity-view/internal/infrastructure/config"
	"github.com/naineet-code/engineer-velocity-view/pkg/storage"
)

// Workspace bundles core infrastructure dependencies for one project root.
type Workspace struct {
	Root   string
	Repo   *storage.FilesystemRepository
	Config *config.Config
	Clock  config.Clock
}

// NewWorkspace loads the configuration under root and resolves the clock
// from wall.
func NewWorkspace(root string, wall func() time.Time) (*Workspace, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if wall == nil {
		wall = time.Now
	}
	clock, err := cfg.NewClock(wall)
	if err != nil {
		return nil, err
	}
	return &Workspace{
		Root:   root,
		Repo:   storage.NewFilesystemRepository(root),
		Config: cfg,
		Clock:  clock,
	}, nil
}
