// Package storage keeps the working set and its activity log on disk.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
)

const VelocityDir = ".velocity"
const TicketsFile = "tickets.json"
const ConfigFile = "config.yaml"
const EventsFile = "events.jsonl"

// ErrNotInitialized indicates the .velocity directory does not exist yet.
var ErrNotInitialized = errors.New("velocity workspace not initialized")

type FilesystemRepository struct {
	root        string
	retryConfig retry.Config

	mu       sync.Mutex
	lastHash string
	hashRead bool
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path is within the .velocity directory and prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, VelocityDir)
	cleanPath := filepath.Clean(filepath.Join(baseDir, filename))

	// Only direct children of .velocity are allowed.
	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, VelocityDir)
	// G301: Use 0700 for directories
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create .velocity directory: %w", err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.root, VelocityDir))
	return err == nil
}
