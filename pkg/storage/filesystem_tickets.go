package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

// SaveTickets writes the working set, refusing to overwrite a newer version
// on disk. On success set.Version is incremented.
func (r *FilesystemRepository) SaveTickets(set *ticket.Set) error {
	if !r.IsInitialized() {
		return ErrNotInitialized
	}
	path, err := r.ResolvePath(TicketsFile)
	if err != nil {
		return err
	}

	// #nosec G304 -- Path is resolved and validated via ResolvePath
	existing, err := os.ReadFile(path)
	if err == nil {
		var disk ticket.Set
		if jsonErr := json.Unmarshal(existing, &disk); jsonErr == nil && disk.Version != set.Version {
			return &ticket.ConflictError{Expected: set.Version, Actual: disk.Version}
		}
	}

	set.Version++

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		set.Version--
		return fmt.Errorf("failed to marshal tickets: %w", err)
	}

	// G306: Use 0600 for files
	if err := os.WriteFile(path, data, 0600); err != nil {
		set.Version--
		return fmt.Errorf("failed to write tickets: %w", err)
	}
	return nil
}

// LoadTickets reads the working set. A workspace that has never imported
// anything yields an empty set at version 0.
func (r *FilesystemRepository) LoadTickets() (*ticket.Set, error) {
	if !r.IsInitialized() {
		return nil, ErrNotInitialized
	}

	retryer := retry.New[*ticket.Set](r.retryConfig)
	return retryer.Do(context.Background(), func(ctx context.Context) (*ticket.Set, error) {
		path, err := r.ResolvePath(TicketsFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return &ticket.Set{}, nil
			}
			return nil, fmt.Errorf("failed to read tickets file: %w", err)
		}

		var set ticket.Set
		if err := json.Unmarshal(data, &set); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tickets: %w", err)
		}
		return &set, nil
	})
}
