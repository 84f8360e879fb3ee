package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind classifies a filesystem change.
type ChangeKind string

const (
	ChangeCreate ChangeKind = "create"
	ChangeWrite  ChangeKind = "write"
	ChangeRemove ChangeKind = "remove"
	ChangeRename ChangeKind = "rename"
)

// ChangeEvent represents a filesystem change that passed the filter.
type ChangeEvent struct {
	Path string     `json:"path"`
	Kind ChangeKind `json:"kind"`
}

// Watcher reports debounced changes to the files of a velocity workspace.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	filter   *PatternFilter
	onChange func([]ChangeEvent)
	logger   *slog.Logger
}

// NewWatcher creates a watcher. onChange receives each debounced batch of
// changed files. A nil filter passes every file.
func NewWatcher(debounce time.Duration, filter *PatternFilter, onChange func([]ChangeEvent), logger *slog.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if filter == nil {
		filter = NewPatternFilter(nil, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		watcher:  w,
		debounce: debounce,
		filter:   filter,
		onChange: onChange,
		logger:   logger,
	}, nil
}

// Add watches dir. Files are matched by the filter, not by the directory.
func (w *Watcher) Add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	return nil
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	debouncer := NewDebouncer(w.debounce, func(batch []ChangeEvent) {
		w.logger.Debug("workspace changed", "files", len(batch), "last", batch[len(batch)-1].Path)
		if w.onChange != nil {
			w.onChange(batch)
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			kind := kindOf(event.Op)
			if kind == "" || !w.filter.Matches(event.Name) {
				continue
			}
			debouncer.Add(ChangeEvent{Path: event.Name, Kind: kind})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func kindOf(op fsnotify.Op) ChangeKind {
	switch {
	case op.Has(fsnotify.Create):
		return ChangeCreate
	case op.Has(fsnotify.Write):
		return ChangeWrite
	case op.Has(fsnotify.Remove):
		return ChangeRemove
	case op.Has(fsnotify.Rename):
		return ChangeRename
	default:
		return ""
	}
}
