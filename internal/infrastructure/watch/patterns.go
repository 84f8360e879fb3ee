package watch

import (
	"path/filepath"
	"slices"

	"github.com/naineet-code/engineer-velocity-view/pkg/storage"
)

// PatternFilter keeps paths matching an include glob and no exclude glob.
// Globs are tried against the base name and the full path.
type PatternFilter struct {
	Include []string
	Exclude []string
}

// WorkspaceFilter matches the files whose changes alter computed views:
// the ticket set and the configuration. The activity log only ever grows
// alongside a tickets.json write, so it is not watched. Editor swap and
// backup files are ignored.
func WorkspaceFilter() *PatternFilter {
	return NewPatternFilter(
		[]string{storage.TicketsFile, storage.ConfigFile},
		[]string{"*.tmp", "*.swp", "*~", ".#*"},
	)
}

func NewPatternFilter(include, exclude []string) *PatternFilter {
	return &PatternFilter{Include: include, Exclude: exclude}
}

// Matches reports whether path passes the filter. Excludes win; an empty
// include list passes everything else.
func (f *PatternFilter) Matches(path string) bool {
	if matchAny(f.Exclude, path) {
		return false
	}
	return len(f.Include) == 0 || matchAny(f.Include, path)
}

func matchAny(patterns []string, path string) bool {
	base := filepath.Base(path)
	return slices.ContainsFunc(patterns, func(p string) bool {
		if ok, _ := filepath.Match(p, base); ok {
			return true
		}
		ok, _ := filepath.Match(p, path)
		return ok
	})
}
