package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/naineet-code/engineer-velocity-view/pkg/domain"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
	"github.com/naineet-code/engineer-velocity-view/pkg/ingest"
	"github.com/naineet-code/engineer-velocity-view/pkg/sample"
)

// ImportReport summarises one import.
type ImportReport struct {
	Source   string            `json:"source"`
	Merged   bool              `json:"merged"`
	Imported int               `json:"imported"`
	Added    int               `json:"added"`
	Updated  int               `json:"updated"`
	Total    int               `json:"total"`
	Warnings []ingest.RowIssue `json:"warnings,omitempty"`
	Rejected []ingest.RowIssue `json:"rejected,omitempty"`
}

// ImportService loads tracker exports into the working set.
type ImportService struct {
	repo     domain.TicketRepository
	settings Settings
	logger   *slog.Logger
}

func NewImportService(repo domain.TicketRepository, settings Settings, logger *slog.Logger) *ImportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImportService{repo: repo, settings: settings, logger: logger}
}

// ImportCSV imports a CSV export from path.
func (s *ImportService) ImportCSV(ctx context.Context, path string, merge bool) (ImportReport, error) {
	// #nosec G304 -- path is supplied by the operator on the command line
	f, err := os.Open(path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	res, err := ingest.ParseCSV(f, s.settings.now())
	if err != nil {
		return ImportReport{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return s.apply(ctx, filepath.Base(path), res, merge)
}

// ImportJSON imports a JSON export from path.
func (s *ImportService) ImportJSON(ctx context.Context, path string, merge bool) (ImportReport, error) {
	return s.importFile(ctx, path, merge, ingest.ParseJSON)
}

// ImportYAML imports a YAML ticket list from path.
func (s *ImportService) ImportYAML(ctx context.Context, path string, merge bool) (ImportReport, error) {
	return s.importFile(ctx, path, merge, ingest.ParseYAML)
}

func (s *ImportService) importFile(ctx context.Context, path string, merge bool, parse func([]byte) (ingest.Result, error)) (ImportReport, error) {
	// #nosec G304 -- path is supplied by the operator on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportReport{}, fmt.Errorf("read %s: %w", path, err)
	}
	res, err := parse(data)
	if err != nil {
		return ImportReport{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return s.apply(ctx, filepath.Base(path), res, merge)
}

// ImportSample loads the built-in demo team.
func (s *ImportService) ImportSample(ctx context.Context, merge bool) (ImportReport, error) {
	return s.apply(ctx, "sample", ingest.Result{Tickets: sample.Tickets(s.settings.now())}, merge)
}

func (s *ImportService) apply(ctx context.Context, source string, res ingest.Result, merge bool) (ImportReport, error) {
	set, err := loadTickets(ctx, s.repo)
	if err != nil {
		return ImportReport{}, err
	}

	now := s.settings.now()
	report := ImportReport{
		Source:   source,
		Merged:   merge,
		Imported: len(res.Tickets),
		Warnings: res.Warnings,
		Rejected: res.Rejected,
	}
	if merge {
		report.Added, report.Updated = set.Merge(res.Tickets, source, now)
	} else {
		set.Replace(dedupe(res.Tickets), source, now)
		report.Added = len(set.Tickets)
	}
	report.Total = len(set.Tickets)

	if err := s.repo.SaveTickets(set); err != nil {
		return ImportReport{}, fmt.Errorf("save tickets: %w", err)
	}
	if err := s.repo.RecordEvent(domain.Event{
		Timestamp: now,
		Action:    domain.ActionImport,
		Details: map[string]string{
			"source":   source,
			"merged":   strconv.FormatBool(merge),
			"imported": strconv.Itoa(report.Imported),
			"rejected": strconv.Itoa(len(report.Rejected)),
		},
	}); err != nil {
		s.logger.Warn("failed to record activity", "action", domain.ActionImport, "error", err)
	}

	s.logger.Info("imported tickets",
		"source", source,
		"merged", merge,
		"imported", report.Imported,
		"warnings", len(report.Warnings),
		"rejected", len(report.Rejected),
		"total", report.Total)
	return report, nil
}

// dedupe keeps the last occurrence of each id, in first-seen position.
func dedupe(tickets []ticket.Ticket) []ticket.Ticket {
	var set ticket.Set
	set.Merge(tickets, "", time.Time{})
	return set.Tickets
}
