package application_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/naineet-code/engineer-velocity-view/pkg/application"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain"
	"github.com/naineet-code/engineer-velocity-view/pkg/ingest"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestImportService_CSVReplace(t *testing.T) {
	repo := teamRepo()
	svc := application.NewImportService(repo, settings(), nil)
	path := writeFile(t, "export.csv", "id,owner,effort\nX1,Dana,3\nX2,Dana,-1\nX1,Dana,4\n")

	report, err := svc.ImportCSV(context.Background(), path, false)
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if report.Source != "export.csv" || report.Imported != 2 || len(report.Rejected) != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
	if report.Total != 1 || len(repo.Set.Tickets) != 1 || repo.Set.Tickets[0].Effort != 4 {
		t.Errorf("expected the duplicate id to collapse to its last row, got %+v", repo.Set.Tickets)
	}
	if repo.Set.Source != "export.csv" || !repo.Set.ImportedAt.Equal(now) {
		t.Errorf("provenance not recorded: %+v", repo.Set)
	}
	if len(repo.Events) != 1 || repo.Events[0].Action != domain.ActionImport {
		t.Errorf("unexpected events: %+v", repo.Events)
	}
}

func TestImportService_Merge(t *testing.T) {
	repo := teamRepo()
	svc := application.NewImportService(repo, settings(), nil)
	path := writeFile(t, "update.csv", "id,owner,effort,status\nT1,Asha,8,In Development\nN1,Chen,2,\n")

	report, err := svc.ImportCSV(context.Background(), path, true)
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}
	if report.Added != 1 || report.Updated != 1 || report.Total != 5 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestImportService_JSONSchemaError(t *testing.T) {
	svc := application.NewImportService(teamRepo(), settings(), nil)
	path := writeFile(t, "bad.json", `[{"id": "A", "effort": -3}]`)

	_, err := svc.ImportJSON(context.Background(), path, false)
	var schemaErr *ingest.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("expected SchemaError, got %v", err)
	}
}

func TestImportService_YAML(t *testing.T) {
	repo := teamRepo()
	svc := application.NewImportService(repo, settings(), nil)
	path := writeFile(t, "tickets.yaml", "- id: Y1\n  owner: Dana\n  effort: 2\n")

	report, err := svc.ImportYAML(context.Background(), path, false)
	if err != nil {
		t.Fatalf("ImportYAML failed: %v", err)
	}
	if report.Total != 1 || repo.Set.Tickets[0].ID != "Y1" {
		t.Errorf("unexpected import: %+v", report)
	}
}

func TestImportService_Sample(t *testing.T) {
	repo := &MockRepo{Initialized: true}
	svc := application.NewImportService(repo, settings(), nil)

	report, err := svc.ImportSample(context.Background(), false)
	if err != nil {
		t.Fatalf("ImportSample failed: %v", err)
	}
	if report.Source != "sample" || report.Total == 0 || report.Total != len(repo.Set.Tickets) {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestImportService_MissingFile(t *testing.T) {
	svc := application.NewImportService(teamRepo(), settings(), nil)
	if _, err := svc.ImportCSV(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), false); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
