package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/naineet-code/engineer-velocity-view/pkg/domain/ticket"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, ".velocity")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("mkdir .velocity: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return root
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	root := writeConfig(t, "thresholds:\n  queue_overflow_days: 15\ntimezone: Asia/Kolkata\n")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Thresholds.QueueOverflowDays != 15 {
		t.Errorf("QueueOverflowDays = %d, want 15", cfg.Thresholds.QueueOverflowDays)
	}
	if cfg.Thresholds.BlockedRiskDays != 3 || cfg.Dashboard.Addr != ":8088" {
		t.Errorf("defaults lost: %+v", cfg)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Kolkata" {
		t.Errorf("Location() = %v, %v", loc, err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".velocity"), 0700); err != nil {
		t.Fatal(err)
	}

	input := Default()
	input.Sprint.Start = "2026-10-05"
	input.Thresholds.MaxInsights = 5
	if err := Save(root, input); err != nil {
		t.Fatalf("save config: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if diff := cmp.Diff(input, cfg); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		invalid bool
	}{
		{"bad yaml", "::bad", false},
		{"negative threshold", "thresholds:\n  blocked_risk_days: -1\n", true},
		{"zero sprint", "sprint:\n  length_days: 0\n", true},
		{"unknown zone", "timezone: Mars/Olympus\n", true},
		{"bad sprint start", "sprint:\n  length_days: 10\n  start: soon\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrInvalidConfig); got != tt.invalid {
				t.Errorf("errors.Is(ErrInvalidConfig) = %v, want %v (%v)", got, tt.invalid, err)
			}
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvNow, "2026-10-19T10:30:00Z")
	t.Setenv(EnvTimezone, "UTC")

	cfg, err := Load(writeConfig(t, "now: 2020-01-01\ntimezone: Asia/Kolkata\n"))
	if err != nil {
		t.Fatal(err)
	}
	clock, err := cfg.NewClock(time.Now)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)
	if !clock.Now().Equal(want) || !clock.Fixed() {
		t.Errorf("Now() = %v (fixed %v), want %v", clock.Now(), clock.Fixed(), want)
	}
}

func TestNewClock(t *testing.T) {
	wall := func() time.Time { return time.Date(2026, 10, 19, 4, 0, 0, 0, time.UTC) }
	ist := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		name  string
		cfg   Config
		want  time.Time
		fixed bool
	}{
		{"wall clock", Config{Timezone: "UTC"}, wall(), false},
		{"date only", Config{Timezone: "UTC", Now: "2026-10-21"}, time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC), true},
		{"zone applied", Config{Timezone: "Asia/Kolkata"}, wall().In(ist), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock, err := tt.cfg.NewClock(wall)
			if err != nil {
				t.Fatal(err)
			}
			if !clock.Now().Equal(tt.want) || clock.Fixed() != tt.fixed {
				t.Errorf("Now() = %v fixed=%v, want %v fixed=%v", clock.Now(), clock.Fixed(), tt.want, tt.fixed)
			}
		})
	}

	if _, err := (&Config{Now: "tomorrow"}).NewClock(wall); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for bad now, got %v", err)
	}
}

func TestSprintEnd(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start string
		want  string
	}{
		{"starts today", "", "2026-10-30"},
		{"current sprint", "2026-10-12", "2026-10-23"},
		{"rolls forward past finished sprints", "2026-09-21", "2026-10-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Sprint.Start = tt.start
			got, err := cfg.SprintEnd(now)
			if err != nil {
				t.Fatal(err)
			}
			if got != ticket.MustParseDate(tt.want) {
				t.Errorf("SprintEnd() = %s, want %s", got, tt.want)
			}
		})
	}
}
