package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/hdgdrill/internal/config"
	"github.com/verte-zerg/hdgdrill/internal/drill"
)

func TestConfigTemplateDecodesToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hdgdrill", "config.toml")
	if err := writeConfigTemplate(path); err != nil {
		t.Fatalf("write template: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	if cfg.Trainer.Frequency45 != nil || cfg.Trainer.RoundToNearest != nil {
		t.Fatalf("expected commented template to set nothing")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read template: %v", err)
	}
	uncommented := strings.ReplaceAll(string(data), "# freq", "freq")
	if err := os.WriteFile(path, []byte(uncommented), 0o644); err != nil {
		t.Fatalf("rewrite template: %v", err)
	}
	cfg, err = config.LoadConfig(path)
	if err != nil {
		t.Fatalf("load uncommented template: %v", err)
	}
	if cfg.Trainer.Frequency45 == nil || *cfg.Trainer.Frequency45 != 40 || *cfg.Trainer.Frequency180 != 20 {
		t.Fatalf("unexpected frequencies: %+v", cfg.Trainer)
	}
}

func TestWriteConfigTemplateKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[trainer]\nfreq45 = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := writeConfigTemplate(path); err != nil {
		t.Fatalf("write template: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != "[trainer]\nfreq45 = 1\n" {
		t.Fatalf("existing config was overwritten: %q", data)
	}
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "hdgdrill", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	body := "[trainer]\nfreq45 = 7\nfreq90 = 9\nround-to = 10\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--freq45", "3"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	cfg, err := resolveTrainerConfig(cmd)
	if err != nil {
		t.Fatalf("resolve config: %v", err)
	}
	if cfg.Frequency45 != 3 {
		t.Fatalf("expected flag to win, got %d", cfg.Frequency45)
	}
	if cfg.Frequency90 != 9 || cfg.RoundToNearest != 10 {
		t.Fatalf("expected file values, got %+v", cfg)
	}
	if cfg.ShiftAmount != 15 {
		t.Fatalf("expected default shift amount, got %d", cfg.ShiftAmount)
	}
}

func TestResolveRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path := filepath.Join(dir, "hdgdrill", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("[trainer]\ninitial-heading = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cmd := newRootCmd()
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if _, err := resolveTrainerConfig(cmd); err == nil || !strings.Contains(err.Error(), "--initial-heading") {
		t.Fatalf("expected initial-heading error, got %v", err)
	}
}

func TestSimulationReport(t *testing.T) {
	sim := simulation{
		Config:   config.Defaults(),
		Timings:  drill.DefaultTimings(),
		Turns:    10,
		Seed:     42,
		Reaction: 1500 * time.Millisecond,
		Start:    time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	var buf bytes.Buffer
	if err := writeSimulation(&buf, sim, 3, 80); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Turns: 10",
		"Shifts: 2",
		"Avg/turn: 2.5s",
		"Total turn time: 25.0s",
		"Per-Turn",
		"Turn time trend (window 3)",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestSimulationIsDeterministic(t *testing.T) {
	sim := simulation{
		Config:   config.Defaults(),
		Timings:  drill.DefaultTimings(),
		Turns:    6,
		Seed:     99,
		Reaction: 800 * time.Millisecond,
		Start:    time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	var a, b bytes.Buffer
	if err := writeSimulation(&a, sim, 2, 40); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if err := writeSimulation(&b, sim, 2, 40); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if a.String() != b.String() {
		t.Fatalf("expected identical reports for the same seed")
	}
}
