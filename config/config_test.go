package config

import (
	"strings"
	"testing"
)

func TestValidateYAMLContent_RejectsResolutionNotDividingHour(t *testing.T) {
	t.Parallel()

	content := []byte(`database:
  path: "./tasklog.db"
timelog:
  resolution_minutes: 7
`)

	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for resolution 7")
	}
	if !strings.Contains(err.Error(), "ResolutionMinutes") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateYAMLContent_RejectsDuplicateRevisionTypes(t *testing.T) {
	t.Parallel()

	content := []byte(`timelog:
  resolution_minutes: 15
  revision_types: ["Client Revision", "client revision"]
`)

	_, err := ValidateYAMLContent(content)
	if err == nil {
		t.Fatalf("expected validation error for duplicate revision types")
	}
	if !strings.Contains(err.Error(), "duplicate revision type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateYAMLContent_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte("user:\n  login: \"ada\"\n"))
	if err != nil {
		t.Fatalf("expected config to validate: %v", err)
	}
	if cfg.Database.Path != "./tasklog.db" {
		t.Fatalf("expected default database path, got %q", cfg.Database.Path)
	}
	if cfg.TimeLog.ResolutionMinutes != 10 {
		t.Fatalf("expected default resolution 10, got %d", cfg.TimeLog.ResolutionMinutes)
	}
	if len(cfg.TimeLog.RevisionTypes) != 3 {
		t.Fatalf("expected 3 default revision types, got %d", len(cfg.TimeLog.RevisionTypes))
	}
	if cfg.User.Login != "ada" {
		t.Fatalf("expected login ada, got %q", cfg.User.Login)
	}
}

func TestExampleYAML_Validates(t *testing.T) {
	t.Parallel()

	cfg, err := ValidateYAMLContent([]byte(ExampleYAML()))
	if err != nil {
		t.Fatalf("expected example config to validate: %v", err)
	}
	if cfg.Project.DefaultFPS != 25 {
		t.Fatalf("expected default fps 25, got %d", cfg.Project.DefaultFPS)
	}
}
