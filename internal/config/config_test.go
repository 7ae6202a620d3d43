package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	config := Default()

	if config.Tests != 20 {
		t.Errorf("expected Tests 20, got %d", config.Tests)
	}
	if config.Shots != 1000000 {
		t.Errorf("expected Shots 1000000, got %d", config.Shots)
	}
	if config.Workers != runtime.NumCPU() {
		t.Errorf("expected Workers %d, got %d", runtime.NumCPU(), config.Workers)
	}
	if config.RepetitionWorkers != 1 {
		t.Errorf("expected RepetitionWorkers 1, got %d", config.RepetitionWorkers)
	}
	if config.OutputRoot != "." {
		t.Errorf("expected OutputRoot '.', got '%s'", config.OutputRoot)
	}
	if config.Stepping != "accumulate" {
		t.Errorf("expected Stepping 'accumulate', got '%s'", config.Stepping)
	}
	if config.IdentifierWidth != 5 {
		t.Errorf("expected IdentifierWidth 5, got %d", config.IdentifierWidth)
	}
	if !config.SortSummary {
		t.Error("expected SortSummary to be true by default")
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "qharness.yaml")

	configContent := `
tests: 5
shots: 1000
workers: 2
stepping: indexed
identifier_width: 0
sort_summary: false
logging:
  level: debug
metrics:
  textfile: /tmp/qharness.prom
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	if config.Tests != 5 {
		t.Errorf("expected Tests 5, got %d", config.Tests)
	}
	if config.Shots != 1000 {
		t.Errorf("expected Shots 1000, got %d", config.Shots)
	}
	if config.Workers != 2 {
		t.Errorf("expected Workers 2, got %d", config.Workers)
	}
	if config.Stepping != "indexed" {
		t.Errorf("expected Stepping 'indexed', got '%s'", config.Stepping)
	}
	if config.IdentifierWidth != 0 {
		t.Errorf("expected IdentifierWidth 0, got %d", config.IdentifierWidth)
	}
	if config.SortSummary {
		t.Error("expected SortSummary false")
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected Logging.Level 'debug', got '%s'", config.Logging.Level)
	}
	if config.Metrics.Textfile != "/tmp/qharness.prom" {
		t.Errorf("expected Metrics.Textfile '/tmp/qharness.prom', got '%s'", config.Metrics.Textfile)
	}

	// Keys not in the file keep their defaults
	if config.RepetitionWorkers != 1 {
		t.Errorf("expected default RepetitionWorkers 1, got %d", config.RepetitionWorkers)
	}
	if config.OutputRoot != "." {
		t.Errorf("expected default OutputRoot '.', got '%s'", config.OutputRoot)
	}
}

func TestLoadFromFile_EnvExpansion(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "qharness.yaml")
	t.Setenv("QHARNESS_TEST_ROOT", "/data/runs")

	if err := os.WriteFile(configPath, []byte("output_root: ${QHARNESS_TEST_ROOT}/today\n"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if config.OutputRoot != "/data/runs/today" {
		t.Errorf("expected expanded OutputRoot, got '%s'", config.OutputRoot)
	}
}

func TestLoad_NoPath(t *testing.T) {
	t.Setenv("QHARNESS_LOG_LEVEL", "")
	t.Setenv("QHARNESS_WORKERS", "")
	t.Setenv("QHARNESS_SEED", "")

	config, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Tests != 20 || config.Shots != 1000000 {
		t.Errorf("expected defaults, got tests=%d shots=%d", config.Tests, config.Shots)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("QHARNESS_LOG_LEVEL", "trace")
	t.Setenv("QHARNESS_WORKERS", "3")
	t.Setenv("QHARNESS_SEED", "42")

	config, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Logging.Level != "trace" {
		t.Errorf("expected Logging.Level 'trace', got '%s'", config.Logging.Level)
	}
	if config.Workers != 3 {
		t.Errorf("expected Workers 3, got %d", config.Workers)
	}
	if config.Seed != 42 {
		t.Errorf("expected Seed 42, got %d", config.Seed)
	}
}

func TestEnvOverrides_IgnoresMalformed(t *testing.T) {
	t.Setenv("QHARNESS_WORKERS", "many")
	t.Setenv("QHARNESS_SEED", "0x2a")

	config, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if config.Workers != runtime.NumCPU() {
		t.Errorf("expected default Workers, got %d", config.Workers)
	}
	if config.Seed != 0 {
		t.Errorf("expected default Seed, got %d", config.Seed)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*HarnessConfig)
		field  string
	}{
		{"zero tests", func(c *HarnessConfig) { c.Tests = 0 }, "Tests"},
		{"negative shots", func(c *HarnessConfig) { c.Shots = -1 }, "Shots"},
		{"zero workers", func(c *HarnessConfig) { c.Workers = 0 }, "Workers"},
		{"zero repetition workers", func(c *HarnessConfig) { c.RepetitionWorkers = 0 }, "RepetitionWorkers"},
		{"empty output root", func(c *HarnessConfig) { c.OutputRoot = "" }, "OutputRoot"},
		{"unknown stepping", func(c *HarnessConfig) { c.Stepping = "geometric" }, "Stepping"},
		{"negative width", func(c *HarnessConfig) { c.IdentifierWidth = -1 }, "IdentifierWidth"},
		{"unknown log level", func(c *HarnessConfig) { c.Logging.Level = "verbose" }, "Level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)
			err := config.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("expected error to mention %s, got %v", tt.field, err)
			}
		})
	}
}

func TestValidate_EmptyLogLevelAllowed(t *testing.T) {
	config := Default()
	config.Logging.Level = ""
	if err := config.Validate(); err != nil {
		t.Errorf("expected empty log level to be valid, got %v", err)
	}
}

func TestYAML(t *testing.T) {
	out, err := Default().YAML()
	if err != nil {
		t.Fatalf("YAML failed: %v", err)
	}
	for _, want := range []string{"tests: 20", "shots: 1000000", "stepping: accumulate", "level: info"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in YAML output:\n%s", want, out)
		}
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "qharness.yaml")
	if err := os.WriteFile(configPath, []byte("tests: [not an int"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFromFile(configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}
