// Package config provides unified configuration loading for qharness.
// It supports loading from a YAML file and a few environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nvandessel/qharness/internal/constants"
	"gopkg.in/yaml.v3"
)

// HarnessConfig contains all qharness configuration settings.
type HarnessConfig struct {
	// Tests is the number of repetitions per configuration.
	Tests int `json:"tests" yaml:"tests" validate:"gte=1"`

	// Shots is the number of single-shot executions per repetition.
	Shots int `json:"shots" yaml:"shots" validate:"gte=1"`

	// Workers bounds how many configurations of a family run at once.
	Workers int `json:"workers" yaml:"workers" validate:"gte=1"`

	// RepetitionWorkers bounds how many repetitions of one configuration run
	// at once. Rows are still written in repetition order.
	RepetitionWorkers int `json:"repetition_workers" yaml:"repetition_workers" validate:"gte=1"`

	// OutputRoot is the directory family folders and summaries are written under.
	OutputRoot string `json:"output_root" yaml:"output_root" validate:"required"`

	// Seed seeds the reference engine. Zero derives a seed from the clock.
	Seed int64 `json:"seed" yaml:"seed"`

	// Stepping is "accumulate" (repeated addition, compatible with earlier
	// output sets) or "indexed" (start + i*step).
	Stepping string `json:"stepping" yaml:"stepping" validate:"oneof=accumulate indexed"`

	// IdentifierWidth is how many characters of a parameter's text go into
	// an artifact name. Zero keeps the full text.
	IdentifierWidth int `json:"identifier_width" yaml:"identifier_width" validate:"gte=0"`

	// SortSummary orders summary rows by parameter value instead of
	// directory listing order.
	SortSummary bool `json:"sort_summary" yaml:"sort_summary"`

	// Logging contains settings for operational logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Metrics contains settings for the Prometheus textfile export.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// LoggingConfig configures qharness's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", "trace", "warn" or "error".
	Level string `json:"level" yaml:"level" validate:"omitempty,oneof=info debug trace warn error"`
}

// MetricsConfig configures the metrics export.
type MetricsConfig struct {
	// Textfile is where the Prometheus text exposition is written after a
	// run. Empty disables the export.
	Textfile string `json:"textfile,omitempty" yaml:"textfile,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns a HarnessConfig with the documented defaults.
func Default() *HarnessConfig {
	return &HarnessConfig{
		Tests:             constants.DefaultTests,
		Shots:             constants.DefaultShots,
		Workers:           runtime.NumCPU(),
		RepetitionWorkers: constants.DefaultRepetitionWorkers,
		OutputRoot:        ".",
		Stepping:          "accumulate",
		IdentifierWidth:   constants.DefaultIdentifierWidth,
		SortSummary:       true,
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the effective configuration.
// Order: defaults -> path (when non-empty) -> environment variables
func Load(path string) (*HarnessConfig, error) {
	config := Default()

	if path != "" {
		fileConfig, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file. Keys missing
// from the file keep their defaults.
func LoadFromFile(path string) (*HarnessConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	config.OutputRoot = expandEnvVars(config.OutputRoot)
	config.Metrics.Textfile = expandEnvVars(config.Metrics.Textfile)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *HarnessConfig) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// YAML renders the configuration as YAML.
func (c *HarnessConfig) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	return string(data), nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *HarnessConfig) {
	if v := os.Getenv("QHARNESS_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("QHARNESS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Workers = n
		}
	}

	if v := os.Getenv("QHARNESS_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Seed = n
		}
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
