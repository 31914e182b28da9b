// Package config provides configuration management for SPL Workbench.
package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds environment-level settings for locating and invoking the
// external SPL/SPECULA tools. Simulation parameters themselves live in the
// YAML file authored by the Parameters tab, not here.
type Config struct {
	// PythonExe is the interpreter used to run the external scripts.
	PythonExe string

	// ScriptsDir is the directory containing the SPL scripts
	// (create_spl_mask.py, main_simul.py, ...). Also the working directory
	// for every launched run.
	ScriptsDir string

	// CalibDir is where the external tools write calibration products.
	// Only used for display in success messages; the scripts decide the
	// actual output location.
	CalibDir string

	// StoreDir is the default data_store directory offered by the
	// Parameters tab.
	StoreDir string

	// EventBuffer is the event bus channel buffer size.
	EventBuffer int

	// DetailedLogging toggles timing output in the Activity tab.
	DetailedLogging bool
}

// DefaultConfig returns a config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		PythonExe:   "python",
		ScriptsDir:  ".",
		CalibDir:    filepath.Join(".", "calib", "data"),
		StoreDir:    "",
		EventBuffer: 1000,
	}
}

// LoadConfigCSV loads configuration from a CSV file of key,value pairs.
// An empty path means the default location; when no file exists there yet,
// defaults are returned. An explicitly given path that does not exist is an
// error, so a typoed --config never silently runs on defaults.
func LoadConfigCSV(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = GetDefaultConfigPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read config CSV: %w", err)
	}

	for i, record := range records {
		if len(record) < 2 {
			continue
		}
		key := strings.TrimSpace(strings.ToLower(record[0]))
		value := strings.TrimSpace(record[1])

		// Skip header row
		if i == 0 && key == "key" {
			continue
		}

		switch key {
		case "python_exe":
			if value != "" {
				cfg.PythonExe = value
			}
		case "scripts_dir":
			if value != "" {
				cfg.ScriptsDir = value
			}
		case "calib_dir":
			if value != "" {
				cfg.CalibDir = value
			}
		case "store_dir":
			cfg.StoreDir = value
		case "event_buffer":
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid event_buffer %q at line %d: %w", value, i+1, err)
			}
			cfg.EventBuffer = n
		case "detailed_logging":
			cfg.DetailedLogging = strings.EqualFold(value, "true")
		}
	}

	return cfg, nil
}

// SaveConfigCSV writes the configuration as CSV key,value pairs. An empty
// path means the default location.
func SaveConfigCSV(cfg *Config, path string) error {
	if path == "" {
		path = GetDefaultConfigPath()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"key", "value"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	records := [][]string{
		{"python_exe", cfg.PythonExe},
		{"scripts_dir", cfg.ScriptsDir},
		{"calib_dir", cfg.CalibDir},
		{"store_dir", cfg.StoreDir},
		{"event_buffer", strconv.Itoa(cfg.EventBuffer)},
		{"detailed_logging", strconv.FormatBool(cfg.DetailedLogging)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %v: %w", record, err)
		}
	}

	return nil
}

// Validate checks the config for values that would make every run fail.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PythonExe) == "" {
		return fmt.Errorf("python interpreter cannot be empty")
	}
	if strings.TrimSpace(c.ScriptsDir) == "" {
		return fmt.Errorf("scripts directory cannot be empty")
	}
	if c.EventBuffer < 0 {
		return fmt.Errorf("event buffer must be non-negative, got %d", c.EventBuffer)
	}
	return nil
}
