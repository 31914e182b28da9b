package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolateConfigDir points the per-user config directory at a fresh temp dir
// so default-path tests never see a developer's real config.
func isolateConfigDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("LOCALAPPDATA", dir)
}

func TestLoadConfigCSV_Defaults(t *testing.T) {
	isolateConfigDir(t)

	cfg, err := LoadConfigCSV("")
	if err != nil {
		t.Fatalf("LoadConfigCSV(\"\") failed: %v", err)
	}
	if cfg.PythonExe != "python" {
		t.Errorf("Expected default python_exe 'python', got %q", cfg.PythonExe)
	}
	if cfg.EventBuffer != 1000 {
		t.Errorf("Expected default event_buffer 1000, got %d", cfg.EventBuffer)
	}
}

func TestLoadConfigCSV_EmptyPathReadsDefaultLocation(t *testing.T) {
	isolateConfigDir(t)

	cfg := DefaultConfig()
	cfg.ScriptsDir = "/opt/spl/scripts"
	if err := SaveConfigCSV(cfg, ""); err != nil {
		t.Fatalf("SaveConfigCSV to default location failed: %v", err)
	}
	if _, err := os.Stat(GetDefaultConfigPath()); err != nil {
		t.Fatalf("Config not written to default path: %v", err)
	}

	loaded, err := LoadConfigCSV("")
	if err != nil {
		t.Fatalf("LoadConfigCSV(\"\") failed: %v", err)
	}
	if loaded.ScriptsDir != "/opt/spl/scripts" {
		t.Errorf("Default-location config not honored: scripts_dir = %q", loaded.ScriptsDir)
	}
}

func TestLoadConfigCSV_MissingExplicitFile(t *testing.T) {
	if _, err := LoadConfigCSV(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("Expected error for explicitly given missing config file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.csv")

	cfg := DefaultConfig()
	cfg.PythonExe = "/opt/conda/bin/python"
	cfg.ScriptsDir = "/home/lab/SPL"
	cfg.StoreDir = "/data/spl"
	cfg.EventBuffer = 500
	cfg.DetailedLogging = true

	if err := SaveConfigCSV(cfg, path); err != nil {
		t.Fatalf("SaveConfigCSV failed: %v", err)
	}

	loaded, err := LoadConfigCSV(path)
	if err != nil {
		t.Fatalf("LoadConfigCSV failed: %v", err)
	}

	if loaded.PythonExe != cfg.PythonExe {
		t.Errorf("python_exe mismatch: got %q, want %q", loaded.PythonExe, cfg.PythonExe)
	}
	if loaded.ScriptsDir != cfg.ScriptsDir {
		t.Errorf("scripts_dir mismatch: got %q, want %q", loaded.ScriptsDir, cfg.ScriptsDir)
	}
	if loaded.StoreDir != cfg.StoreDir {
		t.Errorf("store_dir mismatch: got %q, want %q", loaded.StoreDir, cfg.StoreDir)
	}
	if loaded.EventBuffer != 500 {
		t.Errorf("event_buffer mismatch: got %d, want 500", loaded.EventBuffer)
	}
	if !loaded.DetailedLogging {
		t.Error("detailed_logging should round-trip as true")
	}
}

func TestLoadConfigCSV_SkipsHeaderAndUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.csv")
	content := "key,value\npython_exe,python3\nsome_future_key,whatever\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigCSV(path)
	if err != nil {
		t.Fatalf("LoadConfigCSV failed: %v", err)
	}
	if cfg.PythonExe != "python3" {
		t.Errorf("Expected python3, got %q", cfg.PythonExe)
	}
}

func TestLoadConfigCSV_BadEventBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.csv")
	if err := os.WriteFile(path, []byte("event_buffer,many\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfigCSV(path); err == nil {
		t.Error("Expected error for non-numeric event_buffer")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty python", func(c *Config) { c.PythonExe = " " }, true},
		{"empty scripts dir", func(c *Config) { c.ScriptsDir = "" }, true},
		{"negative buffer", func(c *Config) { c.EventBuffer = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
