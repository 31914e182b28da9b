package cli

import (
	"testing"

	"github.com/spl-lab/spl-workbench/internal/config"
)

// TestRootCmd tests the root command structure
func TestRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	if cmd == nil {
		t.Fatal("NewRootCmd() returned nil")
	}

	if cmd.Use != "spl-workbench" {
		t.Errorf("Expected Use='spl-workbench', got '%s'", cmd.Use)
	}

	for _, flag := range []string{"config", "python", "scripts-dir", "verbose", "debug"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("Missing persistent flag --%s", flag)
		}
	}
}

// TestAddCommands verifies every subcommand is registered
func TestAddCommands(t *testing.T) {
	root := NewRootCmd()
	AddCommands(root)

	want := []string{"mask", "ifunc", "params", "simulate", "fringes", "analyze", "cube", "config"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Subcommand %q not registered", name)
		}
	}
}

// TestConfigPath tests the config path command
func TestConfigPath(t *testing.T) {
	cmd := newConfigPathCmd()
	if cmd == nil {
		t.Fatal("newConfigPathCmd() returned nil")
	}

	if cmd.Use != "path" {
		t.Errorf("Expected Use='path', got '%s'", cmd.Use)
	}

	if cmd.RunE == nil {
		t.Error("RunE function is nil")
	}
}

// TestConfigShow tests the config show command
func TestConfigShow(t *testing.T) {
	cmd := newConfigShowCmd()
	if cmd == nil {
		t.Fatal("newConfigShowCmd() returned nil")
	}

	if cmd.Use != "show" {
		t.Errorf("Expected Use='show', got '%s'", cmd.Use)
	}

	if cmd.RunE == nil {
		t.Error("RunE function is nil")
	}
}

// TestConfigInit tests the config init command structure
func TestConfigInit(t *testing.T) {
	cmd := newConfigInitCmd()
	if cmd == nil {
		t.Fatal("newConfigInitCmd() returned nil")
	}

	if cmd.Use != "init" {
		t.Errorf("Expected Use='init', got '%s'", cmd.Use)
	}

	if cmd.Flags().Lookup("force") == nil {
		t.Error("Missing --force flag")
	}
}

func TestApplyOverrides(t *testing.T) {
	origPython, origScripts := pythonExe, scriptsDir
	defer func() { pythonExe, scriptsDir = origPython, origScripts }()

	tests := []struct {
		name        string
		python      string
		scripts     string
		wantPython  string
		wantScripts string
	}{
		{"no overrides", "", "", "python", "."},
		{"python only", "python3.11", "", "python3.11", "."},
		{"both", "python3", "/opt/spl", "python3", "/opt/spl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pythonExe, scriptsDir = tt.python, tt.scripts
			cfg := config.DefaultConfig()
			applyOverrides(cfg)
			if cfg.PythonExe != tt.wantPython {
				t.Errorf("PythonExe = %q, want %q", cfg.PythonExe, tt.wantPython)
			}
			if cfg.ScriptsDir != tt.wantScripts {
				t.Errorf("ScriptsDir = %q, want %q", cfg.ScriptsDir, tt.wantScripts)
			}
		})
	}
}

// TestLoadEngine_DefaultConfigLocation verifies that a run command with no
// --config flag picks up the config saved at the default location.
func TestLoadEngine_DefaultConfigLocation(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("LOCALAPPDATA", dir)

	origCfgFile, origPython, origScripts := cfgFile, pythonExe, scriptsDir
	defer func() { cfgFile, pythonExe, scriptsDir = origCfgFile, origPython, origScripts }()
	cfgFile, pythonExe, scriptsDir = "", "", ""

	saved := config.DefaultConfig()
	saved.ScriptsDir = "/opt/spl/scripts"
	saved.PythonExe = "python3.12"
	if err := config.SaveConfigCSV(saved, ""); err != nil {
		t.Fatalf("SaveConfigCSV failed: %v", err)
	}

	engine, err := loadEngine()
	if err != nil {
		t.Fatalf("loadEngine failed: %v", err)
	}
	got := engine.GetConfig()
	if got.ScriptsDir != "/opt/spl/scripts" {
		t.Errorf("ScriptsDir = %q, want %q", got.ScriptsDir, "/opt/spl/scripts")
	}
	if got.PythonExe != "python3.12" {
		t.Errorf("PythonExe = %q, want %q", got.PythonExe, "python3.12")
	}
}

// TestLoadEngine_MissingExplicitConfig verifies a typoed --config path is an
// error rather than a silent fall-back to defaults.
func TestLoadEngine_MissingExplicitConfig(t *testing.T) {
	origCfgFile := cfgFile
	defer func() { cfgFile = origCfgFile }()
	cfgFile = "/no/such/config.csv"

	if _, err := loadEngine(); err == nil {
		t.Error("loadEngine succeeded with a nonexistent --config path")
	}
}

func TestMaskCmdFlags(t *testing.T) {
	cmd := newMaskCmd()
	for _, flag := range []string{"pupil", "gap", "clock-angle", "filename"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag --%s", flag)
		}
	}
	if got := cmd.Flags().Lookup("gap").DefValue; got != "0.015" {
		t.Errorf("gap default = %q, want 0.015", got)
	}
}

func TestFringesCmdFlags(t *testing.T) {
	cmd := newFringesCmd()
	for _, flag := range []string{"output-folder", "num-rows", "piston-min", "piston-max", "piston-step", "piston-file"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("Missing flag --%s", flag)
		}
	}
}
