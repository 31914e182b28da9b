package gui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spl-lab/spl-workbench/internal/events"
)

func TestParseMaskForm(t *testing.T) {
	tests := []struct {
		name      string
		pupil     string
		gap       string
		clock     string
		filename  string
		expectErr bool
	}{
		{"valid defaults", "80", "0.015", "0", "mask_g0150_0deg", false},
		{"valid rotated", "120", "0.02", "45.5", "mask_rot", false},
		{"empty pupil", "", "0.015", "0", "mask", true},
		{"non-numeric pupil", "abc", "0.015", "0", "mask", true},
		{"negative pupil", "-5", "0.015", "0", "mask", true},
		{"gap out of range", "80", "1.5", "0", "mask", true},
		{"negative gap", "80", "-0.1", "0", "mask", true},
		{"bad clock angle", "80", "0.015", "deg", "mask", true},
		{"empty filename", "80", "0.015", "0", "", true},
		{"filename with path", "80", "0.015", "0", "out/mask", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parseMaskForm(tt.pupil, tt.gap, tt.clock, tt.filename)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected error, got params %+v", p)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Filename != tt.filename {
				t.Errorf("filename = %q, want %q", p.Filename, tt.filename)
			}
		})
	}
}

func TestParseIfuncForm(t *testing.T) {
	p, err := parseIfuncForm("80", "ifunc_piston_80")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Size != 80 {
		t.Errorf("size = %d, want 80", p.Size)
	}

	if _, err := parseIfuncForm("0", "ifunc"); err == nil {
		t.Error("expected error for zero size")
	}
	if _, err := parseIfuncForm("80", ""); err == nil {
		t.Error("expected error for empty filename")
	}
}

func TestParseSimulationForm(t *testing.T) {
	if _, err := parseSimulationForm("", false); err == nil {
		t.Error("expected error for empty parameter file")
	}
	if _, err := parseSimulationForm("/nonexistent/params.yml", false); err == nil {
		t.Error("expected error for missing parameter file")
	}

	path := filepath.Join(t.TempDir(), "params_spl_multiwave_520_539.yml")
	if err := os.WriteFile(path, []byte("---\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	p, err := parseSimulationForm(path, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.UseCPU {
		t.Error("UseCPU not carried through")
	}
}

func TestParseFringesForm(t *testing.T) {
	parent := t.TempDir()

	t.Run("auto piston grid", func(t *testing.T) {
		p, err := parseFringesForm(parent, "", "", "", "", "", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.NumRows != 1 {
			t.Errorf("NumRows = %d, want default 1", p.NumRows)
		}
		if p.PistonMin != nil || p.PistonMax != nil || p.PistonStep != nil {
			t.Error("empty piston fields should stay unset")
		}
	})

	t.Run("explicit piston grid", func(t *testing.T) {
		p, err := parseFringesForm(parent, "/data/out", "3", "-12000", "12000", "250", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.NumRows != 3 {
			t.Errorf("NumRows = %d, want 3", p.NumRows)
		}
		if p.PistonMin == nil || *p.PistonMin != -12000 {
			t.Errorf("PistonMin = %v, want -12000", p.PistonMin)
		}
		if p.PistonStep == nil || *p.PistonStep != 250 {
			t.Errorf("PistonStep = %v, want 250", p.PistonStep)
		}
	})

	t.Run("piston file", func(t *testing.T) {
		pistons := filepath.Join(t.TempDir(), "pistons.txt")
		if err := os.WriteFile(pistons, []byte("-12000\n0\n12000\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		p, err := parseFringesForm(parent, "", "", "", "", "", pistons)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.PistonFile != pistons {
			t.Errorf("PistonFile = %q", p.PistonFile)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		if _, err := parseFringesForm("", "", "", "", "", "", ""); err == nil {
			t.Error("expected error for empty parent folder")
		}
		if _, err := parseFringesForm(parent, "", "0", "", "", "", ""); err == nil {
			t.Error("expected error for zero rows")
		}
		if _, err := parseFringesForm(parent, "", "", "low", "", "", ""); err == nil {
			t.Error("expected error for non-numeric piston min")
		}
		if _, err := parseFringesForm(parent, "", "", "100", "-100", "", ""); err == nil {
			t.Error("expected error for inverted piston range")
		}
	})
}

func TestParseScanForm(t *testing.T) {
	c, err := parseScanForm(
		"520", "539", "5",
		"80", "8.375e-05",
		"2401.0", "1.0",
		"mask_g0150_0deg", "10", "-12000",
		"ifunc_piston_80", "mask_piston_80",
		"/data/store",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Wavelengths(); len(got) != 4 {
		t.Errorf("wavelengths = %v, want 4 entries", got)
	}
	if c.StoreDir != "/data/store" {
		t.Errorf("StoreDir = %q", c.StoreDir)
	}

	if _, err := parseScanForm("539", "520", "5", "80", "8.375e-05", "2401.0", "1.0", "m", "10", "-12000", "i", "im", "/s"); err == nil {
		t.Error("expected error for inverted wavelength range")
	}
	if _, err := parseScanForm("520", "539", "x", "80", "8.375e-05", "2401.0", "1.0", "m", "10", "-12000", "i", "im", "/s"); err == nil {
		t.Error("expected error for non-numeric step")
	}
}

func TestFormatLogEntry(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	entry := LogEntry{
		Timestamp: ts,
		Level:     events.InfoLevel,
		Tool:      "simulation",
		Message:   "run started",
	}
	got := formatLogEntry(entry)
	want := "09:26:53 INFO [simulation] run started"
	if got != want {
		t.Errorf("formatLogEntry = %q, want %q", got, want)
	}

	bare := LogEntry{Timestamp: ts, Level: events.ErrorLevel, Message: "bus closed"}
	if got := formatLogEntry(bare); strings.Contains(got, "[") {
		t.Errorf("entry without tool should have no bracket section: %q", got)
	}
}

func TestMatchesFilter(t *testing.T) {
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     events.WarnLevel,
		Tool:      "mask",
		Message:   "output file already exists",
	}

	tests := []struct {
		name   string
		level  string
		search string
		want   bool
	}{
		{"all levels no search", "All Levels", "", true},
		{"matching level", "WARN", "", true},
		{"wrong level", "ERROR", "", false},
		{"matching search", "All Levels", "already exists", true},
		{"search matches tool", "All Levels", "mask", true},
		{"no match", "All Levels", "fringes", false},
		{"level and search both", "WARN", "output", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesFilter(entry, tt.level, tt.search); got != tt.want {
				t.Errorf("matchesFilter = %v, want %v", got, tt.want)
			}
		})
	}
}
