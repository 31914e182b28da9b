package validation

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestInt(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		min     int
		want    int
		wantErr bool
	}{
		{"valid", "80", 1, 80, false},
		{"with whitespace", " 80 ", 1, 80, false},
		{"at minimum", "1", 1, 1, false},
		{"below minimum", "0", 1, 0, true},
		{"negative pupil", "-5", 1, 0, true},
		{"not a number", "eighty", 1, 0, true},
		{"float input", "80.5", 1, 0, true},
		{"empty", "", 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IntMin("pixel pupil", tt.input, tt.min)
			if (err != nil) != tt.wantErr {
				t.Fatalf("IntMin(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("IntMin(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFloat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		min     float64
		max     float64
		want    float64
		wantErr bool
	}{
		{"gap in range", "0.15", 0, 1, 0.15, false},
		{"gap zero", "0.0", 0, 1, 0, false},
		{"gap one", "1", 0, 1, 1, false},
		{"gap above one", "1.5", 0, 1, 0, true},
		{"gap negative", "-0.1", 0, 1, 0, true},
		{"scientific notation", "8.375e-05", 0, 1, 8.375e-05, false},
		{"garbage", "a lot", 0, 1, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Float("gap fraction", tt.input, tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Float(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Float(%q) = %g, want %g", tt.input, got, tt.want)
			}
		})
	}
}

func TestAnyFloat(t *testing.T) {
	// Clock angle and ramp constant accept any finite value.
	got, err := AnyFloat("ramp constant", "-12000")
	if err != nil {
		t.Fatalf("AnyFloat(-12000) failed: %v", err)
	}
	if got != -12000 {
		t.Errorf("AnyFloat(-12000) = %g", got)
	}
	if math.IsInf(got, 0) {
		t.Error("Unexpected infinity")
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "mymask", false},
		{"with extension", "mymask.fits", false},
		{"dots inside", "mask..v2.fits", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"forward slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"dot dot", "..", true},
		{"null byte", "bad\x00name", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Filename(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Filename(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestFitsExtHelpers(t *testing.T) {
	if got := EnsureFitsExt("mymask"); got != "mymask.fits" {
		t.Errorf("EnsureFitsExt(mymask) = %q", got)
	}
	if got := EnsureFitsExt("mymask.fits"); got != "mymask.fits" {
		t.Errorf("EnsureFitsExt(mymask.fits) = %q", got)
	}
	if got := TrimFitsExt("mymask.fits"); got != "mymask" {
		t.Errorf("TrimFitsExt(mymask.fits) = %q", got)
	}
	if got := TrimFitsExt("mymask"); got != "mymask" {
		t.Errorf("TrimFitsExt(mymask) = %q", got)
	}
}

func TestFileAndDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "params.yml")
	if err := os.WriteFile(file, []byte("---\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := FileExists("YAML file", file); err != nil {
		t.Errorf("FileExists on real file failed: %v", err)
	}
	if err := FileExists("YAML file", filepath.Join(dir, "missing.yml")); err == nil {
		t.Error("FileExists on missing file should fail")
	}
	if err := FileExists("YAML file", dir); err == nil {
		t.Error("FileExists on directory should fail")
	}

	if err := DirExists("parent folder", dir); err != nil {
		t.Errorf("DirExists on real dir failed: %v", err)
	}
	if err := DirExists("parent folder", file); err == nil {
		t.Error("DirExists on file should fail")
	}
	if err := DirExists("parent folder", ""); err == nil {
		t.Error("DirExists on empty path should fail")
	}
}
