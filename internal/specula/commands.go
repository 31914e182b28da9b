// Package specula builds command lines for the external SPL/SPECULA scripts.
// The workbench owns none of the science: every builder here produces an argv
// for a separately installed tool, validated for type and range only.
package specula

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spl-lab/spl-workbench/internal/validation"
)

// Tool names used throughout the event stream and UI.
const (
	ToolMask       = "mask"
	ToolIfunc      = "ifunc"
	ToolParams     = "params"
	ToolSimulation = "simulation"
	ToolFringes    = "fringes"
	ToolAnalyze    = "analyze"
	ToolCube       = "cube"
)

// Script filenames within the SPL scripts directory.
const (
	ScriptMask       = "create_spl_mask.py"
	ScriptIfunc      = "create_dm_ifunc.py"
	ScriptSimulation = "main_simul.py"
	ScriptFringes    = "create_fringes.py"
	ScriptAnalyze    = "analyze_batch.py"
	ScriptCube       = "specula_psf_to_spl_cube.py"
)

// Command is a fully validated invocation of one external script.
type Command struct {
	Tool   string
	Script string
	Args   []string
}

// Argv resolves the command against an interpreter and scripts directory.
func (c Command) Argv(pythonExe, scriptsDir string) []string {
	argv := []string{pythonExe, filepath.Join(scriptsDir, c.Script)}
	return append(argv, c.Args...)
}

// MaskParams configures create_spl_mask.py: a circular pupil mask with an
// optional zero-filled gap at a clock angle.
type MaskParams struct {
	PixelPupil int
	Gap        float64
	ClockAngle float64
	Filename   string
}

// Validate checks ranges before any subprocess is spawned.
func (p MaskParams) Validate() error {
	if p.PixelPupil < 1 {
		return fmt.Errorf("pixel pupil must be >= 1, got %d", p.PixelPupil)
	}
	if p.Gap < 0 || p.Gap > 1 {
		return fmt.Errorf("gap fraction must be in [0, 1], got %g", p.Gap)
	}
	if err := validation.Filename(p.Filename); err != nil {
		return err
	}
	return nil
}

// Command builds the mask invocation. The script appends .fits itself, so a
// user-supplied extension is stripped first.
func (p MaskParams) Command() (Command, error) {
	if err := p.Validate(); err != nil {
		return Command{}, err
	}
	name := validation.TrimFitsExt(p.Filename)
	return Command{
		Tool:   ToolMask,
		Script: ScriptMask,
		Args: []string{
			strconv.Itoa(p.PixelPupil),
			"--gap", formatFloat(p.Gap),
			"--clock_angle", formatFloat(p.ClockAngle),
			"--filename", name,
		},
	}, nil
}

// IfuncParams configures create_dm_ifunc.py: a piston influence function
// sampled like the pupil.
type IfuncParams struct {
	Size     int
	Filename string
}

func (p IfuncParams) Validate() error {
	if p.Size < 1 {
		return fmt.Errorf("pixel pupil must be >= 1, got %d", p.Size)
	}
	if err := validation.Filename(p.Filename); err != nil {
		return err
	}
	return nil
}

// Command builds the influence function invocation. This script wants the
// .fits extension present.
func (p IfuncParams) Command() (Command, error) {
	if err := p.Validate(); err != nil {
		return Command{}, err
	}
	return Command{
		Tool:   ToolIfunc,
		Script: ScriptIfunc,
		Args: []string{
			strconv.Itoa(p.Size),
			validation.EnsureFitsExt(p.Filename),
		},
	}, nil
}

// SimulationParams configures main_simul.py, the long-running PSF simulation
// driven by a previously authored YAML parameter file.
type SimulationParams struct {
	ParamFile string
	UseCPU    bool
}

func (p SimulationParams) Validate() error {
	return validation.FileExists("YAML parameter file", p.ParamFile)
}

func (p SimulationParams) Command() (Command, error) {
	if err := p.Validate(); err != nil {
		return Command{}, err
	}
	args := []string{p.ParamFile}
	if p.UseCPU {
		args = append(args, "--cpu")
	}
	return Command{Tool: ToolSimulation, Script: ScriptSimulation, Args: args}, nil
}

// FringesParams configures create_fringes.py, which extracts fringe patterns
// from the simulated PSF files. Piston bounds are optional; the script
// auto-detects them from the FITS headers when omitted.
type FringesParams struct {
	ParentFolder string
	OutputFolder string
	NumRows      int
	PistonMin    *float64
	PistonMax    *float64
	PistonStep   *float64
	PistonFile   string
}

func (p FringesParams) Validate() error {
	if err := validation.DirExists("parent folder", p.ParentFolder); err != nil {
		return err
	}
	if p.NumRows < 1 {
		return fmt.Errorf("number of rows must be >= 1, got %d", p.NumRows)
	}
	if p.PistonMin != nil && p.PistonMax != nil && *p.PistonMax < *p.PistonMin {
		return fmt.Errorf("piston max (%g) must be >= piston min (%g)", *p.PistonMax, *p.PistonMin)
	}
	if p.PistonStep != nil && *p.PistonStep <= 0 {
		return fmt.Errorf("piston step must be > 0, got %g", *p.PistonStep)
	}
	if p.PistonFile != "" {
		if err := validation.FileExists("piston file", p.PistonFile); err != nil {
			return err
		}
	}
	return nil
}

func (p FringesParams) Command() (Command, error) {
	if err := p.Validate(); err != nil {
		return Command{}, err
	}
	args := []string{p.ParentFolder}
	if p.OutputFolder != "" {
		args = append(args, "--output_folder", p.OutputFolder)
	}
	if p.NumRows > 1 {
		args = append(args, "--num_rows", strconv.Itoa(p.NumRows))
	}
	// A piston file overrides the min/max/step triple.
	if p.PistonFile != "" {
		args = append(args, "--piston_file", p.PistonFile)
	} else {
		if p.PistonMin != nil {
			args = append(args, "--piston_min", formatFloat(*p.PistonMin))
		}
		if p.PistonMax != nil {
			args = append(args, "--piston_max", formatFloat(*p.PistonMax))
		}
		if p.PistonStep != nil {
			args = append(args, "--piston_step", formatFloat(*p.PistonStep))
		}
	}
	return Command{Tool: ToolFringes, Script: ScriptFringes, Args: args}, nil
}

// AnalyzeParams configures analyze_batch.py, which matches extracted fringes
// against a template library across TT folders.
type AnalyzeParams struct {
	BaseDir string
	Pattern string
	PosID   string
}

func (p AnalyzeParams) Validate() error {
	if err := validation.DirExists("base directory", p.BaseDir); err != nil {
		return err
	}
	if p.PosID == "" {
		return fmt.Errorf("position ID cannot be empty")
	}
	return nil
}

func (p AnalyzeParams) Command() (Command, error) {
	if err := p.Validate(); err != nil {
		return Command{}, err
	}
	args := []string{p.BaseDir, "--pos-id", p.PosID}
	if p.Pattern != "" {
		args = append(args, "--pattern", p.Pattern)
	}
	return Command{Tool: ToolAnalyze, Script: ScriptAnalyze, Args: args}, nil
}

// CubeParams configures specula_psf_to_spl_cube.py, which crops simulated PSF
// frames and repacks them into per-piston cubes.
type CubeParams struct {
	BasePath string
}

func (p CubeParams) Validate() error {
	return validation.DirExists("base path", p.BasePath)
}

func (p CubeParams) Command() (Command, error) {
	if err := p.Validate(); err != nil {
		return Command{}, err
	}
	return Command{Tool: ToolCube, Script: ScriptCube, Args: []string{p.BasePath}}, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
