package gui

import (
	"strings"

	"github.com/spl-lab/spl-workbench/internal/params"
	"github.com/spl-lab/spl-workbench/internal/specula"
	"github.com/spl-lab/spl-workbench/internal/validation"
)

// Form parsing lives apart from the widgets so every field check runs
// before a subprocess is spawned and stays unit-testable.

func parseMaskForm(pupil, gap, clockAngle, filename string) (specula.MaskParams, error) {
	var p specula.MaskParams
	var err error

	if p.PixelPupil, err = validation.IntMin("pupil diameter", pupil, 1); err != nil {
		return p, err
	}
	if p.Gap, err = validation.Float("gap fraction", gap, 0, 1); err != nil {
		return p, err
	}
	if p.ClockAngle, err = validation.AnyFloat("clock angle", clockAngle); err != nil {
		return p, err
	}
	p.Filename = strings.TrimSpace(filename)
	if err = validation.Filename(p.Filename); err != nil {
		return p, err
	}
	return p, nil
}

func parseIfuncForm(size, filename string) (specula.IfuncParams, error) {
	var p specula.IfuncParams
	var err error

	if p.Size, err = validation.IntMin("sampling size", size, 1); err != nil {
		return p, err
	}
	p.Filename = strings.TrimSpace(filename)
	if err = validation.Filename(p.Filename); err != nil {
		return p, err
	}
	return p, nil
}

func parseSimulationForm(paramFile string, useCPU bool) (specula.SimulationParams, error) {
	p := specula.SimulationParams{
		ParamFile: strings.TrimSpace(paramFile),
		UseCPU:    useCPU,
	}
	return p, p.Validate()
}

func parseFringesForm(parent, output, numRows, pistonMin, pistonMax, pistonStep, pistonFile string) (specula.FringesParams, error) {
	p := specula.FringesParams{
		ParentFolder: strings.TrimSpace(parent),
		OutputFolder: strings.TrimSpace(output),
		PistonFile:   strings.TrimSpace(pistonFile),
		NumRows:      1,
	}
	var err error

	if strings.TrimSpace(numRows) != "" {
		if p.NumRows, err = validation.IntMin("number of rows", numRows, 1); err != nil {
			return p, err
		}
	}
	if v, set, err := optionalFloat("piston min", pistonMin); err != nil {
		return p, err
	} else if set {
		p.PistonMin = &v
	}
	if v, set, err := optionalFloat("piston max", pistonMax); err != nil {
		return p, err
	} else if set {
		p.PistonMax = &v
	}
	if v, set, err := optionalFloat("piston step", pistonStep); err != nil {
		return p, err
	} else if set {
		p.PistonStep = &v
	}
	return p, p.Validate()
}

func parseScanForm(wlStart, wlEnd, wlStep, pupil, pitch, totalTime, timeStep, mask, rampSlope, rampConstant, ifuncName, ifuncMask, storeDir string) (params.ScanConfig, error) {
	c := params.DefaultScanConfig()
	var err error

	if c.InitialWavelength, err = validation.IntMin("first wavelength", wlStart, 1); err != nil {
		return c, err
	}
	if c.FinalWavelength, err = validation.IntMin("last wavelength", wlEnd, 1); err != nil {
		return c, err
	}
	if c.WavelengthStep, err = validation.IntMin("wavelength step", wlStep, 1); err != nil {
		return c, err
	}
	if c.PixelPupil, err = validation.IntMin("pupil diameter", pupil, 1); err != nil {
		return c, err
	}
	if c.PixelPitch, err = validation.FloatMin("pixel pitch", pitch, 0); err != nil {
		return c, err
	}
	if c.TotalTime, err = validation.FloatMin("total time", totalTime, 0); err != nil {
		return c, err
	}
	if c.TimeStep, err = validation.FloatMin("time step", timeStep, 0); err != nil {
		return c, err
	}
	if c.RampSlope, err = validation.AnyFloat("ramp slope", rampSlope); err != nil {
		return c, err
	}
	if c.RampConstant, err = validation.AnyFloat("ramp constant", rampConstant); err != nil {
		return c, err
	}
	c.MaskData = strings.TrimSpace(mask)
	c.IfuncData = strings.TrimSpace(ifuncName)
	c.MaskPiston = strings.TrimSpace(ifuncMask)
	c.StoreDir = strings.TrimSpace(storeDir)
	return c, c.Validate()
}

// optionalFloat parses an optional form field: empty means unset.
func optionalFloat(label, s string) (float64, bool, error) {
	if strings.TrimSpace(s) == "" {
		return 0, false, nil
	}
	v, err := validation.AnyFloat(label, s)
	return v, err == nil, err
}
