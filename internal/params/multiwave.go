// Package params authors the multiwave YAML parameter file consumed by the
// external simulation driver. This is the one workflow step the workbench
// performs natively instead of shelling out.
package params

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/spl-lab/spl-workbench/internal/validation"
)

// Optical constants of the SPL test bench. The nd sampling factor of each PSF
// block is derived from these.
const (
	SystemFNumber     = 84.77
	DetectorPixelSize = 4.5 // microns
)

// ScanConfig describes one piston-scan parameter file.
type ScanConfig struct {
	// Wavelength grid, in nm.
	InitialWavelength int
	FinalWavelength   int
	WavelengthStep    int

	// Main section.
	RootDir    string
	PixelPupil int
	PixelPitch float64
	TotalTime  float64
	TimeStep   float64

	// Pupil stop mask, name without .fits.
	MaskData string

	// Wavefront piston ramp, in nm.
	RampSlope    float64
	RampConstant float64

	// Influence function pair, names without .fits.
	IfuncData  string
	MaskPiston string

	// DataStore output directory.
	StoreDir string
}

// DefaultScanConfig returns the canonical SPL piston-scan defaults.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		InitialWavelength: 520,
		FinalWavelength:   539,
		WavelengthStep:    5,
		RootDir:           "./calib",
		PixelPupil:        80,
		PixelPitch:        8.375e-05,
		TotalTime:         2401.0,
		TimeStep:          1.0,
		MaskData:          "mask_g0150_0deg",
		RampSlope:         10,
		RampConstant:      -12000,
		IfuncData:         "ifunc_piston_80",
		MaskPiston:        "mask_piston_80",
		StoreDir:          "",
	}
}

// Validate checks the configuration before a document is generated.
func (c ScanConfig) Validate() error {
	if c.InitialWavelength < 1 {
		return fmt.Errorf("initial wavelength must be >= 1, got %d", c.InitialWavelength)
	}
	if c.FinalWavelength < c.InitialWavelength {
		return fmt.Errorf("final wavelength (%d) must be >= initial wavelength (%d)",
			c.FinalWavelength, c.InitialWavelength)
	}
	if c.WavelengthStep < 1 {
		return fmt.Errorf("wavelength step must be >= 1, got %d", c.WavelengthStep)
	}
	if c.PixelPupil < 1 {
		return fmt.Errorf("pixel pupil must be >= 1, got %d", c.PixelPupil)
	}
	if c.PixelPitch <= 0 {
		return fmt.Errorf("pixel pitch must be > 0, got %g", c.PixelPitch)
	}
	if c.TotalTime <= 0 {
		return fmt.Errorf("total time must be > 0, got %g", c.TotalTime)
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("time step must be > 0, got %g", c.TimeStep)
	}
	for _, field := range []struct{ label, name string }{
		{"input mask data", c.MaskData},
		{"ifunc data", c.IfuncData},
		{"mask piston", c.MaskPiston},
	} {
		if err := validation.Filename(field.name); err != nil {
			return fmt.Errorf("%s: %w", field.label, err)
		}
	}
	if c.StoreDir == "" {
		return fmt.Errorf("store directory cannot be empty")
	}
	return nil
}

// Wavelengths returns the scan grid in nm, endpoints inclusive.
func (c ScanConfig) Wavelengths() []int {
	var wls []int
	for wl := c.InitialWavelength; wl <= c.FinalWavelength; wl += c.WavelengthStep {
		wls = append(wls, wl)
	}
	return wls
}

// ND returns the PSF sampling factor for a wavelength in nm.
func ND(wavelengthNm int) float64 {
	return float64(wavelengthNm) * SystemFNumber / 1000 / DetectorPixelSize
}

// Marshal renders the full YAML document. Key order matches the layout the
// external driver's own generator produces, so diffs against hand-written
// files stay readable.
func (c ScanConfig) Marshal() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	root := mapping()

	appendSection(root, "main", mapping(
		"root_dir", quoted(c.RootDir),
		"pixel_pupil", intNode(c.PixelPupil),
		"pixel_pitch", floatNode(c.PixelPitch),
		"total_time", floatNode(c.TotalTime),
		"time_step", floatNode(c.TimeStep),
		"display_server", boolNode(false),
	))

	appendSection(root, "pupilstop", mapping(
		"class", quoted("Pupilstop"),
		"input_mask_data", quoted(c.MaskData),
	))

	appendSection(root, "ramp", mapping(
		"class", quoted("FuncGenerator"),
		"func_type", quoted("LINEAR"),
		"slope", sequence(floatNode(c.RampSlope)),
		"constant", sequence(floatNode(c.RampConstant)),
	))

	appendSection(root, "on_axis_source", mapping(
		"class", quoted("Source"),
		"polar_coordinate", sequence(floatNode(0), floatNode(0)),
		"magnitude", intNode(8),
		"wavelengthInNm", intNode(500),
	))

	appendSection(root, "prop", mapping(
		"class", quoted("AtmoPropagation"),
		"source_dict_ref", sequence(quoted("on_axis_source")),
		"inputs", mapping(
			"layer_list", sequence(quoted("pupilstop"), quoted("dm.out_layer")),
		),
		"outputs", sequence(quoted("out_on_axis_source_ef")),
	))

	appendSection(root, "ifunc", mapping(
		"class", quoted("IFunc"),
		"ifunc_data", quoted(c.IfuncData),
		"mask_data", quoted(c.MaskPiston),
	))

	appendSection(root, "dm", mapping(
		"class", quoted("DM"),
		"ifunc_ref", quoted("ifunc"),
		"height", intNode(0),
		"inputs", mapping(
			"in_command", quoted("ramp.output"),
		),
		"outputs", sequence(quoted("out_layer")),
	))

	// One PSF block per wavelength.
	wavelengths := c.Wavelengths()
	for _, wl := range wavelengths {
		appendSection(root, fmt.Sprintf("psf%d", wl), mapping(
			"class", quoted("PSF"),
			"wavelengthInNm", intNode(wl),
			"nd", fixedFloatNode(ND(wl)),
			"start_time", floatNode(0),
			"inputs", mapping(
				"in_ef", quoted("prop.out_on_axis_source_ef"),
			),
			"outputs", sequence(quoted("out_psf")),
		))
	}

	// DataStore collects every PSF output.
	inputs := make([]*yaml.Node, 0, len(wavelengths))
	for _, wl := range wavelengths {
		inputs = append(inputs, quoted(fmt.Sprintf("psf%d-psf%d.out_psf", wl, wl)))
	}
	appendSection(root, "data_store", mapping(
		"class", quoted("DataStore"),
		"store_dir", quoted(c.StoreDir),
		"inputs", mapping(
			"input_list", sequence(inputs...),
		),
	))

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parameter document: %w", err)
	}
	return append([]byte("---\n"), out...), nil
}

// WriteFile generates the document and writes it to path.
func (c ScanConfig) WriteFile(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write parameter file: %w", err)
	}
	return nil
}

// yaml.Node construction helpers. yaml.v3 maps lose key order on Marshal, so
// the document is built from nodes directly.

func mapping(pairs ...interface{}) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for i := 0; i < len(pairs); i += 2 {
		key := pairs[i].(string)
		value := pairs[i+1].(*yaml.Node)
		n.Content = append(n.Content, plain(key), value)
	}
	return n
}

func appendSection(root *yaml.Node, key string, value *yaml.Node) {
	root.Content = append(root.Content, plain(key), value)
}

func sequence(items ...*yaml.Node) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	n.Content = append(n.Content, items...)
	return n
}

func plain(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func quoted(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: yaml.SingleQuotedStyle}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

func floatNode(v float64) *yaml.Node {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !hasFloatSyntax(s) {
		s += ".0"
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
}

// fixedFloatNode renders with six decimals, the precision the driver's own
// generator uses for nd.
func fixedFloatNode(v float64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v, 'f', 6, 64)}
}

func boolNode(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func hasFloatSyntax(s string) bool {
	for _, r := range s {
		if r == '.' || r == 'e' || r == 'E' {
			return true
		}
	}
	return false
}
