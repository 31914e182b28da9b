package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spl-lab/spl-workbench/internal/config"
	"github.com/spl-lab/spl-workbench/internal/params"
)

func newParamsCmd() *cobra.Command {
	var (
		scan   params.ScanConfig
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Author a multi-wavelength YAML parameter file",
		Long: `Author the YAML parameter file driving the PSF simulation: one PSF
block per wavelength across an inclusive scan grid, plus the fixed
pupil, ramp, source and data store sections.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfigCSV(cfgFile)
			if err != nil {
				return err
			}
			applyOverrides(cfg)

			if scan.StoreDir == "" {
				scan.StoreDir = cfg.StoreDir
			}
			if scan.StoreDir == "" {
				return fmt.Errorf("no store directory: set --store-dir or the config default")
			}

			path := filepath.Join(outDir, fmt.Sprintf("params_spl_multiwave_%d_%d.yml",
				scan.InitialWavelength, scan.FinalWavelength))
			if err := scan.WriteFile(path); err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "Wrote %s (%d wavelengths)\n", path, len(scan.Wavelengths()))
			return nil
		},
	}

	defaults := params.DefaultScanConfig()
	cmd.Flags().IntVar(&scan.InitialWavelength, "wl-start", defaults.InitialWavelength, "First wavelength in nm")
	cmd.Flags().IntVar(&scan.FinalWavelength, "wl-end", defaults.FinalWavelength, "Last wavelength in nm (inclusive)")
	cmd.Flags().IntVar(&scan.WavelengthStep, "wl-step", defaults.WavelengthStep, "Wavelength step in nm")
	cmd.Flags().StringVar(&scan.RootDir, "root-dir", defaults.RootDir, "Calibration root directory written into the file")
	cmd.Flags().IntVar(&scan.PixelPupil, "pupil", defaults.PixelPupil, "Pupil diameter in pixels")
	cmd.Flags().Float64Var(&scan.PixelPitch, "pitch", defaults.PixelPitch, "Pixel pitch in meters")
	cmd.Flags().Float64Var(&scan.TotalTime, "total-time", defaults.TotalTime, "Simulated time span")
	cmd.Flags().Float64Var(&scan.TimeStep, "time-step", defaults.TimeStep, "Simulation time step")
	cmd.Flags().StringVar(&scan.MaskData, "mask", defaults.MaskData, "Pupil mask name")
	cmd.Flags().Float64Var(&scan.RampSlope, "ramp-slope", defaults.RampSlope, "Piston ramp slope")
	cmd.Flags().Float64Var(&scan.RampConstant, "ramp-constant", defaults.RampConstant, "Piston ramp constant")
	cmd.Flags().StringVar(&scan.IfuncData, "ifunc", defaults.IfuncData, "Influence function name")
	cmd.Flags().StringVar(&scan.MaskPiston, "ifunc-mask", defaults.MaskPiston, "Influence function mask name")
	cmd.Flags().StringVar(&scan.StoreDir, "store-dir", "", "Simulation output directory (defaults to config)")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Directory to write the parameter file into")

	return cmd
}
