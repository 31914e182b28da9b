package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spl-lab/spl-workbench/internal/core"
	"github.com/spl-lab/spl-workbench/internal/events"
	"github.com/spl-lab/spl-workbench/internal/progress"
	"github.com/spl-lab/spl-workbench/internal/runner"
	"github.com/spl-lab/spl-workbench/internal/specula"
)

// runCommand launches cmd on its tool runner and streams output to stdout
// until the child exits. Ctrl+C cancels the child through the root context.
func runCommand(ctx context.Context, eng *core.Engine, cmd specula.Command) error {
	outputs := eng.EventBus().Subscribe(events.EventOutput)
	defer eng.EventBus().Unsubscribe(events.EventOutput, outputs)

	reporter := progress.NewCLIReporter()
	reporter.Start(cmd.Tool)

	done := make(chan runner.Result, 1)
	runID, err := eng.Launch(ctx, cmd, func(res runner.Result) {
		done <- res
	})
	if err != nil {
		reporter.Finish()
		return err
	}

	for {
		select {
		case ev, ok := <-outputs:
			if !ok {
				outputs = nil
				continue
			}
			out := ev.(*events.OutputEvent)
			if out.RunID != runID {
				continue
			}
			fmt.Fprintln(os.Stdout, out.Line)
			reporter.Tick(out.Line)
		case <-ctx.Done():
			eng.Cancel(cmd.Tool)
			<-done
			reporter.Finish()
			return fmt.Errorf("%s run cancelled", cmd.Tool)
		case res := <-done:
			reporter.Finish()
			switch res.Status {
			case runner.StateSucceeded:
				return nil
			case runner.StateCancelled:
				return fmt.Errorf("%s run cancelled", cmd.Tool)
			default:
				return fmt.Errorf("%s run failed with exit code %d:\n%s",
					cmd.Tool, res.ExitCode, res.TailText())
			}
		}
	}
}

// launch is the shared RunE body: build the command, load the engine, run.
func launch(build func() (specula.Command, error)) error {
	cmd, err := build()
	if err != nil {
		return err
	}
	eng, err := loadEngine()
	if err != nil {
		return err
	}
	defer eng.Close()
	return runCommand(GetContext(), eng, cmd)
}

func newMaskCmd() *cobra.Command {
	var p specula.MaskParams

	cmd := &cobra.Command{
		Use:   "mask",
		Short: "Generate a pupil mask FITS file",
		Long: `Generate a circular pupil mask with an optional zero-filled gap
at a given clock angle, written as a FITS file into the calibration tree.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return launch(p.Command)
		},
	}

	cmd.Flags().IntVar(&p.PixelPupil, "pupil", 80, "Pupil diameter in pixels")
	cmd.Flags().Float64Var(&p.Gap, "gap", 0.015, "Gap width as a fraction of the diameter")
	cmd.Flags().Float64Var(&p.ClockAngle, "clock-angle", 0, "Gap clock angle in degrees")
	cmd.Flags().StringVar(&p.Filename, "filename", "", "Output mask name (required)")
	cmd.MarkFlagRequired("filename")

	return cmd
}

func newIfuncCmd() *cobra.Command {
	var p specula.IfuncParams

	cmd := &cobra.Command{
		Use:   "ifunc",
		Short: "Generate a piston influence function FITS file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return launch(p.Command)
		},
	}

	cmd.Flags().IntVar(&p.Size, "size", 80, "Sampling size in pixels (match the pupil)")
	cmd.Flags().StringVar(&p.Filename, "filename", "", "Output file name (required)")
	cmd.MarkFlagRequired("filename")

	return cmd
}

func newSimulateCmd() *cobra.Command {
	var p specula.SimulationParams

	cmd := &cobra.Command{
		Use:   "simulate <params.yml>",
		Short: "Run the PSF simulation for a parameter file",
		Long: `Run the long PSF simulation described by a previously authored
YAML parameter file. Press Ctrl+C to stop the simulation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.ParamFile = args[0]
			return launch(p.Command)
		},
	}

	cmd.Flags().BoolVar(&p.UseCPU, "cpu", false, "Force CPU computation (skip GPU)")

	return cmd
}

func newFringesCmd() *cobra.Command {
	var (
		p          specula.FringesParams
		pistonMin  float64
		pistonMax  float64
		pistonStep float64
	)

	cmd := &cobra.Command{
		Use:   "fringes <parent-folder>",
		Short: "Extract fringe patterns from simulated PSF data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.ParentFolder = args[0]
			// Only forward piston bounds the user actually set; the
			// script auto-detects the rest.
			if cmd.Flags().Changed("piston-min") {
				p.PistonMin = &pistonMin
			}
			if cmd.Flags().Changed("piston-max") {
				p.PistonMax = &pistonMax
			}
			if cmd.Flags().Changed("piston-step") {
				p.PistonStep = &pistonStep
			}
			return launch(p.Command)
		},
	}

	cmd.Flags().StringVar(&p.OutputFolder, "output-folder", "", "Destination folder for extracted fringes")
	cmd.Flags().IntVar(&p.NumRows, "num-rows", 1, "Number of detector rows to extract")
	cmd.Flags().Float64Var(&pistonMin, "piston-min", 0, "Lowest piston value in nm")
	cmd.Flags().Float64Var(&pistonMax, "piston-max", 0, "Highest piston value in nm")
	cmd.Flags().Float64Var(&pistonStep, "piston-step", 0, "Piston grid step in nm")
	cmd.Flags().StringVar(&p.PistonFile, "piston-file", "", "File listing piston values (overrides min/max/step)")

	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var p specula.AnalyzeParams

	cmd := &cobra.Command{
		Use:   "analyze <base-dir>",
		Short: "Match extracted fringes against a template library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.BaseDir = args[0]
			return launch(p.Command)
		},
	}

	cmd.Flags().StringVar(&p.PosID, "pos-id", "", "Position identifier (required)")
	cmd.Flags().StringVar(&p.Pattern, "pattern", "", "Glob pattern selecting TT folders")
	cmd.MarkFlagRequired("pos-id")

	return cmd
}

func newCubeCmd() *cobra.Command {
	var p specula.CubeParams

	cmd := &cobra.Command{
		Use:   "cube <base-path>",
		Short: "Repack simulated PSF frames into per-piston cubes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p.BasePath = args[0]
			return launch(p.Command)
		},
	}

	return cmd
}
