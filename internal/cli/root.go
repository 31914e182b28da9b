// Package cli provides the command-line interface for spl-workbench.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spl-lab/spl-workbench/internal/config"
	"github.com/spl-lab/spl-workbench/internal/core"
	"github.com/spl-lab/spl-workbench/internal/logging"
	"github.com/spl-lab/spl-workbench/internal/version"
)

var (
	// Global flags
	cfgFile    string
	pythonExe  string
	scriptsDir string
	verbose    bool
	debug      bool

	// Global logger
	logger *logging.Logger

	// Global context for signal handling
	rootContext context.Context
	cancelFunc  context.CancelFunc
)

// NewRootCmd creates the root command for CLI mode.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spl-workbench",
		Short: "SPL Workbench - CLI and GUI for the SPL simulation toolchain",
		Long: `SPL Workbench ` + version.Version + ` - Built: ` + version.BuildTime + `
Front end for the SPL optical simulation scripts.

CLI Mode (default):
  Run each calibration step headless: mask and influence function
  generation, parameter file authoring, simulation, fringe extraction,
  batch analysis and PSF cube packing.

GUI Mode (--gui flag):
  Tabbed wizard walking through the same steps with live output.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.NewDefaultCLILogger()
			if verbose || debug {
				logging.SetGlobalLevel(-1) // zerolog.DebugLevel
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&pythonExe, "python", "", "Python interpreter (overrides config)")
	rootCmd.PersistentFlags().StringVar(&scriptsDir, "scripts-dir", "", "Directory containing the SPL scripts (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output (same as --verbose)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	return rootCmd
}

// Execute runs the CLI.
func Execute() error {
	rootContext, cancelFunc = context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, cancelling run...\n", sig)
				cancelFunc()
			}
		}
	}()

	rootCmd := NewRootCmd()
	AddCommands(rootCmd)
	err := rootCmd.Execute()

	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// AddCommands adds all subcommands to the root command.
func AddCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newMaskCmd())
	rootCmd.AddCommand(newIfuncCmd())
	rootCmd.AddCommand(newParamsCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newFringesCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newCubeCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// GetLogger returns the global CLI logger.
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewDefaultCLILogger()
	}
	return logger
}

// GetContext returns the global CLI context with signal handling.
// This context will be cancelled when the user presses Ctrl+C.
func GetContext() context.Context {
	if rootContext == nil {
		return context.Background()
	}
	return rootContext
}

// loadEngine builds an engine from the config file and flag overrides.
func loadEngine() (*core.Engine, error) {
	cfg, err := config.LoadConfigCSV(cfgFile)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return core.NewEngine(cfg, GetLogger())
}

// applyOverrides copies non-empty persistent flag values into cfg.
func applyOverrides(cfg *config.Config) {
	if pythonExe != "" {
		cfg.PythonExe = pythonExe
	}
	if scriptsDir != "" {
		cfg.ScriptsDir = scriptsDir
	}
}
