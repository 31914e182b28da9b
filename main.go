// SPL Workbench - Unified CLI and GUI tool for the SPL optical test bench.
//
// - No args + display available → GUI mode
// - No args + no display → CLI help
// - --gui → GUI mode
// - --cli → CLI mode (force)
// - CLI subcommands/flags → CLI mode
package main

import (
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/spl-lab/spl-workbench/internal/cli"
	"github.com/spl-lab/spl-workbench/internal/gui"
)

func main() {
	if isCLIMode() {
		if err := cli.Execute(); err != nil {
			os.Exit(1)
		}
		return
	}

	if err := gui.LaunchGUI(configFileArg()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isCLIMode determines whether to run in CLI mode based on arguments and
// environment.
//
// CLI mode when:
// - --cli flag is present (force CLI mode)
// - CLI subcommands are present (mask, simulate, config, etc.)
// - CLI flags are present (--help, --version, -h, -v)
// - No display available (DISPLAY/WAYLAND_DISPLAY not set on Linux)
//
// GUI mode when:
// - --gui flag is present (force GUI mode)
// - No arguments and display is available
func isCLIMode() bool {
	if slices.Contains(os.Args, "--cli") {
		return true
	}
	if slices.Contains(os.Args, "--gui") {
		return false
	}

	cliPatterns := []string{
		// Subcommands
		"mask", "ifunc", "params", "simulate", "fringes",
		"analyze", "cube", "config", "completion",
		// Flags
		"--help", "-h", "--version", "-v",
	}

	for _, arg := range os.Args[1:] {
		for _, pattern := range cliPatterns {
			if arg == pattern || strings.HasPrefix(arg, pattern+" ") {
				return true
			}
		}
	}

	if len(os.Args) == 1 {
		// No arguments: default to GUI if a display is available, CLI
		// otherwise.
		if runtime.GOOS == "linux" {
			if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
				return true
			}
		}
		return false
	}

	// Unknown arguments - let the CLI handle them (might be typos or new
	// commands) so that a stray argument shows help rather than opening a
	// window.
	return true
}

// configFileArg extracts an explicit --config/-c value from the command line
// for GUI mode, which does not go through cobra flag parsing.
func configFileArg() string {
	for i, arg := range os.Args[1:] {
		switch {
		case arg == "--config" || arg == "-c":
			if i+2 < len(os.Args) {
				return os.Args[i+2]
			}
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
