package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spl-lab/spl-workbench/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage spl-workbench configuration",
		Long: `Configuration management commands for spl-workbench.

Commands:
  init  - Interactive configuration setup
  show  - Display current configuration
  path  - Show configuration file path`,
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigShowCmd())
	configCmd.AddCommand(newConfigPathCmd())

	return configCmd
}

// newConfigInitCmd creates the 'config init' command.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long: `Interactive configuration setup for spl-workbench.

The configuration will be saved to ~/.config/spl-workbench/config.csv

Use --force to overwrite existing configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := GetLogger()

			configPath := config.GetDefaultConfigPath()

			if !force {
				if _, err := os.Stat(configPath); err == nil {
					fmt.Printf("Configuration already exists at: %s\n", configPath)
					fmt.Println("Use --force to overwrite or run 'config show' to view current config.")
					return nil
				}
			}

			fmt.Println("SPL Workbench Configuration Setup")
			fmt.Println("=================================")
			fmt.Println()

			reader := bufio.NewReader(os.Stdin)
			defaults := config.DefaultConfig()

			fmt.Printf("Python interpreter [%s]: ", defaults.PythonExe)
			pythonInput, _ := reader.ReadString('\n')
			pythonInput = strings.TrimSpace(pythonInput)
			if pythonInput == "" {
				pythonInput = defaults.PythonExe
			}

			var scriptsInput string
			for scriptsInput == "" {
				fmt.Print("SPL scripts directory (required): ")
				input, _ := reader.ReadString('\n')
				scriptsInput = strings.TrimSpace(input)
				if scriptsInput == "" {
					fmt.Println("  Error: scripts directory is required")
				}
			}

			fmt.Printf("Calibration data directory [%s]: ", defaults.CalibDir)
			calibInput, _ := reader.ReadString('\n')
			calibInput = strings.TrimSpace(calibInput)
			if calibInput == "" {
				calibInput = defaults.CalibDir
			}

			fmt.Print("Default simulation output directory (optional): ")
			storeInput, _ := reader.ReadString('\n')
			storeInput = strings.TrimSpace(storeInput)

			fmt.Printf("Event buffer size [%d]: ", defaults.EventBuffer)
			bufferInput, _ := reader.ReadString('\n')
			bufferInput = strings.TrimSpace(bufferInput)
			eventBuffer := defaults.EventBuffer
			if bufferInput != "" {
				if v, err := strconv.Atoi(bufferInput); err == nil && v > 0 {
					eventBuffer = v
				}
			}

			cfg := &config.Config{
				PythonExe:   pythonInput,
				ScriptsDir:  scriptsInput,
				CalibDir:    calibInput,
				StoreDir:    storeInput,
				EventBuffer: eventBuffer,
			}

			if err := config.EnsureConfigDir(); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := config.SaveConfigCSV(cfg, configPath); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			logger.Info().Str("path", configPath).Msg("Configuration saved")

			fmt.Println()
			fmt.Printf("Configuration saved to: %s\n", configPath)
			fmt.Println()
			fmt.Println("Verify your settings with: spl-workbench config show")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the current configuration settings.

This command shows the merged configuration from:
  1. Configuration file (~/.config/spl-workbench/config.csv)
  2. Command-line flags (--python, --scripts-dir)

Priority: flags > config file > defaults`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := cfgFile
			if configPath == "" {
				configPath = config.GetDefaultConfigPath()
			}

			// Empty path falls back to the default location but tolerates
			// the file not existing yet; an explicit --config must exist.
			cfg, err := config.LoadConfigCSV(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyOverrides(cfg)

			fmt.Println("Current Configuration")
			fmt.Println("=====================")
			fmt.Println()

			fmt.Println("Toolchain:")
			fmt.Printf("  Python interpreter: %s\n", cfg.PythonExe)
			fmt.Printf("  Scripts directory:  %s\n", cfg.ScriptsDir)
			fmt.Println()

			fmt.Println("Data:")
			fmt.Printf("  Calibration directory: %s\n", cfg.CalibDir)
			if cfg.StoreDir != "" {
				fmt.Printf("  Simulation output:     %s\n", cfg.StoreDir)
			} else {
				fmt.Println("  Simulation output:     <not set>")
			}
			fmt.Println()

			fmt.Println("Advanced:")
			fmt.Printf("  Event buffer:     %d\n", cfg.EventBuffer)
			fmt.Printf("  Detailed logging: %t\n", cfg.DetailedLogging)
			fmt.Println()

			fmt.Printf("Configuration file: %s\n", configPath)
			if _, err := os.Stat(configPath); os.IsNotExist(err) {
				fmt.Println("  (file does not exist - using defaults)")
			}

			return nil
		},
	}

	return cmd
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Long:  `Display the path to the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := cfgFile
			if configPath == "" {
				configPath = config.GetDefaultConfigPath()
				fmt.Println("Default configuration path:")
			} else {
				fmt.Println("Configuration path (from --config flag):")
			}

			fmt.Printf("  %s\n", configPath)
			fmt.Println()

			if fileInfo, err := os.Stat(configPath); err == nil {
				fmt.Println("Status: file exists")
				fmt.Printf("Size:   %d bytes\n", fileInfo.Size())
				fmt.Printf("Modified: %s\n", fileInfo.ModTime().Format("2006-01-02 15:04:05"))
			} else {
				fmt.Println("Status: file does not exist")
				fmt.Println()
				fmt.Println("Create a configuration file with: spl-workbench config init")
			}

			return nil
		},
	}

	return cmd
}
