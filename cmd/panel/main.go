// cmd/panel/main.go
//
// Panel drives the operator display of a welding/soldering fixture from a
// PLC over Modbus TCP.
//
// Usage:
//
//	panel run --config panel.yaml
//	panel check-config --config panel.yaml
//	panel version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tamzrod/fixture-panel/internal/config"
	"github.com/tamzrod/fixture-panel/internal/version"
)

var (
	configPath string
	logLevel   string
	logFile    string
)

var rootCmd = &cobra.Command{
	Use:           "panel",
	Short:         "Fixture operator panel",
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the panel control loop",
	Example: `  # Run with the display on this terminal, logs to a file
  panel run --config /etc/fixture-panel/panel.yaml --log-file /var/log/fixture-panel.log

  # Bench test without display hardware
  panel run --config panel.yaml --log-level debug`,
	RunE: runPanel,
}

var checkCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the configuration file and print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config OK: %s\n", configPath)
		fmt.Fprintf(out, "  plc:     %s (unit %d, timeout %dms)\n", cfg.PLC.Endpoint, cfg.PLC.UnitID, cfg.PLC.TimeoutMs)
		fmt.Fprintf(out, "  modes:   auto=%d manual=%d reset=%d\n", cfg.PLC.Modes.Auto, cfg.PLC.Modes.Manual, cfg.PLC.Modes.Reset)
		fmt.Fprintf(out, "  keypad:  %s\n", cfg.Keypad.Driver)
		fmt.Fprintf(out, "  display: %s\n", cfg.Display.Driver)
		fmt.Fprintf(out, "  camera:  enabled=%v dir=%s\n", cfg.Camera.Enabled, cfg.Camera.OutputDir)
		if cfg.MQTT.Broker != "" {
			fmt.Fprintf(out, "  mqtt:    %s (%s/#)\n", cfg.MQTT.Broker, cfg.MQTT.TopicPrefix)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "panel %s\n", version.String())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "panel.yaml", "Path to the panel config file")

	runCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default $PANEL_LOG_LEVEL or info")
	runCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file (default: stderr, or panel.log when the terminal display is used)")

	rootCmd.AddCommand(runCmd, checkCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig runs Load, Validate and Normalize in that order.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	config.Normalize(cfg)
	return cfg, nil
}
