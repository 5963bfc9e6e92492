package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/beachparty/config"
	"github.com/hupe1980/beachparty/logging"
)

const version = "0.1.0"

var (
	configPath string
	hostFlag   string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:           "beachparty",
	Short:         "Beach party planning agents over A2A",
	Long:          "beachparty serves a planner, a beach lookup, a weather lookup and a coordinating host agent over the agent-to-agent protocol.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "Host to bind and advertise (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(allCmd)
	rootCmd.AddCommand(agentsCmd)
}

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig() (*config.Config, logging.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if hostFlag != "" {
		cfg.Host = hostFlag
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}

	lc := logging.DefaultLoggerConfig()
	lc.Level = level
	lc.Format = cfg.Log.Format

	return cfg, logging.NewLogger(lc), nil
}
