package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mfreeman451/meshmon/pkg/config"
	"github.com/mfreeman451/meshmon/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	// overridden during build with ldflags
	version = "dev"

	cfgFile   string
	dbPath    string
	logLevel  string
	logFormat string
	jsonOut   bool
)

var rootCmd = &cobra.Command{
	Use:   "meshmon",
	Short: "Mesh network monitor",
	Long: `meshmon samples every node of a routed mesh, stores the results in SQLite,
raises threshold alerts and delivers them to email, chat and webhook channels.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultPath, "Path to the YAML or JSON config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Override db_path from the config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Override logging.format (text or json)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Print command output as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(testNotifyCmd)
}

// loadConfig reads the config file, applies flag overrides and installs
// the process logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg := &config.Config{}

	if err := config.LoadFile(cfgFile, cfg); err != nil {
		return nil, nil, err
	}

	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logger := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	return cfg, logger, nil
}
