package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/mosaic"
	"github.com/aretw0/mosaic/internal/cli"
	"github.com/aretw0/mosaic/internal/logging"
	"github.com/aretw0/mosaic/pkg/config"
	"github.com/spf13/cobra"
)

// defaultConfigFile is picked up from the working directory when --config is not set.
const defaultConfigFile = "mosaic.yaml"

var rootCmd = &cobra.Command{
	Use:   "mosaic",
	Short: "Mosaic renders deterministic block avatars from any string",
	Long: `Mosaic turns an identifier into a small blocky image sampled from Perlin noise.
The same identifier always produces the same image. It also proxies dictionary
definitions and computes exact matrix determinants.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML or JSON config file (default ./mosaic.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Override log level: debug, info, warn, error")
}

// loadConfig resolves the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	// Smart Default: use ./mosaic.yaml when it exists.
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	return cfg, nil
}

// setup loads configuration and builds the logger and service.
// Callers must Close the returned runtime.
func setup(cmd *cobra.Command, extra ...mosaic.Option) (config.Config, *slog.Logger, *cli.Runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, nil, err
	}
	logger, err := loggerFor(cfg)
	if err != nil {
		return cfg, nil, nil, err
	}
	rt, err := cli.NewService(cfg, logger, extra...)
	if err != nil {
		return cfg, logger, nil, err
	}
	logger.Debug("Configuration loaded", "config", cfg.String())
	return cfg, logger, rt, nil
}

// loggerFor builds the Stderr logger described by cfg.Log.
func loggerFor(cfg config.Config) (*slog.Logger, error) {
	return logging.FromConfig(cfg.Log.Level, cfg.Log.Format)
}
