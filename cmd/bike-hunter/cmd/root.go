// Package cmd implements the CLI commands for bike-hunter.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/bike-hunter/internal/config"
	"github.com/donaldgifford/bike-hunter/pkg/logger"
)

const envPrefix = "BIKE_HUNTER"

var rootCmd = &cobra.Command{
	Use:   "bike-hunter",
	Short: "Hunt underpriced used bicycles on classified-ad marketplaces",
	Long: "bike-hunter harvests classified-ad listings for used bicycles, reconciles a " +
		"deterministic and an AI vision description of each one, estimates its fair " +
		"market value from historical comparables and decides whether to publish it.",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initEnv)

	rootCmd.PersistentFlags().String("config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before the config is expanded")
	rootCmd.PersistentFlags().String("log-level", "", "override logging.level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "override logging.format (text, json)")

	for _, name := range []string{"config", "env-file", "log-level", "log-format"} {
		cobra.CheckErr(viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)))
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(huntCmd())
	rootCmd.AddCommand(valuateCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(versionCmd())
}

// Root returns the root cobra command.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

// initEnv binds BIKE_HUNTER_* variables to the flags and loads the dotenv
// file so that ${VAR} references in the config resolve. Variables already
// set in the environment win over the file.
func initEnv() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if path := viper.GetString("env-file"); path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "ignoring env file:", err)
		}
	}
}

// loadConfig reads the config file and applies the logging overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if level := viper.GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if format := viper.GetString("log-format"); format != "" {
		cfg.Logging.Format = format
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)
	return log
}
