package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-job-matcher/config"
	"github.com/gcbaptista/go-job-matcher/internal/logger"
)

const app = "matcher"

// runtime is what every subcommand needs once flags, env and config file are resolved.
type runtime struct {
	cfg    *config.AppConfig
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:          app,
		Short:        "matcher ranks candidate profiles against job postings",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (yaml, json or toml)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("candidates", "", "candidate pool JSON file (default JSONs/candidates.json)")

	_ = v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = v.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = v.BindPFlag("candidates", rootCmd.PersistentFlags().Lookup("candidates"))

	load := func() (*runtime, error) {
		// A missing .env is fine, the environment may already be set up.
		_ = godotenv.Load()

		cfg, err := config.Load(v, cfgFile)
		if err != nil {
			return nil, err
		}

		log, err := logger.New(cfg.JSONLogs, cfg.Debug)
		if err != nil {
			return nil, fmt.Errorf("creating a logger: %w", err)
		}
		return &runtime{cfg: cfg, logger: log}, nil
	}

	rootCmd.AddCommand(newServeCmd(v, load))
	rootCmd.AddCommand(newMatchCmd(v, load))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}
