// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citerank CLI. The CLI classifies,
// filters and orders the citations attached to a generated answer, fetches
// them from the retrieval service and keeps a local history of answers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/citerank/internal/classify"
	"github.com/pdiddy/citerank/internal/rank"
	"github.com/pdiddy/citerank/internal/registry"
	"github.com/pdiddy/citerank/internal/secrets"
	"github.com/pdiddy/citerank/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const secretsDir = ".secrets/"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	// logger is built from log.level before any subcommand runs.
	logger = zap.NewNop()
)

// rootCmd is the base command for the citerank CLI.
var rootCmd = &cobra.Command{
	Use:   "citerank",
	Short: "Classify, filter and order the citations behind a generated answer",
	Long: `citerank turns the raw citation records returned by the retrieval
service into the list shown next to a generated answer. Citations are
classified by source type, placeholder and duplicate records are dropped,
and the survivors are ordered with direct citations first and Quranic
commentary ahead of books, videos and fatwas.

Each surviving citation keeps the number of its original position, so
in-text markers like [3] in the answer still point at the right record.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log.level"))
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(secretsDir, logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", zap.Strings("keys", s.Keys()))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./citerank.yaml or ~/.config/citerank/citerank.yaml)")
	rootCmd.PersistentFlags().String("registry", "", "namespace registry YAML file (default: built-in tables)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	viper.BindPFlag("registry.file", rootCmd.PersistentFlags().Lookup("registry"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("citerank")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citerank"))
		}
	}

	viper.SetDefault("log.level", "warn")
	viper.SetDefault("retrieval.timeout", 30*time.Second)
	viper.SetDefault("retrieval.user_agent", "citerank/"+version)
	viper.SetDefault("retrieval.top_k", 10)
	viper.SetDefault("retrieval.max_retries", 5)
	viper.SetDefault("history.data_dir", "data")
	viper.SetDefault("history.max_results", 20)

	viper.SetEnvPrefix("CITERANK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds a console logger on stderr at level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

// loadConfig assembles the settings from viper and the secrets directory.
func loadConfig() types.Config {
	return types.Config{
		Registry: types.RegistryConfig{
			File: viper.GetString("registry.file"),
		},
		Retrieval: types.RetrievalConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("retrieval.timeout"),
				UserAgent: viper.GetString("retrieval.user_agent"),
			},
			Endpoint:   viper.GetString("retrieval.endpoint"),
			APIKey:     loadedSecrets.Get(secrets.RetrievalAPIKey, viper.GetString("retrieval.api_key")),
			TopK:       viper.GetInt("retrieval.top_k"),
			MaxRetries: viper.GetInt("retrieval.max_retries"),
		},
		History: types.HistoryConfig{
			DataDir:    viper.GetString("history.data_dir"),
			MaxResults: viper.GetInt("history.max_results"),
		},
	}
}

// loadRegistry returns the configured registry, or the built-in one.
func loadRegistry(cfg types.RegistryConfig) (*registry.Registry, error) {
	if cfg.File == "" {
		return registry.Default(), nil
	}
	reg, err := registry.Load(cfg.File)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded registry", zap.String("file", cfg.File), zap.String("version", reg.Version()))
	return reg, nil
}

// newRanker builds a ranker over the configured registry.
func newRanker(cfg types.Config) (*rank.Ranker, error) {
	reg, err := loadRegistry(cfg.Registry)
	if err != nil {
		return nil, err
	}
	return rank.New(classify.New(reg), logger), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
