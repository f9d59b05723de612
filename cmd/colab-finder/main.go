// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the colab-finder CLI. The serve
// subcommand runs the web endpoint; find runs a single lookup.
package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/pdiddy/colab-finder/internal/logging"
	"github.com/pdiddy/colab-finder/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// logger is built once the configuration is read and handed to every
	// component explicitly.
	logger    = slog.Default()
	logCloser io.Closer

	// loadedSecrets holds credentials loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets
)

// rootCmd is the base command for the colab-finder CLI.
var rootCmd = &cobra.Command{
	Use:   "colab-finder",
	Short: "Find GitHub projects with notebooks that open in Google Colab",
	Long: `colab-finder searches GitHub for a repository containing a Jupyter notebook
and returns a link that opens it in Google Colab. Queries are picked at random
from a fixed set; each lookup makes a bounded number of attempts.

Run "colab-finder serve" for the web page and JSON endpoint, or
"colab-finder find" for a one-off lookup.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := commandLogConfig(viper.GetViper(), cmd)
		if err != nil {
			return err
		}
		l, closer, err := logging.New(cfg, os.Stderr)
		if err != nil {
			return err
		}
		logger, logCloser = l, closer
		slog.SetDefault(logger)

		if used := viper.ConfigFileUsed(); used != "" {
			logger.Info("using config file", slog.String("path", used))
		}

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Info("loaded secrets", slog.Any("keys", s.Keys()))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./colab-finder.yaml or ~/.config/colab-finder/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "append-only log file (default app.log)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	setDefaults(viper.GetViper())

	// Values already in the environment take precedence over .env.
	if err := gotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not load .env file", slog.Any("error", err))
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("colab-finder")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "colab-finder"))
		}
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			slog.Warn("could not read config file", slog.Any("error", err))
		}
	}
}

func main() {
	os.Exit(run())
}

// run executes the root command and releases the log file whether or not
// the command succeeded.
func run() int {
	defer func() {
		if logCloser != nil {
			logCloser.Close()
		}
	}()
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}
