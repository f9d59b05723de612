// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/colab-finder/internal/finder"
	"github.com/pdiddy/colab-finder/internal/github"
	"github.com/pdiddy/colab-finder/internal/logging"
	"github.com/pdiddy/colab-finder/internal/secrets"
	"github.com/pdiddy/colab-finder/pkg/types"
)

// setDefaults registers the default value of every configuration key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("github.api_base", github.DefaultAPIBase)
	v.SetDefault("github.raw_base", github.DefaultRawBase)
	v.SetDefault("github.timeout", time.Duration(0))
	v.SetDefault("github.user_agent", "colab-finder/"+version)

	v.SetDefault("finder.max_attempts", finder.DefaultMaxAttempts)
	v.SetDefault("finder.queries", finder.DefaultQueries)

	v.SetDefault("server.addr", "127.0.0.1:5000")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", time.Duration(0))
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.rate_limit", 0)
	v.SetDefault("server.debug", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "app.log")
	v.SetDefault("log.color", true)
}

// bindEnv maps COLAB_FINDER_* variables onto config keys. GITHUB_TOKEN is
// accepted for github.token.
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("COLAB_FINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("github.token", "GITHUB_TOKEN", "COLAB_FINDER_GITHUB_TOKEN")
}

// queriesFrom reads finder.queries. A list from a config file is taken as
// is; a single string, as set through the environment, holds queries
// separated by ';' or newlines, since queries themselves contain spaces.
func queriesFrom(v *viper.Viper) []string {
	raw := v.Get("finder.queries")
	s, ok := raw.(string)
	if !ok {
		return cast.ToStringSlice(raw)
	}
	var queries []string
	for _, q := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '\n' }) {
		if q = strings.TrimSpace(q); q != "" {
			queries = append(queries, q)
		}
	}
	return queries
}

// noLogFile marks commands that log to the console only.
const noLogFile = "colab-finder/no-log-file"

// commandLogConfig returns the log configuration for cmd. Commands
// annotated with noLogFile never open the log file.
func commandLogConfig(v *viper.Viper, cmd *cobra.Command) (types.LogConfig, error) {
	cfg, err := logConfigFrom(v)
	if err != nil {
		return types.LogConfig{}, err
	}
	if _, ok := cmd.Annotations[noLogFile]; ok {
		cfg.File = ""
	}
	return cfg, nil
}

func logConfigFrom(v *viper.Viper) (types.LogConfig, error) {
	cfg := types.LogConfig{
		Level: v.GetString("log.level"),
		File:  v.GetString("log.file"),
		Color: v.GetBool("log.color"),
	}
	if _, err := logging.ParseLevel(cfg.Level); err != nil {
		return types.LogConfig{}, err
	}
	return cfg, nil
}

// loadConfig assembles the application configuration from viper. A token
// in .secrets/github-token is used when none is configured.
func loadConfig(v *viper.Viper, s secrets.Secrets) (types.AppConfig, error) {
	logCfg, err := logConfigFrom(v)
	if err != nil {
		return types.AppConfig{}, err
	}

	cfg := types.AppConfig{
		GitHub: types.GitHubConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration("github.timeout"),
				UserAgent: v.GetString("github.user_agent"),
			},
			Token:   s.Lookup(secrets.GitHubToken, v.GetString("github.token")),
			APIBase: v.GetString("github.api_base"),
			RawBase: v.GetString("github.raw_base"),
		},
		Finder: types.FinderConfig{
			MaxAttempts: v.GetInt("finder.max_attempts"),
			Queries:     queriesFrom(v),
		},
		Server: types.ServerConfig{
			Addr:            v.GetString("server.addr"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			IdleTimeout:     v.GetDuration("server.idle_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
			RateLimit:       v.GetInt("server.rate_limit"),
			Debug:           v.GetBool("server.debug"),
		},
		Log: logCfg,
	}

	if cfg.Finder.MaxAttempts < 1 {
		return types.AppConfig{}, fmt.Errorf("finder.max_attempts must be at least 1, got %d", cfg.Finder.MaxAttempts)
	}
	if cfg.GitHub.Timeout < 0 {
		return types.AppConfig{}, fmt.Errorf("github.timeout must not be negative, got %s", cfg.GitHub.Timeout)
	}
	if cfg.Server.RateLimit < 0 {
		return types.AppConfig{}, fmt.Errorf("server.rate_limit must not be negative, got %d", cfg.Server.RateLimit)
	}
	return cfg, nil
}
