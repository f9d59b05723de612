// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/colab-finder/internal/finder"
	"github.com/pdiddy/colab-finder/internal/github"
	"github.com/pdiddy/colab-finder/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web page and the /find-project endpoint",
	Long: `Serve starts an HTTP server with two routes: "/" renders a page with a
button, and "/find-project" runs a lookup and answers with JSON. The server
stops gracefully on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default 127.0.0.1:5000)")
	serveCmd.Flags().Int("rate-limit", 0, "max /find-project requests per minute, 0 disables")
	serveCmd.Flags().Bool("debug", false, "run gin in debug mode")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("server.rate_limit", serveCmd.Flags().Lookup("rate-limit"))
	viper.BindPFlag("server.debug", serveCmd.Flags().Lookup("debug"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	f := finder.New(github.NewClient(cfg.GitHub), cfg.Finder)
	srv, err := server.New(cfg.Server, f, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
