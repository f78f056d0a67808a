/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"kvhouse/internal/config"
	"kvhouse/internal/logger"
	"kvhouse/internal/server"
)

// rootCmd is the `kvhouse [config-file]` server entrypoint: an optional
// positional config path, defaulting to config.Default() when omitted.
var rootCmd = &cobra.Command{
	Use:   "kvhouse [config-file]",
	Short: "An in-memory key-value store server",
	Long: `kvhouse is an event-driven in-memory key-value store: strings,
lists, and sets, served over a line-oriented text protocol, with
background snapshotting to disk.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var cfg config.Config
		if len(args) == 1 {
			cfg = config.Load(args[0])
		} else {
			cfg = config.Default()
		}

		logger.Init(cfg.LogLevel)
		if cfg.LogFile != "stdout" {
			f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				logger.Fatalf("opening logfile %s: %v", cfg.LogFile, err)
			}
			logger.SetOutput(f)
		}

		srv := server.New(server.Config{
			Addr:        cfg.Addr(),
			Databases:   cfg.Databases,
			IdleTimeout: time.Duration(cfg.IdleTimeout) * time.Second,
			Dir:         cfg.Dir,
			SaveRules:   cfg.SaveRules,
		})

		if err := srv.Start(); err != nil {
			logger.Errorf("failed to start server: %v", err)
			os.Exit(1)
		}
		logger.Infof("server listening on %s, %d databases, dir=%s", srv.Addr(), cfg.Databases, cfg.Dir)

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down")
		if err := srv.Close(); err != nil {
			logger.Errorf("error closing server: %v", err)
		}
	},
}

// Execute adds child commands to root and sets flags appropriately.
// Called by main.main(). Only needs to happen once to rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
