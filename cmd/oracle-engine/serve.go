// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/oracle-engine/internal/logging"
	"github.com/pdiddy/oracle-engine/internal/results"
	"github.com/pdiddy/oracle-engine/internal/server"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis API over HTTP",
	Long: `Serve exposes POST /api/analyze, GET /api/results and GET /api/health
(also without the /api prefix) until interrupted. In-flight requests are
drained on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (default 127.0.0.1)")
	serveCmd.Flags().Int("port", 0, "listen port (default 5000)")
	serveCmd.Flags().String("log-file", "", "append request logs to this file instead of stderr")
	bindFlag(serveCmd.Flags(), "server.host", "host")
	bindFlag(serveCmd.Flags(), "server.port", "port")
	bindFlag(serveCmd.Flags(), "server.log_file", "log-file")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.Open(cfg.Server.LogFile)
	if err != nil {
		return err
	}
	defer logger.Close()

	store := results.NewFileStore(cfg.Results)
	pipeline, err := newPipeline(store, os.Stderr)
	if err != nil {
		return err
	}

	srv, err := server.New(server.SettingsFromConfig(cfg.Server), pipeline, store,
		server.WithLogger(logger), server.WithVersion(version))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "serving on %s (results in %s)\n", srv.BaseURL(), store.Path())

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
