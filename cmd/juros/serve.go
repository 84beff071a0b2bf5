package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/warp/juros-engine/api"
	"github.com/warp/juros-engine/metrics"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Loads the reference tables once and serves the calculation API.
On SIGINT/SIGTERM the server stops accepting connections and waits up to
server.shutdown_timeout for in-flight requests.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.address)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, table, err := loadEngine(ctx)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)
	m.SetTables(engine, table)

	handler := api.NewHandler(engine, table, logger, m)
	router := api.NewRouter(handler, api.RouterOptions{
		CORSOrigins: conf.Server.CORSOrigins,
		Gatherer:    reg,
	})

	addr := conf.Server.Address
	if serveAddr != "" {
		addr = serveAddr
	}
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  conf.Server.ReadTimeout,
		WriteTimeout: conf.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("op", "main.serve"),
			zap.String("addr", addr),
			zap.String("tables", tableSource()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("server failed", zap.String("op", "main.serve"), zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.String("op", "main.serve"))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.String("op", "main.serve"), zap.Error(err))
		return err
	}

	logger.Info("server stopped", zap.String("op", "main.serve"))
	return nil
}

func tableSource() string {
	if conf.Database.Path == "" {
		return "built-in"
	}
	return conf.Database.Path
}
