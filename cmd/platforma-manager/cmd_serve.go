package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	httpAPI "github.com/iyhunko/platforma-manager/internal/http"
	"github.com/iyhunko/platforma-manager/internal/http/controller"
	"github.com/iyhunko/platforma-manager/internal/metrics"
	"github.com/iyhunko/platforma-manager/internal/service"
)

const shutdownTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the admin HTTP API, the metrics server and the scheduled sync",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, appOptions{background: true})
		if err != nil {
			return err
		}

		if a.dispatcher != nil {
			go a.dispatcher.Start(ctx)
		}

		if a.conf.SyncCron != "" {
			worker, err := service.NewSyncWorker(a.service, a.conf.SyncCron)
			if err != nil {
				return err
			}
			if err := worker.Start(ctx); err != nil {
				return err
			}
		}

		if !a.conf.DebugMode {
			gin.SetMode(gin.ReleaseMode)
		}
		router := httpAPI.InitRouter(gin.New(), httpAPI.Controllers{
			General:  controller.New(a.service),
			Products: controller.NewProductController(a.service, a.projector),
			Sync:     controller.NewSyncController(a.service),
		})
		httpServer := &http.Server{
			Addr:              ":" + a.conf.HTTPServer.Port,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}

		serverErr := make(chan error, 1)
		go func() {
			slog.Info("HTTP server starting", slog.String("port", a.conf.HTTPServer.Port))
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		metricsServer := metrics.StartMetricsServer(a.conf.MetricsServer.Port)

		select {
		case <-ctx.Done():
			slog.Info("Shutting down gracefully...")
		case err = <-serverErr:
			slog.Error("error while listening to HTTP requests", slog.Any("err", err))
			stop()
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown failed", slog.Any("err", err))
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("err", err))
		}
		if a.dispatcher != nil {
			select {
			case <-a.dispatcher.Done():
			case <-shutdownCtx.Done():
				slog.Warn("event dispatcher did not drain in time")
			}
		}
		return err
	},
}

