package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/killallgit/audionote/api"
	"github.com/killallgit/audionote/api/types"
	"github.com/killallgit/audionote/internal/services/auth"
	"github.com/killallgit/audionote/pkg/config"
	"github.com/killallgit/audionote/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the Audio Notes API server with the configured settings.

Besides the HTTP API this runs the reminder workers, which fire alarms and
post notifications, and the cleanup service, which removes orphaned
recordings and old jobs.

Example:
  audionote serve
  audionote serve --port 9090
  audionote serve --host 0.0.0.0 --port 8080`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	cfg := appConfig

	if serverHost != "" {
		cfg.Server.Host = serverHost
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	pool, err := a.newWorkerPool()
	if err != nil {
		return err
	}
	if err := pool.Start(ctx); err != nil {
		return fmt.Errorf("failed to start workers: %w", err)
	}
	defer pool.Stop()

	sweeper := a.newCleanup()
	sweeper.Start(ctx)
	defer sweeper.Stop()

	deps := &types.Dependencies{
		DB:            a.db,
		NoteService:   a.notes,
		Reminders:     a.reminders,
		Tray:          a.tray,
		JobService:    a.jobs,
		WorkerPool:    pool,
		Metadata:      a.newProber(),
		RecordingsDir: cfg.Storage.RecordingsDir,
		Build:         buildInfo(),
	}
	if cfg.Security.APIToken != "" || cfg.Security.JWKSURL != "" {
		validator, err := auth.NewService(auth.Options{
			APIToken: cfg.Security.APIToken,
			JWKSURL:  cfg.Security.JWKSURL,
		})
		if err != nil {
			return err
		}
		deps.Auth = validator
		logrus.WithField("jwks", cfg.Security.JWKSURL != "").Info("API authentication enabled")
	}

	server := api.NewServer(cfg)
	server.SetDependencies(deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	config.Watch(func(updated *config.Config) {
		if err := logging.Setup(updated.Logging.Level, updated.Logging.Format == "json"); err != nil {
			logrus.WithError(err).Warn("Ignoring logging change")
		}
	})

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	logrus.WithFields(logrus.Fields{
		"addr":    server.Addr(),
		"version": Version,
		"workers": cfg.Reminders.Workers,
	}).Info("Audio Notes API server started")

	var runErr error
	select {
	case <-stop:
		logrus.Info("Shutting down server")
	case <-ctx.Done():
		logrus.Info("Context cancelled, shutting down server")
	case runErr = <-serverErr:
		logrus.WithError(runErr).Error("Server stopped unexpectedly")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server forced to shutdown")
		return err
	}

	logrus.Info("Server gracefully stopped")
	return runErr
}
