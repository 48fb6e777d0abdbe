package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bloodgroup/internal/app"
	"bloodgroup/internal/config"
	"bloodgroup/internal/database"
	"bloodgroup/internal/model"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(cfg.NewLogger())
	if cfg.IsProdLike() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	classifier, closeModel := model.Load(cfg.ModelPath, cfg.ModelMetadataPath, cfg.ONNXRuntimeLib)
	defer closeModel()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return err
	}

	rdb, err := app.ConnectRedis(context.Background(), cfg.RedisURL)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		slog.Info("rate limiting enabled",
			"predict_per_minute", cfg.PredictPerMinute,
			"login_per_minute", cfg.LoginPerMinute)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.NewRouter(cfg, db, classifier, rdb),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"addr", server.Addr,
			"env", cfg.AppEnv,
			"model_loaded", classifier.Available())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		slog.Info("server stopped")
		return nil
	case err := <-serverErr:
		return err
	}
}
