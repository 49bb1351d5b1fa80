package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/nguyentantai21042004/meetnote/internal/api"
	"github.com/nguyentantai21042004/meetnote/internal/config"
	"github.com/nguyentantai21042004/meetnote/internal/jobs"
	"github.com/nguyentantai21042004/meetnote/internal/logger"
	"github.com/nguyentantai21042004/meetnote/internal/mailer"
	"github.com/nguyentantai21042004/meetnote/internal/models"
	"github.com/nguyentantai21042004/meetnote/internal/processor"
	"github.com/nguyentantai21042004/meetnote/internal/watcher"
	"github.com/nguyentantai21042004/meetnote/pkg/executor"
)

const shutdownTimeout = 30 * time.Second

func main() {
	ctx := context.Background()

	// Load .env file if it exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Failed to read .env: %v\n", err)
	}

	configPath := os.Getenv("MEETNOTE_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Logging.Level)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Meeting Notes Extractor")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s", runtime.GOOS, runtime.GOARCH)
	log.Info(ctx, "Max Concurrent Jobs: %d", cfg.Performance.MaxConcurrent)
	log.Info(ctx, "Configuration loaded from %s", configPath)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	// Models are built once and shared by every job
	exec := executor.New()
	m, err := models.Load(ctx, cfg, exec, log)
	if err != nil {
		log.Error(ctx, "Failed to load models: %v", err)
		os.Exit(1)
	}
	log.Info(ctx, "Transcriber ready: %s", m.Transcriber.Name())

	sender := mailer.New(cfg.SMTP, log)
	proc := processor.New(cfg, exec, m, sender, log)
	manager := jobs.New(
		cfg.Performance.MaxConcurrent,
		time.Duration(cfg.Performance.JobTimeoutSeconds)*time.Second,
		time.Duration(cfg.Performance.JobTTLMinutes)*time.Minute,
		log,
	)

	handler, err := api.NewHandler(proc, manager, cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to create HTTP handler: %v", err)
		os.Exit(1)
	}

	// Set Gin mode (default to release mode)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go manager.Start(ctx)

	errChan := make(chan error, 2)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	watcherDone := make(chan struct{})
	if cfg.Inbox.Dir != "" {
		w, err := newInboxWatcher(cfg, proc, log)
		if err != nil {
			log.Error(ctx, "Failed to create inbox watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()

		go func() {
			defer close(watcherDone)
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("inbox watcher: %w", err)
			}
		}()
		log.Info(ctx, "Inbox: %s -> %s", cfg.Inbox.Dir, cfg.Inbox.Recipient)
	} else {
		close(watcherDone)
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info(ctx, "Listening on %s. Press Ctrl+C to stop", cfg.Server.Address)

	// Wait for shutdown signal or error
	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "%v", err)
	}

	// Graceful shutdown
	log.Info(ctx, "Shutting down gracefully...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "HTTP shutdown: %v", err)
	}
	cancel()
	<-watcherDone
	if err := manager.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "Job shutdown: %v", err)
	}

	log.Info(ctx, "Meeting Notes Extractor stopped")
}

// newInboxWatcher processes files dropped into inbox.dir with the inbox credentials.
func newInboxWatcher(cfg *config.Config, proc processor.Processor, log logger.Logger) (watcher.Watcher, error) {
	req := processor.Request{
		Recipient: cfg.Inbox.Recipient,
		Sender:    cfg.Inbox.Sender,
		Password:  cfg.Inbox.Password,
	}
	timeout := time.Duration(cfg.Performance.JobTimeoutSeconds) * time.Second

	handle := func(ctx context.Context, path string) error {
		ctx = logger.WithJobID(ctx, "inbox:"+filepath.Base(path))
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		res, err := proc.ProcessPath(ctx, path, req)
		if err != nil {
			return err
		}
		log.Info(ctx, "%s: %s", path, res.Message())
		return nil
	}

	return watcher.New(cfg.Inbox.Dir, handle, log, cfg.Performance.MaxConcurrent)
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Temp,
		cfg.Paths.Archived,
	}
	if cfg.Inbox.Dir != "" {
		dirs = append(dirs, cfg.Inbox.Dir)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
