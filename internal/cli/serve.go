package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/video-stream/captions/internal/api"
	"github.com/video-stream/captions/internal/api/middleware"
	"github.com/video-stream/captions/internal/auth"
	"github.com/video-stream/captions/internal/db"
	"github.com/video-stream/captions/internal/job"
	"github.com/video-stream/captions/internal/segment"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	addServeFlags(cmd)
	return cmd
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().Int("port", 0, "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Port = port
	}

	if err := os.MkdirAll(cfg.DataPath, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	database, err := db.NewSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	logger.Info("admin user ensured", "username", cfg.AdminUsername)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	rateLimiter.StartCleanup(time.Minute, ctx.Done())

	transcripts := newTranscriptService(cfg, database, logger)
	summaries := newSummaryService(cfg, database, logger)

	jobs := job.NewJobQueue(database.DB(), logger)
	jobs.RegisterHandler(job.JobSummary, job.SummaryHandler(transcripts, summaries))
	jobs.Start(cfg.JobWorkers)
	defer jobs.Stop()

	router := api.NewRouter(api.Deps{
		Config:      cfg,
		Database:    database,
		JWT:         auth.NewJWTService(cfg.JWTSecret),
		Transcripts: transcripts,
		Summaries:   summaries,
		Segmenter:   segment.Default(),
		Jobs:        jobs,
		RateLimiter: rateLimiter,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "engines", summaries.EngineNames(), "db", cfg.DBPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
