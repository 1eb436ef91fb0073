package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/video-stream/captions/internal/api/handlers"
	"github.com/video-stream/captions/internal/api/middleware"
	"github.com/video-stream/captions/internal/auth"
	"github.com/video-stream/captions/internal/config"
	"github.com/video-stream/captions/internal/db"
	"github.com/video-stream/captions/internal/job"
	"github.com/video-stream/captions/internal/segment"
	"github.com/video-stream/captions/internal/summary"
)

// Summary requests carry whole transcripts.
const maxJSONBody = 8 << 20

// Deps are the services the router dispatches to.
type Deps struct {
	Config      *config.Config
	Database    *db.Database
	JWT         *auth.JWTService
	Transcripts handlers.TranscriptFetcher
	Summaries   *summary.Service
	Segmenter   *segment.Registry
	Jobs        *job.JobQueue // optional; enables /api/jobs
	RateLimiter *middleware.RateLimiter
	Logger      *slog.Logger
}

func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(d.Logger))
	r.Use(cors.Handler(middleware.CORSHandler(d.Config.CORSOrigins)))

	rateLimiter := d.RateLimiter
	if rateLimiter == nil {
		rateLimiter = middleware.NewRateLimiter(d.Config.RateLimitPerMinute, time.Minute)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(d.Database, d.JWT)
	transcriptHandler := handlers.NewTranscriptHandler(d.Transcripts, d.Logger)
	segmentHandler := handlers.NewSegmentHandler(d.Segmenter)
	summaryHandler := handlers.NewSummaryHandler(d.Summaries, d.Logger)
	settingsHandler := handlers.NewSettingsHandler(d.Database)
	adminHandler := handlers.NewAdminHandler(d.Database, rateLimiter, d.Config.TranscriptCacheTTL)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.MaxBodySize(maxJSONBody))

		r.Get("/health", handlers.Health)

		// Offline utilities
		r.Post("/segment", segmentHandler.Segment)
		r.Get("/video-id", handlers.VideoID)
		r.Post("/video-summary/render", summaryHandler.Render)
		r.Get("/summaries", summaryHandler.List)
		r.Get("/summary-engines", summaryHandler.Engines)

		// Routes that call upstream APIs
		r.Group(func(r chi.Router) {
			r.Use(rateLimiter.Handler)

			r.Get("/transcript", transcriptHandler.GetTranscript)
			r.Get("/transcript/download", transcriptHandler.Download)
			r.Post("/video-summary", summaryHandler.Summarize)
		})

		// Background summary jobs
		if d.Jobs != nil {
			jobHandler := handlers.NewJobHandler(d.Jobs)
			r.With(rateLimiter.Handler).Post("/jobs/summary", jobHandler.CreateSummaryJob)
			r.Get("/jobs", jobHandler.ListJobs)
			r.Get("/jobs/{id}", jobHandler.GetJob)
			r.Delete("/jobs/{id}", jobHandler.CancelJob)
		}

		// Auth (public, rate limited against guessing)
		r.With(rateLimiter.Handler).Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(d.JWT))

			r.Get("/auth/me", authHandler.Me)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole("admin"))

				r.Get("/settings", settingsHandler.GetSettings)
				r.Put("/settings", settingsHandler.UpdateSettings)

				r.Get("/admin/stats", adminHandler.Stats)
				r.Get("/admin/ratelimits", adminHandler.RateLimits)
				r.Delete("/admin/ratelimits", adminHandler.ClearRateLimits)
				r.Post("/admin/cache/prune", adminHandler.PruneCache)
			})
		})
	})

	return r
}
