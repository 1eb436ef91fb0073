package cli

import (
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/video-stream/captions/internal/config"
	"github.com/video-stream/captions/internal/db"
	"github.com/video-stream/captions/internal/summary"
	"github.com/video-stream/captions/internal/timestamp"
	"github.com/video-stream/captions/internal/transcript"
)

// settingOr resolves a value from the settings table, falling back to the
// configured value when the setting is unset. A nil database always
// yields the fallback.
func settingOr(database *db.Database, key, fallback string) func() string {
	return func() string {
		if database == nil {
			return fallback
		}
		if v := database.GetSetting(key, ""); v != "" {
			return v
		}
		return fallback
	}
}

func newTranscriptService(cfg *config.Config, database *db.Database, logger *slog.Logger) *transcript.Service {
	client := transcript.NewSupadataClient(
		cfg.SupadataBaseURL,
		transcript.KeyResolver(settingOr(database, "supadata_api_key", cfg.SupadataAPIKey)),
		transcript.WithRateLimit(cfg.UpstreamRatePerSecond),
		transcript.WithLogger(logger),
	)

	var cache transcript.Cache
	if database != nil {
		cache = database
	}
	return transcript.NewService(client, cache, cfg.TranscriptCacheTTL, logger)
}

func newSummaryService(cfg *config.Config, database *db.Database, logger *slog.Logger) *summary.Service {
	var limiter *rate.Limiter
	if cfg.UpstreamRatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.UpstreamRatePerSecond), 1)
	}

	opts := summary.Options{
		DefaultEngine:  cfg.SummaryEngine,
		EngineResolver: settingOr(database, "summary_engine", cfg.SummaryEngine),
		MaxChars:       cfg.SummaryMaxChars,
		OutputLanguage: cfg.SummaryLanguage,
		Parser:         timestamp.Parser{Strict: cfg.TimestampStrict},
		Logger:         logger,
	}
	if database != nil {
		opts.History = database
	}
	svc := summary.NewService(opts)

	svc.RegisterEngine(summary.NewOpenAISummarizer(
		cfg.OpenAIBaseURL,
		summary.KeyResolver(settingOr(database, "openai_api_key", cfg.OpenAIAPIKey)),
		summary.ModelResolver(settingOr(database, "openai_model", cfg.OpenAIModel)),
		limiter, logger,
	))
	svc.RegisterEngine(summary.NewGeminiSummarizer(
		"",
		summary.KeyResolver(settingOr(database, "gemini_api_key", cfg.GeminiAPIKey)),
		summary.ModelResolver(settingOr(database, "gemini_model", cfg.GeminiModel)),
		limiter, logger,
	))
	return svc
}
