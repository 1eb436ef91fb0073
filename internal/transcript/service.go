package transcript

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/video-stream/captions/internal/youtube"
)

// Cache stores serialized transcripts by key
type Cache interface {
	GetCachedTranscript(key string, maxAge time.Duration) ([]byte, bool)
	PutCachedTranscript(key string, data []byte) error
}

// Service fetches transcripts through a provider, with an optional cache
type Service struct {
	fetcher Fetcher
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewService wraps fetcher. A nil cache or a ttl of zero disables caching.
func NewService(fetcher Fetcher, cache Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher: fetcher,
		cache:   cache,
		ttl:     ttl,
		logger:  logger.With("component", "transcript"),
	}
}

// Fetch returns a cached transcript when one is fresh, otherwise asks the
// provider and caches the answer. Errors are never cached.
func (s *Service) Fetch(ctx context.Context, req Request) (*Result, error) {
	key := CacheKey(req)
	caching := s.cache != nil && s.ttl > 0

	if caching {
		if data, ok := s.cache.GetCachedTranscript(key, s.ttl); ok {
			var cached Result
			if err := json.Unmarshal(data, &cached); err == nil {
				s.logger.Debug("cache hit", "key", key)
				return &cached, nil
			}
		}
	}

	result, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	if caching {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.PutCachedTranscript(key, data); err != nil {
				s.logger.Warn("cache write failed", "key", key, "error", err)
			}
		}
	}
	return result, nil
}

// CacheKey identifies a request. URL variants of the same video share a key.
func CacheKey(req Request) string {
	target := strings.TrimSpace(req.URL)
	if id, ok := youtube.ExtractVideoID(target); ok {
		target = "yt:" + id
	}
	lang := strings.ToLower(req.Lang)
	if lang == "" {
		lang = "en"
	}
	return target + "|" + lang + "|" + strconv.FormatBool(req.TextOnly)
}
