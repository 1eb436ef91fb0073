package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const DefaultSupadataBaseURL = "https://api.supadata.ai"

// KeyResolver returns the current API key. Keys saved in settings take
// effect without a restart.
type KeyResolver func() string

// StaticKey returns a KeyResolver for a fixed key.
func StaticKey(key string) KeyResolver {
	return func() string { return key }
}

// SupadataClient fetches transcripts from the Supadata transcript API
type SupadataClient struct {
	baseURL    string
	apiKey     KeyResolver
	httpClient *http.Client
	limiter    *rate.Limiter
	retryWait  time.Duration
	logger     *slog.Logger
}

// SupadataOption customises a SupadataClient.
type SupadataOption func(*SupadataClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) SupadataOption {
	return func(s *SupadataClient) { s.httpClient = c }
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64) SupadataOption {
	return func(s *SupadataClient) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		burst := int(perSecond)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithRetryWait sets the pause before retrying a transient failure.
func WithRetryWait(d time.Duration) SupadataOption {
	return func(s *SupadataClient) { s.retryWait = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) SupadataOption {
	return func(s *SupadataClient) { s.logger = l }
}

func NewSupadataClient(baseURL string, apiKey KeyResolver, opts ...SupadataOption) *SupadataClient {
	if baseURL == "" {
		baseURL = DefaultSupadataBaseURL
	}
	s := &SupadataClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 1 * time.Minute,
		},
		retryWait: 2 * time.Second,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "supadata")
	return s
}

func (s *SupadataClient) Name() string {
	return "supadata"
}

// Fetch calls GET /v1/transcript. A missing key yields ErrMissingCredential,
// a non-2xx reply an *UpstreamError.
func (s *SupadataClient) Fetch(ctx context.Context, req Request) (*Result, error) {
	key := ""
	if s.apiKey != nil {
		key = s.apiKey()
	}
	if key == "" {
		return nil, ErrMissingCredential
	}

	lang := req.Lang
	if lang == "" {
		lang = "en"
	}
	q := url.Values{}
	q.Set("url", req.URL)
	q.Set("lang", lang)
	q.Set("text", strconv.FormatBool(req.TextOnly))
	endpoint := s.baseURL + "/v1/transcript?" + q.Encode()

	body, err := s.get(ctx, endpoint, key)
	if err != nil && isRetryable(err) {
		s.logger.Warn("request failed, retrying", "error", err, "wait", s.retryWait)
		select {
		case <-time.After(s.retryWait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		body, err = s.get(ctx, endpoint, key)
	}
	if err != nil {
		return nil, err
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse transcript response: %w", err)
	}
	if result.Lang == "" {
		result.Lang = lang
	}

	s.logger.Debug("transcript fetched", "lang", result.Lang, "chars", len(result.Content), "chunks", len(result.Chunks))
	return &result, nil
}

func (s *SupadataClient) get(ctx context.Context, endpoint, key string) ([]byte, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("x-api-key", key)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transcript API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read transcript response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        body,
		}
	}
	return body, nil
}

// isRetryable reports whether err is a transient gateway or connection failure
func isRetryable(err error) bool {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr.StatusCode == http.StatusBadGateway ||
			upErr.StatusCode == http.StatusServiceUnavailable ||
			upErr.StatusCode == http.StatusGatewayTimeout
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "EOF")
}
