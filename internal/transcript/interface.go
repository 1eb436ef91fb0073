package transcript

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingCredential means no API key is configured for the provider.
var ErrMissingCredential = errors.New("transcript API key not configured")

// Request identifies the transcript to fetch
type Request struct {
	URL      string // video URL as pasted by the user
	Lang     string // preferred language code, e.g. "en", "zh"
	TextOnly bool   // plain text instead of timed chunks
}

// Chunk is one timed caption line (only present when TextOnly is false)
type Chunk struct {
	Text     string  `json:"text"`
	Offset   float64 `json:"offset"`   // milliseconds
	Duration float64 `json:"duration"` // milliseconds
	Lang     string  `json:"lang,omitempty"`
}

// Result is a fetched transcript
type Result struct {
	Content        string   `json:"content"`
	Chunks         []Chunk  `json:"chunks,omitempty"`
	Lang           string   `json:"lang"`
	AvailableLangs []string `json:"availableLangs"`
}

// UnmarshalJSON accepts the provider's two shapes: "content" as a string,
// or as a list of timed chunks. For the latter Content is the chunk texts
// joined with spaces.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw struct {
		Content        json.RawMessage `json:"content"`
		Chunks         []Chunk         `json:"chunks"`
		Lang           string          `json:"lang"`
		AvailableLangs []string        `json:"availableLangs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Lang = raw.Lang
	r.AvailableLangs = raw.AvailableLangs
	r.Chunks = raw.Chunks
	r.Content = ""

	content := strings.TrimSpace(string(raw.Content))
	switch {
	case content == "" || content == "null":
	case strings.HasPrefix(content, "["):
		if err := json.Unmarshal(raw.Content, &r.Chunks); err != nil {
			return fmt.Errorf("decode transcript chunks: %w", err)
		}
		r.Content = JoinChunks(r.Chunks)
	default:
		if err := json.Unmarshal(raw.Content, &r.Content); err != nil {
			return fmt.Errorf("decode transcript content: %w", err)
		}
	}

	if r.AvailableLangs == nil {
		r.AvailableLangs = []string{}
	}
	return nil
}

// JoinChunks concatenates the non-empty chunk texts with single spaces.
func JoinChunks(chunks []Chunk) string {
	var sb strings.Builder
	for _, c := range chunks {
		text := strings.TrimSpace(c.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// UpstreamError is a non-2xx reply from the provider. The body is kept so
// it can be relayed to the caller unchanged.
type UpstreamError struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (e *UpstreamError) Error() string {
	body := string(e.Body)
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("transcript API error (status %d): %s", e.StatusCode, body)
}

// Fetcher is implemented by transcript providers
type Fetcher interface {
	// Fetch downloads the transcript for req.URL
	Fetch(ctx context.Context, req Request) (*Result, error)
	// Name returns the provider name
	Name() string
}
