package summary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/video-stream/captions/internal/timestamp"
)

// ErrMissingCredential means the selected engine has no API key.
var ErrMissingCredential = errors.New("summary API key not configured")

// ErrUnknownEngine is returned for an engine name that is not registered.
var ErrUnknownEngine = errors.New("unknown summary engine")

// Request is the input for a summary
type Request struct {
	Transcript     string // caption text, already truncated by the service
	Lang           string // transcript language code
	OutputLanguage string // language the summary is written in, e.g. "Chinese"
}

// Summarizer is the common interface for all language-model engines
type Summarizer interface {
	// Summarize returns a markdown summary with [[MM:SS]] markers
	Summarize(ctx context.Context, req Request) (string, error)
	// Name returns the engine name
	Name() string
}

// APIError is a non-200 reply from a language-model provider
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// Summary is a generated summary as stored and returned to clients
type Summary struct {
	ID         string             `json:"id"`
	Engine     string             `json:"engine"`
	VideoID    string             `json:"video_id,omitempty"`
	Lang       string             `json:"lang"`
	Text       string             `json:"summary"`
	Timestamps []timestamp.Marker `json:"timestamps"`
	Truncated  bool               `json:"truncated"`
	CreatedAt  time.Time          `json:"created_at"`
}
