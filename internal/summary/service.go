package summary

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/video-stream/captions/internal/timestamp"
	"github.com/video-stream/captions/internal/youtube"
)

// DefaultMaxChars bounds the transcript sent to the model.
const DefaultMaxChars = 100000

// History persists generated summaries
type History interface {
	SaveSummary(s *Summary) error
	ListSummaries(limit int) ([]*Summary, error)
}

// Options configures a Service
type Options struct {
	DefaultEngine  string
	EngineResolver func() string // optional; overrides DefaultEngine when non-empty
	MaxChars       int
	OutputLanguage string
	Parser         timestamp.Parser
	History        History // optional
	Logger         *slog.Logger
}

// Input is one summary request as received from a client
type Input struct {
	Transcript string
	Lang       string
	URL        string // optional; used to attach the video ID
	Engine     string // optional; falls back to the default engine
}

// Service manages summary engines and records results
type Service struct {
	engines map[string]Summarizer
	opts    Options
	logger  *slog.Logger
}

func NewService(opts Options) *Service {
	if opts.MaxChars <= 0 {
		opts.MaxChars = DefaultMaxChars
	}
	if opts.DefaultEngine == "" {
		opts.DefaultEngine = "openai"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engines: make(map[string]Summarizer),
		opts:    opts,
		logger:  logger.With("component", "summary"),
	}
}

// RegisterEngine adds or replaces an engine under its Name
func (s *Service) RegisterEngine(engine Summarizer) {
	s.engines[engine.Name()] = engine
	s.logger.Info("registered engine", "engine", engine.Name())
}

// EngineNames lists the registered engines in sorted order
func (s *Service) EngineNames() []string {
	names := make([]string, 0, len(s.engines))
	for name := range s.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parser returns the timestamp parser used for markers
func (s *Service) Parser() timestamp.Parser {
	return s.opts.Parser
}

// Summarize runs the selected engine over the (truncated) transcript,
// extracts timestamp markers and stores the result in the history.
func (s *Service) Summarize(ctx context.Context, in Input) (*Summary, error) {
	name := in.Engine
	if name == "" && s.opts.EngineResolver != nil {
		name = s.opts.EngineResolver()
	}
	if name == "" {
		name = s.opts.DefaultEngine
	}
	engine, ok := s.engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownEngine, name, s.EngineNames())
	}

	text, truncated := Truncate(in.Transcript, s.opts.MaxChars)
	if truncated {
		s.logger.Info("transcript truncated", "max_chars", s.opts.MaxChars)
	}

	start := time.Now()
	out, err := engine.Summarize(ctx, Request{
		Transcript:     text,
		Lang:           in.Lang,
		OutputLanguage: s.opts.OutputLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	sum := &Summary{
		ID:         uuid.New().String(),
		Engine:     name,
		Lang:       in.Lang,
		Text:       out,
		Timestamps: Timestamps(out, s.opts.Parser),
		Truncated:  truncated,
		CreatedAt:  time.Now(),
	}
	if id, ok := youtube.ExtractVideoID(in.URL); ok {
		sum.VideoID = id
	}

	s.logger.Info("summary complete", "engine", name, "id", sum.ID,
		"timestamps", len(sum.Timestamps), "elapsed", time.Since(start).Round(time.Millisecond))

	if s.opts.History != nil {
		if err := s.opts.History.SaveSummary(sum); err != nil {
			s.logger.Warn("failed to save summary", "id", sum.ID, "error", err)
		}
	}
	return sum, nil
}

// Recent returns up to limit stored summaries, newest first
func (s *Service) Recent(limit int) ([]*Summary, error) {
	if s.opts.History == nil {
		return []*Summary{}, nil
	}
	return s.opts.History.ListSummaries(limit)
}

// Timestamps returns the markers in summary; never nil
func Timestamps(summary string, p timestamp.Parser) []timestamp.Marker {
	markers := timestamp.Markers(summary, p)
	if markers == nil {
		return []timestamp.Marker{}
	}
	return markers
}

// Truncate cuts s to at most max characters
func Truncate(s string, max int) (string, bool) {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s, false
	}
	var sb strings.Builder
	n := 0
	for _, r := range s {
		if n == max {
			break
		}
		sb.WriteRune(r)
		n++
	}
	return sb.String(), true
}
