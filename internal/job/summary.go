package job

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/video-stream/captions/internal/summary"
	"github.com/video-stream/captions/internal/transcript"
)

// TranscriptFetcher is satisfied by *transcript.Service.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, req transcript.Request) (*transcript.Result, error)
}

// Summarizer is satisfied by *summary.Service.
type Summarizer interface {
	Summarize(ctx context.Context, in summary.Input) (*summary.Summary, error)
}

// SummaryHandler fetches captions when needed and summarizes them. The
// result is the stored summary.
func SummaryHandler(fetcher TranscriptFetcher, summarizer Summarizer) JobHandler {
	return func(ctx context.Context, job *Job, updateProgress func(float64)) (json.RawMessage, error) {
		var p SummaryParams
		if err := json.Unmarshal(job.Params, &p); err != nil {
			return nil, fmt.Errorf("decode params: %w", err)
		}

		text, lang := p.Transcript, p.Lang
		if text == "" {
			if p.URL == "" {
				return nil, errors.New("summary job needs a url or a transcript")
			}
			res, err := fetcher.Fetch(ctx, transcript.Request{URL: p.URL, Lang: p.Lang, TextOnly: true})
			if err != nil {
				return nil, fmt.Errorf("fetch transcript: %w", err)
			}
			if res.Content == "" {
				return nil, errors.New("transcript is empty")
			}
			text, lang = res.Content, res.Lang
			updateProgress(0.3)
		}

		sum, err := summarizer.Summarize(ctx, summary.Input{
			Transcript: text,
			Lang:       lang,
			URL:        p.URL,
			Engine:     p.Engine,
		})
		if err != nil {
			return nil, err
		}
		return json.Marshal(sum)
	}
}
