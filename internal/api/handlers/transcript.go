package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/video-stream/captions/internal/transcript"
)

// TranscriptFetcher is satisfied by *transcript.Service.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, req transcript.Request) (*transcript.Result, error)
}

type TranscriptHandler struct {
	fetcher TranscriptFetcher
	logger  *slog.Logger
}

func NewTranscriptHandler(fetcher TranscriptFetcher, logger *slog.Logger) *TranscriptHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranscriptHandler{fetcher: fetcher, logger: logger}
}

// parseTranscriptQuery reads url, lang (default en) and text (default true).
func parseTranscriptQuery(r *http.Request) (transcript.Request, string) {
	q := r.URL.Query()
	req := transcript.Request{
		URL:      strings.TrimSpace(q.Get("url")),
		Lang:     q.Get("lang"),
		TextOnly: true,
	}
	if req.URL == "" {
		return req, "Missing url parameter"
	}
	if req.Lang == "" {
		req.Lang = "en"
	}
	if v := q.Get("text"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, "Invalid text parameter"
		}
		req.TextOnly = b
	}
	return req, ""
}

// GetTranscript proxies the transcript provider. Provider errors are
// relayed with their original status, body and content type.
func (h *TranscriptHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	req, msg := parseTranscriptQuery(r)
	if msg != "" {
		jsonError(w, msg, http.StatusBadRequest)
		return
	}

	result, ok := h.fetch(w, r, req)
	if !ok {
		return
	}
	jsonResponse(w, result, http.StatusOK)
}

// Download returns the transcript as an attachment: transcript.txt by
// default, or timed subtitles with ?format=vtt or ?format=srt.
func (h *TranscriptHandler) Download(w http.ResponseWriter, r *http.Request) {
	req, msg := parseTranscriptQuery(r)
	if msg != "" {
		jsonError(w, msg, http.StatusBadRequest)
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	switch format {
	case "", "txt":
		format = "txt"
		req.TextOnly = true
	case "vtt", "srt":
		req.TextOnly = false
	default:
		jsonError(w, "format must be txt, vtt or srt", http.StatusBadRequest)
		return
	}

	result, ok := h.fetch(w, r, req)
	if !ok {
		return
	}

	var body, contentType string
	switch format {
	case "vtt":
		body, contentType = transcript.ToVTT(result.Chunks), "text/vtt; charset=utf-8"
	case "srt":
		body, contentType = transcript.ToSRT(result.Chunks), "application/x-subrip; charset=utf-8"
	default:
		body, contentType = result.Content, "text/plain; charset=utf-8"
	}
	if result.Content == "" && len(result.Chunks) == 0 {
		jsonError(w, "transcript is empty", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="transcript.`+format+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(body))
}

func (h *TranscriptHandler) fetch(w http.ResponseWriter, r *http.Request, req transcript.Request) (*transcript.Result, bool) {
	result, err := h.fetcher.Fetch(r.Context(), req)
	if err == nil {
		return result, true
	}

	var upstream *transcript.UpstreamError
	switch {
	case errors.Is(err, transcript.ErrMissingCredential):
		jsonError(w, "SUPADATA_API_KEY is not configured", http.StatusInternalServerError)
	case errors.As(err, &upstream):
		h.logger.Warn("transcript upstream error", "status", upstream.StatusCode, "url", req.URL)
		ct := upstream.ContentType
		if ct == "" {
			ct = "application/json"
		}
		w.Header().Set("Content-Type", ct)
		w.WriteHeader(upstream.StatusCode)
		w.Write(upstream.Body)
	default:
		h.logger.Error("transcript fetch failed", "url", req.URL, "error", err)
		jsonError(w, "Failed to fetch transcript", http.StatusInternalServerError)
	}
	return nil, false
}
