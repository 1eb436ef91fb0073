package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/video-stream/captions/internal/summary"
	"github.com/video-stream/captions/internal/youtube"
)

type SummaryHandler struct {
	service *summary.Service
	logger  *slog.Logger
}

func NewSummaryHandler(service *summary.Service, logger *slog.Logger) *SummaryHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryHandler{service: service, logger: logger}
}

type summaryRequest struct {
	Transcript string `json:"transcript"`
	Lang       string `json:"lang"`
	Engine     string `json:"engine,omitempty"`
	URL        string `json:"url,omitempty"`
}

// Summarize generates a timestamped summary for a transcript.
func (h *SummaryHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req summaryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Transcript) == "" {
		jsonError(w, "Missing transcript", http.StatusBadRequest)
		return
	}

	sum, err := h.service.Summarize(r.Context(), summary.Input{
		Transcript: req.Transcript,
		Lang:       req.Lang,
		URL:        req.URL,
		Engine:     req.Engine,
	})
	if err != nil {
		switch {
		case errors.Is(err, summary.ErrUnknownEngine):
			jsonError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, summary.ErrMissingCredential):
			jsonError(w, "summary API key is not configured", http.StatusInternalServerError)
		default:
			h.logger.Error("summary failed", "engine", req.Engine, "error", err)
			jsonError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	jsonResponse(w, sum, http.StatusOK)
}

type renderRequest struct {
	Summary string `json:"summary"`
	URL     string `json:"url,omitempty"`
}

// Render converts a markdown summary to HTML with clickable timestamps.
func (h *SummaryHandler) Render(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Summary) == "" {
		jsonError(w, "Missing summary", http.StatusBadRequest)
		return
	}

	videoID, _ := youtube.ExtractVideoID(req.URL)
	p := h.service.Parser()
	html, err := summary.RenderHTML(req.Summary, videoID, p)
	if err != nil {
		jsonError(w, "failed to render summary", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]interface{}{
		"html":       html,
		"timestamps": summary.Timestamps(req.Summary, p),
	}, http.StatusOK)
}

// List returns recent summaries, newest first. ?limit= defaults to 20.
func (h *SummaryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			jsonError(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	list, err := h.service.Recent(limit)
	if err != nil {
		jsonError(w, "failed to load summaries", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, list, http.StatusOK)
}

// Engines lists the registered summary engines.
func (h *SummaryHandler) Engines(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string][]string{"engines": h.service.EngineNames()}, http.StatusOK)
}
