package handlers

import (
	"net/http"
	"strings"

	"github.com/video-stream/captions/internal/segment"
	"github.com/video-stream/captions/internal/youtube"
)

type SegmentHandler struct {
	registry *segment.Registry
}

func NewSegmentHandler(registry *segment.Registry) *SegmentHandler {
	if registry == nil {
		registry = segment.Default()
	}
	return &SegmentHandler{registry: registry}
}

type segmentRequest struct {
	Content string `json:"content"`
	Lang    string `json:"lang"`
}

func (h *SegmentHandler) Segment(w http.ResponseWriter, r *http.Request) {
	var req segmentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	jsonResponse(w, map[string][]string{
		"segments": h.registry.Segment(req.Content, req.Lang),
	}, http.StatusOK)
}

// VideoID reports the 11-character video ID found in ?url=.
func VideoID(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("url"))
	if raw == "" {
		jsonError(w, "Missing url parameter", http.StatusBadRequest)
		return
	}
	id, ok := youtube.ExtractVideoID(raw)
	if !ok {
		jsonError(w, "no video ID found in url", http.StatusUnprocessableEntity)
		return
	}
	jsonResponse(w, map[string]string{
		"videoId":  id,
		"watchUrl": youtube.WatchURL(id),
	}, http.StatusOK)
}
