package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/video-stream/captions/internal/api/middleware"
	"github.com/video-stream/captions/internal/db"
)

var startTime = time.Now()

type AdminHandler struct {
	db          *db.Database
	rateLimiter *middleware.RateLimiter
	cacheTTL    time.Duration
}

func NewAdminHandler(db *db.Database, rateLimiter *middleware.RateLimiter, cacheTTL time.Duration) *AdminHandler {
	return &AdminHandler{db: db, rateLimiter: rateLimiter, cacheTTL: cacheTTL}
}

// RateLimits returns the per-IP limiter state
func (h *AdminHandler) RateLimits(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, h.rateLimiter.Status(), http.StatusOK)
}

// ClearRateLimits forgets every tracked IP
func (h *AdminHandler) ClearRateLimits(w http.ResponseWriter, r *http.Request) {
	h.rateLimiter.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// PruneCache deletes transcript cache rows older than the cache TTL
func (h *AdminHandler) PruneCache(w http.ResponseWriter, r *http.Request) {
	n, err := h.db.PruneTranscripts(h.cacheTTL)
	if err != nil {
		jsonError(w, "failed to prune cache", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, map[string]int64{"deleted": n}, http.StatusOK)
}

// Stats returns process stats for the admin dashboard
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var memStat runtime.MemStats
	runtime.ReadMemStats(&memStat)

	jsonResponse(w, map[string]interface{}{
		"go_version":     runtime.Version(),
		"goroutines":     runtime.NumGoroutine(),
		"uptime_seconds": int(time.Since(startTime).Seconds()),
		"mem_alloc":      memStat.Alloc,
		"mem_sys":        memStat.Sys,
	}, http.StatusOK)
}
