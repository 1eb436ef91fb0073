package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/video-stream/captions/internal/job"
)

type JobHandler struct {
	queue *job.JobQueue
}

func NewJobHandler(queue *job.JobQueue) *JobHandler {
	return &JobHandler{queue: queue}
}

// CreateSummaryJob queues a summary for a video URL or a pasted transcript.
func (h *JobHandler) CreateSummaryJob(w http.ResponseWriter, r *http.Request) {
	var req job.SummaryParams
	if !decodeJSON(w, r, &req) {
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" && strings.TrimSpace(req.Transcript) == "" {
		jsonError(w, "url or transcript is required", http.StatusBadRequest)
		return
	}

	j, err := h.queue.Enqueue(job.JobSummary, req)
	if err != nil {
		jsonError(w, "failed to queue job", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Location", "/api/jobs/"+j.ID)
	jsonResponse(w, j, http.StatusAccepted)
}

func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	jobs, err := h.queue.ListJobs(limit)
	if err != nil {
		jsonError(w, "failed to list jobs", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, jobs, http.StatusOK)
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	j, err := h.queue.GetJob(chi.URLParam(r, "id"))
	if errors.Is(err, job.ErrNotFound) {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load job", http.StatusInternalServerError)
		return
	}
	jsonResponse(w, j, http.StatusOK)
}

func (h *JobHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	err := h.queue.CancelJob(chi.URLParam(r, "id"))
	if errors.Is(err, job.ErrNotFound) {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to cancel job", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
