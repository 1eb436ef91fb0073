package job

import (
	"context"
	"encoding/json"
	"time"
)

// JobType represents the kind of job
type JobType string

const (
	JobSummary JobType = "summary"
)

// JobStatus represents the current state of a job
type JobStatus string

const (
	StatusPending   JobStatus = "pending"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusCancelled JobStatus = "cancelled"
)

// Job is a queued background task
type Job struct {
	ID          string          `json:"id"`
	Type        JobType         `json:"type"`
	Status      JobStatus       `json:"status"`
	Params      json.RawMessage `json:"params"`
	Progress    float64         `json:"progress"`
	Result      json.RawMessage `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// Done reports whether the job reached a final state
func (j *Job) Done() bool {
	switch j.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// SummaryParams are parameters for a summary job. When Transcript is
// empty the job fetches the captions for URL first.
type SummaryParams struct {
	URL        string `json:"url"`
	Lang       string `json:"lang"`
	Engine     string `json:"engine,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

// JobHandler processes a job and returns its JSON result.
type JobHandler func(ctx context.Context, job *Job, updateProgress func(float64)) (json.RawMessage, error)
