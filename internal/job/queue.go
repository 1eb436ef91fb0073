package job

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned for an unknown job ID.
var ErrNotFound = errors.New("job not found")

// defaultPollInterval is how often idle workers look for pending jobs
// that never made it onto the channel.
const defaultPollInterval = 5 * time.Second

const jobColumns = `id, type, status, params, progress, result, error, created_at, started_at, completed_at`

// JobQueue manages job persistence and dispatching
type JobQueue struct {
	db       *sql.DB
	mu       sync.RWMutex
	pending  chan string // job IDs to process
	cancels  map[string]context.CancelFunc
	handlers map[JobType]JobHandler
	poll     time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	logger   *slog.Logger
}

// NewJobQueue creates a queue backed by the jobs table. Call Start to
// begin processing.
func NewJobQueue(db *sql.DB, logger *slog.Logger) *JobQueue {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &JobQueue{
		db:       db,
		pending:  make(chan string, 100),
		cancels:  make(map[string]context.CancelFunc),
		handlers: make(map[JobType]JobHandler),
		poll:     defaultPollInterval,
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger.With("component", "job"),
	}
}

// Start resumes unfinished jobs and launches the workers.
func (q *JobQueue) Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	q.resumeJobs()
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
}

// RegisterHandler registers a handler for a job type
func (q *JobQueue) RegisterHandler(jobType JobType, handler JobHandler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[jobType] = handler
}

// Enqueue creates a new job and adds it to the queue
func (q *JobQueue) Enqueue(jobType JobType, params interface{}) (*Job, error) {
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}

	job := &Job{
		ID:        uuid.New().String(),
		Type:      jobType,
		Status:    StatusPending,
		Params:    paramsJSON,
		CreatedAt: time.Now(),
	}

	_, err = q.db.Exec(`
		INSERT INTO jobs (id, type, status, params, progress, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		job.ID, job.Type, job.Status, string(job.Params), job.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	// A full channel is fine: idle workers pick pending jobs up from the table.
	select {
	case q.pending <- job.ID:
	default:
		q.logger.Debug("queue channel full, job left to table polling", "id", job.ID)
	}

	return job, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*Job, error) {
	job := &Job{}
	var params string
	var result, errMsg sql.NullString
	var created int64
	var started, completed sql.NullInt64

	if err := row.Scan(&job.ID, &job.Type, &job.Status, &params, &job.Progress,
		&result, &errMsg, &created, &started, &completed); err != nil {
		return nil, err
	}

	job.Params = json.RawMessage(params)
	job.CreatedAt = time.UnixMilli(created)
	if result.Valid {
		job.Result = json.RawMessage(result.String)
	}
	if errMsg.Valid {
		job.Error = errMsg.String
	}
	if started.Valid {
		t := time.UnixMilli(started.Int64)
		job.StartedAt = &t
	}
	if completed.Valid {
		t := time.UnixMilli(completed.Int64)
		job.CompletedAt = &t
	}
	return job, nil
}

// GetJob retrieves a job by ID
func (q *JobQueue) GetJob(id string) (*Job, error) {
	job, err := scanJob(q.db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return job, err
}

// ListJobs returns up to limit jobs ordered by creation time (newest first)
func (q *JobQueue) ListJobs(limit int) ([]*Job, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := q.db.Query(`SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []*Job{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

// CancelJob cancels a pending or running job. Finished jobs are left alone.
func (q *JobQueue) CancelJob(id string) error {
	res, err := q.db.Exec(`
		UPDATE jobs SET status = ?, completed_at = ?
		WHERE id = ? AND status IN (?, ?)`,
		StatusCancelled, time.Now().UnixMilli(), id, StatusPending, StatusRunning,
	)
	if err != nil {
		return err
	}

	q.mu.Lock()
	if cancelFn, ok := q.cancels[id]; ok {
		cancelFn()
		delete(q.cancels, id)
	}
	q.mu.Unlock()

	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := q.GetJob(id); err != nil {
			return err
		}
	}
	return nil
}

// UpdateProgress updates the progress of a running job
func (q *JobQueue) UpdateProgress(id string, progress float64) {
	if _, err := q.db.Exec("UPDATE jobs SET progress = ? WHERE id = ? AND status = ?", progress, id, StatusRunning); err != nil {
		q.logger.Warn("progress update failed", "id", id, "error", err)
	}
}

// Stop cancels running jobs and waits for the workers to exit
func (q *JobQueue) Stop() {
	q.cancel()
	q.wg.Wait()
}

func (q *JobQueue) worker() {
	defer q.wg.Done()
	ticker := time.NewTicker(q.poll)
	defer ticker.Stop()

	q.drainPending()
	for {
		select {
		case <-q.ctx.Done():
			return
		case jobID := <-q.pending:
			q.processJob(jobID)
		case <-ticker.C:
		}
		q.drainPending()
	}
}

// drainPending runs pending jobs straight from the table until none are
// left. Two workers may pick the same ID; the claim in processJob lets
// only one of them run it.
func (q *JobQueue) drainPending() {
	last := ""
	for q.ctx.Err() == nil {
		id, err := q.nextPending()
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				q.logger.Error("failed to poll pending jobs", "error", err)
			}
			return
		}
		// Still pending after a run means the claim failed; retry on the next tick.
		if id == last {
			return
		}
		last = id
		q.processJob(id)
	}
}

func (q *JobQueue) nextPending() (string, error) {
	var id string
	err := q.db.QueryRow(`SELECT id FROM jobs WHERE status = ? ORDER BY created_at ASC, rowid ASC LIMIT 1`,
		StatusPending).Scan(&id)
	return id, err
}

// processJob runs a single job
func (q *JobQueue) processJob(jobID string) {
	job, err := q.GetJob(jobID)
	if err != nil {
		q.logger.Error("failed to load job", "id", jobID, "error", err)
		return
	}
	if job.Status != StatusPending {
		return
	}

	q.mu.RLock()
	handler, ok := q.handlers[job.Type]
	q.mu.RUnlock()
	if !ok {
		q.failJob(job, fmt.Sprintf("no handler for job type: %s", job.Type))
		return
	}

	// Claim the job; a concurrent cancel wins
	now := time.Now()
	res, err := q.db.Exec("UPDATE jobs SET status = ?, started_at = ? WHERE id = ? AND status = ?",
		StatusRunning, now.UnixMilli(), job.ID, StatusPending)
	if err != nil {
		q.logger.Error("failed to start job", "id", job.ID, "error", err)
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return
	}
	job.Status = StatusRunning
	job.StartedAt = &now

	ctx, cancelFn := context.WithCancel(q.ctx)
	q.mu.Lock()
	q.cancels[job.ID] = cancelFn
	q.mu.Unlock()
	defer func() {
		q.mu.Lock()
		delete(q.cancels, job.ID)
		q.mu.Unlock()
		cancelFn()
	}()

	start := time.Now()
	result, err := handler(ctx, job, func(p float64) { q.UpdateProgress(job.ID, p) })

	switch {
	case ctx.Err() != nil:
		q.logger.Info("job cancelled", "id", job.ID)
	case err != nil:
		q.failJob(job, err.Error())
	default:
		q.completeJob(job, result, time.Since(start))
	}
}

func (q *JobQueue) completeJob(job *Job, result json.RawMessage, elapsed time.Duration) {
	_, err := q.db.Exec("UPDATE jobs SET status = ?, progress = 1.0, result = ?, completed_at = ? WHERE id = ? AND status = ?",
		StatusCompleted, string(result), time.Now().UnixMilli(), job.ID, StatusRunning)
	if err != nil {
		q.logger.Error("failed to complete job", "id", job.ID, "error", err)
		return
	}
	q.logger.Info("job completed", "id", job.ID, "type", job.Type, "elapsed", elapsed.Round(time.Millisecond))
}

func (q *JobQueue) failJob(job *Job, errMsg string) {
	_, err := q.db.Exec("UPDATE jobs SET status = ?, error = ?, completed_at = ? WHERE id = ? AND status IN (?, ?)",
		StatusFailed, errMsg, time.Now().UnixMilli(), job.ID, StatusPending, StatusRunning)
	if err != nil {
		q.logger.Error("failed to record job failure", "id", job.ID, "error", err)
		return
	}
	q.logger.Warn("job failed", "id", job.ID, "error", errMsg)
}

// resumeJobs puts jobs interrupted by a restart back to pending. The
// workers drain every pending job from the table when they start.
func (q *JobQueue) resumeJobs() {
	res, err := q.db.Exec("UPDATE jobs SET status = ?, started_at = NULL WHERE status = ?", StatusPending, StatusRunning)
	if err != nil {
		q.logger.Error("failed to reset running jobs", "error", err)
	} else if n, _ := res.RowsAffected(); n > 0 {
		q.logger.Info("reset interrupted jobs", "count", n)
	}

	var count int
	if err := q.db.QueryRow("SELECT COUNT(*) FROM jobs WHERE status = ?", StatusPending).Scan(&count); err != nil {
		q.logger.Error("failed to count pending jobs", "error", err)
		return
	}
	if count > 0 {
		q.logger.Info("resuming pending jobs", "count", count)
	}
}
