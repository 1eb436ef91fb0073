package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/video-stream/captions/internal/summary"
	"github.com/video-stream/captions/internal/timestamp"
)

const maxSummaryList = 200

func (d *Database) SaveSummary(s *summary.Summary) error {
	stamps, err := json.Marshal(s.Timestamps)
	if err != nil {
		return fmt.Errorf("encode timestamps: %w", err)
	}
	truncated := 0
	if s.Truncated {
		truncated = 1
	}
	_, err = d.db.Exec(`
		INSERT INTO summaries (id, engine, video_id, lang, summary, timestamps, truncated, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Engine, s.VideoID, s.Lang, s.Text, string(stamps), truncated, s.CreatedAt.UnixMilli(),
	)
	return err
}

// ListSummaries returns up to limit summaries, newest first.
func (d *Database) ListSummaries(limit int) ([]*summary.Summary, error) {
	if limit <= 0 || limit > maxSummaryList {
		limit = maxSummaryList
	}
	rows, err := d.db.Query(`
		SELECT id, engine, video_id, lang, summary, timestamps, truncated, created_at
		FROM summaries ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*summary.Summary{}
	for rows.Next() {
		var (
			s         summary.Summary
			stamps    string
			truncated int
			created   int64
		)
		if err := rows.Scan(&s.ID, &s.Engine, &s.VideoID, &s.Lang, &s.Text, &stamps, &truncated, &created); err != nil {
			return nil, err
		}
		s.Timestamps = []timestamp.Marker{}
		if err := json.Unmarshal([]byte(stamps), &s.Timestamps); err != nil {
			return nil, fmt.Errorf("decode timestamps for %s: %w", s.ID, err)
		}
		s.Truncated = truncated != 0
		s.CreatedAt = time.UnixMilli(created)
		out = append(out, &s)
	}
	return out, rows.Err()
}
