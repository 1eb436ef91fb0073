package db

import (
	"time"
)

// GetCachedTranscript returns the stored payload for key if it was written
// less than maxAge ago.
func (d *Database) GetCachedTranscript(key string, maxAge time.Duration) ([]byte, bool) {
	var data []byte
	var fetchedAt int64
	err := d.db.QueryRow(
		"SELECT data, fetched_at FROM transcript_cache WHERE key = ?", key,
	).Scan(&data, &fetchedAt)
	if err != nil {
		return nil, false
	}
	if time.Since(time.UnixMilli(fetchedAt)) >= maxAge {
		return nil, false
	}
	return data, true
}

// PutCachedTranscript stores or replaces the payload for key.
func (d *Database) PutCachedTranscript(key string, data []byte) error {
	_, err := d.db.Exec(`
		INSERT INTO transcript_cache (key, data, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, fetched_at = excluded.fetched_at`,
		key, data, time.Now().UnixMilli(),
	)
	return err
}

// PruneTranscripts deletes cache rows older than maxAge.
func (d *Database) PruneTranscripts(maxAge time.Duration) (int64, error) {
	res, err := d.db.Exec(
		"DELETE FROM transcript_cache WHERE fetched_at < ?",
		time.Now().Add(-maxAge).UnixMilli(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
