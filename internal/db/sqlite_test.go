package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/video-stream/captions/internal/auth"
	"github.com/video-stream/captions/internal/summary"
	"github.com/video-stream/captions/internal/timestamp"
	"github.com/video-stream/captions/internal/transcript"
)

// compile-time checks that Database satisfies the consumer interfaces
var (
	_ transcript.Cache = (*Database)(nil)
	_ summary.History  = (*Database)(nil)
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	d, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestEnsureAdminOnce(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.EnsureAdmin("admin", "pw1"))
	require.NoError(t, d.EnsureAdmin("other", "pw2"))

	u, err := d.GetUserByUsername("admin")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
	assert.True(t, auth.CheckPassword("pw1", u.Password))

	_, err = d.GetUserByUsername("other")
	assert.Error(t, err)

	byID, err := d.GetUserByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", byID.Username)
}

func TestSettings(t *testing.T) {
	d := openTestDB(t)

	assert.Equal(t, "fallback", d.GetSetting("openai_model", "fallback"))
	require.NoError(t, d.SetSetting("openai_model", "gpt-4o-mini"))
	require.NoError(t, d.SetSetting("openai_model", "gpt-4.1"))
	assert.Equal(t, "gpt-4.1", d.GetSetting("openai_model", ""))

	all, err := d.GetAllSettings()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"openai_model": "gpt-4.1"}, all)
}

func TestTranscriptCache(t *testing.T) {
	d := openTestDB(t)

	_, ok := d.GetCachedTranscript("yt:abc", time.Hour)
	assert.False(t, ok)

	require.NoError(t, d.PutCachedTranscript("yt:abc", []byte(`{"content":"hi"}`)))
	data, ok := d.GetCachedTranscript("yt:abc", time.Hour)
	require.True(t, ok)
	assert.JSONEq(t, `{"content":"hi"}`, string(data))

	_, ok = d.GetCachedTranscript("yt:abc", 0)
	assert.False(t, ok, "zero max age never hits")

	require.NoError(t, d.PutCachedTranscript("yt:abc", []byte(`{"content":"new"}`)))
	data, _ = d.GetCachedTranscript("yt:abc", time.Hour)
	assert.JSONEq(t, `{"content":"new"}`, string(data))

	n, err := d.PruneTranscripts(-time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSummaryHistory(t *testing.T) {
	d := openTestDB(t)

	older := &summary.Summary{
		ID: "a", Engine: "openai", Lang: "en", Text: "first",
		Timestamps: []timestamp.Marker{},
		CreatedAt:  time.Now().Add(-time.Hour),
	}
	newer := &summary.Summary{
		ID: "b", Engine: "gemini", VideoID: "dQw4w9WgXcQ", Lang: "zh", Text: "[[00:05]] second",
		Timestamps: []timestamp.Marker{{Label: "00:05", Seconds: 5}},
		Truncated:  true,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, d.SaveSummary(older))
	require.NoError(t, d.SaveSummary(newer))

	list, err := d.ListSummaries(10)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "dQw4w9WgXcQ", list[0].VideoID)
	assert.True(t, list[0].Truncated)
	assert.Equal(t, []timestamp.Marker{{Label: "00:05", Seconds: 5}}, list[0].Timestamps)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, []timestamp.Marker{}, list[1].Timestamps)

	list, err = d.ListSummaries(1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestServiceUsesDatabaseCache(t *testing.T) {
	d := openTestDB(t)
	calls := 0
	fetcher := fetcherFunc(func(req transcript.Request) (*transcript.Result, error) {
		calls++
		return &transcript.Result{Content: "cached text", Lang: "en", AvailableLangs: []string{"en"}}, nil
	})
	svc := transcript.NewService(fetcher, d, time.Hour, nil)

	for i := 0; i < 2; i++ {
		res, err := svc.Fetch(context.Background(), transcript.Request{URL: "https://youtu.be/dQw4w9WgXcQ", TextOnly: true})
		require.NoError(t, err)
		assert.Equal(t, "cached text", res.Content)
	}
	assert.Equal(t, 1, calls)
}

type fetcherFunc func(req transcript.Request) (*transcript.Result, error)

func (f fetcherFunc) Fetch(_ context.Context, req transcript.Request) (*transcript.Result, error) {
	return f(req)
}

func (fetcherFunc) Name() string { return "test" }
