package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSegmentCommand(t *testing.T) {
	out, err := run(t, "", "segment", "--lang", "zh", "第一句。第二句！")
	require.NoError(t, err)
	assert.Equal(t, "第一句。\n第二句！\n", out)

	out, err = run(t, "Hello there. How are you?", "segment")
	require.NoError(t, err)
	assert.Equal(t, "Hello there.\nHow are you?\n", out)
}

func TestVideoIDCommand(t *testing.T) {
	out, err := run(t, "", "videoid", "https://youtu.be/dQw4w9WgXcQ", "https://www.youtube.com/embed/abcdefghijk")
	require.NoError(t, err)
	assert.Equal(t, "dQw4w9WgXcQ\nabcdefghijk\n", out)

	out, err = run(t, "", "videoid", "-w", "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ\n", out)

	_, err = run(t, "", "videoid", "https://example.com")
	assert.ErrorContains(t, err, "no video ID")
}

func TestTimestampCommand(t *testing.T) {
	out, err := run(t, "", "timestamp", "01:02:03", "02:05", "abc")
	require.NoError(t, err)
	assert.Equal(t, "01:02:03\t3723\n02:05\t125\nabc\t0\n", out)

	_, err = run(t, "", "timestamp", "--strict", "abc")
	assert.Error(t, err)
}

// upstream serves both the transcript and the chat completion endpoints.
func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/transcript", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sd-key", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"content":"First point. Second point.","lang":"en","availableLangs":["en"]}`))
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer oa-key", r.Header.Get("Authorization"))
		w.Write([]byte(`{"choices":[{"message":{"content":"[[00:42]] **point**"}}]}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setUpstreamEnv(t *testing.T, url string) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("SUPADATA_BASE_URL", url)
	t.Setenv("SUPADATA_API_KEY", "sd-key")
	t.Setenv("OPENAI_BASE_URL", url)
	t.Setenv("OPENAI_API_KEY", "oa-key")
	t.Setenv("UPSTREAM_RATE_PER_SECOND", "0")
	t.Setenv("LOG_LEVEL", "error")
}

func TestTranscriptCommand(t *testing.T) {
	srv := upstream(t)
	setUpstreamEnv(t, srv.URL)

	out, err := run(t, "", "transcript", "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "First point. Second point.\n", out)

	out, err = run(t, "", "transcript", "-s", "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "First point.\nSecond point.\n", out)
}

func TestSummarizeCommand(t *testing.T) {
	srv := upstream(t)
	setUpstreamEnv(t, srv.URL)

	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	out, err := run(t, "", "summarize", "--copy", "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ\n[[00:42]] **point**\n", out)
	assert.Equal(t, "[[00:42]] **point**", copied)

	out, err = run(t, "", "summarize", "--html", "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Contains(t, out, `data-seconds="42"`)
	assert.Contains(t, out, "t=42s")
}

func TestSummarizeMissingKey(t *testing.T) {
	srv := upstream(t)
	setUpstreamEnv(t, srv.URL)
	t.Setenv("SUPADATA_API_KEY", "")

	_, err := run(t, "", "summarize", "https://youtu.be/dQw4w9WgXcQ")
	assert.ErrorContains(t, err, "not configured")
}

func TestTranscriptCommandFormats(t *testing.T) {
	srv := upstream(t)
	setUpstreamEnv(t, srv.URL)

	out, err := run(t, "", "transcript", "-f", "vtt", "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "WEBVTT\n\n", out)

	_, err = run(t, "", "transcript", "-f", "ass", "https://youtu.be/dQw4w9WgXcQ")
	assert.ErrorContains(t, err, "unknown format")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
