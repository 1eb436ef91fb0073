package youtube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url    string
		want   string
		wantOK bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtu.be/dQw4w9WgXcQ?t=42", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/v/dQw4w9WgXcQ?version=3", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/u/1/dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL123#frag", "dQw4w9WgXcQ", true},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ#t=10", "dQw4w9WgXcQ", true},
		{"https://example.com/not-youtube", "", false},
		{"", "", false},
		{"https://www.youtube.com/watch?v=short", "", false},
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQextra", "", false},
		{"https://youtu.be/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, ok := ExtractVideoID(tt.url)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractVideoIDUsesFirstMarker(t *testing.T) {
	// The first marker captures an 11 character id; the later &v= is ignored.
	got, ok := ExtractVideoID("https://youtu.be/dQw4w9WgXcQ?feature=share&v=xyz")
	assert.True(t, ok)
	assert.Equal(t, "dQw4w9WgXcQ", got)

	// A bad first capture is not rescued by a later marker.
	_, ok = ExtractVideoID("https://www.youtube.com/embed/abc?x=1&v=dQw4w9WgXcQ")
	assert.False(t, ok)
}

func TestURLHelpers(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", WatchURL("dQw4w9WgXcQ"))
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=125s", WatchURLAt("dQw4w9WgXcQ", 125))
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", WatchURLAt("dQw4w9WgXcQ", 0))
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ?start=90", EmbedURL("dQw4w9WgXcQ", 90))
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", EmbedURL("dQw4w9WgXcQ", 0))
}
