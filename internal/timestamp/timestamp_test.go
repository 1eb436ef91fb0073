package timestamp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"01:02:03", 3723},
		{"02:05", 125},
		{"0:07", 7},
		{"99:99", 6039},
		{"", 0},
		{"5", 0},
		{"1:2:3:4", 0},
		{"aa:10", 10},
		{" 01 : 30 ", 90},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseToSeconds(tt.in))
		})
	}
}

func TestParseToSecondsStrict(t *testing.T) {
	secs, err := ParseToSecondsStrict("01:02:03")
	require.NoError(t, err)
	assert.Equal(t, 3723, secs)

	secs, err = ParseToSecondsStrict("02:05")
	require.NoError(t, err)
	assert.Equal(t, 125, secs)

	for _, bad := range []string{"", "5", "1:2:3:4", "aa:10", "-1:00"} {
		_, err := ParseToSecondsStrict(bad)
		assert.ErrorIs(t, err, ErrInvalidTimestamp, "input %q", bad)
	}
}

func TestParser(t *testing.T) {
	secs, err := Parser{}.Parse("7")
	require.NoError(t, err)
	assert.Equal(t, 0, secs)

	_, err = Parser{Strict: true}.Parse("7")
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "00:00", Format(0))
	assert.Equal(t, "02:05", Format(125))
	assert.Equal(t, "01:02:03", Format(3723))
	assert.Equal(t, "00:00", Format(-4))
	assert.Equal(t, 3723, ParseToSeconds(Format(3723)))
}

func TestMarkers(t *testing.T) {
	text := "## Intro\n[[00:15]] opening remarks, [[1:02:03]] deep dive, [[5:07]] and [[123:45]] is not a marker."
	got := Markers(text, Parser{})

	require.Len(t, got, 3)
	assert.Equal(t, "00:15", got[0].Label)
	assert.Equal(t, 15, got[0].Seconds)
	assert.Equal(t, "1:02:03", got[1].Label)
	assert.Equal(t, 3723, got[1].Seconds)
	assert.Equal(t, "5:07", got[2].Label)
	assert.Equal(t, 307, got[2].Seconds)
	assert.Equal(t, "[[00:15]]", text[got[0].Start:got[0].End])
}

func TestSplitReassembles(t *testing.T) {
	text := "[[00:01]] start. Middle [[02:00]]end"
	pieces := Split(text, Parser{})

	var sb strings.Builder
	markers := 0
	for _, p := range pieces {
		sb.WriteString(p.Raw)
		if p.Marker {
			markers++
		}
	}
	assert.Equal(t, text, sb.String())
	assert.Equal(t, 2, markers)
	assert.True(t, pieces[0].Marker)
	assert.Equal(t, 1, pieces[0].Seconds)
	assert.Equal(t, " start. Middle ", pieces[1].Raw)
	assert.Equal(t, 120, pieces[2].Seconds)
}

func TestSplitWithoutMarkers(t *testing.T) {
	assert.Equal(t, []Piece{{Raw: "plain"}}, Split("plain", Parser{}))
	assert.Empty(t, Split("", Parser{}))
}

func TestLeadingMarker(t *testing.T) {
	m, ok := LeadingMarker([]byte("[[05:23]] rest"), Parser{})
	require.True(t, ok)
	assert.Equal(t, "05:23", m.Label)
	assert.Equal(t, 323, m.Seconds)
	assert.Equal(t, len("[[05:23]]"), m.End)

	_, ok = LeadingMarker([]byte("text [[05:23]]"), Parser{})
	assert.False(t, ok)
	_, ok = LeadingMarker([]byte("[05:23]"), Parser{})
	assert.False(t, ok)
}
