package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var sampleChunks = []Chunk{
	{Text: "Hello there.", Offset: 0, Duration: 1500},
	{Text: "  ", Offset: 1500, Duration: 100},
	{Text: "General Kenobi!", Offset: 3_661_250, Duration: 2000},
}

func TestToVTT(t *testing.T) {
	want := "WEBVTT\n\n" +
		"1\n00:00:00.000 --> 00:00:01.500\nHello there.\n\n" +
		"2\n01:01:01.250 --> 01:01:03.250\nGeneral Kenobi!\n\n"
	assert.Equal(t, want, ToVTT(sampleChunks))
}

func TestToSRT(t *testing.T) {
	want := "1\n00:00:00,000 --> 00:00:01,500\nHello there.\n\n" +
		"2\n01:01:01,250 --> 01:01:03,250\nGeneral Kenobi!\n\n"
	assert.Equal(t, want, ToSRT(sampleChunks))
}

func TestToVTTEmpty(t *testing.T) {
	assert.Equal(t, "WEBVTT\n\n", ToVTT(nil))
	assert.Equal(t, "", ToSRT(nil))
}
