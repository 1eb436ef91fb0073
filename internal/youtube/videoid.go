package youtube

import (
	"fmt"
	"net/url"
	"regexp"
	"unicode/utf8"
)

// VideoIDLength is the length of every YouTube video identifier.
const VideoIDLength = 11

// videoIDRe matches the first URL marker that precedes a video ID and
// captures everything up to the next '#', '&' or '?'.
var videoIDRe = regexp.MustCompile(`(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*)`)

// ExtractVideoID pulls the video identifier out of a YouTube URL such as
// youtu.be/<id>, /v/<id>, /u/<x>/<id>, /embed/<id>, ?v=<id> or &v=<id>.
// It reports false when no marker is present or the captured run is not
// exactly 11 characters long.
func ExtractVideoID(rawURL string) (string, bool) {
	m := videoIDRe.FindStringSubmatch(rawURL)
	if m == nil {
		return "", false
	}
	id := m[2]
	if utf8.RuneCountInString(id) != VideoIDLength {
		return "", false
	}
	return id, true
}

// WatchURL returns the canonical watch page for a video.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}

// WatchURLAt returns the watch page positioned at the given second.
func WatchURLAt(id string, seconds int) string {
	if seconds <= 0 {
		return WatchURL(id)
	}
	return fmt.Sprintf("%s&t=%ds", WatchURL(id), seconds)
}

// EmbedURL returns the iframe player URL, optionally starting at seconds.
func EmbedURL(id string, seconds int) string {
	u := "https://www.youtube.com/embed/" + url.PathEscape(id)
	if seconds > 0 {
		u += fmt.Sprintf("?start=%d", seconds)
	}
	return u
}
