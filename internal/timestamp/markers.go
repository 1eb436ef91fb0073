package timestamp

import "regexp"

// markerRe matches [[M:SS]], [[MM:SS]] and [[HH:MM:SS]] markers.
var markerRe = regexp.MustCompile(`\[\[(\d{1,2}:\d{2}(?::\d{2})?)\]\]`)

var leadingMarkerRe = regexp.MustCompile(`^` + markerRe.String())

// Marker is one timestamp marker found in a text.
type Marker struct {
	Label   string `json:"label"`   // "05:23", without brackets
	Seconds int    `json:"seconds"`
	Start   int    `json:"-"` // byte offset of "[[" in the source
	End     int    `json:"-"` // byte offset just past "]]"
}

// Piece is a run of plain text or a single marker. Concatenating the Raw
// fields of Split's output reproduces the input.
type Piece struct {
	Raw     string
	Marker  bool
	Label   string
	Seconds int
}

// Markers returns every marker in text, in order. Markers whose label the
// parser rejects are skipped.
func Markers(text string, p Parser) []Marker {
	var out []Marker
	for _, loc := range markerRe.FindAllStringSubmatchIndex(text, -1) {
		label := text[loc[2]:loc[3]]
		secs, err := p.Parse(label)
		if err != nil {
			continue
		}
		out = append(out, Marker{Label: label, Seconds: secs, Start: loc[0], End: loc[1]})
	}
	return out
}

// LeadingMarker reports the marker that text starts with, if any.
func LeadingMarker(text []byte, p Parser) (Marker, bool) {
	loc := leadingMarkerRe.FindSubmatchIndex(text)
	if loc == nil {
		return Marker{}, false
	}
	label := string(text[loc[2]:loc[3]])
	secs, err := p.Parse(label)
	if err != nil {
		return Marker{}, false
	}
	return Marker{Label: label, Seconds: secs, Start: loc[0], End: loc[1]}, true
}

// Split cuts text around its markers. Rejected markers stay in plain text.
func Split(text string, p Parser) []Piece {
	var pieces []Piece
	pos := 0
	for _, m := range Markers(text, p) {
		if m.Start > pos {
			pieces = append(pieces, Piece{Raw: text[pos:m.Start]})
		}
		pieces = append(pieces, Piece{
			Raw:     text[m.Start:m.End],
			Marker:  true,
			Label:   m.Label,
			Seconds: m.Seconds,
		})
		pos = m.End
	}
	if pos < len(text) {
		pieces = append(pieces, Piece{Raw: text[pos:]})
	}
	return pieces
}
