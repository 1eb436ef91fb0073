// Package timestamp converts "MM:SS" and "HH:MM:SS" strings to seconds and
// locates [[MM:SS]] style markers inside generated summaries.
package timestamp

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTimestamp is returned by the strict parser.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// ParseToSeconds converts "HH:MM:SS" or "MM:SS" to a number of seconds.
// Any other number of components yields 0. Components are not range
// checked, and a component that is not a number counts as 0.
func ParseToSeconds(s string) int {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 3:
		return component(parts[0])*3600 + component(parts[1])*60 + component(parts[2])
	case 2:
		return component(parts[0])*60 + component(parts[1])
	default:
		return 0
	}
}

func component(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// ParseToSecondsStrict is ParseToSeconds with explicit failures: a wrong
// component count, a non-numeric or a negative component is an error.
func ParseToSecondsStrict(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q has %d components", ErrInvalidTimestamp, s, len(parts))
	}

	total := 0
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, fmt.Errorf("%w: %q: component %q is not a number", ErrInvalidTimestamp, s, p)
		}
		if n < 0 {
			return 0, fmt.Errorf("%w: %q: negative component", ErrInvalidTimestamp, s)
		}
		total = total*60 + n
	}
	return total, nil
}

// Parser selects between the lenient and strict behaviour.
type Parser struct {
	Strict bool
}

// Parse returns the seconds for s. In lenient mode it never fails.
func (p Parser) Parse(s string) (int, error) {
	if p.Strict {
		return ParseToSecondsStrict(s)
	}
	return ParseToSeconds(s), nil
}

// Format renders seconds as MM:SS, or HH:MM:SS from one hour on.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
