// Package segment splits transcript text into sentence-sized pieces for
// display. The punctuation rules depend on the transcript language.
package segment

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// Rule splits trimmed, non-empty text into raw pieces. Pieces may carry
// surrounding whitespace; the caller trims them and drops empty ones.
type Rule interface {
	Split(text string) []string
}

// RuleFunc adapts a plain function to Rule.
type RuleFunc func(text string) []string

func (f RuleFunc) Split(text string) []string { return f(text) }

// cjkTerminators are the full-width sentence-final marks.
var cjkTerminators = map[rune]bool{
	'。': true,
	'！': true,
	'？': true,
	'；': true,
}

// latinTerminators only end a sentence when whitespace follows them.
var latinTerminators = map[rune]bool{
	'.': true,
	'?': true,
	'!': true,
}

// CJK cuts right after every full-width terminator, keeping the mark with
// the sentence it closes.
var CJK Rule = RuleFunc(func(text string) []string {
	var pieces []string
	start := 0
	for i, r := range text {
		if cjkTerminators[r] {
			end := i + utf8.RuneLen(r)
			pieces = append(pieces, text[start:end])
			start = end
		}
	}
	if start < len(text) {
		pieces = append(pieces, text[start:])
	}
	return pieces
})

// Latin cuts after '.', '?' or '!' when at least one whitespace character
// follows. The whitespace run between sentences is dropped.
var Latin Rule = RuleFunc(func(text string) []string {
	var pieces []string
	start := 0
	i := 0
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		next := i + size
		if latinTerminators[r] && next < len(text) {
			ws, _ := utf8.DecodeRuneInString(text[next:])
			if unicode.IsSpace(ws) {
				pieces = append(pieces, text[start:next])
				j := next
				for j < len(text) {
					w, wsize := utf8.DecodeRuneInString(text[j:])
					if !unicode.IsSpace(w) {
						break
					}
					j += wsize
				}
				start = j
				i = j
				continue
			}
		}
		i = next
	}
	if start < len(text) {
		pieces = append(pieces, text[start:])
	}
	return pieces
})

// Registry maps language prefixes to rules. The zero value is not usable;
// build one with NewRegistry.
type Registry struct {
	mu       sync.RWMutex
	rules    map[string]Rule
	fallback Rule
}

// NewRegistry returns a registry that uses fallback for languages without a
// registered prefix.
func NewRegistry(fallback Rule) *Registry {
	return &Registry{rules: make(map[string]Rule), fallback: fallback}
}

// Register binds a language prefix (matched case-insensitively) to a rule.
func (r *Registry) Register(prefix string, rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules[strings.ToLower(prefix)] = rule
}

// RuleFor returns the rule registered under the longest prefix of language,
// or the fallback rule.
func (r *Registry) RuleFor(language string) Rule {
	lang := strings.ToLower(language)

	r.mu.RLock()
	defer r.mu.RUnlock()

	best := ""
	rule := r.fallback
	for prefix, candidate := range r.rules {
		if strings.HasPrefix(lang, prefix) && len(prefix) > len(best) {
			best = prefix
			rule = candidate
		}
	}
	return rule
}

// Segment trims content, splits it with the rule for language and returns
// the non-empty trimmed pieces in source order. It never returns nil.
func (r *Registry) Segment(content, language string) []string {
	text := strings.TrimSpace(content)
	if text == "" {
		return []string{}
	}

	raw := r.RuleFor(language).Split(text)
	out := make([]string, 0, len(raw))
	for _, piece := range raw {
		if piece = strings.TrimSpace(piece); piece != "" {
			out = append(out, piece)
		}
	}
	return out
}

var defaultRegistry = func() *Registry {
	reg := NewRegistry(Latin)
	reg.Register("zh", CJK)
	return reg
}()

// Default returns the registry used by Segment.
func Default() *Registry { return defaultRegistry }

// Segment splits content with the default registry: "zh*" tags use the CJK
// rule, everything else the Latin rule.
func Segment(content, language string) []string {
	return defaultRegistry.Segment(content, language)
}
