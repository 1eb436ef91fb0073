package segment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name    string
		content string
		lang    string
		want    []string
	}{
		{
			name:    "english sentences",
			content: "Hello world! This is a test. Right?",
			lang:    "en",
			want:    []string{"Hello world!", "This is a test.", "Right?"},
		},
		{
			name:    "chinese sentences",
			content: "你好世界！这是一个测试。对吗？",
			lang:    "zh",
			want:    []string{"你好世界！", "这是一个测试。", "对吗？"},
		},
		{
			name:    "whitespace only",
			content: "   ",
			lang:    "en",
			want:    []string{},
		},
		{
			name:    "empty",
			content: "",
			lang:    "zh",
			want:    []string{},
		},
		{
			name:    "no trailing punctuation",
			content: "This has no punctuation at end",
			lang:    "en",
			want:    []string{"This has no punctuation at end"},
		},
		{
			name:    "punctuation without whitespace is not a boundary",
			content: "Version 1.5 shipped.Next one soon",
			lang:    "en",
			want:    []string{"Version 1.5 shipped.Next one soon"},
		},
		{
			name:    "whitespace run is dropped",
			content: "  One.\n\n\tTwo!   Three  ",
			lang:    "en-US",
			want:    []string{"One.", "Two!", "Three"},
		},
		{
			name:    "ellipsis stays together",
			content: "Wait... what? Fine",
			lang:    "en",
			want:    []string{"Wait...", "what?", "Fine"},
		},
		{
			name:    "chinese semicolon and trailing text",
			content: "第一句；第二句。没有结尾",
			lang:    "zh-CN",
			want:    []string{"第一句；", "第二句。", "没有结尾"},
		},
		{
			name:    "language prefix is case insensitive",
			content: "甲。乙。",
			lang:    "ZH-Hans",
			want:    []string{"甲。", "乙。"},
		},
		{
			name:    "chinese text under latin rule is one piece",
			content: "你好世界！这是一个测试。",
			lang:    "ja",
			want:    []string{"你好世界！这是一个测试。"},
		},
		{
			name:    "cjk rule trims inner pieces",
			content: "你好。 世界！",
			lang:    "zh",
			want:    []string{"你好。", "世界！"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Segment(tt.content, tt.lang))
		})
	}
}

func TestSegmentIsIdempotent(t *testing.T) {
	inputs := map[string]string{
		"en": "First sentence. Second one!  Third?\nFourth without end",
		"zh": "第一。第二！第三？第四；尾巴",
	}
	for lang, input := range inputs {
		for _, seg := range Segment(input, lang) {
			assert.Equal(t, []string{seg}, Segment(seg, lang), "lang=%s", lang)
		}
	}
}

func TestSegmentPreservesOrder(t *testing.T) {
	input := "Alpha one. Beta two. Gamma three."
	segs := Segment(input, "en")

	pos := 0
	for _, seg := range segs {
		idx := strings.Index(input[pos:], seg)
		if !assert.GreaterOrEqual(t, idx, 0, "segment %q out of order", seg) {
			return
		}
		pos += idx + len(seg)
	}
}

func TestRegistryLongestPrefixWins(t *testing.T) {
	reg := NewRegistry(Latin)
	reg.Register("zh", CJK)
	reg.Register("zh-latn", Latin)

	assert.Equal(t, []string{"ni hao.", "shi jie"}, reg.Segment("ni hao. shi jie", "zh-Latn-pinyin"))
	assert.Equal(t, []string{"a。", "b。"}, reg.Segment("a。b。", "zh-Hant"))
}

func TestRegistryCustomRule(t *testing.T) {
	reg := NewRegistry(Latin)
	reg.Register("ja", CJK)
	reg.Register("th", RuleFunc(func(text string) []string {
		return strings.Split(text, " ")
	}))

	assert.Equal(t, []string{"こんにちは。", "元気？"}, reg.Segment("こんにちは。元気？", "ja"))
	assert.Equal(t, []string{"a", "b", "c"}, reg.Segment("a b  c", "th"))
}
