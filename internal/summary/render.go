package summary

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/video-stream/captions/internal/timestamp"
	"github.com/video-stream/captions/internal/youtube"
)

var (
	videoIDKey = parser.NewContextKey()
	parserKey  = parser.NewContextKey()
)

// KindTimestamp is the node kind of a [[MM:SS]] marker.
var KindTimestamp = ast.NewNodeKind("Timestamp")

// Timestamp is an inline node for one marker.
type Timestamp struct {
	ast.BaseInline
	Label   string
	Seconds int
	Href    string
}

func (n *Timestamp) Kind() ast.NodeKind { return KindTimestamp }

func (n *Timestamp) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Label":   n.Label,
		"Seconds": strconv.Itoa(n.Seconds),
		"Href":    n.Href,
	}, nil)
}

// timestampParser claims "[[" ahead of the link parser so markers never
// go through link resolution. Code spans are parsed first and keep their
// text as is.
type timestampParser struct{}

func (timestampParser) Trigger() []byte { return []byte{'['} }

func (timestampParser) Parse(_ ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()
	p, _ := pc.Get(parserKey).(timestamp.Parser)
	m, ok := timestamp.LeadingMarker(line, p)
	if !ok {
		return nil
	}
	block.Advance(m.End)

	href := "#t=" + strconv.Itoa(m.Seconds)
	if videoID, _ := pc.Get(videoIDKey).(string); videoID != "" {
		href = youtube.WatchURLAt(videoID, m.Seconds)
	}
	return &Timestamp{Label: m.Label, Seconds: m.Seconds, Href: href}
}

type timestampRenderer struct{}

func (r timestampRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindTimestamp, r.render)
}

func (timestampRenderer) render(w util.BufWriter, _ []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	ts := n.(*Timestamp)
	_, _ = w.WriteString(`<a class="ts" href="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(ts.Href), true)))
	_, _ = w.WriteString(`" data-seconds="`)
	_, _ = w.WriteString(strconv.Itoa(ts.Seconds))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML([]byte(ts.Label)))
	_, _ = w.WriteString("</a>")
	return ast.WalkSkipChildren, nil
}

var markdown = goldmark.New(
	goldmark.WithParserOptions(
		parser.WithInlineParsers(util.Prioritized(timestampParser{}, 100)),
	),
	goldmark.WithRendererOptions(
		renderer.WithNodeRenderers(util.Prioritized(timestampRenderer{}, 100)),
	),
)

// RenderHTML converts a markdown summary to HTML. Every timestamp marker
// becomes <a class="ts" data-seconds="N">, pointing at the watch page when
// videoID is known. Raw HTML in the summary is not passed through.
func RenderHTML(summary, videoID string, p timestamp.Parser) (string, error) {
	pc := parser.NewContext()
	pc.Set(videoIDKey, videoID)
	pc.Set(parserKey, p)

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(summary), &buf, parser.WithContext(pc)); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
