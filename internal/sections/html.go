package sections

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/CryingSurrogate/docchunk/internal/chunker"
)

// PathSeparator joins heading titles in a section path.
const PathSeparator = " > "

// FromHTML extracts heading-delimited sections from converted document HTML.
// A section starts at each h1..h6 and collects the text of the paragraphs that
// follow it, one per line. Paragraphs before the first heading are dropped.
func FromHTML(r io.Reader) ([]chunker.Section, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	b := &builder{}
	b.walk(doc)
	b.flush()
	return b.out, nil
}

type builder struct {
	out     []chunker.Section
	current *chunker.Section
	paras   []string
	trail   []string // enclosing heading titles, indexed by level-1
}

func (b *builder) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if level := headingLevel(n.Data); level > 0 {
			b.startSection(level, textContent(n))
			return
		}
		if n.Data == "p" {
			if b.current != nil {
				b.paras = append(b.paras, textContent(n))
			}
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

func (b *builder) startSection(level int, title string) {
	b.flush()

	if len(b.trail) >= level {
		b.trail = b.trail[:level-1]
	}
	for len(b.trail) < level-1 {
		b.trail = append(b.trail, "")
	}
	b.trail = append(b.trail, strings.TrimSpace(title))

	b.current = &chunker.Section{
		Title: title,
		Level: level,
		Path:  joinPath(b.trail),
	}
}

func (b *builder) flush() {
	if b.current == nil {
		return
	}
	b.current.Content = strings.Join(b.paras, "\n")
	b.out = append(b.out, *b.current)
	b.current = nil
	b.paras = nil
}

func joinPath(trail []string) string {
	parts := make([]string, 0, len(trail))
	for _, t := range trail {
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, PathSeparator)
}

func headingLevel(tag string) int {
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	collectText(n, &sb)
	return sb.String()
}

func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
