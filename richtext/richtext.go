// Package richtext converts the CMS structured text format into plain text and HTML.
package richtext

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Block types emitted by the content API.
const (
	TypeHeading1     = "heading1"
	TypeHeading2     = "heading2"
	TypeHeading3     = "heading3"
	TypeHeading4     = "heading4"
	TypeHeading5     = "heading5"
	TypeHeading6     = "heading6"
	TypeParagraph    = "paragraph"
	TypePreformatted = "preformatted"
	TypeListItem     = "list-item"
	TypeOListItem    = "o-list-item"
	TypeImage        = "image"
	TypeEmbed        = "embed"
)

// Span types.
const (
	SpanStrong    = "strong"
	SpanEm        = "em"
	SpanHyperlink = "hyperlink"
	SpanLabel     = "label"
)

// Span marks up runes [Start, End) of the owning block's text.
type Span struct {
	Start int       `json:"start"`
	End   int       `json:"end"`
	Type  string    `json:"type"`
	Data  *SpanData `json:"data,omitempty"`
}

type SpanData struct {
	LinkType string `json:"link_type,omitempty"`
	URL      string `json:"url,omitempty"`
	Target   string `json:"target,omitempty"`
	Label    string `json:"label,omitempty"`
}

type Embed struct {
	Type     string `json:"type,omitempty"`
	EmbedURL string `json:"embed_url,omitempty"`
	HTML     string `json:"html,omitempty"`
}

// Block is a single structured text element.
type Block struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Spans  []Span `json:"spans,omitempty"`
	URL    string `json:"url,omitempty"`
	Alt    string `json:"alt,omitempty"`
	Oembed *Embed `json:"oembed,omitempty"`
}

func (b Block) hasText() bool {
	return b.Type != TypeImage && b.Type != TypeEmbed
}

type RichText []Block

// AsText joins the text of every text block with a single space.
func AsText(rt RichText) string {
	parts := make([]string, 0, len(rt))
	for _, b := range rt {
		if b.hasText() {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, " ")
}

// AsHTML renders rt as markup. Text content is escaped, but embed payloads are
// inserted as parsed markup, so callers must Sanitize before trusting the output.
func AsHTML(rt RichText) string {
	var sb strings.Builder
	for _, n := range Nodes(rt) {
		// strings.Builder never fails on write
		_ = html.Render(&sb, n)
	}
	return sb.String()
}

// Nodes builds detached element trees for rt, grouping consecutive list items.
func Nodes(rt RichText) []*html.Node {
	var out []*html.Node
	var list *html.Node
	var listType string

	for _, b := range rt {
		if b.Type == TypeListItem || b.Type == TypeOListItem {
			if list == nil || listType != b.Type {
				tag := "ul"
				if b.Type == TypeOListItem {
					tag = "ol"
				}
				list = element(tag)
				listType = b.Type
				out = append(out, list)
			}
			list.AppendChild(textBlock("li", b))
			continue
		}
		list, listType = nil, ""

		if n := blockNode(b); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func blockNode(b Block) *html.Node {
	switch b.Type {
	case TypeHeading1, TypeHeading2, TypeHeading3, TypeHeading4, TypeHeading5, TypeHeading6:
		return textBlock("h"+strings.TrimPrefix(b.Type, "heading"), b)
	case TypeParagraph:
		return textBlock("p", b)
	case TypePreformatted:
		return textBlock("pre", b)
	case TypeImage:
		p := element("p", html.Attribute{Key: "class", Val: "block-img"})
		p.AppendChild(element("img",
			html.Attribute{Key: "src", Val: b.URL},
			html.Attribute{Key: "alt", Val: b.Alt},
		))
		return p
	case TypeEmbed:
		return embedNode(b)
	default:
		// unknown block types still carry readable text
		if b.Text == "" {
			return nil
		}
		return textBlock("p", b)
	}
}

func embedNode(b Block) *html.Node {
	if b.Oembed == nil {
		return nil
	}
	div := element("div",
		html.Attribute{Key: "data-oembed", Val: b.Oembed.EmbedURL},
		html.Attribute{Key: "data-oembed-type", Val: b.Oembed.Type},
	)
	children, err := html.ParseFragment(strings.NewReader(b.Oembed.HTML), element("div"))
	if err != nil {
		return div
	}
	for _, c := range children {
		div.AppendChild(c)
	}
	return div
}

// textBlock renders b's text inside tag with spans applied as nested elements.
// Overlapping spans are split at every boundary so the output always nests.
func textBlock(tag string, b Block) *html.Node {
	root := element(tag)
	runes := []rune(b.Text)
	spans := validSpans(b.Spans, len(runes))

	bounds := []int{0, len(runes)}
	for _, s := range spans {
		bounds = append(bounds, s.Start, s.End)
	}
	sort.Ints(bounds)
	bounds = uniqueInts(bounds)

	stack := []*html.Node{root}
	var open []int // indexes into spans, parallel to stack[1:]

	for i := 0; i+1 < len(bounds); i++ {
		from, to := bounds[i], bounds[i+1]
		active := activeSpans(spans, from, to)

		keep := 0
		for keep < len(open) && keep < len(active) && open[keep] == active[keep] {
			keep++
		}
		open = open[:keep]
		stack = stack[:keep+1]

		for _, idx := range active[keep:] {
			n := spanNode(spans[idx])
			stack[len(stack)-1].AppendChild(n)
			stack = append(stack, n)
			open = append(open, idx)
		}
		appendText(stack[len(stack)-1], string(runes[from:to]))
	}
	return root
}

func validSpans(spans []Span, n int) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End > n {
			s.End = n
		}
		if s.Start >= s.End {
			continue
		}
		out = append(out, s)
	}
	// outer spans first: earlier start, then longer
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End > out[j].End
	})
	return out
}

func activeSpans(spans []Span, from, to int) []int {
	var idx []int
	for i, s := range spans {
		if s.Start <= from && s.End >= to {
			idx = append(idx, i)
		}
	}
	return idx
}

func spanNode(s Span) *html.Node {
	switch s.Type {
	case SpanStrong:
		return element("strong")
	case SpanEm:
		return element("em")
	case SpanHyperlink:
		attrs := []html.Attribute{}
		if s.Data != nil {
			attrs = append(attrs, html.Attribute{Key: "href", Val: s.Data.URL})
			if s.Data.Target != "" {
				attrs = append(attrs,
					html.Attribute{Key: "target", Val: s.Data.Target},
					html.Attribute{Key: "rel", Val: "noopener noreferrer"},
				)
			}
		}
		return element("a", attrs...)
	case SpanLabel:
		label := ""
		if s.Data != nil {
			label = s.Data.Label
		}
		return element("span", html.Attribute{Key: "class", Val: label})
	default:
		return element("span")
	}
}

// appendText adds text to n, turning newlines into <br />.
func appendText(n *html.Node, text string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			n.AppendChild(element("br"))
		}
		if line != "" {
			n.AppendChild(&html.Node{Type: html.TextNode, Data: line})
		}
	}
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func uniqueInts(in []int) []int {
	out := make([]int, 0, len(in))
	for _, v := range in {
		if len(out) == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
