package richtext

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paragraph(text string, spans ...Span) Block {
	return Block{Type: TypeParagraph, Text: text, Spans: spans}
}

func TestAsText(t *testing.T) {
	rt := RichText{
		paragraph("Hello there"),
		{Type: TypeImage, URL: "https://images.example.com/a.png"},
		{Type: TypeListItem, Text: "one"},
		{Type: TypeListItem, Text: "two"},
	}

	assert.Equal(t, "Hello there one two", AsText(rt))
	assert.Equal(t, "", AsText(nil))
}

func TestAsHTMLBlocks(t *testing.T) {
	testCases := []struct {
		name string
		in   RichText
		want string
	}{
		{
			name: "paragraph",
			in:   RichText{paragraph("a b c d")},
			want: "<p>a b c d</p>",
		},
		{
			name: "headings",
			in:   RichText{{Type: TypeHeading2, Text: "Title"}, {Type: TypeHeading6, Text: "Small"}},
			want: "<h2>Title</h2><h6>Small</h6>",
		},
		{
			name: "escaped text",
			in:   RichText{paragraph("<script>x</script> & y")},
			want: "<p>&lt;script&gt;x&lt;/script&gt; &amp; y</p>",
		},
		{
			name: "grouped lists",
			in: RichText{
				{Type: TypeListItem, Text: "a"},
				{Type: TypeListItem, Text: "b"},
				{Type: TypeOListItem, Text: "c"},
				paragraph("end"),
				{Type: TypeListItem, Text: "d"},
			},
			want: "<ul><li>a</li><li>b</li></ul><ol><li>c</li></ol><p>end</p><ul><li>d</li></ul>",
		},
		{
			name: "line breaks",
			in:   RichText{paragraph("a\nb")},
			want: "<p>a<br/>b</p>",
		},
		{
			name: "image",
			in:   RichText{{Type: TypeImage, URL: "https://img.example.com/x.png", Alt: "x"}},
			want: `<p class="block-img"><img src="https://img.example.com/x.png" alt="x"/></p>`,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, AsHTML(testCase.in))
		})
	}
}

func TestAsHTMLSpans(t *testing.T) {
	t.Run("simple", func(t *testing.T) {
		rt := RichText{paragraph("Hello World", Span{Start: 6, End: 11, Type: SpanStrong})}
		assert.Equal(t, "<p>Hello <strong>World</strong></p>", AsHTML(rt))
	})

	t.Run("nested", func(t *testing.T) {
		rt := RichText{paragraph("abcdef",
			Span{Start: 0, End: 6, Type: SpanStrong},
			Span{Start: 2, End: 4, Type: SpanEm},
		)}
		assert.Equal(t, "<p><strong>ab<em>cd</em>ef</strong></p>", AsHTML(rt))
	})

	t.Run("overlapping", func(t *testing.T) {
		rt := RichText{paragraph("abcdef",
			Span{Start: 0, End: 4, Type: SpanStrong},
			Span{Start: 2, End: 6, Type: SpanEm},
		)}
		assert.Equal(t, "<p><strong>ab<em>cd</em></strong><em>ef</em></p>", AsHTML(rt))
	})

	t.Run("multibyte offsets", func(t *testing.T) {
		rt := RichText{paragraph("viagem à lua", Span{Start: 7, End: 8, Type: SpanEm})}
		assert.Equal(t, "<p>viagem <em>à</em> lua</p>", AsHTML(rt))
	})

	t.Run("hyperlink", func(t *testing.T) {
		rt := RichText{paragraph("see docs", Span{
			Start: 4, End: 8, Type: SpanHyperlink,
			Data: &SpanData{URL: "https://example.com/docs", Target: "_blank"},
		})}
		assert.Equal(t,
			`<p>see <a href="https://example.com/docs" target="_blank" rel="noopener noreferrer">docs</a></p>`,
			AsHTML(rt))
	})

	t.Run("out of range spans are clipped", func(t *testing.T) {
		rt := RichText{paragraph("abc",
			Span{Start: 1, End: 99, Type: SpanStrong},
			Span{Start: 2, End: 2, Type: SpanEm},
		)}
		assert.Equal(t, "<p>a<strong>bc</strong></p>", AsHTML(rt))
	})
}

func TestSanitize(t *testing.T) {
	rt := RichText{
		paragraph("Hello World", Span{Start: 6, End: 11, Type: SpanStrong}),
		{Type: TypeEmbed, Oembed: &Embed{
			Type:     "video",
			EmbedURL: "https://video.example.com/1",
			HTML:     `<script>alert(1)</script><p onclick="steal()">caption</p>`,
		}},
	}

	out := SafeHTML(rt)
	assert.Contains(t, out, "<strong>World</strong>")
	assert.Contains(t, out, "caption")
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert(1)")
	assert.NotContains(t, out, "onclick")
}

func TestSanitizeLinks(t *testing.T) {
	out := Sanitize(`<a href="javascript:alert(1)">x</a><a href="https://example.com">y</a>`)
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, "nofollow")
}

func TestRichTextJSON(t *testing.T) {
	payload := `[
		{"type":"paragraph","text":"Hello World","spans":[{"start":0,"end":5,"type":"em"}]},
		{"type":"image","url":"https://img.example.com/a.png","alt":"a","dimensions":{"width":10,"height":10}}
	]`

	var rt RichText
	require.NoError(t, json.Unmarshal([]byte(payload), &rt))
	require.Len(t, rt, 2)
	assert.Equal(t, SpanEm, rt[0].Spans[0].Type)
	assert.Equal(t, "Hello World", AsText(rt))
}
