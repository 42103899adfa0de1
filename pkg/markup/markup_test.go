package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStyledSpans(t *testing.T) {
	line := `<span style="color: rgb(255, 0, 0); font-weight: bold; ">* alice</span> joined &amp; left`
	spans := Parse(line)
	require.Len(t, spans, 2)

	assert.Equal(t, "* alice", spans[0].Text)
	assert.Equal(t, "#ff0000", spans[0].Style.Foreground)
	assert.True(t, spans[0].Style.Bold)

	assert.Equal(t, " joined & left", spans[1].Text)
	assert.Equal(t, Style{}, spans[1].Style)
}

func TestParseNestedTags(t *testing.T) {
	spans := Parse(`<b>bold <i>both</i></b> <u>under</u><br/>next`)
	require.Len(t, spans, 5)
	assert.Equal(t, Span{Text: "bold ", Style: Style{Bold: true}}, spans[0])
	assert.Equal(t, Span{Text: "both", Style: Style{Bold: true, Italic: true}}, spans[1])
	assert.Equal(t, " ", spans[2].Text)
	assert.Equal(t, Span{Text: "under", Style: Style{Underline: true}}, spans[3])
	assert.Equal(t, "\nnext", spans[4].Text)
}

func TestParseLinks(t *testing.T) {
	line := `see <span style="cursor: pointer; " onClick="link_hyperlink('http://example.com/a?b=1&amp;c=\'x\'');">http://example.com</span>` +
		` in <span onClick="link_channel('#go');">#go</span>` +
		` with <span onClick="link_query('bob');">bob</span>` +
		` and <span onClick="link_channel('#go');">#go</span>`

	links := Links(line)
	assert.Equal(t, []Link{
		{Kind: LinkHyperlink, Target: "http://example.com/a?b=1&c='x'"},
		{Kind: LinkChannel, Target: "#go"},
		{Kind: LinkQuery, Target: "bob"},
	}, links)

	assert.Equal(t, "see http://example.com in #go with bob and #go", PlainText(line))
}

func TestParseIgnoresUnknownActions(t *testing.T) {
	spans := Parse(`<span onClick="alert('x')">x</span>`)
	require.Len(t, spans, 1)
	assert.Nil(t, spans[0].Link)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"rgb(1, 2, 3)", "#010203", true},
		{"RGB(300,0,0)", "#ff0000", true},
		{"#ABC", "#aabbcc", true},
		{"#a0b0c0", "#a0b0c0", true},
		{"red", "", false},
		{"#zzzzzz", "", false},
	}
	for _, tt := range tests {
		got, ok := parseColor(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestPlainTextMalformed(t *testing.T) {
	assert.Equal(t, "a < b", PlainText("a &lt; b"))
	assert.Equal(t, "unterminated", PlainText("<b>unterminated"))
	assert.Equal(t, "", PlainText(""))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "red text", Sanitize("\x1b[31mred\x1b[0m text"))
	assert.Equal(t, "a b", Sanitize("a\tb"))
	assert.Equal(t, "bell", Sanitize("be\all"))
	assert.Equal(t, "naïve", Sanitize("naïve"))
}
