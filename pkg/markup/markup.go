// Package markup interprets the pre-rendered HTML lines the web interface
// sends for window content: styled spans, basic formatting tags and the
// onClick link actions attached to URLs, channels and nicknames.
package markup

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LinkKind is the action attached to a span.
type LinkKind int

const (
	LinkHyperlink LinkKind = iota
	LinkChannel
	LinkQuery
)

func (k LinkKind) String() string {
	switch k {
	case LinkHyperlink:
		return "hyperlink"
	case LinkChannel:
		return "channel"
	case LinkQuery:
		return "query"
	default:
		return fmt.Sprintf("LinkKind(%d)", int(k))
	}
}

// Link is a clickable target inside a line.
type Link struct {
	Kind   LinkKind
	Target string
}

// Style is the visual style of a span. Colours are "#rrggbb" or empty.
type Style struct {
	Foreground string
	Background string
	Bold       bool
	Italic     bool
	Underline  bool
	Monospace  bool
}

// Span is a run of text with one style.
type Span struct {
	Text  string
	Style Style
	Link  *Link
}

type frame struct {
	tag   atom.Atom
	name  string
	style Style
	link  *Link
}

// Parse splits a line into styled spans. Unknown tags are transparent and
// malformed markup degrades to plain text.
func Parse(line string) []Span {
	z := html.NewTokenizer(strings.NewReader(line))
	stack := []frame{{}}
	var spans []Span

	top := func() frame { return stack[len(stack)-1] }
	emit := func(text string) {
		if text == "" {
			return
		}
		f := top()
		if n := len(spans); n > 0 && spans[n-1].Style == f.style && spans[n-1].Link == f.link {
			spans[n-1].Text += text
			return
		}
		spans = append(spans, Span{Text: text, Style: f.style, Link: f.link})
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			return spans
		case html.TextToken:
			emit(z.Token().Data)
		case html.SelfClosingTagToken:
			if tok := z.Token(); tok.DataAtom == atom.Br {
				emit("\n")
			}
		case html.StartTagToken:
			tok := z.Token()
			if tok.DataAtom == atom.Br {
				emit("\n")
				continue
			}
			f := top()
			f.tag, f.name = tok.DataAtom, tok.Data
			applyTag(&f, tok)
			stack = append(stack, f)
		case html.EndTagToken:
			tok := z.Token()
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].name == tok.Data {
					stack = stack[:i]
					break
				}
			}
		}
	}
}

func applyTag(f *frame, tok html.Token) {
	switch tok.DataAtom {
	case atom.B, atom.Strong:
		f.style.Bold = true
	case atom.I, atom.Em:
		f.style.Italic = true
	case atom.U:
		f.style.Underline = true
	case atom.Code, atom.Tt, atom.Pre:
		f.style.Monospace = true
	}
	for _, a := range tok.Attr {
		switch strings.ToLower(a.Key) {
		case "style":
			applyCSS(&f.style, a.Val)
		case "onclick":
			if l, ok := parseAction(a.Val); ok {
				f.link = l
			}
		case "href":
			if tok.DataAtom == atom.A && f.link == nil && a.Val != "" && !strings.HasPrefix(a.Val, "javascript:") {
				f.link = &Link{Kind: LinkHyperlink, Target: a.Val}
			}
		}
	}
}

func applyCSS(s *Style, css string) {
	for _, decl := range strings.Split(css, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		val = strings.TrimSpace(val)
		switch prop {
		case "color":
			if c, ok := parseColor(val); ok {
				s.Foreground = c
			}
		case "background-color":
			if c, ok := parseColor(val); ok {
				s.Background = c
			}
		case "font-weight":
			s.Bold = val == "bold" || val == "bolder" || val == "700" || val == "800" || val == "900"
		case "font-style":
			s.Italic = val == "italic" || val == "oblique"
		case "text-decoration":
			s.Underline = strings.Contains(val, "underline")
		case "font-family":
			s.Monospace = strings.Contains(strings.ToLower(val), "monospace")
		}
	}
}

var rgbPattern = regexp.MustCompile(`^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,[^)]*)?\)$`)

func parseColor(v string) (string, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if m := rgbPattern.FindStringSubmatch(v); m != nil {
		var rgb [3]int
		for i := range rgb {
			n, _ := strconv.Atoi(m[i+1])
			if n > 255 {
				n = 255
			}
			rgb[i] = n
		}
		return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2]), true
	}
	if strings.HasPrefix(v, "#") {
		hex := v[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) == 6 {
			if _, err := strconv.ParseUint(hex, 16, 32); err == nil {
				return "#" + hex, true
			}
		}
	}
	return "", false
}

var actionPattern = regexp.MustCompile(`^\s*link_(hyperlink|channel|query)\('((?:[^'\\]|\\.)*)'\)\s*;?\s*$`)

func parseAction(js string) (*Link, bool) {
	m := actionPattern.FindStringSubmatch(js)
	if m == nil {
		return nil, false
	}
	target := unescapeJS(m[2])
	if target == "" {
		return nil, false
	}
	var kind LinkKind
	switch m[1] {
	case "hyperlink":
		kind = LinkHyperlink
	case "channel":
		kind = LinkChannel
	case "query":
		kind = LinkQuery
	}
	return &Link{Kind: kind, Target: target}, true
}

func unescapeJS(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i == len(s)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// PlainText returns the visible text of a line.
func PlainText(line string) string {
	var b strings.Builder
	for _, s := range Parse(line) {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Links returns the distinct links of a line in order of appearance.
func Links(line string) []Link {
	var out []Link
	seen := make(map[Link]bool)
	for _, s := range Parse(line) {
		if s.Link == nil || seen[*s.Link] {
			continue
		}
		seen[*s.Link] = true
		out = append(out, *s.Link)
	}
	return out
}

// Sanitize makes server-supplied plain text safe to print on a terminal:
// escape sequences are stripped and remaining control characters dropped.
func Sanitize(s string) string {
	s = ansi.Strip(strings.ReplaceAll(s, "\t", " "))
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r < 0xa0) {
			return -1
		}
		return r
	}, s)
}
