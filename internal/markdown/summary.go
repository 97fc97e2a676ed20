package markdown

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Summary returns the text of the first non-empty paragraph of an HTML fragment,
// truncated to maxRunes (0 means unlimited).
func Summary(fragment string, maxRunes int) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	if err != nil {
		return ""
	}
	for _, n := range nodes {
		if p := findParagraph(n); p != "" {
			return truncate(p, maxRunes)
		}
	}
	return ""
}

func findParagraph(n *html.Node) string {
	if n.Type == html.ElementNode && n.DataAtom == atom.P {
		if t := collapse(textOf(n)); t != "" {
			return t
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findParagraph(c); t != "" {
			return t
		}
	}
	return ""
}

// PlainText strips all markup from an HTML fragment.
func PlainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapse(b.String())
		case html.TextToken:
			b.Write(z.Text())
			b.WriteByte(' ')
		}
	}
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:maxRunes])) + "…"
}
