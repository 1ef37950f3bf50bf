package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// textOf joins the trimmed, non-empty text nodes under every node of the
// selection with sep. Script-like containers are skipped.
func textOf(s *goquery.Selection, sep string) string {
	var parts []string
	for _, n := range s.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, sep)
}

func collectText(n *html.Node, parts *[]string) {
	switch n.Type {
	case html.TextNode:
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "template":
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// truncate caps s at max characters (runes) and reports whether anything
// was removed.
func truncate(s string, max int) (string, bool) {
	if utf8.RuneCountInString(s) <= max {
		return s, false
	}
	i := 0
	for pos := range s {
		if i == max {
			return s[:pos], true
		}
		i++
	}
	return s, false
}

func capString(s string, max int) string {
	out, _ := truncate(s, max)
	return out
}

// runeLen is the character length used by every cap in this package
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func isHeading(n *html.Node, levels ...string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	for _, l := range levels {
		if n.Data == l {
			return true
		}
	}
	return false
}

// nextInOrder returns the node after n in document order, descending into
// n's children first.
func nextInOrder(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for n != nil {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}
	return nil
}

func within(n, ancestor *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == ancestor {
			return true
		}
	}
	return false
}
