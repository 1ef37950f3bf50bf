package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/law-makers/pagesift/internal/utils/url"
	"github.com/law-makers/pagesift/pkg/models"
)

// Caps applied to landmark sections
const (
	MaxLabelLen     = 60
	MaxLinkTextLen  = 100
	MaxSectionText  = 3000
	MaxSectionHTML  = 2000
	maxHeadings     = 5
	maxParagraphs   = 10
	maxLinks        = 15
	maxImages       = 8
	maxLists        = 5
	maxListItems    = 10
	maxTables       = 3
	maxTableRows    = 10
	labelPreviewLen = 50
	labelWords      = 7
)

// ExtractSection turns one markup node into a classified Section. It reads
// only the node it is given and never touches the network.
func ExtractSection(s *goquery.Selection, baseURL string, index int) models.Section {
	s = s.First()
	base, _ := url.Parse(baseURL)
	typ := Classify(s)

	content := models.NewContentBlock()

	s.Find("h1, h2, h3, h4").EachWithBreak(func(i int, h *goquery.Selection) bool {
		content.Headings = append(content.Headings, textOf(h, " "))
		return len(content.Headings) < maxHeadings
	})

	var label string
	if len(content.Headings) > 0 {
		label = capString(content.Headings[0], MaxLabelLen)
	} else {
		words := strings.Fields(capString(textOf(s, " "), labelPreviewLen))
		if len(words) > labelWords {
			words = words[:labelWords]
		}
		label = strings.Join(words, " ")
	}
	if label == "" {
		label = "Content"
	}

	var paragraphs []string
	s.Find("p").EachWithBreak(func(i int, p *goquery.Selection) bool {
		if t := textOf(p, " "); t != "" {
			paragraphs = append(paragraphs, t)
		}
		return i+1 < maxParagraphs
	})
	text, textCut := truncate(strings.Join(paragraphs, " "), MaxSectionText)
	content.Text = text

	s.Find("a[href]").EachWithBreak(func(i int, a *goquery.Selection) bool {
		if link, ok := linkOf(a, base); ok {
			content.Links = append(content.Links, link)
		}
		return len(content.Links) < maxLinks
	})

	s.Find("img").EachWithBreak(func(i int, img *goquery.Selection) bool {
		if image, ok := imageOf(img, base); ok {
			content.Images = append(content.Images, image)
		}
		return i+1 < maxImages
	})

	s.Find("ul, ol").EachWithBreak(func(i int, list *goquery.Selection) bool {
		var items []string
		list.Find("li").EachWithBreak(func(j int, li *goquery.Selection) bool {
			items = append(items, textOf(li, " "))
			return j+1 < maxListItems
		})
		if len(items) > 0 {
			content.Lists = append(content.Lists, items)
		}
		return i+1 < maxLists
	})

	s.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		var rows [][]string
		table.Find("tr").EachWithBreak(func(j int, tr *goquery.Selection) bool {
			var cells []string
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, textOf(cell, ""))
			})
			if len(cells) > 0 {
				rows = append(rows, cells)
			}
			return j+1 < maxTableRows
		})
		if len(rows) > 0 {
			content.Tables = append(content.Tables, rows)
		}
		return i+1 < maxTables
	})

	raw, _ := goquery.OuterHtml(s)
	rawHTML, htmlCut := truncate(raw, MaxSectionHTML)

	return models.Section{
		ID:        fmt.Sprintf("%s-%d", typ, index),
		Type:      typ,
		Label:     label,
		SourceURL: baseURL,
		Content:   content,
		RawHTML:   rawHTML,
		Truncated: textCut || htmlCut,
	}
}

func linkOf(a *goquery.Selection, base *url.URL) (models.Link, bool) {
	href, ok := a.Attr("href")
	if !ok {
		return models.Link{}, false
	}
	abs, ok := urlutil.Resolve(base, href)
	if !ok {
		return models.Link{}, false
	}
	return models.Link{
		Text: capString(textOf(a, ""), MaxLinkTextLen),
		Href: abs,
	}, true
}

// imageOf prefers src and falls back to the lazy-load data-src attribute
func imageOf(img *goquery.Selection, base *url.URL) (models.Image, bool) {
	src := img.AttrOr("src", "")
	if src == "" {
		src = img.AttrOr("data-src", "")
	}
	if src == "" {
		return models.Image{}, false
	}
	abs, ok := urlutil.Resolve(base, src)
	if !ok {
		return models.Image{}, false
	}
	return models.Image{Src: abs, Alt: img.AttrOr("alt", "")}, true
}
