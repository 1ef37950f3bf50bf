package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pagesift/pkg/models"
	"golang.org/x/net/html"
)

const landmarkSelector = "header, nav, main, section, article, footer"

// Caps applied to sections built from the heading fallback
const (
	MaxHeadingText  = 2000
	MaxHeadingHTML  = 1000
	maxHeadingLinks = 10
	maxHeadingImgs  = 5
)

// Limits bounds how much of a document Segment looks at
type Limits struct {
	Landmarks       int
	Headings        int
	HeadingIDPrefix string
}

var (
	// StaticLimits apply to documents fetched without a browser
	StaticLimits = Limits{Landmarks: 15, Headings: 20, HeadingIDPrefix: "section-"}
	// RenderLimits apply to documents captured after rendering
	RenderLimits = Limits{Landmarks: 20, Headings: 30, HeadingIDPrefix: "js-section-"}
)

// Segment splits a cleaned document into sections. Landmark elements are
// tried first; headings are only used when no landmark yields text.
func Segment(doc *goquery.Document, baseURL string, lim Limits) []models.Section {
	sections := []models.Section{}
	if doc == nil {
		return sections
	}

	doc.Find(landmarkSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= lim.Landmarks {
			return false
		}
		sec := ExtractSection(s, baseURL, i)
		if sec.Content.Text != "" {
			sections = append(sections, sec)
		}
		return true
	})

	if len(sections) > 0 {
		return sections
	}
	return headingSections(doc, baseURL, lim)
}

func headingSections(doc *goquery.Document, baseURL string, lim Limits) []models.Section {
	base, _ := url.Parse(baseURL)
	sections := []models.Section{}

	doc.Find("h1, h2, h3").EachWithBreak(func(i int, h *goquery.Selection) bool {
		if i >= lim.Headings {
			return false
		}
		title := textOf(h, " ")
		if title == "" {
			return true
		}

		content := models.NewContentBlock()
		content.Headings = []string{title}

		var paragraphs []string
		for sib := h.Next(); sib.Length() > 0; sib = sib.Next() {
			if isHeading(sib.Get(0), "h1", "h2", "h3") {
				break
			}
			if goquery.NodeName(sib) == "p" {
				if t := textOf(sib, " "); t != "" {
					paragraphs = append(paragraphs, t)
				}
			}
		}
		var textCut bool
		content.Text, textCut = truncate(strings.Join(paragraphs, " "), MaxHeadingText)

		collectAfterHeading(h.Get(0), base, &content)

		raw, _ := goquery.OuterHtml(h)
		raw, htmlCut := truncate(raw, MaxHeadingHTML)
		sections = append(sections, models.Section{
			ID:        fmt.Sprintf("%s%d", lim.HeadingIDPrefix, i),
			Type:      models.SectionGeneric,
			Label:     capString(title, MaxLabelLen),
			SourceURL: baseURL,
			Content:   content,
			RawHTML:   raw,
			Truncated: textCut || htmlCut,
		})
		return true
	})

	return sections
}

// collectAfterHeading walks the document from the heading onward and picks
// up links and images until the next h1-h3 that is not part of the heading.
func collectAfterHeading(h *html.Node, base *url.URL, content *models.ContentBlock) {
	for n := h; n != nil; n = nextInOrder(n) {
		if len(content.Links) >= maxHeadingLinks && len(content.Images) >= maxHeadingImgs {
			return
		}
		if n.Type != html.ElementNode {
			continue
		}
		if n != h && isHeading(n, "h1", "h2", "h3") && !within(n, h) {
			return
		}

		sel := goquery.NewDocumentFromNode(n).Selection
		switch n.Data {
		case "a":
			if len(content.Links) >= maxHeadingLinks {
				continue
			}
			if link, ok := linkOf(sel, base); ok {
				content.Links = append(content.Links, link)
			}
		case "img":
			if len(content.Images) >= maxHeadingImgs {
				continue
			}
			if image, ok := imageOf(sel, base); ok {
				content.Images = append(content.Images, image)
			}
		}
	}
}
