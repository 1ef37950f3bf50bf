// internal/engine/metadata/extractor.go
package metadata

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/law-makers/pagesift/internal/utils/url"
	"github.com/law-makers/pagesift/pkg/models"
)

// ExtractPageMeta reads title, description, language and canonical URL from
// a parsed document. Missing fields keep their defaults.
func ExtractPageMeta(doc *goquery.Document, baseURL string) models.PageMeta {
	meta := models.DefaultPageMeta()
	if doc == nil {
		return meta
	}

	meta.Title = strings.TrimSpace(doc.Find("title").First().Text())

	// Prefer the standard description, fall back to Open Graph
	meta.Description = metaContent(doc, "meta[name='description']")
	if meta.Description == "" {
		meta.Description = metaContent(doc, "meta[property='og:description']")
	}

	if lang := strings.TrimSpace(doc.Find("html").First().AttrOr("lang", "")); lang != "" {
		meta.Language = lang
	}

	if href := strings.TrimSpace(doc.Find("link[rel~='canonical']").First().AttrOr("href", "")); href != "" {
		base, _ := url.Parse(baseURL)
		if abs, ok := urlutil.Resolve(base, href); ok {
			meta.Canonical = &abs
		}
	}

	return meta
}

func metaContent(doc *goquery.Document, selector string) string {
	return doc.Find(selector).First().AttrOr("content", "")
}
