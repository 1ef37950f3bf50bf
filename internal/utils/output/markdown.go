package output

import (
	"fmt"
	"os"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
	urlutil "github.com/law-makers/pagesift/internal/utils/url"
	"github.com/law-makers/pagesift/pkg/models"
)

func newConverter(baseURL string) *md.Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	converter.AddRules(md.Rule{
		Filter: []string{"a"},
		Replacement: func(content string, selec *goquery.Selection, opt *md.Options) *string {
			href, exists := selec.Attr("href")
			if !exists {
				return nil
			}

			resolved := urlutil.ResolveURL(baseURL, href)
			title, hasTitle := selec.Attr("title")
			var titlePart string
			if hasTitle {
				titlePart = fmt.Sprintf(" %q", title)
			}
			str := fmt.Sprintf("[%s](%s)%s", strings.TrimSpace(selec.Text()), resolved, titlePart)
			return &str
		},
	})
	return converter
}

// RenderMarkdown renders a result as a Markdown document, one heading per
// section. Section markup is converted when present, otherwise the plain
// text is used.
func RenderMarkdown(res *models.ScrapeResult) (string, error) {
	var sb strings.Builder

	title := res.Meta.Title
	if title == "" {
		title = res.URL
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "- URL: %s\n", res.URL)
	if res.Meta.Description != "" {
		fmt.Fprintf(&sb, "- Description: %s\n", res.Meta.Description)
	}
	if res.Meta.Canonical != nil {
		fmt.Fprintf(&sb, "- Canonical: %s\n", *res.Meta.Canonical)
	}
	fmt.Fprintf(&sb, "- Language: %s\n", res.Meta.Language)
	fmt.Fprintf(&sb, "- Scraped: %s\n", res.ScrapedAt.Format("2006-01-02 15:04:05 MST"))

	converter := newConverter(res.URL)
	for _, s := range res.Sections {
		fmt.Fprintf(&sb, "\n## %s `%s`\n\n", s.Label, s.Type)

		body := s.Content.Text
		if s.RawHTML != "" {
			cleaned, err := CleanHTML(s.RawHTML)
			if err != nil {
				return "", err
			}
			converted, err := converter.ConvertString(cleaned)
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(converted) != "" {
				body = converted
			}
		}
		sb.WriteString(strings.TrimSpace(body))
		sb.WriteString("\n")
		if s.Truncated {
			sb.WriteString("\n_(truncated)_\n")
		}
	}

	if len(res.Errors) > 0 {
		sb.WriteString("\n## Errors\n\n")
		for _, e := range res.Errors {
			fmt.Fprintf(&sb, "- %s: %s\n", e.Phase, e.Message)
		}
	}
	return sb.String(), nil
}

// SaveMarkdown renders res as Markdown and writes it to filepath
func SaveMarkdown(res *models.ScrapeResult, filepath string) error {
	mdStr, err := RenderMarkdown(res)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath, []byte(mdStr), 0644)
}
