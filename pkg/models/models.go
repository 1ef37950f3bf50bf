package models

import "time"

// SectionType is the semantic classification of an extracted section
type SectionType string

const (
	SectionNav     SectionType = "nav"
	SectionFooter  SectionType = "footer"
	SectionHero    SectionType = "hero"
	SectionFAQ     SectionType = "faq"
	SectionPricing SectionType = "pricing"
	SectionGrid    SectionType = "grid"
	SectionList    SectionType = "list"
	SectionGeneric SectionType = "section"

	// SectionUnknown is only used by the synthetic placeholder section
	SectionUnknown SectionType = "unknown"
)

// Phase identifies which stage of the pipeline produced an error
type Phase string

const (
	PhaseFetch  Phase = "fetch"
	PhaseRender Phase = "render"
)

// PageMeta holds document-level metadata
type PageMeta struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Language    string  `json:"language"`
	Canonical   *string `json:"canonical"`
}

// DefaultPageMeta returns metadata with every field at its default
func DefaultPageMeta() PageMeta {
	return PageMeta{Language: "en"}
}

// Link is an anchor found inside a section
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// Image is an image found inside a section
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// ContentBlock is the normalized content of one section
type ContentBlock struct {
	Headings []string     `json:"headings"`
	Text     string       `json:"text"`
	Links    []Link       `json:"links"`
	Images   []Image      `json:"images"`
	Lists    [][]string   `json:"lists"`
	Tables   [][][]string `json:"tables"`
}

// NewContentBlock returns a block whose sequences are empty rather than nil,
// so that they serialize as [] instead of null.
func NewContentBlock() ContentBlock {
	return ContentBlock{
		Headings: []string{},
		Links:    []Link{},
		Images:   []Image{},
		Lists:    [][]string{},
		Tables:   [][][]string{},
	}
}

// Section is one classified, bounded unit of extracted content
type Section struct {
	ID        string       `json:"id"`
	Type      SectionType  `json:"type"`
	Label     string       `json:"label"`
	SourceURL string       `json:"sourceUrl"`
	Content   ContentBlock `json:"content"`
	RawHTML   string       `json:"rawHtml"`
	Truncated bool         `json:"truncated"`
}

// Interactions records the simulated user actions of a dynamic session
type Interactions struct {
	Clicks  []string `json:"clicks"`
	Scrolls int      `json:"scrolls"`
	Pages   []string `json:"pages"`
}

// NewInteractions returns the single-page record used when no rendering happened
func NewInteractions(url string) Interactions {
	return Interactions{
		Clicks: []string{},
		Pages:  []string{url},
	}
}

// ExtractionError is a diagnostic entry attached to a result
type ExtractionError struct {
	Message string `json:"message"`
	Phase   Phase  `json:"phase"`
}

// ScrapeResult is the outcome of one extraction run
type ScrapeResult struct {
	URL          string            `json:"url"`
	ScrapedAt    time.Time         `json:"scrapedAt"`
	Meta         PageMeta          `json:"meta"`
	Sections     []Section         `json:"sections"`
	Interactions Interactions      `json:"interactions"`
	Errors       []ExtractionError `json:"errors"`
}

// FallbackSection is the placeholder returned when nothing could be extracted
func FallbackSection(url string) Section {
	content := NewContentBlock()
	content.Text = "No content extracted"
	return Section{
		ID:        "fallback-0",
		Type:      SectionUnknown,
		Label:     "Content",
		SourceURL: url,
		Content:   content,
	}
}
