// Package rules holds the heuristic selector and domain lists that drive
// extraction and rendering. Defaults are compiled in; a YAML file can
// replace any list without touching control flow.
package rules

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Selector is a CSS selector with an optional visible-text filter.
//
// It is written the way Playwright writes text filters:
//
//	button:has-text('Load more')
//
// which matches every <button> whose text contains "Load more"
// (case-insensitive).
type Selector struct {
	CSS  string
	Text string
}

var hasTextRe = regexp.MustCompile(`^(.*):has-text\((?:'([^']*)'|"([^"]*)")\)$`)

// ParseSelector parses the textual selector form
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, fmt.Errorf("empty selector")
	}
	m := hasTextRe.FindStringSubmatch(s)
	if m == nil {
		return Selector{CSS: s}, nil
	}
	css := strings.TrimSpace(m[1])
	if css == "" {
		css = "*"
	}
	text := m[2]
	if text == "" {
		text = m[3]
	}
	return Selector{CSS: css, Text: text}, nil
}

// MustSelector is ParseSelector for compiled-in defaults
func MustSelector(s string) Selector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// String renders the selector back into its textual form; it is also the
// label recorded in the interactions log.
func (s Selector) String() string {
	if s.Text == "" {
		return s.CSS
	}
	return fmt.Sprintf("%s:has-text('%s')", s.CSS, s.Text)
}

// UnmarshalYAML accepts a plain string
func (s *Selector) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	sel, err := ParseSelector(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = sel
	return nil
}

// MarshalYAML writes the textual form
func (s Selector) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// Rules is the full set of heuristic lists
type Rules struct {
	// JSHeavyDomains always trigger dynamic rendering
	JSHeavyDomains []string `yaml:"js_heavy_domains"`

	// Noise selectors are removed before any extraction, both from parsed
	// documents and in-page during rendering
	Noise []string `yaml:"noise"`

	Tabs       []Selector `yaml:"tabs"`
	LoadMore   []Selector `yaml:"load_more"`
	Pagination []Selector `yaml:"pagination"`
}

// Default returns the compiled-in rule set
func Default() *Rules {
	return &Rules{
		JSHeavyDomains: []string{
			"vercel.com",
			"nextjs.org",
			"mui.com",
			"dev.to",
			"news.ycombinator.com",
			"infinite-scroll.com",
			"unsplash.com",
			"reddit.com",
		},
		Noise: []string{
			"[id*='cookie']", "[class*='cookie']",
			"[id*='consent']", "[class*='consent']",
			"[class*='modal']", "[class*='popup']",
			"[class*='newsletter']", "[class*='overlay']",
			"[role='dialog']", "[aria-modal='true']",
		},
		Tabs: []Selector{
			MustSelector("[role='tab']"),
			MustSelector("button[aria-selected]"),
			MustSelector(".tab"),
			MustSelector("[data-tab]"),
		},
		LoadMore: []Selector{
			MustSelector("button:has-text('Load more')"),
			MustSelector("button:has-text('Show more')"),
			MustSelector("button:has-text('See more')"),
			MustSelector("a:has-text('Load more')"),
			MustSelector(".load-more"),
			MustSelector("[class*='load-more']"),
			MustSelector("[id*='load-more']"),
		},
		Pagination: []Selector{
			MustSelector("a[rel='next']"),
			MustSelector("a:has-text('Next')"),
			MustSelector(".pagination a.next"),
			MustSelector(".pagination__next"),
			MustSelector("[aria-label='Next page']"),
			MustSelector("a.morelink"), // Hacker News
		},
	}
}

// Load reads a YAML rules file. Lists present in the file replace the
// corresponding defaults; absent lists keep them.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML rules over the defaults
func Parse(data []byte) (*Rules, error) {
	var file Rules
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}

	r := Default()
	if file.JSHeavyDomains != nil {
		r.JSHeavyDomains = normalizeDomains(file.JSHeavyDomains)
	}
	if file.Noise != nil {
		r.Noise = file.Noise
	}
	if file.Tabs != nil {
		r.Tabs = file.Tabs
	}
	if file.LoadMore != nil {
		r.LoadMore = file.LoadMore
	}
	if file.Pagination != nil {
		r.Pagination = file.Pagination
	}
	return r, nil
}

func normalizeDomains(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		d = strings.TrimPrefix(d, "www.")
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}
