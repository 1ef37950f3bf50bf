package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pagesift/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://example.com/docs/"

func parse(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func first(t *testing.T, markup, sel string) *goquery.Selection {
	t.Helper()
	s := parse(t, markup).Find(sel).First()
	require.Equal(t, 1, s.Length(), "selector %q matched nothing", sel)
	return s
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		sel    string
		want   models.SectionType
	}{
		{"nav tag", `<nav><a href="/">Home</a></nav>`, "nav", models.SectionNav},
		{"nav class", `<div class="main-nav">x</div>`, "div", models.SectionNav},
		{"footer tag", `<footer>(c) 2024</footer>`, "footer", models.SectionFooter},
		{"header is hero", `<header><h1>Welcome</h1></header>`, "header", models.SectionHero},
		{"banner class", `<div class="Top-Banner">Big</div>`, "div", models.SectionHero},
		{"faq by text", `<section><h2>Frequently asked Question</h2></section>`, "section", models.SectionFAQ},
		{"faq by id", `<section id="FAQ">x</section>`, "section", models.SectionFAQ},
		{"pricing by text", `<section><p>Our price is low</p></section>`, "section", models.SectionPricing},
		{"grid class", `<div class="cards">a</div>`, "div", models.SectionGrid},
		{"list", `<section><ul><li>a</li></ul></section>`, "section", models.SectionList},
		{"generic", `<section><p>Hello there</p></section>`, "section", models.SectionGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(first(t, tt.markup, tt.sel)))
		})
	}
}

func TestClassify_Priority(t *testing.T) {
	// footer beats pricing, pricing beats grid and list
	s := first(t, `<footer class="pricing"><ul><li>a</li></ul></footer>`, "footer")
	assert.Equal(t, models.SectionFooter, Classify(s))

	s = first(t, `<section class="pricing grid"><ul><li>Basic</li></ul></section>`, "section")
	assert.Equal(t, models.SectionPricing, Classify(s))
}

func TestClassify_TextWindow(t *testing.T) {
	// "faq" appears after the first 200 characters and must not count
	markup := `<section><p>` + strings.Repeat("a", 250) + ` faq</p></section>`
	assert.Equal(t, models.SectionGeneric, Classify(first(t, markup, "section")))
}

func TestExtractSection_Content(t *testing.T) {
	markup := `<section>
		<h2>Features</h2>
		<h3>Speed</h3>
		<p>Fast.</p>
		<p>   </p>
		<p>Reliable <b>and</b> simple.</p>
		<a href="/start">Get <em>started</em></a>
		<a href="https://other.org/x">Other</a>
		<img data-src="img/a.png" alt="A">
		<img alt="none">
		<ul><li>One</li><li>Two</li></ul>
		<ol></ol>
		<table><tr><th>Plan</th><th>Tier</th></tr><tr></tr><tr><td>Pro</td><td>Gold</td></tr></table>
	</section>`

	sec := ExtractSection(first(t, markup, "section"), base, 3)

	assert.Equal(t, models.SectionList, sec.Type)
	assert.Equal(t, "list-3", sec.ID)
	assert.Equal(t, "Features", sec.Label)
	assert.Equal(t, base, sec.SourceURL)
	assert.Equal(t, []string{"Features", "Speed"}, sec.Content.Headings)
	assert.Equal(t, "Fast. Reliable and simple.", sec.Content.Text)
	assert.Equal(t, []models.Link{
		{Text: "Getstarted", Href: "https://example.com/start"},
		{Text: "Other", Href: "https://other.org/x"},
	}, sec.Content.Links)
	assert.Equal(t, []models.Image{{Src: "https://example.com/docs/img/a.png", Alt: "A"}}, sec.Content.Images)
	assert.Equal(t, [][]string{{"One", "Two"}}, sec.Content.Lists)
	assert.Equal(t, [][][]string{{{"Plan", "Tier"}, {"Pro", "Gold"}}}, sec.Content.Tables)
	assert.True(t, strings.HasPrefix(sec.RawHTML, "<section>"))
	assert.False(t, sec.Truncated)
}

func TestExtractSection_LabelFallbacks(t *testing.T) {
	sec := ExtractSection(first(t, `<article><p>one two three four five six seven eight nine</p></article>`, "article"), base, 0)
	assert.Equal(t, "one two three four five six seven", sec.Label)

	sec = ExtractSection(first(t, `<article><img src="/x.png"></article>`, "article"), base, 0)
	assert.Equal(t, "Content", sec.Label)

	long := strings.Repeat("x", 80)
	sec = ExtractSection(first(t, `<article><h1>`+long+`</h1></article>`, "article"), base, 0)
	assert.Equal(t, 60, runeLen(sec.Label))
}

func TestExtractSection_Caps(t *testing.T) {
	var b strings.Builder
	b.WriteString("<main>")
	for i := 0; i < 12; i++ {
		b.WriteString("<h4>H</h4><p>" + strings.Repeat("é", 400) + "</p>")
	}
	for i := 0; i < 20; i++ {
		b.WriteString(`<a href="/p` + strings.Repeat("1", i+1) + `">` + strings.Repeat("l", 150) + `</a>`)
	}
	for i := 0; i < 10; i++ {
		b.WriteString(`<img src="/i.png">`)
	}
	b.WriteString("</main>")

	sec := ExtractSection(first(t, b.String(), "main"), base, 0)

	assert.Len(t, sec.Content.Headings, 5)
	assert.Equal(t, MaxSectionText, runeLen(sec.Content.Text))
	assert.Len(t, sec.Content.Links, 15)
	assert.Equal(t, MaxLinkTextLen, runeLen(sec.Content.Links[0].Text))
	assert.Len(t, sec.Content.Images, 8)
	assert.Equal(t, MaxSectionHTML, runeLen(sec.RawHTML))
	assert.True(t, sec.Truncated)
}

func TestExtractSection_LinksAreAbsolute(t *testing.T) {
	markup := `<nav><a href="../a">a</a><a href="?q=1">q</a><a href="//cdn.example.com/x">c</a><a href="">self</a></nav>`
	sec := ExtractSection(first(t, markup, "nav"), base, 0)

	require.NotEmpty(t, sec.Content.Links)
	for _, l := range sec.Content.Links {
		assert.True(t, strings.HasPrefix(l.Href, "http"), l.Href)
	}
}

func TestRemoveNoise(t *testing.T) {
	doc := parse(t, `<body>
		<div id="cookie-banner">Accept cookies</div>
		<div class="modal-wrap"><p>Subscribe</p></div>
		<main><p>Real content</p></main>
	</body>`)

	selectors := []string{"[id*='cookie']", "[class*='modal']", "::not-a-selector("}
	n := RemoveNoise(doc, selectors)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, doc.Find("#cookie-banner").Length())

	before, _ := doc.Html()
	assert.Equal(t, 0, RemoveNoise(doc, selectors))
	after, _ := doc.Html()
	assert.Equal(t, before, after)
}

func TestSegment_Landmarks(t *testing.T) {
	doc := parse(t, `<body>
		<header><h1>Site</h1><p>Tagline</p></header>
		<nav><a href="/">Home</a></nav>
		<main><p>Body text</p></main>
		<footer><p>Bye</p></footer>
	</body>`)

	sections := Segment(doc, base, StaticLimits)

	require.Len(t, sections, 3)
	assert.Equal(t, "hero-0", sections[0].ID)
	assert.Equal(t, "section-2", sections[1].ID)
	assert.Equal(t, "footer-3", sections[2].ID)
}

func TestSegment_LandmarkLimit(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 25; i++ {
		b.WriteString("<section><p>text</p></section>")
	}
	doc := parse(t, b.String())

	assert.Len(t, Segment(doc, base, StaticLimits), 15)
	assert.Len(t, Segment(doc, base, RenderLimits), 20)
}

func TestSegment_HeadingFallback(t *testing.T) {
	doc := parse(t, `<body><div>
		<h2>Intro <a href="/in-title">t</a></h2>
		<p>First.</p>
		<div>skipped</div>
		<p>Second.</p>
		<div><a href="/after">after</a><img src="/pic.png" alt="p"></div>
		<h3></h3>
		<h3>Next</h3>
		<p>More.</p>
	</div></body>`)

	sections := Segment(doc, base, StaticLimits)

	require.Len(t, sections, 2)
	assert.Equal(t, "section-2", sections[1].ID)
	assert.Equal(t, "More.", sections[1].Content.Text)

	intro := sections[0]
	assert.Equal(t, "section-0", intro.ID)
	assert.Equal(t, models.SectionGeneric, intro.Type)
	assert.Equal(t, "Intro t", intro.Label)
	assert.Equal(t, []string{"Intro t"}, intro.Content.Headings)
	assert.Equal(t, "First. Second.", intro.Content.Text)
	assert.Equal(t, []models.Link{
		{Text: "t", Href: "https://example.com/in-title"},
		{Text: "after", Href: "https://example.com/after"},
	}, intro.Content.Links)
	assert.Equal(t, []models.Image{{Src: "https://example.com/pic.png", Alt: "p"}}, intro.Content.Images)
}

func TestSegment_HeadingFallbackPrefixAndSkips(t *testing.T) {
	doc := parse(t, `<div><h1></h1><h2>Next</h2><p>More.</p></div>`)

	sections := Segment(doc, base, RenderLimits)

	require.Len(t, sections, 1)
	assert.Equal(t, "js-section-1", sections[0].ID)
	assert.Equal(t, "More.", sections[0].Content.Text)
}

func TestSegment_EmptyDocument(t *testing.T) {
	sections := Segment(parse(t, `<div></div>`), base, StaticLimits)
	assert.NotNil(t, sections)
	assert.Empty(t, sections)
}

func TestSegment_HeadingFallbackTruncation(t *testing.T) {
	cases := []struct {
		name      string
		heading   int
		text      int
		truncated bool
	}{
		{"within caps", 10, 100, false},
		{"text over cap", 10, MaxHeadingText + 500, true},
		{"markup over cap", MaxHeadingHTML + 200, 100, true},
		{"both over cap", MaxHeadingHTML + 200, MaxHeadingText + 500, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := parse(t, `<div><h2>`+strings.Repeat("T", tc.heading)+`</h2><p>`+strings.Repeat("x", tc.text)+`</p></div>`)

			sections := Segment(doc, base, StaticLimits)

			require.Len(t, sections, 1)
			s := sections[0]
			assert.LessOrEqual(t, len([]rune(s.Content.Text)), MaxHeadingText)
			assert.LessOrEqual(t, len([]rune(s.RawHTML)), MaxHeadingHTML)
			assert.Equal(t, tc.truncated, s.Truncated)
		})
	}
}

func TestExtraction_Idempotent(t *testing.T) {
	doc := parse(t, `<body>
		<header class="hero"><h1>Welcome</h1><p>Intro text.</p><a href="/start">Start</a></header>
		<section id="faq"><h2>Questions</h2><ul><li>One?</li><li>Two?</li></ul></section>
		<section class="pricing"><table><tr><td>Pro</td><td>$10</td></tr></table><img data-src="/p.png"></section>
		<footer><p>Bye</p></footer>
	</body>`)

	doc.Find("header, section, footer").Each(func(i int, s *goquery.Selection) {
		assert.Equal(t, Classify(s), Classify(s))
		assert.Equal(t, ExtractSection(s, base, i), ExtractSection(s, base, i))
	})
	assert.Equal(t, Segment(doc, base, StaticLimits), Segment(doc, base, StaticLimits))

	fallback := parse(t, `<div><h2>Only</h2><p>Para <a href="/x">x</a></p><h3>Next</h3><p>More</p></div>`)
	assert.Equal(t, Segment(fallback, base, RenderLimits), Segment(fallback, base, RenderLimits))
}
