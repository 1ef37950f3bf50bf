package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/law-makers/pagesift/pkg/models"
)

// classifyTextWindow is how much of a node's text the classifier looks at
const classifyTextWindow = 200

// nodeTraits is the lower-cased view of a node the classifier matches on
type nodeTraits struct {
	tag     string
	classes string
	id      string
	text    string
	lists   int
}

func (t nodeTraits) classHas(tokens ...string) bool {
	return containsAny(t.classes, tokens)
}

func (t nodeTraits) anyHas(tokens ...string) bool {
	return containsAny(t.classes, tokens) || containsAny(t.id, tokens) || containsAny(t.text, tokens)
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

type classRule struct {
	typ   models.SectionType
	match func(nodeTraits) bool
}

// classRules is evaluated top to bottom and the first match wins. Content
// can satisfy several rules at once (a pricing grid), so order is priority.
var classRules = []classRule{
	{models.SectionNav, func(t nodeTraits) bool {
		return t.tag == "nav" || t.classHas("nav")
	}},
	{models.SectionFooter, func(t nodeTraits) bool {
		return t.tag == "footer" || t.classHas("footer")
	}},
	{models.SectionHero, func(t nodeTraits) bool {
		return t.tag == "header" || t.classHas("hero", "banner")
	}},
	{models.SectionFAQ, func(t nodeTraits) bool {
		return t.anyHas("faq", "question")
	}},
	{models.SectionPricing, func(t nodeTraits) bool {
		return t.anyHas("pricing", "price")
	}},
	{models.SectionGrid, func(t nodeTraits) bool {
		return t.classHas("grid", "cards")
	}},
	{models.SectionList, func(t nodeTraits) bool {
		return t.lists > 0
	}},
}

// Classify returns the semantic type of a markup node
func Classify(s *goquery.Selection) models.SectionType {
	if s == nil || s.Length() == 0 {
		return models.SectionGeneric
	}
	s = s.First()

	traits := nodeTraits{
		tag:     strings.ToLower(goquery.NodeName(s)),
		classes: strings.ToLower(strings.Join(strings.Fields(s.AttrOr("class", "")), " ")),
		id:      strings.ToLower(s.AttrOr("id", "")),
		text:    capString(strings.ToLower(textOf(s, " ")), classifyTextWindow),
		lists:   min(s.Find("ul, ol").Length(), 3),
	}

	for _, rule := range classRules {
		if rule.match(traits) {
			return rule.typ
		}
	}
	return models.SectionGeneric
}
