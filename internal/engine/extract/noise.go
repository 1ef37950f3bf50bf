package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// RemoveNoise deletes every element matched by any selector. Selectors that
// fail to compile match nothing. Running it twice changes nothing further.
func RemoveNoise(doc *goquery.Document, selectors []string) int {
	if doc == nil {
		return 0
	}
	removed := 0
	for _, sel := range selectors {
		matched := doc.Find(sel)
		if n := matched.Length(); n > 0 {
			removed += n
			matched.Remove()
		}
	}
	if removed > 0 {
		log.Debug().Int("removed", removed).Msg("Removed noise elements")
	}
	return removed
}
