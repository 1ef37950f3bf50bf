package output

import (
	"path/filepath"
	"strings"

	"github.com/law-makers/pagesift/pkg/models"
)

// Save writes res to path in the format its extension names. Unknown
// extensions get JSON.
func Save(res *models.ScrapeResult, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return SaveMarkdown(res, path)
	case ".csv":
		return SaveCSV(res, path)
	default:
		return SaveJSON(res, path)
	}
}
