package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/law-makers/pagesift/pkg/models"
)

// WriteJSON writes the indented JSON form of res to w
func WriteJSON(w io.Writer, res *models.ScrapeResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(res)
}

// SaveJSON writes the JSON form of res to filepath
func SaveJSON(res *models.ScrapeResult, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, res)
}
