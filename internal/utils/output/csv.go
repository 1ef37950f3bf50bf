package output

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/law-makers/pagesift/pkg/models"
)

var csvHeader = []string{"id", "type", "label", "source_url", "headings", "text", "links", "images", "truncated"}

// WriteCSV writes one row per section
func WriteCSV(w io.Writer, res *models.ScrapeResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range res.Sections {
		links := make([]string, 0, len(s.Content.Links))
		for _, l := range s.Content.Links {
			links = append(links, l.Href)
		}
		images := make([]string, 0, len(s.Content.Images))
		for _, img := range s.Content.Images {
			images = append(images, img.Src)
		}

		row := []string{
			s.ID,
			string(s.Type),
			s.Label,
			s.SourceURL,
			strings.Join(s.Content.Headings, " | "),
			s.Content.Text,
			strings.Join(links, " "),
			strings.Join(images, " "),
			strconv.FormatBool(s.Truncated),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// SaveCSV writes the sections of res to a CSV file
func SaveCSV(res *models.ScrapeResult, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, res)
}
