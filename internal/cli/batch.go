// internal/cli/batch.go
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/law-makers/pagesift/internal/engine"
	"github.com/law-makers/pagesift/internal/engine/batch"
	"github.com/law-makers/pagesift/internal/ui"
	"github.com/law-makers/pagesift/internal/utils/output"
	urlutil "github.com/law-makers/pagesift/internal/utils/url"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var batchOutDir string

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Extract many pages concurrently",
	Long: `Reads one URL per line from a file, or from stdin when the file is "-", and
scrapes them concurrently. Blank lines and lines starting with # are ignored.
Each result is written as JSON into the output directory.`,
	Example: `  # Scrape a list with 4 workers
  pagesift batch urls.txt -c 4 -o results

  # Read URLs from stdin
  cat urls.txt | pagesift batch -`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("concurrency", "c", 0, "Parallel scrapes (0 picks from CPU and memory)")
	batchCmd.Flags().StringVarP(&batchOutDir, "output", "o", "results", "Directory for the JSON results")
}

func runBatch(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	urls, err := readURLs(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return fmt.Errorf("no valid URLs in %s", args[0])
	}
	if err := os.MkdirAll(batchOutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	runner := batch.New(a.Engine, a.Config.Concurrency)
	log.Info().Int("urls", len(urls)).Int("concurrency", runner.Concurrency()).Msg("Starting batch")

	bar := progressbar.NewOptions(len(urls),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription("Scraping"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	var done, withErrors, writeFailures int
	for item := range runner.Run(cmd.Context(), urls) {
		path := filepath.Join(batchOutDir, resultFileName(item.Job))
		if err := output.SaveJSON(item.Result, path); err != nil {
			log.Error().Err(err).Str("url", item.URL).Msg("Failed to write result")
			writeFailures++
		}
		if len(item.Result.Errors) > 0 {
			withErrors++
		}
		done++
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	fmt.Fprintln(cmd.ErrOrStderr(), ui.Success(fmt.Sprintf("✓ %d/%d pages written to %s", done-writeFailures, len(urls), batchOutDir)))
	if withErrors > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Info(fmt.Sprintf("%d results carry extraction errors", withErrors)))
	}
	if err := cmd.Context().Err(); err != nil {
		return fmt.Errorf("batch interrupted after %d of %d pages: %w", done, len(urls), err)
	}
	if writeFailures > 0 {
		return fmt.Errorf("%d results could not be written", writeFailures)
	}
	return nil
}

// readURLs reads a URL list, skipping comments and invalid entries
func readURLs(stdin io.Reader, name string) ([]string, error) {
	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := engine.CheckURL(line); err != nil {
			log.Warn().Err(err).Msg("Skipping URL")
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9.-]+`)

// resultFileName keeps input order visible and the host readable
func resultFileName(j batch.Job) string {
	host := unsafeName.ReplaceAllString(urlutil.Hostname(j.URL), "_")
	if host == "" {
		host = "page"
	}
	return fmt.Sprintf("%04d-%s.json", j.Index, host)
}
