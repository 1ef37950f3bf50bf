// internal/cli/scrape.go
package cli

import (
	"fmt"

	"github.com/law-makers/pagesift/internal/engine"
	"github.com/law-makers/pagesift/internal/ui"
	"github.com/law-makers/pagesift/internal/utils/output"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var scrapeOutput string

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Extract the sections of one page",
	Long: `Fetches the page over HTTP and splits it into classified sections. When the
static result is thin, empty or the host is known to need scripts, the page is
rendered in a headless browser instead.

The result is printed as JSON unless --output is given.`,
	Example: `  # Print the result as JSON
  pagesift scrape https://example.com

  # Save as Markdown or CSV, chosen by extension
  pagesift scrape https://example.com -o page.md
  pagesift scrape https://example.com -o sections.csv

  # Never start a browser
  pagesift scrape https://example.com --render=false`,
	Args: cobra.ExactArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "File path to save output (.json, .md or .csv)")
}

func runScrape(cmd *cobra.Command, args []string) error {
	url := args[0]
	if err := engine.CheckURL(url); err != nil {
		return err
	}

	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	res := a.Engine.Scrape(cmd.Context(), url)

	if scrapeOutput == "" {
		return output.WriteJSON(cmd.OutOrStdout(), res)
	}
	if err := output.Save(res, scrapeOutput); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	log.Info().Str("file", scrapeOutput).Int("sections", len(res.Sections)).Msg("Output saved")
	fmt.Fprintln(cmd.ErrOrStderr(), ui.Success("✓ Saved to "+scrapeOutput))
	return nil
}
