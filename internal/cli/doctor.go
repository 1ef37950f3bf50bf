// internal/cli/doctor.go
package cli

import (
	"fmt"

	"github.com/law-makers/pagesift/internal/engine/dynamic"
	"github.com/law-makers/pagesift/internal/ui"
	"github.com/spf13/cobra"
)

// doctorCmd reports what the browser phase would run with
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the browser and configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return fmt.Errorf("application not initialized")
		}
		w := cmd.OutOrStdout()
		cfg := a.Config

		path := dynamic.FindChrome(cfg.ChromePath)
		if path == "" {
			fmt.Fprintf(w, "%s  %s\n", ui.Bold("Browser"), ui.Error("not found"))
		} else {
			fmt.Fprintf(w, "%s  %s (%s)\n", ui.Bold("Browser"), ui.Success(path), dynamic.GetChromeVersion(path))
		}
		fmt.Fprintf(w, "%s   %t\n", ui.Bold("Render"), cfg.Render)
		fmt.Fprintf(w, "%s  %d\n", ui.Bold("Proxies"), a.Proxies.Len())
		fmt.Fprintf(w, "%s    %d JS-heavy domains, %d noise selectors\n",
			ui.Bold("Rules"), len(a.Rules.JSHeavyDomains), len(a.Rules.Noise))
		fmt.Fprintf(w, "%s %s fetch, %s navigation\n",
			ui.Bold("Timeouts"), cfg.FetchTimeout, cfg.NavigationTimeout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
