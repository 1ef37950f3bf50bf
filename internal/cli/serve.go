// internal/cli/serve.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/law-makers/pagesift/internal/config"
	"github.com/law-makers/pagesift/internal/ratelimit"
	"github.com/law-makers/pagesift/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
	pruneInterval   = 5 * time.Minute
	bucketIdle      = time.Hour
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extractor over HTTP",
	Long: `Starts an HTTP server with a form page at /, POST /scrape taking {"url": "..."}
and GET /healthz.`,
	Example: `  pagesift serve --addr :9000`,
	Args:    cobra.NoArgs,
	RunE:    runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", config.DefaultListenAddr, "Listen address")
}

func runServe(cmd *cobra.Command, args []string) error {
	a := GetAppFromCmd(cmd)
	if a == nil {
		return fmt.Errorf("application not initialized")
	}

	srv := &http.Server{
		Addr:              a.Config.ListenAddr,
		Handler:           server.NewRouter(a.Engine),
		ReadHeaderTimeout: config.DefaultReadHeaderTimeout,
	}

	if dl, ok := a.RateLimiter.(*ratelimit.DomainLimiter); ok {
		go pruneBuckets(cmd.Context(), dl)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-cmd.Context().Done():
	}

	log.Info().Msg("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}

// pruneBuckets keeps the per-host limiter from growing without bound while
// the server runs
func pruneBuckets(ctx context.Context, dl *ratelimit.DomainLimiter) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := dl.Prune(bucketIdle); n > 0 {
				log.Debug().Int("hosts", n).Msg("Pruned idle rate limit buckets")
			}
		}
	}
}
