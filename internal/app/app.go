// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/law-makers/pagesift/internal/config"
	"github.com/law-makers/pagesift/internal/engine"
	"github.com/law-makers/pagesift/internal/engine/dynamic"
	"github.com/law-makers/pagesift/internal/engine/static"
	"github.com/law-makers/pagesift/internal/proxy"
	"github.com/law-makers/pagesift/internal/ratelimit"
	"github.com/law-makers/pagesift/internal/rules"
	"github.com/law-makers/pagesift/internal/utils/headers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once per CLI invocation and shared by the command that runs.
// Use Close() to release pooled connections on shutdown.
type Application struct {
	Config      *config.Config
	Logger      *zerolog.Logger
	Rules       *rules.Rules
	RateLimiter ratelimit.RateLimiter
	Proxies     *proxy.Pool
	HTTPClient  *http.Client
	Fetcher     *static.Fetcher
	Driver      *dynamic.Driver
	Engine      *engine.Engine
	startTime   time.Time
}

// New creates and initializes a new Application with all dependencies.
//
// It performs the following initialization steps:
//   - Configures the global logger
//   - Loads the heuristic rules, from the rules file if one is configured
//   - Creates the per-host rate limiter and the proxy pool
//   - Creates the HTTP client, routing each request through its proxy
//   - Wires the static fetcher and browser driver into the engine
//
// No browser is started here; each render launches its own.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := ConfigureLogging(cfg.LogLevel, cfg.JSONLog, os.Stderr)

	ruleSet := rules.Default()
	if cfg.RulesFile != "" {
		loaded, err := rules.Load(cfg.RulesFile)
		if err != nil {
			return nil, err
		}
		ruleSet = loaded
		logger.Debug().Str("file", cfg.RulesFile).Msg("Rules loaded")
	}

	var limiter ratelimit.RateLimiter = ratelimit.Unlimited{}
	if cfg.RateLimitRPS > 0 {
		limiter = ratelimit.NewDomainLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	logger.Debug().
		Float64("rps", cfg.RateLimitRPS).
		Int("burst", cfg.RateLimitBurst).
		Msg("Rate limiter initialized")

	proxies := proxy.NewPool(cfg.Proxies)

	httpClient := &http.Client{
		Transport: &http.Transport{
			Proxy: proxy.FromRequest,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: cfg.FetchTimeout,
		},
	}

	fetcher := static.New(httpClient, limiter, proxies, ruleSet.Noise, cfg.FetchTimeout, cfg.UserAgent)
	fetcher.SetHeaders(headers.ParseHeaders(cfg.Headers))

	timings := dynamic.DefaultTimings()
	timings.Navigation = cfg.NavigationTimeout
	driver := dynamic.New(&dynamic.ChromeLauncher{
		ExecPath:  cfg.ChromePath,
		Headless:  cfg.Headless,
		UserAgent: cfg.UserAgent,
	}, ruleSet, proxies, timings)

	var renderer engine.Renderer
	if cfg.Render {
		renderer = driver
	}

	a := &Application{
		Config:      cfg,
		Logger:      &logger,
		Rules:       ruleSet,
		RateLimiter: limiter,
		Proxies:     proxies,
		HTTPClient:  httpClient,
		Fetcher:     fetcher,
		Driver:      driver,
		Engine:      engine.New(fetcher, renderer, ruleSet),
		startTime:   time.Now(),
	}

	logger.Debug().
		Int("proxies", proxies.Len()).
		Bool("render", cfg.Render).
		Msg("Application initialized")
	return a, nil
}

// ConfigureLogging sets the global zerolog level and writer. Console output
// is used unless jsonLog is set.
func ConfigureLogging(level string, jsonLog bool, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	if !jsonLog {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return log.Logger
}

// Close releases idle connections
func (a *Application) Close(ctx context.Context) error {
	if a.HTTPClient != nil {
		a.HTTPClient.CloseIdleConnections()
	}

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
