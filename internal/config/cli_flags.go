package config

import "github.com/spf13/cobra"

// flagKeys maps CLI flag names onto configuration keys
var flagKeys = map[string]string{
	"json":        KeyJSONLog,
	"user-agent":  KeyUserAgent,
	"proxy":       KeyProxies,
	"timeout":     KeyFetchTimeout,
	"nav-timeout": KeyNavigationTimeout,
	"rate-limit":  KeyRateLimitRPS,
	"rate-burst":  KeyRateLimitBurst,
	"rules":       KeyRulesFile,
	"addr":        KeyListenAddr,
	"concurrency": KeyConcurrency,
	"headless":    KeyHeadless,
	"render":      KeyRender,
	"chrome-path": KeyChromePath,
}

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	f := cmd.PersistentFlags()
	f.BoolP("verbose", "v", false, "Enable debug logging")
	f.BoolP("quiet", "q", false, "Suppress all output except errors")
	f.Bool("json", DefaultJSONLog, "Log in JSON format")
	f.String("config", "", "Path to configuration file (default $HOME/.pagesift.yaml)")
	f.StringSlice("proxy", nil, "Upstream proxy, repeatable (e.g. http://localhost:8080)")
	f.Duration("timeout", DefaultFetchTimeout, "Timeout for the static fetch")
	f.Duration("nav-timeout", DefaultNavigationTimeout, "Timeout for browser navigation")
	f.String("user-agent", "", "Custom user agent string")
	f.StringArrayP("header", "H", nil, "Extra request header for the static fetch, repeatable (e.g. -H \"Accept-Language: de\")")
	f.Float64("rate-limit", DefaultRateLimitRPS, "Requests per second per host (0 disables)")
	f.Int("rate-burst", DefaultRateLimitBurst, "Burst size per host")
	f.String("rules", "", "YAML file overriding the heuristic selector and domain lists")
	f.String("chrome-path", "", "Chrome/Chromium executable (auto-detected if empty)")
	f.Bool("headless", DefaultHeadless, "Run the browser headless")
	f.Bool("render", DefaultRender, "Allow falling back to browser rendering")
}
