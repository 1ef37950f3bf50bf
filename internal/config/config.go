package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// Static fetch
	FetchTimeout time.Duration
	UserAgent    string
	Headers      []string
	Proxies      []string

	// Rate limiting, per host
	RateLimitRPS   float64
	RateLimitBurst int

	// Browser
	Render            bool
	Headless          bool
	ChromePath        string
	NavigationTimeout time.Duration

	RulesFile   string
	ListenAddr  string
	Concurrency int
}

// Load builds a Config by combining defaults, an optional config file,
// PAGESIFT_* environment variables and CLI flags, in rising precedence.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	return LoadWith(viper.New(), cmd)
}

// LoadWith is Load on a caller-supplied viper instance
func LoadWith(v *viper.Viper, cmd *cobra.Command) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cmd != nil {
		flags := cmd.Flags()
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := readConfigFile(v, cmd); err != nil {
		return nil, err
	}

	cfg := &Config{
		LogLevel:          v.GetString(KeyLogLevel),
		JSONLog:           v.GetBool(KeyJSONLog),
		FetchTimeout:      v.GetDuration(KeyFetchTimeout),
		UserAgent:         v.GetString(KeyUserAgent),
		Headers:           v.GetStringSlice(KeyHeaders),
		Proxies:           splitList(v.GetStringSlice(KeyProxies)),
		RateLimitRPS:      v.GetFloat64(KeyRateLimitRPS),
		RateLimitBurst:    v.GetInt(KeyRateLimitBurst),
		Render:            v.GetBool(KeyRender),
		Headless:          v.GetBool(KeyHeadless),
		ChromePath:        v.GetString(KeyChromePath),
		NavigationTimeout: v.GetDuration(KeyNavigationTimeout),
		RulesFile:         v.GetString(KeyRulesFile),
		ListenAddr:        v.GetString(KeyListenAddr),
		Concurrency:       v.GetInt(KeyConcurrency),
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cmd != nil {
		if f := cmd.Flags().Lookup("verbose"); f != nil && f.Value.String() == "true" {
			cfg.LogLevel = "debug"
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil && f.Value.String() == "true" {
			cfg.LogLevel = "error"
		}
		// header values may contain commas, so they bypass viper's list parsing
		if f := cmd.Flags().Lookup("header"); f != nil && f.Changed {
			if hs, err := cmd.Flags().GetStringArray("header"); err == nil {
				cfg.Headers = hs
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyJSONLog, DefaultJSONLog)
	v.SetDefault(KeyUserAgent, DefaultUserAgent)
	v.SetDefault(KeyProxies, []string{})
	v.SetDefault(KeyHeaders, []string{})
	v.SetDefault(KeyFetchTimeout, DefaultFetchTimeout)
	v.SetDefault(KeyNavigationTimeout, DefaultNavigationTimeout)
	v.SetDefault(KeyRateLimitRPS, DefaultRateLimitRPS)
	v.SetDefault(KeyRateLimitBurst, DefaultRateLimitBurst)
	v.SetDefault(KeyRulesFile, "")
	v.SetDefault(KeyListenAddr, DefaultListenAddr)
	v.SetDefault(KeyConcurrency, DefaultConcurrency)
	v.SetDefault(KeyHeadless, DefaultHeadless)
	v.SetDefault(KeyRender, DefaultRender)
	v.SetDefault(KeyChromePath, "")
}

// readConfigFile loads --config if given, else an optional .pagesift.yaml
// from the working or home directory
func readConfigFile(v *viper.Viper, cmd *cobra.Command) error {
	var explicit string
	if cmd != nil {
		if f := cmd.Flags().Lookup("config"); f != nil {
			explicit = f.Value.String()
		}
	}

	if explicit != "" {
		v.SetConfigFile(explicit)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		return nil
	}

	v.SetConfigName(".pagesift")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// splitList accepts both repeated values and comma separated strings
func splitList(in []string) []string {
	out := []string{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
