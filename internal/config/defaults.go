package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel          = "info"
	DefaultJSONLog           = false
	DefaultUserAgent         = "Mozilla/5.0 (compatible; pagesift/1.0; +https://github.com/law-makers/pagesift)"
	DefaultFetchTimeout      = 15 * time.Second
	DefaultNavigationTimeout = 60 * time.Second
	DefaultRateLimitRPS      = 2.0
	DefaultRateLimitBurst    = 4
	DefaultListenAddr        = ":8080"
	DefaultConcurrency       = 0 // auto
	DefaultMaxConcurrency    = 32
	DefaultHeadless          = true
	DefaultRender            = true
	DefaultReadHeaderTimeout = 10 * time.Second
	EnvPrefix                = "PAGESIFT"
)

// Configuration keys shared by flags, environment and config file
const (
	KeyLogLevel          = "log_level"
	KeyJSONLog           = "json_log"
	KeyUserAgent         = "user_agent"
	KeyProxies           = "proxies"
	KeyHeaders           = "headers"
	KeyFetchTimeout      = "fetch_timeout"
	KeyNavigationTimeout = "navigation_timeout"
	KeyRateLimitRPS      = "rate_limit_rps"
	KeyRateLimitBurst    = "rate_limit_burst"
	KeyRulesFile         = "rules_file"
	KeyListenAddr        = "listen_addr"
	KeyConcurrency       = "concurrency"
	KeyHeadless          = "headless"
	KeyRender            = "render"
	KeyChromePath        = "chrome_path"
)
