// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// JWTConfig provides session token validation settings.
type JWTConfig interface {
	GetJWTSessionSecret() string
	GetSessionCookieName() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetMetricsAddr() string
}

// DispatchConfig provides the static tables consumed by the request dispatcher.
type DispatchConfig interface {
	GetCanonicalDomain() string
	GetPreviewDomainSuffix() string
	GetTunnelDomainMarker() string
	GetPublicRoutes() []string
	GetIgnoredRoutes() []string
	GetPassthroughRoutes() []string
	GetSupportedLocales() []string
	GetDefaultLocale() string
	GetLocaleCookieName() string
	GetSignInURL() string
	GetLookupTimeout() time.Duration
}

// RedisConfig provides Redis connection settings shared by the cache and queue.
type RedisConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// TinybirdConfig provides settings for the analytics API client.
type TinybirdConfig interface {
	GetTinybirdURL() string
	GetTinybirdToken() string
	GetHomeCacheTTL() time.Duration
	GetHomeMonitorID() string
	IsTinybirdEnabled() bool
}

// CheckerConfig provides settings for the uptime checker queue.
type CheckerConfig interface {
	RedisConfig
	GetCronSecret() string
	GetCheckerQueueName() string
	GetCheckerConcurrency() int
	GetCheckerTimeout() time.Duration
	GetCheckerRegions() []string
}

// WebhookConfig provides settings for the auth-provider webhook.
type WebhookConfig interface {
	GetWebhookSecret() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	MetricsAddr         string
	DatabaseURL         string
	JWTSessionSecret    string
	SessionCookieName   string
	CORSAllowAll        bool
	CORSOrigins         []string
	CORSAllowCreds      bool
	CanonicalDomain     string
	PreviewDomainSuffix string
	TunnelDomainMarker  string
	PublicRoutes        []string
	IgnoredRoutes       []string
	PassthroughRoutes   []string
	SupportedLocales    []string
	DefaultLocale       string
	LocaleCookieName    string
	SignInURL           string
	LookupTimeout       time.Duration
	RedisURL            string
	RedisTLSInsecure    bool
	TinybirdURL         string
	TinybirdToken       string
	HomeCacheTTL        time.Duration
	HomeMonitorID       string
	CronSecret          string
	CheckerQueueName    string
	CheckerConcurrency  int
	CheckerTimeout      time.Duration
	CheckerRegions      []string
	WebhookSecret       string
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// JWTConfig implementation
func (c *Config) GetJWTSessionSecret() string  { return c.JWTSessionSecret }
func (c *Config) GetSessionCookieName() string { return c.SessionCookieName }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetMetricsAddr() string   { return c.MetricsAddr }

// DispatchConfig implementation
func (c *Config) GetCanonicalDomain() string      { return c.CanonicalDomain }
func (c *Config) GetPreviewDomainSuffix() string  { return c.PreviewDomainSuffix }
func (c *Config) GetTunnelDomainMarker() string   { return c.TunnelDomainMarker }
func (c *Config) GetPublicRoutes() []string       { return c.PublicRoutes }
func (c *Config) GetIgnoredRoutes() []string      { return c.IgnoredRoutes }
func (c *Config) GetPassthroughRoutes() []string  { return c.PassthroughRoutes }
func (c *Config) GetSupportedLocales() []string   { return c.SupportedLocales }
func (c *Config) GetDefaultLocale() string        { return c.DefaultLocale }
func (c *Config) GetLocaleCookieName() string     { return c.LocaleCookieName }
func (c *Config) GetSignInURL() string            { return c.SignInURL }
func (c *Config) GetLookupTimeout() time.Duration { return c.LookupTimeout }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool { return c.RedisTLSInsecure }

// TinybirdConfig implementation
func (c *Config) GetTinybirdURL() string         { return c.TinybirdURL }
func (c *Config) GetTinybirdToken() string       { return c.TinybirdToken }
func (c *Config) GetHomeCacheTTL() time.Duration { return c.HomeCacheTTL }
func (c *Config) GetHomeMonitorID() string       { return c.HomeMonitorID }
func (c *Config) IsTinybirdEnabled() bool        { return c.TinybirdToken != "" }

// CheckerConfig implementation
func (c *Config) GetCronSecret() string            { return c.CronSecret }
func (c *Config) GetCheckerQueueName() string      { return c.CheckerQueueName }
func (c *Config) GetCheckerConcurrency() int       { return c.CheckerConcurrency }
func (c *Config) GetCheckerTimeout() time.Duration { return c.CheckerTimeout }
func (c *Config) GetCheckerRegions() []string      { return c.CheckerRegions }

// WebhookConfig implementation
func (c *Config) GetWebhookSecret() string { return c.WebhookSecret }

const (
	defaultPublicRoutes = "/,/play,/play/*,/monitor/*,/api/*,/api/webhook/auth,/api/checker/regions/*," +
		"/api/checker/cron/10m,/app/sign-up,/app/sign-up/*,/blog,/blog/*,/legal/*,/discord,/github,/oss-friends,/status-page/*,/incidents"
	defaultIgnoredRoutes     = "/api/og,/discord,/github"
	defaultPassthroughRoutes = "/api/*"
)

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		MetricsAddr:         getEnv("METRICS_ADDR", ":9090"),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		JWTSessionSecret:    getEnv("JWT_SESSION_SECRET", ""),
		SessionCookieName:   getEnv("SESSION_COOKIE_NAME", "__session"),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		CORSAllowCreds:      strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		CanonicalDomain:     normalizeDomain(getEnv("PUBLIC_URL", "openstatus.dev")),
		PreviewDomainSuffix: getEnv("PREVIEW_DOMAIN_SUFFIX", ".vercel.app"),
		TunnelDomainMarker:  getEnv("TUNNEL_DOMAIN_MARKER", "ngrok-free.app"),
		PublicRoutes:        splitCSV(getEnv("PUBLIC_ROUTES", defaultPublicRoutes)),
		IgnoredRoutes:       splitCSV(getEnv("IGNORED_ROUTES", defaultIgnoredRoutes)),
		PassthroughRoutes:   splitCSV(getEnv("PASSTHROUGH_ROUTES", defaultPassthroughRoutes)),
		SupportedLocales:    splitCSV(getEnv("SUPPORTED_LOCALES", "en,es,fr,de")),
		DefaultLocale:       getEnv("DEFAULT_LOCALE", "en"),
		LocaleCookieName:    getEnv("LOCALE_COOKIE_NAME", "locale"),
		SignInURL:           getEnv("SIGN_IN_URL", "/app/sign-in"),
		LookupTimeout:       mustDuration(getEnv("LOOKUP_TIMEOUT", "2s")),
		RedisURL:            getEnv("REDIS_URL", ""),
		RedisTLSInsecure:    strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		TinybirdURL:         getEnv("TINYBIRD_URL", "https://api.tinybird.co"),
		TinybirdToken:       getEnv("TINYBIRD_TOKEN", ""),
		HomeCacheTTL:        mustDuration(getEnv("HOME_CACHE_TTL", "10m")),
		HomeMonitorID:       getEnv("HOME_MONITOR_ID", "1"),
		CronSecret:          getEnv("CRON_SECRET", ""),
		CheckerQueueName:    getEnv("CHECKER_QUEUE", "checker"),
		CheckerConcurrency:  mustInt(getEnv("CHECKER_CONCURRENCY", "10")),
		CheckerTimeout:      mustDuration(getEnv("CHECKER_TIMEOUT", "10s")),
		CheckerRegions:      splitCSV(getEnv("CHECKER_REGIONS", "ams,iad,gru,syd,hkg,jnb")),
		WebhookSecret:       getEnv("WEBHOOK_SECRET", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSessionSecret == "" {
		return nil, fmt.Errorf("JWT_SESSION_SECRET is required")
	}
	if cfg.CanonicalDomain == "" {
		return nil, fmt.Errorf("PUBLIC_URL is required")
	}
	if !containsValue(cfg.SupportedLocales, cfg.DefaultLocale) {
		return nil, fmt.Errorf("DEFAULT_LOCALE %q must be one of SUPPORTED_LOCALES", cfg.DefaultLocale)
	}
	if cfg.LookupTimeout <= 0 {
		return nil, fmt.Errorf("LOOKUP_TIMEOUT must be a positive duration")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	return containsValue(values, "*")
}

func containsValue(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

// normalizeDomain accepts either a bare host or a URL and returns the host part.
func normalizeDomain(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if idx := strings.Index(value, "://"); idx >= 0 {
		value = value[idx+3:]
	}
	if idx := strings.IndexAny(value, "/?#"); idx >= 0 {
		value = value[:idx]
	}
	return value
}
