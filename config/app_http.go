package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/swipefolio/landing-api/config/router"
)

// HTTPConfig holds the listener, middleware and default rate-limit settings.
type HTTPConfig struct {
	Port                string        `envconfig:"APP_PORT" default:"8080"`
	GinMode             string        `envconfig:"GIN_MODE"`
	TrustedProxies      string        `envconfig:"TRUSTED_PROXIES"`
	CORSAllowedOrigin   string        `envconfig:"CORS_ALLOWED_ORIGIN"`
	MaxRequestBodyBytes int64         `envconfig:"MAX_REQUEST_BODY_BYTES" default:"1048576"`
	RateLimitRequests   int           `envconfig:"RATE_LIMIT_REQUESTS" default:"100"`
	RateLimitWindow     time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
	RequestTimeout      time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	MetricsEnabled      bool          `envconfig:"METRICS_ENABLED" default:"true"`

	// HSTSEnabled is tri-state: empty follows APP_ENV (on in production).
	HSTSEnabled           string `envconfig:"HSTS_ENABLED"`
	HSTSMaxAge            int64  `envconfig:"HSTS_MAX_AGE" default:"31536000"`
	HSTSIncludeSubdomains bool   `envconfig:"HSTS_INCLUDE_SUBDOMAINS" default:"true"`
}

func LoadHTTPConfig() (*HTTPConfig, error) {
	var c HTTPConfig
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("load http config: %w", err)
	}

	if c.RateLimitRequests <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests)
	}
	if c.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	if c.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.MaxRequestBodyBytes <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_BYTES must be positive, got %d", c.MaxRequestBodyBytes)
	}
	if _, err := c.hstsEnabled(""); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *HTTPConfig) hstsEnabled(appEnv string) (bool, error) {
	raw := strings.TrimSpace(c.HSTSEnabled)
	if raw == "" {
		return appEnv == "production" || appEnv == "prod", nil
	}

	enabled, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("HSTS_ENABLED must be a boolean, got %q", c.HSTSEnabled)
	}
	return enabled, nil
}

// RouterConfig translates the environment view into what the router needs.
// An empty tracingService leaves the otelgin middleware off.
func (c *HTTPConfig) RouterConfig(appEnv, tracingService string) *router.RouterConfig {
	hsts, _ := c.hstsEnabled(appEnv)

	return &router.RouterConfig{
		Port:              c.Port,
		GinMode:           c.GinMode,
		TrustedProxies:    router.ParseTrustedProxies(c.TrustedProxies),
		AllowedOrigins:    splitList(c.CORSAllowedOrigin),
		MaxBodyBytes:      c.MaxRequestBodyBytes,
		RateLimitRequests: c.RateLimitRequests,
		RateLimitWindow:   c.RateLimitWindow,
		RequestTimeout:    c.RequestTimeout,
		MetricsEnabled:    c.MetricsEnabled,
		TracingService:    tracingService,
		HSTS: router.HSTSPolicy{
			Enabled:           hsts,
			MaxAge:            c.HSTSMaxAge,
			IncludeSubdomains: c.HSTSIncludeSubdomains,
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
