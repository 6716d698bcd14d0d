package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	ProviderGooten   = "gooten"
	ProviderPrintify = "printify"
)

// Mode is chosen once at startup from the presence of the provider credential.
type Mode int

const (
	ModeDemo Mode = iota
	ModeLive
)

func (m Mode) String() string {
	if m == ModeLive {
		return "live"
	}
	return "demo"
}

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOGFILE"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:"localhost:4242"`

	Provider       string `env:"FULFILLMENT_PROVIDER" envDefault:"gooten"`
	GootenAPIKey   string `env:"GOOTEN_API_KEY"`
	GootenOrderURL string `env:"GOOTEN_ORDER_URL" envDefault:"https://api.print.io/api/v/3/source/api-gooten/order/"`
	PrintifyToken  string `env:"PRINTIFY_API_TOKEN"`
	ShopID         int    `env:"SHOP_ID" envDefault:"0"`

	ProviderTimeoutSecs int `env:"PROVIDER_TIMEOUT_SECONDS" envDefault:"15"`

	// Circuit breaker around the provider. Tripping never causes a retry,
	// the attempt fails straight to the manual order path.
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	CatalogFile string `env:"CATALOG_FILE"`

	SuccessPath     string `env:"SUCCESS_PATH" envDefault:"/checkout/success"`
	SupportEmail    string `env:"SUPPORT_EMAIL" envDefault:"hello@visionart.com"`
	FallbackSubject string `env:"FALLBACK_SUBJECT" envDefault:"Gooten Sipariş"`

	CSRFAuthKey string `env:"CSRF_AUTH_TOKEN"`
	CSRFSecure  bool   `env:"CSRF_SECURE" envDefault:"true"`

	// Mode is derived in Load and never re-read from the environment.
	Mode Mode
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", slog.String("error", err.Error()))
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Mode = cfg.selectMode()
	return cfg, nil
}

func (c *Config) selectMode() Mode {
	switch c.Provider {
	case ProviderPrintify:
		if c.PrintifyToken != "" {
			return ModeLive
		}
	default:
		if c.GootenAPIKey != "" {
			return ModeLive
		}
	}
	return ModeDemo
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderGooten:
		if _, err := url.ParseRequestURI(c.GootenOrderURL); err != nil {
			return fmt.Errorf("invalid GOOTEN_ORDER_URL %q: %w", c.GootenOrderURL, err)
		}
	case ProviderPrintify:
		if c.PrintifyToken != "" && c.ShopID <= 0 {
			return fmt.Errorf("SHOP_ID is required when PRINTIFY_API_TOKEN is set")
		}
	default:
		return fmt.Errorf("unknown FULFILLMENT_PROVIDER %q", c.Provider)
	}
	if c.ProviderTimeoutSecs <= 0 {
		return fmt.Errorf("PROVIDER_TIMEOUT_SECONDS must be positive, got %d", c.ProviderTimeoutSecs)
	}
	if c.CBFailureRatio < 0 || c.CBFailureRatio > 1.0 {
		return fmt.Errorf("CB_FAILURE_RATIO must be between 0.0 and 1.0, got %f", c.CBFailureRatio)
	}
	if c.CSRFAuthKey != "" && len(c.CSRFAuthKey) != 32 {
		return fmt.Errorf("CSRF_AUTH_TOKEN must be 32 bytes, got %d", len(c.CSRFAuthKey))
	}
	if !strings.HasPrefix(c.SuccessPath, "/") {
		return fmt.Errorf("SUCCESS_PATH must be an absolute path, got %q", c.SuccessPath)
	}
	if c.SupportEmail == "" {
		return fmt.Errorf("SUPPORT_EMAIL is required")
	}
	return nil
}

func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.ProviderTimeoutSecs) * time.Second
}

// ProviderName is the provider actually used for submissions.
func (c *Config) ProviderName() string {
	if c.Mode == ModeDemo {
		return "demo"
	}
	return c.Provider
}
