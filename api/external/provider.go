package external

/* Fulfillment provider submission: one attempt per call, never retried */

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"visionstore/config"
	"visionstore/metrics"
	"visionstore/order"
)

// Submitter sends one order to the fulfillment side and classifies the result.
// Implementations never retry; a failed outcome is final for that attempt.
type Submitter interface {
	Submit(ctx context.Context, req order.Request) order.Outcome
	Name() string
}

// Placeholders fill ship-to fields the visitor left blank so the provider
// does not reject an order only because an optional field is missing.
type Placeholders struct {
	FirstName  string
	LastName   string
	Line1      string
	City       string
	PostalCode string
	Email      string
}

var DefaultPlaceholders = Placeholders{
	FirstName:  "Vision",
	LastName:   "Customer",
	Line1:      "Test Address",
	City:       "Istanbul",
	PostalCode: "34000",
	Email:      "hello@visionart.com",
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// countryCode falls back to the market's country and is always upper case.
func countryCode(req order.Request) string {
	return strings.ToUpper(orDefault(req.Shipping.CountryCode, req.Market.DefaultCountry()))
}

// DemoSubmitter is used when no provider credential is configured. It never
// leaves the process.
type DemoSubmitter struct {
	SuccessPath string
}

func (d DemoSubmitter) Submit(_ context.Context, _ order.Request) order.Outcome {
	return order.Redirect(d.SuccessPath, "demo")
}

func (d DemoSubmitter) Name() string {
	return "demo"
}

// NewSubmitter picks the implementation for the mode fixed at startup.
func NewSubmitter(cfg *config.Config, m *metrics.Metrics, logger *slog.Logger) Submitter {
	if cfg.Mode == config.ModeDemo {
		logger.Warn("no fulfillment credential configured, running in demo mode",
			slog.String("provider", cfg.Provider),
			slog.String("success_path", cfg.SuccessPath),
		)
		return DemoSubmitter{SuccessPath: cfg.SuccessPath}
	}

	if cfg.Provider == config.ProviderPrintify {
		logger.Info("submitting orders to printify", slog.Int("shop_id", cfg.ShopID))
		return NewPrintifyClient(cfg.PrintifyToken, cfg.ShopID, cfg.ProviderTimeout(), logger)
	}

	logger.Info("submitting orders to gooten", slog.String("url", cfg.GootenOrderURL))
	return NewGootenClient(GootenConfig{
		OrderURL: cfg.GootenOrderURL,
		APIKey:   cfg.GootenAPIKey,
		Breaker: BreakerConfig{
			Name:         "gooten",
			MaxRequests:  cfg.CBMaxRequests,
			Interval:     time.Duration(cfg.CBInterval) * time.Second,
			Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
			FailureRatio: cfg.CBFailureRatio,
			MinRequests:  cfg.CBMinRequests,
		},
	}, newHTTPClient(cfg.ProviderTimeout()), m, logger)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}
