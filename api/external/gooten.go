package external

/* Gooten order API */

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker/v2"

	"visionstore/error_messages"
	"visionstore/metrics"
	"visionstore/order"
)

const maxResponseBytes = 1 << 20

type BreakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

type GootenConfig struct {
	OrderURL string
	APIKey   string
	Breaker  BreakerConfig
}

type gootenOrder struct {
	Items         []gootenItem  `json:"Items"`
	ShipToAddress gootenAddress `json:"ShipToAddress"`
}

type gootenItem struct {
	SKU      string         `json:"SKU"`
	Quantity int            `json:"Quantity"`
	Metadata gootenMetadata `json:"Metadata"`
}

type gootenMetadata struct {
	Title    string           `json:"title"`
	Size     string           `json:"size,omitempty"`
	Color    string           `json:"color,omitempty"`
	Market   string           `json:"market"`
	PriceUSD *decimal.Decimal `json:"priceUSD,omitempty"`
}

type gootenAddress struct {
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	Line1       string `json:"Line1"`
	City        string `json:"City"`
	State       string `json:"State"`
	CountryCode string `json:"CountryCode"`
	PostalCode  string `json:"PostalCode"`
	Email       string `json:"Email"`
}

type gootenResponse struct {
	ID             json.RawMessage `json:"Id"`
	PaymentURL     string          `json:"PaymentUrl"`
	PaymentURLAlt  string          `json:"payment_url"`
	HadError       bool            `json:"HadError"`
	ErrorReference string          `json:"ErrorReferenceCode"`
}

// reply is what the breaker sees for one HTTP exchange.
type reply struct {
	status int
	body   []byte
}

type GootenClient struct {
	httpClient   *http.Client
	breaker      *gobreaker.CircuitBreaker[reply]
	orderURL     string
	apiKey       string
	placeholders Placeholders
	logger       *slog.Logger
}

func NewGootenClient(cfg GootenConfig, httpClient *http.Client, m *metrics.Metrics, logger *slog.Logger) *GootenClient {
	bc := cfg.Breaker
	if bc.Name == "" {
		bc.Name = "gooten"
	}
	settings := gobreaker.Settings{
		Name:        bc.Name,
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= bc.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			if m != nil {
				m.BreakerState(name, to)
			}
		},
	}

	return &GootenClient{
		httpClient:   httpClient,
		breaker:      gobreaker.NewCircuitBreaker[reply](settings),
		orderURL:     cfg.OrderURL,
		apiKey:       cfg.APIKey,
		placeholders: DefaultPlaceholders,
		logger:       logger,
	}
}

func (c *GootenClient) Name() string {
	return "gooten"
}

// Submit posts the order once. Transport failures and 5xx answers count
// against the breaker; while it is open no request is made at all.
func (c *GootenClient) Submit(ctx context.Context, req order.Request) order.Outcome {
	payload, err := json.Marshal(c.formOrder(req))
	if err != nil {
		return order.Failed(&error_messages.TransportError{Provider: c.Name(), Err: err})
	}

	r, err := c.breaker.Execute(func() (reply, error) {
		return c.post(ctx, payload)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return order.Failed(fmt.Errorf("%w: %v", error_messages.ErrCircuitOpen, err))
		}
		return order.Failed(err)
	}

	if r.status < 200 || r.status > 299 {
		return order.Failed(&error_messages.ProviderError{Provider: c.Name(), Status: r.status, Body: string(r.body)})
	}

	var res gootenResponse
	if err := json.Unmarshal(r.body, &res); err != nil {
		return order.Failed(&error_messages.ProviderError{
			Provider: c.Name(),
			Status:   r.status,
			Body:     fmt.Sprintf("unreadable response: %v", err),
		})
	}
	if res.HadError {
		return order.Failed(&error_messages.ProviderError{Provider: c.Name(), Status: r.status, Body: string(r.body)})
	}

	id := rawID(res.ID)
	paymentURL := res.PaymentURL
	if paymentURL == "" {
		paymentURL = res.PaymentURLAlt
	}
	if paymentURL != "" {
		return order.Redirect(paymentURL, id)
	}
	return order.Confirmed(id)
}

func (c *GootenClient) post(ctx context.Context, payload []byte) (reply, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.orderURL, bytes.NewReader(payload))
	if err != nil {
		return reply{}, &error_messages.TransportError{Provider: c.Name(), Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return reply{}, &error_messages.TransportError{Provider: c.Name(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return reply{}, &error_messages.TransportError{Provider: c.Name(), Err: err}
	}

	r := reply{status: resp.StatusCode, body: body}
	if resp.StatusCode >= 500 {
		c.logger.Warn("provider error", slog.String("provider", c.Name()), slog.Int("status", resp.StatusCode))
		return r, &error_messages.ProviderError{Provider: c.Name(), Status: resp.StatusCode, Body: string(body)}
	}
	return r, nil
}

func (c *GootenClient) formOrder(req order.Request) gootenOrder {
	p := c.placeholders
	ship := req.Shipping
	return gootenOrder{
		Items: []gootenItem{{
			SKU:      req.SKU,
			Quantity: int(req.Quantity),
			Metadata: gootenMetadata{
				Title:    req.Title,
				Size:     req.Size,
				Color:    req.Color,
				Market:   string(req.Market),
				PriceUSD: req.PriceUSD,
			},
		}},
		ShipToAddress: gootenAddress{
			FirstName:   orDefault(ship.FirstName, p.FirstName),
			LastName:    orDefault(ship.LastName, p.LastName),
			Line1:       orDefault(ship.Line1, p.Line1),
			City:        orDefault(ship.City, p.City),
			State:       ship.State,
			CountryCode: countryCode(req),
			PostalCode:  orDefault(ship.PostalCode, p.PostalCode),
			Email:       orDefault(ship.Email, p.Email),
		},
	}
}

// rawID accepts the order id as either a JSON string or a number.
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if n, err := strconv.ParseInt(string(raw), 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return string(raw)
}
