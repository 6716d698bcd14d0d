package external

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionstore/error_messages"
	"visionstore/metrics"
	"visionstore/order"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRequest() order.Request {
	usd := decimal.NewFromInt(25)
	return order.Build("Apparel-DTG-Tshirt-CC-1717-M-Black-Unisex-CB-20250906210544442", 2, order.MarketEU, order.ShippingAddress{
		FirstName:  "Ayşe",
		LastName:   "Yılmaz",
		Email:      "ayse@example.com",
		Line1:      "Bağdat Cd. 10",
		City:       "Berlin",
		PostalCode: "10115",
	}, order.Metadata{ProductID: "p2", Title: "Vision Premium", PriceUSD: &usd, Size: "M", Color: "Black"})
}

func newTestGooten(t *testing.T, url string, breaker BreakerConfig) *GootenClient {
	t.Helper()
	return NewGootenClient(GootenConfig{
		OrderURL: url,
		APIKey:   "secret-key",
		Breaker:  breaker,
	}, &http.Client{Timeout: 2 * time.Second}, metrics.New(prometheus.NewRegistry()), discardLogger())
}

var lenientBreaker = BreakerConfig{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureRatio: 1, MinRequests: 100}

func TestGooten_RedirectsToPaymentURL(t *testing.T) {
	var got gootenOrder
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Id":"G-123","PaymentUrl":"https://pay.example.com/x"}`))
	}))
	defer srv.Close()

	out := newTestGooten(t, srv.URL, lenientBreaker).Submit(context.Background(), testRequest())

	assert.Equal(t, order.OutcomeRedirect, out.Kind)
	assert.Equal(t, "https://pay.example.com/x", out.URL)
	assert.Equal(t, "G-123", out.OrderID)

	require.Len(t, got.Items, 1)
	assert.Equal(t, "Apparel-DTG-Tshirt-CC-1717-M-Black-Unisex-CB-20250906210544442", got.Items[0].SKU)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, "EU", got.Items[0].Metadata.Market)
	assert.Equal(t, "M", got.Items[0].Metadata.Size)
	assert.Equal(t, "DE", got.ShipToAddress.CountryCode)
	assert.Equal(t, "Ayşe", got.ShipToAddress.FirstName)
}

func TestGooten_SnakeCasePaymentURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Id":42,"payment_url":"https://pay.example.com/y"}`))
	}))
	defer srv.Close()

	out := newTestGooten(t, srv.URL, lenientBreaker).Submit(context.Background(), testRequest())

	assert.Equal(t, order.OutcomeRedirect, out.Kind)
	assert.Equal(t, "https://pay.example.com/y", out.URL)
	assert.Equal(t, "42", out.OrderID)
}

func TestGooten_ConfirmedWithoutPaymentURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Id":"G-9"}`))
	}))
	defer srv.Close()

	out := newTestGooten(t, srv.URL, lenientBreaker).Submit(context.Background(), testRequest())

	assert.Equal(t, order.OutcomeConfirmed, out.Kind)
	assert.Equal(t, "G-9", out.OrderID)
	assert.Empty(t, out.URL)
}

func TestGooten_ServerErrorFails(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	out := newTestGooten(t, srv.URL, lenientBreaker).Submit(context.Background(), testRequest())

	assert.Equal(t, order.OutcomeFailed, out.Kind)
	var perr *error_messages.ProviderError
	require.True(t, errors.As(out.Err, &perr))
	assert.Equal(t, http.StatusInternalServerError, perr.Status)
	assert.Equal(t, "boom", perr.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "failed submissions are not retried")
}

func TestGooten_ClientErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad sku"}`))
	}))
	defer srv.Close()

	out := newTestGooten(t, srv.URL, lenientBreaker).Submit(context.Background(), testRequest())

	assert.Equal(t, order.OutcomeFailed, out.Kind)
	var perr *error_messages.ProviderError
	require.True(t, errors.As(out.Err, &perr))
	assert.Equal(t, http.StatusBadRequest, perr.Status)
}

func TestGooten_NonJSONSuccessFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	out := newTestGooten(t, srv.URL, lenientBreaker).Submit(context.Background(), testRequest())

	assert.Equal(t, order.OutcomeFailed, out.Kind)
}

func TestGooten_TransportErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	out := newTestGooten(t, url, lenientBreaker).Submit(context.Background(), testRequest())

	assert.Equal(t, order.OutcomeFailed, out.Kind)
	var terr *error_messages.TransportError
	assert.True(t, errors.As(out.Err, &terr))
}

func TestGooten_OpenBreakerSkipsProvider(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := newTestGooten(t, srv.URL, BreakerConfig{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  2,
	})

	for i := 0; i < 2; i++ {
		out := client.Submit(context.Background(), testRequest())
		assert.Equal(t, order.OutcomeFailed, out.Kind)
	}

	out := client.Submit(context.Background(), testRequest())
	assert.Equal(t, order.OutcomeFailed, out.Kind)
	assert.ErrorIs(t, out.Err, error_messages.ErrCircuitOpen)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestFormOrder_Placeholders(t *testing.T) {
	client := newTestGooten(t, "http://unused", lenientBreaker)
	req := order.Build("SKU-1", 1, order.MarketTR, order.ShippingAddress{CountryCode: "tr"}, order.Metadata{Title: "Vision Poster"})

	o := client.formOrder(req)

	assert.Equal(t, gootenAddress{
		FirstName:   "Vision",
		LastName:    "Customer",
		Line1:       "Test Address",
		City:        "Istanbul",
		State:       "",
		CountryCode: "TR",
		PostalCode:  "34000",
		Email:       "hello@visionart.com",
	}, o.ShipToAddress)
	assert.Equal(t, "TR", o.Items[0].Metadata.Market)
}

func TestRawID(t *testing.T) {
	assert.Equal(t, "", rawID(nil))
	assert.Equal(t, "", rawID(json.RawMessage("null")))
	assert.Equal(t, "abc", rawID(json.RawMessage(`"abc"`)))
	assert.Equal(t, "1234", rawID(json.RawMessage("1234")))
}
