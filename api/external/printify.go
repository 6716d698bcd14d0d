package external

/* Handle Printify API connection and calls */

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	go_printify "github.com/ericdbishop/go-printify"
	"github.com/google/uuid"

	"visionstore/error_messages"
	"visionstore/order"
)

// PrintifyClient submits orders to a Printify shop. The SDK exposes no
// payment link, so a success is always a confirmed order.
type PrintifyClient struct {
	client       *go_printify.Client
	shopID       int
	timeout      time.Duration
	placeholders Placeholders
	logger       *slog.Logger
}

func NewPrintifyClient(apiToken string, shopID int, timeout time.Duration, logger *slog.Logger) *PrintifyClient {
	client := go_printify.NewClient(apiToken)
	client.UserAgent = "Go"
	return &PrintifyClient{
		client:       client,
		shopID:       shopID,
		timeout:      timeout,
		placeholders: DefaultPlaceholders,
		logger:       logger,
	}
}

func (c *PrintifyClient) Name() string {
	return "printify"
}

// formOrderShipping maps the request onto the SDK's order struct, filling
// blank address fields with placeholders.
func (c *PrintifyClient) formOrderShipping(req order.Request) *go_printify.OrderSubmission {
	sku := req.SKU
	lineItem := &go_printify.LineItem{
		Sku:      &sku,
		Quantity: int(req.Quantity),
	}

	p := c.placeholders
	ship := req.Shipping
	addressTo := &go_printify.AddressTo{
		FirstName: orDefault(ship.FirstName, p.FirstName),
		LastName:  orDefault(ship.LastName, p.LastName),
		Country:   countryCode(req),
		Region:    ship.State,
		Address1:  orDefault(ship.Line1, p.Line1),
		City:      orDefault(ship.City, p.City),
		Zip:       orDefault(ship.PostalCode, p.PostalCode),
		Email:     orDefault(ship.Email, p.Email),
	}

	return &go_printify.OrderSubmission{
		LineItems: []*go_printify.LineItem{lineItem},
		AddressTo: addressTo,
	}
}

func (c *PrintifyClient) formOrderSubmission(req order.Request) *go_printify.OrderSubmission {
	submission := c.formOrderShipping(req)

	// Label doubles as our order reference since nothing is persisted.
	submission.Label = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])

	shippingNotification := true
	submission.SendShippingNotification = &shippingNotification
	submission.ShippingMethod = 1

	return submission
}

// Submit runs the SDK call under the provider timeout. The SDK takes no
// context, so a call that outlives the deadline is abandoned and reported as
// a transport failure.
func (c *PrintifyClient) Submit(ctx context.Context, req order.Request) order.Outcome {
	if err := ctx.Err(); err != nil {
		return order.Failed(&error_messages.TransportError{Provider: c.Name(), Err: err})
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	submission := c.formOrderSubmission(req)
	label := submission.Label
	c.logger.Info("submitting order", slog.String("provider", c.Name()), slog.String("label", label))

	done := make(chan error, 1)
	go func() {
		done <- c.client.SubmitOrder(c.shopID, submission)
	}()

	select {
	case err := <-done:
		if err != nil {
			return order.Failed(c.classify(err))
		}
		return order.Confirmed(label)
	case <-ctx.Done():
		return order.Failed(&error_messages.TransportError{Provider: c.Name(), Err: ctx.Err()})
	}
}

// classify maps SDK errors onto the error taxonomy. The SDK reports a
// non-success answer as an error whose text is only the status code.
func (c *PrintifyClient) classify(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &error_messages.TransportError{Provider: c.Name(), Err: err}
	}
	if status, convErr := strconv.Atoi(strings.TrimSpace(err.Error())); convErr == nil && status >= 400 {
		return &error_messages.ProviderError{Provider: c.Name(), Status: status, Body: http.StatusText(status)}
	}
	return &error_messages.ProviderError{Provider: c.Name(), Body: err.Error()}
}
