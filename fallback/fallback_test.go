package fallback

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionstore/order"
)

func sampleRequest() order.Request {
	usd := decimal.NewFromInt(25)
	return order.Build("Apparel-DTG-Tshirt-CC-1717-M-Black-Unisex-CB-20250906210544442", 3, order.MarketEU, order.ShippingAddress{
		FirstName:   "Jan",
		LastName:    "de Vries",
		Email:       "jan@example.com",
		Line1:       "Keizersgracht 1 & 2",
		City:        "Amsterdam",
		PostalCode:  "1015",
		CountryCode: "NL",
	}, order.Metadata{ProductID: "p2", Title: "Vision Premium", PriceUSD: &usd, Size: "M", Color: "Black"})
}

func TestCompose_AddressesSupport(t *testing.T) {
	c := NewComposer("hello@visionart.com", "Gooten Sipariş")

	msg := c.Compose(sampleRequest(), errors.New("gooten returned status 500"))

	assert.Equal(t, "hello@visionart.com", msg.To)
	assert.Equal(t, "Gooten Sipariş", msg.Subject)
	assert.Equal(t, "gooten returned status 500", msg.Reason)
	assert.NotContains(t, msg.Body, "status 500")
	assert.True(t, strings.HasPrefix(msg.Body, "{\n  \"sku\""))
	assert.Contains(t, msg.Body, `"priceUSD": 25,`)
}

func TestCompose_BodyRoundTrips(t *testing.T) {
	req := sampleRequest()

	msg := NewComposer("hello@visionart.com", "Gooten Sipariş").Compose(req, nil)

	var parsed order.Request
	require.NoError(t, json.Unmarshal([]byte(msg.Body), &parsed))
	assert.Equal(t, req.SKU, parsed.SKU)
	assert.Equal(t, req.Quantity, parsed.Quantity)
	assert.Equal(t, req.Market, parsed.Market)
	assert.Equal(t, req.Shipping, parsed.Shipping)
	assert.Equal(t, req.Title, parsed.Title)
	assert.True(t, req.PriceUSD.Equal(*parsed.PriceUSD))
	assert.Empty(t, msg.Reason)
}

func TestMailtoURL(t *testing.T) {
	msg := NewComposer("hello@visionart.com", "Gooten Sipariş").Compose(sampleRequest(), nil)

	link := msg.MailtoURL()

	assert.True(t, strings.HasPrefix(link, "mailto:hello@visionart.com?subject=Gooten%20Sipari%C5%9F&body="))
	assert.NotContains(t, link, "+")
	assert.NotContains(t, link, " ")

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Gooten Sipariş", u.Query().Get("subject"))
	assert.Equal(t, msg.Body, u.Query().Get("body"))
}
