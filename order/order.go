package order

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Prices are written as JSON numbers in provider documents and mail drafts.
	decimal.MarshalJSONWithoutQuotes = true
}

// Market is the sales region an order ships to.
type Market string

const (
	MarketTR Market = "TR"
	MarketEU Market = "EU"
)

// DefaultCountry is the ISO 3166-1 alpha-2 code preselected for the market.
func (m Market) DefaultCountry() string {
	if m == MarketEU {
		return "DE"
	}
	return "TR"
}

// ShippingAddress is passed to the provider as entered; only State is
// optional from the visitor's side.
type ShippingAddress struct {
	FirstName   string `json:"firstName" validate:"notblank"`
	LastName    string `json:"lastName" validate:"notblank"`
	Email       string `json:"email" validate:"notblank"`
	Line1       string `json:"line1" validate:"notblank"`
	City        string `json:"city" validate:"notblank"`
	State       string `json:"state"`
	PostalCode  string `json:"postalCode" validate:"notblank"`
	CountryCode string `json:"countryCode"`
}

// NewShippingAddress returns an empty address with the market's country.
func NewShippingAddress(m Market) ShippingAddress {
	return ShippingAddress{CountryCode: m.DefaultCountry()}
}

// Metadata is product information denormalized onto the order.
type Metadata struct {
	ProductID string           `json:"productId,omitempty"`
	Title     string           `json:"title"`
	PriceUSD  *decimal.Decimal `json:"priceUSD,omitempty"`
	PriceTRY  *decimal.Decimal `json:"priceTRY,omitempty"`
	Size      string           `json:"size,omitempty"`
	Color     string           `json:"color,omitempty"`
}

// Request is one submission attempt's payload. It is built fresh for every
// attempt and never stored.
type Request struct {
	SKU      string          `json:"sku" validate:"notblank"`
	Quantity Quantity        `json:"quantity"`
	Market   Market          `json:"market" validate:"oneof=TR EU"`
	Shipping ShippingAddress `json:"shipping"`
	Metadata
}

// Build assembles a Request. Quantity is clamped to at least 1 and an empty
// market means TR; address fields are copied verbatim.
func Build(sku string, quantity int, market Market, shipping ShippingAddress, meta Metadata) Request {
	if market == "" {
		market = MarketTR
	}
	return Request{
		SKU:      sku,
		Quantity: Quantity(ClampQuantity(quantity)),
		Market:   market,
		Shipping: shipping,
		Metadata: meta,
	}
}
