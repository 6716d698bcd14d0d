package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionstore/catalog"
	"visionstore/order"
)

func product(t *testing.T, id string) catalog.Product {
	t.Helper()
	c, err := catalog.Load("")
	require.NoError(t, err)
	p, err := c.Product(id)
	require.NoError(t, err)
	return p
}

func TestNew_ApparelDefaults(t *testing.T) {
	s := New(product(t, "p1"))

	assert.Equal(t, "Black", s.Color)
	assert.Empty(t, s.Size)
	assert.Empty(t, s.Variant)
	assert.Equal(t, 1, s.Quantity)
	assert.Equal(t, order.MarketTR, s.Market)
	assert.Equal(t, "TR", s.Shipping.CountryCode)

	_, ok := s.SKU()
	assert.False(t, ok, "apparel stays unresolved until a size is picked")
	assert.False(t, s.CanCheckout())
}

func TestNew_VariantDefaults(t *testing.T) {
	s := New(product(t, "p3"))

	assert.Equal(t, "WovenBlanket_52x37-20250605220322355", s.Variant)
	sku, ok := s.SKU()
	assert.True(t, ok)
	assert.Equal(t, s.Variant, sku)
	assert.True(t, s.CanCheckout())
}

func TestSKU_RecomputedOnChange(t *testing.T) {
	s := New(product(t, "p2"))

	s.Size = "M"
	sku, ok := s.SKU()
	require.True(t, ok)
	assert.Equal(t, "Apparel-DTG-Tshirt-CC-1717-M-Black-Unisex-CB-20250906210544442", sku)

	s.Size = "XXL"
	_, ok = s.SKU()
	assert.False(t, ok)
	assert.False(t, s.CanCheckout())

	s.Size = "XL"
	sku, ok = s.SKU()
	require.True(t, ok)
	assert.Equal(t, "Apparel-DTG-Tshirt-CC-1717-XL-Black-Unisex-CB-20250906210544442", sku)
}

func TestSetMarket_FollowsUntilEdited(t *testing.T) {
	s := New(product(t, "p2"))

	s.SetMarket(order.MarketEU)
	assert.Equal(t, "DE", s.Shipping.CountryCode)

	s.SetCountryCode("NL")
	s.SetMarket(order.MarketTR)
	assert.Equal(t, order.MarketTR, s.Market)
	assert.Equal(t, "NL", s.Shipping.CountryCode)
}

func TestSetShipping_BlankCountryKeepsMarketDefault(t *testing.T) {
	s := New(product(t, "p2"))
	s.SetMarket(order.MarketEU)

	s.SetShipping(order.ShippingAddress{FirstName: "Jan", City: "Berlin"})

	assert.Equal(t, "Jan", s.Shipping.FirstName)
	assert.Equal(t, "DE", s.Shipping.CountryCode)

	s.SetShipping(order.ShippingAddress{FirstName: "Jan", CountryCode: "AT"})
	s.SetMarket(order.MarketTR)
	assert.Equal(t, "AT", s.Shipping.CountryCode)
}

func TestSetQuantity(t *testing.T) {
	s := New(product(t, "p2"))

	s.SetQuantity(0)
	assert.Equal(t, 1, s.Quantity)
	s.SetQuantity(4)
	assert.Equal(t, 4, s.Quantity)

	s.SetQuantityInput("abc")
	assert.Equal(t, 1, s.Quantity)
	s.SetQuantityInput("-3")
	assert.Equal(t, 1, s.Quantity)
	s.SetQuantityInput("6")
	assert.Equal(t, 6, s.Quantity)
}

func TestMetadata_Apparel(t *testing.T) {
	s := New(product(t, "p2"))
	s.Size = "M"

	meta := s.Metadata()

	assert.Equal(t, "p2", meta.ProductID)
	assert.Equal(t, "Vision Premium", meta.Title)
	assert.Equal(t, "M", meta.Size)
	assert.Equal(t, "Black", meta.Color)
	assert.Equal(t, "25", meta.PriceUSD.String())
	assert.Equal(t, "1100", meta.PriceTRY.String())
}

func TestMetadata_VariantPrice(t *testing.T) {
	s := New(product(t, "p4"))
	s.Variant = "CanvsWrp-ImgWrp-8x10-Thick-20250611174155878"

	meta := s.Metadata()

	assert.Equal(t, "8×10 Image Wrap (Thick)", meta.Size)
	assert.Empty(t, meta.Color)
	require.NotNil(t, meta.PriceUSD)
	assert.Equal(t, "60", meta.PriceUSD.String())
	assert.Nil(t, meta.PriceTRY)
}

func TestInFlightGuard(t *testing.T) {
	s := New(product(t, "p3"))

	require.True(t, s.Begin())
	assert.True(t, s.InFlight())
	assert.False(t, s.Begin(), "second attempt must be refused while one is running")
	assert.False(t, s.CanCheckout())

	s.End()
	assert.False(t, s.InFlight())
	assert.True(t, s.CanCheckout())
	assert.True(t, s.Begin())
}
