package selection

import (
	"strings"

	"visionstore/catalog"
	"visionstore/order"
)

// Selection is one visitor's in-progress choice for a product. It is owned by
// a single interaction and is not safe for concurrent use.
type Selection struct {
	Product  catalog.Product
	Size     string
	Color    string
	Variant  string
	Quantity int
	Market   order.Market
	Shipping order.ShippingAddress

	countryEdited bool
	inFlight      bool
}

// New starts a selection with the product card defaults: first color, no
// size, first variant, one item, TR market.
func New(p catalog.Product) *Selection {
	s := &Selection{
		Product:  p,
		Quantity: 1,
		Market:   order.MarketTR,
		Shipping: order.NewShippingAddress(order.MarketTR),
	}
	if a := p.Apparel(); a != nil && len(a.Colors) > 0 {
		s.Color = a.Colors[0]
	}
	if v := p.Variants(); len(v) > 0 {
		s.Variant = v[0].SKU
	}
	return s
}

// SetMarket switches market. The country code follows the market until the
// visitor edits it.
func (s *Selection) SetMarket(m order.Market) {
	s.Market = m
	if !s.countryEdited {
		s.Shipping.CountryCode = m.DefaultCountry()
	}
}

// SetCountryCode records an explicit edit; later market changes keep it.
func (s *Selection) SetCountryCode(code string) {
	s.Shipping.CountryCode = code
	s.countryEdited = true
}

// SetShipping replaces the address fields. A non-blank country code counts as
// an edit; a blank one keeps the current market default.
func (s *Selection) SetShipping(addr order.ShippingAddress) {
	country := addr.CountryCode
	addr.CountryCode = s.Shipping.CountryCode
	s.Shipping = addr
	if strings.TrimSpace(country) != "" {
		s.SetCountryCode(country)
	}
}

func (s *Selection) SetQuantity(n int) {
	s.Quantity = order.ClampQuantity(n)
}

// SetQuantityInput accepts raw form input; anything unusable becomes 1.
func (s *Selection) SetQuantityInput(raw string) {
	s.Quantity = order.ParseQuantity(raw)
}

func (s *Selection) Choice() catalog.Choice {
	return catalog.Choice{Size: s.Size, Color: s.Color, Variant: s.Variant}
}

// SKU re-resolves on every call so it always reflects the current choice.
func (s *Selection) SKU() (string, bool) {
	return catalog.Resolve(s.Product, s.Choice())
}

// CanCheckout reports whether the checkout trigger should be enabled.
func (s *Selection) CanCheckout() bool {
	if s.inFlight {
		return false
	}
	_, ok := s.SKU()
	return ok
}

// Metadata is the product information copied onto an order.
func (s *Selection) Metadata() order.Metadata {
	meta := order.Metadata{
		ProductID: s.Product.ID,
		Title:     s.Product.Title,
		PriceUSD:  s.Product.PriceUSD,
		PriceTRY:  s.Product.PriceTRY,
	}
	if s.Product.Apparel() != nil {
		meta.Size = s.Size
		meta.Color = s.Color
	}
	for _, v := range s.Product.Variants() {
		if v.SKU == s.Variant {
			if v.PriceUSD != nil {
				meta.PriceUSD = v.PriceUSD
			}
			meta.Size = v.Label
		}
	}
	return meta
}

// Begin claims the in-progress guard. It returns false if an attempt is
// already running.
func (s *Selection) Begin() bool {
	if s.inFlight {
		return false
	}
	s.inFlight = true
	return true
}

// End releases the guard once an attempt has settled.
func (s *Selection) End() {
	s.inFlight = false
}

func (s *Selection) InFlight() bool {
	return s.inFlight
}
