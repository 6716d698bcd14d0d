package site

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"visionstore/catalog"
	"visionstore/selection"
)

type productView struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	PriceTRY *decimal.Decimal `json:"priceTRY,omitempty"`
	PriceUSD *decimal.Decimal `json:"priceUSD,omitempty"`
	Image    string           `json:"image"`
	Category catalog.Category `json:"category"`
	Badges   []string         `json:"badges,omitempty"`
	Sizes    []string         `json:"sizes,omitempty"`
	Colors   []string         `json:"colors,omitempty"`
	Variants []variantView    `json:"variants,omitempty"`
}

type variantView struct {
	Label    string           `json:"label"`
	SKU      string           `json:"sku"`
	PriceUSD *decimal.Decimal `json:"priceUSD,omitempty"`
}

func newProductView(p catalog.Product) productView {
	v := productView{
		ID:       p.ID,
		Title:    p.Title,
		PriceTRY: p.PriceTRY,
		PriceUSD: p.PriceUSD,
		Image:    p.Image,
		Category: p.Category,
		Badges:   p.Badges,
	}
	if a := p.Apparel(); a != nil {
		v.Sizes = a.Sizes
		v.Colors = a.Colors
	}
	for _, variant := range p.Variants() {
		v.Variants = append(v.Variants, variantView{Label: variant.Label, SKU: variant.SKU, PriceUSD: variant.PriceUSD})
	}
	return v
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Products()
	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, newProductView(p))
	}

	setCSRFHeader(w, r)
	writeJSON(w, http.StatusOK, map[string]any{"products": views})
}

type skuView struct {
	SKU             string `json:"sku"`
	Resolved        bool   `json:"resolved"`
	CheckoutEnabled bool   `json:"checkoutEnabled"`
}

// resolveSKU answers what the product card shows for a choice. Blank query
// values keep the card defaults.
func (h *Handler) resolveSKU(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Product(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	sel := selection.New(p)
	q := r.URL.Query()
	if size := q.Get("size"); size != "" {
		sel.Size = size
	}
	if color := q.Get("color"); color != "" {
		sel.Color = color
	}
	if variant := q.Get("variant"); variant != "" {
		sel.Variant = variant
	}

	sku, ok := sel.SKU()
	setCSRFHeader(w, r)
	writeJSON(w, http.StatusOK, skuView{SKU: sku, Resolved: ok, CheckoutEnabled: sel.CanCheckout()})
}
