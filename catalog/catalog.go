package catalog

import (
	"fmt"

	"github.com/shopspring/decimal"

	"visionstore/error_messages"
)

type Category string

const (
	CategoryTShirt    Category = "tshirt"
	CategorySleeve    Category = "sleeve"
	CategoryHoodie    Category = "hoodie"
	CategoryZipHoodie Category = "ziphoodie"
	CategoryCustom    Category = "custom"
)

var Categories = []Category{CategoryTShirt, CategorySleeve, CategoryHoodie, CategoryZipHoodie, CategoryCustom}

// Options is how a product turns a Choice into a SKU. It is either *Apparel
// or Variants; a product never carries both.
type Options interface {
	resolve(c Choice) (string, bool)
}

// Key addresses one cell of an apparel SKU table.
type Key struct {
	Color string
	Size  string
}

// Apparel products are ordered by (color, size). Cells missing from SKUs are
// not orderable.
type Apparel struct {
	Sizes  []string
	Colors []string
	SKUs   map[Key]string
}

func (a *Apparel) resolve(c Choice) (string, bool) {
	if c.Color == "" || c.Size == "" {
		return "", false
	}
	sku, ok := a.SKUs[Key{Color: c.Color, Size: c.Size}]
	return sku, ok && sku != ""
}

// Missing lists the offered (color, size) pairs that have no SKU.
func (a *Apparel) Missing() []Key {
	var keys []Key
	for _, color := range a.Colors {
		for _, size := range a.Sizes {
			if a.SKUs[Key{Color: color, Size: size}] == "" {
				keys = append(keys, Key{Color: color, Size: size})
			}
		}
	}
	return keys
}

type Variant struct {
	Label    string
	SKU      string
	PriceUSD *decimal.Decimal
}

// Variants are explicit print options, in display order.
type Variants []Variant

func (v Variants) resolve(c Choice) (string, bool) {
	if len(v) == 0 {
		return "", false
	}
	if c.Variant == "" {
		return v[0].SKU, true
	}
	for _, variant := range v {
		if variant.SKU == c.Variant {
			return variant.SKU, true
		}
	}
	return "", false
}

type Product struct {
	ID       string
	Title    string
	PriceTRY *decimal.Decimal
	PriceUSD *decimal.Decimal
	Image    string
	Category Category
	Badges   []string
	Options  Options
}

// Apparel returns the size/color options, or nil for variant products.
func (p Product) Apparel() *Apparel {
	a, _ := p.Options.(*Apparel)
	return a
}

// Variants returns the variant list, or nil for apparel products.
func (p Product) Variants() Variants {
	v, _ := p.Options.(Variants)
	return v
}

// Choice is what the visitor picked on a product card.
type Choice struct {
	Size    string
	Color   string
	Variant string
}

// Resolve maps a choice to the fulfillment SKU. ok is false when the choice is
// not orderable, which must keep checkout disabled.
func Resolve(p Product, c Choice) (sku string, ok bool) {
	if p.Options == nil {
		return "", false
	}
	return p.Options.resolve(c)
}

// Catalog is read-only once built.
type Catalog struct {
	products []Product
	byID     map[string]int
}

func New(products []Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if err := validateProduct(p); err != nil {
			return nil, err
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", error_messages.ErrInvalidCatalog, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}
	return c, nil
}

func validateProduct(p Product) error {
	if p.ID == "" {
		return fmt.Errorf("%w: product without id", error_messages.ErrInvalidCatalog)
	}
	switch opts := p.Options.(type) {
	case *Apparel:
		if opts == nil || len(opts.Sizes) == 0 || len(opts.Colors) == 0 {
			return fmt.Errorf("%w: product %q needs both sizes and colors", error_messages.ErrInvalidCatalog, p.ID)
		}
	case Variants:
		if len(opts) == 0 {
			return fmt.Errorf("%w: product %q has an empty variant list", error_messages.ErrInvalidCatalog, p.ID)
		}
		for _, v := range opts {
			if v.SKU == "" {
				return fmt.Errorf("%w: product %q has a variant without SKU", error_messages.ErrInvalidCatalog, p.ID)
			}
		}
	default:
		return fmt.Errorf("%w: product %q has neither sizes/colors nor variants", error_messages.ErrInvalidCatalog, p.ID)
	}
	return nil
}

// Products returns the products in catalog order.
func (c *Catalog) Products() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

func (c *Catalog) Product(id string) (Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", error_messages.ErrUnknownProduct, id)
	}
	return c.products[i], nil
}

// Gaps reports, per apparel product, offered combinations without a SKU.
func (c *Catalog) Gaps() map[string][]Key {
	gaps := map[string][]Key{}
	for _, p := range c.products {
		if a := p.Apparel(); a != nil {
			if missing := a.Missing(); len(missing) > 0 {
				gaps[p.ID] = missing
			}
		}
	}
	return gaps
}
