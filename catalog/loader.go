package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"visionstore/error_messages"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type fileVariant struct {
	Label    string   `yaml:"label"`
	SKU      string   `yaml:"sku"`
	PriceUSD *float64 `yaml:"priceUSD"`
}

type fileProduct struct {
	ID       string        `yaml:"id"`
	Title    string        `yaml:"title"`
	PriceTRY *float64      `yaml:"priceTRY"`
	PriceUSD *float64      `yaml:"priceUSD"`
	Image    string        `yaml:"image"`
	Category string        `yaml:"category"`
	Badges   []string      `yaml:"badges"`
	Sizes    []string      `yaml:"sizes"`
	Colors   []string      `yaml:"colors"`
	Variants []fileVariant `yaml:"variants"`
}

type file struct {
	Products []fileProduct `yaml:"products"`
	// SKU table: product id -> color -> size -> SKU.
	SKUs map[string]map[string]map[string]string `yaml:"skus"`
}

// Load reads the catalog at path, or the built-in catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", error_messages.ErrInvalidCatalog, err)
	}

	products := make([]Product, 0, len(f.Products))
	for _, fp := range f.Products {
		p, err := fp.toProduct(f.SKUs[fp.ID])
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	for id := range f.SKUs {
		if !slices.ContainsFunc(f.Products, func(fp fileProduct) bool { return fp.ID == id }) {
			return nil, fmt.Errorf("%w: SKU table for unknown product %q", error_messages.ErrInvalidCatalog, id)
		}
	}
	return New(products)
}

func (fp fileProduct) toProduct(table map[string]map[string]string) (Product, error) {
	category := Category(fp.Category)
	if !slices.Contains(Categories, category) {
		return Product{}, fmt.Errorf("%w: product %q has unknown category %q", error_messages.ErrInvalidCatalog, fp.ID, fp.Category)
	}

	p := Product{
		ID:       fp.ID,
		Title:    fp.Title,
		PriceTRY: price(fp.PriceTRY),
		PriceUSD: price(fp.PriceUSD),
		Image:    fp.Image,
		Category: category,
		Badges:   fp.Badges,
	}

	apparel := len(fp.Sizes) > 0 || len(fp.Colors) > 0 || len(table) > 0
	switch {
	case apparel && len(fp.Variants) > 0:
		return Product{}, fmt.Errorf("%w: product %q mixes sizes/colors with variants", error_messages.ErrInvalidCatalog, fp.ID)
	case apparel:
		a := &Apparel{Sizes: fp.Sizes, Colors: fp.Colors, SKUs: map[Key]string{}}
		for color, bySize := range table {
			if !slices.Contains(fp.Colors, color) {
				return Product{}, fmt.Errorf("%w: product %q SKU table has unoffered color %q", error_messages.ErrInvalidCatalog, fp.ID, color)
			}
			for size, sku := range bySize {
				if !slices.Contains(fp.Sizes, size) {
					return Product{}, fmt.Errorf("%w: product %q SKU table has unoffered size %q", error_messages.ErrInvalidCatalog, fp.ID, size)
				}
				a.SKUs[Key{Color: color, Size: size}] = sku
			}
		}
		p.Options = a
	case len(fp.Variants) > 0:
		variants := make(Variants, 0, len(fp.Variants))
		for _, fv := range fp.Variants {
			variants = append(variants, Variant{Label: fv.Label, SKU: fv.SKU, PriceUSD: price(fv.PriceUSD)})
		}
		p.Options = variants
	}
	return p, nil
}

func price(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}
