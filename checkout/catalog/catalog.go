// Package catalog holds the demo product list and the browse operations
// (category filter, free-text search, sort) over it.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"go-temporal-storefront/checkout/types"
)

//go:embed products.yaml
var productsYAML []byte

// AllCategories disables the category filter.
const AllCategories = "All"

// Sort orders
const (
	SortDefault   = "default"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
)

// Product is one catalog entry
type Product struct {
	ID          string
	Name        string
	Category    string
	Price       decimal.Decimal
	Rating      float64
	Reviews     int
	Icon        string
	Description string
}

// Ref is the cart's view of the product at this moment.
func (p Product) Ref() types.ProductRef {
	return types.ProductRef{ID: p.ID, Name: p.Name, Price: p.Price, ImageRef: p.Icon}
}

type productDoc struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Category    string  `yaml:"category"`
	Price       string  `yaml:"price"`
	Rating      float64 `yaml:"rating"`
	Reviews     int     `yaml:"reviews"`
	Icon        string  `yaml:"icon"`
	Description string  `yaml:"description"`
}

// Catalog is an immutable, ordered product list.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// Default returns the embedded demo catalog.
func Default() (*Catalog, error) {
	return Parse(productsYAML)
}

// Parse decodes a YAML document with a top-level "products" list.
func Parse(data []byte) (*Catalog, error) {
	var doc struct {
		Products []productDoc `yaml:"products"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]int, len(doc.Products))}
	for _, d := range doc.Products {
		if strings.TrimSpace(d.ID) == "" {
			return nil, fmt.Errorf("product %q has no id", d.Name)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("duplicate product id %s", d.ID)
		}
		price, err := decimal.NewFromString(d.Price)
		if err != nil {
			return nil, fmt.Errorf("product %s price: %w", d.ID, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("product %s has negative price", d.ID)
		}
		c.byID[d.ID] = len(c.products)
		c.products = append(c.products, Product{
			ID:          d.ID,
			Name:        d.Name,
			Category:    d.Category,
			Price:       price,
			Rating:      d.Rating,
			Reviews:     d.Reviews,
			Icon:        d.Icon,
			Description: d.Description,
		})
	}
	return c, nil
}

// Lookup finds a product by id.
func (c *Catalog) Lookup(id string) (Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// Categories lists categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// Filter selects and orders products for display
type Filter struct {
	Category string
	Search   string
	Sort     string
}

// List applies f. Unknown sort orders keep catalog order.
func (c *Catalog) List(f Filter) []Product {
	query := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]Product, 0, len(c.products))
	for _, p := range c.products {
		if f.Category != "" && f.Category != AllCategories && p.Category != f.Category {
			continue
		}
		if query != "" && !matches(p, query) {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

func matches(p Product, query string) bool {
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Category), query) ||
		strings.Contains(strings.ToLower(p.Description), query)
}
