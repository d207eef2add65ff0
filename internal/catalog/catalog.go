package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/cart"
)

// Product is one entry of the storefront catalog.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
}

// CartProduct returns the identity the cart stores for p.
func (p Product) CartProduct() cart.Product {
	return cart.Product{ID: p.ID, Name: p.Name, Price: p.Price}
}

type fileProduct struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
}

type file struct {
	Products []fileProduct `yaml:"products"`
}

// Catalog is an immutable, ordered product list.
type Catalog struct {
	products []Product
	byID     map[string]int
}

// Empty returns a catalog with no products.
func Empty() *Catalog {
	return &Catalog{byID: map[string]int{}}
}

// Load reads a catalog file. An empty path yields an empty catalog.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Empty(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes YAML of the form `products: [{id, name, price, description, image}]`.
func Parse(raw []byte) (*Catalog, error) {
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode: %w", err)
	}

	c := &Catalog{
		products: make([]Product, 0, len(f.Products)),
		byID:     make(map[string]int, len(f.Products)),
	}
	for i, fp := range f.Products {
		id := strings.TrimSpace(fp.ID)
		name := strings.TrimSpace(fp.Name)
		if id == "" || name == "" {
			return nil, fmt.Errorf("product %d: id and name are required", i)
		}
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("duplicate product id %q", id)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(fp.Price))
		if err != nil {
			return nil, fmt.Errorf("product %q price: %w", id, err)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("product %q has negative price", id)
		}
		c.byID[id] = len(c.products)
		c.products = append(c.products, Product{
			ID:          id,
			Name:        name,
			Price:       price,
			Description: strings.TrimSpace(fp.Description),
			Image:       strings.TrimSpace(fp.Image),
		})
	}
	return c, nil
}

// Lookup finds a product by id.
func (c *Catalog) Lookup(id string) (Product, bool) {
	i, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Product{}, false
	}
	return c.products[i], true
}

// All returns the products in file order.
func (c *Catalog) All() []Product {
	return append([]Product(nil), c.products...)
}

func (c *Catalog) Len() int {
	return len(c.products)
}
