package catalog

import "github.com/ekartshop/backend/internal/models"

// Catalog is fixed in-memory product price list. It is the only pricing
// source: client-supplied prices are never trusted.
type Catalog struct {
	products map[int64]models.Product
}

// New creates catalog from product list
func New(products []models.Product) *Catalog {
	m := make(map[int64]models.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return &Catalog{products: m}
}

// Default returns catalog shipped with the store
func Default() *Catalog {
	return New([]models.Product{
		{ID: 1, Name: "Wireless Headphones", Price: 10499},
		{ID: 2, Name: "Mechanical Keyboard", Price: 7999},
		{ID: 3, Name: "USB-C Charger", Price: 2499},
		{ID: 4, Name: "Smart Watch", Price: 15999},
		{ID: 5, Name: "Bluetooth Speaker", Price: 5499},
	})
}

// Product returns product by id
func (c *Catalog) Product(id int64) (models.Product, bool) {
	p, ok := c.products[id]
	return p, ok
}
