package models

// Product is catalog entry. Price is in minor currency units.
type Product struct {
	ID    int64
	Name  string
	Price int64
}
