package models

import "time"

// order status
const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

// Order is order entity. Total is in minor currency units.
type Order struct {
	ID            string
	CustomerName  string
	Email         string
	Address       string
	Total         int64
	Status        string
	TransactionID *string
	CreatedAt     time.Time
}

// Customer is buyer info submitted with cart
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Address   string
}

// CartItem is single requested cart position
type CartItem struct {
	ProductID int64
	Quantity  int64
}
