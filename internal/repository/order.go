package repository

import (
	"context"
	"errors"

	"github.com/ekartshop/backend/internal/models"
	"github.com/ekartshop/backend/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertOrderQuery = `
						INSERT INTO orders (id, customer_name, email, address, total, status)
						VALUES ($1, $2, $3, $4, $5, $6)
						RETURNING id, customer_name, email, address, total, status, transaction_id, created_at
`
	selectOrderByIDQuery = `
						SELECT id, customer_name, email, address, total, status, transaction_id, created_at FROM orders
						WHERE id = $1
`
	selectOrdersQuery = `
						SELECT id, customer_name, email, address, total, status, transaction_id, created_at FROM orders
						ORDER BY created_at DESC
`
	markOrderPaidQuery = `
						UPDATE orders
						SET status = $3, transaction_id = $2
						WHERE id = $1 AND status = $4
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts new order to database
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := or.db.QueryRow(ctx, insertOrderQuery,
		order.ID, order.CustomerName, order.Email, order.Address, order.Total, order.Status,
	).Scan(&order.ID, &order.CustomerName, &order.Email, &order.Address, &order.Total, &order.Status, &order.TransactionID, &order.CreatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return order, nil
}

// GetOrderByID returns order by id
func (or *OrderRepository) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	order := models.Order{}
	err := or.db.QueryRow(ctx, selectOrderByIDQuery, id).Scan(&order.ID, &order.CustomerName, &order.Email, &order.Address, &order.Total, &order.Status, &order.TransactionID, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &order, nil
}

// ListOrders returns all orders, newest first
func (or *OrderRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	rows, err := or.db.Query(ctx, selectOrdersQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order := models.Order{}
		err = rows.Scan(&order.ID, &order.CustomerName, &order.Email, &order.Address, &order.Total, &order.Status, &order.TransactionID, &order.CreatedAt)
		if err != nil {
			continue
		}
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

// MarkPaid transitions pending order to paid together with transaction id.
// The status guard makes the existence check and the transition a single
// statement, so the transaction id is set at most once.
func (or *OrderRepository) MarkPaid(ctx context.Context, id string, transactionID string) (int64, error) {
	cmd, err := or.db.Exec(ctx, markOrderPaidQuery, id, transactionID, models.OrderStatusPaid, models.OrderStatusPending)
	if err != nil {
		return 0, err
	}

	return cmd.RowsAffected(), nil
}
