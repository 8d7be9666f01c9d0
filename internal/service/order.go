package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"sync"

	"github.com/ekartshop/backend/internal/catalog"
	"github.com/ekartshop/backend/internal/events"
	"github.com/ekartshop/backend/internal/mail"
	"github.com/ekartshop/backend/internal/models"
	"github.com/ekartshop/backend/internal/payment"
	"go.uber.org/zap"
)

// order id is "EK-" + random 0..999999
const orderIDSpace = 1000000

// createRetries bounds id regeneration on a duplicate generated order id
const createRetries = 3

var transactionIDRe = regexp.MustCompile(`^\d{12}$`)

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder inserts new order to database
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	// ListOrders returns all orders, newest first
	ListOrders(ctx context.Context) ([]models.Order, error)
	// MarkPaid transitions pending order to paid together with transaction id
	MarkPaid(ctx context.Context, id string, transactionID string) (int64, error)
}

// Notifier queues outcome email for customer
type Notifier interface {
	Enqueue(order models.Order, outcome mail.Outcome)
}

// EventPublisher publishes order lifecycle events
type EventPublisher interface {
	Publish(ctx context.Context, event string, order models.Order) error
}

// OrderService implements OrderService interface
type OrderService struct {
	repo     OrderRepository
	catalog  *catalog.Catalog
	verifier payment.Verifier
	notifier Notifier
	events   EventPublisher
	logger   *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewOrderService creates new OrderService instance
func NewOrderService(repo OrderRepository, cat *catalog.Catalog, verifier payment.Verifier, notifier Notifier, events EventPublisher, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		catalog:  cat,
		verifier: verifier,
		notifier: notifier,
		events:   events,
		logger:   logger,
		locks:    map[string]*sync.Mutex{},
	}
}

// CreateOrder prices the cart against the catalog and persists a pending
// order. Items with unknown product ids are skipped and contribute nothing
// to the total.
func (os *OrderService) CreateOrder(ctx context.Context, items []models.CartItem, customer models.Customer) (*models.Order, error) {
	var total int64
	for _, it := range items {
		p, ok := os.catalog.Product(it.ProductID)
		if !ok {
			os.logger.Warn("unknown product in cart, skipping", zap.Int64("product_id", it.ProductID))
			continue
		}
		total += p.Price * it.Quantity
	}

	for attempt := 0; attempt < createRetries; attempt++ {
		id, err := newOrderID()
		if err != nil {
			return nil, err
		}

		order := &models.Order{
			ID:           id,
			CustomerName: strings.TrimSpace(customer.FirstName + " " + customer.LastName),
			Email:        customer.Email,
			Address:      customer.Address,
			Total:        total,
			Status:       models.OrderStatusPending,
		}

		order, err = os.repo.CreateOrder(ctx, order)
		if errors.Is(err, models.ErrConflictData) {
			os.logger.Warn("generated order id collided, retrying", zap.String("order", id))
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := os.events.Publish(ctx, events.EventOrderCreated, *order); err != nil {
			os.logger.Error("publish order created event", zap.Error(err))
		}

		return order, nil
	}

	return nil, models.ErrConflictData
}

// VerifyPayment validates the transaction id, runs the payment verifier and
// transitions the order to paid on acceptance. A rejected transaction leaves
// the order pending and retryable.
func (os *OrderService) VerifyPayment(ctx context.Context, orderID, transactionID string) error {
	if !transactionIDRe.MatchString(transactionID) {
		return models.ErrInvalidTransactionID
	}

	accepted, err := os.verifier.Verify(ctx, transactionID)
	if err != nil {
		return err
	}

	// serialize concurrent verification attempts for the same order
	unlock := os.lockOrder(orderID)
	defer unlock()

	order, err := os.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if !accepted {
		os.notifier.Enqueue(*order, mail.OutcomeFailed)
		return models.ErrPaymentDeclined
	}

	affected, err := os.repo.MarkPaid(ctx, orderID, transactionID)
	if err != nil {
		return err
	}
	if affected == 0 {
		cur, err := os.repo.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		if cur.Status == models.OrderStatusPaid {
			return models.ErrOrderAlreadyPaid
		}
		return models.ErrDataNotFound
	}

	order.Status = models.OrderStatusPaid
	order.TransactionID = &transactionID

	os.notifier.Enqueue(*order, mail.OutcomeSuccess)

	if err := os.events.Publish(ctx, events.EventOrderPaid, *order); err != nil {
		os.logger.Error("publish order paid event", zap.Error(err))
	}

	return nil
}

// ListOrders returns all orders, newest first
func (os *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return os.repo.ListOrders(ctx)
}

// lockOrder takes the per-order mutex and returns its unlock
func (os *OrderService) lockOrder(id string) func() {
	os.mu.Lock()
	l, ok := os.locks[id]
	if !ok {
		l = &sync.Mutex{}
		os.locks[id] = l
	}
	os.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// newOrderID generates order id in form "EK-" + random 0..999999
func newOrderID() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(orderIDSpace))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EK-%d", n.Int64()), nil
}
