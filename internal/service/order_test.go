package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/ekartshop/backend/internal/catalog"
	"github.com/ekartshop/backend/internal/mail"
	"github.com/ekartshop/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type repoStub struct {
	createFn   func(ctx context.Context, order *models.Order) (*models.Order, error)
	getFn      func(ctx context.Context, id string) (*models.Order, error)
	listFn     func(ctx context.Context) ([]models.Order, error)
	markPaidFn func(ctx context.Context, id string, transactionID string) (int64, error)
}

func (r *repoStub) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return r.createFn(ctx, order)
}

func (r *repoStub) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return r.getFn(ctx, id)
}

func (r *repoStub) ListOrders(ctx context.Context) ([]models.Order, error) {
	return r.listFn(ctx)
}

func (r *repoStub) MarkPaid(ctx context.Context, id string, transactionID string) (int64, error) {
	return r.markPaidFn(ctx, id, transactionID)
}

type verifierStub struct {
	accepted bool
	err      error
	calls    int
}

func (v *verifierStub) Verify(ctx context.Context, transactionID string) (bool, error) {
	v.calls++
	return v.accepted, v.err
}

type notifierStub struct {
	orders   []models.Order
	outcomes []mail.Outcome
}

func (n *notifierStub) Enqueue(order models.Order, outcome mail.Outcome) {
	n.orders = append(n.orders, order)
	n.outcomes = append(n.outcomes, outcome)
}

type publisherStub struct {
	events []string
}

func (p *publisherStub) Publish(ctx context.Context, event string, order models.Order) error {
	p.events = append(p.events, event)
	return nil
}

var orderIDRe = regexp.MustCompile(`^EK-\d{1,6}$`)

func newTestService(repo OrderRepository, v *verifierStub, n *notifierStub, p *publisherStub) *OrderService {
	return NewOrderService(repo, catalog.Default(), v, n, p, zap.NewNop())
}

func TestOrderService_CreateOrder(t *testing.T) {
	tests := []struct {
		name      string
		items     []models.CartItem
		wantTotal int64
	}{
		{
			name:      "single_item",
			items:     []models.CartItem{{ProductID: 1, Quantity: 2}},
			wantTotal: 20998,
		},
		{
			name: "unknown_product_contributes_nothing",
			items: []models.CartItem{
				{ProductID: 1, Quantity: 2},
				{ProductID: 99, Quantity: 5},
			},
			wantTotal: 20998,
		},
		{
			name:      "empty_cart",
			items:     []models.CartItem{},
			wantTotal: 0,
		},
		{
			name: "mixed_cart",
			items: []models.CartItem{
				{ProductID: 2, Quantity: 1},
				{ProductID: 3, Quantity: 3},
			},
			wantTotal: 7999 + 3*2499,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &repoStub{
				createFn: func(ctx context.Context, order *models.Order) (*models.Order, error) {
					return order, nil
				},
			}
			pub := &publisherStub{}
			svc := newTestService(repo, &verifierStub{}, &notifierStub{}, pub)

			order, err := svc.CreateOrder(context.Background(), tt.items, models.Customer{
				FirstName: "Jane",
				LastName:  "Doe",
				Email:     "jane@example.com",
				Address:   "1 Main St",
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantTotal, order.Total)
			assert.Equal(t, models.OrderStatusPending, order.Status)
			assert.Equal(t, "Jane Doe", order.CustomerName)
			assert.Regexp(t, orderIDRe, order.ID)
			assert.Equal(t, []string{"order.created"}, pub.events)
		})
	}
}

func TestOrderService_CreateOrder_RetriesOnDuplicateID(t *testing.T) {
	calls := 0
	repo := &repoStub{
		createFn: func(ctx context.Context, order *models.Order) (*models.Order, error) {
			calls++
			if calls == 1 {
				return nil, models.ErrConflictData
			}
			return order, nil
		},
	}
	svc := newTestService(repo, &verifierStub{}, &notifierStub{}, &publisherStub{})

	order, err := svc.CreateOrder(context.Background(), nil, models.Customer{})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Regexp(t, orderIDRe, order.ID)
}

func TestOrderService_CreateOrder_GivesUpAfterRetries(t *testing.T) {
	calls := 0
	repo := &repoStub{
		createFn: func(ctx context.Context, order *models.Order) (*models.Order, error) {
			calls++
			return nil, models.ErrConflictData
		},
	}
	svc := newTestService(repo, &verifierStub{}, &notifierStub{}, &publisherStub{})

	_, err := svc.CreateOrder(context.Background(), nil, models.Customer{})
	assert.ErrorIs(t, err, models.ErrConflictData)
	assert.Equal(t, createRetries, calls)
}

func TestOrderService_VerifyPayment_InvalidFormat(t *testing.T) {
	tests := []struct {
		name          string
		transactionID string
	}{
		{name: "empty", transactionID: ""},
		{name: "letters", transactionID: "20260000000a"},
		{name: "too_short", transactionID: "2026000001"},
		{name: "too_long", transactionID: "2026000000013"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &verifierStub{accepted: true}
			svc := newTestService(&repoStub{}, v, &notifierStub{}, &publisherStub{})

			err := svc.VerifyPayment(context.Background(), "EK-1", tt.transactionID)
			assert.ErrorIs(t, err, models.ErrInvalidTransactionID)
			// format is rejected before the verifier or the store is touched
			assert.Zero(t, v.calls)
		})
	}
}

func TestOrderService_VerifyPayment_Accepted(t *testing.T) {
	pending := models.Order{ID: "EK-1", Email: "jane@example.com", Total: 20998, Status: models.OrderStatusPending}

	var gotTxID string
	repo := &repoStub{
		getFn: func(ctx context.Context, id string) (*models.Order, error) {
			o := pending
			return &o, nil
		},
		markPaidFn: func(ctx context.Context, id string, transactionID string) (int64, error) {
			gotTxID = transactionID
			return 1, nil
		},
	}
	notifier := &notifierStub{}
	pub := &publisherStub{}
	svc := newTestService(repo, &verifierStub{accepted: true}, notifier, pub)

	err := svc.VerifyPayment(context.Background(), "EK-1", "202600000001")
	require.NoError(t, err)

	assert.Equal(t, "202600000001", gotTxID)
	require.Len(t, notifier.outcomes, 1)
	assert.Equal(t, mail.OutcomeSuccess, notifier.outcomes[0])
	assert.Equal(t, models.OrderStatusPaid, notifier.orders[0].Status)
	assert.Equal(t, []string{"order.paid"}, pub.events)
}

func TestOrderService_VerifyPayment_Declined(t *testing.T) {
	markPaidCalled := false
	repo := &repoStub{
		getFn: func(ctx context.Context, id string) (*models.Order, error) {
			return &models.Order{ID: id, Status: models.OrderStatusPending}, nil
		},
		markPaidFn: func(ctx context.Context, id string, transactionID string) (int64, error) {
			markPaidCalled = true
			return 1, nil
		},
	}
	notifier := &notifierStub{}
	svc := newTestService(repo, &verifierStub{accepted: false}, notifier, &publisherStub{})

	err := svc.VerifyPayment(context.Background(), "EK-1", "201100000001")
	assert.ErrorIs(t, err, models.ErrPaymentDeclined)
	assert.False(t, markPaidCalled)
	require.Len(t, notifier.outcomes, 1)
	assert.Equal(t, mail.OutcomeFailed, notifier.outcomes[0])
}

func TestOrderService_VerifyPayment_OrderNotFound(t *testing.T) {
	repo := &repoStub{
		getFn: func(ctx context.Context, id string) (*models.Order, error) {
			return nil, models.ErrDataNotFound
		},
	}
	notifier := &notifierStub{}

	// lookup takes precedence over the acceptance rule, so a nonexistent
	// order reports not found even for a transaction id that would fail
	svc := newTestService(repo, &verifierStub{accepted: false}, notifier, &publisherStub{})

	err := svc.VerifyPayment(context.Background(), "EK-404", "201100000001")
	assert.ErrorIs(t, err, models.ErrDataNotFound)
	assert.Empty(t, notifier.outcomes)
}

func TestOrderService_VerifyPayment_AlreadyPaid(t *testing.T) {
	txID := "202600000001"
	calls := 0
	repo := &repoStub{
		getFn: func(ctx context.Context, id string) (*models.Order, error) {
			calls++
			status := models.OrderStatusPending
			if calls > 1 {
				status = models.OrderStatusPaid
			}
			return &models.Order{ID: id, Status: status, TransactionID: &txID}, nil
		},
		markPaidFn: func(ctx context.Context, id string, transactionID string) (int64, error) {
			return 0, nil
		},
	}
	notifier := &notifierStub{}
	svc := newTestService(repo, &verifierStub{accepted: true}, notifier, &publisherStub{})

	err := svc.VerifyPayment(context.Background(), "EK-1", "202600000002")
	assert.ErrorIs(t, err, models.ErrOrderAlreadyPaid)
	assert.Empty(t, notifier.outcomes)
}
