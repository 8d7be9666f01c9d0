package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ekartshop/backend/internal/models"
)

// OrderService is interface for order-related operations
type OrderService interface {
	// CreateOrder prices the cart and persists a pending order
	CreateOrder(ctx context.Context, items []models.CartItem, customer models.Customer) (*models.Order, error)
	// VerifyPayment validates and applies a payment transaction id
	VerifyPayment(ctx context.Context, orderID, transactionID string) error
	// ListOrders returns all orders, newest first
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// OrderHandler represents HTTP handler for order-related requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type cartItemReq struct {
	ID       int64 `json:"id"`
	Quantity int64 `json:"quantity"`
}

type customerReq struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

type createOrderRequest struct {
	Items    []cartItemReq `json:"items"`
	Customer customerReq   `json:"customer"`
}

type createOrderResponse struct {
	OrderID string `json:"orderId"`
	Total   int64  `json:"total"`
}

// CreateOrder accepts cart submission
// 200 — заказ создан;
// 400 — неверный формат запроса;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		items := make([]models.CartItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, models.CartItem{ProductID: it.ID, Quantity: it.Quantity})
		}

		order, err := oh.svc.CreateOrder(r.Context(), items, models.Customer{
			FirstName: req.Customer.FirstName,
			LastName:  req.Customer.LastName,
			Email:     req.Customer.Email,
			Address:   req.Customer.Address,
		})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := createOrderResponse{
			OrderID: order.ID,
			Total:   order.Total,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}

type verifyPaymentRequest struct {
	OrderID       string `json:"orderId"`
	TransactionID string `json:"transactionId"`
}

type verifyPaymentResponse struct {
	Success bool `json:"success"`
}

// VerifyPayment verifies payment transaction id for order
// 200 — платёж подтверждён;
// 400 — неверный формат запроса или платёж отклонён;
// 404 — заказ не найден;
// 409 — заказ уже оплачен;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) VerifyPayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req verifyPaymentRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		err := oh.svc.VerifyPayment(r.Context(), req.OrderID, req.TransactionID)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidTransactionID):
				http.Error(w, models.ErrInvalidTransactionID.Error(), http.StatusBadRequest)
			case errors.Is(err, models.ErrPaymentDeclined):
				http.Error(w, "payment was not confirmed, the order remains pending", http.StatusBadRequest)
			case errors.Is(err, models.ErrDataNotFound):
				http.Error(w, "order not found", http.StatusNotFound)
			case errors.Is(err, models.ErrOrderAlreadyPaid):
				http.Error(w, "order is already paid", http.StatusConflict)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(verifyPaymentResponse{Success: true}); err != nil {
			return
		}
	}
}

// ListOrdersResp is single order in admin listing
type ListOrdersResp struct {
	ID            string `json:"id"`
	CustomerName  string `json:"customerName"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Total         int64  `json:"total"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId,omitempty"`
	CreatedAt     string `json:"createdAt"`
}

// ListOrders returns all orders, newest first
// 200 — успешная обработка запроса;
// 500 — внутренняя ошибка сервера.
func (oh *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orders, err := oh.svc.ListOrders(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := make([]ListOrdersResp, 0, len(orders))
		for _, order := range orders {
			item := ListOrdersResp{
				ID:           order.ID,
				CustomerName: order.CustomerName,
				Email:        order.Email,
				Address:      order.Address,
				Total:        order.Total,
				Status:       order.Status,
				CreatedAt:    order.CreatedAt.Format(time.RFC3339),
			}
			if order.TransactionID != nil {
				item.TransactionID = *order.TransactionID
			}
			resp = append(resp, item)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			return
		}
	}
}
