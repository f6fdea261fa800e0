package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Admpapi/lucifer-website/internal/checkout"
	"github.com/Admpapi/lucifer-website/internal/order"
)

type OrderHandler struct {
	checkout *checkout.Service
	orders   order.RepoInterface
	timeout  time.Duration
}

func NewOrderHandler(svc *checkout.Service, orders order.RepoInterface, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		checkout: svc,
		orders:   orders,
		timeout:  timeout,
	}
}

type OrderDetailsResponseDTO struct {
	ProductName string  `json:"productName"`
	Amount      float64 `json:"amount"`
	OrderID     string  `json:"orderId"`
}

// nestedErrorDTO mirrors the provider-style error body the success page
// expects on lookup failures: {"error": {"message": "..."}}.
type nestedErrorDTO struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type OrderDTO struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"orderId"`
	ProductName string    `json:"productName"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ListOrders returns the authenticated user's order history, most
// recent first. This is the dashboard view over orders materialized at
// reconciliation time.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	orders, err := h.orders.ListOrdersByUserID(ctx, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}

	dtos := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, OrderDTO{
			ID:          o.ID.String(),
			OrderID:     o.PaymentRef,
			ProductName: o.ProductDescription,
			Amount:      o.AmountPaid.InexactFloat64(),
			Currency:    o.Currency,
			Status:      string(o.Status),
			CreatedAt:   o.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, dtos)
}

func (h *OrderHandler) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "", "Missing session_id")
		return
	}

	summary, err := h.checkout.FetchOrderSummary(ctx, sessionID, getUserIDFromContext(r.Context()))
	if err != nil {
		// The lookup failure's message is echoed so the success page can
		// show what the provider reported.
		var body nestedErrorDTO
		body.Error.Message = err.Error()
		respondJSON(w, http.StatusInternalServerError, body)
		return
	}

	respondJSON(w, http.StatusOK, OrderDetailsResponseDTO{
		ProductName: summary.ProductDescription,
		Amount:      summary.AmountPaid.InexactFloat64(),
		OrderID:     summary.PaymentRef,
	})
}
