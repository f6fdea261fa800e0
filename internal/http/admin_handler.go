package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Admpapi/lucifer-website/internal/catalog"
	"github.com/Admpapi/lucifer-website/internal/domain"
	"github.com/Admpapi/lucifer-website/internal/order"
	"github.com/Admpapi/lucifer-website/internal/support"
)

type AdminHandler struct {
	orders  order.RepoInterface
	support *support.Service
	catalog catalog.RepoInterface
	timeout time.Duration
}

func NewAdminHandler(orders order.RepoInterface, supportSvc *support.Service, cat catalog.RepoInterface, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		orders:  orders,
		support: supportSvc,
		catalog: cat,
		timeout: timeout,
	}
}

type AdminOrderDTO struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	OrderID     string    `json:"orderId"`
	UserID      string    `json:"userId"`
	ProductName string    `json:"productName"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

type AnalyticsDTO struct {
	TotalOrders     int     `json:"totalOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
	CompletedOrders int     `json:"completedOrders"`
	OpenTickets     int     `json:"openTickets"`
	TotalProducts   int     `json:"totalProducts"`
}

type CreateProductRequestDTO struct {
	Title   string   `json:"title"`
	Price   float64  `json:"price"`
	PriceID string   `json:"priceId"`
	Image   string   `json:"image"`
	Tags    []string `json:"tags"`
	Stock   int      `json:"stock"`
	IsNew   bool     `json:"isNew"`
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.ListOrders(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}

	dtos := make([]AdminOrderDTO, 0, len(orders))
	for _, o := range orders {
		dtos = append(dtos, AdminOrderDTO{
			ID:          o.ID.String(),
			SessionID:   o.SessionID,
			OrderID:     o.PaymentRef,
			UserID:      o.UserID,
			ProductName: o.ProductDescription,
			Amount:      o.AmountPaid.InexactFloat64(),
			Currency:    o.Currency,
			Status:      string(o.Status),
			CreatedAt:   o.CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, dtos)
}

func (h *AdminHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	total, completed, err := h.orders.CountOrders(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load analytics")
		return
	}

	revenueStr, err := h.orders.SumRevenue(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load analytics")
		return
	}
	revenue, err := decimal.NewFromString(revenueStr)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load analytics")
		return
	}

	openTickets, err := h.support.CountOpenTickets(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load analytics")
		return
	}

	products, err := h.catalog.GetAllProducts(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load analytics")
		return
	}

	respondJSON(w, http.StatusOK, AnalyticsDTO{
		TotalOrders:     total,
		TotalRevenue:    revenue.InexactFloat64(),
		CompletedOrders: completed,
		OpenTickets:     openTickets,
		TotalProducts:   len(products),
	})
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "title is required")
		return
	}
	if req.Price <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_request", "price must be positive")
		return
	}

	product := &domain.Product{
		Title:    req.Title,
		Price:    decimal.NewFromFloat(req.Price),
		PriceRef: req.PriceID,
		ImageURL: req.Image,
		Tags:     req.Tags,
		Stock:    req.Stock,
		IsNew:    req.IsNew,
	}

	if err := h.catalog.CreateProduct(ctx, product); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create product")
		return
	}

	respondJSON(w, http.StatusCreated, productToDTO(product))
}
