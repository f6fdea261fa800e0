package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Admpapi/lucifer-website/internal/cart"
	"github.com/Admpapi/lucifer-website/internal/catalog"
	"github.com/Admpapi/lucifer-website/internal/checkout"
	"github.com/Admpapi/lucifer-website/internal/discount"
	"github.com/Admpapi/lucifer-website/internal/domain"
)

type CartHandler struct {
	cart     *cart.Service
	checkout *checkout.Service
	timeout  time.Duration
}

func NewCartHandler(cartSvc *cart.Service, checkoutSvc *checkout.Service, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:     cartSvc,
		checkout: checkoutSvc,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartCheckoutRequestDTO struct {
	DiscountCode string `json:"discountCode"`
}

type CartLineDTO struct {
	ProductID int64   `json:"productId"`
	Title     string  `json:"title"`
	PriceID   string  `json:"priceId"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

type CartDiscountDTO struct {
	Code       string  `json:"code"`
	PercentOff int     `json:"percentOff"`
	Amount     float64 `json:"amount"`
}

type CartResponseDTO struct {
	Items    []CartLineDTO    `json:"items"`
	Subtotal float64          `json:"subtotal"`
	Discount *CartDiscountDTO `json:"discount,omitempty"`
	Total    float64          `json:"total"`
}

// cartToDTO prices the cart for display. The discount here is an
// advisory preview; the binding discount is the coupon attached at
// session creation.
func cartToDTO(c *domain.Cart, discountCode string) CartResponseDTO {
	items := make([]CartLineDTO, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, CartLineDTO{
			ProductID: line.ProductID,
			Title:     line.Title,
			PriceID:   line.PriceRef,
			UnitPrice: line.UnitPrice.InexactFloat64(),
			Quantity:  line.Quantity,
		})
	}

	subtotal := c.Subtotal()
	resp := CartResponseDTO{
		Items:    items,
		Subtotal: subtotal.InexactFloat64(),
		Total:    subtotal.InexactFloat64(),
	}

	if d, ok := discount.Resolve(discountCode); ok {
		total, amount := discount.Apply(subtotal, d.PercentOff)
		resp.Discount = &CartDiscountDTO{
			Code:       d.Code,
			PercentOff: d.PercentOff,
			Amount:     amount.InexactFloat64(),
		}
		resp.Total = total.InexactFloat64()
	}

	return resp
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	c, err := h.cart.GetCart(ctx, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, cartToDTO(c, r.URL.Query().Get("discount_code")))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.cart.AddItem(ctx, userID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, cart.ErrInvalidQuantity):
			respondError(w, http.StatusBadRequest, "invalid_quantity", err.Error())
		case errors.Is(err, catalog.ErrProductNotFound):
			respondError(w, http.StatusNotFound, "not_found", "product not found")
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		}
		return
	}

	respondJSON(w, http.StatusCreated, cartToDTO(c, ""))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.cart.UpdateQuantity(ctx, userID, productID, req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "item not in cart")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update quantity")
		return
	}

	respondJSON(w, http.StatusOK, cartToDTO(c, ""))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID, err := parseProductID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	c, err := h.cart.RemoveItem(ctx, userID, productID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove item")
		return
	}

	respondJSON(w, http.StatusOK, cartToDTO(c, ""))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.cart.Clear(ctx, userID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Checkout turns the server-side cart into a checkout session. Line
// items come from the stored cart, never the request body, so a stale
// client cannot check out prices it no longer sees.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CartCheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	c, err := h.cart.GetCart(ctx, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}
	if len(c.Lines) == 0 {
		respondError(w, http.StatusBadRequest, "", "Cart is empty")
		return
	}

	items := make([]checkout.Item, 0, len(c.Lines))
	for _, line := range c.Lines {
		items = append(items, checkout.Item{
			PriceRef: line.PriceRef,
			Quantity: int64(line.Quantity),
		})
	}

	session, err := h.checkout.BuildSession(ctx, &checkout.Request{
		Items:        items,
		DiscountCode: req.DiscountCode,
		Origin:       r.Header.Get("Origin"),
		UserID:       userID,
	})
	if err != nil {
		if errors.Is(err, checkout.ErrInvalidRequest) {
			respondError(w, http.StatusBadRequest, "", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, CreateSessionResponseDTO{
		ID:  session.ID,
		URL: session.URL,
	})
}

func parseProductID(r *http.Request) (int64, error) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		return 0, errors.New("invalid product id")
	}
	return productID, nil
}
