package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Admpapi/lucifer-website/internal/checkout"
)

type CheckoutHandler struct {
	checkout *checkout.Service
	timeout  time.Duration
}

func NewCheckoutHandler(svc *checkout.Service, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: svc,
		timeout:  timeout,
	}
}

type CheckoutItemDTO struct {
	PriceID  string `json:"priceId"`
	Quantity int64  `json:"quantity"`
}

type CreateSessionRequestDTO struct {
	PriceID      string            `json:"priceId"`
	Items        []CheckoutItemDTO `json:"items"`
	DiscountCode string            `json:"discountCode"`
}

type CreateSessionResponseDTO struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CreateSessionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	items := make([]checkout.Item, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, checkout.Item{
			PriceRef: item.PriceID,
			Quantity: item.Quantity,
		})
	}

	session, err := h.checkout.BuildSession(ctx, &checkout.Request{
		PriceRef:     req.PriceID,
		Items:        items,
		DiscountCode: req.DiscountCode,
		Origin:       r.Header.Get("Origin"),
		UserID:       getUserIDFromContext(r.Context()),
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
