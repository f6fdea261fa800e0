package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Admpapi/lucifer-website/internal/catalog"
	"github.com/Admpapi/lucifer-website/internal/domain"
)

type ProductHandler struct {
	catalog catalog.RepoInterface
	timeout time.Duration
}

func NewProductHandler(repo catalog.RepoInterface, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: repo,
		timeout: timeout,
	}
}

type ProductDTO struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Price   float64  `json:"price"`
	PriceID string   `json:"priceId"`
	Image   string   `json:"image,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Stock   int      `json:"stock"`
	IsNew   bool     `json:"isNew"`
}

func productToDTO(p *domain.Product) ProductDTO {
	return ProductDTO{
		ID:      p.ID,
		Title:   p.Title,
		Price:   p.Price.InexactFloat64(),
		PriceID: p.PriceRef,
		Image:   p.ImageURL,
		Tags:    p.Tags,
		Stock:   p.Stock,
		IsNew:   p.IsNew,
	}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.GetAllProducts(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}

	dtos := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		dtos = append(dtos, productToDTO(p))
	}

	respondJSON(w, http.StatusOK, dtos)
}
