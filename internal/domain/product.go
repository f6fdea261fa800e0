package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a purchasable catalog item. The catalog is read-mostly:
// products are seeded from the store listing and only touched by the
// admin back-office.
type Product struct {
	ID        int64
	Title     string
	Price     decimal.Decimal
	PriceRef  string // payment-provider price reference (opaque)
	ImageURL  string
	Tags      []string
	Stock     int
	IsNew     bool
	CreatedAt time.Time
}
