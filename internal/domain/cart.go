package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string     `json:"user_id" bson:"user_id"`
	Lines     []CartLine `json:"lines" bson:"lines"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// CartLine holds the unit price snapshotted at the moment the item was
// added, so a later catalog price change does not reprice an open cart.
type CartLine struct {
	ProductID int64           `json:"product_id"`
	Title     string          `json:"title"`
	PriceRef  string          `json:"price_ref"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
}

// Subtotal folds unit price x quantity over all lines using decimal
// arithmetic, so cent-level amounts never drift.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Line returns the line for the given product, or nil.
func (c *Cart) Line(productID int64) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}
