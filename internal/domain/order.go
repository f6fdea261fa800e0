package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
)

// Order is the persisted record materialized after the payment provider
// confirms a checkout session. The dashboard order-history and admin
// order-listing views read these records.
type Order struct {
	ID                 uuid.UUID
	SessionID          string
	PaymentRef         string
	UserID             string
	ProductDescription string
	AmountPaid         decimal.Decimal
	Currency           string
	Status             OrderStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// OrderSummary is the read-only view returned to the success page after
// the provider redirects back. It is derived from the provider session,
// never stored as-is.
type OrderSummary struct {
	ProductDescription string
	AmountPaid         decimal.Decimal
	PaymentRef         string
}
