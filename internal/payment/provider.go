// Package payment wraps the hosted payment provider. The rest of the
// application talks to the Provider interface; the Stripe implementation
// lives in stripe.go.
package payment

import (
	"context"
	"errors"
)

var ErrProviderUnavailable = errors.New("payment provider unavailable")

type CouponParams struct {
	PercentOff int
	Name       string
}

type LineItem struct {
	PriceRef string
	Quantity int64
}

type SessionParams struct {
	LineItems  []LineItem
	CouponID   string // optional, one coupon max per session
	SuccessURL string
	CancelURL  string
}

type SessionLineItem struct {
	Description string
	Quantity    int64
	AmountTotal int64 // minor units
}

// Session is the provider-side checkout session, reduced to the fields
// this application reads. Everything else stays opaque at the provider.
type Session struct {
	ID              string
	URL             string
	AmountTotal     int64 // minor units; zero while payment is pending
	Currency        string
	PaymentIntentID string
	LineItems       []SessionLineItem
}

type Provider interface {
	// CreateCoupon registers a single-use percentage coupon and returns
	// its provider-side id.
	CreateCoupon(ctx context.Context, params CouponParams) (string, error)
	CreateSession(ctx context.Context, params SessionParams) (*Session, error)
	// GetSession retrieves a finalized session with line items expanded.
	GetSession(ctx context.Context, id string) (*Session, error)
}
