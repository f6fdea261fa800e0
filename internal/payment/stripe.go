package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

// Accepted payment instruments are fixed: card, iDEAL (regional bank
// transfer) and PayPal.
var paymentMethodTypes = []string{"card", "ideal", "paypal"}

type StripeProvider struct {
	api     *client.API
	breaker *gobreaker.CircuitBreaker[any]
	timeout time.Duration
}

func NewStripeProvider(secretKey string, timeout time.Duration) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)

	breaker := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "stripe",
		Timeout: 30 * time.Second,
	})

	return &StripeProvider{
		api:     api,
		breaker: breaker,
		timeout: timeout,
	}
}

func (s *StripeProvider) CreateCoupon(ctx context.Context, params CouponParams) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	couponParams := &stripe.CouponParams{
		PercentOff: stripe.Float64(float64(params.PercentOff)),
		Duration:   stripe.String(string(stripe.CouponDurationOnce)),
		Name:       stripe.String(params.Name),
	}
	couponParams.Context = ctx

	v, err := s.breaker.Execute(func() (any, error) {
		return s.api.Coupons.New(couponParams)
	})
	if err != nil {
		return "", providerErr("stripe coupon create", err)
	}

	return v.(*stripe.Coupon).ID, nil
}

func (s *StripeProvider) CreateSession(ctx context.Context, params SessionParams) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sessionParams := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice(paymentMethodTypes),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
	}
	sessionParams.Context = ctx

	for _, item := range params.LineItems {
		sessionParams.LineItems = append(sessionParams.LineItems, &stripe.CheckoutSessionLineItemParams{
			Price:    stripe.String(item.PriceRef),
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	if params.CouponID != "" {
		sessionParams.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(params.CouponID)},
		}
	}

	v, err := s.breaker.Execute(func() (any, error) {
		return s.api.CheckoutSessions.New(sessionParams)
	})
	if err != nil {
		return nil, providerErr("stripe session create", err)
	}

	return convertSession(v.(*stripe.CheckoutSession)), nil
}

func (s *StripeProvider) GetSession(ctx context.Context, id string) (*Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx
	getParams.AddExpand("line_items")

	v, err := s.breaker.Execute(func() (any, error) {
		return s.api.CheckoutSessions.Get(id, getParams)
	})
	if err != nil {
		return nil, providerErr("stripe session retrieve", err)
	}

	return convertSession(v.(*stripe.CheckoutSession)), nil
}

// providerErr keeps circuit-breaker rejections distinguishable from
// genuine provider responses.
func providerErr(op string, err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", op, ErrProviderUnavailable)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func convertSession(cs *stripe.CheckoutSession) *Session {
	session := &Session{
		ID:          cs.ID,
		URL:         cs.URL,
		AmountTotal: cs.AmountTotal,
		Currency:    string(cs.Currency),
	}
	if cs.PaymentIntent != nil {
		session.PaymentIntentID = cs.PaymentIntent.ID
	}
	if cs.LineItems != nil {
		for _, li := range cs.LineItems.Data {
			session.LineItems = append(session.LineItems, SessionLineItem{
				Description: li.Description,
				Quantity:    li.Quantity,
				AmountTotal: li.AmountTotal,
			})
		}
	}
	return session
}
