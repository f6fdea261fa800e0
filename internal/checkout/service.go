package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Admpapi/lucifer-website/internal/discount"
	"github.com/Admpapi/lucifer-website/internal/domain"
	"github.com/Admpapi/lucifer-website/internal/metrics"
	orderstore "github.com/Admpapi/lucifer-website/internal/order"
	"github.com/Admpapi/lucifer-website/internal/payment"
)

// Request is one checkout attempt. It is built fresh per request and
// never persisted. A request carries either Items (cart checkout) or
// PriceRef (single-item checkout); when both are set, Items wins.
type Request struct {
	PriceRef     string
	Items        []Item
	DiscountCode string
	Origin       string
	UserID       string
}

type Item struct {
	PriceRef string
	Quantity int64
}

// Session is the redirect target returned to the storefront.
type Session struct {
	ID  string
	URL string
}

// OrderRecorder persists a materialized order after the provider
// confirms payment. Consumers define this interface, not the postgres
// implementation.
type OrderRecorder interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
}

type Service struct {
	provider payment.Provider
	orders   OrderRecorder // optional; nil disables order materialization
	metrics  *metrics.CheckoutMetrics
	baseURL  string // fallback when the request carries no Origin header
}

func NewService(provider payment.Provider, orders OrderRecorder, m *metrics.CheckoutMetrics, baseURL string) *Service {
	return &Service{
		provider: provider,
		orders:   orders,
		metrics:  m,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

// BuildSession validates the request, optionally registers a single-use
// coupon, and creates a hosted checkout session at the payment provider.
//
// A coupon-creation failure does not abort the checkout: the session is
// created without the discount. Completing the sale is worth more than
// guaranteeing the discount.
func (s *Service) BuildSession(ctx context.Context, req *Request) (*Session, error) {
	lineItems, err := resolveLineItems(req)
	if err != nil {
		return nil, err
	}

	origin := strings.TrimSuffix(req.Origin, "/")
	if origin == "" {
		origin = s.baseURL
	}

	params := payment.SessionParams{
		LineItems: lineItems,
		// The provider substitutes the session id into the placeholder
		// when it redirects back.
		SuccessURL: origin + "/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  origin + "/products",
	}

	if req.DiscountCode != "" {
		if d, ok := discount.Resolve(req.DiscountCode); ok {
			couponID, couponErr := s.provider.CreateCoupon(ctx, payment.CouponParams{
				PercentOff: d.PercentOff,
				Name:       d.Code,
			})
			if couponErr != nil {
				// Continue without discount if coupon creation fails.
				log.Printf("error creating coupon for code %s: %v", d.Code, couponErr)
				s.metrics.CouponFailures.Inc()
			} else {
				params.CouponID = couponID
			}
		}
		// An unknown code on an optional field is silently ignored.
	}

	session, err := s.provider.CreateSession(ctx, params)
	if err != nil {
		s.metrics.ProviderErrors.WithLabelValues("create_session").Inc()
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	s.metrics.SessionsCreated.WithLabelValues(discountedLabel(params.CouponID)).Inc()
	return &Session{ID: session.ID, URL: session.URL}, nil
}

// FetchOrderSummary retrieves the finalized session from the provider
// and derives the order view shown on the success page.
func (s *Service) FetchOrderSummary(ctx context.Context, sessionID, userID string) (*domain.OrderSummary, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: missing session_id", ErrInvalidRequest)
	}

	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		s.metrics.ProviderErrors.WithLabelValues("retrieve_session").Inc()
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	summary := &domain.OrderSummary{
		// Multi-item orders only surface the first item's description.
		ProductDescription: firstDescription(session),
		AmountPaid:         minorUnitsToDecimal(session.AmountTotal),
		PaymentRef:         session.PaymentIntentID,
	}

	s.recordOrder(ctx, session, summary, userID)

	return summary, nil
}

// recordOrder materializes a persisted order record for the dashboard
// and admin views. The summary is already derived; a persistence failure
// is logged, never surfaced to the buyer.
func (s *Service) recordOrder(ctx context.Context, session *payment.Session, summary *domain.OrderSummary, userID string) {
	if s.orders == nil {
		return
	}

	now := time.Now()
	order := &domain.Order{
		ID:                 uuid.New(),
		SessionID:          session.ID,
		PaymentRef:         session.PaymentIntentID,
		UserID:             userID,
		ProductDescription: summary.ProductDescription,
		AmountPaid:         summary.AmountPaid,
		Currency:           session.Currency,
		Status:             domain.OrderStatusCompleted,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, orderstore.ErrDuplicateOrder) {
			return // summary refetched, order already materialized
		}
		log.Printf("failed to record order for session %s: %v", session.ID, err)
	}
}

func resolveLineItems(req *Request) ([]payment.LineItem, error) {
	// Cart checkout with multiple items takes precedence over the
	// single-item form; an empty items slice is treated as absent.
	if len(req.Items) > 0 {
		lineItems := make([]payment.LineItem, 0, len(req.Items))
		for _, item := range req.Items {
			if item.PriceRef == "" {
				return nil, fmt.Errorf("%w: item is missing a price id", ErrInvalidRequest)
			}
			if item.Quantity < 1 {
				return nil, fmt.Errorf("%w: item quantity must be at least 1", ErrInvalidRequest)
			}
			lineItems = append(lineItems, payment.LineItem{PriceRef: item.PriceRef, Quantity: item.Quantity})
		}
		return lineItems, nil
	}

	if req.PriceRef != "" {
		return []payment.LineItem{{PriceRef: req.PriceRef, Quantity: 1}}, nil
	}

	return nil, fmt.Errorf("%w: missing price ID or items", ErrInvalidRequest)
}

func discountedLabel(couponID string) string {
	if couponID != "" {
		return "yes"
	}
	return "no"
}

func firstDescription(session *payment.Session) string {
	if len(session.LineItems) == 0 {
		return ""
	}
	return session.LineItems[0].Description
}

// minorUnitsToDecimal converts the provider's integer minor-unit amount
// into a currency decimal, defaulting to 0 while payment is pending.
func minorUnitsToDecimal(minor int64) decimal.Decimal {
	if minor == 0 {
		return decimal.Zero
	}
	return decimal.New(minor, -2)
}
