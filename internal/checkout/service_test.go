package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Admpapi/lucifer-website/internal/metrics"
	orderstore "github.com/Admpapi/lucifer-website/internal/order"
	"github.com/Admpapi/lucifer-website/internal/payment"
)

func newTestService(provider *MockProvider, orders OrderRecorder) *Service {
	return NewService(provider, orders, metrics.NewNopCheckoutMetrics(), "http://localhost:3000")
}

func providerSession() *payment.Session {
	return &payment.Session{
		ID:  "cs_test_123",
		URL: "https://checkout.example.com/cs_test_123",
	}
}

func TestBuildSession_CartItems(t *testing.T) {
	provider := &MockProvider{Session: providerSession()}
	svc := newTestService(provider, nil)

	session, err := svc.BuildSession(context.Background(), &Request{
		Items: []Item{
			{PriceRef: "price_future", Quantity: 2},
			{PriceRef: "price_nitro", Quantity: 1},
		},
		Origin: "https://shop.example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)
	assert.Equal(t, "https://checkout.example.com/cs_test_123", session.URL)

	require.NotNil(t, provider.SessionParams)
	require.Len(t, provider.SessionParams.LineItems, 2)
	assert.Equal(t, payment.LineItem{PriceRef: "price_future", Quantity: 2}, provider.SessionParams.LineItems[0])
	assert.Equal(t, "https://shop.example.com/success?session_id={CHECKOUT_SESSION_ID}", provider.SessionParams.SuccessURL)
	assert.Equal(t, "https://shop.example.com/products", provider.SessionParams.CancelURL)
}

func TestBuildSession_SingleItem(t *testing.T) {
	provider := &MockProvider{Session: providerSession()}
	svc := newTestService(provider, nil)

	_, err := svc.BuildSession(context.Background(), &Request{PriceRef: "price_future"})

	require.NoError(t, err)
	require.Len(t, provider.SessionParams.LineItems, 1)
	assert.Equal(t, payment.LineItem{PriceRef: "price_future", Quantity: 1}, provider.SessionParams.LineItems[0])
}

func TestBuildSession_ItemsTakePrecedenceOverPriceID(t *testing.T) {
	provider := &MockProvider{Session: providerSession()}
	svc := newTestService(provider, nil)

	_, err := svc.BuildSession(context.Background(), &Request{
		PriceRef: "price_ignored",
		Items:    []Item{{PriceRef: "price_future", Quantity: 3}},
	})

	require.NoError(t, err)
	require.Len(t, provider.SessionParams.LineItems, 1)
	assert.Equal(t, "price_future", provider.SessionParams.LineItems[0].PriceRef)
}

func TestBuildSession_MissingInput(t *testing.T) {
	svc := newTestService(&MockProvider{}, nil)

	_, err := svc.BuildSession(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	// An empty items array with no priceId is invalid too.
	_, err = svc.BuildSession(context.Background(), &Request{Items: []Item{}})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestBuildSession_EmptyItemsFallsBackToPriceID(t *testing.T) {
	provider := &MockProvider{Session: providerSession()}
	svc := newTestService(provider, nil)

	_, err := svc.BuildSession(context.Background(), &Request{
		PriceRef: "price_future",
		Items:    []Item{},
	})

	require.NoError(t, err)
	assert.Equal(t, "price_future", provider.SessionParams.LineItems[0].PriceRef)
}

func TestBuildSession_InvalidLine(t *testing.T) {
	svc := newTestService(&MockProvider{}, nil)

	_, err := svc.BuildSession(context.Background(), &Request{
		Items: []Item{{PriceRef: "", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = svc.BuildSession(context.Background(), &Request{
		Items: []Item{{PriceRef: "price_future", Quantity: 0}},
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestBuildSession_AppliesDiscountCoupon(t *testing.T) {
	provider := &MockProvider{CouponID: "coupon_abc", Session: providerSession()}
	svc := newTestService(provider, nil)

	_, err := svc.BuildSession(context.Background(), &Request{
		Items:        []Item{{PriceRef: "price_future", Quantity: 1}},
		DiscountCode: " lucifer20 ",
	})

	require.NoError(t, err)
	require.NotNil(t, provider.CouponParams)
	assert.Equal(t, 20, provider.CouponParams.PercentOff)
	assert.Equal(t, "LUCIFER20", provider.CouponParams.Name)
	assert.Equal(t, "coupon_abc", provider.SessionParams.CouponID)
}

func TestBuildSession_UnknownCodeIsIgnored(t *testing.T) {
	provider := &MockProvider{Session: providerSession()}
	svc := newTestService(provider, nil)

	_, err := svc.BuildSession(context.Background(), &Request{
		Items:        []Item{{PriceRef: "price_future", Quantity: 1}},
		DiscountCode: "NOTACODE",
	})

	require.NoError(t, err)
	// No coupon was ever requested for a miss.
	assert.Nil(t, provider.CouponParams)
	assert.Empty(t, provider.SessionParams.CouponID)
}

func TestBuildSession_CouponFailureDoesNotAbortCheckout(t *testing.T) {
	provider := &MockProvider{
		CouponErr: errors.New("coupon service down"),
		Session:   providerSession(),
	}
	svc := newTestService(provider, nil)

	session, err := svc.BuildSession(context.Background(), &Request{
		Items:        []Item{{PriceRef: "price_future", Quantity: 1}},
		DiscountCode: "WELCOME10",
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)
	// The session went out without a discount attached.
	assert.Empty(t, provider.SessionParams.CouponID)
}

func TestBuildSession_ProviderFailure(t *testing.T) {
	provider := &MockProvider{SessionErr: errors.New("api down")}
	svc := newTestService(provider, nil)

	_, err := svc.BuildSession(context.Background(), &Request{PriceRef: "price_future"})

	assert.ErrorIs(t, err, ErrProvider)
	assert.Contains(t, err.Error(), "api down")
}

func TestBuildSession_OriginFallback(t *testing.T) {
	provider := &MockProvider{Session: providerSession()}
	svc := newTestService(provider, nil)

	_, err := svc.BuildSession(context.Background(), &Request{PriceRef: "price_future"})

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/success?session_id={CHECKOUT_SESSION_ID}", provider.SessionParams.SuccessURL)
	assert.Equal(t, "http://localhost:3000/products", provider.SessionParams.CancelURL)
}

func TestFetchOrderSummary_MissingSessionID(t *testing.T) {
	provider := &MockProvider{}
	svc := newTestService(provider, nil)

	_, err := svc.FetchOrderSummary(context.Background(), "", "user-1")

	assert.ErrorIs(t, err, ErrInvalidRequest)
	// Validation happens before any provider call.
	assert.Empty(t, provider.RetrievedID)
}

func TestFetchOrderSummary_DerivesSummary(t *testing.T) {
	provider := &MockProvider{
		Retrieved: &payment.Session{
			ID:              "cs_test_123",
			AmountTotal:     1699,
			Currency:        "eur",
			PaymentIntentID: "pi_abc",
			LineItems: []payment.SessionLineItem{
				{Description: "Future Remake", Quantity: 1, AmountTotal: 1500},
				{Description: "Nitro Boost", Quantity: 1, AmountTotal: 199},
			},
		},
	}
	svc := newTestService(provider, nil)

	summary, err := svc.FetchOrderSummary(context.Background(), "cs_test_123", "user-1")

	require.NoError(t, err)
	// Only the first line item's description is surfaced.
	assert.Equal(t, "Future Remake", summary.ProductDescription)
	assert.True(t, summary.AmountPaid.Equal(decimal.RequireFromString("16.99")), "amount %s", summary.AmountPaid)
	assert.Equal(t, "pi_abc", summary.PaymentRef)
}

func TestFetchOrderSummary_PendingAmountDefaultsToZero(t *testing.T) {
	provider := &MockProvider{
		Retrieved: &payment.Session{ID: "cs_test_123", AmountTotal: 0},
	}
	svc := newTestService(provider, nil)

	summary, err := svc.FetchOrderSummary(context.Background(), "cs_test_123", "")

	require.NoError(t, err)
	assert.True(t, summary.AmountPaid.IsZero())
}

func TestFetchOrderSummary_ProviderFailure(t *testing.T) {
	provider := &MockProvider{RetrieveErr: errors.New("no such session")}
	svc := newTestService(provider, nil)

	_, err := svc.FetchOrderSummary(context.Background(), "cs_missing", "")

	assert.ErrorIs(t, err, ErrProvider)
}

func TestFetchOrderSummary_MaterializesOrder(t *testing.T) {
	provider := &MockProvider{
		Retrieved: &payment.Session{
			ID:              "cs_test_123",
			AmountTotal:     1500,
			Currency:        "eur",
			PaymentIntentID: "pi_abc",
			LineItems:       []payment.SessionLineItem{{Description: "Future Remake"}},
		},
	}
	orders := &MockOrderRecorder{}
	svc := newTestService(provider, orders)

	_, err := svc.FetchOrderSummary(context.Background(), "cs_test_123", "user-1")

	require.NoError(t, err)
	require.Len(t, orders.Recorded, 1)
	order := orders.Recorded[0]
	assert.Equal(t, "cs_test_123", order.SessionID)
	assert.Equal(t, "pi_abc", order.PaymentRef)
	assert.Equal(t, "user-1", order.UserID)
	assert.True(t, order.AmountPaid.Equal(decimal.RequireFromString("15.00")))
}

func TestFetchOrderSummary_PersistenceFailureDoesNotFailSummary(t *testing.T) {
	provider := &MockProvider{
		Retrieved: &payment.Session{ID: "cs_test_123", AmountTotal: 1500},
	}
	orders := &MockOrderRecorder{RecordErr: errors.New("db down")}
	svc := newTestService(provider, orders)

	summary, err := svc.FetchOrderSummary(context.Background(), "cs_test_123", "")

	require.NoError(t, err)
	assert.NotNil(t, summary)
}

func TestFetchOrderSummary_DuplicateOrderIsIgnored(t *testing.T) {
	provider := &MockProvider{
		Retrieved: &payment.Session{ID: "cs_test_123", AmountTotal: 1500},
	}
	orders := &MockOrderRecorder{RecordErr: orderstore.ErrDuplicateOrder}
	svc := newTestService(provider, orders)

	_, err := svc.FetchOrderSummary(context.Background(), "cs_test_123", "")

	require.NoError(t, err)
	assert.Empty(t, orders.Recorded)
}
