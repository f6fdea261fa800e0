package checkout

import (
	"context"

	"github.com/Admpapi/lucifer-website/internal/domain"
	"github.com/Admpapi/lucifer-website/internal/payment"
)

// MockProvider implements payment.Provider for testing
type MockProvider struct {
	CouponID  string
	CouponErr error
	// Captures the params passed to CreateCoupon
	CouponParams *payment.CouponParams

	Session    *payment.Session
	SessionErr error
	// Captures the params passed to CreateSession
	SessionParams *payment.SessionParams

	Retrieved   *payment.Session
	RetrieveErr error
	RetrievedID string
}

func (m *MockProvider) CreateCoupon(_ context.Context, params payment.CouponParams) (string, error) {
	m.CouponParams = &params
	if m.CouponErr != nil {
		return "", m.CouponErr
	}
	return m.CouponID, nil
}

func (m *MockProvider) CreateSession(_ context.Context, params payment.SessionParams) (*payment.Session, error) {
	m.SessionParams = &params
	if m.SessionErr != nil {
		return nil, m.SessionErr
	}
	return m.Session, nil
}

func (m *MockProvider) GetSession(_ context.Context, id string) (*payment.Session, error) {
	m.RetrievedID = id
	if m.RetrieveErr != nil {
		return nil, m.RetrieveErr
	}
	return m.Retrieved, nil
}

// MockOrderRecorder implements OrderRecorder for testing
type MockOrderRecorder struct {
	Recorded  []*domain.Order
	RecordErr error
}

func (m *MockOrderRecorder) CreateOrder(_ context.Context, order *domain.Order) error {
	if m.RecordErr != nil {
		return m.RecordErr
	}
	m.Recorded = append(m.Recorded, order)
	return nil
}
