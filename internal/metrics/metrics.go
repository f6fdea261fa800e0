package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CheckoutMetrics struct {
	SessionsCreated *prometheus.CounterVec
	CouponFailures  prometheus.Counter
	ProviderErrors  *prometheus.CounterVec
}

func NewCheckoutMetrics() *CheckoutMetrics {
	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "sessions_created_total",
		Help:      "Checkout sessions created at the payment provider.",
	}, []string{"discounted"})
	couponFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "coupon_failures_total",
		Help:      "Coupon creations that failed and were silently dropped.",
	})
	providerErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "checkout",
		Name:      "provider_errors_total",
		Help:      "Payment provider calls that failed.",
	}, []string{"operation"})

	prometheus.MustRegister(sessions, couponFailures, providerErrors)
	return &CheckoutMetrics{
		SessionsCreated: sessions,
		CouponFailures:  couponFailures,
		ProviderErrors:  providerErrors,
	}
}

// NewNopCheckoutMetrics returns unregistered collectors for tests.
func NewNopCheckoutMetrics() *CheckoutMetrics {
	return &CheckoutMetrics{
		SessionsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_sessions_created_total"}, []string{"discounted"}),
		CouponFailures:  prometheus.NewCounter(prometheus.CounterOpts{Name: "test_coupon_failures_total"}),
		ProviderErrors:  prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_provider_errors_total"}, []string{"operation"}),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
