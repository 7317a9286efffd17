package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics records backend traffic and cart activity for one storefront process.
type StorefrontMetrics struct {
	backendDuration *prometheus.HistogramVec
	backendErrors   *prometheus.CounterVec
	cartMutations   *prometheus.CounterVec
	offerEvents     *prometheus.CounterVec
	ordersPlaced    *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	backendDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_backend_request_duration_seconds",
		Help:    "Duration of calls to the storefront backend in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "method", "status"})
	backendErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_backend_errors_total",
		Help: "Backend calls that failed, by mapped error code.",
	}, []string{"resource", "code"})
	cartMutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_cart_mutations_total",
		Help: "Cart and wishlist mutations by operation and outcome.",
	}, []string{"operation", "outcome"})
	offerEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_offer_transitions_total",
		Help: "Applied-offer state transitions.",
	}, []string{"transition"})
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Checkout order placements by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(backendDuration, backendErrors, cartMutations, offerEvents, ordersPlaced)
	return &StorefrontMetrics{
		backendDuration: backendDuration,
		backendErrors:   backendErrors,
		cartMutations:   cartMutations,
		offerEvents:     offerEvents,
		ordersPlaced:    ordersPlaced,
	}
}

// ObserveBackend records one completed backend call. status is 0 for transport failures.
func (m *StorefrontMetrics) ObserveBackend(resource, method string, status int, duration time.Duration) {
	if m == nil || m.backendDuration == nil {
		return
	}
	m.backendDuration.WithLabelValues(normalizeLabel(resource), normalizeLabel(method), strconv.Itoa(status)).Observe(duration.Seconds())
}

// IncBackendError counts a failed backend call by its mapped error code.
func (m *StorefrontMetrics) IncBackendError(resource, code string) {
	if m == nil || m.backendErrors == nil {
		return
	}
	m.backendErrors.WithLabelValues(normalizeLabel(resource), normalizeLabel(code)).Inc()
}

func (m *StorefrontMetrics) IncMutation(operation, outcome string) {
	if m == nil || m.cartMutations == nil {
		return
	}
	m.cartMutations.WithLabelValues(normalizeLabel(operation), normalizeLabel(outcome)).Inc()
}

func (m *StorefrontMetrics) IncOfferTransition(transition string) {
	if m == nil || m.offerEvents == nil {
		return
	}
	m.offerEvents.WithLabelValues(normalizeLabel(transition)).Inc()
}

func (m *StorefrontMetrics) IncOrder(outcome string) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
