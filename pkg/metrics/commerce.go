package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CommerceMetrics records counters for the store engine's hot paths.
type CommerceMetrics struct {
	ordersPlaced     prometheus.Counter
	orderValue       prometheus.Histogram
	promoValidations *prometheus.CounterVec
}

// NewCommerceMetrics registers the commerce metrics on the provided registerer.
func NewCommerceMetrics(reg prometheus.Registerer) *CommerceMetrics {
	if reg == nil {
		return &CommerceMetrics{}
	}
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders committed to the ledger.",
	})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_value",
		Help:    "Order totals at placement time.",
		Buckets: []float64{500, 1000, 2500, 5000, 10000, 25000, 50000},
	})
	promoValidations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "promo_validations_total",
		Help: "Promo code validation attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(ordersPlaced, orderValue, promoValidations)
	return &CommerceMetrics{
		ordersPlaced:     ordersPlaced,
		orderValue:       orderValue,
		promoValidations: promoValidations,
	}
}

// ObserveOrder records one placed order and its total.
func (c *CommerceMetrics) ObserveOrder(total float64) {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.Inc()
	c.orderValue.Observe(total)
}

// IncPromoValidation increments the validation counter for the outcome.
func (c *CommerceMetrics) IncPromoValidation(outcome string) {
	if c == nil || c.promoValidations == nil {
		return
	}
	c.promoValidations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
