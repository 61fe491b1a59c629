// Package metrics provides a Prometheus-backed engine.Listener (spec §4.H)
// that counts emitted products by the emitting rule's tags and the
// product's Go type.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/sssomt/sssomt/internal/engine"
	"github.com/sssomt/sssomt/internal/model"
	"github.com/sssomt/sssomt/internal/tree"
)

// Collector counts emitted products. One Collector is bound to one
// prometheus.Registerer, never the package-wide prometheus.DefaultRegisterer,
// so separate engine runs in the same process never collide on metric
// registration.
type Collector struct {
	productsTotal *prometheus.CounterVec
}

// New registers sssomt_products_total against reg.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		productsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sssomt_products_total",
			Help: "Total number of products emitted by the rule engine, by rule tag and product kind.",
		}, []string{"tag", "kind"}),
	}
}

// Listener builds an engine.Listener[T] that increments productsTotal once
// per tag on the emitting rule ("untagged" when it carries none).
func Listener[T any](c *Collector) engine.Listener[T] {
	return func(rule tree.Rule[T], mapping model.Mapping, product T) {
		kind := fmt.Sprintf("%T", product)
		if len(rule.Tags) == 0 {
			c.productsTotal.WithLabelValues("untagged", kind).Inc()
			return
		}
		for _, tag := range rule.Tags {
			c.productsTotal.WithLabelValues(tag, kind).Inc()
		}
	}
}
