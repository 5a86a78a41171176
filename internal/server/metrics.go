package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Calculations *prometheus.CounterVec
	Duration     prometheus.Histogram
	Reloads      prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Calculations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hbuilder_calculations_total",
			Help: "Design calculations by outcome (ok, invalid, failed).",
		}, []string{"outcome"}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hbuilder_calculation_seconds",
			Help:    "Time to load and compute one design.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		Reloads: f.NewCounter(prometheus.CounterOpts{
			Name: "hbuilder_catalog_reloads_total",
			Help: "Catalog reloads applied to the running server.",
		}),
	}
}
