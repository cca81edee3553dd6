package payment

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	paymentsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "payments_processed_total",
		Help:      "Settlement attempts by method and outcome.",
	}, []string{"method", "outcome"})

	payoutsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "checkout",
		Name:      "payouts_created_total",
		Help:      "Seller payout rows created.",
	})
)
