package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		cacheRequestsTotal,
		subscriptionsExpiredTotal,
		intentsSweptTotal,
	)
}

var (
	cacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups by entity and outcome (hit/miss).",
		},
		[]string{"entity", "outcome"},
	)

	subscriptionsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_expired_total",
			Help: "Subscriptions flipped to expired by the expiry worker.",
		},
	)

	intentsSweptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "payment_intents_swept_total",
			Help: "Stale pending intents removed by the sweeper.",
		},
	)
)

func IncCacheRequest(entity, outcome string) {
	cacheRequestsTotal.WithLabelValues(norm(entity), norm(outcome)).Inc()
}

func IncSubscriptionsExpired(n int) {
	subscriptionsExpiredTotal.Add(float64(n))
}

func IncIntentsSwept(n int) {
	intentsSweptTotal.Add(float64(n))
}
