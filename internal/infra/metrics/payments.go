package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		paymentIntentsTotal,
		verificationsTotal,
		verificationPollAttempts,
		revenueUsdCentsTotal,
	)
}

var (
	paymentIntentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solana_payment_intents_total",
			Help: "Payment intents created, by kind.",
		},
		[]string{"kind"},
	)

	verificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solana_verifications_total",
			Help: "Verification outcomes (verified/replay/mismatch/not_confirmed/...).",
		},
		[]string{"outcome"},
	)

	verificationPollAttempts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solana_verification_poll_attempts",
			Help:    "Status-poll iterations needed before a verification resolved.",
			Buckets: prometheus.LinearBuckets(1, 3, 10),
		},
	)

	revenueUsdCentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "solana_revenue_usd_cents_total",
			Help: "USD cents recorded from verified SOL payments (oracle rate, informational).",
		},
	)
)

func IncPaymentIntent(kind string) {
	paymentIntentsTotal.WithLabelValues(norm(kind)).Inc()
}

func IncVerification(outcome string) {
	verificationsTotal.WithLabelValues(norm(outcome)).Inc()
}

func ObservePollAttempts(n int) {
	verificationPollAttempts.Observe(float64(n))
}

func AddRevenueUsdCents(cents int64) {
	revenueUsdCentsTotal.Add(float64(cents))
}
