package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		chainRPCCallsTotal,
		oracleFetchesTotal,
	)
}

var (
	chainRPCCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solana_rpc_calls_total",
			Help: "Solana RPC calls by method and result.",
		},
		[]string{"method", "result"},
	)

	oracleFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_oracle_fetches_total",
			Help: "Price oracle fetches by result (ok/fallback/cache).",
		},
		[]string{"result"},
	)
)

func IncChainRPC(method, result string) {
	chainRPCCallsTotal.WithLabelValues(norm(method), norm(result)).Inc()
}

func IncOracleFetch(result string) {
	oracleFetchesTotal.WithLabelValues(norm(result)).Inc()
}
