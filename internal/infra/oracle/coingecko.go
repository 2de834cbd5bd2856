package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"imagegen-solana-billing/internal/config"
	"imagegen-solana-billing/internal/domain/ports/adapter"
	"imagegen-solana-billing/internal/infra/metrics"
	red "imagegen-solana-billing/internal/infra/redis"
)

// Ensure compile-time conformance
var _ adapter.PriceOracle = (*CoinGeckoOracle)(nil)

const defaultEndpoint = "https://api.coingecko.com/api/v3/simple/price?ids=solana&vs_currencies=usd"

const cacheKey = "oracle:sol_usd"

// CoinGeckoOracle fetches the SOL/USD rate with a redis-backed cache and a
// static fallback. It never returns an error: revenue bookkeeping is
// best-effort and must not block crediting.
type CoinGeckoOracle struct {
	endpoint string
	fallback float64
	cache    red.RedisClient
	cfg      config.OracleConfig
	client   *http.Client
	log      *zerolog.Logger
}

func NewCoinGeckoOracle(cfg config.OracleConfig, cache red.RedisClient, logger *zerolog.Logger) *CoinGeckoOracle {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	l := logger.With().Str("component", "PriceOracle").Logger()
	return &CoinGeckoOracle{
		endpoint: endpoint,
		fallback: cfg.FallbackUsdRate,
		cache:    cache,
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      &l,
	}
}

// coinGeckoResponse mirrors {"solana": {"usd": 150.12}}.
type coinGeckoResponse struct {
	Solana struct {
		USD float64 `json:"usd"`
	} `json:"solana"`
}

func (o *CoinGeckoOracle) UsdRate(ctx context.Context) float64 {
	if o.cache != nil {
		if val, err := o.cache.Get(ctx, cacheKey); err == nil {
			if rate, err := strconv.ParseFloat(val, 64); err == nil && rate > 0 {
				metrics.IncOracleFetch("cache")
				return rate
			}
		}
	}

	rate, ok := o.fetch(ctx)
	if !ok {
		metrics.IncOracleFetch("fallback")
		return o.fallback
	}
	metrics.IncOracleFetch("ok")

	if o.cache != nil {
		o.cache.Set(ctx, cacheKey, strconv.FormatFloat(rate, 'f', -1, 64), o.cfg.CacheTTL)
	}
	return rate
}

func (o *CoinGeckoOracle) fetch(ctx context.Context) (float64, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.endpoint, nil)
	if err != nil {
		return 0, false
	}
	resp, err := o.client.Do(req)
	if err != nil {
		o.log.Warn().Err(err).Msg("price fetch failed; using fallback")
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		o.log.Warn().Int("status", resp.StatusCode).Msg("price fetch non-200; using fallback")
		return 0, false
	}

	var body coinGeckoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		o.log.Warn().Err(err).Msg("price response malformed; using fallback")
		return 0, false
	}
	if body.Solana.USD <= 0 {
		return 0, false
	}
	return body.Solana.USD, true
}
