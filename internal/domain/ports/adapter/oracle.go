package adapter

import "context"

// PriceOracle supplies the SOL/USD rate for revenue bookkeeping. It never
// fails: implementations fall back to a static rate on any fetch problem,
// because crediting must not depend on pricing.
type PriceOracle interface {
	UsdRate(ctx context.Context) float64
}
