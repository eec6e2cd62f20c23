// Package loadgen drives an engine with a reproducible random order
// flow shaped like the representative benchmark load: mixed resting
// limit orders and cancels, plus marketable orders crossing a book
// populated across ~1,000 levels per side.
package loadgen

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"github.com/erain9/ticklob/pkg/core"
	"github.com/erain9/ticklob/pkg/engine"
	"github.com/erain9/ticklob/pkg/logging"
)

// Stats summarises one load run.
type Stats struct {
	Limits     int
	Markets    int
	Cancels    int
	CancelHits int
	Fills      int
	FilledQty  core.Quantity
	Elapsed    time.Duration
}

// Generator produces the random operation stream. A Generator is
// single-use and drives its engine from the calling goroutine,
// preserving the single-writer model.
type Generator struct {
	cfg     *Config
	rng     *rand.Rand
	limiter *rate.Limiter
	ids     []core.OrderID
}

// New creates a Generator for the given config.
func New(cfg *Config) *Generator {
	return &Generator{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RatePerSecond/10+1),
	}
}

// Run submits cfg.TotalOps operations and returns the tallies. It
// stops early if the context is cancelled.
func (g *Generator) Run(ctx context.Context, eng *engine.Engine) (Stats, error) {
	logger := logging.FromContext(ctx).With().Str("symbol", eng.Symbol()).Logger()

	var stats Stats
	start := time.Now()
	lastReport := start

	for i := 0; i < g.cfg.TotalOps; i++ {
		if err := g.limiter.Wait(ctx); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}

		if err := g.step(ctx, eng, &stats); err != nil {
			stats.Elapsed = time.Since(start)
			return stats, err
		}

		if g.cfg.ReportInterval > 0 && time.Since(lastReport) >= g.cfg.ReportInterval {
			lastReport = time.Now()
			logger.Info().
				Int("ops", i+1).
				Int("fills", stats.Fills).
				Int("resting", eng.Book().OrderCount()).
				Msg("Load generation progress")
		}
	}

	stats.Elapsed = time.Since(start)
	return stats, nil
}

func (g *Generator) step(ctx context.Context, eng *engine.Engine, stats *Stats) error {
	switch r := g.rng.Intn(100); {
	case r < g.cfg.LimitPercent:
		side, price := g.restingPrice()
		qty := core.Quantity(1 + g.rng.Intn(g.cfg.MaxQuantity))
		result, err := eng.SubmitLimit(ctx, side, price, qty)
		if err != nil {
			return err
		}
		stats.Limits++
		stats.Fills += len(result.Fills)
		stats.FilledQty += result.FilledQuantity
		if result.RemainingQuantity > 0 {
			g.ids = append(g.ids, result.OrderID)
		}

	case r < g.cfg.LimitPercent+g.cfg.CancelPercent:
		stats.Cancels++
		if len(g.ids) == 0 {
			return nil
		}
		i := g.rng.Intn(len(g.ids))
		id := g.ids[i]
		g.ids[i] = g.ids[len(g.ids)-1]
		g.ids = g.ids[:len(g.ids)-1]
		if eng.Cancel(ctx, id) {
			stats.CancelHits++
		}

	default:
		side := core.Side(g.rng.Intn(2))
		qty := core.Quantity(1 + g.rng.Intn(g.cfg.MaxQuantity))
		result, err := eng.SubmitMarket(ctx, side, qty)
		if err != nil {
			return err
		}
		stats.Markets++
		stats.Fills += len(result.Fills)
		stats.FilledQty += result.FilledQuantity
	}
	return nil
}

// restingPrice draws a side and a price pushed away from the midpoint
// so most limit flow rests instead of crossing, mirroring the original
// benchmark's populate phase.
func (g *Generator) restingPrice() (core.Side, core.Price) {
	price := g.cfg.PriceMid + g.rng.Int63n(2*g.cfg.PriceSpread+1) - g.cfg.PriceSpread
	if g.rng.Intn(2) == 0 {
		return core.Buy, core.Price(price - g.cfg.PriceSpread/2)
	}
	return core.Sell, core.Price(price + g.cfg.PriceSpread/2)
}
