// Latency benchmark: times each core operation with nanosecond clocks
// and reports HdrHistogram percentiles, mirroring the representative
// load of 500k limit/cancel operations and 100k market orders against
// a ~1,000-level book.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"

	"github.com/erain9/ticklob/pkg/core"
)

const numLevels = 1000

var (
	numOrders = flag.Int("orders", 500000, "Number of limit/cancel operations")
	numMarket = flag.Int("market-orders", 100000, "Number of market orders")
	seed      = flag.Int64("seed", 42, "RNG seed")
)

func newHistogram() *hdrhistogram.Histogram {
	// 1ns .. 1s at three significant figures.
	return hdrhistogram.New(1, int64(time.Second), 3)
}

func printHeader() {
	fmt.Printf("%-28s%10s%10s%10s%10s%10s\n",
		"Operation", "Mean(ns)", "Med(ns)", "P99(ns)", "Min(ns)", "Max(ns)")
	fmt.Println("------------------------------------------------------------------------------")
}

func printStats(label string, h *hdrhistogram.Histogram) {
	fmt.Printf("%-28s%10.0f%10d%10d%10d%10d\n",
		label, h.Mean(), h.ValueAtQuantile(50), h.ValueAtQuantile(99), h.Min(), h.Max())
}

// spreadOrder draws an order from [9000, 11000] and shifts buys down and
// sells up by 500 ticks. The shifted ranges still overlap (buys reach
// 10500, sells start at 9500), so some adds cross and match.
func spreadOrder(rng *rand.Rand, i int) (core.Side, core.Price, core.Quantity) {
	price := core.Price(9000 + rng.Intn(2001))
	qty := core.Quantity(1 + rng.Intn(100))
	if i%2 == 0 {
		return core.Buy, price - 500, qty
	}
	return core.Sell, price + 500, qty
}

func mustBook() *core.Book {
	book, err := core.NewBook(core.DefaultConfig())
	if err != nil {
		panic(err)
	}
	return book
}

func benchmarkAddLimit(rng *rand.Rand) {
	book := mustBook()
	h := newHistogram()

	for i := 0; i < *numOrders; i++ {
		side, price, qty := spreadOrder(rng, i)

		start := time.Now()
		book.AddOrder(side, core.Limit, price, qty)
		_ = h.RecordValue(time.Since(start).Nanoseconds())
	}

	printStats("Add Limit Order", h)
}

func benchmarkCancel(rng *rand.Rand) {
	book := mustBook()

	ids := make([]core.OrderID, 0, *numOrders)
	for i := 0; i < *numOrders; i++ {
		side, price, qty := spreadOrder(rng, i)
		ids = append(ids, book.AddOrder(side, core.Limit, price, qty).OrderID)
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	h := newHistogram()
	for _, id := range ids {
		start := time.Now()
		book.CancelOrder(id)
		_ = h.RecordValue(time.Since(start).Nanoseconds())
	}

	printStats("Cancel Order", h)
}

func benchmarkMarket(rng *rand.Rand) {
	book := mustBook()

	// Pre-populate with limit orders on both sides.
	for i := 0; i < numLevels; i++ {
		askPrice := core.Price(10001 + i)
		bidPrice := core.Price(10000 - i)
		for j := 0; j < 10; j++ {
			book.AddOrder(core.Sell, core.Limit, askPrice, 100)
			book.AddOrder(core.Buy, core.Limit, bidPrice, 100)
		}
	}

	h := newHistogram()
	for i := 0; i < *numMarket; i++ {
		// Replenish 10 orders per side every 100 market orders. This adds
		// less than the market flow removes, so over a long run the book
		// drains and later market orders can find an empty side.
		if i%100 == 0 {
			for j := 0; j < 10; j++ {
				p := core.Price(9000 + rng.Intn(2001))
				book.AddOrder(core.Sell, core.Limit, p+500, 100)
				book.AddOrder(core.Buy, core.Limit, p-500, 100)
			}
		}

		side := core.Buy
		if i%2 == 1 {
			side = core.Sell
		}
		qty := core.Quantity(1 + rng.Intn(200))

		start := time.Now()
		book.AddOrder(side, core.Market, 0, qty)
		_ = h.RecordValue(time.Since(start).Nanoseconds())
	}

	printStats("Market Order (matching)", h)
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))

	fmt.Println("=== OrderBook Benchmark ===")
	fmt.Printf("Orders: %d, Market orders: %d\n\n", *numOrders, *numMarket)

	printHeader()
	benchmarkAddLimit(rng)
	benchmarkCancel(rng)
	benchmarkMarket(rng)
}
