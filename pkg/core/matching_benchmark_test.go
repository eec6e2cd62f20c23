package core

import (
	"math/rand"
	"testing"
)

// benchBook returns an empty book over the default price range; each
// benchmark populates it around a 10000-tick midpoint.
func benchBook(b *testing.B) *Book {
	b.Helper()
	book, err := NewBook(DefaultConfig())
	if err != nil {
		b.Fatalf("NewBook: %v", err)
	}
	return book
}

// BenchmarkAddLimitOrder measures limit insertion with buys shifted down
// and sells shifted up by 500 ticks; the two ranges overlap, so some
// orders cross and match.
func BenchmarkAddLimitOrder(b *testing.B) {
	book := benchBook(b)
	rng := rand.New(rand.NewSource(42))

	// Pre-generate the order stream so the RNG stays off the clock.
	type op struct {
		side  Side
		price Price
		qty   Quantity
	}
	ops := make([]op, b.N)
	for i := range ops {
		side := Buy
		price := Price(9000 + rng.Intn(2001))
		if i%2 == 0 {
			price -= 500
		} else {
			side = Sell
			price += 500
		}
		ops[i] = op{side: side, price: price, qty: Quantity(1 + rng.Intn(100))}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.AddOrder(ops[i].side, Limit, ops[i].price, ops[i].qty)
	}
}

// BenchmarkCancelOrder measures cancellation in shuffled order.
func BenchmarkCancelOrder(b *testing.B) {
	book := benchBook(b)
	rng := rand.New(rand.NewSource(42))

	ids := make([]OrderID, b.N)
	for i := 0; i < b.N; i++ {
		side := Buy
		price := Price(9000 + rng.Intn(2001))
		if i%2 == 0 {
			price -= 500
		} else {
			side = Sell
			price += 500
		}
		ids[i] = book.AddOrder(side, Limit, price, Quantity(1+rng.Intn(100))).OrderID
	}
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.CancelOrder(ids[i])
	}
}

// BenchmarkMarketOrderMatching measures market orders crossing a deep
// populated book, with periodic replenishment. The replenishment is
// smaller than the market flow, so at large b.N the book drains and
// later market orders can find an empty side.
func BenchmarkMarketOrderMatching(b *testing.B) {
	book := benchBook(b)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		askPrice := Price(10001 + i)
		bidPrice := Price(10000 - i)
		for j := 0; j < 10; j++ {
			book.AddOrder(Sell, Limit, askPrice, 100)
			book.AddOrder(Buy, Limit, bidPrice, 100)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%100 == 0 {
			b.StopTimer()
			for j := 0; j < 10; j++ {
				p := Price(9000 + rng.Intn(2001))
				book.AddOrder(Sell, Limit, p+500, 100)
				book.AddOrder(Buy, Limit, p-500, 100)
			}
			b.StartTimer()
		}
		side := Buy
		if i%2 == 1 {
			side = Sell
		}
		book.AddOrder(side, Market, 0, Quantity(1+rng.Intn(200)))
	}
}

// BenchmarkCrossingLimitOrder measures a 50-lot limit buy at 10003
// against a periodically replenished ask ladder. It fills against the
// 10001-10003 levels while they hold liquidity and rests otherwise; a
// resting residual is cancelled inside the timed loop.
func BenchmarkCrossingLimitOrder(b *testing.B) {
	book := benchBook(b)

	for i := 0; i < 1000; i++ {
		book.AddOrder(Sell, Limit, Price(10001+i), 100)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := book.AddOrder(Buy, Limit, 10003, 50)
		if r.RemainingQuantity > 0 {
			book.CancelOrder(r.OrderID)
		}
		if i%20 == 0 {
			b.StopTimer()
			book.AddOrder(Sell, Limit, 10001, 100)
			book.AddOrder(Sell, Limit, 10002, 100)
			book.AddOrder(Sell, Limit, 10003, 100)
			b.StartTimer()
		}
	}
}

// BenchmarkGetBids measures the aggregated depth query.
func BenchmarkGetBids(b *testing.B) {
	book := benchBook(b)
	for i := 0; i < 1000; i++ {
		book.AddOrder(Buy, Limit, Price(10000-i), 100)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = book.GetBids(10)
	}
}
