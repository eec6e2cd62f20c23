package core

import (
	"math/rand"
	"testing"
)

// refOrder mirrors a resting order for the reference model.
type refOrder struct {
	side  Side
	price Price
	qty   Quantity
}

// checkInvariants verifies the book-wide invariants that must hold
// between public operations against a reference model of the resting
// set.
func checkInvariants(t *testing.T, book *Book, model map[OrderID]*refOrder) {
	t.Helper()

	if book.OrderCount() != len(model) {
		t.Fatalf("order count = %d, model has %d", book.OrderCount(), len(model))
	}

	bestBid, hasBid := book.BestBid()
	bestAsk, hasAsk := book.BestAsk()

	// No locked or crossed book at rest.
	if hasBid && hasAsk && bestBid >= bestAsk {
		t.Fatalf("crossed book at rest: bid %d >= ask %d", bestBid, bestAsk)
	}

	// Cursors are tight: the best level is non-empty and no level is
	// better than the cursor.
	var modelBestBid, modelBestAsk Price
	modelBestBid = book.MinPrice() - 1
	modelBestAsk = book.MaxPrice() + 1
	bidTotals := make(map[Price]Quantity)
	askTotals := make(map[Price]Quantity)
	bidCounts := make(map[Price]int)
	askCounts := make(map[Price]int)
	for _, o := range model {
		if o.side == Buy {
			bidTotals[o.price] += o.qty
			bidCounts[o.price]++
			if o.price > modelBestBid {
				modelBestBid = o.price
			}
		} else {
			askTotals[o.price] += o.qty
			askCounts[o.price]++
			if o.price < modelBestAsk {
				modelBestAsk = o.price
			}
		}
	}
	if hasBid != (len(bidTotals) > 0) || (hasBid && bestBid != modelBestBid) {
		t.Fatalf("best bid = %d (ok=%v), model says %d (%d levels)",
			bestBid, hasBid, modelBestBid, len(bidTotals))
	}
	if hasAsk != (len(askTotals) > 0) || (hasAsk && bestAsk != modelBestAsk) {
		t.Fatalf("best ask = %d (ok=%v), model says %d (%d levels)",
			bestAsk, hasAsk, modelBestAsk, len(askTotals))
	}

	if book.BidLevelCount() != len(bidTotals) {
		t.Fatalf("bid level count = %d, model has %d", book.BidLevelCount(), len(bidTotals))
	}
	if book.AskLevelCount() != len(askTotals) {
		t.Fatalf("ask level count = %d, model has %d", book.AskLevelCount(), len(askTotals))
	}

	// Full-depth views agree with the model level by level.
	for _, lvl := range book.GetBids(book.BidLevelCount()) {
		if lvl.TotalQuantity == 0 {
			t.Fatalf("empty level %d in bid view", lvl.Price)
		}
		if bidTotals[lvl.Price] != lvl.TotalQuantity || bidCounts[lvl.Price] != lvl.OrderCount {
			t.Fatalf("bid level %d = %d/%d, model %d/%d", lvl.Price,
				lvl.TotalQuantity, lvl.OrderCount, bidTotals[lvl.Price], bidCounts[lvl.Price])
		}
	}
	for _, lvl := range book.GetAsks(book.AskLevelCount()) {
		if askTotals[lvl.Price] != lvl.TotalQuantity || askCounts[lvl.Price] != lvl.OrderCount {
			t.Fatalf("ask level %d = %d/%d, model %d/%d", lvl.Price,
				lvl.TotalQuantity, lvl.OrderCount, askTotals[lvl.Price], askCounts[lvl.Price])
		}
	}
}

// applyResult folds an AddOrder result into the reference model.
func applyResult(t *testing.T, taker *refOrder, typ OrderType, result OrderResult, model map[OrderID]*refOrder) {
	t.Helper()

	var filled Quantity
	for _, fill := range result.Fills {
		if fill.TakerOrderID != result.OrderID {
			t.Fatalf("fill taker id = %d, want %d", fill.TakerOrderID, result.OrderID)
		}
		maker, ok := model[fill.MakerOrderID]
		if !ok {
			t.Fatalf("fill against unknown maker %d", fill.MakerOrderID)
		}
		// Fill price is always the maker's resting price.
		if fill.Price != maker.price {
			t.Fatalf("fill price %d != maker price %d", fill.Price, maker.price)
		}
		if fill.Quantity == 0 || fill.Quantity > maker.qty {
			t.Fatalf("fill qty %d, maker has %d", fill.Quantity, maker.qty)
		}
		maker.qty -= fill.Quantity
		if maker.qty == 0 {
			delete(model, fill.MakerOrderID)
		}
		filled += fill.Quantity
	}
	if filled != result.FilledQuantity {
		t.Fatalf("fills sum to %d, FilledQuantity = %d", filled, result.FilledQuantity)
	}

	if typ == Limit && result.RemainingQuantity > 0 {
		model[result.OrderID] = &refOrder{side: taker.side, price: taker.price, qty: result.RemainingQuantity}
	}
}

// checkFillOrdering verifies price priority within one result: a buy
// taker's fill prices never decrease, a sell taker's never increase.
func checkFillOrdering(t *testing.T, side Side, fills []Fill) {
	t.Helper()
	for i := 1; i < len(fills); i++ {
		if side == Buy && fills[i].Price < fills[i-1].Price {
			t.Fatalf("buy fills walked back down: %d after %d", fills[i].Price, fills[i-1].Price)
		}
		if side == Sell && fills[i].Price > fills[i-1].Price {
			t.Fatalf("sell fills walked back up: %d after %d", fills[i].Price, fills[i-1].Price)
		}
	}
}

// TestRandomOperationSequence drives the book through a long random
// mix of limit, market and cancel operations and checks every
// invariant after every operation against a reference model.
func TestRandomOperationSequence(t *testing.T) {
	const ops = 5000

	book, err := NewBook(Config{MinPrice: 9000, MaxPrice: 11000, PoolCapacity: 1 << 14})
	if err != nil {
		t.Fatalf("NewBook: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	model := make(map[OrderID]*refOrder)
	var issued []OrderID
	cancelled := make(map[OrderID]bool)

	var insertedLimitQty, limitTakerFilled, totalFilled, cancelledQty Quantity

	for i := 0; i < ops; i++ {
		switch r := rng.Intn(100); {
		case r < 60:
			// Limit order clustered near the middle of the range.
			side := Side(rng.Intn(2))
			price := Price(10000 + rng.Intn(401) - 200)
			qty := Quantity(1 + rng.Intn(100))
			taker := refOrder{side: side, price: price, qty: qty}

			result := book.AddOrder(side, Limit, price, qty)
			checkFillOrdering(t, side, result.Fills)
			applyResult(t, &taker, Limit, result, model)
			issued = append(issued, result.OrderID)
			insertedLimitQty += qty
			limitTakerFilled += result.FilledQuantity
			totalFilled += result.FilledQuantity

		case r < 80 && len(issued) > 0:
			// Cancel a random previously issued id; may be live, filled
			// or already cancelled.
			id := issued[rng.Intn(len(issued))]
			ok := book.CancelOrder(id)
			o, live := model[id]
			if ok != live {
				t.Fatalf("cancel(%d) = %v, model live = %v", id, ok, live)
			}
			if ok {
				if cancelled[id] {
					t.Fatalf("id %d cancelled twice", id)
				}
				cancelled[id] = true
				cancelledQty += o.qty
				delete(model, id)
			}

		default:
			side := Side(rng.Intn(2))
			qty := Quantity(1 + rng.Intn(150))
			taker := refOrder{side: side, qty: qty}

			result := book.AddOrder(side, Market, 0, qty)
			checkFillOrdering(t, side, result.Fills)
			applyResult(t, &taker, Market, result, model)
			issued = append(issued, result.OrderID)
			totalFilled += result.FilledQuantity
		}

		checkInvariants(t, book, model)
	}

	// Conservation: resting quantity equals inserted limit quantity
	// minus the limit takers' own fills, minus maker-side decrements
	// (one per fill, so equal to total fill volume), minus cancelled
	// resting quantity. Market residual never entered the book.
	var resting Quantity
	for _, o := range model {
		resting += o.qty
	}
	if want := insertedLimitQty - limitTakerFilled - totalFilled - cancelledQty; resting != want {
		t.Fatalf("resting = %d, conservation says %d", resting, want)
	}
	var viewTotal Quantity
	for _, lvl := range book.GetBids(book.BidLevelCount()) {
		viewTotal += lvl.TotalQuantity
	}
	for _, lvl := range book.GetAsks(book.AskLevelCount()) {
		viewTotal += lvl.TotalQuantity
	}
	if viewTotal != resting {
		t.Fatalf("book holds %d, model holds %d", viewTotal, resting)
	}

	// Ids are strictly increasing and dense.
	for i := 1; i < len(issued); i++ {
		if issued[i] != issued[i-1]+1 {
			t.Fatalf("ids not dense: %d then %d", issued[i-1], issued[i])
		}
	}
}

// TestTimePriorityUnderChurn interleaves inserts and cancels at one
// price and verifies FIFO order of the survivors.
func TestTimePriorityUnderChurn(t *testing.T) {
	book := newTestBook(t)

	// Five makers at one price; cancel the 1st and 4th.
	var ids []OrderID
	for i := 0; i < 5; i++ {
		ids = append(ids, book.AddOrder(Sell, Limit, 10000, 10).OrderID)
	}
	book.CancelOrder(ids[0])
	book.CancelOrder(ids[3])

	// A taker for 25 must hit makers 2, 3, 5 in that order.
	result := book.AddOrder(Buy, Limit, 10000, 25)
	if len(result.Fills) != 3 {
		t.Fatalf("len(fills) = %d, want 3", len(result.Fills))
	}
	wantMakers := []OrderID{ids[1], ids[2], ids[4]}
	wantQtys := []Quantity{10, 10, 5}
	for i, fill := range result.Fills {
		if fill.MakerOrderID != wantMakers[i] || fill.Quantity != wantQtys[i] {
			t.Errorf("fills[%d] = %+v, want maker %d qty %d", i, fill, wantMakers[i], wantQtys[i])
		}
	}
}
