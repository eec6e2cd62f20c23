package core

// Config holds construction parameters for a Book.
type Config struct {
	// MinPrice and MaxPrice bound the integer tick domain, inclusive.
	MinPrice Price
	MaxPrice Price
	// PoolCapacity fixes the order pool size. The id-lookup table is
	// pre-sized to the same capacity so the default configuration never
	// grows it mid-operation; ids past the capacity (slots recycle, ids
	// do not) still trigger doubling growth of the lookup table.
	PoolCapacity int
}

// DefaultConfig returns the default Book configuration.
func DefaultConfig() Config {
	return Config{
		MinPrice:     DefaultMinPrice,
		MaxPrice:     DefaultMaxPrice,
		PoolCapacity: DefaultPoolCapacity,
	}
}

// Book is a single-instrument limit order book with strict price-time
// priority matching. It is single-threaded: every method runs to
// completion on the calling thread and no concurrent access is
// permitted. Callers needing multi-producer access must serialise
// externally.
//
// Inputs on the hot path are unchecked: a limit price outside
// [MinPrice, MaxPrice] or a zero quantity is a caller precondition
// violation. The engine package layers validation above this type.
type Book struct {
	minPrice Price
	maxPrice Price

	// Flat ladders, one level struct per tick, indexed by price-minPrice.
	bidLevels []level
	askLevels []level

	// Dense id -> slot index lookup. nilSlot means vacant.
	orders []int32
	pool   *orderPool

	// Tightest crossable prices. Sentinels encode emptiness:
	// bestBid == minPrice-1, bestAsk == maxPrice+1.
	bestBid Price
	bestAsk Price

	numBidLevels int
	numAskLevels int
	numOrders    int

	nextID OrderID
}

// NewBook creates an empty Book. All memory for the pool and the two
// price ladders is allocated here; steady-state operation does not
// allocate beyond the result slices of AddOrder and the depth queries.
func NewBook(cfg Config) (*Book, error) {
	if cfg.MaxPrice < cfg.MinPrice {
		return nil, ErrInvalidPriceRange
	}
	if cfg.PoolCapacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	numLevels := int(cfg.MaxPrice-cfg.MinPrice) + 1
	b := &Book{
		minPrice:  cfg.MinPrice,
		maxPrice:  cfg.MaxPrice,
		bidLevels: make([]level, numLevels),
		askLevels: make([]level, numLevels),
		orders:    make([]int32, cfg.PoolCapacity+1),
		pool:      newOrderPool(cfg.PoolCapacity),
		bestBid:   cfg.MinPrice - 1,
		bestAsk:   cfg.MaxPrice + 1,
		nextID:    1,
	}
	for i := range b.bidLevels {
		b.bidLevels[i].head = nilSlot
		b.bidLevels[i].tail = nilSlot
		b.askLevels[i].head = nilSlot
		b.askLevels[i].tail = nilSlot
	}
	for i := range b.orders {
		b.orders[i] = nilSlot
	}
	return b, nil
}

// AddOrder assigns the next id, matches the incoming order against the
// opposite side under price-time priority, and rests any residual limit
// quantity. Market residual is dropped. One id is consumed even if the
// order fills completely on arrival.
func (b *Book) AddOrder(side Side, typ OrderType, price Price, quantity Quantity) OrderResult {
	id := b.nextID
	b.nextID++

	// The incoming order matches as a transient value; it only moves
	// into the pool if residual limit quantity has to rest.
	taker := Order{
		ID:       id,
		Side:     side,
		Type:     typ,
		Price:    price,
		Quantity: quantity,
		prev:     nilSlot,
		next:     nilSlot,
	}

	result := OrderResult{
		OrderID:           id,
		RemainingQuantity: quantity,
		Fills:             make([]Fill, 0, fillsHint),
	}

	b.match(&taker, &result)
	result.RemainingQuantity = taker.Quantity

	if typ == Limit && taker.Quantity > 0 {
		b.rest(&taker)
	}

	return result
}

// rest inserts the residual limit order at the tail of its price level
// and registers it in the id lookup.
func (b *Book) rest(taker *Order) {
	idx := b.pool.alloc()
	*b.pool.get(idx) = *taker

	li := int(taker.Price - b.minPrice)
	if taker.Side == Buy {
		lvl := &b.bidLevels[li]
		if lvl.empty() {
			b.numBidLevels++
		}
		lvl.pushBack(b.pool, idx)
		if taker.Price > b.bestBid {
			b.bestBid = taker.Price
		}
	} else {
		lvl := &b.askLevels[li]
		if lvl.empty() {
			b.numAskLevels++
		}
		lvl.pushBack(b.pool, idx)
		if taker.Price < b.bestAsk {
			b.bestAsk = taker.Price
		}
	}

	if int(taker.ID) >= len(b.orders) {
		grown := make([]int32, int(taker.ID)*2)
		copy(grown, b.orders)
		for i := len(b.orders); i < len(grown); i++ {
			grown[i] = nilSlot
		}
		b.orders = grown
	}
	b.orders[taker.ID] = idx
	b.numOrders++
}

// CancelOrder removes a resting order. It returns false for unknown,
// already-filled, or already-cancelled ids; the three cases are
// indistinguishable by design.
func (b *Book) CancelOrder(id OrderID) bool {
	if id >= OrderID(len(b.orders)) {
		return false
	}
	idx := b.orders[id]
	if idx == nilSlot {
		return false
	}

	o := b.pool.get(idx)
	li := int(o.Price - b.minPrice)
	if o.Side == Buy {
		lvl := &b.bidLevels[li]
		lvl.remove(b.pool, idx)
		if lvl.empty() {
			b.numBidLevels--
			if o.Price == b.bestBid {
				b.retreatBestBid()
			}
		}
	} else {
		lvl := &b.askLevels[li]
		lvl.remove(b.pool, idx)
		if lvl.empty() {
			b.numAskLevels--
			if o.Price == b.bestAsk {
				b.advanceBestAsk()
			}
		}
	}

	b.orders[id] = nilSlot
	b.numOrders--
	b.pool.dealloc(idx)
	return true
}

// GetBids returns at most depth aggregated bid levels, highest price
// first. Only non-empty levels appear. Read-only.
func (b *Book) GetBids(depth int) []PriceLevel {
	levels := make([]PriceLevel, 0, depth)
	if b.bestBid < b.minPrice {
		return levels
	}
	for p := b.bestBid; p >= b.minPrice && len(levels) < depth; p-- {
		lvl := &b.bidLevels[int(p-b.minPrice)]
		if lvl.empty() {
			continue
		}
		levels = append(levels, b.aggregate(p, lvl))
	}
	return levels
}

// GetAsks returns at most depth aggregated ask levels, lowest price
// first. Only non-empty levels appear. Read-only.
func (b *Book) GetAsks(depth int) []PriceLevel {
	levels := make([]PriceLevel, 0, depth)
	if b.bestAsk > b.maxPrice {
		return levels
	}
	for p := b.bestAsk; p <= b.maxPrice && len(levels) < depth; p++ {
		lvl := &b.askLevels[int(p-b.minPrice)]
		if lvl.empty() {
			continue
		}
		levels = append(levels, b.aggregate(p, lvl))
	}
	return levels
}

func (b *Book) aggregate(p Price, lvl *level) PriceLevel {
	var total Quantity
	for idx := lvl.head; idx != nilSlot; idx = b.pool.get(idx).next {
		total += b.pool.get(idx).Quantity
	}
	return PriceLevel{Price: p, TotalQuantity: total, OrderCount: lvl.count}
}

// BidLevelCount returns the number of non-empty bid levels.
func (b *Book) BidLevelCount() int { return b.numBidLevels }

// AskLevelCount returns the number of non-empty ask levels.
func (b *Book) AskLevelCount() int { return b.numAskLevels }

// OrderCount returns the number of resting orders.
func (b *Book) OrderCount() int { return b.numOrders }

// BestBid returns the highest resting bid price. ok is false when no
// bids rest.
func (b *Book) BestBid() (Price, bool) {
	return b.bestBid, b.bestBid >= b.minPrice
}

// BestAsk returns the lowest resting ask price. ok is false when no
// asks rest.
func (b *Book) BestAsk() (Price, bool) {
	return b.bestAsk, b.bestAsk <= b.maxPrice
}

// MinPrice returns the lower bound of the tick domain.
func (b *Book) MinPrice() Price { return b.minPrice }

// MaxPrice returns the upper bound of the tick domain.
func (b *Book) MaxPrice() Price { return b.maxPrice }

// PoolAvailable returns the number of vacant order slots.
func (b *Book) PoolAvailable() int { return b.pool.available() }

// match drains the opposite ladder until the taker is exhausted or no
// longer crossable. Fill price is always the maker's resting price.
func (b *Book) match(taker *Order, result *OrderResult) {
	if taker.Side == Buy {
		// Match against asks, lowest price first.
		for taker.Quantity > 0 && b.bestAsk <= b.maxPrice {
			if taker.Type == Limit && taker.Price < b.bestAsk {
				break
			}
			lvl := &b.askLevels[int(b.bestAsk-b.minPrice)]
			b.drainLevel(taker, result, lvl)
			if lvl.empty() {
				b.numAskLevels--
				b.advanceBestAsk()
			}
		}
	} else {
		// Match against bids, highest price first.
		for taker.Quantity > 0 && b.bestBid >= b.minPrice {
			if taker.Type == Limit && taker.Price > b.bestBid {
				break
			}
			lvl := &b.bidLevels[int(b.bestBid-b.minPrice)]
			b.drainLevel(taker, result, lvl)
			if lvl.empty() {
				b.numBidLevels--
				b.retreatBestBid()
			}
		}
	}
}

// drainLevel consumes the level's FIFO from the head until the taker or
// the level is exhausted.
func (b *Book) drainLevel(taker *Order, result *OrderResult, lvl *level) {
	for taker.Quantity > 0 && !lvl.empty() {
		makerIdx := lvl.front()
		maker := b.pool.get(makerIdx)

		fillQty := min(taker.Quantity, maker.Quantity)
		result.Fills = append(result.Fills, Fill{
			MakerOrderID: maker.ID,
			TakerOrderID: taker.ID,
			Price:        maker.Price,
			Quantity:     fillQty,
		})

		taker.Quantity -= fillQty
		maker.Quantity -= fillQty
		result.FilledQuantity += fillQty

		if maker.Quantity == 0 {
			lvl.remove(b.pool, makerIdx)
			b.orders[maker.ID] = nilSlot
			b.numOrders--
			b.pool.dealloc(makerIdx)
		}
	}
}

// retreatBestBid walks the bid cursor down to the next non-empty level,
// stopping at the minPrice-1 sentinel when no bids remain.
func (b *Book) retreatBestBid() {
	b.bestBid--
	for b.bestBid >= b.minPrice && b.bidLevels[int(b.bestBid-b.minPrice)].empty() {
		b.bestBid--
	}
}

// advanceBestAsk walks the ask cursor up to the next non-empty level,
// stopping at the maxPrice+1 sentinel when no asks remain.
func (b *Book) advanceBestAsk() {
	b.bestAsk++
	for b.bestAsk <= b.maxPrice && b.askLevels[int(b.bestAsk-b.minPrice)].empty() {
		b.bestAsk++
	}
}
