package core

// Side represents buy or sell side of an order
type Side int8

// Order sides
const (
	Buy Side = iota
	Sell
)

// String returns side as string
func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// OrderType represents type of the order
type OrderType int8

// Order types
const (
	Limit OrderType = iota
	Market
)

// String returns order type as string
func (t OrderType) String() string {
	switch t {
	case Limit:
		return "LIMIT"
	case Market:
		return "MARKET"
	default:
		return "UNKNOWN"
	}
}

// Price is an integer tick. Fixed-point: actual price * 100
// (e.g. 10050 = $100.50).
type Price int64

// Quantity is an unfilled order quantity.
type Quantity uint64

// OrderID identifies an order. IDs are dense and assigned sequentially
// starting at 1.
type OrderID uint64

// Fill records a single match between a resting maker order and an
// incoming taker order. Price is always the maker's resting price.
type Fill struct {
	MakerOrderID OrderID
	TakerOrderID OrderID
	Price        Price
	Quantity     Quantity
}

// PriceLevel is an aggregated view of one price level on one side.
type PriceLevel struct {
	Price         Price
	TotalQuantity Quantity
	OrderCount    int
}

// OrderResult is returned by AddOrder. Fills appear in the exact order
// they were produced by the matcher.
type OrderResult struct {
	OrderID           OrderID
	FilledQuantity    Quantity
	RemainingQuantity Quantity
	Fills             []Fill
}
