package core

import "errors"

// Default price domain and pool sizing. Prices are hundredths of a
// currency unit, so the default range covers $0.00 to $200.00.
const (
	DefaultMinPrice     Price = 0
	DefaultMaxPrice     Price = 20000
	DefaultPoolCapacity       = 1 << 20
)

// fillsHint pre-sizes the Fills slice on entry to matching; the typical
// taker produces only a handful of fills.
const fillsHint = 16

// Errors
var (
	ErrInvalidPriceRange = errors.New("invalid price range")
	ErrInvalidCapacity   = errors.New("invalid pool capacity")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrInvalidSide       = errors.New("invalid side")
	ErrInvalidOrderType  = errors.New("invalid order type")
)
