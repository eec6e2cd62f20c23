package messaging

import (
	"context"
	"strconv"
	"strings"

	"github.com/nikolaydubina/fpdecimal"

	"github.com/erain9/ticklob/pkg/core"
)

// MessageSender defines an interface for publishing execution reports.
// This keeps the engine decoupled from specific transports like Kafka
// in the queue package.
type MessageSender interface {
	SendDoneMessage(ctx context.Context, done *DoneMessage) error
	Close() error
}

// DoneMessage represents one completed AddOrder or CancelOrder
// operation as published downstream.
type DoneMessage struct {
	Symbol       string  `json:"symbol"`
	OrderID      string  `json:"orderID"`
	Side         string  `json:"side"`
	OrderType    string  `json:"orderType"`
	Price        string  `json:"price,omitempty"`
	ExecutedQty  string  `json:"executedQty"`
	RemainingQty string  `json:"remainingQty"`
	Trades       []Trade `json:"trades,omitempty"`
	Stored       bool    `json:"stored"`
	Canceled     bool    `json:"canceled,omitempty"`
}

// Trade represents a single trade execution
type Trade struct {
	MakerOrderID string `json:"makerOrderID"`
	TakerOrderID string `json:"takerOrderID"`
	Price        string `json:"price"`
	Quantity     string `json:"quantity"`
}

// FormatPrice renders an integer tick as a decimal currency string
// with exactly three decimal places (ticks are hundredths of a unit).
func FormatPrice(p core.Price) string {
	val := fpdecimal.FromFloat(float64(p) / 100.0).String()
	parts := strings.Split(val, ".")
	if len(parts) == 1 {
		return val + ".000"
	}
	if len(parts[1]) < 3 {
		return val + strings.Repeat("0", 3-len(parts[1]))
	}
	return val
}

// FormatQuantity renders a quantity.
func FormatQuantity(q core.Quantity) string {
	return strconv.FormatUint(uint64(q), 10)
}

// FormatOrderID renders an order id.
func FormatOrderID(id core.OrderID) string {
	return strconv.FormatUint(uint64(id), 10)
}

// NewDoneMessage converts an OrderResult into its wire form. Stored
// reports whether residual quantity rested on the book.
func NewDoneMessage(symbol string, side core.Side, typ core.OrderType, price core.Price, result core.OrderResult) *DoneMessage {
	msg := &DoneMessage{
		Symbol:       symbol,
		OrderID:      FormatOrderID(result.OrderID),
		Side:         side.String(),
		OrderType:    typ.String(),
		ExecutedQty:  FormatQuantity(result.FilledQuantity),
		RemainingQty: FormatQuantity(result.RemainingQuantity),
		Stored:       typ == core.Limit && result.RemainingQuantity > 0,
	}
	if typ == core.Limit {
		msg.Price = FormatPrice(price)
	}
	if len(result.Fills) > 0 {
		msg.Trades = make([]Trade, 0, len(result.Fills))
		for _, fill := range result.Fills {
			msg.Trades = append(msg.Trades, Trade{
				MakerOrderID: FormatOrderID(fill.MakerOrderID),
				TakerOrderID: FormatOrderID(fill.TakerOrderID),
				Price:        FormatPrice(fill.Price),
				Quantity:     FormatQuantity(fill.Quantity),
			})
		}
	}
	return msg
}

// NewCancelMessage reports a successful cancellation.
func NewCancelMessage(symbol string, id core.OrderID) *DoneMessage {
	return &DoneMessage{
		Symbol:   symbol,
		OrderID:  FormatOrderID(id),
		Canceled: true,
	}
}
