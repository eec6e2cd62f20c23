// Package engine wraps the core book with the operational concerns the
// core deliberately leaves out: input validation, structured logging,
// telemetry and execution-report publishing. The book itself stays
// single-threaded; an Engine must be driven by one writer.
package engine

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/erain9/ticklob/pkg/core"
	"github.com/erain9/ticklob/pkg/logging"
	"github.com/erain9/ticklob/pkg/messaging"
	"github.com/erain9/ticklob/pkg/otel"
)

// Engine is a validating façade over one instrument's book.
type Engine struct {
	symbol  string
	book    *core.Book
	sender  messaging.MessageSender
	metrics *otel.EngineMetrics
}

// NewEngine creates an engine for one instrument. sender may be nil to
// disable execution-report publishing (tests, benchmarks).
func NewEngine(symbol string, cfg core.Config, sender messaging.MessageSender) (*Engine, error) {
	book, err := core.NewBook(cfg)
	if err != nil {
		return nil, err
	}
	return &Engine{
		symbol:  symbol,
		book:    book,
		sender:  sender,
		metrics: otel.GetEngineMetrics(),
	}, nil
}

// Symbol returns the instrument symbol.
func (e *Engine) Symbol() string { return e.symbol }

// Book exposes the underlying book for read-only observers.
func (e *Engine) Book() *core.Book { return e.book }

// SubmitLimit validates and submits a limit order.
func (e *Engine) SubmitLimit(ctx context.Context, side core.Side, price core.Price, quantity core.Quantity) (core.OrderResult, error) {
	if side != core.Buy && side != core.Sell {
		return core.OrderResult{}, core.ErrInvalidSide
	}
	if quantity == 0 {
		return core.OrderResult{}, core.ErrInvalidQuantity
	}
	if price < e.book.MinPrice() || price > e.book.MaxPrice() {
		return core.OrderResult{}, core.ErrInvalidPrice
	}
	return e.submit(ctx, side, core.Limit, price, quantity), nil
}

// SubmitMarket validates and submits a market order. Price is ignored
// by matching; unfilled residual is dropped.
func (e *Engine) SubmitMarket(ctx context.Context, side core.Side, quantity core.Quantity) (core.OrderResult, error) {
	if side != core.Buy && side != core.Sell {
		return core.OrderResult{}, core.ErrInvalidSide
	}
	if quantity == 0 {
		return core.OrderResult{}, core.ErrInvalidQuantity
	}
	return e.submit(ctx, side, core.Market, 0, quantity), nil
}

func (e *Engine) submit(ctx context.Context, side core.Side, typ core.OrderType, price core.Price, quantity core.Quantity) core.OrderResult {
	ctx, span := otel.StartOrderSpan(ctx, otel.SpanSubmitOrder,
		attribute.String(otel.AttributeSymbol, e.symbol),
		attribute.String(otel.AttributeOrderSide, side.String()),
		attribute.String(otel.AttributeOrderType, typ.String()),
		attribute.Int64(otel.AttributeOrderQuantity, int64(quantity)),
		attribute.Int64(otel.AttributeOrderPrice, int64(price)),
	)
	defer span.End()

	before := e.book.OrderCount()
	start := time.Now()
	result := e.book.AddOrder(side, typ, price, quantity)
	elapsed := time.Since(start)

	e.metrics.RecordSubmit(ctx, e.symbol, side.String(), typ.String(),
		len(result.Fills), int64(result.FilledQuantity), elapsed)
	e.metrics.RecordRestingDelta(ctx, e.symbol, int64(e.book.OrderCount()-before))

	otel.AddAttributes(span,
		attribute.Int64(otel.AttributeOrderID, int64(result.OrderID)),
		attribute.Int64(otel.AttributeExecutedQuantity, int64(result.FilledQuantity)),
		attribute.Int64(otel.AttributeRemainingQuantity, int64(result.RemainingQuantity)),
		attribute.Int(otel.AttributeTradeCount, len(result.Fills)),
	)
	span.SetStatus(codes.Ok, "order processed")

	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("symbol", e.symbol).
		Uint64("order_id", uint64(result.OrderID)).
		Str("side", side.String()).
		Str("type", typ.String()).
		Int64("price", int64(price)).
		Uint64("quantity", uint64(quantity)).
		Uint64("filled", uint64(result.FilledQuantity)).
		Uint64("remaining", uint64(result.RemainingQuantity)).
		Int("fills", len(result.Fills)).
		Dur("duration", elapsed).
		Msg("Order processed")

	e.publish(ctx, messaging.NewDoneMessage(e.symbol, side, typ, price, result))
	return result
}

// Cancel removes a resting order by id. False means the id is unknown,
// already filled or already cancelled.
func (e *Engine) Cancel(ctx context.Context, id core.OrderID) bool {
	ctx, span := otel.StartOrderSpan(ctx, otel.SpanCancelOrder,
		attribute.String(otel.AttributeSymbol, e.symbol),
		attribute.Int64(otel.AttributeOrderID, int64(id)),
	)
	defer span.End()

	ok := e.book.CancelOrder(id)
	otel.AddAttributes(span, attribute.Bool(otel.AttributeCancelled, ok))
	span.SetStatus(codes.Ok, "cancel processed")

	if !ok {
		logger := logging.FromContext(ctx)
		logger.Debug().
			Str("symbol", e.symbol).
			Uint64("order_id", uint64(id)).
			Msg("Cancel rejected")
		return false
	}

	e.metrics.RecordCancel(ctx, e.symbol)
	e.metrics.RecordRestingDelta(ctx, e.symbol, -1)

	logger := logging.FromContext(ctx)
	logger.Debug().
		Str("symbol", e.symbol).
		Uint64("order_id", uint64(id)).
		Msg("Order cancelled")

	e.publish(ctx, messaging.NewCancelMessage(e.symbol, id))
	return true
}

// Depth returns up to depth aggregated levels per side.
func (e *Engine) Depth(depth int) (bids, asks []core.PriceLevel) {
	return e.book.GetBids(depth), e.book.GetAsks(depth)
}

// publish sends an execution report; failures are logged, never
// propagated into the matching path.
func (e *Engine) publish(ctx context.Context, msg *messaging.DoneMessage) {
	if e.sender == nil {
		return
	}

	ctx, span := otel.StartOrderSpan(ctx, otel.SpanPublishDone,
		attribute.String(otel.AttributeSymbol, e.symbol),
		attribute.String(otel.AttributeOrderID, msg.OrderID),
	)
	defer span.End()

	if err := e.sender.SendDoneMessage(ctx, msg); err != nil {
		span.SetStatus(codes.Error, "failed to publish execution report")
		logger := logging.FromContext(ctx)
		logger.Error().
			Err(err).
			Str("symbol", e.symbol).
			Str("order_id", msg.OrderID).
			Msg("Failed to publish execution report")
		return
	}
	span.SetStatus(codes.Ok, "execution report published")
}
