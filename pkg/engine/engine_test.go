package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erain9/ticklob/pkg/core"
	"github.com/erain9/ticklob/pkg/messaging"
)

func newTestEngine(t *testing.T) (*Engine, *messaging.MockMessageSender) {
	t.Helper()
	sender := messaging.NewMockMessageSender()
	eng, err := NewEngine("AAPL", core.DefaultConfig(), sender)
	require.NoError(t, err)
	return eng, sender
}

func TestSubmitLimitValidation(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.SubmitLimit(ctx, core.Buy, 10000, 0)
	assert.ErrorIs(t, err, core.ErrInvalidQuantity)

	_, err = eng.SubmitLimit(ctx, core.Buy, -1, 10)
	assert.ErrorIs(t, err, core.ErrInvalidPrice)

	_, err = eng.SubmitLimit(ctx, core.Buy, eng.Book().MaxPrice()+1, 10)
	assert.ErrorIs(t, err, core.ErrInvalidPrice)

	_, err = eng.SubmitLimit(ctx, core.Side(3), 10000, 10)
	assert.ErrorIs(t, err, core.ErrInvalidSide)

	// Nothing reached the book.
	assert.Equal(t, 0, eng.Book().OrderCount())
}

func TestSubmitMarketValidation(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.SubmitMarket(context.Background(), core.Sell, 0)
	assert.ErrorIs(t, err, core.ErrInvalidQuantity)
}

func TestSubmitPublishesDoneMessage(t *testing.T) {
	eng, sender := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.SubmitLimit(ctx, core.Sell, 10000, 100)
	require.NoError(t, err)

	result, err := eng.SubmitLimit(ctx, core.Buy, 10000, 40)
	require.NoError(t, err)
	assert.Equal(t, core.Quantity(40), result.FilledQuantity)

	msgs := sender.Messages()
	require.Len(t, msgs, 2)

	rest := msgs[0]
	assert.Equal(t, "AAPL", rest.Symbol)
	assert.Equal(t, "1", rest.OrderID)
	assert.Equal(t, "SELL", rest.Side)
	assert.True(t, rest.Stored)
	assert.Empty(t, rest.Trades)

	match := msgs[1]
	assert.Equal(t, "2", match.OrderID)
	assert.Equal(t, "40", match.ExecutedQty)
	assert.Equal(t, "0", match.RemainingQty)
	assert.False(t, match.Stored)
	require.Len(t, match.Trades, 1)
	assert.Equal(t, "1", match.Trades[0].MakerOrderID)
	assert.Equal(t, "2", match.Trades[0].TakerOrderID)
	assert.Equal(t, "100.000", match.Trades[0].Price)
	assert.Equal(t, "40", match.Trades[0].Quantity)
}

func TestCancelPublishes(t *testing.T) {
	eng, sender := newTestEngine(t)
	ctx := context.Background()

	result, err := eng.SubmitLimit(ctx, core.Buy, 9950, 25)
	require.NoError(t, err)

	assert.True(t, eng.Cancel(ctx, result.OrderID))
	assert.False(t, eng.Cancel(ctx, result.OrderID))

	msgs := sender.Messages()
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].Canceled)
	assert.Equal(t, "1", msgs[1].OrderID)
}

func TestEngineWithoutSender(t *testing.T) {
	eng, err := NewEngine("AAPL", core.DefaultConfig(), nil)
	require.NoError(t, err)

	result, err := eng.SubmitLimit(context.Background(), core.Buy, 10000, 10)
	require.NoError(t, err)
	assert.Equal(t, core.OrderID(1), result.OrderID)
}

func TestDepth(t *testing.T) {
	eng, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.SubmitLimit(ctx, core.Buy, 9900, 10)
	require.NoError(t, err)
	_, err = eng.SubmitLimit(ctx, core.Buy, 9950, 20)
	require.NoError(t, err)
	_, err = eng.SubmitLimit(ctx, core.Sell, 10050, 30)
	require.NoError(t, err)

	bids, asks := eng.Depth(10)
	require.Len(t, bids, 2)
	require.Len(t, asks, 1)
	assert.Equal(t, core.Price(9950), bids[0].Price)
	assert.Equal(t, core.Price(10050), asks[0].Price)
}

func TestMarketOrderFlow(t *testing.T) {
	eng, sender := newTestEngine(t)
	ctx := context.Background()

	_, err := eng.SubmitLimit(ctx, core.Sell, 10000, 50)
	require.NoError(t, err)

	result, err := eng.SubmitMarket(ctx, core.Buy, 80)
	require.NoError(t, err)
	assert.Equal(t, core.Quantity(50), result.FilledQuantity)
	assert.Equal(t, core.Quantity(30), result.RemainingQuantity)

	// Market residual is dropped, not stored.
	msgs := sender.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "MARKET", msgs[1].OrderType)
	assert.False(t, msgs[1].Stored)
	assert.Equal(t, 0, eng.Book().OrderCount())
}
