package otel

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	engineMetrics     *EngineMetrics
	engineMetricsOnce sync.Once
)

// EngineMetrics holds metrics for matching engine operations
type EngineMetrics struct {
	ordersSubmitted metric.Int64Counter
	ordersCancelled metric.Int64Counter
	tradesTotal     metric.Int64Counter
	tradedVolume    metric.Int64Counter
	submitLatency   metric.Float64Histogram
	restingOrders   metric.Int64UpDownCounter
}

// GetEngineMetrics returns the EngineMetrics singleton. Instrument
// creation failures leave the corresponding field nil and the record
// methods become no-ops.
func GetEngineMetrics() *EngineMetrics {
	engineMetricsOnce.Do(func() {
		meter := otel.GetMeterProvider().Meter(instrumentationName)
		m := &EngineMetrics{}

		m.ordersSubmitted, _ = meter.Int64Counter(
			"engine.orders.submitted.total",
			metric.WithDescription("Total number of orders submitted"),
			metric.WithUnit("{order}"),
		)
		m.ordersCancelled, _ = meter.Int64Counter(
			"engine.orders.cancelled.total",
			metric.WithDescription("Total number of orders cancelled"),
			metric.WithUnit("{order}"),
		)
		m.tradesTotal, _ = meter.Int64Counter(
			"engine.trades.total",
			metric.WithDescription("Total number of fills produced"),
			metric.WithUnit("{fill}"),
		)
		m.tradedVolume, _ = meter.Int64Counter(
			"engine.trades.volume",
			metric.WithDescription("Total matched quantity"),
			metric.WithUnit("{unit}"),
		)
		m.submitLatency, _ = meter.Float64Histogram(
			"engine.submit.duration",
			metric.WithDescription("Latency (seconds) of order submission"),
			metric.WithUnit("s"),
		)
		m.restingOrders, _ = meter.Int64UpDownCounter(
			"engine.orders.resting",
			metric.WithDescription("Number of orders currently resting on the book"),
			metric.WithUnit("{order}"),
		)

		engineMetrics = m
	})
	return engineMetrics
}

// RecordSubmit records one submission with its fill outcome.
func (m *EngineMetrics) RecordSubmit(ctx context.Context, symbol, side, orderType string, fills int, volume int64, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("symbol", symbol),
		attribute.String("order.side", side),
		attribute.String("order.type", orderType),
	)
	if m.ordersSubmitted != nil {
		m.ordersSubmitted.Add(ctx, 1, attrs)
	}
	if m.tradesTotal != nil && fills > 0 {
		m.tradesTotal.Add(ctx, int64(fills), attrs)
	}
	if m.tradedVolume != nil && volume > 0 {
		m.tradedVolume.Add(ctx, volume, attrs)
	}
	if m.submitLatency != nil {
		m.submitLatency.Record(ctx, duration.Seconds(), attrs)
	}
}

// RecordCancel records one successful cancellation.
func (m *EngineMetrics) RecordCancel(ctx context.Context, symbol string) {
	if m.ordersCancelled != nil {
		m.ordersCancelled.Add(ctx, 1, metric.WithAttributes(attribute.String("symbol", symbol)))
	}
}

// RecordRestingDelta adjusts the resting-order gauge by delta.
func (m *EngineMetrics) RecordRestingDelta(ctx context.Context, symbol string, delta int64) {
	if m.restingOrders != nil && delta != 0 {
		m.restingOrders.Add(ctx, delta, metric.WithAttributes(attribute.String("symbol", symbol)))
	}
}
