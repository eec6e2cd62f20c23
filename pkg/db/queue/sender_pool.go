package queue

import (
	"context"
	"fmt"

	"github.com/erain9/ticklob/pkg/logging"
	"github.com/erain9/ticklob/pkg/messaging"
)

// DefaultPoolSize bounds the number of pooled producers. One book
// publishes reports from a single writer thread, so a small pool
// absorbs the fan-out across engines without holding dozens of idle
// broker connections.
const DefaultPoolSize = 16

// PooledSender is a messaging.MessageSender backed by a fixed pool of
// sarama producers. Acquisition never blocks: when every producer is
// checked out the report is rejected rather than stalling the matching
// path behind a broker connection.
type PooledSender struct {
	senders chan messaging.MessageSender
	factory func() (messaging.MessageSender, error)
}

// NewPooledSender builds a pool of size producers connected with the
// package broker settings. size <= 0 selects DefaultPoolSize.
func NewPooledSender(size int) (*PooledSender, error) {
	return newPooledSender(size, func() (messaging.MessageSender, error) {
		return NewQueueMessageSender()
	})
}

// newPooledSender lets tests substitute the producer factory.
func newPooledSender(size int, factory func() (messaging.MessageSender, error)) (*PooledSender, error) {
	if size <= 0 {
		size = DefaultPoolSize
	}
	p := &PooledSender{
		senders: make(chan messaging.MessageSender, size),
		factory: factory,
	}
	for i := 0; i < size; i++ {
		sender, err := factory()
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("failed to build execution-report sender pool: %w", err)
		}
		p.senders <- sender
	}
	return p, nil
}

// SendDoneMessage publishes through a pooled producer. A producer that
// fails is closed and replaced so one bad connection cannot poison the
// pool.
func (p *PooledSender) SendDoneMessage(ctx context.Context, msg *messaging.DoneMessage) error {
	var sender messaging.MessageSender
	select {
	case sender = <-p.senders:
	default:
		logger := logging.FromContext(ctx)
		logger.Warn().
			Str("symbol", msg.Symbol).
			Str("order_id", msg.OrderID).
			Msg("Execution-report sender pool exhausted, dropping report")
		return fmt.Errorf("execution-report sender pool exhausted")
	}

	if err := p.sendOn(ctx, sender, msg); err != nil {
		return err
	}

	p.release(ctx, sender)
	return nil
}

func (p *PooledSender) sendOn(ctx context.Context, sender messaging.MessageSender, msg *messaging.DoneMessage) error {
	err := sender.SendDoneMessage(ctx, msg)
	if err == nil {
		return nil
	}

	// The connection may be bad; retire the producer and refill the
	// slot instead of pooling it again.
	_ = sender.Close()
	logger := logging.FromContext(ctx)
	logger.Warn().
		Err(err).
		Str("symbol", msg.Symbol).
		Str("order_id", msg.OrderID).
		Msg("Execution-report producer failed, replacing it")
	p.replace(ctx)
	return err
}

func (p *PooledSender) release(ctx context.Context, sender messaging.MessageSender) {
	select {
	case p.senders <- sender:
	default:
		// A replacement raced us into the last slot.
		logger := logging.FromContext(ctx)
		logger.Warn().
			Msg("Execution-report sender pool full, discarding producer")
		_ = sender.Close()
	}
}

// replace refills the slot vacated by a failed producer.
func (p *PooledSender) replace(ctx context.Context) {
	sender, err := p.factory()
	if err != nil {
		logger := logging.FromContext(ctx)
		logger.Warn().
			Err(err).
			Msg("Failed to replace execution-report producer")
		return
	}
	p.release(ctx, sender)
}

// Close shuts down every pooled producer.
func (p *PooledSender) Close() error {
	for {
		select {
		case sender := <-p.senders:
			_ = sender.Close()
		default:
			return nil
		}
	}
}

// Ensure PooledSender implements MessageSender
var _ messaging.MessageSender = (*PooledSender)(nil)
