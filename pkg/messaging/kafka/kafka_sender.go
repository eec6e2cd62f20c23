package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/erain9/ticklob/pkg/logging"
	"github.com/erain9/ticklob/pkg/messaging"
)

// DefaultWriteTimeout bounds a report write when the caller's context
// carries no deadline of its own.
const DefaultWriteTimeout = 5 * time.Second

// KafkaMessageSender publishes execution reports with kafka-go. Every
// message is keyed by order id, so on a keyed topic all reports for
// one order land on one partition in submission order.
type KafkaMessageSender struct {
	writer  *kafka.Writer
	timeout time.Duration
}

// NewKafkaMessageSender creates a sender for the given broker and
// topic. writeTimeout <= 0 selects DefaultWriteTimeout.
func NewKafkaMessageSender(brokerAddr, topic string, writeTimeout time.Duration) (*KafkaMessageSender, error) {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokerAddr),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &KafkaMessageSender{
		writer:  writer,
		timeout: writeTimeout,
	}, nil
}

// SendDoneMessage publishes one execution report.
func (k *KafkaMessageSender) SendDoneMessage(ctx context.Context, done *messaging.DoneMessage) error {
	data, err := json.Marshal(done)
	if err != nil {
		return fmt.Errorf("failed to marshal done message: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(done.OrderID),
		Value: data,
		Time:  time.Now(),
	}

	// Honor a caller-supplied deadline; fall back to the configured
	// write timeout when there is none.
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, k.timeout)
		defer cancel()
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		logger := logging.FromContext(ctx)
		logger.Error().
			Err(err).
			Str("symbol", done.Symbol).
			Str("order_id", done.OrderID).
			Str("topic", k.writer.Topic).
			Msg("Failed to write execution report")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	return nil
}

// Close closes the Kafka writer
func (k *KafkaMessageSender) Close() error {
	return k.writer.Close()
}

// Ensure KafkaMessageSender implements MessageSender
var _ messaging.MessageSender = (*KafkaMessageSender)(nil)
