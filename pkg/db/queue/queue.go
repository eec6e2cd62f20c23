package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/erain9/ticklob/pkg/messaging"
)

var (
	brokerList = "localhost:9092"
	topic      = "ticklob-executions"
)

// SetBrokerList overrides the Kafka broker address used by new senders.
func SetBrokerList(brokers string) {
	brokerList = brokers
}

// SetTopic overrides the Kafka topic used by new senders.
func SetTopic(t string) {
	topic = t
}

// QueueMessageSender implements the MessageSender interface for
// sending execution reports to Kafka through a sarama sync producer.
type QueueMessageSender struct {
	producer sarama.SyncProducer
	topic    string
}

// NewQueueMessageSender creates a sender with its own producer. The
// producer is reused across messages; senders are pooled by
// sender_pool.go to amortise connections.
func NewQueueMessageSender() (*QueueMessageSender, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer([]string{brokerList}, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &QueueMessageSender{producer: producer, topic: topic}, nil
}

// newSenderWithProducer wires a pre-built producer; used by tests with
// the sarama mock.
func newSenderWithProducer(producer sarama.SyncProducer, topic string) *QueueMessageSender {
	return &QueueMessageSender{producer: producer, topic: topic}
}

// SendDoneMessage sends the DoneMessage to the Kafka queue
func (q *QueueMessageSender) SendDoneMessage(_ context.Context, done *messaging.DoneMessage) error {
	data, err := json.Marshal(done)
	if err != nil {
		return fmt.Errorf("failed to marshal done message: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(done.OrderID),
		Value: sarama.ByteEncoder(data),
	}

	if _, _, err := q.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	return nil
}

// Close closes the underlying producer.
func (q *QueueMessageSender) Close() error {
	return q.producer.Close()
}

// Ensure QueueMessageSender implements MessageSender
var _ messaging.MessageSender = (*QueueMessageSender)(nil)
