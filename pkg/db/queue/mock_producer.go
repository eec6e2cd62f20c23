package queue

import (
	"github.com/IBM/sarama"
)

// mockProducer captures the execution reports that would reach Kafka
// and can inject send failures, standing in for sarama.SyncProducer in
// tests.
type mockProducer struct {
	reports  []*sarama.ProducerMessage
	failNext int
	failErr  error
}

// failSends makes the next n sends return err.
func (m *mockProducer) failSends(n int, err error) {
	m.failNext = n
	m.failErr = err
}

func (m *mockProducer) SendMessage(msg *sarama.ProducerMessage) (partition int32, offset int64, err error) {
	if m.failNext > 0 {
		m.failNext--
		return 0, 0, m.failErr
	}
	m.reports = append(m.reports, msg)
	return 0, int64(len(m.reports) - 1), nil
}

func (m *mockProducer) SendMessages(msgs []*sarama.ProducerMessage) error {
	for _, msg := range msgs {
		if _, _, err := m.SendMessage(msg); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}

// The transactional half of sarama.SyncProducer is unused by the
// execution-report path; the rest only satisfies the interface.

func (m *mockProducer) TxnStatus() sarama.ProducerTxnStatusFlag { return 0 }

func (m *mockProducer) BeginTxn() error { return nil }

func (m *mockProducer) CommitTxn() error { return nil }

func (m *mockProducer) AbortTxn() error { return nil }

func (m *mockProducer) AddMessageToTxn(msg *sarama.ConsumerMessage, groupID string, metadata *string) error {
	return nil
}

func (m *mockProducer) AddOffsetsToTxn(offsets map[string][]*sarama.PartitionOffsetMetadata, groupID string) error {
	return nil
}

func (m *mockProducer) IsTransactional() bool { return false }
