package notifier

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
)

// Enqueuer publishes borrowing-created events to a kafka topic; the
// consumer in this package forwards them to the chat sink.
type Enqueuer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEnqueuer(producer sarama.SyncProducer, topic string) *Enqueuer {
	return &Enqueuer{
		producer: producer,
		topic:    topic,
	}
}

func (q *Enqueuer) BorrowingCreated(_ context.Context, event BorrowingCreatedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(event.EventID),
		Value: sarama.StringEncoder(data),
	}
	if _, _, err = q.producer.SendMessage(msg); err != nil {
		return err
	}
	return nil
}
