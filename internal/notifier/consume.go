package notifier

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type deliver func(ctx context.Context, event BorrowingCreatedEvent) error

// Consumer reads borrowing-created events off kafka and forwards them to
// the delivery sink.
type Consumer struct {
	deliverHandler deliver
	log            *zap.Logger
	ready          chan bool
}

func NewConsumer(deliverHandler deliver, log *zap.Logger) *Consumer {
	return &Consumer{
		deliverHandler: deliverHandler,
		log:            log.Named("consumer"),
		ready:          make(chan bool),
	}
}

func (consumer *Consumer) Ready() <-chan bool {
	return consumer.ready
}

func (consumer *Consumer) Setup(sarama.ConsumerGroupSession) error {
	// Mark the consumer as ready
	close(consumer.ready)
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			var event BorrowingCreatedEvent
			if err := json.Unmarshal(message.Value, &event); err != nil {
				consumer.log.Error("unmarshal event", zap.Error(err))
				session.MarkMessage(message, "")
				continue
			}

			// Delivery is best effort: a failed send is logged and the
			// offset still advances, the borrowing itself is committed.
			if err := consumer.deliverHandler(context.Background(), event); err != nil {
				consumer.log.Error("deliver notification", zap.Error(err),
					zap.String("event_id", event.EventID))
			}

			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}
