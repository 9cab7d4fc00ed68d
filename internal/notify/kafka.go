package notify

import (
	"context"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/kamaubrian/dukapay/internal/domain/model"
)

// writer is the subset of kafka.Writer used by the sink.
type writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes terminal payment events to a Kafka topic, keyed by
// order id so transitions of one order stay in partition order.
type KafkaSink struct {
	writer writer
	logger *slog.Logger
}

// NewKafkaSink constructs a sink writing to the given brokers and topic.
func NewKafkaSink(brokers []string, topic string, logger *slog.Logger) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
		},
		logger: logger,
	}
}

func (s *KafkaSink) PaymentCompleted(ctx context.Context, order *model.Order) {
	s.publish(ctx, newEvent(EventPaymentCompleted, order, ""))
}

func (s *KafkaSink) PaymentFailed(ctx context.Context, order *model.Order, reason string) {
	s.publish(ctx, newEvent(EventPaymentFailed, order, reason))
}

func (s *KafkaSink) publish(ctx context.Context, event Event) {
	msg := kafka.Message{
		Key:   []byte(event.OrderID),
		Value: event.marshal(),
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		s.logger.Error("publish payment event failed",
			slog.String("order", event.OrderID),
			slog.String("event", event.EventType),
			slog.String("error", err.Error()),
		)
	}
}

// Close flushes and releases the underlying writer.
func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
