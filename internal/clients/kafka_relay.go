// internal/clients/kafka_relay.go
package clients

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"authorstore/internal/checkout"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaRelay publishes orders to a topic instead of the HTTP relay. Writes
// are synchronous so a broker failure surfaces to the visitor.
type KafkaRelay struct {
	writer messageWriter
}

func NewKafkaRelay(brokers []string, topic string) *KafkaRelay {
	return &KafkaRelay{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

func (k *KafkaRelay) Submit(ctx context.Context, order checkout.Order) error {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "KafkaRelay.Submit")
	defer span.End()

	value, err := json.Marshal(order.Payload())
	if err != nil {
		return err
	}
	if err := k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(order.Email), Value: value}); err != nil {
		span.RecordError(err)
		return fmt.Errorf("publish order: %w", err)
	}
	return nil
}

func (k *KafkaRelay) Close() error {
	return k.writer.Close()
}
