package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	otelkafka "github.com/Trendyol/otel-kafka-konsumer"
	kafkago "github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"minierp/internal/domain"
)

// EventTypeHeader carrega o tipo do evento em cada mensagem.
const EventTypeHeader = "event-type"

// Producer é o subconjunto do writer instrumentado usado pelo Publisher.
type Producer interface {
	WriteMessage(ctx context.Context, msg kafkago.Message) error
	Close() error
}

// Publisher publica domain.OrderEvent em um tópico Kafka, chaveado pelo ID do pedido
// (eventos do mesmo pedido ficam na mesma partição, em ordem).
type Publisher struct {
	producer Producer
	topic    string
}

// NewPublisher cria o writer kafka-go envolto pelo writer do otel-kafka-konsumer,
// que injeta o contexto de trace nos headers.
func NewPublisher(brokers []string, topic, clientID string, tp trace.TracerProvider) (*Publisher, error) {
	baseWriter := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
		WriteTimeout: 5 * time.Second,
		MaxAttempts:  3,
	}

	writer, err := otelkafka.NewWriter(baseWriter,
		otelkafka.WithTracerProvider(tp),
		otelkafka.WithPropagator(propagation.TraceContext{}),
		otelkafka.WithAttributes(
			[]attribute.KeyValue{
				semconv.MessagingDestinationNameKey.String(topic),
				attribute.String("messaging.kafka.client_id", clientID),
			},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create instrumented kafka writer: %w", err)
	}

	return NewPublisherWithProducer(writer, topic), nil
}

// NewPublisherWithProducer permite injetar outro Producer (testes).
func NewPublisherWithProducer(producer Producer, topic string) *Publisher {
	return &Publisher{producer: producer, topic: topic}
}

// Publish serializa o evento em JSON e o escreve no tópico.
func (p *Publisher) Publish(ctx context.Context, event domain.OrderEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.EventType, err)
	}

	msg := kafkago.Message{
		Key:   []byte(event.OrderID),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafkago.Header{
			{Key: EventTypeHeader, Value: []byte(event.EventType)},
		},
	}

	if err := p.producer.WriteMessage(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", event.EventType, p.topic, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
