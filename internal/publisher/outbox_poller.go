// Package publisher drains the order outbox into kafka. Downstream
// consumers (the purchase-notification feed, fulfilment tooling) read
// the topic; the storefront itself never blocks on kafka.
package publisher

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Admpapi/lucifer-website/internal/order"
)

const ordersTopic = "storefront.orders"

// EventSource provides pending outbox events. Satisfied by the order
// repository.
type EventSource interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*order.OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, id int64) error
}

type OutboxPoller struct {
	tick   time.Duration
	source EventSource
	writer *kafka.Writer
}

func NewOutboxPoller(source EventSource, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  ordersTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{tick: time.Second, source: source, writer: w}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			if err := p.writer.Close(); err != nil {
				log.Printf("failed to close kafka writer: %v", err)
			}
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.source.GetUnprocessedEvents(ctx, 100)
	if err != nil {
		log.Printf("failed to fetch outbox events: %v", err)
		return
	}

	for _, event := range events {
		if errPublish := p.publishToKafka(ctx, event); errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		if errMark := p.source.MarkEventAsProcessed(ctx, event.ID); errMark != nil {
			log.Printf("failed to mark event as processed id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}

func (p *OutboxPoller) publishToKafka(ctx context.Context, event *order.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // session id for ordering
		Value: event.Payload,             // Already JSON from database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}
