package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
)

// Consumer tails the order-events topic and folds lifecycle events into
// per-restaurant statistics. It runs beside the HTTP gateway and never
// blocks an order mutation.
type Consumer struct {
	Reader *kafka.Reader
	Store  StatsStoreInterface
}

func NewConsumer(reader *kafka.Reader, store StatsStoreInterface) *Consumer {
	return &Consumer{
		Reader: reader,
		Store:  store,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	log.Println("Starting order analytics consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Printf("Error reading message: %v", err)
			continue
		}

		var ev domain.OrderEvent
		if err := json.Unmarshal(message.Value, &ev); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		c.ProcessEvent(ctx, ev)
	}
}

func (c *Consumer) ProcessEvent(ctx context.Context, ev domain.OrderEvent) {
	switch ev.Type {
	case "order_created":
		if err := c.Store.RecordCreated(ctx, ev.RestaurantID); err != nil {
			log.Printf("Error recording created order %d: %v", ev.OrderID, err)
		}
	case "delivered":
		if err := c.Store.RecordDelivered(ctx, ev.RestaurantID, ev.OrderID); err != nil {
			log.Printf("Error recording delivered order %d: %v", ev.OrderID, err)
		}
	case "cancelled":
		if err := c.Store.RecordCancelled(ctx, ev.RestaurantID); err != nil {
			log.Printf("Error recording cancelled order %d: %v", ev.OrderID, err)
		}
	}
}
