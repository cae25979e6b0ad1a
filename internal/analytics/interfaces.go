package analytics

import (
	"context"

	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
)

type RestaurantStats struct {
	RestaurantID int64   `json:"restaurant_id"`
	Delivered    int64   `json:"delivered"`
	Cancelled    int64   `json:"cancelled"`
	Revenue      float64 `json:"revenue"`
}

type StatsStoreInterface interface {
	RecordCreated(ctx context.Context, restaurantID int64) error
	RecordDelivered(ctx context.Context, restaurantID, orderID int64) error
	RecordCancelled(ctx context.Context, restaurantID int64) error
}

type StatsReaderInterface interface {
	RestaurantStats(ctx context.Context, restaurantID int64) (*RestaurantStats, error)
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessEvent(ctx context.Context, ev domain.OrderEvent)
}

var _ StatsStoreInterface = (*StatsStore)(nil)
var _ StatsReaderInterface = (*StatsStore)(nil)
var _ ConsumerInterface = (*Consumer)(nil)
