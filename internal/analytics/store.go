package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsStore keeps restaurant order statistics in Redis, reloading order
// amounts from PostgreSQL when an order reaches entregue.
type StatsStore struct {
	db  *sql.DB
	rdb *redis.Client
}

func NewStatsStore(db *sql.DB, rdb *redis.Client) *StatsStore {
	return &StatsStore{
		db:  db,
		rdb: rdb,
	}
}

// RecordCreated bumps the restaurant on today's order-volume leaderboard.
func (s *StatsStore) RecordCreated(ctx context.Context, restaurantID int64) error {
	day := time.Now().Format("2006-01-02")
	dailyKey := fmt.Sprintf("stats:daily:%s", day)
	if err := s.rdb.ZIncrBy(ctx, dailyKey, 1, strconv.FormatInt(restaurantID, 10)).Err(); err != nil {
		return err
	}
	return s.rdb.Expire(ctx, dailyKey, 30*24*time.Hour).Err()
}

// RecordDelivered accumulates delivered-order counts and revenue. The event
// does not carry money, so the amount is reloaded from the orders table.
func (s *StatsStore) RecordDelivered(ctx context.Context, restaurantID, orderID int64) error {
	var total float64
	if err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(total_amount, 0)
		FROM orders
		WHERE id = $1 AND restaurant_id = $2
	`, orderID, restaurantID).Scan(&total); err != nil {
		return err
	}

	key := fmt.Sprintf("stats:restaurant:%d", restaurantID)
	if err := s.rdb.HIncrBy(ctx, key, "delivered", 1).Err(); err != nil {
		return err
	}
	return s.rdb.HIncrByFloat(ctx, key, "revenue", total).Err()
}

func (s *StatsStore) RecordCancelled(ctx context.Context, restaurantID int64) error {
	key := fmt.Sprintf("stats:restaurant:%d", restaurantID)
	return s.rdb.HIncrBy(ctx, key, "cancelled", 1).Err()
}

// RestaurantStats reads the aggregate counters back. Missing fields read as
// zero so a restaurant with no traffic still gets a well-formed answer.
func (s *StatsStore) RestaurantStats(ctx context.Context, restaurantID int64) (*RestaurantStats, error) {
	key := fmt.Sprintf("stats:restaurant:%d", restaurantID)
	fields, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	stats := &RestaurantStats{RestaurantID: restaurantID}
	stats.Delivered, _ = strconv.ParseInt(fields["delivered"], 10, 64)
	stats.Cancelled, _ = strconv.ParseInt(fields["cancelled"], 10, 64)
	stats.Revenue, _ = strconv.ParseFloat(fields["revenue"], 64)
	return stats, nil
}
