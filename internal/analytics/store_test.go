package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsStore_RecordCreated(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := NewStatsStore(nil, rdb)
	ctx := context.Background()

	require.NoError(t, store.RecordCreated(ctx, 10))
	require.NoError(t, store.RecordCreated(ctx, 10))
	require.NoError(t, store.RecordCreated(ctx, 20))

	day := time.Now().Format("2006-01-02")
	score, err := rdb.ZScore(ctx, "stats:daily:"+day, "10").Result()
	require.NoError(t, err)
	assert.Equal(t, float64(2), score)
}

func TestStatsStore_RecordDelivered(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	sqlMock.ExpectQuery("SELECT COALESCE\\(total_amount, 0\\)").
		WithArgs(int64(1), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"total_amount"}).AddRow(54.90))

	store := NewStatsStore(db, rdb)
	ctx := context.Background()

	require.NoError(t, store.RecordDelivered(ctx, 10, 1))

	stats, err := rdb.HGetAll(ctx, "stats:restaurant:10").Result()
	require.NoError(t, err)
	assert.Equal(t, "1", stats["delivered"])
	assert.Equal(t, "54.9", stats["revenue"])
	require.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestStatsStore_RecordDelivered_DBError(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	sqlMock.ExpectQuery("SELECT COALESCE\\(total_amount, 0\\)").
		WithArgs(int64(1), int64(10)).
		WillReturnError(errors.New("connection lost"))

	store := NewStatsStore(db, rdb)
	err = store.RecordDelivered(context.Background(), 10, 1)
	assert.Error(t, err)
}

func TestStatsStore_RecordCancelled(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := NewStatsStore(nil, rdb)
	ctx := context.Background()

	require.NoError(t, store.RecordCancelled(ctx, 10))
	require.NoError(t, store.RecordCancelled(ctx, 10))

	count, err := rdb.HGet(ctx, "stats:restaurant:10", "cancelled").Result()
	require.NoError(t, err)
	assert.Equal(t, "2", count)
}
