package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	"github.com/romeuwb/pedelogo-78-sub001/internal/realtime"
)

func MustInitPostgres() *sql.DB {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")

	connStr := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser +
		" password=" + dbPassword + " dbname=" + dbName + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{os.Getenv("KAFKA_BROKER")},
		Topic:   topic,
		GroupID: groupID,
	})
}

// RealtimeConfig builds the printer channel settings for one restaurant.
// Heartbeat, reconnect delay and the retry budget use the client defaults
// (30s / 5s / 5) unless overridden.
func RealtimeConfig(restaurantID int64) realtime.Config {
	cfg := realtime.Config{
		URL:          os.Getenv("PRINTER_WS_URL"),
		APIKey:       os.Getenv("PRINTER_WS_API_KEY"),
		RestaurantID: restaurantID,
	}
	if v := os.Getenv("PRINTER_WS_MAX_RECONNECTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxReconnects = n
		}
	}
	return cfg
}

func ListenAddr() string {
	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

func PaymentFunctionURL() string {
	return os.Getenv("PAYMENT_FUNCTION_URL")
}

func PaymentAPIKey() string {
	return os.Getenv("PAYMENT_API_KEY")
}

func RestaurantID() int64 {
	id, _ := strconv.ParseInt(os.Getenv("RESTAURANT_ID"), 10, 64)
	return id
}
