package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/romeuwb/pedelogo-78-sub001/internal/analytics"
	httpapi "github.com/romeuwb/pedelogo-78-sub001/internal/api/http"
	"github.com/romeuwb/pedelogo-78-sub001/internal/config"
	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
	"github.com/romeuwb/pedelogo-78-sub001/internal/payment"
	"github.com/romeuwb/pedelogo-78-sub001/internal/realtime"
	"github.com/romeuwb/pedelogo-78-sub001/internal/service"
	"github.com/romeuwb/pedelogo-78-sub001/internal/storage"
)

func main() {
	db := config.MustInitPostgres()
	defer db.Close()
	if err := storage.EnsureSchema(db); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()

	repo := storage.NewPostgresRepository(db)
	presence := storage.NewCourierPresence(rdb, 5*time.Minute)

	kafkaWriter := config.NewKafkaWriter("order-events")
	defer kafkaWriter.Close()
	events := storage.NewKafkaPublisher(kafkaWriter)

	payments := payment.NewClient(config.PaymentFunctionURL(), config.PaymentAPIKey())

	restaurantID := config.RestaurantID()
	rtClient := realtime.New(config.RealtimeConfig(restaurantID), func(state realtime.State, err error) {
		conn := &domain.PrinterConnection{
			RestaurantID: restaurantID,
			Status:       channelStatus(state),
		}
		if err != nil {
			conn.LastError = err.Error()
			log.Printf("printer channel %s: %v", state, err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if upErr := repo.UpsertConnection(ctx, conn); upErr != nil {
			log.Printf("failed to record printer connection state: %v", upErr)
		}
	})
	if restaurantID > 0 {
		if err := rtClient.Connect(context.Background()); err != nil {
			log.Printf("initial printer channel connect failed: %v", err)
		}
	}
	defer rtClient.Disconnect()

	statsStore := analytics.NewStatsStore(db, rdb)
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if os.Getenv("KAFKA_BROKER") != "" {
		kafkaReader := config.NewKafkaReader("order-events", "order-analytics")
		defer kafkaReader.Close()
		consumer := analytics.NewConsumer(kafkaReader, statsStore)
		go consumer.Start(consumerCtx)
	}

	orders := service.NewOrderService(repo, repo, presence, events, payments)
	printing := service.NewPrintService(repo, rtClient)

	handler := httpapi.NewHandler(orders, printing, statsStore)
	srv := &http.Server{
		Addr:    config.ListenAddr(),
		Handler: httpapi.NewRouter(handler),
	}

	go func() {
		log.Printf("order core listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func channelStatus(state realtime.State) domain.ConnectionStatus {
	switch state {
	case realtime.StateConnecting:
		return domain.ConnConnecting
	case realtime.StateConnected:
		return domain.ConnConnected
	case realtime.StateError:
		return domain.ConnError
	default:
		return domain.ConnDisconnected
	}
}
