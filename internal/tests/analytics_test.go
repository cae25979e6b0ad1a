package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/romeuwb/pedelogo-78-sub001/internal/analytics"
	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
	"github.com/romeuwb/pedelogo-78-sub001/internal/mocks"
)

func TestConsumer_ProcessEvent(t *testing.T) {
	tests := []struct {
		name           string
		event          domain.OrderEvent
		setupMockStore func(*mocks.StatsStoreInterface)
	}{
		{
			name: "order created",
			event: domain.OrderEvent{
				Type:         "order_created",
				OrderID:      1,
				RestaurantID: 10,
			},
			setupMockStore: func(mockStore *mocks.StatsStoreInterface) {
				mockStore.On("RecordCreated", context.Background(), int64(10)).Return(nil)
			},
		},
		{
			name: "delivered",
			event: domain.OrderEvent{
				Type:         "delivered",
				OrderID:      1,
				RestaurantID: 10,
				Status:       domain.StatusEntregue,
			},
			setupMockStore: func(mockStore *mocks.StatsStoreInterface) {
				mockStore.On("RecordDelivered", context.Background(), int64(10), int64(1)).Return(nil)
			},
		},
		{
			name: "cancelled",
			event: domain.OrderEvent{
				Type:         "cancelled",
				OrderID:      1,
				RestaurantID: 10,
				Status:       domain.StatusCancelado,
			},
			setupMockStore: func(mockStore *mocks.StatsStoreInterface) {
				mockStore.On("RecordCancelled", context.Background(), int64(10)).Return(nil)
			},
		},
		{
			name: "store error is swallowed",
			event: domain.OrderEvent{
				Type:         "delivered",
				OrderID:      1,
				RestaurantID: 10,
			},
			setupMockStore: func(mockStore *mocks.StatsStoreInterface) {
				mockStore.On("RecordDelivered", context.Background(), int64(10), int64(1)).
					Return(errors.New("redis error"))
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStatsStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := &analytics.Consumer{
				Store: mockStore,
			}

			consumer.ProcessEvent(context.Background(), testCase.event)
			mockStore.AssertExpectations(t)
		})
	}
}

func TestConsumer_IgnoresOtherEventTypes(t *testing.T) {
	mockStore := mocks.NewStatsStoreInterface(t)
	consumer := &analytics.Consumer{
		Store: mockStore,
	}

	for _, eventType := range []string{"status_changed", "courier_assigned", "unknown_type"} {
		consumer.ProcessEvent(context.Background(), domain.OrderEvent{
			Type:         eventType,
			OrderID:      1,
			RestaurantID: 10,
		})
	}

	mockStore.AssertNotCalled(t, "RecordCreated")
	mockStore.AssertNotCalled(t, "RecordDelivered")
	mockStore.AssertNotCalled(t, "RecordCancelled")
}
