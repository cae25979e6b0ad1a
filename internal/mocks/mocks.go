// Package mocks holds testify mocks for the service-layer interfaces.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/romeuwb/pedelogo-78-sub001/internal/analytics"
	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
	"github.com/romeuwb/pedelogo-78-sub001/internal/lifecycle"
	"github.com/romeuwb/pedelogo-78-sub001/internal/realtime"
	"github.com/romeuwb/pedelogo-78-sub001/internal/service"
)

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t *testing.T) *OrderRepository {
	m := &OrderRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderRepository) CreateOrder(ctx context.Context, o *domain.Order, items []domain.OrderItem) error {
	args := m.Called(ctx, o, items)
	return args.Error(0)
}

func (m *OrderRepository) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	var o *domain.Order
	if args.Get(0) != nil {
		o = args.Get(0).(*domain.Order)
	}
	return o, args.Error(1)
}

func (m *OrderRepository) GetOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	args := m.Called(ctx, orderID)
	var items []domain.OrderItem
	if args.Get(0) != nil {
		items = args.Get(0).([]domain.OrderItem)
	}
	return items, args.Error(1)
}

func (m *OrderRepository) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepository) ClaimOrder(ctx context.Context, id, courierID int64, code string) (bool, error) {
	args := m.Called(ctx, id, courierID, code)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepository) SetPaymentStatus(ctx context.Context, id int64, ps domain.PaymentStatus) error {
	args := m.Called(ctx, id, ps)
	return args.Error(0)
}

func (m *OrderRepository) ListClaimable(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

type CourierRepository struct {
	mock.Mock
}

func NewCourierRepository(t *testing.T) *CourierRepository {
	m := &CourierRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CourierRepository) GetApproval(ctx context.Context, courierID int64) (domain.ApprovalStatus, error) {
	args := m.Called(ctx, courierID)
	return args.Get(0).(domain.ApprovalStatus), args.Error(1)
}

type CourierPresenceStore struct {
	mock.Mock
}

func NewCourierPresenceStore(t *testing.T) *CourierPresenceStore {
	m := &CourierPresenceStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *CourierPresenceStore) SetAvailability(ctx context.Context, courierID int64, online bool, lat, lng *float64) error {
	args := m.Called(ctx, courierID, online, lat, lng)
	return args.Error(0)
}

func (m *CourierPresenceStore) IsOnline(ctx context.Context, courierID int64) (bool, error) {
	args := m.Called(ctx, courierID)
	return args.Bool(0), args.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func NewEventPublisher(t *testing.T) *EventPublisher {
	m := &EventPublisher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *EventPublisher) PublishOrderEvent(ctx context.Context, ev domain.OrderEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type PaymentGateway struct {
	mock.Mock
}

func NewPaymentGateway(t *testing.T) *PaymentGateway {
	m := &PaymentGateway{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PaymentGateway) Charge(ctx context.Context, orderID int64, method string, amount float64) (*service.PaymentResult, error) {
	args := m.Called(ctx, orderID, method, amount)
	var res *service.PaymentResult
	if args.Get(0) != nil {
		res = args.Get(0).(*service.PaymentResult)
	}
	return res, args.Error(1)
}

type PrintJobRepository struct {
	mock.Mock
}

func NewPrintJobRepository(t *testing.T) *PrintJobRepository {
	m := &PrintJobRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PrintJobRepository) CreateJob(ctx context.Context, job *domain.PrintJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *PrintJobRepository) GetJob(ctx context.Context, id int64) (*domain.PrintJob, error) {
	args := m.Called(ctx, id)
	var job *domain.PrintJob
	if args.Get(0) != nil {
		job = args.Get(0).(*domain.PrintJob)
	}
	return job, args.Error(1)
}

func (m *PrintJobRepository) UpdateJob(ctx context.Context, id int64, status domain.PrintJobStatus, retryCount int, errMsg string) error {
	args := m.Called(ctx, id, status, retryCount, errMsg)
	return args.Error(0)
}

func (m *PrintJobRepository) GetConnection(ctx context.Context, restaurantID int64) (*domain.PrinterConnection, error) {
	args := m.Called(ctx, restaurantID)
	var conn *domain.PrinterConnection
	if args.Get(0) != nil {
		conn = args.Get(0).(*domain.PrinterConnection)
	}
	return conn, args.Error(1)
}

func (m *PrintJobRepository) ListPrinters(ctx context.Context, restaurantID int64) ([]domain.Printer, error) {
	args := m.Called(ctx, restaurantID)
	var printers []domain.Printer
	if args.Get(0) != nil {
		printers = args.Get(0).([]domain.Printer)
	}
	return printers, args.Error(1)
}

type PrinterChannel struct {
	mock.Mock
}

func NewPrinterChannel(t *testing.T) *PrinterChannel {
	m := &PrinterChannel{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PrinterChannel) State() realtime.State {
	args := m.Called()
	return args.Get(0).(realtime.State)
}

func (m *PrinterChannel) SendPrintJob(ctx context.Context, job *domain.PrintJob) (realtime.PrintResult, error) {
	args := m.Called(ctx, job)
	return args.Get(0).(realtime.PrintResult), args.Error(1)
}

type OrderServiceInterface struct {
	mock.Mock
}

func NewOrderServiceInterface(t *testing.T) *OrderServiceInterface {
	m := &OrderServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *OrderServiceInterface) Checkout(ctx context.Context, req service.CheckoutRequest) (*service.CheckoutResult, error) {
	args := m.Called(ctx, req)
	var res *service.CheckoutResult
	if args.Get(0) != nil {
		res = args.Get(0).(*service.CheckoutResult)
	}
	return res, args.Error(1)
}

func (m *OrderServiceInterface) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	args := m.Called(ctx, id)
	var o *domain.Order
	if args.Get(0) != nil {
		o = args.Get(0).(*domain.Order)
	}
	return o, args.Error(1)
}

func (m *OrderServiceInterface) ListClaimable(ctx context.Context) ([]domain.Order, error) {
	args := m.Called(ctx)
	var orders []domain.Order
	if args.Get(0) != nil {
		orders = args.Get(0).([]domain.Order)
	}
	return orders, args.Error(1)
}

func (m *OrderServiceInterface) RestaurantAdvance(ctx context.Context, orderID int64, role lifecycle.Role, actorID int64, next domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, orderID, role, actorID, next)
	var o *domain.Order
	if args.Get(0) != nil {
		o = args.Get(0).(*domain.Order)
	}
	return o, args.Error(1)
}

func (m *OrderServiceInterface) ClaimOrder(ctx context.Context, orderID, courierID int64) (*domain.Order, error) {
	args := m.Called(ctx, orderID, courierID)
	var o *domain.Order
	if args.Get(0) != nil {
		o = args.Get(0).(*domain.Order)
	}
	return o, args.Error(1)
}

func (m *OrderServiceInterface) AdvanceCourierStatus(ctx context.Context, orderID, courierID int64, expected, next domain.OrderStatus) (*domain.Order, error) {
	args := m.Called(ctx, orderID, courierID, expected, next)
	var o *domain.Order
	if args.Get(0) != nil {
		o = args.Get(0).(*domain.Order)
	}
	return o, args.Error(1)
}

func (m *OrderServiceInterface) ConfirmDelivery(ctx context.Context, orderID, courierID int64, code string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, courierID, code)
	var o *domain.Order
	if args.Get(0) != nil {
		o = args.Get(0).(*domain.Order)
	}
	return o, args.Error(1)
}

func (m *OrderServiceInterface) CancelOrder(ctx context.Context, orderID int64, role lifecycle.Role, actorID int64) (*domain.Order, error) {
	args := m.Called(ctx, orderID, role, actorID)
	var o *domain.Order
	if args.Get(0) != nil {
		o = args.Get(0).(*domain.Order)
	}
	return o, args.Error(1)
}

func (m *OrderServiceInterface) SetCourierAvailability(ctx context.Context, courierID int64, online bool, lat, lng *float64) error {
	args := m.Called(ctx, courierID, online, lat, lng)
	return args.Error(0)
}

type PrintServiceInterface struct {
	mock.Mock
}

func NewPrintServiceInterface(t *testing.T) *PrintServiceInterface {
	m := &PrintServiceInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PrintServiceInterface) Dispatch(ctx context.Context, job *domain.PrintJob) (*domain.PrintJob, error) {
	args := m.Called(ctx, job)
	var j *domain.PrintJob
	if args.Get(0) != nil {
		j = args.Get(0).(*domain.PrintJob)
	}
	return j, args.Error(1)
}

func (m *PrintServiceInterface) Retry(ctx context.Context, jobID int64) (*domain.PrintJob, error) {
	args := m.Called(ctx, jobID)
	var j *domain.PrintJob
	if args.Get(0) != nil {
		j = args.Get(0).(*domain.PrintJob)
	}
	return j, args.Error(1)
}

func (m *PrintServiceInterface) TestPrint(ctx context.Context, restaurantID int64, printerID *int64) (*domain.PrintJob, error) {
	args := m.Called(ctx, restaurantID, printerID)
	var j *domain.PrintJob
	if args.Get(0) != nil {
		j = args.Get(0).(*domain.PrintJob)
	}
	return j, args.Error(1)
}

func (m *PrintServiceInterface) ConnectionStatus(ctx context.Context, restaurantID int64) (*domain.PrinterConnection, error) {
	args := m.Called(ctx, restaurantID)
	var conn *domain.PrinterConnection
	if args.Get(0) != nil {
		conn = args.Get(0).(*domain.PrinterConnection)
	}
	return conn, args.Error(1)
}

func (m *PrintServiceInterface) Printers(ctx context.Context, restaurantID int64) ([]domain.Printer, error) {
	args := m.Called(ctx, restaurantID)
	var printers []domain.Printer
	if args.Get(0) != nil {
		printers = args.Get(0).([]domain.Printer)
	}
	return printers, args.Error(1)
}

type StatsStoreInterface struct {
	mock.Mock
}

func NewStatsStoreInterface(t *testing.T) *StatsStoreInterface {
	m := &StatsStoreInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StatsStoreInterface) RecordCreated(ctx context.Context, restaurantID int64) error {
	args := m.Called(ctx, restaurantID)
	return args.Error(0)
}

func (m *StatsStoreInterface) RecordDelivered(ctx context.Context, restaurantID, orderID int64) error {
	args := m.Called(ctx, restaurantID, orderID)
	return args.Error(0)
}

func (m *StatsStoreInterface) RecordCancelled(ctx context.Context, restaurantID int64) error {
	args := m.Called(ctx, restaurantID)
	return args.Error(0)
}

type StatsReaderInterface struct {
	mock.Mock
}

func NewStatsReaderInterface(t *testing.T) *StatsReaderInterface {
	m := &StatsReaderInterface{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *StatsReaderInterface) RestaurantStats(ctx context.Context, restaurantID int64) (*analytics.RestaurantStats, error) {
	args := m.Called(ctx, restaurantID)
	var stats *analytics.RestaurantStats
	if args.Get(0) != nil {
		stats = args.Get(0).(*analytics.RestaurantStats)
	}
	return stats, args.Error(1)
}

var (
	_ service.OrderRepository        = (*OrderRepository)(nil)
	_ service.CourierRepository      = (*CourierRepository)(nil)
	_ service.CourierPresenceStore   = (*CourierPresenceStore)(nil)
	_ service.EventPublisher         = (*EventPublisher)(nil)
	_ service.PaymentGateway         = (*PaymentGateway)(nil)
	_ service.PrintJobRepository     = (*PrintJobRepository)(nil)
	_ service.PrinterChannel         = (*PrinterChannel)(nil)
	_ service.OrderServiceInterface  = (*OrderServiceInterface)(nil)
	_ service.PrintServiceInterface  = (*PrintServiceInterface)(nil)
	_ analytics.StatsStoreInterface  = (*StatsStoreInterface)(nil)
	_ analytics.StatsReaderInterface = (*StatsReaderInterface)(nil)
)
