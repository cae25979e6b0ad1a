package service

import (
	"context"

	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
	"github.com/romeuwb/pedelogo-78-sub001/internal/lifecycle"
	"github.com/romeuwb/pedelogo-78-sub001/internal/realtime"
)

type OrderServiceInterface interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListClaimable(ctx context.Context) ([]domain.Order, error)
	RestaurantAdvance(ctx context.Context, orderID int64, role lifecycle.Role, actorID int64, next domain.OrderStatus) (*domain.Order, error)
	ClaimOrder(ctx context.Context, orderID, courierID int64) (*domain.Order, error)
	AdvanceCourierStatus(ctx context.Context, orderID, courierID int64, expected, next domain.OrderStatus) (*domain.Order, error)
	ConfirmDelivery(ctx context.Context, orderID, courierID int64, code string) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID int64, role lifecycle.Role, actorID int64) (*domain.Order, error)
	SetCourierAvailability(ctx context.Context, courierID int64, online bool, lat, lng *float64) error
}

type PrintServiceInterface interface {
	Dispatch(ctx context.Context, job *domain.PrintJob) (*domain.PrintJob, error)
	Retry(ctx context.Context, jobID int64) (*domain.PrintJob, error)
	TestPrint(ctx context.Context, restaurantID int64, printerID *int64) (*domain.PrintJob, error)
	ConnectionStatus(ctx context.Context, restaurantID int64) (*domain.PrinterConnection, error)
	Printers(ctx context.Context, restaurantID int64) ([]domain.Printer, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, o *domain.Order, items []domain.OrderItem) error
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	GetOrderItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	// UpdateStatus performs a conditional write: the row changes only when its
	// current status still equals from. Returns false when no row matched.
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus) (bool, error)
	// ClaimOrder binds the courier and the confirmation code only when the
	// courier reference is still null and the status is claimable.
	ClaimOrder(ctx context.Context, id, courierID int64, code string) (bool, error)
	SetPaymentStatus(ctx context.Context, id int64, ps domain.PaymentStatus) error
	ListClaimable(ctx context.Context) ([]domain.Order, error)
}

type CourierRepository interface {
	GetApproval(ctx context.Context, courierID int64) (domain.ApprovalStatus, error)
}

type CourierPresenceStore interface {
	SetAvailability(ctx context.Context, courierID int64, online bool, lat, lng *float64) error
	IsOnline(ctx context.Context, courierID int64) (bool, error)
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev domain.OrderEvent) error
}

type PaymentGateway interface {
	Charge(ctx context.Context, orderID int64, method string, amount float64) (*PaymentResult, error)
}

type PaymentResult struct {
	Status       string `json:"status"` // approved | pending
	ClientSecret string `json:"client_secret,omitempty"`
	PixCode      string `json:"pix_code,omitempty"`
	QRCodePNG    []byte `json:"qr_code_png,omitempty"`
}

type PrintJobRepository interface {
	CreateJob(ctx context.Context, job *domain.PrintJob) error
	GetJob(ctx context.Context, id int64) (*domain.PrintJob, error)
	UpdateJob(ctx context.Context, id int64, status domain.PrintJobStatus, retryCount int, errMsg string) error
	GetConnection(ctx context.Context, restaurantID int64) (*domain.PrinterConnection, error)
	ListPrinters(ctx context.Context, restaurantID int64) ([]domain.Printer, error)
}

// PrinterChannel is the realtime client as the print service sees it.
type PrinterChannel interface {
	State() realtime.State
	SendPrintJob(ctx context.Context, job *domain.PrintJob) (realtime.PrintResult, error)
}

var (
	_ OrderServiceInterface = (*OrderService)(nil)
	_ PrintServiceInterface = (*PrintService)(nil)
)
