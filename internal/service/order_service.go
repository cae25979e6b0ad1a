package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
	"github.com/romeuwb/pedelogo-78-sub001/internal/lifecycle"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrAlreadyClaimed          = errors.New("order already claimed by another courier")
	ErrStaleState              = errors.New("order status changed, refresh and retry")
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")
	ErrCourierUnavailable      = errors.New("courier is offline or not approved")
	ErrNotOrderOwner           = errors.New("actor does not own this order")
	ErrInvalidInput            = errors.New("invalid input")
	ErrPaymentPending          = errors.New("payment not approved yet")
)

// OrderService is the single choke point for order status mutations. Every
// legal transition is validated against the lifecycle machine before any
// write, and every applied transition is published as an order event.
type OrderService struct {
	orders   OrderRepository
	couriers CourierRepository
	presence CourierPresenceStore
	events   EventPublisher
	payments PaymentGateway

	// codeFn generates delivery confirmation codes; swapped in tests.
	codeFn func() string
}

func NewOrderService(orders OrderRepository, couriers CourierRepository, presence CourierPresenceStore, events EventPublisher, payments PaymentGateway) *OrderService {
	return &OrderService{
		orders:   orders,
		couriers: couriers,
		presence: presence,
		events:   events,
		payments: payments,
		codeFn:   NewConfirmationCode,
	}
}

// NewConfirmationCode draws a uniform 4-digit hand-off code in [1000, 9999].
func NewConfirmationCode() string {
	return fmt.Sprintf("%d", 1000+rand.Intn(9000))
}

type CheckoutRequest struct {
	ClientID         int64              `json:"client_id"`
	RestaurantID     int64              `json:"restaurant_id"`
	Items            []domain.OrderItem `json:"items"`
	DeliveryAddress  string             `json:"delivery_address"`
	DeliveryFee      float64            `json:"delivery_fee"`
	Notes            string             `json:"notes,omitempty"`
	PaymentMethod    string             `json:"payment_method"`
	EstimatedMinutes int                `json:"estimated_minutes,omitempty"`
}

type CheckoutResult struct {
	Order   *domain.Order  `json:"order"`
	Payment *PaymentResult `json:"payment,omitempty"`
}

// Checkout creates the order in pendente with immutable item snapshots, then
// invokes the payment collaborator. An approved charge unlocks restaurant
// confirmation; anything else leaves the order awaiting payment.
func (s *OrderService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if req.ClientID <= 0 || req.RestaurantID <= 0 || len(req.Items) == 0 {
		return nil, ErrInvalidInput
	}
	var total float64
	for _, it := range req.Items {
		if it.Quantity <= 0 || it.UnitPrice < 0 || it.ProductName == "" {
			return nil, ErrInvalidInput
		}
		total += float64(it.Quantity) * it.UnitPrice
	}

	o := &domain.Order{
		ClientID:         req.ClientID,
		RestaurantID:     req.RestaurantID,
		Status:           domain.StatusPendente,
		PaymentStatus:    domain.PaymentPending,
		TotalAmount:      total + req.DeliveryFee,
		DeliveryFee:      req.DeliveryFee,
		DeliveryAddress:  req.DeliveryAddress,
		Notes:            req.Notes,
		EstimatedMinutes: req.EstimatedMinutes,
	}
	if err := s.orders.CreateOrder(ctx, o, req.Items); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	s.publish(ctx, "order_created", o)

	result := &CheckoutResult{Order: o}
	if s.payments != nil {
		pay, err := s.payments.Charge(ctx, o.ID, req.PaymentMethod, o.TotalAmount)
		if err != nil {
			log.Printf("payment charge failed for order %d: %v", o.ID, err)
			return result, nil
		}
		result.Payment = pay
		if pay.Status == "approved" {
			if err := s.orders.SetPaymentStatus(ctx, o.ID, domain.PaymentApproved); err != nil {
				return nil, fmt.Errorf("failed to mark payment approved: %w", err)
			}
			o.PaymentStatus = domain.PaymentApproved
		}
	}
	return result, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := s.orders.GetOrderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

// ListClaimable returns unassigned orders an online courier may claim.
func (s *OrderService) ListClaimable(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListClaimable(ctx)
}

// RestaurantAdvance moves an order along the preparation flow
// (pendente -> confirmado -> preparando -> pronto). Only the restaurant the
// order belongs to may drive it. The write is conditional on the status the
// restaurant saw; a lost race surfaces as ErrStaleState.
func (s *OrderService) RestaurantAdvance(ctx context.Context, orderID int64, role lifecycle.Role, actorID int64, next domain.OrderStatus) (*domain.Order, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Check(role, o.Status, next); err != nil {
		return nil, err
	}
	if !s.ownsOrder(o, role, actorID) {
		return nil, ErrNotOrderOwner
	}
	if next == domain.StatusConfirmado && o.PaymentStatus != domain.PaymentApproved {
		return nil, ErrPaymentPending
	}
	ok, err := s.orders.UpdateStatus(ctx, orderID, o.Status, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleState
	}
	o.Status = next
	s.publish(ctx, "status_changed", o)
	return o, nil
}

// ClaimOrder binds a courier to a ready, unassigned order. Claim races are
// resolved by a single conditional write; the loser gets ErrAlreadyClaimed,
// which the UI treats as informational rather than a failure.
func (s *OrderService) ClaimOrder(ctx context.Context, orderID, courierID int64) (*domain.Order, error) {
	if orderID <= 0 || courierID <= 0 {
		return nil, ErrInvalidInput
	}
	online, err := s.presence.IsOnline(ctx, courierID)
	if err != nil {
		return nil, err
	}
	approval, err := s.couriers.GetApproval(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if !online || approval != domain.ApprovalApproved {
		return nil, ErrCourierUnavailable
	}

	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CourierID != nil {
		return nil, ErrAlreadyClaimed
	}
	if err := lifecycle.Check(lifecycle.RoleCourier, o.Status, domain.StatusAceitoEntregador); err != nil {
		return nil, err
	}

	code := s.codeFn()
	claimed, err := s.orders.ClaimOrder(ctx, orderID, courierID, code)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrAlreadyClaimed
	}
	o.CourierID = &courierID
	o.Status = domain.StatusAceitoEntregador
	o.ConfirmationCode = code
	s.publish(ctx, "courier_assigned", o)
	return o, nil
}

// AdvanceCourierStatus walks one step of the delivery leg. The courier states
// which status it expects; a mismatch means the view is stale and the write
// does not happen.
func (s *OrderService) AdvanceCourierStatus(ctx context.Context, orderID, courierID int64, expected, next domain.OrderStatus) (*domain.Order, error) {
	succ, ok := lifecycle.CourierSuccessor(expected)
	if !ok || succ != next {
		return nil, &lifecycle.IllegalTransitionError{From: expected, To: next, Role: lifecycle.RoleCourier}
	}
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CourierID == nil || *o.CourierID != courierID {
		return nil, ErrNotOrderOwner
	}
	if o.Status != expected {
		return nil, ErrStaleState
	}
	ok, err = s.orders.UpdateStatus(ctx, orderID, expected, next)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleState
	}
	o.Status = next
	s.publish(ctx, "status_changed", o)
	return o, nil
}

// ConfirmDelivery finishes the hand-off. The courier types the code the
// client recites; a wrong code never writes and may be retried.
func (s *OrderService) ConfirmDelivery(ctx context.Context, orderID, courierID int64, code string) (*domain.Order, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.CourierID == nil || *o.CourierID != courierID {
		return nil, ErrNotOrderOwner
	}
	if err := lifecycle.Check(lifecycle.RoleCourier, o.Status, domain.StatusEntregue); err != nil {
		return nil, err
	}
	if code == "" || code != o.ConfirmationCode {
		return nil, ErrInvalidConfirmationCode
	}
	ok, err := s.orders.UpdateStatus(ctx, orderID, domain.StatusChegouCliente, domain.StatusEntregue)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleState
	}
	o.Status = domain.StatusEntregue
	s.publish(ctx, "delivered", o)
	return o, nil
}

// CancelOrder cancels a non-terminal order. Clients, restaurants and couriers
// may only cancel orders they are bound to; system may cancel any order.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int64, role lifecycle.Role, actorID int64) (*domain.Order, error) {
	o, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Check(role, o.Status, domain.StatusCancelado); err != nil {
		return nil, err
	}
	if !s.ownsOrder(o, role, actorID) {
		return nil, ErrNotOrderOwner
	}
	ok, err := s.orders.UpdateStatus(ctx, orderID, o.Status, domain.StatusCancelado)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStaleState
	}
	o.Status = domain.StatusCancelado
	s.publish(ctx, "cancelled", o)
	return o, nil
}

func (s *OrderService) SetCourierAvailability(ctx context.Context, courierID int64, online bool, lat, lng *float64) error {
	if courierID <= 0 {
		return ErrInvalidInput
	}
	return s.presence.SetAvailability(ctx, courierID, online, lat, lng)
}

func (s *OrderService) ownsOrder(o *domain.Order, role lifecycle.Role, actorID int64) bool {
	switch role {
	case lifecycle.RoleSystem:
		return true
	case lifecycle.RoleClient:
		return o.ClientID == actorID
	case lifecycle.RoleRestaurant:
		return o.RestaurantID == actorID
	case lifecycle.RoleCourier:
		return o.CourierID != nil && *o.CourierID == actorID
	}
	return false
}

// publish emits the order event fire-and-forget; a broker outage must not
// fail the mutation that already happened.
func (s *OrderService) publish(ctx context.Context, eventType string, o *domain.Order) {
	if s.events == nil {
		return
	}
	ev := domain.OrderEvent{
		Type:         eventType,
		OrderID:      o.ID,
		RestaurantID: o.RestaurantID,
		CourierID:    o.CourierID,
		Status:       o.Status,
		Timestamp:    time.Now(),
	}
	if err := s.events.PublishOrderEvent(ctx, ev); err != nil {
		log.Printf("failed to publish %s event for order %d: %v", eventType, o.ID, err)
	}
}
