// Package lifecycle holds the order status state machine: the legal status
// vocabulary and the transition set each actor role may trigger.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleRestaurant Role = "restaurant"
	RoleCourier    Role = "courier"
	RoleSystem     Role = "system"
)

var ErrIllegalTransition = errors.New("illegal status transition")

// IllegalTransitionError carries the rejected edge so callers can branch with
// errors.Is(err, ErrIllegalTransition) while handlers still log the details.
type IllegalTransitionError struct {
	From domain.OrderStatus
	To   domain.OrderStatus
	Role Role
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition %s -> %s for role %s", e.From, e.To, e.Role)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// Transition is a single allowed edge in the state machine.
type Transition struct {
	From domain.OrderStatus
	To   domain.OrderStatus
	Role Role
}

var transitions = []Transition{
	// restaurant preparation flow
	{From: domain.StatusPendente, To: domain.StatusConfirmado, Role: RoleRestaurant},
	{From: domain.StatusConfirmado, To: domain.StatusPreparando, Role: RoleRestaurant},
	{From: domain.StatusPreparando, To: domain.StatusPronto, Role: RoleRestaurant},

	// courier claim (binds the courier reference, see gateway)
	{From: domain.StatusConfirmado, To: domain.StatusAceitoEntregador, Role: RoleCourier},
	{From: domain.StatusPronto, To: domain.StatusAceitoEntregador, Role: RoleCourier},

	// courier delivery leg, strictly sequential
	{From: domain.StatusAceitoEntregador, To: domain.StatusCaminhoRestaurante, Role: RoleCourier},
	{From: domain.StatusCaminhoRestaurante, To: domain.StatusChegouRestaurante, Role: RoleCourier},
	{From: domain.StatusChegouRestaurante, To: domain.StatusPedidoRetirado, Role: RoleCourier},
	{From: domain.StatusPedidoRetirado, To: domain.StatusCaminhoCliente, Role: RoleCourier},
	{From: domain.StatusCaminhoCliente, To: domain.StatusChegouCliente, Role: RoleCourier},

	// hand-off, requires the confirmation code (checked by the gateway)
	{From: domain.StatusChegouCliente, To: domain.StatusEntregue, Role: RoleCourier},
}

// courierLeg is the ordered walk the courier performs after claiming.
var courierLeg = []domain.OrderStatus{
	domain.StatusAceitoEntregador,
	domain.StatusCaminhoRestaurante,
	domain.StatusChegouRestaurante,
	domain.StatusPedidoRetirado,
	domain.StatusCaminhoCliente,
	domain.StatusChegouCliente,
}

func IsTerminal(s domain.OrderStatus) bool {
	return s == domain.StatusEntregue || s == domain.StatusCancelado
}

// Claimable reports whether a courier may claim an order in this status.
func Claimable(s domain.OrderStatus) bool {
	return s == domain.StatusPronto || s == domain.StatusConfirmado
}

// CourierSuccessor returns the next status in the delivery leg, false when the
// status is not part of the leg or is its last step.
func CourierSuccessor(s domain.OrderStatus) (domain.OrderStatus, bool) {
	for i, st := range courierLeg {
		if st == s && i+1 < len(courierLeg) {
			return courierLeg[i+1], true
		}
	}
	return "", false
}

// Check validates a transition before any write happens. Cancellation is
// allowed for every role from any non-terminal status; ownership is the
// gateway's concern, not the machine's.
func Check(role Role, from, to domain.OrderStatus) error {
	if to == domain.StatusCancelado {
		if IsTerminal(from) {
			return &IllegalTransitionError{From: from, To: to, Role: role}
		}
		return nil
	}
	for _, tr := range transitions {
		if tr.From == from && tr.To == to && tr.Role == role {
			return nil
		}
	}
	return &IllegalTransitionError{From: from, To: to, Role: role}
}
