package lifecycle

import (
	"errors"
	"testing"

	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []domain.OrderStatus{
	domain.StatusPendente,
	domain.StatusConfirmado,
	domain.StatusPreparando,
	domain.StatusPronto,
	domain.StatusAceitoEntregador,
	domain.StatusCaminhoRestaurante,
	domain.StatusChegouRestaurante,
	domain.StatusPedidoRetirado,
	domain.StatusCaminhoCliente,
	domain.StatusChegouCliente,
	domain.StatusEntregue,
	domain.StatusCancelado,
}

func TestCheck_RestaurantFlow(t *testing.T) {
	assert.NoError(t, Check(RoleRestaurant, domain.StatusPendente, domain.StatusConfirmado))
	assert.NoError(t, Check(RoleRestaurant, domain.StatusConfirmado, domain.StatusPreparando))
	assert.NoError(t, Check(RoleRestaurant, domain.StatusPreparando, domain.StatusPronto))

	// skipping a step is rejected
	err := Check(RoleRestaurant, domain.StatusPendente, domain.StatusPreparando)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	// restaurant cannot walk the courier leg
	err = Check(RoleRestaurant, domain.StatusAceitoEntregador, domain.StatusCaminhoRestaurante)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCheck_CourierLegIsStrictlySequential(t *testing.T) {
	leg := []domain.OrderStatus{
		domain.StatusAceitoEntregador,
		domain.StatusCaminhoRestaurante,
		domain.StatusChegouRestaurante,
		domain.StatusPedidoRetirado,
		domain.StatusCaminhoCliente,
		domain.StatusChegouCliente,
	}
	for i := 0; i+1 < len(leg); i++ {
		assert.NoError(t, Check(RoleCourier, leg[i], leg[i+1]), "step %s -> %s", leg[i], leg[i+1])
	}
	// no skipping
	for i := 0; i+2 < len(leg); i++ {
		err := Check(RoleCourier, leg[i], leg[i+2])
		assert.ErrorIs(t, err, ErrIllegalTransition, "skip %s -> %s", leg[i], leg[i+2])
	}
	// no walking backwards
	err := Check(RoleCourier, domain.StatusChegouRestaurante, domain.StatusCaminhoRestaurante)
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCheck_CancellationFromAnyNonTerminal(t *testing.T) {
	for _, s := range allStatuses {
		err := Check(RoleSystem, s, domain.StatusCancelado)
		if IsTerminal(s) {
			assert.ErrorIs(t, err, ErrIllegalTransition, "cancel from %s", s)
		} else {
			assert.NoError(t, err, "cancel from %s", s)
		}
	}
}

func TestCheck_TerminalStatesAreImmutable(t *testing.T) {
	for _, from := range []domain.OrderStatus{domain.StatusEntregue, domain.StatusCancelado} {
		for _, to := range allStatuses {
			if from == to {
				continue
			}
			for _, role := range []Role{RoleClient, RoleRestaurant, RoleCourier, RoleSystem} {
				assert.ErrorIs(t, Check(role, from, to), ErrIllegalTransition,
					"%s: %s -> %s", role, from, to)
			}
		}
	}
}

func TestCheck_OnlyDefinedEdgesAllowed(t *testing.T) {
	allowed := map[[3]string]bool{}
	for _, tr := range transitions {
		allowed[[3]string{string(tr.Role), string(tr.From), string(tr.To)}] = true
	}
	for _, role := range []Role{RoleClient, RoleRestaurant, RoleCourier, RoleSystem} {
		for _, from := range allStatuses {
			for _, to := range allStatuses {
				err := Check(role, from, to)
				switch {
				case to == domain.StatusCancelado && !IsTerminal(from):
					assert.NoError(t, err)
				case allowed[[3]string{string(role), string(from), string(to)}]:
					assert.NoError(t, err)
				default:
					assert.ErrorIs(t, err, ErrIllegalTransition, "%s: %s -> %s", role, from, to)
				}
			}
		}
	}
}

func TestCourierSuccessor(t *testing.T) {
	next, ok := CourierSuccessor(domain.StatusAceitoEntregador)
	assert.True(t, ok)
	assert.Equal(t, domain.StatusCaminhoRestaurante, next)

	// chegou_cliente ends the leg; entregue needs the confirmation code path
	_, ok = CourierSuccessor(domain.StatusChegouCliente)
	assert.False(t, ok)

	_, ok = CourierSuccessor(domain.StatusPendente)
	assert.False(t, ok)
}

func TestIllegalTransitionError_Details(t *testing.T) {
	err := Check(RoleCourier, domain.StatusPendente, domain.StatusEntregue)
	var ite *IllegalTransitionError
	assert.True(t, errors.As(err, &ite))
	assert.Equal(t, domain.StatusPendente, ite.From)
	assert.Equal(t, domain.StatusEntregue, ite.To)
	assert.Equal(t, RoleCourier, ite.Role)
}

func TestClaimable(t *testing.T) {
	assert.True(t, Claimable(domain.StatusPronto))
	assert.True(t, Claimable(domain.StatusConfirmado))
	assert.False(t, Claimable(domain.StatusPendente))
	assert.False(t, Claimable(domain.StatusEntregue))
}
