// internal/models/order_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banadama/banadama-backend/internal/apperrors"
)

func TestOrderTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusInProduction, true},
		{OrderStatusInProduction, OrderStatusReadyToShip, true},
		{OrderStatusReadyToShip, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusDelivered, OrderStatusConfirmed, true},

		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusInProduction, false},
		{OrderStatusConfirmed, OrderStatusDelivered, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
	}

	for _, tc := range cases {
		o := &Order{Status: tc.from}
		assert.Equal(t, tc.allowed, o.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestOrderCancellableOnlyBeforePayment(t *testing.T) {
	assert.True(t, (&Order{Status: OrderStatusPending}).Cancellable())

	for _, status := range []OrderStatus{
		OrderStatusProcessing, OrderStatusInProduction, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusConfirmed, OrderStatusCancelled,
	} {
		assert.False(t, (&Order{Status: status}).Cancellable(), "status %s", status)
	}
}

func TestOrderConfirmableBy(t *testing.T) {
	buyer := uuid.New()
	stranger := uuid.New()

	o := &Order{BuyerID: buyer, Status: OrderStatusShipped}
	assert.NoError(t, o.ConfirmableBy(buyer))

	err := o.ConfirmableBy(stranger)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	o.Status = OrderStatusProcessing
	err = o.ConfirmableBy(buyer)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestEscrowFullRelease(t *testing.T) {
	e := &Escrow{TotalAmount: 1052, Status: EscrowStatusLocked}

	require.NoError(t, e.ApplyRelease(0))
	assert.Equal(t, int64(1052), e.ReleasedAmount)
	assert.Equal(t, int64(0), e.Remaining())
	assert.Equal(t, EscrowStatusReleased, e.Status)
}

func TestEscrowPartialThenFullRelease(t *testing.T) {
	e := &Escrow{TotalAmount: 1000, Status: EscrowStatusLocked}

	require.NoError(t, e.ApplyRelease(400))
	assert.Equal(t, EscrowStatusPartialRelease, e.Status)
	assert.Equal(t, int64(600), e.Remaining())

	require.NoError(t, e.ApplyRelease(0))
	assert.Equal(t, EscrowStatusReleased, e.Status)
	assert.Equal(t, int64(0), e.Remaining())
}

func TestEscrowRefund(t *testing.T) {
	e := &Escrow{TotalAmount: 1000, Status: EscrowStatusLocked}

	require.NoError(t, e.ApplyRefund(0))
	assert.Equal(t, int64(1000), e.RefundedAmount)
	assert.Equal(t, EscrowStatusRefunded, e.Status)
}

func TestEscrowMixedRefundAndRelease(t *testing.T) {
	e := &Escrow{TotalAmount: 1000, Status: EscrowStatusDisputed}

	require.NoError(t, e.ApplyRefund(300))
	require.NoError(t, e.ApplyRelease(700))

	assert.Equal(t, int64(0), e.Remaining())
	// A ledger that moved both ways never reads as a clean full release.
	assert.Equal(t, EscrowStatusPartialRelease, e.Status)
}

func TestEscrowInvariantNeverExceeded(t *testing.T) {
	e := &Escrow{TotalAmount: 1000, Status: EscrowStatusLocked}
	require.NoError(t, e.ApplyRelease(800))

	err := e.ApplyRelease(300)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	err = e.ApplyRefund(201)
	require.Error(t, err)

	require.NoError(t, e.ApplyRefund(200))
	assert.LessOrEqual(t, e.ReleasedAmount+e.RefundedAmount, e.TotalAmount)
}

func TestEscrowTerminalStatesAreImmutable(t *testing.T) {
	released := &Escrow{TotalAmount: 100, ReleasedAmount: 100, Status: EscrowStatusReleased}
	err := released.ApplyRefund(50)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	refunded := &Escrow{TotalAmount: 100, RefundedAmount: 100, Status: EscrowStatusRefunded}
	err = refunded.ApplyRelease(0)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	err = refunded.Hold("late hold")
	require.Error(t, err)
}

func TestEscrowHold(t *testing.T) {
	e := &Escrow{TotalAmount: 500, Status: EscrowStatusLocked}
	require.NoError(t, e.Hold("quality complaint"))
	assert.Equal(t, EscrowStatusDisputed, e.Status)
	assert.Equal(t, "quality complaint", e.HeldReason)
}

func TestEscrowNegativeAmountRejected(t *testing.T) {
	e := &Escrow{TotalAmount: 500, Status: EscrowStatusLocked}
	require.Error(t, e.ApplyRelease(-1))
	require.Error(t, e.ApplyRefund(-1))
}
