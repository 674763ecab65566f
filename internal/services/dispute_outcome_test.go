// internal/services/dispute_outcome_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banadama/banadama-backend/internal/apperrors"
	"github.com/banadama/banadama-backend/internal/models"
)

func TestOutcomeRefundBuyer(t *testing.T) {
	out, err := outcomeFor(models.ResolutionRefundBuyer, 1000, 0)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, out.orderStatus)
	assert.Equal(t, int64(1000), out.refundAmount)
	assert.Equal(t, int64(0), out.releaseAmount)
}

func TestOutcomeCancelOrderMatchesFullRefund(t *testing.T) {
	out, err := outcomeFor(models.ResolutionCancelOrder, 750, 0)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, out.orderStatus)
	assert.Equal(t, int64(750), out.refundAmount)
}

func TestOutcomeReleasePayout(t *testing.T) {
	out, err := outcomeFor(models.ResolutionReleasePayout, 1000, 0)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusConfirmed, out.orderStatus)
	assert.Equal(t, int64(1000), out.releaseAmount)
	assert.Equal(t, int64(0), out.refundAmount)
}

func TestOutcomePartialRefundSplitsRemainder(t *testing.T) {
	// Buyer gets X back, supplier gets the remainder.
	out, err := outcomeFor(models.ResolutionPartialRefund, 1000, 300)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusConfirmed, out.orderStatus)
	assert.Equal(t, int64(300), out.refundAmount)
	assert.Equal(t, int64(700), out.releaseAmount)
	assert.Equal(t, int64(1000), out.refundAmount+out.releaseAmount)
}

func TestOutcomePartialRefundOfEverything(t *testing.T) {
	out, err := outcomeFor(models.ResolutionPartialRefund, 500, 500)
	require.NoError(t, err)

	assert.Equal(t, int64(500), out.refundAmount)
	assert.Equal(t, int64(0), out.releaseAmount)
}

func TestOutcomePartialRefundRequiresPositiveAmount(t *testing.T) {
	for _, amount := range []int64{0, -50} {
		_, err := outcomeFor(models.ResolutionPartialRefund, 1000, amount)
		require.Error(t, err, "amount %d", amount)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	}
}

func TestOutcomePartialRefundCappedAtRemainder(t *testing.T) {
	_, err := outcomeFor(models.ResolutionPartialRefund, 1000, 1001)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestOutcomeRedeliverMovesNoMoney(t *testing.T) {
	out, err := outcomeFor(models.ResolutionRedeliver, 1000, 0)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusInProduction, out.orderStatus)
	assert.Equal(t, int64(0), out.refundAmount)
	assert.Equal(t, int64(0), out.releaseAmount)
}

func TestOutcomeUnknownResolution(t *testing.T) {
	_, err := outcomeFor(models.DisputeResolution("store_credit"), 1000, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestValidResolutionClosedSet(t *testing.T) {
	for _, r := range []models.DisputeResolution{
		models.ResolutionRefundBuyer, models.ResolutionPartialRefund,
		models.ResolutionRedeliver, models.ResolutionReleasePayout,
		models.ResolutionCancelOrder,
	} {
		assert.True(t, models.ValidResolution(r))
	}
	assert.False(t, models.ValidResolution("escalate"))
	assert.False(t, models.ValidResolution(""))
}
