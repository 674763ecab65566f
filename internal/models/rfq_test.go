// internal/models/rfq_test.go
package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banadama/banadama-backend/internal/apperrors"
)

func TestRequestQuoteRequiresSupplier(t *testing.T) {
	r := &Request{Status: RequestStatusPending}

	err := r.EnsureQuotable()
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindPrecondition))

	supplierID := uuid.New()
	r.SupplierID = &supplierID
	assert.NoError(t, r.EnsureQuotable())
}

func TestRequestQuotableOnlyWhilePending(t *testing.T) {
	supplierID := uuid.New()
	r := &Request{Status: RequestStatusQuoted, SupplierID: &supplierID}

	err := r.EnsureQuotable()
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestRequestAcceptGuards(t *testing.T) {
	buyer := uuid.New()
	stranger := uuid.New()
	r := &Request{BuyerID: buyer, Status: RequestStatusQuoted}

	assert.NoError(t, r.EnsureAcceptableBy(buyer))

	err := r.EnsureAcceptableBy(stranger)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	r.Status = RequestStatusPending
	err = r.EnsureAcceptableBy(buyer)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))

	r.Status = RequestStatusApproved
	require.Error(t, r.EnsureAcceptableBy(buyer))
}

func TestRequestCancelOnlyPreQuote(t *testing.T) {
	buyer := uuid.New()
	r := &Request{BuyerID: buyer, Status: RequestStatusPending}
	assert.NoError(t, r.EnsureCancellableBy(buyer))

	r.Status = RequestStatusQuoted
	err := r.EnsureCancellableBy(buyer)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidState))
}

func TestRequestAssignableOnlyPending(t *testing.T) {
	r := &Request{Status: RequestStatusPending}
	assert.NoError(t, r.EnsureAssignable())

	for _, status := range []RequestStatus{RequestStatusQuoted, RequestStatusApproved, RequestStatusRejected} {
		r.Status = status
		require.Error(t, r.EnsureAssignable(), "status %s", status)
	}
}
