// internal/models/rfq.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/banadama/banadama-backend/internal/apperrors"
)

// Request is a buyer-submitted sourcing inquiry (RFQ). Ops assigns a
// supplier and generates a quote; the buyer then accepts or rejects it.
type Request struct {
	BaseModel
	BuyerID    uuid.UUID  `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SupplierID *uuid.UUID `json:"supplier_id,omitempty" gorm:"type:uuid;index"`

	ProductName     string      `json:"product_name" gorm:"size:255;not null"`
	Description     string      `json:"description" gorm:"type:text"`
	Category        string      `json:"category" gorm:"size:50;index"`
	Quantity        int         `json:"quantity" gorm:"not null"`
	TargetPrice     *int64      `json:"target_price,omitempty"`
	DeliveryAddress string      `json:"delivery_address" gorm:"type:text;not null"`
	DeliveryCountry string      `json:"delivery_country" gorm:"size:2"`
	ServiceTier     ServiceTier `json:"service_tier" gorm:"type:varchar(20);default:'standard'"`

	Status RequestStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	// Quote fields, populated on PENDING -> QUOTED.
	UnitPrice      *int64     `json:"unit_price,omitempty"`
	Quote          JSONB      `json:"quote,omitempty" gorm:"type:jsonb"`
	EstimatedTotal *int64     `json:"estimated_total,omitempty"`
	QuoteNotes     string     `json:"quote_notes,omitempty" gorm:"type:text"`
	QuotedBy       *uuid.UUID `json:"quoted_by,omitempty" gorm:"type:uuid"`
	QuotedAt       *time.Time `json:"quoted_at,omitempty"`

	RejectionReason string     `json:"rejection_reason,omitempty" gorm:"type:text"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`

	// Relationships
	Buyer    User  `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Supplier *User `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

// EnsureAssignable guards supplier assignment: only pending requests take one.
func (r *Request) EnsureAssignable() error {
	if r.Status != RequestStatusPending {
		return apperrors.InvalidState("supplier can only be assigned while the RFQ is pending, current status is %s", r.Status)
	}
	return nil
}

// EnsureQuotable guards quote generation: a supplier must already be
// assigned, and the request must still be pending.
func (r *Request) EnsureQuotable() error {
	if r.SupplierID == nil {
		return apperrors.Precondition("a supplier must be assigned before a quote can be generated")
	}
	if r.Status != RequestStatusPending {
		return apperrors.InvalidState("RFQ must be in pending status to quote, current status is %s", r.Status)
	}
	return nil
}

// EnsureAcceptableBy guards the buyer accept/reject actions on a quote.
func (r *Request) EnsureAcceptableBy(userID uuid.UUID) error {
	if r.BuyerID != userID {
		return apperrors.Forbidden("only the RFQ's buyer may act on its quote")
	}
	if r.Status != RequestStatusQuoted {
		return apperrors.InvalidState("RFQ must be in quoted status to accept, current status is %s", r.Status)
	}
	return nil
}

// EnsureCancellableBy guards the buyer cancel action, valid only pre-quote.
func (r *Request) EnsureCancellableBy(userID uuid.UUID) error {
	if r.BuyerID != userID {
		return apperrors.Forbidden("only the RFQ's buyer may cancel it")
	}
	if r.Status != RequestStatusPending {
		return apperrors.InvalidState("RFQ can only be cancelled while pending, current status is %s", r.Status)
	}
	return nil
}
