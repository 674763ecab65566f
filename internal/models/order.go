// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/banadama/banadama-backend/internal/apperrors"
)

// Order is created either directly from a Buy Now purchase or from an
// accepted RFQ quote. All amounts are in kobo.
type Order struct {
	BaseModel
	BuyerID    uuid.UUID  `json:"buyer_id" gorm:"type:uuid;not null;index"`
	SupplierID uuid.UUID  `json:"supplier_id" gorm:"type:uuid;not null;index"`
	ProductID  *uuid.UUID `json:"product_id,omitempty" gorm:"type:uuid;index"`
	RequestID  *uuid.UUID `json:"request_id,omitempty" gorm:"type:uuid;index"`

	ProductName     string      `json:"product_name" gorm:"size:255;not null"`
	Quantity        int         `json:"quantity" gorm:"not null"`
	UnitPrice       int64       `json:"unit_price" gorm:"not null"`
	TotalPrice      int64       `json:"total_price" gorm:"not null"`
	Currency        string      `json:"currency" gorm:"size:3;default:'NGN'"`
	PricingSnapshot JSONB       `json:"pricing_snapshot" gorm:"type:jsonb"`
	DeliveryAddress string      `json:"delivery_address" gorm:"type:text;not null"`
	DeliveryCountry string      `json:"delivery_country" gorm:"size:2"`
	ServiceTier     ServiceTier `json:"service_tier" gorm:"type:varchar(20);default:'standard'"`

	Status       OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	PaidAt       *time.Time  `json:"paid_at,omitempty"`
	ShippedAt    *time.Time  `json:"shipped_at,omitempty"`
	DeliveredAt  *time.Time  `json:"delivered_at,omitempty"`
	ConfirmedAt  *time.Time  `json:"confirmed_at,omitempty"`
	CancelledAt  *time.Time  `json:"cancelled_at,omitempty"`
	CancelReason string      `json:"cancel_reason,omitempty" gorm:"type:text"`

	// Relationships
	Buyer    User    `json:"buyer,omitempty" gorm:"foreignKey:BuyerID"`
	Supplier User    `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Escrow   *Escrow `json:"escrow,omitempty" gorm:"foreignKey:OrderID"`
}

// orderFlow holds the forward transitions of the order state machine.
// Cancellation is handled separately because it is only legal pre-payment.
var orderFlow = map[OrderStatus][]OrderStatus{
	OrderStatusPending:      {OrderStatusProcessing},
	OrderStatusProcessing:   {OrderStatusInProduction},
	OrderStatusInProduction: {OrderStatusReadyToShip},
	OrderStatusReadyToShip:  {OrderStatusShipped},
	OrderStatusShipped:      {OrderStatusDelivered},
	OrderStatusDelivered:    {OrderStatusConfirmed},
}

// CanTransitionTo reports whether the normal production flow permits moving
// from the current status to next.
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	for _, s := range orderFlow[o.Status] {
		if s == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether the order may still be cancelled. Only
// pre-payment orders qualify; once the escrow is locked the dispute flow is
// the only way out.
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPending
}

// ConfirmableBy reports whether userID may confirm delivery of this order in
// its current state.
func (o *Order) ConfirmableBy(userID uuid.UUID) error {
	if o.BuyerID != userID {
		return apperrors.Forbidden("only the order's buyer may confirm delivery")
	}
	if o.Status != OrderStatusShipped && o.Status != OrderStatusDelivered {
		return apperrors.InvalidState("order must be shipped or delivered to confirm, current status is %s", o.Status)
	}
	return nil
}

// Escrow is a one-to-one financial hold on an order. The invariant
// ReleasedAmount + RefundedAmount <= TotalAmount holds at every state.
type Escrow struct {
	BaseModel
	OrderID        uuid.UUID    `json:"order_id" gorm:"type:uuid;not null;uniqueIndex"`
	TotalAmount    int64        `json:"total_amount" gorm:"not null"`
	ReleasedAmount int64        `json:"released_amount" gorm:"default:0"`
	RefundedAmount int64        `json:"refunded_amount" gorm:"default:0"`
	Currency       string       `json:"currency" gorm:"size:3;default:'NGN'"`
	Status         EscrowStatus `json:"status" gorm:"type:varchar(20);default:'locked';index"`
	HeldReason     string       `json:"held_reason,omitempty" gorm:"type:text"`

	// Relationships
	Order *Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}

// Remaining is the amount neither released nor refunded yet.
func (e *Escrow) Remaining() int64 {
	return e.TotalAmount - e.ReleasedAmount - e.RefundedAmount
}

func (e *Escrow) Terminal() bool {
	return e.Status == EscrowStatusReleased || e.Status == EscrowStatusRefunded
}

func (e *Escrow) mutable() error {
	if e.Terminal() {
		return apperrors.InvalidState("escrow is already %s", e.Status)
	}
	return nil
}

// ApplyRelease moves amount to the supplier side of the ledger. A zero amount
// means a full release of the remainder.
func (e *Escrow) ApplyRelease(amount int64) error {
	if err := e.mutable(); err != nil {
		return err
	}
	if amount == 0 {
		amount = e.Remaining()
	}
	if amount < 0 || amount > e.Remaining() {
		return apperrors.Validation("release amount must be between 0 and %d", e.Remaining())
	}
	e.ReleasedAmount += amount
	if e.Remaining() == 0 && e.RefundedAmount == 0 {
		e.Status = EscrowStatusReleased
	} else {
		e.Status = EscrowStatusPartialRelease
	}
	return nil
}

// ApplyRefund moves amount back to the buyer side of the ledger. A zero
// amount means a full refund of the remainder.
func (e *Escrow) ApplyRefund(amount int64) error {
	if err := e.mutable(); err != nil {
		return err
	}
	if amount == 0 {
		amount = e.Remaining()
	}
	if amount < 0 || amount > e.Remaining() {
		return apperrors.Validation("refund amount must be between 0 and %d", e.Remaining())
	}
	e.RefundedAmount += amount
	if e.Remaining() == 0 {
		e.Status = EscrowStatusRefunded
	}
	return nil
}

// Hold freezes the escrow while a dispute is pending.
func (e *Escrow) Hold(reason string) error {
	if err := e.mutable(); err != nil {
		return err
	}
	e.Status = EscrowStatusDisputed
	e.HeldReason = reason
	return nil
}

// Snapshot returns the audit before/after view of the escrow ledger.
func (e *Escrow) Snapshot() JSONB {
	return JSONB{
		"status":          e.Status,
		"total_amount":    e.TotalAmount,
		"released_amount": e.ReleasedAmount,
		"refunded_amount": e.RefundedAmount,
	}
}
