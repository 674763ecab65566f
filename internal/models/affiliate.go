// internal/models/affiliate.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// AffiliateSale accrues commission for a referred order. It matures from
// pending to delivered (commission unlocked) when the referred order's
// delivery is confirmed.
type AffiliateSale struct {
	BaseModel
	AffiliateID       uuid.UUID        `json:"affiliate_id" gorm:"type:uuid;not null;index"`
	OrderID           uuid.UUID        `json:"order_id" gorm:"type:uuid;not null;uniqueIndex"`
	BuyerID           uuid.UUID        `json:"buyer_id" gorm:"type:uuid;not null"`
	OrderTotal        int64            `json:"order_total" gorm:"not null"`
	CommissionRateBps int              `json:"commission_rate_bps" gorm:"not null"`
	CommissionAmount  int64            `json:"commission_amount" gorm:"not null"`
	Currency          string           `json:"currency" gorm:"size:3;default:'NGN'"`
	Status            CommissionStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	UnlockedAt        *time.Time       `json:"unlocked_at,omitempty"`

	// Relationships
	Affiliate User  `json:"affiliate,omitempty" gorm:"foreignKey:AffiliateID"`
	Order     Order `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}

// AffiliatePayout is a finance-gated request to pay out accrued commission.
type AffiliatePayout struct {
	BaseModel
	AffiliateID uuid.UUID    `json:"affiliate_id" gorm:"type:uuid;not null;index"`
	Amount      int64        `json:"amount" gorm:"not null"`
	Currency    string       `json:"currency" gorm:"size:3;default:'NGN'"`
	Status      PayoutStatus `json:"status" gorm:"type:varchar(20);default:'requested';index"`
	ApprovedBy  *uuid.UUID   `json:"approved_by,omitempty" gorm:"type:uuid"`
	ApprovedAt  *time.Time   `json:"approved_at,omitempty"`
	PaidAt      *time.Time   `json:"paid_at,omitempty"`
	Notes       string       `json:"notes,omitempty" gorm:"type:text"`
}
