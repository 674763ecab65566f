// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	RoleBuyer     UserRole = "buyer"
	RoleSupplier  UserRole = "supplier"
	RoleCreator   UserRole = "creator"
	RoleAffiliate UserRole = "affiliate"
	RoleAgent     UserRole = "agent"
	RoleOps       UserRole = "ops"
	RoleAdmin     UserRole = "admin"
)

// AdminScope narrows what an admin account may do. Escrow release, refund
// and hold are restricted to the finance scope.
type AdminScope string

const (
	AdminScopeGeneral AdminScope = "general"
	AdminScopeFinance AdminScope = "finance"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusFrozen    UserStatus = "frozen"
	UserStatusSuspended UserStatus = "suspended"
)

type ServiceTier string

const (
	ServiceTierStandard ServiceTier = "standard"
	ServiceTierExpress  ServiceTier = "express"
	ServiceTierPremium  ServiceTier = "premium"
)

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusQuoted   RequestStatus = "quoted"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type OrderStatus string

const (
	OrderStatusPending      OrderStatus = "pending"
	OrderStatusProcessing   OrderStatus = "processing"
	OrderStatusInProduction OrderStatus = "in_production"
	OrderStatusReadyToShip  OrderStatus = "ready_to_ship"
	OrderStatusShipped      OrderStatus = "shipped"
	OrderStatusDelivered    OrderStatus = "delivered"
	OrderStatusConfirmed    OrderStatus = "confirmed"
	OrderStatusCancelled    OrderStatus = "cancelled"
)

type EscrowStatus string

const (
	EscrowStatusLocked         EscrowStatus = "locked"
	EscrowStatusPartialRelease EscrowStatus = "partial_release"
	EscrowStatusReleased       EscrowStatus = "released"
	EscrowStatusRefunded       EscrowStatus = "refunded"
	EscrowStatusDisputed       EscrowStatus = "disputed"
)

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "open"
	DisputeStatusInReview DisputeStatus = "in_review"
	DisputeStatusResolved DisputeStatus = "resolved"
	DisputeStatusClosed   DisputeStatus = "closed"
)

type DisputeResolution string

const (
	ResolutionRefundBuyer   DisputeResolution = "refund_buyer"
	ResolutionPartialRefund DisputeResolution = "partial_refund"
	ResolutionRedeliver     DisputeResolution = "redeliver"
	ResolutionReleasePayout DisputeResolution = "release_payout"
	ResolutionCancelOrder   DisputeResolution = "cancel_order"
)

// ValidResolution reports whether r belongs to the closed set of dispute
// resolutions. Unknown values never reach a mutation.
func ValidResolution(r DisputeResolution) bool {
	switch r {
	case ResolutionRefundBuyer, ResolutionPartialRefund, ResolutionRedeliver,
		ResolutionReleasePayout, ResolutionCancelOrder:
		return true
	}
	return false
}

type DisputeEventType string

const (
	DisputeEventStatusChanged DisputeEventType = "status_changed"
	DisputeEventNoteAdded     DisputeEventType = "note_added"
	DisputeEventEvidenceAdded DisputeEventType = "evidence_added"
	DisputeEventResolved      DisputeEventType = "resolved"
)

type WalletStatus string

const (
	WalletStatusActive WalletStatus = "active"
	WalletStatusFrozen WalletStatus = "frozen"
)

type WalletTxType string

const (
	WalletTxEscrowLock    WalletTxType = "escrow_lock"
	WalletTxEscrowRelease WalletTxType = "escrow_release"
	WalletTxEscrowRefund  WalletTxType = "escrow_refund"
	WalletTxWithdrawal    WalletTxType = "withdrawal"
	WalletTxCommission    WalletTxType = "affiliate_commission"
)

type WalletTxStatus string

const (
	WalletTxStatusPending   WalletTxStatus = "pending"
	WalletTxStatusCompleted WalletTxStatus = "completed"
	WalletTxStatusFailed    WalletTxStatus = "failed"
)

type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "pending"
	CommissionStatusDelivered CommissionStatus = "delivered"
	CommissionStatusPaid      CommissionStatus = "paid"
)

type PayoutStatus string

const (
	PayoutStatusRequested PayoutStatus = "requested"
	PayoutStatusApproved  PayoutStatus = "approved"
	PayoutStatusPaid      PayoutStatus = "paid"
	PayoutStatusRejected  PayoutStatus = "rejected"
)

type ProductStatus string

const (
	ProductStatusPendingReview ProductStatus = "pending_review"
	ProductStatusActive        ProductStatus = "active"
	ProductStatusRejected      ProductStatus = "rejected"
	ProductStatusHidden        ProductStatus = "hidden"
	ProductStatusFlagged       ProductStatus = "flagged"
)

type PricingScope string

const (
	PricingScopeGlobal   PricingScope = "global"
	PricingScopeCategory PricingScope = "category"
	PricingScopeCountry  PricingScope = "country"
)
