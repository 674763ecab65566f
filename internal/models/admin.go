// internal/models/admin.go
package models

import (
	"github.com/google/uuid"
)

// AdminAuditLog records every administrative mutation with before/after
// snapshots. Append-only; never updated or deleted.
type AdminAuditLog struct {
	BaseModel
	ActorID    *uuid.UUID `json:"actor_id" gorm:"type:uuid;index"`
	Action     string     `json:"action" gorm:"size:100;not null;index"`
	TargetType string     `json:"target_type" gorm:"size:50;not null;index"`
	TargetID   *uuid.UUID `json:"target_id" gorm:"type:uuid;index"`
	Before     JSONB      `json:"before" gorm:"type:jsonb"`
	After      JSONB      `json:"after" gorm:"type:jsonb"`
	Metadata   JSONB      `json:"metadata" gorm:"type:jsonb"`
	IPAddress  string     `json:"ip_address" gorm:"size:45"`
	UserAgent  string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	Actor *User `json:"actor,omitempty" gorm:"foreignKey:ActorID"`
}

// PricingRule overrides the default fulfillment fee for a scope. The highest
// Priority active rule wins; ties break to the most recently created.
type PricingRule struct {
	BaseModel
	Scope          PricingScope `json:"scope" gorm:"type:varchar(20);not null;index"`
	Category       string       `json:"category,omitempty" gorm:"size:50;index"`
	Country        string       `json:"country,omitempty" gorm:"size:2;index"`
	FeeBps         int          `json:"fee_bps" gorm:"not null"`
	PlatformFeeBps int          `json:"platform_fee_bps" gorm:"default:0"`
	Priority       int          `json:"priority" gorm:"default:0;index"`
	Active         bool         `json:"active" gorm:"default:true;index"`
	Description    string       `json:"description,omitempty" gorm:"type:text"`
	CreatedBy      *uuid.UUID   `json:"created_by,omitempty" gorm:"type:uuid"`
}

// Matches reports whether the rule applies to the given order scope.
func (r *PricingRule) Matches(category, country string) bool {
	if !r.Active {
		return false
	}
	switch r.Scope {
	case PricingScopeGlobal:
		return true
	case PricingScopeCategory:
		return r.Category != "" && r.Category == category
	case PricingScopeCountry:
		return r.Country != "" && r.Country == country
	}
	return false
}

// FeatureFlag gates functionality platform-wide.
type FeatureFlag struct {
	BaseModel
	Key         string     `json:"key" gorm:"size:100;not null;uniqueIndex"`
	Enabled     bool       `json:"enabled" gorm:"default:false"`
	Description string     `json:"description,omitempty" gorm:"type:text"`
	UpdatedBy   *uuid.UUID `json:"updated_by,omitempty" gorm:"type:uuid"`
}

// AccountControlAction is the closed set of admin account mutations.
type AccountControlAction string

const (
	AccountActionFreeze             AccountControlAction = "freeze"
	AccountActionUnfreeze           AccountControlAction = "unfreeze"
	AccountActionLimitOrders        AccountControlAction = "limit_orders"
	AccountActionRestoreOrders      AccountControlAction = "restore_orders"
	AccountActionLimitWithdrawals   AccountControlAction = "limit_withdrawals"
	AccountActionRestoreWithdrawals AccountControlAction = "restore_withdrawals"
)

// ValidAccountControlAction reports membership in the closed action set.
func ValidAccountControlAction(a AccountControlAction) bool {
	switch a {
	case AccountActionFreeze, AccountActionUnfreeze,
		AccountActionLimitOrders, AccountActionRestoreOrders,
		AccountActionLimitWithdrawals, AccountActionRestoreWithdrawals:
		return true
	}
	return false
}

// ProductModerationAction is the closed set of admin product mutations.
type ProductModerationAction string

const (
	ProductActionApprove ProductModerationAction = "approve"
	ProductActionReject  ProductModerationAction = "reject"
	ProductActionHide    ProductModerationAction = "hide"
	ProductActionFlag    ProductModerationAction = "flag"
)

func ValidProductModerationAction(a ProductModerationAction) bool {
	switch a {
	case ProductActionApprove, ProductActionReject, ProductActionHide, ProductActionFlag:
		return true
	}
	return false
}
