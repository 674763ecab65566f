// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	Role         UserRole   `json:"role" gorm:"type:varchar(20);not null;index"`
	AdminScope   AdminScope `json:"admin_scope,omitempty" gorm:"type:varchar(20);default:'general'"`
	Country      string     `json:"country" gorm:"size:2"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	ProfileData  JSONB      `json:"profile_data" gorm:"type:jsonb"`

	// Capability flags, forced off as a set when the account is frozen.
	CanCreateOrders bool `json:"can_create_orders" gorm:"default:true"`
	CanRespondToRfq bool `json:"can_respond_to_rfq" gorm:"default:true"`
	CanWithdraw     bool `json:"can_withdraw" gorm:"default:true"`
	CanListProducts bool `json:"can_list_products" gorm:"default:true"`

	FrozenAt     *time.Time `json:"frozen_at,omitempty"`
	FrozenReason string     `json:"frozen_reason,omitempty" gorm:"type:text"`

	ReferralCode string     `json:"referral_code,omitempty" gorm:"size:16;uniqueIndex"`
	ReferredBy   *uuid.UUID `json:"referred_by,omitempty" gorm:"type:uuid;index"`

	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`

	// Relationships
	Wallet   *Wallet   `json:"wallet,omitempty" gorm:"foreignKey:UserID"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:SupplierID"`
	Requests []Request `json:"requests,omitempty" gorm:"foreignKey:BuyerID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// CapabilityFlags returns the four capability flags as a snapshot map, used
// for audit before/after records.
func (u *User) CapabilityFlags() JSONB {
	return JSONB{
		"status":             u.Status,
		"can_create_orders":  u.CanCreateOrders,
		"can_respond_to_rfq": u.CanRespondToRfq,
		"can_withdraw":       u.CanWithdraw,
		"can_list_products":  u.CanListProducts,
	}
}

// Freeze disables every capability flag together with the status change.
// The flags and the freeze metadata always move as one unit.
func (u *User) Freeze(reason string, at time.Time) {
	u.Status = UserStatusFrozen
	u.CanCreateOrders = false
	u.CanRespondToRfq = false
	u.CanWithdraw = false
	u.CanListProducts = false
	u.FrozenAt = &at
	u.FrozenReason = reason
}

// Unfreeze restores all four capability flags and clears freeze metadata.
func (u *User) Unfreeze() {
	u.Status = UserStatusActive
	u.CanCreateOrders = true
	u.CanRespondToRfq = true
	u.CanWithdraw = true
	u.CanListProducts = true
	u.FrozenAt = nil
	u.FrozenReason = ""
}

func (u *User) IsFinanceAdmin() bool {
	return u.Role == RoleAdmin && u.AdminScope == AdminScopeFinance
}
