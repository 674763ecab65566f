// internal/models/wallet.go
package models

import (
	"github.com/google/uuid"
)

// Wallet is a per-user balance ledger. Balance and LockedBalance are cached
// sums; they are only ever written alongside an appended WalletTransaction in
// the same database transaction.
type Wallet struct {
	BaseModel
	UserID        uuid.UUID    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	Balance       int64        `json:"balance" gorm:"default:0"`
	LockedBalance int64        `json:"locked_balance" gorm:"default:0"`
	Currency      string       `json:"currency" gorm:"size:3;default:'NGN'"`
	Status        WalletStatus `json:"status" gorm:"type:varchar(20);default:'active'"`

	// Relationships
	Transactions []WalletTransaction `json:"transactions,omitempty" gorm:"foreignKey:WalletID"`
}

// WalletTransaction is an append-only movement on a wallet. BalanceDelta and
// LockedDelta record exactly how the cached fields changed.
type WalletTransaction struct {
	BaseModel
	WalletID     uuid.UUID      `json:"wallet_id" gorm:"type:uuid;not null;index"`
	UserID       uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	OrderID      *uuid.UUID     `json:"order_id,omitempty" gorm:"type:uuid;index"`
	Type         WalletTxType   `json:"type" gorm:"type:varchar(30);not null;index"`
	BalanceDelta int64          `json:"balance_delta" gorm:"not null"`
	LockedDelta  int64          `json:"locked_delta" gorm:"not null"`
	Currency     string         `json:"currency" gorm:"size:3;default:'NGN'"`
	Status       WalletTxStatus `json:"status" gorm:"type:varchar(20);default:'completed';index"`
	Reference    string         `json:"reference,omitempty" gorm:"size:255"`
	Description  string         `json:"description,omitempty" gorm:"type:text"`
}
