// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a supplier listing. When BuyNowEnabled is set the listing can be
// purchased directly at UnitPrice without an RFQ round-trip.
type Product struct {
	BaseModel
	SupplierID    uuid.UUID     `json:"supplier_id" gorm:"type:uuid;not null;index"`
	Title         string        `json:"title" gorm:"size:255;not null"`
	Description   string        `json:"description" gorm:"type:text"`
	Category      string        `json:"category" gorm:"size:50;index"`
	OriginCountry string        `json:"origin_country" gorm:"size:2;index"`
	UnitPrice     int64         `json:"unit_price" gorm:"not null"`
	Currency      string        `json:"currency" gorm:"size:3;default:'NGN'"`
	MOQ           int           `json:"moq" gorm:"column:moq;default:1"`
	BuyNowEnabled bool          `json:"buy_now_enabled" gorm:"default:true"`
	Status        ProductStatus `json:"status" gorm:"type:varchar(20);default:'pending_review';index"`
	Images        JSONB         `json:"images,omitempty" gorm:"type:jsonb"`
	Metadata      JSONB         `json:"metadata,omitempty" gorm:"type:jsonb"`
	FlagReason    string        `json:"flag_reason,omitempty" gorm:"type:text"`
	ReviewedBy    *uuid.UUID    `json:"reviewed_by,omitempty" gorm:"type:uuid"`
	ReviewedAt    *time.Time    `json:"reviewed_at,omitempty"`

	// Relationships
	Supplier User `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

// Purchasable reports whether a Buy Now order can be placed for qty units.
func (p *Product) Purchasable(qty int) bool {
	return p.Status == ProductStatusActive && p.BuyNowEnabled && qty >= p.MOQ
}
