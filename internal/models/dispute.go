// internal/models/dispute.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Dispute routes a contested order into ops-mediated resolution. While a
// dispute is open the order's escrow is held in the disputed state.
type Dispute struct {
	BaseModel
	OrderID     uuid.UUID  `json:"order_id" gorm:"type:uuid;not null;index"`
	RaisedBy    uuid.UUID  `json:"raised_by" gorm:"type:uuid;not null"`
	AssignedOps *uuid.UUID `json:"assigned_ops,omitempty" gorm:"type:uuid;index"`

	Status     DisputeStatus      `json:"status" gorm:"type:varchar(20);default:'open';index"`
	Reason     string             `json:"reason" gorm:"type:text;not null"`
	Resolution *DisputeResolution `json:"resolution,omitempty" gorm:"type:varchar(20)"`

	ResolutionNote string     `json:"resolution_note,omitempty" gorm:"type:text"`
	ResolutionMeta JSONB      `json:"resolution_meta,omitempty" gorm:"type:jsonb"`
	ResolvedBy     *uuid.UUID `json:"resolved_by,omitempty" gorm:"type:uuid"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`

	// Relationships
	Order  Order          `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Events []DisputeEvent `json:"events,omitempty" gorm:"foreignKey:DisputeID"`
}

// DisputeEvent is the append-only audit trail of a dispute. Rows are created
// alongside every status change and note; never updated or deleted.
type DisputeEvent struct {
	BaseModel
	DisputeID uuid.UUID        `json:"dispute_id" gorm:"type:uuid;not null;index"`
	Type      DisputeEventType `json:"type" gorm:"type:varchar(30);not null"`
	ActorID   *uuid.UUID       `json:"actor_id,omitempty" gorm:"type:uuid"`
	Note      string           `json:"note,omitempty" gorm:"type:text"`
	Data      JSONB            `json:"data,omitempty" gorm:"type:jsonb"`
}
