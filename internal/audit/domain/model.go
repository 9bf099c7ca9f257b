package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is one state change of a booking entity.
type AuditLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID  *uuid.UUID     `gorm:"type:uuid;index" json:"property_id,omitempty"`
	EntityType  string         `gorm:"type:text;not null" json:"entity_type"`
	EntityID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"entity_id"`
	Action      string         `gorm:"type:text;not null" json:"action"`
	ActorID     *string        `gorm:"type:text" json:"actor_id,omitempty"`
	RequestID   *string        `gorm:"type:text" json:"request_id,omitempty"`
	BeforeState datatypes.JSON `gorm:"column:before_state;type:jsonb" json:"before,omitempty"`
	AfterState  datatypes.JSON `gorm:"column:after_state;type:jsonb" json:"after,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

const (
	EntityReservation = "reservation"
	EntityFolio       = "folio"
	EntityFolioItem   = "folio_item"
	EntityPayment     = "payment"
)

const (
	ActionCreate   = "create"
	ActionUpdate   = "update"
	ActionConfirm  = "confirm"
	ActionCheckIn  = "check_in"
	ActionCheckOut = "check_out"
	ActionCancel   = "cancel"
	ActionNoShow   = "no_show"
	ActionClose    = "close"
)
