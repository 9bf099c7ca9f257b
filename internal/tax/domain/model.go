package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category decides the folio item type a definition posts as.
type Category string

const (
	CategoryTax Category = "TAX"
	CategoryFee Category = "FEE"
)

type CalcType string

const (
	CalcTypePercent CalcType = "PERCENT" // value is a percentage of room charges
	CalcTypeFlat    CalcType = "FLAT"    // value is charged once per night
)

type AppliesTo string

const (
	AppliesToRoom    AppliesTo = "ROOM"
	AppliesToAll     AppliesTo = "ALL"
	AppliesToService AppliesTo = "SERVICE"
)

// TaxFee is a property-scoped tax or fee definition. Definitions are managed
// outside the booking core and only read here.
type TaxFee struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PropertyID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Code       string          `gorm:"type:text;not null"`
	Name       string          `gorm:"type:text;not null"`
	Category   Category        `gorm:"type:text;not null"`
	CalcType   CalcType        `gorm:"column:calc_type;type:text;not null"`
	Value      decimal.Decimal `gorm:"type:numeric(12,4);not null"`
	AppliesTo  AppliesTo       `gorm:"column:applies_to;type:text;not null"`
	IsActive   bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time       `gorm:"not null"`
	UpdatedAt  time.Time       `gorm:"not null"`
	DeletedAt  *time.Time      `gorm:"index"`
}

func (TaxFee) TableName() string { return "tax_fees" }

// AppliesToRoomCharges reports whether the definition is levied on room
// revenue.
func (t TaxFee) AppliesToRoomCharges() bool {
	return t.AppliesTo == AppliesToRoom || t.AppliesTo == AppliesToAll
}
