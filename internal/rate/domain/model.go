package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	"github.com/shopspring/decimal"
)

// RatePlanPrice is the stored price of one room type on one date under a
// rate plan.
type RatePlanPrice struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RatePlanID uuid.UUID       `gorm:"type:uuid;not null"`
	RoomTypeID uuid.UUID       `gorm:"type:uuid;not null"`
	StayDate   civildate.Date  `gorm:"type:date;not null"`
	Price      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency   string          `gorm:"type:char(3);not null"`
	CreatedAt  time.Time       `gorm:"not null"`
	DeletedAt  *time.Time      `gorm:"index"`
}

func (RatePlanPrice) TableName() string { return "rate_plan_prices" }

// NightlyRate is the agreed price of one room for one date.
type NightlyRate struct {
	Date     civildate.Date  `json:"date"`
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
}
