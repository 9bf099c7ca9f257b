package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	"github.com/hengly4433/hotel-system/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

type ItemType string

const (
	ItemTypeRoomCharge ItemType = "ROOM_CHARGE"
	ItemTypeTax        ItemType = "TAX"
	ItemTypeFee        ItemType = "FEE"
	ItemTypeService    ItemType = "SERVICE"
	ItemTypeMinibar    ItemType = "MINIBAR"
	ItemTypeAdjustment ItemType = "ADJUSTMENT"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeRoomCharge, ItemTypeTax, ItemTypeFee, ItemTypeService, ItemTypeMinibar, ItemTypeAdjustment:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentAuthorized PaymentStatus = "AUTHORIZED"
	PaymentCaptured   PaymentStatus = "CAPTURED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
	PaymentVoided     PaymentStatus = "VOIDED"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentAuthorized, PaymentCaptured, PaymentFailed, PaymentRefunded, PaymentVoided:
		return true
	}
	return false
}

// Applied reports whether the payment counts against the balance.
func (s PaymentStatus) Applied() bool {
	return s == PaymentAuthorized || s == PaymentCaptured
}

type Folio struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReservationID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"reservation_id"`
	Status        Status     `gorm:"type:text;not null" json:"status"`
	Currency      string     `gorm:"type:char(3);not null" json:"currency"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
	ClosedAt      *time.Time `json:"closed_at,omitempty"`
	DeletedAt     *time.Time `gorm:"index" json:"-"`
}

func (Folio) TableName() string { return "folios" }

type FolioItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	FolioID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"folio_id"`
	ItemType    ItemType        `gorm:"column:item_type;type:text;not null" json:"item_type"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:numeric(12,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PostedAt    time.Time       `gorm:"not null" json:"posted_at"`
	PostedBy    *string         `gorm:"type:text" json:"posted_by,omitempty"`
	DeletedAt   *time.Time      `gorm:"index" json:"-"`
}

func (FolioItem) TableName() string { return "folio_items" }

type Payment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	FolioID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"folio_id"`
	Method         string          `gorm:"type:text;not null" json:"method"`
	Amount         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	Currency       string          `gorm:"type:char(3);not null" json:"currency"`
	Status         PaymentStatus   `gorm:"type:text;not null" json:"status"`
	Provider       *string         `gorm:"type:text" json:"provider,omitempty"`
	ProviderRef    *string         `gorm:"type:text" json:"provider_ref,omitempty"`
	IdempotencyKey string          `gorm:"type:text;not null" json:"idempotency_key"`
	CreatedBy      *string         `gorm:"type:text" json:"created_by,omitempty"`
	CreatedAt      time.Time       `gorm:"not null" json:"created_at"`
	DeletedAt      *time.Time      `gorm:"index" json:"-"`
}

func (Payment) TableName() string { return "payments" }

// Detail is a folio with its lines and running totals.
type Detail struct {
	Folio
	Items         []FolioItem     `json:"items"`
	Payments      []Payment       `json:"payments"`
	TotalCharges  decimal.Decimal `json:"total_charges"`
	TotalPayments decimal.Decimal `json:"total_payments"`
	Balance       decimal.Decimal `json:"balance"`
}

// RoomCharge is one agreed nightly price handed over by the booking flow.
type RoomCharge struct {
	Date        civildate.Date
	Amount      decimal.Decimal
	Description string
}

type AddItemRequest struct {
	ItemType    ItemType         `json:"item_type"`
	Description string           `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal  `json:"unit_price"`
}

type AddPaymentRequest struct {
	Method         string          `json:"method"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Status         PaymentStatus   `json:"status"`
	Provider       *string         `json:"provider"`
	ProviderRef    *string         `json:"provider_ref"`
	IdempotencyKey string          `json:"idempotency_key"`
}

type ListFilter struct {
	ReservationID uuid.UUID
	Status        Status
	Cursor        *pagination.Position
	Limit         int
}

type ListRequest struct {
	pagination.Pagination
	ReservationID uuid.UUID
	Status        Status
}

type ListResponse struct {
	pagination.PageInfo
	Folios []Folio `json:"folios"`
}
