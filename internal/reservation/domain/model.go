package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	foliodomain "github.com/hengly4433/hotel-system/internal/folio/domain"
	ratedomain "github.com/hengly4433/hotel-system/internal/rate/domain"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	"github.com/hengly4433/hotel-system/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusHold       Status = "HOLD"
	StatusConfirmed  Status = "CONFIRMED"
	StatusCheckedIn  Status = "CHECKED_IN"
	StatusCheckedOut Status = "CHECKED_OUT"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

var transitions = map[Status][]Status{
	StatusHold:      {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCheckedIn, StatusCancelled, StatusNoShow},
	StatusCheckedIn: {StatusCheckedOut, StatusCancelled, StatusNoShow},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Initial reports whether a reservation may be created in this status.
func (s Status) Initial() bool {
	return s == StatusHold || s == StatusConfirmed
}

type Channel string

const (
	ChannelDirect    Channel = "DIRECT"
	ChannelOTA       Channel = "OTA"
	ChannelPhone     Channel = "PHONE"
	ChannelWalkIn    Channel = "WALK_IN"
	ChannelCorporate Channel = "CORPORATE"
	ChannelGDS       Channel = "GDS"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelDirect, ChannelOTA, ChannelPhone, ChannelWalkIn, ChannelCorporate, ChannelGDS:
		return true
	}
	return false
}

// Allocation is how a reservation room holds inventory: a bound physical
// room or a claim on the room type's pool.
type Allocation interface {
	allocation()
}

type Assigned struct {
	RoomID uuid.UUID
}

type Pooled struct{}

func (Assigned) allocation() {}
func (Pooled) allocation()   {}

// AllocationOf maps an optional room id to its allocation.
func AllocationOf(roomID *uuid.UUID) Allocation {
	if roomID == nil || *roomID == uuid.Nil {
		return Pooled{}
	}
	return Assigned{RoomID: *roomID}
}

type Reservation struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"property_id"`
	PrimaryGuestID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"primary_guest_id"`
	Code            string         `gorm:"type:text;not null" json:"code"`
	Status          Status         `gorm:"type:text;not null" json:"status"`
	Channel         Channel        `gorm:"type:text;not null" json:"channel"`
	CheckInDate     civildate.Date `gorm:"type:date;not null" json:"check_in_date"`
	CheckOutDate    civildate.Date `gorm:"type:date;not null" json:"check_out_date"`
	Adults          int            `gorm:"not null" json:"adults"`
	Children        int            `gorm:"not null" json:"children"`
	SpecialRequests *string        `gorm:"type:text" json:"special_requests,omitempty"`
	CreatedBy       *string        `gorm:"type:text" json:"created_by,omitempty"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt       *time.Time     `gorm:"index" json:"-"`
}

func (Reservation) TableName() string { return "reservations" }

func (r Reservation) Stay() civildate.Range {
	return civildate.Range{From: r.CheckInDate, To: r.CheckOutDate}
}

type ReservationRoom struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ReservationID uuid.UUID      `gorm:"type:uuid;not null;index" json:"reservation_id"`
	RoomTypeID    uuid.UUID      `gorm:"type:uuid;not null" json:"room_type_id"`
	RoomID        *uuid.UUID     `gorm:"type:uuid" json:"room_id,omitempty"`
	RatePlanID    uuid.UUID      `gorm:"type:uuid;not null" json:"rate_plan_id"`
	Guests        int            `gorm:"not null" json:"guests"`
	PriceSnapshot datatypes.JSON `gorm:"type:jsonb" json:"price_snapshot"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt     *time.Time     `gorm:"index" json:"-"`
}

func (ReservationRoom) TableName() string { return "reservation_rooms" }

func (r ReservationRoom) Allocation() Allocation {
	return AllocationOf(r.RoomID)
}

// NightlyRates decodes the booking-time price snapshot.
func (r ReservationRoom) NightlyRates() ([]ratedomain.NightlyRate, error) {
	if len(r.PriceSnapshot) == 0 || string(r.PriceSnapshot) == "null" {
		return nil, nil
	}
	var rates []ratedomain.NightlyRate
	if err := json.Unmarshal(r.PriceSnapshot, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// ReservationNight holds a physical room for one date.
type ReservationNight struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ReservationRoomID uuid.UUID       `gorm:"type:uuid;not null;index" json:"reservation_room_id"`
	RoomID            uuid.UUID       `gorm:"type:uuid;not null" json:"room_id"`
	StayDate          civildate.Date  `gorm:"type:date;not null" json:"stay_date"`
	Price             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Currency          string          `gorm:"type:char(3);not null" json:"currency"`
	CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
	DeletedAt         *time.Time      `gorm:"index" json:"-"`
}

func (ReservationNight) TableName() string { return "reservation_nights" }

// ReservationTypeNight holds one unit of a room type's pool for one date.
type ReservationTypeNight struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	ReservationRoomID uuid.UUID       `gorm:"type:uuid;not null;index" json:"reservation_room_id"`
	RoomTypeID        uuid.UUID       `gorm:"type:uuid;not null" json:"room_type_id"`
	StayDate          civildate.Date  `gorm:"type:date;not null" json:"stay_date"`
	Price             decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Currency          string          `gorm:"type:char(3);not null" json:"currency"`
	CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
	DeletedAt         *time.Time      `gorm:"index" json:"-"`
}

func (ReservationTypeNight) TableName() string { return "reservation_type_nights" }

type RoomDetail struct {
	ReservationRoom
	Nights     []ReservationNight     `json:"nights"`
	TypeNights []ReservationTypeNight `json:"type_nights"`
}

type Detail struct {
	Reservation
	Rooms []RoomDetail       `json:"rooms"`
	Folio *foliodomain.Folio `json:"folio,omitempty"`
}

type RoomRequest struct {
	RoomTypeID uuid.UUID  `json:"room_type_id"`
	RoomID     *uuid.UUID `json:"room_id"`
	RatePlanID uuid.UUID  `json:"rate_plan_id"`
	Guests     int        `json:"guests"`
	// NightlyRates, when set, are charged verbatim instead of plan prices.
	NightlyRates []ratedomain.NightlyRate `json:"nightly_rates"`
}

type CreateRequest struct {
	PropertyID      uuid.UUID      `json:"property_id"`
	PrimaryGuestID  uuid.UUID      `json:"primary_guest_id"`
	Code            string         `json:"code"`
	Status          Status         `json:"status"`
	Channel         Channel        `json:"channel"`
	CheckInDate     civildate.Date `json:"check_in_date"`
	CheckOutDate    civildate.Date `json:"check_out_date"`
	Adults          int            `json:"adults"`
	Children        int            `json:"children"`
	SpecialRequests *string        `json:"special_requests"`
	Rooms           []RoomRequest  `json:"rooms"`
}

type UpdateRequest struct {
	PrimaryGuestID  *uuid.UUID `json:"primary_guest_id"`
	Adults          *int       `json:"adults"`
	Children        *int       `json:"children"`
	SpecialRequests *string    `json:"special_requests"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type ListFilter struct {
	PropertyID uuid.UUID
	GuestID    uuid.UUID
	Status     Status
	Stay       civildate.Range
	Cursor     *pagination.Position
	Limit      int
}

type ListRequest struct {
	pagination.Pagination
	PropertyID uuid.UUID
	GuestID    uuid.UUID
	Status     Status
	// From and To, when both set, keep stays overlapping [From, To).
	From civildate.Date
	To   civildate.Date
}

type ListResponse struct {
	pagination.PageInfo
	Reservations []Detail `json:"reservations"`
}
