package domain

import (
	"time"

	"github.com/google/uuid"
)

// Property, RoomType, Room, RatePlan and Guest are managed elsewhere; the
// booking core only reads them for validation and inventory counts.

type Property struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"type:text;not null"`
	Code      string     `gorm:"type:text;not null"`
	CreatedAt time.Time  `gorm:"not null"`
	DeletedAt *time.Time `gorm:"index"`
}

func (Property) TableName() string { return "properties" }

type RoomType struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PropertyID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name         string     `gorm:"type:text;not null"`
	Code         string     `gorm:"type:text;not null"`
	MaxOccupancy int        `gorm:"not null"`
	CreatedAt    time.Time  `gorm:"not null"`
	DeletedAt    *time.Time `gorm:"index"`
}

func (RoomType) TableName() string { return "room_types" }

type Room struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PropertyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	RoomTypeID uuid.UUID  `gorm:"type:uuid;not null;index"`
	RoomNumber string     `gorm:"type:text;not null"`
	IsActive   bool       `gorm:"not null;default:true"`
	CreatedAt  time.Time  `gorm:"not null"`
	DeletedAt  *time.Time `gorm:"index"`
}

func (Room) TableName() string { return "rooms" }

type RatePlan struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PropertyID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name       string     `gorm:"type:text;not null"`
	Code       string     `gorm:"type:text;not null"`
	CreatedAt  time.Time  `gorm:"not null"`
	DeletedAt  *time.Time `gorm:"index"`
}

func (RatePlan) TableName() string { return "rate_plans" }

type Guest struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName string     `gorm:"type:text;not null"`
	LastName  string     `gorm:"type:text;not null"`
	Email     *string    `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"not null"`
	DeletedAt *time.Time `gorm:"index"`
}

func (Guest) TableName() string { return "guests" }
