package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository lookups return nil, nil when the row is missing or soft-deleted.
type Repository interface {
	FindProperty(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Property, error)
	FindRoomType(ctx context.Context, db *gorm.DB, id uuid.UUID) (*RoomType, error)
	FindRoom(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Room, error)
	FindRatePlan(ctx context.Context, db *gorm.DB, id uuid.UUID) (*RatePlan, error)
	FindGuest(ctx context.Context, db *gorm.DB, id uuid.UUID) (*Guest, error)

	// ListRoomTypes returns the property's room types in catalog order.
	ListRoomTypes(ctx context.Context, db *gorm.DB, propertyID uuid.UUID) ([]RoomType, error)
	// CountActiveRooms counts active, non-deleted rooms per room type.
	CountActiveRooms(ctx context.Context, db *gorm.DB, roomTypeIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	// LockRoomType takes a row lock on the room type for the rest of the
	// transaction.
	LockRoomType(ctx context.Context, db *gorm.DB, id uuid.UUID) error
}
