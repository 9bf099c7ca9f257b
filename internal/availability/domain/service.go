package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	"gorm.io/gorm"
)

type Repository interface {
	// CountRoomNights counts active nights held on a physical room in the range.
	CountRoomNights(ctx context.Context, db *gorm.DB, roomID uuid.UUID, stay civildate.Range) (int64, error)
	// AssignedNightsByType groups active room-level nights by the room's type.
	AssignedNightsByType(ctx context.Context, db *gorm.DB, roomTypeIDs []uuid.UUID, stay civildate.Range) ([]NightCount, error)
	// PooledNightsByType groups active type-level nights.
	PooledNightsByType(ctx context.Context, db *gorm.DB, roomTypeIDs []uuid.UUID, stay civildate.Range) ([]NightCount, error)
}

type Calculator interface {
	CheckRoom(ctx context.Context, roomID uuid.UUID, stay civildate.Range) (*RoomAvailability, error)
	CheckRoomTypes(ctx context.Context, propertyID uuid.UUID, stay civildate.Range) ([]RoomTypeAvailability, error)

	// RoomConflictsTx counts nights already held on the room inside tx.
	RoomConflictsTx(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, stay civildate.Range) (int64, error)
	// ReservedByDateTx returns assigned plus pooled nights per date for a
	// room type inside tx. Dates with nothing held are absent.
	ReservedByDateTx(ctx context.Context, tx *gorm.DB, roomTypeID uuid.UUID, stay civildate.Range) (map[civildate.Date]int64, error)
}
