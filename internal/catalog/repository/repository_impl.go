package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/catalog/domain"
	pkgdb "github.com/hengly4433/hotel-system/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindProperty(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.Property, error) {
	var item domain.Property
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, code, created_at, deleted_at
		 FROM properties
		 WHERE id = ? AND deleted_at IS NULL`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindRoomType(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.RoomType, error) {
	var item domain.RoomType
	err := db.WithContext(ctx).Raw(
		`SELECT id, property_id, name, code, max_occupancy, created_at, deleted_at
		 FROM room_types
		 WHERE id = ? AND deleted_at IS NULL`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindRoom(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.Room, error) {
	var item domain.Room
	err := db.WithContext(ctx).Raw(
		`SELECT id, property_id, room_type_id, room_number, is_active, created_at, deleted_at
		 FROM rooms
		 WHERE id = ? AND deleted_at IS NULL`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindRatePlan(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.RatePlan, error) {
	var item domain.RatePlan
	err := db.WithContext(ctx).Raw(
		`SELECT id, property_id, name, code, created_at, deleted_at
		 FROM rate_plans
		 WHERE id = ? AND deleted_at IS NULL`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindGuest(ctx context.Context, db *gorm.DB, id uuid.UUID) (*domain.Guest, error) {
	var item domain.Guest
	err := db.WithContext(ctx).Raw(
		`SELECT id, first_name, last_name, email, created_at, deleted_at
		 FROM guests
		 WHERE id = ? AND deleted_at IS NULL`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) ListRoomTypes(ctx context.Context, db *gorm.DB, propertyID uuid.UUID) ([]domain.RoomType, error) {
	var items []domain.RoomType
	err := db.WithContext(ctx).Raw(
		`SELECT id, property_id, name, code, max_occupancy, created_at, deleted_at
		 FROM room_types
		 WHERE property_id = ? AND deleted_at IS NULL
		 ORDER BY created_at ASC, id ASC`,
		propertyID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) CountActiveRooms(ctx context.Context, db *gorm.DB, roomTypeIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(roomTypeIDs))
	if len(roomTypeIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		RoomTypeID uuid.UUID
		Total      int64
	}
	err := db.WithContext(ctx).Raw(
		`SELECT room_type_id, COUNT(1) AS total
		 FROM rooms
		 WHERE room_type_id IN ? AND is_active = ? AND deleted_at IS NULL
		 GROUP BY room_type_id`,
		roomTypeIDs,
		true,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, id := range roomTypeIDs {
		counts[id] = 0
	}
	for _, row := range rows {
		counts[row.RoomTypeID] = row.Total
	}
	return counts, nil
}

func (r *repo) LockRoomType(ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	query := `SELECT id FROM room_types WHERE id = ? AND deleted_at IS NULL` + pkgdb.ForUpdate(db)

	var locked struct {
		ID uuid.UUID
	}
	if err := db.WithContext(ctx).Raw(query, id).Scan(&locked).Error; err != nil {
		return err
	}
	if locked.ID == uuid.Nil {
		return gorm.ErrRecordNotFound
	}
	return nil
}
