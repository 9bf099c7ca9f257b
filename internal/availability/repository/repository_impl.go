package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/availability/domain"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) CountRoomNights(ctx context.Context, db *gorm.DB, roomID uuid.UUID, stay civildate.Range) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1)
		 FROM reservation_nights
		 WHERE room_id = ? AND stay_date >= ? AND stay_date < ? AND deleted_at IS NULL`,
		roomID,
		stay.From,
		stay.To,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) AssignedNightsByType(ctx context.Context, db *gorm.DB, roomTypeIDs []uuid.UUID, stay civildate.Range) ([]domain.NightCount, error) {
	if len(roomTypeIDs) == 0 {
		return nil, nil
	}

	var rows []domain.NightCount
	err := db.WithContext(ctx).Raw(
		`SELECT rm.room_type_id AS room_type_id, n.stay_date AS stay_date, COUNT(1) AS count
		 FROM reservation_nights n
		 JOIN rooms rm ON rm.id = n.room_id
		 WHERE rm.room_type_id IN ? AND n.stay_date >= ? AND n.stay_date < ? AND n.deleted_at IS NULL
		 GROUP BY rm.room_type_id, n.stay_date`,
		roomTypeIDs,
		stay.From,
		stay.To,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) PooledNightsByType(ctx context.Context, db *gorm.DB, roomTypeIDs []uuid.UUID, stay civildate.Range) ([]domain.NightCount, error) {
	if len(roomTypeIDs) == 0 {
		return nil, nil
	}

	var rows []domain.NightCount
	err := db.WithContext(ctx).Raw(
		`SELECT room_type_id, stay_date, COUNT(1) AS count
		 FROM reservation_type_nights
		 WHERE room_type_id IN ? AND stay_date >= ? AND stay_date < ? AND deleted_at IS NULL
		 GROUP BY room_type_id, stay_date`,
		roomTypeIDs,
		stay.From,
		stay.To,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
