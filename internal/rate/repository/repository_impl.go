package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/rate/domain"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListPrices(ctx context.Context, db *gorm.DB, ratePlanID, roomTypeID uuid.UUID, stay civildate.Range) ([]domain.RatePlanPrice, error) {
	var items []domain.RatePlanPrice
	err := db.WithContext(ctx).Raw(
		`SELECT id, rate_plan_id, room_type_id, stay_date, price, currency, created_at, deleted_at
		 FROM rate_plan_prices
		 WHERE rate_plan_id = ? AND room_type_id = ?
		   AND stay_date >= ? AND stay_date < ?
		   AND deleted_at IS NULL
		 ORDER BY stay_date ASC`,
		ratePlanID,
		roomTypeID,
		stay.From,
		stay.To,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
