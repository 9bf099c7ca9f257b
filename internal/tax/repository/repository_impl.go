package repository

import (
	"context"

	"github.com/google/uuid"
	taxdomain "github.com/hengly4433/hotel-system/internal/tax/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() taxdomain.Repository {
	return &repo{}
}

func (r *repo) ListActive(ctx context.Context, db *gorm.DB, propertyID uuid.UUID) ([]taxdomain.TaxFee, error) {
	var items []taxdomain.TaxFee
	err := db.WithContext(ctx).Raw(
		`SELECT id, property_id, code, name, category, calc_type, value, applies_to, is_active,
			created_at, updated_at, deleted_at
		 FROM tax_fees
		 WHERE property_id = ? AND is_active = ? AND deleted_at IS NULL
		 ORDER BY created_at ASC, id ASC`,
		propertyID,
		true,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
