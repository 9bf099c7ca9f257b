package domain

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	ListActive(ctx context.Context, db *gorm.DB, propertyID uuid.UUID) ([]TaxFee, error)
}

// Resolver returns the definitions that apply to a stay's room charges.
type Resolver interface {
	ResolveForRoomCharges(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) ([]TaxFee, error)
}
