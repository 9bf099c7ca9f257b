package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	"gorm.io/gorm"
)

type Repository interface {
	ListPrices(ctx context.Context, db *gorm.DB, ratePlanID, roomTypeID uuid.UUID, stay civildate.Range) ([]RatePlanPrice, error)
}

type ResolveRequest struct {
	RatePlanID uuid.UUID
	RoomTypeID uuid.UUID
	Stay       civildate.Range
	// Overrides, when non-empty, replaces stored prices verbatim.
	Overrides []NightlyRate
}

// Lookup resolves nightly prices. Dates without a price are absent from the
// result; callers decide whether that is fatal.
type Lookup interface {
	Resolve(ctx context.Context, req ResolveRequest) (map[civildate.Date]NightlyRate, error)
	ResolveTx(ctx context.Context, tx *gorm.DB, req ResolveRequest) (map[civildate.Date]NightlyRate, error)
}
