package service

import (
	"context"

	"github.com/google/uuid"
	taxdomain "github.com/hengly4433/hotel-system/internal/tax/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type ResolverParams struct {
	fx.In

	Repository taxdomain.Repository
}

type resolver struct {
	repo taxdomain.Repository
}

func NewResolver(p ResolverParams) taxdomain.Resolver {
	return &resolver{repo: p.Repository}
}

func (r *resolver) ResolveForRoomCharges(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID) ([]taxdomain.TaxFee, error) {
	defs, err := r.repo.ListActive(ctx, tx, propertyID)
	if err != nil {
		return nil, err
	}

	out := make([]taxdomain.TaxFee, 0, len(defs))
	for _, def := range defs {
		if !def.AppliesToRoomCharges() {
			continue
		}
		out = append(out, def)
	}
	return out, nil
}

var hundred = decimal.NewFromInt(100)

// Round2 rounds half away from zero to two decimal places.
func Round2(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// ComputePercent returns round2(base × percent / 100).
func ComputePercent(base, percent decimal.Decimal) decimal.Decimal {
	return Round2(base.Mul(percent.Div(hundred)))
}

// ComputeFlat returns round2(unit × quantity).
func ComputeFlat(unit, quantity decimal.Decimal) decimal.Decimal {
	return Round2(unit.Mul(quantity))
}
