package service

import (
	"context"
	"testing"

	taxdomain "github.com/hengly4433/hotel-system/internal/tax/domain"
	taxrepo "github.com/hengly4433/hotel-system/internal/tax/repository"
	"github.com/hengly4433/hotel-system/internal/testdb"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputePercent(t *testing.T) {
	assert.Equal(t, "20", ComputePercent(d("200.00"), d("10")).String())
	assert.Equal(t, "0.01", ComputePercent(d("0.10"), d("5")).String())   // 0.005 rounds up
	assert.Equal(t, "12.35", ComputePercent(d("123.45"), d("10")).String()) // 12.345 rounds up
	assert.True(t, ComputePercent(d("0"), d("10")).IsZero())
}

func TestComputeFlat(t *testing.T) {
	assert.Equal(t, "7.5", ComputeFlat(d("2.50"), d("3")).String())
	assert.Equal(t, "0.34", ComputeFlat(d("0.335"), d("1")).String())
}

func TestResolveForRoomChargesFiltersScope(t *testing.T) {
	db := testdb.Open(t)
	fx := testdb.NewFixture(t, db)
	property := fx.Property("Seaside")
	other := fx.Property("Harbor")
	fx.TaxFee(property, "VAT", "TAX", "PERCENT", "10", "ROOM")
	fx.TaxFee(property, "CITY", "FEE", "FLAT", "2.50", "ALL")
	fx.TaxFee(property, "SPA", "TAX", "PERCENT", "5", "SERVICE")
	fx.TaxFee(other, "VAT", "TAX", "PERCENT", "7", "ROOM")
	require.NoError(t, db.Exec(`UPDATE tax_fees SET is_active = ? WHERE code = ?`, false, "SPA").Error)

	r := NewResolver(ResolverParams{Repository: taxrepo.Provide()})
	defs, err := r.ResolveForRoomCharges(context.Background(), db, property)
	require.NoError(t, err)

	require.Len(t, defs, 2)
	assert.Equal(t, "VAT", defs[0].Code)
	assert.Equal(t, taxdomain.CalcTypePercent, defs[0].CalcType)
	assert.True(t, defs[0].Value.Equal(d("10")))
	assert.Equal(t, "CITY", defs[1].Code)
	assert.Equal(t, taxdomain.CategoryFee, defs[1].Category)
}
