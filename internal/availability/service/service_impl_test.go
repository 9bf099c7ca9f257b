package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/apperror"
	availabilitydomain "github.com/hengly4433/hotel-system/internal/availability/domain"
	availabilityrepo "github.com/hengly4433/hotel-system/internal/availability/repository"
	catalogrepo "github.com/hengly4433/hotel-system/internal/catalog/repository"
	"github.com/hengly4433/hotel-system/internal/testdb"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(db *gorm.DB) availabilitydomain.Calculator {
	return NewService(Params{
		DB:      db,
		Log:     zap.NewNop(),
		Repo:    availabilityrepo.Provide(),
		Catalog: catalogrepo.Provide(),
	})
}

func stay(from, to string) civildate.Range {
	return civildate.Range{From: civildate.MustParse(from), To: civildate.MustParse(to)}
}

func TestCheckRoom(t *testing.T) {
	db := testdb.Open(t)
	fx := testdb.NewFixture(t, db)
	property := fx.Property("Seaside")
	deluxe := fx.RoomType(property, "Deluxe")
	room := fx.Room(property, deluxe, "101")
	fx.Night(room, "2024-06-02")

	svc := newTestService(db)
	ctx := context.Background()

	t.Run("overlapping night blocks", func(t *testing.T) {
		res, err := svc.CheckRoom(ctx, room, stay("2024-06-01", "2024-06-03"))
		require.NoError(t, err)
		assert.False(t, res.Available)
	})

	t.Run("checkout date is exclusive", func(t *testing.T) {
		res, err := svc.CheckRoom(ctx, room, stay("2024-06-01", "2024-06-02"))
		require.NoError(t, err)
		assert.True(t, res.Available)

		res, err = svc.CheckRoom(ctx, room, stay("2024-06-03", "2024-06-05"))
		require.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("released night no longer blocks", func(t *testing.T) {
		require.NoError(t, db.Exec(`UPDATE reservation_nights SET deleted_at = CURRENT_TIMESTAMP WHERE room_id = ?`, room).Error)
		res, err := svc.CheckRoom(ctx, room, stay("2024-06-01", "2024-06-03"))
		require.NoError(t, err)
		assert.True(t, res.Available)
	})

	t.Run("inverted range", func(t *testing.T) {
		_, err := svc.CheckRoom(ctx, room, stay("2024-06-03", "2024-06-03"))
		assert.True(t, errors.Is(err, apperror.ErrInvalidDates))
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := svc.CheckRoom(ctx, uuid.New(), stay("2024-06-01", "2024-06-02"))
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}

func TestCheckRoomTypes(t *testing.T) {
	db := testdb.Open(t)
	fx := testdb.NewFixture(t, db)
	property := fx.Property("Seaside")
	deluxe := fx.RoomType(property, "Deluxe")
	suite := fx.RoomType(property, "Suite")
	d1 := fx.Room(property, deluxe, "101")
	fx.Room(property, deluxe, "102")
	fx.InactiveRoom(property, deluxe, "103")
	s1 := fx.Room(property, suite, "201")

	fx.Night(d1, "2024-06-01")
	fx.TypeNight(deluxe, "2024-06-01")
	fx.TypeNight(deluxe, "2024-06-01")
	fx.TypeNight(deluxe, "2024-06-02")
	fx.Night(s1, "2024-06-02")
	fx.Night(s1, "2024-06-03")

	svc := newTestService(db)
	out, err := svc.CheckRoomTypes(context.Background(), property, stay("2024-06-01", "2024-06-03"))
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, deluxe, out[0].RoomTypeID)
	assert.Equal(t, int64(2), out[0].TotalRooms)
	require.Len(t, out[0].Dates, 2)
	assert.Equal(t, "2024-06-01", out[0].Dates[0].Date.String())
	assert.Equal(t, int64(3), out[0].Dates[0].Reserved)
	assert.Equal(t, int64(0), out[0].Dates[0].Available)
	assert.Equal(t, "2024-06-02", out[0].Dates[1].Date.String())
	assert.Equal(t, int64(1), out[0].Dates[1].Reserved)
	assert.Equal(t, int64(1), out[0].Dates[1].Available)

	assert.Equal(t, suite, out[1].RoomTypeID)
	assert.Equal(t, int64(1), out[1].TotalRooms)
	assert.Equal(t, int64(0), out[1].Dates[0].Reserved)
	assert.Equal(t, int64(1), out[1].Dates[0].Available)
	assert.Equal(t, int64(1), out[1].Dates[1].Reserved)
	assert.Equal(t, int64(0), out[1].Dates[1].Available)
}

func TestCheckRoomTypesValidation(t *testing.T) {
	db := testdb.Open(t)
	svc := newTestService(db)
	ctx := context.Background()

	_, err := svc.CheckRoomTypes(ctx, uuid.New(), stay("2024-06-02", "2024-06-01"))
	assert.True(t, errors.Is(err, apperror.ErrInvalidDates))

	_, err = svc.CheckRoomTypes(ctx, uuid.Nil, stay("2024-06-01", "2024-06-02"))
	assert.True(t, errors.Is(err, apperror.ErrPropertyRequired))

	_, err = svc.CheckRoomTypes(ctx, uuid.New(), stay("2024-06-01", "2024-06-02"))
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestReservedByDateTx(t *testing.T) {
	db := testdb.Open(t)
	fx := testdb.NewFixture(t, db)
	property := fx.Property("Seaside")
	deluxe := fx.RoomType(property, "Deluxe")
	room := fx.Room(property, deluxe, "101")
	fx.Night(room, "2024-06-01")
	fx.TypeNight(deluxe, "2024-06-01")

	svc := newTestService(db)
	reserved, err := svc.ReservedByDateTx(context.Background(), db, deluxe, stay("2024-06-01", "2024-06-03"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), reserved[civildate.MustParse("2024-06-01")])
	_, ok := reserved[civildate.MustParse("2024-06-02")]
	assert.False(t, ok)

	conflicts, err := svc.RoomConflictsTx(context.Background(), db, room, stay("2024-05-30", "2024-06-02"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), conflicts)
}
