package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/reservation/domain"
	pkgdb "github.com/hengly4433/hotel-system/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const reservationColumns = `id, property_id, primary_guest_id, code, status, channel, check_in_date, check_out_date,
	adults, children, special_requests, created_by, created_at, updated_at, deleted_at`

func (r *repo) InsertReservation(ctx context.Context, db *gorm.DB, res *domain.Reservation) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO reservations (
			id, property_id, primary_guest_id, code, status, channel, check_in_date, check_out_date,
			adults, children, special_requests, created_by, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID,
		res.PropertyID,
		res.PrimaryGuestID,
		res.Code,
		res.Status,
		res.Channel,
		res.CheckInDate,
		res.CheckOutDate,
		res.Adults,
		res.Children,
		res.SpecialRequests,
		res.CreatedBy,
		res.CreatedAt,
		res.UpdatedAt,
	).Error
}

func (r *repo) FindReservation(ctx context.Context, db *gorm.DB, id uuid.UUID, lock bool) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? AND deleted_at IS NULL`
	if lock {
		query += pkgdb.ForUpdate(db)
	}

	var item domain.Reservation
	if err := db.WithContext(ctx).Raw(query, id).Scan(&item).Error; err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM reservations WHERE code = ? AND deleted_at IS NULL`,
		code,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) UpdateDetails(ctx context.Context, db *gorm.DB, res *domain.Reservation) error {
	return db.WithContext(ctx).Exec(
		`UPDATE reservations
		 SET primary_guest_id = ?, adults = ?, children = ?, special_requests = ?, updated_at = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		res.PrimaryGuestID,
		res.Adults,
		res.Children,
		res.SpecialRequests,
		res.UpdatedAt,
		res.ID,
	).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status domain.Status, at time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		status,
		at,
		id,
	).Error
}

func (r *repo) ListReservations(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Reservation, error) {
	var items []domain.Reservation
	stmt := db.WithContext(ctx).Model(&domain.Reservation{}).Where("deleted_at IS NULL")

	if filter.PropertyID != uuid.Nil {
		stmt = stmt.Where("property_id = ?", filter.PropertyID)
	}
	if filter.GuestID != uuid.Nil {
		stmt = stmt.Where("primary_guest_id = ?", filter.GuestID)
	}
	if status := strings.TrimSpace(string(filter.Status)); status != "" {
		stmt = stmt.Where("status = ?", status)
	}
	if filter.Stay.Valid() {
		stmt = stmt.Where("check_in_date < ? AND check_out_date > ?", filter.Stay.To, filter.Stay.From)
	}
	if filter.Cursor != nil {
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			filter.Cursor.CreatedAt,
			filter.Cursor.CreatedAt,
			filter.Cursor.ID,
		)
	}

	stmt = stmt.Order("created_at desc, id desc")
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit + 1)
	}

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertRoom(ctx context.Context, db *gorm.DB, room *domain.ReservationRoom) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO reservation_rooms (
			id, reservation_id, room_type_id, room_id, rate_plan_id, guests, price_snapshot, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		room.ID,
		room.ReservationID,
		room.RoomTypeID,
		room.RoomID,
		room.RatePlanID,
		room.Guests,
		room.PriceSnapshot,
		room.CreatedAt,
		room.UpdatedAt,
	).Error
}

func (r *repo) ListRooms(ctx context.Context, db *gorm.DB, reservationIDs []uuid.UUID) ([]domain.ReservationRoom, error) {
	if len(reservationIDs) == 0 {
		return nil, nil
	}

	var items []domain.ReservationRoom
	err := db.WithContext(ctx).Raw(
		`SELECT id, reservation_id, room_type_id, room_id, rate_plan_id, guests, price_snapshot, created_at, updated_at, deleted_at
		 FROM reservation_rooms
		 WHERE reservation_id IN ? AND deleted_at IS NULL
		 ORDER BY created_at ASC, id ASC`,
		reservationIDs,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertNight(ctx context.Context, db *gorm.DB, night *domain.ReservationNight) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO reservation_nights (id, reservation_room_id, room_id, stay_date, price, currency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		night.ID,
		night.ReservationRoomID,
		night.RoomID,
		night.StayDate,
		night.Price,
		night.Currency,
		night.CreatedAt,
	).Error
}

func (r *repo) InsertTypeNight(ctx context.Context, db *gorm.DB, night *domain.ReservationTypeNight) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO reservation_type_nights (id, reservation_room_id, room_type_id, stay_date, price, currency, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		night.ID,
		night.ReservationRoomID,
		night.RoomTypeID,
		night.StayDate,
		night.Price,
		night.Currency,
		night.CreatedAt,
	).Error
}

func (r *repo) ListNights(ctx context.Context, db *gorm.DB, reservationRoomIDs []uuid.UUID) ([]domain.ReservationNight, error) {
	if len(reservationRoomIDs) == 0 {
		return nil, nil
	}

	var items []domain.ReservationNight
	err := db.WithContext(ctx).Raw(
		`SELECT id, reservation_room_id, room_id, stay_date, price, currency, created_at, deleted_at
		 FROM reservation_nights
		 WHERE reservation_room_id IN ? AND deleted_at IS NULL
		 ORDER BY stay_date ASC, id ASC`,
		reservationRoomIDs,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListTypeNights(ctx context.Context, db *gorm.DB, reservationRoomIDs []uuid.UUID) ([]domain.ReservationTypeNight, error) {
	if len(reservationRoomIDs) == 0 {
		return nil, nil
	}

	var items []domain.ReservationTypeNight
	err := db.WithContext(ctx).Raw(
		`SELECT id, reservation_room_id, room_type_id, stay_date, price, currency, created_at, deleted_at
		 FROM reservation_type_nights
		 WHERE reservation_room_id IN ? AND deleted_at IS NULL
		 ORDER BY stay_date ASC, id ASC`,
		reservationRoomIDs,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ReleaseNights(ctx context.Context, db *gorm.DB, reservationID uuid.UUID, at time.Time) (int64, error) {
	const rooms = `SELECT id FROM reservation_rooms WHERE reservation_id = ?`

	nights := db.WithContext(ctx).Exec(
		`UPDATE reservation_nights SET deleted_at = ?
		 WHERE deleted_at IS NULL AND reservation_room_id IN (`+rooms+`)`,
		at,
		reservationID,
	)
	if nights.Error != nil {
		return 0, nights.Error
	}

	typeNights := db.WithContext(ctx).Exec(
		`UPDATE reservation_type_nights SET deleted_at = ?
		 WHERE deleted_at IS NULL AND reservation_room_id IN (`+rooms+`)`,
		at,
		reservationID,
	)
	if typeNights.Error != nil {
		return 0, typeNights.Error
	}
	return nights.RowsAffected + typeNights.RowsAffected, nil
}
