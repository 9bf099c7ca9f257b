package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/apperror"
	"gorm.io/gorm"
)

type Repository interface {
	InsertReservation(ctx context.Context, db *gorm.DB, r *Reservation) error
	// FindReservation loads an active reservation, taking a row lock when lock is set.
	FindReservation(ctx context.Context, db *gorm.DB, id uuid.UUID, lock bool) (*Reservation, error)
	CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error)
	UpdateDetails(ctx context.Context, db *gorm.DB, r *Reservation) error
	UpdateStatus(ctx context.Context, db *gorm.DB, id uuid.UUID, status Status, at time.Time) error
	ListReservations(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Reservation, error)

	InsertRoom(ctx context.Context, db *gorm.DB, room *ReservationRoom) error
	ListRooms(ctx context.Context, db *gorm.DB, reservationIDs []uuid.UUID) ([]ReservationRoom, error)

	InsertNight(ctx context.Context, db *gorm.DB, night *ReservationNight) error
	InsertTypeNight(ctx context.Context, db *gorm.DB, night *ReservationTypeNight) error
	ListNights(ctx context.Context, db *gorm.DB, reservationRoomIDs []uuid.UUID) ([]ReservationNight, error)
	ListTypeNights(ctx context.Context, db *gorm.DB, reservationRoomIDs []uuid.UUID) ([]ReservationTypeNight, error)
	// ReleaseNights soft-deletes every active night and type night of the
	// reservation and returns how many rows were released.
	ReleaseNights(ctx context.Context, db *gorm.DB, reservationID uuid.UUID, at time.Time) (int64, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Detail, error)
	Get(ctx context.Context, id uuid.UUID) (*Detail, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	ListByGuest(ctx context.Context, guestID uuid.UUID, req ListRequest) (ListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateRequest) (*Detail, error)

	Confirm(ctx context.Context, id uuid.UUID) (*Detail, error)
	CheckIn(ctx context.Context, id uuid.UUID) (*Detail, error)
	CheckOut(ctx context.Context, id uuid.UUID) (*Detail, error)
	Cancel(ctx context.Context, id uuid.UUID, req CancelRequest) (*Detail, error)
	MarkNoShow(ctx context.Context, id uuid.UUID) (*Detail, error)
}

var (
	ErrGuestNotFound        = apperror.BadRequest("GUEST_NOT_FOUND", "primary guest not found")
	ErrRoomTypeNotFound     = apperror.BadRequest("ROOM_TYPE_NOT_FOUND", "room type not found")
	ErrRatePlanNotFound     = apperror.BadRequest("RATE_PLAN_NOT_FOUND", "rate plan not found")
	ErrRoomNotFound         = apperror.BadRequest("ROOM_NOT_FOUND", "room not found")
	ErrPropertyMismatch     = apperror.BadRequest("PROPERTY_MISMATCH", "rate plan, room type and room must belong to the reservation's property")
	ErrRoomTypeMismatch     = apperror.BadRequest("ROOM_TYPE_MISMATCH", "room does not belong to the requested room type")
	ErrRatePlanPriceMissing = apperror.BadRequest("RATE_PLAN_PRICE_MISSING", "no price for one or more stay dates")
	ErrCodeExists           = apperror.BadRequest("RESERVATION_CODE_EXISTS", "reservation code already exists")

	ErrRoomUnavailable         = apperror.Conflict("ROOM_UNAVAILABLE", "room is not available for the requested dates")
	ErrRoomTypeUnavailable     = apperror.Conflict("ROOM_TYPE_UNAVAILABLE", "no rooms of this type left for the requested dates")
	ErrRoomTypeEmpty           = apperror.Conflict("ROOM_TYPE_EMPTY", "room type has no active rooms")
	ErrInvalidStatusTransition = apperror.Conflict("INVALID_STATUS_TRANSITION", "reservation status does not allow this operation")

	ErrRoomsRequired     = apperror.BadRequest("INVALID_REQUEST", "at least one room is required")
	ErrInvalidOccupancy  = apperror.BadRequest("INVALID_REQUEST", "adults must be at least 1, children and room guests must not be negative")
	ErrInvalidChannel    = apperror.BadRequest("INVALID_REQUEST", "unknown channel")
	ErrInvalidStatus     = apperror.BadRequest("INVALID_REQUEST", "reservations start as HOLD or CONFIRMED")
	ErrInvalidPageToken  = apperror.BadRequest("INVALID_REQUEST", "invalid page token")
	ErrInvalidListFilter = apperror.BadRequest("INVALID_REQUEST", "unknown status filter")
)
