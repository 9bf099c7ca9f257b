package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/apperror"
	"gorm.io/gorm"
)

type Repository interface {
	InsertFolio(ctx context.Context, db *gorm.DB, folio *Folio) error
	// FindFolio loads an active folio, taking a row lock when lock is set.
	FindFolio(ctx context.Context, db *gorm.DB, id uuid.UUID, lock bool) (*Folio, error)
	FindFolioByReservation(ctx context.Context, db *gorm.DB, reservationID uuid.UUID) (*Folio, error)
	ListFolios(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Folio, error)
	CloseFolio(ctx context.Context, db *gorm.DB, folio *Folio) error

	InsertItem(ctx context.Context, db *gorm.DB, item *FolioItem) error
	ListItems(ctx context.Context, db *gorm.DB, folioID uuid.UUID) ([]FolioItem, error)

	InsertPayment(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindPaymentByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*Payment, error)
	ListPayments(ctx context.Context, db *gorm.DB, folioID uuid.UUID) ([]Payment, error)
}

type Service interface {
	// OpenTx, PostRoomChargesTx and ApplyTaxesAndFeesTx run inside the
	// reservation create transaction.
	OpenTx(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, currency string) (*Folio, error)
	PostRoomChargesTx(ctx context.Context, tx *gorm.DB, folio *Folio, charges []RoomCharge) ([]FolioItem, error)
	ApplyTaxesAndFeesTx(ctx context.Context, tx *gorm.DB, folio *Folio, propertyID uuid.UUID, roomCharges []FolioItem) ([]FolioItem, error)
	// FindByReservationTx returns nil when the reservation has no folio.
	FindByReservationTx(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID) (*Folio, error)

	Get(ctx context.Context, id uuid.UUID) (*Detail, error)
	GetByReservation(ctx context.Context, reservationID uuid.UUID) (*Detail, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	AddItem(ctx context.Context, folioID uuid.UUID, req AddItemRequest) (*FolioItem, error)
	AddPayment(ctx context.Context, folioID uuid.UUID, req AddPaymentRequest) (*Payment, error)
	Close(ctx context.Context, folioID uuid.UUID) (*Detail, error)
	Statement(ctx context.Context, folioID uuid.UUID) ([]byte, error)
}

var (
	ErrFolioClosed         = apperror.Conflict("FOLIO_CLOSED", "folio is closed")
	ErrPaymentDuplicate    = apperror.Conflict("PAYMENT_DUPLICATE", "payment with this idempotency key already exists")
	ErrInvalidItemType     = apperror.BadRequest("INVALID_REQUEST", "unknown folio item type")
	ErrMethodRequired      = apperror.BadRequest("INVALID_REQUEST", "payment method is required")
	ErrInvalidStatus       = apperror.BadRequest("INVALID_REQUEST", "unknown payment status")
	ErrDescriptionRequired = apperror.BadRequest("INVALID_REQUEST", "description is required")
	ErrInvalidPageToken    = apperror.BadRequest("INVALID_REQUEST", "invalid page token")
)
