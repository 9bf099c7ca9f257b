package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/folio/domain"
	pkgdb "github.com/hengly4433/hotel-system/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

const folioColumns = `id, reservation_id, status, currency, created_at, updated_at, closed_at, deleted_at`

func (r *repo) InsertFolio(ctx context.Context, db *gorm.DB, folio *domain.Folio) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO folios (id, reservation_id, status, currency, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		folio.ID,
		folio.ReservationID,
		folio.Status,
		folio.Currency,
		folio.CreatedAt,
		folio.UpdatedAt,
	).Error
}

func (r *repo) FindFolio(ctx context.Context, db *gorm.DB, id uuid.UUID, lock bool) (*domain.Folio, error) {
	query := `SELECT ` + folioColumns + ` FROM folios WHERE id = ? AND deleted_at IS NULL`
	if lock {
		query += pkgdb.ForUpdate(db)
	}

	var item domain.Folio
	if err := db.WithContext(ctx).Raw(query, id).Scan(&item).Error; err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindFolioByReservation(ctx context.Context, db *gorm.DB, reservationID uuid.UUID) (*domain.Folio, error) {
	var item domain.Folio
	err := db.WithContext(ctx).Raw(
		`SELECT `+folioColumns+` FROM folios WHERE reservation_id = ? AND deleted_at IS NULL`,
		reservationID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) ListFolios(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]domain.Folio, error) {
	var items []domain.Folio
	stmt := db.WithContext(ctx).Model(&domain.Folio{}).Where("deleted_at IS NULL")

	if filter.ReservationID != uuid.Nil {
		stmt = stmt.Where("reservation_id = ?", filter.ReservationID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
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

func (r *repo) CloseFolio(ctx context.Context, db *gorm.DB, folio *domain.Folio) error {
	return db.WithContext(ctx).Exec(
		`UPDATE folios SET status = ?, closed_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		folio.Status,
		folio.ClosedAt,
		folio.UpdatedAt,
		folio.ID,
	).Error
}

func (r *repo) InsertItem(ctx context.Context, db *gorm.DB, item *domain.FolioItem) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO folio_items (id, folio_id, item_type, description, quantity, unit_price, amount, posted_at, posted_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.FolioID,
		item.ItemType,
		item.Description,
		item.Quantity,
		item.UnitPrice,
		item.Amount,
		item.PostedAt,
		item.PostedBy,
	).Error
}

func (r *repo) ListItems(ctx context.Context, db *gorm.DB, folioID uuid.UUID) ([]domain.FolioItem, error) {
	var items []domain.FolioItem
	err := db.WithContext(ctx).Raw(
		`SELECT id, folio_id, item_type, description, quantity, unit_price, amount, posted_at, posted_by, deleted_at
		 FROM folio_items
		 WHERE folio_id = ? AND deleted_at IS NULL
		 ORDER BY posted_at ASC, id ASC`,
		folioID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertPayment(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO payments (id, folio_id, method, amount, currency, status, provider, provider_ref, idempotency_key, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.FolioID,
		payment.Method,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.Provider,
		payment.ProviderRef,
		payment.IdempotencyKey,
		payment.CreatedBy,
		payment.CreatedAt,
	).Error
}

const paymentColumns = `id, folio_id, method, amount, currency, status, provider, provider_ref, idempotency_key, created_by, created_at, deleted_at`

func (r *repo) FindPaymentByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*domain.Payment, error) {
	var item domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT `+paymentColumns+` FROM payments WHERE idempotency_key = ? AND deleted_at IS NULL`,
		key,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == uuid.Nil {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) ListPayments(ctx context.Context, db *gorm.DB, folioID uuid.UUID) ([]domain.Payment, error) {
	var items []domain.Payment
	err := db.WithContext(ctx).Raw(
		`SELECT `+paymentColumns+` FROM payments WHERE folio_id = ? AND deleted_at IS NULL ORDER BY created_at ASC, id ASC`,
		folioID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
