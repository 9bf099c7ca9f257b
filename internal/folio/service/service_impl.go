package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/actorcontext"
	"github.com/hengly4433/hotel-system/internal/apperror"
	auditdomain "github.com/hengly4433/hotel-system/internal/audit/domain"
	"github.com/hengly4433/hotel-system/internal/audit/masking"
	"github.com/hengly4433/hotel-system/internal/clock"
	"github.com/hengly4433/hotel-system/internal/config"
	foliodomain "github.com/hengly4433/hotel-system/internal/folio/domain"
	"github.com/hengly4433/hotel-system/internal/observability/metrics"
	"github.com/hengly4433/hotel-system/internal/providers/pdf"
	taxdomain "github.com/hengly4433/hotel-system/internal/tax/domain"
	taxservice "github.com/hengly4433/hotel-system/internal/tax/service"
	pkgdb "github.com/hengly4433/hotel-system/pkg/db"
	"github.com/hengly4433/hotel-system/pkg/db/pagination"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Repo    foliodomain.Repository
	Taxes   taxdomain.Resolver
	Audit   auditdomain.Service
	PDF     pdf.Provider         `optional:"true"`
	Metrics *metrics.Metrics     `optional:"true"`
	Policy  *config.PolicyHolder `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	repo    foliodomain.Repository
	taxes   taxdomain.Resolver
	audit   auditdomain.Service
	pdf     pdf.Provider
	metrics *metrics.Metrics
	policy  *config.PolicyHolder
}

func NewService(p Params) foliodomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("folio.service"),
		clock:   p.Clock,
		repo:    p.Repo,
		taxes:   p.Taxes,
		audit:   p.Audit,
		pdf:     p.PDF,
		metrics: p.Metrics,
		policy:  p.Policy,
	}
}

var one = decimal.NewFromInt(1)

func (s *Service) OpenTx(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID, currency string) (*foliodomain.Folio, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.policy.Get().DefaultCurrency
	}

	now := s.clock.Now()
	folio := &foliodomain.Folio{
		ID:            uuid.New(),
		ReservationID: reservationID,
		Status:        foliodomain.StatusOpen,
		Currency:      currency,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.InsertFolio(ctx, tx, folio); err != nil {
		return nil, fmt.Errorf("insert folio: %w", err)
	}
	return folio, nil
}

func (s *Service) PostRoomChargesTx(ctx context.Context, tx *gorm.DB, folio *foliodomain.Folio, charges []foliodomain.RoomCharge) ([]foliodomain.FolioItem, error) {
	if folio.Status != foliodomain.StatusOpen {
		return nil, foliodomain.ErrFolioClosed
	}

	now := s.clock.Now()
	items := make([]foliodomain.FolioItem, 0, len(charges))
	for _, charge := range charges {
		if charge.Amount.IsNegative() {
			return nil, apperror.ErrInvalidAmount
		}
		description := strings.TrimSpace(charge.Description)
		if description == "" {
			description = "Room charge " + charge.Date.String()
		}
		amount := taxservice.Round2(charge.Amount)
		item := foliodomain.FolioItem{
			ID:          uuid.New(),
			FolioID:     folio.ID,
			ItemType:    foliodomain.ItemTypeRoomCharge,
			Description: description,
			Quantity:    one,
			UnitPrice:   amount,
			Amount:      amount,
			PostedAt:    now,
		}
		if err := s.repo.InsertItem(ctx, tx, &item); err != nil {
			return nil, fmt.Errorf("insert room charge: %w", err)
		}
		items = append(items, item)
	}

	s.metrics.RecordFolioItems(ctx, string(foliodomain.ItemTypeRoomCharge), len(items))
	return items, nil
}

func (s *Service) ApplyTaxesAndFeesTx(ctx context.Context, tx *gorm.DB, folio *foliodomain.Folio, propertyID uuid.UUID, roomCharges []foliodomain.FolioItem) ([]foliodomain.FolioItem, error) {
	if folio.Status != foliodomain.StatusOpen {
		return nil, foliodomain.ErrFolioClosed
	}

	roomTotal := decimal.Zero
	nights := 0
	for _, item := range roomCharges {
		if item.ItemType != foliodomain.ItemTypeRoomCharge {
			continue
		}
		roomTotal = roomTotal.Add(item.Amount)
		nights++
	}
	if roomTotal.IsZero() {
		return nil, nil
	}

	defs, err := s.taxes.ResolveForRoomCharges(ctx, tx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("resolve taxes: %w", err)
	}

	now := s.clock.Now()
	posted := make([]foliodomain.FolioItem, 0, len(defs))
	for _, def := range defs {
		quantity, unitPrice, amount := taxLine(def, roomTotal, nights)
		if !amount.IsPositive() {
			continue
		}

		itemType := foliodomain.ItemTypeTax
		if def.Category == taxdomain.CategoryFee {
			itemType = foliodomain.ItemTypeFee
		}
		item := foliodomain.FolioItem{
			ID:          uuid.New(),
			FolioID:     folio.ID,
			ItemType:    itemType,
			Description: def.Name,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Amount:      amount,
			PostedAt:    now,
		}
		if err := s.repo.InsertItem(ctx, tx, &item); err != nil {
			return nil, fmt.Errorf("insert %s item: %w", strings.ToLower(string(itemType)), err)
		}
		posted = append(posted, item)
		s.metrics.RecordFolioItems(ctx, string(itemType), 1)
	}
	return posted, nil
}

// taxLine prices one definition against the stay's room revenue.
func taxLine(def taxdomain.TaxFee, roomTotal decimal.Decimal, nights int) (quantity, unitPrice, amount decimal.Decimal) {
	if def.CalcType == taxdomain.CalcTypePercent {
		amount = taxservice.ComputePercent(roomTotal, def.Value)
		return one, amount, amount
	}
	quantity = decimal.NewFromInt(int64(nights))
	unitPrice = taxservice.Round2(def.Value)
	return quantity, unitPrice, taxservice.ComputeFlat(unitPrice, quantity)
}

func (s *Service) FindByReservationTx(ctx context.Context, tx *gorm.DB, reservationID uuid.UUID) (*foliodomain.Folio, error) {
	return s.repo.FindFolioByReservation(ctx, tx, reservationID)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*foliodomain.Detail, error) {
	folio, err := s.repo.FindFolio(ctx, s.db, id, false)
	if err != nil {
		return nil, err
	}
	if folio == nil {
		return nil, apperror.ErrNotFound
	}
	return s.detail(ctx, s.db, folio)
}

func (s *Service) GetByReservation(ctx context.Context, reservationID uuid.UUID) (*foliodomain.Detail, error) {
	folio, err := s.repo.FindFolioByReservation(ctx, s.db, reservationID)
	if err != nil {
		return nil, err
	}
	if folio == nil {
		return nil, apperror.ErrNotFound
	}
	return s.detail(ctx, s.db, folio)
}

func (s *Service) List(ctx context.Context, req foliodomain.ListRequest) (foliodomain.ListResponse, error) {
	cursor, err := pagination.DecodePosition(req.PageToken)
	if err != nil {
		return foliodomain.ListResponse{}, foliodomain.ErrInvalidPageToken
	}
	status := foliodomain.Status(strings.ToUpper(strings.TrimSpace(string(req.Status))))
	if status != "" && status != foliodomain.StatusOpen && status != foliodomain.StatusClosed {
		return foliodomain.ListResponse{}, apperror.ErrInvalidRequest
	}

	limit := req.Limit()
	items, err := s.repo.ListFolios(ctx, s.db, foliodomain.ListFilter{
		ReservationID: req.ReservationID,
		Status:        status,
		Cursor:        cursor,
		Limit:         limit,
	})
	if err != nil {
		return foliodomain.ListResponse{}, err
	}

	items, pageInfo := pagination.Page(items, limit, func(item foliodomain.Folio) (string, time.Time) {
		return item.ID.String(), item.CreatedAt
	})
	if items == nil {
		items = []foliodomain.Folio{}
	}
	return foliodomain.ListResponse{PageInfo: pageInfo, Folios: items}, nil
}

func (s *Service) AddItem(ctx context.Context, folioID uuid.UUID, req foliodomain.AddItemRequest) (*foliodomain.FolioItem, error) {
	itemType := foliodomain.ItemType(strings.ToUpper(strings.TrimSpace(string(req.ItemType))))
	if !itemType.Valid() {
		return nil, foliodomain.ErrInvalidItemType
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, foliodomain.ErrDescriptionRequired
	}
	quantity := one
	if req.Quantity != nil {
		quantity = req.Quantity.Round(4)
	}
	if quantity.IsNegative() || req.UnitPrice.IsNegative() {
		return nil, apperror.ErrInvalidAmount
	}

	unitPrice := taxservice.Round2(req.UnitPrice)
	item := foliodomain.FolioItem{
		ID:          uuid.New(),
		FolioID:     folioID,
		ItemType:    itemType,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      taxservice.ComputeFlat(unitPrice, quantity),
		PostedAt:    s.clock.Now(),
		PostedBy:    actorcontext.ActorID(ctx),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockOpenFolio(ctx, tx, folioID); err != nil {
			return err
		}
		return s.repo.InsertItem(ctx, tx, &item)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordFolioItems(ctx, string(itemType), 1)
	s.record(ctx, auditdomain.Entry{
		EntityType: auditdomain.EntityFolioItem,
		EntityID:   item.ID,
		Action:     auditdomain.ActionCreate,
		After:      item,
	})
	return &item, nil
}

func (s *Service) AddPayment(ctx context.Context, folioID uuid.UUID, req foliodomain.AddPaymentRequest) (*foliodomain.Payment, error) {
	var payment foliodomain.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		folio, err := s.lockOpenFolio(ctx, tx, folioID)
		if err != nil {
			return err
		}

		payment, err = s.newPayment(ctx, folio, req)
		if err != nil {
			return err
		}

		existing, err := s.repo.FindPaymentByIdempotencyKey(ctx, tx, payment.IdempotencyKey)
		if err != nil {
			return err
		}
		if existing != nil {
			return foliodomain.ErrPaymentDuplicate
		}

		if err := s.repo.InsertPayment(ctx, tx, &payment); err != nil {
			if pkgdb.IsDuplicateKeyErr(err) {
				return foliodomain.ErrPaymentDuplicate
			}
			return fmt.Errorf("insert payment: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, foliodomain.ErrPaymentDuplicate) {
			s.log.Info("duplicate payment rejected",
				zap.String("folio_id", folioID.String()),
				zap.String("idempotency_key", payment.IdempotencyKey),
			)
		}
		return nil, err
	}

	s.metrics.RecordPayment(ctx, payment.Method, string(payment.Status))
	audited := payment
	audited.ProviderRef = masking.MaskReferencePtr(payment.ProviderRef)
	s.record(ctx, auditdomain.Entry{
		EntityType: auditdomain.EntityPayment,
		EntityID:   payment.ID,
		Action:     auditdomain.ActionCreate,
		After:      audited,
	})
	return &payment, nil
}

func (s *Service) newPayment(ctx context.Context, folio *foliodomain.Folio, req foliodomain.AddPaymentRequest) (foliodomain.Payment, error) {
	if req.Amount.IsNegative() {
		return foliodomain.Payment{}, apperror.ErrInvalidAmount
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		return foliodomain.Payment{}, foliodomain.ErrMethodRequired
	}

	status := foliodomain.PaymentStatus(strings.ToUpper(strings.TrimSpace(string(req.Status))))
	if status == "" {
		status = foliodomain.PaymentAuthorized
	}
	if !status.Valid() {
		return foliodomain.Payment{}, foliodomain.ErrInvalidStatus
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = folio.Currency
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = ulid.MustNew(ulid.Timestamp(s.clock.Now()), rand.Reader).String()
	}

	return foliodomain.Payment{
		ID:             uuid.New(),
		FolioID:        folio.ID,
		Method:         method,
		Amount:         taxservice.Round2(req.Amount),
		Currency:       currency,
		Status:         status,
		Provider:       trimmed(req.Provider),
		ProviderRef:    trimmed(req.ProviderRef),
		IdempotencyKey: key,
		CreatedBy:      actorcontext.ActorID(ctx),
		CreatedAt:      s.clock.Now(),
	}, nil
}

func (s *Service) Close(ctx context.Context, folioID uuid.UUID) (*foliodomain.Detail, error) {
	var (
		detail *foliodomain.Detail
		closed bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		folio, err := s.repo.FindFolio(ctx, tx, folioID, true)
		if err != nil {
			return err
		}
		if folio == nil {
			return apperror.ErrNotFound
		}

		if folio.Status != foliodomain.StatusClosed {
			now := s.clock.Now()
			folio.Status = foliodomain.StatusClosed
			folio.ClosedAt = &now
			folio.UpdatedAt = now
			if err := s.repo.CloseFolio(ctx, tx, folio); err != nil {
				return err
			}
			closed = true
		}

		detail, err = s.detail(ctx, tx, folio)
		return err
	})
	if err != nil {
		return nil, err
	}

	if closed {
		s.record(ctx, auditdomain.Entry{
			EntityType: auditdomain.EntityFolio,
			EntityID:   detail.ID,
			Action:     auditdomain.ActionClose,
			Before:     map[string]any{"status": foliodomain.StatusOpen},
			After: map[string]any{
				"status":  foliodomain.StatusClosed,
				"balance": detail.Balance,
			},
		})
	}
	return detail, nil
}

func (s *Service) lockOpenFolio(ctx context.Context, tx *gorm.DB, folioID uuid.UUID) (*foliodomain.Folio, error) {
	folio, err := s.repo.FindFolio(ctx, tx, folioID, true)
	if err != nil {
		return nil, err
	}
	if folio == nil {
		return nil, apperror.ErrNotFound
	}
	if folio.Status != foliodomain.StatusOpen {
		return nil, foliodomain.ErrFolioClosed
	}
	return folio, nil
}

func (s *Service) detail(ctx context.Context, db *gorm.DB, folio *foliodomain.Folio) (*foliodomain.Detail, error) {
	items, err := s.repo.ListItems(ctx, db, folio.ID)
	if err != nil {
		return nil, err
	}
	payments, err := s.repo.ListPayments(ctx, db, folio.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []foliodomain.FolioItem{}
	}
	if payments == nil {
		payments = []foliodomain.Payment{}
	}

	totalCharges := decimal.Zero
	for _, item := range items {
		totalCharges = totalCharges.Add(item.Amount)
	}
	totalPayments := decimal.Zero
	for _, p := range payments {
		if p.Status.Applied() {
			totalPayments = totalPayments.Add(p.Amount)
		}
	}

	return &foliodomain.Detail{
		Folio:         *folio,
		Items:         items,
		Payments:      payments,
		TotalCharges:  totalCharges,
		TotalPayments: totalPayments,
		Balance:       totalCharges.Sub(totalPayments),
	}, nil
}

func (s *Service) record(ctx context.Context, entry auditdomain.Entry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.log.Warn("audit write failed",
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID.String()),
			zap.String("action", entry.Action),
			zap.Error(err),
		)
	}
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		return nil
	}
	return &v
}
