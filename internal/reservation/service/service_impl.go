package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/actorcontext"
	"github.com/hengly4433/hotel-system/internal/apperror"
	auditdomain "github.com/hengly4433/hotel-system/internal/audit/domain"
	availabilitydomain "github.com/hengly4433/hotel-system/internal/availability/domain"
	catalogdomain "github.com/hengly4433/hotel-system/internal/catalog/domain"
	"github.com/hengly4433/hotel-system/internal/clock"
	"github.com/hengly4433/hotel-system/internal/config"
	foliodomain "github.com/hengly4433/hotel-system/internal/folio/domain"
	"github.com/hengly4433/hotel-system/internal/observability/metrics"
	ratedomain "github.com/hengly4433/hotel-system/internal/rate/domain"
	reservationdomain "github.com/hengly4433/hotel-system/internal/reservation/domain"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	pkgdb "github.com/hengly4433/hotel-system/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         reservationdomain.Repository
	Catalog      catalogdomain.Repository
	Rates        ratedomain.Lookup
	Availability availabilitydomain.Calculator
	Folios       foliodomain.Service
	Audit        auditdomain.Service
	Policy       *config.PolicyHolder       `optional:"true"`
	Metrics      *metrics.Metrics           `optional:"true"`
	Allocation   *metrics.AllocationMetrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clock        clock.Clock
	repo         reservationdomain.Repository
	catalog      catalogdomain.Repository
	rates        ratedomain.Lookup
	availability availabilitydomain.Calculator
	folios       foliodomain.Service
	audit        auditdomain.Service
	policy       *config.PolicyHolder
	metrics      *metrics.Metrics
	allocation   *metrics.AllocationMetrics
}

func NewService(p Params) reservationdomain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("reservation.service"),
		genID:        p.GenID,
		clock:        p.Clock,
		repo:         p.Repo,
		catalog:      p.Catalog,
		rates:        p.Rates,
		availability: p.Availability,
		folios:       p.Folios,
		audit:        p.Audit,
		policy:       p.Policy,
		metrics:      p.Metrics,
		allocation:   p.Allocation,
	}
}

func (s *Service) Create(ctx context.Context, req reservationdomain.CreateRequest) (*reservationdomain.Detail, error) {
	policy := s.policy.Get()

	stay := civildate.Range{From: req.CheckInDate, To: req.CheckOutDate}
	if !stay.Valid() || stay.Nights() > policy.MaxStayNights {
		return nil, apperror.ErrInvalidDates
	}
	if req.PropertyID == uuid.Nil {
		return nil, apperror.ErrPropertyRequired
	}
	if len(req.Rooms) == 0 {
		return nil, reservationdomain.ErrRoomsRequired
	}
	if req.Adults < 1 || req.Children < 0 {
		return nil, reservationdomain.ErrInvalidOccupancy
	}
	for _, line := range req.Rooms {
		if line.Guests < 0 {
			return nil, reservationdomain.ErrInvalidOccupancy
		}
	}

	status := reservationdomain.Status(strings.ToUpper(strings.TrimSpace(string(req.Status))))
	if status == "" {
		status = reservationdomain.Status(policy.DefaultStatus)
	}
	if !status.Initial() {
		return nil, reservationdomain.ErrInvalidStatus
	}
	channel := reservationdomain.Channel(strings.ToUpper(strings.TrimSpace(string(req.Channel))))
	if channel == "" {
		channel = reservationdomain.ChannelDirect
	}
	if !channel.Valid() {
		return nil, reservationdomain.ErrInvalidChannel
	}

	property, err := s.catalog.FindProperty(ctx, s.db, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperror.ErrPropertyRequired
	}
	guest, err := s.catalog.FindGuest(ctx, s.db, req.PrimaryGuestID)
	if err != nil {
		return nil, err
	}
	if guest == nil {
		return nil, reservationdomain.ErrGuestNotFound
	}

	now := s.clock.Now()
	res := reservationdomain.Reservation{
		ID:              uuid.New(),
		PropertyID:      req.PropertyID,
		PrimaryGuestID:  req.PrimaryGuestID,
		Code:            strings.TrimSpace(req.Code),
		Status:          status,
		Channel:         channel,
		CheckInDate:     stay.From,
		CheckOutDate:    stay.To,
		Adults:          req.Adults,
		Children:        req.Children,
		SpecialRequests: trimmed(req.SpecialRequests),
		CreatedBy:       actorcontext.ActorID(ctx),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var detail *reservationdomain.Detail
	start := time.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		detail, err = s.createTx(ctx, tx, &res, req.Rooms, stay, policy)
		return err
	})
	s.allocation.ObserveTx(start, err)
	if err != nil {
		s.recordConflict(ctx, err)
		s.log.Info("reservation create rejected",
			zap.String("property_id", req.PropertyID.String()),
			zap.String("check_in", stay.From.String()),
			zap.String("check_out", stay.To.String()),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.RecordReservationCreated(ctx, string(channel))
	s.record(ctx, auditdomain.Entry{
		PropertyID: &res.PropertyID,
		EntityType: auditdomain.EntityReservation,
		EntityID:   res.ID,
		Action:     auditdomain.ActionCreate,
		After:      detail,
	})
	s.log.Info("reservation created",
		zap.String("reservation_id", res.ID.String()),
		zap.String("code", res.Code),
		zap.Int("rooms", len(detail.Rooms)),
	)
	return detail, nil
}

func (s *Service) createTx(ctx context.Context, tx *gorm.DB, res *reservationdomain.Reservation, lines []reservationdomain.RoomRequest, stay civildate.Range, policy config.ReservationPolicy) (*reservationdomain.Detail, error) {
	if res.Code == "" {
		res.Code = policy.CodePrefix + s.genID.Generate().String()
	} else {
		exists, err := s.repo.CodeExists(ctx, tx, res.Code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, reservationdomain.ErrCodeExists
		}
	}
	if err := s.repo.InsertReservation(ctx, tx, res); err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, reservationdomain.ErrCodeExists
		}
		return nil, fmt.Errorf("insert reservation: %w", err)
	}

	resolved, err := s.resolveLines(ctx, tx, res.PropertyID, lines)
	if err != nil {
		return nil, err
	}
	if err := s.lockRoomTypes(ctx, tx, resolved); err != nil {
		return nil, err
	}

	detail := &reservationdomain.Detail{
		Reservation: *res,
		Rooms:       make([]reservationdomain.RoomDetail, 0, len(resolved)),
	}
	charges := make([]foliodomain.RoomCharge, 0, len(resolved)*stay.Nights())
	for _, line := range resolved {
		room, lineCharges, err := s.allocateLine(ctx, tx, res, line, stay)
		if err != nil {
			return nil, err
		}
		detail.Rooms = append(detail.Rooms, *room)
		charges = append(charges, lineCharges...)
	}

	folio, err := s.folios.OpenTx(ctx, tx, res.ID, policy.DefaultCurrency)
	if err != nil {
		return nil, err
	}
	roomItems, err := s.folios.PostRoomChargesTx(ctx, tx, folio, charges)
	if err != nil {
		return nil, err
	}
	if _, err := s.folios.ApplyTaxesAndFeesTx(ctx, tx, folio, res.PropertyID, roomItems); err != nil {
		return nil, err
	}
	detail.Folio = folio
	return detail, nil
}

func (s *Service) recordConflict(ctx context.Context, err error) {
	for _, conflict := range []*apperror.Error{
		reservationdomain.ErrRoomUnavailable,
		reservationdomain.ErrRoomTypeUnavailable,
		reservationdomain.ErrRoomTypeEmpty,
	} {
		if errors.Is(err, conflict) {
			s.metrics.RecordInventoryConflict(ctx, conflict.Code)
			return
		}
	}
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
