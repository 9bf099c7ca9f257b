package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/apperror"
	availabilitydomain "github.com/hengly4433/hotel-system/internal/availability/domain"
	catalogdomain "github.com/hengly4433/hotel-system/internal/catalog/domain"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    availabilitydomain.Repository
	Catalog catalogdomain.Repository
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    availabilitydomain.Repository
	catalog catalogdomain.Repository
}

func NewService(p Params) availabilitydomain.Calculator {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("availability.service"),
		repo:    p.Repo,
		catalog: p.Catalog,
	}
}

func (s *Service) CheckRoom(ctx context.Context, roomID uuid.UUID, stay civildate.Range) (*availabilitydomain.RoomAvailability, error) {
	if !stay.Valid() {
		return nil, apperror.ErrInvalidDates
	}
	if roomID == uuid.Nil {
		return nil, apperror.ErrInvalidRequest
	}

	room, err := s.catalog.FindRoom(ctx, s.db, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, apperror.ErrNotFound
	}

	count, err := s.repo.CountRoomNights(ctx, s.db, roomID, stay)
	if err != nil {
		return nil, err
	}

	return &availabilitydomain.RoomAvailability{
		RoomID:    roomID,
		From:      stay.From,
		To:        stay.To,
		Available: count == 0,
	}, nil
}

func (s *Service) CheckRoomTypes(ctx context.Context, propertyID uuid.UUID, stay civildate.Range) ([]availabilitydomain.RoomTypeAvailability, error) {
	if !stay.Valid() {
		return nil, apperror.ErrInvalidDates
	}
	if propertyID == uuid.Nil {
		return nil, apperror.ErrPropertyRequired
	}

	property, err := s.catalog.FindProperty(ctx, s.db, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperror.ErrNotFound
	}

	roomTypes, err := s.catalog.ListRoomTypes(ctx, s.db, propertyID)
	if err != nil {
		return nil, err
	}
	if len(roomTypes) == 0 {
		return []availabilitydomain.RoomTypeAvailability{}, nil
	}

	ids := make([]uuid.UUID, 0, len(roomTypes))
	for _, rt := range roomTypes {
		ids = append(ids, rt.ID)
	}

	totals, err := s.catalog.CountActiveRooms(ctx, s.db, ids)
	if err != nil {
		return nil, fmt.Errorf("count active rooms: %w", err)
	}
	reserved, err := s.reservedByTypeAndDate(ctx, s.db, ids, stay)
	if err != nil {
		return nil, err
	}

	dates := stay.Dates()
	out := make([]availabilitydomain.RoomTypeAvailability, 0, len(roomTypes))
	for _, rt := range roomTypes {
		total := totals[rt.ID]
		perDate := make([]availabilitydomain.DateAvailability, 0, len(dates))
		for _, d := range dates {
			held := reserved[rt.ID][d]
			perDate = append(perDate, availabilitydomain.DateAvailability{
				Date:      d,
				Reserved:  held,
				Available: max(total-held, 0),
			})
		}
		out = append(out, availabilitydomain.RoomTypeAvailability{
			RoomTypeID: rt.ID,
			Name:       rt.Name,
			Code:       rt.Code,
			TotalRooms: total,
			Dates:      perDate,
		})
	}
	return out, nil
}

func (s *Service) RoomConflictsTx(ctx context.Context, tx *gorm.DB, roomID uuid.UUID, stay civildate.Range) (int64, error) {
	return s.repo.CountRoomNights(ctx, tx, roomID, stay)
}

func (s *Service) ReservedByDateTx(ctx context.Context, tx *gorm.DB, roomTypeID uuid.UUID, stay civildate.Range) (map[civildate.Date]int64, error) {
	reserved, err := s.reservedByTypeAndDate(ctx, tx, []uuid.UUID{roomTypeID}, stay)
	if err != nil {
		return nil, err
	}
	if byDate, ok := reserved[roomTypeID]; ok {
		return byDate, nil
	}
	return map[civildate.Date]int64{}, nil
}

func (s *Service) reservedByTypeAndDate(ctx context.Context, db *gorm.DB, roomTypeIDs []uuid.UUID, stay civildate.Range) (map[uuid.UUID]map[civildate.Date]int64, error) {
	assigned, err := s.repo.AssignedNightsByType(ctx, db, roomTypeIDs, stay)
	if err != nil {
		return nil, fmt.Errorf("count assigned nights: %w", err)
	}
	pooled, err := s.repo.PooledNightsByType(ctx, db, roomTypeIDs, stay)
	if err != nil {
		return nil, fmt.Errorf("count pooled nights: %w", err)
	}

	out := make(map[uuid.UUID]map[civildate.Date]int64, len(roomTypeIDs))
	add := func(rows []availabilitydomain.NightCount) {
		for _, row := range rows {
			byDate, ok := out[row.RoomTypeID]
			if !ok {
				byDate = make(map[civildate.Date]int64)
				out[row.RoomTypeID] = byDate
			}
			byDate[row.StayDate] += row.Count
		}
	}
	add(assigned)
	add(pooled)
	return out, nil
}
