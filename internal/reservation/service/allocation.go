package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/apperror"
	catalogdomain "github.com/hengly4433/hotel-system/internal/catalog/domain"
	foliodomain "github.com/hengly4433/hotel-system/internal/folio/domain"
	"github.com/hengly4433/hotel-system/internal/observability/metrics"
	ratedomain "github.com/hengly4433/hotel-system/internal/rate/domain"
	reservationdomain "github.com/hengly4433/hotel-system/internal/reservation/domain"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	pkgdb "github.com/hengly4433/hotel-system/pkg/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// line is a validated room request with its catalog rows loaded.
type line struct {
	req        reservationdomain.RoomRequest
	roomType   *catalogdomain.RoomType
	ratePlan   *catalogdomain.RatePlan
	room       *catalogdomain.Room
	allocation reservationdomain.Allocation
}

func (s *Service) resolveLines(ctx context.Context, tx *gorm.DB, propertyID uuid.UUID, reqs []reservationdomain.RoomRequest) ([]line, error) {
	out := make([]line, 0, len(reqs))
	for _, req := range reqs {
		ratePlan, err := s.catalog.FindRatePlan(ctx, tx, req.RatePlanID)
		if err != nil {
			return nil, err
		}
		if ratePlan == nil {
			return nil, reservationdomain.ErrRatePlanNotFound
		}
		roomType, err := s.catalog.FindRoomType(ctx, tx, req.RoomTypeID)
		if err != nil {
			return nil, err
		}
		if roomType == nil {
			return nil, reservationdomain.ErrRoomTypeNotFound
		}
		if ratePlan.PropertyID != propertyID || roomType.PropertyID != propertyID {
			return nil, reservationdomain.ErrPropertyMismatch
		}

		l := line{
			req:        req,
			roomType:   roomType,
			ratePlan:   ratePlan,
			allocation: reservationdomain.AllocationOf(req.RoomID),
		}
		if assigned, ok := l.allocation.(reservationdomain.Assigned); ok {
			room, err := s.catalog.FindRoom(ctx, tx, assigned.RoomID)
			if err != nil {
				return nil, err
			}
			if room == nil || !room.IsActive {
				return nil, reservationdomain.ErrRoomNotFound
			}
			if room.PropertyID != propertyID {
				return nil, reservationdomain.ErrPropertyMismatch
			}
			if room.RoomTypeID != roomType.ID {
				return nil, reservationdomain.ErrRoomTypeMismatch
			}
			l.room = room
		}
		out = append(out, l)
	}
	return out, nil
}

// lockRoomTypes locks every room type the request touches in a fixed order so
// concurrent creates cannot deadlock on each other.
func (s *Service) lockRoomTypes(ctx context.Context, tx *gorm.DB, lines []line) error {
	seen := make(map[uuid.UUID]struct{}, len(lines))
	ids := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.roomType.ID]; ok {
			continue
		}
		seen[l.roomType.ID] = struct{}{}
		ids = append(ids, l.roomType.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	start := time.Now()
	for _, id := range ids {
		if err := s.catalog.LockRoomType(ctx, tx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reservationdomain.ErrRoomTypeNotFound
			}
			return fmt.Errorf("lock room type: %w", err)
		}
	}
	s.allocation.ObserveLockWait(time.Since(start))
	return nil
}

func (s *Service) allocateLine(ctx context.Context, tx *gorm.DB, res *reservationdomain.Reservation, l line, stay civildate.Range) (*reservationdomain.RoomDetail, []foliodomain.RoomCharge, error) {
	nightly, err := s.nightlyRates(ctx, tx, l, stay)
	if err != nil {
		return nil, nil, err
	}
	snapshot, err := json.Marshal(nightly)
	if err != nil {
		return nil, nil, fmt.Errorf("encode price snapshot: %w", err)
	}

	now := s.clock.Now()
	room := reservationdomain.ReservationRoom{
		ID:            uuid.New(),
		ReservationID: res.ID,
		RoomTypeID:    l.roomType.ID,
		RatePlanID:    l.ratePlan.ID,
		Guests:        l.req.Guests,
		PriceSnapshot: datatypes.JSON(snapshot),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	detail := &reservationdomain.RoomDetail{}
	label := l.roomType.Name
	switch a := l.allocation.(type) {
	case reservationdomain.Assigned:
		roomID := a.RoomID
		room.RoomID = &roomID
		label = l.roomType.Name + " " + l.room.RoomNumber
		if err := s.repo.InsertRoom(ctx, tx, &room); err != nil {
			return nil, nil, fmt.Errorf("insert reservation room: %w", err)
		}
		nights, err := s.holdRoom(ctx, tx, room, a, stay, nightly)
		if err != nil {
			return nil, nil, err
		}
		detail.Nights = nights
		detail.TypeNights = []reservationdomain.ReservationTypeNight{}
		s.allocation.AddNights(metrics.AllocationModeAssigned, len(nights))
	case reservationdomain.Pooled:
		if err := s.repo.InsertRoom(ctx, tx, &room); err != nil {
			return nil, nil, fmt.Errorf("insert reservation room: %w", err)
		}
		typeNights, err := s.holdPool(ctx, tx, room, stay, nightly)
		if err != nil {
			return nil, nil, err
		}
		detail.Nights = []reservationdomain.ReservationNight{}
		detail.TypeNights = typeNights
		s.allocation.AddNights(metrics.AllocationModePooled, len(typeNights))
	default:
		return nil, nil, fmt.Errorf("unknown allocation %T", l.allocation)
	}
	detail.ReservationRoom = room

	charges := make([]foliodomain.RoomCharge, 0, len(nightly))
	for _, n := range nightly {
		charges = append(charges, foliodomain.RoomCharge{
			Date:        n.Date,
			Amount:      n.Price,
			Description: fmt.Sprintf("%s night %s", label, n.Date),
		})
	}
	return detail, charges, nil
}

// nightlyRates returns one priced entry per stay date in ascending order.
func (s *Service) nightlyRates(ctx context.Context, tx *gorm.DB, l line, stay civildate.Range) ([]ratedomain.NightlyRate, error) {
	rates, err := s.rates.ResolveTx(ctx, tx, ratedomain.ResolveRequest{
		RatePlanID: l.ratePlan.ID,
		RoomTypeID: l.roomType.ID,
		Stay:       stay,
		Overrides:  l.req.NightlyRates,
	})
	if err != nil {
		return nil, fmt.Errorf("resolve rates: %w", err)
	}

	dates := stay.Dates()
	out := make([]ratedomain.NightlyRate, 0, len(dates))
	for _, date := range dates {
		rate, ok := rates[date]
		if !ok {
			return nil, reservationdomain.ErrRatePlanPriceMissing
		}
		if rate.Price.IsNegative() {
			return nil, apperror.ErrInvalidAmount
		}
		out = append(out, rate)
	}
	return out, nil
}

func (s *Service) holdRoom(ctx context.Context, tx *gorm.DB, room reservationdomain.ReservationRoom, a reservationdomain.Assigned, stay civildate.Range, nightly []ratedomain.NightlyRate) ([]reservationdomain.ReservationNight, error) {
	conflicts, err := s.availability.RoomConflictsTx(ctx, tx, a.RoomID, stay)
	if err != nil {
		return nil, fmt.Errorf("check room conflicts: %w", err)
	}
	if conflicts > 0 {
		return nil, reservationdomain.ErrRoomUnavailable
	}
	// A bound room still consumes one unit of its type on each night.
	if err := s.checkCapacity(ctx, tx, room.RoomTypeID, stay); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	nights := make([]reservationdomain.ReservationNight, 0, len(nightly))
	for _, n := range nightly {
		night := reservationdomain.ReservationNight{
			ID:                uuid.New(),
			ReservationRoomID: room.ID,
			RoomID:            a.RoomID,
			StayDate:          n.Date,
			Price:             n.Price,
			Currency:          n.Currency,
			CreatedAt:         now,
		}
		if err := s.repo.InsertNight(ctx, tx, &night); err != nil {
			if pkgdb.IsDuplicateKeyErr(err) {
				return nil, reservationdomain.ErrRoomUnavailable
			}
			return nil, fmt.Errorf("insert reservation night: %w", err)
		}
		nights = append(nights, night)
	}
	return nights, nil
}

func (s *Service) holdPool(ctx context.Context, tx *gorm.DB, room reservationdomain.ReservationRoom, stay civildate.Range, nightly []ratedomain.NightlyRate) ([]reservationdomain.ReservationTypeNight, error) {
	if err := s.checkCapacity(ctx, tx, room.RoomTypeID, stay); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	nights := make([]reservationdomain.ReservationTypeNight, 0, len(nightly))
	for _, n := range nightly {
		night := reservationdomain.ReservationTypeNight{
			ID:                uuid.New(),
			ReservationRoomID: room.ID,
			RoomTypeID:        room.RoomTypeID,
			StayDate:          n.Date,
			Price:             n.Price,
			Currency:          n.Currency,
			CreatedAt:         now,
		}
		if err := s.repo.InsertTypeNight(ctx, tx, &night); err != nil {
			return nil, fmt.Errorf("insert reservation type night: %w", err)
		}
		nights = append(nights, night)
	}
	return nights, nil
}

// checkCapacity fails unless every stay date has at least one unit of the
// room type left after assigned and pooled holds.
func (s *Service) checkCapacity(ctx context.Context, tx *gorm.DB, roomTypeID uuid.UUID, stay civildate.Range) error {
	totals, err := s.catalog.CountActiveRooms(ctx, tx, []uuid.UUID{roomTypeID})
	if err != nil {
		return fmt.Errorf("count active rooms: %w", err)
	}
	total := totals[roomTypeID]
	if total == 0 {
		return reservationdomain.ErrRoomTypeEmpty
	}

	reserved, err := s.availability.ReservedByDateTx(ctx, tx, roomTypeID, stay)
	if err != nil {
		return fmt.Errorf("count reserved nights: %w", err)
	}
	for _, date := range stay.Dates() {
		if reserved[date] >= total {
			return reservationdomain.ErrRoomTypeUnavailable
		}
	}
	return nil
}
