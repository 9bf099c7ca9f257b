package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/apperror"
	reservationdomain "github.com/hengly4433/hotel-system/internal/reservation/domain"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	"github.com/hengly4433/hotel-system/pkg/db/pagination"
	"gorm.io/gorm"
)

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*reservationdomain.Detail, error) {
	res, err := s.repo.FindReservation(ctx, s.db, id, false)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, apperror.ErrNotFound
	}
	return s.detailOf(ctx, s.db, res)
}

func (s *Service) List(ctx context.Context, req reservationdomain.ListRequest) (reservationdomain.ListResponse, error) {
	cursor, err := pagination.DecodePosition(req.PageToken)
	if err != nil {
		return reservationdomain.ListResponse{}, reservationdomain.ErrInvalidPageToken
	}

	status := reservationdomain.Status(strings.ToUpper(strings.TrimSpace(string(req.Status))))
	if status != "" && !knownStatus(status) {
		return reservationdomain.ListResponse{}, reservationdomain.ErrInvalidListFilter
	}

	stay := civildate.Range{From: req.From, To: req.To}
	if (!req.From.IsZero() || !req.To.IsZero()) && !stay.Valid() {
		return reservationdomain.ListResponse{}, apperror.ErrInvalidDates
	}

	limit := req.Limit()
	items, err := s.repo.ListReservations(ctx, s.db, reservationdomain.ListFilter{
		PropertyID: req.PropertyID,
		GuestID:    req.GuestID,
		Status:     status,
		Stay:       stay,
		Cursor:     cursor,
		Limit:      limit,
	})
	if err != nil {
		return reservationdomain.ListResponse{}, err
	}

	items, pageInfo := pagination.Page(items, limit, func(item reservationdomain.Reservation) (string, time.Time) {
		return item.ID.String(), item.CreatedAt
	})

	details, err := s.assemble(ctx, s.db, items)
	if err != nil {
		return reservationdomain.ListResponse{}, err
	}
	return reservationdomain.ListResponse{PageInfo: pageInfo, Reservations: details}, nil
}

func (s *Service) ListByGuest(ctx context.Context, guestID uuid.UUID, req reservationdomain.ListRequest) (reservationdomain.ListResponse, error) {
	guest, err := s.catalog.FindGuest(ctx, s.db, guestID)
	if err != nil {
		return reservationdomain.ListResponse{}, err
	}
	if guest == nil {
		return reservationdomain.ListResponse{}, apperror.ErrNotFound
	}
	req.GuestID = guestID
	return s.List(ctx, req)
}

func (s *Service) detailOf(ctx context.Context, db *gorm.DB, res *reservationdomain.Reservation) (*reservationdomain.Detail, error) {
	details, err := s.assemble(ctx, db, []reservationdomain.Reservation{*res})
	if err != nil {
		return nil, err
	}
	detail := details[0]

	folio, err := s.folios.FindByReservationTx(ctx, db, res.ID)
	if err != nil {
		return nil, err
	}
	detail.Folio = folio
	return &detail, nil
}

// assemble loads rooms and nights for a batch of reservations by id.
func (s *Service) assemble(ctx context.Context, db *gorm.DB, reservations []reservationdomain.Reservation) ([]reservationdomain.Detail, error) {
	out := make([]reservationdomain.Detail, 0, len(reservations))
	if len(reservations) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, 0, len(reservations))
	for _, r := range reservations {
		ids = append(ids, r.ID)
	}
	rooms, err := s.repo.ListRooms(ctx, db, ids)
	if err != nil {
		return nil, err
	}

	roomIDs := make([]uuid.UUID, 0, len(rooms))
	for _, room := range rooms {
		roomIDs = append(roomIDs, room.ID)
	}
	nights, err := s.repo.ListNights(ctx, db, roomIDs)
	if err != nil {
		return nil, err
	}
	typeNights, err := s.repo.ListTypeNights(ctx, db, roomIDs)
	if err != nil {
		return nil, err
	}

	nightsByRoom := make(map[uuid.UUID][]reservationdomain.ReservationNight, len(rooms))
	for _, n := range nights {
		nightsByRoom[n.ReservationRoomID] = append(nightsByRoom[n.ReservationRoomID], n)
	}
	typeNightsByRoom := make(map[uuid.UUID][]reservationdomain.ReservationTypeNight, len(rooms))
	for _, n := range typeNights {
		typeNightsByRoom[n.ReservationRoomID] = append(typeNightsByRoom[n.ReservationRoomID], n)
	}
	roomsByReservation := make(map[uuid.UUID][]reservationdomain.RoomDetail, len(reservations))
	for _, room := range rooms {
		detail := reservationdomain.RoomDetail{
			ReservationRoom: room,
			Nights:          nightsByRoom[room.ID],
			TypeNights:      typeNightsByRoom[room.ID],
		}
		if detail.Nights == nil {
			detail.Nights = []reservationdomain.ReservationNight{}
		}
		if detail.TypeNights == nil {
			detail.TypeNights = []reservationdomain.ReservationTypeNight{}
		}
		roomsByReservation[room.ReservationID] = append(roomsByReservation[room.ReservationID], detail)
	}

	for _, r := range reservations {
		rooms := roomsByReservation[r.ID]
		if rooms == nil {
			rooms = []reservationdomain.RoomDetail{}
		}
		out = append(out, reservationdomain.Detail{Reservation: r, Rooms: rooms})
	}
	return out, nil
}

func knownStatus(status reservationdomain.Status) bool {
	switch status {
	case reservationdomain.StatusHold,
		reservationdomain.StatusConfirmed,
		reservationdomain.StatusCheckedIn,
		reservationdomain.StatusCheckedOut,
		reservationdomain.StatusCancelled,
		reservationdomain.StatusNoShow:
		return true
	}
	return false
}
