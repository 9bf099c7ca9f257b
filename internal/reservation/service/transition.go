package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/apperror"
	auditdomain "github.com/hengly4433/hotel-system/internal/audit/domain"
	reservationdomain "github.com/hengly4433/hotel-system/internal/reservation/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) Update(ctx context.Context, id uuid.UUID, req reservationdomain.UpdateRequest) (*reservationdomain.Detail, error) {
	if req.Adults != nil && *req.Adults < 1 {
		return nil, reservationdomain.ErrInvalidOccupancy
	}
	if req.Children != nil && *req.Children < 0 {
		return nil, reservationdomain.ErrInvalidOccupancy
	}

	var (
		before reservationdomain.Reservation
		detail *reservationdomain.Detail
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := s.repo.FindReservation(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if res == nil {
			return apperror.ErrNotFound
		}
		before = *res

		if req.PrimaryGuestID != nil && *req.PrimaryGuestID != res.PrimaryGuestID {
			guest, err := s.catalog.FindGuest(ctx, tx, *req.PrimaryGuestID)
			if err != nil {
				return err
			}
			if guest == nil {
				return reservationdomain.ErrGuestNotFound
			}
			res.PrimaryGuestID = guest.ID
		}
		if req.Adults != nil {
			res.Adults = *req.Adults
		}
		if req.Children != nil {
			res.Children = *req.Children
		}
		if req.SpecialRequests != nil {
			res.SpecialRequests = trimmed(req.SpecialRequests)
		}
		res.UpdatedAt = s.clock.Now()

		if err := s.repo.UpdateDetails(ctx, tx, res); err != nil {
			return err
		}
		detail, err = s.detailOf(ctx, tx, res)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, auditdomain.Entry{
		PropertyID: &detail.PropertyID,
		EntityType: auditdomain.EntityReservation,
		EntityID:   detail.ID,
		Action:     auditdomain.ActionUpdate,
		Before:     before,
		After:      detail.Reservation,
	})
	return detail, nil
}

func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*reservationdomain.Detail, error) {
	return s.transition(ctx, id, reservationdomain.StatusConfirmed, auditdomain.ActionConfirm, false, "")
}

func (s *Service) CheckIn(ctx context.Context, id uuid.UUID) (*reservationdomain.Detail, error) {
	return s.transition(ctx, id, reservationdomain.StatusCheckedIn, auditdomain.ActionCheckIn, false, "")
}

func (s *Service) CheckOut(ctx context.Context, id uuid.UUID) (*reservationdomain.Detail, error) {
	return s.transition(ctx, id, reservationdomain.StatusCheckedOut, auditdomain.ActionCheckOut, false, "")
}

// Cancel releases every held night. Folio items already posted stay.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req reservationdomain.CancelRequest) (*reservationdomain.Detail, error) {
	return s.transition(ctx, id, reservationdomain.StatusCancelled, auditdomain.ActionCancel, true, req.Reason)
}

func (s *Service) MarkNoShow(ctx context.Context, id uuid.UUID) (*reservationdomain.Detail, error) {
	return s.transition(ctx, id, reservationdomain.StatusNoShow, auditdomain.ActionNoShow, true, "")
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to reservationdomain.Status, action string, release bool, reason string) (*reservationdomain.Detail, error) {
	var (
		from     reservationdomain.Status
		released int64
		detail   *reservationdomain.Detail
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res, err := s.repo.FindReservation(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if res == nil {
			return apperror.ErrNotFound
		}
		from = res.Status
		if !reservationdomain.CanTransition(from, to) {
			return reservationdomain.ErrInvalidStatusTransition
		}

		now := s.clock.Now()
		if err := s.repo.UpdateStatus(ctx, tx, res.ID, to, now); err != nil {
			return err
		}
		if release {
			released, err = s.repo.ReleaseNights(ctx, tx, res.ID, now)
			if err != nil {
				return err
			}
		}
		res.Status = to
		res.UpdatedAt = now

		detail, err = s.detailOf(ctx, tx, res)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordTransition(ctx, string(from), string(to))
	after := map[string]any{"status": to}
	if release {
		after["released_nights"] = released
	}
	if reason != "" {
		after["reason"] = reason
	}
	s.record(ctx, auditdomain.Entry{
		PropertyID: &detail.PropertyID,
		EntityType: auditdomain.EntityReservation,
		EntityID:   detail.ID,
		Action:     action,
		Before:     map[string]any{"status": from},
		After:      after,
	})
	s.log.Info("reservation status changed",
		zap.String("reservation_id", id.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return detail, nil
}
