package service

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/apperror"
	foliodomain "github.com/hengly4433/hotel-system/internal/folio/domain"
	"github.com/hengly4433/hotel-system/internal/providers/pdf"
)

var ErrStatementUnavailable = apperror.New(http.StatusServiceUnavailable, "STATEMENT_UNAVAILABLE", "statement renderer is not configured")

const statementDate = "2006-01-02"

// Statement renders the folio detail as a PDF document.
func (s *Service) Statement(ctx context.Context, folioID uuid.UUID) ([]byte, error) {
	if s.pdf == nil {
		return nil, ErrStatementUnavailable
	}

	detail, err := s.Get(ctx, folioID)
	if err != nil {
		return nil, err
	}

	r, err := s.pdf.GenerateFolioStatement(ctx, statementData(detail, s.clock.Now().Format(statementDate)))
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrStatementUnavailable
	}
	return io.ReadAll(r)
}

func statementData(detail *foliodomain.Detail, issuedAt string) pdf.StatementData {
	data := pdf.StatementData{
		FolioID:       detail.ID.String(),
		ReservationID: detail.ReservationID.String(),
		Status:        string(detail.Status),
		Currency:      detail.Currency,
		IssuedAt:      issuedAt,
		Items:         make([]pdf.StatementItem, 0, len(detail.Items)),
		Payments:      make([]pdf.StatementPayment, 0, len(detail.Payments)),
		TotalCharges:  detail.TotalCharges.StringFixed(2),
		TotalPayments: detail.TotalPayments.StringFixed(2),
		Balance:       detail.Balance.StringFixed(2),
	}
	for _, item := range detail.Items {
		data.Items = append(data.Items, pdf.StatementItem{
			PostedAt:    item.PostedAt.Format(statementDate),
			Type:        string(item.ItemType),
			Description: item.Description,
			Qty:         item.Quantity.String(),
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Amount:      item.Amount.StringFixed(2),
		})
	}
	for _, p := range detail.Payments {
		data.Payments = append(data.Payments, pdf.StatementPayment{
			CreatedAt: p.CreatedAt.Format(statementDate),
			Method:    p.Method,
			Status:    string(p.Status),
			Amount:    p.Amount.StringFixed(2),
		})
	}
	return data
}
