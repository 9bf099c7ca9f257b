package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type StatementData struct {
	FolioID       string
	ReservationID string
	Status        string
	Currency      string
	IssuedAt      string

	Items    []StatementItem
	Payments []StatementPayment

	TotalCharges  string
	TotalPayments string
	Balance       string
}

type StatementItem struct {
	PostedAt    string
	Type        string
	Description string
	Qty         string
	UnitPrice   string
	Amount      string
}

type StatementPayment struct {
	CreatedAt string
	Method    string
	Status    string
	Amount    string
}

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateFolioStatement(ctx context.Context, data StatementData) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(15,
		text.NewCol(12, "Folio statement", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Folio: "+data.FolioID, props.Text{Top: 0}),
			text.New("Reservation: "+data.ReservationID, props.Text{Top: 4}),
			text.New("Issued: "+data.IssuedAt, props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New("Status: "+data.Status, props.Text{Top: 0, Align: align.Right}),
			text.New("Currency: "+data.Currency, props.Text{Top: 4, Align: align.Right}),
		),
	)

	m.AddRow(10,
		text.NewCol(2, "Date", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Unit price", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, item := range data.Items {
		m.AddRow(8,
			text.NewCol(2, item.PostedAt, props.Text{Size: 9}),
			text.NewCol(4, item.Type+" "+item.Description, props.Text{Size: 9}),
			text.NewCol(2, item.Qty, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.UnitPrice, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, item.Amount, props.Text{Size: 9, Align: align.Right}),
		)
	}

	if len(data.Payments) > 0 {
		m.AddRow(12,
			text.NewCol(12, "Payments", props.Text{Style: fontstyle.Bold, Size: 11, Top: 4}),
		)
		for _, payment := range data.Payments {
			m.AddRow(8,
				text.NewCol(2, payment.CreatedAt, props.Text{Size: 9}),
				text.NewCol(4, payment.Method, props.Text{Size: 9}),
				text.NewCol(4, payment.Status, props.Text{Size: 9}),
				text.NewCol(2, payment.Amount, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Charges", props.Text{Size: 9}),
		text.NewCol(2, data.TotalCharges, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Payments", props.Text{Size: 9}),
		text.NewCol(2, data.TotalPayments, props.Text{Size: 9, Align: align.Right}),
	)
	m.AddRow(10,
		col.New(8),
		text.NewCol(2, "Balance", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, data.Balance, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
