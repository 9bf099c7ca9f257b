package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/actorcontext"
	"github.com/hengly4433/hotel-system/internal/apperror"
	auditdomain "github.com/hengly4433/hotel-system/internal/audit/domain"
	availabilityrepo "github.com/hengly4433/hotel-system/internal/availability/repository"
	availabilityservice "github.com/hengly4433/hotel-system/internal/availability/service"
	catalogrepo "github.com/hengly4433/hotel-system/internal/catalog/repository"
	"github.com/hengly4433/hotel-system/internal/clock"
	foliorepo "github.com/hengly4433/hotel-system/internal/folio/repository"
	foliodomain "github.com/hengly4433/hotel-system/internal/folio/domain"
	folioservice "github.com/hengly4433/hotel-system/internal/folio/service"
	ratedomain "github.com/hengly4433/hotel-system/internal/rate/domain"
	raterepo "github.com/hengly4433/hotel-system/internal/rate/repository"
	rateservice "github.com/hengly4433/hotel-system/internal/rate/service"
	reservationdomain "github.com/hengly4433/hotel-system/internal/reservation/domain"
	reservationrepo "github.com/hengly4433/hotel-system/internal/reservation/repository"
	taxrepo "github.com/hengly4433/hotel-system/internal/tax/repository"
	taxservice "github.com/hengly4433/hotel-system/internal/tax/service"
	"github.com/hengly4433/hotel-system/internal/testdb"
	"github.com/hengly4433/hotel-system/pkg/civildate"
	"github.com/hengly4433/hotel-system/pkg/db/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type mockAuditSvc struct {
	mock.Mock
}

func (m *mockAuditSvc) Record(ctx context.Context, entry auditdomain.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockAuditSvc) List(ctx context.Context, req auditdomain.ListRequest) (auditdomain.ListResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(auditdomain.ListResponse), args.Error(1)
}

func date(s string) civildate.Date { return civildate.MustParse(s) }

type harness struct {
	db       *gorm.DB
	svc      *Service
	audit    *mockAuditSvc
	fixture  *testdb.Fixture
	property uuid.UUID
	guest    uuid.UUID
	plan     uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	db := testdb.Open(t)
	audit := &mockAuditSvc{}
	audit.On("Record", mock.Anything, mock.Anything).Return(nil).Maybe()

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC))
	catalog := catalogrepo.Provide()
	folios := folioservice.NewService(folioservice.Params{
		DB:    db,
		Log:   log,
		Clock: clk,
		Repo:  foliorepo.Provide(),
		Taxes: taxservice.NewResolver(taxservice.ResolverParams{Repository: taxrepo.Provide()}),
		Audit: audit,
	})

	svc := NewService(Params{
		DB:      db,
		Log:     log,
		GenID:   node,
		Clock:   clk,
		Repo:    reservationrepo.Provide(),
		Catalog: catalog,
		Rates:   rateservice.NewService(rateservice.Params{DB: db, Log: log, Repo: raterepo.Provide()}),
		Availability: availabilityservice.NewService(availabilityservice.Params{
			DB:      db,
			Log:     log,
			Repo:    availabilityrepo.Provide(),
			Catalog: catalog,
		}),
		Folios: folios,
		Audit:  audit,
	}).(*Service)

	fixture := testdb.NewFixture(t, db)
	property := fixture.Property("Seaside")
	return &harness{
		db:       db,
		svc:      svc,
		audit:    audit,
		fixture:  fixture,
		property: property,
		guest:    fixture.Guest("Ada"),
		plan:     fixture.RatePlan(property, "BAR"),
	}
}

// roomType seeds a room type with count active rooms priced at price for
// every night of June 2024.
func (h *harness) roomType(name string, count int, price string) (uuid.UUID, []uuid.UUID) {
	typeID := h.fixture.RoomType(h.property, name)
	rooms := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		rooms = append(rooms, h.fixture.Room(h.property, typeID, name+"-"+string(rune('A'+i))))
	}
	start := date("2024-06-01")
	for i := 0; i < 30; i++ {
		h.fixture.Price(h.plan, typeID, start.AddDays(i).String(), price, "USD")
	}
	return typeID, rooms
}

func (h *harness) request(from, to string, rooms ...reservationdomain.RoomRequest) reservationdomain.CreateRequest {
	return reservationdomain.CreateRequest{
		PropertyID:     h.property,
		PrimaryGuestID: h.guest,
		CheckInDate:    date(from),
		CheckOutDate:   date(to),
		Adults:         2,
		Rooms:          rooms,
	}
}

func (h *harness) assigned(typeID, roomID uuid.UUID) reservationdomain.RoomRequest {
	id := roomID
	return reservationdomain.RoomRequest{RoomTypeID: typeID, RoomID: &id, RatePlanID: h.plan, Guests: 2}
}

func (h *harness) pooled(typeID uuid.UUID) reservationdomain.RoomRequest {
	return reservationdomain.RoomRequest{RoomTypeID: typeID, RatePlanID: h.plan, Guests: 2}
}

func TestCreateAssignedRoomPostsFolio(t *testing.T) {
	h := newHarness(t)
	h.fixture.TaxFee(h.property, "VAT", "TAX", "PERCENT", "10", "ROOM")
	typeID, rooms := h.roomType("Deluxe", 1, "120.00")

	ctx := actorcontext.WithActorID(context.Background(), "clerk-7")
	detail, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-03", h.assigned(typeID, rooms[0])))
	require.NoError(t, err)

	assert.Equal(t, reservationdomain.StatusConfirmed, detail.Status)
	assert.Equal(t, reservationdomain.ChannelDirect, detail.Channel)
	assert.True(t, strings.HasPrefix(detail.Code, "RES-"))
	require.NotNil(t, detail.CreatedBy)
	assert.Equal(t, "clerk-7", *detail.CreatedBy)

	require.Len(t, detail.Rooms, 1)
	room := detail.Rooms[0]
	assert.Equal(t, reservationdomain.Assigned{RoomID: rooms[0]}, room.Allocation())
	require.Len(t, room.Nights, 2)
	assert.Empty(t, room.TypeNights)
	assert.Equal(t, date("2024-06-01"), room.Nights[0].StayDate)
	assert.Equal(t, date("2024-06-02"), room.Nights[1].StayDate)

	snapshot, err := room.NightlyRates()
	require.NoError(t, err)
	require.Len(t, snapshot, 2)
	assert.True(t, decimal.RequireFromString("120").Equal(snapshot[0].Price))

	require.NotNil(t, detail.Folio)
	assert.Equal(t, "USD", detail.Folio.Currency)
	assert.Equal(t, int64(2), testdb.Count(t, h.db, `SELECT COUNT(1) FROM folio_items WHERE folio_id = ? AND item_type = 'ROOM_CHARGE'`, detail.Folio.ID))
	assert.Equal(t, int64(1), testdb.Count(t, h.db, `SELECT COUNT(1) FROM folio_items WHERE folio_id = ? AND item_type = 'TAX'`, detail.Folio.ID))

	h.audit.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(e auditdomain.Entry) bool {
		return e.EntityType == auditdomain.EntityReservation && e.Action == auditdomain.ActionCreate && e.EntityID == detail.ID
	}))
}

func TestConcurrentAssignmentOfSameRoom(t *testing.T) {
	h := newHarness(t)
	typeID, rooms := h.roomType("Deluxe", 2, "100.00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.svc.Create(context.Background(), h.request("2024-06-10", "2024-06-12", h.assigned(typeID, rooms[0])))
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			assert.ErrorIs(t, err, reservationdomain.ErrRoomUnavailable)
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, int64(1), testdb.Count(t, h.db, `SELECT COUNT(1) FROM reservations`))
	assert.Equal(t, int64(2), testdb.Count(t, h.db, `SELECT COUNT(1) FROM reservation_nights WHERE room_id = ? AND deleted_at IS NULL`, rooms[0]))
}

func TestPooledBookingsStopAtCapacity(t *testing.T) {
	h := newHarness(t)
	typeID, _ := h.roomType("Deluxe", 2, "100.00")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		detail, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-03", h.pooled(typeID)))
		require.NoError(t, err)
		require.Len(t, detail.Rooms, 1)
		assert.Equal(t, reservationdomain.Pooled{}, detail.Rooms[0].Allocation())
		assert.Len(t, detail.Rooms[0].TypeNights, 2)
		assert.Empty(t, detail.Rooms[0].Nights)
	}

	_, err := h.svc.Create(ctx, h.request("2024-06-02", "2024-06-04", h.pooled(typeID)))
	assert.ErrorIs(t, err, reservationdomain.ErrRoomTypeUnavailable)

	// The last night of the earlier stays is free.
	_, err = h.svc.Create(ctx, h.request("2024-06-03", "2024-06-04", h.pooled(typeID)))
	assert.NoError(t, err)
}

func TestAssignedRoomCountsAgainstPool(t *testing.T) {
	h := newHarness(t)
	typeID, rooms := h.roomType("Deluxe", 2, "100.00")
	ctx := context.Background()

	_, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-02", h.pooled(typeID), h.pooled(typeID)))
	require.NoError(t, err)

	_, err = h.svc.Create(ctx, h.request("2024-06-01", "2024-06-02", h.assigned(typeID, rooms[1])))
	assert.ErrorIs(t, err, reservationdomain.ErrRoomTypeUnavailable)
}

func TestRoomTypeWithoutActiveRooms(t *testing.T) {
	h := newHarness(t)
	typeID, _ := h.roomType("Suite", 0, "300.00")
	h.fixture.InactiveRoom(h.property, typeID, "901")

	_, err := h.svc.Create(context.Background(), h.request("2024-06-01", "2024-06-02", h.pooled(typeID)))
	assert.ErrorIs(t, err, reservationdomain.ErrRoomTypeEmpty)
}

func TestMissingPriceLeavesNothingBehind(t *testing.T) {
	h := newHarness(t)
	typeID := h.fixture.RoomType(h.property, "Deluxe")
	room := h.fixture.Room(h.property, typeID, "101")
	h.fixture.Price(h.plan, typeID, "2024-06-01", "100.00", "USD")

	_, err := h.svc.Create(context.Background(), h.request("2024-06-01", "2024-06-03", h.assigned(typeID, room)))
	assert.ErrorIs(t, err, reservationdomain.ErrRatePlanPriceMissing)

	for _, table := range []string{"reservations", "reservation_rooms", "reservation_nights", "folios", "folio_items"} {
		assert.Equal(t, int64(0), testdb.Count(t, h.db, `SELECT COUNT(1) FROM `+table), table)
	}
	h.audit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestFailedLaterLineRollsBackEarlierLines(t *testing.T) {
	h := newHarness(t)
	typeID, rooms := h.roomType("Deluxe", 1, "100.00")

	_, err := h.svc.Create(context.Background(), h.request("2024-06-01", "2024-06-03",
		h.assigned(typeID, rooms[0]),
		h.pooled(typeID),
	))
	assert.ErrorIs(t, err, reservationdomain.ErrRoomTypeUnavailable)

	tables := []string{"reservations", "reservation_rooms", "reservation_nights", "reservation_type_nights", "folios", "folio_items"}
	for _, table := range tables {
		assert.Equal(t, int64(0), testdb.Count(t, h.db, `SELECT COUNT(1) FROM `+table), table)
	}

	_, err = h.svc.Create(context.Background(), h.request("2024-06-01", "2024-06-03", h.assigned(typeID, rooms[0])))
	assert.NoError(t, err)
}

func TestVATStaySettlesToZero(t *testing.T) {
	h := newHarness(t)
	h.fixture.TaxFee(h.property, "VAT", "TAX", "PERCENT", "10", "ROOM")
	typeID, rooms := h.roomType("Standard", 1, "100.00")
	ctx := context.Background()

	res, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-03", h.assigned(typeID, rooms[0])))
	require.NoError(t, err)
	require.NotNil(t, res.Folio)

	folio, err := h.svc.folios.Get(ctx, res.Folio.ID)
	require.NoError(t, err)

	roomTotal, taxTotal := decimal.Zero, decimal.Zero
	for _, item := range folio.Items {
		switch item.ItemType {
		case foliodomain.ItemTypeRoomCharge:
			roomTotal = roomTotal.Add(item.Amount)
		case foliodomain.ItemTypeTax:
			taxTotal = taxTotal.Add(item.Amount)
		}
	}
	assert.True(t, decimal.RequireFromString("200.00").Equal(roomTotal), roomTotal.String())
	assert.True(t, decimal.RequireFromString("20.00").Equal(taxTotal), taxTotal.String())
	assert.True(t, decimal.RequireFromString("220.00").Equal(folio.Balance), folio.Balance.String())

	_, err = h.svc.folios.AddPayment(ctx, res.Folio.ID, foliodomain.AddPaymentRequest{
		Method: "CARD",
		Amount: decimal.RequireFromString("220.00"),
		Status: foliodomain.PaymentCaptured,
	})
	require.NoError(t, err)

	settled, err := h.svc.folios.Get(ctx, res.Folio.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("220.00").Equal(settled.TotalCharges))
	assert.True(t, decimal.RequireFromString("220.00").Equal(settled.TotalPayments))
	assert.True(t, settled.Balance.IsZero(), settled.Balance.String())
}

func TestNightlyOverridesReplacePlanPrices(t *testing.T) {
	h := newHarness(t)
	typeID, _ := h.roomType("Deluxe", 1, "100.00")

	line := h.pooled(typeID)
	line.NightlyRates = []ratedomain.NightlyRate{
		{Date: date("2024-06-01"), Price: decimal.RequireFromString("80.00")},
		{Date: date("2024-06-02"), Price: decimal.RequireFromString("85.50"), Currency: "usd"},
	}
	detail, err := h.svc.Create(context.Background(), h.request("2024-06-01", "2024-06-03", line))
	require.NoError(t, err)

	nights := detail.Rooms[0].TypeNights
	require.Len(t, nights, 2)
	assert.True(t, decimal.RequireFromString("80").Equal(nights[0].Price))
	assert.True(t, decimal.RequireFromString("85.5").Equal(nights[1].Price))
	assert.Equal(t, "USD", nights[1].Currency)

	partial := h.pooled(typeID)
	partial.NightlyRates = line.NightlyRates[:1]
	_, err = h.svc.Create(context.Background(), h.request("2024-06-10", "2024-06-12", partial))
	assert.ErrorIs(t, err, reservationdomain.ErrRatePlanPriceMissing)
}

func TestCreateRejectsBadReferences(t *testing.T) {
	h := newHarness(t)
	deluxe, deluxeRooms := h.roomType("Deluxe", 1, "100.00")
	suite, _ := h.roomType("Suite", 1, "200.00")
	other := h.fixture.Property("Hillside")
	otherPlan := h.fixture.RatePlan(other, "BAR")
	ctx := context.Background()

	t.Run("room of another type", func(t *testing.T) {
		_, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-02", h.assigned(suite, deluxeRooms[0])))
		assert.ErrorIs(t, err, reservationdomain.ErrRoomTypeMismatch)
	})
	t.Run("rate plan of another property", func(t *testing.T) {
		line := h.pooled(deluxe)
		line.RatePlanID = otherPlan
		_, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-02", line))
		assert.ErrorIs(t, err, reservationdomain.ErrPropertyMismatch)
	})
	t.Run("unknown rate plan", func(t *testing.T) {
		line := h.pooled(deluxe)
		line.RatePlanID = uuid.New()
		_, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-02", line))
		assert.ErrorIs(t, err, reservationdomain.ErrRatePlanNotFound)
	})
	t.Run("unknown room type", func(t *testing.T) {
		_, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-02", h.pooled(uuid.New())))
		assert.ErrorIs(t, err, reservationdomain.ErrRoomTypeNotFound)
	})
	t.Run("inactive room", func(t *testing.T) {
		inactive := h.fixture.InactiveRoom(h.property, deluxe, "199")
		_, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-02", h.assigned(deluxe, inactive)))
		assert.ErrorIs(t, err, reservationdomain.ErrRoomNotFound)
	})
	t.Run("deleted guest", func(t *testing.T) {
		req := h.request("2024-06-01", "2024-06-02", h.pooled(deluxe))
		req.PrimaryGuestID = h.fixture.DeletedGuest("Gone")
		_, err := h.svc.Create(ctx, req)
		assert.ErrorIs(t, err, reservationdomain.ErrGuestNotFound)
	})
	t.Run("unknown property", func(t *testing.T) {
		req := h.request("2024-06-01", "2024-06-02", h.pooled(deluxe))
		req.PropertyID = uuid.New()
		_, err := h.svc.Create(ctx, req)
		assert.ErrorIs(t, err, apperror.ErrPropertyRequired)
	})

	assert.Equal(t, int64(0), testdb.Count(t, h.db, `SELECT COUNT(1) FROM reservations`))
}

func TestCreateValidatesRequest(t *testing.T) {
	h := newHarness(t)
	typeID, _ := h.roomType("Deluxe", 1, "100.00")
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*reservationdomain.CreateRequest)
		want   error
	}{
		{"same day stay", func(r *reservationdomain.CreateRequest) { r.CheckOutDate = r.CheckInDate }, apperror.ErrInvalidDates},
		{"stay too long", func(r *reservationdomain.CreateRequest) { r.CheckOutDate = r.CheckInDate.AddDays(400) }, apperror.ErrInvalidDates},
		{"no property", func(r *reservationdomain.CreateRequest) { r.PropertyID = uuid.Nil }, apperror.ErrPropertyRequired},
		{"no rooms", func(r *reservationdomain.CreateRequest) { r.Rooms = nil }, reservationdomain.ErrRoomsRequired},
		{"no adults", func(r *reservationdomain.CreateRequest) { r.Adults = 0 }, reservationdomain.ErrInvalidOccupancy},
		{"negative children", func(r *reservationdomain.CreateRequest) { r.Children = -1 }, reservationdomain.ErrInvalidOccupancy},
		{"checked in status", func(r *reservationdomain.CreateRequest) { r.Status = reservationdomain.StatusCheckedIn }, reservationdomain.ErrInvalidStatus},
		{"unknown channel", func(r *reservationdomain.CreateRequest) { r.Channel = "FAX" }, reservationdomain.ErrInvalidChannel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := h.request("2024-06-01", "2024-06-02", h.pooled(typeID))
			tc.mutate(&req)
			_, err := h.svc.Create(ctx, req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSuppliedCodeMustBeUnique(t *testing.T) {
	h := newHarness(t)
	typeID, _ := h.roomType("Deluxe", 3, "100.00")
	ctx := context.Background()

	req := h.request("2024-06-01", "2024-06-02", h.pooled(typeID))
	req.Code = " WEB-1001 "
	req.Channel = "ota"
	req.Status = "hold"
	detail, err := h.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "WEB-1001", detail.Code)
	assert.Equal(t, reservationdomain.ChannelOTA, detail.Channel)
	assert.Equal(t, reservationdomain.StatusHold, detail.Status)

	_, err = h.svc.Create(ctx, req)
	assert.ErrorIs(t, err, reservationdomain.ErrCodeExists)
}

func TestCancelReleasesInventory(t *testing.T) {
	h := newHarness(t)
	typeID, rooms := h.roomType("Deluxe", 1, "100.00")
	ctx := context.Background()

	first, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-03", h.assigned(typeID, rooms[0])))
	require.NoError(t, err)
	_, err = h.svc.Create(ctx, h.request("2024-06-02", "2024-06-04", h.assigned(typeID, rooms[0])))
	require.ErrorIs(t, err, reservationdomain.ErrRoomUnavailable)

	cancelled, err := h.svc.Cancel(ctx, first.ID, reservationdomain.CancelRequest{Reason: "guest request"})
	require.NoError(t, err)
	assert.Equal(t, reservationdomain.StatusCancelled, cancelled.Status)
	assert.Empty(t, cancelled.Rooms[0].Nights)
	require.NotNil(t, cancelled.Folio)
	assert.Equal(t, int64(2), testdb.Count(t, h.db, `SELECT COUNT(1) FROM folio_items WHERE folio_id = ?`, cancelled.Folio.ID))

	_, err = h.svc.Create(ctx, h.request("2024-06-02", "2024-06-04", h.assigned(typeID, rooms[0])))
	assert.NoError(t, err)

	h.audit.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(e auditdomain.Entry) bool {
		after, ok := e.After.(map[string]any)
		return ok && e.Action == auditdomain.ActionCancel && after["reason"] == "guest request"
	}))

	_, err = h.svc.Cancel(ctx, first.ID, reservationdomain.CancelRequest{})
	assert.ErrorIs(t, err, reservationdomain.ErrInvalidStatusTransition)
}

func TestNoShowReleasesPooledInventory(t *testing.T) {
	h := newHarness(t)
	typeID, _ := h.roomType("Deluxe", 1, "100.00")
	ctx := context.Background()

	first, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-02", h.pooled(typeID)))
	require.NoError(t, err)

	noShow, err := h.svc.MarkNoShow(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, reservationdomain.StatusNoShow, noShow.Status)
	assert.Empty(t, noShow.Rooms[0].TypeNights)

	_, err = h.svc.Create(ctx, h.request("2024-06-01", "2024-06-02", h.pooled(typeID)))
	assert.NoError(t, err)
}

func TestNoShowAfterCheckInReleasesRoom(t *testing.T) {
	h := newHarness(t)
	typeID, rooms := h.roomType("Deluxe", 1, "100.00")
	ctx := context.Background()

	res, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-03", h.assigned(typeID, rooms[0])))
	require.NoError(t, err)
	_, err = h.svc.CheckIn(ctx, res.ID)
	require.NoError(t, err)

	noShow, err := h.svc.MarkNoShow(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, reservationdomain.StatusNoShow, noShow.Status)
	assert.Empty(t, noShow.Rooms[0].Nights)

	_, err = h.svc.Create(ctx, h.request("2024-06-01", "2024-06-03", h.assigned(typeID, rooms[0])))
	assert.NoError(t, err)
}

func TestStatusLifecycle(t *testing.T) {
	h := newHarness(t)
	typeID, rooms := h.roomType("Deluxe", 1, "100.00")
	ctx := context.Background()

	req := h.request("2024-06-01", "2024-06-02", h.assigned(typeID, rooms[0]))
	req.Status = reservationdomain.StatusHold
	res, err := h.svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = h.svc.CheckIn(ctx, res.ID)
	assert.ErrorIs(t, err, reservationdomain.ErrInvalidStatusTransition)

	steps := []struct {
		run  func(context.Context, uuid.UUID) (*reservationdomain.Detail, error)
		want reservationdomain.Status
	}{
		{h.svc.Confirm, reservationdomain.StatusConfirmed},
		{h.svc.CheckIn, reservationdomain.StatusCheckedIn},
		{h.svc.CheckOut, reservationdomain.StatusCheckedOut},
	}
	for _, step := range steps {
		detail, err := step.run(ctx, res.ID)
		require.NoError(t, err)
		assert.Equal(t, step.want, detail.Status)
	}

	// Checked-out stays keep their nights.
	assert.Equal(t, int64(1), testdb.Count(t, h.db, `SELECT COUNT(1) FROM reservation_nights WHERE deleted_at IS NULL`))

	_, err = h.svc.Cancel(ctx, res.ID, reservationdomain.CancelRequest{})
	assert.ErrorIs(t, err, reservationdomain.ErrInvalidStatusTransition)
	_, err = h.svc.MarkNoShow(ctx, res.ID)
	assert.ErrorIs(t, err, reservationdomain.ErrInvalidStatusTransition)

	_, err = h.svc.Confirm(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateDetails(t *testing.T) {
	h := newHarness(t)
	typeID, _ := h.roomType("Deluxe", 1, "100.00")
	ctx := context.Background()

	res, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-02", h.pooled(typeID)))
	require.NoError(t, err)

	other := h.fixture.Guest("Grace")
	adults := 3
	note := "  late arrival "
	updated, err := h.svc.Update(ctx, res.ID, reservationdomain.UpdateRequest{
		PrimaryGuestID:  &other,
		Adults:          &adults,
		SpecialRequests: &note,
	})
	require.NoError(t, err)
	assert.Equal(t, other, updated.PrimaryGuestID)
	assert.Equal(t, 3, updated.Adults)
	require.NotNil(t, updated.SpecialRequests)
	assert.Equal(t, "late arrival", *updated.SpecialRequests)

	reloaded, err := h.svc.Get(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Adults)
	assert.Equal(t, other, reloaded.PrimaryGuestID)

	missing := uuid.New()
	_, err = h.svc.Update(ctx, res.ID, reservationdomain.UpdateRequest{PrimaryGuestID: &missing})
	assert.ErrorIs(t, err, reservationdomain.ErrGuestNotFound)

	zero := 0
	_, err = h.svc.Update(ctx, res.ID, reservationdomain.UpdateRequest{Adults: &zero})
	assert.ErrorIs(t, err, reservationdomain.ErrInvalidOccupancy)

	h.audit.AssertCalled(t, "Record", mock.Anything, mock.MatchedBy(func(e auditdomain.Entry) bool {
		return e.Action == auditdomain.ActionUpdate && e.EntityID == res.ID
	}))
}

func TestGetLoadsRoomsAndFolio(t *testing.T) {
	h := newHarness(t)
	typeID, rooms := h.roomType("Deluxe", 2, "100.00")
	ctx := context.Background()

	created, err := h.svc.Create(ctx, h.request("2024-06-01", "2024-06-04", h.assigned(typeID, rooms[0]), h.pooled(typeID)))
	require.NoError(t, err)

	got, err := h.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Code, got.Code)
	require.Len(t, got.Rooms, 2)
	require.NotNil(t, got.Folio)
	assert.Equal(t, created.Folio.ID, got.Folio.ID)

	var nights, typeNights int
	for _, room := range got.Rooms {
		nights += len(room.Nights)
		typeNights += len(room.TypeNights)
	}
	assert.Equal(t, 3, nights)
	assert.Equal(t, 3, typeNights)

	_, err = h.svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestListPagesAndFilters(t *testing.T) {
	h := newHarness(t)
	typeID, _ := h.roomType("Deluxe", 5, "100.00")
	ctx := context.Background()

	for _, stay := range [][2]string{{"2024-06-01", "2024-06-02"}, {"2024-06-05", "2024-06-07"}, {"2024-06-10", "2024-06-11"}} {
		_, err := h.svc.Create(ctx, h.request(stay[0], stay[1], h.pooled(typeID)))
		require.NoError(t, err)
	}
	other := h.request("2024-06-01", "2024-06-02", h.pooled(typeID))
	other.PrimaryGuestID = h.fixture.Guest("Grace")
	other.Status = reservationdomain.StatusHold
	_, err := h.svc.Create(ctx, other)
	require.NoError(t, err)

	first, err := h.svc.List(ctx, reservationdomain.ListRequest{
		Pagination: pagination.Pagination{PageSize: 3},
		PropertyID: h.property,
	})
	require.NoError(t, err)
	assert.Len(t, first.Reservations, 3)
	assert.True(t, first.HasMore)
	require.NotEmpty(t, first.NextPageToken)

	second, err := h.svc.List(ctx, reservationdomain.ListRequest{
		Pagination: pagination.Pagination{PageSize: 3, PageToken: first.NextPageToken},
		PropertyID: h.property,
	})
	require.NoError(t, err)
	assert.Len(t, second.Reservations, 1)
	assert.False(t, second.HasMore)

	seen := map[uuid.UUID]bool{}
	for _, r := range append(first.Reservations, second.Reservations...) {
		seen[r.ID] = true
	}
	assert.Len(t, seen, 4)

	holds, err := h.svc.List(ctx, reservationdomain.ListRequest{Status: "hold"})
	require.NoError(t, err)
	require.Len(t, holds.Reservations, 1)
	assert.Equal(t, other.PrimaryGuestID, holds.Reservations[0].PrimaryGuestID)

	overlapping, err := h.svc.List(ctx, reservationdomain.ListRequest{From: date("2024-06-06"), To: date("2024-06-11")})
	require.NoError(t, err)
	assert.Len(t, overlapping.Reservations, 2)

	byGuest, err := h.svc.ListByGuest(ctx, h.guest, reservationdomain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, byGuest.Reservations, 3)
	for _, r := range byGuest.Reservations {
		assert.Len(t, r.Rooms, 1)
	}

	_, err = h.svc.ListByGuest(ctx, uuid.New(), reservationdomain.ListRequest{})
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = h.svc.List(ctx, reservationdomain.ListRequest{Status: "GONE"})
	assert.ErrorIs(t, err, reservationdomain.ErrInvalidListFilter)

	_, err = h.svc.List(ctx, reservationdomain.ListRequest{From: date("2024-06-06"), To: date("2024-06-06")})
	assert.ErrorIs(t, err, apperror.ErrInvalidDates)

	_, err = h.svc.List(ctx, reservationdomain.ListRequest{Pagination: pagination.Pagination{PageToken: "%%%"}})
	assert.ErrorIs(t, err, reservationdomain.ErrInvalidPageToken)
}

func TestAuditFailureIsLoggedOnce(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	audit := &mockAuditSvc{}
	audit.On("Record", mock.Anything, mock.Anything).Return(errors.New("insert audit log: disk full"))

	svc := &Service{log: zap.New(core), audit: audit}
	svc.record(context.Background(), auditdomain.Entry{
		EntityType: auditdomain.EntityReservation,
		EntityID:   uuid.New(),
		Action:     auditdomain.ActionCancel,
	})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "audit write failed", entry.Message)
	assert.Equal(t, auditdomain.ActionCancel, entry.ContextMap()["action"])
}
