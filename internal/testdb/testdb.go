// Package testdb opens an in-memory sqlite database with the booking schema
// for package tests.
package testdb

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var seq atomic.Int64

var schema = []string{
	`CREATE TABLE properties (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		code TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE TABLE room_types (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		name TEXT NOT NULL,
		code TEXT NOT NULL,
		max_occupancy INTEGER NOT NULL DEFAULT 2,
		created_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE TABLE rooms (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		room_type_id TEXT NOT NULL,
		room_number TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE TABLE rate_plans (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		name TEXT NOT NULL,
		code TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE TABLE rate_plan_prices (
		id TEXT PRIMARY KEY,
		rate_plan_id TEXT NOT NULL,
		room_type_id TEXT NOT NULL,
		stay_date TEXT NOT NULL,
		price TEXT NOT NULL,
		currency TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE UNIQUE INDEX ux_rate_plan_prices_day ON rate_plan_prices(rate_plan_id, room_type_id, stay_date) WHERE deleted_at IS NULL`,
	`CREATE TABLE guests (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT,
		created_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE TABLE tax_fees (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		code TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		calc_type TEXT NOT NULL,
		value TEXT NOT NULL,
		applies_to TEXT NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE TABLE reservations (
		id TEXT PRIMARY KEY,
		property_id TEXT NOT NULL,
		primary_guest_id TEXT NOT NULL,
		code TEXT NOT NULL,
		status TEXT NOT NULL,
		channel TEXT NOT NULL,
		check_in_date TEXT NOT NULL,
		check_out_date TEXT NOT NULL,
		adults INTEGER NOT NULL,
		children INTEGER NOT NULL,
		special_requests TEXT,
		created_by TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE UNIQUE INDEX ux_reservations_code ON reservations(code) WHERE deleted_at IS NULL`,
	`CREATE TABLE reservation_rooms (
		id TEXT PRIMARY KEY,
		reservation_id TEXT NOT NULL,
		room_type_id TEXT NOT NULL,
		room_id TEXT,
		rate_plan_id TEXT NOT NULL,
		guests INTEGER NOT NULL,
		price_snapshot TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE TABLE reservation_nights (
		id TEXT PRIMARY KEY,
		reservation_room_id TEXT NOT NULL,
		room_id TEXT NOT NULL,
		stay_date TEXT NOT NULL,
		price TEXT NOT NULL,
		currency TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE UNIQUE INDEX ux_reservation_nights_room_date ON reservation_nights(room_id, stay_date) WHERE deleted_at IS NULL`,
	`CREATE TABLE reservation_type_nights (
		id TEXT PRIMARY KEY,
		reservation_room_id TEXT NOT NULL,
		room_type_id TEXT NOT NULL,
		stay_date TEXT NOT NULL,
		price TEXT NOT NULL,
		currency TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE TABLE folios (
		id TEXT PRIMARY KEY,
		reservation_id TEXT NOT NULL,
		status TEXT NOT NULL,
		currency TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		closed_at DATETIME,
		deleted_at DATETIME
	)`,
	`CREATE UNIQUE INDEX ux_folios_reservation ON folios(reservation_id) WHERE deleted_at IS NULL`,
	`CREATE TABLE folio_items (
		id TEXT PRIMARY KEY,
		folio_id TEXT NOT NULL,
		item_type TEXT NOT NULL,
		description TEXT NOT NULL,
		quantity TEXT NOT NULL,
		unit_price TEXT NOT NULL,
		amount TEXT NOT NULL,
		posted_at DATETIME NOT NULL,
		posted_by TEXT,
		deleted_at DATETIME
	)`,
	`CREATE TABLE payments (
		id TEXT PRIMARY KEY,
		folio_id TEXT NOT NULL,
		method TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		status TEXT NOT NULL,
		provider TEXT,
		provider_ref TEXT,
		idempotency_key TEXT NOT NULL,
		created_by TEXT,
		created_at DATETIME NOT NULL,
		deleted_at DATETIME
	)`,
	`CREATE UNIQUE INDEX ux_payments_idempotency_key ON payments(idempotency_key) WHERE deleted_at IS NULL`,
	`CREATE TABLE audit_logs (
		id TEXT PRIMARY KEY,
		property_id TEXT,
		entity_type TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		action TEXT NOT NULL,
		actor_id TEXT,
		request_id TEXT,
		before_state TEXT,
		after_state TEXT,
		created_at DATETIME NOT NULL
	)`,
}

// Open returns a fresh database. A single connection makes concurrent
// transactions queue behind each other the way serializable writers would.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:hotel_%d_%d?mode=memory&cache=shared", time.Now().UnixNano(), seq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range schema {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("schema exec failed: %v", err)
		}
	}
	return db
}

// Count runs a COUNT query and returns the result.
func Count(t *testing.T, db *gorm.DB, query string, args ...any) int64 {
	t.Helper()

	var count int64
	if err := db.Raw(query, args...).Scan(&count).Error; err != nil {
		t.Fatalf("query count: %v", err)
	}
	return count
}

// Fixture seeds catalog rows. Every helper returns the new row id.
type Fixture struct {
	t   *testing.T
	db  *gorm.DB
	now time.Time
}

func NewFixture(t *testing.T, db *gorm.DB) *Fixture {
	return &Fixture{t: t, db: db, now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (f *Fixture) exec(query string, args ...any) {
	f.t.Helper()
	if err := f.db.Exec(query, args...).Error; err != nil {
		f.t.Fatalf("seed: %v", err)
	}
}

// tick keeps created_at strictly increasing so catalog order is stable.
func (f *Fixture) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *Fixture) Property(name string) uuid.UUID {
	id := uuid.New()
	f.exec(`INSERT INTO properties (id, name, code, created_at) VALUES (?, ?, ?, ?)`, id, name, name, f.tick())
	return id
}

func (f *Fixture) RoomType(propertyID uuid.UUID, name string) uuid.UUID {
	id := uuid.New()
	f.exec(`INSERT INTO room_types (id, property_id, name, code, max_occupancy, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, propertyID, name, name, 2, f.tick())
	return id
}

func (f *Fixture) Room(propertyID, roomTypeID uuid.UUID, number string) uuid.UUID {
	id := uuid.New()
	f.exec(`INSERT INTO rooms (id, property_id, room_type_id, room_number, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, propertyID, roomTypeID, number, true, f.tick())
	return id
}

func (f *Fixture) InactiveRoom(propertyID, roomTypeID uuid.UUID, number string) uuid.UUID {
	id := uuid.New()
	f.exec(`INSERT INTO rooms (id, property_id, room_type_id, room_number, is_active, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, propertyID, roomTypeID, number, false, f.tick())
	return id
}

func (f *Fixture) RatePlan(propertyID uuid.UUID, code string) uuid.UUID {
	id := uuid.New()
	f.exec(`INSERT INTO rate_plans (id, property_id, name, code, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, propertyID, code, code, f.tick())
	return id
}

// Price stores a nightly price; date is "YYYY-MM-DD" and price a decimal string.
func (f *Fixture) Price(ratePlanID, roomTypeID uuid.UUID, date, price, currency string) {
	f.exec(`INSERT INTO rate_plan_prices (id, rate_plan_id, room_type_id, stay_date, price, currency, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.New(), ratePlanID, roomTypeID, date, price, currency, f.tick())
}

func (f *Fixture) Guest(firstName string) uuid.UUID {
	id := uuid.New()
	f.exec(`INSERT INTO guests (id, first_name, last_name, created_at) VALUES (?, ?, ?, ?)`,
		id, firstName, "Guest", f.tick())
	return id
}

func (f *Fixture) DeletedGuest(firstName string) uuid.UUID {
	id := uuid.New()
	now := f.tick()
	f.exec(`INSERT INTO guests (id, first_name, last_name, created_at, deleted_at) VALUES (?, ?, ?, ?, ?)`,
		id, firstName, "Guest", now, now)
	return id
}

// TaxFee stores a tax or fee definition; value is a decimal string.
func (f *Fixture) TaxFee(propertyID uuid.UUID, code, category, calcType, value, appliesTo string) uuid.UUID {
	id := uuid.New()
	now := f.tick()
	f.exec(`INSERT INTO tax_fees (id, property_id, code, name, category, calc_type, value, applies_to, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, propertyID, code, code, category, calcType, value, appliesTo, true, now, now)
	return id
}

// Night holds a physical room for one date outside any reservation flow.
func (f *Fixture) Night(roomID uuid.UUID, date string) uuid.UUID {
	id := uuid.New()
	f.exec(`INSERT INTO reservation_nights (id, reservation_room_id, room_id, stay_date, price, currency, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, uuid.New(), roomID, date, "100.00", "USD", f.tick())
	return id
}

// TypeNight holds pooled room type inventory for one date.
func (f *Fixture) TypeNight(roomTypeID uuid.UUID, date string) uuid.UUID {
	id := uuid.New()
	f.exec(`INSERT INTO reservation_type_nights (id, reservation_room_id, room_type_id, stay_date, price, currency, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, uuid.New(), roomTypeID, date, "100.00", "USD", f.tick())
	return id
}
