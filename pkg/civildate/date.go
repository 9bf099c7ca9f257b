// Package civildate provides a calendar date without a time zone, stored as
// DATE in the database and as "YYYY-MM-DD" on the wire.
package civildate

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/golang-sql/civil"
)

const layout = "2006-01-02"

type Date struct {
	civil.Date
}

func New(year int, month time.Month, day int) Date {
	return Date{civil.Date{Year: year, Month: month, Day: day}}
}

func Parse(value string) (Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return Date{}, err
	}
	return Date{d}, nil
}

func MustParse(value string) Date {
	d, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) AddDays(n int) Date {
	return Date{d.Date.AddDays(n)}
}

func (d Date) Before(other Date) bool {
	return d.Date.Before(other.Date)
}

func (d Date) After(other Date) bool {
	return d.Date.After(other.Date)
}

func (d Date) DaysSince(other Date) int {
	return d.Date.DaysSince(other.Date)
}

// Value stores the date as "YYYY-MM-DD" so comparisons stay lexical on
// engines without a native date type.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = Date{civil.DateOf(v.UTC())}
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("civildate: cannot scan %T", src)
	}
}

func (d *Date) scanString(value string) error {
	value = strings.TrimSpace(value)
	if len(value) > len(layout) {
		value = value[:len(layout)]
	}
	parsed, err := Parse(value)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Range is the half-open interval [From, To).
type Range struct {
	From Date
	To   Date
}

func (r Range) Valid() bool {
	return !r.From.IsZero() && !r.To.IsZero() && r.To.After(r.From)
}

func (r Range) Nights() int {
	if !r.Valid() {
		return 0
	}
	return r.To.DaysSince(r.From)
}

// Dates lists every date in the range in ascending order.
func (r Range) Dates() []Date {
	n := r.Nights()
	out := make([]Date, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.From.AddDays(i))
	}
	return out
}
