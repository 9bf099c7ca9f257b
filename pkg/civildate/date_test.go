package civildate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeDates(t *testing.T) {
	r := Range{From: MustParse("2024-02-28"), To: MustParse("2024-03-02")}

	assert.True(t, r.Valid())
	assert.Equal(t, 3, r.Nights())
	assert.Equal(t, []Date{
		MustParse("2024-02-28"),
		MustParse("2024-02-29"),
		MustParse("2024-03-01"),
	}, r.Dates())
}

func TestRangeInvalidWhenNotAfter(t *testing.T) {
	same := MustParse("2024-06-01")
	assert.False(t, Range{From: same, To: same}.Valid())
	assert.False(t, Range{From: same, To: same.AddDays(-1)}.Valid())
	assert.Empty(t, Range{From: same, To: same}.Dates())
}

func TestScanAcceptsDriverShapes(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan("2024-07-01"))
	assert.Equal(t, New(2024, time.July, 1), d)

	require.NoError(t, d.Scan([]byte("2024-07-02 00:00:00+00:00")))
	assert.Equal(t, New(2024, time.July, 2), d)

	require.NoError(t, d.Scan(time.Date(2024, time.July, 3, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, New(2024, time.July, 3), d)

	assert.Error(t, d.Scan(42))
}

func TestJSONRoundTripUsesISODate(t *testing.T) {
	payload, err := json.Marshal(struct {
		Date Date `json:"date"`
	}{Date: MustParse("2024-06-01")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-06-01"}`, string(payload))

	var decoded struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-06-03"}`), &decoded))
	assert.Equal(t, MustParse("2024-06-03"), decoded.Date)
}
