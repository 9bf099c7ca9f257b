package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id string
	at time.Time
}

func TestLimitClamps(t *testing.T) {
	assert.Equal(t, DefaultPageSize, Pagination{}.Limit())
	assert.Equal(t, MaxPageSize, Pagination{PageSize: 1000}.Limit())
	assert.Equal(t, 7, Pagination{PageSize: 7}.Limit())
}

func TestPageBuildsTokenOnlyWhenMore(t *testing.T) {
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	rows := []row{{"a", base}, {"b", base.Add(-time.Second)}, {"c", base.Add(-2 * time.Second)}}
	extract := func(r row) (string, time.Time) { return r.id, r.at }

	kept, info := Page(rows, 3, extract)
	assert.Len(t, kept, 3)
	assert.False(t, info.HasMore)
	assert.Empty(t, info.NextPageToken)

	kept, info = Page(rows, 2, extract)
	assert.Len(t, kept, 2)
	assert.True(t, info.HasMore)

	pos, err := DecodePosition(info.NextPageToken)
	require.NoError(t, err)
	assert.Equal(t, "b", pos.ID)
	assert.True(t, pos.CreatedAt.Equal(base.Add(-time.Second)))
}

func TestDecodePositionRejectsGarbage(t *testing.T) {
	pos, err := DecodePosition("")
	assert.NoError(t, err)
	assert.Nil(t, pos)

	_, err = DecodePosition("not-base64!!")
	assert.ErrorIs(t, err, ErrInvalidPageToken)
}
