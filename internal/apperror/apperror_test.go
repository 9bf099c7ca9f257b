package apperror

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAsFindsWrappedError(t *testing.T) {
	wrapped := fmt.Errorf("create reservation: %w", ErrInvalidDates)

	appErr, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "INVALID_DATES", appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.ErrorIs(t, wrapped, ErrInvalidDates)
}

func TestAsIgnoresPlainErrors(t *testing.T) {
	_, ok := As(fmt.Errorf("boom"))
	assert.False(t, ok)
}

func TestConstructorsSetStatusClass(t *testing.T) {
	assert.Equal(t, http.StatusConflict, Conflict("X", "x").Status)
	assert.Equal(t, http.StatusNotFound, NotFound("X", "x").Status)
	assert.Equal(t, "X: x", BadRequest("X", "x").Error())
}
