package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/apperror"
	"github.com/hengly4433/hotel-system/pkg/civildate"
)

func parseIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, apperror.ErrInvalidRequest
	}
	return id, nil
}

func parseOptionalUUID(value string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, apperror.ErrInvalidRequest
	}
	return id, nil
}

func parseOptionalDate(value string) (civildate.Date, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return civildate.Date{}, nil
	}
	date, err := civildate.Parse(trimmed)
	if err != nil {
		return civildate.Date{}, apperror.ErrInvalidDates
	}
	return date, nil
}

// parseStay reads a required from/to pair of ISO dates.
func parseStay(from, to string) (civildate.Range, error) {
	start, err := civildate.Parse(strings.TrimSpace(from))
	if err != nil {
		return civildate.Range{}, apperror.ErrInvalidDates
	}
	end, err := civildate.Parse(strings.TrimSpace(to))
	if err != nil {
		return civildate.Range{}, apperror.ErrInvalidDates
	}
	return civildate.Range{From: start, To: end}, nil
}
