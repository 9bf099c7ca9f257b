package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/apperror"
	"github.com/hengly4433/hotel-system/pkg/db/pagination"
	"gorm.io/gorm"
)

// Entry is what callers hand to the sink. Before and After are marshalled to
// JSON as given.
type Entry struct {
	PropertyID *uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Action     string
	Before     any
	After      any
}

type ListFilter struct {
	EntityType string
	EntityID   uuid.UUID
	Cursor     *pagination.Position
	Limit      int
}

type ListRequest struct {
	pagination.Pagination
	EntityType string
	EntityID   uuid.UUID
}

type ListResponse struct {
	pagination.PageInfo
	AuditLogs []AuditLog `json:"audit_logs"`
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]AuditLog, error)
}

// Service records entries. Record is fire-and-forget for callers: they log a
// failure and carry on.
type Service interface {
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, req ListRequest) (ListResponse, error)
}

var (
	ErrInvalidEntry     = apperror.BadRequest("INVALID_REQUEST", "audit entry is incomplete")
	ErrInvalidPageToken = apperror.BadRequest("INVALID_REQUEST", "invalid page token")
)
