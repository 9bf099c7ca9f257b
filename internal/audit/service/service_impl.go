package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/actorcontext"
	auditdomain "github.com/hengly4433/hotel-system/internal/audit/domain"
	"github.com/hengly4433/hotel-system/internal/clock"
	obscontext "github.com/hengly4433/hotel-system/internal/observability/context"
	"github.com/hengly4433/hotel-system/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, entry auditdomain.Entry) error {
	action := strings.TrimSpace(entry.Action)
	entityType := strings.TrimSpace(entry.EntityType)
	if action == "" || entityType == "" || entry.EntityID == uuid.Nil {
		return auditdomain.ErrInvalidEntry
	}

	before, err := marshalState(entry.Before)
	if err != nil {
		return err
	}
	after, err := marshalState(entry.After)
	if err != nil {
		return err
	}

	log := auditdomain.AuditLog{
		ID:          uuid.New(),
		PropertyID:  entry.PropertyID,
		EntityType:  entityType,
		EntityID:    entry.EntityID,
		Action:      action,
		ActorID:     actorcontext.ActorID(ctx),
		BeforeState: before,
		AfterState:  after,
		CreatedAt:   s.clock.Now(),
	}
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		log.RequestID = &requestID
	}

	if err := s.repo.Insert(ctx, s.db, &log); err != nil {
		return fmt.Errorf("insert audit log %s/%s: %w", entityType, action, err)
	}
	s.log.Debug("audit recorded",
		zap.String("entity_type", entityType),
		zap.String("entity_id", entry.EntityID.String()),
		zap.String("action", action),
	)
	return nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListRequest) (auditdomain.ListResponse, error) {
	cursor, err := pagination.DecodePosition(req.PageToken)
	if err != nil {
		return auditdomain.ListResponse{}, auditdomain.ErrInvalidPageToken
	}

	limit := req.Limit()
	items, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Cursor:     cursor,
		Limit:      limit,
	})
	if err != nil {
		return auditdomain.ListResponse{}, err
	}

	items, pageInfo := pagination.Page(items, limit, func(item auditdomain.AuditLog) (string, time.Time) {
		return item.ID.String(), item.CreatedAt
	})
	if items == nil {
		items = []auditdomain.AuditLog{}
	}
	return auditdomain.ListResponse{PageInfo: pageInfo, AuditLogs: items}, nil
}

func marshalState(state any) (datatypes.JSON, error) {
	if state == nil {
		return nil, nil
	}
	if raw, ok := state.(datatypes.JSON); ok {
		return raw, nil
	}
	b, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Join(auditdomain.ErrInvalidEntry, err)
	}
	return datatypes.JSON(b), nil
}
