package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hengly4433/hotel-system/internal/actorcontext"
	auditdomain "github.com/hengly4433/hotel-system/internal/audit/domain"
	auditrepo "github.com/hengly4433/hotel-system/internal/audit/repository"
	"github.com/hengly4433/hotel-system/internal/clock"
	obscontext "github.com/hengly4433/hotel-system/internal/observability/context"
	"github.com/hengly4433/hotel-system/internal/testdb"
	"github.com/hengly4433/hotel-system/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecordAndList(t *testing.T) {
	db := testdb.Open(t)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := &Service{db: db, log: zap.NewNop(), clock: clk, repo: auditrepo.Provide()}

	ctx := actorcontext.WithActorID(context.Background(), "clerk-7")
	ctx = obscontext.WithRequestID(ctx, "req-1")

	propertyID := uuid.New()
	entityID := uuid.New()
	require.NoError(t, svc.Record(ctx, auditdomain.Entry{
		PropertyID: &propertyID,
		EntityType: auditdomain.EntityReservation,
		EntityID:   entityID,
		Action:     auditdomain.ActionCreate,
		After:      map[string]any{"status": "CONFIRMED"},
	}))
	clk.Advance(time.Minute)
	require.NoError(t, svc.Record(ctx, auditdomain.Entry{
		PropertyID: &propertyID,
		EntityType: auditdomain.EntityReservation,
		EntityID:   entityID,
		Action:     auditdomain.ActionCancel,
		Before:     map[string]any{"status": "CONFIRMED"},
		After:      map[string]any{"status": "CANCELLED", "reason": "guest request"},
	}))
	clk.Advance(time.Minute)
	require.NoError(t, svc.Record(ctx, auditdomain.Entry{
		EntityType: auditdomain.EntityFolio,
		EntityID:   uuid.New(),
		Action:     auditdomain.ActionClose,
	}))

	resp, err := svc.List(context.Background(), auditdomain.ListRequest{
		EntityType: auditdomain.EntityReservation,
		EntityID:   entityID,
	})
	require.NoError(t, err)
	require.Len(t, resp.AuditLogs, 2)
	assert.False(t, resp.HasMore)

	latest := resp.AuditLogs[0]
	assert.Equal(t, auditdomain.ActionCancel, latest.Action)
	require.NotNil(t, latest.ActorID)
	assert.Equal(t, "clerk-7", *latest.ActorID)
	require.NotNil(t, latest.RequestID)
	assert.Equal(t, "req-1", *latest.RequestID)
	assert.JSONEq(t, `{"status":"CONFIRMED"}`, string(latest.BeforeState))
	assert.JSONEq(t, `{"status":"CANCELLED","reason":"guest request"}`, string(latest.AfterState))
	assert.Equal(t, auditdomain.ActionCreate, resp.AuditLogs[1].Action)
}

func TestListPaginates(t *testing.T) {
	db := testdb.Open(t)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := &Service{db: db, log: zap.NewNop(), clock: clk, repo: auditrepo.Provide()}

	entityID := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Record(context.Background(), auditdomain.Entry{
			EntityType: auditdomain.EntityPayment,
			EntityID:   entityID,
			Action:     auditdomain.ActionCreate,
		}))
		clk.Advance(time.Second)
	}

	first, err := svc.List(context.Background(), auditdomain.ListRequest{EntityID: entityID, Pagination: paginationOf("", 2)})
	require.NoError(t, err)
	require.Len(t, first.AuditLogs, 2)
	require.True(t, first.HasMore)

	second, err := svc.List(context.Background(), auditdomain.ListRequest{EntityID: entityID, Pagination: paginationOf(first.NextPageToken, 2)})
	require.NoError(t, err)
	require.Len(t, second.AuditLogs, 1)
	assert.False(t, second.HasMore)
	assert.True(t, second.AuditLogs[0].CreatedAt.Before(first.AuditLogs[1].CreatedAt))

	_, err = svc.List(context.Background(), auditdomain.ListRequest{Pagination: paginationOf("not-a-token", 2)})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidPageToken)
}

func TestRecordRejectsIncompleteEntry(t *testing.T) {
	svc := &Service{log: zap.NewNop(), clock: clock.SystemClock{}}
	err := svc.Record(context.Background(), auditdomain.Entry{EntityType: "reservation", Action: "create"})
	assert.ErrorIs(t, err, auditdomain.ErrInvalidEntry)
}

func paginationOf(token string, size int) pagination.Pagination {
	return pagination.Pagination{PageToken: token, PageSize: size}
}

func TestRecordReturnsInsertFailureWithoutLogging(t *testing.T) {
	db := testdb.Open(t)
	require.NoError(t, db.Exec(`DROP TABLE audit_logs`).Error)

	core, logs := observer.New(zapcore.WarnLevel)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := &Service{db: db, log: zap.New(core), clock: clk, repo: auditrepo.Provide()}

	err := svc.Record(context.Background(), auditdomain.Entry{
		EntityType: auditdomain.EntityReservation,
		EntityID:   uuid.New(),
		Action:     auditdomain.ActionCreate,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert audit log")
	assert.Zero(t, logs.Len())
}
