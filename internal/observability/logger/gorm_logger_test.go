package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func withObservedGlobal(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestTableFromSQL(t *testing.T) {
	assert.Equal(t, "reservation_nights", tableFromSQL(`INSERT INTO reservation_nights (id) VALUES (?)`))
	assert.Equal(t, "folios", tableFromSQL(`SELECT id FROM "folios" WHERE id = ?`))
	assert.Equal(t, "reservations", tableFromSQL(`UPDATE reservations SET status = ?`))
	assert.Equal(t, "unknown", tableFromSQL(`BEGIN`))
}

func TestTraceLogsUniqueViolationAsWarn(t *testing.T) {
	logs := withObservedGlobal(t)
	l := NewGormLogger(DefaultGormLoggerConfig())

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO reservation_nights", 0
	}, errors.New("UNIQUE constraint failed: reservation_nights.room_id"))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "gorm.query", entries[0].Message)
	}
}

func TestTraceSkipsRecordNotFound(t *testing.T) {
	logs := withObservedGlobal(t)
	l := NewGormLogger(DefaultGormLoggerConfig())

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM guests", 0
	}, gormlogger.ErrRecordNotFound)

	assert.Equal(t, 0, logs.Len())
}

func TestSilentModeLogsNothing(t *testing.T) {
	logs := withObservedGlobal(t)
	l := NewGormLogger(DefaultGormLoggerConfig()).LogMode(gormlogger.Silent)

	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, errors.New("boom"))
	l.Error(context.Background(), "boom")

	assert.Equal(t, 0, logs.Len())
}
