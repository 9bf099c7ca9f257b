package metrics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const (
	AllocationReasonDeadlineExceeded     = "deadline_exceeded"
	AllocationReasonLockTimeout          = "db_lock_timeout"
	AllocationReasonSerializationFailure = "serialization_failure"
	AllocationReasonUniqueViolation      = "unique_violation"
	AllocationReasonBusinessRule         = "business_rule"
	AllocationReasonUnknown              = "unknown"
)

const (
	AllocationModeAssigned = "assigned"
	AllocationModePooled   = "pooled"
)

// AllocationMetrics tracks the reservation transaction: how long it holds the
// room-type lock and why it fails.
type AllocationMetrics struct {
	txDuration *prometheus.HistogramVec
	lockWait   prometheus.Observer
	failures   *prometheus.CounterVec
	nights     *prometheus.CounterVec
}

var (
	allocationOnce    sync.Once
	allocationMetrics *AllocationMetrics
)

// AllocationWithConfig returns the process-wide instance registered on the
// default prometheus registry.
func AllocationWithConfig(cfg Config) *AllocationMetrics {
	allocationOnce.Do(func() {
		allocationMetrics = NewAllocationMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return allocationMetrics
}

func NewAllocationMetrics(registerer prometheus.Registerer, cfg Config) *AllocationMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "hotel"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{"service": serviceName, "env": environment}

	txDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "hotel_reservation_tx_duration_seconds",
		Help:        "Reservation create transaction latency.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		ConstLabels: constLabels,
	}, []string{"outcome"})
	lockWait := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:        "hotel_room_type_lock_wait_seconds",
		Help:        "Time spent waiting for the room type row lock.",
		Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		ConstLabels: constLabels,
	})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "hotel_reservation_tx_failures_total",
		Help:        "Reservation create failures by low-cardinality reason.",
		ConstLabels: constLabels,
	}, []string{"reason"})
	nights := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "hotel_nights_allocated_total",
		Help:        "Nights held by allocation mode.",
		ConstLabels: constLabels,
	}, []string{"mode"})

	registerer.MustRegister(txDuration, lockWait, failures, nights)

	return &AllocationMetrics{
		txDuration: txDuration,
		lockWait:   lockWait,
		failures:   failures,
		nights:     nights,
	}
}

func (m *AllocationMetrics) ObserveTx(start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "committed"
	if err != nil {
		outcome = "rolled_back"
		m.failures.WithLabelValues(ClassifyAllocationFailure(err)).Inc()
	}
	m.txDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
}

func (m *AllocationMetrics) ObserveLockWait(d time.Duration) {
	if m == nil {
		return
	}
	m.lockWait.Observe(d.Seconds())
}

func (m *AllocationMetrics) AddNights(mode string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.nights.WithLabelValues(mode).Add(float64(n))
}

// ClassifyAllocationFailure maps a transaction error to a metric reason.
// Errors that carry a business code are counted as business_rule.
func ClassifyAllocationFailure(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return AllocationReasonDeadlineExceeded
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03":
			return AllocationReasonLockTimeout
		case "40001", "40P01":
			return AllocationReasonSerializationFailure
		case "23505":
			return AllocationReasonUniqueViolation
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return AllocationReasonUniqueViolation
	}
	var coded interface{ StatusCode() int }
	if errors.As(err, &coded) {
		return AllocationReasonBusinessRule
	}
	return AllocationReasonUnknown
}
