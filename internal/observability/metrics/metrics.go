package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes booking instruments. A nil *Metrics records nothing.
type Metrics struct {
	reservationsCreated   metric.Int64Counter
	reservationTransition metric.Int64Counter
	inventoryConflicts    metric.Int64Counter
	folioItemsPosted      metric.Int64Counter
	folioPayments         metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return provider, nil
}

// New creates the domain instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "hotel"
	}
	meter := provider.Meter(name)

	reservationsCreated, err := meter.Int64Counter("hotel_reservations_created_total")
	if err != nil {
		return nil, err
	}
	reservationTransition, err := meter.Int64Counter("hotel_reservation_transitions_total")
	if err != nil {
		return nil, err
	}
	inventoryConflicts, err := meter.Int64Counter("hotel_inventory_conflicts_total")
	if err != nil {
		return nil, err
	}
	folioItemsPosted, err := meter.Int64Counter("hotel_folio_items_posted_total")
	if err != nil {
		return nil, err
	}
	folioPayments, err := meter.Int64Counter("hotel_folio_payments_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		reservationsCreated:   reservationsCreated,
		reservationTransition: reservationTransition,
		inventoryConflicts:    inventoryConflicts,
		folioItemsPosted:      folioItemsPosted,
		folioPayments:         folioPayments,
	}, nil
}

func (m *Metrics) RecordReservationCreated(ctx context.Context, channel string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("channel", strings.TrimSpace(channel)))
	m.reservationsCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordTransition(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	)
	m.reservationTransition.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordInventoryConflict counts rejected allocations by error code.
func (m *Metrics) RecordInventoryConflict(ctx context.Context, code string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("code", code))
	m.inventoryConflicts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordFolioItems(ctx context.Context, itemType string, count int) {
	if m == nil || count <= 0 {
		return
	}
	attrs := FilterAttributes(attribute.String("item_type", itemType))
	m.folioItemsPosted.Add(ctx, int64(count), metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordPayment(ctx context.Context, method, status string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("method", strings.ToLower(strings.TrimSpace(method))),
		attribute.String("status", status),
	)
	m.folioPayments.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"channel":   {},
	"from":      {},
	"to":        {},
	"code":      {},
	"item_type": {},
	"method":    {},
	"status":    {},
	"route":     {},
}

// FilterAttributes strips labels outside the allow-list so ids never become
// metric dimensions.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
