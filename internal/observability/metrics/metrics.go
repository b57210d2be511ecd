package metrics

import (
	"context"
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

// Metrics exposes application-level instruments.
type Metrics struct {
	syncRuns    metric.Int64Counter
	syncTenants metric.Int64Counter
	syncItems   metric.Int64Counter
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
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "studiolane"
	}
	meter := provider.Meter(name)

	syncRuns, err := meter.Int64Counter("studiolane_template_sync_runs_total")
	if err != nil {
		return nil, err
	}
	syncTenants, err := meter.Int64Counter("studiolane_template_sync_tenants_total")
	if err != nil {
		return nil, err
	}
	syncItems, err := meter.Int64Counter("studiolane_template_sync_items_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		syncRuns:    syncRuns,
		syncTenants: syncTenants,
		syncItems:   syncItems,
	}, nil
}

// RecordSyncRun counts a completed reconciliation pass.
func (m *Metrics) RecordSyncRun(ctx context.Context, success bool) {
	if m == nil || m.syncRuns == nil {
		return
	}
	m.syncRuns.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", success)))
}

// RecordSyncTenant counts one tenant's outcome within a pass.
func (m *Metrics) RecordSyncTenant(ctx context.Context, outcome string) {
	if m == nil || m.syncTenants == nil {
		return
	}
	m.syncTenants.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// RecordSyncItems counts item-level outcomes by type.
func (m *Metrics) RecordSyncItems(ctx context.Context, itemType, outcome string, count int64) {
	if m == nil || m.syncItems == nil || count == 0 {
		return
	}
	m.syncItems.Add(ctx, count, metric.WithAttributes(
		attribute.String("item_type", itemType),
		attribute.String("outcome", outcome),
	))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	ctx := context.Background()
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		return otlpmetrichttp.New(ctx,
			otlpmetrichttp.WithEndpoint(endpoint),
			otlpmetrichttp.WithInsecure(),
		)
	default:
		return otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(endpoint),
			otlpmetricgrpc.WithInsecure(),
		)
	}
}
