package telemetry

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

type Metrics struct {
	APIRequests    metric.Int64Counter
	APIRequestTime metric.Float64Histogram
	Mutations      metric.Int64Counter
	Notifications  metric.Int64Counter
	AuditPublished metric.Int64Counter
	AuditConsumed  metric.Int64Counter
	OrderLineItems metric.Int64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requests, err := meter.Int64Counter("api_requests_total",
		metric.WithDescription("Total requests issued to the backend API"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	reqTime, err := meter.Float64Histogram("api_request_duration_seconds",
		metric.WithDescription("Duration of backend API requests"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.2, 0.3, 0.5, 1.0, 2.5),
	)
	if err != nil {
		return nil, err
	}

	mutations, err := meter.Int64Counter("mutations_total",
		metric.WithDescription("Create, update and delete submissions by entity and outcome"),
		metric.WithUnit("{mutation}"),
	)
	if err != nil {
		return nil, err
	}

	notifications, err := meter.Int64Counter("notifications_shown_total",
		metric.WithDescription("Transient notifications shown by severity"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	published, err := meter.Int64Counter("audit_events_published_total",
		metric.WithDescription("Audit events published to Kafka"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	consumed, err := meter.Int64Counter("audit_events_consumed_total",
		metric.WithDescription("Audit events consumed from Kafka"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	lineItems, err := meter.Int64Histogram("order_line_items",
		metric.WithDescription("Line items per submitted order"),
		metric.WithUnit("{item}"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 10),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		APIRequests:    requests,
		APIRequestTime: reqTime,
		Mutations:      mutations,
		Notifications:  notifications,
		AuditPublished: published,
		AuditConsumed:  consumed,
		OrderLineItems: lineItems,
	}, nil
}

// NopMetrics returns instruments that record nothing. Tests and callers
// that run without a meter provider use it.
func NopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter("noop"))
	return m
}
