// Package view holds the state machines shared by the admin screens: the
// fetch/refresh cycle of a list and the submit cycle of a form.
package view

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"sweetshop-admin/internal/audit"
	"sweetshop-admin/internal/notify"
	"sweetshop-admin/internal/telemetry"
)

// Notifier is the slice of the notification center a screen talks to.
type Notifier interface {
	Notify(message string, severity notify.Severity)
	Confirm(message string, onConfirm func())
}

// Deps are the collaborators every screen receives from the shell.
type Deps struct {
	Notifier Notifier
	Audit    audit.Recorder
	Log      *zap.Logger
	Tracer   trace.Tracer
	Metrics  *telemetry.Metrics
}

// WithDefaults fills unset collaborators with inert implementations.
func (d Deps) WithDefaults() Deps {
	if d.Notifier == nil {
		d.Notifier = notify.NewCenter()
	}
	if d.Audit == nil {
		d.Audit = audit.Nop{}
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Tracer == nil {
		d.Tracer = otel.Tracer("sweetshop/view")
	}
	if d.Metrics == nil {
		d.Metrics = telemetry.NopMetrics()
	}
	return d
}

// Mutated records a mutation outcome and, on success, the audit event.
func (d Deps) Mutated(ctx context.Context, entity, action string, id int64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	d.Metrics.Mutations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
	if err == nil {
		d.Audit.Record(ctx, entity, action, id)
	}
}
