package order

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"sweetshop-admin/internal/audit"
	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/view"
)

// StatusForm changes the status of one order. It has no other fields.
type StatusForm struct {
	Status models.OrderStatus

	order  models.Order
	client Client
	deps   view.Deps
	submit view.Submitter
}

func NewStatusForm(client Client, o models.Order, deps view.Deps) *StatusForm {
	status := o.Status
	if status == "" {
		status = models.StatusPending
	}
	return &StatusForm{Status: status, order: o, client: client, deps: deps.WithDefaults()}
}

// Set selects a status by its wire name.
func (f *StatusForm) Set(raw string) error {
	st, err := models.ParseOrderStatus(raw)
	if err != nil {
		return err
	}
	f.Status = st
	return nil
}

// Subtitle identifies the order being edited.
func (f *StatusForm) Subtitle() string {
	name := ""
	if f.order.Customer != nil {
		name = f.order.Customer.Name
	}
	return fmt.Sprintf("Order #%d - %s", f.order.ID, name)
}

func (f *StatusForm) Submitting() bool { return f.submit.Submitting() }

func (f *StatusForm) Error() string { return f.submit.Error() }

func (f *StatusForm) Submit(ctx context.Context, onSuccess func()) error {
	return f.submit.Run(ctx, "Failed to update status", func(ctx context.Context) error {
		ctx, span := f.deps.Tracer.Start(ctx, "StatusForm.Submit")
		span.SetAttributes(
			attribute.Int64("order.id", f.order.ID),
			attribute.String("order.status", string(f.Status)),
		)
		defer span.End()

		_, err := f.client.UpdateOrderStatus(ctx, f.order.ID, f.Status)
		f.deps.Mutated(ctx, entity, audit.ActionStatusChanged, f.order.ID, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			f.deps.Log.Warn("failed to update order status",
				zap.Int64("order_id", f.order.ID),
				zap.String("status", string(f.Status)),
				zap.Error(err),
			)
			return err
		}
		return nil
	}, onSuccess)
}
