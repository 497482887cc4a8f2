// Package customer holds the customer list and the add/edit customer form.
package customer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"sweetshop-admin/internal/audit"
	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/notify"
	"sweetshop-admin/internal/view"
)

const entity = "customer"

type Client interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, in models.CustomerInput) (*models.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, in models.CustomerInput) (*models.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type List struct {
	*view.List[models.Customer]
	deps view.Deps
}

func NewList(client Client, deps view.Deps) *List {
	deps = deps.WithDefaults()
	return &List{
		List: view.NewList(view.ListConfig[models.Customer]{
			Entity: entity,
			Fetch:  client.ListCustomers,
			Remove: client.DeleteCustomer,
			Delete: view.DeleteText{
				Prompt:   "Are you sure you want to delete this customer?",
				Success:  "Customer deleted successfully",
				Fallback: "Failed to delete customer",
			},
		}, deps),
		deps: deps,
	}
}

func (l *List) Saved(ctx context.Context, updated bool) {
	l.Refresh(ctx)
	msg := "Customer added successfully"
	if updated {
		msg = "Customer updated successfully"
	}
	l.deps.Notifier.Notify(msg, notify.Success)
}

// Form is the add/edit customer modal. Phone and address are optional.
type Form struct {
	Name    string
	Email   string
	Phone   string
	Address string

	target *models.Customer
	client Client
	deps   view.Deps
	submit view.Submitter
}

func NewForm(client Client, target *models.Customer, deps view.Deps) *Form {
	f := &Form{client: client, target: target, deps: deps.WithDefaults()}
	if target != nil {
		f.Name = target.Name
		f.Email = target.Email
		f.Phone = target.Phone
		f.Address = target.Address
	}
	return f
}

func (f *Form) Editing() bool { return f.target != nil }

func (f *Form) Title() string {
	if f.Editing() {
		return "Edit Customer"
	}
	return "Add New Customer"
}

func (f *Form) Submitting() bool { return f.submit.Submitting() }

func (f *Form) Error() string { return f.submit.Error() }

func (f *Form) Submit(ctx context.Context, onSuccess func()) error {
	err := view.CheckRequired(
		view.Field{Name: "name", Value: f.Name, Required: true},
		view.Field{Name: "email", Value: f.Email, Required: true},
	)
	if err != nil {
		return err
	}
	in := models.CustomerInput{
		Name:    f.Name,
		Email:   f.Email,
		Phone:   f.Phone,
		Address: f.Address,
	}

	action := audit.ActionCreated
	if f.Editing() {
		action = audit.ActionUpdated
	}

	return f.submit.Run(ctx, "Failed to save customer", func(ctx context.Context) error {
		ctx, span := f.deps.Tracer.Start(ctx, "CustomerForm.Submit")
		span.SetAttributes(attribute.String("action", action))
		defer span.End()

		var (
			saved *models.Customer
			err   error
		)
		if f.Editing() {
			saved, err = f.client.UpdateCustomer(ctx, f.target.ID, in)
		} else {
			saved, err = f.client.CreateCustomer(ctx, in)
		}

		var id int64
		if saved != nil {
			id = saved.ID
		}
		f.deps.Mutated(ctx, entity, action, id, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			f.deps.Log.Warn("failed to save customer", zap.String("action", action), zap.Error(err))
			return err
		}
		return nil
	}, onSuccess)
}
