package sweet

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"sweetshop-admin/internal/audit"
	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/view"
)

var ErrInvalidNumber = errors.New("not a number")

// Form is the add/edit sweet modal. Fields hold raw input; they are parsed
// only on submit.
type Form struct {
	Name        string
	Category    string
	Price       string
	Stock       string
	Description string

	imageURL string
	target   *models.Sweet
	client   Client
	deps     view.Deps
	submit   view.Submitter
}

// NewForm opens the form for target, or for a new sweet when target is nil.
func NewForm(client Client, target *models.Sweet, deps view.Deps) *Form {
	f := &Form{client: client, target: target, deps: deps.WithDefaults()}
	if target != nil {
		f.Name = target.Name
		f.Category = target.Category
		f.Price = strconv.FormatFloat(target.Price, 'f', -1, 64)
		f.Stock = strconv.Itoa(target.Stock)
		f.Description = target.Description
		f.imageURL = target.ImageURL
	}
	return f
}

func (f *Form) Editing() bool {
	return f.target != nil
}

func (f *Form) Title() string {
	if f.Editing() {
		return "Edit Sweet"
	}
	return "Add New Sweet"
}

func (f *Form) Submitting() bool {
	return f.submit.Submitting()
}

// Error is the inline error from the last failed submit.
func (f *Form) Error() string {
	return f.submit.Error()
}

func (f *Form) input() (models.SweetInput, error) {
	err := view.CheckRequired(
		view.Field{Name: "name", Value: f.Name, Required: true},
		view.Field{Name: "category", Value: f.Category, Required: true},
		view.Field{Name: "price", Value: f.Price, Required: true},
		view.Field{Name: "stock", Value: f.Stock, Required: true},
	)
	if err != nil {
		return models.SweetInput{}, err
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	if err != nil {
		return models.SweetInput{}, fmt.Errorf("price %q: %w", f.Price, ErrInvalidNumber)
	}
	stock, err := strconv.Atoi(strings.TrimSpace(f.Stock))
	if err != nil {
		return models.SweetInput{}, fmt.Errorf("stock %q: %w", f.Stock, ErrInvalidNumber)
	}
	return models.SweetInput{
		Name:        f.Name,
		Category:    f.Category,
		Price:       price,
		Stock:       stock,
		Description: f.Description,
		ImageURL:    f.imageURL,
	}, nil
}

// Submit creates or updates the sweet. Input the form cannot parse is
// rejected before any request is made. A failed request leaves the server's
// message in Error and keeps the form open; onSuccess runs otherwise.
func (f *Form) Submit(ctx context.Context, onSuccess func()) error {
	in, err := f.input()
	if err != nil {
		return err
	}

	action := audit.ActionCreated
	if f.Editing() {
		action = audit.ActionUpdated
	}

	return f.submit.Run(ctx, "Failed to save sweet", func(ctx context.Context) error {
		ctx, span := f.deps.Tracer.Start(ctx, "SweetForm.Submit")
		span.SetAttributes(attribute.String("action", action))
		defer span.End()

		var (
			saved *models.Sweet
			err   error
		)
		if f.Editing() {
			saved, err = f.client.UpdateSweet(ctx, f.target.ID, in)
		} else {
			saved, err = f.client.CreateSweet(ctx, in)
		}

		var id int64
		if saved != nil {
			id = saved.ID
		}
		f.deps.Mutated(ctx, entity, action, id, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			f.deps.Log.Warn("failed to save sweet", zap.String("action", action), zap.Error(err))
			return err
		}
		span.SetAttributes(attribute.Int64("sweet.id", id))
		return nil
	}, onSuccess)
}
