package customer

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweetshop-admin/internal/api"
	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/notify"
	"sweetshop-admin/internal/view"
)

type fakeClient struct {
	customers []models.Customer
	last      models.CustomerInput
	lastID    int64
	err       error
	deleteErr error
}

func (c *fakeClient) ListCustomers(context.Context) ([]models.Customer, error) {
	return append([]models.Customer{}, c.customers...), nil
}

func (c *fakeClient) CreateCustomer(_ context.Context, in models.CustomerInput) (*models.Customer, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.last = in
	return &models.Customer{ID: 10, Name: in.Name, Email: in.Email}, nil
}

func (c *fakeClient) UpdateCustomer(_ context.Context, id int64, in models.CustomerInput) (*models.Customer, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.last, c.lastID = in, id
	return &models.Customer{ID: id}, nil
}

func (c *fakeClient) DeleteCustomer(_ context.Context, id int64) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	kept := c.customers[:0]
	for _, cu := range c.customers {
		if cu.ID != id {
			kept = append(kept, cu)
		}
	}
	c.customers = kept
	return nil
}

// autoConfirm answers every confirmation with ok.
func autoConfirm(center *notify.Center, ok bool) {
	center.Subscribe(func(s notify.State) {
		if s.Confirmation != nil {
			center.Resolve(ok)
		}
	})
}

func TestDeleteCustomerRefetches(t *testing.T) {
	center := notify.NewCenter()
	autoConfirm(center, true)
	client := &fakeClient{customers: []models.Customer{{ID: 3, Name: "Priya"}, {ID: 7, Name: "Rahul"}}}
	l := NewList(client, view.Deps{Notifier: center})
	ctx := context.Background()
	l.Refresh(ctx)

	l.Delete(ctx, 7)

	require.Len(t, l.Items(), 1)
	assert.Equal(t, int64(3), l.Items()[0].ID)
	n, ok := center.Current()
	require.True(t, ok)
	assert.Equal(t, notify.Success, n.Severity)
	assert.Equal(t, "Customer deleted successfully", n.Message)
}

func TestDeleteCustomerFailureKeepsList(t *testing.T) {
	center := notify.NewCenter()
	autoConfirm(center, true)
	client := &fakeClient{
		customers: []models.Customer{{ID: 7, Name: "Rahul"}},
		deleteErr: &api.Error{StatusCode: http.StatusBadRequest, Message: "Customer has existing orders"},
	}
	l := NewList(client, view.Deps{Notifier: center})
	ctx := context.Background()
	l.Refresh(ctx)

	l.Delete(ctx, 7)

	assert.Len(t, l.Items(), 1)
	n, _ := center.Current()
	assert.Equal(t, notify.Error, n.Severity)
	assert.Equal(t, "Customer has existing orders", n.Message)
}

func TestFormCreateAndEdit(t *testing.T) {
	client := &fakeClient{}
	f := NewForm(client, nil, view.Deps{})
	assert.Equal(t, "Add New Customer", f.Title())

	f.Name = "Anita Desai"
	f.Email = "anita@example.com"
	require.NoError(t, f.Submit(context.Background(), nil))
	assert.Equal(t, models.CustomerInput{Name: "Anita Desai", Email: "anita@example.com"}, client.last)

	target := &models.Customer{ID: 4, Name: "Vikram", Email: "vikram@example.com", Phone: "+91 98765 43210"}
	f = NewForm(client, target, view.Deps{})
	assert.Equal(t, "+91 98765 43210", f.Phone)
	f.Address = "12 MG Road, Bengaluru"
	require.NoError(t, f.Submit(context.Background(), nil))
	assert.Equal(t, int64(4), client.lastID)
	assert.Equal(t, "12 MG Road, Bengaluru", client.last.Address)
}

func TestFormRequiresEmail(t *testing.T) {
	f := NewForm(&fakeClient{}, nil, view.Deps{})
	f.Name = "Anita"
	err := f.Submit(context.Background(), nil)
	var mf *view.MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "email", mf.Field)
}

func TestFormFallbackMessage(t *testing.T) {
	f := NewForm(&fakeClient{err: &api.Error{StatusCode: http.StatusInternalServerError}}, nil, view.Deps{})
	f.Name, f.Email = "Anita", "anita@example.com"
	require.Error(t, f.Submit(context.Background(), nil))
	assert.Equal(t, "Failed to save customer", f.Error())
}
