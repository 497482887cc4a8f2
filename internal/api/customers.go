package api

import (
	"context"
	"fmt"
	"net/http"

	"sweetshop-admin/internal/models"
)

func (c *Client) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return list[models.Customer](ctx, c, "ListCustomers", "/customers", nil)
}

func (c *Client) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	var cu models.Customer
	if err := c.do(ctx, "GetCustomer", http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, nil, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	var cu models.Customer
	if err := c.do(ctx, "CreateCustomer", http.MethodPost, "/customers", nil, in, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, in models.CustomerInput) (*models.Customer, error) {
	var cu models.Customer
	if err := c.do(ctx, "UpdateCustomer", http.MethodPut, fmt.Sprintf("/customers/%d", id), nil, in, &cu); err != nil {
		return nil, err
	}
	return &cu, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.do(ctx, "DeleteCustomer", http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil, nil, nil)
}
