package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"sweetshop-admin/internal/models"
)

// ListOrders returns all orders, or only one customer's when customerID
// is non-zero.
func (c *Client) ListOrders(ctx context.Context, customerID int64) ([]models.Order, error) {
	var q url.Values
	if customerID != 0 {
		q = url.Values{"customer_id": {strconv.FormatInt(customerID, 10)}}
	}
	return list[models.Order](ctx, c, "ListOrders", "/orders", q)
}

func (c *Client) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	var o models.Order
	if err := c.do(ctx, "GetOrder", http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) CreateOrder(ctx context.Context, in models.OrderCreate) (*models.Order, error) {
	if in.Items == nil {
		in.Items = []models.LineItem{}
	}
	var o models.Order
	if err := c.do(ctx, "CreateOrder", http.MethodPost, "/orders", nil, in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	var o models.Order
	in := models.OrderStatusUpdate{Status: status}
	if err := c.do(ctx, "UpdateOrderStatus", http.MethodPut, fmt.Sprintf("/orders/%d", id), nil, in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) error {
	return c.do(ctx, "DeleteOrder", http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil, nil, nil)
}
