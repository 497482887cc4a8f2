// Package order holds the order screens: the order table, the status
// update form and the composer used to create an order.
package order

import (
	"context"

	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/notify"
	"sweetshop-admin/internal/view"
)

const entity = "order"

type Client interface {
	ListOrders(ctx context.Context, customerID int64) ([]models.Order, error)
	CreateOrder(ctx context.Context, in models.OrderCreate) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	ListSweets(ctx context.Context, category string) ([]models.Sweet, error)
}

type List struct {
	*view.List[models.Order]
	deps view.Deps
}

// NewList lists every order, or one customer's orders when customerID is
// non-zero.
func NewList(client Client, customerID int64, deps view.Deps) *List {
	deps = deps.WithDefaults()
	return &List{
		List: view.NewList(view.ListConfig[models.Order]{
			Entity: entity,
			Fetch: func(ctx context.Context) ([]models.Order, error) {
				return client.ListOrders(ctx, customerID)
			},
			Remove: client.DeleteOrder,
			Delete: view.DeleteText{
				Prompt:   "Are you sure? This will restore inventory.",
				Success:  "Order deleted successfully",
				Fallback: "Failed to delete order",
			},
		}, deps),
		deps: deps,
	}
}

// Created is the composer's success callback.
func (l *List) Created(ctx context.Context) {
	l.Refresh(ctx)
	l.deps.Notifier.Notify("Order created successfully", notify.Success)
}

// StatusUpdated is the status form's success callback.
func (l *List) StatusUpdated(ctx context.Context) {
	l.Refresh(ctx)
	l.deps.Notifier.Notify("Order status updated", notify.Success)
}

// StatusBadge maps a status to its badge tone. Unknown statuses render as
// pending does.
func StatusBadge(status models.OrderStatus) string {
	switch status {
	case models.StatusCompleted:
		return "success"
	case models.StatusCancelled:
		return "danger"
	default:
		return "warning"
	}
}

// CustomerName is the name shown in the customer column.
func CustomerName(o models.Order) string {
	if o.Customer == nil || o.Customer.Name == "" {
		return "N/A"
	}
	return o.Customer.Name
}

// Total renders the server-computed total. The client never sums items.
func Total(o models.Order) string {
	return models.FormatMoney(o.TotalPrice)
}

// Date renders the order date day first, the way the shop's locale does.
func Date(o models.Order) string {
	if o.OrderDate.IsZero() {
		return ""
	}
	return o.OrderDate.Format("2/1/2006")
}
