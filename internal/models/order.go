package models

import (
	"encoding/json"
	"fmt"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// Statuses lists the values in the order the status picker shows them.
var Statuses = []OrderStatus{StatusPending, StatusCompleted, StatusCancelled}

func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Order mirrors the backend record. TotalPrice is computed server-side and
// is nil when the backend omitted it.
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
	Customer   *Customer   `json:"customer,omitempty"`
	OrderDate  Timestamp   `json:"order_date"`
	Status     OrderStatus `json:"status"`
	TotalPrice *float64    `json:"total_price,omitempty"`
	Items      []OrderItem `json:"items"`
}

// UnmarshalJSON also reads the total from total_amount when total_price
// is absent.
func (o *Order) UnmarshalJSON(data []byte) error {
	type plain Order
	aux := struct {
		*plain
		TotalAmount *float64 `json:"total_amount"`
	}{plain: (*plain)(o)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if o.TotalPrice == nil {
		o.TotalPrice = aux.TotalAmount
	}
	return nil
}

type OrderItem struct {
	ID       int64    `json:"id,omitempty"`
	SweetID  int64    `json:"sweet_id"`
	Sweet    *Sweet   `json:"sweet,omitempty"`
	Quantity int      `json:"quantity"`
	Price    float64  `json:"price,omitempty"`
	Subtotal *float64 `json:"subtotal,omitempty"`
}

type LineItem struct {
	SweetID  int64 `json:"sweet_id"`
	Quantity int   `json:"quantity"`
}

type OrderCreate struct {
	CustomerID int64      `json:"customer_id"`
	Items      []LineItem `json:"items"`
}

type OrderStatusUpdate struct {
	Status OrderStatus `json:"status"`
}
