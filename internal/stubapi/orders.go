package stubapi

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"sweetshop-admin/internal/models"
)

type OrderRequest struct {
	CustomerID int64
	Status     models.OrderStatus
	Items      []models.LineItem
}

// hydrateLocked embeds the customer and sweets an order refers to.
func hydrateLocked(sh *shop, o models.Order) models.Order {
	if c, ok := sh.customers[o.CustomerID]; ok {
		o.Customer = &c
	}
	items := make([]models.OrderItem, len(o.Items))
	for i, it := range o.Items {
		if sw, ok := sh.sweets[it.SweetID]; ok {
			it.Sweet = &sw
		}
		items[i] = it
	}
	o.Items = items
	return o
}

func (s *Store) ListOrders(ctx context.Context, userID string, customerID int64) []models.Order {
	_, span := s.span(ctx, "Store.ListOrders", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.shopLocked(userID)
	orders := sortedValues(sh.orders, func(o models.Order) bool {
		return customerID == 0 || o.CustomerID == customerID
	})
	for i := range orders {
		orders[i] = hydrateLocked(sh, orders[i])
	}
	return orders
}

func (s *Store) GetOrder(ctx context.Context, userID string, id int64) (models.Order, error) {
	_, span := s.span(ctx, "Store.GetOrder", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.shopLocked(userID)
	o, ok := sh.orders[id]
	if !ok {
		return models.Order{}, fail(span, fmt.Errorf("order %d: %w", id, ErrNotFound))
	}
	return hydrateLocked(sh, o), nil
}

// CreateOrder prices every line at the sweet's current price and takes the
// quantities out of stock. Either every line is filled or nothing changes.
func (s *Store) CreateOrder(ctx context.Context, userID string, req OrderRequest) (models.Order, error) {
	_, span := s.span(ctx, "Store.CreateOrder", userID)
	span.SetAttributes(
		attribute.Int64("order.customer_id", req.CustomerID),
		attribute.Int("order.items_count", len(req.Items)),
	)
	defer span.End()

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if _, err := models.ParseOrderStatus(string(status)); err != nil {
		return models.Order{}, fail(span, invalid("%v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.shopLocked(userID)
	if _, ok := sh.customers[req.CustomerID]; !ok {
		return models.Order{}, fail(span, invalid("Customer with ID %d not found", req.CustomerID))
	}

	remaining := map[int64]int{}
	items := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, li := range req.Items {
		sw, ok := sh.sweets[li.SweetID]
		if !ok {
			return models.Order{}, fail(span, invalid("Sweet with ID %d not found", li.SweetID))
		}
		if li.Quantity < 1 {
			return models.Order{}, fail(span, invalid("Quantity for %s must be at least 1", sw.Name))
		}
		left, seen := remaining[sw.ID]
		if !seen {
			left = sw.Stock
		}
		if left < li.Quantity {
			return models.Order{}, fail(span, &StockError{Sweet: sw.Name})
		}
		remaining[sw.ID] = left - li.Quantity

		subtotal := decimal.NewFromFloat(sw.Price).Mul(decimal.NewFromInt(int64(li.Quantity)))
		total = total.Add(subtotal)
		items = append(items, models.OrderItem{
			ID:       s.id("order_items"),
			SweetID:  sw.ID,
			Quantity: li.Quantity,
			Price:    sw.Price,
			Subtotal: models.Amount(subtotal.InexactFloat64()),
		})
	}

	for id, left := range remaining {
		sw := sh.sweets[id]
		sw.Stock = left
		sw.UpdatedAt = s.stamp()
		sh.sweets[id] = sw
	}

	o := models.Order{
		ID:         s.id("orders"),
		CustomerID: req.CustomerID,
		OrderDate:  s.stamp(),
		Status:     status,
		TotalPrice: models.Amount(total.InexactFloat64()),
		Items:      items,
	}
	sh.orders[o.ID] = o
	span.SetAttributes(attribute.Int64("order.id", o.ID))
	s.log.Info("order created",
		zap.String("user_id", userID),
		zap.Int64("order_id", o.ID),
		zap.String("total", total.StringFixed(2)),
	)
	return hydrateLocked(sh, o), nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, userID string, id int64, status models.OrderStatus) (models.Order, error) {
	_, span := s.span(ctx, "Store.UpdateOrderStatus", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.shopLocked(userID)
	o, ok := sh.orders[id]
	if !ok {
		return models.Order{}, fail(span, fmt.Errorf("order %d: %w", id, ErrNotFound))
	}
	if status != "" {
		if _, err := models.ParseOrderStatus(string(status)); err != nil {
			return models.Order{}, fail(span, invalid("%v", err))
		}
		o.Status = status
	}
	sh.orders[id] = o
	return hydrateLocked(sh, o), nil
}

// DeleteOrder removes the order and returns its quantities to stock.
func (s *Store) DeleteOrder(ctx context.Context, userID string, id int64) error {
	_, span := s.span(ctx, "Store.DeleteOrder", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.shopLocked(userID)
	o, ok := sh.orders[id]
	if !ok {
		return fail(span, fmt.Errorf("order %d: %w", id, ErrNotFound))
	}
	for _, it := range o.Items {
		if sw, ok := sh.sweets[it.SweetID]; ok {
			sw.Stock += it.Quantity
			sh.sweets[sw.ID] = sw
		}
	}
	delete(sh.orders, id)
	return nil
}

func (s *Store) Stats(ctx context.Context, userID string) models.DashboardStats {
	_, span := s.span(ctx, "Store.Stats", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.shopLocked(userID)
	stats := models.DashboardStats{
		TotalSweets:    len(sh.sweets),
		TotalCustomers: len(sh.customers),
		TotalOrders:    len(sh.orders),
	}
	revenue := decimal.Zero
	for _, o := range sh.orders {
		if o.Status == models.StatusPending {
			stats.PendingOrders++
		}
		if o.TotalPrice != nil {
			revenue = revenue.Add(decimal.NewFromFloat(*o.TotalPrice))
		}
	}
	stats.TotalRevenue = models.Amount(revenue.InexactFloat64())
	return stats
}
