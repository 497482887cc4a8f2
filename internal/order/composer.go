package order

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"sweetshop-admin/internal/audit"
	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/view"
)

var (
	ErrNoCustomer    = errors.New("no customer selected")
	ErrNoSweet       = errors.New("no sweet selected")
	ErrItemsRequired = errors.New("order has no items")
	ErrNoSuchLine    = errors.New("no such line item")
)

// LineError reports the line item that failed validation.
type LineError struct {
	Index int
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index+1, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Line is one row of the composer. SweetID is zero until a sweet is picked.
type Line struct {
	SweetID  int64
	Quantity int
}

type ComposerOption func(*Composer)

// WithRequireItems rejects orders with no line items.
func WithRequireItems(require bool) ComposerOption {
	return func(c *Composer) { c.requireItems = require }
}

// Composer builds a new order from the customer and sweet lists.
type Composer struct {
	CustomerID int64

	client       Client
	deps         view.Deps
	requireItems bool

	customers []models.Customer
	sweets    []models.Sweet
	lines     []Line
	submit    view.Submitter
}

func NewComposer(client Client, deps view.Deps, opts ...ComposerOption) *Composer {
	c := &Composer{
		client:    client,
		deps:      deps.WithDefaults(),
		customers: []models.Customer{},
		sweets:    []models.Sweet{},
		lines:     []Line{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open loads the customer and sweet pickers concurrently. Either list
// that fails to load is left empty; the other is unaffected.
func (c *Composer) Open(ctx context.Context) {
	ctx, span := c.deps.Tracer.Start(ctx, "Composer.Open")
	defer span.End()

	var (
		wg        sync.WaitGroup
		customers []models.Customer
		sweets    []models.Sweet
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		customers, err = c.client.ListCustomers(ctx)
		if err != nil {
			c.deps.Log.Error("failed to fetch customers", zap.Error(err))
			customers = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		sweets, err = c.client.ListSweets(ctx, "")
		if err != nil {
			c.deps.Log.Error("failed to fetch sweets", zap.Error(err))
			sweets = nil
		}
	}()
	wg.Wait()

	if customers == nil {
		customers = []models.Customer{}
	}
	if sweets == nil {
		sweets = []models.Sweet{}
	}
	c.customers = customers
	c.sweets = sweets
	span.SetAttributes(
		attribute.Int("customers", len(customers)),
		attribute.Int("sweets", len(sweets)),
	)
}

func (c *Composer) Customers() []models.Customer { return c.customers }

func (c *Composer) Sweets() []models.Sweet { return c.sweets }

// Lines returns a copy of the current rows.
func (c *Composer) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Composer) SelectCustomer(id int64) {
	c.CustomerID = id
}

// AddItem appends an empty row with quantity 1.
func (c *Composer) AddItem() {
	c.lines = append(c.lines, Line{Quantity: 1})
}

func (c *Composer) SetSweet(i int, sweetID int64) error {
	if i < 0 || i >= len(c.lines) {
		return fmt.Errorf("%d: %w", i, ErrNoSuchLine)
	}
	c.lines[i].SweetID = sweetID
	return nil
}

// SetQuantity stores the quantity typed into row i. See ParseQuantity.
func (c *Composer) SetQuantity(i int, raw string) error {
	if i < 0 || i >= len(c.lines) {
		return fmt.Errorf("%d: %w", i, ErrNoSuchLine)
	}
	c.lines[i].Quantity = ParseQuantity(raw)
	return nil
}

// RemoveItem deletes row i; later rows move up one position.
func (c *Composer) RemoveItem(i int) error {
	if i < 0 || i >= len(c.lines) {
		return fmt.Errorf("%d: %w", i, ErrNoSuchLine)
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	return nil
}

// ParseQuantity reads the leading integer of raw. Input without one, and
// any value below 1, becomes 1.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 1
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func (c *Composer) Submitting() bool { return c.submit.Submitting() }

func (c *Composer) Error() string { return c.submit.Error() }

func (c *Composer) payload() (models.OrderCreate, error) {
	if c.CustomerID == 0 {
		return models.OrderCreate{}, ErrNoCustomer
	}
	if c.requireItems && len(c.lines) == 0 {
		return models.OrderCreate{}, ErrItemsRequired
	}
	items := make([]models.LineItem, 0, len(c.lines))
	for i, l := range c.lines {
		if l.SweetID == 0 {
			return models.OrderCreate{}, &LineError{Index: i, Err: ErrNoSweet}
		}
		items = append(items, models.LineItem{SweetID: l.SweetID, Quantity: l.Quantity})
	}
	return models.OrderCreate{CustomerID: c.CustomerID, Items: items}, nil
}

// Submit posts the order. Totals are left to the server.
func (c *Composer) Submit(ctx context.Context, onSuccess func()) error {
	in, err := c.payload()
	if err != nil {
		return err
	}

	return c.submit.Run(ctx, "Failed to create order", func(ctx context.Context) error {
		ctx, span := c.deps.Tracer.Start(ctx, "Composer.Submit")
		span.SetAttributes(
			attribute.Int64("order.customer_id", in.CustomerID),
			attribute.Int("order.items_count", len(in.Items)),
		)
		defer span.End()

		created, err := c.client.CreateOrder(ctx, in)
		var id int64
		if created != nil {
			id = created.ID
		}
		c.deps.Mutated(ctx, entity, audit.ActionCreated, id, err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.deps.Log.Warn("failed to create order",
				zap.Int64("customer_id", in.CustomerID),
				zap.Int("items", len(in.Items)),
				zap.Error(err),
			)
			return err
		}

		c.deps.Metrics.OrderLineItems.Record(ctx, int64(len(in.Items)),
			metric.WithAttributes(attribute.Bool("order.require_items", c.requireItems)))
		span.SetAttributes(attribute.Int64("order.id", id))
		c.deps.Log.Info("order created",
			zap.Int64("order_id", id),
			zap.Int64("customer_id", in.CustomerID),
			zap.Int("items", len(in.Items)),
		)
		return nil
	}, onSuccess)
}
