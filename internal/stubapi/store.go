// Package stubapi is an in-memory implementation of the sweet shop backend.
// It serves the same REST contract as the production service, keeps every
// signed-in user's data apart, and is used for local runs and end-to-end
// tests of the admin client.
package stubapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"sweetshop-admin/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("Email already exists")
	ErrSweetInUse        = errors.New("Cannot delete sweet that is used in orders")
	ErrCustomerHasOrders = errors.New("Cannot delete customer that has orders")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InputError is a request the store refuses as malformed.
type InputError struct {
	Message string
}

func invalid(format string, args ...any) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

func (e *InputError) Error() string {
	return e.Message
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

// StockError names the sweet an order line could not be filled from.
type StockError struct {
	Sweet string
}

func (e *StockError) Error() string {
	return "Insufficient stock for " + e.Sweet
}

func (e *StockError) Unwrap() error {
	return ErrInsufficientStock
}

// SweetPatch carries the fields of a sweet create or update. Nil fields are
// left unchanged on update.
type SweetPatch struct {
	Name        *string
	Category    *string
	Description *string
	Price       *float64
	Stock       *int
	ImageURL    *string
}

type CustomerPatch struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

type shop struct {
	sweets    map[int64]models.Sweet
	customers map[int64]models.Customer
	orders    map[int64]models.Order
}

func newShop() *shop {
	return &shop{
		sweets:    map[int64]models.Sweet{},
		customers: map[int64]models.Customer{},
		orders:    map[int64]models.Order{},
	}
}

// Store holds every user's shop. Ids are global across users, as rows in
// a shared table would be.
type Store struct {
	mu     sync.Mutex
	shops  map[string]*shop
	nextID map[string]int64
	seed   bool
	now    func() time.Time

	log    *zap.Logger
	tracer trace.Tracer
}

type StoreOption func(*Store)

// WithSeed gives every user a starter catalog on first access.
func WithSeed() StoreOption {
	return func(s *Store) { s.seed = true }
}

func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

func NewStore(log *zap.Logger, tracer trace.Tracer, opts ...StoreOption) *Store {
	s := &Store{
		shops:  map[string]*shop{},
		nextID: map[string]int64{},
		now:    time.Now,
		log:    log,
		tracer: tracer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

func (s *Store) stamp() models.Timestamp {
	return models.Timestamp{Time: s.now().UTC()}
}

// shopLocked returns the user's shop, creating and seeding it if needed.
func (s *Store) shopLocked(userID string) *shop {
	sh, ok := s.shops[userID]
	if ok {
		return sh
	}
	sh = newShop()
	s.shops[userID] = sh
	if s.seed {
		s.seedLocked(sh)
		s.log.Info("seeded shop", zap.String("user_id", userID))
	}
	return sh
}

func (s *Store) seedLocked(sh *shop) {
	now := s.stamp()
	for _, sw := range SeedSweets {
		sw.ID = s.id("sweets")
		sw.CreatedAt, sw.UpdatedAt = now, now
		sh.sweets[sw.ID] = sw
	}
	for _, c := range SeedCustomers {
		c.ID = s.id("customers")
		c.CreatedAt = now
		sh.customers[c.ID] = c
	}
}

func (s *Store) span(ctx context.Context, name, userID string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("user.id", userID)))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func sortedValues[T any](m map[int64]T, keep func(T) bool) []T {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if keep == nil || keep(m[id]) {
			out = append(out, m[id])
		}
	}
	return out
}

func (s *Store) ListSweets(ctx context.Context, userID, category string) []models.Sweet {
	_, span := s.span(ctx, "Store.ListSweets", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.shopLocked(userID).sweets, func(sw models.Sweet) bool {
		return category == "" || sw.Category == category
	})
}

func (s *Store) GetSweet(ctx context.Context, userID string, id int64) (models.Sweet, error) {
	_, span := s.span(ctx, "Store.GetSweet", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	sw, ok := s.shopLocked(userID).sweets[id]
	if !ok {
		return models.Sweet{}, fail(span, fmt.Errorf("sweet %d: %w", id, ErrNotFound))
	}
	return sw, nil
}

func (s *Store) CreateSweet(ctx context.Context, userID string, p SweetPatch) (models.Sweet, error) {
	_, span := s.span(ctx, "Store.CreateSweet", userID)
	defer span.End()

	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		return models.Sweet{}, fail(span, invalid("name is required"))
	}
	if p.Price == nil {
		return models.Sweet{}, fail(span, invalid("price is required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.shopLocked(userID)
	now := s.stamp()
	sw := models.Sweet{ID: s.id("sweets"), CreatedAt: now, UpdatedAt: now}
	applySweet(&sw, p)
	sh.sweets[sw.ID] = sw
	span.SetAttributes(attribute.Int64("sweet.id", sw.ID))
	return sw, nil
}

func applySweet(sw *models.Sweet, p SweetPatch) {
	if p.Name != nil {
		sw.Name = *p.Name
	}
	if p.Category != nil {
		sw.Category = *p.Category
	}
	if p.Description != nil {
		sw.Description = *p.Description
	}
	if p.Price != nil {
		sw.Price = *p.Price
	}
	if p.Stock != nil {
		sw.Stock = *p.Stock
	}
	if p.ImageURL != nil {
		sw.ImageURL = *p.ImageURL
	}
}

func (s *Store) UpdateSweet(ctx context.Context, userID string, id int64, p SweetPatch) (models.Sweet, error) {
	_, span := s.span(ctx, "Store.UpdateSweet", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.shopLocked(userID)
	sw, ok := sh.sweets[id]
	if !ok {
		return models.Sweet{}, fail(span, fmt.Errorf("sweet %d: %w", id, ErrNotFound))
	}
	applySweet(&sw, p)
	sw.UpdatedAt = s.stamp()
	sh.sweets[id] = sw
	return sw, nil
}

func (s *Store) DeleteSweet(ctx context.Context, userID string, id int64) error {
	_, span := s.span(ctx, "Store.DeleteSweet", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.shopLocked(userID)
	if _, ok := sh.sweets[id]; !ok {
		return fail(span, fmt.Errorf("sweet %d: %w", id, ErrNotFound))
	}
	for _, o := range sh.orders {
		for _, it := range o.Items {
			if it.SweetID == id {
				return fail(span, ErrSweetInUse)
			}
		}
	}
	delete(sh.sweets, id)
	return nil
}

// Categories returns the distinct non-empty categories, sorted.
func (s *Store) Categories(ctx context.Context, userID string) []string {
	_, span := s.span(ctx, "Store.Categories", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, sw := range s.shopLocked(userID).sweets {
		if sw.Category != "" && !seen[sw.Category] {
			seen[sw.Category] = true
			out = append(out, sw.Category)
		}
	}
	sort.Strings(out)
	return out
}

func (s *Store) ListCustomers(ctx context.Context, userID string) []models.Customer {
	_, span := s.span(ctx, "Store.ListCustomers", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.shopLocked(userID).customers, nil)
}

func (s *Store) GetCustomer(ctx context.Context, userID string, id int64) (models.Customer, error) {
	_, span := s.span(ctx, "Store.GetCustomer", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.shopLocked(userID).customers[id]
	if !ok {
		return models.Customer{}, fail(span, fmt.Errorf("customer %d: %w", id, ErrNotFound))
	}
	return c, nil
}

func emailTaken(sh *shop, email string, except int64) bool {
	for id, c := range sh.customers {
		if id != except && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}

func applyCustomer(c *models.Customer, p CustomerPatch) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
}

func (s *Store) CreateCustomer(ctx context.Context, userID string, p CustomerPatch) (models.Customer, error) {
	_, span := s.span(ctx, "Store.CreateCustomer", userID)
	defer span.End()

	if p.Name == nil || strings.TrimSpace(*p.Name) == "" {
		return models.Customer{}, fail(span, invalid("name is required"))
	}
	if p.Email == nil || strings.TrimSpace(*p.Email) == "" {
		return models.Customer{}, fail(span, invalid("email is required"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.shopLocked(userID)
	if emailTaken(sh, *p.Email, 0) {
		return models.Customer{}, fail(span, ErrEmailExists)
	}
	c := models.Customer{ID: s.id("customers"), CreatedAt: s.stamp()}
	applyCustomer(&c, p)
	sh.customers[c.ID] = c
	return c, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, userID string, id int64, p CustomerPatch) (models.Customer, error) {
	_, span := s.span(ctx, "Store.UpdateCustomer", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.shopLocked(userID)
	c, ok := sh.customers[id]
	if !ok {
		return models.Customer{}, fail(span, fmt.Errorf("customer %d: %w", id, ErrNotFound))
	}
	if p.Email != nil && emailTaken(sh, *p.Email, id) {
		return models.Customer{}, fail(span, ErrEmailExists)
	}
	applyCustomer(&c, p)
	sh.customers[id] = c
	return c, nil
}

func (s *Store) DeleteCustomer(ctx context.Context, userID string, id int64) error {
	_, span := s.span(ctx, "Store.DeleteCustomer", userID)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	sh := s.shopLocked(userID)
	if _, ok := sh.customers[id]; !ok {
		return fail(span, fmt.Errorf("customer %d: %w", id, ErrNotFound))
	}
	for _, o := range sh.orders {
		if o.CustomerID == id {
			return fail(span, ErrCustomerHasOrders)
		}
	}
	delete(sh.customers, id)
	return nil
}
