package stubapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"sweetshop-admin/internal/api"
	"sweetshop-admin/internal/models"
)

const userKey = "user_id"

type Controller struct {
	store  *Store
	log    *zap.Logger
	tracer trace.Tracer
}

func NewController(store *Store, log *zap.Logger, tracer trace.Tracer) *Controller {
	return &Controller{store: store, log: log, tracer: tracer}
}

// requireUser rejects requests that carry no identity header.
func requireUser(c *fiber.Ctx) error {
	uid := c.Get(api.UserIDHeader)
	if uid == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User ID required"})
	}
	c.Locals(userKey, uid)
	return c.Next()
}

func userID(c *fiber.Ctx) string {
	uid, _ := c.Locals(userKey).(string)
	return uid
}

type sweetRequest struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Quantity    *int     `json:"quantity"`
	ImageURL    *string  `json:"image_url"`
}

func (r sweetRequest) patch() SweetPatch {
	stock := r.Stock
	if stock == nil {
		stock = r.Quantity
	}
	return SweetPatch{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Price:       r.Price,
		Stock:       stock,
		ImageURL:    r.ImageURL,
	}
}

type customerRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (r customerRequest) patch() CustomerPatch {
	return CustomerPatch{Name: r.Name, Email: r.Email, Phone: r.Phone, Address: r.Address}
}

type orderRequest struct {
	CustomerID int64              `json:"customer_id"`
	Status     models.OrderStatus `json:"status"`
	Items      []models.LineItem  `json:"items"`
}

// sweetJSON echoes stock under its legacy name as well.
func sweetJSON(sw models.Sweet) models.Sweet {
	sw.Quantity = sw.Stock
	return sw
}

// orderResponse carries the total under both of its wire names.
type orderResponse struct {
	models.Order
	TotalAmount float64 `json:"total_amount"`
}

func orderJSON(o models.Order) orderResponse {
	if o.Customer != nil {
		c := *o.Customer
		o.Customer = &c
	}
	for i := range o.Items {
		if o.Items[i].Sweet != nil {
			sw := sweetJSON(*o.Items[i].Sweet)
			o.Items[i].Sweet = &sw
		}
	}
	var total float64
	if o.TotalPrice != nil {
		total = *o.TotalPrice
	}
	return orderResponse{Order: o, TotalAmount: total}
}

func (ct *Controller) start(c *fiber.Ctx, name string) trace.Span {
	ctx, span := ct.tracer.Start(c.UserContext(), name,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attribute.String("user.id", userID(c))),
	)
	c.SetUserContext(ctx)
	return span
}

func (ct *Controller) badBody(c *fiber.Ctx, span trace.Span) error {
	span.SetStatus(codes.Error, "invalid body")
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
}

// fail maps a store error onto a status code and an {"error": ...} body.
func (ct *Controller) fail(c *fiber.Ctx, span trace.Span, err error) error {
	var (
		inputErr *InputError
		stockErr *StockError
	)
	status, msg := fiber.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, ErrNotFound):
		status, msg = fiber.StatusNotFound, "Not found"
	case errors.As(err, &inputErr):
		status, msg = fiber.StatusBadRequest, inputErr.Message
	case errors.As(err, &stockErr):
		status, msg = fiber.StatusBadRequest, stockErr.Error()
	case errors.Is(err, ErrEmailExists), errors.Is(err, ErrSweetInUse), errors.Is(err, ErrCustomerHasOrders):
		status, msg = fiber.StatusBadRequest, err.Error()
	}
	span.SetStatus(codes.Error, msg)
	if status == fiber.StatusInternalServerError {
		span.RecordError(err)
		ct.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	} else {
		ct.log.Debug("request rejected", zap.String("path", c.Path()), zap.Int("status", status), zap.String("error", msg))
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func (ct *Controller) id(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

func (ct *Controller) notFound(c *fiber.Ctx, span trace.Span) error {
	return ct.fail(c, span, ErrNotFound)
}

func (ct *Controller) ListSweets(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.ListSweets")
	defer span.End()

	sweets := ct.store.ListSweets(c.UserContext(), userID(c), c.Query("category"))
	out := make([]models.Sweet, len(sweets))
	for i, sw := range sweets {
		out[i] = sweetJSON(sw)
	}
	return c.JSON(out)
}

func (ct *Controller) GetSweet(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.GetSweet")
	defer span.End()

	id, ok := ct.id(c)
	if !ok {
		return ct.notFound(c, span)
	}
	sw, err := ct.store.GetSweet(c.UserContext(), userID(c), id)
	if err != nil {
		return ct.fail(c, span, err)
	}
	return c.JSON(sweetJSON(sw))
}

func (ct *Controller) CreateSweet(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.CreateSweet")
	defer span.End()

	var req sweetRequest
	if err := c.BodyParser(&req); err != nil {
		return ct.badBody(c, span)
	}
	sw, err := ct.store.CreateSweet(c.UserContext(), userID(c), req.patch())
	if err != nil {
		return ct.fail(c, span, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sweetJSON(sw))
}

func (ct *Controller) UpdateSweet(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.UpdateSweet")
	defer span.End()

	id, ok := ct.id(c)
	if !ok {
		return ct.notFound(c, span)
	}
	var req sweetRequest
	if err := c.BodyParser(&req); err != nil {
		return ct.badBody(c, span)
	}
	sw, err := ct.store.UpdateSweet(c.UserContext(), userID(c), id, req.patch())
	if err != nil {
		return ct.fail(c, span, err)
	}
	return c.JSON(sweetJSON(sw))
}

func (ct *Controller) DeleteSweet(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.DeleteSweet")
	defer span.End()

	id, ok := ct.id(c)
	if !ok {
		return ct.notFound(c, span)
	}
	if err := ct.store.DeleteSweet(c.UserContext(), userID(c), id); err != nil {
		return ct.fail(c, span, err)
	}
	return c.JSON(fiber.Map{"message": "Sweet deleted successfully"})
}

func (ct *Controller) Categories(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.Categories")
	defer span.End()
	return c.JSON(ct.store.Categories(c.UserContext(), userID(c)))
}

func (ct *Controller) ListCustomers(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.ListCustomers")
	defer span.End()
	return c.JSON(ct.store.ListCustomers(c.UserContext(), userID(c)))
}

func (ct *Controller) GetCustomer(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.GetCustomer")
	defer span.End()

	id, ok := ct.id(c)
	if !ok {
		return ct.notFound(c, span)
	}
	cu, err := ct.store.GetCustomer(c.UserContext(), userID(c), id)
	if err != nil {
		return ct.fail(c, span, err)
	}
	return c.JSON(cu)
}

func (ct *Controller) CreateCustomer(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.CreateCustomer")
	defer span.End()

	var req customerRequest
	if err := c.BodyParser(&req); err != nil {
		return ct.badBody(c, span)
	}
	cu, err := ct.store.CreateCustomer(c.UserContext(), userID(c), req.patch())
	if err != nil {
		return ct.fail(c, span, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cu)
}

func (ct *Controller) UpdateCustomer(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.UpdateCustomer")
	defer span.End()

	id, ok := ct.id(c)
	if !ok {
		return ct.notFound(c, span)
	}
	var req customerRequest
	if err := c.BodyParser(&req); err != nil {
		return ct.badBody(c, span)
	}
	cu, err := ct.store.UpdateCustomer(c.UserContext(), userID(c), id, req.patch())
	if err != nil {
		return ct.fail(c, span, err)
	}
	return c.JSON(cu)
}

func (ct *Controller) DeleteCustomer(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.DeleteCustomer")
	defer span.End()

	id, ok := ct.id(c)
	if !ok {
		return ct.notFound(c, span)
	}
	if err := ct.store.DeleteCustomer(c.UserContext(), userID(c), id); err != nil {
		return ct.fail(c, span, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted successfully"})
}

func (ct *Controller) ListOrders(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.ListOrders")
	defer span.End()

	orders := ct.store.ListOrders(c.UserContext(), userID(c), int64(c.QueryInt("customer_id")))
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = orderJSON(o)
	}
	return c.JSON(out)
}

func (ct *Controller) GetOrder(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.GetOrder")
	defer span.End()

	id, ok := ct.id(c)
	if !ok {
		return ct.notFound(c, span)
	}
	o, err := ct.store.GetOrder(c.UserContext(), userID(c), id)
	if err != nil {
		return ct.fail(c, span, err)
	}
	return c.JSON(orderJSON(o))
}

func (ct *Controller) CreateOrder(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.CreateOrder")
	defer span.End()

	var req orderRequest
	if err := c.BodyParser(&req); err != nil {
		return ct.badBody(c, span)
	}
	o, err := ct.store.CreateOrder(c.UserContext(), userID(c), OrderRequest{
		CustomerID: req.CustomerID,
		Status:     req.Status,
		Items:      req.Items,
	})
	if err != nil {
		return ct.fail(c, span, err)
	}
	span.SetStatus(codes.Ok, "")
	return c.Status(fiber.StatusCreated).JSON(orderJSON(o))
}

func (ct *Controller) UpdateOrder(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.UpdateOrder")
	defer span.End()

	id, ok := ct.id(c)
	if !ok {
		return ct.notFound(c, span)
	}
	var req models.OrderStatusUpdate
	if err := c.BodyParser(&req); err != nil {
		return ct.badBody(c, span)
	}
	o, err := ct.store.UpdateOrderStatus(c.UserContext(), userID(c), id, req.Status)
	if err != nil {
		return ct.fail(c, span, err)
	}
	return c.JSON(orderJSON(o))
}

func (ct *Controller) DeleteOrder(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.DeleteOrder")
	defer span.End()

	id, ok := ct.id(c)
	if !ok {
		return ct.notFound(c, span)
	}
	if err := ct.store.DeleteOrder(c.UserContext(), userID(c), id); err != nil {
		return ct.fail(c, span, err)
	}
	return c.JSON(fiber.Map{"message": "Order deleted successfully"})
}

func (ct *Controller) Stats(c *fiber.Ctx) error {
	span := ct.start(c, "Controller.Stats")
	defer span.End()
	return c.JSON(ct.store.Stats(c.UserContext(), userID(c)))
}
