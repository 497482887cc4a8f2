package stubapi

import (
	"fmt"
	"net"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
)

// NewApp mounts the backend routes under /api.
func NewApp(ct *Controller) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(otelfiber.Middleware())

	r := app.Group("/api")
	r.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Sweet Shop Management System API",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":    "/api/health",
				"sweets":    "/api/sweets",
				"customers": "/api/customers",
				"orders":    "/api/orders",
				"dashboard": "/api/dashboard/stats",
			},
		})
	})
	r.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy", "message": "Sweet Shop API is running"})
	})

	r.Get("/sweets", requireUser, ct.ListSweets)
	r.Post("/sweets", requireUser, ct.CreateSweet)
	r.Get("/sweets/:id", requireUser, ct.GetSweet)
	r.Put("/sweets/:id", requireUser, ct.UpdateSweet)
	r.Delete("/sweets/:id", requireUser, ct.DeleteSweet)
	r.Get("/categories", requireUser, ct.Categories)

	r.Get("/customers", requireUser, ct.ListCustomers)
	r.Post("/customers", requireUser, ct.CreateCustomer)
	r.Get("/customers/:id", requireUser, ct.GetCustomer)
	r.Put("/customers/:id", requireUser, ct.UpdateCustomer)
	r.Delete("/customers/:id", requireUser, ct.DeleteCustomer)

	r.Get("/orders", requireUser, ct.ListOrders)
	r.Post("/orders", requireUser, ct.CreateOrder)
	r.Get("/orders/:id", requireUser, ct.GetOrder)
	r.Put("/orders/:id", requireUser, ct.UpdateOrder)
	r.Delete("/orders/:id", requireUser, ct.DeleteOrder)

	r.Get("/dashboard/stats", requireUser, ct.Stats)
	return app
}

// Server is a running app bound to a listener.
type Server struct {
	app *fiber.App
	ln  net.Listener
}

// Start serves the app on addr in the background. Use "127.0.0.1:0" for
// an ephemeral port.
func Start(addr string, app *fiber.App) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	go func() { _ = app.Listener(ln) }()
	return &Server{app: app, ln: ln}, nil
}

// URL is the API base URL clients should be pointed at.
func (s *Server) URL() string {
	return "http://" + s.ln.Addr().String() + "/api"
}

func (s *Server) Close() error {
	err := s.app.Shutdown()
	_ = s.ln.Close()
	return err
}
