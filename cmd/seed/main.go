package main

import (
	"context"
	"math/rand/v2"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"sweetshop-admin/internal/api"
	"sweetshop-admin/internal/config"
	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/stubapi"
	"sweetshop-admin/internal/telemetry"
)

type staticUser string

func (u staticUser) UserID() string { return string(u) }

func seedUser() string {
	if v := os.Getenv("SEED_UID"); v != "" {
		return v
	}
	return "seed-user"
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	cfg.Telemetry.ServiceName = "sweetshop-seed"

	log, tracer, meter, shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer shutdown(context.Background())

	metrics, err := telemetry.NewMetrics(meter)
	if err != nil {
		panic("failed to create metrics: " + err.Error())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down seed...")
		cancel()
	}()

	uid := seedUser()
	client := api.NewClient(cfg.API.BaseURL, staticUser(uid),
		api.WithLogger(log),
		api.WithTracer(tracer),
		api.WithMetrics(metrics),
		api.WithTimeout(cfg.API.Timeout),
	)

	sweets, customers := seedCatalog(ctx, client, log)
	log.Info("catalog seeded",
		zap.String("user_id", uid),
		zap.Int("sweets", len(sweets)),
		zap.Int("customers", len(customers)),
	)

	orders := envInt("SEED_ORDERS", 0)
	if orders == 0 || len(sweets) == 0 || len(customers) == 0 {
		return
	}

	interval := time.Duration(envInt("INTERVAL_MS", 500)) * time.Millisecond
	log.Info("placing orders",
		zap.String("target", cfg.API.BaseURL),
		zap.Int("orders", orders),
		zap.Duration("interval", interval),
	)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for placed := 0; placed < orders; {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			placeOrder(ctx, client, customers, sweets, log)
			placed++
		}
	}
}

// seedCatalog creates the starter sweets and customers, skipping any that
// the backend refuses, and returns what the backend then holds.
func seedCatalog(ctx context.Context, client *api.Client, log *zap.Logger) ([]models.Sweet, []models.Customer) {
	for _, sw := range stubapi.SeedSweets {
		_, err := client.CreateSweet(ctx, models.SweetInput{
			Name:        sw.Name,
			Category:    sw.Category,
			Price:       sw.Price,
			Stock:       sw.Stock,
			Description: sw.Description,
		})
		if err != nil {
			log.Warn("failed to create sweet", zap.String("name", sw.Name), zap.Error(err))
		}
	}
	for _, c := range stubapi.SeedCustomers {
		_, err := client.CreateCustomer(ctx, models.CustomerInput{
			Name:    c.Name,
			Email:   c.Email,
			Phone:   c.Phone,
			Address: c.Address,
		})
		if err != nil {
			log.Warn("failed to create customer", zap.String("email", c.Email), zap.String("reason", api.Message(err, err.Error())))
		}
	}

	sweets, err := client.ListSweets(ctx, "")
	if err != nil {
		log.Error("failed to list sweets", zap.Error(err))
	}
	customers, err := client.ListCustomers(ctx)
	if err != nil {
		log.Error("failed to list customers", zap.Error(err))
	}
	return sweets, customers
}

func placeOrder(ctx context.Context, client *api.Client, customers []models.Customer, sweets []models.Sweet, log *zap.Logger) {
	customer := customers[rand.IntN(len(customers))]
	n := 1 + rand.IntN(3)
	items := make([]models.LineItem, 0, n)
	for range n {
		items = append(items, models.LineItem{
			SweetID:  sweets[rand.IntN(len(sweets))].ID,
			Quantity: 1 + rand.IntN(5),
		})
	}

	o, err := client.CreateOrder(ctx, models.OrderCreate{CustomerID: customer.ID, Items: items})
	if err != nil {
		log.Warn("order rejected",
			zap.Int64("customer_id", customer.ID),
			zap.String("reason", api.Message(err, err.Error())),
		)
		return
	}
	log.Info("order sent",
		zap.Int64("order_id", o.ID),
		zap.Int64("customer_id", customer.ID),
		zap.Int("items", len(items)),
		zap.String("total", models.FormatMoney(o.TotalPrice)),
	)
}
