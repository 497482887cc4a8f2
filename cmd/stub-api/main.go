package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"sweetshop-admin/internal/config"
	"sweetshop-admin/internal/stubapi"
	"sweetshop-admin/internal/telemetry"
)

func listenAddr() string {
	if a := os.Getenv("STUB_API_ADDR"); a != "" {
		return a
	}
	return ":5000"
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	cfg.Telemetry.ServiceName = "sweetshop-stub-api"

	log, tracer, _, shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer shutdown(context.Background())

	var opts []stubapi.StoreOption
	if os.Getenv("STUB_API_SEED") != "false" {
		opts = append(opts, stubapi.WithSeed())
	}
	store := stubapi.NewStore(log, tracer, opts...)
	app := stubapi.NewApp(stubapi.NewController(store, log, tracer))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down stub-api...")
		_ = app.Shutdown()
		cancel()
	}()

	addr := listenAddr()
	log.Info("stub-api listening", zap.String("addr", addr), zap.Bool("seed", len(opts) > 0))
	if err := app.Listen(addr); err != nil {
		log.Error("server error", zap.Error(err))
	}
}
