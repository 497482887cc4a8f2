package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"sweetshop-admin/internal/config"
	"sweetshop-admin/internal/kafka"
	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/telemetry"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	cfg.Telemetry.ServiceName = "sweetshop-audit-tail"
	if !cfg.Audit.Enabled() {
		cfg.Audit.Brokers = []string{"localhost:9092"}
	}

	log, tracer, meter, shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer shutdown(context.Background())

	metrics, err := telemetry.NewMetrics(meter)
	if err != nil {
		panic("failed to create metrics: " + err.Error())
	}

	broker := cfg.Audit.Brokers[0]
	if err := kafka.EnsureTopic(ctx, broker, kafka.AuditTopic(cfg.Audit.Topic)); err != nil {
		log.Warn("failed to ensure audit topic", zap.String("topic", cfg.Audit.Topic), zap.Error(err))
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down audit-tail...")
		cancel()
	}()

	consumer := kafka.NewConsumer(cfg.Audit.Brokers, cfg.Audit.Topic, cfg.Audit.GroupID)
	defer consumer.Close()

	log.Info("audit-tail started",
		zap.Strings("brokers", cfg.Audit.Brokers),
		zap.String("topic", cfg.Audit.Topic),
		zap.String("group_id", cfg.Audit.GroupID),
	)

	handle := func(ctx context.Context, event models.AuditEvent) error {
		ctx, span := tracer.Start(ctx, "ProcessAuditEvent",
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				attribute.String("audit.id", event.ID),
				attribute.String("audit.type", event.Type()),
				attribute.Int64("audit.entity_id", event.EntityID),
			),
		)
		defer span.End()

		metrics.AuditConsumed.Add(ctx, 1, metric.WithAttributes(attribute.String("event_type", event.Type())))
		log.Info("audit event",
			zap.String("id", event.ID),
			zap.String("type", event.Type()),
			zap.Int64("entity_id", event.EntityID),
			zap.String("user_id", event.UserID),
			zap.Time("at", event.At),
		)
		span.SetStatus(codes.Ok, "")
		return nil
	}

	if err := consumer.Listen(ctx, handle); err != nil && ctx.Err() == nil {
		log.Error("audit consumer error", zap.Error(err))
	}
}
