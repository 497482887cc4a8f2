package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"sweetshop-admin/internal/api"
	"sweetshop-admin/internal/audit"
	"sweetshop-admin/internal/config"
	"sweetshop-admin/internal/customer"
	"sweetshop-admin/internal/dashboard"
	"sweetshop-admin/internal/kafka"
	"sweetshop-admin/internal/notify"
	"sweetshop-admin/internal/order"
	"sweetshop-admin/internal/session"
	"sweetshop-admin/internal/shell"
	"sweetshop-admin/internal/sweet"
	"sweetshop-admin/internal/telemetry"
	"sweetshop-admin/internal/view"
)

// app is everything a command needs, built once per invocation.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics

	session *session.Session
	client  *api.Client
	center  *notify.Center
	deps    view.Deps
	shell   *shell.Shell
	screens shell.Screens

	out     io.Writer
	closers []func()
}

func newApp(ctx context.Context, assumeYes bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, tracer, meter, shutdown, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	a := &app{cfg: cfg, log: log, tracer: tracer, out: os.Stdout}
	a.closers = append(a.closers, func() { shutdown(context.Background()) })

	a.metrics, err = telemetry.NewMetrics(meter)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	store, err := a.openSessionStore()
	if err != nil {
		a.close()
		return nil, err
	}
	a.session = session.New(store)
	if err := a.session.Restore(ctx); err != nil {
		log.Warn("failed to restore session", zap.Error(err))
	}

	a.client = api.NewClient(cfg.API.BaseURL, a.session,
		api.WithLogger(log),
		api.WithTracer(tracer),
		api.WithMetrics(a.metrics),
		api.WithTimeout(cfg.API.Timeout),
	)

	a.center = notify.NewCenter(notify.WithLogger(log), notify.WithMetrics(a.metrics))
	shell.NewTerminal(a.center, os.Stdin, os.Stderr, assumeYes)

	a.deps = view.Deps{
		Notifier: a.center,
		Audit:    a.auditRecorder(),
		Log:      log,
		Tracer:   tracer,
		Metrics:  a.metrics,
	}
	a.screens = shell.Screens{
		Dashboard: dashboard.New(a.client, a.deps),
		Sweets:    sweet.NewList(a.client, a.deps),
		Customers: customer.NewList(a.client, a.deps),
		Orders:    order.NewList(a.client, 0, a.deps),
	}
	a.shell = shell.New(a.session, a.screens, log)
	return a, nil
}

func (a *app) openSessionStore() (session.Store, error) {
	switch a.cfg.Session.Store {
	case config.SessionStoreMemory:
		return session.NewMemoryStore(), nil
	case config.SessionStoreRedis:
		rs, err := session.NewRedisStore(a.cfg.Session.RedisURL, a.cfg.Session.Key, 0)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rs.Close() })
		return rs, nil
	default:
		return session.NewFileStore(a.cfg.Session.File), nil
	}
}

// auditRecorder publishes to Kafka when brokers are configured.
func (a *app) auditRecorder() audit.Recorder {
	if !a.cfg.Audit.Enabled() {
		return audit.Nop{}
	}
	producer := kafka.NewProducer(a.cfg.Audit.Brokers, a.cfg.Audit.Topic)
	a.closers = append(a.closers, func() {
		if err := producer.Close(); err != nil {
			a.log.Warn("failed to close audit producer", zap.Error(err))
		}
	})
	return audit.NewLog(producer, a.session.UserID, a.log, a.metrics)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// requireLogin fails fast instead of letting the backend answer 401.
func (a *app) requireLogin() error {
	if a.session.UserID() == "" {
		return errors.New("not signed in: run `sweetshop login --uid <uid>` first")
	}
	return nil
}
