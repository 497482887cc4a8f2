// Package audit publishes a record of every successful mutation made from
// the admin client. Publication is best effort: a failure is logged and
// never reaches the screen that made the change.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/telemetry"
)

const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionStatusChanged = "status_changed"
)

type Recorder interface {
	Record(ctx context.Context, entity, action string, entityID int64)
}

// Publisher is the transport an audit event is handed to.
type Publisher interface {
	Publish(ctx context.Context, key string, value any) error
}

type Nop struct{}

func (Nop) Record(context.Context, string, string, int64) {}

// Log publishes audit events through a Publisher, stamping each with a
// fresh id and the acting user.
type Log struct {
	publisher Publisher
	userID    func() string
	log       *zap.Logger
	metrics   *telemetry.Metrics
	now       func() time.Time
}

func NewLog(publisher Publisher, userID func() string, log *zap.Logger, metrics *telemetry.Metrics) *Log {
	if userID == nil {
		userID = func() string { return "" }
	}
	if log == nil {
		log = zap.NewNop()
	}
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}
	return &Log{
		publisher: publisher,
		userID:    userID,
		log:       log,
		metrics:   metrics,
		now:       time.Now,
	}
}

func (l *Log) Record(ctx context.Context, entity, action string, entityID int64) {
	event := models.AuditEvent{
		ID:       uuid.NewString(),
		Entity:   entity,
		Action:   action,
		EntityID: entityID,
		UserID:   l.userID(),
		At:       l.now().UTC(),
	}

	attrs := metric.WithAttributes(attribute.String("event_type", event.Type()))
	if err := l.publisher.Publish(ctx, event.ID, event); err != nil {
		l.log.Warn("failed to publish audit event",
			zap.String("type", event.Type()),
			zap.Int64("entity_id", entityID),
			zap.Error(err),
		)
		return
	}
	l.metrics.AuditPublished.Add(ctx, 1, attrs)
	l.log.Debug("audit event published", zap.String("id", event.ID), zap.String("type", event.Type()))
}

// Memory keeps events in process, for runs without a broker and for tests.
type Memory struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func (m *Memory) Publish(_ context.Context, _ string, value any) error {
	if e, ok := value.(models.AuditEvent); ok {
		m.mu.Lock()
		m.events = append(m.events, e)
		m.mu.Unlock()
	}
	return nil
}

func (m *Memory) Events() []models.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.AuditEvent, len(m.events))
	copy(out, m.events)
	return out
}
