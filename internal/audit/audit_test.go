package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"sweetshop-admin/internal/telemetry"
)

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, string, any) error {
	return errors.New("broker down")
}

func TestLogRecordsEvent(t *testing.T) {
	mem := &Memory{}
	l := NewLog(mem, func() string { return "uid-1" }, zap.NewNop(), telemetry.NopMetrics())

	l.Record(context.Background(), "sweet", ActionDeleted, 12)

	events := mem.Events()
	require.Len(t, events, 1)
	e := events[0]
	assert.Equal(t, "sweet.deleted", e.Type())
	assert.Equal(t, int64(12), e.EntityID)
	assert.Equal(t, "uid-1", e.UserID)
	assert.False(t, e.At.IsZero())
	_, err := uuid.Parse(e.ID)
	assert.NoError(t, err)
}

func TestLogPublishFailureIsLoggedOnly(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := NewLog(failingPublisher{}, nil, zap.New(core), telemetry.NopMetrics())

	assert.NotPanics(t, func() {
		l.Record(context.Background(), "order", ActionCreated, 3)
	})
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "failed to publish audit event", logs.All()[0].Message)
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NotPanics(t, func() { r.Record(context.Background(), "x", "y", 1) })
}

func TestLogWithoutLoggerOrMetrics(t *testing.T) {
	mem := &Memory{}
	l := NewLog(mem, nil, nil, nil)

	assert.NotPanics(t, func() {
		l.Record(context.Background(), "sweet", ActionCreated, 1)
	})
	require.Len(t, mem.Events(), 1)
	assert.Empty(t, mem.Events()[0].UserID)

	failing := NewLog(failingPublisher{}, nil, nil, nil)
	assert.NotPanics(t, func() {
		failing.Record(context.Background(), "sweet", ActionCreated, 1)
	})
}
