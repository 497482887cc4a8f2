package view

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"sweetshop-admin/internal/api"
	"sweetshop-admin/internal/audit"
	"sweetshop-admin/internal/notify"
)

type State int

const (
	Loading State = iota
	Ready
)

func (s State) String() string {
	if s == Loading {
		return "loading"
	}
	return "ready"
}

// DeleteText is what a list says around a delete.
type DeleteText struct {
	Prompt   string
	Success  string
	Fallback string
}

// ListConfig binds a List to one entity collection.
type ListConfig[T any] struct {
	Entity string
	Fetch  func(ctx context.Context) ([]T, error)
	Remove func(ctx context.Context, id int64) error
	Delete DeleteText
}

// List is a collection screen. It never patches its snapshot: every
// mutation is followed by a full refetch.
type List[T any] struct {
	cfg   ListConfig[T]
	deps  Deps
	state State
	items []T

	deleteErr error
}

func NewList[T any](cfg ListConfig[T], deps Deps) *List[T] {
	return &List[T]{
		cfg:   cfg,
		deps:  deps.WithDefaults(),
		state: Loading,
		items: []T{},
	}
}

func (l *List[T]) State() State {
	return l.state
}

// Items returns the last fetched snapshot.
func (l *List[T]) Items() []T {
	return l.items
}

// Refresh refetches the collection. A failed fetch is logged and leaves an
// empty collection; the user is not notified.
func (l *List[T]) Refresh(ctx context.Context) {
	ctx, span := l.deps.Tracer.Start(ctx, "List.Refresh")
	span.SetAttributes(attribute.String("entity", l.cfg.Entity))
	defer span.End()

	l.state = Loading
	items, err := l.cfg.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.deps.Log.Error("failed to fetch list",
			zap.String("entity", l.cfg.Entity),
			zap.Error(err),
		)
		items = []T{}
	}
	if items == nil {
		items = []T{}
	}
	l.items = items
	l.state = Ready
	span.SetAttributes(attribute.Int("items", len(items)))
}

// Delete asks for confirmation and, once given, removes id and refetches.
func (l *List[T]) Delete(ctx context.Context, id int64) {
	l.deleteErr = nil
	l.deps.Notifier.Confirm(l.cfg.Delete.Prompt, func() {
		l.remove(ctx, id)
	})
}

// DeleteErr is the failure of the last confirmed delete. It is nil after a
// success or a declined confirmation.
func (l *List[T]) DeleteErr() error {
	return l.deleteErr
}

func (l *List[T]) remove(ctx context.Context, id int64) {
	ctx, span := l.deps.Tracer.Start(ctx, "List.Delete")
	span.SetAttributes(
		attribute.String("entity", l.cfg.Entity),
		attribute.Int64("id", id),
	)
	defer span.End()

	err := l.cfg.Remove(ctx, id)
	l.deps.Mutated(ctx, l.cfg.Entity, audit.ActionDeleted, id, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.deps.Log.Warn("delete failed",
			zap.String("entity", l.cfg.Entity),
			zap.Int64("id", id),
			zap.Error(err),
		)
		l.deleteErr = err
		l.deps.Notifier.Notify(api.Message(err, l.cfg.Delete.Fallback), notify.Error)
		return
	}

	l.Refresh(ctx)
	l.deps.Notifier.Notify(l.cfg.Delete.Success, notify.Success)
}
