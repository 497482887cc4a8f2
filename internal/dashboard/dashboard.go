// Package dashboard is the landing summary: four counters and revenue.
package dashboard

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/view"
)

type Client interface {
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}

type Dashboard struct {
	client Client
	deps   view.Deps
	state  view.State
	stats  models.DashboardStats
}

func New(client Client, deps view.Deps) *Dashboard {
	return &Dashboard{client: client, deps: deps.WithDefaults(), state: view.Loading}
}

func (d *Dashboard) State() view.State { return d.state }

func (d *Dashboard) Stats() models.DashboardStats { return d.stats }

// Refresh fetches the stats. On failure every counter reads zero.
func (d *Dashboard) Refresh(ctx context.Context) {
	ctx, span := d.deps.Tracer.Start(ctx, "Dashboard.Refresh")
	defer span.End()

	d.state = view.Loading
	stats, err := d.client.DashboardStats(ctx)
	if err != nil || stats == nil {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			d.deps.Log.Error("failed to fetch dashboard stats", zap.Error(err))
		}
		d.stats = models.DashboardStats{}
	} else {
		d.stats = *stats
	}
	d.state = view.Ready
}

// Revenue renders total revenue with two decimals, "0.00" when absent.
func (d *Dashboard) Revenue() string {
	return models.FormatMoney(d.stats.TotalRevenue)
}
