package api

import (
	"context"
	"net/http"

	"sweetshop-admin/internal/models"
)

func (c *Client) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var s models.DashboardStats
	if err := c.do(ctx, "DashboardStats", http.MethodGet, "/dashboard/stats", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
