package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"sweetshop-admin/internal/models"
)

// ListSweets returns all sweets, narrowed to one category when category is
// non-empty.
func (c *Client) ListSweets(ctx context.Context, category string) ([]models.Sweet, error) {
	var q url.Values
	if category != "" {
		q = url.Values{"category": {category}}
	}
	return list[models.Sweet](ctx, c, "ListSweets", "/sweets", q)
}

func (c *Client) GetSweet(ctx context.Context, id int64) (*models.Sweet, error) {
	var s models.Sweet
	if err := c.do(ctx, "GetSweet", http.MethodGet, fmt.Sprintf("/sweets/%d", id), nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) CreateSweet(ctx context.Context, in models.SweetInput) (*models.Sweet, error) {
	var s models.Sweet
	if err := c.do(ctx, "CreateSweet", http.MethodPost, "/sweets", nil, in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) UpdateSweet(ctx context.Context, id int64, in models.SweetInput) (*models.Sweet, error) {
	var s models.Sweet
	if err := c.do(ctx, "UpdateSweet", http.MethodPut, fmt.Sprintf("/sweets/%d", id), nil, in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) DeleteSweet(ctx context.Context, id int64) error {
	return c.do(ctx, "DeleteSweet", http.MethodDelete, fmt.Sprintf("/sweets/%d", id), nil, nil, nil)
}

// ListCategories returns the distinct non-empty sweet categories.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	return list[string](ctx, c, "ListCategories", "/categories", nil)
}
