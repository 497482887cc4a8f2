// Package sweet holds the catalog screens: the sweets list with its search
// box and the add/edit form.
package sweet

import (
	"context"
	"strings"

	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/notify"
	"sweetshop-admin/internal/view"
)

const entity = "sweet"

var deleteText = view.DeleteText{
	Prompt:   "Are you sure you want to delete this sweet?",
	Success:  "Sweet deleted successfully",
	Fallback: "Failed to delete sweet",
}

// Client is the part of the API client the sweet screens call.
type Client interface {
	ListSweets(ctx context.Context, category string) ([]models.Sweet, error)
	CreateSweet(ctx context.Context, in models.SweetInput) (*models.Sweet, error)
	UpdateSweet(ctx context.Context, id int64, in models.SweetInput) (*models.Sweet, error)
	DeleteSweet(ctx context.Context, id int64) error
}

type List struct {
	*view.List[models.Sweet]
	deps view.Deps
}

func NewList(client Client, deps view.Deps) *List {
	deps = deps.WithDefaults()
	return &List{
		List: view.NewList(view.ListConfig[models.Sweet]{
			Entity: entity,
			Fetch: func(ctx context.Context) ([]models.Sweet, error) {
				return client.ListSweets(ctx, "")
			},
			Remove: client.DeleteSweet,
			Delete: deleteText,
		}, deps),
		deps: deps,
	}
}

// Filtered returns the sweets whose name or category contains search,
// ignoring case. An empty search returns every sweet.
func (l *List) Filtered(search string) []models.Sweet {
	items := l.Items()
	if search == "" {
		return items
	}
	needle := strings.ToLower(search)
	out := make([]models.Sweet, 0, len(items))
	for _, s := range items {
		if strings.Contains(strings.ToLower(s.Name), needle) ||
			strings.Contains(strings.ToLower(s.Category), needle) {
			out = append(out, s)
		}
	}
	return out
}

// Saved is the form's success callback: refetch and announce.
func (l *List) Saved(ctx context.Context, updated bool) {
	l.Refresh(ctx)
	msg := "Sweet added successfully"
	if updated {
		msg = "Sweet updated successfully"
	}
	l.deps.Notifier.Notify(msg, notify.Success)
}

// StockBadge maps a stock level to the badge tone shown next to it.
func StockBadge(stock int) string {
	switch {
	case stock > 10:
		return "success"
	case stock > 0:
		return "warning"
	default:
		return "danger"
	}
}
