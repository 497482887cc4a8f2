package sweet

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sweetshop-admin/internal/api"
	"sweetshop-admin/internal/audit"
	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/notify"
	"sweetshop-admin/internal/view"
)

type fakeClient struct {
	sweets    []models.Sweet
	created   []models.SweetInput
	updated   map[int64]models.SweetInput
	saveErr   error
	deleteErr error
}

func (c *fakeClient) ListSweets(context.Context, string) ([]models.Sweet, error) {
	return append([]models.Sweet(nil), c.sweets...), nil
}

func (c *fakeClient) CreateSweet(_ context.Context, in models.SweetInput) (*models.Sweet, error) {
	if c.saveErr != nil {
		return nil, c.saveErr
	}
	c.created = append(c.created, in)
	s := models.Sweet{ID: int64(len(c.sweets) + 1), Name: in.Name, Category: in.Category, Price: in.Price, Stock: in.Stock}
	c.sweets = append(c.sweets, s)
	return &s, nil
}

func (c *fakeClient) UpdateSweet(_ context.Context, id int64, in models.SweetInput) (*models.Sweet, error) {
	if c.saveErr != nil {
		return nil, c.saveErr
	}
	if c.updated == nil {
		c.updated = map[int64]models.SweetInput{}
	}
	c.updated[id] = in
	return &models.Sweet{ID: id, Name: in.Name}, nil
}

func (c *fakeClient) DeleteSweet(context.Context, int64) error {
	return c.deleteErr
}

func catalog() []models.Sweet {
	return []models.Sweet{
		{ID: 1, Name: "Kaju Katli", Category: "Barfi"},
		{ID: 2, Name: "Gulab Jamun", Category: "Syrup-based"},
		{ID: 3, Name: "Besan Ladoo", Category: "Ladoo"},
		{ID: 4, Name: "Motichoor Ladoo", Category: "Ladoo"},
	}
}

func TestFiltered(t *testing.T) {
	l := NewList(&fakeClient{sweets: catalog()}, view.Deps{})
	l.Refresh(context.Background())

	names := func(ss []models.Sweet) []string {
		out := []string{}
		for _, s := range ss {
			out = append(out, s.Name)
		}
		return out
	}

	tests := []struct {
		search string
		want   []string
	}{
		{"", []string{"Kaju Katli", "Gulab Jamun", "Besan Ladoo", "Motichoor Ladoo"}},
		{"ladoo", []string{"Besan Ladoo", "Motichoor Ladoo"}},
		{"BARFI", []string{"Kaju Katli"}},
		{"jam", []string{"Gulab Jamun"}},
		{"rasgulla", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			assert.Equal(t, tt.want, names(l.Filtered(tt.search)))
		})
	}
	assert.Len(t, l.Items(), 4, "filtering never touches the fetched snapshot")
}

func TestSavedNotifies(t *testing.T) {
	center := notify.NewCenter()
	l := NewList(&fakeClient{sweets: catalog()}, view.Deps{Notifier: center})
	ctx := context.Background()

	l.Saved(ctx, false)
	n, _ := center.Current()
	assert.Equal(t, "Sweet added successfully", n.Message)
	assert.Len(t, l.Items(), 4)

	l.Saved(ctx, true)
	n, _ = center.Current()
	assert.Equal(t, "Sweet updated successfully", n.Message)
}

func TestStockBadge(t *testing.T) {
	assert.Equal(t, "success", StockBadge(11))
	assert.Equal(t, "warning", StockBadge(10))
	assert.Equal(t, "warning", StockBadge(1))
	assert.Equal(t, "danger", StockBadge(0))
}

func TestFormCreate(t *testing.T) {
	client := &fakeClient{}
	mem := &audit.Memory{}
	f := NewForm(client, nil, view.Deps{Audit: audit.NewLog(mem, nil, zap.NewNop(), nil)})
	assert.Equal(t, "Add New Sweet", f.Title())
	assert.Empty(t, f.Name)

	f.Name = "Rasgulla"
	f.Category = "Syrup-based"
	f.Price = "380.50"
	f.Stock = "25"
	f.SetImageURL(" https://example.com/rasgulla.jpg ")

	called := false
	require.NoError(t, f.Submit(context.Background(), func() { called = true }))
	assert.True(t, called)
	require.Len(t, client.created, 1)
	assert.Equal(t, models.SweetInput{
		Name:     "Rasgulla",
		Category: "Syrup-based",
		Price:    380.5,
		Stock:    25,
		ImageURL: "https://example.com/rasgulla.jpg",
	}, client.created[0])

	events := mem.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "sweet.created", events[0].Type())
}

func TestFormEditUsesPut(t *testing.T) {
	client := &fakeClient{}
	target := &models.Sweet{ID: 9, Name: "Jalebi", Category: "Fried", Price: 280, Stock: 40, ImageURL: "https://example.com/j.png"}
	f := NewForm(client, target, view.Deps{})

	assert.True(t, f.Editing())
	assert.Equal(t, "Edit Sweet", f.Title())
	assert.Equal(t, "280", f.Price)
	assert.Equal(t, "40", f.Stock)
	assert.Equal(t, "https://example.com/j.png", f.ImageURL())

	f.Stock = "35"
	require.NoError(t, f.Submit(context.Background(), nil))
	assert.Empty(t, client.created)
	assert.Equal(t, 35, client.updated[9].Stock)
}

func TestFormRequiredFields(t *testing.T) {
	client := &fakeClient{}
	f := NewForm(client, nil, view.Deps{})
	f.Name = "Peda"
	f.Price = "450"
	f.Stock = "10"

	err := f.Submit(context.Background(), func() { t.Fatal("success on invalid input") })
	require.ErrorIs(t, err, view.ErrRequiredField)
	var mf *view.MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "category", mf.Field)
	assert.Empty(t, client.created)

	f.Category = "Peda"
	f.Price = "lots"
	assert.ErrorIs(t, f.Submit(context.Background(), nil), ErrInvalidNumber)
}

func TestFormServerError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server message", &api.Error{StatusCode: http.StatusBadRequest, Message: "Sweet already exists"}, "Sweet already exists"},
		{"fallback", errors.New("connection reset"), "Failed to save sweet"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			center := notify.NewCenter()
			f := NewForm(&fakeClient{saveErr: tt.err}, nil, view.Deps{Notifier: center})
			f.Name, f.Category, f.Price, f.Stock = "Peda", "Peda", "450", "10"

			err := f.Submit(context.Background(), func() { t.Fatal("success on failure") })
			require.Error(t, err)
			assert.Equal(t, tt.want, f.Error())
			assert.False(t, f.Submitting())
			_, notified := center.Current()
			assert.False(t, notified, "form errors stay inline")
		})
	}
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestAttachImage(t *testing.T) {
	dir := t.TempDir()
	f := NewForm(&fakeClient{}, nil, view.Deps{})

	img := filepath.Join(dir, "ladoo.png")
	require.NoError(t, os.WriteFile(img, pngHeader, 0o600))
	require.NoError(t, f.AttachImage(img))
	assert.Equal(t, EncodeDataURL("image/png", pngHeader), f.ImageURL())
	assert.True(t, f.PreviewVisible())

	noExt := filepath.Join(dir, "photo")
	require.NoError(t, os.WriteFile(noExt, pngHeader, 0o600))
	require.NoError(t, f.AttachImage(noExt))
	assert.Contains(t, f.ImageURL(), "data:image/png;base64,")

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("not an image"), 0o600))
	before := f.ImageURL()
	assert.ErrorIs(t, f.AttachImage(txt), ErrNotImage)
	assert.Equal(t, before, f.ImageURL())

	assert.Error(t, f.AttachImage(filepath.Join(dir, "missing.png")))
}

func TestPreviewVisible(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"", false},
		{"https://example.com/kaju.jpg", true},
		{"http://cdn.example.com/a.png", true},
		{"ftp://example.com/a.png", false},
		{"not a url", false},
		{"https://", false},
		{"data:image/png;base64,iVBORw0KGgo=", true},
		{"data:text/plain;base64,aGVsbG8=", false},
		{"data:image/png;base64,", false},
		{"data:image/png;base64,***", false},
		{"data:image/png,raw", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			f := NewForm(&fakeClient{}, nil, view.Deps{})
			f.SetImageURL(tt.ref)
			assert.Equal(t, tt.want, f.PreviewVisible())
		})
	}
}
