package shell

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"sweetshop-admin/internal/api"
	"sweetshop-admin/internal/customer"
	"sweetshop-admin/internal/dashboard"
	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/notify"
	"sweetshop-admin/internal/order"
	"sweetshop-admin/internal/session"
	"sweetshop-admin/internal/stubapi"
	"sweetshop-admin/internal/sweet"
	"sweetshop-admin/internal/view"
)

type fixture struct {
	shell   *Shell
	session *session.Session
	client  *api.Client
	center  *notify.Center
	screens Screens
	out     *bytes.Buffer
}

func newFixture(t *testing.T, answers string) *fixture {
	t.Helper()
	store := stubapi.NewStore(zap.NewNop(), otel.Tracer("test"), stubapi.WithSeed())
	srv, err := stubapi.Start("127.0.0.1:0", stubapi.NewApp(stubapi.NewController(store, zap.NewNop(), otel.Tracer("test"))))
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	sess := session.New(session.NewMemoryStore())
	require.NoError(t, sess.Login(context.Background(), session.Identity{UID: "owner-1", Email: "owner@example.com"}))

	client := api.NewClient(srv.URL(), sess)
	center := notify.NewCenter()
	out := &bytes.Buffer{}
	NewTerminal(center, strings.NewReader(answers), out, false)

	deps := view.Deps{Notifier: center}
	screens := Screens{
		Dashboard: dashboard.New(client, deps),
		Sweets:    sweet.NewList(client, deps),
		Customers: customer.NewList(client, deps),
		Orders:    order.NewList(client, 0, deps),
	}
	return &fixture{
		shell:   New(sess, screens, zap.NewNop()),
		session: sess,
		client:  client,
		center:  center,
		screens: screens,
		out:     out,
	}
}

func TestParseView(t *testing.T) {
	v, err := ParseView("orders")
	require.NoError(t, err)
	assert.Equal(t, Orders, v)

	_, err = ParseView("reports")
	assert.ErrorIs(t, err, ErrUnknownView)
}

func TestNavigateLoadsScreen(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	assert.Equal(t, Dashboard, f.shell.Current())

	require.NoError(t, f.shell.Navigate(ctx, Sweets))
	assert.Equal(t, Sweets, f.shell.Current())
	assert.Equal(t, view.Ready, f.screens.Sweets.State())
	assert.Len(t, f.screens.Sweets.Items(), len(stubapi.SeedSweets))
	assert.Equal(t, view.Loading, f.screens.Customers.State(), "other screens load only when opened")

	assert.ErrorIs(t, f.shell.Navigate(ctx, View("reports")), ErrUnknownView)
	assert.Equal(t, Sweets, f.shell.Current())
}

func TestUserLabelAndLogout(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	assert.Equal(t, "owner@example.com", f.shell.UserLabel())

	require.NoError(t, f.session.Login(ctx, session.Identity{UID: "owner-1", DisplayName: "Meera", Email: "owner@example.com"}))
	assert.Equal(t, "Meera", f.shell.UserLabel())

	require.NoError(t, f.shell.Navigate(ctx, Orders))
	require.NoError(t, f.shell.Logout(ctx))
	assert.Equal(t, "User", f.shell.UserLabel())
	assert.Equal(t, Dashboard, f.shell.Current())

	_, err := f.client.ListSweets(ctx, "")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr, "requests after logout carry no identity")
	assert.Equal(t, 401, apiErr.StatusCode)
}

func TestRender(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()
	var buf bytes.Buffer

	require.NoError(t, f.shell.Navigate(ctx, Dashboard))
	require.NoError(t, f.shell.Render(&buf, ""))
	assert.Contains(t, buf.String(), "[Dashboard]  Sweets  Customers  Orders    owner@example.com")
	assert.Contains(t, buf.String(), "Total Sweets")
	assert.Contains(t, buf.String(), "₹0.00")

	buf.Reset()
	require.NoError(t, f.shell.Navigate(ctx, Sweets))
	require.NoError(t, f.shell.Render(&buf, "candy"))
	assert.Contains(t, buf.String(), "Strawberry Candy")
	assert.Contains(t, buf.String(), "Lemon Drops")
	assert.NotContains(t, buf.String(), "Caramel Fudge")

	buf.Reset()
	require.NoError(t, f.shell.Render(&buf, "licorice"))
	assert.Contains(t, buf.String(), "No Sweets Found")

	buf.Reset()
	require.NoError(t, f.shell.Navigate(ctx, Orders))
	require.NoError(t, f.shell.Render(&buf, ""))
	assert.Contains(t, buf.String(), "No Orders Yet")
}

func TestDeleteConfirmedThroughTerminal(t *testing.T) {
	f := newFixture(t, "y\n")
	ctx := context.Background()
	created, err := f.client.CreateCustomer(ctx, models.CustomerInput{Name: "Temp", Email: "temp@example.com"})
	require.NoError(t, err)
	require.NoError(t, f.shell.Navigate(ctx, Customers))
	require.Len(t, f.screens.Customers.Items(), len(stubapi.SeedCustomers)+1)

	f.screens.Customers.Delete(ctx, created.ID)

	assert.Len(t, f.screens.Customers.Items(), len(stubapi.SeedCustomers))
	for _, c := range f.screens.Customers.Items() {
		assert.NotEqual(t, created.ID, c.ID)
	}
	assert.Contains(t, f.out.String(), "Confirm Action: Are you sure you want to delete this customer? [y/N]: ")
	assert.Contains(t, f.out.String(), "[ok] Customer deleted successfully")
	_, pending := f.center.Pending()
	assert.False(t, pending)
}

func TestDeleteDeclinedThroughTerminal(t *testing.T) {
	f := newFixture(t, "n\n")
	ctx := context.Background()
	require.NoError(t, f.shell.Navigate(ctx, Sweets))
	before := f.screens.Sweets.Items()

	f.screens.Sweets.Delete(ctx, before[0].ID)

	assert.Equal(t, before, f.screens.Sweets.Items())
	assert.NotContains(t, f.out.String(), "[ok]")
}

func TestDeleteFailureShowsServerMessage(t *testing.T) {
	f := newFixture(t, "y\n")
	ctx := context.Background()
	customers, err := f.client.ListCustomers(ctx)
	require.NoError(t, err)
	sweets, err := f.client.ListSweets(ctx, "")
	require.NoError(t, err)
	_, err = f.client.CreateOrder(ctx, models.OrderCreate{
		CustomerID: customers[0].ID,
		Items:      []models.LineItem{{SweetID: sweets[0].ID, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, f.shell.Navigate(ctx, Customers))
	before := f.screens.Customers.Items()
	f.screens.Customers.Delete(ctx, customers[0].ID)

	assert.Equal(t, before, f.screens.Customers.Items())
	assert.Contains(t, f.out.String(), "[error] Cannot delete customer that has orders")
	var apiErr *api.Error
	require.ErrorAs(t, f.screens.Customers.DeleteErr(), &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestTerminalEOFDeclines(t *testing.T) {
	center := notify.NewCenter()
	var out bytes.Buffer
	NewTerminal(center, strings.NewReader(""), &out, false)

	ran := false
	center.Confirm("Proceed?", func() { ran = true })
	assert.False(t, ran)
	_, pending := center.Pending()
	assert.False(t, pending)
}

func TestTerminalAssumeYes(t *testing.T) {
	center := notify.NewCenter()
	var out bytes.Buffer
	NewTerminal(center, strings.NewReader(""), &out, true)

	ran := false
	center.Confirm("Proceed?", func() { ran = true })
	assert.True(t, ran)
	assert.Contains(t, out.String(), "Proceed? [y/N]: y")
}
