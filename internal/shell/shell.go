// Package shell is the page frame around the admin screens: which screen
// is showing, who is signed in, and the terminal surfaces for banners and
// confirmations.
package shell

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"sweetshop-admin/internal/customer"
	"sweetshop-admin/internal/dashboard"
	"sweetshop-admin/internal/order"
	"sweetshop-admin/internal/session"
	"sweetshop-admin/internal/sweet"
)

var ErrUnknownView = errors.New("unknown view")

type View string

const (
	Dashboard View = "dashboard"
	Sweets    View = "sweets"
	Customers View = "customers"
	Orders    View = "orders"
)

// Views lists the navigation entries in menu order.
var Views = []View{Dashboard, Sweets, Customers, Orders}

var labels = map[View]string{
	Dashboard: "Dashboard",
	Sweets:    "Sweets",
	Customers: "Customers",
	Orders:    "Orders",
}

func (v View) Label() string {
	return labels[v]
}

func ParseView(s string) (View, error) {
	for _, v := range Views {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownView)
}

// Screens are the views the shell switches between.
type Screens struct {
	Dashboard *dashboard.Dashboard
	Sweets    *sweet.List
	Customers *customer.List
	Orders    *order.List
}

type Shell struct {
	session *session.Session
	screens Screens
	current View
	log     *zap.Logger
}

func New(sess *session.Session, screens Screens, log *zap.Logger) *Shell {
	if log == nil {
		log = zap.NewNop()
	}
	return &Shell{session: sess, screens: screens, current: Dashboard, log: log}
}

func (s *Shell) Current() View {
	return s.current
}

// Navigate switches to v and loads it, the way opening a screen does.
func (s *Shell) Navigate(ctx context.Context, v View) error {
	if _, ok := labels[v]; !ok {
		return fmt.Errorf("%q: %w", v, ErrUnknownView)
	}
	s.current = v
	s.log.Debug("navigate", zap.String("view", string(v)))

	switch v {
	case Dashboard:
		if s.screens.Dashboard != nil {
			s.screens.Dashboard.Refresh(ctx)
		}
	case Sweets:
		if s.screens.Sweets != nil {
			s.screens.Sweets.Refresh(ctx)
		}
	case Customers:
		if s.screens.Customers != nil {
			s.screens.Customers.Refresh(ctx)
		}
	case Orders:
		if s.screens.Orders != nil {
			s.screens.Orders.Refresh(ctx)
		}
	}
	return nil
}

// UserLabel is the name shown next to the logout control.
func (s *Shell) UserLabel() string {
	id, _ := s.session.Current()
	return id.Label()
}

func (s *Shell) Logout(ctx context.Context) error {
	if err := s.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.current = Dashboard
	return nil
}
