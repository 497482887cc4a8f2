package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sweetshop-admin/internal/session"
	"sweetshop-admin/internal/shell"
)

type appFunc func() *app

func newLoginCmd(current appFunc) *cobra.Command {
	var id session.Identity
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with the uid issued by the identity provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			if id.UID == "" {
				return errors.New("--uid is required")
			}
			if err := a.session.Login(cmd.Context(), id); err != nil {
				return err
			}
			_, err := fmt.Fprintf(a.out, "Signed in as %s\n", a.shell.UserLabel())
			return err
		},
	}
	cmd.Flags().StringVar(&id.UID, "uid", "", "user id sent as the identity header")
	cmd.Flags().StringVar(&id.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&id.Email, "email", "", "email address")
	return cmd
}

func newLogoutCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored identity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			if err := a.shell.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(a.out, "Signed out")
			return err
		},
	}
}

func newWhoamiCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			a := current()
			id, ok := a.session.Current()
			if !ok {
				return session.ErrNoSession
			}
			_, err := fmt.Fprintf(a.out, "%s (%s)\n", id.Label(), id.UID)
			return err
		},
	}
}

func newDashboardCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show catalog, customer and order totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			if err := a.requireLogin(); err != nil {
				return err
			}
			if err := a.shell.Navigate(cmd.Context(), shell.Dashboard); err != nil {
				return err
			}
			return a.shell.Render(a.out, "")
		},
	}
}

func newHealthCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			h, err := a.client.Health(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "%s: %s\n", h.Status, h.Message)
			return err
		},
	}
}
