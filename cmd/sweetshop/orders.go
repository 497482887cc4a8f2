package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sweetshop-admin/internal/order"
	"sweetshop-admin/internal/shell"
)

func newOrdersCmd(current appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Create and manage orders",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return current().requireLogin()
		},
	}
	cmd.AddCommand(
		newOrdersListCmd(current),
		newOrdersCreateCmd(current),
		newOrdersStatusCmd(current),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete an order and restore its stock",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				list := current().screens.Orders
				list.Delete(cmd.Context(), id)
				return deleteResult(list.DeleteErr())
			},
		},
	)
	return cmd
}

func newOrdersListCmd(current appFunc) *cobra.Command {
	var customerID int64
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			if customerID == 0 {
				if err := a.shell.Navigate(cmd.Context(), shell.Orders); err != nil {
					return err
				}
				return a.shell.Render(a.out, "")
			}
			list := order.NewList(a.client, customerID, a.deps)
			list.Refresh(cmd.Context())
			return shell.RenderOrders(a.out, list.Items())
		},
	}
	cmd.Flags().Int64Var(&customerID, "customer", 0, "only this customer's orders")
	return cmd
}

// parseItem reads SWEET_ID[:QTY]. The quantity follows the composer's
// rules for what was typed.
func parseItem(raw string) (int64, string, error) {
	idPart, qty, found := strings.Cut(raw, ":")
	id, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("invalid item %q: want SWEET_ID[:QTY]", raw)
	}
	if !found {
		qty = "1"
	}
	return id, qty, nil
}

func newOrdersCreateCmd(current appFunc) *cobra.Command {
	var (
		customerID int64
		items      []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an order for a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			ctx := cmd.Context()
			list := a.screens.Orders

			c := order.NewComposer(a.client, a.deps, order.WithRequireItems(a.cfg.Orders.RequireItems))
			c.Open(ctx)
			if customerID != 0 && !hasCustomer(c, customerID) {
				return fmt.Errorf("customer %d not found", customerID)
			}
			c.SelectCustomer(customerID)

			for _, raw := range items {
				sweetID, qty, err := parseItem(raw)
				if err != nil {
					return err
				}
				if !hasSweet(c, sweetID) {
					return fmt.Errorf("sweet %d not found", sweetID)
				}
				c.AddItem()
				i := len(c.Lines()) - 1
				if err := c.SetSweet(i, sweetID); err != nil {
					return err
				}
				if err := c.SetQuantity(i, qty); err != nil {
					return err
				}
			}

			if err := c.Submit(ctx, func() { list.Created(ctx) }); err != nil {
				return formError(err, c.Error())
			}
			return shell.RenderOrders(a.out, list.Items())
		},
	}
	f := cmd.Flags()
	f.Int64Var(&customerID, "customer", 0, "customer id")
	f.StringArrayVar(&items, "item", nil, "SWEET_ID[:QTY], repeatable")
	return cmd
}

func hasCustomer(c *order.Composer, id int64) bool {
	for _, cu := range c.Customers() {
		if cu.ID == id {
			return true
		}
	}
	return false
}

func hasSweet(c *order.Composer, id int64) bool {
	for _, s := range c.Sweets() {
		if s.ID == id {
			return true
		}
	}
	return false
}

func newOrdersStatusCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set an order's status (pending, completed, cancelled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			o, err := a.client.GetOrder(ctx, id)
			if err != nil {
				return err
			}

			form := order.NewStatusForm(a.client, *o, a.deps)
			if err := form.Set(args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), form.Subtitle())

			list := a.screens.Orders
			if err := form.Submit(ctx, func() { list.StatusUpdated(ctx) }); err != nil {
				return formError(err, form.Error())
			}
			return shell.RenderOrders(a.out, list.Items())
		},
	}
}
