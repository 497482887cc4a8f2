package main

import (
	"github.com/spf13/cobra"

	"sweetshop-admin/internal/customer"
	"sweetshop-admin/internal/shell"
)

func newCustomersCmd(current appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customers",
		Short: "Manage customers",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return current().requireLogin()
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List customers",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a := current()
				if err := a.shell.Navigate(cmd.Context(), shell.Customers); err != nil {
					return err
				}
				return a.shell.Render(a.out, "")
			},
		},
		newCustomersSaveCmd(current, false),
		newCustomersSaveCmd(current, true),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a customer after confirmation",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				list := current().screens.Customers
				list.Delete(cmd.Context(), id)
				return deleteResult(list.DeleteErr())
			},
		},
	)
	return cmd
}

func newCustomersSaveCmd(current appFunc, edit bool) *cobra.Command {
	var values customer.Form
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			ctx := cmd.Context()
			list := a.screens.Customers

			form := customer.NewForm(a.client, nil, a.deps)
			if edit {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				target, err := a.client.GetCustomer(ctx, id)
				if err != nil {
					return err
				}
				form = customer.NewForm(a.client, target, a.deps)
			}

			flags := cmd.Flags()
			if !edit || flags.Changed("name") {
				form.Name = values.Name
			}
			if !edit || flags.Changed("email") {
				form.Email = values.Email
			}
			if !edit || flags.Changed("phone") {
				form.Phone = values.Phone
			}
			if !edit || flags.Changed("address") {
				form.Address = values.Address
			}

			err := form.Submit(ctx, func() { list.Saved(ctx, form.Editing()) })
			if err != nil {
				return formError(err, form.Error())
			}
			return shell.RenderCustomers(a.out, list.Items())
		},
	}
	if edit {
		cmd.Use = "edit ID"
		cmd.Short = "Edit a customer"
		cmd.Args = cobra.ExactArgs(1)
	}

	f := cmd.Flags()
	f.StringVar(&values.Name, "name", "", "customer name")
	f.StringVar(&values.Email, "email", "", "email address")
	f.StringVar(&values.Phone, "phone", "", "phone number")
	f.StringVar(&values.Address, "address", "", "postal address")
	return cmd
}
