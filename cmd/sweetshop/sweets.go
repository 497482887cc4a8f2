package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sweetshop-admin/internal/shell"
	"sweetshop-admin/internal/sweet"
)

func newSweetsCmd(current appFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweets",
		Short: "Manage the sweet catalog",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return current().requireLogin()
		},
	}
	cmd.AddCommand(
		newSweetsListCmd(current),
		newSweetsSaveCmd(current, false),
		newSweetsSaveCmd(current, true),
		newSweetsDeleteCmd(current),
		newSweetsCategoriesCmd(current),
	)
	return cmd
}

func newSweetsListCmd(current appFunc) *cobra.Command {
	var search, category string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sweets, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			if category != "" {
				sweets, err := a.client.ListSweets(cmd.Context(), category)
				if err != nil {
					return err
				}
				return shell.RenderSweets(a.out, sweets)
			}
			if err := a.shell.Navigate(cmd.Context(), shell.Sweets); err != nil {
				return err
			}
			return a.shell.Render(a.out, search)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name or category, ignoring case")
	cmd.Flags().StringVar(&category, "category", "", "exact category filter applied by the server")
	return cmd
}

// newSweetsSaveCmd builds "add" or "edit ID". Edit starts from the stored
// sweet and applies only the flags given.
func newSweetsSaveCmd(current appFunc, edit bool) *cobra.Command {
	var (
		values sweet.Form
		image  string
		file   string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a sweet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			ctx := cmd.Context()
			list := a.screens.Sweets

			form := sweet.NewForm(a.client, nil, a.deps)
			if edit {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				target, err := a.client.GetSweet(ctx, id)
				if err != nil {
					return err
				}
				form = sweet.NewForm(a.client, target, a.deps)
			}

			flags := cmd.Flags()
			if !edit || flags.Changed("name") {
				form.Name = values.Name
			}
			if !edit || flags.Changed("category") {
				form.Category = values.Category
			}
			if !edit || flags.Changed("price") {
				form.Price = values.Price
			}
			if !edit || flags.Changed("stock") {
				form.Stock = values.Stock
			}
			if !edit || flags.Changed("description") {
				form.Description = values.Description
			}
			if flags.Changed("image-url") {
				form.SetImageURL(image)
			}
			if file != "" {
				if err := form.AttachImage(file); err != nil {
					return err
				}
			}
			if form.ImageURL() != "" && !form.PreviewVisible() {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: image reference cannot be previewed")
			}

			err := form.Submit(ctx, func() { list.Saved(ctx, form.Editing()) })
			if err != nil {
				return formError(err, form.Error())
			}
			return shell.RenderSweets(a.out, list.Items())
		},
	}
	if edit {
		cmd.Use = "edit ID"
		cmd.Short = "Edit a sweet"
		cmd.Args = cobra.ExactArgs(1)
	}

	f := cmd.Flags()
	f.StringVar(&values.Name, "name", "", "sweet name")
	f.StringVar(&values.Category, "category", "", "category")
	f.StringVar(&values.Price, "price", "", "unit price")
	f.StringVar(&values.Stock, "stock", "", "units in stock")
	f.StringVar(&values.Description, "description", "", "description")
	f.StringVar(&image, "image-url", "", "http(s) image URL")
	f.StringVar(&file, "image-file", "", "local image to embed as a data URL")
	return cmd
}

func newSweetsDeleteCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a sweet after confirmation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a.screens.Sweets.Delete(cmd.Context(), id)
			return deleteResult(a.screens.Sweets.DeleteErr())
		},
	}
}

func newSweetsCategoriesCmd(current appFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the distinct categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := current()
			categories, err := a.client.ListCategories(cmd.Context())
			if err != nil {
				return err
			}
			return shell.RenderCategories(a.out, categories)
		},
	}
}
