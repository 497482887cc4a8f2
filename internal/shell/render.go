package shell

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"sweetshop-admin/internal/dashboard"
	"sweetshop-admin/internal/models"
	"sweetshop-admin/internal/order"
	"sweetshop-admin/internal/sweet"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// RenderNav writes the navigation bar with the active view bracketed.
func (s *Shell) RenderNav(w io.Writer) error {
	parts := make([]string, 0, len(Views))
	for _, v := range Views {
		if v == s.current {
			parts = append(parts, "["+v.Label()+"]")
		} else {
			parts = append(parts, v.Label())
		}
	}
	_, err := fmt.Fprintf(w, "%s    %s\n", strings.Join(parts, "  "), s.UserLabel())
	return err
}

// Render writes the nav bar and the current screen.
func (s *Shell) Render(w io.Writer, search string) error {
	if err := s.RenderNav(w); err != nil {
		return err
	}
	switch s.current {
	case Dashboard:
		if s.screens.Dashboard != nil {
			return RenderDashboard(w, s.screens.Dashboard)
		}
	case Sweets:
		if s.screens.Sweets != nil {
			return RenderSweets(w, s.screens.Sweets.Filtered(search))
		}
	case Customers:
		if s.screens.Customers != nil {
			return RenderCustomers(w, s.screens.Customers.Items())
		}
	case Orders:
		if s.screens.Orders != nil {
			return RenderOrders(w, s.screens.Orders.Items())
		}
	}
	return nil
}

func RenderDashboard(w io.Writer, d *dashboard.Dashboard) error {
	st := d.Stats()
	tw := table(w)
	fmt.Fprintf(tw, "Total Sweets\t%d\n", st.TotalSweets)
	fmt.Fprintf(tw, "Total Customers\t%d\n", st.TotalCustomers)
	fmt.Fprintf(tw, "Total Orders\t%d\n", st.TotalOrders)
	fmt.Fprintf(tw, "Pending Orders\t%d\n", st.PendingOrders)
	fmt.Fprintf(tw, "Total Revenue\t₹%s\n", d.Revenue())
	return tw.Flush()
}

func RenderSweets(w io.Writer, sweets []models.Sweet) error {
	if len(sweets) == 0 {
		_, err := fmt.Fprintln(w, "No Sweets Found")
		return err
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE/KG\tSTOCK\t")
	for _, s := range sweets {
		fmt.Fprintf(tw, "%d\t%s\t%s\t₹%s\t%d (%s)\t\n",
			s.ID, s.Name, s.Category, models.FormatMoney(&s.Price), s.Stock, sweet.StockBadge(s.Stock))
	}
	return tw.Flush()
}

func RenderCustomers(w io.Writer, customers []models.Customer) error {
	if len(customers) == 0 {
		_, err := fmt.Fprintln(w, "No Customers Yet")
		return err
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tADDRESS\t")
	for _, c := range customers {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n", c.ID, c.Name, c.Email, dash(c.Phone), dash(c.Address))
	}
	return tw.Flush()
}

func RenderOrders(w io.Writer, orders []models.Order) error {
	if len(orders) == 0 {
		_, err := fmt.Fprintln(w, "No Orders Yet")
		return err
	}
	tw := table(w)
	fmt.Fprintln(tw, "ORDER\tCUSTOMER\tDATE\tSTATUS\tTOTAL\t")
	for _, o := range orders {
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%s (%s)\t₹%s\t\n",
			o.ID, order.CustomerName(o), order.Date(o), o.Status, order.StatusBadge(o.Status), order.Total(o))
	}
	return tw.Flush()
}

// RenderCategories writes one category per line.
func RenderCategories(w io.Writer, categories []string) error {
	for _, c := range categories {
		if _, err := fmt.Fprintln(w, c); err != nil {
			return err
		}
	}
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
