package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/Skotchmaster/altazaj/internal/domain"
	"github.com/Skotchmaster/altazaj/internal/models"
	"github.com/Skotchmaster/altazaj/internal/storefront"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	statusStyle = map[domain.Status]lipgloss.Style{
		domain.StatusPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		domain.StatusPreparing: lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		domain.StatusDelivered: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		domain.StatusCancelled: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
)

func badge(s domain.Status) string {
	if st, ok := statusStyle[s]; ok {
		return st.Render(s.String())
	}
	return s.String()
}

const barWidth = 24

func progressBar(s domain.Status) string {
	filled := domain.Step(s) * barWidth / domain.Steps
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", barWidth-filled) + "]"
}

func printMenu(w io.Writer, groups []storefront.Category) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "The menu is empty.")
		return
	}
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, headerStyle.Render(g.Name))
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, it := range g.Items {
			fmt.Fprintf(tw, "  %s\t%.2f\t%s\n", it.Name, it.Price, mutedStyle.Render(it.ID.String()))
		}
		_ = tw.Flush()
	}
}

func printOrder(w io.Writer, o *models.Order) {
	fmt.Fprintf(w, "Order %s\n", o.ID)
	fmt.Fprintf(w, "  Status:   %s %s %.0f%%\n", badge(o.Status), progressBar(o.Status), domain.Progress(o.Status))
	fmt.Fprintf(w, "  Customer: %s (%s)\n", o.Name, o.Phone)
	if o.Address != "" {
		fmt.Fprintf(w, "  Address:  %s\n", o.Address)
	}
	for _, it := range o.Items {
		fmt.Fprintf(w, "  - %d x %s\n", it.Quantity, it.Name)
	}
	fmt.Fprintf(w, "  Total:    %.2f\n", o.TotalPrice)
	fmt.Fprintf(w, "  Placed:   %s\n", o.CreatedAt.Local().Format("2006-01-02 15:04:05"))
}

func printOrders(w io.Writer, orders []models.Order) {
	if len(orders) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tPHONE\tITEMS\tTOTAL\tSTATUS\tPLACED")
	for _, o := range orders {
		n := 0
		for _, it := range o.Items {
			n += it.Quantity
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%.2f\t%s\t%s\n",
			o.ID, o.Name, o.Phone, n, o.TotalPrice, badge(o.Status), o.CreatedAt.Local().Format("15:04:05"))
	}
	_ = tw.Flush()
}

func printHistory(w io.Writer, logs []models.OrderStatusLog) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No status changes yet.")
		return
	}
	for _, l := range logs {
		fmt.Fprintf(w, "%s  %s -> %s\n", l.CreatedAt.Local().Format("2006-01-02 15:04:05"), badge(l.FromStatus), badge(l.ToStatus))
	}
}
