package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/altazaj/internal/domain"
	"github.com/Skotchmaster/altazaj/internal/storefront"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

func menuCmd(a *app) *cobra.Command {
	var category, query string
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the menu grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			c := a.client()
			if query != "" {
				items, err := c.SearchMenu(ctx, query, 0)
				if err != nil {
					return err
				}
				printMenu(cmd.OutOrStdout(), storefront.GroupByCategory(items))
				return nil
			}

			groups, err := storefront.New(c, nil).Menu(ctx)
			if err != nil {
				return err
			}
			if category != "" {
				filtered := groups[:0]
				for _, g := range groups {
					if strings.EqualFold(g.Name, category) {
						filtered = append(filtered, g)
					}
				}
				groups = filtered
			}
			printMenu(cmd.OutOrStdout(), groups)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only show this category")
	cmd.Flags().StringVarP(&query, "search", "s", "", "search the menu by name or category")
	return cmd
}

// parseItem reads "name=qty"; a bare name means one unit.
func parseItem(s string) (string, int, error) {
	name, qty, found := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", 0, fmt.Errorf("item %q: name is empty", s)
	}
	if !found {
		return name, 1, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(qty))
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("item %q: quantity must be a positive integer", s)
	}
	return name, n, nil
}

func orderCmd(a *app) *cobra.Command {
	var customer storefront.Customer
	var items []string
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place an order",
		Example: `  restoctl order --name Ali --phone 0100000000 --item Burger=2 --item Cola
  restoctl order --name Ali --phone 0100000000 --address "12 Nile St" --item "Chicken Burger=1"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			c := a.client()
			sf := storefront.New(c, a.lastOrder())
			sf.Customer = customer

			if len(items) > 0 {
				menu, err := c.Menu(ctx)
				if err != nil {
					return err
				}
				for _, raw := range items {
					name, qty, err := parseItem(raw)
					if err != nil {
						return err
					}
					item, ok := storefront.FindItem(menu, name)
					if !ok {
						return fmt.Errorf("%q is not on the menu", name)
					}
					sf.Cart.Add(item)
					sf.Cart.SetQuantity(name, sf.Cart.Quantity(name)+qty-1)
				}
			}

			out := cmd.OutOrStdout()
			for _, l := range sf.Cart.Lines() {
				fmt.Fprintf(out, "  %d x %s  %.2f\n", l.Quantity, l.Item.Name, l.Subtotal())
			}
			fmt.Fprintf(out, "  Total: %.2f\n", sf.Cart.Total())

			order, err := sf.Submit(ctx)
			if err != nil {
				if order != nil {
					fmt.Fprintf(out, "Order %s placed, but it could not be remembered: %v\n", order.ID, err)
					return nil
				}
				return err
			}

			fmt.Fprintf(out, "Order placed: %s\n", order.ID)
			fmt.Fprintf(out, "Track it with: restoctl track %s\n", order.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&customer.Name, "name", "", "your name")
	cmd.Flags().StringVar(&customer.Phone, "phone", "", "your phone number")
	cmd.Flags().StringVar(&customer.Address, "address", "", "delivery address")
	cmd.Flags().StringArrayVarP(&items, "item", "i", nil, "menu item as name=quantity, repeatable")
	return cmd
}

func (a *app) orderID(args []string) (uuid.UUID, error) {
	if len(args) == 1 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return uuid.Nil, fmt.Errorf("%q is not an order id", args[0])
		}
		return id, nil
	}
	id, err := a.lastOrder().Load()
	if errors.Is(err, storefront.ErrNoLastOrder) {
		return uuid.Nil, errors.New("no order id given and no previous order found")
	}
	return id, err
}

func trackCmd(a *app) *cobra.Command {
	var follow, live bool
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "track [order-id]",
		Short: "Show the status of an order (defaults to your last order)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.orderID(args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			c := a.client()

			switch {
			case live:
				ctx, cancel := context.WithCancel(cmd.Context())
				defer cancel()
				done := false
				err := c.FollowOrder(ctx, id, func(ev transport.OrderEvent) {
					printOrder(out, &ev.Order)
					if ev.Order.Status.Terminal() {
						done = true
						cancel()
					}
				})
				if done {
					return nil
				}
				return err
			case follow:
				tr := &storefront.Tracker{API: c, Interval: interval}
				var last domain.Status
				return tr.Track(cmd.Context(), id, func(u storefront.Update) {
					if u.Err != nil {
						fmt.Fprintln(out, mutedStyle.Render("could not refresh: "+explain(u.Err)))
						return
					}
					if u.Order.Status != last {
						printOrder(out, u.Order)
						last = u.Order.Status
					}
				})
			default:
				ctx, cancel := a.ctx(cmd)
				defer cancel()
				order, err := c.Order(ctx, id)
				if err != nil {
					return err
				}
				printOrder(out, order)
				return nil
			}
		},
	}
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "keep polling until the order is delivered or cancelled")
	cmd.Flags().BoolVar(&live, "stream", false, "follow live updates over a websocket instead of polling")
	cmd.Flags().DurationVar(&interval, "interval", storefront.DefaultPollInterval, "poll interval for --follow")
	return cmd
}

func historyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history [order-id]",
		Short: "Show the status changes of an order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.orderID(args)
			if err != nil {
				return err
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			logs, err := a.client().OrderHistory(ctx, id)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), logs)
			return nil
		},
	}
}
