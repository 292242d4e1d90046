package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/altazaj/internal/admin"
	"github.com/Skotchmaster/altazaj/internal/auth"
	"github.com/Skotchmaster/altazaj/internal/models"
	"github.com/Skotchmaster/altazaj/internal/transport"
)

func adminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage orders and the menu",
		Long: `Staff commands.

When the server has admin auth enabled, run "restoctl admin login" first.
The token is kept in the config dir and sent with every admin command.`,
	}
	cmd.AddCommand(
		loginCmd(a),
		hashPasswordCmd(),
		ordersCmd(a),
		statusActionCmd(a, "advance", "Move an order to its next status", (*admin.Board).Advance),
		statusActionCmd(a, "cancel", "Cancel a pending or preparing order", (*admin.Board).Cancel),
		adminMenuCmd(a),
		uploadCmd(a),
	)
	return cmd
}

func loginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the admin token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			ctx, cancel := a.ctx(cmd)
			defer cancel()
			resp, err := a.client().Login(ctx, username, password)
			if err != nil {
				return err
			}
			if err := a.tokens().Save(resp.AccessToken); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s until %s\n", username, resp.ExpiresAt.Local().Format(time.RFC1123))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "admin", "admin username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (prompted when empty)")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func ordersCmd(a *app) *cobra.Command {
	var watch bool
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			board := admin.NewBoard(a.client())

			if !watch {
				ctx, cancel := a.ctx(cmd)
				defer cancel()
				if err := board.Refresh(ctx); err != nil {
					return err
				}
				printOrders(out, board.Orders())
				return nil
			}

			err := board.Watch(cmd.Context(), interval, func(err error) {
				if err != nil {
					fmt.Fprintln(out, mutedStyle.Render("refresh failed: "+explain(err)))
					return
				}
				fmt.Fprintf(out, "\n%s\n", mutedStyle.Render("updated "+board.RefreshedAt().Format("15:04:05")))
				printOrders(out, board.Orders())
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "refresh on an interval until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", admin.DefaultRefreshInterval, "refresh interval for --watch")
	return cmd
}

type statusAction func(*admin.Board, context.Context, models.Order) (*models.Order, error)

func statusActionCmd(a *app, use, short string, action statusAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <order-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("%q is not an order id", args[0])
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()

			c := a.client()
			order, err := c.Order(ctx, id)
			if err != nil {
				return err
			}
			updated, err := action(admin.NewBoard(c), ctx, *order)
			if errors.Is(err, admin.ErrNoAction) {
				return fmt.Errorf("order is %s: %w", order.Status, err)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Order %s: %s -> %s\n", id, badge(order.Status), badge(updated.Status))
			return nil
		},
	}
}

func menuItemFlags(cmd *cobra.Command, req *transport.MenuItemRequest, price *float64) {
	cmd.Flags().StringVar(&req.Name, "name", "", "item name")
	cmd.Flags().Float64Var(price, "price", 0, "item price")
	cmd.Flags().StringVar(&req.Category, "category", "", "item category")
	cmd.Flags().StringVar(&req.Image, "image", "", "image URL")
}

func adminMenuCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Add, edit or delete menu items",
	}

	var addReq transport.MenuItemRequest
	var addPrice float64
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a menu item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("price") {
				addReq.Price = &addPrice
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			item, err := admin.NewBoard(a.client()).AddMenuItem(ctx, addReq)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", item.Name, item.ID)
			return nil
		},
	}
	menuItemFlags(add, &addReq, &addPrice)

	var editReq transport.MenuItemRequest
	var editPrice float64
	edit := &cobra.Command{
		Use:   "edit <item-id>",
		Short: "Replace a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("%q is not a menu item id", args[0])
			}
			if cmd.Flags().Changed("price") {
				editReq.Price = &editPrice
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			item, err := admin.NewBoard(a.client()).EditMenuItem(ctx, id, editReq)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", item.Name, item.ID)
			return nil
		},
	}
	menuItemFlags(edit, &editReq, &editPrice)

	del := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("%q is not a menu item id", args[0])
			}
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			if err := admin.NewBoard(a.client()).DeleteMenuItem(ctx, id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Menu item deleted")
			return nil
		},
	}

	cmd.AddCommand(add, edit, del)
	return cmd
}

func uploadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file.json>",
		Short: "Create menu items from a JSON array file in one batch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.ctx(cmd)
			defer cancel()
			items, err := admin.NewBoard(a.client()).BulkUploadFile(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %d menu items\n", len(items))
			return nil
		},
	}
}
