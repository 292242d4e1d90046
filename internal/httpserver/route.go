package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/altazaj/internal/auth"
	"github.com/Skotchmaster/altazaj/internal/logging"
)

type Deps struct {
	MenuHandler  *MenuHTTP
	OrderHandler *OrderHTTP
	AuthHandler  *AuthHTTP
	Auth         *auth.Service
	// CSRF, when set, runs in front of admin routes.
	CSRF echo.MiddlewareFunc
	// Ready reports whether backing stores are reachable.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				logging.FromContext(c.Request().Context()).Error("ready_check_error", "status", 503, "error", err)
				return echo.NewHTTPError(http.StatusServiceUnavailable, "not ready")
			}
		}
		return c.NoContent(http.StatusOK)
	})

	mount(e.Group(""), d)
	mount(e.Group("/api"), d)
}

func mount(g *echo.Group, d *Deps) {
	admin := []echo.MiddlewareFunc{d.Auth.RequireAdmin}
	if d.CSRF != nil {
		admin = append([]echo.MiddlewareFunc{d.CSRF}, admin...)
	}

	g.POST("/admin/login", d.AuthHandler.Login)

	menu := g.Group("/menu-items")
	menu.GET("", d.MenuHandler.GetMenuItems)
	menu.GET("/search", d.MenuHandler.SearchMenuItems)
	menu.POST("", d.MenuHandler.CreateMenuItem, admin...)
	menu.POST("/bulk", d.MenuHandler.BulkCreateMenuItems, admin...)
	menu.PUT("/:id", d.MenuHandler.UpdateMenuItem, admin...)
	menu.DELETE("/:id", d.MenuHandler.DeleteMenuItem, admin...)

	orders := g.Group("/orders")
	orders.GET("", d.OrderHandler.GetOrders, admin...)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/stream", d.OrderHandler.StreamOrders, admin...)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.GET("/:id/history", d.OrderHandler.GetOrderHistory)
	orders.GET("/:id/stream", d.OrderHandler.StreamOrder)
	orders.PUT("/:id/status", d.OrderHandler.UpdateOrderStatus, admin...)
}
