package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/altazaj/internal/logging"
	"github.com/Skotchmaster/altazaj/internal/service"
	"github.com/Skotchmaster/altazaj/internal/stream"
	"github.com/Skotchmaster/altazaj/internal/transport"
	"github.com/Skotchmaster/altazaj/internal/util"
)

type OrderHTTP struct {
	Svc *service.OrderService
	Hub *stream.Hub
}

func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	limit := util.Limit(util.ParseIntDefault(c.QueryParam("limit"), 0))
	orders, err := h.Svc.List(ctx, limit)
	if err != nil {
		return fail(l, "get_orders_error", err)
	}

	l.Info("get_orders_success", "count", len(orders))
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_order_error", err)
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := parseID(c, l, "get_order_error", service.MsgOrderNotFound)
	if err != nil {
		return err
	}

	order, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) GetOrderHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order_history")

	id, err := parseID(c, l, "get_order_history_error", service.MsgOrderNotFound)
	if err != nil {
		return err
	}

	logs, err := h.Svc.History(ctx, id)
	if err != nil {
		return fail(l, "get_order_history_error", err)
	}

	return c.JSON(http.StatusOK, logs)
}

func (h *OrderHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_order_status")

	id, err := parseID(c, l, "update_order_status_error", service.MsgOrderNotFound)
	if err != nil {
		return err
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_order_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return fail(l, "update_order_status_error", err)
	}

	l.Info("update_order_status_success", "order_id", order.ID, "status", order.Status)
	return c.JSON(http.StatusOK, order)
}

// StreamOrders pushes every order event to an admin websocket.
func (h *OrderHTTP) StreamOrders(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "order.stream_orders")
	if h.Hub == nil {
		return streamUnavailable()
	}

	l.Info("stream_opened")
	if err := h.Hub.Serve(c.Response(), c.Request(), uuid.Nil); err != nil {
		return upgradeFailed(l, err)
	}
	l.Info("stream_closed")
	return nil
}

// StreamOrder sends the current order first, then its status changes. The
// subscription is opened before the order is read.
func (h *OrderHTTP) StreamOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.stream_order")

	id, err := parseID(c, l, "stream_order_error", service.MsgOrderNotFound)
	if err != nil {
		return err
	}
	if h.Hub == nil {
		return streamUnavailable()
	}

	events, unsubscribe := h.Hub.Subscribe(id, stream.BufferSize)
	defer unsubscribe()

	order, err := h.Svc.Get(ctx, id)
	if err != nil {
		return fail(l, "stream_order_error", err)
	}

	l.Info("stream_opened", "order_id", id)
	snapshot := &transport.OrderEvent{Type: transport.EventOrderSnapshot, Order: *order}
	if err := stream.Serve(c.Response(), c.Request(), events, snapshot); err != nil {
		return upgradeFailed(l, err)
	}
	l.Info("stream_closed", "order_id", id)
	return nil
}

func streamUnavailable() error {
	return echo.NewHTTPError(http.StatusServiceUnavailable, "order stream is not available")
}

func upgradeFailed(l *slog.Logger, err error) error {
	// the upgrader has already answered the client
	l.Warn("stream_error", "status", 400, "reason", "websocket upgrade failed", "error", err)
	return nil
}
