package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/altazaj/internal/logging"
	"github.com/Skotchmaster/altazaj/internal/service"
	"github.com/Skotchmaster/altazaj/internal/transport"
	"github.com/Skotchmaster/altazaj/internal/util"
)

type MenuHTTP struct {
	Svc *service.MenuService
}

func (h *MenuHTTP) GetMenuItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.get_menu_items")

	items, err := h.Svc.List(ctx, c.QueryParam("category"))
	if err != nil {
		return fail(l, "get_menu_items_error", err)
	}

	l.Info("get_menu_items_success", "count", len(items))
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHTTP) SearchMenuItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search_menu_items")

	limit := util.Limit(util.ParseIntDefault(c.QueryParam("limit"), service.DefaultSearchLimit))
	items, err := h.Svc.Search(ctx, c.QueryParam("q"), limit)
	if err != nil {
		return fail(l, "search_menu_items_error", err)
	}

	l.Info("search_menu_items_success", "count", len(items))
	return c.JSON(http.StatusOK, items)
}

func (h *MenuHTTP) CreateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.create_menu_item")

	var req transport.MenuItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_menu_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Create(ctx, req)
	if err != nil {
		return fail(l, "create_menu_item_error", err)
	}

	l.Info("create_menu_item_success", "item_id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHTTP) BulkCreateMenuItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.bulk_create_menu_items")

	var reqs []transport.MenuItemRequest
	if err := c.Echo().JSONSerializer.Deserialize(c, &reqs); err != nil {
		l.Warn("bulk_create_menu_items_error", "status", 400, "reason", "body is not an array", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "Request body must be an array of menu items.")
	}

	items, err := h.Svc.CreateBulk(ctx, reqs)
	if err != nil {
		return fail(l, "bulk_create_menu_items_error", err)
	}

	l.Info("bulk_create_menu_items_success", "count", len(items))
	return c.JSON(http.StatusCreated, items)
}

func (h *MenuHTTP) UpdateMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.update_menu_item")

	id, err := parseID(c, l, "update_menu_item_error", service.MsgMenuItemNotFound)
	if err != nil {
		return err
	}

	var req transport.MenuItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_menu_item_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.Replace(ctx, id, req)
	if err != nil {
		return fail(l, "update_menu_item_error", err)
	}

	l.Info("update_menu_item_success", "item_id", item.ID)
	return c.JSON(http.StatusOK, item)
}

func (h *MenuHTTP) DeleteMenuItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.delete_menu_item")

	id, err := parseID(c, l, "delete_menu_item_error", service.MsgMenuItemNotFound)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return fail(l, "delete_menu_item_error", err)
	}

	l.Info("delete_menu_item_success", "item_id", id)
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Menu item deleted"})
}
