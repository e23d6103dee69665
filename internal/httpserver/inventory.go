package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/stockroom/stockroom/internal/service"
	"github.com/stockroom/stockroom/internal/transport"
	"github.com/stockroom/stockroom/pkg/logging"
	mwauth "github.com/stockroom/stockroom/pkg/middleware/auth"
)

type InventoryHTTP struct {
	Svc *service.InventoryService
}

func (h *InventoryHTTP) GetItems(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.get_items")

	items, err := h.Svc.ListItems(ctx, mwauth.CallerID(c), c.QueryParam("search"))
	if err != nil {
		l.Error("get_items_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list items")
	}

	return c.JSON(http.StatusOK, transport.ItemsFromModels(items))
}

func (h *InventoryHTTP) GetItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.get_item")

	id, err := itemID(c)
	if err != nil {
		l.Warn("get_item_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	item, err := h.Svc.GetItem(ctx, mwauth.CallerID(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_item_failed", "status", 404, "reason", "item not found")
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		l.Error("get_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get item")
	}

	return c.JSON(http.StatusOK, transport.ItemFromModel(item))
}

func (h *InventoryHTTP) CreateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.create_item")

	var req transport.ItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.AddItem(ctx, mwauth.CallerID(c), draftFromRequest(req))
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_item_failed", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("create_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add item")
	}

	l.Info("create_item_success", "item_id", item.ID)
	return c.JSON(http.StatusCreated, transport.ItemFromModel(item))
}

func (h *InventoryHTTP) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.update_item")

	id, err := itemID(c)
	if err != nil {
		l.Warn("update_item_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	var req transport.ItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_item_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	item, err := h.Svc.UpdateItem(ctx, mwauth.CallerID(c), id, draftFromRequest(req))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("update_item_failed", "status", 404, "reason", "item not found")
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		if errors.Is(err, service.ErrValidation) {
			l.Warn("update_item_failed", "status", 400, "reason", "invalid body", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		l.Error("update_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update item")
	}

	l.Info("update_item_success", "item_id", item.ID)
	return c.JSON(http.StatusOK, transport.ItemFromModel(item))
}

func (h *InventoryHTTP) UpdateStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.update_stock")

	id, err := strconv.ParseUint(c.QueryParam("id"), 10, 32)
	if err != nil {
		l.Warn("update_stock_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}
	delta, err := strconv.Atoi(c.QueryParam("change"))
	if err != nil {
		l.Warn("update_stock_failed", "status", 400, "reason", "change is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "change is not an integer")
	}

	if err := h.Svc.UpdateStock(ctx, mwauth.CallerID(c), uint(id), delta); err != nil {
		l.Error("update_stock_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update stock")
	}

	l.Info("update_stock_success", "item_id", id, "change", delta)
	return c.JSON(http.StatusOK, echo.Map{"message": "stock updated"})
}

func (h *InventoryHTTP) DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.delete_item")

	id, err := itemID(c)
	if err != nil {
		l.Warn("delete_item_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	if err := h.Svc.DeleteItem(ctx, mwauth.CallerID(c), id); err != nil {
		l.Error("delete_item_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete item")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *InventoryHTTP) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.get_history")

	id, err := itemID(c)
	if err != nil {
		l.Warn("get_history_failed", "status", 400, "reason", "id is not an integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not an integer")
	}

	entries, err := h.Svc.GetHistory(ctx, mwauth.CallerID(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_history_failed", "status", 404, "reason", "item not found")
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		l.Error("get_history_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot get history")
	}

	return c.JSON(http.StatusOK, transport.TransactionsFromModels(entries))
}

func itemID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

func draftFromRequest(req transport.ItemRequest) service.ItemDraft {
	return service.ItemDraft{
		Name:              req.Name,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
		Price:             req.Price,
	}
}
