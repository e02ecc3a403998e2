package handler

import (
	"net/http"
	"strconv"

	"flowcart/internal/dto"
	"flowcart/internal/middleware"
	"flowcart/internal/model"
	"flowcart/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.orderService.Checkout(ctx, middleware.UserID(c), &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *OrderHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.orderService.GetOrder(ctx, middleware.UserID(c), c.Param("orderID"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}

	orders, err := h.orderService.ListOrders(ctx, middleware.UserID(c), offset, limit)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.orderService.Cancel(ctx, middleware.UserID(c), c.Param("orderID")); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

// UpdateStatus is the admin endpoint for fulfilment and refunds.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	orderID := c.Param("orderID")
	var err error
	switch model.OrderStatus(req.Status) {
	case model.OrderFulfilled:
		err = h.orderService.Fulfill(ctx, orderID)
	case model.OrderRefunded:
		err = h.orderService.Refund(ctx, orderID)
	case model.OrderCancelled:
		err = h.orderService.Cancel(ctx, "", orderID)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "status must be FULFILLED, REFUNDED or CANCELLED")
	}
	if err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
