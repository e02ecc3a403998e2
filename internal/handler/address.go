package handler

import (
	"net/http"

	"flowcart/internal/dto"
	"flowcart/internal/middleware"
	"flowcart/internal/service"

	"github.com/labstack/echo/v4"
)

type AddressHandler struct {
	addressService service.AddressService
}

func NewAddressHandler(addressService service.AddressService) *AddressHandler {
	return &AddressHandler{addressService: addressService}
}

func (h *AddressHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	address, err := h.addressService.Create(ctx, middleware.UserID(c), &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, address)
}

func (h *AddressHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	addresses, err := h.addressService.List(ctx, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, addresses)
}

func (h *AddressHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.AddressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	address, err := h.addressService.Update(ctx, middleware.UserID(c), c.Param("addressID"), &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, address)
}

func (h *AddressHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.addressService.Delete(ctx, middleware.UserID(c), c.Param("addressID")); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
