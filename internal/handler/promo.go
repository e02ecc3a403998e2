package handler

import (
	"net/http"

	"flowcart/internal/dto"
	"flowcart/internal/middleware"
	"flowcart/internal/service"

	"github.com/labstack/echo/v4"
)

type PromoHandler struct {
	promoService service.PromoService
	cartService  service.CartService
}

func NewPromoHandler(promoService service.PromoService, cartService service.CartService) *PromoHandler {
	return &PromoHandler{
		promoService: promoService,
		cartService:  cartService,
	}
}

// Validate previews a promo code against the caller's current cart subtotal
// without consuming a use.
func (h *PromoHandler) Validate(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ValidatePromoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cart, err := h.cartService.GetCart(ctx, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	promo, discount, err := h.promoService.Validate(ctx, req.Code, cart.Subtotal)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, &dto.ValidatePromoResponse{
		Code:     promo.Code,
		Subtotal: cart.Subtotal,
		Discount: discount,
	})
}

func (h *PromoHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PromoCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	promo, err := h.promoService.Create(ctx, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, promo)
}

func (h *PromoHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	promos, err := h.promoService.List(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, promos)
}

func (h *PromoHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PromoCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	req.Code = c.Param("code")
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	promo, err := h.promoService.Update(ctx, req.Code, &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, promo)
}

func (h *PromoHandler) Deactivate(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.promoService.Deactivate(ctx, c.Param("code")); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
