package handler

import (
	"errors"
	"net/http"

	"flowcart/internal/client"
	"flowcart/internal/service"

	"github.com/labstack/echo/v4"
)

// httpError translates service sentinel errors into echo HTTP errors.
// Unmatched errors fall through so the echo error handler returns 500
// and the request logger records the cause.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrVariantNotFound),
		errors.Is(err, service.ErrCartNotFound),
		errors.Is(err, service.ErrCartItemNotFound),
		errors.Is(err, service.ErrPromoNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrAddressNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())

	case errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidSignature):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())

	case errors.Is(err, service.ErrOutOfStock),
		errors.Is(err, service.ErrMixedCurrencies),
		errors.Is(err, service.ErrPromoExpired),
		errors.Is(err, service.ErrPromoUsageLimit),
		errors.Is(err, service.ErrPromoMinimumNotMet),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrEmailTaken):
		return echo.NewHTTPError(http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())

	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())

	case errors.Is(err, client.ErrGatewayUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "payment gateway unavailable")
	}
	return err
}
