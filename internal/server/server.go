package server

import (
	"context"
	"log/slog"
	"net/http"

	"flowcart/internal/config"
	"flowcart/internal/handler"
	appmw "flowcart/internal/middleware"
	"flowcart/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Server struct {
	echo           *echo.Echo
	jwtSecret      string
	authHandler    *handler.AuthHandler
	productHandler *handler.ProductHandler
	cartHandler    *handler.CartHandler
	promoHandler   *handler.PromoHandler
	orderHandler   *handler.OrderHandler
	addressHandler *handler.AddressHandler
	webhookHandler *handler.WebhookHandler
}

func NewServer(
	cfg *config.Config,
	authService service.AuthService,
	productService service.ProductService,
	cartService service.CartService,
	promoService service.PromoService,
	orderService service.OrderService,
	addressService service.AddressService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
			}
			slog.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:           e,
		jwtSecret:      cfg.JWT.Secret,
		authHandler:    handler.NewAuthHandler(authService),
		productHandler: handler.NewProductHandler(productService),
		cartHandler:    handler.NewCartHandler(cartService),
		promoHandler:   handler.NewPromoHandler(promoService, cartService),
		orderHandler:   handler.NewOrderHandler(orderService),
		addressHandler: handler.NewAddressHandler(addressService),
		webhookHandler: handler.NewWebhookHandler(orderService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api/v1")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- public --------
	api.POST("/auth/register", s.authHandler.Register)
	api.POST("/auth/login", s.authHandler.Login)

	api.GET("/products", s.productHandler.List)
	api.GET("/products/:productID", s.productHandler.Get)
	api.GET("/categories", s.productHandler.ListCategories)

	api.POST("/webhooks/stripe", s.webhookHandler.StripeWebhook)

	// -------- authenticated --------
	auth := api.Group("", appmw.AuthMiddleware(s.jwtSecret))
	auth.GET("/auth/me", s.authHandler.Me)

	auth.GET("/cart", s.cartHandler.Get)
	auth.POST("/cart/items", s.cartHandler.AddItem)
	auth.PATCH("/cart/items/:variantID", s.cartHandler.UpdateItem)
	auth.DELETE("/cart/items/:variantID", s.cartHandler.RemoveItem)

	auth.POST("/addresses", s.addressHandler.Create)
	auth.GET("/addresses", s.addressHandler.List)
	auth.PUT("/addresses/:addressID", s.addressHandler.Update)
	auth.DELETE("/addresses/:addressID", s.addressHandler.Delete)

	auth.POST("/promos/validate", s.promoHandler.Validate)

	auth.POST("/checkout", s.orderHandler.Checkout)
	auth.GET("/orders", s.orderHandler.List)
	auth.GET("/orders/:orderID", s.orderHandler.Get)
	auth.POST("/orders/:orderID/cancel", s.orderHandler.Cancel)

	// -------- admin --------
	admin := api.Group("/admin", appmw.AuthMiddleware(s.jwtSecret), appmw.AdminOnly())
	admin.POST("/products", s.productHandler.Create)
	admin.PUT("/products/:productID", s.productHandler.Update)
	admin.DELETE("/products/:productID", s.productHandler.Delete)
	admin.POST("/products/:productID/variants", s.productHandler.AddVariant)
	admin.PUT("/variants/:variantID", s.productHandler.UpdateVariant)
	admin.DELETE("/variants/:variantID", s.productHandler.DeleteVariant)

	admin.POST("/categories", s.productHandler.CreateCategory)
	admin.DELETE("/categories/:categoryID", s.productHandler.DeleteCategory)

	admin.POST("/promos", s.promoHandler.Create)
	admin.GET("/promos", s.promoHandler.List)
	admin.PUT("/promos/:code", s.promoHandler.Update)
	admin.DELETE("/promos/:code", s.promoHandler.Deactivate)

	admin.PATCH("/orders/:orderID/status", s.orderHandler.UpdateStatus)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
