package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/berth/internal/interfaces/http/handlers"
	"github.com/orris-inc/berth/internal/interfaces/http/middleware"
)

// OrderRouteConfig holds dependencies for order routes.
type OrderRouteConfig struct {
	OrderHandler   *handlers.OrderHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupOrderRoutes configures checkout and payment webhook routes. The
// webhook endpoint carries no operator token; the payment provider
// authenticates with its own credentials at the gateway.
func SetupOrderRoutes(engine *gin.Engine, cfg *OrderRouteConfig) {
	orders := engine.Group("/orders")
	orders.Use(cfg.AuthMiddleware.RequireOperator())
	{
		orders.POST("", cfg.OrderHandler.CreateOrder)
	}

	engine.POST("/webhooks/payment", cfg.OrderHandler.HandlePaymentWebhook)
}
