package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/berth/internal/interfaces/http/handlers"
	"github.com/orris-inc/berth/internal/interfaces/http/middleware"
)

// AllocationRouteConfig holds dependencies for allocation routes.
type AllocationRouteConfig struct {
	AllocationHandler *handlers.AllocationHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// SetupAllocationRoutes configures availability and audit log routes. The
// availability check is public so the storefront can gate checkout; the rest
// is operator-only.
func SetupAllocationRoutes(engine *gin.Engine, cfg *AllocationRouteConfig) {
	engine.GET("/availability", cfg.AllocationHandler.CheckAvailability)
	engine.GET("/checkout/availability", cfg.AllocationHandler.ValidateCheckout)

	allocations := engine.Group("/allocations")
	allocations.Use(cfg.AuthMiddleware.RequireOperator())
	{
		allocations.GET("/logs", cfg.AllocationHandler.ListLogs)
		allocations.GET("/available-ports", cfg.AllocationHandler.ListAvailablePorts)
		allocations.POST("/retry-pending", cfg.AllocationHandler.RetryPending)
		allocations.POST("/expire-sweep", cfg.AllocationHandler.ExpireSubscriptions)
	}
}
