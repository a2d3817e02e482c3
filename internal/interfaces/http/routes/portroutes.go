package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/berth/internal/interfaces/http/handlers"
	"github.com/orris-inc/berth/internal/interfaces/http/middleware"
)

// PortRouteConfig holds dependencies for port routes.
type PortRouteConfig struct {
	PortHandler    *handlers.PortHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupPortRoutes configures port pool management routes. All of them are
// operator-only.
func SetupPortRoutes(engine *gin.Engine, cfg *PortRouteConfig) {
	ports := engine.Group("/ports")
	ports.Use(cfg.AuthMiddleware.RequireOperator())
	{
		ports.POST("", cfg.PortHandler.CreatePort)
		ports.GET("", cfg.PortHandler.ListPorts)
		ports.GET("/:id", cfg.PortHandler.GetPort)
		ports.PUT("/:id", cfg.PortHandler.UpdatePort)
		ports.DELETE("/:id", cfg.PortHandler.DeletePort)

		ports.POST("/:id/reassign", cfg.PortHandler.ReassignPort)
		ports.POST("/:id/release", cfg.PortHandler.ReleasePort)
	}
}
