package http

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	allocusecases "github.com/orris-inc/berth/internal/application/allocation/usecases"
	orderusecases "github.com/orris-inc/berth/internal/application/order/usecases"
	portusecases "github.com/orris-inc/berth/internal/application/port/usecases"
	subusecases "github.com/orris-inc/berth/internal/application/subscription/usecases"
	"github.com/orris-inc/berth/internal/infrastructure/auth"
	"github.com/orris-inc/berth/internal/infrastructure/config"
	"github.com/orris-inc/berth/internal/infrastructure/notification"
	"github.com/orris-inc/berth/internal/infrastructure/repository"
	"github.com/orris-inc/berth/internal/infrastructure/scheduler"
	"github.com/orris-inc/berth/internal/interfaces/http/handlers"
	"github.com/orris-inc/berth/internal/interfaces/http/middleware"
	"github.com/orris-inc/berth/internal/interfaces/http/routes"
	"github.com/orris-inc/berth/internal/shared/db"
	"github.com/orris-inc/berth/internal/shared/logger"
)

// Router wires repositories, use cases and handlers into a gin engine.
type Router struct {
	engine    *gin.Engine
	scheduler *scheduler.Manager
}

// NewRouter builds the full HTTP surface from the database handle and
// configuration.
func NewRouter(database *gorm.DB, cfg *config.Config) *Router {
	log := logger.NewLogger()
	txMgr := db.NewTransactionManager(database)

	// Repositories
	portRepo := repository.NewPortRepository(database, log)
	subscriptionRepo := repository.NewSubscriptionRepository(database, log)
	logRepo := repository.NewAllocationLogRepository(database, log)
	orderRepo := repository.NewOrderRepository(database, log)

	// Allocation engine
	allocateUC := allocusecases.NewAllocatePortUseCase(portRepo, subscriptionRepo, logRepo, txMgr, log)
	if cfg.Notify.Enabled {
		notifier := notification.NewEmailOperatorNotifier(cfg.Email, cfg.Notify, log)
		allocateUC.SetOperatorNotifier(notifier)
	}
	reassignUC := allocusecases.NewReassignPortUseCase(portRepo, subscriptionRepo, logRepo, txMgr, log)
	releaseUC := allocusecases.NewReleasePortUseCase(portRepo, subscriptionRepo, logRepo, txMgr, log)
	checkAvailabilityUC := allocusecases.NewCheckAvailabilityUseCase(portRepo, log)
	listLogsUC := allocusecases.NewListAllocationLogsUseCase(logRepo, portRepo, subscriptionRepo, log)
	retryPendingUC := allocusecases.NewRetryPendingAllocationsUseCase(subscriptionRepo, allocateUC, log)
	expireUC := allocusecases.NewExpireSubscriptionsUseCase(subscriptionRepo, releaseUC, log)

	// Port pool management
	createPortUC := portusecases.NewCreatePortUseCase(portRepo, logRepo, txMgr, log)
	updatePortUC := portusecases.NewUpdatePortUseCase(portRepo, log)
	deletePortUC := portusecases.NewDeletePortUseCase(portRepo, log)
	getPortUC := portusecases.NewGetPortUseCase(portRepo, log)
	listPortsUC := portusecases.NewListPortsUseCase(portRepo, log)

	// Subscriptions and orders
	createSubscriptionUC := subusecases.NewCreateSubscriptionUseCase(subscriptionRepo, log)
	getSubscriptionUC := subusecases.NewGetSubscriptionUseCase(subscriptionRepo, portRepo, log)
	listSubscriptionsUC := subusecases.NewListSubscriptionsUseCase(subscriptionRepo, log)
	cancelSubscriptionUC := subusecases.NewCancelSubscriptionUseCase(subscriptionRepo, releaseUC, log)
	createOrderUC := orderusecases.NewCreateOrderUseCase(orderRepo, checkAvailabilityUC, log)
	handlePaymentSuccessUC := orderusecases.NewHandlePaymentSuccessUseCase(orderRepo, subscriptionRepo, createSubscriptionUC, allocateUC, log)

	// Handlers
	portHandler := handlers.NewPortHandler(createPortUC, updatePortUC, deletePortUC, getPortUC, listPortsUC, reassignUC, releaseUC)
	allocationHandler := handlers.NewAllocationHandler(checkAvailabilityUC, listLogsUC, retryPendingUC, expireUC)
	subscriptionHandler := handlers.NewSubscriptionHandler(createSubscriptionUC, getSubscriptionUC, listSubscriptionsUC, cancelSubscriptionUC, allocateUC)
	orderHandler := handlers.NewOrderHandler(createOrderUC, handlePaymentSuccessUC)

	// Background sweeps (gocron v2)
	schedulerManager, err := scheduler.NewManager(log)
	if err != nil {
		log.Fatalw("failed to create scheduler manager", "error", err)
	}
	if err := schedulerManager.RegisterAllocationJobs(scheduler.NewRetryPendingJob(retryPendingUC), cfg.Scheduler.RetryPendingInterval); err != nil {
		log.Warnw("failed to register allocation jobs", "error", err)
	}
	if err := schedulerManager.RegisterSubscriptionJobs(scheduler.NewExpireSubscriptionsJob(expireUC)); err != nil {
		log.Warnw("failed to register subscription jobs", "error", err)
	}

	jwtService := auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.AccessExpMinutes)
	authMiddleware := middleware.NewAuthMiddleware(jwtService, log)

	gin.SetMode(ginMode(cfg.Server.Mode))
	engine := gin.New()
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(log))
	engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	routes.SetupPortRoutes(engine, &routes.PortRouteConfig{
		PortHandler:    portHandler,
		AuthMiddleware: authMiddleware,
	})
	routes.SetupAllocationRoutes(engine, &routes.AllocationRouteConfig{
		AllocationHandler: allocationHandler,
		AuthMiddleware:    authMiddleware,
	})
	routes.SetupSubscriptionRoutes(engine, &routes.SubscriptionRouteConfig{
		SubscriptionHandler: subscriptionHandler,
		AuthMiddleware:      authMiddleware,
	})
	routes.SetupOrderRoutes(engine, &routes.OrderRouteConfig{
		OrderHandler:   orderHandler,
		AuthMiddleware: authMiddleware,
	})

	return &Router{engine: engine, scheduler: schedulerManager}
}

// Engine exposes the underlying gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Scheduler exposes the background job manager so the server command can
// control its lifecycle.
func (r *Router) Scheduler() *scheduler.Manager {
	return r.scheduler
}

func ginMode(serverMode string) string {
	switch serverMode {
	case "release", "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
