package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/berth/internal/application/allocation/usecases"
	"github.com/orris-inc/berth/internal/shared/logger"
	"github.com/orris-inc/berth/internal/shared/utils"
)

type AllocationHandler struct {
	checkAvailabilityUC *usecases.CheckAvailabilityUseCase
	listLogsUC          *usecases.ListAllocationLogsUseCase
	retryPendingUC      *usecases.RetryPendingAllocationsUseCase
	expireUC            *usecases.ExpireSubscriptionsUseCase
	logger              logger.Interface
}

func NewAllocationHandler(
	checkAvailabilityUC *usecases.CheckAvailabilityUseCase,
	listLogsUC *usecases.ListAllocationLogsUseCase,
	retryPendingUC *usecases.RetryPendingAllocationsUseCase,
	expireUC *usecases.ExpireSubscriptionsUseCase,
) *AllocationHandler {
	return &AllocationHandler{
		checkAvailabilityUC: checkAvailabilityUC,
		listLogsUC:          listLogsUC,
		retryPendingUC:      retryPendingUC,
		expireUC:            expireUC,
		logger:              logger.NewLogger(),
	}
}

// CheckAvailability reports whether the pool can serve a new subscription.
// Public: the storefront calls this before offering checkout.
func (h *AllocationHandler) CheckAvailability(c *gin.Context) {
	result, err := h.checkAvailabilityUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"available":       result.Available,
		"available_count": result.AvailableCount,
	})
}

// ValidateCheckout gates the storefront checkout flow. Advisory only: the
// pool can drain between this call and the allocation.
func (h *AllocationHandler) ValidateCheckout(c *gin.Context) {
	result, err := h.checkAvailabilityUC.ValidateCheckout(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"can_proceed": result.CanProceed,
		"message":     result.Message,
	})
}

// ListAvailablePorts returns the current allocation candidates.
func (h *AllocationHandler) ListAvailablePorts(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 100 {
			utils.ErrorResponse(c, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	ports, err := h.checkAvailabilityUC.ListAvailable(c.Request.Context(), limit)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", ToPortResponses(ports))
}

// ListLogs reads the allocation audit trail.
func (h *AllocationHandler) ListLogs(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	result, err := h.listLogsUC.Execute(c.Request.Context(), usecases.ListAllocationLogsCommand{
		PortSID:         c.Query("port_id"),
		SubscriptionSID: c.Query("subscription_id"),
		Action:          c.Query("action"),
		Page:            pagination.Page,
		PageSize:        pagination.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, ToAllocationLogResponses(result.Entries), result.Total, pagination.Page, pagination.PageSize)
}

// RetryPending runs the pending allocation sweep on demand, typically after
// an operator adds new ports.
func (h *AllocationHandler) RetryPending(c *gin.Context) {
	result, err := h.retryPendingUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Pending allocation sweep finished", gin.H{
		"attempted": result.Attempted,
		"allocated": result.Allocated,
	})
}

// ExpireSubscriptions runs the expiry sweep on demand.
func (h *AllocationHandler) ExpireSubscriptions(c *gin.Context) {
	result, err := h.expireUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expiry sweep finished", gin.H{
		"expired":        result.Expired,
		"ports_released": result.PortsReleased,
	})
}
