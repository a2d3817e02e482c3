package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	allocusecases "github.com/orris-inc/berth/internal/application/allocation/usecases"
	"github.com/orris-inc/berth/internal/application/subscription/usecases"
	"github.com/orris-inc/berth/internal/interfaces/http/middleware"
	"github.com/orris-inc/berth/internal/shared/id"
	"github.com/orris-inc/berth/internal/shared/logger"
	"github.com/orris-inc/berth/internal/shared/utils"
)

type SubscriptionHandler struct {
	createSubscriptionUC *usecases.CreateSubscriptionUseCase
	getSubscriptionUC    *usecases.GetSubscriptionUseCase
	listSubscriptionsUC  *usecases.ListSubscriptionsUseCase
	cancelSubscriptionUC *usecases.CancelSubscriptionUseCase
	allocatePortUC       *allocusecases.AllocatePortUseCase
	logger               logger.Interface
}

func NewSubscriptionHandler(
	createSubscriptionUC *usecases.CreateSubscriptionUseCase,
	getSubscriptionUC *usecases.GetSubscriptionUseCase,
	listSubscriptionsUC *usecases.ListSubscriptionsUseCase,
	cancelSubscriptionUC *usecases.CancelSubscriptionUseCase,
	allocatePortUC *allocusecases.AllocatePortUseCase,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createSubscriptionUC: createSubscriptionUC,
		getSubscriptionUC:    getSubscriptionUC,
		listSubscriptionsUC:  listSubscriptionsUC,
		cancelSubscriptionUC: cancelSubscriptionUC,
		allocatePortUC:       allocatePortUC,
		logger:               logger.NewLogger(),
	}
}

type CreateSubscriptionRequest struct {
	CustomerID uint       `json:"customer_id" binding:"required"`
	PlanID     uint       `json:"plan_id" binding:"required"`
	StartDate  *time.Time `json:"start_date"`
	TermDays   int        `json:"term_days"`
	// Allocate triggers port allocation right after creation.
	Allocate bool `json:"allocate"`
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create subscription", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	cmd := usecases.CreateSubscriptionCommand{
		CustomerID: req.CustomerID,
		PlanID:     req.PlanID,
		TermDays:   req.TermDays,
	}
	if req.StartDate != nil {
		cmd.StartDate = *req.StartDate
	}

	sub, err := h.createSubscriptionUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if !req.Allocate {
		utils.CreatedResponse(c, ToSubscriptionResponse(sub), "Subscription created successfully")
		return
	}

	result, err := h.allocatePortUC.Execute(c.Request.Context(), allocusecases.AllocatePortCommand{
		SubscriptionID: sub.ID(),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"subscription": ToSubscriptionResponse(result.Subscription),
		"outcome":      result.Outcome.String(),
		"port":         ToPortResponse(result.Port),
	}, "Subscription created successfully")
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixSubscription, "subscription")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.getSubscriptionUC.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"subscription": ToSubscriptionResponse(result.Subscription),
		"port":         ToPortResponse(result.Port),
	})
}

func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	cmd := usecases.ListSubscriptionsCommand{
		Status:   c.Query("status"),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}
	if raw := c.Query("customer_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid customer_id")
			return
		}
		customerID := uint(parsed)
		cmd.CustomerID = &customerID
	}

	result, err := h.listSubscriptionsUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, ToSubscriptionResponses(result.Subscriptions), result.Total, pagination.Page, pagination.PageSize)
}

// AllocatePort runs port allocation for an existing subscription.
func (h *SubscriptionHandler) AllocatePort(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixSubscription, "subscription")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.allocatePortUC.Execute(c.Request.Context(), allocusecases.AllocatePortCommand{
		SubscriptionSID: sid,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{
		"outcome":      result.Outcome.String(),
		"subscription": ToSubscriptionResponse(result.Subscription),
		"port":         ToPortResponse(result.Port),
	})
}

func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixSubscription, "subscription")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	operatorID := middleware.OperatorID(c)
	sub, err := h.cancelSubscriptionUC.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		SubscriptionSID: sid,
		OperatorID:      &operatorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription cancelled", ToSubscriptionResponse(sub))
}
