package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	allocusecases "github.com/orris-inc/berth/internal/application/allocation/usecases"
	"github.com/orris-inc/berth/internal/application/port/usecases"
	"github.com/orris-inc/berth/internal/interfaces/http/middleware"
	"github.com/orris-inc/berth/internal/shared/id"
	"github.com/orris-inc/berth/internal/shared/logger"
	"github.com/orris-inc/berth/internal/shared/utils"
)

type PortHandler struct {
	createPortUC  *usecases.CreatePortUseCase
	updatePortUC  *usecases.UpdatePortUseCase
	deletePortUC  *usecases.DeletePortUseCase
	getPortUC     *usecases.GetPortUseCase
	listPortsUC   *usecases.ListPortsUseCase
	reassignUC    *allocusecases.ReassignPortUseCase
	releaseUC     *allocusecases.ReleasePortUseCase
	logger        logger.Interface
}

func NewPortHandler(
	createPortUC *usecases.CreatePortUseCase,
	updatePortUC *usecases.UpdatePortUseCase,
	deletePortUC *usecases.DeletePortUseCase,
	getPortUC *usecases.GetPortUseCase,
	listPortsUC *usecases.ListPortsUseCase,
	reassignUC *allocusecases.ReassignPortUseCase,
	releaseUC *allocusecases.ReleasePortUseCase,
) *PortHandler {
	return &PortHandler{
		createPortUC: createPortUC,
		updatePortUC: updatePortUC,
		deletePortUC: deletePortUC,
		getPortUC:    getPortUC,
		listPortsUC:  listPortsUC,
		reassignUC:   reassignUC,
		releaseUC:    releaseUC,
		logger:       logger.NewLogger(),
	}
}

type CreatePortRequest struct {
	InstanceURL string `json:"instance_url" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Region      string `json:"region"`
}

type UpdatePortRequest struct {
	Name        *string `json:"name"`
	Region      *string `json:"region"`
	InstanceURL *string `json:"instance_url"`
	Status      *string `json:"status" binding:"omitempty,oneof=available reserved disabled"`
}

type ReassignPortRequest struct {
	SubscriptionID string `json:"subscription_id" binding:"required"`
}

type ReleasePortRequest struct {
	Reason string `json:"reason"`
}

func (h *PortHandler) CreatePort(c *gin.Context) {
	var req CreatePortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create port", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	p, err := h.createPortUC.Execute(c.Request.Context(), usecases.CreatePortCommand{
		InstanceURL: req.InstanceURL,
		Name:        req.Name,
		Region:      req.Region,
		OperatorID:  middleware.OperatorID(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, ToPortResponse(p), "Port created successfully")
}

func (h *PortHandler) GetPort(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixPort, "port")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	p, err := h.getPortUC.Execute(c.Request.Context(), sid)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", ToPortResponse(p))
}

func (h *PortHandler) ListPorts(c *gin.Context) {
	pagination := utils.ParsePagination(c)

	result, err := h.listPortsUC.Execute(c.Request.Context(), usecases.ListPortsCommand{
		Status:   c.Query("status"),
		Region:   c.Query("region"),
		Search:   c.Query("search"),
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, ToPortResponses(result.Ports), result.Total, pagination.Page, pagination.PageSize)
}

func (h *PortHandler) UpdatePort(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixPort, "port")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdatePortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update port", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	p, err := h.updatePortUC.Execute(c.Request.Context(), usecases.UpdatePortCommand{
		PortSID:     sid,
		Name:        req.Name,
		Region:      req.Region,
		InstanceURL: req.InstanceURL,
		Status:      req.Status,
		OperatorID:  middleware.OperatorID(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Port updated successfully", ToPortResponse(p))
}

func (h *PortHandler) DeletePort(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixPort, "port")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.deletePortUC.Execute(c.Request.Context(), usecases.DeletePortCommand{
		PortSID:    sid,
		OperatorID: middleware.OperatorID(c),
	}); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// ReassignPort moves a port to a different subscription.
func (h *PortHandler) ReassignPort(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixPort, "port")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ReassignPortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for reassign port", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.reassignUC.Execute(c.Request.Context(), allocusecases.ReassignPortCommand{
		PortSID:            sid,
		NewSubscriptionSID: req.SubscriptionID,
		OperatorID:         middleware.OperatorID(c),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Port reassigned successfully", gin.H{
		"outcome": result.Outcome.String(),
		"port":    ToPortResponse(result.Port),
	})
}

// ReleasePort clears a port's assignment and returns it to the pool.
func (h *PortHandler) ReleasePort(c *gin.Context) {
	sid, err := utils.ParseSIDParam(c, "id", id.PrefixPort, "port")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ReleasePortRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.logger.Warnw("invalid request body for release port", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	operatorID := middleware.OperatorID(c)
	result, err := h.releaseUC.Execute(c.Request.Context(), allocusecases.ReleasePortCommand{
		PortSID:    sid,
		OperatorID: &operatorID,
		Reason:     req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Port released", gin.H{
		"outcome": result.Outcome.String(),
		"port":    ToPortResponse(result.Port),
	})
}
