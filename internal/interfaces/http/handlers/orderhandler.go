package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/berth/internal/application/order/usecases"
	"github.com/orris-inc/berth/internal/domain/order"
	"github.com/orris-inc/berth/internal/shared/id"
	"github.com/orris-inc/berth/internal/shared/logger"
	"github.com/orris-inc/berth/internal/shared/utils"
)

type OrderHandler struct {
	createOrderUC          *usecases.CreateOrderUseCase
	handlePaymentSuccessUC *usecases.HandlePaymentSuccessUseCase
	logger                 logger.Interface
}

func NewOrderHandler(
	createOrderUC *usecases.CreateOrderUseCase,
	handlePaymentSuccessUC *usecases.HandlePaymentSuccessUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrderUC:          createOrderUC,
		handlePaymentSuccessUC: handlePaymentSuccessUC,
		logger:                 logger.NewLogger(),
	}
}

type CreateOrderRequest struct {
	CustomerID     uint   `json:"customer_id" binding:"required"`
	PlanID         uint   `json:"plan_id" binding:"required"`
	AmountCents    int64  `json:"amount_cents" binding:"required,min=0"`
	Currency       string `json:"currency" binding:"required,len=3"`
	AllowBackorder bool   `json:"allow_backorder"`
}

type OrderResponse struct {
	ID          string    `json:"id"`
	CustomerID  uint      `json:"customer_id"`
	PlanID      uint      `json:"plan_id"`
	Status      string    `json:"status"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

func toOrderResponse(o *order.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	return &OrderResponse{
		ID:          o.SID(),
		CustomerID:  o.CustomerID(),
		PlanID:      o.PlanID(),
		Status:      o.Status().String(),
		AmountCents: o.AmountCents(),
		Currency:    o.Currency(),
		CreatedAt:   o.CreatedAt(),
	}
}

// CreateOrder starts a checkout. Rejected with a conflict when the pool is
// empty unless the buyer accepts a backorder.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create order", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	o, err := h.createOrderUC.Execute(c.Request.Context(), usecases.CreateOrderCommand{
		CustomerID:     req.CustomerID,
		PlanID:         req.PlanID,
		AmountCents:    req.AmountCents,
		Currency:       req.Currency,
		AllowBackorder: req.AllowBackorder,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toOrderResponse(o), "Order created successfully")
}

type PaymentWebhookRequest struct {
	OrderID  string `json:"order_id" binding:"required"`
	Event    string `json:"event" binding:"required"`
	TermDays int    `json:"term_days"`
}

// HandlePaymentWebhook processes payment provider callbacks. Providers
// redeliver events, so the handler must stay idempotent end to end.
func (h *OrderHandler) HandlePaymentWebhook(c *gin.Context) {
	var req PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid payment webhook payload", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := id.ValidatePrefix(req.OrderID, id.PrefixOrder); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid order ID format")
		return
	}

	if req.Event != "payment.succeeded" {
		// Other events are acknowledged and dropped.
		utils.SuccessResponse(c, http.StatusOK, "Event ignored", nil)
		return
	}

	result, err := h.handlePaymentSuccessUC.Execute(c.Request.Context(), usecases.HandlePaymentSuccessCommand{
		OrderSID: req.OrderID,
		TermDays: req.TermDays,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Payment processed", gin.H{
		"order":        toOrderResponse(result.Order),
		"subscription": ToSubscriptionResponse(result.Subscription),
		"outcome":      result.Outcome.String(),
	})
}
