package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/server/http/dto"
)

// PurchasingHandler manages the fulfilment team's endpoints.
type PurchasingHandler struct {
	facade PurchasingFacade
	stats  StatsSource
}

// NewPurchasingHandler constructs PurchasingHandler.
func NewPurchasingHandler(facade PurchasingFacade, stats StatsSource) *PurchasingHandler {
	return &PurchasingHandler{facade: facade, stats: stats}
}

type transitionFunc func(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)

func (h *PurchasingHandler) transition(c *gin.Context, fn transitionFunc) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}

	order, err := fn(c.Request.Context(), CurrentActor(c), orderID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOrder(c, http.StatusOK, order)
}

// Acknowledge handles POST /api/purchasing/orders/:id/acknowledge.
func (h *PurchasingHandler) Acknowledge(c *gin.Context) {
	h.transition(c, h.facade.AcknowledgeOrder)
}

// StartProcessing handles POST /api/purchasing/orders/:id/start-processing.
func (h *PurchasingHandler) StartProcessing(c *gin.Context) {
	h.transition(c, h.facade.StartProcessing)
}

// VerifyPayment handles POST /api/purchasing/orders/:id/verify-payment.
func (h *PurchasingHandler) VerifyPayment(c *gin.Context) {
	h.transition(c, h.facade.VerifyPayment)
}

// SendForDelivery handles POST /api/purchasing/orders/:id/send-for-delivery.
func (h *PurchasingHandler) SendForDelivery(c *gin.Context) {
	h.transition(c, h.facade.SendForDelivery)
}

// MarkDelivered handles POST /api/purchasing/orders/:id/mark-delivered.
func (h *PurchasingHandler) MarkDelivered(c *gin.Context) {
	h.transition(c, h.facade.MarkDelivered)
}

// Close handles POST /api/purchasing/orders/:id/close.
func (h *PurchasingHandler) Close(c *gin.Context) {
	h.transition(c, h.facade.CloseOrder)
}

// Return handles POST /api/purchasing/orders/:id/return.
func (h *PurchasingHandler) Return(c *gin.Context) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}

	var req dto.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OrderEnvelope{Success: false, Message: "malformed request body"})
		return
	}

	order, err := h.facade.ReturnOrder(c.Request.Context(), CurrentActor(c), orderID, req.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOrder(c, http.StatusOK, order)
}

// MarkPayment handles POST /api/purchasing/orders/:id/mark-payment.
func (h *PurchasingHandler) MarkPayment(c *gin.Context) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}

	var req dto.StatusUpdateRequest
	// The body is optional; an empty reference gets one generated.
	_ = c.ShouldBindJSON(&req)

	order, err := h.facade.RecordInstallment(c.Request.Context(), CurrentActor(c), orderID, req.PaymentReference)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOrder(c, http.StatusOK, order)
}

// Stats handles GET /api/purchasing/orders/stats. The cached snapshot is
// served when available; the first call before a refresh computes directly.
func (h *PurchasingHandler) Stats(c *gin.Context) {
	stats := h.stats.Latest()
	if stats == nil {
		var err error
		stats, err = h.facade.OrderStats(c.Request.Context())
		if err != nil {
			RespondError(c, err)
			return
		}
	}

	resp := dto.StatsResponse{
		TotalOrders:     stats.TotalOrders,
		ByStatus:        make(map[string]int64, len(stats.ByStatus)),
		OrderedAmount:   stats.OrderedAmount,
		CollectedAmount: stats.CollectedAmount,
	}
	for status, count := range stats.ByStatus {
		resp.ByStatus[string(status)] = count
	}
	c.JSON(http.StatusOK, resp)
}
