package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/server/http/dto"
	"github.com/anyschool/order-service/internal/usecase"
)

// OrderHandler manages purchaser/donor-facing order endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OrderEnvelope{Success: false, Message: "malformed request body"})
		return
	}

	items := make([]usecase.NewItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usecase.NewItem{
			StationeryRef: it.StationeryRef,
			Description:   it.Description,
			Quantity:      it.Quantity,
			Price:         it.Price,
		})
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), CurrentActor(c), usecase.CreateOrderInput{
		OrderType:           model.OrderType(req.OrderType),
		PaymentType:         model.PaymentType(req.PaymentType),
		PaymentPlanMonths:   req.PaymentPlanMonths,
		SchoolID:            req.SchoolID,
		RequestedSchoolName: req.RequestedSchoolName,
		StudentID:           req.StudentID,
		Items:               items,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOrder(c, http.StatusCreated, order)
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	var status *model.OrderStatus
	if s := c.Query("status"); s != "" {
		st := model.OrderStatus(s)
		status = &st
	}

	orders, err := h.facade.Orders(c.Request.Context(), CurrentActor(c), status)
	if err != nil {
		RespondError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, *toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}

	details, err := h.facade.Order(c.Request.Context(), CurrentActor(c), orderID)
	if err != nil {
		RespondError(c, err)
		return
	}

	resp := dto.OrderDetailsResponse{
		Order:    *toOrderResponse(details.Order),
		History:  make([]dto.StatusChangeResponse, 0, len(details.History)),
		Payments: make([]dto.PaymentResponse, 0, len(details.Payments)),
	}
	for _, sc := range details.History {
		resp.History = append(resp.History, dto.StatusChangeResponse{
			FromStatus: string(sc.FromStatus),
			ToStatus:   string(sc.ToStatus),
			Reason:     sc.Reason,
			ActorID:    sc.ActorID,
			ChangedAt:  sc.ChangedAt,
		})
	}
	for _, p := range details.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			Reference:  p.Reference,
			Amount:     p.Amount,
			RecordedAt: p.RecordedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Actions handles GET /api/orders/:id/actions.
func (h *OrderHandler) Actions(c *gin.Context) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}

	ops, err := h.facade.OrderActions(c.Request.Context(), CurrentActor(c), orderID)
	if err != nil {
		RespondError(c, err)
		return
	}

	actions := make([]string, 0, len(ops))
	for _, op := range ops {
		actions = append(actions, string(op))
	}
	c.JSON(http.StatusOK, dto.ActionsResponse{Actions: actions})
}

// UpdateStatus handles PUT /api/orders/:id/status — the purchaser-facing
// cancel/pay endpoint. A CANCELLED status cancels; anything else with a
// payment reference confirms the immediate payment.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}

	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OrderEnvelope{Success: false, Message: "malformed request body"})
		return
	}

	actor := CurrentActor(c)
	var (
		order *model.Order
		err   error
	)
	switch {
	case model.OrderStatus(req.Status) == model.OrderStatusCancelled:
		order, err = h.facade.CancelOrder(c.Request.Context(), actor, orderID)
	case req.PaymentReference != "":
		order, err = h.facade.ConfirmImmediatePayment(c.Request.Context(), actor, orderID, req.PaymentReference)
	default:
		c.JSON(http.StatusUnprocessableEntity, dto.OrderEnvelope{Success: false, Message: "status update requires CANCELLED or a payment reference"})
		return
	}
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOrder(c, http.StatusOK, order)
}

// MarkFinal handles POST /api/orders/:id/final.
func (h *OrderHandler) MarkFinal(c *gin.Context) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}

	order, err := h.facade.MarkItemsFinal(c.Request.Context(), CurrentActor(c), orderID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOrder(c, http.StatusOK, order)
}

// AddItem handles POST /api/orders/:id/items.
func (h *OrderHandler) AddItem(c *gin.Context) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}

	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OrderEnvelope{Success: false, Message: "malformed request body"})
		return
	}

	order, err := h.facade.AddItem(c.Request.Context(), CurrentActor(c), orderID, usecase.NewItem{
		StationeryRef: req.StationeryRef,
		Description:   req.Description,
		Quantity:      req.Quantity,
		Price:         req.Price,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOrder(c, http.StatusOK, order)
}

// UpdateItem handles PUT /api/orders/:id/items/:itemID.
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := PathID(c, "itemID")
	if !ok {
		return
	}

	var req dto.QuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OrderEnvelope{Success: false, Message: "malformed request body"})
		return
	}

	order, err := h.facade.UpdateItemQuantity(c.Request.Context(), CurrentActor(c), orderID, itemID, req.Quantity)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOrder(c, http.StatusOK, order)
}

// RemoveItem handles DELETE /api/orders/:id/items/:itemID.
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := PathID(c, "itemID")
	if !ok {
		return
	}

	order, err := h.facade.RemoveItem(c.Request.Context(), CurrentActor(c), orderID, itemID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOrder(c, http.StatusOK, order)
}
