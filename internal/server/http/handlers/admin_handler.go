package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyschool/order-service/internal/server/http/dto"
)

// AdminHandler manages super-admin endpoints.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Approve handles POST /api/admin/orders/:id/approve.
func (h *AdminHandler) Approve(c *gin.Context) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}

	order, err := h.facade.ApproveOrder(c.Request.Context(), CurrentActor(c), orderID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOrder(c, http.StatusOK, order)
}

// Decline handles POST /api/admin/orders/:id/decline.
func (h *AdminHandler) Decline(c *gin.Context) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}

	var req dto.ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OrderEnvelope{Success: false, Message: "malformed request body"})
		return
	}

	order, err := h.facade.DeclineOrder(c.Request.Context(), CurrentActor(c), orderID, req.Reason)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOrder(c, http.StatusOK, order)
}

// Delete handles DELETE /api/admin/orders/:id — the administrative override
// outside the state machine.
func (h *AdminHandler) Delete(c *gin.Context) {
	orderID, ok := PathID(c, "id")
	if !ok {
		return
	}

	if err := h.facade.DeleteOrder(c.Request.Context(), CurrentActor(c), orderID); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OrderEnvelope{Success: true})
}

// ApproveSchool handles POST /api/admin/schools/:id/approve.
func (h *AdminHandler) ApproveSchool(c *gin.Context) {
	schoolID, ok := PathID(c, "id")
	if !ok {
		return
	}

	school, err := h.facade.ApproveSchool(c.Request.Context(), CurrentActor(c), schoolID)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SchoolResponse{ID: school.ID, Name: school.Name, Approved: school.Approved, CreatedAt: school.CreatedAt})
}
