package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyschool/order-service/internal/server/http/dto"
)

// SchoolHandler manages school and student endpoints.
type SchoolHandler struct {
	facade SchoolFacade
}

// NewSchoolHandler constructs SchoolHandler.
func NewSchoolHandler(facade SchoolFacade) *SchoolHandler {
	return &SchoolHandler{facade: facade}
}

// List handles GET /api/schools.
func (h *SchoolHandler) List(c *gin.Context) {
	schools, err := h.facade.Schools(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}

	resp := make([]dto.SchoolResponse, 0, len(schools))
	for _, s := range schools {
		resp = append(resp, dto.SchoolResponse{ID: s.ID, Name: s.Name, Approved: s.Approved, CreatedAt: s.CreatedAt})
	}
	c.JSON(http.StatusOK, resp)
}

// Request handles POST /api/schools.
func (h *SchoolHandler) Request(c *gin.Context) {
	var req dto.SchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OrderEnvelope{Success: false, Message: "malformed request body"})
		return
	}

	school, err := h.facade.RequestSchool(c.Request.Context(), req.Name)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SchoolResponse{ID: school.ID, Name: school.Name, Approved: school.Approved, CreatedAt: school.CreatedAt})
}

// AddStudent handles POST /api/schools/:id/students.
func (h *SchoolHandler) AddStudent(c *gin.Context) {
	schoolID, ok := PathID(c, "id")
	if !ok {
		return
	}

	var req dto.StudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.OrderEnvelope{Success: false, Message: "malformed request body"})
		return
	}

	student, err := h.facade.AddStudent(c.Request.Context(), schoolID, req.FullName, req.Grade)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.StudentResponse{ID: student.ID, SchoolID: student.SchoolID, FullName: student.FullName, Grade: student.Grade})
}
