package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/anyschool/order-service/internal/domain/errors"
	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/server/http/dto"
	"github.com/anyschool/order-service/internal/server/http/middleware"
)

// CurrentActor extracts the authenticated actor from context.
func CurrentActor(c *gin.Context) model.Actor {
	val, ok := c.Get(middleware.ActorContextKey)
	if !ok {
		return model.Actor{}
	}
	actor, _ := val.(model.Actor)
	return actor
}

// PathID parses the named int64 path parameter, responding 404 on garbage.
func PathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, dto.OrderEnvelope{Success: false, Message: "not found"})
		return 0, false
	}
	return id, true
}

func toItemResponse(it model.LineItem) dto.ItemResponse {
	return dto.ItemResponse{
		ID:            it.ID,
		StationeryRef: it.StationeryRef,
		Description:   it.Description,
		Quantity:      it.Quantity,
		Price:         it.Price,
		Subtotal:      it.Subtotal,
	}
}

func toOrderResponse(order *model.Order) *dto.OrderResponse {
	if order == nil {
		return nil
	}
	resp := &dto.OrderResponse{
		ID:                  order.ID,
		OrderType:           string(order.OrderType),
		Status:              string(order.Status),
		TotalAmount:         order.TotalAmount,
		PaymentType:         string(order.PaymentType),
		PaymentComplete:     order.PaymentComplete,
		PaymentPlanMonths:   order.PaymentPlanMonths,
		MonthlyInstalment:   order.MonthlyInstalment,
		PaymentsReceived:    order.PaymentsReceived,
		IsMarkedFinal:       order.IsMarkedFinal,
		SchoolID:            order.SchoolID,
		RequestedSchoolName: order.RequestedSchoolName,
		StudentID:           order.StudentID,
		CreatedAt:           order.CreatedAt,
		UpdatedAt:           order.UpdatedAt,
	}
	for _, it := range order.Items {
		resp.Items = append(resp.Items, toItemResponse(it))
	}
	return resp
}

// RespondOrder writes the success envelope with the post-operation snapshot.
func RespondOrder(c *gin.Context, status int, order *model.Order) {
	c.JSON(status, dto.OrderEnvelope{Success: true, Order: toOrderResponse(order)})
}

// RespondError maps the domain error taxonomy onto HTTP statuses and the
// uniform failure envelope.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrInvalidState),
		errors.Is(err, domainErrors.ErrItemsFinal),
		errors.Is(err, domainErrors.ErrPlanExhausted),
		errors.Is(err, domainErrors.ErrNotPaymentPlan),
		errors.Is(err, domainErrors.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, domainErrors.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, domainErrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	c.JSON(status, dto.OrderEnvelope{Success: false, Message: message})
}
