package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemRequest is a submitted line item.
type ItemRequest struct {
	StationeryRef string          `json:"stationeryRef" binding:"required"`
	Description   string          `json:"description,omitempty"`
	Quantity      int             `json:"quantity" binding:"required"`
	Price         decimal.Decimal `json:"price"`
}

// CreateOrderRequest opens a new order.
type CreateOrderRequest struct {
	OrderType           string        `json:"orderType" binding:"required"`
	PaymentType         string        `json:"paymentType" binding:"required"`
	PaymentPlanMonths   int           `json:"paymentPlanMonths,omitempty"`
	SchoolID            *int64        `json:"schoolId,omitempty"`
	RequestedSchoolName string        `json:"requestedSchoolName,omitempty"`
	StudentID           *int64        `json:"studentId,omitempty"`
	Items               []ItemRequest `json:"items" binding:"required"`
}

// ReasonRequest carries the mandatory reason of decline/return.
type ReasonRequest struct {
	Reason string `json:"reason"`
}

// StatusUpdateRequest is the purchaser-facing cancel/pay body.
type StatusUpdateRequest struct {
	Status           string `json:"status"`
	PaymentReference string `json:"paymentReference,omitempty"`
}

// QuantityRequest updates a line item's quantity.
type QuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// ItemResponse mirrors a stored line item.
type ItemResponse struct {
	ID            int64           `json:"id"`
	StationeryRef string          `json:"stationeryRef"`
	Description   string          `json:"description,omitempty"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the order snapshot returned by every write endpoint.
type OrderResponse struct {
	ID                  int64           `json:"id"`
	OrderType           string          `json:"orderType"`
	Status              string          `json:"status"`
	TotalAmount         decimal.Decimal `json:"totalAmount"`
	PaymentType         string          `json:"paymentType"`
	PaymentComplete     bool            `json:"paymentComplete"`
	PaymentPlanMonths   int             `json:"paymentPlanMonths,omitempty"`
	MonthlyInstalment   decimal.Decimal `json:"monthlyInstalment,omitempty"`
	PaymentsReceived    int             `json:"paymentsReceived,omitempty"`
	IsMarkedFinal       bool            `json:"isMarkedFinal"`
	SchoolID            *int64          `json:"schoolId,omitempty"`
	RequestedSchoolName string          `json:"requestedSchoolName,omitempty"`
	StudentID           *int64          `json:"studentId,omitempty"`
	Items               []ItemResponse  `json:"items,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// OrderEnvelope is the uniform write-endpoint response.
type OrderEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Order   *OrderResponse `json:"order,omitempty"`
}

// StatusChangeResponse is one history entry.
type StatusChangeResponse struct {
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Reason     string    `json:"reason,omitempty"`
	ActorID    int64     `json:"actorId"`
	ChangedAt  time.Time `json:"changedAt"`
}

// PaymentResponse is one recorded payment.
type PaymentResponse struct {
	Reference  string          `json:"reference"`
	Amount     decimal.Decimal `json:"amount"`
	RecordedAt time.Time       `json:"recordedAt"`
}

// OrderDetailsResponse is the full read projection of one order.
type OrderDetailsResponse struct {
	Order    OrderResponse          `json:"order"`
	History  []StatusChangeResponse `json:"history"`
	Payments []PaymentResponse      `json:"payments"`
}

// ActionsResponse lists the operations currently available to the caller.
type ActionsResponse struct {
	Actions []string `json:"actions"`
}

// StatsResponse is the purchasing dashboard projection.
type StatsResponse struct {
	TotalOrders     int64            `json:"totalOrders"`
	ByStatus        map[string]int64 `json:"byStatus"`
	OrderedAmount   decimal.Decimal  `json:"orderedAmount"`
	CollectedAmount decimal.Decimal  `json:"collectedAmount"`
}
