package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes the order lifecycle state.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusApproved       OrderStatus = "APPROVED"
	OrderStatusAcknowledged   OrderStatus = "ACKNOWLEDGED"
	OrderStatusInProcess      OrderStatus = "IN_PROCESS"
	OrderStatusFinalizing     OrderStatus = "FINALIZING"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusClosed         OrderStatus = "CLOSED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
	OrderStatusDeclined       OrderStatus = "DECLINED"
	OrderStatusReturned       OrderStatus = "RETURNED"
)

// OrderType distinguishes purchases from donations.
type OrderType string

const (
	OrderTypePurchase OrderType = "PURCHASE"
	OrderTypeDonation OrderType = "DONATION"
)

// PaymentType selects immediate settlement or a monthly plan.
type PaymentType string

const (
	PaymentTypeImmediate PaymentType = "IMMEDIATE"
	PaymentTypePlan      PaymentType = "PAYMENT_PLAN"
)

// Order is the central aggregate: a purchase or donation of stationery
// placed by a user, optionally for a school and student.
type Order struct {
	ID                  int64
	UserID              int64
	OrderType           OrderType
	Status              OrderStatus
	TotalAmount         decimal.Decimal
	PaymentType         PaymentType
	PaymentComplete     bool
	PaymentPlanMonths   int
	MonthlyInstalment   decimal.Decimal
	PaymentsReceived    int
	IsMarkedFinal       bool
	SchoolID            *int64
	RequestedSchoolName string
	StudentID           *int64
	Items               []LineItem
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// StatusChange is one entry of an order's transition history.
type StatusChange struct {
	ID         int64
	OrderID    int64
	FromStatus OrderStatus
	ToStatus   OrderStatus
	Reason     string
	ActorID    int64
	ChangedAt  time.Time
}
