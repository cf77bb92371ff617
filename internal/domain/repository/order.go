package repository

import (
	"context"

	"github.com/anyschool/order-service/internal/domain/model"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	UserID *int64
	Status *model.OrderStatus
}

// OrderRepository describes persistence operations with orders. Transition
// and the payment/item mutators enforce their current-state precondition
// atomically with the write (compare-and-swap or row lock), never
// read-then-write with a gap.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter) ([]model.Order, error)

	// Transition moves the order from exactly `from` to `to`, bumping
	// updated_at and appending a history row in the same transaction.
	// A stale `from` yields an InvalidStateError carrying the actual
	// current status.
	Transition(ctx context.Context, orderID int64, op string, from, to model.OrderStatus, reason string, actorID int64) (*model.Order, error)

	// RecordInstallment locks the order row, validates the plan bounds,
	// inserts the payment, increments the counter, and on the final
	// installment marks the payment complete and auto-approves a
	// PENDING order.
	RecordInstallment(ctx context.Context, orderID int64, reference string, actorID int64) (*model.Order, error)

	// RecordImmediatePayment stores the single payment of an IMMEDIATE
	// order and flips paymentComplete.
	RecordImmediatePayment(ctx context.Context, orderID int64, reference string, actorID int64) (*model.Order, error)

	// MarkFinal freezes line items; valid only while PENDING and not
	// already final.
	MarkFinal(ctx context.Context, orderID int64) (*model.Order, error)

	AddItem(ctx context.Context, orderID int64, item model.LineItem) (*model.Order, error)
	UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int) (*model.Order, error)
	RemoveItem(ctx context.Context, orderID, itemID int64) (*model.Order, error)

	History(ctx context.Context, orderID int64) ([]model.StatusChange, error)
	Payments(ctx context.Context, orderID int64) ([]model.Payment, error)
	Stats(ctx context.Context) (*model.OrderStats, error)

	// Delete is the administrative override outside the state machine.
	Delete(ctx context.Context, orderID int64) error
}
