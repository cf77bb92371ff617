package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/anyschool/order-service/internal/domain/errors"
	"github.com/anyschool/order-service/internal/domain/lifecycle"
	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/domain/repository"
)

// NewItem is a line item submitted at order creation or added later.
type NewItem struct {
	StationeryRef string
	Description   string
	Quantity      int
	Price         decimal.Decimal
}

// CreateOrderInput collects everything needed to open an order in PENDING.
type CreateOrderInput struct {
	OrderType           model.OrderType
	PaymentType         model.PaymentType
	PaymentPlanMonths   int
	SchoolID            *int64
	RequestedSchoolName string
	StudentID           *int64
	Items               []NewItem
}

// OrderDetails is the full read projection of one order.
type OrderDetails struct {
	Order    *model.Order
	History  []model.StatusChange
	Payments []model.Payment
}

// OrderUseCase is the order lifecycle manager: it owns creation, item
// mutation, every status transition, and the read projections.
type OrderUseCase struct {
	orders  repository.OrderRepository
	schools repository.SchoolRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, schools repository.SchoolRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, schools: schools}
}

func validateItem(item NewItem) error {
	if item.StationeryRef == "" {
		return domainErrors.NewValidation("stationeryRef", "must not be empty")
	}
	if item.Quantity <= 0 {
		return domainErrors.NewValidation("quantity", "must be a positive integer")
	}
	if item.Price.IsNegative() {
		return domainErrors.NewValidation("price", "must not be negative")
	}
	return nil
}

// Create opens a new order in PENDING. Totals and the installment schedule
// are derived from the submitted items.
func (u *OrderUseCase) Create(ctx context.Context, actor model.Actor, input CreateOrderInput) (*model.Order, error) {
	if input.OrderType != model.OrderTypePurchase && input.OrderType != model.OrderTypeDonation {
		return nil, domainErrors.NewValidation("orderType", "must be PURCHASE or DONATION")
	}
	if input.PaymentType != model.PaymentTypeImmediate && input.PaymentType != model.PaymentTypePlan {
		return nil, domainErrors.NewValidation("paymentType", "must be IMMEDIATE or PAYMENT_PLAN")
	}
	if input.PaymentType == model.PaymentTypePlan && input.PaymentPlanMonths < 1 {
		return nil, domainErrors.NewValidation("paymentPlanMonths", "must be at least 1")
	}
	if input.PaymentType == model.PaymentTypeImmediate && input.PaymentPlanMonths != 0 {
		return nil, domainErrors.NewValidation("paymentPlanMonths", "only valid for payment plans")
	}
	if len(input.Items) == 0 {
		return nil, domainErrors.NewValidation("items", "order requires at least one item")
	}
	if input.OrderType == model.OrderTypeDonation && input.SchoolID == nil && input.RequestedSchoolName == "" {
		return nil, domainErrors.NewValidation("school", "donation requires a school or a requested school name")
	}
	if input.StudentID != nil && input.OrderType != model.OrderTypePurchase {
		return nil, domainErrors.NewValidation("studentID", "only purchase orders name a learner")
	}

	if input.SchoolID != nil {
		school, err := u.schools.GetByID(ctx, *input.SchoolID)
		if err != nil {
			return nil, err
		}
		if !school.Approved {
			return nil, domainErrors.NewValidation("schoolID", "school is not approved yet")
		}
	}
	if input.StudentID != nil {
		student, err := u.schools.GetStudent(ctx, *input.StudentID)
		if err != nil {
			return nil, err
		}
		if input.SchoolID != nil && student.SchoolID != *input.SchoolID {
			return nil, domainErrors.NewValidation("studentID", "student does not attend the given school")
		}
	}

	items := make([]model.LineItem, 0, len(input.Items))
	total := decimal.Zero
	for _, in := range input.Items {
		if err := validateItem(in); err != nil {
			return nil, err
		}
		subtotal := in.Price.Mul(decimal.NewFromInt(int64(in.Quantity)))
		items = append(items, model.LineItem{
			StationeryRef: in.StationeryRef,
			Description:   in.Description,
			Quantity:      in.Quantity,
			Price:         in.Price,
			Subtotal:      subtotal,
		})
		total = total.Add(subtotal)
	}

	order := &model.Order{
		UserID:              actor.UserID,
		OrderType:           input.OrderType,
		Status:              model.OrderStatusPending,
		TotalAmount:         total,
		PaymentType:         input.PaymentType,
		PaymentPlanMonths:   input.PaymentPlanMonths,
		SchoolID:            input.SchoolID,
		RequestedSchoolName: input.RequestedSchoolName,
		StudentID:           input.StudentID,
		Items:               items,
	}
	if input.PaymentType == model.PaymentTypePlan {
		order.MonthlyInstalment, _ = model.InstallmentSchedule(total, input.PaymentPlanMonths)
	}

	return u.orders.Create(ctx, order)
}

// Transition drives a status-changing operation through the lifecycle table:
// reason and actor guards first, then the compare-and-swap in storage so a
// racing caller cannot commit against a stale precondition.
func (u *OrderUseCase) Transition(ctx context.Context, actor model.Actor, orderID int64, op lifecycle.Operation, reason string) (*model.Order, error) {
	if !lifecycle.Known(op) {
		return nil, domainErrors.NewValidation("operation", "unknown operation")
	}
	if lifecycle.NeedsReason(op) && reason == "" {
		return nil, domainErrors.NewValidation("reason", "must not be empty")
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CheckActor(op, actor.Role, order.UserID == actor.UserID); err != nil {
		return nil, err
	}
	if err := lifecycle.CheckStatus(op, order.Status); err != nil {
		return nil, err
	}

	target := lifecycle.Target(op, order.Status)
	return u.orders.Transition(ctx, orderID, string(op), order.Status, target, reason, actor.UserID)
}

// Approve moves PENDING or ACKNOWLEDGED orders to APPROVED.
func (u *OrderUseCase) Approve(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return u.Transition(ctx, actor, orderID, lifecycle.OpApprove, "")
}

// Decline terminally rejects an order; the reason is mandatory.
func (u *OrderUseCase) Decline(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Order, error) {
	return u.Transition(ctx, actor, orderID, lifecycle.OpDecline, reason)
}

// Acknowledge confirms the purchasing team has picked up an approved order.
func (u *OrderUseCase) Acknowledge(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return u.Transition(ctx, actor, orderID, lifecycle.OpAcknowledge, "")
}

// StartProcessing moves an acknowledged order into fulfilment.
func (u *OrderUseCase) StartProcessing(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return u.Transition(ctx, actor, orderID, lifecycle.OpStartProcessing, "")
}

// VerifyPayment confirms payment bookkeeping and moves to FINALIZING.
func (u *OrderUseCase) VerifyPayment(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return u.Transition(ctx, actor, orderID, lifecycle.OpVerifyPayment, "")
}

// SendForDelivery dispatches a finalized order.
func (u *OrderUseCase) SendForDelivery(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return u.Transition(ctx, actor, orderID, lifecycle.OpSendForDelivery, "")
}

// MarkDelivered records delivery confirmation.
func (u *OrderUseCase) MarkDelivered(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return u.Transition(ctx, actor, orderID, lifecycle.OpMarkDelivered, "")
}

// Close terminally completes a delivered order.
func (u *OrderUseCase) Close(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return u.Transition(ctx, actor, orderID, lifecycle.OpClose, "")
}

// Cancel lets the order owner abandon a PENDING order.
func (u *OrderUseCase) Cancel(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return u.Transition(ctx, actor, orderID, lifecycle.OpCancel, "")
}

// ReturnToSender terminally rejects a PENDING order whose payment failed
// verification; the reason is mandatory.
func (u *OrderUseCase) ReturnToSender(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Order, error) {
	return u.Transition(ctx, actor, orderID, lifecycle.OpReturn, reason)
}

// RecordInstallment books one received payment-plan installment. The final
// installment flips paymentComplete and auto-approves a PENDING order.
func (u *OrderUseCase) RecordInstallment(ctx context.Context, actor model.Actor, orderID int64, reference string) (*model.Order, error) {
	if err := lifecycle.CheckActor(lifecycle.OpRecordInstallment, actor.Role, false); err != nil {
		return nil, err
	}
	if reference == "" {
		reference = uuid.NewString()
	}
	return u.orders.RecordInstallment(ctx, orderID, reference, actor.UserID)
}

// ConfirmImmediatePayment records the single payment of an IMMEDIATE order.
// Only the order owner may confirm.
func (u *OrderUseCase) ConfirmImmediatePayment(ctx context.Context, actor model.Actor, orderID int64, reference string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID {
		return nil, domainErrors.ErrUnauthorized
	}
	if reference == "" {
		reference = uuid.NewString()
	}
	return u.orders.RecordImmediatePayment(ctx, orderID, reference, actor.UserID)
}

// MarkItemsFinal freezes an order's line items against further edits.
func (u *OrderUseCase) MarkItemsFinal(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.CheckActor(lifecycle.OpMarkFinal, actor.Role, order.UserID == actor.UserID); err != nil {
		return nil, err
	}
	return u.orders.MarkFinal(ctx, orderID)
}

// canRead reports whether the actor may see the order.
func canRead(order *model.Order, actor model.Actor) bool {
	return actor.Staff() || order.UserID == actor.UserID
}

// Get returns the full order projection: items, payments, history.
func (u *OrderUseCase) Get(ctx context.Context, actor model.Actor, orderID int64) (*OrderDetails, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canRead(order, actor) {
		return nil, domainErrors.ErrUnauthorized
	}

	history, err := u.orders.History(ctx, orderID)
	if err != nil {
		return nil, err
	}
	payments, err := u.orders.Payments(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &OrderDetails{Order: order, History: history, Payments: payments}, nil
}

// List returns orders visible to the actor, optionally filtered by status.
// Non-staff callers only ever see their own orders.
func (u *OrderUseCase) List(ctx context.Context, actor model.Actor, status *model.OrderStatus) ([]model.Order, error) {
	if status != nil && !lifecycle.ValidStatus(*status) {
		return nil, domainErrors.NewValidation("status", "unknown status")
	}
	filter := repository.OrderFilter{Status: status}
	if !actor.Staff() {
		filter.UserID = &actor.UserID
	}
	return u.orders.List(ctx, filter)
}

// AvailableActions projects the operations the actor could invoke right now,
// letting clients disable unavailable actions without re-deriving the rules.
func (u *OrderUseCase) AvailableActions(ctx context.Context, actor model.Actor, orderID int64) ([]lifecycle.Operation, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canRead(order, actor) {
		return nil, domainErrors.ErrUnauthorized
	}
	return lifecycle.Available(order, actor.Role, order.UserID == actor.UserID), nil
}

// Stats aggregates the purchasing dashboard numbers.
func (u *OrderUseCase) Stats(ctx context.Context) (*model.OrderStats, error) {
	return u.orders.Stats(ctx)
}

// AddItem appends a line item while the order is PENDING and not final.
func (u *OrderUseCase) AddItem(ctx context.Context, actor model.Actor, orderID int64, item NewItem) (*model.Order, error) {
	if err := validateItem(item); err != nil {
		return nil, err
	}
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID {
		return nil, domainErrors.ErrUnauthorized
	}
	return u.orders.AddItem(ctx, orderID, model.LineItem{
		StationeryRef: item.StationeryRef,
		Description:   item.Description,
		Quantity:      item.Quantity,
		Price:         item.Price,
	})
}

// UpdateItemQuantity changes a line item's quantity, recomputing totals.
func (u *OrderUseCase) UpdateItemQuantity(ctx context.Context, actor model.Actor, orderID, itemID int64, quantity int) (*model.Order, error) {
	if quantity <= 0 {
		return nil, domainErrors.NewValidation("quantity", "must be a positive integer")
	}
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID {
		return nil, domainErrors.ErrUnauthorized
	}
	return u.orders.UpdateItemQuantity(ctx, orderID, itemID, quantity)
}

// RemoveItem deletes a line item, recomputing totals.
func (u *OrderUseCase) RemoveItem(ctx context.Context, actor model.Actor, orderID, itemID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != actor.UserID {
		return nil, domainErrors.ErrUnauthorized
	}
	return u.orders.RemoveItem(ctx, orderID, itemID)
}

// Delete is the super-admin hard delete that bypasses the state machine.
func (u *OrderUseCase) Delete(ctx context.Context, actor model.Actor, orderID int64) error {
	if actor.Role != model.RoleSuperAdmin {
		return domainErrors.ErrUnauthorized
	}
	return u.orders.Delete(ctx, orderID)
}
