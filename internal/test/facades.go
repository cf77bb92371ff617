package test

import (
	"context"

	"github.com/anyschool/order-service/internal/domain/lifecycle"
	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/usecase"
)

// MarketplaceFacadeStub provides controllable behaviour for every handler
// endpoint. Unset overrides fall back to benign defaults.
type MarketplaceFacadeStub struct {
	RegisterFn     func(ctx context.Context, login, password string, role model.Role) (string, error)
	AuthenticateFn func(ctx context.Context, login, password string) (string, error)
	ParseTokenFn   func(token string) (model.Actor, error)

	CreateOrderFn             func(context.Context, model.Actor, usecase.CreateOrderInput) (*model.Order, error)
	OrderFn                   func(context.Context, model.Actor, int64) (*usecase.OrderDetails, error)
	OrdersFn                  func(context.Context, model.Actor, *model.OrderStatus) ([]model.Order, error)
	OrderActionsFn            func(context.Context, model.Actor, int64) ([]lifecycle.Operation, error)
	CancelOrderFn             func(context.Context, model.Actor, int64) (*model.Order, error)
	ConfirmImmediatePaymentFn func(ctx context.Context, actor model.Actor, orderID int64, reference string) (*model.Order, error)
	MarkItemsFinalFn          func(context.Context, model.Actor, int64) (*model.Order, error)
	AddItemFn                 func(ctx context.Context, actor model.Actor, orderID int64, item usecase.NewItem) (*model.Order, error)
	UpdateItemQuantityFn      func(ctx context.Context, actor model.Actor, orderID, itemID int64, quantity int) (*model.Order, error)
	RemoveItemFn              func(ctx context.Context, actor model.Actor, orderID, itemID int64) (*model.Order, error)

	AcknowledgeOrderFn  func(context.Context, model.Actor, int64) (*model.Order, error)
	StartProcessingFn   func(context.Context, model.Actor, int64) (*model.Order, error)
	VerifyPaymentFn     func(context.Context, model.Actor, int64) (*model.Order, error)
	SendForDeliveryFn   func(context.Context, model.Actor, int64) (*model.Order, error)
	MarkDeliveredFn     func(context.Context, model.Actor, int64) (*model.Order, error)
	CloseOrderFn        func(context.Context, model.Actor, int64) (*model.Order, error)
	ReturnOrderFn       func(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Order, error)
	RecordInstallmentFn func(ctx context.Context, actor model.Actor, orderID int64, reference string) (*model.Order, error)
	OrderStatsFn        func(context.Context) (*model.OrderStats, error)

	ApproveOrderFn  func(context.Context, model.Actor, int64) (*model.Order, error)
	DeclineOrderFn  func(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Order, error)
	DeleteOrderFn   func(context.Context, model.Actor, int64) error
	ApproveSchoolFn func(context.Context, model.Actor, int64) (*model.School, error)

	RequestSchoolFn func(context.Context, string) (*model.School, error)
	SchoolsFn       func(context.Context) ([]model.School, error)
	AddStudentFn    func(ctx context.Context, schoolID int64, fullName, grade string) (*model.Student, error)
}

func (s MarketplaceFacadeStub) Register(ctx context.Context, login, password string, role model.Role) (string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, login, password, role)
	}
	return "token", nil
}

func (s MarketplaceFacadeStub) Authenticate(ctx context.Context, login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, login, password)
	}
	return "token", nil
}

func (s MarketplaceFacadeStub) ParseToken(token string) (model.Actor, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return model.Actor{UserID: 1, Role: model.RoleParent}, nil
}

func (s MarketplaceFacadeStub) CreateOrder(ctx context.Context, actor model.Actor, input usecase.CreateOrderInput) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, actor, input)
	}
	return SampleOrder(1, actor.UserID), nil
}

func (s MarketplaceFacadeStub) Order(ctx context.Context, actor model.Actor, orderID int64) (*usecase.OrderDetails, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, orderID)
	}
	return &usecase.OrderDetails{Order: SampleOrder(orderID, actor.UserID)}, nil
}

func (s MarketplaceFacadeStub) Orders(ctx context.Context, actor model.Actor, status *model.OrderStatus) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, actor, status)
	}
	return []model.Order{*SampleOrder(1, actor.UserID)}, nil
}

func (s MarketplaceFacadeStub) OrderActions(ctx context.Context, actor model.Actor, orderID int64) ([]lifecycle.Operation, error) {
	if s.OrderActionsFn != nil {
		return s.OrderActionsFn(ctx, actor, orderID)
	}
	return []lifecycle.Operation{lifecycle.OpCancel}, nil
}

func (s MarketplaceFacadeStub) CancelOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.CancelOrderFn != nil {
		return s.CancelOrderFn(ctx, actor, orderID)
	}
	order := SampleOrder(orderID, actor.UserID)
	order.Status = model.OrderStatusCancelled
	return order, nil
}

func (s MarketplaceFacadeStub) ConfirmImmediatePayment(ctx context.Context, actor model.Actor, orderID int64, reference string) (*model.Order, error) {
	if s.ConfirmImmediatePaymentFn != nil {
		return s.ConfirmImmediatePaymentFn(ctx, actor, orderID, reference)
	}
	order := SampleOrder(orderID, actor.UserID)
	order.PaymentComplete = true
	return order, nil
}

func (s MarketplaceFacadeStub) MarkItemsFinal(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.MarkItemsFinalFn != nil {
		return s.MarkItemsFinalFn(ctx, actor, orderID)
	}
	order := SampleOrder(orderID, actor.UserID)
	order.IsMarkedFinal = true
	return order, nil
}

func (s MarketplaceFacadeStub) AddItem(ctx context.Context, actor model.Actor, orderID int64, item usecase.NewItem) (*model.Order, error) {
	if s.AddItemFn != nil {
		return s.AddItemFn(ctx, actor, orderID, item)
	}
	return SampleOrder(orderID, actor.UserID), nil
}

func (s MarketplaceFacadeStub) UpdateItemQuantity(ctx context.Context, actor model.Actor, orderID, itemID int64, quantity int) (*model.Order, error) {
	if s.UpdateItemQuantityFn != nil {
		return s.UpdateItemQuantityFn(ctx, actor, orderID, itemID, quantity)
	}
	return SampleOrder(orderID, actor.UserID), nil
}

func (s MarketplaceFacadeStub) RemoveItem(ctx context.Context, actor model.Actor, orderID, itemID int64) (*model.Order, error) {
	if s.RemoveItemFn != nil {
		return s.RemoveItemFn(ctx, actor, orderID, itemID)
	}
	return SampleOrder(orderID, actor.UserID), nil
}

func (s MarketplaceFacadeStub) transition(orderID int64, status model.OrderStatus) (*model.Order, error) {
	order := SampleOrder(orderID, 1)
	order.Status = status
	return order, nil
}

func (s MarketplaceFacadeStub) AcknowledgeOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.AcknowledgeOrderFn != nil {
		return s.AcknowledgeOrderFn(ctx, actor, orderID)
	}
	return s.transition(orderID, model.OrderStatusAcknowledged)
}

func (s MarketplaceFacadeStub) StartProcessing(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.StartProcessingFn != nil {
		return s.StartProcessingFn(ctx, actor, orderID)
	}
	return s.transition(orderID, model.OrderStatusInProcess)
}

func (s MarketplaceFacadeStub) VerifyPayment(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.VerifyPaymentFn != nil {
		return s.VerifyPaymentFn(ctx, actor, orderID)
	}
	return s.transition(orderID, model.OrderStatusFinalizing)
}

func (s MarketplaceFacadeStub) SendForDelivery(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.SendForDeliveryFn != nil {
		return s.SendForDeliveryFn(ctx, actor, orderID)
	}
	return s.transition(orderID, model.OrderStatusOutForDelivery)
}

func (s MarketplaceFacadeStub) MarkDelivered(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.MarkDeliveredFn != nil {
		return s.MarkDeliveredFn(ctx, actor, orderID)
	}
	return s.transition(orderID, model.OrderStatusDelivered)
}

func (s MarketplaceFacadeStub) CloseOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.CloseOrderFn != nil {
		return s.CloseOrderFn(ctx, actor, orderID)
	}
	return s.transition(orderID, model.OrderStatusClosed)
}

func (s MarketplaceFacadeStub) ReturnOrder(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Order, error) {
	if s.ReturnOrderFn != nil {
		return s.ReturnOrderFn(ctx, actor, orderID, reason)
	}
	return s.transition(orderID, model.OrderStatusReturned)
}

func (s MarketplaceFacadeStub) RecordInstallment(ctx context.Context, actor model.Actor, orderID int64, reference string) (*model.Order, error) {
	if s.RecordInstallmentFn != nil {
		return s.RecordInstallmentFn(ctx, actor, orderID, reference)
	}
	order := SampleOrder(orderID, 1)
	order.PaymentType = model.PaymentTypePlan
	order.PaymentsReceived = 1
	return order, nil
}

func (s MarketplaceFacadeStub) OrderStats(ctx context.Context) (*model.OrderStats, error) {
	if s.OrderStatsFn != nil {
		return s.OrderStatsFn(ctx)
	}
	return &model.OrderStats{ByStatus: map[model.OrderStatus]int64{}}, nil
}

func (s MarketplaceFacadeStub) ApproveOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.ApproveOrderFn != nil {
		return s.ApproveOrderFn(ctx, actor, orderID)
	}
	return s.transition(orderID, model.OrderStatusApproved)
}

func (s MarketplaceFacadeStub) DeclineOrder(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Order, error) {
	if s.DeclineOrderFn != nil {
		return s.DeclineOrderFn(ctx, actor, orderID, reason)
	}
	return s.transition(orderID, model.OrderStatusDeclined)
}

func (s MarketplaceFacadeStub) DeleteOrder(ctx context.Context, actor model.Actor, orderID int64) error {
	if s.DeleteOrderFn != nil {
		return s.DeleteOrderFn(ctx, actor, orderID)
	}
	return nil
}

func (s MarketplaceFacadeStub) ApproveSchool(ctx context.Context, actor model.Actor, id int64) (*model.School, error) {
	if s.ApproveSchoolFn != nil {
		return s.ApproveSchoolFn(ctx, actor, id)
	}
	return &model.School{ID: id, Name: "school", Approved: true}, nil
}

func (s MarketplaceFacadeStub) RequestSchool(ctx context.Context, name string) (*model.School, error) {
	if s.RequestSchoolFn != nil {
		return s.RequestSchoolFn(ctx, name)
	}
	return &model.School{ID: 1, Name: name}, nil
}

func (s MarketplaceFacadeStub) Schools(ctx context.Context) ([]model.School, error) {
	if s.SchoolsFn != nil {
		return s.SchoolsFn(ctx)
	}
	return []model.School{{ID: 1, Name: "school", Approved: true}}, nil
}

func (s MarketplaceFacadeStub) AddStudent(ctx context.Context, schoolID int64, fullName, grade string) (*model.Student, error) {
	if s.AddStudentFn != nil {
		return s.AddStudentFn(ctx, schoolID, fullName, grade)
	}
	return &model.Student{ID: 1, SchoolID: schoolID, FullName: fullName, Grade: grade}, nil
}

// StatsSourceStub serves a fixed snapshot for the stats endpoint.
type StatsSourceStub struct {
	Snapshot *model.OrderStats
}

// Latest returns the configured snapshot.
func (s StatsSourceStub) Latest() *model.OrderStats {
	return s.Snapshot
}
