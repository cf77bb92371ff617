package app

import (
	"context"

	"github.com/anyschool/order-service/internal/domain/lifecycle"
	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/usecase"
)

// MarketplaceFacade aggregates the application use cases behind one surface
// consumed by HTTP handlers and the stats refresher.
type MarketplaceFacade struct {
	auth    *usecase.AuthUseCase
	orders  *usecase.OrderUseCase
	schools *usecase.SchoolUseCase
}

// NewMarketplaceFacade constructs MarketplaceFacade.
func NewMarketplaceFacade(auth *usecase.AuthUseCase, orders *usecase.OrderUseCase, schools *usecase.SchoolUseCase) *MarketplaceFacade {
	return &MarketplaceFacade{auth: auth, orders: orders, schools: schools}
}

func (f *MarketplaceFacade) Register(ctx context.Context, login, password string, role model.Role) (string, error) {
	_, token, err := f.auth.Register(ctx, login, password, role)
	return token, err
}

func (f *MarketplaceFacade) Authenticate(ctx context.Context, login, password string) (string, error) {
	_, token, err := f.auth.Authenticate(ctx, login, password)
	return token, err
}

func (f *MarketplaceFacade) ParseToken(token string) (model.Actor, error) {
	return f.auth.ParseToken(token)
}

func (f *MarketplaceFacade) CreateOrder(ctx context.Context, actor model.Actor, input usecase.CreateOrderInput) (*model.Order, error) {
	return f.orders.Create(ctx, actor, input)
}

func (f *MarketplaceFacade) Order(ctx context.Context, actor model.Actor, orderID int64) (*usecase.OrderDetails, error) {
	return f.orders.Get(ctx, actor, orderID)
}

func (f *MarketplaceFacade) Orders(ctx context.Context, actor model.Actor, status *model.OrderStatus) ([]model.Order, error) {
	return f.orders.List(ctx, actor, status)
}

func (f *MarketplaceFacade) OrderActions(ctx context.Context, actor model.Actor, orderID int64) ([]lifecycle.Operation, error) {
	return f.orders.AvailableActions(ctx, actor, orderID)
}

func (f *MarketplaceFacade) ApproveOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.Approve(ctx, actor, orderID)
}

func (f *MarketplaceFacade) DeclineOrder(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Order, error) {
	return f.orders.Decline(ctx, actor, orderID, reason)
}

func (f *MarketplaceFacade) AcknowledgeOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.Acknowledge(ctx, actor, orderID)
}

func (f *MarketplaceFacade) StartProcessing(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.StartProcessing(ctx, actor, orderID)
}

func (f *MarketplaceFacade) VerifyPayment(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.VerifyPayment(ctx, actor, orderID)
}

func (f *MarketplaceFacade) SendForDelivery(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.SendForDelivery(ctx, actor, orderID)
}

func (f *MarketplaceFacade) MarkDelivered(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.MarkDelivered(ctx, actor, orderID)
}

func (f *MarketplaceFacade) CloseOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.Close(ctx, actor, orderID)
}

func (f *MarketplaceFacade) CancelOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.Cancel(ctx, actor, orderID)
}

func (f *MarketplaceFacade) ReturnOrder(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Order, error) {
	return f.orders.ReturnToSender(ctx, actor, orderID, reason)
}

func (f *MarketplaceFacade) RecordInstallment(ctx context.Context, actor model.Actor, orderID int64, reference string) (*model.Order, error) {
	return f.orders.RecordInstallment(ctx, actor, orderID, reference)
}

func (f *MarketplaceFacade) ConfirmImmediatePayment(ctx context.Context, actor model.Actor, orderID int64, reference string) (*model.Order, error) {
	return f.orders.ConfirmImmediatePayment(ctx, actor, orderID, reference)
}

func (f *MarketplaceFacade) MarkItemsFinal(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.MarkItemsFinal(ctx, actor, orderID)
}

func (f *MarketplaceFacade) AddItem(ctx context.Context, actor model.Actor, orderID int64, item usecase.NewItem) (*model.Order, error) {
	return f.orders.AddItem(ctx, actor, orderID, item)
}

func (f *MarketplaceFacade) UpdateItemQuantity(ctx context.Context, actor model.Actor, orderID, itemID int64, quantity int) (*model.Order, error) {
	return f.orders.UpdateItemQuantity(ctx, actor, orderID, itemID, quantity)
}

func (f *MarketplaceFacade) RemoveItem(ctx context.Context, actor model.Actor, orderID, itemID int64) (*model.Order, error) {
	return f.orders.RemoveItem(ctx, actor, orderID, itemID)
}

func (f *MarketplaceFacade) DeleteOrder(ctx context.Context, actor model.Actor, orderID int64) error {
	return f.orders.Delete(ctx, actor, orderID)
}

func (f *MarketplaceFacade) OrderStats(ctx context.Context) (*model.OrderStats, error) {
	return f.orders.Stats(ctx)
}

func (f *MarketplaceFacade) RequestSchool(ctx context.Context, name string) (*model.School, error) {
	return f.schools.Request(ctx, name)
}

func (f *MarketplaceFacade) ApproveSchool(ctx context.Context, actor model.Actor, id int64) (*model.School, error) {
	return f.schools.Approve(ctx, actor, id)
}

func (f *MarketplaceFacade) Schools(ctx context.Context) ([]model.School, error) {
	return f.schools.ListApproved(ctx)
}

func (f *MarketplaceFacade) AddStudent(ctx context.Context, schoolID int64, fullName, grade string) (*model.Student, error) {
	return f.schools.AddStudent(ctx, schoolID, fullName, grade)
}
