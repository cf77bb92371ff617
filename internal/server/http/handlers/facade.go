package handlers

import (
	"context"

	"github.com/anyschool/order-service/internal/domain/lifecycle"
	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, login, password string, role model.Role) (string, error)
	Authenticate(ctx context.Context, login, password string) (string, error)
	ParseToken(token string) (model.Actor, error)
}

// OrderFacade encapsulates purchaser/donor order operations.
type OrderFacade interface {
	CreateOrder(ctx context.Context, actor model.Actor, input usecase.CreateOrderInput) (*model.Order, error)
	Order(ctx context.Context, actor model.Actor, orderID int64) (*usecase.OrderDetails, error)
	Orders(ctx context.Context, actor model.Actor, status *model.OrderStatus) ([]model.Order, error)
	OrderActions(ctx context.Context, actor model.Actor, orderID int64) ([]lifecycle.Operation, error)
	CancelOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	ConfirmImmediatePayment(ctx context.Context, actor model.Actor, orderID int64, reference string) (*model.Order, error)
	MarkItemsFinal(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	AddItem(ctx context.Context, actor model.Actor, orderID int64, item usecase.NewItem) (*model.Order, error)
	UpdateItemQuantity(ctx context.Context, actor model.Actor, orderID, itemID int64, quantity int) (*model.Order, error)
	RemoveItem(ctx context.Context, actor model.Actor, orderID, itemID int64) (*model.Order, error)
}

// PurchasingFacade covers the fulfilment team's transitions.
type PurchasingFacade interface {
	AcknowledgeOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	StartProcessing(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	VerifyPayment(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	SendForDelivery(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	MarkDelivered(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	CloseOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	ReturnOrder(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Order, error)
	RecordInstallment(ctx context.Context, actor model.Actor, orderID int64, reference string) (*model.Order, error)
	OrderStats(ctx context.Context) (*model.OrderStats, error)
}

// AdminFacade covers super-admin operations.
type AdminFacade interface {
	ApproveOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	DeclineOrder(ctx context.Context, actor model.Actor, orderID int64, reason string) (*model.Order, error)
	DeleteOrder(ctx context.Context, actor model.Actor, orderID int64) error
	ApproveSchool(ctx context.Context, actor model.Actor, id int64) (*model.School, error)
}

// SchoolFacade covers school and student registration.
type SchoolFacade interface {
	RequestSchool(ctx context.Context, name string) (*model.School, error)
	Schools(ctx context.Context) ([]model.School, error)
	AddStudent(ctx context.Context, schoolID int64, fullName, grade string) (*model.Student, error)
}

// MarketplaceFacade aggregates the full set of operations used across handlers.
type MarketplaceFacade interface {
	AuthFacade
	OrderFacade
	PurchasingFacade
	AdminFacade
	SchoolFacade
}

// StatsSource serves the cached stats snapshot maintained by the refresher.
type StatsSource interface {
	Latest() *model.OrderStats
}
