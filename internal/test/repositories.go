package test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/domain/repository"
)

// UserRepositoryStub provides an in-place substitute for user persistence.
type UserRepositoryStub struct {
	CreateFn     func(context.Context, string, string, model.Role) (*model.User, error)
	GetByLoginFn func(context.Context, string) (*model.User, error)
	GetByIDFn    func(context.Context, int64) (*model.User, error)
}

// Create delegates to the override or echoes the supplied data back.
func (s UserRepositoryStub) Create(ctx context.Context, login, passwordHash string, role model.Role) (*model.User, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, login, passwordHash, role)
	}
	return &model.User{ID: 1, Login: login, PasswordHash: passwordHash, Role: role}, nil
}

// GetByLogin returns the configured user.
func (s UserRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	if s.GetByLoginFn != nil {
		return s.GetByLoginFn(ctx, login)
	}
	return &model.User{ID: 1, Login: login, Role: model.RoleParent}, nil
}

// GetByID returns the configured user.
func (s UserRepositoryStub) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return &model.User{ID: id, Login: "user", Role: model.RoleParent}, nil
}

// OrderRepositoryStub provides controllable order persistence behaviour.
type OrderRepositoryStub struct {
	CreateFn                 func(context.Context, *model.Order) (*model.Order, error)
	GetByIDFn                func(context.Context, int64) (*model.Order, error)
	ListFn                   func(context.Context, repository.OrderFilter) ([]model.Order, error)
	TransitionFn             func(ctx context.Context, orderID int64, op string, from, to model.OrderStatus, reason string, actorID int64) (*model.Order, error)
	RecordInstallmentFn      func(context.Context, int64, string, int64) (*model.Order, error)
	RecordImmediatePaymentFn func(context.Context, int64, string, int64) (*model.Order, error)
	MarkFinalFn              func(context.Context, int64) (*model.Order, error)
	AddItemFn                func(context.Context, int64, model.LineItem) (*model.Order, error)
	UpdateItemQuantityFn     func(ctx context.Context, orderID, itemID int64, quantity int) (*model.Order, error)
	RemoveItemFn             func(ctx context.Context, orderID, itemID int64) (*model.Order, error)
	HistoryFn                func(context.Context, int64) ([]model.StatusChange, error)
	PaymentsFn               func(context.Context, int64) ([]model.Payment, error)
	StatsFn                  func(context.Context) (*model.OrderStats, error)
	DeleteFn                 func(context.Context, int64) error
}

// SampleOrder builds a plain PENDING purchase owned by userID.
func SampleOrder(id, userID int64) *model.Order {
	return &model.Order{
		ID:          id,
		UserID:      userID,
		OrderType:   model.OrderTypePurchase,
		Status:      model.OrderStatusPending,
		PaymentType: model.PaymentTypeImmediate,
		TotalAmount: decimal.NewFromInt(100),
	}
}

// Create delegates to the override or echoes the order with an ID assigned.
func (s OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	created := *order
	created.ID = 1
	return &created, nil
}

// GetByID returns the configured order.
func (s OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return SampleOrder(id, 1), nil
}

// List returns the configured orders.
func (s OrderRepositoryStub) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	return []model.Order{*SampleOrder(1, 1)}, nil
}

// Transition applies the override or returns the order at the target status.
func (s OrderRepositoryStub) Transition(ctx context.Context, orderID int64, op string, from, to model.OrderStatus, reason string, actorID int64) (*model.Order, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, orderID, op, from, to, reason, actorID)
	}
	order := SampleOrder(orderID, 1)
	order.Status = to
	return order, nil
}

// RecordInstallment applies the override or returns the order unchanged.
func (s OrderRepositoryStub) RecordInstallment(ctx context.Context, orderID int64, reference string, actorID int64) (*model.Order, error) {
	if s.RecordInstallmentFn != nil {
		return s.RecordInstallmentFn(ctx, orderID, reference, actorID)
	}
	return SampleOrder(orderID, 1), nil
}

// RecordImmediatePayment applies the override or returns a paid order.
func (s OrderRepositoryStub) RecordImmediatePayment(ctx context.Context, orderID int64, reference string, actorID int64) (*model.Order, error) {
	if s.RecordImmediatePaymentFn != nil {
		return s.RecordImmediatePaymentFn(ctx, orderID, reference, actorID)
	}
	order := SampleOrder(orderID, 1)
	order.PaymentComplete = true
	return order, nil
}

// MarkFinal applies the override or returns a frozen order.
func (s OrderRepositoryStub) MarkFinal(ctx context.Context, orderID int64) (*model.Order, error) {
	if s.MarkFinalFn != nil {
		return s.MarkFinalFn(ctx, orderID)
	}
	order := SampleOrder(orderID, 1)
	order.IsMarkedFinal = true
	return order, nil
}

// AddItem applies the override or returns the order unchanged.
func (s OrderRepositoryStub) AddItem(ctx context.Context, orderID int64, item model.LineItem) (*model.Order, error) {
	if s.AddItemFn != nil {
		return s.AddItemFn(ctx, orderID, item)
	}
	return SampleOrder(orderID, 1), nil
}

// UpdateItemQuantity applies the override or returns the order unchanged.
func (s OrderRepositoryStub) UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int) (*model.Order, error) {
	if s.UpdateItemQuantityFn != nil {
		return s.UpdateItemQuantityFn(ctx, orderID, itemID, quantity)
	}
	return SampleOrder(orderID, 1), nil
}

// RemoveItem applies the override or returns the order unchanged.
func (s OrderRepositoryStub) RemoveItem(ctx context.Context, orderID, itemID int64) (*model.Order, error) {
	if s.RemoveItemFn != nil {
		return s.RemoveItemFn(ctx, orderID, itemID)
	}
	return SampleOrder(orderID, 1), nil
}

// History returns the configured transition history.
func (s OrderRepositoryStub) History(ctx context.Context, orderID int64) ([]model.StatusChange, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, orderID)
	}
	return nil, nil
}

// Payments returns the configured payments.
func (s OrderRepositoryStub) Payments(ctx context.Context, orderID int64) ([]model.Payment, error) {
	if s.PaymentsFn != nil {
		return s.PaymentsFn(ctx, orderID)
	}
	return nil, nil
}

// Stats returns the configured dashboard projection.
func (s OrderRepositoryStub) Stats(ctx context.Context) (*model.OrderStats, error) {
	if s.StatsFn != nil {
		return s.StatsFn(ctx)
	}
	return &model.OrderStats{ByStatus: map[model.OrderStatus]int64{}}, nil
}

// Delete delegates to the override.
func (s OrderRepositoryStub) Delete(ctx context.Context, orderID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, orderID)
	}
	return nil
}

// SchoolRepositoryStub provides controllable school persistence behaviour.
type SchoolRepositoryStub struct {
	CreateFn        func(context.Context, string) (*model.School, error)
	GetByIDFn       func(context.Context, int64) (*model.School, error)
	ListApprovedFn  func(context.Context) ([]model.School, error)
	ApproveFn       func(context.Context, int64) (*model.School, error)
	CreateStudentFn func(ctx context.Context, schoolID int64, fullName, grade string) (*model.Student, error)
	GetStudentFn    func(context.Context, int64) (*model.Student, error)
}

// Create delegates to the override or echoes the name back.
func (s SchoolRepositoryStub) Create(ctx context.Context, name string) (*model.School, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, name)
	}
	return &model.School{ID: 1, Name: name}, nil
}

// GetByID returns the configured school; approved by default.
func (s SchoolRepositoryStub) GetByID(ctx context.Context, id int64) (*model.School, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	return &model.School{ID: id, Name: "school", Approved: true}, nil
}

// ListApproved returns the configured schools.
func (s SchoolRepositoryStub) ListApproved(ctx context.Context) ([]model.School, error) {
	if s.ListApprovedFn != nil {
		return s.ListApprovedFn(ctx)
	}
	return []model.School{{ID: 1, Name: "school", Approved: true}}, nil
}

// Approve delegates to the override or returns an approved school.
func (s SchoolRepositoryStub) Approve(ctx context.Context, id int64) (*model.School, error) {
	if s.ApproveFn != nil {
		return s.ApproveFn(ctx, id)
	}
	return &model.School{ID: id, Name: "school", Approved: true}, nil
}

// CreateStudent delegates to the override or echoes the data back.
func (s SchoolRepositoryStub) CreateStudent(ctx context.Context, schoolID int64, fullName, grade string) (*model.Student, error) {
	if s.CreateStudentFn != nil {
		return s.CreateStudentFn(ctx, schoolID, fullName, grade)
	}
	return &model.Student{ID: 1, SchoolID: schoolID, FullName: fullName, Grade: grade}, nil
}

// GetStudent returns the configured student.
func (s SchoolRepositoryStub) GetStudent(ctx context.Context, id int64) (*model.Student, error) {
	if s.GetStudentFn != nil {
		return s.GetStudentFn(ctx, id)
	}
	return &model.Student{ID: id, SchoolID: 1, FullName: "student"}, nil
}

// FactoryStub exposes the stubbed repositories through the factory contract.
type FactoryStub struct {
	UsersRepo   UserRepositoryStub
	OrdersRepo  OrderRepositoryStub
	SchoolsRepo SchoolRepositoryStub
}

// Users returns the user repository stub.
func (f FactoryStub) Users() repository.UserRepository { return f.UsersRepo }

// Orders returns the order repository stub.
func (f FactoryStub) Orders() repository.OrderRepository { return f.OrdersRepo }

// Schools returns the school repository stub.
func (f FactoryStub) Schools() repository.SchoolRepository { return f.SchoolsRepo }
