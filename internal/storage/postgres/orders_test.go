package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/anyschool/order-service/internal/domain/errors"
	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/domain/repository"
)

var orderRowColumns = []string{
	"id", "user_id", "order_type", "status", "total_amount", "payment_type", "payment_complete",
	"payment_plan_months", "monthly_instalment", "payments_received", "is_marked_final",
	"school_id", "requested_school_name", "student_id", "created_at", "updated_at",
}

func orderRow(id int64, status model.OrderStatus) *pgxmockv3.Rows {
	now := time.Now()
	return pgxmockv3.NewRows(orderRowColumns).AddRow(
		id, int64(1), model.OrderTypePurchase, status, decimal.RequireFromString("100.00"),
		model.PaymentTypePlan, false, 3, decimal.RequireFromString("33.33"), 0, false,
		(*int64)(nil), "", (*int64)(nil), now, now,
	)
}

func expectLoadOrder(mock pgxmockv3.PgxPoolIface, id int64, status model.OrderStatus) {
	mock.ExpectQuery("SELECT id, user_id, order_type, status, total_amount").
		WithArgs(id).
		WillReturnRows(orderRow(id, status))
	mock.ExpectQuery("SELECT id, order_id, stationery_ref, description, quantity, price, subtotal").
		WithArgs(id).
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "order_id", "stationery_ref", "description", "quantity", "price", "subtotal"}).
			AddRow(int64(1), id, "PEN-01", "ballpoint pen", 2, decimal.RequireFromString("1.50"), decimal.RequireFromString("3.00")))
}

func TestOrderGetByID(t *testing.T) {
	storage, mock := newMockStorage(t)
	expectLoadOrder(mock, 5, model.OrderStatusPending)

	order, err := storage.Orders().GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != 5 || order.Status != model.OrderStatusPending {
		t.Fatalf("unexpected order %+v", order)
	}
	if len(order.Items) != 1 || order.Items[0].StationeryRef != "PEN-01" {
		t.Fatalf("items not loaded: %+v", order.Items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderGetByIDNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectQuery("SELECT id, user_id, order_type, status, total_amount").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)

	if _, err := storage.Orders().GetByID(context.Background(), 404); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderCreateInsertsItemsInOneTransaction(t *testing.T) {
	storage, mock := newMockStorage(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO orders").
		WillReturnRows(pgxmockv3.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(11), now, now))
	mock.ExpectQuery("INSERT INTO order_items").
		WillReturnRows(pgxmockv3.NewRows([]string{"id"}).AddRow(int64(21)))
	mock.ExpectCommit()

	order := &model.Order{
		UserID:      1,
		OrderType:   model.OrderTypePurchase,
		Status:      model.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("3.00"),
		PaymentType: model.PaymentTypeImmediate,
		Items: []model.LineItem{
			{StationeryRef: "PEN-01", Quantity: 2, Price: decimal.RequireFromString("1.50"), Subtotal: decimal.RequireFromString("3.00")},
		},
	}
	created, err := storage.Orders().Create(context.Background(), order)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 11 || created.Items[0].ID != 21 || created.Items[0].OrderID != 11 {
		t.Fatalf("identifiers not assigned: %+v", created)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderTransitionHappyPath(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3")).
		WithArgs(model.OrderStatusApproved, int64(5), model.OrderStatusPending).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectExec("INSERT INTO order_status_history").
		WithArgs(int64(5), model.OrderStatusPending, model.OrderStatusApproved, "", int64(100)).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	expectLoadOrder(mock, 5, model.OrderStatusApproved)
	mock.ExpectCommit()

	order, err := storage.Orders().Transition(context.Background(), 5, "approve", model.OrderStatusPending, model.OrderStatusApproved, "", 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusApproved {
		t.Fatalf("unexpected status %s", order.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderTransitionReportsActualStatusOnRace(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT status FROM orders WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(pgxmockv3.NewRows([]string{"status"}).AddRow(model.OrderStatusCancelled))
	mock.ExpectRollback()

	_, err := storage.Orders().Transition(context.Background(), 5, "approve", model.OrderStatusPending, model.OrderStatusApproved, "", 100)
	var ise *domainErrors.InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
	if ise.Current != string(model.OrderStatusCancelled) {
		t.Fatalf("expected the racing status in the error, got %s", ise.Current)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestOrderTransitionMissingOrder(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET status").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT status FROM orders WHERE id").
		WithArgs(int64(404)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := storage.Orders().Transition(context.Background(), 404, "approve", model.OrderStatusPending, model.OrderStatusApproved, "", 1)
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func lockedRow(status model.OrderStatus, paymentType model.PaymentType, complete bool, total string, months, received int, final bool) *pgxmockv3.Rows {
	return pgxmockv3.NewRows([]string{"status", "payment_type", "payment_complete", "total_amount", "payment_plan_months", "payments_received", "is_marked_final"}).
		AddRow(status, paymentType, complete, decimal.RequireFromString(total), months, received, final)
}

func TestRecordInstallmentIntermediate(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, payment_type, payment_complete, total_amount").
		WithArgs(int64(5)).
		WillReturnRows(lockedRow(model.OrderStatusPending, model.PaymentTypePlan, false, "100.00", 3, 0, false))
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(int64(5), "ref-1", decimal.RequireFromString("33.33")).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE orders SET payments_received").
		WithArgs(1, false, model.OrderStatusPending, int64(5)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	expectLoadOrder(mock, 5, model.OrderStatusPending)
	mock.ExpectCommit()

	if _, err := storage.Orders().RecordInstallment(context.Background(), 5, "ref-1", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordInstallmentFinalAutoApproves(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, payment_type, payment_complete, total_amount").
		WithArgs(int64(5)).
		WillReturnRows(lockedRow(model.OrderStatusPending, model.PaymentTypePlan, false, "100.00", 3, 2, false))
	// The final installment absorbs the rounding remainder.
	mock.ExpectExec("INSERT INTO payments").
		WithArgs(int64(5), "ref-3", decimal.RequireFromString("33.34")).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_status_history").
		WithArgs(int64(5), model.OrderStatusPending, model.OrderStatusApproved, "final installment received", int64(100)).
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("UPDATE orders SET payments_received").
		WithArgs(3, true, model.OrderStatusApproved, int64(5)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	expectLoadOrder(mock, 5, model.OrderStatusApproved)
	mock.ExpectCommit()

	if _, err := storage.Orders().RecordInstallment(context.Background(), 5, "ref-3", 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecordInstallmentRejectsExhaustedPlan(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, payment_type, payment_complete, total_amount").
		WithArgs(int64(5)).
		WillReturnRows(lockedRow(model.OrderStatusApproved, model.PaymentTypePlan, true, "100.00", 3, 3, false))
	mock.ExpectRollback()

	if _, err := storage.Orders().RecordInstallment(context.Background(), 5, "ref-4", 100); !errors.Is(err, domainErrors.ErrPlanExhausted) {
		t.Fatalf("expected ErrPlanExhausted, got %v", err)
	}
}

func TestRecordInstallmentRejectsImmediateOrders(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, payment_type, payment_complete, total_amount").
		WithArgs(int64(5)).
		WillReturnRows(lockedRow(model.OrderStatusPending, model.PaymentTypeImmediate, false, "100.00", 0, 0, false))
	mock.ExpectRollback()

	if _, err := storage.Orders().RecordInstallment(context.Background(), 5, "ref", 100); !errors.Is(err, domainErrors.ErrNotPaymentPlan) {
		t.Fatalf("expected ErrNotPaymentPlan, got %v", err)
	}
}

func TestRecordImmediatePaymentRejectsDouble(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, payment_type, payment_complete, total_amount").
		WithArgs(int64(5)).
		WillReturnRows(lockedRow(model.OrderStatusPending, model.PaymentTypeImmediate, true, "100.00", 0, 0, false))
	mock.ExpectRollback()

	if _, err := storage.Orders().RecordImmediatePayment(context.Background(), 5, "ref", 1); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestMarkFinalAlreadyFinal(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET is_marked_final").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT status, is_marked_final FROM orders WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(pgxmockv3.NewRows([]string{"status", "is_marked_final"}).AddRow(model.OrderStatusPending, true))
	mock.ExpectRollback()

	if _, err := storage.Orders().MarkFinal(context.Background(), 5); !errors.Is(err, domainErrors.ErrItemsFinal) {
		t.Fatalf("expected ErrItemsFinal, got %v", err)
	}
}

func TestMarkFinalWrongStatus(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET is_marked_final").
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT status, is_marked_final FROM orders WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(pgxmockv3.NewRows([]string{"status", "is_marked_final"}).AddRow(model.OrderStatusApproved, false))
	mock.ExpectRollback()

	_, err := storage.Orders().MarkFinal(context.Background(), 5)
	var ise *domainErrors.InvalidStateError
	if !errors.As(err, &ise) {
		t.Fatalf("expected InvalidStateError, got %v", err)
	}
}

func TestAddItemRejectsFinalOrder(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, payment_type, payment_complete, total_amount").
		WithArgs(int64(5)).
		WillReturnRows(lockedRow(model.OrderStatusPending, model.PaymentTypeImmediate, false, "100.00", 0, 0, true))
	mock.ExpectRollback()

	item := model.LineItem{StationeryRef: "PEN-01", Quantity: 1, Price: decimal.RequireFromString("1.00")}
	if _, err := storage.Orders().AddItem(context.Background(), 5, item); !errors.Is(err, domainErrors.ErrItemsFinal) {
		t.Fatalf("expected ErrItemsFinal, got %v", err)
	}
}

func TestUpdateItemQuantityRecomputesTotals(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, payment_type, payment_complete, total_amount").
		WithArgs(int64(5)).
		WillReturnRows(lockedRow(model.OrderStatusPending, model.PaymentTypePlan, false, "100.00", 3, 0, false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE order_items SET quantity=$1, subtotal=price*$1 WHERE id=$2 AND order_id=$3")).
		WithArgs(4, int64(2), int64(5)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	mock.ExpectQuery("UPDATE orders").
		WithArgs(int64(5)).
		WillReturnRows(pgxmockv3.NewRows([]string{"total_amount"}).AddRow(decimal.RequireFromString("120.00")))
	mock.ExpectExec("UPDATE orders SET monthly_instalment").
		WithArgs(decimal.RequireFromString("40.00"), int64(5)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	expectLoadOrder(mock, 5, model.OrderStatusPending)
	mock.ExpectCommit()

	if _, err := storage.Orders().UpdateItemQuantity(context.Background(), 5, 2, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRemoveItemNotFound(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT status, payment_type, payment_complete, total_amount").
		WithArgs(int64(5)).
		WillReturnRows(lockedRow(model.OrderStatusPending, model.PaymentTypeImmediate, false, "100.00", 0, 0, false))
	mock.ExpectExec("DELETE FROM order_items").
		WithArgs(int64(77), int64(5)).
		WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	mock.ExpectRollback()

	if _, err := storage.Orders().RemoveItem(context.Background(), 5, 77); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListFiltersByUserAndStatus(t *testing.T) {
	storage, mock := newMockStorage(t)
	userID := int64(3)
	status := model.OrderStatusPending

	mock.ExpectQuery("SELECT id, user_id, order_type, status, total_amount").
		WithArgs(userID, status).
		WillReturnRows(orderRow(1, status))

	orders, err := storage.Orders().List(context.Background(), repository.OrderFilter{UserID: &userID, Status: &status})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 || orders[0].Status != status {
		t.Fatalf("unexpected orders %+v", orders)
	}
}

func TestStatsAggregates(t *testing.T) {
	storage, mock := newMockStorage(t)

	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(pgxmockv3.NewRows([]string{"status", "count", "sum"}).
			AddRow(model.OrderStatusPending, int64(2), decimal.RequireFromString("150.00")).
			AddRow(model.OrderStatusClosed, int64(1), decimal.RequireFromString("80.00")).
			AddRow(model.OrderStatusCancelled, int64(1), decimal.RequireFromString("999.00")))
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(pgxmockv3.NewRows([]string{"sum"}).AddRow(decimal.RequireFromString("120.50")))

	stats, err := storage.Orders().Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalOrders != 4 {
		t.Fatalf("unexpected total %d", stats.TotalOrders)
	}
	if got := stats.OrderedAmount.StringFixed(2); got != "230.00" {
		t.Fatalf("cancelled orders must not count towards ordered amount, got %s", got)
	}
	if got := stats.CollectedAmount.StringFixed(2); got != "120.50" {
		t.Fatalf("unexpected collected amount %s", got)
	}
	if stats.ByStatus[model.OrderStatusPending] != 2 {
		t.Fatalf("unexpected by-status map %+v", stats.ByStatus)
	}
}

func TestDeleteOrder(t *testing.T) {
	storage, mock := newMockStorage(t)
	mock.ExpectExec("DELETE FROM orders WHERE id").
		WithArgs(int64(5)).
		WillReturnResult(pgxmockv3.NewResult("DELETE", 1))

	if err := storage.Orders().Delete(context.Background(), 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("DELETE FROM orders WHERE id").
		WithArgs(int64(6)).
		WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	if err := storage.Orders().Delete(context.Background(), 6); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
