package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	domainErrors "github.com/anyschool/order-service/internal/domain/errors"
	"github.com/anyschool/order-service/internal/domain/model"
	"github.com/anyschool/order-service/internal/domain/repository"
)

type orderRepository struct {
	storage *Storage
}

// queryer is satisfied by both the pool and pgx.Tx so order loading works
// inside and outside transactions.
type queryer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const orderColumns = `id, user_id, order_type, status, total_amount, payment_type, payment_complete,
        payment_plan_months, monthly_instalment, payments_received, is_marked_final,
        school_id, requested_school_name, student_id, created_at, updated_at`

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(&o.ID, &o.UserID, &o.OrderType, &o.Status, &o.TotalAmount, &o.PaymentType,
		&o.PaymentComplete, &o.PaymentPlanMonths, &o.MonthlyInstalment, &o.PaymentsReceived,
		&o.IsMarkedFinal, &o.SchoolID, &o.RequestedSchoolName, &o.StudentID, &o.CreatedAt, &o.UpdatedAt)
}

func loadOrder(ctx context.Context, q queryer, id int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	var o model.Order
	if err := scanOrder(q.QueryRow(ctx, query, id), &o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `SELECT id, order_id, stationery_ref, description, quantity, price, subtotal
                        FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := q.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it model.LineItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.StationeryRef, &it.Description, &it.Quantity, &it.Price, &it.Subtotal); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	var created *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders
            (user_id, order_type, status, total_amount, payment_type, payment_plan_months,
             monthly_instalment, school_id, requested_school_name, student_id)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
            RETURNING id, created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder,
			order.UserID, order.OrderType, order.Status, order.TotalAmount, order.PaymentType,
			order.PaymentPlanMonths, order.MonthlyInstalment, order.SchoolID,
			order.RequestedSchoolName, order.StudentID,
		).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23503" {
				return domainErrors.ErrNotFound
			}
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, stationery_ref, description, quantity, price, subtotal)
                            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		for i := range order.Items {
			it := &order.Items[i]
			it.OrderID = order.ID
			if err := tx.QueryRow(ctx, insertItem, order.ID, it.StationeryRef, it.Description, it.Quantity, it.Price, it.Subtotal).Scan(&it.ID); err != nil {
				return err
			}
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return loadOrder(ctx, r.storage.pool, id)
}

// List returns order headers without line items; GetByID loads the full aggregate.
func (r *orderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var (
		args  []any
		where string
	)
	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = ` WHERE user_id=$1`
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		if where == "" {
			where = ` WHERE status=$1`
		} else {
			where += ` AND status=$2`
		}
	}
	query += where + ` ORDER BY created_at DESC`

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Transition(ctx context.Context, orderID int64, op string, from, to model.OrderStatus, reason string, actorID int64) (*model.Order, error) {
	var updated *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const update = `UPDATE orders SET status=$1, updated_at=NOW() WHERE id=$2 AND status=$3`
		tag, err := tx.Exec(ctx, update, to, orderID, from)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var current model.OrderStatus
			err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, orderID).Scan(&current)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domainErrors.ErrNotFound
				}
				return err
			}
			return domainErrors.NewInvalidState(op, string(current))
		}

		const history = `INSERT INTO order_status_history (order_id, from_status, to_status, reason, actor_id)
                         VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.Exec(ctx, history, orderID, from, to, reason, actorID); err != nil {
			return err
		}

		updated, err = loadOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

const lockOrder = `SELECT status, payment_type, payment_complete, total_amount, payment_plan_months,
                   payments_received, is_marked_final FROM orders WHERE id=$1 FOR UPDATE`

type lockedOrder struct {
	status          model.OrderStatus
	paymentType     model.PaymentType
	paymentComplete bool
	totalAmount     decimal.Decimal
	planMonths      int
	received        int
	markedFinal     bool
}

func lockForUpdate(ctx context.Context, tx pgx.Tx, orderID int64) (*lockedOrder, error) {
	var lo lockedOrder
	err := tx.QueryRow(ctx, lockOrder, orderID).Scan(&lo.status, &lo.paymentType, &lo.paymentComplete,
		&lo.totalAmount, &lo.planMonths, &lo.received, &lo.markedFinal)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &lo, nil
}

func (r *orderRepository) RecordInstallment(ctx context.Context, orderID int64, reference string, actorID int64) (*model.Order, error) {
	var updated *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		lo, err := lockForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if lo.paymentType != model.PaymentTypePlan {
			return domainErrors.ErrNotPaymentPlan
		}
		if lo.received >= lo.planMonths {
			return domainErrors.ErrPlanExhausted
		}
		if lo.status != model.OrderStatusPending && lo.status != model.OrderStatusApproved {
			return domainErrors.NewInvalidState("record-installment", string(lo.status))
		}

		n := lo.received + 1
		amount := model.InstallmentAmount(lo.totalAmount, lo.planMonths, n)

		const insertPayment = `INSERT INTO payments (order_id, reference, amount) VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, insertPayment, orderID, reference, amount); err != nil {
			return err
		}

		complete := n == lo.planMonths
		status := lo.status
		if complete && status == model.OrderStatusPending {
			// Final-payment auto-approval.
			status = model.OrderStatusApproved
			const history = `INSERT INTO order_status_history (order_id, from_status, to_status, reason, actor_id)
                             VALUES ($1, $2, $3, $4, $5)`
			if _, err := tx.Exec(ctx, history, orderID, model.OrderStatusPending, model.OrderStatusApproved, "final installment received", actorID); err != nil {
				return err
			}
		}

		const update = `UPDATE orders SET payments_received=$1, payment_complete=$2, status=$3, updated_at=NOW() WHERE id=$4`
		if _, err := tx.Exec(ctx, update, n, complete, status, orderID); err != nil {
			return err
		}

		updated, err = loadOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *orderRepository) RecordImmediatePayment(ctx context.Context, orderID int64, reference string, actorID int64) (*model.Order, error) {
	var updated *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		lo, err := lockForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if lo.paymentType != model.PaymentTypeImmediate {
			return domainErrors.NewValidation("paymentType", "order is on a payment plan")
		}
		if lo.paymentComplete {
			return domainErrors.ErrAlreadyExists
		}
		if lo.status != model.OrderStatusPending {
			return domainErrors.NewInvalidState("confirm-payment", string(lo.status))
		}

		const insertPayment = `INSERT INTO payments (order_id, reference, amount) VALUES ($1, $2, $3)`
		if _, err := tx.Exec(ctx, insertPayment, orderID, reference, lo.totalAmount); err != nil {
			return err
		}

		const update = `UPDATE orders SET payment_complete=TRUE, updated_at=NOW() WHERE id=$1`
		if _, err := tx.Exec(ctx, update, orderID); err != nil {
			return err
		}

		updated, err = loadOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *orderRepository) MarkFinal(ctx context.Context, orderID int64) (*model.Order, error) {
	var updated *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const update = `UPDATE orders SET is_marked_final=TRUE, updated_at=NOW()
                        WHERE id=$1 AND status=$2 AND is_marked_final=FALSE`
		tag, err := tx.Exec(ctx, update, orderID, model.OrderStatusPending)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			var (
				current model.OrderStatus
				final   bool
			)
			err := tx.QueryRow(ctx, `SELECT status, is_marked_final FROM orders WHERE id=$1`, orderID).Scan(&current, &final)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domainErrors.ErrNotFound
				}
				return err
			}
			if final {
				return domainErrors.ErrItemsFinal
			}
			return domainErrors.NewInvalidState("mark-final", string(current))
		}

		updated, err = loadOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ensureEditable locks the order and verifies items may still be mutated.
func ensureEditable(ctx context.Context, tx pgx.Tx, orderID int64, op string) (*lockedOrder, error) {
	lo, err := lockForUpdate(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if lo.markedFinal {
		return nil, domainErrors.ErrItemsFinal
	}
	if lo.status != model.OrderStatusPending {
		return nil, domainErrors.NewInvalidState(op, string(lo.status))
	}
	return lo, nil
}

// recomputeTotals refreshes total_amount (and the plan instalment) from line items.
func recomputeTotals(ctx context.Context, tx pgx.Tx, orderID int64, lo *lockedOrder) error {
	const update = `UPDATE orders
                    SET total_amount = COALESCE((SELECT SUM(subtotal) FROM order_items WHERE order_id=$1), 0),
                        updated_at = NOW()
                    WHERE id=$1
                    RETURNING total_amount`
	var total decimal.Decimal
	if err := tx.QueryRow(ctx, update, orderID).Scan(&total); err != nil {
		return err
	}

	if lo.paymentType == model.PaymentTypePlan && lo.planMonths > 0 {
		monthly, _ := model.InstallmentSchedule(total, lo.planMonths)
		if _, err := tx.Exec(ctx, `UPDATE orders SET monthly_instalment=$1 WHERE id=$2`, monthly, orderID); err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) AddItem(ctx context.Context, orderID int64, item model.LineItem) (*model.Order, error) {
	var updated *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		lo, err := ensureEditable(ctx, tx, orderID, "add-item")
		if err != nil {
			return err
		}

		subtotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		const insert = `INSERT INTO order_items (order_id, stationery_ref, description, quantity, price, subtotal)
                        VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := tx.Exec(ctx, insert, orderID, item.StationeryRef, item.Description, item.Quantity, item.Price, subtotal); err != nil {
			return err
		}

		if err := recomputeTotals(ctx, tx, orderID, lo); err != nil {
			return err
		}
		updated, err = loadOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *orderRepository) UpdateItemQuantity(ctx context.Context, orderID, itemID int64, quantity int) (*model.Order, error) {
	var updated *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		lo, err := ensureEditable(ctx, tx, orderID, "update-item")
		if err != nil {
			return err
		}

		const update = `UPDATE order_items SET quantity=$1, subtotal=price*$1 WHERE id=$2 AND order_id=$3`
		tag, err := tx.Exec(ctx, update, quantity, itemID, orderID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}

		if err := recomputeTotals(ctx, tx, orderID, lo); err != nil {
			return err
		}
		updated, err = loadOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *orderRepository) RemoveItem(ctx context.Context, orderID, itemID int64) (*model.Order, error) {
	var updated *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		lo, err := ensureEditable(ctx, tx, orderID, "remove-item")
		if err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM order_items WHERE id=$1 AND order_id=$2`, itemID, orderID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrNotFound
		}

		if err := recomputeTotals(ctx, tx, orderID, lo); err != nil {
			return err
		}
		updated, err = loadOrder(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *orderRepository) History(ctx context.Context, orderID int64) ([]model.StatusChange, error) {
	const query = `SELECT id, order_id, from_status, to_status, reason, actor_id, changed_at
                   FROM order_status_history WHERE order_id=$1 ORDER BY changed_at, id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StatusChange
	for rows.Next() {
		var sc model.StatusChange
		if err := rows.Scan(&sc.ID, &sc.OrderID, &sc.FromStatus, &sc.ToStatus, &sc.Reason, &sc.ActorID, &sc.ChangedAt); err != nil {
			return nil, err
		}
		result = append(result, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Payments(ctx context.Context, orderID int64) ([]model.Payment, error) {
	const query = `SELECT id, order_id, reference, amount, recorded_at
                   FROM payments WHERE order_id=$1 ORDER BY recorded_at, id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Reference, &p.Amount, &p.RecordedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Stats(ctx context.Context) (*model.OrderStats, error) {
	const byStatus = `SELECT status, COUNT(*), COALESCE(SUM(total_amount), 0) FROM orders GROUP BY status`
	rows, err := r.storage.pool.Query(ctx, byStatus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := &model.OrderStats{
		ByStatus:        make(map[model.OrderStatus]int64),
		OrderedAmount:   decimal.Zero,
		CollectedAmount: decimal.Zero,
	}
	for rows.Next() {
		var (
			status model.OrderStatus
			count  int64
			sum    decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.TotalOrders += count
		switch status {
		case model.OrderStatusCancelled, model.OrderStatusDeclined, model.OrderStatusReturned:
		default:
			stats.OrderedAmount = stats.OrderedAmount.Add(sum)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const collected = `SELECT COALESCE(SUM(amount), 0) FROM payments`
	if err := r.storage.pool.QueryRow(ctx, collected).Scan(&stats.CollectedAmount); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *orderRepository) Delete(ctx context.Context, orderID int64) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}
