// Package lifecycle declares the order state machine: which operation moves
// an order from which statuses to which target, and who may invoke it. The
// same table answers both "apply this transition" and "which actions should
// a client offer right now", so no caller re-derives the rules.
package lifecycle

import (
	domainErrors "github.com/anyschool/order-service/internal/domain/errors"
	"github.com/anyschool/order-service/internal/domain/model"
)

// Operation names a requested state-machine action.
type Operation string

const (
	OpApprove           Operation = "approve"
	OpDecline           Operation = "decline"
	OpAcknowledge       Operation = "acknowledge"
	OpStartProcessing   Operation = "start-processing"
	OpVerifyPayment     Operation = "verify-payment"
	OpSendForDelivery   Operation = "send-for-delivery"
	OpMarkDelivered     Operation = "mark-delivered"
	OpClose             Operation = "close"
	OpCancel            Operation = "cancel"
	OpReturn            Operation = "return"
	OpRecordInstallment Operation = "record-installment"
	OpMarkFinal         Operation = "mark-final"
)

// rule describes one row of the transition table.
type rule struct {
	from        []model.OrderStatus
	to          model.OrderStatus
	roles       []model.Role
	ownerOnly   bool
	needsReason bool
	// keepStatus marks operations that mutate the order without moving it
	// along the graph (installments, finalizing items).
	keepStatus bool
}

var rules = map[Operation]rule{
	OpApprove: {
		from:  []model.OrderStatus{model.OrderStatusPending, model.OrderStatusAcknowledged},
		to:    model.OrderStatusApproved,
		roles: []model.Role{model.RoleSuperAdmin},
	},
	OpDecline: {
		from:        []model.OrderStatus{model.OrderStatusPending, model.OrderStatusAcknowledged},
		to:          model.OrderStatusDeclined,
		roles:       []model.Role{model.RoleSuperAdmin},
		needsReason: true,
	},
	OpAcknowledge: {
		from:  []model.OrderStatus{model.OrderStatusApproved},
		to:    model.OrderStatusAcknowledged,
		roles: []model.Role{model.RolePurchasingAdmin},
	},
	OpStartProcessing: {
		from:  []model.OrderStatus{model.OrderStatusAcknowledged},
		to:    model.OrderStatusInProcess,
		roles: []model.Role{model.RolePurchasingAdmin},
	},
	OpVerifyPayment: {
		from:  []model.OrderStatus{model.OrderStatusInProcess},
		to:    model.OrderStatusFinalizing,
		roles: []model.Role{model.RolePurchasingAdmin},
	},
	OpSendForDelivery: {
		from:  []model.OrderStatus{model.OrderStatusFinalizing},
		to:    model.OrderStatusOutForDelivery,
		roles: []model.Role{model.RolePurchasingAdmin},
	},
	OpMarkDelivered: {
		from:  []model.OrderStatus{model.OrderStatusOutForDelivery},
		to:    model.OrderStatusDelivered,
		roles: []model.Role{model.RolePurchasingAdmin},
	},
	OpClose: {
		from:  []model.OrderStatus{model.OrderStatusDelivered},
		to:    model.OrderStatusClosed,
		roles: []model.Role{model.RolePurchasingAdmin},
	},
	OpCancel: {
		from:      []model.OrderStatus{model.OrderStatusPending},
		to:        model.OrderStatusCancelled,
		ownerOnly: true,
	},
	OpReturn: {
		from:        []model.OrderStatus{model.OrderStatusPending},
		to:          model.OrderStatusReturned,
		roles:       []model.Role{model.RolePurchasingAdmin},
		needsReason: true,
	},
	OpRecordInstallment: {
		from:       []model.OrderStatus{model.OrderStatusPending, model.OrderStatusApproved},
		roles:      []model.Role{model.RolePurchasingAdmin},
		keepStatus: true,
	},
	OpMarkFinal: {
		from:       []model.OrderStatus{model.OrderStatusPending},
		roles:      []model.Role{model.RolePurchasingAdmin},
		ownerOnly:  true,
		keepStatus: true,
	},
}

// operationOrder fixes a stable listing order for projections.
var operationOrder = []Operation{
	OpApprove, OpDecline, OpAcknowledge, OpStartProcessing, OpVerifyPayment,
	OpSendForDelivery, OpMarkDelivered, OpClose, OpCancel, OpReturn,
	OpRecordInstallment, OpMarkFinal,
}

var terminal = map[model.OrderStatus]bool{
	model.OrderStatusClosed:    true,
	model.OrderStatusCancelled: true,
	model.OrderStatusDeclined:  true,
	model.OrderStatusReturned:  true,
}

// Known reports whether op is a declared operation.
func Known(op Operation) bool {
	_, ok := rules[op]
	return ok
}

// Terminal reports whether no further transition is permitted from s.
func Terminal(s model.OrderStatus) bool { return terminal[s] }

// ValidStatus reports whether s belongs to the declared state set.
func ValidStatus(s model.OrderStatus) bool {
	switch s {
	case model.OrderStatusPending, model.OrderStatusApproved,
		model.OrderStatusAcknowledged, model.OrderStatusInProcess,
		model.OrderStatusFinalizing, model.OrderStatusOutForDelivery,
		model.OrderStatusDelivered, model.OrderStatusClosed,
		model.OrderStatusCancelled, model.OrderStatusDeclined,
		model.OrderStatusReturned:
		return true
	}
	return false
}

// Target returns the status op moves an order to. Operations that keep the
// current status return it unchanged.
func Target(op Operation, current model.OrderStatus) model.OrderStatus {
	r, ok := rules[op]
	if !ok || r.keepStatus {
		return current
	}
	return r.to
}

// NeedsReason reports whether op requires a non-empty reason string.
func NeedsReason(op Operation) bool { return rules[op].needsReason }

// CheckStatus validates that op admits the order's current status.
func CheckStatus(op Operation, current model.OrderStatus) error {
	r, ok := rules[op]
	if !ok {
		return domainErrors.NewInvalidState(string(op), string(current))
	}
	for _, s := range r.from {
		if s == current {
			return nil
		}
	}
	return domainErrors.NewInvalidState(string(op), string(current))
}

// CheckActor validates the caller's role/ownership against op's rule.
// Owner-only operations accept the owner regardless of role; operations
// listing roles accept any of them, and for rules that carry both the
// owner and the listed roles qualify.
func CheckActor(op Operation, role model.Role, isOwner bool) error {
	r, ok := rules[op]
	if !ok {
		return domainErrors.ErrUnauthorized
	}
	if r.ownerOnly && isOwner {
		return nil
	}
	for _, allowed := range r.roles {
		if role == allowed {
			return nil
		}
	}
	return domainErrors.ErrUnauthorized
}

// Available projects the operations the given caller could invoke on an
// order in its current state. Installments are only offered for payment
// plans that still have outstanding months.
func Available(order *model.Order, role model.Role, isOwner bool) []Operation {
	if order == nil {
		return nil
	}
	var ops []Operation
	for _, op := range operationOrder {
		if CheckStatus(op, order.Status) != nil {
			continue
		}
		if CheckActor(op, role, isOwner) != nil {
			continue
		}
		if op == OpRecordInstallment {
			if order.PaymentType != model.PaymentTypePlan || order.PaymentsReceived >= order.PaymentPlanMonths {
				continue
			}
		}
		if op == OpMarkFinal && order.IsMarkedFinal {
			continue
		}
		ops = append(ops, op)
	}
	return ops
}
