package lifecycle

import (
	"errors"
	"testing"

	domainErrors "github.com/anyschool/order-service/internal/domain/errors"
	"github.com/anyschool/order-service/internal/domain/model"
)

func TestHappyPathTraversesEveryStatus(t *testing.T) {
	steps := []struct {
		op   Operation
		role model.Role
		want model.OrderStatus
	}{
		{OpApprove, model.RoleSuperAdmin, model.OrderStatusApproved},
		{OpAcknowledge, model.RolePurchasingAdmin, model.OrderStatusAcknowledged},
		{OpStartProcessing, model.RolePurchasingAdmin, model.OrderStatusInProcess},
		{OpVerifyPayment, model.RolePurchasingAdmin, model.OrderStatusFinalizing},
		{OpSendForDelivery, model.RolePurchasingAdmin, model.OrderStatusOutForDelivery},
		{OpMarkDelivered, model.RolePurchasingAdmin, model.OrderStatusDelivered},
		{OpClose, model.RolePurchasingAdmin, model.OrderStatusClosed},
	}

	current := model.OrderStatusPending
	for _, step := range steps {
		if err := CheckStatus(step.op, current); err != nil {
			t.Fatalf("%s from %s: unexpected error %v", step.op, current, err)
		}
		if err := CheckActor(step.op, step.role, false); err != nil {
			t.Fatalf("%s as %s: unexpected error %v", step.op, step.role, err)
		}
		current = Target(step.op, current)
		if current != step.want {
			t.Fatalf("%s: expected %s, got %s", step.op, step.want, current)
		}
	}
	if !Terminal(current) {
		t.Fatalf("expected %s to be terminal", current)
	}
}

func TestCheckStatusRejectsSkippedStages(t *testing.T) {
	cases := []struct {
		op      Operation
		current model.OrderStatus
	}{
		{OpAcknowledge, model.OrderStatusPending},
		{OpStartProcessing, model.OrderStatusPending},
		{OpStartProcessing, model.OrderStatusApproved},
		{OpVerifyPayment, model.OrderStatusAcknowledged},
		{OpClose, model.OrderStatusOutForDelivery},
		{OpCancel, model.OrderStatusInProcess},
		{OpReturn, model.OrderStatusDelivered},
		{OpApprove, model.OrderStatusClosed},
		{OpAcknowledge, model.OrderStatusAcknowledged},
	}
	for _, tc := range cases {
		err := CheckStatus(tc.op, tc.current)
		if err == nil {
			t.Fatalf("%s from %s: expected error", tc.op, tc.current)
		}
		var ise *domainErrors.InvalidStateError
		if !errors.As(err, &ise) {
			t.Fatalf("%s from %s: expected InvalidStateError, got %v", tc.op, tc.current, err)
		}
		if ise.Current != string(tc.current) {
			t.Fatalf("expected current status %s in error, got %s", tc.current, ise.Current)
		}
		if !errors.Is(err, domainErrors.ErrInvalidState) {
			t.Fatalf("expected error to unwrap to ErrInvalidState")
		}
	}
}

func TestApproveAndDeclineShareSources(t *testing.T) {
	for _, op := range []Operation{OpApprove, OpDecline} {
		for _, from := range []model.OrderStatus{model.OrderStatusPending, model.OrderStatusAcknowledged} {
			if err := CheckStatus(op, from); err != nil {
				t.Fatalf("%s from %s: unexpected error %v", op, from, err)
			}
		}
		if err := CheckStatus(op, model.OrderStatusInProcess); err == nil {
			t.Fatalf("%s from IN_PROCESS: expected error", op)
		}
	}
}

func TestDeclineRequiresReason(t *testing.T) {
	if !NeedsReason(OpDecline) {
		t.Fatalf("decline must require a reason")
	}
	if !NeedsReason(OpReturn) {
		t.Fatalf("return must require a reason")
	}
	if NeedsReason(OpApprove) {
		t.Fatalf("approve must not require a reason")
	}
	if NeedsReason(OpCancel) {
		t.Fatalf("cancel must not require a reason")
	}
}

func TestCheckActorEnforcesRoles(t *testing.T) {
	cases := []struct {
		op      Operation
		role    model.Role
		isOwner bool
		ok      bool
	}{
		{OpApprove, model.RoleSuperAdmin, false, true},
		{OpApprove, model.RolePurchasingAdmin, false, false},
		{OpApprove, model.RoleParent, true, false},
		{OpAcknowledge, model.RolePurchasingAdmin, false, true},
		{OpAcknowledge, model.RoleParent, true, false},
		{OpCancel, model.RoleParent, true, true},
		{OpCancel, model.RoleDonor, true, true},
		{OpCancel, model.RoleParent, false, false},
		{OpCancel, model.RoleSuperAdmin, false, false},
		{OpReturn, model.RolePurchasingAdmin, false, true},
		{OpReturn, model.RoleParent, true, false},
		{OpMarkFinal, model.RoleParent, true, true},
		{OpMarkFinal, model.RolePurchasingAdmin, false, true},
		{OpMarkFinal, model.RoleDonor, false, false},
		{OpRecordInstallment, model.RolePurchasingAdmin, false, true},
		{OpRecordInstallment, model.RoleParent, true, false},
	}
	for _, tc := range cases {
		err := CheckActor(tc.op, tc.role, tc.isOwner)
		if tc.ok && err != nil {
			t.Fatalf("%s as %s (owner=%v): unexpected error %v", tc.op, tc.role, tc.isOwner, err)
		}
		if !tc.ok && !errors.Is(err, domainErrors.ErrUnauthorized) {
			t.Fatalf("%s as %s (owner=%v): expected ErrUnauthorized, got %v", tc.op, tc.role, tc.isOwner, err)
		}
	}
}

func TestTerminalStatusesAdmitNothing(t *testing.T) {
	for _, s := range []model.OrderStatus{
		model.OrderStatusClosed, model.OrderStatusCancelled,
		model.OrderStatusDeclined, model.OrderStatusReturned,
	} {
		if !Terminal(s) {
			t.Fatalf("expected %s to be terminal", s)
		}
		for op := range rules {
			if err := CheckStatus(op, s); err == nil {
				t.Fatalf("%s admits terminal status %s", op, s)
			}
		}
	}
}

func TestTargetKeepsStatusForLedgerOperations(t *testing.T) {
	if got := Target(OpRecordInstallment, model.OrderStatusPending); got != model.OrderStatusPending {
		t.Fatalf("record-installment must not move the order, got %s", got)
	}
	if got := Target(OpMarkFinal, model.OrderStatusPending); got != model.OrderStatusPending {
		t.Fatalf("mark-final must not move the order, got %s", got)
	}
	if got := Target(OpApprove, model.OrderStatusPending); got != model.OrderStatusApproved {
		t.Fatalf("approve target mismatch: %s", got)
	}
}

func TestValidStatus(t *testing.T) {
	if !ValidStatus(model.OrderStatusOutForDelivery) {
		t.Fatalf("OUT_FOR_DELIVERY must be valid")
	}
	if ValidStatus("SHIPPED") {
		t.Fatalf("unknown status must be invalid")
	}
}

func TestKnown(t *testing.T) {
	if !Known(OpVerifyPayment) {
		t.Fatalf("verify-payment must be known")
	}
	if Known("explode") {
		t.Fatalf("unknown operation reported as known")
	}
}

func TestAvailableForOwnerOnPendingOrder(t *testing.T) {
	order := &model.Order{
		Status:            model.OrderStatusPending,
		PaymentType:       model.PaymentTypePlan,
		PaymentPlanMonths: 3,
	}
	got := Available(order, model.RoleParent, true)
	want := []Operation{OpCancel, OpMarkFinal}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestAvailableForPurchasingAdmin(t *testing.T) {
	order := &model.Order{
		Status:            model.OrderStatusPending,
		PaymentType:       model.PaymentTypePlan,
		PaymentPlanMonths: 3,
		PaymentsReceived:  1,
	}
	got := Available(order, model.RolePurchasingAdmin, false)
	want := []Operation{OpReturn, OpRecordInstallment, OpMarkFinal}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestAvailableHidesExhaustedPlanAndFinalItems(t *testing.T) {
	order := &model.Order{
		Status:            model.OrderStatusPending,
		PaymentType:       model.PaymentTypePlan,
		PaymentPlanMonths: 2,
		PaymentsReceived:  2,
		IsMarkedFinal:     true,
	}
	got := Available(order, model.RolePurchasingAdmin, false)
	want := []Operation{OpReturn}
	if len(got) != 1 || got[0] != want[0] {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestAvailableHidesInstallmentsForImmediateOrders(t *testing.T) {
	order := &model.Order{
		Status:      model.OrderStatusApproved,
		PaymentType: model.PaymentTypeImmediate,
	}
	for _, op := range Available(order, model.RolePurchasingAdmin, false) {
		if op == OpRecordInstallment {
			t.Fatalf("record-installment offered for an immediate order")
		}
	}
}

func TestAvailableOnTerminalOrderIsEmpty(t *testing.T) {
	order := &model.Order{Status: model.OrderStatusCancelled}
	if got := Available(order, model.RoleSuperAdmin, true); len(got) != 0 {
		t.Fatalf("expected no operations on a cancelled order, got %v", got)
	}
	if got := Available(nil, model.RoleSuperAdmin, true); got != nil {
		t.Fatalf("expected nil for nil order, got %v", got)
	}
}
