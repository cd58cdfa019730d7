package wizard

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/xenking/evdealer-wizard/internal/domain/order"
)

// SubmitResult describes a submitted order.
type SubmitResult struct {
	OrderID int64
	Status  order.Status
	// StatusUpdate holds the failure of the status change, if any. The order
	// counts as submitted either way.
	StatusUpdate Ignorable
}

// Submit finalizes the order and resets the wizard for the next customer.
//
// Before any backend call it checks the customer fields, the cart, the
// payment method and the order id, in that order. The first failing check
// moves the wizard to the step that fixes it and returns a
// *PreconditionError.
func (w *Wizard) Submit(ctx context.Context) (res SubmitResult, err error) {
	release, err := w.begin()
	if err != nil {
		return SubmitResult{}, err
	}
	defer release()

	ctx, span := w.startSpan(ctx, "Submit")
	defer func() { finishSpan(span, err) }()

	st := w.snapshot()
	if perr := preconditions(st); perr != nil {
		if err := w.commit(func(*State) { w.setStepLocked(perr.Step) }); err != nil {
			return SubmitResult{}, err
		}
		if err := w.enter(ctx, perr.Step, false); err != nil {
			w.ignore(ctx, "enter_step", err)
		}
		return SubmitResult{}, perr
	}

	status := order.StatusForPayment(st.PaymentMethod)
	span.SetAttributes(
		attribute.Int64("order.id", st.OrderID),
		attribute.String("order.status", string(status)),
	)
	res = SubmitResult{OrderID: st.OrderID, Status: status}
	if err := w.orders.UpdateStatus(ctx, st.OrderID, status); err != nil {
		res.StatusUpdate = w.ignore(ctx, "update_status", err)
	}

	if err := w.commit(func(*State) { w.resetLocked() }); err != nil {
		return SubmitResult{}, err
	}
	w.metrics.submitted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("payment_method", string(st.PaymentMethod)),
	))
	w.lg.Info("Order submitted",
		zap.Int64("order_id", st.OrderID),
		zap.String("status", string(status)),
		zap.Int("items", len(st.Cart)),
	)
	return res, nil
}

func preconditions(st State) *PreconditionError {
	switch {
	case !st.Customer.Complete():
		return &PreconditionError{Step: StepCustomerInfo, Message: "customer name, phone and email are required"}
	case len(st.Cart) == 0:
		return &PreconditionError{Step: StepVehicleSelection, Message: "add at least one vehicle"}
	case st.PaymentMethod == "":
		return &PreconditionError{Step: StepPayment, Message: "choose a payment method"}
	case st.OrderID == 0:
		return &PreconditionError{Step: StepCustomerInfo, Message: "the order has not been created"}
	default:
		return nil
	}
}
