package wizard

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/evdealer-wizard/internal/domain/order"
	"github.com/xenking/evdealer-wizard/internal/domain/promotion"
)

// Promotions returns the applicable promotions loaded for the dealer.
func (w *Wizard) Promotions() []promotion.Promotion {
	return w.snapshot().Promotions
}

// SelectPromotion applies p to the order, or clears the promotion when p is
// nil. The choice is sent to the backend on every call and mirrored locally
// only when the backend accepted it.
func (w *Wizard) SelectPromotion(ctx context.Context, p *promotion.Promotion) (err error) {
	release, err := w.begin()
	if err != nil {
		return err
	}
	defer release()

	orderID := w.snapshot().OrderID
	if orderID == 0 {
		return ErrNoOrder
	}

	ctx, span := w.startSpan(ctx, "SelectPromotion")
	defer func() { finishSpan(span, err) }()

	var promotionID *int64
	if p != nil {
		id := p.ID
		promotionID = &id
	}
	if err := w.orders.SetPromotion(ctx, orderID, promotionID); err != nil {
		return errors.Wrap(err, "set promotion")
	}

	return w.commit(func(s *State) {
		if p == nil {
			s.Promotion = nil
			return
		}
		selected := *p
		s.Promotion = &selected
	})
}

// SetPaymentMethod records the payment method locally. It is sent to the
// backend when leaving the payment step.
func (w *Wizard) SetPaymentMethod(m order.PaymentMethod) error {
	if m != order.PaymentFull {
		return ErrUnsupportedPayment
	}
	return w.commit(func(s *State) {
		s.PaymentMethod = m
	})
}

// pushPaymentMethod sends the payment method to the backend, choosing full
// payment when none was picked.
func (w *Wizard) pushPaymentMethod(ctx context.Context) error {
	st := w.snapshot()
	if st.OrderID == 0 {
		return ErrNoOrder
	}
	method := st.PaymentMethod
	if method == "" {
		method = order.PaymentFull
	}
	if err := w.orders.SetPaymentMethod(ctx, st.OrderID, method); err != nil {
		return errors.Wrap(err, "set payment method")
	}
	w.lg.Debug("Payment method set",
		zap.Int64("order_id", st.OrderID),
		zap.String("method", string(method)),
	)
	return w.commit(func(s *State) {
		s.PaymentMethod = method
	})
}

// Totals returns the order totals. At the confirmation step they come from
// the backend summary, elsewhere they are a local preview.
func (w *Wizard) Totals() promotion.Totals {
	st := w.snapshot()
	if st.Step == StepConfirmation && st.Summary != nil {
		return promotion.Totals{
			Subtotal: st.Summary.Subtotal,
			Discount: st.Summary.Discount,
			Total:    st.Summary.Total,
		}
	}
	return promotion.Preview(st.subtotal(), st.Promotion)
}
