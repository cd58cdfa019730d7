package wizard

import (
	"context"
	"slices"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/xenking/evdealer-wizard/internal/domain/catalog"
	"github.com/xenking/evdealer-wizard/internal/domain/order"
)

// AddLineItem prices the vehicle in the given color, creates the order detail
// on the backend and appends the line to the cart.
func (w *Wizard) AddLineItem(ctx context.Context, v catalog.Vehicle, color string, quantity int) (item LineItem, err error) {
	release, err := w.begin()
	if err != nil {
		return LineItem{}, err
	}
	defer release()

	orderID := w.snapshot().OrderID
	if orderID == 0 {
		return LineItem{}, ErrNoOrder
	}
	if quantity < 1 {
		return LineItem{}, ErrInvalidQuantity
	}
	price, err := catalog.ResolveUnitPrice(v, color)
	if err != nil {
		return LineItem{}, err
	}

	ctx, span := w.startSpan(ctx, "AddLineItem")
	defer func() { finishSpan(span, err) }()
	span.SetAttributes(
		attribute.Int64("order.id", orderID),
		attribute.Int64("vehicle.variant_id", v.VariantID),
	)

	detailID, err := w.orders.AddDetail(ctx, order.DetailRequest{
		OrderID:     orderID,
		ModelName:   v.ModelName,
		VariantName: v.VariantName,
		ColorName:   color,
		Quantity:    quantity,
	})
	if err != nil {
		return LineItem{}, errors.Wrap(err, "add order detail")
	}

	item = LineItem{
		Vehicle:       v.Ref(),
		Color:         color,
		Quantity:      quantity,
		UnitPrice:     price,
		OrderDetailID: detailID,
	}
	if err := w.commit(func(s *State) {
		s.Cart = append(s.Cart, item)
	}); err != nil {
		return LineItem{}, err
	}
	w.lg.Debug("Line item added",
		zap.Int64("order_id", orderID),
		zap.Int64("detail_id", detailID),
		zap.String("vehicle", v.DisplayName()),
		zap.String("color", color),
		zap.Int("quantity", quantity),
	)
	return item, nil
}

// RemoveLineItem removes the cart line at index. Lines stored on the backend
// are deleted there first, which returns their stock.
func (w *Wizard) RemoveLineItem(ctx context.Context, index int) (err error) {
	release, err := w.begin()
	if err != nil {
		return err
	}
	defer release()

	cart := w.snapshot().Cart
	if index < 0 || index >= len(cart) {
		return ErrNoSuchItem
	}
	target := cart[index]

	if target.OrderDetailID != 0 {
		ctx, span := w.startSpan(ctx, "RemoveLineItem")
		err = w.orders.DeleteDetail(ctx, target.OrderDetailID)
		finishSpan(span, err)
		if err != nil {
			return errors.Wrap(err, "delete order detail")
		}
	}

	return w.commit(func(s *State) {
		if i := findLine(s.Cart, target, index); i >= 0 {
			s.Cart = slices.Delete(s.Cart, i, i+1)
		}
	})
}

// UpdateQuantity changes the quantity of the cart line at index. Lines stored
// on the backend are updated there first.
func (w *Wizard) UpdateQuantity(ctx context.Context, index, quantity int) (err error) {
	release, err := w.begin()
	if err != nil {
		return err
	}
	defer release()

	if quantity < 1 {
		return ErrInvalidQuantity
	}
	cart := w.snapshot().Cart
	if index < 0 || index >= len(cart) {
		return ErrNoSuchItem
	}
	target := cart[index]

	if target.OrderDetailID != 0 {
		ctx, span := w.startSpan(ctx, "UpdateQuantity")
		err = w.orders.UpdateDetailQuantity(ctx, target.OrderDetailID, quantity)
		finishSpan(span, err)
		if err != nil {
			return errors.Wrap(err, "update order detail quantity")
		}
	}

	return w.commit(func(s *State) {
		if i := findLine(s.Cart, target, index); i >= 0 {
			s.Cart[i].Quantity = quantity
		}
	})
}

// Subtotal returns the sum of unit price times quantity over the cart.
func (w *Wizard) Subtotal() decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.st.subtotal()
}

// findLine locates target in cart. Stored lines are matched by detail id,
// local lines by their position.
func findLine(cart []LineItem, target LineItem, index int) int {
	if target.OrderDetailID != 0 {
		return slices.IndexFunc(cart, func(l LineItem) bool {
			return l.OrderDetailID == target.OrderDetailID
		})
	}
	if index < len(cart) && cart[index].OrderDetailID == 0 {
		return index
	}
	return -1
}
