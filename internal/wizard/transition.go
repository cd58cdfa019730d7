package wizard

import (
	"context"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/evdealer-wizard/internal/domain/catalog"
	"github.com/xenking/evdealer-wizard/internal/domain/order"
	"github.com/xenking/evdealer-wizard/internal/domain/promotion"
)

// CanAdvance reports whether the current step's forward guard holds.
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.st.canAdvance()
}

// Next advances one step. The exit work of the current step and the entry
// loads of the next one must succeed first; on any failure the step is
// unchanged. Leaving the customer step saves the customer and opens a draft
// order, leaving the payment step pushes the payment method.
func (w *Wizard) Next(ctx context.Context) (err error) {
	release, err := w.begin()
	if err != nil {
		return err
	}
	defer release()

	ctx, span := w.startSpan(ctx, "Next")
	defer func() { finishSpan(span, err) }()

	st := w.snapshot()
	span.SetAttributes(attribute.Int("wizard.step", int(st.Step)))
	if !st.canAdvance() {
		return ErrCannotAdvance
	}

	switch st.Step {
	case StepCustomerInfo:
		if err := w.resolveCustomer(ctx); err != nil {
			return err
		}
	case StepPayment:
		if err := w.pushPaymentMethod(ctx); err != nil {
			return err
		}
	}

	target := st.Step + 1
	if err := w.enter(ctx, target, false); err != nil {
		return err
	}

	return w.commit(func(*State) {
		w.setStepLocked(target)
	})
}

// Prev goes back one step. It has no guard and does not undo anything saved
// on the backend. The entry loads of the previous step run after the move;
// if they fail the move stands and the error is returned, and Refresh can
// retry the loads.
func (w *Wizard) Prev(ctx context.Context) (err error) {
	release, err := w.begin()
	if err != nil {
		return err
	}
	defer release()

	ctx, span := w.startSpan(ctx, "Prev")
	defer func() { finishSpan(span, err) }()

	var target Step
	if err := w.commit(func(st *State) {
		if st.Step > StepCustomerInfo {
			w.setStepLocked(st.Step - 1)
		}
		target = st.Step
	}); err != nil {
		return err
	}
	return w.enter(ctx, target, false)
}

// Refresh reloads the data of the current step from the backend, including
// data that was already loaded.
func (w *Wizard) Refresh(ctx context.Context) (err error) {
	release, err := w.begin()
	if err != nil {
		return err
	}
	defer release()

	ctx, span := w.startSpan(ctx, "Refresh")
	defer func() { finishSpan(span, err) }()

	return w.enter(ctx, w.Step(), true)
}

// enter performs the entry loads of step and stores their results. Nothing is
// stored unless every load of the step succeeded.
func (w *Wizard) enter(ctx context.Context, step Step, force bool) error {
	switch step {
	case StepVehicleSelection:
		return w.enterVehicleSelection(ctx, force)
	case StepPromotion:
		return w.enterPromotion(ctx, force)
	case StepConfirmation:
		return w.enterConfirmation(ctx)
	default:
		return nil
	}
}

// enterVehicleSelection loads the catalog once and rebuilds the cart from the
// order details stored on the backend every time the step is entered.
func (w *Wizard) enterVehicleSelection(ctx context.Context, force bool) error {
	st := w.snapshot()
	needCatalog := force || !st.CatalogLoaded

	var (
		vehicles = st.Vehicles
		details  []order.Detail
	)
	g, gctx := errgroup.WithContext(ctx)
	if needCatalog {
		g.Go(func() error {
			list, err := w.vehicles.ListVehicles(gctx)
			if err != nil {
				return errors.Wrap(err, "load vehicles")
			}
			vehicles = list
			return nil
		})
	}
	if st.OrderID != 0 {
		g.Go(func() error {
			list, err := w.orders.ListDetails(gctx, st.OrderID)
			if err != nil {
				return errors.Wrap(err, "load order details")
			}
			details = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return w.commit(func(s *State) {
		if needCatalog {
			s.Vehicles = vehicles
			s.CatalogLoaded = true
		}
		if st.OrderID != 0 && s.OrderID == st.OrderID {
			s.Cart = w.cartFromDetails(details, vehicles)
		}
	})
}

// cartFromDetails converts backend order details into cart lines. Details
// without a stored unit price are priced from the catalog.
func (w *Wizard) cartFromDetails(details []order.Detail, vehicles []catalog.Vehicle) []LineItem {
	cart := make([]LineItem, 0, len(details))
	for _, d := range details {
		item := LineItem{
			Vehicle: catalog.Ref{
				VariantID:   d.VariantID,
				ModelName:   d.ModelName,
				VariantName: d.VariantName,
			},
			Color:         d.ColorName,
			Quantity:      d.Quantity,
			UnitPrice:     d.UnitPrice,
			OrderDetailID: d.ID,
		}
		if v, ok := catalog.Find(vehicles, d.ModelName, d.VariantName); ok {
			if item.Vehicle.VariantID == 0 {
				item.Vehicle.VariantID = v.VariantID
			}
			if !item.UnitPrice.IsPositive() {
				if price, err := catalog.ResolveUnitPrice(v, d.ColorName); err == nil {
					item.UnitPrice = price
				} else {
					w.lg.Debug("Cannot price order detail", zap.Int64("detail_id", d.ID), zap.Error(err))
				}
			}
		}
		cart = append(cart, item)
	}
	return cart
}

func (w *Wizard) enterPromotion(ctx context.Context, force bool) error {
	if !force && w.snapshot().PromotionsLoaded {
		return nil
	}

	list, err := w.promos.ListForDealer(ctx)
	if err != nil {
		return errors.Wrap(err, "load promotions")
	}
	applicable := promotion.Filter(list, w.now())

	return w.commit(func(s *State) {
		s.Promotions = applicable
		s.PromotionsLoaded = true
	})
}

func (w *Wizard) enterConfirmation(ctx context.Context) error {
	orderID := w.snapshot().OrderID
	if orderID == 0 {
		return ErrNoOrder
	}

	sum, err := w.orders.Summary(ctx, orderID)
	if err != nil {
		return errors.Wrap(err, "load order summary")
	}

	return w.commit(func(s *State) {
		s.Summary = sum
	})
}
