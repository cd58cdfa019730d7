package wizard

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/evdealer-wizard/internal/domain/customer"
)

// SetCustomer replaces the customer draft.
func (w *Wizard) SetCustomer(d customer.Draft) error {
	return w.editCustomer(func(c *customer.Draft) { *c = d })
}

// SetName sets the customer name.
func (w *Wizard) SetName(name string) error {
	return w.editCustomer(func(c *customer.Draft) { c.Name = name })
}

// SetPhone sets the customer phone without a lookup. See LookupPhone.
func (w *Wizard) SetPhone(phone string) error {
	return w.editCustomer(func(c *customer.Draft) { c.Phone = phone })
}

// SetEmail sets the customer email.
func (w *Wizard) SetEmail(email string) error {
	return w.editCustomer(func(c *customer.Draft) { c.Email = email })
}

func (w *Wizard) editCustomer(fn func(c *customer.Draft)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.st.Step != StepCustomerInfo {
		return ErrWrongStep
	}
	fn(&w.st.Customer)
	w.st.dropStaleCustomer()
	return nil
}

// LookupResult describes what LookupPhone did.
type LookupResult struct {
	// Found is set when a stored customer was adopted into the draft.
	Found    bool
	Customer customer.Customer
	// Skipped is set when the phone was too short to look up.
	Skipped bool
	// Stale is set when the answer arrived after the phone or step changed
	// and was dropped.
	Stale  bool
	Failed Ignorable
}

// LookupPhone sets the phone and, once it reaches the lookup length, asks the
// backend for a stored customer with that phone. A hit overwrites name and
// email and records the customer id. A customer id resolved for another
// phone is dropped while no order exists. Misses and failures never block the
// flow. Concurrent lookups for the same phone share one request.
func (w *Wizard) LookupPhone(ctx context.Context, phone string) (LookupResult, error) {
	var gen uint64
	w.mu.Lock()
	switch {
	case w.closed:
		w.mu.Unlock()
		return LookupResult{}, ErrClosed
	case w.st.Step != StepCustomerInfo:
		w.mu.Unlock()
		return LookupResult{}, ErrWrongStep
	}
	w.st.Customer.Phone = phone
	w.st.dropStaleCustomer()
	gen = w.gen
	w.mu.Unlock()

	phone = strings.TrimSpace(phone)
	if customer.PhoneDigits(phone) < w.minLookupLen {
		return LookupResult{Skipped: true}, nil
	}

	ctx, span := w.startSpan(ctx, "LookupPhone")
	defer span.End()

	v, err, _ := w.lookups.Do(phone, func() (any, error) {
		return w.customers.FindByPhone(ctx, phone)
	})
	if errors.Is(err, customer.ErrNotFound) {
		w.lg.Debug("No customer for phone", zap.String("phone", phone))
		return LookupResult{}, nil
	}
	if err != nil {
		return LookupResult{Failed: w.ignore(ctx, "lookup_phone", err)}, nil
	}
	found := v.(*customer.Customer)
	if found == nil {
		return LookupResult{}, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	// A save in flight owns the customer fields until it finishes.
	if w.closed || w.gen != gen || w.busy.Load() || w.st.Step != StepCustomerInfo ||
		strings.TrimSpace(w.st.Customer.Phone) != phone {
		w.lg.Debug("Dropping stale phone lookup", zap.String("phone", phone))
		return LookupResult{Stale: true}, nil
	}
	w.st.Customer.Name = found.Name
	w.st.Customer.Email = found.Email
	w.st.bindCustomer(found.ID, phone)
	return LookupResult{Found: true, Customer: *found}, nil
}

// Customers lists the customers stored on the backend.
func (w *Wizard) Customers(ctx context.Context) ([]customer.Customer, error) {
	ctx, span := w.startSpan(ctx, "Customers")
	defer span.End()

	list, err := w.customers.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	return list, nil
}

// PickCustomer adopts a stored customer as the customer of this order.
func (w *Wizard) PickCustomer(c customer.Customer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.st.Step != StepCustomerInfo {
		return ErrWrongStep
	}
	w.st.Customer = c.Draft()
	w.st.bindCustomer(c.ID, c.Phone)
	return nil
}

// resolveCustomer saves the customer draft and makes sure a draft order
// exists. A known customer id is updated in place, otherwise a customer is
// created. The id is kept as soon as the backend assigns it so a failed
// order creation retries with an update.
func (w *Wizard) resolveCustomer(ctx context.Context) error {
	st := w.snapshot()
	draft := st.Customer.Trimmed()
	if err := customer.Validate(draft); err != nil {
		return err
	}

	customerID := st.CustomerID
	if customerID != 0 {
		if err := w.customers.Update(ctx, customerID, draft); err != nil {
			return errors.Wrap(err, "update customer")
		}
		if err := w.commit(func(s *State) { s.bindCustomer(customerID, draft.Phone) }); err != nil {
			return err
		}
	} else {
		id, err := w.customers.Create(ctx, draft)
		if err != nil {
			return errors.Wrap(err, "create customer")
		}
		customerID = id
		if err := w.commit(func(s *State) { s.bindCustomer(id, draft.Phone) }); err != nil {
			return err
		}
		w.lg.Info("Customer created", zap.Int64("customer_id", id))
	}

	if st.OrderID != 0 {
		return nil
	}
	orderID, err := w.orders.CreateDraft(ctx, customerID)
	if err != nil {
		return errors.Wrap(err, "create draft order")
	}
	w.lg.Info("Draft order created",
		zap.Int64("order_id", orderID),
		zap.Int64("customer_id", customerID),
	)
	return w.commit(func(s *State) { s.OrderID = orderID })
}
