package wizard

import (
	"slices"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/xenking/evdealer-wizard/internal/domain/catalog"
	"github.com/xenking/evdealer-wizard/internal/domain/customer"
	"github.com/xenking/evdealer-wizard/internal/domain/order"
	"github.com/xenking/evdealer-wizard/internal/domain/promotion"
)

// LineItem is one vehicle entry of the cart. It mirrors a backend order
// detail identified by OrderDetailID; zero marks a local-only entry.
type LineItem struct {
	Vehicle       catalog.Ref
	Color         string
	Quantity      int
	UnitPrice     decimal.Decimal
	OrderDetailID int64
}

// Total returns unit price times quantity.
func (l LineItem) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// State is a snapshot of the wizard. Identifiers are zero until the backend
// assigns them.
type State struct {
	Step          Step
	Customer      customer.Draft
	CustomerID    int64
	OrderID       int64
	Cart          []LineItem
	Promotion     *promotion.Promotion
	PaymentMethod order.PaymentMethod
	// Summary is fetched when entering the confirmation step.
	Summary *order.Summary

	Vehicles         []catalog.Vehicle
	Promotions       []promotion.Promotion
	CatalogLoaded    bool
	PromotionsLoaded bool

	// customerPhone holds the digits of the phone CustomerID was resolved for.
	customerPhone string
}

func initialState() State {
	return State{Step: StepCustomerInfo}
}

// clone returns a copy that shares no mutable memory with s.
func (s State) clone() State {
	c := s
	c.Cart = slices.Clone(s.Cart)
	c.Vehicles = make([]catalog.Vehicle, len(s.Vehicles))
	for i, v := range s.Vehicles {
		c.Vehicles[i] = v.Clone()
	}
	c.Promotions = slices.Clone(s.Promotions)
	if s.Promotion != nil {
		p := *s.Promotion
		c.Promotion = &p
	}
	if s.Summary != nil {
		sum := *s.Summary
		sum.Items = slices.Clone(s.Summary.Items)
		c.Summary = &sum
	}
	return c
}

// bindCustomer records id as the stored customer owning phone.
func (s *State) bindCustomer(id int64, phone string) {
	s.CustomerID = id
	s.customerPhone = phoneKey(phone)
}

// dropStaleCustomer forgets CustomerID when the draft phone no longer
// matches the phone it was resolved for. Once a draft order exists the
// customer is the order's customer and edits update that record.
func (s *State) dropStaleCustomer() {
	if s.CustomerID == 0 || s.OrderID != 0 {
		return
	}
	if phoneKey(s.Customer.Phone) != s.customerPhone {
		s.CustomerID = 0
		s.customerPhone = ""
	}
}

func phoneKey(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

// subtotal sums the cart lines.
func (s State) subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range s.Cart {
		sum = sum.Add(item.Total())
	}
	return sum
}

// canAdvance evaluates the forward guard of the current step.
func (s State) canAdvance() bool {
	switch s.Step {
	case StepCustomerInfo:
		return s.Customer.Complete()
	case StepVehicleSelection:
		return len(s.Cart) > 0
	case StepPromotion, StepPayment:
		return true
	default:
		return false
	}
}
