package wizard

import (
	"context"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/xenking/evdealer-wizard/internal/domain/catalog"
	"github.com/xenking/evdealer-wizard/internal/domain/customer"
	"github.com/xenking/evdealer-wizard/internal/domain/order"
	"github.com/xenking/evdealer-wizard/internal/domain/promotion"
)

// --- Mock backend ---

// fakeBackend implements every repository the wizard uses. It records the
// calls it receives and keeps order details so rehydration can be checked.
type fakeBackend struct {
	mu sync.Mutex

	calls []string

	nextCustomerID int64
	nextOrderID    int64
	nextDetailID   int64

	customers  map[string]customer.Customer
	details    map[int64][]order.Detail
	vehicles   []catalog.Vehicle
	promotions []promotion.Promotion

	promotionSet map[int64]*int64
	paymentSet   map[int64]order.PaymentMethod
	statusSet    map[int64]order.Status
	summary      *order.Summary

	createCustomerErr error
	updateCustomerErr error
	findErr           error
	createOrderErr    error
	addDetailErr      error
	deleteDetailErr   error
	updateQtyErr      error
	listDetailsErr    error
	listVehiclesErr   error
	listPromotionsErr error
	setPromotionErr   error
	setPaymentErr     error
	updateStatusErr   error
	summaryErr        error

	// findGate, when set, blocks FindByPhone until it is closed.
	findGate chan struct{}
	// addGate, when set, blocks AddDetail until it is closed.
	addGate chan struct{}
	started chan struct{}
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextCustomerID: 100,
		nextOrderID:    500,
		nextDetailID:   900,
		customers:      make(map[string]customer.Customer),
		details:        make(map[int64][]order.Detail),
		vehicles:       testVehicles(),
		promotionSet:   make(map[int64]*int64),
		paymentSet:     make(map[int64]order.PaymentMethod),
		statusSet:      make(map[int64]order.Status),
	}
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) Create(_ context.Context, d customer.Draft) (int64, error) {
	f.record("customer.Create")
	if f.createCustomerErr != nil {
		return 0, f.createCustomerErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextCustomerID++
	f.customers[d.Phone] = customer.Customer{ID: f.nextCustomerID, Name: d.Name, Phone: d.Phone, Email: d.Email}
	return f.nextCustomerID, nil
}

func (f *fakeBackend) Update(_ context.Context, id int64, d customer.Draft) error {
	f.record("customer.Update")
	if f.updateCustomerErr != nil {
		return f.updateCustomerErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers[d.Phone] = customer.Customer{ID: id, Name: d.Name, Phone: d.Phone, Email: d.Email}
	return nil
}

func (f *fakeBackend) FindByPhone(_ context.Context, phone string) (*customer.Customer, error) {
	f.record("customer.FindByPhone")
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.findGate != nil {
		<-f.findGate
	}
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[phone]
	if !ok {
		return nil, customer.ErrNotFound
	}
	return &c, nil
}

func (f *fakeBackend) List(_ context.Context) ([]customer.Customer, error) {
	f.record("customer.List")
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]customer.Customer, 0, len(f.customers))
	for _, c := range f.customers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeBackend) CreateDraft(_ context.Context, _ int64) (int64, error) {
	f.record("order.CreateDraft")
	if f.createOrderErr != nil {
		return 0, f.createOrderErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextOrderID++
	return f.nextOrderID, nil
}

func (f *fakeBackend) AddDetail(_ context.Context, req order.DetailRequest) (int64, error) {
	f.record("order.AddDetail")
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.addGate != nil {
		<-f.addGate
	}
	if f.addDetailErr != nil {
		return 0, f.addDetailErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextDetailID++
	f.details[req.OrderID] = append(f.details[req.OrderID], order.Detail{
		ID:          f.nextDetailID,
		OrderID:     req.OrderID,
		ModelName:   req.ModelName,
		VariantName: req.VariantName,
		ColorName:   req.ColorName,
		Quantity:    req.Quantity,
	})
	return f.nextDetailID, nil
}

func (f *fakeBackend) DeleteDetail(_ context.Context, detailID int64) error {
	f.record("order.DeleteDetail")
	if f.deleteDetailErr != nil {
		return f.deleteDetailErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for orderID, list := range f.details {
		for i, d := range list {
			if d.ID == detailID {
				f.details[orderID] = append(list[:i:i], list[i+1:]...)
				return nil
			}
		}
	}
	return errors.New("detail not found")
}

func (f *fakeBackend) UpdateDetailQuantity(_ context.Context, detailID int64, quantity int) error {
	f.record("order.UpdateDetailQuantity")
	if f.updateQtyErr != nil {
		return f.updateQtyErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, list := range f.details {
		for i := range list {
			if list[i].ID == detailID {
				list[i].Quantity = quantity
				return nil
			}
		}
	}
	return errors.New("detail not found")
}

func (f *fakeBackend) ListDetails(_ context.Context, orderID int64) ([]order.Detail, error) {
	f.record("order.ListDetails")
	if f.listDetailsErr != nil {
		return nil, f.listDetailsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]order.Detail(nil), f.details[orderID]...), nil
}

func (f *fakeBackend) SetPromotion(_ context.Context, orderID int64, promotionID *int64) error {
	f.record("order.SetPromotion")
	if f.setPromotionErr != nil {
		return f.setPromotionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.promotionSet[orderID] = promotionID
	return nil
}

func (f *fakeBackend) SetPaymentMethod(_ context.Context, orderID int64, method order.PaymentMethod) error {
	f.record("order.SetPaymentMethod")
	if f.setPaymentErr != nil {
		return f.setPaymentErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paymentSet[orderID] = method
	return nil
}

func (f *fakeBackend) UpdateStatus(_ context.Context, orderID int64, status order.Status) error {
	f.record("order.UpdateStatus")
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusSet[orderID] = status
	return nil
}

func (f *fakeBackend) Summary(_ context.Context, orderID int64) (*order.Summary, error) {
	f.record("order.Summary")
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	if f.summary != nil {
		s := *f.summary
		s.OrderID = orderID
		return &s, nil
	}
	return &order.Summary{OrderID: orderID, Status: order.StatusDraft}, nil
}

func (f *fakeBackend) ListVehicles(_ context.Context) ([]catalog.Vehicle, error) {
	f.record("catalog.ListVehicles")
	if f.listVehiclesErr != nil {
		return nil, f.listVehiclesErr
	}
	return f.vehicles, nil
}

func (f *fakeBackend) ListForDealer(_ context.Context) ([]promotion.Promotion, error) {
	f.record("promotion.ListForDealer")
	if f.listPromotionsErr != nil {
		return nil, f.listPromotionsErr
	}
	return f.promotions, nil
}

// --- Helpers ---

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func testVehicles() []catalog.Vehicle {
	return []catalog.Vehicle{
		{
			ModelID:     1,
			ModelName:   "VF 8",
			VariantID:   11,
			VariantName: "Plus",
			Price:       d("1000000000"),
			ColorPrices: map[string]decimal.Decimal{"White": d("1020000000")},
			DealerPrices: []catalog.DealerPrice{
				{Color: "Red", Price: d("1090000000"), Stock: 2},
			},
		},
		{
			ModelID:     2,
			ModelName:   "VF 3",
			VariantID:   21,
			VariantName: "Base",
			Price:       d("300000000"),
		},
	}
}

var testCustomer = customer.Draft{
	Name:  "Nguyen Van An",
	Phone: "0901234567",
	Email: "an@example.com",
}

func newTestWizard(t *testing.T, f *fakeBackend) *Wizard {
	t.Helper()
	w, err := New(Config{}, f, f, f, f)
	require.NoError(t, err)
	return w
}

// advanceTo fills in the customer, adds one vehicle and moves forward until
// the wizard is at step.
func advanceTo(t *testing.T, w *Wizard, step Step) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, w.SetCustomer(testCustomer))
	for w.Step() < step {
		if w.Step() == StepVehicleSelection && len(w.State().Cart) == 0 {
			_, err := w.AddLineItem(ctx, testVehicles()[0], "Red", 1)
			require.NoError(t, err)
		}
		require.NoError(t, w.Next(ctx))
	}
	require.Equal(t, step, w.Step())
}
