// Package wizard implements the dealer order-creation workflow: customer
// resolution, vehicle line items, promotion, payment method and submission.
//
// The backend owns every record. The wizard mirrors server responses into a
// transient State and never changes that state unless the matching backend
// call succeeded. Only one mutating operation runs at a time; a concurrent
// call fails fast with ErrBusy.
package wizard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/xenking/evdealer-wizard/internal/domain/catalog"
	"github.com/xenking/evdealer-wizard/internal/domain/customer"
	"github.com/xenking/evdealer-wizard/internal/domain/order"
	"github.com/xenking/evdealer-wizard/internal/domain/promotion"
)

// DefaultPhoneLookupMinDigits is the phone length that triggers a lookup.
const DefaultPhoneLookupMinDigits = 10

// Config holds non-dependency configuration for the Wizard.
type Config struct {
	// PhoneLookupMinDigits is the digit count at which LookupPhone queries
	// the backend. Zero means DefaultPhoneLookupMinDigits.
	PhoneLookupMinDigits int
	Logger               *zap.Logger
	TracerProvider       trace.TracerProvider
	MeterProvider        metric.MeterProvider
}

type metrics struct {
	submitted metric.Int64Counter
	ignored   metric.Int64Counter
}

// Wizard drives one order-creation session.
type Wizard struct {
	customers customer.Repository
	orders    order.Repository
	vehicles  catalog.Repository
	promos    promotion.Repository

	lg           *zap.Logger
	tracer       trace.Tracer
	metrics      metrics
	now          func() time.Time
	minLookupLen int

	busy    atomic.Bool
	lookups singleflight.Group

	mu     sync.Mutex
	st     State
	gen    uint64
	closed bool
}

// New creates a Wizard at the customer step with empty state.
func New(
	cfg Config,
	customers customer.Repository,
	orders order.Repository,
	vehicles catalog.Repository,
	promos promotion.Repository,
) (*Wizard, error) {
	lg := cfg.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := cfg.MeterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	minLen := cfg.PhoneLookupMinDigits
	if minLen <= 0 {
		minLen = DefaultPhoneLookupMinDigits
	}

	meter := mp.Meter("github.com/xenking/evdealer-wizard/internal/wizard")
	submitted, err := meter.Int64Counter("wizard.orders.submitted",
		metric.WithDescription("Orders submitted through the wizard"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create submitted counter")
	}
	ignored, err := meter.Int64Counter("wizard.ignored_failures",
		metric.WithDescription("Best-effort calls that failed and were ignored"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create ignored counter")
	}

	return &Wizard{
		customers:    customers,
		orders:       orders,
		vehicles:     vehicles,
		promos:       promos,
		lg:           lg,
		tracer:       tp.Tracer("github.com/xenking/evdealer-wizard/internal/wizard"),
		metrics:      metrics{submitted: submitted, ignored: ignored},
		now:          time.Now,
		minLookupLen: minLen,
		st:           initialState(),
	}, nil
}

// State returns a snapshot of the current state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.st.clone()
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.st.Step
}

// Close marks the wizard as gone. Responses arriving afterwards are dropped
// and every further operation returns ErrClosed.
func (w *Wizard) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	w.gen++
}

// Reset abandons the session and returns to an empty customer step. Records
// already created on the backend are left as they are.
func (w *Wizard) Reset() error {
	release, err := w.begin()
	if err != nil {
		return err
	}
	defer release()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.resetLocked()
	return nil
}

// begin claims the in-flight slot for a mutating operation.
func (w *Wizard) begin() (release func(), err error) {
	w.mu.Lock()
	closed := w.closed
	w.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	if !w.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	return func() { w.busy.Store(false) }, nil
}

// Busy reports whether an operation is in flight.
func (w *Wizard) Busy() bool {
	return w.busy.Load()
}

// setStepLocked moves to step and invalidates pending best-effort responses.
func (w *Wizard) setStepLocked(step Step) {
	if w.st.Step != step {
		w.lg.Debug("Step changed",
			zap.Stringer("from", w.st.Step),
			zap.Stringer("to", step),
		)
	}
	w.st.Step = step
	w.gen++
}

func (w *Wizard) resetLocked() {
	w.st = initialState()
	w.gen++
}

// commit applies fn to the state unless the wizard was closed meanwhile.
func (w *Wizard) commit(fn func(st *State)) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	fn(&w.st)
	return nil
}

func (w *Wizard) snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.st.clone()
}

func (w *Wizard) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return w.tracer.Start(ctx, "wizard."+name)
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
