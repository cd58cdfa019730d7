package wizard

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	// ErrBusy is returned when an operation starts while another one is still
	// in flight.
	ErrBusy = errors.New("another operation is in progress")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("wizard is closed")
	// ErrCannotAdvance is returned when the current step's guard is unmet.
	ErrCannotAdvance = errors.New("current step is incomplete")
	// ErrWrongStep is returned for edits outside the step that owns them.
	ErrWrongStep = errors.New("not allowed at the current step")
	// ErrNoOrder is returned for order mutations before a draft order exists.
	ErrNoOrder = errors.New("no order yet: confirm the customer first")
	// ErrNoSuchItem is returned for an out-of-range cart index.
	ErrNoSuchItem = errors.New("no such line item")
	// ErrInvalidQuantity is returned for quantities below one.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrUnsupportedPayment is returned for payment methods this wizard does not offer.
	ErrUnsupportedPayment = errors.New("payment method is not supported")
)

// PreconditionError is returned by Submit when a step still needs attention.
// The wizard has already moved to Step.
type PreconditionError struct {
	Step    Step
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Step, e.Message)
}
