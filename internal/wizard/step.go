package wizard

import "fmt"

// Step is a position in the five-step order workflow.
type Step int

const (
	StepCustomerInfo Step = iota + 1
	StepVehicleSelection
	StepPromotion
	StepPayment
	StepConfirmation
)

// Steps lists every step in order.
var Steps = []Step{StepCustomerInfo, StepVehicleSelection, StepPromotion, StepPayment, StepConfirmation}

func (s Step) String() string {
	switch s {
	case StepCustomerInfo:
		return "Customer information"
	case StepVehicleSelection:
		return "Vehicle selection"
	case StepPromotion:
		return "Promotion"
	case StepPayment:
		return "Payment"
	case StepConfirmation:
		return "Confirmation"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}
