package order

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/xenking/evdealer-wizard/internal/domain/customer"
)

// Status is the lifecycle state of an order on the dealer backend.
type Status string

const (
	// StatusDraft is the unconfirmed state of an order being assembled.
	StatusDraft Status = "DRAFT"
	// StatusPendingPayment waits for a direct payment.
	StatusPendingPayment Status = "PENDING_PAYMENT"
	// StatusPendingInstallment waits for an installment contract.
	StatusPendingInstallment Status = "PENDING_INSTALLMENT"
	StatusPaid               Status = "PAID"
	StatusDelivered          Status = "DELIVERED"
	StatusCancelled          Status = "CANCELLED"
)

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	// PaymentFull is a single direct payment.
	PaymentFull PaymentMethod = "FULL_PAYMENT"
	// PaymentInstallment spreads the payment over an installment plan.
	PaymentInstallment PaymentMethod = "INSTALLMENT"
)

// StatusForPayment returns the status a submitted order takes for the given
// payment method.
func StatusForPayment(m PaymentMethod) Status {
	if m == PaymentInstallment {
		return StatusPendingInstallment
	}
	return StatusPendingPayment
}

// DetailRequest describes a line item to attach to an order.
type DetailRequest struct {
	OrderID     int64
	ModelName   string
	VariantName string
	ColorName   string
	Quantity    int
}

// Detail is a line item stored on the backend.
type Detail struct {
	ID          int64
	OrderID     int64
	VariantID   int64
	ModelName   string
	VariantName string
	ColorName   string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Dealer is the dealer snapshot carried by an order summary.
type Dealer struct {
	Name    string
	Address string
	Phone   string
}

// Summary is the authoritative view of an order used for confirmation.
type Summary struct {
	OrderID       int64
	Status        Status
	Customer      customer.Customer
	Dealer        Dealer
	Items         []Detail
	PromotionName string
	PaymentMethod PaymentMethod
	Subtotal      decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
}

// Repository provides order and order-detail operations on the dealer backend.
type Repository interface {
	CreateDraft(ctx context.Context, customerID int64) (int64, error)
	AddDetail(ctx context.Context, req DetailRequest) (int64, error)
	DeleteDetail(ctx context.Context, detailID int64) error
	UpdateDetailQuantity(ctx context.Context, detailID int64, quantity int) error
	ListDetails(ctx context.Context, orderID int64) ([]Detail, error)
	SetPromotion(ctx context.Context, orderID int64, promotionID *int64) error
	SetPaymentMethod(ctx context.Context, orderID int64, method PaymentMethod) error
	UpdateStatus(ctx context.Context, orderID int64, status Status) error
	Summary(ctx context.Context, orderID int64) (*Summary, error)
}
