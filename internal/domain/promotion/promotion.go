package promotion

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Type enumerates the supported promotion discount strategies.
type Type string

const (
	// TypePercentage subtracts a percentage of the subtotal.
	TypePercentage Type = "PERCENTAGE"
	// TypeFixed subtracts a flat amount.
	TypeFixed Type = "FIXED_AMOUNT"
)

// ParseType normalizes the spellings the backend uses for promotion types.
// Unknown spellings are returned upper-cased and unchanged.
func ParseType(s string) Type {
	switch v := strings.ToUpper(strings.TrimSpace(s)); v {
	case "PERCENTAGE", "PERCENT", "PERCENT_OFF":
		return TypePercentage
	case "FIXED_AMOUNT", "FIXED", "AMOUNT":
		return TypeFixed
	default:
		return Type(v)
	}
}

// Status is the activation state of a promotion.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Promotion is a discount rule offered by a dealer.
type Promotion struct {
	ID          int64
	Name        string
	Description string
	Type        Type
	Value       decimal.Decimal
	StartDate   *time.Time
	EndDate     *time.Time
	Status      Status
}

// Applicable reports whether the promotion is active and inside its validity
// window at now. The end date is inclusive for the whole day.
func (p Promotion) Applicable(now time.Time) bool {
	if p.Status != "" && p.Status != StatusActive {
		return false
	}
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && now.After(endOfDay(*p.EndDate)) {
		return false
	}
	return true
}

// Filter returns the promotions applicable at now, keeping their order.
func Filter(promos []Promotion, now time.Time) []Promotion {
	out := make([]Promotion, 0, len(promos))
	for _, p := range promos {
		if p.Applicable(now) {
			out = append(out, p)
		}
	}
	return out
}

func endOfDay(t time.Time) time.Time {
	if t.Hour() != 0 || t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0 {
		return t
	}
	return t.Add(24*time.Hour - time.Nanosecond)
}

// Repository provides the promotions available to the current dealer.
type Repository interface {
	ListForDealer(ctx context.Context) ([]Promotion, error)
}
