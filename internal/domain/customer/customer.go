package customer

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when no customer matches a lookup.
var ErrNotFound = errors.New("customer not found")

// Customer is a server-side customer record.
type Customer struct {
	ID    int64
	Name  string
	Phone string
	Email string
}

// Draft holds the customer fields being edited before the record is saved.
type Draft struct {
	Name  string
	Phone string
	Email string
}

// Complete reports whether every field of the draft is non-empty.
func (d Draft) Complete() bool {
	return strings.TrimSpace(d.Name) != "" &&
		strings.TrimSpace(d.Phone) != "" &&
		strings.TrimSpace(d.Email) != ""
}

// Trimmed returns the draft with surrounding whitespace removed.
func (d Draft) Trimmed() Draft {
	return Draft{
		Name:  strings.TrimSpace(d.Name),
		Phone: strings.TrimSpace(d.Phone),
		Email: strings.TrimSpace(d.Email),
	}
}

// Draft returns the editable fields of a stored customer.
func (c Customer) Draft() Draft {
	return Draft{Name: c.Name, Phone: c.Phone, Email: c.Email}
}

// Repository provides customer persistence on the dealer backend.
type Repository interface {
	Create(ctx context.Context, d Draft) (int64, error)
	Update(ctx context.Context, id int64, d Draft) error
	FindByPhone(ctx context.Context, phone string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
}
