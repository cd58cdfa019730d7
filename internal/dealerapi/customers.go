package dealerapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/evdealer-wizard/internal/domain/customer"
)

var _ customer.Repository = (*CustomerRepository)(nil)

// CustomerRepository implements customer.Repository over the backend.
type CustomerRepository struct {
	c *Client
}

// NewCustomerRepository creates a CustomerRepository.
func NewCustomerRepository(c *Client) *CustomerRepository {
	return &CustomerRepository{c: c}
}

// Create stores a new customer and returns its id.
func (r *CustomerRepository) Create(ctx context.Context, draft customer.Draft) (int64, error) {
	var id int64
	err := r.c.do(ctx, http.MethodPost, "/api/customers", encodeCustomer(draft), func(d *jx.Decoder) (err error) {
		id, err = decodeID(d, "customerId")
		return err
	})
	if err != nil {
		return 0, errors.Wrap(customerError(err), "create customer")
	}
	return id, nil
}

// Update replaces the fields of customer id.
func (r *CustomerRepository) Update(ctx context.Context, id int64, draft customer.Draft) error {
	path := "/api/customers/" + strconv.FormatInt(id, 10)
	if err := r.c.do(ctx, http.MethodPut, path, encodeCustomer(draft), nil); err != nil {
		return errors.Wrapf(customerError(err), "update customer %d", id)
	}
	return nil
}

// FindByPhone returns the customer with the given phone or
// customer.ErrNotFound.
func (r *CustomerRepository) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	var (
		c     customer.Customer
		found bool
	)
	err := r.c.do(ctx, http.MethodGet, "/api/customers/phone/"+url.PathEscape(phone), nil, func(d *jx.Decoder) (err error) {
		if d.Next() == jx.Null {
			return d.Null()
		}
		c, err = decodeCustomer(d)
		found = err == nil
		return err
	})
	if isNotFound(err) {
		return nil, customer.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find customer by phone")
	}
	if !found || c.ID == 0 {
		return nil, customer.ErrNotFound
	}
	return &c, nil
}

// List returns every customer.
func (r *CustomerRepository) List(ctx context.Context) ([]customer.Customer, error) {
	var out []customer.Customer
	err := r.c.do(ctx, http.MethodGet, "/api/customers", nil, func(d *jx.Decoder) error {
		return decodeList(d, func(d *jx.Decoder) error {
			c, err := decodeCustomer(d)
			if err != nil {
				return err
			}
			out = append(out, c)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	return out, nil
}
