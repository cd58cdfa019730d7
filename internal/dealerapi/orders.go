package dealerapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/evdealer-wizard/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository over the backend.
type OrderRepository struct {
	c *Client
}

// NewOrderRepository creates an OrderRepository.
func NewOrderRepository(c *Client) *OrderRepository {
	return &OrderRepository{c: c}
}

func orderPath(id int64, suffix string) string {
	return "/api/orders/" + strconv.FormatInt(id, 10) + suffix
}

func detailPath(id int64, suffix string) string {
	return "/api/order-details/" + strconv.FormatInt(id, 10) + suffix
}

// CreateDraft opens a draft order for customerID and returns its id.
func (r *OrderRepository) CreateDraft(ctx context.Context, customerID int64) (int64, error) {
	body := encodeFields(field{"customerId", customerID})
	var id int64
	err := r.c.do(ctx, http.MethodPost, "/api/orders", body, func(d *jx.Decoder) (err error) {
		id, err = decodeID(d, "orderId")
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "create order")
	}
	return id, nil
}

// AddDetail creates a line item and returns its id.
func (r *OrderRepository) AddDetail(ctx context.Context, req order.DetailRequest) (int64, error) {
	body := encodeFields(
		field{"orderId", req.OrderID},
		field{"modelName", req.ModelName},
		field{"variantName", req.VariantName},
		field{"colorName", req.ColorName},
		field{"quantity", req.Quantity},
	)
	var id int64
	err := r.c.do(ctx, http.MethodPost, "/api/order-details", body, func(d *jx.Decoder) (err error) {
		id, err = decodeID(d, "orderDetailId")
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "create order detail")
	}
	return id, nil
}

// DeleteDetail removes a line item. The backend returns its stock.
func (r *OrderRepository) DeleteDetail(ctx context.Context, detailID int64) error {
	if err := r.c.do(ctx, http.MethodDelete, detailPath(detailID, ""), nil, nil); err != nil {
		return errors.Wrapf(err, "delete order detail %d", detailID)
	}
	return nil
}

// UpdateDetailQuantity changes the quantity of a line item.
func (r *OrderRepository) UpdateDetailQuantity(ctx context.Context, detailID int64, quantity int) error {
	body := encodeFields(field{"quantity", quantity})
	if err := r.c.do(ctx, http.MethodPut, detailPath(detailID, "/quantity"), body, nil); err != nil {
		return errors.Wrapf(err, "update order detail %d quantity", detailID)
	}
	return nil
}

// ListDetails returns the line items of an order.
func (r *OrderRepository) ListDetails(ctx context.Context, orderID int64) ([]order.Detail, error) {
	var out []order.Detail
	path := "/api/order-details/order/" + strconv.FormatInt(orderID, 10)
	err := r.c.do(ctx, http.MethodGet, path, nil, func(d *jx.Decoder) error {
		return decodeList(d, func(d *jx.Decoder) error {
			item, err := decodeDetail(d)
			if err != nil {
				return err
			}
			if item.OrderID == 0 {
				item.OrderID = orderID
			}
			out = append(out, item)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "list order %d details", orderID)
	}
	return out, nil
}

// SetPromotion applies promotionID to the order. Nil removes the promotion.
func (r *OrderRepository) SetPromotion(ctx context.Context, orderID int64, promotionID *int64) error {
	body := encodeFields(field{"promotionId", promotionID})
	if err := r.c.do(ctx, http.MethodPut, orderPath(orderID, "/promotion"), body, nil); err != nil {
		return errors.Wrapf(err, "set order %d promotion", orderID)
	}
	return nil
}

// SetPaymentMethod records the payment method of the order.
func (r *OrderRepository) SetPaymentMethod(ctx context.Context, orderID int64, method order.PaymentMethod) error {
	body := encodeFields(field{"paymentMethod", string(method)})
	if err := r.c.do(ctx, http.MethodPut, orderPath(orderID, "/payment-method"), body, nil); err != nil {
		return errors.Wrapf(err, "set order %d payment method", orderID)
	}
	return nil
}

// UpdateStatus moves the order to status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, orderID int64, status order.Status) error {
	body := encodeFields(field{"status", string(status)})
	if err := r.c.do(ctx, http.MethodPut, orderPath(orderID, "/status"), body, nil); err != nil {
		return errors.Wrapf(err, "update order %d status", orderID)
	}
	return nil
}

// Summary returns the authoritative view of the order.
func (r *OrderRepository) Summary(ctx context.Context, orderID int64) (*order.Summary, error) {
	var sum *order.Summary
	err := r.c.do(ctx, http.MethodGet, orderPath(orderID, "/summary"), nil, func(d *jx.Decoder) (err error) {
		sum, err = decodeSummary(d)
		return err
	})
	if err != nil {
		return nil, errors.Wrapf(err, "get order %d summary", orderID)
	}
	if sum == nil {
		return nil, errors.Errorf("order %d summary is empty", orderID)
	}
	if sum.OrderID == 0 {
		sum.OrderID = orderID
	}
	return sum, nil
}
