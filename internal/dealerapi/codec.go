package dealerapi

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/evdealer-wizard/internal/domain/catalog"
	"github.com/xenking/evdealer-wizard/internal/domain/customer"
	"github.com/xenking/evdealer-wizard/internal/domain/order"
	"github.com/xenking/evdealer-wizard/internal/domain/promotion"
)

// Backend payloads are not strict about types: ids and amounts arrive as
// numbers or strings, optional fields as null. The decoders below accept
// both.

func decodeLooseString(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.Null:
		return "", d.Null()
	case jx.String:
		return d.Str()
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return "", err
		}
		return n.String(), nil
	case jx.Bool:
		b, err := d.Bool()
		if err != nil {
			return "", err
		}
		if b {
			return "true", nil
		}
		return "false", nil
	default:
		return "", d.Skip()
	}
}

func decodeInt64(d *jx.Decoder) (int64, error) {
	switch d.Next() {
	case jx.Null:
		return 0, d.Null()
	case jx.String:
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		if s == "" {
			return 0, nil
		}
		v, err := decimal.NewFromString(s)
		if err != nil {
			return 0, errors.Wrapf(err, "parse integer %q", s)
		}
		return v.IntPart(), nil
	default:
		return d.Int64()
	}
}

func decodeInt(d *jx.Decoder) (int, error) {
	v, err := decodeInt64(d)
	return int(v), err
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	s, err := decodeLooseString(d)
	if err != nil {
		return decimal.Zero, err
	}
	if s == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse amount %q", s)
	}
	return v, nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

func decodeTime(d *jx.Decoder) (*time.Time, error) {
	s, err := decodeLooseString(d)
	if err != nil || s == "" {
		return nil, err
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, errors.Errorf("parse time %q", s)
}

// decodeID reads the id field named key from an object such as
// {"customerId": 12}. A bare number is accepted too.
func decodeID(d *jx.Decoder, key string) (int64, error) {
	if d.Next() != jx.Object {
		return decodeInt64(d)
	}
	var id int64
	err := d.Obj(func(d *jx.Decoder, k string) error {
		if k != key && k != "id" {
			return d.Skip()
		}
		v, err := decodeInt64(d)
		if err != nil {
			return errors.Wrap(err, k)
		}
		if id == 0 || k == key {
			id = v
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errors.Errorf("response has no %s", key)
	}
	return id, nil
}

// decodeList reads an array of items, or a page object carrying them under
// "content", "data" or "items".
func decodeList(d *jx.Decoder, item func(d *jx.Decoder) error) error {
	switch d.Next() {
	case jx.Null:
		return d.Null()
	case jx.Array:
		return d.Arr(item)
	case jx.Object:
		return d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "content", "data", "items":
				return decodeList(d, item)
			default:
				return d.Skip()
			}
		})
	default:
		return errors.Errorf("expected list, got %s", d.Next())
	}
}

func decodeCustomer(d *jx.Decoder) (customer.Customer, error) {
	var c customer.Customer
	err := d.Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "customerId", "id":
			c.ID, err = decodeInt64(d)
		case "name", "fullName", "customerName":
			c.Name, err = decodeLooseString(d)
		case "phone", "phoneNumber":
			c.Phone, err = decodeLooseString(d)
		case "email":
			c.Email, err = decodeLooseString(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return c, err
}

func decodeDetail(d *jx.Decoder) (order.Detail, error) {
	var o order.Detail
	err := d.Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "orderDetailId", "id":
			o.ID, err = decodeInt64(d)
		case "orderId":
			o.OrderID, err = decodeInt64(d)
		case "variantId":
			o.VariantID, err = decodeInt64(d)
		case "modelName":
			o.ModelName, err = decodeLooseString(d)
		case "variantName":
			o.VariantName, err = decodeLooseString(d)
		case "colorName", "color":
			o.ColorName, err = decodeLooseString(d)
		case "quantity":
			o.Quantity, err = decodeInt(d)
		case "unitPrice", "price":
			o.UnitPrice, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return o, err
}

func decodePromotion(d *jx.Decoder) (promotion.Promotion, error) {
	var p promotion.Promotion
	err := d.Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "promotionId", "id":
			p.ID, err = decodeInt64(d)
		case "promotionName", "name":
			p.Name, err = decodeLooseString(d)
		case "description":
			p.Description, err = decodeLooseString(d)
		case "type", "discountType", "promotionType":
			var s string
			s, err = decodeLooseString(d)
			p.Type = promotion.ParseType(s)
		case "discountValue", "value":
			p.Value, err = decodeDecimal(d)
		case "startDate":
			p.StartDate, err = decodeTime(d)
		case "endDate":
			p.EndDate, err = decodeTime(d)
		case "status":
			var s string
			s, err = decodeLooseString(d)
			p.Status = promotion.Status(strings.ToUpper(s))
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return p, err
}

func decodeVehicle(d *jx.Decoder) (catalog.Vehicle, error) {
	var v catalog.Vehicle
	err := d.Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "modelId":
			v.ModelID, err = decodeInt64(d)
		case "modelName":
			v.ModelName, err = decodeLooseString(d)
		case "variantId", "id":
			v.VariantID, err = decodeInt64(d)
		case "variantName":
			v.VariantName, err = decodeLooseString(d)
		case "price", "basePrice":
			v.Price, err = decodeDecimal(d)
		case "colorPrices":
			v.ColorPrices, err = decodeColorPrices(d)
		case "dealerPrices", "dealerColorPrices":
			err = decodeList(d, func(d *jx.Decoder) error {
				dp, err := decodeDealerPrice(d)
				if err != nil {
					return err
				}
				v.DealerPrices = append(v.DealerPrices, dp)
				return nil
			})
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return v, err
}

// decodeColorPrices reads {"Red": 1000} as well as [{"color":"Red","price":1000}].
func decodeColorPrices(d *jx.Decoder) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	switch d.Next() {
	case jx.Null:
		return out, d.Null()
	case jx.Object:
		err := d.Obj(func(d *jx.Decoder, color string) error {
			price, err := decodeDecimal(d)
			if err != nil {
				return errors.Wrap(err, color)
			}
			out[color] = price
			return nil
		})
		return out, err
	default:
		err := decodeList(d, func(d *jx.Decoder) error {
			dp, err := decodeDealerPrice(d)
			if err != nil {
				return err
			}
			out[dp.Color] = dp.Price
			return nil
		})
		return out, err
	}
}

func decodeDealerPrice(d *jx.Decoder) (catalog.DealerPrice, error) {
	var dp catalog.DealerPrice
	err := d.Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "color", "colorName":
			dp.Color, err = decodeLooseString(d)
		case "price":
			dp.Price, err = decodeDecimal(d)
		case "stock", "quantity":
			dp.Stock, err = decodeInt(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return dp, err
}

func decodeSummary(d *jx.Decoder) (*order.Summary, error) {
	s := &order.Summary{}
	err := d.Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "orderId", "id":
			s.OrderID, err = decodeInt64(d)
		case "status":
			var v string
			v, err = decodeLooseString(d)
			s.Status = order.Status(v)
		case "customer":
			if d.Next() == jx.Null {
				return d.Null()
			}
			s.Customer, err = decodeCustomer(d)
		case "dealer":
			if d.Next() == jx.Null {
				return d.Null()
			}
			s.Dealer, err = decodeDealer(d)
		case "items", "orderDetails":
			err = decodeList(d, func(d *jx.Decoder) error {
				item, err := decodeDetail(d)
				if err != nil {
					return err
				}
				s.Items = append(s.Items, item)
				return nil
			})
		case "promotionName":
			s.PromotionName, err = decodeLooseString(d)
		case "paymentMethod":
			var v string
			v, err = decodeLooseString(d)
			s.PaymentMethod = order.PaymentMethod(v)
		case "subtotal", "totalBeforeDiscount":
			s.Subtotal, err = decodeDecimal(d)
		case "discount", "discountAmount":
			s.Discount, err = decodeDecimal(d)
		case "total", "totalAmount", "finalAmount":
			s.Total, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return s, err
}

func decodeDealer(d *jx.Decoder) (order.Dealer, error) {
	var dl order.Dealer
	err := d.Obj(func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "name", "dealerName":
			dl.Name, err = decodeLooseString(d)
		case "address":
			dl.Address, err = decodeLooseString(d)
		case "phone":
			dl.Phone, err = decodeLooseString(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrap(err, key)
		}
		return nil
	})
	return dl, err
}

func encodeCustomer(dr customer.Draft) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("name")
	e.Str(dr.Name)
	e.FieldStart("phone")
	e.Str(dr.Phone)
	e.FieldStart("email")
	e.Str(dr.Email)
	e.ObjEnd()
	return e.Bytes()
}

// encodeFields writes a flat object. Values may be string, int, int64, nil
// or *int64.
func encodeFields(fields ...field) []byte {
	var e jx.Encoder
	e.ObjStart()
	for _, f := range fields {
		e.FieldStart(f.name)
		switch v := f.value.(type) {
		case string:
			e.Str(v)
		case int:
			e.Int(v)
		case int64:
			e.Int64(v)
		case *int64:
			if v == nil {
				e.Null()
			} else {
				e.Int64(*v)
			}
		default:
			e.Null()
		}
	}
	e.ObjEnd()
	return e.Bytes()
}

type field struct {
	name  string
	value any
}
