package dealerapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/evdealer-wizard/internal/domain/catalog"
	"github.com/xenking/evdealer-wizard/internal/domain/promotion"
)

var (
	_ catalog.Repository   = (*CatalogRepository)(nil)
	_ promotion.Repository = (*PromotionRepository)(nil)
)

func dealerPath(c *Client, suffix string) string {
	return "/api/dealers/" + strconv.FormatInt(c.session.DealerID, 10) + suffix
}

// CatalogRepository implements catalog.Repository for the session's dealer.
type CatalogRepository struct {
	c *Client
}

// NewCatalogRepository creates a CatalogRepository.
func NewCatalogRepository(c *Client) *CatalogRepository {
	return &CatalogRepository{c: c}
}

// ListVehicles returns the dealer's vehicle variants with prices and stock.
func (r *CatalogRepository) ListVehicles(ctx context.Context) ([]catalog.Vehicle, error) {
	var out []catalog.Vehicle
	err := r.c.do(ctx, http.MethodGet, dealerPath(r.c, "/vehicles"), nil, func(d *jx.Decoder) error {
		return decodeList(d, func(d *jx.Decoder) error {
			v, err := decodeVehicle(d)
			if err != nil {
				return err
			}
			out = append(out, v)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "list vehicles")
	}
	return out, nil
}

// PromotionRepository implements promotion.Repository for the session's
// dealer.
type PromotionRepository struct {
	c *Client
}

// NewPromotionRepository creates a PromotionRepository.
func NewPromotionRepository(c *Client) *PromotionRepository {
	return &PromotionRepository{c: c}
}

// ListForDealer returns every promotion of the dealer, applicable or not.
func (r *PromotionRepository) ListForDealer(ctx context.Context) ([]promotion.Promotion, error) {
	var out []promotion.Promotion
	err := r.c.do(ctx, http.MethodGet, dealerPath(r.c, "/promotions"), nil, func(d *jx.Decoder) error {
		return decodeList(d, func(d *jx.Decoder) error {
			p, err := decodePromotion(d)
			if err != nil {
				return err
			}
			out = append(out, p)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "list promotions")
	}
	return out, nil
}
