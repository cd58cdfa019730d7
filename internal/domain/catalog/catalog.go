package catalog

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNoPrice is returned when no price tier yields a price for a color.
var ErrNoPrice = errors.New("vehicle has no price")

// Vehicle is one orderable model variant as listed for the current dealer.
type Vehicle struct {
	ModelID     int64
	ModelName   string
	VariantID   int64
	VariantName string
	// Price is the flat listed price, used when no color price applies.
	Price decimal.Decimal
	// ColorPrices is the generic per-color price map.
	ColorPrices map[string]decimal.Decimal
	// DealerPrices is the dealer-specific per-color price list.
	DealerPrices []DealerPrice
}

// Clone returns a copy of v that shares no price tables with it.
func (v Vehicle) Clone() Vehicle {
	c := v
	c.ColorPrices = maps.Clone(v.ColorPrices)
	c.DealerPrices = slices.Clone(v.DealerPrices)
	return c
}

// DealerPrice is the price and stock a dealer holds for one color.
type DealerPrice struct {
	Color string
	Price decimal.Decimal
	Stock int
}

// Ref identifies a vehicle inside an order line.
type Ref struct {
	VariantID   int64
	ModelName   string
	VariantName string
}

// Ref returns the order-line reference of the vehicle.
func (v Vehicle) Ref() Ref {
	return Ref{VariantID: v.VariantID, ModelName: v.ModelName, VariantName: v.VariantName}
}

// DisplayName joins model and variant names.
func (v Vehicle) DisplayName() string {
	if v.VariantName == "" {
		return v.ModelName
	}
	return v.ModelName + " " + v.VariantName
}

// Colors returns every color the vehicle can be ordered in, dealer colors
// first, then remaining colors of the generic map in name order.
func (v Vehicle) Colors() []string {
	seen := make(map[string]struct{}, len(v.DealerPrices)+len(v.ColorPrices))
	out := make([]string, 0, len(v.DealerPrices)+len(v.ColorPrices))
	for _, dp := range v.DealerPrices {
		if _, ok := seen[dp.Color]; ok {
			continue
		}
		seen[dp.Color] = struct{}{}
		out = append(out, dp.Color)
	}

	rest := make([]string, 0, len(v.ColorPrices))
	for c := range v.ColorPrices {
		if _, ok := seen[c]; !ok {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Stock returns the dealer stock for color, and false when the dealer list
// does not mention the color.
func (v Vehicle) Stock(color string) (int, bool) {
	for _, dp := range v.DealerPrices {
		if strings.EqualFold(dp.Color, color) {
			return dp.Stock, true
		}
	}
	return 0, false
}

// ResolveUnitPrice returns the unit price of the vehicle in the given color.
// The dealer price list is consulted first, the generic color map second and
// the flat price last. Non-positive prices are skipped at every tier.
func ResolveUnitPrice(v Vehicle, color string) (decimal.Decimal, error) {
	for _, dp := range v.DealerPrices {
		if strings.EqualFold(dp.Color, color) && dp.Price.IsPositive() {
			return dp.Price, nil
		}
	}
	if p, ok := v.ColorPrices[color]; ok && p.IsPositive() {
		return p, nil
	}
	for c, p := range v.ColorPrices {
		if strings.EqualFold(c, color) && p.IsPositive() {
			return p, nil
		}
	}
	if v.Price.IsPositive() {
		return v.Price, nil
	}
	return decimal.Zero, errors.Wrapf(ErrNoPrice, "%s in %s", v.DisplayName(), color)
}

// Find returns the vehicle matching the model and variant names.
func Find(vehicles []Vehicle, modelName, variantName string) (Vehicle, bool) {
	for _, v := range vehicles {
		if strings.EqualFold(v.ModelName, modelName) && strings.EqualFold(v.VariantName, variantName) {
			return v, true
		}
	}
	return Vehicle{}, false
}

// Repository provides the dealer's vehicle catalog.
type Repository interface {
	ListVehicles(ctx context.Context) ([]Vehicle, error)
}
