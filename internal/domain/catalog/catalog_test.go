package catalog

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestResolveUnitPrice(t *testing.T) {
	full := Vehicle{
		ModelName:   "VF 8",
		VariantName: "Plus",
		Price:       d("1000000000"),
		ColorPrices: map[string]decimal.Decimal{
			"Red":   d("1050000000"),
			"White": d("1020000000"),
		},
		DealerPrices: []DealerPrice{
			{Color: "Red", Price: d("1090000000"), Stock: 3},
			{Color: "Black", Price: decimal.Zero, Stock: 1},
		},
	}

	tests := []struct {
		name    string
		vehicle Vehicle
		color   string
		want    decimal.Decimal
		wantErr bool
	}{
		{name: "dealer price wins", vehicle: full, color: "Red", want: d("1090000000")},
		{name: "dealer price color is case insensitive", vehicle: full, color: "red", want: d("1090000000")},
		{name: "color map when dealer has no entry", vehicle: full, color: "White", want: d("1020000000")},
		{name: "zero dealer price falls through to flat", vehicle: full, color: "Black", want: d("1000000000")},
		{name: "flat price for unknown color", vehicle: full, color: "Blue", want: d("1000000000")},
		{
			name:    "no tier yields a price",
			vehicle: Vehicle{ModelName: "VF 3"},
			color:   "Red",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveUnitPrice(tt.vehicle, tt.color)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoPrice)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestVehicle_Colors(t *testing.T) {
	v := Vehicle{
		ColorPrices: map[string]decimal.Decimal{
			"White": d("1"),
			"Blue":  d("1"),
			"Red":   d("1"),
		},
		DealerPrices: []DealerPrice{{Color: "Red"}, {Color: "Black"}},
	}
	assert.Equal(t, []string{"Red", "Black", "Blue", "White"}, v.Colors())
}

func TestFind(t *testing.T) {
	vehicles := []Vehicle{
		{VariantID: 1, ModelName: "VF 8", VariantName: "Eco"},
		{VariantID: 2, ModelName: "VF 8", VariantName: "Plus"},
	}

	v, ok := Find(vehicles, "vf 8", "PLUS")
	require.True(t, ok)
	assert.Equal(t, int64(2), v.VariantID)

	_, ok = Find(vehicles, "VF 9", "Plus")
	assert.False(t, ok)
}

func TestVehicle_Clone(t *testing.T) {
	v := Vehicle{
		ModelName:    "VF 8",
		ColorPrices:  map[string]decimal.Decimal{"White": decimal.NewFromInt(1020)},
		DealerPrices: []DealerPrice{{Color: "Red", Price: decimal.NewFromInt(1090), Stock: 2}},
	}

	c := v.Clone()
	c.ColorPrices["White"] = decimal.NewFromInt(1)
	c.DealerPrices[0].Stock = 0

	assert.True(t, decimal.NewFromInt(1020).Equal(v.ColorPrices["White"]))
	assert.Equal(t, 2, v.DealerPrices[0].Stock)
}
