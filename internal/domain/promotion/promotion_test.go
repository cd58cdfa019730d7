package promotion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPromotion_Applicable(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		promo Promotion
		want  bool
	}{
		{name: "active without window", promo: Promotion{Status: StatusActive}, want: true},
		{name: "missing status counts as active", promo: Promotion{}, want: true},
		{name: "inactive", promo: Promotion{Status: StatusInactive}, want: false},
		{name: "not started", promo: Promotion{Status: StatusActive, StartDate: &tomorrow}, want: false},
		{name: "ended", promo: Promotion{Status: StatusActive, EndDate: &yesterday}, want: false},
		{name: "ends today is inclusive", promo: Promotion{Status: StatusActive, EndDate: &today}, want: true},
		{
			name:  "inside window",
			promo: Promotion{Status: StatusActive, StartDate: &yesterday, EndDate: &tomorrow},
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.promo.Applicable(now))
		})
	}
}

func TestFilter(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	promos := []Promotion{
		{ID: 1, Status: StatusActive},
		{ID: 2, Status: StatusInactive},
		{ID: 3, Status: StatusActive},
	}

	got := Filter(promos, now)
	assert.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestParseType(t *testing.T) {
	assert.Equal(t, TypePercentage, ParseType("percentage"))
	assert.Equal(t, TypePercentage, ParseType(" PERCENT "))
	assert.Equal(t, TypeFixed, ParseType("fixed"))
	assert.Equal(t, TypeFixed, ParseType("FIXED_AMOUNT"))
	assert.Equal(t, Type("GIFT"), ParseType("gift"))
}
