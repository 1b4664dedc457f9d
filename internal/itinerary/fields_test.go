package itinerary_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"lotus/internal/itinerary"
)

func ptr[T any](v T) *T { return &v }

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   any
		want *string
	}{
		{"2025-05-01", ptr("2025-05-01")},
		{"2025/5/1", ptr("2025-05-01")},
		{"2025年5月1日", ptr("2025-05-01")},
		{"２０２５－０５－０１", ptr("2025-05-01")},
		{"出发 2025.10.3 上午", ptr("2025-10-03")},
		{"2025-05-01T09:00:00+08:00", ptr("2025-05-01")},
		{"2025-02-30", nil},
		{"明天", nil},
		{json.Number("20250501"), nil},
		{nil, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, itinerary.ParseDate(tt.in), "%v", tt.in)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in   any
		want *string
	}{
		{"9:30", ptr("09:30")},
		{"14：00", ptr("14:00")},
		{"9点半", ptr("09:30")},
		{"8点", ptr("08:00")},
		{"10时15", ptr("10:15")},
		{"25:70", ptr("23:59")},
		{"09:00-11:30", ptr("09:00")},
		{"2025-05-01T08:30:00+08:00", ptr("08:30")},
		{"2025-05-01", nil},
		{"2025年5月1日", nil},
		{"全天", nil},
		{930, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, itinerary.ParseTimeOfDay(tt.in), "%v", tt.in)
	}
}

func TestParseCost(t *testing.T) {
	tests := []struct {
		in   any
		want *float64
	}{
		{json.Number("120"), ptr(120.0)},
		{json.Number("99.999"), ptr(100.0)},
		{88.5, ptr(88.5)},
		{"约1,200元", ptr(1200.0)},
		{"200-300", ptr(200.0)},
		{"¥ 35.5", ptr(35.5)},
		{"免费", nil},
		{"-50", nil},
		{json.Number("-1"), nil},
		{true, nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, itinerary.ParseCost(tt.in), "%v", tt.in)
	}
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"usd", "USD"},
		{"Euros", "EUR"},
		{"RMB", "CNY"},
		{"人民币", "CNY"},
		{"", "CNY"},
		{nil, "CNY"},
		{json.Number("1"), "CNY"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, itinerary.ParseCurrency(tt.in), "%v", tt.in)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in   any
		want itinerary.Category
	}{
		{"景点", itinerary.CategorySightseeing},
		{"  SHOPPING ", itinerary.CategoryShopping},
		{"Dining", itinerary.CategoryDining},
		{"住宿", itinerary.CategoryAccommodation},
		{"酒店入住", itinerary.CategoryAccommodation},
		{"高铁站接驳", itinerary.CategoryTransportation},
		{"博物馆参观", itinerary.CategorySightseeing},
		{"特色小吃", itinerary.CategoryDining},
		{"自由活动", itinerary.CategoryOther},
		{"something else", itinerary.CategoryOther},
		{"", itinerary.CategoryOther},
		{nil, itinerary.CategoryOther},
		{json.Number("3"), itinerary.CategoryOther},
	}
	for _, tt := range tests {
		got := itinerary.ParseCategory(tt.in)
		assert.Equal(t, tt.want, got, "%v", tt.in)
		assert.Equal(t, got, itinerary.ParseCategory(tt.in))
		assert.Contains(t, itinerary.Categories, got)
	}
}
