package pricing

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"choreify/models"
)

func cleaningService() *models.Service {
	return &models.Service{
		ID:        "svc-cleaning",
		Name:      "Home Cleaning",
		BasePrice: 100,
		Options: []models.Option{
			{ID: "deep", Name: "Deep Clean", Pricing: models.PriceModifier{Factor: 1.5}},
			{ID: "fridge", Name: "Fridge Add-on", Pricing: models.FixedPrice{Amount: 50}},
			{ID: "plain", Name: "Standard"},
		},
	}
}

func TestCalculateServicePrice_NoOptionsNoDetails(t *testing.T) {
	for _, base := range []float64{0, 1, 49.99, 120, 1000.5} {
		svc := &models.Service{BasePrice: base}
		got := CalculateServicePrice(svc, models.OptionSelection{}, models.BookingDetails{})

		assert.Equal(t, base, got.Total)
		assert.Equal(t, base, got.BasePrice)
		assert.Empty(t, got.Modifiers)
		assert.Equal(t, "CAD", got.Currency)
	}
}

func TestCalculateServicePrice_NilService(t *testing.T) {
	got := CalculateServicePrice(nil, models.OptionSelection{SelectedOptionID: "deep"}, models.BookingDetails{Frequency: "weekly"})

	assert.Zero(t, got.BasePrice)
	assert.Zero(t, got.OptionPrice)
	assert.Zero(t, got.Total)
	assert.Empty(t, got.Modifiers)
	assert.Equal(t, "CAD", got.Currency)
}

func TestCalculateServicePrice_FixedPriceOption(t *testing.T) {
	got := CalculateServicePrice(cleaningService(), models.OptionSelection{SelectedOptionID: "fridge"}, models.BookingDetails{})

	assert.Equal(t, 50.0, got.OptionPrice)
	assert.Equal(t, 150.0, got.Total)
	require.Len(t, got.Modifiers, 1)
	assert.Equal(t, models.Modifier{Type: models.ModifierOption, Name: "Fridge Add-on", Amount: 50}, got.Modifiers[0])
}

func TestCalculateServicePrice_ModifierOption(t *testing.T) {
	got := CalculateServicePrice(cleaningService(), models.OptionSelection{SelectedOption: "Deep Clean"}, models.BookingDetails{})

	assert.Equal(t, 50.0, got.OptionPrice)
	assert.Equal(t, 150.0, got.Total)
	require.Len(t, got.Modifiers, 1)
	assert.Equal(t, models.ModifierModifier, got.Modifiers[0].Type)
	assert.Equal(t, "50", got.Modifiers[0].Percentage)
	assert.Equal(t, 50.0, got.Modifiers[0].Amount)
}

func TestCalculateServicePrice_FirstMatchWins(t *testing.T) {
	svc := &models.Service{
		BasePrice: 80,
		Options: []models.Option{
			{ID: "a", Name: "Same", Pricing: models.FixedPrice{Amount: 10}},
			{ID: "b", Name: "Same", Pricing: models.FixedPrice{Amount: 20}},
		},
	}
	// The name selector matches "a" before the id selector reaches "b".
	got := CalculateServicePrice(svc, models.OptionSelection{SelectedOptionID: "b", SelectedOption: "Same"}, models.BookingDetails{})
	assert.Equal(t, 10.0, got.OptionPrice)
}

func TestCalculateServicePrice_UnmatchedOption(t *testing.T) {
	got := CalculateServicePrice(cleaningService(), models.OptionSelection{SelectedOptionID: "missing"}, models.BookingDetails{})

	assert.Equal(t, 100.0, got.Total)
	assert.Zero(t, got.OptionPrice)
	assert.Empty(t, got.Modifiers)
}

func TestCalculateServicePrice_OptionWithoutPricing(t *testing.T) {
	got := CalculateServicePrice(cleaningService(), models.OptionSelection{SelectedOptionID: "plain"}, models.BookingDetails{})

	assert.Equal(t, 100.0, got.Total)
	assert.Empty(t, got.Modifiers)
}

func TestCalculateServicePrice_WeeklyDiscount(t *testing.T) {
	for _, freq := range []string{"Weekly", "bi-weekly", "BI-WEEKLY visits"} {
		got := CalculateServicePrice(cleaningService(), models.OptionSelection{SelectedOptionID: "fridge"}, models.BookingDetails{Frequency: freq})

		before := 150.0
		require.Len(t, got.Modifiers, 2, freq)
		discount := got.Modifiers[1]
		assert.Equal(t, models.ModifierDiscount, discount.Type)
		assert.Equal(t, "Recurring Service Discount", discount.Name)
		assert.Equal(t, -(before * 0.1), discount.Amount)
		assert.Equal(t, 135.0, got.Total)
	}
}

func TestCalculateServicePrice_MonthlyHasNoDiscount(t *testing.T) {
	got := CalculateServicePrice(cleaningService(), models.OptionSelection{}, models.BookingDetails{Frequency: "Monthly"})
	assert.Equal(t, 100.0, got.Total)
	assert.Empty(t, got.Modifiers)
}

func TestCalculateServicePrice_SurchargeAppliesAfterDiscount(t *testing.T) {
	got := CalculateServicePrice(cleaningService(), models.OptionSelection{}, models.BookingDetails{
		Frequency: "Weekly",
		HomeSize:  "Large house",
	})

	require.Len(t, got.Modifiers, 2)
	surcharge := got.Modifiers[1]
	assert.Equal(t, "Large Home Surcharge", surcharge.Name)
	// 20% of the discounted 90, not of the original 100.
	assert.InDelta(t, 18.0, surcharge.Amount, 1e-9)
	assert.Equal(t, 108.0, got.Total)
}

func TestCalculateServicePrice_HomeSizes(t *testing.T) {
	cases := []struct {
		homeSize string
		total    float64
		modifier string
	}{
		{"3+ bedrooms", 120, "Large Home Surcharge"},
		{"4+ bedrooms", 120, "Large Home Surcharge"},
		{"Studio", 90, "Small Home Discount"},
		{"small apartment", 90, "Small Home Discount"},
		{"1 bedroom", 90, "Small Home Discount"},
		// Coarse heuristic: any "1" counts as small.
		{"10 bedroom", 90, "Small Home Discount"},
		// Large wins when both keyword sets match.
		{"Large 1 level", 120, "Large Home Surcharge"},
		{"2 bedrooms", 100, ""},
	}
	for _, tc := range cases {
		got := CalculateServicePrice(cleaningService(), models.OptionSelection{}, models.BookingDetails{HomeSize: tc.homeSize})
		assert.InDelta(t, tc.total, got.Total, 1e-9, tc.homeSize)
		if tc.modifier == "" {
			assert.Empty(t, got.Modifiers, tc.homeSize)
			continue
		}
		require.Len(t, got.Modifiers, 1, tc.homeSize)
		assert.Equal(t, tc.modifier, got.Modifiers[0].Name, tc.homeSize)
	}
}

func TestCalculateServicePrice_RoundsToCents(t *testing.T) {
	svc := &models.Service{
		BasePrice: 33.333,
		Options:   []models.Option{{ID: "x", Name: "Extra", Pricing: models.PriceModifier{Factor: 1.333}}},
	}
	got := CalculateServicePrice(svc, models.OptionSelection{SelectedOptionID: "x"}, models.BookingDetails{})

	assert.Equal(t, 33.33, got.BasePrice)
	assert.Equal(t, 11.1, got.OptionPrice)
	assert.Equal(t, 44.43, got.Total)
	assert.Equal(t, "33", got.Modifiers[0].Percentage)
}

func TestRoundCents_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, 0.13, RoundCents(0.125))
	assert.Equal(t, -0.13, RoundCents(-0.125))
	assert.Equal(t, 2.0, RoundCents(1.999))
}

func TestOptionDecoding_PriceWins(t *testing.T) {
	var svc models.Service
	payload := `{"basePrice":100,"options":[{"id":"both","name":"Both","price":25,"priceModifier":2}]}`
	require.NoError(t, json.Unmarshal([]byte(payload), &svc))

	require.Len(t, svc.Options, 1)
	assert.Equal(t, models.FixedPrice{Amount: 25}, svc.Options[0].Pricing)

	got := CalculateServicePrice(&svc, models.OptionSelection{SelectedOptionID: "both"}, models.BookingDetails{})
	assert.Equal(t, 125.0, got.Total)
}

func TestOptionDecoding_ZeroPriceIsAnOverride(t *testing.T) {
	var opt models.Option
	require.NoError(t, json.Unmarshal([]byte(`{"id":"free","name":"Free","price":0,"priceModifier":1.5}`), &opt))
	assert.Equal(t, models.FixedPrice{Amount: 0}, opt.Pricing)
}

func TestOptionDecoding_ZeroModifierIsAbsent(t *testing.T) {
	var opt models.Option
	require.NoError(t, json.Unmarshal([]byte(`{"id":"z","name":"Zero","priceModifier":0}`), &opt))
	assert.Nil(t, opt.Pricing)
}

func TestOptionEncoding(t *testing.T) {
	raw, err := json.Marshal(models.Option{ID: "deep", Name: "Deep Clean", Pricing: models.PriceModifier{Factor: 1.5}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"deep","name":"Deep Clean","priceModifier":1.5}`, string(raw))
}

func TestFormatPrice(t *testing.T) {
	price := 19.5
	assert.Equal(t, "Price on request", FormatPrice(nil, "CAD"))
	nan := math.NaN()
	assert.Equal(t, "Price on request", FormatPrice(&nan, "CAD"))
	assert.Equal(t, "€19.50", FormatPrice(&price, "EUR"))
	assert.Equal(t, "$19.50", FormatPrice(&price, "CAD"))
	assert.Equal(t, "$19.50", FormatPrice(&price, "USD"))
	assert.Equal(t, "£19.50", FormatPrice(&price, "GBP"))
	assert.Equal(t, "$19.50", FormatPrice(&price, ""))
	assert.Equal(t, "JPY19.50", FormatPrice(&price, "JPY"))
}

func TestFormatPrice_ExactTiesRoundUp(t *testing.T) {
	cases := map[float64]string{
		1.125:  "$1.13",
		0.625:  "$0.63",
		10.125: "$10.13",
		0.375:  "$0.38",
		2.5:    "$2.50",
		0:      "$0.00",
		0.004:  "$0.00",
		1234.5: "$1234.50",
		-1.125: "$-1.13",
		0.1:    "$0.10",
		1.005:  "$1.00", // 1.005 is stored just below the tie
		99.995: "$100.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatAmount(in, "CAD"), "format %v", in)
	}
}

func TestGetServicePriceRange_NoBasePrice(t *testing.T) {
	got := GetServicePriceRange(&models.Service{BasePrice: 0})
	assert.Nil(t, got.Min)
	assert.Nil(t, got.Max)
	assert.Equal(t, "Price on request", got.Formatted)

	assert.Equal(t, "Price on request", GetServicePriceRange(nil).Formatted)
}

func TestGetServicePriceRange_SinglePrice(t *testing.T) {
	got := GetServicePriceRange(&models.Service{BasePrice: 80})

	require.NotNil(t, got.Min)
	require.NotNil(t, got.Max)
	assert.Equal(t, 80.0, *got.Min)
	assert.InDelta(t, 96.0, *got.Max, 1e-9)
	assert.Equal(t, "$80.00", got.Formatted)
}

func TestGetServicePriceRange_AcrossOptions(t *testing.T) {
	// Candidates: base 100, modifier 150, fixed 50.
	got := GetServicePriceRange(cleaningService())

	require.NotNil(t, got.Min)
	assert.Equal(t, 50.0, *got.Min)
	assert.InDelta(t, 180.0, *got.Max, 1e-9)
	// The floor shows the small-home discount only in the formatted string.
	assert.Equal(t, "$45.00 - $180.00", got.Formatted)
}

func TestGetServicePriceRange_FloorTieRoundsUp(t *testing.T) {
	got := GetServicePriceRange(&models.Service{
		BasePrice: 100,
		Options:   []models.Option{{ID: "tiny", Name: "Tiny", Pricing: models.FixedPrice{Amount: 1.25}}},
	})

	// 1.25 * 0.9 is exactly 1.125.
	assert.Equal(t, "$1.13 - $120.00", got.Formatted)
}
