package pricing

import (
	"math"
	"strconv"
	"strings"

	"choreify/models"
)

// Currency is the only currency services are priced in.
const Currency = "CAD"

const (
	recurringDiscountRate = 0.1
	largeHomeRate         = 0.2
	largeHomeSurcharge    = 1.2
	smallHomeRate         = 0.1
	smallHomeDiscount     = 0.9
)

var (
	recurringKeywords = []string{"weekly", "bi-weekly"}
	largeHomeKeywords = []string{"large", "3+", "4+"}
	// "1" also matches strings like "10 bedroom"; kept as the product's
	// current heuristic until sizes become a closed set.
	smallHomeKeywords = []string{"small", "studio", "1"}
)

// CalculateServicePrice prices a service for a booking. Option pricing is
// applied first, then the recurring discount, then the home-size adjustment.
// It never fails: a nil service yields an all-zero breakdown.
func CalculateServicePrice(service *models.Service, sel models.OptionSelection, details models.BookingDetails) models.PriceBreakdown {
	breakdown := models.PriceBreakdown{
		Modifiers: []models.Modifier{},
		Currency:  Currency,
	}
	if service == nil {
		return breakdown
	}

	basePrice := service.BasePrice
	optionPrice := 0.0
	total := basePrice

	if opt := FindOption(service.Options, sel); opt != nil {
		switch p := opt.Pricing.(type) {
		case models.FixedPrice:
			optionPrice = p.Amount
			breakdown.Modifiers = append(breakdown.Modifiers, models.Modifier{
				Type:   models.ModifierOption,
				Name:   opt.Name,
				Amount: optionPrice,
			})
		case models.PriceModifier:
			optionPrice = basePrice * (p.Factor - 1)
			breakdown.Modifiers = append(breakdown.Modifiers, models.Modifier{
				Type:       models.ModifierModifier,
				Name:       opt.Name,
				Amount:     optionPrice,
				Percentage: strconv.Itoa(int(math.Round((p.Factor - 1) * 100))),
			})
		}
		total = basePrice + optionPrice
	}

	if containsAny(details.Frequency, recurringKeywords) {
		discount := total * recurringDiscountRate
		total -= discount
		breakdown.Modifiers = append(breakdown.Modifiers, models.Modifier{
			Type:   models.ModifierDiscount,
			Name:   "Recurring Service Discount",
			Amount: -discount,
		})
	}

	switch {
	case containsAny(details.HomeSize, largeHomeKeywords):
		increase := total * largeHomeRate
		total *= largeHomeSurcharge
		breakdown.Modifiers = append(breakdown.Modifiers, models.Modifier{
			Type:   models.ModifierSize,
			Name:   "Large Home Surcharge",
			Amount: increase,
		})
	case containsAny(details.HomeSize, smallHomeKeywords):
		decrease := total * smallHomeRate
		total *= smallHomeDiscount
		breakdown.Modifiers = append(breakdown.Modifiers, models.Modifier{
			Type:   models.ModifierSize,
			Name:   "Small Home Discount",
			Amount: -decrease,
		})
	}

	breakdown.BasePrice = RoundCents(basePrice)
	breakdown.OptionPrice = RoundCents(optionPrice)
	breakdown.Total = RoundCents(total)
	return breakdown
}

// RoundCents rounds to two decimals, half away from zero.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// FindOption returns the first option matching the selection by id or name.
func FindOption(options []models.Option, sel models.OptionSelection) *models.Option {
	for i := range options {
		opt := &options[i]
		if (sel.SelectedOptionID != "" && opt.ID == sel.SelectedOptionID) ||
			(sel.SelectedOption != "" && opt.Name == sel.SelectedOption) {
			return opt
		}
	}
	return nil
}

func containsAny(value string, keywords []string) bool {
	if value == "" {
		return false
	}
	lower := strings.ToLower(value)
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
