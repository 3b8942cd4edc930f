package pricing

import "choreify/models"

// GetServicePriceRange reports the price span of a service across its
// options. The ceiling carries the large-home surcharge; the floor does not,
// while the formatted range shows the small-home discounted floor.
func GetServicePriceRange(service *models.Service) models.PriceRange {
	if service == nil || service.BasePrice == 0 {
		return models.PriceRange{Formatted: PriceOnRequest}
	}

	base := service.BasePrice
	lo, hi := base, base
	for _, opt := range service.Options {
		var candidate float64
		switch p := opt.Pricing.(type) {
		case models.FixedPrice:
			candidate = p.Amount
		case models.PriceModifier:
			candidate = base * p.Factor
		default:
			continue
		}
		if candidate < lo {
			lo = candidate
		}
		if candidate > hi {
			hi = candidate
		}
	}

	minPrice := lo
	maxPrice := hi * largeHomeSurcharge

	var formatted string
	if lo == hi {
		formatted = FormatAmount(lo, Currency)
	} else {
		formatted = FormatAmount(lo*smallHomeDiscount, Currency) + " - " + FormatAmount(maxPrice, Currency)
	}

	return models.PriceRange{
		Min:       &minPrice,
		Max:       &maxPrice,
		Formatted: formatted,
	}
}
