package models

// ModifierType classifies a price adjustment line.
type ModifierType string

const (
	ModifierOption   ModifierType = "option"
	ModifierModifier ModifierType = "modifier"
	ModifierDiscount ModifierType = "discount"
	ModifierSize     ModifierType = "size"
)

// Modifier is a recorded line item explaining a price adjustment.
type Modifier struct {
	Type       ModifierType `json:"type" bson:"type"`
	Name       string       `json:"name" bson:"name"`
	Amount     float64      `json:"amount" bson:"amount"`
	Percentage string       `json:"percentage,omitempty" bson:"percentage,omitempty"`
}

// PriceBreakdown is the result of pricing a service for a booking.
type PriceBreakdown struct {
	BasePrice   float64    `json:"basePrice" bson:"basePrice"`
	OptionPrice float64    `json:"optionPrice" bson:"optionPrice"`
	Modifiers   []Modifier `json:"modifiers" bson:"modifiers"`
	Total       float64    `json:"total" bson:"total"`
	Currency    string     `json:"currency" bson:"currency"`
}

// OptionSelection references the chosen option by id or by name.
type OptionSelection struct {
	SelectedOptionID string `json:"selectedOptionId,omitempty" bson:"selectedOptionId,omitempty"`
	SelectedOption   string `json:"selectedOption,omitempty" bson:"selectedOption,omitempty"`
}

// BookingDetails are free-text classifiers collected by the booking form.
type BookingDetails struct {
	Frequency string `json:"frequency,omitempty" bson:"frequency,omitempty"`
	HomeSize  string `json:"homeSize,omitempty" bson:"homeSize,omitempty"`
}

// PriceRange is the display range of a service across its options.
type PriceRange struct {
	Min       *float64 `json:"min"`
	Max       *float64 `json:"max"`
	Formatted string   `json:"formatted"`
}
