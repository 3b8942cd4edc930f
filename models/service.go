package models

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Service is a bookable offering listed in the catalog.
type Service struct {
	ID          string    `bson:"id" json:"id"`
	Slug        string    `bson:"slug" json:"slug"`
	Name        string    `bson:"name" json:"name"`
	Category    string    `bson:"category" json:"category"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	BasePrice   float64   `bson:"basePrice" json:"basePrice"`
	Options     []Option  `bson:"options,omitempty" json:"options,omitempty"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OptionPricing is either FixedPrice or PriceModifier.
type OptionPricing interface {
	isOptionPricing()
}

// FixedPrice replaces the option delta with an absolute amount.
type FixedPrice struct {
	Amount float64
}

// PriceModifier scales the service base price by Factor.
type PriceModifier struct {
	Factor float64
}

func (FixedPrice) isOptionPricing()    {}
func (PriceModifier) isOptionPricing() {}

// Option is a selectable variant of a service. Pricing is nil when the
// option carries neither an absolute price nor a modifier.
type Option struct {
	ID      string
	Name    string
	Pricing OptionPricing
}

// optionDoc is the wire shape shared by JSON and BSON.
type optionDoc struct {
	ID            string   `bson:"id" json:"id"`
	Name          string   `bson:"name" json:"name"`
	Price         *float64 `bson:"price,omitempty" json:"price,omitempty"`
	PriceModifier *float64 `bson:"priceModifier,omitempty" json:"priceModifier,omitempty"`
}

// When both price and priceModifier are present, price wins. A zero
// modifier is treated as absent.
func (d optionDoc) toOption() Option {
	opt := Option{ID: d.ID, Name: d.Name}
	switch {
	case d.Price != nil:
		opt.Pricing = FixedPrice{Amount: *d.Price}
	case d.PriceModifier != nil && *d.PriceModifier != 0:
		opt.Pricing = PriceModifier{Factor: *d.PriceModifier}
	}
	return opt
}

func (o Option) toDoc() optionDoc {
	d := optionDoc{ID: o.ID, Name: o.Name}
	switch p := o.Pricing.(type) {
	case FixedPrice:
		amount := p.Amount
		d.Price = &amount
	case PriceModifier:
		factor := p.Factor
		d.PriceModifier = &factor
	}
	return d
}

func (o Option) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.toDoc())
}

func (o *Option) UnmarshalJSON(data []byte) error {
	var d optionDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	*o = d.toOption()
	return nil
}

func (o Option) MarshalBSON() ([]byte, error) {
	return bson.Marshal(o.toDoc())
}

func (o *Option) UnmarshalBSON(data []byte) error {
	var d optionDoc
	if err := bson.Unmarshal(data, &d); err != nil {
		return err
	}
	*o = d.toOption()
	return nil
}

// NewOption builds an option from its raw price fields using the same
// precedence as decoding.
func NewOption(id, name string, price, priceModifier *float64) Option {
	return optionDoc{ID: id, Name: name, Price: price, PriceModifier: priceModifier}.toOption()
}
