package pricing

import (
	"math"
	"math/big"
)

// PriceOnRequest is shown when a service has no computable price.
const PriceOnRequest = "Price on request"

var currencySymbols = map[string]string{
	"CAD": "$",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// FormatPrice renders a price with its currency symbol. Unknown currency
// codes are used as their own symbol; an empty currency means CAD.
func FormatPrice(price *float64, currency string) string {
	if price == nil || math.IsNaN(*price) || math.IsInf(*price, 0) {
		return PriceOnRequest
	}
	if currency == "" {
		currency = Currency
	}
	symbol, ok := currencySymbols[currency]
	if !ok {
		symbol = currency
	}
	return symbol + toFixed2(*price)
}

// toFixed2 renders v with two decimals, rounding the exact binary value
// half away from zero. strconv rounds exact ties to even instead.
func toFixed2(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	cents := new(big.Rat).SetFloat64(v)
	cents.Mul(cents, big.NewRat(100, 1))

	q, rem := new(big.Int).QuoRem(cents.Num(), cents.Denom(), new(big.Int))
	if rem.Lsh(rem, 1).Cmp(cents.Denom()) >= 0 {
		q.Add(q, big.NewInt(1))
	}

	digits := q.String()
	for len(digits) < 3 {
		digits = "0" + digits
	}
	return sign + digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}

// FormatAmount is FormatPrice for a known amount.
func FormatAmount(price float64, currency string) string {
	return FormatPrice(&price, currency)
}
