// Package core provides the storefront domain types and price handling.
//
// Prices are kept as decimals end to end. Conversion to the shopper's
// currency happens only at render time.
package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	USD Currency = "USD"
	CLP Currency = "CLP"
)

const (
	// KindAccount prices a whole bundle.
	KindAccount PriceKind = iota
	// KindItem prices a single game or DLC line.
	KindItem
)

type (
	Currency  string
	PriceKind int

	// Money is an amount already expressed in Currency.
	Money struct {
		Amount   decimal.Decimal
		Currency Currency
	}

	// Pricing converts USD list prices for shoppers outside the US.
	Pricing struct {
		AccountRate decimal.Decimal
		ItemRate    decimal.Decimal
	}
)

var ErrInvalidAmount = errors.New("invalid amount")

// DefaultPricing returns the CLP rates used by the storefront.
func DefaultPricing() Pricing {
	return Pricing{
		AccountRate: decimal.NewFromInt(1150),
		ItemRate:    decimal.NewFromInt(1000),
	}
}

// ParsePrice parses a non-negative decimal, accepting a decimal comma.
// Empty input is zero.
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// CurrencyFor picks the display currency for an ISO country code.
func (p Pricing) CurrencyFor(country string) Currency {
	if strings.EqualFold(strings.TrimSpace(country), "CL") {
		return CLP
	}
	return USD
}

// Convert expresses a USD price in the currency of country.
// CLP amounts are rounded up to whole pesos.
func (p Pricing) Convert(price decimal.Decimal, country string, kind PriceKind) Money {
	cur := p.CurrencyFor(country)
	if cur != CLP {
		return Money{Amount: price, Currency: USD}
	}
	rate := p.ItemRate
	if kind == KindAccount {
		rate = p.AccountRate
	}
	return Money{Amount: price.Mul(rate).Ceil(), Currency: CLP}
}

// String formats USD with cents and CLP as whole pesos with dot grouping.
func (m Money) String() string {
	switch m.Currency {
	case CLP:
		return "$" + groupThousands(m.Amount.Ceil().String(), ".") + " CLP"
	default:
		return "$" + m.Amount.StringFixed(2)
	}
}

func groupThousands(digits, sep string) string {
	neg := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")
	if len(digits) <= 3 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
