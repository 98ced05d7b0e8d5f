package fx

import (
	"github.com/shopspring/decimal"

	"github.com/rbenali/mediaops-backend/pkg/enums"
)

// Amounts is one spend figure denominated in both supported currencies.
type Amounts struct {
	DZD decimal.Decimal
	USD decimal.Decimal
}

// Normalizer converts spend amounts between USD and DZD. It carries the
// configured default USD to DZD rate used when a conversion is required and
// no explicit rate is available.
type Normalizer struct {
	defaultUSDToDZD decimal.Decimal
}

// NewNormalizer builds a normalizer with the given default USD to DZD rate.
// Non-positive defaults are replaced with 140.
func NewNormalizer(defaultUSDToDZD decimal.Decimal) Normalizer {
	if defaultUSDToDZD.Sign() <= 0 {
		defaultUSDToDZD = decimal.NewFromInt(140)
	}
	return Normalizer{defaultUSDToDZD: defaultUSDToDZD}
}

// DefaultRate returns the configured default USD to DZD rate.
func (n Normalizer) DefaultRate() decimal.Decimal {
	return n.defaultUSDToDZD
}

// Normalize converts amount in the given currency to an Amounts pair. A nil
// or non-positive rate falls back to the configured default. Unknown
// currencies are treated as DZD.
func (n Normalizer) Normalize(amount decimal.Decimal, currency enums.Currency, rate *decimal.Decimal) Amounts {
	effective := n.defaultUSDToDZD
	if rate != nil && rate.Sign() > 0 {
		effective = *rate
	}
	if currency == enums.CurrencyUSD {
		return Amounts{
			DZD: amount.Mul(effective),
			USD: amount,
		}
	}
	return Amounts{
		DZD: amount,
		USD: amount.Div(effective),
	}
}

// DeriveSpendInDZD computes the persisted spend_in_dzd value for an entry at
// write time. DZD amounts pass through, USD amounts convert only when an
// explicit positive rate is recorded, and USD without a rate yields nil.
// The configured default never leaks into stored values.
func DeriveSpendInDZD(amount decimal.Decimal, currency enums.Currency, rate *decimal.Decimal) *decimal.Decimal {
	if currency == enums.CurrencyUSD {
		if rate == nil || rate.Sign() <= 0 {
			return nil
		}
		converted := amount.Mul(*rate)
		return &converted
	}
	out := amount
	return &out
}
