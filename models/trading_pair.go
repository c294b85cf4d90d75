package models

import "fmt"

// TradingPair holds the static reference data of a single instrument.
// Instances are immutable: the catalog hands out copies only.
type TradingPair struct {
	ID              string  `json:"id"`
	BaseSymbol      string  `json:"baseSymbol"`
	QuoteSymbol     string  `json:"quoteSymbol"`
	ReferencePrice  float64 `json:"referencePrice"`
	Change24hPct    float64 `json:"change24hPct"`
	Volume24h       float64 `json:"volume24h"`
	MinAmount       float64 `json:"minAmount"`
	MaxAmount       float64 `json:"maxAmount"`
	PricePrecision  int     `json:"pricePrecision"`
	AmountPrecision int     `json:"amountPrecision"`
}

func NewTradingPair(id string, base string, quote string, referencePrice float64, change24hPct float64,
	volume24h float64, minAmount float64, maxAmount float64, pricePrecision int, amountPrecision int) TradingPair {
	return TradingPair{
		ID:              id,
		BaseSymbol:      base,
		QuoteSymbol:     quote,
		ReferencePrice:  referencePrice,
		Change24hPct:    change24hPct,
		Volume24h:       volume24h,
		MinAmount:       minAmount,
		MaxAmount:       maxAmount,
		PricePrecision:  pricePrecision,
		AmountPrecision: amountPrecision,
	}
}

// Symbol returns the exchange style concatenated symbol, e.g. "BTCEUR".
func (p TradingPair) Symbol() string {
	return p.BaseSymbol + p.QuoteSymbol
}

// FormatPrice renders a quote currency value at the pair's price precision.
func (p TradingPair) FormatPrice(value float64) string {
	return fmt.Sprintf("%.*f", p.PricePrecision, value)
}

// FormatAmount renders a base currency value at the pair's amount precision.
func (p TradingPair) FormatAmount(value float64) string {
	return fmt.Sprintf("%.*f", p.AmountPrecision, value)
}
