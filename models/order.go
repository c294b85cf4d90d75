package models

import "github.com/sdcoffey/big"

// SideType define order side type
type SideType string

// OrderType define order type
type OrderType string

// DraftField names an editable field of the order draft
type DraftField string

// Global enums
const (
	SideTypeBuy  SideType = "BUY"
	SideTypeSell SideType = "SELL"

	OrderTypeLimit  OrderType = "LIMIT"
	OrderTypeMarket OrderType = "MARKET"

	DraftFieldSide      DraftField = "side"
	DraftFieldOrderType DraftField = "orderType"
	DraftFieldAmount    DraftField = "amount"
	DraftFieldPrice     DraftField = "price"
)

// OrderDraft is the single uncommitted order being composed. Amount, Price
// and Total are decimal strings as typed or derived; Total is never edited
// directly, it always equals amount times the effective price.
type OrderDraft struct {
	Side   SideType  `json:"side"`
	Type   OrderType `json:"orderType"`
	Amount string    `json:"amount"`
	Price  string    `json:"price"`
	Total  string    `json:"total"`
}

// OrderRecord is a committed order, frozen at submit time. Quantities are
// formatted to the pair's declared precision, totals and fee to two
// decimals of the quote currency.
type OrderRecord struct {
	Pair         string    `json:"pair"`
	Side         SideType  `json:"side"`
	Type         OrderType `json:"orderType"`
	Amount       string    `json:"amount"`
	Price        string    `json:"price"`
	Total        string    `json:"total"`
	Fee          string    `json:"fee"`
	TotalWithFee string    `json:"totalWithFee"`
	Time         int64     `json:"time"`
}

// ValidationResult carries the outcome of a draft validation pass. Every
// violated rule contributes its own message; Errors is empty iff IsValid.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// SubmitResult is returned by SubmitOrder. Order is set on success only,
// Errors is non-empty on rejection only.
type SubmitResult struct {
	Success bool         `json:"success"`
	Errors  []string     `json:"errors,omitempty"`
	Order   *OrderRecord `json:"order,omitempty"`
}

// FeeBreakdown decomposes the taker fee applied to an order total.
type FeeBreakdown struct {
	Fee          big.Decimal
	FeePct       big.Decimal
	TotalWithFee big.Decimal
}
