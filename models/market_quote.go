package models

import "time"

// MarketQuote is the simulator's current view of a single pair. One live
// instance exists per pair inside the price feed; everybody else receives
// value copies, so a consumer can never observe a half-applied tick.
type MarketQuote struct {
	PairID    string    `json:"pairId"`
	Price     float64   `json:"price"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	ChangePct float64   `json:"changePct"`
	UpdatedAt time.Time `json:"updatedAt"`
}
