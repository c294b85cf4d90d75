package models

import "time"

// OrderBookLevel is one synthetic ladder entry. All values are formatted to
// the pair's precision, ready for rendering.
type OrderBookLevel struct {
	Price  string `json:"price"`
	Amount string `json:"amount"`
	Total  string `json:"total"`
}

// OrderBookSnapshot is a complete synthetic book, regenerated wholesale on
// every price tick. Bids are ordered best (highest) first, asks best
// (lowest) first, so the book can never be crossed.
type OrderBookSnapshot struct {
	PairID      string           `json:"pairId"`
	Bids        []OrderBookLevel `json:"bids"`
	Asks        []OrderBookLevel `json:"asks"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// RecentTrade is one entry of the synthetic trades tape.
type RecentTrade struct {
	Time   time.Time `json:"time"`
	Price  string    `json:"price"`
	Amount string    `json:"amount"`
	Side   SideType  `json:"side"`
}
