package models

import "time"

// UnavailableBalance is returned as the balance string when every provider failed.
// It is indistinguishable from a confirmed zero by value alone; check Balance.Available.
const UnavailableBalance = "0"

// Balance is a wallet balance in whole TON with two fraction digits.
type Balance struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Source  Source `json:"source"`
	// Available is false when no provider could be reached.
	Available bool      `json:"available"`
	FetchedAt time.Time `json:"lastUpdated"`
}
