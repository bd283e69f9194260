package poker

import "fmt"

type Config struct {
	// Table
	MaxSeats int `json:"maxSeats"`

	// Blinds / antes
	SmallBlind int64 `json:"smallBlind"`
	BigBlind   int64 `json:"bigBlind"`
	Ante       int64 `json:"ante"`

	// Buy-in limits
	MinBuyIn int64 `json:"minBuyIn"`
	MaxBuyIn int64 `json:"maxBuyIn"`

	// RNG seed (0 => time-based)
	Seed int64 `json:"seed"`
}

func (c Config) validate() error {
	if c.MaxSeats < 2 || c.MaxSeats > 9 {
		return fmt.Errorf("MaxSeats must be in 2..9")
	}
	if c.SmallBlind <= 0 {
		return fmt.Errorf("SmallBlind must be > 0")
	}
	if c.BigBlind < c.SmallBlind {
		return fmt.Errorf("BigBlind must be >= SmallBlind")
	}
	if c.Ante < 0 {
		return fmt.Errorf("Ante must be >= 0")
	}
	if c.MinBuyIn <= 0 {
		return fmt.Errorf("MinBuyIn must be > 0")
	}
	if c.MaxBuyIn < c.MinBuyIn {
		return fmt.Errorf("MaxBuyIn must be >= MinBuyIn")
	}
	return nil
}
