package blackjack

import "fmt"

type Config struct {
	// Table
	MaxSeats int `json:"maxSeats"`

	// Shoe
	Decks int `json:"decks"`

	// Bet limits
	MinBet int64 `json:"minBet"`
	MaxBet int64 `json:"maxBet"`

	// Dealer policy: true 时庄家软17继续要牌
	HitSoft17 bool `json:"hitSoft17"`

	// RNG seed (0 => time-based)
	Seed int64 `json:"seed"`
}

func (c Config) validate() error {
	if c.MaxSeats <= 0 || c.MaxSeats > 7 {
		return fmt.Errorf("MaxSeats must be in 1..7")
	}
	if c.Decks <= 0 || c.Decks > 8 {
		return fmt.Errorf("Decks must be in 1..8")
	}
	if c.MinBet <= 0 {
		return fmt.Errorf("MinBet must be > 0")
	}
	if c.MaxBet < c.MinBet {
		return fmt.Errorf("MaxBet must be >= MinBet")
	}
	return nil
}
