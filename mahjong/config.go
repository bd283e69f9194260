package mahjong

import "fmt"

// Config 开桌参数. Scoring 为 nil 时用内置默认分表.
type Config struct {
	Seed    int64       `json:"seed"`
	Scoring *ScoreTable `json:"scoring,omitempty"`
}

func (c Config) validate() error {
	if c.Scoring != nil {
		if err := c.Scoring.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) table() ScoreTable {
	if c.Scoring != nil {
		return *c.Scoring
	}
	return DefaultScoreTable()
}

func (t ScoreTable) validate() error {
	if t.Base <= 0 {
		return fmt.Errorf("mahjong: base score must be positive, got %d", t.Base)
	}
	if t.SelfDrawn < 0 || t.AllPongs < 0 || t.PureSuit < 0 ||
		t.AllHonors < 0 || t.Concealed < 0 || t.PerKong < 0 {
		return fmt.Errorf("mahjong: pattern scores must not be negative")
	}
	return nil
}
