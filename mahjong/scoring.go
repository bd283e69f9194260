package mahjong

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"parlor-lite/tile"
)

// ScoreTable 番型分表, 可由配置文件覆盖. 命中的番在底分上叠加;
// 点炮放铳一家付全额, 自摸三家各付全额.
type ScoreTable struct {
	Base      int64 `json:"base" yaml:"base"`
	SelfDrawn int64 `json:"selfDrawn" yaml:"self_drawn"`
	AllPongs  int64 `json:"allPongs" yaml:"all_pongs"`
	PureSuit  int64 `json:"pureSuit" yaml:"pure_suit"`
	AllHonors int64 `json:"allHonors" yaml:"all_honors"`
	Concealed int64 `json:"concealed" yaml:"concealed"`
	PerKong   int64 `json:"perKong" yaml:"per_kong"`
}

func DefaultScoreTable() ScoreTable {
	return ScoreTable{
		Base:      8,
		SelfDrawn: 2,
		AllPongs:  6,
		PureSuit:  24,
		AllHonors: 32,
		Concealed: 4,
		PerKong:   2,
	}
}

// LoadScoreTable 从 YAML 文件读分表. 文件里没写的番保持默认值.
func LoadScoreTable(path string) (ScoreTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScoreTable{}, fmt.Errorf("read score table: %w", err)
	}
	t := DefaultScoreTable()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return ScoreTable{}, fmt.Errorf("parse score table: %w", err)
	}
	if err := t.validate(); err != nil {
		return ScoreTable{}, err
	}
	return t, nil
}

// 番名, 结算单里展示用
const (
	PatternBase      = "base"
	PatternSelfDrawn = "self-drawn"
	PatternAllPongs  = "all-pongs"
	PatternPureSuit  = "pure-suit"
	PatternAllHonors = "all-honors"
	PatternConcealed = "concealed"
	PatternKong      = "kong"
)

// scoreWin 对胡牌座位计番. 手牌此时已含胡的那张牌.
func scoreWin(table ScoreTable, s *Seat, selfDrawn bool) (int64, []string) {
	pts := table.Base
	patterns := []string{PatternBase}

	if selfDrawn {
		pts += table.SelfDrawn
		patterns = append(patterns, PatternSelfDrawn)
	}
	if winningAllPongs(s.Hand, s.Melds) {
		pts += table.AllPongs
		patterns = append(patterns, PatternAllPongs)
	}
	all := s.Hand.Clone()
	for _, m := range s.Melds {
		all.Add(m.Tiles...)
	}
	if oneSuit(all) {
		pts += table.PureSuit
		patterns = append(patterns, PatternPureSuit)
	}
	if allHonors(all) {
		pts += table.AllHonors
		patterns = append(patterns, PatternAllHonors)
	}
	// 门清: 没有副露, 暗杠不算破门
	concealed := true
	for _, m := range s.Melds {
		if !m.Concealed {
			concealed = false
		}
		if m.Type == MeldKong {
			pts += table.PerKong
			patterns = append(patterns, PatternKong)
		}
	}
	if concealed {
		pts += table.Concealed
		patterns = append(patterns, PatternConcealed)
	}
	return pts, patterns
}

// oneSuit 清一色: 全是同一门数牌.
func oneSuit(ts tile.TileList) bool {
	if ts.Count() == 0 {
		return false
	}
	suit := ts[0].Kind.Suit()
	for _, t := range ts {
		if !t.Kind.IsSuited() || t.Kind.Suit() != suit {
			return false
		}
	}
	return true
}

// allHonors 字一色: 全是风牌和箭牌.
func allHonors(ts tile.TileList) bool {
	if ts.Count() == 0 {
		return false
	}
	for _, t := range ts {
		if !t.Kind.IsHonor() {
			return false
		}
	}
	return true
}
