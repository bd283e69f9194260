package mahjong

import "parlor-lite/tile"

// Transfer 一笔分数划转, 结算时产生. 所有划转加总恒为零.
type Transfer struct {
	From   int   `json:"from"`
	To     int   `json:"to"`
	Points int64 `json:"points"`
}

// SeatResult 结算摊牌. Score 是划转后的累计分.
type SeatResult struct {
	Seat   int           `json:"seat"`
	SeatID string        `json:"seatId"`
	Hand   tile.TileList `json:"hand"`
	Melds  []Meld        `json:"melds,omitempty"`
	Delta  int64         `json:"delta"`
	Score  int64         `json:"score"`
}

// Settlement 一局结果. 荒牌或有人中途离席都算流局:
// Drawn=true, Winner/From 为 -1, 没有划转.
type Settlement struct {
	Drawn     bool         `json:"drawn"`
	Winner    int          `json:"winner"`
	From      int          `json:"from"`
	WinTile   *tile.Tile   `json:"winTile,omitempty"`
	SelfDrawn bool         `json:"selfDrawn,omitempty"`
	Patterns  []string     `json:"patterns,omitempty"`
	Points    int64        `json:"points"`
	Transfers []Transfer   `json:"transfers,omitempty"`
	Results   []SeatResult `json:"results"`
}

// settleWin 结算胡牌. 胡的那张牌此时已并入胡家手牌;
// 自摸三家各付, 点炮只有放铳家付.
func settleWin(g *Game, winner, from int, winTile tile.Tile, selfDrawn bool) {
	seat := g.Seats[winner]
	pts, patterns := scoreWin(g.Cfg.table(), seat, selfDrawn)

	var transfers []Transfer
	if selfDrawn {
		for i, s := range g.Seats {
			if i == winner || s == nil {
				continue
			}
			transfers = append(transfers, Transfer{From: i, To: winner, Points: pts})
		}
	} else {
		transfers = append(transfers, Transfer{From: from, To: winner, Points: pts})
	}
	for _, tr := range transfers {
		g.Seats[tr.From].Score -= tr.Points
		g.Seats[tr.To].Score += tr.Points
	}

	win := winTile
	g.Result = &Settlement{
		Winner:    winner,
		From:      from,
		WinTile:   &win,
		SelfDrawn: selfDrawn,
		Patterns:  patterns,
		Points:    pts,
		Transfers: transfers,
		Results:   revealAll(g, transfers),
	}
	g.Phase = PhaseTypeFinished
	g.Claim = nil
	g.Turn = NoTurn
}

// settleDrawn 流局: 荒牌 (牌墙摸空) 或中途离席导致对局作废.
func settleDrawn(g *Game) {
	g.Result = &Settlement{
		Drawn:   true,
		Winner:  NoTurn,
		From:    NoTurn,
		Results: revealAll(g, nil),
	}
	g.Phase = PhaseTypeFinished
	g.Claim = nil
	g.Turn = NoTurn
}

func revealAll(g *Game, transfers []Transfer) []SeatResult {
	delta := map[int]int64{}
	for _, tr := range transfers {
		delta[tr.From] -= tr.Points
		delta[tr.To] += tr.Points
	}
	var out []SeatResult
	for i, s := range g.Seats {
		if s == nil {
			continue
		}
		out = append(out, SeatResult{
			Seat:   i,
			SeatID: s.ID,
			Hand:   s.Hand.Sorted(),
			Melds:  cloneMelds(s.Melds),
			Delta:  delta[i],
			Score:  s.Score,
		})
	}
	return out
}
