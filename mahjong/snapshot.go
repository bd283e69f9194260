package mahjong

import "parlor-lite/tile"

// SeatView 过滤后的座位信息. Hand 只对本人填充, 别家只给张数;
// 副露和牌河本来就摊在桌面上, 全量下发.
type SeatView struct {
	Seat      int           `json:"seat"`
	ID        string        `json:"id"`
	Score     int64         `json:"score"`
	HandCount int           `json:"handCount"`
	Hand      tile.TileList `json:"hand,omitempty"`
	Melds     []Meld        `json:"melds,omitempty"`
	Discards  tile.TileList `json:"discards,omitempty"`
}

// ClaimView 声明窗口的个人视角. Allowed 只含观察者自己的抢牌资格,
// 别家有没有资格、答了什么一概不泄露.
type ClaimView struct {
	Discarder int          `json:"discarder"`
	Tile      tile.Tile    `json:"tile"`
	Allowed   []ActionType `json:"allowed,omitempty"`
	Answered  bool         `json:"answered"`
}

// Snapshot 发给单个观察者的桌面视图.
type Snapshot struct {
	Phase     Phase       `json:"phase"`
	RoundNo   int         `json:"roundNo"`
	WallCount int         `json:"wallCount"`
	Dealer    int         `json:"dealer"`
	Turn      int         `json:"turn"`
	Drawn     *tile.Tile  `json:"drawn,omitempty"` // 自己刚摸进的那张
	Claim     *ClaimView  `json:"claim,omitempty"`
	Seats     []*SeatView `json:"seats"`
	You       int         `json:"you"`
	Result    *Settlement `json:"result,omitempty"`
}

// SnapshotFor 生成 viewer 视角的桌面. 旁观者 You 为 -1, 看不到任何手牌.
func SnapshotFor(g Game, viewer string) Snapshot {
	you := seatIndex(g, viewer)
	snap := Snapshot{
		Phase:     g.Phase,
		RoundNo:   g.RoundNo,
		WallCount: g.Wall.Count(),
		Dealer:    g.Dealer,
		Turn:      g.Turn,
		Seats:     make([]*SeatView, len(g.Seats)),
		You:       you,
		Result:    g.Result,
	}
	for i, s := range g.Seats {
		if s == nil {
			continue
		}
		v := &SeatView{
			Seat:      i,
			ID:        s.ID,
			Score:     s.Score,
			HandCount: s.Hand.Count(),
			Melds:     meldViews(s.Melds, i == you),
			Discards:  s.Discards.Clone(),
		}
		if i == you {
			v.Hand = s.Hand.Sorted()
		}
		snap.Seats[i] = v
	}
	if you != NoTurn && g.Turn == you && g.LastDraw != nil {
		t := *g.LastDraw
		snap.Drawn = &t
	}
	if g.Claim != nil {
		cv := &ClaimView{Discarder: g.Claim.Discarder, Tile: g.Claim.Tile}
		for _, o := range g.Claim.Offers {
			if o.Seat == you {
				cv.Allowed = append([]ActionType(nil), o.Allowed...)
				cv.Answered = o.Answer != ActionTypeNone
			}
		}
		snap.Claim = cv
	}
	return snap
}

// meldViews 副露视图. 暗杠的牌面只有本人能看, 别家看到四张盖牌.
func meldViews(melds []Meld, mine bool) []Meld {
	if melds == nil {
		return nil
	}
	out := make([]Meld, len(melds))
	for i, m := range melds {
		if m.Concealed && !mine {
			hidden := make(tile.TileList, m.Tiles.Count())
			for j := range hidden {
				hidden[j] = tile.TileHidden
			}
			m.Tiles = hidden
		} else {
			m.Tiles = m.Tiles.Clone()
		}
		out[i] = m
	}
	return out
}
