package poker

import "sort"

// Pot 一个分层彩池. Eligible 是有资格争夺该池的座位下标, 升序.
type Pot struct {
	Amount   int64 `json:"amount"`
	Eligible []int `json:"eligible"`
}

// buildPots 按累计投入分层构建主池和边池.
//
// 所有入局投入 (弃牌的死钱也算) 按投入额升序切层: 每一层是该层全员的
// 共同贡献, 有资格拿池的只有仍持牌的座位. 相邻两层资格集合相同时合并,
// 避免池子数量随全下人数膨胀.
func buildPots(g *Game) []Pot {
	type stake struct {
		seat      int
		committed int64
		live      bool
	}
	stakes := make([]stake, 0, len(g.Seats))
	for i, s := range g.Seats {
		if s == nil || s.Committed <= 0 {
			continue
		}
		stakes = append(stakes, stake{seat: i, committed: s.Committed, live: inShowdown(s)})
	}
	sort.Slice(stakes, func(i, j int) bool { return stakes[i].committed < stakes[j].committed })

	var pots []Pot
	covered := int64(0)
	for i, st := range stakes {
		layer := st.committed - covered
		if layer <= 0 {
			continue
		}
		p := Pot{}
		for j := i; j < len(stakes); j++ {
			p.Amount += layer
			if stakes[j].live {
				p.Eligible = append(p.Eligible, stakes[j].seat)
			}
		}
		sort.Ints(p.Eligible)
		covered += layer

		if len(p.Eligible) == 0 {
			// 全弃层 (离席弃权者的超额投入): 并入下方最近的有主池
			if len(pots) > 0 {
				pots[len(pots)-1].Amount += p.Amount
			}
			continue
		}
		if len(pots) > 0 && equalSeats(pots[len(pots)-1].Eligible, p.Eligible) {
			pots[len(pots)-1].Amount += p.Amount
			continue
		}
		pots = append(pots, p)
	}
	return pots
}

func equalSeats(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
