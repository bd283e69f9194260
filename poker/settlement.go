package poker

import "parlor-lite/card"

// PotResult 单个彩池的归属. Shares 与 Winners 一一对应.
type PotResult struct {
	Amount   int64   `json:"amount"`
	Eligible []int   `json:"eligible"`
	Winners  []int   `json:"winners"`
	Shares   []int64 `json:"shares"`
}

// SeatResult 座位结算明细. Net 是本手净变动 (赢得减投入).
// Hole 和 Rank 只在摊牌座位上出现, 弃牌的底牌不公开.
type SeatResult struct {
	Seat   int           `json:"seat"`
	SeatID string        `json:"seatId"`
	Net    int64         `json:"net"`
	Won    int64         `json:"won"`
	Hole   card.CardList `json:"hole,omitempty"`
	Rank   *HandRank     `json:"rank,omitempty"`
}

type Settlement struct {
	Showdown   bool          `json:"showdown"`
	Community  card.CardList `json:"community"`
	Pots       []PotResult   `json:"pots"`
	RefundSeat int           `json:"refundSeat"`
	Refund     int64         `json:"refund,omitempty"`
	Results    []SeatResult  `json:"results"`
}

// settle 结束一手: 退还未被跟的超额注, 分层分池, 派彩并封盘.
//
// showdown=false 走无摊牌路径 (其余人全弃), 唯一持牌者整锅拿走且不亮牌.
// 平分摊牌池时除不尽的零头给按钮顺时针方向最近的赢家.
func settle(g *Game, showdown bool) {
	g.Phase = PhaseTypeShowdown
	g.Turn = NoTurn
	for _, s := range g.Seats {
		if s != nil {
			s.Bet = 0
		}
	}

	refundSeat, refund := refundExcess(g)

	res := &Settlement{
		Showdown:   showdown,
		Community:  g.Community.Clone(),
		RefundSeat: refundSeat,
		Refund:     refund,
	}

	// 摊牌座位评出各自的最佳五张
	ranks := map[int]HandRank{}
	if showdown {
		for i, s := range g.Seats {
			if s == nil || !inShowdown(s) {
				continue
			}
			all := s.Hole.Clone()
			all.Add(g.Community...)
			ranks[i] = BestOfSeven(all)
		}
	}

	won := map[int]int64{}
	for _, pot := range buildPots(g) {
		winners := pot.Eligible
		if showdown {
			winners = potWinners(pot.Eligible, ranks)
		}
		if len(winners) == 0 || pot.Amount <= 0 {
			res.Pots = append(res.Pots, PotResult{Amount: pot.Amount, Eligible: pot.Eligible})
			continue
		}

		share := pot.Amount / int64(len(winners))
		remainder := pot.Amount % int64(len(winners))
		oddTo := firstFromButton(g, winners)

		pr := PotResult{Amount: pot.Amount, Eligible: pot.Eligible, Winners: winners}
		for _, w := range winners {
			amt := share
			if w == oddTo {
				amt += remainder
			}
			pr.Shares = append(pr.Shares, amt)
			won[w] += amt
			g.Seats[w].Chips += amt
		}
		res.Pots = append(res.Pots, pr)
	}

	for i, s := range g.Seats {
		if s == nil || s.Hole.Count() == 0 {
			continue
		}
		// 退注座位的 Committed 已在退注时扣减, Net 无需再补
		sr := SeatResult{
			Seat:   i,
			SeatID: s.ID,
			Won:    won[i],
			Net:    won[i] - s.Committed,
		}
		if r, ok := ranks[i]; ok {
			sr.Hole = s.Hole.Clone()
			rc := r
			sr.Rank = &rc
		}
		res.Results = append(res.Results, sr)
	}

	g.Result = res
	g.Phase = PhaseTypeFinished
}

// refundExcess 退还没人跟到的超额投入.
// 只退给仍持牌的唯一最大投入者; 弃权者的超额留在池里当死钱.
func refundExcess(g *Game) (int, int64) {
	maxSeat, maxC, secondC := NoTurn, int64(0), int64(0)
	for i, s := range g.Seats {
		if s == nil || s.Committed <= 0 {
			continue
		}
		if s.Committed > maxC {
			secondC = maxC
			maxC = s.Committed
			maxSeat = i
		} else if s.Committed > secondC {
			secondC = s.Committed
		}
	}
	if maxSeat == NoTurn || maxC == secondC {
		return NoTurn, 0
	}
	s := g.Seats[maxSeat]
	if !inShowdown(s) {
		return NoTurn, 0
	}
	excess := maxC - secondC
	s.Chips += excess
	s.Committed -= excess
	return maxSeat, excess
}

// potWinners 在资格座位里选出最强的一批 (并列全留).
func potWinners(eligible []int, ranks map[int]HandRank) []int {
	var winners []int
	for _, seat := range eligible {
		r, ok := ranks[seat]
		if !ok {
			continue
		}
		if len(winners) == 0 {
			winners = []int{seat}
			continue
		}
		switch Compare(r, ranks[winners[0]]) {
		case 1:
			winners = []int{seat}
		case 0:
			winners = append(winners, seat)
		}
	}
	return winners
}

// firstFromButton 从按钮顺时针扫, 返回 seats 里最先遇到的座位.
func firstFromButton(g *Game, seats []int) int {
	in := map[int]bool{}
	for _, s := range seats {
		in[s] = true
	}
	for n := 1; n <= len(g.Seats); n++ {
		i := (g.Button + n) % len(g.Seats)
		if in[i] {
			return i
		}
	}
	return seats[0]
}
