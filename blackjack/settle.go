package blackjack

import "parlor-lite/card"

// HandOutcome 单副手牌的结算明细. Payout 是返还给玩家的总额 (含本金), 输牌为 0.
type HandOutcome struct {
	Cards   card.CardList `json:"cards"`
	Bet     int64         `json:"bet"`
	Outcome Outcome       `json:"outcome"`
	Payout  int64         `json:"payout"`
}

// SeatResult 单个座位的结算. Net 是本手净变动 (派彩减投入).
type SeatResult struct {
	Seat      int           `json:"seat"`
	SeatID    string        `json:"seatId"`
	Net       int64         `json:"net"`
	Insurance int64         `json:"insurance,omitempty"` // 保险派彩 (含本金), 未买或输为 0
	Hands     []HandOutcome `json:"hands"`
}

type Settlement struct {
	DealerCards     card.CardList `json:"dealerCards"`
	DealerValue     int           `json:"dealerValue"`
	DealerBlackjack bool          `json:"dealerBlackjack"`
	Results         []SeatResult  `json:"results"`
}

// settle 对每副手牌独立结算并把派彩记回筹码.
//
// 赔率: 天牌 3:2, 普通胜 1:1, 平局退注, 保险 2:1.
// 弃权座位 (Left) 本金与保险全部没收.
func settle(g *Game) {
	dealerVal, _ := HandValue(g.Dealer.Cards)
	dealerBJ := IsBlackjack(g.Dealer.Cards)

	res := &Settlement{
		DealerCards:     g.Dealer.Cards.Clone(),
		DealerValue:     dealerVal,
		DealerBlackjack: dealerBJ,
	}

	for i, s := range g.Seats {
		if s == nil || len(s.Hands) == 0 {
			continue
		}
		sr := SeatResult{Seat: i, SeatID: s.ID}

		if s.Status == SeatStatusLeft {
			for _, h := range s.Hands {
				sr.Hands = append(sr.Hands, HandOutcome{Cards: h.Cards.Clone(), Bet: h.Bet, Outcome: OutcomeLose})
				sr.Net -= h.Bet
			}
			sr.Net -= s.Insurance
			res.Results = append(res.Results, sr)
			continue
		}

		for _, h := range s.Hands {
			outcome, payout := settleHand(h, dealerVal, dealerBJ)
			s.Chips += payout
			sr.Net += payout - h.Bet
			sr.Hands = append(sr.Hands, HandOutcome{Cards: h.Cards.Clone(), Bet: h.Bet, Outcome: outcome, Payout: payout})
		}
		if s.Insurance > 0 {
			if dealerBJ {
				win := s.Insurance * 3 // 本金 + 2:1
				s.Chips += win
				sr.Insurance = win
				sr.Net += win - s.Insurance
			} else {
				sr.Net -= s.Insurance
			}
		}
		s.Status = SeatStatusSettled
		res.Results = append(res.Results, sr)
	}

	g.Result = res
}

func settleHand(h Hand, dealerVal int, dealerBJ bool) (Outcome, int64) {
	v, _ := HandValue(h.Cards)
	switch {
	case h.Status == HandStatusBusted:
		return OutcomeLose, 0
	case h.Status == HandStatusBlackjack && dealerBJ:
		return OutcomePush, h.Bet
	case h.Status == HandStatusBlackjack:
		return OutcomeBlackjack, h.Bet + h.Bet*3/2
	case dealerBJ:
		return OutcomeLose, 0
	case dealerVal > 21:
		return OutcomeWin, h.Bet * 2
	case v > dealerVal:
		return OutcomeWin, h.Bet * 2
	case v == dealerVal:
		return OutcomePush, h.Bet
	default:
		return OutcomeLose, 0
	}
}
