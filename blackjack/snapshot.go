package blackjack

import "parlor-lite/card"

type HandView struct {
	Cards     []card.Card `json:"cards"`
	Bet       int64       `json:"bet"`
	Status    string      `json:"status"`
	FromSplit bool        `json:"fromSplit,omitempty"`
}

type SeatView struct {
	Seat          int        `json:"seat"`
	ID            string     `json:"id"`
	Chips         int64      `json:"chips"`
	Status        string     `json:"status"`
	Hands         []HandView `json:"hands,omitempty"`
	Insurance     int64      `json:"insurance,omitempty"`
	InsuranceOpen bool       `json:"insuranceOpen,omitempty"`
}

type DealerView struct {
	Cards    []card.Card `json:"cards"`
	Value    int         `json:"value,omitempty"`
	Revealed bool        `json:"revealed"`
}

// Snapshot 发给客户端的净化视图: 牌靴只给张数, 庄家暗牌亮牌前遮掉.
// 玩家手牌本来就是明牌, 所有人可见.
type Snapshot struct {
	Phase         string      `json:"phase"`
	HandNo        int         `json:"handNo"`
	ShoeRemaining int         `json:"shoeRemaining"`
	MinBet        int64       `json:"minBet"`
	MaxBet        int64       `json:"maxBet"`
	HitSoft17     bool        `json:"hitSoft17"`
	Dealer        DealerView  `json:"dealer"`
	Seats         []SeatView  `json:"seats"`
	Turn          int         `json:"turn"`
	TurnHand      int         `json:"turnHand"`
	You           int         `json:"you"` // viewer 的座位下标, 未入座为 -1
	Result        *Settlement `json:"result,omitempty"`
}

func SnapshotFor(g Game, viewer string) Snapshot {
	s := Snapshot{
		Phase:         PhaseTypeDictionary[g.Phase],
		HandNo:        g.HandNo,
		ShoeRemaining: g.Shoe.Count(),
		MinBet:        g.Cfg.MinBet,
		MaxBet:        g.Cfg.MaxBet,
		HitSoft17:     g.Cfg.HitSoft17,
		Turn:          g.Turn,
		TurnHand:      g.TurnHand,
		You:           seatIndex(g, viewer),
		Result:        g.Result,
	}

	s.Dealer.Revealed = g.Dealer.Revealed
	for i, c := range g.Dealer.Cards {
		if i == 1 && !g.Dealer.Revealed {
			s.Dealer.Cards = append(s.Dealer.Cards, card.CardHidden)
			continue
		}
		s.Dealer.Cards = append(s.Dealer.Cards, c)
	}
	if g.Dealer.Revealed {
		s.Dealer.Value, _ = HandValue(g.Dealer.Cards)
	}

	for i, seat := range g.Seats {
		if seat == nil {
			continue
		}
		sv := SeatView{
			Seat:          i,
			ID:            seat.ID,
			Chips:         seat.Chips,
			Status:        SeatStatusDictionary[seat.Status],
			Insurance:     seat.Insurance,
			InsuranceOpen: seat.InsuranceOpen,
		}
		for _, h := range seat.Hands {
			sv.Hands = append(sv.Hands, HandView{
				Cards:     append([]card.Card{}, h.Cards...),
				Bet:       h.Bet,
				Status:    HandStatusDictionary[h.Status],
				FromSplit: h.FromSplit,
			})
		}
		s.Seats = append(s.Seats, sv)
	}
	return s
}
