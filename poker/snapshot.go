package poker

import "parlor-lite/card"

type SeatView struct {
	Seat       int         `json:"seat"`
	ID         string      `json:"id"`
	Chips      int64       `json:"chips"`
	Status     string      `json:"status"`
	Bet        int64       `json:"bet"`
	Committed  int64       `json:"committed"`
	Hole       []card.Card `json:"hole,omitempty"`
	LastAction string      `json:"lastAction,omitempty"`
}

// Snapshot 发给客户端的净化视图: 牌堆只给张数, 别人的底牌遮成暗牌,
// 弃掉的底牌干脆不给. 摊牌后的公开牌在 Result 里.
type Snapshot struct {
	Phase         string      `json:"phase"`
	HandNo        int         `json:"handNo"`
	DeckRemaining int         `json:"deckRemaining"`
	SmallBlind    int64       `json:"smallBlind"`
	BigBlind      int64       `json:"bigBlind"`
	Community     []card.Card `json:"community,omitempty"`
	Pot           int64       `json:"pot"`
	Button        int         `json:"button"`
	Turn          int         `json:"turn"`
	CurBet        int64       `json:"curBet"`
	MinRaise      int64       `json:"minRaise"`
	Seats         []SeatView  `json:"seats"`
	You           int         `json:"you"` // viewer 的座位下标, 未入座为 -1
	Result        *Settlement `json:"result,omitempty"`
}

func SnapshotFor(g Game, viewer string) Snapshot {
	you := seatIndex(g, viewer)
	s := Snapshot{
		Phase:         PhaseTypeDictionary[g.Phase],
		HandNo:        g.HandNo,
		DeckRemaining: g.Deck.Count(),
		SmallBlind:    g.Cfg.SmallBlind,
		BigBlind:      g.Cfg.BigBlind,
		Community:     append([]card.Card{}, g.Community...),
		Button:        g.Button,
		Turn:          g.Turn,
		CurBet:        g.CurBet,
		MinRaise:      g.MinRaise,
		You:           you,
		Result:        g.Result,
	}

	for i, seat := range g.Seats {
		if seat == nil {
			continue
		}
		s.Pot += seat.Committed
		sv := SeatView{
			Seat:      i,
			ID:        seat.ID,
			Chips:     seat.Chips,
			Status:    SeatStatusDictionary[seat.Status],
			Bet:       seat.Bet,
			Committed: seat.Committed,
		}
		if seat.LastAction != ActionTypeNone {
			sv.LastAction = ActionTypeDictionary[seat.LastAction]
		}
		if seat.Hole.Count() > 0 {
			switch {
			case i == you:
				sv.Hole = append([]card.Card{}, seat.Hole...)
			case inShowdown(seat):
				sv.Hole = []card.Card{card.CardHidden, card.CardHidden}
			}
		}
		s.Seats = append(s.Seats, sv)
	}
	return s
}
