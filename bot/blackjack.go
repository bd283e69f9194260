package bot

import (
	"parlor-lite/blackjack"
	"parlor-lite/card"
	"parlor-lite/internal/codec"
)

// decideBlackjack 简化基本策略: 庄家明牌 2..6 当弱牌防爆,
// 7 以上打到硬 17; 只分 A/A 和 8/8, 硬 11 和对 9 以下的硬 10 加倍,
// 保险从来不买.
func decideBlackjack(view *blackjack.Snapshot) (codec.ActionRequest, bool) {
	me := blackjackSeat(view)
	if me == nil {
		return codec.ActionRequest{}, false
	}

	switch view.Phase {
	case "betting":
		if me.Status == "betting" && len(me.Hands) == 0 && me.Chips >= view.MinBet {
			return codec.ActionRequest{Type: "BET", Amount: view.MinBet}, true
		}
		return codec.ActionRequest{}, false
	case "finished":
		return codec.ActionRequest{Type: "NEXTHAND"}, true
	case "playing":
	default:
		return codec.ActionRequest{}, false
	}

	if view.Turn != view.You || view.TurnHand >= len(me.Hands) {
		return codec.ActionRequest{}, false
	}
	hand := me.Hands[view.TurnHand]
	if len(view.Dealer.Cards) == 0 {
		return codec.ActionRequest{}, false
	}
	up := upcardValue(view.Dealer.Cards[0])
	total, soft := blackjack.HandValue(hand.Cards)
	pair := len(hand.Cards) == 2 && hand.Cards[0].Rank() == hand.Cards[1].Rank()
	fresh := len(hand.Cards) == 2 && !hand.FromSplit
	canAfford := me.Chips >= hand.Bet

	// 分牌: 只分 A/A 和 8/8.
	if pair && !hand.FromSplit && canAfford {
		switch hand.Cards[0].Rank() {
		case 1, 8:
			return codec.ActionRequest{Type: "SPLIT"}, true
		}
	}
	// 加倍: 硬 11 见谁都加, 硬 10 不对 10/A 加.
	if fresh && !soft && canAfford {
		if total == 11 || (total == 10 && up <= 9) {
			return codec.ActionRequest{Type: "DOUBLE"}, true
		}
	}
	if soft {
		// 软牌打法: 到软 18 为止都要, 对 9/10/A 的软 18 继续要.
		if total <= 17 || (total == 18 && up >= 9) {
			return codec.ActionRequest{Type: "HIT"}, true
		}
		return codec.ActionRequest{Type: "STAND"}, true
	}
	switch {
	case total <= 11:
		return codec.ActionRequest{Type: "HIT"}, true
	case total == 12:
		if up >= 4 && up <= 6 {
			return codec.ActionRequest{Type: "STAND"}, true
		}
		return codec.ActionRequest{Type: "HIT"}, true
	case total <= 16:
		if up <= 6 {
			return codec.ActionRequest{Type: "STAND"}, true
		}
		return codec.ActionRequest{Type: "HIT"}, true
	default:
		return codec.ActionRequest{Type: "STAND"}, true
	}
}

func blackjackSeat(view *blackjack.Snapshot) *blackjack.SeatView {
	if view.You < 0 {
		return nil
	}
	for i := range view.Seats {
		if view.Seats[i].Seat == view.You {
			return &view.Seats[i]
		}
	}
	return nil
}

// upcardValue 庄家明牌的策略点数: A 记 11, 花牌记 10.
func upcardValue(c card.Card) int {
	switch {
	case c.IsAce():
		return 11
	case c.Rank() >= 10:
		return 10
	default:
		return int(c.Rank())
	}
}
