package bot

import (
	"math"
	"math/rand"

	evalpoker "github.com/paulhankin/poker"

	"parlor-lite/card"
	"parlor-lite/internal/codec"
	"parlor-lite/poker"
)

// equitySamples 蒙特卡洛采样次数. 七张评估极快, 这个量级一次决策
// 在毫秒内完成.
const equitySamples = 160

// decidePoker 按胜率下注: 剩余牌随机补满对手底牌和公共牌,
// 七张评估比大小得出胜率, 再套用风格参数决定弃/跟/加.
func decidePoker(view *poker.Snapshot, p Persona, rng *rand.Rand) (codec.ActionRequest, bool) {
	me := pokerSeat(view)

	switch view.Phase {
	case "waiting", "finished":
		// 坐满两个有筹码的座位就开下一手, 抢先的那个生效.
		if me != nil && countStacked(view) >= 2 {
			return codec.ActionRequest{Type: "NEXTHAND"}, true
		}
		return codec.ActionRequest{}, false
	case "preflop", "flop", "turn", "river":
	default:
		return codec.ActionRequest{}, false
	}
	if me == nil || view.Turn != view.You || me.Status != "playing" {
		return codec.ActionRequest{}, false
	}

	strength := equity(me.Hole, view.Community, countLive(view)-1, rng)
	aggression := clamp01(p.Aggression + (rng.Float64()-0.5)*p.Randomness*0.4)
	tightness := clamp01(p.Tightness + (rng.Float64()-0.5)*p.Randomness*0.3)
	toCall := view.CurBet - me.Bet

	if toCall <= 0 {
		if strength > (1.0-aggression)*0.5 || rng.Float64() < p.Bluffing*0.3 {
			return raiseRequest(view, me, aggression)
		}
		return codec.ActionRequest{Type: "CHECK"}, true
	}

	potOdds := float64(toCall) / float64(view.Pot+toCall)
	switch {
	case strength > potOdds+0.15 && strength > (1.0-aggression)*0.6:
		return raiseRequest(view, me, aggression)
	case strength >= potOdds || strength > tightness*0.4:
		return codec.ActionRequest{Type: "CALL"}, true
	case rng.Float64() < p.Bluffing*0.15:
		return raiseRequest(view, me, aggression)
	default:
		return codec.ActionRequest{Type: "FOLD"}, true
	}
}

// raiseRequest 计算加注目标额: 没人下注按彩池比例开注,
// 有注按当前注的两到三倍半加. 目标盖过后手就直接全下.
func raiseRequest(view *poker.Snapshot, me *poker.SeatView, aggression float64) (codec.ActionRequest, bool) {
	var target int64
	if view.CurBet == 0 {
		target = int64(float64(view.Pot) * (0.33 + aggression*0.67))
		if target < view.MinRaise {
			target = view.MinRaise
		}
		if target < view.BigBlind {
			target = view.BigBlind
		}
	} else {
		target = view.CurBet*2 + int64(aggression*1.5*float64(view.CurBet))
		if target < view.CurBet+view.MinRaise {
			target = view.CurBet + view.MinRaise
		}
	}
	if target >= me.Bet+me.Chips {
		return codec.ActionRequest{Type: "ALLIN"}, true
	}
	return codec.ActionRequest{Type: "RAISE", Amount: target}, true
}

// equity 估算对 opponents 个随机手牌的摊牌胜率, 平局记半胜.
func equity(hole []card.Card, community []card.Card, opponents int, rng *rand.Rand) float64 {
	if len(hole) != 2 {
		return 0
	}
	if opponents < 1 {
		opponents = 1
	}
	known := make(map[card.Card]bool, len(hole)+len(community))
	for _, c := range hole {
		known[c] = true
	}
	for _, c := range community {
		known[c] = true
	}
	pool := make(card.CardList, 0, 52)
	for _, c := range card.NewDeck() {
		if !known[c] {
			pool = append(pool, c)
		}
	}
	if need := 5 - len(community) + opponents*2; need > len(pool) {
		return 0
	}

	score := 0.0
	for i := 0; i < equitySamples; i++ {
		sample := pool.Shuffled(rng)
		board := make([]card.Card, len(community), 5)
		copy(board, community)
		idx := 0
		for len(board) < 5 {
			board = append(board, sample[idx])
			idx++
		}
		mine, err := eval7(hole, board)
		if err != nil {
			return 0
		}
		var best int16 = math.MinInt16
		for o := 0; o < opponents; o++ {
			oppScore, err := eval7(sample[idx:idx+2], board)
			if err != nil {
				return 0
			}
			idx += 2
			if oppScore > best {
				best = oppScore
			}
		}
		switch {
		case mine > best:
			score += 1
		case mine == best:
			score += 0.5
		}
	}
	return score / float64(equitySamples)
}

func pokerSeat(view *poker.Snapshot) *poker.SeatView {
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

// countStacked 有筹码能开下一手的座位数.
func countStacked(view *poker.Snapshot) int {
	n := 0
	for _, s := range view.Seats {
		if s.Chips > 0 && s.Status != "left" {
			n++
		}
	}
	return n
}

// countLive 本手还在争彩池的座位数.
func countLive(view *poker.Snapshot) int {
	n := 0
	for _, s := range view.Seats {
		if s.Status == "playing" || s.Status == "allin" {
			n++
		}
	}
	return n
}

// evalSuitOrder card 包花色 0..3 = 黑桃/红桃/梅花/方块,
// 评估库 0..3 = 梅花/方块/红桃/黑桃.
var evalSuitOrder = [4]uint8{3, 2, 0, 1}

func evalCard(c card.Card) (evalpoker.Card, error) {
	return evalpoker.MakeCard(evalpoker.Suit(evalSuitOrder[c.Suit()]), evalpoker.Rank(c.Rank()))
}

// eval7 两张底牌加五张公共牌的七张强度, 越大越强.
func eval7(hole []card.Card, board []card.Card) (int16, error) {
	var final [7]evalpoker.Card
	idx := 0
	for _, c := range hole {
		ec, err := evalCard(c)
		if err != nil {
			return 0, err
		}
		final[idx] = ec
		idx++
	}
	for _, c := range board {
		ec, err := evalCard(c)
		if err != nil {
			return 0, err
		}
		final[idx] = ec
		idx++
	}
	return evalpoker.Eval7(&final), nil
}
