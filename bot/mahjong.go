package bot

import (
	"parlor-lite/internal/codec"
	"parlor-lite/mahjong"
	"parlor-lite/tile"
)

// decideMahjong 固定策略: 能胡就胡, 能杠就杠, 能碰就碰,
// 吃只在手型搭子多时要, 出牌永远弃联络度最低的孤张.
// 策略完全确定, 同一桌面永远给同一手.
func decideMahjong(view *mahjong.Snapshot) (codec.ActionRequest, bool) {
	me := mahjongSeat(view)
	if me == nil {
		return codec.ActionRequest{}, false
	}

	switch view.Phase {
	case mahjong.PhaseTypeWaiting, mahjong.PhaseTypeFinished:
		if mahjongFull(view) {
			return codec.ActionRequest{Type: "NEXTROUND"}, true
		}
		return codec.ActionRequest{}, false
	case mahjong.PhaseTypePlaying:
	default:
		return codec.ActionRequest{}, false
	}

	// 声明窗口优先: 有资格就必须表态, 不然整桌等着.
	if view.Claim != nil {
		if len(view.Claim.Allowed) == 0 || view.Claim.Answered {
			return codec.ActionRequest{}, false
		}
		k := view.Claim.Tile.Kind
		switch {
		case claimAllows(view.Claim, mahjong.ActionTypeWin):
			return codec.ActionRequest{Type: "WIN"}, true
		case claimAllows(view.Claim, mahjong.ActionTypeKong):
			return codec.ActionRequest{Type: "KONG", Kind: k}, true
		case claimAllows(view.Claim, mahjong.ActionTypePong):
			return codec.ActionRequest{Type: "PONG"}, true
		case claimAllows(view.Claim, mahjong.ActionTypeChow):
			// 只有两种以上搭子才吃, 孤张不去凑.
			if opts := mahjong.ChowOptions(me.Hand, k); len(opts) > 1 {
				return codec.ActionRequest{Type: "CHOW", Using: chowUsing(me.Hand, opts[0])}, true
			}
		}
		return codec.ActionRequest{Type: "PASS"}, true
	}

	if view.Turn != view.You {
		return codec.ActionRequest{}, false
	}

	resting := 13 - 3*len(me.Melds)
	if me.Hand.Count() == resting {
		return codec.ActionRequest{Type: "DRAW"}, true
	}

	// 手上多一张: 自摸 > 杠 > 弃孤张.
	if view.Drawn != nil && mahjong.IsWinningHand(me.Hand, me.Melds) {
		return codec.ActionRequest{Type: "WIN"}, true
	}
	counts := me.Hand.KindCounts()
	for _, t := range me.Hand.Sorted() {
		if counts[t.Kind] == 4 {
			return codec.ActionRequest{Type: "KONG", Kind: t.Kind}, true
		}
	}
	for _, m := range me.Melds {
		if m.Type == mahjong.MeldPong && counts[m.Tiles[0].Kind] > 0 {
			return codec.ActionRequest{Type: "KONG", Kind: m.Tiles[0].Kind}, true
		}
	}
	pick := discardChoice(me.Hand)
	return codec.ActionRequest{Type: "DISCARD", Tile: pick.ID}, true
}

func mahjongSeat(view *mahjong.Snapshot) *mahjong.SeatView {
	if view.You < 0 || view.You >= len(view.Seats) {
		return nil
	}
	return view.Seats[view.You]
}

func mahjongFull(view *mahjong.Snapshot) bool {
	n := 0
	for _, s := range view.Seats {
		if s != nil {
			n++
		}
	}
	return n == mahjong.SeatCount
}

func claimAllows(c *mahjong.ClaimView, want mahjong.ActionType) bool {
	for _, a := range c.Allowed {
		if a == want {
			return true
		}
	}
	return false
}

// chowUsing 把搭子牌种翻成手里具体的两张牌 ID.
func chowUsing(hand tile.TileList, pair [2]tile.Kind) []int16 {
	using := make([]int16, 0, 2)
	for _, want := range pair {
		for _, t := range hand {
			if t.Kind != want {
				continue
			}
			if len(using) > 0 && using[0] == t.ID {
				continue
			}
			using = append(using, t.ID)
			break
		}
	}
	return using
}

// discardChoice 挑联络度最低的一张: 复份算刻子材料,
// 两格以内的同色近邻算搭子材料, 字牌孤张最先走.
// 同分按牌种和 ID 取最小, 保证决策可复现.
func discardChoice(hand tile.TileList) tile.Tile {
	counts := hand.KindCounts()
	sorted := hand.Sorted()
	pick := sorted[0]
	bestScore := 1 << 30
	for _, t := range sorted {
		score := (counts[t.Kind] - 1) * 8
		if t.Kind.IsSuited() {
			for d := -2; d <= 2; d++ {
				if d == 0 {
					continue
				}
				nb, ok := neighborKind(t.Kind, d)
				if !ok {
					continue
				}
				weight := 4
				if d == -2 || d == 2 {
					weight = 2
				}
				score += counts[nb] * weight
			}
		}
		if score < bestScore {
			bestScore = score
			pick = t
		}
	}
	return pick
}

// neighborKind 同色偏移 d 的牌种, 越界返回 false.
func neighborKind(k tile.Kind, d int) (tile.Kind, bool) {
	v := k.Value() + d
	if v < 1 || v > 9 {
		return 0, false
	}
	return tile.Kind((byte(k) & 0xF0) | byte(v)), true
}
