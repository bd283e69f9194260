package mahjong

import (
	"sort"

	"parlor-lite/tile"
)

// IsWinningHand 判断 hand+melds 是否构成 4 面子 + 1 对.
// hand 须包含待胡的那张牌; 七对/十三幺等特殊牌型不做.
func IsWinningHand(hand tile.TileList, melds []Meld) bool {
	return winning(hand, melds, true)
}

// winningAllPongs 是碰碰胡检查: 手牌能拆成纯刻子 + 对, 且副露全是碰/杠.
func winningAllPongs(hand tile.TileList, melds []Meld) bool {
	for _, m := range melds {
		if m.Type == MeldChow {
			return false
		}
	}
	return winning(hand, melds, false)
}

func winning(hand tile.TileList, melds []Meld, allowChow bool) bool {
	need := 4 - len(melds)
	if need < 0 || hand.Count() != need*3+2 {
		return false
	}
	kinds := sortedKinds(hand)
	// 枚举对子, 剩余全部拆面子. 记忆表按剩余多重集共享,
	// 不同对子选择后殊途同归的残手只拆一次.
	memo := make(map[string]bool)
	tried := tile.KindInvalid
	for i := 0; i+1 < len(kinds); i++ {
		if kinds[i] != kinds[i+1] || kinds[i] == tried {
			continue
		}
		tried = kinds[i]
		rest := make([]tile.Kind, 0, len(kinds)-2)
		rest = append(rest, kinds[:i]...)
		rest = append(rest, kinds[i+2:]...)
		if formSets(rest, allowChow, memo) {
			return true
		}
	}
	return false
}

// formSets 判断排序后的牌种序列能否全部拆成刻子/顺子.
// 每次只看最小的一张: 它要么起刻子要么起顺子, 否则整手失败.
func formSets(kinds []tile.Kind, allowChow bool, memo map[string]bool) bool {
	if len(kinds) == 0 {
		return true
	}
	key := kindsKey(kinds)
	if v, ok := memo[key]; ok {
		return v
	}
	ok := false
	k := kinds[0]
	if len(kinds) >= 3 && kinds[1] == k && kinds[2] == k {
		ok = formSets(kinds[3:], allowChow, memo)
	}
	if !ok && allowChow && k.IsSuited() && k.Value() <= 7 {
		if rest, good := takeRun(kinds); good {
			ok = formSets(rest, allowChow, memo)
		}
	}
	memo[key] = ok
	return ok
}

func kindsKey(kinds []tile.Kind) string {
	b := make([]byte, len(kinds))
	for i, k := range kinds {
		b[i] = byte(k)
	}
	return string(b)
}

// takeRun 从排序序列里取走 kinds[0] 起始的顺子, 返回剩余 (仍有序).
func takeRun(kinds []tile.Kind) ([]tile.Kind, bool) {
	rest := make([]tile.Kind, len(kinds)-1)
	copy(rest, kinds[1:])
	for _, want := range [2]tile.Kind{kinds[0] + 1, kinds[0] + 2} {
		i := sort.Search(len(rest), func(j int) bool { return rest[j] >= want })
		if i == len(rest) || rest[i] != want {
			return nil, false
		}
		rest = append(rest[:i], rest[i+1:]...)
	}
	return rest, true
}

func sortedKinds(hand tile.TileList) []tile.Kind {
	kinds := make([]tile.Kind, 0, hand.Count())
	for _, t := range hand {
		kinds = append(kinds, t.Kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// CanWinOn 判断摸到/别家打出一张 k 后是否成胡.
func CanWinOn(hand tile.TileList, melds []Meld, k tile.Kind) bool {
	h := hand.Clone()
	h.Add(tile.Tile{ID: -1, Kind: k})
	return winning(h, melds, true)
}

// CanPong 手里有两张同种即可碰.
func CanPong(hand tile.TileList, k tile.Kind) bool {
	return hand.CountOf(k) >= 2
}

// CanKongFromDiscard 手里有三张同种, 加上打出的一张成明杠.
func CanKongFromDiscard(hand tile.TileList, k tile.Kind) bool {
	return hand.CountOf(k) >= 3
}

// ChowOptions 列出能和 k 连成顺子的两张手牌搭子, 按起始牌升序.
// 只有数牌能吃.
func ChowOptions(hand tile.TileList, k tile.Kind) [][2]tile.Kind {
	if !k.IsSuited() {
		return nil
	}
	var out [][2]tile.Kind
	for _, pair := range [3][2]tile.Kind{
		{k - 2, k - 1},
		{k - 1, k + 1},
		{k + 1, k + 2},
	} {
		if pair[0].Suit() != k.Suit() || pair[1].Suit() != k.Suit() {
			continue
		}
		if !pair[0].Valid() || !pair[1].Valid() {
			continue
		}
		if hand.CountOf(pair[0]) > 0 && hand.CountOf(pair[1]) > 0 {
			out = append(out, pair)
		}
	}
	return out
}

// runWith 判断 k 和两张手牌 a b 能否连成顺子.
func runWith(k, a, b tile.Kind) bool {
	if !k.IsSuited() || a.Suit() != k.Suit() || b.Suit() != k.Suit() {
		return false
	}
	v := []int{k.Value(), a.Value(), b.Value()}
	sort.Ints(v)
	return v[0]+1 == v[1] && v[1]+1 == v[2]
}
