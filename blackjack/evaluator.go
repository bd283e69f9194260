package blackjack

import "parlor-lite/card"

// cardValue 2-9 按面值, T/J/Q/K 算 10, A 先按 1 (11 由 HandValue 决定)
func cardValue(c card.Card) int {
	r := int(c.Rank())
	if r > 10 {
		return 10
	}
	return r
}

// HandValue 计算手牌点数.
//
// A 可算 1 或 11: 取所有不爆的组合里最大的; 全爆时取最小组合.
// soft 表示采用的组合里有一张 A 按 11 计.
func HandValue(cards card.CardList) (best int, soft bool) {
	total := 0
	aces := 0
	for _, c := range cards {
		total += cardValue(c)
		if c.IsAce() {
			aces++
		}
	}
	// 至多一张 A 按 11 有意义: 两张 11 必爆
	if aces > 0 && total+10 <= 21 {
		return total + 10, true
	}
	return total, false
}

// IsBlackjack 天牌: 前两张直接 21 (分牌后的 21 不算)
func IsBlackjack(cards card.CardList) bool {
	if cards.Count() != 2 {
		return false
	}
	v, _ := HandValue(cards)
	return v == 21
}

func IsBust(cards card.CardList) bool {
	v, _ := HandValue(cards)
	return v > 21
}

// DealerShouldHit 庄家策略唯一判定点: 不足 17 必须要牌,
// 软 17 由桌面配置决定, 硬 17 及以上必须停牌.
func DealerShouldHit(cards card.CardList, hitSoft17 bool) bool {
	v, soft := HandValue(cards)
	if v < 17 {
		return true
	}
	if v == 17 && soft && hitSoft17 {
		return true
	}
	return false
}
