package poker

import (
	"sort"

	"parlor-lite/card"
)

// Category 牌型等级, 数值越大越强.
type Category byte

const (
	CategoryHighCard      Category = 0
	CategoryPair          Category = 1
	CategoryTwoPair       Category = 2
	CategoryThreeOfAKind  Category = 3
	CategoryStraight      Category = 4
	CategoryFlush         Category = 5
	CategoryFullHouse     Category = 6
	CategoryFourOfAKind   Category = 7
	CategoryStraightFlush Category = 8
	CategoryRoyalFlush    Category = 9
)

var CategoryDictionary = map[Category]string{
	CategoryHighCard:      "high-card",
	CategoryPair:          "pair",
	CategoryTwoPair:       "two-pair",
	CategoryThreeOfAKind:  "three-of-a-kind",
	CategoryStraight:      "straight",
	CategoryFlush:         "flush",
	CategoryFullHouse:     "full-house",
	CategoryFourOfAKind:   "four-of-a-kind",
	CategoryStraightFlush: "straight-flush",
	CategoryRoyalFlush:    "royal-flush",
}

func (c Category) String() string {
	return CategoryDictionary[c]
}

// HandRank 评牌结果. 同 Category 之间按 Tiebreaks 字典序分高下,
// 列表内容因牌型而异 (对子: [对子点数, 三张踢脚]; 葫芦: [三条点数, 对子点数]; ...).
// 点数按比较值记录: A=14, K=13, ..., 2=2; A-5 顺子的头张记 5.
type HandRank struct {
	Category  Category `json:"category"`
	Tiebreaks []int    `json:"tiebreaks,omitempty"`
}

// Compare 全序比较: a 强返回 1, b 强返回 -1, 完全同力返回 0.
func Compare(a, b HandRank) int {
	if a.Category != b.Category {
		if a.Category > b.Category {
			return 1
		}
		return -1
	}
	for i := 0; i < len(a.Tiebreaks) && i < len(b.Tiebreaks); i++ {
		if a.Tiebreaks[i] != b.Tiebreaks[i] {
			if a.Tiebreaks[i] > b.Tiebreaks[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// rankGroup 同点数的张数统计, 评牌的中间结构.
type rankGroup struct {
	value int // 比较值 2..14
	count int
}

// Evaluate5 对恰好五张牌定级.
//
// 自上而下探测: 皇家同花顺 -> 同花顺 -> 四条 -> 葫芦 -> 同花 ->
// 顺子 -> 三条 -> 两对 -> 对子 -> 高牌, 命中即返回.
func Evaluate5(cards card.CardList) HandRank {
	if cards.Count() != 5 {
		panic("poker: Evaluate5 requires exactly 5 cards")
	}

	// 比较值降序
	values := make([]int, 5)
	for i, c := range cards {
		values[i] = c.HighValue()
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))

	flush := isFlush(cards)
	straightHigh, straight := straightHighValue(values)

	if flush && straight {
		if straightHigh == 14 {
			return HandRank{Category: CategoryRoyalFlush}
		}
		return HandRank{Category: CategoryStraightFlush, Tiebreaks: []int{straightHigh}}
	}

	// 按 (张数, 点数) 双关键字降序分组: groups[0] 永远是主牌型
	groups := groupByRank(values)

	switch {
	case groups[0].count == 4:
		return HandRank{
			Category:  CategoryFourOfAKind,
			Tiebreaks: []int{groups[0].value, groups[1].value},
		}
	case groups[0].count == 3 && groups[1].count == 2:
		return HandRank{
			Category:  CategoryFullHouse,
			Tiebreaks: []int{groups[0].value, groups[1].value},
		}
	case flush:
		return HandRank{Category: CategoryFlush, Tiebreaks: values}
	case straight:
		return HandRank{Category: CategoryStraight, Tiebreaks: []int{straightHigh}}
	case groups[0].count == 3:
		return HandRank{
			Category:  CategoryThreeOfAKind,
			Tiebreaks: []int{groups[0].value, groups[1].value, groups[2].value},
		}
	case groups[0].count == 2 && groups[1].count == 2:
		return HandRank{
			Category:  CategoryTwoPair,
			Tiebreaks: []int{groups[0].value, groups[1].value, groups[2].value},
		}
	case groups[0].count == 2:
		return HandRank{
			Category:  CategoryPair,
			Tiebreaks: []int{groups[0].value, groups[1].value, groups[2].value, groups[3].value},
		}
	default:
		return HandRank{Category: CategoryHighCard, Tiebreaks: values}
	}
}

func isFlush(cards card.CardList) bool {
	for _, c := range cards[1:] {
		if c.Suit() != cards[0].Suit() {
			return false
		}
	}
	return true
}

// straightHighValue 判定顺子并返回头张比较值.
// values 必须降序; A-2-3-4-5 的轮子顺头张记 5.
func straightHighValue(values []int) (int, bool) {
	run := true
	for i := 1; i < len(values); i++ {
		if values[i] != values[i-1]-1 {
			run = false
			break
		}
	}
	if run {
		return values[0], true
	}
	// 轮子: A 当 1 用
	if values[0] == 14 && values[1] == 5 && values[2] == 4 && values[3] == 3 && values[4] == 2 {
		return 5, true
	}
	return 0, false
}

// groupByRank 统计每个点数出现的张数, 按 (张数, 点数) 降序排列.
func groupByRank(values []int) []rankGroup {
	counts := map[int]int{}
	for _, v := range values {
		counts[v]++
	}
	groups := make([]rankGroup, 0, len(counts))
	for v, n := range counts {
		groups = append(groups, rankGroup{value: v, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].value > groups[j].value
	})
	return groups
}

// BestOfSeven 在 5..7 张里枚举全部五张组合取最强.
// C(7,5)=21 种, 直接五层下标循环, 不值得上位运算技巧.
func BestOfSeven(cards card.CardList) HandRank {
	n := cards.Count()
	if n < 5 || n > 7 {
		panic("poker: BestOfSeven requires 5..7 cards")
	}
	if n == 5 {
		return Evaluate5(cards)
	}

	best := HandRank{}
	first := true
	pick := make(card.CardList, 5)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						pick[0], pick[1], pick[2], pick[3], pick[4] =
							cards[a], cards[b], cards[c], cards[d], cards[e]
						r := Evaluate5(pick)
						if first || Compare(r, best) > 0 {
							best = r
							first = false
						}
					}
				}
			}
		}
	}
	return best
}
