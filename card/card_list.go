package card

import "math/rand"

type CardList []Card

// Count 获取总牌数
func (ds CardList) Count() int {
	return len(ds)
}

// Clone returns an independent copy. Transitions copy before they touch.
func (ds CardList) Clone() CardList {
	if ds == nil {
		return nil
	}
	out := make(CardList, len(ds))
	copy(out, ds)
	return out
}

// Shuffled 返回一个新的乱序副本, 原序列不变.
// Fisher-Yates, 由外部注入的 rng 驱动: 同一个种子产生同一个排列.
func (ds CardList) Shuffled(rng *rand.Rand) CardList {
	out := ds.Clone()
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Deal 从牌顶取 size 张, 返回 (取出的牌, 剩余序列).
// 不修改接收者; 牌不够时 ok=false 且两个返回序列都为 nil.
func (ds CardList) Deal(size int) (CardList, CardList, bool) {
	if size < 0 || size > ds.Count() {
		return nil, nil, false
	}
	dealt := make(CardList, size)
	copy(dealt, ds[:size])
	rest := make(CardList, ds.Count()-size)
	copy(rest, ds[size:])
	return dealt, rest, true
}

func (ds *CardList) Add(cards ...Card) {
	*ds = append(*ds, cards...)
}
