package tile

import (
	"math/rand"
	"sort"
)

type TileList []Tile

// Count 获取总牌数
func (ts TileList) Count() int {
	return len(ts)
}

// Clone returns an independent copy. Transitions copy before they touch.
func (ts TileList) Clone() TileList {
	if ts == nil {
		return nil
	}
	out := make(TileList, len(ts))
	copy(out, ts)
	return out
}

// Shuffled 返回一个新的乱序副本, 原序列不变.
// Fisher-Yates, 由外部注入的 rng 驱动: 同一个种子产生同一个排列.
func (ts TileList) Shuffled(rng *rand.Rand) TileList {
	out := ts.Clone()
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Deal 从牌墙顶取 size 张, 返回 (取出的牌, 剩余序列).
// 不修改接收者; 牌不够时 ok=false.
func (ts TileList) Deal(size int) (TileList, TileList, bool) {
	if size < 0 || size > ts.Count() {
		return nil, nil, false
	}
	dealt := make(TileList, size)
	copy(dealt, ts[:size])
	rest := make(TileList, ts.Count()-size)
	copy(rest, ts[size:])
	return dealt, rest, true
}

func (ts *TileList) Add(tiles ...Tile) {
	*ts = append(*ts, tiles...)
}

// Sorted 返回按种类编码升序排列的副本, 同种按 ID.
func (ts TileList) Sorted() TileList {
	out := ts.Clone()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// CountOf 统计指定种类的张数.
func (ts TileList) CountOf(k Kind) int {
	n := 0
	for _, x := range ts {
		if x.Kind == k {
			n++
		}
	}
	return n
}

// KindCounts 压成种类多重集, 胡牌判定和出牌启发都在这个形态上跑.
func (ts TileList) KindCounts() map[Kind]int {
	out := make(map[Kind]int, len(ts))
	for _, x := range ts {
		out[x.Kind]++
	}
	return out
}

// FindID 按物理 ID 找牌.
func (ts TileList) FindID(id int16) (Tile, bool) {
	for _, x := range ts {
		if x.ID == id {
			return x, true
		}
	}
	return Tile{}, false
}

// RemoveID 按物理 ID 移除一张牌, 返回 (移除的牌, 新序列).
// 没有这张牌时 ok=false, 返回原序列.
func (ts TileList) RemoveID(id int16) (Tile, TileList, bool) {
	for i, x := range ts {
		if x.ID == id {
			out := make(TileList, 0, len(ts)-1)
			out = append(out, ts[:i]...)
			out = append(out, ts[i+1:]...)
			return x, out, true
		}
	}
	return Tile{}, ts, false
}

// RemoveOne 移除一张指定种类的牌 (副本任取, 取 ID 最小的), 返回新序列.
// 手牌里没有这种牌时 ok=false, 返回原序列.
func (ts TileList) RemoveOne(k Kind) (Tile, TileList, bool) {
	pick := -1
	for i, x := range ts {
		if x.Kind != k {
			continue
		}
		if pick == -1 || x.ID < ts[pick].ID {
			pick = i
		}
	}
	if pick == -1 {
		return Tile{}, ts, false
	}
	out := make(TileList, 0, len(ts)-1)
	out = append(out, ts[:pick]...)
	out = append(out, ts[pick+1:]...)
	return ts[pick], out, true
}

// RemoveN 移除 n 张指定种类的牌, 返回 (移除的牌, 新序列).
func (ts TileList) RemoveN(k Kind, n int) (TileList, TileList, bool) {
	if ts.CountOf(k) < n {
		return nil, ts, false
	}
	removed := make(TileList, 0, n)
	out := ts
	for i := 0; i < n; i++ {
		var t Tile
		t, out, _ = out.RemoveOne(k)
		removed = append(removed, t)
	}
	return removed, out, true
}

// Strings renders a hand for logs and terminal output.
func Strings(ts []Tile) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.String())
	}
	return out
}
