package tile

const (
	KindInvalid Kind = 0
	// KindHidden 牌背种类, 只出现在净化视图里.
	KindHidden Kind = 0xFF
)

// Bamboo 条子
const (
	KindBamboo1 Kind = iota + 0x01
	KindBamboo2
	KindBamboo3
	KindBamboo4
	KindBamboo5
	KindBamboo6
	KindBamboo7
	KindBamboo8
	KindBamboo9
)

// Circle 筒子
const (
	KindCircle1 Kind = iota + 0x11
	KindCircle2
	KindCircle3
	KindCircle4
	KindCircle5
	KindCircle6
	KindCircle7
	KindCircle8
	KindCircle9
)

// Character 万子
const (
	KindCharacter1 Kind = iota + 0x21
	KindCharacter2
	KindCharacter3
	KindCharacter4
	KindCharacter5
	KindCharacter6
	KindCharacter7
	KindCharacter8
	KindCharacter9
)

// Wind 风牌 东南西北
const (
	KindWindEast Kind = iota + 0x31
	KindWindSouth
	KindWindWest
	KindWindNorth
)

// Dragon 箭牌 中发白
const (
	KindDragonRed Kind = iota + 0x41
	KindDragonGreen
	KindDragonWhite
)

// Kinds 全部 34 种牌, 按编码顺序.
func Kinds() []Kind {
	out := make([]Kind, 0, 34)
	for k := KindBamboo1; k <= KindBamboo9; k++ {
		out = append(out, k)
	}
	for k := KindCircle1; k <= KindCircle9; k++ {
		out = append(out, k)
	}
	for k := KindCharacter1; k <= KindCharacter9; k++ {
		out = append(out, k)
	}
	for k := KindWindEast; k <= KindWindNorth; k++ {
		out = append(out, k)
	}
	for k := KindDragonRed; k <= KindDragonWhite; k++ {
		out = append(out, k)
	}
	return out
}
