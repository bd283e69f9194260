package tile

import "fmt"

// Kind 麻将牌种枚举
//
// 编码规则:
// - 高4位: 花色 (0:Bamboo, 1:Circle, 2:Character, 3:Wind, 4:Dragon)
// - 低4位: 数牌 1-9; 风牌 1:东 2:南 3:西 4:北; 箭牌 1:红中 2:发财 3:白板
type Kind byte

func (k Kind) String() string {
	if k == KindInvalid {
		return "Invalid"
	}
	if k == KindHidden {
		return "Hidden"
	}
	switch k.Suit() {
	case Bamboo:
		return fmt.Sprintf("%ds", k.Value())
	case Circle:
		return fmt.Sprintf("%dp", k.Value())
	case Character:
		return fmt.Sprintf("%dm", k.Value())
	case Wind:
		return [...]string{"?", "E", "S", "W", "N"}[k.Value()]
	case Dragon:
		return [...]string{"?", "Rd", "Gr", "Wh"}[k.Value()]
	}
	return "?"
}

// Suit 花色
func (k Kind) Suit() Suit {
	return Suit(k >> 4)
}

// Value 数牌 1-9, 风牌 1-4, 箭牌 1-3
func (k Kind) Value() int {
	return int(k & 0x0F)
}

// IsSuited 是否数牌 (可组顺子)
func (k Kind) IsSuited() bool {
	s := k.Suit()
	return s == Bamboo || s == Circle || s == Character
}

// IsHonor 字牌 (风牌或箭牌)
func (k Kind) IsHonor() bool {
	s := k.Suit()
	return s == Wind || s == Dragon
}

// Valid reports whether k encodes one of the 34 tile kinds.
func (k Kind) Valid() bool {
	v := k.Value()
	switch k.Suit() {
	case Bamboo, Circle, Character:
		return v >= 1 && v <= 9
	case Wind:
		return v >= 1 && v <= 4
	case Dragon:
		return v >= 1 && v <= 3
	}
	return false
}

// Tile 物理牌. 同种四张副本 Kind 相同但 ID 唯一 (0..135),
// 牌在手牌/弃牌/副露之间流转时按 ID 追踪.
type Tile struct {
	ID   int16 `json:"id"`
	Kind Kind  `json:"kind"`
}

// TileHidden 牌背占位: sanitized views replace redacted tiles with it.
var TileHidden = Tile{ID: -1, Kind: KindHidden}

func (t Tile) String() string {
	return t.Kind.String()
}
