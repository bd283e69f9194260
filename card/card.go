package card

import "fmt"

// Card 牌枚举
//
// 编码规则:
// - 高4位: 花色 (0:Spade, 1:Heart, 2:Club, 3:Diamond)
// - 低4位: 点数 (1:A, 2..9, 10:T, 11:J, 12:Q, 13:K)
type Card byte

func (c Card) String() string {
	if c == CardInvalid {
		return "Invalid"
	}
	if c == CardHidden {
		return "Hidden"
	}

	suit := Suit(c >> 4) // 高4位表示花色
	rank := c & 0x0F     // 低4位表示点数

	rankStr := ""
	switch rank {
	case 1:
		rankStr = "A"
	case 10:
		rankStr = "T"
	case 11:
		rankStr = "J"
	case 12:
		rankStr = "Q"
	case 13:
		rankStr = "K"
	default:
		rankStr = fmt.Sprintf("%d", rank)
	}

	return fmt.Sprintf("%s%s", suit, rankStr)
}

// ParseCard 解析 "As" "Td" "9h" 这种紧凑记法: 点数字符 + 花色字母,
// 大小写不敏感. 测试和工具用.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return CardInvalid, fmt.Errorf("card: cannot parse %q", s)
	}
	var rank byte
	switch r := s[0]; {
	case r == 'A' || r == 'a':
		rank = 1
	case r == 'T' || r == 't':
		rank = 10
	case r == 'J' || r == 'j':
		rank = 11
	case r == 'Q' || r == 'q':
		rank = 12
	case r == 'K' || r == 'k':
		rank = 13
	case r >= '2' && r <= '9':
		rank = r - '0'
	default:
		return CardInvalid, fmt.Errorf("card: unknown rank in %q", s)
	}
	var suit Suit
	switch s[1] {
	case 's', 'S':
		suit = Spade
	case 'h', 'H':
		suit = Heart
	case 'c', 'C':
		suit = Club
	case 'd', 'D':
		suit = Diamond
	default:
		return CardInvalid, fmt.Errorf("card: unknown suit in %q", s)
	}
	return Card(byte(suit)<<4 | rank), nil
}

// Rank 获取牌面值 1-13 (A=1, K=13)
func (c Card) Rank() byte {
	if c == CardInvalid || c == CardHidden {
		return 0
	}
	return byte(c & 0x0F) // Get low 4 bits
}

// Suit 花色 (0:Spades, 1:Hearts, 2:Clubs, 3:Diamonds)
func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

func (c Card) IsAce() bool {
	return c.Rank() == 1
}

// HighValue 返回用于比较大小的点数:
// - A 视为 14
// - 其它为原始点数
func (c Card) HighValue() int {
	r := int(c & 0x0F)
	if r == 1 {
		return 14
	}
	return r
}
