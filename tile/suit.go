package tile

type Suit byte

const (
	Bamboo    Suit = iota // 条
	Circle                // 筒
	Character             // 万
	Wind                  // 风
	Dragon                // 箭
)

func (s Suit) String() string {
	switch s {
	case Bamboo:
		return "条"
	case Circle:
		return "筒"
	case Character:
		return "万"
	case Wind:
		return "风"
	case Dragon:
		return "箭"
	}
	return "?"
}
