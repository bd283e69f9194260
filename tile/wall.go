package tile

// WallSize 整副牌墙的张数: 34 种 × 4 张.
const WallSize = 136

// NewWall 构造整副牌墙, 按编码顺序给每张牌发唯一 ID 0..135.
func NewWall() TileList {
	out := make(TileList, 0, WallSize)
	id := int16(0)
	for _, k := range Kinds() {
		for c := 0; c < 4; c++ {
			out = append(out, Tile{ID: id, Kind: k})
			id++
		}
	}
	return out
}
