// Package bot 提供三种桌游的内建玩家.
//
// 决策是纯函数 (快照, 随机源) -> 动作, 不持对局状态, 桌面信息全部
// 来自消毒后的快照, 机器人看不到任何真人看不到的牌. Runner 负责
// 把决策接到房间服务上.
package bot

// Persona 风格参数, 全部取值 0..1. 只影响德州的下注倾向,
// 21点和麻将按固定策略打.
type Persona struct {
	Name       string  `json:"name"`
	Aggression float64 `json:"aggression"` // 下注/加注倾向
	Tightness  float64 `json:"tightness"`  // 入池门槛
	Bluffing   float64 `json:"bluffing"`   // 诈唬频率
	Randomness float64 `json:"randomness"` // 决策噪声
}

// 内建风格, 供 tablesim 和演示环境轮流取用.
var (
	PersonaRock   = Persona{Name: "rock", Aggression: 0.2, Tightness: 0.8, Bluffing: 0.05, Randomness: 0.1}
	PersonaCaller = Persona{Name: "caller", Aggression: 0.3, Tightness: 0.3, Bluffing: 0.1, Randomness: 0.2}
	PersonaTag    = Persona{Name: "tag", Aggression: 0.7, Tightness: 0.7, Bluffing: 0.2, Randomness: 0.15}
	PersonaLag    = Persona{Name: "lag", Aggression: 0.8, Tightness: 0.3, Bluffing: 0.35, Randomness: 0.3}
)

// Personas 返回内建风格表, 下标轮询分给一桌机器人.
func Personas() []Persona {
	return []Persona{PersonaRock, PersonaCaller, PersonaTag, PersonaLag}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
