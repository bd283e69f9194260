package bot

import (
	"math/rand"
	"time"

	"parlor-lite/internal/codec"
)

// Brain 按游戏种类分发决策. 同一个 Brain 串行使用, 不能跨 goroutine 共享.
type Brain struct {
	Persona Persona
	rng     *rand.Rand
}

// NewBrain 创建决策器. seed 为 0 时取时钟, 非零可复现.
func NewBrain(persona Persona, seed int64) *Brain {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Brain{Persona: persona, rng: rand.New(rand.NewSource(seed))}
}

// Decide 对一帧快照给出下一步动作; 无事可做返回 false.
func (b *Brain) Decide(snap codec.GameSnapshot) (codec.ActionRequest, bool) {
	switch {
	case snap.Blackjack != nil:
		return decideBlackjack(snap.Blackjack)
	case snap.Poker != nil:
		return decidePoker(snap.Poker, b.Persona, b.rng)
	case snap.Mahjong != nil:
		return decideMahjong(snap.Mahjong)
	default:
		return codec.ActionRequest{}, false
	}
}
