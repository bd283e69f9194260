package poker

// Phase 牌局阶段. Showdown 是过渡阶段: 摊牌和分池在同一次状态转移内
// 完成, 提交之间观察不到, 常量保留给字典和客户端枚举.
type Phase byte

const (
	PhaseTypeWaiting  Phase = 0
	PhaseTypePreflop  Phase = 1
	PhaseTypeFlop     Phase = 2
	PhaseTypeTurn     Phase = 3
	PhaseTypeRiver    Phase = 4
	PhaseTypeShowdown Phase = 5
	PhaseTypeFinished Phase = 6
)

var PhaseTypeDictionary = map[Phase]string{
	PhaseTypeWaiting:  "waiting",
	PhaseTypePreflop:  "preflop",
	PhaseTypeFlop:     "flop",
	PhaseTypeTurn:     "turn",
	PhaseTypeRiver:    "river",
	PhaseTypeShowdown: "showdown",
	PhaseTypeFinished: "finished",
}

// SeatStatus 座位状态
type SeatStatus byte

const (
	SeatStatusWaiting SeatStatus = 0 // 本手未参与 (中途入座或筹码不足)
	SeatStatusPlaying SeatStatus = 1 // 手牌在场, 可行动
	SeatStatusAllIn   SeatStatus = 2 // 筹码全下, 不再行动但参与摊牌
	SeatStatusFolded  SeatStatus = 3 // 本手已弃牌
	SeatStatusLeft    SeatStatus = 4 // 手牌进行中离席, 按弃牌处理, 下一手清掉
)

var SeatStatusDictionary = map[SeatStatus]string{
	SeatStatusWaiting: "waiting",
	SeatStatusPlaying: "playing",
	SeatStatusAllIn:   "allin",
	SeatStatusFolded:  "folded",
	SeatStatusLeft:    "left",
}

// ActionType 动作类型. Raise 在无人下注时等价于 bet,
// 加注额按 "本街总注额" 语义解释, 不是增量.
type ActionType byte

const (
	ActionTypeNone     ActionType = 0
	ActionTypeFold     ActionType = 1
	ActionTypeCheck    ActionType = 2
	ActionTypeCall     ActionType = 3
	ActionTypeRaise    ActionType = 4
	ActionTypeAllIn    ActionType = 5
	ActionTypeNextHand ActionType = 6
)

var ActionTypeDictionary = map[ActionType]string{
	ActionTypeNone:     "NONE",
	ActionTypeFold:     "FOLD",
	ActionTypeCheck:    "CHECK",
	ActionTypeCall:     "CALL",
	ActionTypeRaise:    "RAISE",
	ActionTypeAllIn:    "ALLIN",
	ActionTypeNextHand: "NEXTHAND",
}

// Action 玩家意图. Seat 是平台分配的座位身份, 引擎只当不透明字符串用.
// Amount 仅 Raise 使用: 目标总注额.
type Action struct {
	Seat   string     `json:"seat"`
	Type   ActionType `json:"type"`
	Amount int64      `json:"amount,omitempty"`
}

// NoTurn 表示当前没有轮到任何座位.
const NoTurn int = -1
