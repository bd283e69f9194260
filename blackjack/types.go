package blackjack

// Phase 游戏阶段
//
// Dealing/DealerTurn/Payout 是过渡阶段: 触发条件满足时在同一次状态转移内
// 走完, 提交之间观察不到, 常量保留给字典和客户端枚举.
type Phase byte

const (
	PhaseTypeWaiting    Phase = 0
	PhaseTypeBetting    Phase = 1
	PhaseTypeDealing    Phase = 2
	PhaseTypePlaying    Phase = 3
	PhaseTypeDealerTurn Phase = 4
	PhaseTypePayout     Phase = 5
	PhaseTypeFinished   Phase = 6
)

var PhaseTypeDictionary = map[Phase]string{
	PhaseTypeWaiting:    "waiting",
	PhaseTypeBetting:    "betting",
	PhaseTypeDealing:    "dealing",
	PhaseTypePlaying:    "playing",
	PhaseTypeDealerTurn: "dealerturn",
	PhaseTypePayout:     "payout",
	PhaseTypeFinished:   "finished",
}

// SeatStatus 座位状态
type SeatStatus byte

const (
	SeatStatusWaiting SeatStatus = 0 // 本手未参与 (中途入座或筹码不足)
	SeatStatusBetting SeatStatus = 1 // 等待下注
	SeatStatusPlaying SeatStatus = 2 // 手牌在场
	SeatStatusSettled SeatStatus = 3 // 本手已结算
	SeatStatusLeft    SeatStatus = 4 // 手牌进行中离席, 本手弃权
)

var SeatStatusDictionary = map[SeatStatus]string{
	SeatStatusWaiting: "waiting",
	SeatStatusBetting: "betting",
	SeatStatusPlaying: "playing",
	SeatStatusSettled: "settled",
	SeatStatusLeft:    "left",
}

// HandStatus 单副手牌状态 (分牌后一个座位有两副)
type HandStatus byte

const (
	HandStatusPlaying   HandStatus = 0
	HandStatusStanding  HandStatus = 1
	HandStatusBusted    HandStatus = 2
	HandStatusBlackjack HandStatus = 3 // 天牌, 只可能出现在未分牌的前两张
)

var HandStatusDictionary = map[HandStatus]string{
	HandStatusPlaying:   "playing",
	HandStatusStanding:  "standing",
	HandStatusBusted:    "busted",
	HandStatusBlackjack: "blackjack",
}

// ActionType 动作类型
type ActionType byte

const (
	ActionTypeNone      ActionType = 0
	ActionTypeBet       ActionType = 1
	ActionTypeHit       ActionType = 2
	ActionTypeStand     ActionType = 3
	ActionTypeDouble    ActionType = 4
	ActionTypeSplit     ActionType = 5
	ActionTypeInsurance ActionType = 6
	ActionTypeNextHand  ActionType = 7
)

var ActionTypeDictionary = map[ActionType]string{
	ActionTypeNone:      "NONE",
	ActionTypeBet:       "BET",
	ActionTypeHit:       "HIT",
	ActionTypeStand:     "STAND",
	ActionTypeDouble:    "DOUBLE",
	ActionTypeSplit:     "SPLIT",
	ActionTypeInsurance: "INSURANCE",
	ActionTypeNextHand:  "NEXTHAND",
}

// Outcome 单副手牌的结算结果
type Outcome byte

const (
	OutcomeLose      Outcome = 0
	OutcomeWin       Outcome = 1
	OutcomePush      Outcome = 2
	OutcomeBlackjack Outcome = 3 // 天牌 3:2
)

var OutcomeDictionary = map[Outcome]string{
	OutcomeLose:      "lose",
	OutcomeWin:       "win",
	OutcomePush:      "push",
	OutcomeBlackjack: "blackjack",
}

// Action 玩家意图. Seat 是平台分配的座位身份, 引擎只当不透明字符串用.
type Action struct {
	Seat   string     `json:"seat"`
	Type   ActionType `json:"type"`
	Amount int64      `json:"amount,omitempty"`
}

// NoTurn 表示当前没有轮到任何座位.
const NoTurn int = -1
