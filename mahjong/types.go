package mahjong

import "parlor-lite/tile"

// Phase 对局阶段. 流局和胡牌都落在 Finished, 区别记在 Result 里.
type Phase byte

const (
	PhaseTypeWaiting  Phase = 0
	PhaseTypePlaying  Phase = 1
	PhaseTypeFinished Phase = 2
)

var PhaseTypeDictionary = map[Phase]string{
	PhaseTypeWaiting:  "waiting",
	PhaseTypePlaying:  "playing",
	PhaseTypeFinished: "finished",
}

// ActionType 动作类型. Chow/Pong/Kong/Win 既是打牌声明也是抢牌应答:
// 声明窗口开着时按应答处理, 否则按本家回合动作处理.
type ActionType byte

const (
	ActionTypeNone      ActionType = 0
	ActionTypeDraw      ActionType = 1
	ActionTypeDiscard   ActionType = 2
	ActionTypeChow      ActionType = 3
	ActionTypePong      ActionType = 4
	ActionTypeKong      ActionType = 5
	ActionTypeWin       ActionType = 6
	ActionTypePass      ActionType = 7
	ActionTypeNextRound ActionType = 8
)

var ActionTypeDictionary = map[ActionType]string{
	ActionTypeNone:      "NONE",
	ActionTypeDraw:      "DRAW",
	ActionTypeDiscard:   "DISCARD",
	ActionTypeChow:      "CHOW",
	ActionTypePong:      "PONG",
	ActionTypeKong:      "KONG",
	ActionTypeWin:       "WIN",
	ActionTypePass:      "PASS",
	ActionTypeNextRound: "NEXTROUND",
}

// MeldType 副露类型
type MeldType byte

const (
	MeldChow MeldType = 0
	MeldPong MeldType = 1
	MeldKong MeldType = 2
)

var MeldTypeDictionary = map[MeldType]string{
	MeldChow: "chow",
	MeldPong: "pong",
	MeldKong: "kong",
}

// Meld 副露面子. From 是被抢牌的座位; 暗杠为 -1, 加杠沿用碰时的来源.
type Meld struct {
	Type      MeldType      `json:"type"`
	Tiles     tile.TileList `json:"tiles"`
	From      int           `json:"from"`
	Concealed bool          `json:"concealed,omitempty"`
}

// Action 玩家意图. Seat 是平台分配的座位身份, 引擎只当不透明字符串用.
//
// Tile 是出牌的物理牌 ID; Using 是吃牌时搭子的两张手牌 ID;
// Kind 是暗杠/加杠的牌种.
type Action struct {
	Seat  string     `json:"seat"`
	Type  ActionType `json:"type"`
	Tile  int16      `json:"tile,omitempty"`
	Using []int16    `json:"using,omitempty"`
	Kind  tile.Kind  `json:"kind,omitempty"`
}

// NoTurn 表示当前没有轮到任何座位.
const NoTurn int = -1

// SeatCount 麻将固定四人.
const SeatCount = 4
