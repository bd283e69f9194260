// Package codec 定义网关与客户端之间的 JSON 线上格式, 并在线上格式与
// 各引擎的动作/快照类型之间转换.
//
// 转换只做两件事: 动作名查字典、快照按游戏种类装箱. 引擎类型不直接
// 出现在网关与机器人代码里, 线上格式演进不会扩散到引擎.
package codec

import (
	"errors"
	"strings"

	"parlor-lite/blackjack"
	"parlor-lite/mahjong"
	"parlor-lite/poker"
	"parlor-lite/reject"
	"parlor-lite/tile"
)

// Kind 游戏种类标识, 也是对局文档的路由键.
type Kind string

const (
	KindBlackjack Kind = "blackjack"
	KindPoker     Kind = "poker"
	KindMahjong   Kind = "mahjong"
)

// ParseKind 解析客户端给的游戏种类名.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindBlackjack, KindPoker, KindMahjong:
		return k, nil
	default:
		return "", reject.ErrUnknownKind.With(s)
	}
}

// ============== 上行帧 ==============

// ClientEnvelope 客户端上行帧, 恰好一个 payload 字段非空.
// Seq 由客户端自增, 应答帧原样带回, 用于请求应答配对.
type ClientEnvelope struct {
	Seq    uint64         `json:"seq,omitempty"`
	Create *CreateRequest `json:"create,omitempty"`
	Join   *JoinRequest   `json:"join,omitempty"`
	Leave  *LeaveRequest  `json:"leave,omitempty"`
	Act    *ActionRequest `json:"act,omitempty"`
	Watch  *WatchRequest  `json:"watch,omitempty"`
}

// CreateRequest 开新桌.
type CreateRequest struct {
	Kind string `json:"kind"`
}

// JoinRequest 入座. BuyIn 为 0 时用桌面默认买入, 麻将桌忽略.
type JoinRequest struct {
	GameID string `json:"game_id"`
	BuyIn  int64  `json:"buy_in,omitempty"`
}

// LeaveRequest 离座.
type LeaveRequest struct {
	GameID string `json:"game_id"`
}

// ActionRequest 玩家动作. Type 用动作字典里的大写名, 其余字段按游戏
// 种类取用: Amount 是 blackjack 下注额或 poker 目标总注额,
// Tile/Using/Kind 是 mahjong 的牌参数.
type ActionRequest struct {
	GameID string    `json:"game_id"`
	Type   string    `json:"type"`
	Amount int64     `json:"amount,omitempty"`
	Tile   int16     `json:"tile,omitempty"`
	Using  []int16   `json:"using,omitempty"`
	Kind   tile.Kind `json:"kind,omitempty"`
}

// WatchRequest 旁观订阅, 不入座.
type WatchRequest struct {
	GameID string `json:"game_id"`
}

// ============== 下行帧 ==============

// ServerEnvelope 服务端下行帧, 恰好一个 payload 字段非空.
// 推送帧(非请求应答)的 Seq 为 0.
type ServerEnvelope struct {
	Seq      uint64          `json:"seq,omitempty"`
	ServerTs int64           `json:"server_ts"` // 毫秒
	GameID   string          `json:"game_id,omitempty"`
	Hello    *HelloPayload   `json:"hello,omitempty"`
	Created  *CreatedPayload `json:"created,omitempty"`
	Update   *GameSnapshot   `json:"update,omitempty"`
	Error    *ErrorPayload   `json:"error,omitempty"`
}

// HelloPayload 连接建立后下发的身份信息.
type HelloPayload struct {
	Seat   string `json:"seat"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// CreatedPayload 开桌应答.
type CreatedPayload struct {
	GameID string `json:"game_id"`
	Kind   Kind   `json:"kind"`
}

// ErrorPayload 动作被拒绝或系统错误. Transient 为 true 时客户端
// 原样重试即可, 不代表动作非法.
type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Transient bool   `json:"transient,omitempty"`
}

// ErrorFrom 把内部错误翻译成线上错误. 非 reject 错误一律归为 internal,
// 不泄漏内部细节.
func ErrorFrom(err error) *ErrorPayload {
	var r *reject.Reason
	if errors.As(err, &r) {
		return &ErrorPayload{Code: r.Code, Message: r.Message, Transient: r.Transient()}
	}
	return &ErrorPayload{Code: reject.CodeInternal, Message: "internal error"}
}

// GameSnapshot 按游戏种类装箱的快照, 已按观察者视角消毒.
type GameSnapshot struct {
	Kind      Kind                `json:"kind"`
	GameID    string              `json:"game_id"`
	Version   uint64              `json:"version"`
	Blackjack *blackjack.Snapshot `json:"blackjack,omitempty"`
	Poker     *poker.Snapshot     `json:"poker,omitempty"`
	Mahjong   *mahjong.Snapshot   `json:"mahjong,omitempty"`
}

// ============== 动作字典反查 ==============

var (
	blackjackActions = make(map[string]blackjack.ActionType, len(blackjack.ActionTypeDictionary))
	pokerActions     = make(map[string]poker.ActionType, len(poker.ActionTypeDictionary))
	mahjongActions   = make(map[string]mahjong.ActionType, len(mahjong.ActionTypeDictionary))
)

func init() {
	for t, name := range blackjack.ActionTypeDictionary {
		blackjackActions[name] = t
	}
	for t, name := range poker.ActionTypeDictionary {
		pokerActions[name] = t
	}
	for t, name := range mahjong.ActionTypeDictionary {
		mahjongActions[name] = t
	}
}

// BlackjackAction 翻译线上动作, Seat 由网关注入, 客户端无法冒充.
func BlackjackAction(seat string, req ActionRequest) (blackjack.Action, error) {
	t, ok := blackjackActions[strings.ToUpper(req.Type)]
	if !ok || t == blackjack.ActionTypeNone {
		return blackjack.Action{}, reject.ErrUnknownAction.With(req.Type)
	}
	return blackjack.Action{Seat: seat, Type: t, Amount: req.Amount}, nil
}

// PokerAction 翻译线上动作, Seat 由网关注入.
func PokerAction(seat string, req ActionRequest) (poker.Action, error) {
	t, ok := pokerActions[strings.ToUpper(req.Type)]
	if !ok || t == poker.ActionTypeNone {
		return poker.Action{}, reject.ErrUnknownAction.With(req.Type)
	}
	return poker.Action{Seat: seat, Type: t, Amount: req.Amount}, nil
}

// MahjongAction 翻译线上动作, Seat 由网关注入.
func MahjongAction(seat string, req ActionRequest) (mahjong.Action, error) {
	t, ok := mahjongActions[strings.ToUpper(req.Type)]
	if !ok || t == mahjong.ActionTypeNone {
		return mahjong.Action{}, reject.ErrUnknownAction.With(req.Type)
	}
	return mahjong.Action{Seat: seat, Type: t, Tile: req.Tile, Using: req.Using, Kind: req.Kind}, nil
}
