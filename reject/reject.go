// Package reject 定义跨游戏统一的动作拒绝错误.
//
// 引擎校验失败时返回 *Reason 且不产生任何状态变更; 网关把 Code 原样发给
// 客户端, 所以 Code 用字符串而不是数字.
package reject

import (
	"errors"
	"fmt"
)

// Reason 动作被拒绝的原因, 包含错误码和用户可见消息.
type Reason struct {
	Code    string // 错误码, 直接上行到客户端
	Message string // 用户可见的错误消息
}

func (r *Reason) Error() string {
	return fmt.Sprintf("[%s] %s", r.Code, r.Message)
}

// With 返回同码新错误, 附带上下文细节.
func (r *Reason) With(detail string) *Reason {
	return &Reason{Code: r.Code, Message: r.Message + ": " + detail}
}

// Withf 同 With, printf 风格.
func (r *Reason) Withf(format string, args ...any) *Reason {
	return r.With(fmt.Sprintf(format, args...))
}

// Transient 是否瞬态错误: 客户端原样重试即可, 不代表动作非法.
func (r *Reason) Transient() bool {
	return r.Code == CodeConflict
}

// New 创建新错误码.
func New(code, message string) *Reason {
	return &Reason{Code: code, Message: message}
}

// Is 判断 err 是否携带 target 的错误码.
func Is(err error, target *Reason) bool {
	var r *Reason
	if errors.As(err, &r) {
		return r.Code == target.Code
	}
	return false
}

// CodeOf 提取错误码; 非 Reason 错误归为 internal.
func CodeOf(err error) string {
	var r *Reason
	if errors.As(err, &r) {
		return r.Code
	}
	return CodeInternal
}

// ============== 错误码定义 ==============

const (
	// 会话/房间 (room)
	CodeBadRequest    = "bad_request"
	CodeUnknownKind   = "unknown_kind"
	CodeGameNotFound  = "game_not_found"
	CodeGameFull      = "game_full"
	CodeSeatTaken     = "seat_taken"
	CodeAlreadySeated = "already_seated"
	CodeNotSeated     = "not_seated"

	// 回合校验 (所有游戏共用)
	CodeWrongPhase    = "wrong_phase"
	CodeOutOfTurn     = "out_of_turn"
	CodeUnknownAction = "unknown_action"
	CodeHandEnded     = "hand_ended"

	// 资源校验
	CodeInsufficientChips = "insufficient_chips"
	CodeBetOutOfRange     = "bet_out_of_range"
	CodeBelowMinRaise     = "below_min_raise"

	// blackjack 专用
	CodeCannotSplit  = "cannot_split"
	CodeCannotDouble = "cannot_double"
	CodeNoInsurance  = "insurance_unavailable"

	// mahjong 专用
	CodeInvalidClaim = "invalid_claim"
	CodeClaimLost    = "claim_lost"
	CodeNotWinning   = "not_winning_hand"
	CodeTileNotHeld  = "tile_not_held"

	// 系统
	CodeConflict = "conflict"
	CodeInternal = "internal"
)

// ============== 预定义错误 ==============

var (
	ErrBadRequest    = New(CodeBadRequest, "malformed request")
	ErrUnknownKind   = New(CodeUnknownKind, "unknown game kind")
	ErrGameNotFound  = New(CodeGameNotFound, "game not found")
	ErrGameFull      = New(CodeGameFull, "no free seats")
	ErrSeatTaken     = New(CodeSeatTaken, "seat already taken")
	ErrAlreadySeated = New(CodeAlreadySeated, "already seated at this table")
	ErrNotSeated     = New(CodeNotSeated, "not seated at this table")

	ErrWrongPhase    = New(CodeWrongPhase, "action not legal in current phase")
	ErrOutOfTurn     = New(CodeOutOfTurn, "not your turn")
	ErrUnknownAction = New(CodeUnknownAction, "unknown action type")
	ErrHandEnded     = New(CodeHandEnded, "hand already ended")

	ErrInsufficientChips = New(CodeInsufficientChips, "insufficient chips")
	ErrBetOutOfRange     = New(CodeBetOutOfRange, "bet outside table limits")
	ErrBelowMinRaise     = New(CodeBelowMinRaise, "raise below minimum")

	ErrCannotSplit  = New(CodeCannotSplit, "hand cannot be split")
	ErrCannotDouble = New(CodeCannotDouble, "hand cannot be doubled")
	ErrNoInsurance  = New(CodeNoInsurance, "insurance not available")

	ErrInvalidClaim = New(CodeInvalidClaim, "tiles do not support this claim")
	ErrClaimLost    = New(CodeClaimLost, "claim lost to a higher claim")
	ErrNotWinning   = New(CodeNotWinning, "hand is not a winning hand")
	ErrTileNotHeld  = New(CodeTileNotHeld, "tile not in hand")

	ErrConflict = New(CodeConflict, "state changed underneath, try again")
)
