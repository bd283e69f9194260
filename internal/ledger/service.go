// Package ledger 记录座位身份的筹码账户: 余额表加流水表.
//
// 入座买入走 Debit, 离座兑现走 Credit, 对局内的筹码变动由引擎自己
// 守恒, 不过账. 实现: memory(测试/单机), sqlite(本地), postgres(生产).
package ledger

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrInsufficientFunds 余额不足, 账户未变动.
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
	// ErrInvalidAmount 金额必须为正.
	ErrInvalidAmount = errors.New("ledger: amount must be positive")
)

// Service 筹码账户服务. userID 是平台分配的座位身份.
type Service interface {
	// Credit 入账. ref 是业务参考号, 例如 "cashout:<gameID>".
	Credit(ctx context.Context, userID string, amount int64, ref string) error
	// Debit 出账. 余额不足返回 ErrInsufficientFunds 且不动账.
	Debit(ctx context.Context, userID string, amount int64, ref string) error
	// Balance 当前余额. 未见过的用户余额为 0.
	Balance(ctx context.Context, userID string) (int64, error)
	Close() error
}

// Memory 进程内账户, 供测试与单机模式使用.
type Memory struct {
	mu       sync.Mutex
	balances map[string]int64
}

// NewMemory 创建空的内存账户.
func NewMemory() *Memory {
	return &Memory{balances: make(map[string]int64)}
}

func (m *Memory) Credit(ctx context.Context, userID string, amount int64, ref string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances[userID] += amount
	return nil
}

func (m *Memory) Debit(ctx context.Context, userID string, amount int64, ref string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.balances[userID] < amount {
		return ErrInsufficientFunds
	}
	m.balances[userID] -= amount
	return nil
}

func (m *Memory) Balance(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balances[userID], nil
}

func (m *Memory) Close() error { return nil }
