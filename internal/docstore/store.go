// Package docstore 提供对局文档的乐观并发存储.
//
// 每局游戏是一份带版本号的字节文档; 写入走 CommitIfUnchanged 比较版本,
// 版本不符即冲突, 由调用方重读重试. 订阅按提交顺序推送每个新版本.
package docstore

import (
	"context"
	"errors"
)

// Document 一份带版本号的对局文档.
type Document struct {
	ID      string `json:"id"`
	Version uint64 `json:"version"` // 0 表示尚未创建
	Data    []byte `json:"data"`
}

// CancelFunc 取消订阅. 可重复调用.
type CancelFunc func()

var (
	// ErrNotFound 文档不存在.
	ErrNotFound = errors.New("docstore: document not found")
	// ErrConflict 版本不符, 文档已被并发修改.
	ErrConflict = errors.New("docstore: version conflict")
)

// Store 对局文档存储.
//
// 实现: memory(测试/单机), redis(WATCH/MULTI), nats(JetStream KV).
type Store interface {
	// Read 读取当前文档. 不存在返回 ErrNotFound.
	Read(ctx context.Context, id string) (Document, error)

	// CommitIfUnchanged 仅当存储中版本等于 version 时写入 data,
	// 返回新版本号. version 为 0 表示创建, 文档已存在则冲突.
	// 新版本号由后端分配, 不保证是 version+1.
	CommitIfUnchanged(ctx context.Context, id string, version uint64, data []byte) (uint64, error)

	// Subscribe 订阅文档变更. 先推送当前文档(若存在), 之后按提交顺序
	// 推送每个新版本. 消费过慢的订阅者会被断开(通道关闭).
	Subscribe(ctx context.Context, id string) (<-chan Document, CancelFunc, error)

	// Close 释放后端资源.
	Close() error
}
