package docstore

import (
	"context"
	"sync"
)

// subBuffer 订阅通道缓冲. 写满说明消费者卡死, 直接断开.
const subBuffer = 64

// Memory 进程内存储, 供测试与单机模式使用.
type Memory struct {
	mu     sync.Mutex
	docs   map[string]Document
	subs   map[string]map[uint64]*memorySub
	nextID uint64
}

type memorySub struct {
	ch     chan Document
	closed bool
}

// NewMemory 创建空的内存存储.
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string]Document),
		subs: make(map[string]map[uint64]*memorySub),
	}
}

func (m *Memory) Read(ctx context.Context, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return doc, nil
}

func (m *Memory) CommitIfUnchanged(ctx context.Context, id string, version uint64, data []byte) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.docs[id]
	switch {
	case !ok && version != 0:
		return 0, ErrNotFound
	case ok && cur.Version != version:
		return 0, ErrConflict
	}
	// 自持副本, 调用方可复用缓冲.
	doc := Document{ID: id, Version: version + 1, Data: append([]byte(nil), data...)}
	m.docs[id] = doc
	m.fanout(id, doc)
	return doc.Version, nil
}

// fanout 持锁调用, 保证所有订阅者看到同一提交顺序.
func (m *Memory) fanout(id string, doc Document) {
	for sid, sub := range m.subs[id] {
		select {
		case sub.ch <- doc:
		default:
			sub.closed = true
			close(sub.ch)
			delete(m.subs[id], sid)
		}
	}
}

func (m *Memory) Subscribe(ctx context.Context, id string) (<-chan Document, CancelFunc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub := &memorySub{ch: make(chan Document, subBuffer)}
	if doc, ok := m.docs[id]; ok {
		sub.ch <- doc
	}
	sid := m.nextID
	m.nextID++
	if m.subs[id] == nil {
		m.subs[id] = make(map[uint64]*memorySub)
	}
	m.subs[id][sid] = sub

	cancel := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if sub.closed {
			return
		}
		sub.closed = true
		close(sub.ch)
		delete(m.subs[id], sid)
	}
	return sub.ch, cancel, nil
}

// Close 断开所有订阅者. 文档保留, 进程退出时一并释放.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, subs := range m.subs {
		for sid, sub := range subs {
			if !sub.closed {
				sub.closed = true
				close(sub.ch)
			}
			delete(subs, sid)
		}
		delete(m.subs, id)
	}
	return nil
}
