package docstore

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"
)

// NATS 基于 JetStream KV 的存储.
//
// KV 的 revision 直接当文档版本用. revision 是 bucket 级流序号,
// 不保证逐一递增, 所以提交后的新版本必须取返回值而不能自己 +1.
type NATS struct {
	nc *nats.Conn
	kv nats.KeyValue
}

// NewNATS 打开(或创建)存放对局文档的 KV bucket.
// Close 时连带关闭连接.
func NewNATS(nc *nats.Conn, bucket string) (*NATS, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	kv, err := js.KeyValue(bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{Bucket: bucket, History: 1})
	}
	if err != nil {
		return nil, err
	}
	return &NATS{nc: nc, kv: kv}, nil
}

func (n *NATS) Read(ctx context.Context, id string) (Document, error) {
	entry, err := n.kv.Get(id)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, err
	}
	return Document{ID: id, Version: entry.Revision(), Data: entry.Value()}, nil
}

func (n *NATS) CommitIfUnchanged(ctx context.Context, id string, version uint64, data []byte) (uint64, error) {
	if version == 0 {
		rev, err := n.kv.Create(id, data)
		if errors.Is(err, nats.ErrKeyExists) {
			return 0, ErrConflict
		}
		if err != nil {
			return 0, err
		}
		return rev, nil
	}
	rev, err := n.kv.Update(id, data, version)
	if err != nil {
		// key 不存在时同样报序号不符, 归为冲突, 调用方重读后拿到 ErrNotFound.
		var apiErr *nats.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode == nats.JSErrCodeStreamWrongLastSequence {
			return 0, ErrConflict
		}
		return 0, err
	}
	return rev, nil
}

func (n *NATS) Subscribe(ctx context.Context, id string) (<-chan Document, CancelFunc, error) {
	watcher, err := n.kv.Watch(id)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan Document, subBuffer)
	go func() {
		defer close(out)
		for entry := range watcher.Updates() {
			if entry == nil {
				// 初始回放结束标记.
				continue
			}
			if entry.Operation() != nats.KeyValuePut {
				continue
			}
			select {
			case out <- Document{ID: id, Version: entry.Revision(), Data: entry.Value()}:
			default:
				watcher.Stop()
				return
			}
		}
	}()
	cancel := func() { watcher.Stop() }
	return out, cancel, nil
}

func (n *NATS) Close() error {
	n.nc.Close()
	return nil
}
