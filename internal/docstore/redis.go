package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Redis 基于 go-redis 的存储.
//
// 文档存 hash(version, data), CAS 走 WATCH/MULTI, 变更经 PUB/SUB 广播.
// 版本号由本端维护, 每次提交 +1.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis 包装一个已连接的 redis 客户端. Close 时连带关闭客户端.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, prefix: "parlor:doc:"}
}

func (r *Redis) key(id string) string     { return r.prefix + id }
func (r *Redis) channel(id string) string { return r.prefix + "ev:" + id }

func (r *Redis) Read(ctx context.Context, id string) (Document, error) {
	vals, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return Document{}, err
	}
	if len(vals) == 0 {
		return Document{}, ErrNotFound
	}
	return docFromHash(id, vals)
}

func docFromHash(id string, vals map[string]string) (Document, error) {
	version, err := strconv.ParseUint(vals["version"], 10, 64)
	if err != nil {
		return Document{}, fmt.Errorf("docstore: bad version for %s: %w", id, err)
	}
	return Document{ID: id, Version: version, Data: []byte(vals["data"])}, nil
}

func (r *Redis) CommitIfUnchanged(ctx context.Context, id string, version uint64, data []byte) (uint64, error) {
	key := r.key(id)
	next := version + 1
	txf := func(tx *redis.Tx) error {
		vals, err := tx.HGetAll(ctx, key).Result()
		if err != nil {
			return err
		}
		switch {
		case len(vals) == 0 && version != 0:
			return ErrNotFound
		case len(vals) > 0:
			cur, err := docFromHash(id, vals)
			if err != nil {
				return err
			}
			if cur.Version != version {
				return ErrConflict
			}
		}
		event, err := json.Marshal(Document{ID: id, Version: next, Data: data})
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "version", next, "data", data)
			pipe.Publish(ctx, r.channel(id), event)
			return nil
		})
		return err
	}
	err := r.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		// WATCH 发现 key 在事务前被改写.
		return 0, ErrConflict
	}
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (r *Redis) Subscribe(ctx context.Context, id string) (<-chan Document, CancelFunc, error) {
	pubsub := r.client.Subscribe(ctx, r.channel(id))
	// 等订阅生效再做初读, 否则初读之后的第一次提交可能漏掉.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	out := make(chan Document, subBuffer)
	var last uint64
	cur, err := r.Read(ctx, id)
	switch {
	case err == nil:
		last = cur.Version
		out <- cur
	case !errors.Is(err, ErrNotFound):
		pubsub.Close()
		return nil, nil, err
	}

	msgs := pubsub.Channel()
	go func() {
		defer close(out)
		for msg := range msgs {
			var doc Document
			if err := json.Unmarshal([]byte(msg.Payload), &doc); err != nil {
				continue
			}
			if doc.Version <= last {
				// 初读与广播重叠, 按版本去重.
				continue
			}
			last = doc.Version
			select {
			case out <- doc:
			default:
				pubsub.Close()
				return
			}
		}
	}()
	cancel := func() { pubsub.Close() }
	return out, cancel, nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
