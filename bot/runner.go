package bot

import (
	"context"
	"log/slog"
	"time"

	"parlor-lite/internal/codec"
	"parlor-lite/internal/docstore"
	"parlor-lite/reject"
)

// Table 是 Runner 需要的房间操作子集, *room.Service 满足它.
type Table interface {
	JoinGame(ctx context.Context, gameID, seat string, buyIn int64) error
	SubmitAction(ctx context.Context, gameID, seat string, req codec.ActionRequest) error
	Watch(ctx context.Context, gameID, viewer string) (<-chan codec.GameSnapshot, docstore.CancelFunc, error)
}

// Runner 把一个机器人接到一张桌上: 入座, 订阅快照, 逐帧决策.
type Runner struct {
	Table  Table
	GameID string
	Seat   string
	BuyIn  int64 // 0 用桌面默认买入
	Brain  *Brain
	Log    *slog.Logger

	// ThinkDelay 每次出手前的停顿, 线上桌给真人留反应时间;
	// 仿真桌设 0 全速跑.
	ThinkDelay time.Duration
}

// Run 阻塞驱动到 ctx 取消或订阅断开.
// 动作被拒绝是常态(两家抢同一个窗口), 只记 debug 继续.
func (r *Runner) Run(ctx context.Context) error {
	log := r.Log
	if log == nil {
		log = slog.Default()
	}
	log = log.With("game_id", r.GameID, "seat", r.Seat)

	if err := r.Table.JoinGame(ctx, r.GameID, r.Seat, r.BuyIn); err != nil {
		if !reject.Is(err, reject.ErrAlreadySeated) {
			return err
		}
	}
	snaps, cancel, err := r.Table.Watch(ctx, r.GameID, r.Seat)
	if err != nil {
		return err
	}
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap, ok := <-snaps:
			if !ok {
				// 订阅被存储端断开, 机器人退场.
				log.Info("watch closed, bot leaving")
				return nil
			}
			req, act := r.Brain.Decide(snap)
			if !act {
				continue
			}
			if r.ThinkDelay > 0 {
				timer := time.NewTimer(r.ThinkDelay)
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
			}
			req.GameID = r.GameID
			if err := r.Table.SubmitAction(ctx, r.GameID, r.Seat, req); err != nil {
				log.Debug("action rejected", "type", req.Type, "err", err)
			}
		}
	}
}
