// Package room 是对局会话层: 产生对局 ID, 驱动读-转移-提交循环,
// 并把存储文档消毒成观察者快照.
//
// 引擎是纯函数, 这里不持有任何对局内存状态; 同一对局可以被多个
// 服务实例并发驱动, 一致性完全靠存储层的版本比较.
package room

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"parlor-lite/blackjack"
	"parlor-lite/internal/codec"
	"parlor-lite/internal/docstore"
	"parlor-lite/internal/ledger"
	"parlor-lite/mahjong"
	"parlor-lite/poker"
	"parlor-lite/reject"
)

// maxCommitRetries 提交冲突重试上限. 超过说明桌上动作风暴,
// 把冲突原样抛给客户端重试.
const maxCommitRetries = 5

// errCorrupt 文档缺游戏体或反序列化失败.
var errCorrupt = reject.New(reject.CodeInternal, "corrupt game document")

// document 对局文档的持久化形态, 恰好一个游戏字段非空.
type document struct {
	Kind      codec.Kind      `json:"kind"`
	Blackjack *blackjack.Game `json:"blackjack,omitempty"`
	Poker     *poker.Game     `json:"poker,omitempty"`
	Mahjong   *mahjong.Game   `json:"mahjong,omitempty"`
}

// Defaults 每种游戏的开桌参数与默认买入.
type Defaults struct {
	Blackjack      blackjack.Config
	Poker          poker.Config
	Mahjong        mahjong.Config
	BlackjackBuyIn int64
	PokerBuyIn     int64
}

// DefaultTables 单机与测试用的开桌参数.
func DefaultTables() Defaults {
	return Defaults{
		Blackjack:      blackjack.Config{MaxSeats: 5, Decks: 6, MinBet: 10, MaxBet: 500},
		Poker:          poker.Config{MaxSeats: 6, SmallBlind: 5, BigBlind: 10, MinBuyIn: 400, MaxBuyIn: 2000},
		Mahjong:        mahjong.Config{},
		BlackjackBuyIn: 1000,
		PokerBuyIn:     1000,
	}
}

func (d Defaults) buyInFor(kind codec.Kind) int64 {
	switch kind {
	case codec.KindBlackjack:
		return d.BlackjackBuyIn
	case codec.KindPoker:
		return d.PokerBuyIn
	default:
		return 0
	}
}

// Service 对局会话服务.
type Service struct {
	store    docstore.Store
	accounts ledger.Service
	defaults Defaults
	log      *slog.Logger
}

// New 组装会话服务. 未设置的开桌参数落到 DefaultTables.
func New(store docstore.Store, accounts ledger.Service, defaults Defaults, log *slog.Logger) *Service {
	std := DefaultTables()
	if defaults.Blackjack == (blackjack.Config{}) {
		defaults.Blackjack = std.Blackjack
	}
	if defaults.Poker == (poker.Config{}) {
		defaults.Poker = std.Poker
	}
	if defaults.BlackjackBuyIn <= 0 {
		defaults.BlackjackBuyIn = std.BlackjackBuyIn
	}
	if defaults.PokerBuyIn <= 0 {
		defaults.PokerBuyIn = std.PokerBuyIn
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, accounts: accounts, defaults: defaults, log: log}
}

// CreateGame 开新桌, 返回对局 ID.
func (s *Service) CreateGame(ctx context.Context, kind codec.Kind) (string, error) {
	doc := document{Kind: kind}
	switch kind {
	case codec.KindBlackjack:
		g, err := blackjack.NewGame(s.defaults.Blackjack)
		if err != nil {
			return "", err
		}
		doc.Blackjack = &g
	case codec.KindPoker:
		g, err := poker.NewGame(s.defaults.Poker)
		if err != nil {
			return "", err
		}
		doc.Poker = &g
	case codec.KindMahjong:
		g, err := mahjong.NewGame(s.defaults.Mahjong)
		if err != nil {
			return "", err
		}
		doc.Mahjong = &g
	default:
		return "", reject.ErrUnknownKind.With(string(kind))
	}

	gameID := uuid.NewString()
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	if _, err := s.store.CommitIfUnchanged(ctx, gameID, 0, data); err != nil {
		return "", s.mapStoreErr(err)
	}
	s.log.Info("game created", "game_id", gameID, "kind", kind)
	return gameID, nil
}

// JoinGame 入座. 筹码桌先从账户扣买入, 入座失败原额退回;
// 麻将按局结分, 不过账.
func (s *Service) JoinGame(ctx context.Context, gameID, seat string, buyIn int64) error {
	doc, err := s.read(ctx, gameID)
	if err != nil {
		return err
	}

	if doc.Kind == codec.KindMahjong {
		return s.mutate(ctx, gameID, func(d *document) error {
			if d.Mahjong == nil {
				return errCorrupt
			}
			g, err := mahjong.Join(*d.Mahjong, seat)
			if err != nil {
				return err
			}
			d.Mahjong = &g
			return nil
		})
	}

	if buyIn <= 0 {
		buyIn = s.defaults.buyInFor(doc.Kind)
	}
	if err := s.accounts.Debit(ctx, seat, buyIn, "buyin:"+gameID); err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return reject.ErrInsufficientChips.Withf("buy-in %d exceeds balance", buyIn)
		}
		return err
	}
	err = s.mutate(ctx, gameID, func(d *document) error {
		switch {
		case d.Blackjack != nil:
			g, err := blackjack.Join(*d.Blackjack, seat, buyIn)
			if err != nil {
				return err
			}
			d.Blackjack = &g
		case d.Poker != nil:
			g, err := poker.Join(*d.Poker, seat, buyIn)
			if err != nil {
				return err
			}
			d.Poker = &g
		default:
			return errCorrupt
		}
		return nil
	})
	if err != nil {
		// 入座失败退回买入; 退款再失败只能记日志等对账.
		if cerr := s.accounts.Credit(ctx, seat, buyIn, "refund:"+gameID); cerr != nil {
			s.log.Error("buy-in refund failed",
				"game_id", gameID, "seat", seat, "amount", buyIn, "err", cerr)
		}
		return err
	}
	s.log.Info("seat joined", "game_id", gameID, "seat", seat, "buy_in", buyIn)
	return nil
}

// LeaveGame 离座. 筹码桌把引擎结出的兑现额记回账户.
func (s *Service) LeaveGame(ctx context.Context, gameID, seat string) error {
	var cashout int64
	err := s.mutate(ctx, gameID, func(d *document) error {
		cashout = 0 // 冲突重试时只认最后一次转移的兑现额
		switch {
		case d.Blackjack != nil:
			g, out, err := blackjack.Leave(*d.Blackjack, seat)
			if err != nil {
				return err
			}
			cashout = out
			d.Blackjack = &g
		case d.Poker != nil:
			g, out, err := poker.Leave(*d.Poker, seat)
			if err != nil {
				return err
			}
			cashout = out
			d.Poker = &g
		case d.Mahjong != nil:
			g, err := mahjong.Leave(*d.Mahjong, seat)
			if err != nil {
				return err
			}
			d.Mahjong = &g
		default:
			return errCorrupt
		}
		return nil
	})
	if err != nil {
		return err
	}
	if cashout > 0 {
		if cerr := s.accounts.Credit(ctx, seat, cashout, "cashout:"+gameID); cerr != nil {
			s.log.Error("cashout credit failed",
				"game_id", gameID, "seat", seat, "amount", cashout, "err", cerr)
		}
	}
	s.log.Info("seat left", "game_id", gameID, "seat", seat, "cashout", cashout)
	return nil
}

// SubmitAction 应用一次玩家动作.
func (s *Service) SubmitAction(ctx context.Context, gameID, seat string, req codec.ActionRequest) error {
	return s.mutate(ctx, gameID, func(d *document) error {
		switch {
		case d.Blackjack != nil:
			act, err := codec.BlackjackAction(seat, req)
			if err != nil {
				return err
			}
			g, err := blackjack.Apply(*d.Blackjack, act)
			if err != nil {
				return err
			}
			d.Blackjack = &g
		case d.Poker != nil:
			act, err := codec.PokerAction(seat, req)
			if err != nil {
				return err
			}
			g, err := poker.Apply(*d.Poker, act)
			if err != nil {
				return err
			}
			d.Poker = &g
		case d.Mahjong != nil:
			act, err := codec.MahjongAction(seat, req)
			if err != nil {
				return err
			}
			g, err := mahjong.Apply(*d.Mahjong, act)
			if err != nil {
				return err
			}
			d.Mahjong = &g
		default:
			return errCorrupt
		}
		return nil
	})
}

// Snapshot 读取当前对局并按观察者视角消毒.
func (s *Service) Snapshot(ctx context.Context, gameID, viewer string) (codec.GameSnapshot, error) {
	cur, err := s.store.Read(ctx, gameID)
	if err != nil {
		return codec.GameSnapshot{}, s.mapStoreErr(err)
	}
	var doc document
	if err := json.Unmarshal(cur.Data, &doc); err != nil {
		return codec.GameSnapshot{}, errCorrupt
	}
	return sanitize(gameID, cur.Version, doc, viewer), nil
}

// Watch 订阅对局, 按提交顺序推送消毒后的快照.
// ctx 取消或返回的 CancelFunc 被调用后通道关闭.
func (s *Service) Watch(ctx context.Context, gameID, viewer string) (<-chan codec.GameSnapshot, docstore.CancelFunc, error) {
	if _, err := s.store.Read(ctx, gameID); err != nil {
		return nil, nil, s.mapStoreErr(err)
	}
	docs, cancel, err := s.store.Subscribe(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	out := make(chan codec.GameSnapshot, 16)
	go func() {
		defer close(out)
		for d := range docs {
			var doc document
			if err := json.Unmarshal(d.Data, &doc); err != nil {
				s.log.Error("corrupt game document",
					"game_id", gameID, "version", d.Version, "err", err)
				continue
			}
			select {
			case out <- sanitize(gameID, d.Version, doc, viewer):
			case <-ctx.Done():
				cancel()
				return
			}
		}
	}()
	return out, cancel, nil
}

// ============== 内部 ==============

// mutate 读-转移-提交循环. fn 在文档副本上应用一次转移,
// 返回错误则不提交.
func (s *Service) mutate(ctx context.Context, gameID string, fn func(*document) error) error {
	for attempt := 0; attempt < maxCommitRetries; attempt++ {
		cur, err := s.store.Read(ctx, gameID)
		if err != nil {
			return s.mapStoreErr(err)
		}
		var doc document
		if err := json.Unmarshal(cur.Data, &doc); err != nil {
			return errCorrupt
		}
		if err := fn(&doc); err != nil {
			return err
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		if _, err := s.store.CommitIfUnchanged(ctx, gameID, cur.Version, data); err == nil {
			return nil
		} else if !errors.Is(err, docstore.ErrConflict) {
			return s.mapStoreErr(err)
		}
		s.log.Debug("commit conflict, retrying", "game_id", gameID, "attempt", attempt+1)
	}
	return reject.ErrConflict
}

func (s *Service) read(ctx context.Context, gameID string) (document, error) {
	cur, err := s.store.Read(ctx, gameID)
	if err != nil {
		return document{}, s.mapStoreErr(err)
	}
	var doc document
	if err := json.Unmarshal(cur.Data, &doc); err != nil {
		return document{}, errCorrupt
	}
	return doc, nil
}

func (s *Service) mapStoreErr(err error) error {
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		return reject.ErrGameNotFound
	case errors.Is(err, docstore.ErrConflict):
		return reject.ErrConflict
	default:
		return err
	}
}

// sanitize 每个观察者只拿到自己有权看到的牌面.
func sanitize(gameID string, version uint64, doc document, viewer string) codec.GameSnapshot {
	snap := codec.GameSnapshot{Kind: doc.Kind, GameID: gameID, Version: version}
	switch {
	case doc.Blackjack != nil:
		v := blackjack.SnapshotFor(*doc.Blackjack, viewer)
		snap.Blackjack = &v
	case doc.Poker != nil:
		v := poker.SnapshotFor(*doc.Poker, viewer)
		snap.Poker = &v
	case doc.Mahjong != nil:
		v := mahjong.SnapshotFor(*doc.Mahjong, viewer)
		snap.Mahjong = &v
	}
	return snap
}
