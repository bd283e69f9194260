// tablesim 让内建机器人自己打牌: 内存后端起一桌, 人格轮换入座,
// 跑满指定局数后打出战绩汇总. 机器人走的是和真实客户端完全相同的
// 房间服务路径, 适合策略回归和长跑压状态机.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pterm/pterm"

	"parlor-lite/bot"
	"parlor-lite/internal/codec"
	"parlor-lite/internal/docstore"
	"parlor-lite/internal/ledger"
	"parlor-lite/internal/room"
	"parlor-lite/mahjong"
)

// startingBank 每个机器人的起始账面, 要盖得住默认买入.
const startingBank int64 = 10000

// stallTimeout 桌面多久没有新帧算死局 (比如全员破产开不了下一手).
const stallTimeout = 10 * time.Second

func main() {
	gameFlag := flag.String("game", "poker", "blackjack | poker | mahjong")
	handsFlag := flag.Int("hands", 20, "hands (rounds) to play before the summary")
	botsFlag := flag.Int("bots", 4, "bots at the table (mahjong always seats 4)")
	seedFlag := flag.Int64("seed", 0, "deal seed, 0 picks one from the clock")
	verboseFlag := flag.Bool("v", false, "log every bot decision")
	flag.Parse()

	kind, err := codec.ParseKind(*gameFlag)
	if err != nil {
		pterm.Error.Printfln("unknown game %q, want blackjack | poker | mahjong", *gameFlag)
		os.Exit(1)
	}
	bots := seatCount(kind, *botsFlag)
	if bots != *botsFlag {
		pterm.Warning.Printfln("%s seats %d bots, adjusting", kind, bots)
	}

	pterm.DefaultLogger.Level = pterm.LogLevelWarn
	if *verboseFlag {
		pterm.DefaultLogger.Level = pterm.LogLevelDebug
		pterm.EnableDebugMessages()
	}
	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))

	store := docstore.NewMemory()
	defer store.Close()
	accounts := ledger.NewMemory()
	defer accounts.Close()

	defaults := room.DefaultTables()
	switch kind {
	case codec.KindBlackjack:
		defaults.Blackjack.Seed = *seedFlag
	case codec.KindPoker:
		defaults.Poker.Seed = *seedFlag
	case codec.KindMahjong:
		defaults.Mahjong.Seed = *seedFlag
	}
	rooms := room.New(store, accounts, defaults, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameID, err := rooms.CreateGame(ctx, kind)
	if err != nil {
		pterm.Error.Printfln("create game: %v", err)
		os.Exit(1)
	}
	pterm.Info.Printfln("table %s: %d bots, playing %d %s", gameID[:8], bots, *handsFlag, handsWord(kind))

	// 旁观订阅先建好, 免得错过开局帧.
	snaps, cancelWatch, err := rooms.Watch(ctx, gameID, "observer")
	if err != nil {
		pterm.Error.Printfln("watch: %v", err)
		os.Exit(1)
	}
	defer cancelWatch()

	personas := bot.Personas()
	seats := make([]string, bots)
	assigned := make(map[string]bot.Persona, bots)
	runCtx, stopBots := context.WithCancel(ctx)
	defer stopBots()
	var wg sync.WaitGroup
	for i := 0; i < bots; i++ {
		seat := fmt.Sprintf("bot-%d", i+1)
		seats[i] = seat
		persona := personas[i%len(personas)]
		assigned[seat] = persona
		if err := accounts.Credit(ctx, seat, startingBank, "bankroll"); err != nil {
			pterm.Error.Printfln("fund %s: %v", seat, err)
			os.Exit(1)
		}
		brainSeed := int64(0)
		if *seedFlag != 0 {
			brainSeed = *seedFlag + int64(i) + 1
		}
		r := &bot.Runner{
			Table:  rooms,
			GameID: gameID,
			Seat:   seat,
			Brain:  bot.NewBrain(persona, brainSeed),
			Log:    logger.With("bot", seat, "persona", persona.Name),
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("bot stopped", "bot", r.Seat, "err", err)
			}
		}()
	}

	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("dealing %d %s...", *handsFlag, handsWord(kind)))
	var last codec.GameSnapshot
	played := 0
	counted := -1
	idle := time.NewTimer(stallTimeout)
	defer idle.Stop()
watch:
	for played < *handsFlag {
		select {
		case snap, ok := <-snaps:
			if !ok {
				break watch
			}
			last = snap
			if !idle.Stop() {
				<-idle.C
			}
			idle.Reset(stallTimeout)
			if no, settled := progress(snap); settled && no != counted {
				counted = no
				played++
				spinner.UpdateText(fmt.Sprintf("%d/%d %s played", played, *handsFlag, handsWord(kind)))
			}
		case <-idle.C:
			break watch
		}
	}
	if played < *handsFlag {
		spinner.Fail(fmt.Sprintf("table stalled after %d %s", played, handsWord(kind)))
	} else {
		spinner.Success(fmt.Sprintf("%d %s played", played, handsWord(kind)))
	}

	stopBots()
	wg.Wait()

	// ctrl-c 之后 ctx 已取消, 收尾用独立上下文.
	summarize(context.Background(), kind, gameID, last, seats, assigned, rooms, accounts)
}

// seatCount 按游戏裁剪机器人数: 麻将定员四人, 其余不超过默认桌容量.
func seatCount(kind codec.Kind, want int) int {
	std := room.DefaultTables()
	switch kind {
	case codec.KindMahjong:
		return mahjong.SeatCount
	case codec.KindBlackjack:
		if want < 1 {
			want = 1
		}
		if want > std.Blackjack.MaxSeats {
			want = std.Blackjack.MaxSeats
		}
	case codec.KindPoker:
		if want < 2 {
			want = 2
		}
		if want > std.Poker.MaxSeats {
			want = std.Poker.MaxSeats
		}
	}
	return want
}

func handsWord(kind codec.Kind) string {
	if kind == codec.KindMahjong {
		return "rounds"
	}
	return "hands"
}

// progress 当前局序号与该局是否已结算.
func progress(snap codec.GameSnapshot) (int, bool) {
	switch {
	case snap.Blackjack != nil:
		return snap.Blackjack.HandNo, snap.Blackjack.Phase == "finished"
	case snap.Poker != nil:
		return snap.Poker.HandNo, snap.Poker.Phase == "finished"
	case snap.Mahjong != nil:
		return snap.Mahjong.RoundNo, snap.Mahjong.Phase == mahjong.PhaseTypeFinished
	}
	return 0, false
}

// summarize 打战绩表. 筹码桌先离座兑现, 账面差额就是盈亏;
// 麻将没有筹码, 直接报最后一帧的得分.
func summarize(ctx context.Context, kind codec.Kind, gameID string, last codec.GameSnapshot,
	seats []string, assigned map[string]bot.Persona, rooms *room.Service, accounts ledger.Service) {

	rows := pterm.TableData{{"seat", "persona", "result"}}
	switch kind {
	case codec.KindMahjong:
		scores := make(map[string]int64, len(seats))
		if last.Mahjong != nil {
			for _, sv := range last.Mahjong.Seats {
				if sv != nil {
					scores[sv.ID] = sv.Score
				}
			}
		}
		for _, seat := range seats {
			rows = append(rows, []string{seat, assigned[seat].Name, fmt.Sprintf("%+d points", scores[seat])})
		}
	default:
		for _, seat := range seats {
			if err := rooms.LeaveGame(ctx, gameID, seat); err != nil {
				pterm.Debug.Printfln("leave %s: %v", seat, err)
			}
			bal, err := accounts.Balance(ctx, seat)
			if err != nil {
				pterm.Debug.Printfln("balance %s: %v", seat, err)
				continue
			}
			rows = append(rows, []string{seat, assigned[seat].Name, fmt.Sprintf("%+d chips", bal-startingBank)})
		}
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}
