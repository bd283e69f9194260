package poker

import (
	"fmt"
	"math/rand"
	"time"

	"parlor-lite/card"
	"parlor-lite/reject"
)

// Seat 座位. Seats 里 nil 表示空位.
type Seat struct {
	ID         string        `json:"id"`
	Chips      int64         `json:"chips"`
	Status     SeatStatus    `json:"status"`
	Hole       card.CardList `json:"hole,omitempty"`
	Bet        int64         `json:"bet"`       // 本街已投入
	Committed  int64         `json:"committed"` // 本手累计投入, 分池依据
	Acted      bool          `json:"acted,omitempty"`
	LastAction ActionType    `json:"lastAction,omitempty"`
}

// Game 牌局聚合: 可序列化, 转移函数不修改输入值.
//
// CurBet 是本街目前的最高总注额, MinRaise 是下一次足额加注的最小增量,
// LastRaiser 用来挡住同一座位在无人反加时连续加注.
type Game struct {
	Cfg        Config        `json:"cfg"`
	Phase      Phase         `json:"phase"`
	HandNo     int           `json:"handNo"`
	Seed       int64         `json:"seed"`
	Deck       card.CardList `json:"deck"`
	Community  card.CardList `json:"community,omitempty"`
	Discards   card.CardList `json:"discards,omitempty"`
	Seats      []*Seat       `json:"seats"`
	Button     int           `json:"button"`
	Turn       int           `json:"turn"`
	CurBet     int64         `json:"curBet"`
	MinRaise   int64         `json:"minRaise"`
	LastRaiser int           `json:"lastRaiser"`
	Result     *Settlement   `json:"result,omitempty"`
}

func NewGame(cfg Config) (Game, error) {
	if err := cfg.validate(); err != nil {
		return Game{}, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg.Seed = seed
	g := Game{
		Cfg:        cfg,
		Phase:      PhaseTypeWaiting,
		Seed:       seed,
		Deck:       card.NewDeck(),
		Seats:      make([]*Seat, cfg.MaxSeats),
		Button:     NoTurn,
		Turn:       NoTurn,
		LastRaiser: NoTurn,
	}
	return g, nil
}

// clone 深拷贝聚合. 转移先拷贝再修改, 输入值保持原样.
func (g Game) clone() Game {
	out := g
	out.Deck = g.Deck.Clone()
	out.Community = g.Community.Clone()
	out.Discards = g.Discards.Clone()
	out.Seats = make([]*Seat, len(g.Seats))
	for i, s := range g.Seats {
		if s == nil {
			continue
		}
		c := *s
		c.Hole = s.Hole.Clone()
		out.Seats[i] = &c
	}
	// Result 一经写入不再修改, 指针共享无碍
	return out
}

func seatIndex(g Game, id string) int {
	for i, s := range g.Seats {
		if s != nil && s.ID == id {
			return i
		}
	}
	return NoTurn
}

// inShowdown 座位仍持牌 (未弃未离席), 有资格争夺彩池.
func inShowdown(s *Seat) bool {
	return s.Status == SeatStatusPlaying || s.Status == SeatStatusAllIn
}

// Join 入座买入. 发牌由 NEXTHAND 动作触发, 手牌进行中入座要等下一手.
func Join(g Game, seatID string, chips int64) (Game, error) {
	if seatID == "" {
		return g, reject.ErrNotSeated.With("empty seat id")
	}
	if chips < g.Cfg.MinBuyIn || chips > g.Cfg.MaxBuyIn {
		return g, reject.ErrBetOutOfRange.Withf("buy-in %d, limits %d..%d", chips, g.Cfg.MinBuyIn, g.Cfg.MaxBuyIn)
	}
	if seatIndex(g, seatID) != NoTurn {
		return g, reject.ErrAlreadySeated
	}
	free := NoTurn
	for i, s := range g.Seats {
		if s == nil {
			free = i
			break
		}
	}
	if free == NoTurn {
		return g, reject.ErrGameFull
	}

	next := g.clone()
	next.Seats[free] = &Seat{ID: seatID, Chips: chips, Status: SeatStatusWaiting}
	checkConservation(&next)
	return next, nil
}

// Leave 离席, 返回应兑付给玩家的筹码.
// 手牌进行中离席视为弃权: 已投入的注留在池里, 座位标记 Left, 下一手清掉.
func Leave(g Game, seatID string) (Game, int64, error) {
	idx := seatIndex(g, seatID)
	if idx == NoTurn {
		return g, 0, reject.ErrNotSeated
	}
	next := g.clone()
	s := next.Seats[idx]
	if s.Status == SeatStatusLeft {
		return g, 0, reject.ErrNotSeated
	}
	cashOut := s.Chips

	switch next.Phase {
	case PhaseTypePreflop, PhaseTypeFlop, PhaseTypeTurn, PhaseTypeRiver:
		if s.Status == SeatStatusWaiting {
			// 本手没份, 直接清掉
			removeSeat(&next, idx)
			break
		}
		// 发过牌的座位 (含已弃牌的) 一律走弃权: Committed 是池里的
		// 死钱, 座位要留到下一手 startHand 才清, 不然钱跟着座位消失.
		wasLive := inShowdown(s)
		s.Status = SeatStatusLeft
		s.Chips = 0
		s.Acted = true
		s.LastAction = ActionTypeFold
		if wasLive {
			if next.Turn == idx {
				afterAction(&next)
			} else if countInHand(&next) == 1 {
				settle(&next, false)
			} else if bettingComplete(&next) {
				advanceStreet(&next)
			}
		}
	default:
		removeSeat(&next, idx)
	}
	checkConservation(&next)
	return next, cashOut, nil
}

// removeSeat 清空座位, 残牌扫进弃牌堆保持守恒.
func removeSeat(g *Game, idx int) {
	s := g.Seats[idx]
	g.Discards.Add(s.Hole...)
	g.Seats[idx] = nil
}

// Apply 校验并执行一次玩家动作, 返回新状态.
// 校验顺序: 阶段 -> 轮次 -> 注额; 任何一步失败都不产生状态变更.
func Apply(g Game, act Action) (Game, error) {
	idx := seatIndex(g, act.Seat)
	if idx == NoTurn {
		return g, reject.ErrNotSeated
	}
	var (
		next Game
		err  error
	)
	switch act.Type {
	case ActionTypeFold:
		next, err = applyFold(g, idx)
	case ActionTypeCheck:
		next, err = applyCheck(g, idx)
	case ActionTypeCall:
		next, err = applyCall(g, idx)
	case ActionTypeRaise:
		next, err = applyRaise(g, idx, act.Amount)
	case ActionTypeAllIn:
		next, err = applyAllIn(g, idx)
	case ActionTypeNextHand:
		next, err = applyNextHand(g, idx)
	default:
		return g, reject.ErrUnknownAction.Withf("%d", act.Type)
	}
	if err != nil {
		return g, err
	}
	checkConservation(&next)
	return next, nil
}

func applyFold(g Game, idx int) (Game, error) {
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	next := g.clone()
	s := next.Seats[idx]
	s.Status = SeatStatusFolded
	s.Acted = true
	s.LastAction = ActionTypeFold
	afterAction(&next)
	return next, nil
}

func applyCheck(g Game, idx int) (Game, error) {
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	if g.Seats[idx].Bet != g.CurBet {
		return g, reject.ErrBetOutOfRange.Withf("cannot check facing %d", g.CurBet)
	}
	next := g.clone()
	s := next.Seats[idx]
	s.Acted = true
	s.LastAction = ActionTypeCheck
	afterAction(&next)
	return next, nil
}

func applyCall(g Game, idx int) (Game, error) {
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	delta := g.CurBet - g.Seats[idx].Bet
	if delta <= 0 {
		return g, reject.ErrBetOutOfRange.With("nothing to call")
	}
	next := g.clone()
	s := next.Seats[idx]
	placeBet(s, delta) // 不足额自动转全下
	s.Acted = true
	s.LastAction = ActionTypeCall
	afterAction(&next)
	return next, nil
}

func applyRaise(g Game, idx int, amount int64) (Game, error) {
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	s := g.Seats[idx]
	if amount <= g.CurBet {
		return g, reject.ErrBetOutOfRange.Withf("raise to %d must exceed %d", amount, g.CurBet)
	}
	if g.LastRaiser == idx {
		return g, reject.ErrBelowMinRaise.With("betting not reopened")
	}
	delta := amount - s.Bet
	if delta > s.Chips {
		return g, reject.ErrInsufficientChips.Withf("have %d, need %d", s.Chips, delta)
	}
	// 非全下的加注必须达到最小加注增量
	if amount-g.CurBet < g.MinRaise && delta < s.Chips {
		return g, reject.ErrBelowMinRaise.Withf("min raise to %d", g.CurBet+g.MinRaise)
	}

	next := g.clone()
	ns := next.Seats[idx]
	placeBet(ns, delta)
	ns.Acted = true
	ns.LastAction = ActionTypeRaise
	if amount-g.CurBet >= g.MinRaise {
		// 足额加注重开行动权; 短全下不重开, MinRaise 保持原值
		next.MinRaise = amount - g.CurBet
		next.LastRaiser = idx
	}
	next.CurBet = amount
	afterAction(&next)
	return next, nil
}

func applyAllIn(g Game, idx int) (Game, error) {
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	s := g.Seats[idx]
	if s.Chips <= 0 {
		return g, reject.ErrInsufficientChips.With("no chips behind")
	}
	target := s.Bet + s.Chips

	next := g.clone()
	ns := next.Seats[idx]
	placeBet(ns, ns.Chips)
	ns.Acted = true
	ns.LastAction = ActionTypeAllIn
	if target > g.CurBet {
		if target-g.CurBet >= g.MinRaise {
			next.MinRaise = target - g.CurBet
			next.LastRaiser = idx
		}
		next.CurBet = target
	}
	afterAction(&next)
	return next, nil
}

func applyNextHand(g Game, _ int) (Game, error) {
	switch g.Phase {
	case PhaseTypeWaiting, PhaseTypeFinished:
	default:
		return g, reject.ErrWrongPhase.With("hand still running")
	}
	if countStacked(&g) < 2 {
		return g, reject.ErrWrongPhase.With("need at least 2 stacked seats")
	}
	next := g.clone()
	startHand(&next)
	return next, nil
}

// placeBet 把 delta 从筹码移入本街注额, 不足额视为全下.
func placeBet(s *Seat, delta int64) {
	if delta >= s.Chips {
		delta = s.Chips
		s.Status = SeatStatusAllIn
	}
	s.Chips -= delta
	s.Bet += delta
	s.Committed += delta
}

// postAnte 前注直接入池, 不计入本街注额.
func postAnte(s *Seat, ante int64) {
	if ante >= s.Chips {
		ante = s.Chips
		s.Status = SeatStatusAllIn
	}
	s.Chips -= ante
	s.Committed += ante
}

// startHand 清扫桌面, 重洗整副牌, 轮转按钮, 收盲注并发两张底牌.
func startHand(g *Game) {
	g.HandNo++
	rng := rand.New(rand.NewSource(g.Seed + int64(g.HandNo)))

	g.Deck = card.NewDeck().Shuffled(rng)
	g.Community = nil
	g.Discards = nil
	g.Result = nil

	dealt := make([]int, 0, len(g.Seats))
	for i, s := range g.Seats {
		if s == nil {
			continue
		}
		if s.Status == SeatStatusLeft {
			g.Seats[i] = nil
			continue
		}
		s.Hole = nil
		s.Bet, s.Committed = 0, 0
		s.Acted = false
		s.LastAction = ActionTypeNone
		if s.Chips > 0 {
			s.Status = SeatStatusPlaying
			dealt = append(dealt, i)
		} else {
			s.Status = SeatStatusWaiting
		}
	}

	// 按钮首手由种子随机落位, 之后顺时针轮转
	if g.Button == NoTurn {
		g.Button = dealt[rng.Intn(len(dealt))]
	} else {
		g.Button = nextCanAct(g, g.Button)
	}

	// 盲注: 单挑时按钮就是小盲
	sb := nextCanAct(g, g.Button)
	if len(dealt) == 2 {
		sb = g.Button
	}
	bb := nextCanAct(g, sb)

	if g.Cfg.Ante > 0 {
		for _, i := range dealt {
			postAnte(g.Seats[i], g.Cfg.Ante)
		}
	}
	placeBet(g.Seats[sb], g.Cfg.SmallBlind)
	placeBet(g.Seats[bb], g.Cfg.BigBlind)
	g.CurBet = g.Cfg.BigBlind
	g.MinRaise = g.Cfg.BigBlind
	g.LastRaiser = NoTurn

	// 两轮底牌, 从小盲位起牌
	for round := 0; round < 2; round++ {
		for n := 0; n < len(g.Seats); n++ {
			i := (sb + n) % len(g.Seats)
			s := g.Seats[i]
			if s == nil || !inShowdown(s) {
				continue
			}
			s.Hole.Add(mustDeal(g, 1)...)
		}
	}

	g.Phase = PhaseTypePreflop
	g.Turn = nextCanAct(g, bb)
	if bettingComplete(g) {
		// 盲注阶段已全员全下, 直接发完公共牌摊牌
		advanceStreet(g)
	}
}

// turnCheck 依次校验阶段和轮次.
func turnCheck(g Game, idx int) error {
	switch g.Phase {
	case PhaseTypeFinished:
		return reject.ErrHandEnded
	case PhaseTypePreflop, PhaseTypeFlop, PhaseTypeTurn, PhaseTypeRiver:
	default:
		return reject.ErrWrongPhase.Withf("phase %s", PhaseTypeDictionary[g.Phase])
	}
	if g.Turn != idx {
		return reject.ErrOutOfTurn
	}
	return nil
}

// afterAction 行动后的推进: 只剩一人直接拿池, 本街齐注则进下一街,
// 否则轮到下一个可行动座位.
func afterAction(g *Game) {
	if countInHand(g) == 1 {
		settle(g, false)
		return
	}
	if bettingComplete(g) {
		advanceStreet(g)
		return
	}
	g.Turn = nextCanAct(g, g.Turn)
}

// bettingComplete 本街所有可行动座位都已行动且注额对齐.
func bettingComplete(g *Game) bool {
	for _, s := range g.Seats {
		if s == nil || s.Status != SeatStatusPlaying {
			continue
		}
		if !s.Acted || s.Bet != g.CurBet {
			return false
		}
	}
	return true
}

// advanceStreet 收注进入下一街; 可行动人数不足两人时连发到底直接摊牌.
func advanceStreet(g *Game) {
	collectStreet(g)
	switch g.Phase {
	case PhaseTypePreflop:
		g.Phase = PhaseTypeFlop
		g.Community.Add(mustDeal(g, 3)...)
	case PhaseTypeFlop:
		g.Phase = PhaseTypeTurn
		g.Community.Add(mustDeal(g, 1)...)
	case PhaseTypeTurn:
		g.Phase = PhaseTypeRiver
		g.Community.Add(mustDeal(g, 1)...)
	case PhaseTypeRiver:
		settle(g, true)
		return
	}
	if countCanAct(g) < 2 {
		advanceStreet(g)
		return
	}
	g.Turn = nextCanAct(g, g.Button)
}

func collectStreet(g *Game) {
	for _, s := range g.Seats {
		if s == nil {
			continue
		}
		s.Bet = 0
		s.Acted = false
	}
	g.CurBet = 0
	g.MinRaise = g.Cfg.BigBlind
	g.LastRaiser = NoTurn
	g.Turn = NoTurn
}

// nextCanAct 从 from 的下一位起顺时针找可行动座位, 绕一圈含 from 自己.
func nextCanAct(g *Game, from int) int {
	for n := 1; n <= len(g.Seats); n++ {
		i := (from + n) % len(g.Seats)
		if s := g.Seats[i]; s != nil && s.Status == SeatStatusPlaying {
			return i
		}
	}
	return NoTurn
}

func countInHand(g *Game) int {
	n := 0
	for _, s := range g.Seats {
		if s != nil && inShowdown(s) {
			n++
		}
	}
	return n
}

func countCanAct(g *Game) int {
	n := 0
	for _, s := range g.Seats {
		if s != nil && s.Status == SeatStatusPlaying {
			n++
		}
	}
	return n
}

// countStacked 可开下一手的座位数 (有筹码且未离席).
func countStacked(g *Game) int {
	n := 0
	for _, s := range g.Seats {
		if s != nil && s.Status != SeatStatusLeft && s.Chips > 0 {
			n++
		}
	}
	return n
}

// mustDeal 发牌. 牌堆见底属于结构性错误, 直接崩.
func mustDeal(g *Game, n int) card.CardList {
	dealt, rest, ok := g.Deck.Deal(n)
	if !ok {
		panic(fmt.Sprintf("poker: deck underflow dealing %d of %d", n, g.Deck.Count()))
	}
	g.Deck = rest
	return dealt
}

// checkConservation 牌张守恒: 牌堆+公共牌+弃牌+底牌 == 52.
func checkConservation(g *Game) {
	n := g.Deck.Count() + g.Community.Count() + g.Discards.Count()
	for _, s := range g.Seats {
		if s == nil {
			continue
		}
		n += s.Hole.Count()
	}
	if n != 52 {
		panic(fmt.Sprintf("poker: card conservation broken: %d != 52", n))
	}
}
