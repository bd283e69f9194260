package blackjack

import (
	"fmt"
	"math/rand"
	"time"

	"parlor-lite/card"
	"parlor-lite/reject"
)

// Hand 一副手牌. 分牌后一个座位持有两副, 各自独立结算.
type Hand struct {
	Cards     card.CardList `json:"cards"`
	Bet       int64         `json:"bet"`
	Status    HandStatus    `json:"status"`
	FromSplit bool          `json:"fromSplit,omitempty"`
}

// Seat 座位. ID 为空指针表示空位 (Seats 里用 nil).
type Seat struct {
	ID            string     `json:"id"`
	Chips         int64      `json:"chips"`
	Status        SeatStatus `json:"status"`
	Hands         []Hand     `json:"hands,omitempty"`
	Insurance     int64      `json:"insurance,omitempty"`
	InsuranceOpen bool       `json:"insuranceOpen,omitempty"`
}

// Dealer 庄家. Cards[1] 是暗牌, Revealed 前快照里不可见.
type Dealer struct {
	Cards    card.CardList `json:"cards"`
	Revealed bool          `json:"revealed"`
}

// Game 牌局聚合: 可序列化, 转移函数不修改输入值.
type Game struct {
	Cfg      Config        `json:"cfg"`
	Phase    Phase         `json:"phase"`
	HandNo   int           `json:"handNo"`
	Seed     int64         `json:"seed"`
	Shuffles int64         `json:"shuffles"`
	Shoe     card.CardList `json:"shoe"`
	Discards card.CardList `json:"discards,omitempty"`
	Dealer   Dealer        `json:"dealer"`
	Seats    []*Seat       `json:"seats"`
	Turn     int           `json:"turn"`
	TurnHand int           `json:"turnHand"`
	Result   *Settlement   `json:"result,omitempty"`
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
		Cfg:      cfg,
		Phase:    PhaseTypeWaiting,
		Seed:     seed,
		Shuffles: 1,
		Shoe:     card.NewShoe(cfg.Decks).Shuffled(rand.New(rand.NewSource(seed + 1))),
		Seats:    make([]*Seat, cfg.MaxSeats),
		Turn:     NoTurn,
	}
	return g, nil
}

// clone 深拷贝聚合. 转移先拷贝再修改, 输入值保持原样.
func (g Game) clone() Game {
	out := g
	out.Shoe = g.Shoe.Clone()
	out.Discards = g.Discards.Clone()
	out.Dealer.Cards = g.Dealer.Cards.Clone()
	out.Seats = make([]*Seat, len(g.Seats))
	for i, s := range g.Seats {
		if s == nil {
			continue
		}
		c := *s
		c.Hands = make([]Hand, len(s.Hands))
		for j, h := range s.Hands {
			hc := h
			hc.Cards = h.Cards.Clone()
			c.Hands[j] = hc
		}
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

// Join 入座. 发牌前入座可参与本手, 否则等下一手.
func Join(g Game, seatID string, chips int64) (Game, error) {
	if seatID == "" {
		return g, reject.ErrNotSeated.With("empty seat id")
	}
	if chips <= 0 {
		return g, reject.ErrInsufficientChips.With("buy-in must be positive")
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
	status := SeatStatusWaiting
	if next.Phase == PhaseTypeWaiting || next.Phase == PhaseTypeBetting {
		status = SeatStatusBetting
	}
	next.Seats[free] = &Seat{ID: seatID, Chips: chips, Status: status}
	if next.Phase == PhaseTypeWaiting {
		next.Phase = PhaseTypeBetting
		next.HandNo = 1
	}
	checkConservation(&next)
	return next, nil
}

// Leave 离席, 返回应兑付给玩家的筹码.
// 手牌进行中离席视为弃权: 下注留在局里, 座位标记 Left, 下一手清掉.
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
	case PhaseTypePlaying:
		if s.Status == SeatStatusPlaying {
			// 弃权: 牌和注都留在局里等结算
			s.Status = SeatStatusLeft
			s.Chips = 0
			for i := range s.Hands {
				if s.Hands[i].Status == HandStatusPlaying {
					s.Hands[i].Status = HandStatusStanding
				}
			}
			if next.Turn == idx {
				advanceTurn(&next)
			} else if !anyActing(&next) {
				runDealerAndSettle(&next)
			}
			checkConservation(&next)
			return next, cashOut, nil
		}
		removeSeat(&next, idx)
	case PhaseTypeBetting:
		// 已下注但未发牌, 退注
		for _, h := range s.Hands {
			cashOut += h.Bet
		}
		removeSeat(&next, idx)
		// 离席者可能正是最后一个没下注的座位, 注齐照常自动发牌
		if anyBetPlaced(&next) && allBetsPlaced(&next) {
			dealInitial(&next)
		}
	default:
		removeSeat(&next, idx)
	}
	checkConservation(&next)
	return next, cashOut, nil
}

// removeSeat 清空座位, 桌上残牌扫进弃牌堆保持守恒.
func removeSeat(g *Game, idx int) {
	s := g.Seats[idx]
	for _, h := range s.Hands {
		g.Discards.Add(h.Cards...)
	}
	g.Seats[idx] = nil
}

// Apply 校验并执行一次玩家动作, 返回新状态.
// 校验顺序: 阶段 -> 轮次 -> 资源; 任何一步失败都不产生状态变更.
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
	case ActionTypeBet:
		next, err = applyBet(g, idx, act.Amount)
	case ActionTypeHit:
		next, err = applyHit(g, idx)
	case ActionTypeStand:
		next, err = applyStand(g, idx)
	case ActionTypeDouble:
		next, err = applyDouble(g, idx)
	case ActionTypeSplit:
		next, err = applySplit(g, idx)
	case ActionTypeInsurance:
		next, err = applyInsurance(g, idx)
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

func applyBet(g Game, idx int, amount int64) (Game, error) {
	if g.Phase != PhaseTypeBetting {
		return g, reject.ErrWrongPhase.With("betting closed")
	}
	s := g.Seats[idx]
	if s.Status != SeatStatusBetting {
		return g, reject.ErrWrongPhase.With("seat sits out this hand")
	}
	if len(s.Hands) > 0 {
		return g, reject.ErrWrongPhase.With("bet already placed")
	}
	if amount < g.Cfg.MinBet || amount > g.Cfg.MaxBet {
		return g, reject.ErrBetOutOfRange.Withf("got %d, limits %d..%d", amount, g.Cfg.MinBet, g.Cfg.MaxBet)
	}
	if s.Chips < amount {
		return g, reject.ErrInsufficientChips.Withf("have %d, need %d", s.Chips, amount)
	}

	next := g.clone()
	ns := next.Seats[idx]
	ns.Chips -= amount
	ns.Hands = []Hand{{Bet: amount, Status: HandStatusPlaying}}

	if allBetsPlaced(&next) {
		dealInitial(&next)
	}
	return next, nil
}

func allBetsPlaced(g *Game) bool {
	for _, s := range g.Seats {
		if s != nil && s.Status == SeatStatusBetting && len(s.Hands) == 0 {
			return false
		}
	}
	return true
}

func anyBetPlaced(g *Game) bool {
	for _, s := range g.Seats {
		if s != nil && s.Status == SeatStatusBetting && len(s.Hands) > 0 {
			return true
		}
	}
	return false
}

// dealInitial 所有注到位后自动发牌: 两轮底牌加庄家两张, 然后进入 playing.
func dealInitial(g *Game) {
	g.Phase = PhaseTypeDealing

	bettors := 0
	for _, s := range g.Seats {
		if s != nil && s.Status == SeatStatusBetting && len(s.Hands) == 1 {
			bettors++
		}
	}
	maybeReshuffle(g, 2*(bettors+1)+24)

	// 照桌面顺序两轮起牌, 庄家最后
	for round := 0; round < 2; round++ {
		for _, s := range g.Seats {
			if s == nil || s.Status != SeatStatusBetting {
				continue
			}
			s.Hands[0].Cards.Add(mustDeal(g, 1)...)
		}
		g.Dealer.Cards.Add(mustDeal(g, 1)...)
	}
	g.Dealer.Revealed = false

	upcardAce := g.Dealer.Cards[0].IsAce()
	for _, s := range g.Seats {
		if s == nil || s.Status != SeatStatusBetting {
			continue
		}
		s.Status = SeatStatusPlaying
		if IsBlackjack(s.Hands[0].Cards) {
			s.Hands[0].Status = HandStatusBlackjack
		}
		if upcardAce {
			s.InsuranceOpen = true
		}
	}

	g.Phase = PhaseTypePlaying
	if t, h, ok := findActing(g, 0, 0); ok {
		g.Turn, g.TurnHand = t, h
	} else {
		// 全员天牌, 直接走庄家与结算
		runDealerAndSettle(g)
	}
}

func applyHit(g Game, idx int) (Game, error) {
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	next := g.clone()
	s := next.Seats[idx]
	s.InsuranceOpen = false
	h := &s.Hands[next.TurnHand]
	h.Cards.Add(mustDeal(&next, 1)...)
	v, _ := HandValue(h.Cards)
	switch {
	case v > 21:
		h.Status = HandStatusBusted
		advanceTurn(&next)
	case v == 21:
		h.Status = HandStatusStanding
		advanceTurn(&next)
	}
	return next, nil
}

func applyStand(g Game, idx int) (Game, error) {
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	next := g.clone()
	s := next.Seats[idx]
	s.InsuranceOpen = false
	s.Hands[next.TurnHand].Status = HandStatusStanding
	advanceTurn(&next)
	return next, nil
}

func applyDouble(g Game, idx int) (Game, error) {
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	s := g.Seats[idx]
	h := s.Hands[g.TurnHand]
	if h.Cards.Count() != 2 {
		return g, reject.ErrCannotDouble.With("only on the first two cards")
	}
	if s.Chips < h.Bet {
		return g, reject.ErrInsufficientChips.Withf("have %d, need %d", s.Chips, h.Bet)
	}

	next := g.clone()
	ns := next.Seats[idx]
	ns.InsuranceOpen = false
	ns.Chips -= h.Bet
	nh := &ns.Hands[next.TurnHand]
	nh.Bet *= 2
	nh.Cards.Add(mustDeal(&next, 1)...)
	if IsBust(nh.Cards) {
		nh.Status = HandStatusBusted
	} else {
		nh.Status = HandStatusStanding
	}
	advanceTurn(&next)
	return next, nil
}

func applySplit(g Game, idx int) (Game, error) {
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	s := g.Seats[idx]
	if len(s.Hands) != 1 {
		return g, reject.ErrCannotSplit.With("already split")
	}
	h := s.Hands[0]
	if h.Cards.Count() != 2 || h.Cards[0].Rank() != h.Cards[1].Rank() {
		return g, reject.ErrCannotSplit.With("need a pair")
	}
	if s.Chips < h.Bet {
		return g, reject.ErrInsufficientChips.Withf("have %d, need %d", s.Chips, h.Bet)
	}

	next := g.clone()
	ns := next.Seats[idx]
	ns.InsuranceOpen = false
	ns.Chips -= h.Bet

	first := Hand{Cards: card.CardList{h.Cards[0]}, Bet: h.Bet, Status: HandStatusPlaying, FromSplit: true}
	second := Hand{Cards: card.CardList{h.Cards[1]}, Bet: h.Bet, Status: HandStatusPlaying, FromSplit: true}
	first.Cards.Add(mustDeal(&next, 1)...)
	second.Cards.Add(mustDeal(&next, 1)...)
	// 分牌后的 21 不是天牌
	if v, _ := HandValue(first.Cards); v == 21 {
		first.Status = HandStatusStanding
	}
	if v, _ := HandValue(second.Cards); v == 21 {
		second.Status = HandStatusStanding
	}
	ns.Hands = []Hand{first, second}

	next.TurnHand = 0
	if first.Status != HandStatusPlaying {
		advanceTurn(&next)
	}
	return next, nil
}

func applyInsurance(g Game, idx int) (Game, error) {
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	s := g.Seats[idx]
	if !s.InsuranceOpen || s.Insurance > 0 {
		return g, reject.ErrNoInsurance
	}
	cost := s.Hands[0].Bet / 2
	if cost <= 0 {
		return g, reject.ErrBetOutOfRange.With("bet too small to insure")
	}
	if s.Chips < cost {
		return g, reject.ErrInsufficientChips.Withf("have %d, need %d", s.Chips, cost)
	}

	next := g.clone()
	ns := next.Seats[idx]
	ns.Chips -= cost
	ns.Insurance = cost
	ns.InsuranceOpen = false
	// 保险不消耗行动权, 轮次不变
	return next, nil
}

func applyNextHand(g Game, _ int) (Game, error) {
	if g.Phase != PhaseTypeFinished {
		return g, reject.ErrWrongPhase.With("hand still running")
	}
	next := g.clone()

	// 桌面清扫: 所有牌进弃牌堆
	next.Discards.Add(next.Dealer.Cards...)
	next.Dealer = Dealer{}
	for i, s := range next.Seats {
		if s == nil {
			continue
		}
		for _, h := range s.Hands {
			next.Discards.Add(h.Cards...)
		}
		s.Hands = nil
		s.Insurance = 0
		s.InsuranceOpen = false
		if s.Status == SeatStatusLeft {
			next.Seats[i] = nil
			continue
		}
		if s.Chips >= next.Cfg.MinBet {
			s.Status = SeatStatusBetting
		} else {
			s.Status = SeatStatusWaiting
		}
	}

	next.Result = nil
	next.HandNo++
	next.Phase = PhaseTypeBetting
	next.Turn, next.TurnHand = NoTurn, 0
	maybeReshuffle(&next, 0)
	return next, nil
}

// turnCheck 依次校验阶段和轮次.
func turnCheck(g Game, idx int) error {
	switch g.Phase {
	case PhaseTypeFinished:
		return reject.ErrHandEnded
	case PhaseTypePlaying:
	default:
		return reject.ErrWrongPhase.Withf("phase %s", PhaseTypeDictionary[g.Phase])
	}
	if g.Turn != idx {
		return reject.ErrOutOfTurn
	}
	return nil
}

// findActing 从 (fromSeat, fromHand) 起扫描下一个待行动手牌.
func findActing(g *Game, fromSeat, fromHand int) (int, int, bool) {
	for si := fromSeat; si < len(g.Seats); si++ {
		s := g.Seats[si]
		if s == nil || s.Status != SeatStatusPlaying {
			continue
		}
		start := 0
		if si == fromSeat {
			start = fromHand
		}
		for hi := start; hi < len(s.Hands); hi++ {
			if s.Hands[hi].Status == HandStatusPlaying {
				return si, hi, true
			}
		}
	}
	return 0, 0, false
}

func anyActing(g *Game) bool {
	_, _, ok := findActing(g, 0, 0)
	return ok
}

// advanceTurn 当前手牌结束后推进轮次; 无人可动时自动走庄家与结算.
func advanceTurn(g *Game) {
	if g.Turn != NoTurn {
		if s := g.Seats[g.Turn]; s != nil && s.Status == SeatStatusPlaying {
			if g.TurnHand < len(s.Hands) && s.Hands[g.TurnHand].Status == HandStatusPlaying {
				return // 当前手牌还在打
			}
		}
	}
	start, startHand := 0, 0
	if g.Turn != NoTurn {
		start, startHand = g.Turn, g.TurnHand
	}
	if t, h, ok := findActing(g, start, startHand); ok {
		g.Turn, g.TurnHand = t, h
		return
	}
	runDealerAndSettle(g)
}

// runDealerAndSettle 庄家亮牌, 按策略补牌, 结算并收尾.
func runDealerAndSettle(g *Game) {
	g.Phase = PhaseTypeDealerTurn
	g.Turn, g.TurnHand = NoTurn, 0
	g.Dealer.Revealed = true

	// 只有存在未爆的非天牌手牌时庄家才需要补牌
	needDraw := false
	for _, s := range g.Seats {
		if s == nil || s.Status == SeatStatusLeft {
			continue
		}
		for _, h := range s.Hands {
			if h.Status == HandStatusStanding {
				needDraw = true
			}
		}
	}
	if needDraw {
		for DealerShouldHit(g.Dealer.Cards, g.Cfg.HitSoft17) {
			g.Dealer.Cards.Add(mustDeal(g, 1)...)
		}
	}

	g.Phase = PhaseTypePayout
	settle(g)
	g.Phase = PhaseTypeFinished
}

// maybeReshuffle 牌靴低于四分之一或不够本次所需时, 连同弃牌整体重洗.
func maybeReshuffle(g *Game, needed int) {
	threshold := g.Cfg.Decks * 52 / 4
	if g.Shoe.Count() >= threshold && g.Shoe.Count() >= needed {
		return
	}
	combined := g.Shoe.Clone()
	combined.Add(g.Discards...)
	g.Shuffles++
	g.Shoe = combined.Shuffled(rand.New(rand.NewSource(g.Seed + g.Shuffles)))
	g.Discards = nil
}

// mustDeal 发牌. 牌靴见底属于结构性错误, 直接崩.
func mustDeal(g *Game, n int) card.CardList {
	dealt, rest, ok := g.Shoe.Deal(n)
	if !ok {
		panic(fmt.Sprintf("blackjack: shoe underflow dealing %d of %d", n, g.Shoe.Count()))
	}
	g.Shoe = rest
	return dealt
}

// checkConservation 牌张守恒: 牌靴+弃牌+桌面 == 整靴.
func checkConservation(g *Game) {
	total := g.Cfg.Decks * 52
	n := g.Shoe.Count() + g.Discards.Count() + g.Dealer.Cards.Count()
	for _, s := range g.Seats {
		if s == nil {
			continue
		}
		for _, h := range s.Hands {
			n += h.Cards.Count()
		}
	}
	if n != total {
		panic(fmt.Sprintf("blackjack: card conservation broken: %d != %d", n, total))
	}
}
