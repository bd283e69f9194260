package mahjong

import (
	"math/rand"
	"time"

	"parlor-lite/reject"
	"parlor-lite/tile"
)

// Seat 一个玩家的座位. Score 是跨局累计分, 结算划转可以把它打负.
type Seat struct {
	ID       string        `json:"id"`
	Score    int64         `json:"score"`
	Hand     tile.TileList `json:"hand"`
	Melds    []Meld        `json:"melds,omitempty"`
	Discards tile.TileList `json:"discards,omitempty"`
}

// ClaimOffer 声明窗口里一个有权抢牌的座位.
// Answer 为 None 表示还没表态; Using 记录吃牌应答选的搭子.
type ClaimOffer struct {
	Seat    int          `json:"seat"`
	Allowed []ActionType `json:"allowed"`
	Answer  ActionType   `json:"answer,omitempty"`
	Using   []int16      `json:"using,omitempty"`
}

// ClaimWindow 出牌后的抢牌窗口. 窗口开着时 Turn 为 NoTurn;
// 等到不可能再被压过时按 胡 > 杠/碰 > 吃 结算, 同级比离出牌家的行牌距离.
type ClaimWindow struct {
	Discarder int          `json:"discarder"`
	Tile      tile.Tile    `json:"tile"`
	Offers    []ClaimOffer `json:"offers"`
}

// Game 四人麻将的全部状态.
type Game struct {
	Cfg      Config        `json:"cfg"`
	Phase    Phase         `json:"phase"`
	RoundNo  int           `json:"roundNo"`
	Seed     int64         `json:"seed"`
	Wall     tile.TileList `json:"wall"`
	DeadPile tile.TileList `json:"deadPile,omitempty"` // 离席者的牌, 守恒校验要数它
	Seats    []*Seat       `json:"seats"`
	Dealer   int           `json:"dealer"`
	Turn     int           `json:"turn"`
	LastDraw *tile.Tile    `json:"lastDraw,omitempty"` // 刚摸的牌, 打出即清; 非空才能宣自摸
	Claim    *ClaimWindow  `json:"claim,omitempty"`
	Result   *Settlement   `json:"result,omitempty"`
}

// NewGame 建一张空桌. 牌墙即刻建满, 守恒校验从创建起就成立.
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
		Cfg:    cfg,
		Phase:  PhaseTypeWaiting,
		Seed:   seed,
		Wall:   tile.NewWall(),
		Seats:  make([]*Seat, SeatCount),
		Dealer: NoTurn,
		Turn:   NoTurn,
	}
	return g, nil
}

// clone 深拷贝聚合. 转移先拷贝再修改, 输入值保持原样.
func (g Game) clone() Game {
	out := g
	out.Wall = g.Wall.Clone()
	out.DeadPile = g.DeadPile.Clone()
	out.Seats = make([]*Seat, len(g.Seats))
	for i, s := range g.Seats {
		if s == nil {
			continue
		}
		c := *s
		c.Hand = s.Hand.Clone()
		c.Melds = cloneMelds(s.Melds)
		c.Discards = s.Discards.Clone()
		out.Seats[i] = &c
	}
	if g.Claim != nil {
		w := *g.Claim
		w.Offers = make([]ClaimOffer, len(g.Claim.Offers))
		for i, o := range g.Claim.Offers {
			o.Allowed = append([]ActionType(nil), o.Allowed...)
			if o.Using != nil {
				o.Using = append([]int16(nil), o.Using...)
			}
			w.Offers[i] = o
		}
		out.Claim = &w
	}
	if g.LastDraw != nil {
		t := *g.LastDraw
		out.LastDraw = &t
	}
	// Result 一经写入不再修改, 指针共享无碍
	return out
}

func cloneMelds(melds []Meld) []Meld {
	if melds == nil {
		return nil
	}
	out := make([]Meld, len(melds))
	for i, m := range melds {
		m.Tiles = m.Tiles.Clone()
		out[i] = m
	}
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

// restingSize 落张手牌数: 13 减去每副露 3. 摸进一张后比它多一.
func restingSize(s *Seat) int {
	return 13 - 3*len(s.Melds)
}

// seatDistance 按行牌序数 from 到 to 的距离.
func seatDistance(from, to int) int {
	return (to - from + SeatCount) % SeatCount
}

// Join 入座. 凑满四人后由 NEXTROUND 动作开局, 入座本身不发牌.
func Join(g Game, seatID string) (Game, error) {
	if seatID == "" {
		return g, reject.ErrNotSeated.With("empty seat id")
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
	next.Seats[free] = &Seat{ID: seatID}
	checkConservation(&next)
	return next, nil
}

// Leave 离席. 对局进行中四缺一没法打, 整局作废按流局收场:
// 不产生任何划转, 离席者的牌扫进死牌堆, 座位清空等新人补上.
func Leave(g Game, seatID string) (Game, error) {
	idx := seatIndex(g, seatID)
	if idx == NoTurn {
		return g, reject.ErrNotSeated
	}
	next := g.clone()
	if next.Claim != nil {
		next.DeadPile.Add(next.Claim.Tile)
		next.Claim = nil
	}
	sweepSeat(&next, idx)
	if next.Phase == PhaseTypePlaying {
		settleDrawn(&next)
	}
	checkConservation(&next)
	return next, nil
}

// sweepSeat 清空座位, 手牌副露牌河全部进死牌堆保持守恒.
func sweepSeat(g *Game, idx int) {
	s := g.Seats[idx]
	g.DeadPile.Add(s.Hand...)
	for _, m := range s.Melds {
		g.DeadPile.Add(m.Tiles...)
	}
	g.DeadPile.Add(s.Discards...)
	g.Seats[idx] = nil
}

// Apply 校验并执行一次玩家动作, 返回新状态.
// 校验失败返回 reject 错误且不产生任何变更.
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
	case ActionTypeDraw:
		next, err = applyDraw(g, idx)
	case ActionTypeDiscard:
		next, err = applyDiscard(g, idx, act.Tile)
	case ActionTypeChow:
		next, err = applyChow(g, idx, act.Using)
	case ActionTypePong:
		next, err = applyPong(g, idx)
	case ActionTypeKong:
		next, err = applyKong(g, idx, act.Kind)
	case ActionTypeWin:
		next, err = applyWin(g, idx)
	case ActionTypePass:
		next, err = applyPass(g, idx)
	case ActionTypeNextRound:
		next, err = applyNextRound(g)
	default:
		return g, reject.ErrUnknownAction.Withf("%d", act.Type)
	}
	if err != nil {
		return g, err
	}
	checkConservation(&next)
	return next, nil
}

func turnCheck(g Game, idx int) error {
	if g.Phase != PhaseTypePlaying {
		return reject.ErrWrongPhase.Withf("phase is %s", PhaseTypeDictionary[g.Phase])
	}
	if g.Claim != nil {
		return reject.ErrWrongPhase.With("claim window open")
	}
	if g.Turn != idx {
		return reject.ErrOutOfTurn
	}
	return nil
}

func applyDraw(g Game, idx int) (Game, error) {
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	if g.Seats[idx].Hand.Count() != restingSize(g.Seats[idx]) {
		return g, reject.ErrWrongPhase.With("already drawn, discard instead")
	}
	next := g.clone()
	t := mustDraw(&next)
	next.Seats[idx].Hand.Add(t)
	next.LastDraw = &t
	return next, nil
}

func applyDiscard(g Game, idx int, id int16) (Game, error) {
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	s := g.Seats[idx]
	if s.Hand.Count() != restingSize(s)+1 {
		return g, reject.ErrWrongPhase.With("draw first")
	}
	if _, ok := s.Hand.FindID(id); !ok {
		return g, reject.ErrTileNotHeld.Withf("tile %d", id)
	}
	next := g.clone()
	ns := next.Seats[idx]
	t, rest, _ := ns.Hand.RemoveID(id)
	ns.Hand = rest
	next.LastDraw = nil
	openClaims(&next, idx, t)
	return next, nil
}

// openClaims 出牌后给其余三家算抢牌资格. 没人有资格时牌直接落河, 轮转继续.
func openClaims(g *Game, discarder int, t tile.Tile) {
	var offers []ClaimOffer
	for off := 1; off < SeatCount; off++ {
		i := (discarder + off) % SeatCount
		s := g.Seats[i]
		var allowed []ActionType
		if CanWinOn(s.Hand, s.Melds, t.Kind) {
			allowed = append(allowed, ActionTypeWin)
		}
		if CanKongFromDiscard(s.Hand, t.Kind) {
			allowed = append(allowed, ActionTypeKong)
		}
		if CanPong(s.Hand, t.Kind) {
			allowed = append(allowed, ActionTypePong)
		}
		// 吃只许下家
		if off == 1 && len(ChowOptions(s.Hand, t.Kind)) > 0 {
			allowed = append(allowed, ActionTypeChow)
		}
		if len(allowed) > 0 {
			offers = append(offers, ClaimOffer{Seat: i, Allowed: allowed})
		}
	}
	if len(offers) == 0 {
		g.Seats[discarder].Discards.Add(t)
		advanceTurn(g, discarder)
		return
	}
	g.Claim = &ClaimWindow{Discarder: discarder, Tile: t, Offers: offers}
	g.Turn = NoTurn
}

// advanceTurn 把行牌权交给下家; 牌墙已空则荒牌流局.
func advanceTurn(g *Game, from int) {
	if g.Wall.Count() == 0 {
		settleDrawn(g)
		return
	}
	g.Turn = (from + 1) % SeatCount
}

func applyChow(g Game, idx int, using []int16) (Game, error) {
	if err := claimCheck(g, idx, ActionTypeChow); err != nil {
		return g, err
	}
	if len(using) != 2 || using[0] == using[1] {
		return g, reject.ErrInvalidClaim.With("chow needs two distinct hand tiles")
	}
	s := g.Seats[idx]
	a, ok := s.Hand.FindID(using[0])
	if !ok {
		return g, reject.ErrTileNotHeld.Withf("tile %d", using[0])
	}
	b, ok := s.Hand.FindID(using[1])
	if !ok {
		return g, reject.ErrTileNotHeld.Withf("tile %d", using[1])
	}
	if !runWith(g.Claim.Tile.Kind, a.Kind, b.Kind) {
		return g, reject.ErrInvalidClaim.Withf("%s %s do not run with %s", a, b, g.Claim.Tile)
	}
	next := g.clone()
	o := findOffer(&next, idx)
	o.Answer = ActionTypeChow
	o.Using = []int16{using[0], using[1]}
	resolveClaims(&next)
	return next, nil
}

func applyPong(g Game, idx int) (Game, error) {
	if err := claimCheck(g, idx, ActionTypePong); err != nil {
		return g, err
	}
	next := g.clone()
	findOffer(&next, idx).Answer = ActionTypePong
	resolveClaims(&next)
	return next, nil
}

// applyKong 杠有三种: 抢别家打出的明杠走声明窗口,
// 本家回合的暗杠 (手握四张) 和加杠 (碰副露补第四张) 走回合校验.
// 三种都从墙上补一张.
func applyKong(g Game, idx int, kind tile.Kind) (Game, error) {
	if g.Claim != nil {
		if err := claimCheck(g, idx, ActionTypeKong); err != nil {
			return g, err
		}
		next := g.clone()
		findOffer(&next, idx).Answer = ActionTypeKong
		resolveClaims(&next)
		return next, nil
	}
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	s := g.Seats[idx]
	if s.Hand.Count() != restingSize(s)+1 {
		return g, reject.ErrWrongPhase.With("kong only after drawing")
	}
	if s.Hand.CountOf(kind) >= 4 {
		next := g.clone()
		ns := next.Seats[idx]
		removed, rest, ok := ns.Hand.RemoveN(kind, 4)
		if !ok {
			panic("mahjong: concealed kong tiles missing")
		}
		ns.Hand = rest
		ns.Melds = append(ns.Melds, Meld{Type: MeldKong, Tiles: removed, From: NoTurn, Concealed: true})
		bonusDraw(&next, idx)
		return next, nil
	}
	for mi, m := range s.Melds {
		if m.Type != MeldPong || m.Tiles[0].Kind != kind {
			continue
		}
		if s.Hand.CountOf(kind) == 0 {
			return g, reject.ErrTileNotHeld.Withf("no %s in hand to extend pong", kind)
		}
		next := g.clone()
		ns := next.Seats[idx]
		t, rest, _ := ns.Hand.RemoveOne(kind)
		ns.Hand = rest
		ns.Melds[mi].Type = MeldKong
		ns.Melds[mi].Tiles.Add(t)
		bonusDraw(&next, idx)
		return next, nil
	}
	return g, reject.ErrInvalidClaim.Withf("cannot kong %s", kind)
}

func applyWin(g Game, idx int) (Game, error) {
	if g.Claim != nil {
		if err := claimCheck(g, idx, ActionTypeWin); err != nil {
			return g, err
		}
		next := g.clone()
		findOffer(&next, idx).Answer = ActionTypeWin
		resolveClaims(&next)
		return next, nil
	}
	// 自摸: 只有刚摸完牌才能宣
	if err := turnCheck(g, idx); err != nil {
		return g, err
	}
	if g.LastDraw == nil {
		return g, reject.ErrWrongPhase.With("win declared before drawing")
	}
	if !IsWinningHand(g.Seats[idx].Hand, g.Seats[idx].Melds) {
		return g, reject.ErrNotWinning
	}
	next := g.clone()
	settleWin(&next, idx, NoTurn, *next.LastDraw, true)
	return next, nil
}

func applyPass(g Game, idx int) (Game, error) {
	if g.Phase != PhaseTypePlaying || g.Claim == nil {
		return g, reject.ErrWrongPhase.With("nothing to pass on")
	}
	offered := false
	for _, o := range g.Claim.Offers {
		if o.Seat != idx {
			continue
		}
		if o.Answer != ActionTypeNone {
			return g, reject.ErrInvalidClaim.With("already answered")
		}
		offered = true
	}
	if !offered {
		return g, reject.ErrInvalidClaim.With("no claim offered to this seat")
	}
	next := g.clone()
	findOffer(&next, idx).Answer = ActionTypePass
	resolveClaims(&next)
	return next, nil
}

func applyNextRound(g Game) (Game, error) {
	if g.Phase == PhaseTypePlaying {
		return g, reject.ErrWrongPhase.With("round still running")
	}
	for _, s := range g.Seats {
		if s == nil {
			return g, reject.ErrWrongPhase.With("table not full")
		}
	}
	next := g.clone()
	startRound(&next)
	return next, nil
}

// claimCheck 校验 idx 能否以 want 应答当前声明窗口.
func claimCheck(g Game, idx int, want ActionType) error {
	if g.Phase != PhaseTypePlaying {
		return reject.ErrWrongPhase.Withf("phase is %s", PhaseTypeDictionary[g.Phase])
	}
	if g.Claim == nil {
		// 窗口已被别家抢走或根本没开过
		return reject.ErrClaimLost.With("no claim window open")
	}
	for _, o := range g.Claim.Offers {
		if o.Seat != idx {
			continue
		}
		if o.Answer != ActionTypeNone {
			return reject.ErrInvalidClaim.With("already answered")
		}
		for _, a := range o.Allowed {
			if a == want {
				return nil
			}
		}
		return reject.ErrInvalidClaim.Withf("%s not offered", ActionTypeDictionary[want])
	}
	return reject.ErrInvalidClaim.With("no claim offered to this seat")
}

func findOffer(g *Game, idx int) *ClaimOffer {
	for oi := range g.Claim.Offers {
		if g.Claim.Offers[oi].Seat == idx {
			return &g.Claim.Offers[oi]
		}
	}
	panic("mahjong: claim offer missing after check")
}

// claimPriority 胡 > 杠 > 碰 > 吃. 杠和碰不会同时出现在
// 不同座位上 (同种牌只有四张), 排序只在同座多选时起作用.
func claimPriority(t ActionType) int {
	switch t {
	case ActionTypeWin:
		return 4
	case ActionTypeKong:
		return 3
	case ActionTypePong:
		return 2
	case ActionTypeChow:
		return 1
	}
	return 0
}

func maxAllowedPriority(allowed []ActionType) int {
	best := 0
	for _, a := range allowed {
		if p := claimPriority(a); p > best {
			best = p
		}
	}
	return best
}

// resolveClaims 每收到一个应答跑一次. 当前最优声明只要还可能被
// 未表态者压过 (更高优先级, 或同级更近下家) 就继续等, 否则立即执行;
// 全员放过时牌落河, 行牌权交给出牌家的下家.
func resolveClaims(g *Game) {
	w := g.Claim
	best := -1
	bestPri, bestDist := 0, SeatCount
	for oi := range w.Offers {
		o := &w.Offers[oi]
		if o.Answer == ActionTypeNone || o.Answer == ActionTypePass {
			continue
		}
		pri, dist := claimPriority(o.Answer), seatDistance(w.Discarder, o.Seat)
		if pri > bestPri || (pri == bestPri && dist < bestDist) {
			best, bestPri, bestDist = oi, pri, dist
		}
	}
	for oi := range w.Offers {
		o := &w.Offers[oi]
		if o.Answer != ActionTypeNone {
			continue
		}
		pri := maxAllowedPriority(o.Allowed)
		dist := seatDistance(w.Discarder, o.Seat)
		if best == -1 || pri > bestPri || (pri == bestPri && dist < bestDist) {
			return
		}
	}
	if best == -1 {
		g.Seats[w.Discarder].Discards.Add(w.Tile)
		g.Claim = nil
		advanceTurn(g, w.Discarder)
		return
	}
	executeClaim(g, w, &w.Offers[best])
}

func executeClaim(g *Game, w *ClaimWindow, o *ClaimOffer) {
	s := g.Seats[o.Seat]
	t := w.Tile
	g.Claim = nil
	switch o.Answer {
	case ActionTypeWin:
		s.Hand.Add(t)
		settleWin(g, o.Seat, w.Discarder, t, false)
	case ActionTypeKong:
		removed, rest, ok := s.Hand.RemoveN(t.Kind, 3)
		if !ok {
			panic("mahjong: kong claim tiles missing")
		}
		s.Hand = rest
		removed.Add(t)
		s.Melds = append(s.Melds, Meld{Type: MeldKong, Tiles: removed, From: w.Discarder})
		g.Turn = o.Seat
		bonusDraw(g, o.Seat)
	case ActionTypePong:
		removed, rest, ok := s.Hand.RemoveN(t.Kind, 2)
		if !ok {
			panic("mahjong: pong claim tiles missing")
		}
		s.Hand = rest
		removed.Add(t)
		s.Melds = append(s.Melds, Meld{Type: MeldPong, Tiles: removed, From: w.Discarder})
		g.Turn = o.Seat
	case ActionTypeChow:
		meld := make(tile.TileList, 0, 3)
		for _, id := range o.Using {
			picked, rest, ok := s.Hand.RemoveID(id)
			if !ok {
				panic("mahjong: chow claim tiles missing")
			}
			s.Hand = rest
			meld.Add(picked)
		}
		meld.Add(t)
		s.Melds = append(s.Melds, Meld{Type: MeldChow, Tiles: meld.Sorted(), From: w.Discarder})
		g.Turn = o.Seat
	}
}

// bonusDraw 杠后从墙上补一张; 墙已空则荒牌流局.
func bonusDraw(g *Game, idx int) {
	if g.Wall.Count() == 0 {
		settleDrawn(g)
		return
	}
	t := mustDraw(g)
	g.Seats[idx].Hand.Add(t)
	g.LastDraw = &t
}

func startRound(g *Game) {
	g.RoundNo++
	rng := rand.New(rand.NewSource(g.Seed + int64(g.RoundNo)))
	g.Wall = tile.NewWall().Shuffled(rng)
	g.DeadPile = nil
	g.Result = nil
	g.Claim = nil
	g.LastDraw = nil
	for _, s := range g.Seats {
		s.Hand = nil
		s.Melds = nil
		s.Discards = nil
	}
	if g.Dealer == NoTurn {
		g.Dealer = rng.Intn(SeatCount)
	} else {
		g.Dealer = (g.Dealer + 1) % SeatCount
	}
	// 从庄家起每人 13 张, 庄家的第 14 张靠自己摸
	for off := 0; off < SeatCount; off++ {
		i := (g.Dealer + off) % SeatCount
		dealt, rest, ok := g.Wall.Deal(13)
		if !ok {
			panic("mahjong: wall underflow")
		}
		g.Seats[i].Hand = dealt
		g.Wall = rest
	}
	g.Phase = PhaseTypePlaying
	g.Turn = g.Dealer
}

func mustDraw(g *Game) tile.Tile {
	dealt, rest, ok := g.Wall.Deal(1)
	if !ok {
		panic("mahjong: wall underflow")
	}
	g.Wall = rest
	return dealt[0]
}

// checkConservation 麻将 136 张牌在 墙/死牌堆/手牌/副露/牌河/声明窗口
// 之间守恒, 任何转移后破墙即是引擎 bug.
func checkConservation(g *Game) {
	total := g.Wall.Count() + g.DeadPile.Count()
	for _, s := range g.Seats {
		if s == nil {
			continue
		}
		total += s.Hand.Count() + s.Discards.Count()
		for _, m := range s.Melds {
			total += m.Tiles.Count()
		}
	}
	if g.Claim != nil {
		total++
	}
	if total != tile.WallSize {
		panic("mahjong: tile conservation broken")
	}
}
