package mahjong

import (
	"encoding/json"
	"testing"

	"parlor-lite/reject"
	"parlor-lite/tile"
)

var seatNames = [SeatCount]string{"ann", "ben", "cal", "dot"}

func testConfig() Config {
	return Config{Seed: 7}
}

func mustApply(t *testing.T, g Game, act Action) Game {
	t.Helper()
	next, err := Apply(g, act)
	if err != nil {
		t.Fatalf("Apply(%s by %s) failed: %v", ActionTypeDictionary[act.Type], act.Seat, err)
	}
	return next
}

func mustJoin(t *testing.T, g Game, id string) Game {
	t.Helper()
	next, err := Join(g, id)
	if err != nil {
		t.Fatalf("Join(%s) failed: %v", id, err)
	}
	return next
}

func snapshotJSON(t *testing.T, g Game) string {
	t.Helper()
	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal game: %v", err)
	}
	return string(raw)
}

type riggedMeld struct {
	typ       MeldType
	kinds     []tile.Kind
	from      int
	concealed bool
}

type riggedSeat struct {
	hand  []tile.Kind
	melds []riggedMeld
}

// riggedRound 直接搭一个进行中的牌局: 指定各家手牌/副露和牌墙顶部,
// 其余牌留在墙里, 136 张守恒由从整墙里逐张取用保证.
func riggedRound(t *testing.T, seats [SeatCount]riggedSeat, dealer, turn int, wallTop []tile.Kind) Game {
	t.Helper()
	g, err := NewGame(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	pool := tile.NewWall()
	take := func(k tile.Kind) tile.Tile {
		t.Helper()
		picked, rest, ok := pool.RemoveOne(k)
		if !ok {
			t.Fatalf("rig wants a fifth copy of %s", k)
		}
		pool = rest
		return picked
	}
	g.Phase = PhaseTypePlaying
	g.RoundNo = 1
	g.Dealer = dealer
	g.Turn = turn
	for i, rs := range seats {
		s := &Seat{ID: seatNames[i]}
		for _, k := range rs.hand {
			s.Hand.Add(take(k))
		}
		for _, rm := range rs.melds {
			m := Meld{Type: rm.typ, From: rm.from, Concealed: rm.concealed}
			for _, k := range rm.kinds {
				m.Tiles.Add(take(k))
			}
			s.Melds = append(s.Melds, m)
		}
		g.Seats[i] = s
	}
	top := make(tile.TileList, 0, len(wallTop))
	for _, k := range wallTop {
		top = append(top, take(k))
	}
	g.Wall = append(top, pool...)
	checkConservation(&g)
	return g
}

func idOf(t *testing.T, g Game, seat int, k tile.Kind) int16 {
	t.Helper()
	for _, x := range g.Seats[seat].Hand {
		if x.Kind == k {
			return x.ID
		}
	}
	t.Fatalf("seat %d holds no %s", seat, k)
	return 0
}

func TestDealAndFirstTurn(t *testing.T) {
	g, err := NewGame(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range seatNames {
		g = mustJoin(t, g, name)
	}
	if _, err := Join(g, "ann"); !reject.Is(err, reject.ErrAlreadySeated) {
		t.Fatalf("duplicate join: %v", err)
	}
	if _, err := Join(g, "eva"); !reject.Is(err, reject.ErrGameFull) {
		t.Fatalf("fifth join: %v", err)
	}

	before := snapshotJSON(t, g)
	g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeNextRound})
	if snapshotJSON(t, g) != before {
		t.Fatal("NextRound mutated its input")
	}
	if g2.Phase != PhaseTypePlaying || g2.RoundNo != 1 {
		t.Fatalf("phase=%v round=%d after deal", g2.Phase, g2.RoundNo)
	}
	if g2.Dealer < 0 || g2.Dealer >= SeatCount || g2.Turn != g2.Dealer {
		t.Fatalf("dealer=%d turn=%d", g2.Dealer, g2.Turn)
	}
	for i, s := range g2.Seats {
		if got := s.Hand.Count(); got != 13 {
			t.Fatalf("seat %d dealt %d tiles", i, got)
		}
	}
	if got := g2.Wall.Count(); got != tile.WallSize-13*SeatCount {
		t.Fatalf("wall holds %d after deal", got)
	}
	if _, err := Apply(g2, Action{Seat: "ann", Type: ActionTypeNextRound}); !reject.Is(err, reject.ErrWrongPhase) {
		t.Fatalf("NextRound mid-round: %v", err)
	}

	dealer := seatNames[g2.Dealer]
	offTurn := seatNames[(g2.Dealer+1)%SeatCount]
	if _, err := Apply(g2, Action{Seat: offTurn, Type: ActionTypeDraw}); !reject.Is(err, reject.ErrOutOfTurn) {
		t.Fatalf("off-turn draw: %v", err)
	}
	if _, err := Apply(g2, Action{Seat: dealer, Type: ActionTypeDiscard, Tile: g2.Seats[g2.Dealer].Hand[0].ID}); !reject.Is(err, reject.ErrWrongPhase) {
		t.Fatalf("discard before drawing: %v", err)
	}

	g3 := mustApply(t, g2, Action{Seat: dealer, Type: ActionTypeDraw})
	if got := g3.Seats[g3.Dealer].Hand.Count(); got != 14 {
		t.Fatalf("dealer holds %d after draw", got)
	}
	if g3.LastDraw == nil {
		t.Fatal("LastDraw not recorded")
	}
	if _, err := Apply(g3, Action{Seat: dealer, Type: ActionTypeDraw}); !reject.Is(err, reject.ErrWrongPhase) {
		t.Fatalf("second draw in a row: %v", err)
	}
}

func TestNextRoundNeedsFullTable(t *testing.T) {
	g, err := NewGame(testConfig())
	if err != nil {
		t.Fatal(err)
	}
	g = mustJoin(t, g, "ann")
	g = mustJoin(t, g, "ben")
	g = mustJoin(t, g, "cal")
	if _, err := Apply(g, Action{Seat: "ann", Type: ActionTypeNextRound}); !reject.Is(err, reject.ErrWrongPhase) {
		t.Fatalf("three-player deal: %v", err)
	}
}

func TestDiscardOpensClaimWindow(t *testing.T) {
	g := riggedRound(t, [SeatCount]riggedSeat{
		{hand: []tile.Kind{
			tile.KindCircle9, // 要打出去的
			tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo3,
			tile.KindCircle1, tile.KindCircle2, tile.KindCircle3,
			tile.KindCharacter1, tile.KindCharacter2, tile.KindCharacter3,
			tile.KindWindEast, tile.KindWindEast, tile.KindBamboo9, tile.KindCircle5,
		}},
		{hand: []tile.Kind{
			tile.KindBamboo4, tile.KindBamboo5, tile.KindBamboo6,
			tile.KindWindWest, tile.KindWindWest, tile.KindWindWest,
			tile.KindWindNorth, tile.KindWindNorth, tile.KindWindNorth,
			tile.KindDragonRed, tile.KindDragonRed,
			tile.KindDragonGreen, tile.KindDragonGreen,
		}},
		{hand: []tile.Kind{
			tile.KindCircle9, tile.KindCircle9, // 碰材料
			tile.KindCharacter4, tile.KindCharacter5, tile.KindCharacter6,
			tile.KindBamboo7, tile.KindBamboo8,
			tile.KindWindSouth, tile.KindWindSouth,
			tile.KindDragonWhite, tile.KindDragonWhite,
			tile.KindCharacter9, tile.KindCharacter9,
		}},
		{hand: []tile.Kind{
			tile.KindCharacter7, tile.KindCharacter7, tile.KindCharacter8, tile.KindCharacter8,
			tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo3,
			tile.KindCircle4, tile.KindCircle4,
			tile.KindCircle6, tile.KindCircle6,
			tile.KindBamboo5, tile.KindBamboo6,
		}},
	}, 0, 0, nil)

	discard := idOf(t, g, 0, tile.KindCircle9)
	before := snapshotJSON(t, g)
	g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeDiscard, Tile: discard})
	if snapshotJSON(t, g) != before {
		t.Fatal("discard mutated its input")
	}
	if g2.Claim == nil {
		t.Fatal("discarding 9p should open a claim window")
	}
	if g2.Turn != NoTurn {
		t.Fatalf("turn should pause during claims, got %d", g2.Turn)
	}
	if len(g2.Claim.Offers) != 1 || g2.Claim.Offers[0].Seat != 2 {
		t.Fatalf("offers = %+v, want single offer for seat 2", g2.Claim.Offers)
	}
	if got := g2.Claim.Offers[0].Allowed; len(got) != 1 || got[0] != ActionTypePong {
		t.Fatalf("allowed = %v, want [PONG]", got)
	}
	if g2.Seats[0].Discards.Count() != 0 {
		t.Fatal("claimed tile must not hit the discard pile yet")
	}

	// 无资格的人来抢
	if _, err := Apply(g2, Action{Seat: "ben", Type: ActionTypePong}); !reject.Is(err, reject.ErrInvalidClaim) {
		t.Fatalf("pong without offer: %v", err)
	}
	// 窗口开着不许摸牌
	if _, err := Apply(g2, Action{Seat: "cal", Type: ActionTypeDraw}); !reject.Is(err, reject.ErrWrongPhase) {
		t.Fatalf("draw during claim window: %v", err)
	}

	t.Run("pong claims the tile", func(t *testing.T) {
		g3 := mustApply(t, g2, Action{Seat: "cal", Type: ActionTypePong})
		if g3.Claim != nil {
			t.Fatal("window should resolve after the only answer")
		}
		if g3.Turn != 2 {
			t.Fatalf("turn = %d, want claimant 2", g3.Turn)
		}
		s := g3.Seats[2]
		if len(s.Melds) != 1 || s.Melds[0].Type != MeldPong || s.Melds[0].From != 0 {
			t.Fatalf("meld = %+v", s.Melds)
		}
		if s.Melds[0].Tiles.Count() != 3 || s.Hand.Count() != 11 {
			t.Fatalf("meld %d tiles, hand %d", s.Melds[0].Tiles.Count(), s.Hand.Count())
		}
		if g3.Seats[0].Discards.Count() != 0 {
			t.Fatal("ponged tile must not land in the river")
		}
		// 碰完直接出牌, 不摸
		if _, err := Apply(g3, Action{Seat: "cal", Type: ActionTypeDraw}); !reject.Is(err, reject.ErrWrongPhase) {
			t.Fatalf("draw after pong: %v", err)
		}
		g4 := mustApply(t, g3, Action{Seat: "cal", Type: ActionTypeDiscard, Tile: idOf(t, g3, 2, tile.KindBamboo7)})
		if g4.Seats[2].Hand.Count() != 10 {
			t.Fatalf("hand = %d after discard", g4.Seats[2].Hand.Count())
		}
	})

	t.Run("pass drops the tile into the river", func(t *testing.T) {
		g3 := mustApply(t, g2, Action{Seat: "cal", Type: ActionTypePass})
		if g3.Claim != nil {
			t.Fatal("window should close after pass")
		}
		if g3.Seats[0].Discards.Count() != 1 || g3.Seats[0].Discards[0].Kind != tile.KindCircle9 {
			t.Fatalf("river = %v", tile.Strings(g3.Seats[0].Discards))
		}
		if g3.Turn != 1 {
			t.Fatalf("turn = %d, want next seat 1", g3.Turn)
		}
		// 窗口已关, 迟到的碰只能吃 claim_lost
		if _, err := Apply(g3, Action{Seat: "cal", Type: ActionTypePong}); !reject.Is(err, reject.ErrClaimLost) {
			t.Fatalf("late pong: %v", err)
		}
	})
}

func TestClaimPriorityWinBeatsPong(t *testing.T) {
	g := riggedRound(t, [SeatCount]riggedSeat{
		{hand: []tile.Kind{
			tile.KindBamboo5, // 点炮牌
			tile.KindCircle4, tile.KindCircle4, tile.KindCircle6, tile.KindCircle6,
			tile.KindCharacter4, tile.KindCharacter4, tile.KindCharacter6, tile.KindCharacter6,
			tile.KindWindSouth, tile.KindWindSouth,
			tile.KindCharacter9, tile.KindCharacter9, tile.KindBamboo9,
		}},
		{hand: []tile.Kind{
			tile.KindBamboo5, tile.KindBamboo5, // 碰材料, 但凑不成胡
			tile.KindWindWest, tile.KindWindWest, tile.KindWindWest,
			tile.KindDragonRed, tile.KindDragonRed, tile.KindDragonRed,
			tile.KindDragonGreen, tile.KindDragonGreen, tile.KindWindSouth,
			tile.KindCircle9, tile.KindCircle9,
		}},
		{hand: []tile.Kind{ // 听 5s: 4s6s 夹张
			tile.KindBamboo4, tile.KindBamboo6,
			tile.KindCircle1, tile.KindCircle2, tile.KindCircle3,
			tile.KindCharacter1, tile.KindCharacter2, tile.KindCharacter3,
			tile.KindWindEast, tile.KindWindEast, tile.KindWindEast,
			tile.KindWindNorth, tile.KindWindNorth,
		}},
		{hand: []tile.Kind{
			tile.KindCharacter5, tile.KindCharacter5,
			tile.KindCircle7, tile.KindCircle7,
			tile.KindCharacter8, tile.KindCharacter8,
			tile.KindBamboo1, tile.KindBamboo1,
			tile.KindBamboo8, tile.KindBamboo8,
			tile.KindDragonWhite, tile.KindDragonWhite,
			tile.KindWindNorth,
		}},
	}, 0, 0, nil)

	g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeDiscard, Tile: idOf(t, g, 0, tile.KindBamboo5)})
	if g2.Claim == nil || len(g2.Claim.Offers) != 2 {
		t.Fatalf("offers = %+v, want pong for ben and win for cal", g2.Claim)
	}

	t.Run("pong waits for the outstanding win", func(t *testing.T) {
		g3 := mustApply(t, g2, Action{Seat: "ben", Type: ActionTypePong})
		if g3.Claim == nil || g3.Phase != PhaseTypePlaying {
			t.Fatal("window must stay open while a win answer is pending")
		}
		g4 := mustApply(t, g3, Action{Seat: "cal", Type: ActionTypeWin})
		assertCalWon(t, g4)
	})

	t.Run("win resolves without waiting for lower claims", func(t *testing.T) {
		g3 := mustApply(t, g2, Action{Seat: "cal", Type: ActionTypeWin})
		assertCalWon(t, g3)
	})
}

func assertCalWon(t *testing.T, g Game) {
	t.Helper()
	if g.Phase != PhaseTypeFinished || g.Result == nil {
		t.Fatal("win claim should finish the round")
	}
	r := g.Result
	if r.Winner != 2 || r.From != 0 || r.SelfDrawn || r.Drawn {
		t.Fatalf("result = %+v", r)
	}
	if r.WinTile == nil || r.WinTile.Kind != tile.KindBamboo5 {
		t.Fatalf("win tile = %v", r.WinTile)
	}
	// 底分 + 门清
	table := DefaultScoreTable()
	want := table.Base + table.Concealed
	if r.Points != want {
		t.Fatalf("points = %d, want %d (patterns %v)", r.Points, want, r.Patterns)
	}
	if len(r.Transfers) != 1 || r.Transfers[0] != (Transfer{From: 0, To: 2, Points: want}) {
		t.Fatalf("transfers = %+v", r.Transfers)
	}
	if g.Seats[0].Score != -want || g.Seats[2].Score != want {
		t.Fatalf("scores: ann %d cal %d", g.Seats[0].Score, g.Seats[2].Score)
	}
	if g.Seats[2].Hand.Count() != 14 {
		t.Fatalf("winning hand holds %d tiles", g.Seats[2].Hand.Count())
	}
}

func TestClaimPriorityPongBeatsChow(t *testing.T) {
	g := riggedRound(t, [SeatCount]riggedSeat{
		{hand: []tile.Kind{
			tile.KindCircle5, // 要打出去的
			tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo3,
			tile.KindCharacter1, tile.KindCharacter1, tile.KindCharacter1,
			tile.KindWindEast, tile.KindWindEast,
			tile.KindBamboo9, tile.KindBamboo9,
			tile.KindCharacter9, tile.KindCharacter9, tile.KindDragonRed,
		}},
		{hand: []tile.Kind{ // 下家: 4p6p 吃材料, 凑不成胡
			tile.KindCircle4, tile.KindCircle6,
			tile.KindWindWest, tile.KindWindWest, tile.KindWindWest,
			tile.KindDragonGreen, tile.KindDragonGreen, tile.KindDragonGreen,
			tile.KindWindNorth, tile.KindWindNorth,
			tile.KindWindSouth, tile.KindCharacter2, tile.KindCharacter4,
		}},
		{hand: []tile.Kind{ // 碰材料
			tile.KindCircle5, tile.KindCircle5,
			tile.KindCharacter5, tile.KindCharacter6, tile.KindCharacter7,
			tile.KindBamboo7, tile.KindBamboo8,
			tile.KindWindSouth, tile.KindWindSouth,
			tile.KindDragonWhite, tile.KindDragonWhite,
			tile.KindCharacter8, tile.KindCharacter8,
		}},
		{hand: []tile.Kind{
			tile.KindCharacter7, tile.KindCharacter7,
			tile.KindCircle8, tile.KindCircle8,
			tile.KindBamboo5, tile.KindBamboo6,
			tile.KindCircle1, tile.KindCircle2,
			tile.KindDragonRed, tile.KindDragonRed,
			tile.KindWindEast, tile.KindBamboo8, tile.KindBamboo8,
		}},
	}, 0, 0, nil)

	g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeDiscard, Tile: idOf(t, g, 0, tile.KindCircle5)})
	if g2.Claim == nil || len(g2.Claim.Offers) != 2 {
		t.Fatalf("offers = %+v, want chow for ben and pong for cal", g2.Claim)
	}

	t.Run("chow answer waits for the outstanding pong", func(t *testing.T) {
		using := []int16{idOf(t, g2, 1, tile.KindCircle4), idOf(t, g2, 1, tile.KindCircle6)}
		g3 := mustApply(t, g2, Action{Seat: "ben", Type: ActionTypeChow, Using: using})
		if g3.Claim == nil || g3.Phase != PhaseTypePlaying {
			t.Fatal("window must stay open while a pong answer is pending")
		}
		g4 := mustApply(t, g3, Action{Seat: "cal", Type: ActionTypePong})
		assertCalPonged(t, g4)
		// 输掉的吃家手牌原样不动
		if len(g4.Seats[1].Melds) != 0 || g4.Seats[1].Hand.Count() != 13 {
			t.Fatalf("losing chow seat changed: melds=%d hand=%d", len(g4.Seats[1].Melds), g4.Seats[1].Hand.Count())
		}
	})

	t.Run("pong resolves without waiting for the chow", func(t *testing.T) {
		g3 := mustApply(t, g2, Action{Seat: "cal", Type: ActionTypePong})
		assertCalPonged(t, g3)
		// 窗口已关, 迟到的吃只能吃 claim_lost
		using := []int16{idOf(t, g3, 1, tile.KindCircle4), idOf(t, g3, 1, tile.KindCircle6)}
		if _, err := Apply(g3, Action{Seat: "ben", Type: ActionTypeChow, Using: using}); !reject.Is(err, reject.ErrClaimLost) {
			t.Fatalf("late chow: %v", err)
		}
	})
}

func assertCalPonged(t *testing.T, g Game) {
	t.Helper()
	if g.Claim != nil {
		t.Fatal("window should close once the pong wins")
	}
	if g.Turn != 2 {
		t.Fatalf("turn = %d, want claimant 2", g.Turn)
	}
	s := g.Seats[2]
	if len(s.Melds) != 1 || s.Melds[0].Type != MeldPong || s.Melds[0].From != 0 {
		t.Fatalf("meld = %+v", s.Melds)
	}
	if s.Hand.Count() != 11 {
		t.Fatalf("hand = %d after pong", s.Hand.Count())
	}
	if g.Seats[0].Discards.Count() != 0 {
		t.Fatal("ponged tile must not land in the river")
	}
}

func TestChowClaim(t *testing.T) {
	g := riggedRound(t, [SeatCount]riggedSeat{
		{hand: []tile.Kind{
			tile.KindCircle5,
			tile.KindBamboo4, tile.KindBamboo4, tile.KindBamboo4,
			tile.KindCharacter1, tile.KindCharacter1, tile.KindCharacter1,
			tile.KindWindEast, tile.KindWindEast,
			tile.KindCharacter9, tile.KindCharacter9,
			tile.KindBamboo9, tile.KindBamboo9, tile.KindDragonRed,
		}},
		{hand: []tile.Kind{ // 下家: 3p4p/4p6p/6p7p 三种吃法的材料
			tile.KindCircle3, tile.KindCircle4, tile.KindCircle6, tile.KindCircle7,
			tile.KindWindWest, tile.KindWindWest, tile.KindWindWest,
			tile.KindDragonGreen, tile.KindDragonGreen, tile.KindDragonGreen,
			tile.KindWindNorth, tile.KindWindNorth, tile.KindWindNorth,
		}},
		{hand: []tile.Kind{
			tile.KindBamboo1, tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo2,
			tile.KindBamboo3, tile.KindBamboo3,
			tile.KindCharacter2, tile.KindCharacter2,
			tile.KindWindSouth, tile.KindWindSouth, tile.KindWindSouth,
			tile.KindDragonWhite, tile.KindDragonWhite,
		}},
		{hand: []tile.Kind{
			tile.KindCharacter3, tile.KindCharacter3, tile.KindCharacter4, tile.KindCharacter4,
			tile.KindCharacter5, tile.KindCharacter5,
			tile.KindBamboo7, tile.KindBamboo7, tile.KindBamboo8, tile.KindBamboo8,
			tile.KindCircle9, tile.KindCircle9, tile.KindDragonRed,
		}},
	}, 0, 0, nil)

	g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeDiscard, Tile: idOf(t, g, 0, tile.KindCircle5)})
	if g2.Claim == nil || len(g2.Claim.Offers) != 1 || g2.Claim.Offers[0].Seat != 1 {
		t.Fatalf("claim = %+v, want chow offer for seat 1", g2.Claim)
	}

	// 吃牌必须指明搭子, 且要真的连得上
	wallTile := g2.Wall[0].ID
	if _, err := Apply(g2, Action{Seat: "ben", Type: ActionTypeChow, Using: []int16{wallTile, idOf(t, g2, 1, tile.KindCircle4)}}); !reject.Is(err, reject.ErrTileNotHeld) {
		t.Fatalf("chow with a wall tile: %v", err)
	}
	badRun := []int16{idOf(t, g2, 1, tile.KindCircle3), idOf(t, g2, 1, tile.KindCircle7)}
	if _, err := Apply(g2, Action{Seat: "ben", Type: ActionTypeChow, Using: badRun}); !reject.Is(err, reject.ErrInvalidClaim) {
		t.Fatalf("3p7p around 5p: %v", err)
	}
	if _, err := Apply(g2, Action{Seat: "cal", Type: ActionTypeChow, Using: badRun}); !reject.Is(err, reject.ErrInvalidClaim) {
		t.Fatalf("chow from across the table: %v", err)
	}

	using := []int16{idOf(t, g2, 1, tile.KindCircle4), idOf(t, g2, 1, tile.KindCircle6)}
	g3 := mustApply(t, g2, Action{Seat: "ben", Type: ActionTypeChow, Using: using})
	if g3.Claim != nil || g3.Turn != 1 {
		t.Fatalf("claim=%v turn=%d after chow", g3.Claim, g3.Turn)
	}
	s := g3.Seats[1]
	if len(s.Melds) != 1 || s.Melds[0].Type != MeldChow || s.Melds[0].From != 0 {
		t.Fatalf("meld = %+v", s.Melds)
	}
	got := s.Melds[0].Tiles
	if got.Count() != 3 || got[0].Kind != tile.KindCircle4 || got[1].Kind != tile.KindCircle5 || got[2].Kind != tile.KindCircle6 {
		t.Fatalf("meld tiles = %v, want sorted 4p5p6p", tile.Strings(got))
	}
	if s.Hand.Count() != 11 {
		t.Fatalf("hand = %d after chow", s.Hand.Count())
	}
}

func TestKongVariants(t *testing.T) {
	t.Run("claimed kong draws a bonus tile", func(t *testing.T) {
		g := riggedRound(t, [SeatCount]riggedSeat{
			{hand: []tile.Kind{
				tile.KindWindWest,
				tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo3,
				tile.KindCircle1, tile.KindCircle2, tile.KindCircle3,
				tile.KindCharacter1, tile.KindCharacter2, tile.KindCharacter3,
				tile.KindWindEast, tile.KindWindEast, tile.KindBamboo9, tile.KindCircle9,
			}},
			{hand: []tile.Kind{
				tile.KindWindWest, tile.KindWindWest, tile.KindWindWest,
				tile.KindCircle4, tile.KindCircle4,
				tile.KindCharacter4, tile.KindCharacter6, tile.KindCharacter8,
				tile.KindBamboo2, tile.KindBamboo4, tile.KindBamboo6,
				tile.KindWindSouth, tile.KindDragonRed,
			}},
			{hand: []tile.Kind{
				tile.KindCircle6, tile.KindCircle6, tile.KindCircle7, tile.KindCircle7,
				tile.KindCharacter5, tile.KindCharacter5, tile.KindCharacter7, tile.KindCharacter7,
				tile.KindBamboo5, tile.KindBamboo5,
				tile.KindDragonGreen, tile.KindDragonGreen, tile.KindDragonGreen,
			}},
			{hand: []tile.Kind{
				tile.KindBamboo7, tile.KindBamboo7, tile.KindBamboo8, tile.KindBamboo8,
				tile.KindCircle8, tile.KindCircle8,
				tile.KindCharacter9, tile.KindCharacter9,
				tile.KindWindNorth, tile.KindWindNorth,
				tile.KindDragonWhite, tile.KindDragonWhite, tile.KindWindSouth,
			}},
		}, 0, 0, []tile.Kind{tile.KindCircle1})

		g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeDiscard, Tile: idOf(t, g, 0, tile.KindWindWest)})
		if g2.Claim == nil || len(g2.Claim.Offers) != 1 {
			t.Fatalf("claim = %+v", g2.Claim)
		}
		allowed := g2.Claim.Offers[0].Allowed
		if len(allowed) != 2 || allowed[0] != ActionTypeKong || allowed[1] != ActionTypePong {
			t.Fatalf("allowed = %v, want [KONG PONG]", allowed)
		}

		wallBefore := g2.Wall.Count()
		g3 := mustApply(t, g2, Action{Seat: "ben", Type: ActionTypeKong})
		s := g3.Seats[1]
		if len(s.Melds) != 1 || s.Melds[0].Type != MeldKong || s.Melds[0].Tiles.Count() != 4 || s.Melds[0].From != 0 {
			t.Fatalf("meld = %+v", s.Melds)
		}
		if s.Hand.Count() != 11 {
			t.Fatalf("hand = %d after kong and bonus draw", s.Hand.Count())
		}
		if g3.Wall.Count() != wallBefore-1 {
			t.Fatalf("wall %d -> %d, want one bonus draw", wallBefore, g3.Wall.Count())
		}
		if g3.Turn != 1 || g3.LastDraw == nil || g3.LastDraw.Kind != tile.KindCircle1 {
			t.Fatalf("turn=%d lastDraw=%v", g3.Turn, g3.LastDraw)
		}
	})

	t.Run("concealed kong stays hidden from others", func(t *testing.T) {
		g := riggedRound(t, [SeatCount]riggedSeat{
			{hand: []tile.Kind{
				tile.KindBamboo2, tile.KindBamboo2, tile.KindBamboo2, tile.KindBamboo2,
				tile.KindCircle1, tile.KindCircle2, tile.KindCircle3,
				tile.KindCharacter1, tile.KindCharacter2, tile.KindCharacter3,
				tile.KindWindEast, tile.KindWindEast,
				tile.KindBamboo9, tile.KindCircle9,
			}},
			{hand: []tile.Kind{
				tile.KindCircle4, tile.KindCircle4, tile.KindCircle5, tile.KindCircle5,
				tile.KindCharacter4, tile.KindCharacter4, tile.KindCharacter5, tile.KindCharacter5,
				tile.KindBamboo5, tile.KindBamboo5,
				tile.KindWindSouth, tile.KindWindSouth, tile.KindWindSouth,
			}},
			{hand: []tile.Kind{
				tile.KindCircle6, tile.KindCircle6, tile.KindCircle7, tile.KindCircle7,
				tile.KindCharacter6, tile.KindCharacter6, tile.KindCharacter7, tile.KindCharacter7,
				tile.KindBamboo6, tile.KindBamboo6,
				tile.KindWindWest, tile.KindWindWest, tile.KindWindWest,
			}},
			{hand: []tile.Kind{
				tile.KindCircle8, tile.KindCircle8, tile.KindCharacter8, tile.KindCharacter8,
				tile.KindBamboo7, tile.KindBamboo7, tile.KindBamboo8, tile.KindBamboo8,
				tile.KindWindNorth, tile.KindWindNorth, tile.KindWindNorth,
				tile.KindDragonRed, tile.KindDragonRed,
			}},
		}, 0, 0, []tile.Kind{tile.KindDragonWhite})

		g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeKong, Kind: tile.KindBamboo2})
		s := g2.Seats[0]
		if len(s.Melds) != 1 || s.Melds[0].Type != MeldKong || !s.Melds[0].Concealed || s.Melds[0].From != NoTurn {
			t.Fatalf("meld = %+v", s.Melds)
		}
		if s.Hand.Count() != 11 || g2.LastDraw == nil || g2.LastDraw.Kind != tile.KindDragonWhite {
			t.Fatalf("hand=%d lastDraw=%v", s.Hand.Count(), g2.LastDraw)
		}

		mine := SnapshotFor(g2, "ann")
		if mine.Seats[0].Melds[0].Tiles[0].Kind != tile.KindBamboo2 {
			t.Fatal("owner should see the concealed kong faces")
		}
		theirs := SnapshotFor(g2, "ben")
		for _, x := range theirs.Seats[0].Melds[0].Tiles {
			if x != tile.TileHidden {
				t.Fatalf("concealed kong leaked to another seat: %v", x)
			}
		}
	})

	t.Run("added kong extends an exposed pong", func(t *testing.T) {
		g := riggedRound(t, [SeatCount]riggedSeat{
			{
				hand: []tile.Kind{
					tile.KindCircle9,
					tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo3,
					tile.KindCircle1, tile.KindCircle2, tile.KindCircle3,
					tile.KindWindEast, tile.KindWindEast,
					tile.KindBamboo8, tile.KindCharacter9,
				},
				melds: []riggedMeld{{typ: MeldPong, kinds: []tile.Kind{tile.KindCircle9, tile.KindCircle9, tile.KindCircle9}, from: 2}},
			},
			{hand: []tile.Kind{
				tile.KindCircle4, tile.KindCircle5, tile.KindCircle6,
				tile.KindCharacter4, tile.KindCharacter5, tile.KindCharacter6,
				tile.KindBamboo4, tile.KindBamboo5, tile.KindBamboo6,
				tile.KindWindSouth, tile.KindWindSouth,
				tile.KindDragonRed, tile.KindDragonRed,
			}},
			{hand: []tile.Kind{
				tile.KindCharacter1, tile.KindCharacter1, tile.KindCharacter2, tile.KindCharacter2,
				tile.KindCharacter3, tile.KindCharacter3,
				tile.KindBamboo7, tile.KindBamboo7,
				tile.KindWindWest, tile.KindWindWest,
				tile.KindDragonGreen, tile.KindDragonGreen, tile.KindWindNorth,
			}},
			{hand: []tile.Kind{
				tile.KindCircle7, tile.KindCircle7, tile.KindCircle8, tile.KindCircle8,
				tile.KindBamboo9, tile.KindBamboo9,
				tile.KindCharacter7, tile.KindCharacter7, tile.KindCharacter8, tile.KindCharacter8,
				tile.KindWindNorth, tile.KindWindNorth, tile.KindDragonWhite,
			}},
		}, 0, 0, []tile.Kind{tile.KindBamboo5})

		if _, err := Apply(g, Action{Seat: "ann", Type: ActionTypeKong, Kind: tile.KindBamboo8}); !reject.Is(err, reject.ErrInvalidClaim) {
			t.Fatalf("kong without material: %v", err)
		}

		g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeKong, Kind: tile.KindCircle9})
		s := g2.Seats[0]
		if len(s.Melds) != 1 || s.Melds[0].Type != MeldKong || s.Melds[0].Tiles.Count() != 4 {
			t.Fatalf("meld = %+v", s.Melds)
		}
		if s.Hand.Count() != 11 {
			t.Fatalf("hand = %d after added kong", s.Hand.Count())
		}
	})
}

func TestSelfDrawWin(t *testing.T) {
	waiting := []tile.Kind{
		tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo3,
		tile.KindCircle1, tile.KindCircle2, tile.KindCircle3,
		tile.KindCharacter1, tile.KindCharacter2, tile.KindCharacter3,
		tile.KindWindEast, tile.KindWindEast, tile.KindWindEast,
		tile.KindWindNorth,
	}
	fillers := [3][]tile.Kind{
		{
			tile.KindCircle4, tile.KindCircle4, tile.KindCircle5, tile.KindCircle5,
			tile.KindCharacter4, tile.KindCharacter4, tile.KindCharacter5, tile.KindCharacter5,
			tile.KindBamboo4, tile.KindBamboo4,
			tile.KindWindSouth, tile.KindWindSouth, tile.KindWindSouth,
		},
		{
			tile.KindCircle6, tile.KindCircle6, tile.KindCircle7, tile.KindCircle7,
			tile.KindCharacter6, tile.KindCharacter6, tile.KindCharacter7, tile.KindCharacter7,
			tile.KindBamboo5, tile.KindBamboo5,
			tile.KindWindWest, tile.KindWindWest, tile.KindWindWest,
		},
		{
			tile.KindCircle8, tile.KindCircle8, tile.KindCharacter8, tile.KindCharacter8,
			tile.KindBamboo6, tile.KindBamboo6, tile.KindBamboo7, tile.KindBamboo7,
			tile.KindDragonRed, tile.KindDragonRed,
			tile.KindDragonGreen, tile.KindDragonGreen, tile.KindDragonWhite,
		},
	}

	t.Run("tsumo pays from all three", func(t *testing.T) {
		g := riggedRound(t, [SeatCount]riggedSeat{
			{hand: waiting}, {hand: fillers[0]}, {hand: fillers[1]}, {hand: fillers[2]},
		}, 0, 0, []tile.Kind{tile.KindWindNorth})

		if _, err := Apply(g, Action{Seat: "ann", Type: ActionTypeWin}); !reject.Is(err, reject.ErrWrongPhase) {
			t.Fatalf("win before drawing: %v", err)
		}
		g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeDraw})
		g3 := mustApply(t, g2, Action{Seat: "ann", Type: ActionTypeWin})

		r := g3.Result
		if r == nil || g3.Phase != PhaseTypeFinished {
			t.Fatal("tsumo should finish the round")
		}
		if r.Winner != 0 || r.From != NoTurn || !r.SelfDrawn || r.Drawn {
			t.Fatalf("result = %+v", r)
		}
		table := DefaultScoreTable()
		want := table.Base + table.SelfDrawn + table.Concealed
		if r.Points != want {
			t.Fatalf("points = %d, want %d (patterns %v)", r.Points, want, r.Patterns)
		}
		if len(r.Transfers) != 3 {
			t.Fatalf("transfers = %+v", r.Transfers)
		}
		if g3.Seats[0].Score != 3*want {
			t.Fatalf("winner score = %d, want %d", g3.Seats[0].Score, 3*want)
		}
		for i := 1; i < SeatCount; i++ {
			if g3.Seats[i].Score != -want {
				t.Fatalf("seat %d score = %d, want %d", i, g3.Seats[i].Score, -want)
			}
		}
		if len(r.Results) != SeatCount || r.Results[0].Delta != 3*want {
			t.Fatalf("results = %+v", r.Results)
		}
	})

	t.Run("declaring without a winning hand", func(t *testing.T) {
		g := riggedRound(t, [SeatCount]riggedSeat{
			{hand: waiting}, {hand: fillers[0]}, {hand: fillers[1]}, {hand: fillers[2]},
		}, 0, 0, []tile.Kind{tile.KindBamboo9})

		g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeDraw})
		if _, err := Apply(g2, Action{Seat: "ann", Type: ActionTypeWin}); !reject.Is(err, reject.ErrNotWinning) {
			t.Fatalf("win on 9s draw: %v", err)
		}
	})
}

func TestWallExhaustionEndsInDraw(t *testing.T) {
	g := riggedRound(t, [SeatCount]riggedSeat{
		{hand: []tile.Kind{
			tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo3,
			tile.KindCircle1, tile.KindCircle2, tile.KindCircle3,
			tile.KindCharacter1, tile.KindCharacter2, tile.KindCharacter3,
			tile.KindWindEast, tile.KindWindEast,
			tile.KindBamboo9, tile.KindCharacter9,
		}},
		{hand: []tile.Kind{
			tile.KindCircle4, tile.KindCircle4, tile.KindCircle5, tile.KindCircle5,
			tile.KindCharacter4, tile.KindCharacter4, tile.KindCharacter5, tile.KindCharacter5,
			tile.KindBamboo4, tile.KindBamboo4,
			tile.KindWindSouth, tile.KindWindSouth, tile.KindWindSouth,
		}},
		{hand: []tile.Kind{
			tile.KindCircle6, tile.KindCircle6, tile.KindCircle7, tile.KindCircle7,
			tile.KindCharacter6, tile.KindCharacter6, tile.KindCharacter7, tile.KindCharacter7,
			tile.KindBamboo5, tile.KindBamboo5,
			tile.KindWindWest, tile.KindWindWest, tile.KindWindWest,
		}},
		{hand: []tile.Kind{
			tile.KindCircle8, tile.KindCircle8, tile.KindCharacter8, tile.KindCharacter8,
			tile.KindBamboo6, tile.KindBamboo6, tile.KindBamboo7, tile.KindBamboo7,
			tile.KindDragonRed, tile.KindDragonRed,
			tile.KindDragonGreen, tile.KindDragonGreen, tile.KindDragonWhite,
		}},
	}, 0, 0, []tile.Kind{tile.KindDragonWhite})

	// 墙只留顶上一张, 其余封进死牌堆模拟摸到墙底
	rest := g.Wall[1:].Clone()
	g.Wall = g.Wall[:1].Clone()
	g.DeadPile.Add(rest...)
	checkConservation(&g)

	g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeDraw})
	if g2.Wall.Count() != 0 {
		t.Fatalf("wall = %d after final draw", g2.Wall.Count())
	}
	g3 := mustApply(t, g2, Action{Seat: "ann", Type: ActionTypeDiscard, Tile: idOf(t, g2, 0, tile.KindBamboo9)})
	if g3.Phase != PhaseTypeFinished || g3.Result == nil || !g3.Result.Drawn {
		t.Fatalf("exhausted wall should end the round in a draw: %+v", g3.Result)
	}
	if len(g3.Result.Transfers) != 0 {
		t.Fatalf("a drawn round moves no points: %+v", g3.Result.Transfers)
	}
	for i, s := range g3.Seats {
		if s.Score != 0 {
			t.Fatalf("seat %d score = %d in a drawn round", i, s.Score)
		}
	}
}

func TestLeaveVoidsRunningRound(t *testing.T) {
	g := riggedRound(t, [SeatCount]riggedSeat{
		{hand: []tile.Kind{
			tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo3,
			tile.KindCircle1, tile.KindCircle2, tile.KindCircle3,
			tile.KindCharacter1, tile.KindCharacter2, tile.KindCharacter3,
			tile.KindWindEast, tile.KindWindEast,
			tile.KindBamboo9, tile.KindCharacter9,
		}},
		{hand: []tile.Kind{
			tile.KindCircle4, tile.KindCircle4, tile.KindCircle5, tile.KindCircle5,
			tile.KindCharacter4, tile.KindCharacter4, tile.KindCharacter5, tile.KindCharacter5,
			tile.KindBamboo4, tile.KindBamboo4,
			tile.KindWindSouth, tile.KindWindSouth, tile.KindWindSouth,
		}},
		{hand: []tile.Kind{
			tile.KindCircle6, tile.KindCircle6, tile.KindCircle7, tile.KindCircle7,
			tile.KindCharacter6, tile.KindCharacter6, tile.KindCharacter7, tile.KindCharacter7,
			tile.KindBamboo5, tile.KindBamboo5,
			tile.KindWindWest, tile.KindWindWest, tile.KindWindWest,
		}},
		{hand: []tile.Kind{
			tile.KindCircle8, tile.KindCircle8, tile.KindCharacter8, tile.KindCharacter8,
			tile.KindBamboo6, tile.KindBamboo6, tile.KindBamboo7, tile.KindBamboo7,
			tile.KindDragonRed, tile.KindDragonRed,
			tile.KindDragonGreen, tile.KindDragonGreen, tile.KindDragonWhite,
		}},
	}, 0, 0, nil)

	dealerBefore := g.Dealer
	before := snapshotJSON(t, g)
	g2, err := Leave(g, "ben")
	if err != nil {
		t.Fatal(err)
	}
	if snapshotJSON(t, g) != before {
		t.Fatal("Leave mutated its input")
	}
	if g2.Phase != PhaseTypeFinished || g2.Result == nil || !g2.Result.Drawn {
		t.Fatal("a mid-round leave voids the round as a draw")
	}
	if g2.Seats[1] != nil {
		t.Fatal("leaver should give up the seat")
	}
	if g2.DeadPile.Count() != 13 {
		t.Fatalf("dead pile = %d, want the leaver's 13 tiles", g2.DeadPile.Count())
	}
	if len(g2.Result.Results) != 3 {
		t.Fatalf("results should cover the three remaining seats, got %d", len(g2.Result.Results))
	}
	for _, r := range g2.Result.Results {
		if r.Delta != 0 || r.Score != 0 {
			t.Fatalf("voided round transferred points: %+v", r)
		}
	}
	if _, err := Leave(g2, "ben"); !reject.Is(err, reject.ErrNotSeated) {
		t.Fatalf("double leave: %v", err)
	}

	// 新人补位后可以开下一局
	g3 := mustJoin(t, g2, "eva")
	g4 := mustApply(t, g3, Action{Seat: "eva", Type: ActionTypeNextRound})
	if g4.Phase != PhaseTypePlaying || g4.RoundNo != 2 {
		t.Fatalf("phase=%v round=%d after refill", g4.Phase, g4.RoundNo)
	}
	if g4.Dealer != (dealerBefore+1)%SeatCount {
		t.Fatalf("dealer = %d, want rotation from %d", g4.Dealer, dealerBefore)
	}
	if g4.DeadPile.Count() != 0 {
		t.Fatal("dead pile should reset with the new wall")
	}
	for i, s := range g4.Seats {
		if s == nil || s.Hand.Count() != 13 {
			t.Fatalf("seat %d not redealt", i)
		}
	}
}

func TestLeaveDuringClaimWindow(t *testing.T) {
	g := riggedRound(t, [SeatCount]riggedSeat{
		{hand: []tile.Kind{
			tile.KindCircle9,
			tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo3,
			tile.KindCircle1, tile.KindCircle2, tile.KindCircle3,
			tile.KindCharacter1, tile.KindCharacter2, tile.KindCharacter3,
			tile.KindWindEast, tile.KindWindEast, tile.KindBamboo9, tile.KindCircle5,
		}},
		{hand: []tile.Kind{
			tile.KindBamboo4, tile.KindBamboo5, tile.KindBamboo6,
			tile.KindWindWest, tile.KindWindWest, tile.KindWindWest,
			tile.KindWindNorth, tile.KindWindNorth, tile.KindWindNorth,
			tile.KindDragonRed, tile.KindDragonRed,
			tile.KindDragonGreen, tile.KindDragonGreen,
		}},
		{hand: []tile.Kind{
			tile.KindCircle9, tile.KindCircle9,
			tile.KindCharacter4, tile.KindCharacter5, tile.KindCharacter6,
			tile.KindBamboo7, tile.KindBamboo8,
			tile.KindWindSouth, tile.KindWindSouth,
			tile.KindDragonWhite, tile.KindDragonWhite,
			tile.KindCharacter9, tile.KindCharacter9,
		}},
		{hand: []tile.Kind{
			tile.KindCharacter7, tile.KindCharacter7, tile.KindCharacter8, tile.KindCharacter8,
			tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo3,
			tile.KindCircle4, tile.KindCircle4,
			tile.KindCircle6, tile.KindCircle6,
			tile.KindBamboo5, tile.KindBamboo6,
		}},
	}, 0, 0, nil)

	g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeDiscard, Tile: idOf(t, g, 0, tile.KindCircle9)})
	if g2.Claim == nil {
		t.Fatal("expected a claim window")
	}
	// 出牌在窗口里悬着, 离席也不能丢牌
	g3, err := Leave(g2, "cal")
	if err != nil {
		t.Fatal(err)
	}
	if g3.Phase != PhaseTypeFinished || !g3.Result.Drawn || g3.Claim != nil {
		t.Fatal("leave during a claim window should void the round")
	}
	// 13 张手牌 + 悬着的那张
	if g3.DeadPile.Count() != 14 {
		t.Fatalf("dead pile = %d, want 14", g3.DeadPile.Count())
	}
}

func TestSnapshotHidesOtherHands(t *testing.T) {
	g := riggedRound(t, [SeatCount]riggedSeat{
		{hand: []tile.Kind{
			tile.KindCircle9,
			tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo3,
			tile.KindCircle1, tile.KindCircle2, tile.KindCircle3,
			tile.KindCharacter1, tile.KindCharacter2, tile.KindCharacter3,
			tile.KindWindEast, tile.KindWindEast, tile.KindBamboo9, tile.KindCircle5,
		}},
		{hand: []tile.Kind{
			tile.KindBamboo4, tile.KindBamboo5, tile.KindBamboo6,
			tile.KindWindWest, tile.KindWindWest, tile.KindWindWest,
			tile.KindWindNorth, tile.KindWindNorth, tile.KindWindNorth,
			tile.KindDragonRed, tile.KindDragonRed,
			tile.KindDragonGreen, tile.KindDragonGreen,
		}},
		{hand: []tile.Kind{
			tile.KindCircle9, tile.KindCircle9,
			tile.KindCharacter4, tile.KindCharacter5, tile.KindCharacter6,
			tile.KindBamboo7, tile.KindBamboo8,
			tile.KindWindSouth, tile.KindWindSouth,
			tile.KindDragonWhite, tile.KindDragonWhite,
			tile.KindCharacter9, tile.KindCharacter9,
		}},
		{hand: []tile.Kind{
			tile.KindCharacter7, tile.KindCharacter7, tile.KindCharacter8, tile.KindCharacter8,
			tile.KindBamboo1, tile.KindBamboo2, tile.KindBamboo3,
			tile.KindCircle4, tile.KindCircle4,
			tile.KindCircle6, tile.KindCircle6,
			tile.KindBamboo5, tile.KindBamboo6,
		}},
	}, 0, 0, nil)

	snap := SnapshotFor(g, "ann")
	if snap.You != 0 {
		t.Fatalf("You = %d", snap.You)
	}
	if snap.Seats[0].Hand.Count() != 14 || snap.Seats[0].HandCount != 14 {
		t.Fatal("own hand should be visible")
	}
	for i := 1; i < SeatCount; i++ {
		if snap.Seats[i].Hand != nil {
			t.Fatalf("seat %d hand leaked", i)
		}
		if snap.Seats[i].HandCount != 13 {
			t.Fatalf("seat %d handCount = %d", i, snap.Seats[i].HandCount)
		}
	}

	spec := SnapshotFor(g, "zoe")
	if spec.You != NoTurn {
		t.Fatalf("spectator You = %d", spec.You)
	}
	for i := range spec.Seats {
		if spec.Seats[i].Hand != nil {
			t.Fatalf("spectator saw seat %d hand", i)
		}
	}

	// 声明窗口只给有资格的人看资格
	g2 := mustApply(t, g, Action{Seat: "ann", Type: ActionTypeDiscard, Tile: idOf(t, g, 0, tile.KindCircle9)})
	calView := SnapshotFor(g2, "cal")
	if calView.Claim == nil || len(calView.Claim.Allowed) != 1 || calView.Claim.Allowed[0] != ActionTypePong {
		t.Fatalf("claim view for cal = %+v", calView.Claim)
	}
	benView := SnapshotFor(g2, "ben")
	if benView.Claim == nil || benView.Claim.Allowed != nil {
		t.Fatalf("claim view for ben = %+v", benView.Claim)
	}
	if benView.Claim.Tile.Kind != tile.KindCircle9 {
		t.Fatal("the floating tile itself is public")
	}
	if benView.Turn != NoTurn {
		t.Fatalf("turn = %d during claims", benView.Turn)
	}
}
