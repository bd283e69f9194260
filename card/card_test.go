package card

import (
	"math/rand"
	"testing"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	deck := NewDeck()
	if deck.Count() != 52 {
		t.Fatalf("deck size = %d, want 52", deck.Count())
	}
	seen := make(map[Card]bool, 52)
	for _, c := range deck {
		if c == CardInvalid || c == CardHidden {
			t.Fatalf("deck contains sentinel card %v", c)
		}
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
}

// 洗牌必须是置换: 同一组牌, 不多不少.
func TestShuffledIsPermutation(t *testing.T) {
	deck := NewDeck()
	shuffled := deck.Shuffled(rand.New(rand.NewSource(99)))

	if shuffled.Count() != deck.Count() {
		t.Fatalf("shuffled size = %d, want %d", shuffled.Count(), deck.Count())
	}

	count := func(cs CardList) map[Card]int {
		m := make(map[Card]int)
		for _, c := range cs {
			m[c]++
		}
		return m
	}
	before, after := count(deck), count(shuffled)
	for c, n := range before {
		if after[c] != n {
			t.Fatalf("card %v: count %d after shuffle, want %d", c, after[c], n)
		}
	}
}

func TestShuffledDeterministicForSeed(t *testing.T) {
	a := NewDeck().Shuffled(rand.New(rand.NewSource(42)))
	b := NewDeck().Shuffled(rand.New(rand.NewSource(42)))
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("position %d: %v != %v for identical seeds", i, a[i], b[i])
		}
	}

	c := NewDeck().Shuffled(rand.New(rand.NewSource(43)))
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical permutations")
	}
}

func TestShuffledDoesNotMutateOriginal(t *testing.T) {
	deck := NewDeck()
	_ = deck.Shuffled(rand.New(rand.NewSource(7)))
	fresh := NewDeck()
	for i := range deck {
		if deck[i] != fresh[i] {
			t.Fatalf("original deck mutated at %d", i)
		}
	}
}

func TestDeal(t *testing.T) {
	deck := NewDeck()
	dealt, rest, ok := deck.Deal(5)
	if !ok {
		t.Fatal("Deal(5) failed on a full deck")
	}
	if dealt.Count() != 5 || rest.Count() != 47 {
		t.Fatalf("dealt %d rest %d, want 5/47", dealt.Count(), rest.Count())
	}
	// 原序列不变
	if deck.Count() != 52 {
		t.Fatalf("source deck mutated: %d cards", deck.Count())
	}
	for i, c := range dealt {
		if c != deck[i] {
			t.Fatalf("dealt[%d] = %v, want prefix card %v", i, c, deck[i])
		}
	}

	if _, _, ok := rest.Deal(48); ok {
		t.Fatal("Deal beyond remaining cards must fail")
	}
	if _, _, ok := deck.Deal(-1); ok {
		t.Fatal("negative deal must fail")
	}
}

func TestNewShoe(t *testing.T) {
	shoe := NewShoe(6)
	if shoe.Count() != 312 {
		t.Fatalf("6-deck shoe has %d cards, want 312", shoe.Count())
	}
	counts := make(map[Card]int)
	for _, c := range shoe {
		counts[c]++
	}
	for c, n := range counts {
		if n != 6 {
			t.Fatalf("card %v appears %d times, want 6", c, n)
		}
	}
}

func TestCardEncoding(t *testing.T) {
	cases := []struct {
		card Card
		suit Suit
		rank byte
		high int
		str  string
	}{
		{CardSpadeA, Spade, 1, 14, "♠️A"},
		{CardHeartT, Heart, 10, 10, "♥️T"},
		{CardClubQ, Club, 12, 12, "♣️Q"},
		{CardDiamondK, Diamond, 13, 13, "♦️K"},
		{CardSpade2, Spade, 2, 2, "♠️2"},
	}
	for _, tc := range cases {
		if tc.card.Suit() != tc.suit {
			t.Errorf("%v suit = %v, want %v", tc.card, tc.card.Suit(), tc.suit)
		}
		if tc.card.Rank() != tc.rank {
			t.Errorf("%v rank = %d, want %d", tc.card, tc.card.Rank(), tc.rank)
		}
		if tc.card.HighValue() != tc.high {
			t.Errorf("%v high value = %d, want %d", tc.card, tc.card.HighValue(), tc.high)
		}
		if tc.card.String() != tc.str {
			t.Errorf("%v string = %q, want %q", tc.card, tc.card.String(), tc.str)
		}
	}
	if !CardHeartA.IsAce() || CardHeartK.IsAce() {
		t.Error("IsAce misclassifies")
	}
}

func TestParseCard(t *testing.T) {
	cases := []struct {
		in   string
		want Card
	}{
		{"As", CardSpadeA},
		{"aS", CardSpadeA},
		{"Td", CardDiamondT},
		{"2c", CardClub2},
		{"kh", CardHeartK},
		{"9s", CardSpade9},
	}
	for _, tc := range cases {
		got, err := ParseCard(tc.in)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseCard(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	for _, bad := range []string{"", "A", "1s", "Ax", "10d", "♠️A"} {
		if _, err := ParseCard(bad); err == nil {
			t.Errorf("ParseCard(%q) should fail", bad)
		}
	}
}
