package card

// deck52 按花色递增排列的标准 52 张牌
var deck52 = CardList{
	CardSpadeA, CardSpade2, CardSpade3, CardSpade4, CardSpade5, CardSpade6, CardSpade7,
	CardSpade8, CardSpade9, CardSpadeT, CardSpadeJ, CardSpadeQ, CardSpadeK,
	CardHeartA, CardHeart2, CardHeart3, CardHeart4, CardHeart5, CardHeart6, CardHeart7,
	CardHeart8, CardHeart9, CardHeartT, CardHeartJ, CardHeartQ, CardHeartK,
	CardClubA, CardClub2, CardClub3, CardClub4, CardClub5, CardClub6, CardClub7,
	CardClub8, CardClub9, CardClubT, CardClubJ, CardClubQ, CardClubK,
	CardDiamondA, CardDiamond2, CardDiamond3, CardDiamond4, CardDiamond5, CardDiamond6, CardDiamond7,
	CardDiamond8, CardDiamond9, CardDiamondT, CardDiamondJ, CardDiamondQ, CardDiamondK,
}

// NewDeck returns a fresh standard 52-card deck in canonical order.
func NewDeck() CardList {
	return deck52.Clone()
}

// NewShoe 构造 decks 副牌组成的牌靴 (blackjack 常用 6 副).
func NewShoe(decks int) CardList {
	if decks < 1 {
		decks = 1
	}
	out := make(CardList, 0, decks*len(deck52))
	for i := 0; i < decks; i++ {
		out = append(out, deck52...)
	}
	return out
}
