package engine

// VisibleGifts returns the opened gifts player may still take, in gift order:
// revealed, stolen fewer than MaxSteals times and not just taken from player.
func VisibleGifts(s *GameState, player PlayerID) []GiftID {
	visible := make([]GiftID, 0, len(s.Gifts))
	for i := range s.Gifts {
		g := &s.Gifts[i]
		if g.Stealable() && g.PreviousOwner != player && g.Revealed {
			visible = append(visible, GiftID(i))
		}
	}
	return visible
}

// topVisible returns the first visible gift (in gift order) with the highest
// preference, and that preference. With nothing visible it returns NoGift, 0.
func topVisible(s *GameState, player PlayerID) (GiftID, int) {
	p := &s.Players[player]
	best := NoGift
	top := 0

	for _, gift := range VisibleGifts(s, player) {
		value := p.Value(gift)
		if best == NoGift || value > top {
			best = gift
			top = value
		}
	}

	return best, top
}

// firstUnrevealed returns the next gift in the Host's pile
func firstUnrevealed(s *GameState) GiftID {
	for i := range s.Gifts {
		if !s.Gifts[i].Revealed {
			return GiftID(i)
		}
	}
	return NoGift
}

// Choose picks the gift for a normal turn. A player steals the best visible
// gift when it is worth at least StealThreshold to them, otherwise they open
// the next unrevealed gift.
func Choose(s *GameState, player PlayerID) GiftID {
	if gift, top := topVisible(s, player); gift != NoGift && top >= StealThreshold {
		return gift
	}
	return firstUnrevealed(s)
}

// ChooseLastTurn picks a swap target for a bonus-phase turn. The player only
// swaps for a visible gift worth strictly more than the one they hold;
// ok is false when they keep their own gift.
func ChooseLastTurn(s *GameState, player PlayerID) (gift GiftID, ok bool) {
	best, top := topVisible(s, player)
	current := s.Players[player].Score()

	if best == NoGift || top <= current {
		return NoGift, false
	}
	return best, true
}
