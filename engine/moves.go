package engine

// TakeGift moves a gift to newOwner and returns whoever held it before.
// Taking from a player (not the Host) is a steal: the steal count goes up,
// the victim's Chosen handle is cleared and they become PreviousOwner.
// Callers are responsible for legality, see VisibleGifts.
func (s *GameState) TakeGift(gift GiftID, newOwner PlayerID) PlayerID {
	g := &s.Gifts[gift]
	oldOwner := g.Owner

	if oldOwner != Host {
		g.StealCount++
		s.Players[oldOwner].Chosen = NoGift
		g.PreviousOwner = oldOwner
	}

	g.Owner = newOwner
	return oldOwner
}

// Take gives gift to player and returns the dispossessed owner.
func (s *GameState) Take(player PlayerID, gift GiftID) PlayerID {
	stolenFrom := s.TakeGift(gift, player)
	s.Players[player].Chosen = gift
	return stolenFrom
}

// Swap has player take gift; the dispossessed player receives the gift
// player was holding. With no previous gift this is the same as Take.
func (s *GameState) Swap(player PlayerID, gift GiftID) PlayerID {
	oldChosen := s.Players[player].Chosen
	stolenFrom := s.Take(player, gift)

	if stolenFrom == Host || oldChosen == NoGift {
		return stolenFrom
	}

	s.Players[stolenFrom].Chosen = oldChosen
	s.Gifts[oldChosen].Owner = stolenFrom
	return stolenFrom
}
