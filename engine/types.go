package engine

import "strconv"

// GiftID indexes GameState.Gifts
type GiftID int

// PlayerID indexes GameState.Players. Negative values are sentinels.
type PlayerID int

const (
	NoGift GiftID = -1

	Host     PlayerID = -1 // Owns every gift until it is opened
	NoPlayer PlayerID = -2
)

const (
	// MaxSteals is the number of times a gift can change hands before it is frozen.
	MaxSteals = 3
	// StealThreshold is the preference a visible gift needs before a player steals it
	// instead of opening a new one.
	StealThreshold = 50

	MinPreference = 0
	MaxPreference = 100
)

// Gift is a single present. Owner and PreviousOwner are handles into the
// Players of the GameState that holds the gift.
type Gift struct {
	Name          string
	Owner         PlayerID
	PreviousOwner PlayerID // Last player to lose this gift to a steal
	StealCount    int
	Revealed      bool
}

// Stealable reports whether the gift can still be taken from its owner.
func (g *Gift) Stealable() bool {
	return g.StealCount < MaxSteals
}

// Player holds fixed preferences and at most one gift.
type Player struct {
	Name        string
	Preferences []int // Indexed by GiftID, values in [0,100]
	Chosen      GiftID
}

// Value returns how much the player wants the gift (0 for NoGift).
func (p *Player) Value(gift GiftID) int {
	if gift == NoGift {
		return 0
	}
	return p.Preferences[gift]
}

// Score is the player's preference for the gift they currently hold.
func (p *Player) Score() int {
	return p.Value(p.Chosen)
}

// GameState is mutable and owned by exactly one Game
type GameState struct {
	Gifts   []Gift
	Players []Player
}

// NewGameState puts every gift in the Host's pile, unopened.
func NewGameState(giftNames []string, preferences [][]int) *GameState {
	state := &GameState{
		Gifts:   make([]Gift, len(giftNames)),
		Players: make([]Player, len(preferences)),
	}

	for i, name := range giftNames {
		state.Gifts[i] = Gift{
			Name:          name,
			Owner:         Host,
			PreviousOwner: NoPlayer,
		}
	}

	for i, prefs := range preferences {
		state.Players[i] = Player{
			Name:        playerName(i),
			Preferences: append([]int(nil), prefs...),
			Chosen:      NoGift,
		}
	}

	return state
}

// Score sums every player's score
func (s *GameState) Score() int {
	total := 0
	for i := range s.Players {
		total += s.Players[i].Score()
	}
	return total
}

// Result snapshots the current holdings.
func (s *GameState) Result() Result {
	result := Result{
		Assignment: make([]GiftID, len(s.Players)),
		ScoreParts: make([]int, len(s.Players)),
	}
	for i := range s.Players {
		result.Assignment[i] = s.Players[i].Chosen
		result.ScoreParts[i] = s.Players[i].Score()
		result.Score += result.ScoreParts[i]
	}
	return result
}

// Clone creates a deep copy
func (s *GameState) Clone() *GameState {
	clone := &GameState{
		Gifts:   append([]Gift(nil), s.Gifts...),
		Players: make([]Player, len(s.Players)),
	}
	for i, p := range s.Players {
		p.Preferences = append([]int(nil), p.Preferences...)
		clone.Players[i] = p
	}
	return clone
}

// Result is one complete gift-to-player assignment and its scores.
// Assignment[p] is the gift held by player p. Treat as immutable once built.
type Result struct {
	Assignment []GiftID
	ScoreParts []int
	Score      int
}

// playerName matches the 1-based numbering used in traces
func playerName(i int) string {
	return strconv.Itoa(i + 1)
}
