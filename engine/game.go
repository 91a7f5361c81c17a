package engine

import (
	"github.com/rs/zerolog"
)

// Phase of a White Elephant game
type Phase uint8

const (
	PhaseNotStarted Phase = iota
	PhaseMain             // Stack-driven turns until everyone holds a gift
	PhaseBonus            // First player's last-steal chain (LastStealRule only)
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not_started"
	case PhaseMain:
		return "main"
	case PhaseBonus:
		return "bonus"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Metrics counts what happened during one game
type Metrics struct {
	Turns        int // Main-phase turns, including follow-ups after a steal
	Reveals      int
	Steals       int
	LongestChain int // Most consecutive main-phase steals before a reveal
	BonusTurns   int
	BonusSwaps   int
}

// Game runs one round of White Elephant over a fixed turn order.
type Game struct {
	state         *GameState
	lastStealRule bool
	phase         Phase
	stack         []PlayerID
	metrics       Metrics
	result        *Result
	logger        zerolog.Logger
}

// Option configures a Game
type Option func(*Game)

// WithLogger traces turns at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(g *Game) {
		g.logger = logger
	}
}

// NewGame validates preferences and deals every gift to the Host.
// preferences[p][g] is player p's value for giftNames[g]; turn order is
// the order of preferences.
func NewGame(giftNames []string, preferences [][]int, lastStealRule bool, opts ...Option) (*Game, error) {
	if err := ValidatePreferences(len(giftNames), preferences); err != nil {
		return nil, err
	}

	g := &Game{
		state:         NewGameState(giftNames, preferences),
		lastStealRule: lastStealRule,
		phase:         PhaseNotStarted,
		stack:         make([]PlayerID, 0, len(preferences)),
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// State exposes the live state. Callers must not mutate it.
func (g *Game) State() *GameState {
	return g.state
}

// Phase returns the phase the next call to Advance will run
func (g *Game) Phase() Phase {
	return g.phase
}

// Metrics returns counters for the phases run so far.
func (g *Game) Metrics() Metrics {
	return g.metrics
}

// LastStealRule reports whether the bonus phase is enabled
func (g *Game) LastStealRule() bool {
	return g.lastStealRule
}

// Play runs the game to completion. Subsequent calls return the same Result.
func (g *Game) Play() Result {
	for g.phase != PhaseFinished {
		g.Advance()
	}
	return *g.result
}

// Advance runs the pending phase to completion and returns the next one.
func (g *Game) Advance() Phase {
	switch g.phase {
	case PhaseNotStarted, PhaseMain:
		g.phase = PhaseMain
		g.runMainPhase()
		if g.lastStealRule {
			g.phase = PhaseBonus
		} else {
			g.finish()
		}
	case PhaseBonus:
		g.runBonusPhase()
		g.finish()
	}
	return g.phase
}

func (g *Game) push(p PlayerID) {
	g.stack = append(g.stack, p)
}

func (g *Game) pop() PlayerID {
	p := g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]
	return p
}

// runMainPhase processes the player stack until it empties. A steal pushes
// the victim back so they take the very next turn.
func (g *Game) runMainPhase() {
	s := g.state
	g.stack = g.stack[:0]
	for i := len(s.Players) - 1; i >= 0; i-- {
		g.push(PlayerID(i))
	}

	score := s.Score()
	chain := 0
	for len(g.stack) > 0 {
		player := g.pop()
		g.metrics.Turns++

		gift := Choose(s, player)
		if gift == NoGift {
			// A player without a gift always leaves at least one unopened
			panic("engine: no gift available for " + s.Players[player].Name)
		}

		stolenFrom := s.Take(player, gift)
		if stolenFrom == Host {
			s.Gifts[gift].Revealed = true
			g.metrics.Reveals++
			chain = 0
			g.logger.Debug().
				Str("player", s.Players[player].Name).
				Str("gift", s.Gifts[gift].Name).
				Msg("reveals")
		} else {
			g.metrics.Steals++
			chain++
			if chain > g.metrics.LongestChain {
				g.metrics.LongestChain = chain
			}
			g.push(stolenFrom)
			g.logger.Debug().
				Str("player", s.Players[player].Name).
				Str("gift", s.Gifts[gift].Name).
				Str("from", s.Players[stolenFrom].Name).
				Int("steal_count", s.Gifts[gift].StealCount).
				Msg("steals")
		}

		newScore := s.Score()
		g.logger.Debug().Int("score", newScore).Int("delta", newScore-score).Msg("main turn done")
		score = newScore
	}
}

// runBonusPhase lets the first player swap once more. Each player who
// loses a gift this way immediately gets the same chance, until someone
// keeps what they have.
func (g *Game) runBonusPhase() {
	s := g.state
	g.stack = append(g.stack[:0], 0)

	score := s.Score()
	for len(g.stack) > 0 {
		player := g.pop()
		g.metrics.BonusTurns++

		gift, ok := ChooseLastTurn(s, player)
		if !ok {
			g.logger.Debug().
				Str("player", s.Players[player].Name).
				Msg("keeps own gift")
			continue
		}

		stolenFrom := s.Swap(player, gift)
		g.metrics.BonusSwaps++
		g.push(stolenFrom)
		g.logger.Debug().
			Str("player", s.Players[player].Name).
			Str("gift", s.Gifts[gift].Name).
			Str("from", s.Players[stolenFrom].Name).
			Int("steal_count", s.Gifts[gift].StealCount).
			Msg("last steal")

		newScore := s.Score()
		g.logger.Debug().Int("score", newScore).Int("delta", newScore-score).Msg("bonus turn done")
		score = newScore
	}
}

func (g *Game) finish() {
	g.phase = PhaseFinished
	result := g.state.Result()
	g.result = &result
	g.logger.Debug().
		Int("score", result.Score).
		Int("steals", g.metrics.Steals).
		Int("bonus_swaps", g.metrics.BonusSwaps).
		Msg("game over")
}
