package simulation

import (
	"math/rand/v2"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/bobbiec/white-elephant/assignment"
	"github.com/bobbiec/white-elephant/engine"
	"github.com/bobbiec/white-elephant/evaluation"
)

// MaxGifts is limited by single-letter gift names
const MaxGifts = 26

var ErrPlayerCount = eris.New("unsupported player count")

// GameSpec identifies one simulated game
type GameSpec struct {
	Players       int
	Seed          int64
	LastStealRule bool
}

// GameOutcome holds everything learned from one game
type GameOutcome struct {
	Spec        GameSpec
	Preferences [][]int
	Result      engine.Result
	Stats       evaluation.Stats
	Metrics     engine.Metrics
	DurationNs  uint64
}

// GiftNames returns "A", "B", ... for n gifts
func GiftNames(n int) ([]string, error) {
	if n < 1 || n > MaxGifts {
		return nil, eris.Wrapf(ErrPlayerCount, "%d gifts, want 1-%d", n, MaxGifts)
	}
	names := make([]string, n)
	for i := range names {
		names[i] = string(rune('A' + i))
	}
	return names, nil
}

// NewRNG returns the deterministic generator used for a game seed
func NewRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))
}

// GeneratePreferences draws a uniform preference in [0,100] for every
// player and gift, player by player.
func GeneratePreferences(rng *rand.Rand, players, gifts int) [][]int {
	prefs := make([][]int, players)
	for p := range prefs {
		prefs[p] = make([]int, gifts)
		for g := range prefs[p] {
			prefs[p][g] = engine.MinPreference + rng.IntN(engine.MaxPreference-engine.MinPreference+1)
		}
	}
	return prefs
}

// RunSingleGame plays one game from its seed and scores it against every
// possible assignment of the same gifts.
func RunSingleGame(spec GameSpec, logger zerolog.Logger) (GameOutcome, error) {
	start := time.Now()

	if spec.Players < 2 || spec.Players > assignment.MaxPlayers {
		return GameOutcome{}, eris.Wrapf(ErrPlayerCount, "%d players, want 2-%d", spec.Players, assignment.MaxPlayers)
	}

	names, err := GiftNames(spec.Players)
	if err != nil {
		return GameOutcome{}, err
	}
	prefs := GeneratePreferences(NewRNG(spec.Seed), spec.Players, len(names))

	gameLogger := logger.With().Int64("seed", spec.Seed).Int("players", spec.Players).Logger()
	game, err := engine.NewGame(names, prefs, spec.LastStealRule, engine.WithLogger(gameLogger))
	if err != nil {
		return GameOutcome{}, eris.Wrapf(err, "seed %d", spec.Seed)
	}
	result := game.Play()

	// Preferences are fresh per seed, so the enumeration cannot be shared
	sorted, err := assignment.Enumerate(prefs)
	if err != nil {
		return GameOutcome{}, eris.Wrapf(err, "seed %d", spec.Seed)
	}

	stats, err := evaluation.Evaluate(spec.Seed, result, sorted, prefs)
	if err != nil {
		return GameOutcome{}, err
	}
	stats.LastStealRule = spec.LastStealRule

	gameLogger.Debug().
		Int("score", stats.Score).
		Int("rank", stats.Rank).
		Float64("percentile", stats.Percentile).
		Bool("pareto_optimal", stats.ParetoOptimal).
		Msg("game evaluated")

	return GameOutcome{
		Spec:        spec,
		Preferences: prefs,
		Result:      result,
		Stats:       stats,
		Metrics:     game.Metrics(),
		DurationNs:  uint64(time.Since(start).Nanoseconds()),
	}, nil
}

// BatchConfig describes a run of consecutive seeds at one player count
type BatchConfig struct {
	Players       int
	Games         int
	StartSeed     int64
	LastStealRule bool

	// OnGameComplete is called once per game, in completion order, from a
	// single goroutine.
	OnGameComplete func(GameOutcome)
}

func (c BatchConfig) spec(i int) GameSpec {
	return GameSpec{
		Players:       c.Players,
		Seed:          c.StartSeed + int64(i),
		LastStealRule: c.LastStealRule,
	}
}

// RunBatch simulates seeds StartSeed..StartSeed+Games-1 in order
func RunBatch(cfg BatchConfig, logger zerolog.Logger) ([]GameOutcome, error) {
	outcomes := make([]GameOutcome, 0, cfg.Games)

	for i := 0; i < cfg.Games; i++ {
		outcome, err := RunSingleGame(cfg.spec(i), logger)
		if err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, outcome)
		if cfg.OnGameComplete != nil {
			cfg.OnGameComplete(outcome)
		}
	}

	return outcomes, nil
}
