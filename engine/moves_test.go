package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, prefs [][]int) *GameState {
	t.Helper()
	names := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}[:len(prefs)]
	require.NoError(t, ValidatePreferences(len(names), prefs))
	return NewGameState(names, prefs)
}

func TestNewGameStateHostOwnsEverything(t *testing.T) {
	s := newTestState(t, [][]int{{1, 2}, {3, 4}})

	for _, g := range s.Gifts {
		assert.Equal(t, Host, g.Owner)
		assert.Equal(t, NoPlayer, g.PreviousOwner)
		assert.Zero(t, g.StealCount)
		assert.False(t, g.Revealed)
	}
	for _, p := range s.Players {
		assert.Equal(t, NoGift, p.Chosen)
		assert.Zero(t, p.Score())
	}
	assert.Equal(t, "1", s.Players[0].Name)
	assert.Equal(t, "2", s.Players[1].Name)
}

func TestTakeGiftFromHostIsNotASteal(t *testing.T) {
	s := newTestState(t, [][]int{{80, 20}, {30, 90}})

	from := s.Take(0, 0)

	assert.Equal(t, Host, from)
	assert.Equal(t, PlayerID(0), s.Gifts[0].Owner)
	assert.Zero(t, s.Gifts[0].StealCount)
	assert.Equal(t, NoPlayer, s.Gifts[0].PreviousOwner)
	assert.Equal(t, GiftID(0), s.Players[0].Chosen)
	assert.Equal(t, 80, s.Score())
}

func TestTakeGiftFromPlayerIsASteal(t *testing.T) {
	s := newTestState(t, [][]int{{80, 20}, {30, 90}})
	s.Take(0, 0)

	from := s.Take(1, 0)

	assert.Equal(t, PlayerID(0), from)
	assert.Equal(t, PlayerID(1), s.Gifts[0].Owner)
	assert.Equal(t, 1, s.Gifts[0].StealCount)
	assert.Equal(t, PlayerID(0), s.Gifts[0].PreviousOwner)
	assert.Equal(t, NoGift, s.Players[0].Chosen, "victim loses their handle")
	assert.Equal(t, GiftID(0), s.Players[1].Chosen)
	assert.Equal(t, 30, s.Score())
}

func TestSwapHandsOverPreviousGift(t *testing.T) {
	s := newTestState(t, [][]int{{10, 40}, {30, 20}})
	s.Take(0, 0)
	s.Take(1, 1)

	from := s.Swap(0, 1)

	assert.Equal(t, PlayerID(1), from)
	assert.Equal(t, GiftID(1), s.Players[0].Chosen)
	assert.Equal(t, GiftID(0), s.Players[1].Chosen)
	assert.Equal(t, PlayerID(0), s.Gifts[1].Owner)
	assert.Equal(t, PlayerID(1), s.Gifts[0].Owner, "handed-over gift changes owner too")
	assert.Equal(t, 1, s.Gifts[1].StealCount)
	assert.Zero(t, s.Gifts[0].StealCount, "hand-over is not a steal")
	assert.Equal(t, 70, s.Score())
}

func TestSwapWithoutGiftActsLikeTake(t *testing.T) {
	s := newTestState(t, [][]int{{10, 40}, {30, 20}})
	s.Take(1, 1)

	from := s.Swap(0, 1)

	assert.Equal(t, PlayerID(1), from)
	assert.Equal(t, NoGift, s.Players[1].Chosen)
}

func TestGameStateClone(t *testing.T) {
	s1 := newTestState(t, [][]int{{10, 40}, {30, 20}})
	s1.Take(0, 0)

	s2 := s1.Clone()
	s1.Take(1, 0)
	s1.Players[0].Preferences[0] = 99

	assert.Equal(t, PlayerID(0), s2.Gifts[0].Owner)
	assert.Equal(t, GiftID(0), s2.Players[0].Chosen)
	assert.Equal(t, 10, s2.Players[0].Preferences[0])
}

func TestValidatePreferences(t *testing.T) {
	tests := []struct {
		name  string
		gifts int
		prefs [][]int
		want  error
	}{
		{"no gifts", 0, nil, ErrNoGifts},
		{"fewer players", 3, [][]int{{1, 2, 3}, {1, 2, 3}}, ErrPlayerGiftMismatch},
		{"short row", 2, [][]int{{1, 2}, {1}}, ErrPreferenceLength},
		{"negative", 2, [][]int{{1, -1}, {1, 2}}, ErrPreferenceRange},
		{"too high", 2, [][]int{{1, 2}, {101, 2}}, ErrPreferenceRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePreferences(tt.gifts, tt.prefs)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.NoError(t, ValidatePreferences(2, [][]int{{0, 100}, {100, 0}}))
}
