package engine

import (
	"github.com/rotisserie/eris"
)

var (
	ErrNoGifts            = eris.New("game needs at least one gift")
	ErrPlayerGiftMismatch = eris.New("player count must equal gift count")
	ErrPreferenceLength   = eris.New("preferences must rate every gift")
	ErrPreferenceRange    = eris.New("preference out of range")
)

// ValidatePreferences checks that preferences is a square matrix of players
// by gifts with every value in [MinPreference, MaxPreference].
func ValidatePreferences(giftCount int, preferences [][]int) error {
	if giftCount == 0 {
		return eris.Wrap(ErrNoGifts, "")
	}
	if len(preferences) != giftCount {
		return eris.Wrapf(ErrPlayerGiftMismatch, "%d players, %d gifts", len(preferences), giftCount)
	}

	for p, prefs := range preferences {
		if len(prefs) != giftCount {
			return eris.Wrapf(ErrPreferenceLength, "player %d rates %d of %d gifts", p+1, len(prefs), giftCount)
		}
		for g, value := range prefs {
			if value < MinPreference || value > MaxPreference {
				return eris.Wrapf(ErrPreferenceRange, "player %d gift %d: %d not in [%d,%d]",
					p+1, g, value, MinPreference, MaxPreference)
			}
		}
	}

	return nil
}
