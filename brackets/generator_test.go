package brackets

import (
	"context"
	"testing"

	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmedRoster(n int) []*models.Participant {
	roster := make([]*models.Participant, n)
	for i := range roster {
		roster[i] = &models.Participant{
			ID:            i + 1,
			TournamentID:  1,
			PaymentStatus: models.PaymentSuccess,
		}
	}
	return roster
}

func generate(t *testing.T, gen BracketGenerator, n int) []*models.Match {
	t.Helper()
	matches, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
		Tournament: &models.Tournament{ID: 1},
		Roster:     confirmedRoster(n),
	})
	require.NoError(t, err)
	return matches
}

func TestNextPowerOfTwo(t *testing.T) {
	testCases := []struct{ in, want int }{
		{1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {8, 8}, {9, 16}, {17, 32},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, NextPowerOfTwo(tc.in), "NextPowerOfTwo(%d)", tc.in)
	}
}

func TestFirstRoundSeedPairs(t *testing.T) {
	assert.Equal(t, [][2]int{{0, 1}}, FirstRoundSeedPairs(2))
	assert.Equal(t, [][2]int{{0, 3}, {1, 2}}, FirstRoundSeedPairs(4))
	// top two seeds land in opposite halves and can only meet in the final
	assert.Equal(t, [][2]int{{0, 7}, {3, 4}, {1, 6}, {2, 5}}, FirstRoundSeedPairs(8))
	assert.Nil(t, FirstRoundSeedPairs(1))
}

func TestSingleEliminationStructure(t *testing.T) {
	gen := NewSingleEliminationGenerator()
	matches := generate(t, gen, 5)

	// 8-slot bracket: 4 + 2 + 1 matches
	require.Len(t, matches, 7)

	byID := make(map[uuid.UUID]*models.Match, len(matches))
	for _, m := range matches {
		byID[m.ID] = m
	}

	var root *models.Match
	for _, m := range matches {
		if m.NextMatchID == nil {
			require.Nil(t, root, "exactly one root expected")
			root = m
			continue
		}
		parent, ok := byID[*m.NextMatchID]
		require.True(t, ok, "parent of %s must exist in the set", m.ID)
		assert.Equal(t, m.Round+1, parent.Round)
		require.NotNil(t, m.WinnerToSlot)
		assert.Contains(t, []int{1, 2}, *m.WinnerToSlot)
	}
	require.NotNil(t, root)
	assert.Equal(t, 3, root.Round)

	// seeds 1, 2 and 3 face byes; the only real round-1 match is 4 vs 5
	byes := 0
	for _, m := range matches {
		if m.Round != 1 {
			assert.Equal(t, models.MatchStatusPending, m.Status)
			continue
		}
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
		if m.Slot1Bye || m.Slot2Bye {
			byes++
		}
	}
	assert.Equal(t, 3, byes)

	pairs := make(map[[2]int]bool)
	for _, m := range matches {
		if m.Slot1ParticipantID != nil && m.Slot2ParticipantID != nil {
			pairs[[2]int{*m.Slot1ParticipantID, *m.Slot2ParticipantID}] = true
		}
	}
	assert.True(t, pairs[[2]int{4, 5}])
}

func TestSingleEliminationRejectsBadRoster(t *testing.T) {
	gen := NewSingleEliminationGenerator()

	t.Run("too small", func(t *testing.T) {
		_, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
			Tournament: &models.Tournament{ID: 1},
			Roster:     confirmedRoster(1),
		})
		assert.ErrorIs(t, err, ErrInvalidRosterSize)
	})

	t.Run("unsettled payment", func(t *testing.T) {
		roster := confirmedRoster(4)
		roster[2].PaymentStatus = models.PaymentPending
		_, err := gen.GenerateBracket(context.Background(), GenerateBracketParams{
			Tournament: &models.Tournament{ID: 1},
			Roster:     roster,
		})
		assert.ErrorIs(t, err, ErrRosterNotConfirmed)
	})
}

func TestRoundRobinAllPairs(t *testing.T) {
	gen := NewRoundRobinGenerator()
	matches := generate(t, gen, 4)

	require.Len(t, matches, 6)
	seen := make(map[[2]int]bool)
	for _, m := range matches {
		require.NotNil(t, m.Slot1ParticipantID)
		require.NotNil(t, m.Slot2ParticipantID)
		assert.Nil(t, m.NextMatchID)
		assert.Equal(t, models.MatchStatusScheduled, m.Status)
		key := [2]int{*m.Slot1ParticipantID, *m.Slot2ParticipantID}
		assert.False(t, seen[key], "pair %v generated twice", key)
		seen[key] = true
	}
	assert.Len(t, seen, 6)
}

func TestForFormat(t *testing.T) {
	gen, err := ForFormat(models.FormatSingleElimination)
	require.NoError(t, err)
	assert.Equal(t, "SingleElimination", gen.GetName())

	gen, err = ForFormat(models.FormatRoundRobin)
	require.NoError(t, err)
	assert.Equal(t, "RoundRobin", gen.GetName())

	_, err = ForFormat(models.FormatDoubleElimination)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ForFormat(models.FormatBattleRoyale)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
