package engine

import (
	"context"
	"testing"

	"github.com/gamebay/tournament-engine/brackets"
	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster(n int) []*models.Participant {
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

func buildElimBracket(t *testing.T, n int) *Bracket {
	t.Helper()
	gen := brackets.NewSingleEliminationGenerator()
	matches, err := gen.GenerateBracket(context.Background(), brackets.GenerateBracketParams{
		Tournament: &models.Tournament{ID: 1},
		Roster:     testRoster(n),
	})
	require.NoError(t, err)
	b, err := NewBracket(1, matches, nil)
	require.NoError(t, err)
	return b
}

func buildLeagueBracket(t *testing.T, n int) *Bracket {
	t.Helper()
	gen := brackets.NewRoundRobinGenerator()
	matches, err := gen.GenerateBracket(context.Background(), brackets.GenerateBracketParams{
		Tournament: &models.Tournament{ID: 1},
		Roster:     testRoster(n),
	})
	require.NoError(t, err)
	b, err := NewBracket(1, matches, nil)
	require.NoError(t, err)
	return b
}

// findMatch returns the match currently pairing the two participants.
func findMatch(t *testing.T, b *Bracket, p1, p2 int) *models.Match {
	t.Helper()
	for _, m := range b.Matches() {
		if m.HasParticipant(p1) && m.HasParticipant(p2) {
			return m
		}
	}
	t.Fatalf("no match pairing participants %d and %d", p1, p2)
	return nil
}

// playMatch resolves a match via two agreeing submissions, winner first.
func playMatch(t *testing.T, b *Bracket, id uuid.UUID, winner, loser int) *Result {
	t.Helper()
	_, err := b.SubmitResult(id, winner, 2, 1, "")
	require.NoError(t, err)
	res, err := b.SubmitResult(id, loser, 1, 2, "")
	require.NoError(t, err)
	return res
}

func TestBracketStructure(t *testing.T) {
	testCases := []struct {
		rosterSize  int
		wantMatches int
		wantByes    int
	}{
		{rosterSize: 2, wantMatches: 1, wantByes: 0},
		{rosterSize: 3, wantMatches: 3, wantByes: 1},
		{rosterSize: 4, wantMatches: 3, wantByes: 0},
		{rosterSize: 5, wantMatches: 7, wantByes: 3},
		{rosterSize: 8, wantMatches: 7, wantByes: 0},
		{rosterSize: 9, wantMatches: 15, wantByes: 7},
	}

	for _, tc := range testCases {
		b := buildElimBracket(t, tc.rosterSize)
		matches := b.Matches()
		assert.Len(t, matches, tc.wantMatches, "roster size %d", tc.rosterSize)

		byes := 0
		roots := 0
		for _, m := range matches {
			if m.Slot1Bye {
				byes++
			}
			if m.Slot2Bye {
				byes++
			}
			if m.NextMatchID == nil {
				roots++
			}
		}
		assert.Equal(t, tc.wantByes, byes, "roster size %d", tc.rosterSize)
		assert.Equal(t, 1, roots, "roster size %d", tc.rosterSize)
	}
}

func TestBootstrapResolvesByeLeaves(t *testing.T) {
	// With 5 participants in an 8-slot bracket, seeds 1, 2 and 3 face byes and
	// walk through automatically; seeds 4 and 5 meet in the only real round-1
	// match. Seeds 2 and 3 then pair up in a fully-real semifinal that must
	// NOT auto-resolve.
	b := buildElimBracket(t, 5)
	res, err := b.Bootstrap()
	require.NoError(t, err)

	resolved := 0
	for _, m := range b.Matches() {
		if m.Status == models.MatchStatusResolved {
			resolved++
			require.NotNil(t, m.WinnerParticipant)
		}
	}
	assert.Equal(t, 3, resolved)
	assert.NotEmpty(t, res.Updated)

	// the semifinal fed by two bye winners holds both and is playable
	semi := findMatch(t, b, 2, 3)
	assert.Equal(t, models.MatchStatusScheduled, semi.Status)

	// seeds 4 and 5 still have to play their round-1 match
	r1 := findMatch(t, b, 4, 5)
	assert.Equal(t, 1, r1.Round)
	assert.Equal(t, models.MatchStatusScheduled, r1.Status)

	assert.False(t, b.Completed())
}

func TestBootstrapRejectsDoubleBye(t *testing.T) {
	next := uuid.New()
	slot := 1
	leaf := &models.Match{
		ID: uuid.New(), TournamentID: 1, Round: 1, OrderInRound: 1,
		Slot1Bye: true, Slot2Bye: true,
		Status: models.MatchStatusScheduled, NextMatchID: &next, WinnerToSlot: &slot,
	}
	slot2 := 2
	p1, p2 := 1, 2
	other := &models.Match{
		ID: uuid.New(), TournamentID: 1, Round: 1, OrderInRound: 2,
		Slot1ParticipantID: &p1, Slot2ParticipantID: &p2,
		Status: models.MatchStatusScheduled, NextMatchID: &next, WinnerToSlot: &slot2,
	}
	root := &models.Match{ID: next, TournamentID: 1, Round: 2, OrderInRound: 1, Status: models.MatchStatusPending}

	b, err := NewBracket(1, []*models.Match{leaf, other, root}, nil)
	require.NoError(t, err)

	_, err = b.Bootstrap()
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestThreePlayerRunToCompletion(t *testing.T) {
	// A=1 gets the bye; B=2 and C=3 play round 1. C wins everything.
	b := buildElimBracket(t, 3)
	_, err := b.Bootstrap()
	require.NoError(t, err)

	r1 := findMatch(t, b, 2, 3)
	res := playMatch(t, b, r1.ID, 3, 2)
	assert.False(t, res.Completed)

	final := findMatch(t, b, 1, 3)
	assert.Equal(t, models.MatchStatusScheduled, final.Status)

	res = playMatch(t, b, final.ID, 3, 1)
	require.True(t, res.Completed)
	assert.True(t, b.Completed())

	want := []Placement{
		{ParticipantID: 3, Rank: 1},
		{ParticipantID: 1, Rank: 2},
		{ParticipantID: 2, Rank: 3},
	}
	assert.Equal(t, want, res.Placements)

	var completedEvent bool
	for _, ev := range res.Events {
		if ev.Type == models.EventTournamentCompleted {
			completedEvent = true
		}
	}
	assert.True(t, completedEvent)
}

func TestFourPlayerPlacementsShareThird(t *testing.T) {
	b := buildElimBracket(t, 4)
	_, err := b.Bootstrap()
	require.NoError(t, err)

	semi1 := findMatch(t, b, 1, 4)
	semi2 := findMatch(t, b, 2, 3)
	playMatch(t, b, semi1.ID, 1, 4)
	playMatch(t, b, semi2.ID, 2, 3)

	final := findMatch(t, b, 1, 2)
	res := playMatch(t, b, final.ID, 1, 2)
	require.True(t, res.Completed)

	want := []Placement{
		{ParticipantID: 1, Rank: 1},
		{ParticipantID: 2, Rank: 2},
		{ParticipantID: 4, Rank: 3},
		{ParticipantID: 3, Rank: 3},
	}
	assert.Equal(t, want, res.Placements)
}

func TestAdvanceIdempotence(t *testing.T) {
	b := buildElimBracket(t, 4)
	_, err := b.Bootstrap()
	require.NoError(t, err)

	semi1 := findMatch(t, b, 1, 4)
	playMatch(t, b, semi1.ID, 1, 4)

	b.mu.Lock()
	defer b.mu.Unlock()

	m := b.matches[semi1.ID]
	res := newResult()

	// replaying the same winner is a no-op
	require.NoError(t, b.advance(m, 1, res))
	assert.Empty(t, res.touched)

	// a different winner must never overwrite the slot silently
	err = b.advance(m, 4, res)
	assert.ErrorIs(t, err, ErrIntegrity)
	assert.ErrorIs(t, err, ErrSlotOccupied)
}

func TestLeagueStandings(t *testing.T) {
	b := buildLeagueBracket(t, 3)

	playMatch(t, b, findMatch(t, b, 1, 2).ID, 1, 2)
	playMatch(t, b, findMatch(t, b, 1, 3).ID, 1, 3)
	res := playMatch(t, b, findMatch(t, b, 2, 3).ID, 2, 3)

	require.True(t, res.Completed)
	assert.True(t, b.Completed())

	want := []Placement{
		{ParticipantID: 1, Rank: 1},
		{ParticipantID: 2, Rank: 2},
		{ParticipantID: 3, Rank: 3},
	}
	assert.Equal(t, want, res.Placements)
}

func TestLeagueStandingsTiedCircle(t *testing.T) {
	// 1 beats 2, 2 beats 3, 3 beats 1: everyone has one win, everyone is 1st.
	b := buildLeagueBracket(t, 3)

	playMatch(t, b, findMatch(t, b, 1, 2).ID, 1, 2)
	playMatch(t, b, findMatch(t, b, 2, 3).ID, 2, 3)
	res := playMatch(t, b, findMatch(t, b, 1, 3).ID, 3, 1)

	require.True(t, res.Completed)
	for _, p := range res.Placements {
		assert.Equal(t, 1, p.Rank)
	}
	assert.Len(t, res.Placements, 3)
}

func TestNewBracketRejectsMalformedTrees(t *testing.T) {
	p1, p2 := 1, 2
	leaf := func(next *uuid.UUID, slot *int) *models.Match {
		return &models.Match{
			ID: uuid.New(), TournamentID: 1, Round: 1, OrderInRound: 1,
			Slot1ParticipantID: &p1, Slot2ParticipantID: &p2,
			Status: models.MatchStatusScheduled, NextMatchID: next, WinnerToSlot: slot,
		}
	}

	t.Run("missing parent", func(t *testing.T) {
		missing := uuid.New()
		slot := 1
		_, err := NewBracket(1, []*models.Match{leaf(&missing, &slot)}, nil)
		assert.ErrorIs(t, err, ErrIntegrity)
	})

	t.Run("invalid parent slot", func(t *testing.T) {
		root := &models.Match{ID: uuid.New(), TournamentID: 1, Round: 2, OrderInRound: 1, Status: models.MatchStatusPending}
		slot := 3
		_, err := NewBracket(1, []*models.Match{leaf(&root.ID, &slot), root}, nil)
		assert.ErrorIs(t, err, ErrIntegrity)
	})

	t.Run("internal node with one child", func(t *testing.T) {
		root := &models.Match{ID: uuid.New(), TournamentID: 1, Round: 2, OrderInRound: 1, Status: models.MatchStatusPending}
		slot := 1
		_, err := NewBracket(1, []*models.Match{leaf(&root.ID, &slot), root}, nil)
		assert.ErrorIs(t, err, ErrIntegrity)
	})

	t.Run("duplicate match id", func(t *testing.T) {
		m := leaf(nil, nil)
		dup := *m
		_, err := NewBracket(1, []*models.Match{m, &dup}, nil)
		assert.ErrorIs(t, err, ErrIntegrity)
	})
}
