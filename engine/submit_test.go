package engine

import (
	"testing"

	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitResultSingleSubmissionReports(t *testing.T) {
	b := buildElimBracket(t, 2)
	m := findMatch(t, b, 1, 2)

	res, err := b.SubmitResult(m.ID, 1, 2, 0, "https://cdn.example.com/proof.png")
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusReported, res.Match.Status)
	assert.Nil(t, res.Match.WinnerParticipant)
	require.Len(t, res.Match.Submissions, 1)
	assert.Equal(t, "https://cdn.example.com/proof.png", res.Match.Submissions[0].EvidenceURL)
	assert.False(t, res.Completed)
}

func TestSubmitResultAgreementResolves(t *testing.T) {
	b := buildElimBracket(t, 2)
	m := findMatch(t, b, 1, 2)

	_, err := b.SubmitResult(m.ID, 1, 2, 1, "")
	require.NoError(t, err)
	res, err := b.SubmitResult(m.ID, 2, 1, 2, "")
	require.NoError(t, err)

	assert.Equal(t, models.MatchStatusResolved, res.Match.Status)
	require.NotNil(t, res.Match.WinnerParticipant)
	assert.Equal(t, 1, *res.Match.WinnerParticipant)
	// two-player bracket: resolving the only match completes the tournament
	assert.True(t, res.Completed)
}

func TestSubmitResultConflictStaysReported(t *testing.T) {
	b := buildElimBracket(t, 2)
	m := findMatch(t, b, 1, 2)

	_, err := b.SubmitResult(m.ID, 1, 2, 1, "")
	require.NoError(t, err)
	res, err := b.SubmitResult(m.ID, 2, 3, 1, "")
	require.NoError(t, err)

	// both claim the win: no resolution, dispute is the way forward
	assert.Equal(t, models.MatchStatusReported, res.Match.Status)
	assert.Nil(t, res.Match.WinnerParticipant)
	assert.Len(t, res.Match.Submissions, 2)

	_, err = b.FileDispute(m.ID, 2, "opponent misreported the score", []string{"https://cdn.example.com/vod.mp4"})
	assert.NoError(t, err)
}

func TestSubmitResultReplacesOwnSubmission(t *testing.T) {
	b := buildElimBracket(t, 2)
	m := findMatch(t, b, 1, 2)

	first, err := b.SubmitResult(m.ID, 1, 2, 1, "")
	require.NoError(t, err)
	firstID := first.Match.Submissions[0].ID

	res, err := b.SubmitResult(m.ID, 1, 3, 0, "")
	require.NoError(t, err)

	require.Len(t, res.Match.Submissions, 1)
	sub := res.Match.Submissions[0]
	assert.Equal(t, firstID, sub.ID, "resubmission keeps the original submission identity")
	assert.Equal(t, 3, sub.OwnScore)
	assert.Equal(t, 0, sub.OpponentScore)
}

func TestSubmitResultValidation(t *testing.T) {
	b := buildElimBracket(t, 4)
	_, err := b.Bootstrap()
	require.NoError(t, err)

	semi := findMatch(t, b, 1, 4)
	final := func() *models.Match {
		for _, m := range b.Matches() {
			if m.NextMatchID == nil {
				return m
			}
		}
		return nil
	}()
	require.NotNil(t, final)

	t.Run("unknown match", func(t *testing.T) {
		_, err := b.SubmitResult(uuid.New(), 1, 2, 1, "")
		assert.ErrorIs(t, err, ErrMatchNotFound)
	})

	t.Run("tie rejected", func(t *testing.T) {
		_, err := b.SubmitResult(semi.ID, 1, 1, 1, "")
		assert.ErrorIs(t, err, ErrScoreTie)
	})

	t.Run("non-participant rejected", func(t *testing.T) {
		_, err := b.SubmitResult(semi.ID, 2, 2, 1, "")
		assert.ErrorIs(t, err, ErrNotMatchParticipant)
	})

	t.Run("pending match not joinable", func(t *testing.T) {
		_, err := b.SubmitResult(final.ID, 1, 2, 1, "")
		assert.ErrorIs(t, err, ErrMatchNotJoinable)
	})

	t.Run("resolved match not joinable", func(t *testing.T) {
		playMatch(t, b, semi.ID, 1, 4)
		_, err := b.SubmitResult(semi.ID, 4, 5, 0, "")
		assert.ErrorIs(t, err, ErrMatchNotJoinable)
	})
}

func TestStartMatch(t *testing.T) {
	b := buildElimBracket(t, 2)
	m := findMatch(t, b, 1, 2)

	res, err := b.StartMatch(m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusInProgress, res.Match.Status)

	// starting twice is rejected
	_, err = b.StartMatch(m.ID)
	assert.ErrorIs(t, err, ErrMatchNotStartable)

	// submissions still work from in_progress
	_, err = b.SubmitResult(m.ID, 1, 2, 0, "")
	assert.NoError(t, err)
}

func TestForceResolve(t *testing.T) {
	b := buildElimBracket(t, 4)
	_, err := b.Bootstrap()
	require.NoError(t, err)

	semi := findMatch(t, b, 1, 4)

	t.Run("winner must be in the match", func(t *testing.T) {
		_, err := b.ForceResolve(semi.ID, 2)
		assert.ErrorIs(t, err, ErrNotMatchParticipant)
	})

	t.Run("resolves and advances", func(t *testing.T) {
		res, err := b.ForceResolve(semi.ID, 4)
		require.NoError(t, err)
		assert.Equal(t, models.MatchStatusResolved, res.Match.Status)
		assert.Equal(t, 4, *res.Match.WinnerParticipant)
	})

	t.Run("already resolved", func(t *testing.T) {
		_, err := b.ForceResolve(semi.ID, 1)
		assert.ErrorIs(t, err, ErrMatchNotJoinable)
	})
}
