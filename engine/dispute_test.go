package engine

import (
	"testing"

	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileDispute(t *testing.T, b *Bracket, matchID uuid.UUID, reporter int) *models.Dispute {
	t.Helper()
	res, err := b.FileDispute(matchID, reporter, "score was misreported", []string{"https://cdn.example.com/vod.mp4"})
	require.NoError(t, err)
	require.NotNil(t, res.Dispute)
	return res.Dispute
}

func TestFileDisputeValidation(t *testing.T) {
	b := buildElimBracket(t, 4)
	_, err := b.Bootstrap()
	require.NoError(t, err)

	semi := findMatch(t, b, 1, 4)

	t.Run("scheduled match not disputable", func(t *testing.T) {
		_, err := b.FileDispute(semi.ID, 1, "r", []string{"e"})
		assert.ErrorIs(t, err, ErrMatchNotDisputable)
	})

	playMatch(t, b, semi.ID, 1, 4)

	t.Run("evidence required", func(t *testing.T) {
		_, err := b.FileDispute(semi.ID, 4, "r", nil)
		assert.ErrorIs(t, err, ErrEvidenceRequired)
	})

	t.Run("reporter must be a participant", func(t *testing.T) {
		_, err := b.FileDispute(semi.ID, 2, "r", []string{"e"})
		assert.ErrorIs(t, err, ErrNotMatchParticipant)
	})

	t.Run("one open dispute per match", func(t *testing.T) {
		fileDispute(t, b, semi.ID, 4)
		_, err := b.FileDispute(semi.ID, 1, "r", []string{"e"})
		assert.ErrorIs(t, err, ErrDisputeAlreadyOpen)
	})
}

func TestResolveDisputeDenied(t *testing.T) {
	b := buildElimBracket(t, 2)
	m := findMatch(t, b, 1, 2)

	// conflicting reports, loser disputes, arbitration sides with the opponent
	_, err := b.SubmitResult(m.ID, 1, 2, 1, "")
	require.NoError(t, err)
	_, err = b.SubmitResult(m.ID, 2, 2, 1, "")
	require.NoError(t, err)

	d := fileDispute(t, b, m.ID, 2)
	res, err := b.ResolveDispute(d.ID, models.OutcomeReporterDenied, nil, 99, "vod shows otherwise")
	require.NoError(t, err)

	assert.Equal(t, models.DisputeStatusResolved, res.Dispute.Status)
	assert.Equal(t, models.OutcomeReporterDenied, *res.Dispute.Outcome)
	assert.Equal(t, 99, *res.Dispute.ResolvedByUserID)
	assert.Equal(t, 1, *res.Match.WinnerParticipant)
	assert.True(t, res.Completed)
}

func TestResolveDisputeTwiceRejected(t *testing.T) {
	b := buildElimBracket(t, 2)
	m := findMatch(t, b, 1, 2)
	playMatch(t, b, m.ID, 1, 2)

	d := fileDispute(t, b, m.ID, 2)
	_, err := b.ResolveDispute(d.ID, models.OutcomeReporterDenied, nil, 99, "")
	require.NoError(t, err)

	_, err = b.ResolveDispute(d.ID, models.OutcomeReporterUpheld, nil, 99, "")
	assert.ErrorIs(t, err, ErrDisputeNotOpen)
}

func TestResolveDisputeReaffirmDoesNotCascade(t *testing.T) {
	b := buildElimBracket(t, 4)
	_, err := b.Bootstrap()
	require.NoError(t, err)

	semi1 := findMatch(t, b, 1, 4)
	semi2 := findMatch(t, b, 2, 3)
	playMatch(t, b, semi1.ID, 1, 4)
	playMatch(t, b, semi2.ID, 2, 3)

	d := fileDispute(t, b, semi1.ID, 4)
	// denied: the original winner stands
	res, err := b.ResolveDispute(d.ID, models.OutcomeReporterDenied, nil, 99, "")
	require.NoError(t, err)

	assert.Equal(t, 1, *res.Match.WinnerParticipant)
	assert.Equal(t, models.MatchStatusResolved, res.Match.Status)

	// the final still holds both semifinal winners
	final := findMatch(t, b, 1, 2)
	assert.Equal(t, models.MatchStatusScheduled, final.Status)
}

func TestResolveDisputeOverturnRetractsPropagation(t *testing.T) {
	b := buildElimBracket(t, 4)
	_, err := b.Bootstrap()
	require.NoError(t, err)

	semi1 := findMatch(t, b, 1, 4)
	semi2 := findMatch(t, b, 2, 3)
	playMatch(t, b, semi1.ID, 1, 4)
	playMatch(t, b, semi2.ID, 2, 3)

	// the final is already paired 1 vs 2 when arbitration overturns semi1
	d := fileDispute(t, b, semi1.ID, 4)
	res, err := b.ResolveDispute(d.ID, models.OutcomeReporterUpheld, nil, 99, "score corrected")
	require.NoError(t, err)

	assert.Equal(t, 4, *res.Match.WinnerParticipant)
	assert.False(t, res.RolledBack)

	final := findMatch(t, b, 4, 2)
	assert.Equal(t, models.MatchStatusScheduled, final.Status)
	assert.Nil(t, final.WinnerParticipant)
}

func TestResolveDisputeRollsBackCompletedTournament(t *testing.T) {
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

	// the losing finalist contests the final and wins the dispute
	d := fileDispute(t, b, final.ID, 2)
	res, err = b.ResolveDispute(d.ID, models.OutcomeReporterUpheld, nil, 99, "proof accepted")
	require.NoError(t, err)

	// rollback and immediate re-completion with the corrected winner
	assert.True(t, res.RolledBack)
	require.True(t, res.Completed)
	assert.Equal(t, 2, *res.Match.WinnerParticipant)
	assert.Equal(t, 2, res.Placements[0].ParticipantID)
	assert.Equal(t, 1, res.Placements[1].ParticipantID)

	var rolledBackEvent bool
	for _, ev := range res.Events {
		if ev.Type == models.EventTournamentRolledBack {
			rolledBackEvent = true
		}
	}
	assert.True(t, rolledBackEvent)
	assert.True(t, b.Completed())
}

func TestSemifinalOverturnAfterCompletionCascades(t *testing.T) {
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

	// overturning a semifinal unwinds the final as well
	d := fileDispute(t, b, semi1.ID, 4)
	res, err = b.ResolveDispute(d.ID, models.OutcomeReporterUpheld, nil, 99, "")
	require.NoError(t, err)

	assert.True(t, res.RolledBack)
	assert.False(t, res.Completed)
	assert.False(t, b.Completed())

	refought, err := b.Match(final.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusScheduled, refought.Status)
	assert.Nil(t, refought.WinnerParticipant)
	assert.Empty(t, refought.Submissions)
	assert.True(t, refought.HasParticipant(4))
	assert.True(t, refought.HasParticipant(2))

	// the bracket plays out again from the corrected pairing
	res = playMatch(t, b, final.ID, 4, 2)
	require.True(t, res.Completed)
	assert.Equal(t, 4, res.Placements[0].ParticipantID)
}

func TestRetractionClosesStaleOpenDispute(t *testing.T) {
	b := buildElimBracket(t, 4)
	_, err := b.Bootstrap()
	require.NoError(t, err)

	semi1 := findMatch(t, b, 1, 4)
	semi2 := findMatch(t, b, 2, 3)
	playMatch(t, b, semi1.ID, 1, 4)
	playMatch(t, b, semi2.ID, 2, 3)
	final := findMatch(t, b, 1, 2)
	playMatch(t, b, final.ID, 1, 2)

	// a dispute is open on the final when the semifinal gets overturned
	staleDispute := fileDispute(t, b, final.ID, 2)
	semiDispute := fileDispute(t, b, semi1.ID, 4)

	res, err := b.ResolveDispute(semiDispute.ID, models.OutcomeReporterUpheld, nil, 99, "")
	require.NoError(t, err)
	assert.True(t, res.RolledBack)

	// the stale dispute contested a pairing that no longer exists
	var closed *models.Dispute
	for _, d := range res.Disputes {
		if d.ID == staleDispute.ID {
			closed = d
		}
	}
	require.NotNil(t, closed, "stale dispute must be in the touched set")
	assert.Equal(t, models.DisputeStatusResolved, closed.Status)
	assert.Nil(t, closed.Outcome)
	require.NotNil(t, closed.ResolutionNote)
	assert.Contains(t, *closed.ResolutionNote, "superseded")
}

func TestVoidedMatchBlocksPlay(t *testing.T) {
	b := buildElimBracket(t, 4)
	_, err := b.Bootstrap()
	require.NoError(t, err)

	semi1 := findMatch(t, b, 1, 4)
	playMatch(t, b, semi1.ID, 1, 4)

	d := fileDispute(t, b, semi1.ID, 4)
	res, err := b.ResolveDispute(d.ID, models.OutcomeMatchVoided, nil, 99, "both cheated")
	require.NoError(t, err)

	assert.True(t, res.Match.Voided)
	assert.Nil(t, res.Match.WinnerParticipant)

	_, err = b.SubmitResult(semi1.ID, 1, 2, 1, "")
	assert.ErrorIs(t, err, ErrMatchVoided)
	_, err = b.ForceResolve(semi1.ID, 1)
	assert.ErrorIs(t, err, ErrMatchVoided)
}

func TestResolveDisputeUpheldBeneficiary(t *testing.T) {
	b := buildElimBracket(t, 2)
	m := findMatch(t, b, 1, 2)
	playMatch(t, b, m.ID, 1, 2)

	d := fileDispute(t, b, m.ID, 2)

	t.Run("beneficiary outside the match", func(t *testing.T) {
		outsider := 42
		_, err := b.ResolveDispute(d.ID, models.OutcomeReporterUpheld, &outsider, 99, "")
		assert.ErrorIs(t, err, ErrInvalidBeneficiary)
	})

	t.Run("invalid outcome", func(t *testing.T) {
		_, err := b.ResolveDispute(d.ID, models.DisputeOutcome("split"), nil, 99, "")
		assert.ErrorIs(t, err, ErrInvalidOutcome)
	})

	t.Run("unknown dispute", func(t *testing.T) {
		_, err := b.ResolveDispute(uuid.New(), models.OutcomeReporterUpheld, nil, 99, "")
		assert.ErrorIs(t, err, ErrDisputeNotFound)
	})
}
