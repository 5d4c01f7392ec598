package services

import (
	"testing"
	"time"

	"github.com/gamebay/tournament-engine/engine"
	"github.com/gamebay/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func payoutTournament(pool int64, shares *string) *models.Tournament {
	return &models.Tournament{
		ID:              1,
		Name:            "payout test",
		Format:          models.FormatSingleElimination,
		PrizePool:       pool,
		PrizeSharesJSON: shares,
	}
}

func amountsByParticipant(records []*models.PayoutRecord) map[int]int64 {
	out := make(map[int]int64, len(records))
	for _, r := range records {
		out[r.ParticipantID] = r.Amount
	}
	return out
}

func TestComputePayoutRecordsDefaultSplit(t *testing.T) {
	placements := []engine.Placement{
		{ParticipantID: 10, Rank: 1},
		{ParticipantID: 20, Rank: 2},
		{ParticipantID: 30, Rank: 3},
	}

	records, err := computePayoutRecords(payoutTournament(100_000, nil), placements, time.Now())
	require.NoError(t, err)
	require.Len(t, records, 3)

	amounts := amountsByParticipant(records)
	assert.Equal(t, int64(60_000), amounts[10])
	assert.Equal(t, int64(30_000), amounts[20])
	assert.Equal(t, int64(10_000), amounts[30])

	for _, r := range records {
		assert.Equal(t, models.PayoutPending, r.Status)
		assert.Equal(t, 1, r.TournamentID)
	}
}

func TestComputePayoutRecordsJointRankSplitsShares(t *testing.T) {
	// two participants share 3rd: they split the share of the positions they
	// occupy (3rd pays 10%, 4th pays nothing), 5% of the pool each
	placements := []engine.Placement{
		{ParticipantID: 1, Rank: 1},
		{ParticipantID: 2, Rank: 2},
		{ParticipantID: 3, Rank: 3},
		{ParticipantID: 4, Rank: 3},
	}

	records, err := computePayoutRecords(payoutTournament(100_000, nil), placements, time.Now())
	require.NoError(t, err)
	require.Len(t, records, 4)

	amounts := amountsByParticipant(records)
	assert.Equal(t, int64(60_000), amounts[1])
	assert.Equal(t, int64(30_000), amounts[2])
	assert.Equal(t, int64(5_000), amounts[3])
	assert.Equal(t, int64(5_000), amounts[4])
}

func TestComputePayoutRecordsJointFirst(t *testing.T) {
	// co-champions take positions 1 and 2 together: (60+30)/2 = 45% each
	placements := []engine.Placement{
		{ParticipantID: 1, Rank: 1},
		{ParticipantID: 2, Rank: 1},
		{ParticipantID: 3, Rank: 3},
	}

	records, err := computePayoutRecords(payoutTournament(100_000, nil), placements, time.Now())
	require.NoError(t, err)

	amounts := amountsByParticipant(records)
	assert.Equal(t, int64(45_000), amounts[1])
	assert.Equal(t, int64(45_000), amounts[2])
	assert.Equal(t, int64(10_000), amounts[3])
}

func TestComputePayoutRecordsSkipsZeroAmounts(t *testing.T) {
	// a tiny pool floors the lower shares to zero; no zero-amount rows
	placements := []engine.Placement{
		{ParticipantID: 1, Rank: 1},
		{ParticipantID: 2, Rank: 2},
		{ParticipantID: 3, Rank: 3},
		{ParticipantID: 4, Rank: 3},
	}

	records, err := computePayoutRecords(payoutTournament(3, nil), placements, time.Now())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].ParticipantID)
	assert.Equal(t, int64(1), records[0].Amount)
}

func TestComputePayoutRecordsRejectsOversubscribedShares(t *testing.T) {
	shares := "[80, 40]"
	placements := []engine.Placement{
		{ParticipantID: 1, Rank: 1},
		{ParticipantID: 2, Rank: 2},
	}

	_, err := computePayoutRecords(payoutTournament(100_000, &shares), placements, time.Now())
	assert.ErrorIs(t, err, ErrPrizeSharesExceedPool)
}

func TestComputePayoutRecordsNoPoolNoRecords(t *testing.T) {
	placements := []engine.Placement{{ParticipantID: 1, Rank: 1}}

	records, err := computePayoutRecords(payoutTournament(0, nil), placements, time.Now())
	require.NoError(t, err)
	assert.Nil(t, records)

	records, err = computePayoutRecords(payoutTournament(100_000, nil), nil, time.Now())
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestComputePayoutRecordsMalformedSharesFallBack(t *testing.T) {
	shares := "not json"
	placements := []engine.Placement{{ParticipantID: 1, Rank: 1}}

	records, err := computePayoutRecords(payoutTournament(100_000, &shares), placements, time.Now())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(60_000), records[0].Amount)
}
