package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTournamentStatusTransitions(t *testing.T) {
	testCases := []struct {
		from, to TournamentStatus
		want     bool
	}{
		{StatusUpcoming, StatusRegistrationOpen, true},
		{StatusUpcoming, StatusInProgress, false},
		{StatusRegistrationOpen, StatusRegistrationClosed, true},
		{StatusRegistrationClosed, StatusInProgress, true},
		{StatusRegistrationClosed, StatusRegistrationOpen, true}, // reopen
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusRegistrationOpen, false},
		{StatusCompleted, StatusInProgress, true}, // arbitration rollback
		{StatusCompleted, StatusCanceled, false},
		{StatusCanceled, StatusUpcoming, false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestPrizeShares(t *testing.T) {
	custom := "[50, 25, 15, 10]"
	malformed := "fifty-fifty"
	empty := "[]"

	testCases := []struct {
		name   string
		column *string
		want   []int
	}{
		{name: "unset falls back to default", column: nil, want: DefaultPrizeShares},
		{name: "custom distribution", column: &custom, want: []int{50, 25, 15, 10}},
		{name: "malformed falls back to default", column: &malformed, want: DefaultPrizeShares},
		{name: "empty list falls back to default", column: &empty, want: DefaultPrizeShares},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tournament := &Tournament{PrizeSharesJSON: tc.column}
			assert.Equal(t, tc.want, tournament.PrizeShares())
		})
	}
}
