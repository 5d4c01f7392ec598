package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchStatusTransitions(t *testing.T) {
	testCases := []struct {
		from, to MatchStatus
		want     bool
	}{
		{MatchStatusPending, MatchStatusScheduled, true},
		{MatchStatusPending, MatchStatusResolved, true}, // bye walkthrough
		{MatchStatusPending, MatchStatusReported, false},
		{MatchStatusScheduled, MatchStatusInProgress, true},
		{MatchStatusScheduled, MatchStatusReported, true},
		{MatchStatusScheduled, MatchStatusDisputed, false},
		{MatchStatusInProgress, MatchStatusScheduled, false},
		{MatchStatusReported, MatchStatusDisputed, true},
		{MatchStatusReported, MatchStatusResolved, true},
		{MatchStatusDisputed, MatchStatusResolved, true},
		{MatchStatusResolved, MatchStatusDisputed, true},  // arbitration reopens
		{MatchStatusResolved, MatchStatusPending, true},   // retraction cascade
		{MatchStatusResolved, MatchStatusScheduled, false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestMatchSlotHelpers(t *testing.T) {
	p1, p2 := 7, 9
	m := &Match{Slot1ParticipantID: &p1, Slot2ParticipantID: &p2}

	assert.True(t, m.Ready())
	assert.True(t, m.HasParticipant(7))
	assert.False(t, m.HasParticipant(8))
	assert.Equal(t, 9, *m.Opponent(7))
	assert.Equal(t, 7, *m.Opponent(9))
	assert.Nil(t, m.Opponent(8))

	bye := &Match{Slot1ParticipantID: &p1, Slot2Bye: true}
	assert.False(t, bye.Ready())
	assert.True(t, bye.SlotFilled(2))
	assert.Nil(t, bye.SlotParticipant(2))
	assert.Nil(t, bye.Opponent(7))
}
