package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus mirrors the match_status ENUM in the database.
//
// pending is the initial state of internal bracket nodes: at least one slot
// still awaits a winner from a child match. A match only becomes scheduled
// once both slots hold real participants.
type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusReported   MatchStatus = "reported"
	MatchStatusDisputed   MatchStatus = "disputed"
	MatchStatusResolved   MatchStatus = "resolved"
)

// matchTransitions is the allowed status graph. Resolved matches may move
// back to disputed (and from there to resolved again) through arbitration,
// and any non-terminal match may fall back to pending when a retraction
// cascade clears one of its slots.
var matchTransitions = map[MatchStatus][]MatchStatus{
	MatchStatusPending:    {MatchStatusScheduled, MatchStatusResolved},
	MatchStatusScheduled:  {MatchStatusInProgress, MatchStatusReported, MatchStatusResolved, MatchStatusPending},
	MatchStatusInProgress: {MatchStatusReported, MatchStatusResolved, MatchStatusPending},
	MatchStatusReported:   {MatchStatusResolved, MatchStatusDisputed, MatchStatusPending},
	MatchStatusDisputed:   {MatchStatusResolved, MatchStatusPending},
	MatchStatusResolved:   {MatchStatusDisputed, MatchStatusPending},
}

func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	for _, allowed := range matchTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Match is one node of a bracket. Leaves are seeded at generation time;
// internal nodes are filled slot by slot as child matches resolve. The winner
// advances into NextMatchID at slot WinnerToSlot (1 or 2); both are nil for
// the root and for league-style (round robin) matches.
type Match struct {
	ID                 uuid.UUID   `json:"id" db:"id"`
	TournamentID       int         `json:"tournament_id" db:"tournament_id"`
	Round              int         `json:"round" db:"round"`
	OrderInRound       int         `json:"order_in_round" db:"order_in_round"`
	Slot1ParticipantID *int        `json:"slot1_participant_id,omitempty" db:"slot1_participant_id"`
	Slot2ParticipantID *int        `json:"slot2_participant_id,omitempty" db:"slot2_participant_id"`
	Slot1Bye           bool        `json:"slot1_bye" db:"slot1_bye"`
	Slot2Bye           bool        `json:"slot2_bye" db:"slot2_bye"`
	Status             MatchStatus `json:"status" db:"status"`
	WinnerParticipant  *int        `json:"winner_participant_id,omitempty" db:"winner_participant_id"`
	NextMatchID        *uuid.UUID  `json:"next_match_id,omitempty" db:"next_match_id"`
	WinnerToSlot       *int        `json:"winner_to_slot,omitempty" db:"winner_to_slot"`
	Voided             bool        `json:"voided" db:"voided"`
	CreatedAt          time.Time   `json:"created_at" db:"created_at"`

	Submissions []ResultSubmission `json:"submissions,omitempty" db:"-"`
	Dispute     *Dispute           `json:"dispute,omitempty" db:"-"`
}

// SlotParticipant returns the participant occupying slot 1 or 2, nil if the
// slot is still TBD or holds a bye.
func (m *Match) SlotParticipant(slot int) *int {
	if slot == 1 {
		return m.Slot1ParticipantID
	}
	return m.Slot2ParticipantID
}

// SlotFilled reports whether the slot holds either a participant or a bye.
func (m *Match) SlotFilled(slot int) bool {
	if slot == 1 {
		return m.Slot1ParticipantID != nil || m.Slot1Bye
	}
	return m.Slot2ParticipantID != nil || m.Slot2Bye
}

// Ready reports whether both slots hold real participants.
func (m *Match) Ready() bool {
	return m.Slot1ParticipantID != nil && m.Slot2ParticipantID != nil
}

func (m *Match) HasParticipant(participantID int) bool {
	return (m.Slot1ParticipantID != nil && *m.Slot1ParticipantID == participantID) ||
		(m.Slot2ParticipantID != nil && *m.Slot2ParticipantID == participantID)
}

// Opponent returns the other real participant in the match, nil if that slot
// is TBD or a bye.
func (m *Match) Opponent(participantID int) *int {
	if m.Slot1ParticipantID != nil && *m.Slot1ParticipantID == participantID {
		return m.Slot2ParticipantID
	}
	if m.Slot2ParticipantID != nil && *m.Slot2ParticipantID == participantID {
		return m.Slot1ParticipantID
	}
	return nil
}

// SubmissionBy returns the participant's recorded submission, nil if absent.
func (m *Match) SubmissionBy(participantID int) *ResultSubmission {
	for i := range m.Submissions {
		if m.Submissions[i].ParticipantID == participantID {
			return &m.Submissions[i]
		}
	}
	return nil
}
