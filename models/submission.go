package models

import (
	"time"

	"github.com/google/uuid"
)

// ResultSubmission is one player's claimed outcome for a match. At most one
// accepted submission exists per player per match; a later submission from the
// same player replaces their earlier one.
type ResultSubmission struct {
	ID            uuid.UUID `json:"id" db:"id"`
	MatchID       uuid.UUID `json:"match_id" db:"match_id"`
	ParticipantID int       `json:"participant_id" db:"participant_id"`
	OwnScore      int       `json:"own_score" db:"own_score"`
	OpponentScore int       `json:"opponent_score" db:"opponent_score"`
	EvidenceURL   string    `json:"evidence_url" db:"evidence_url"`
	SubmittedAt   time.Time `json:"submitted_at" db:"submitted_at"`
}

// ClaimedWinner returns the participant this submission says won. Scores are
// validated against ties before a submission is accepted.
func (s *ResultSubmission) ClaimedWinner(opponentID int) int {
	if s.OwnScore > s.OpponentScore {
		return s.ParticipantID
	}
	return opponentID
}
