package models

import (
	"time"

	"github.com/google/uuid"
)

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "open"
	DisputeStatusResolved DisputeStatus = "resolved"
)

type DisputeOutcome string

const (
	OutcomeReporterUpheld DisputeOutcome = "reporter_upheld"
	OutcomeReporterDenied DisputeOutcome = "reporter_denied"
	OutcomeMatchVoided    DisputeOutcome = "match_voided"
)

func (o DisputeOutcome) Valid() bool {
	switch o {
	case OutcomeReporterUpheld, OutcomeReporterDenied, OutcomeMatchVoided:
		return true
	}
	return false
}

// Dispute contests a reported or resolved match result. Resolved disputes are
// never deleted; they stay on record for audit.
type Dispute struct {
	ID                    uuid.UUID       `json:"id" db:"id"`
	MatchID               uuid.UUID       `json:"match_id" db:"match_id"`
	TournamentID          int             `json:"tournament_id" db:"tournament_id"`
	ReporterParticipantID int             `json:"reporter_participant_id" db:"reporter_participant_id"`
	Reason                string          `json:"reason" db:"reason"`
	Evidence              []string        `json:"evidence" db:"evidence"`
	Status                DisputeStatus   `json:"status" db:"status"`
	Outcome               *DisputeOutcome `json:"outcome,omitempty" db:"outcome"`
	ResolvedByUserID      *int            `json:"resolved_by_user_id,omitempty" db:"resolved_by_user_id"`
	ResolutionNote        *string         `json:"resolution_note,omitempty" db:"resolution_note"`
	CreatedAt             time.Time       `json:"created_at" db:"created_at"`
	ResolvedAt            *time.Time      `json:"resolved_at,omitempty" db:"resolved_at"`
}
