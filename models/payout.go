package models

import (
	"time"

	"github.com/google/uuid"
)

type PayoutStatus string

const (
	PayoutPending PayoutStatus = "pending"
	PayoutPaid    PayoutStatus = "paid"
	PayoutFailed  PayoutStatus = "failed"
	// PayoutSuperseded marks records seeded from placements that were later
	// overturned by arbitration. They are kept for audit, never settled.
	PayoutSuperseded PayoutStatus = "superseded"
)

// PayoutRecord is a prize obligation derived from final placements. paid and
// failed are terminal; a failed payout is retried by creating a follow-up
// record, not by mutating the failed one.
type PayoutRecord struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	TournamentID   int          `json:"tournament_id" db:"tournament_id"`
	ParticipantID  int          `json:"participant_id" db:"participant_id"`
	Placement      int          `json:"placement" db:"placement"`
	Amount         int64        `json:"amount" db:"amount"` // minor currency units
	Status         PayoutStatus `json:"status" db:"status"`
	TransactionRef *string      `json:"transaction_ref,omitempty" db:"transaction_ref"`
	FailureReason  *string      `json:"failure_reason,omitempty" db:"failure_reason"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	SettledAt      *time.Time   `json:"settled_at,omitempty" db:"settled_at"`
}
