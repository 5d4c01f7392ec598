package engine

import "errors"

// Expected, caller-recoverable conditions.
var (
	ErrMatchNotFound       = errors.New("match not found in bracket")
	ErrDisputeNotFound     = errors.New("dispute not found in bracket")
	ErrMatchNotJoinable    = errors.New("match is not open for result submission")
	ErrMatchNotStartable   = errors.New("match cannot be started in its current state")
	ErrMatchNotDisputable  = errors.New("match result cannot be disputed in its current state")
	ErrMatchVoided         = errors.New("match was voided by arbitration")
	ErrNotMatchParticipant = errors.New("participant is not part of this match")
	ErrScoreTie            = errors.New("tied scores cannot determine a winner, manual resolution required")
	ErrEvidenceRequired    = errors.New("at least one evidence item is required")
	ErrDisputeAlreadyOpen  = errors.New("a dispute is already open for this match")
	ErrDisputeNotOpen      = errors.New("dispute is already resolved")
	ErrInvalidOutcome      = errors.New("invalid dispute outcome")
	ErrInvalidBeneficiary  = errors.New("beneficiary is not a participant of the disputed match")
)

// ErrIntegrity marks structural invariant violations (slot overwrite with a
// different winner, malformed tree). These indicate a bug or a replayed
// event, are never silently swallowed, and leave the bracket untouched.
var ErrIntegrity = errors.New("bracket integrity violation")

// ErrSlotOccupied signals an advance that would overwrite a parent slot
// already holding a different winner. Wrapped by ErrIntegrity semantics.
var ErrSlotOccupied = errors.New("parent slot already occupied by a different participant")
