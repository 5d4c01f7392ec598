package services

import "errors"

var (
	ErrForbidden    = errors.New("operation not permitted for this user")
	ErrInvalidInput = errors.New("invalid input")

	ErrTournamentNotFound          = errors.New("tournament not found")
	ErrInvalidStatusTransition     = errors.New("invalid tournament status transition")
	ErrRegistrationClosed          = errors.New("tournament registration is not open")
	ErrTournamentFull              = errors.New("tournament has reached its participant limit")
	ErrRosterLocked                = errors.New("roster is locked after bracket generation")
	ErrBracketAlreadyGenerated     = errors.New("bracket already generated for this tournament")
	ErrBracketNotGenerated         = errors.New("bracket has not been generated yet")
	ErrRegistrationNotClosed       = errors.New("registration must be closed before generating a bracket")
	ErrParticipantNotFound         = errors.New("participant not found")
	ErrNotTournamentParticipant    = errors.New("user is not a participant of this tournament")
	ErrTournamentNotCompleted      = errors.New("tournament is not completed")
	ErrPayoutsAlreadySeeded        = errors.New("payout records already exist for this tournament")
	ErrPrizeSharesExceedPool       = errors.New("prize shares exceed the prize pool")
	ErrEmailAlreadyExists          = errors.New("email address is already registered")
	ErrInvalidCredentials          = errors.New("invalid email or password")
	ErrUserNotFound                = errors.New("user not found")
	ErrPaymentAlreadyConfirmed     = errors.New("payment already confirmed")
	ErrEvidenceUploadFailed        = errors.New("failed to upload evidence file")
	ErrTournamentNotReadyForResult = errors.New("tournament is not in progress")
)
