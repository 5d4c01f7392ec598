package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gamebay/tournament-engine/models"
	"github.com/gamebay/tournament-engine/repositories"
)

type ParticipantService interface {
	// Register enters a user into a tournament. Registration must be open, the
	// participant limit not reached, and the roster not yet locked by bracket
	// generation.
	Register(ctx context.Context, tournamentID, userID int, gameTag string) (*models.Participant, error)
	ConfirmPayment(ctx context.Context, tournamentID, participantID int, actorUserID int, actorRole models.UserRole) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
}

type participantService struct {
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	logger          *slog.Logger
}

func NewParticipantService(
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		logger:          logger,
	}
}

func (s *participantService) Register(ctx context.Context, tournamentID, userID int, gameTag string) (*models.Participant, error) {
	if gameTag == "" {
		return nil, fmt.Errorf("%w: game_tag is required", ErrInvalidInput)
	}
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if t.Status != models.StatusRegistrationOpen {
		return nil, ErrRegistrationClosed
	}
	if t.BracketGeneratedAt != nil {
		return nil, ErrRosterLocked
	}

	count, err := s.participantRepo.CountByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if count >= t.MaxParticipants {
		return nil, ErrTournamentFull
	}

	p := &models.Participant{
		UserID:        userID,
		TournamentID:  tournamentID,
		GameTag:       gameTag,
		PaymentStatus: models.PaymentPending,
	}
	if err := s.participantRepo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("participant registered",
		slog.Int("tournament_id", tournamentID),
		slog.Int("user_id", userID),
		slog.Int("participant_id", p.ID))
	return p, nil
}

func (s *participantService) ConfirmPayment(ctx context.Context, tournamentID, participantID int, actorUserID int, actorRole models.UserRole) (*models.Participant, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if actorRole != models.RoleAdmin && t.OrganizerID != actorUserID {
		return nil, ErrForbidden
	}

	p, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, err
	}
	if p.TournamentID != tournamentID {
		return nil, ErrParticipantNotFound
	}
	if p.PaymentStatus == models.PaymentSuccess {
		return nil, ErrPaymentAlreadyConfirmed
	}

	if err := s.participantRepo.UpdatePaymentStatus(ctx, participantID, models.PaymentSuccess); err != nil {
		return nil, err
	}
	p.PaymentStatus = models.PaymentSuccess
	return p, nil
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.participantRepo.ListByTournament(ctx, tournamentID, nil)
}
