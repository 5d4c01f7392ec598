package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gamebay/tournament-engine/engine"
	"github.com/gamebay/tournament-engine/models"
	"github.com/gamebay/tournament-engine/repositories"
	"github.com/google/uuid"
)

type SubmitResultInput struct {
	OwnScore      int
	OpponentScore int
	EvidenceURL   string
}

type MatchService interface {
	Get(ctx context.Context, tournamentID int, matchID uuid.UUID) (*models.Match, error)
	// SubmitResult records the calling user's claimed outcome. The caller is
	// resolved to their participant entry; non-participants are rejected.
	SubmitResult(ctx context.Context, tournamentID int, matchID uuid.UUID, userID int, input SubmitResultInput) (*engine.Result, error)
	Start(ctx context.Context, tournamentID int, matchID uuid.UUID, actorUserID int, actorRole models.UserRole) (*models.Match, error)
	// ForceResolve settles a match with an operator-chosen winner (forfeits,
	// no-shows). Organizer or admin only.
	ForceResolve(ctx context.Context, tournamentID int, matchID uuid.UUID, winnerParticipantID int, actorUserID int, actorRole models.UserRole) (*engine.Result, error)
}

type matchService struct {
	bracketService  BracketService
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	committer       *Committer
	logger          *slog.Logger
}

func NewMatchService(
	bracketService BracketService,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	committer *Committer,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		bracketService:  bracketService,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		committer:       committer,
		logger:          logger,
	}
}

func (s *matchService) Get(ctx context.Context, tournamentID int, matchID uuid.UUID) (*models.Match, error) {
	b, err := s.bracketService.Bracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return b.Match(matchID)
}

func (s *matchService) SubmitResult(ctx context.Context, tournamentID int, matchID uuid.UUID, userID int, input SubmitResultInput) (*engine.Result, error) {
	t, err := s.inProgressTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	participant, err := s.participantRepo.FindByUserAndTournament(ctx, userID, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrNotTournamentParticipant
		}
		return nil, err
	}

	b, err := s.bracketService.Bracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	res, err := b.SubmitResult(matchID, participant.ID, input.OwnScore, input.OpponentScore, input.EvidenceURL)
	if err != nil {
		return nil, err
	}
	if err := s.committer.commit(ctx, t, res); err != nil {
		return nil, err
	}

	s.logger.Info("result submitted",
		slog.Int("tournament_id", tournamentID),
		slog.String("match_id", matchID.String()),
		slog.Int("participant_id", participant.ID),
		slog.String("match_status", string(res.Match.Status)))
	return res, nil
}

func (s *matchService) Start(ctx context.Context, tournamentID int, matchID uuid.UUID, actorUserID int, actorRole models.UserRole) (*models.Match, error) {
	t, err := s.inProgressTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOperator(t, actorUserID, actorRole); err != nil {
		return nil, err
	}

	b, err := s.bracketService.Bracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	res, err := b.StartMatch(matchID)
	if err != nil {
		return nil, err
	}
	if err := s.committer.commit(ctx, t, res); err != nil {
		return nil, err
	}
	return res.Match, nil
}

func (s *matchService) ForceResolve(ctx context.Context, tournamentID int, matchID uuid.UUID, winnerParticipantID int, actorUserID int, actorRole models.UserRole) (*engine.Result, error) {
	t, err := s.inProgressTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOperator(t, actorUserID, actorRole); err != nil {
		return nil, err
	}

	b, err := s.bracketService.Bracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	res, err := b.ForceResolve(matchID, winnerParticipantID)
	if err != nil {
		return nil, err
	}
	if err := s.committer.commit(ctx, t, res); err != nil {
		return nil, err
	}

	s.logger.Info("match force-resolved",
		slog.Int("tournament_id", tournamentID),
		slog.String("match_id", matchID.String()),
		slog.Int("winner_participant_id", winnerParticipantID),
		slog.Int("actor_user_id", actorUserID))
	return res, nil
}

func (s *matchService) inProgressTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if t.Status != models.StatusInProgress {
		return nil, fmt.Errorf("%w: status is %s", ErrTournamentNotReadyForResult, t.Status)
	}
	return t, nil
}

func (s *matchService) requireOperator(t *models.Tournament, actorUserID int, actorRole models.UserRole) error {
	if actorRole == models.RoleAdmin || t.OrganizerID == actorUserID {
		return nil
	}
	return ErrForbidden
}
