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

type FileDisputeInput struct {
	Reason   string
	Evidence []string
}

type ResolveDisputeInput struct {
	Outcome models.DisputeOutcome
	// BeneficiaryParticipantID names the true winner for reporter_upheld when
	// it is not the reporter (score corrected in the opponent's favor).
	BeneficiaryParticipantID *int
	Note                     string
}

type DisputeService interface {
	// File opens a dispute against a reported or resolved match on behalf of
	// the calling user, who must be one of the match's participants.
	File(ctx context.Context, tournamentID int, matchID uuid.UUID, userID int, input FileDisputeInput) (*engine.Result, error)
	// Resolve closes a dispute with an authoritative outcome. Overturning a
	// propagated result retracts everything derived from it, up to and
	// including rolling back a completed tournament.
	Resolve(ctx context.Context, tournamentID int, disputeID uuid.UUID, actorUserID int, actorRole models.UserRole, input ResolveDisputeInput) (*engine.Result, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Dispute, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
}

type disputeService struct {
	bracketService  BracketService
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	disputeRepo     repositories.DisputeRepository
	committer       *Committer
	logger          *slog.Logger
}

func NewDisputeService(
	bracketService BracketService,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	disputeRepo repositories.DisputeRepository,
	committer *Committer,
	logger *slog.Logger,
) DisputeService {
	return &disputeService{
		bracketService:  bracketService,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		disputeRepo:     disputeRepo,
		committer:       committer,
		logger:          logger,
	}
}

// disputableTournament allows disputes while a tournament runs and after it
// completes; a finals result can still be contested within arbitration policy.
func (s *disputeService) disputableTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	switch t.Status {
	case models.StatusInProgress, models.StatusCompleted:
		return t, nil
	default:
		return nil, fmt.Errorf("%w: status is %s", ErrTournamentNotReadyForResult, t.Status)
	}
}

func (s *disputeService) File(ctx context.Context, tournamentID int, matchID uuid.UUID, userID int, input FileDisputeInput) (*engine.Result, error) {
	t, err := s.disputableTournament(ctx, tournamentID)
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
	res, err := b.FileDispute(matchID, participant.ID, input.Reason, input.Evidence)
	if err != nil {
		return nil, err
	}
	if err := s.committer.commit(ctx, t, res); err != nil {
		return nil, err
	}

	s.logger.Info("dispute filed",
		slog.Int("tournament_id", tournamentID),
		slog.String("match_id", matchID.String()),
		slog.String("dispute_id", res.Dispute.ID.String()),
		slog.Int("reporter_participant_id", participant.ID))
	return res, nil
}

func (s *disputeService) Resolve(ctx context.Context, tournamentID int, disputeID uuid.UUID, actorUserID int, actorRole models.UserRole, input ResolveDisputeInput) (*engine.Result, error) {
	t, err := s.disputableTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if actorRole != models.RoleAdmin && t.OrganizerID != actorUserID {
		return nil, ErrForbidden
	}

	b, err := s.bracketService.Bracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	res, err := b.ResolveDispute(disputeID, input.Outcome, input.BeneficiaryParticipantID, actorUserID, input.Note)
	if err != nil {
		return nil, err
	}
	if err := s.committer.commit(ctx, t, res); err != nil {
		return nil, err
	}

	s.logger.Info("dispute resolved",
		slog.Int("tournament_id", tournamentID),
		slog.String("dispute_id", disputeID.String()),
		slog.String("outcome", string(input.Outcome)),
		slog.Bool("rolled_back", res.RolledBack))
	return res, nil
}

func (s *disputeService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Dispute, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.disputeRepo.ListByTournament(ctx, tournamentID)
}

func (s *disputeService) GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	return s.disputeRepo.GetByID(ctx, id)
}
