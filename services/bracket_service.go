package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gamebay/tournament-engine/brackets"
	"github.com/gamebay/tournament-engine/engine"
	"github.com/gamebay/tournament-engine/models"
	"github.com/gamebay/tournament-engine/repositories"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type GenerateBracketOptions struct {
	// Force lets an organizer generate before the registration window closes
	// and drops participants whose payment never settled instead of failing.
	Force bool
}

type BracketService interface {
	Generate(ctx context.Context, tournamentID int, actorUserID int, actorRole models.UserRole, opts GenerateBracketOptions) ([]*models.Match, error)
	// Bracket returns the live arena for a tournament, hydrating it from
	// storage on first access after a restart.
	Bracket(ctx context.Context, tournamentID int) (*engine.Bracket, error)
	ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type bracketService struct {
	db              *sql.DB
	registry        *engine.Registry
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	submissionRepo  repositories.SubmissionRepository
	disputeRepo     repositories.DisputeRepository
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewBracketService(
	db *sql.DB,
	registry *engine.Registry,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	submissionRepo repositories.SubmissionRepository,
	disputeRepo repositories.DisputeRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:              db,
		registry:        registry,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		submissionRepo:  submissionRepo,
		disputeRepo:     disputeRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *bracketService) Generate(ctx context.Context, tournamentID int, actorUserID int, actorRole models.UserRole, opts GenerateBracketOptions) ([]*models.Match, error) {
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
	if t.BracketGeneratedAt != nil {
		return nil, ErrBracketAlreadyGenerated
	}
	switch t.Status {
	case models.StatusRegistrationClosed:
	case models.StatusRegistrationOpen:
		if !opts.Force {
			return nil, ErrRegistrationNotClosed
		}
	default:
		return nil, ErrRegistrationNotClosed
	}

	all, err := s.participantRepo.ListByTournament(ctx, tournamentID, nil)
	if err != nil {
		return nil, err
	}
	roster := make([]*models.Participant, 0, len(all))
	for _, p := range all {
		if p.PaymentStatus == models.PaymentSuccess {
			roster = append(roster, p)
		}
	}
	if !opts.Force && len(roster) != len(all) {
		return nil, brackets.ErrRosterNotConfirmed
	}

	generator, err := brackets.ForFormat(t.Format)
	if err != nil {
		return nil, err
	}
	matches, err := generator.GenerateBracket(ctx, brackets.GenerateBracketParams{
		Tournament: t,
		Roster:     roster,
	})
	if err != nil {
		return nil, err
	}

	bracket, err := engine.NewBracket(tournamentID, matches, nil)
	if err != nil {
		return nil, err
	}
	boot, err := bracket.Bootstrap()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// MarkBracketGenerated carries the guard against a concurrent generation
	// for the same tournament; the second writer fails here and rolls back.
	if err := s.tournamentRepo.MarkBracketGenerated(ctx, tx, tournamentID, now); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrBracketAlreadyGenerated
		}
		return nil, err
	}
	if err := s.matchRepo.CreateBatch(ctx, tx, bracket.Matches()); err != nil {
		return nil, err
	}
	if t.Status == models.StatusRegistrationOpen {
		if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusRegistrationClosed); err != nil {
			return nil, err
		}
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusInProgress); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.registry.Put(bracket)
	s.logger.Info("bracket generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("format", string(t.Format)),
		slog.Int("roster_size", len(roster)),
		slog.Int("matches", len(matches)))

	if s.hub != nil {
		s.hub.PublishEvent(models.Event{
			Type:         models.EventBracketGenerated,
			TournamentID: tournamentID,
			Payload: map[string]interface{}{
				"format":      t.Format,
				"roster_size": len(roster),
				"matches":     len(matches),
			},
		})
		for _, ev := range boot.Events {
			s.hub.PublishEvent(ev)
		}
	}
	return bracket.Matches(), nil
}

func (s *bracketService) Bracket(ctx context.Context, tournamentID int) (*engine.Bracket, error) {
	if b, ok := s.registry.Get(tournamentID); ok {
		return b, nil
	}

	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	if t.BracketGeneratedAt == nil {
		return nil, ErrBracketNotGenerated
	}

	var (
		matches     []*models.Match
		disputes    []*models.Dispute
		subsByMatch map[uuid.UUID][]models.ResultSubmission
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		subsByMatch, err = s.submissionRepo.ListByTournament(gctx, tournamentID)
		return err
	})
	g.Go(func() error {
		var err error
		disputes, err = s.disputeRepo.ListByTournament(gctx, tournamentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to hydrate bracket for tournament %d: %w", tournamentID, err)
	}

	for _, m := range matches {
		m.Submissions = subsByMatch[m.ID]
	}

	bracket, err := engine.NewBracket(tournamentID, matches, disputes)
	if err != nil {
		return nil, err
	}
	return s.registry.LoadOrStore(bracket), nil
}

func (s *bracketService) ListMatches(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	b, err := s.Bracket(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return b.Matches(), nil
}
