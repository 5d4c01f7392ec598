package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gamebay/tournament-engine/models"
	"github.com/gamebay/tournament-engine/repositories"
)

type CreateTournamentInput struct {
	Name            string
	Description     *string
	Format          models.TournamentFormat
	RegOpenDate     time.Time
	RegCloseDate    time.Time
	StartDate       time.Time
	MaxParticipants int
	PrizePool       int64
	PrizeShares     *string
}

type TournamentService interface {
	Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, id int, next models.TournamentStatus, actorUserID int, actorRole models.UserRole) (*models.Tournament, error)
	// AutoUpdateStatusesByDates advances tournaments whose registration window
	// boundaries have passed. Called periodically by the scheduler.
	AutoUpdateStatusesByDates(ctx context.Context) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	logger         *slog.Logger
}

func NewTournamentService(tournamentRepo repositories.TournamentRepository, logger *slog.Logger) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !input.Format.Valid() {
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidInput, input.Format)
	}
	if input.MaxParticipants < 2 {
		return nil, fmt.Errorf("%w: max_participants must be at least 2", ErrInvalidInput)
	}
	if input.PrizePool < 0 {
		return nil, fmt.Errorf("%w: prize_pool cannot be negative", ErrInvalidInput)
	}
	if input.RegOpenDate.After(input.RegCloseDate) || input.RegCloseDate.After(input.StartDate) {
		return nil, fmt.Errorf("%w: dates must satisfy reg_open <= reg_close <= start", ErrInvalidInput)
	}

	t := &models.Tournament{
		Name:            input.Name,
		Description:     input.Description,
		Format:          input.Format,
		OrganizerID:     organizerID,
		RegOpenDate:     input.RegOpenDate,
		RegCloseDate:    input.RegCloseDate,
		StartDate:       input.StartDate,
		Status:          models.StatusUpcoming,
		MaxParticipants: input.MaxParticipants,
		PrizePool:       input.PrizePool,
		PrizeSharesJSON: input.PrizeShares,
	}
	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("tournament created",
		slog.Int("tournament_id", t.ID),
		slog.Int("organizer_id", organizerID),
		slog.String("format", string(t.Format)))
	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	return s.tournamentRepo.List(ctx, filter)
}

func (s *tournamentService) UpdateStatus(ctx context.Context, id int, next models.TournamentStatus, actorUserID int, actorRole models.UserRole) (*models.Tournament, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, next)
	}
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actorRole != models.RoleAdmin && t.OrganizerID != actorUserID {
		return nil, ErrForbidden
	}
	if !t.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, t.Status, next)
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, nil, id, next); err != nil {
		return nil, err
	}
	t.Status = next

	s.logger.Info("tournament status updated",
		slog.Int("tournament_id", id),
		slog.String("status", string(next)))
	return t, nil
}

func (s *tournamentService) AutoUpdateStatusesByDates(ctx context.Context) error {
	now := time.Now()
	due, err := s.tournamentRepo.ListDueForStatusUpdate(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to list tournaments due for status update: %w", err)
	}

	for _, t := range due {
		var next models.TournamentStatus
		switch {
		case t.Status == models.StatusUpcoming && !t.RegOpenDate.After(now):
			next = models.StatusRegistrationOpen
		case t.Status == models.StatusRegistrationOpen && !t.RegCloseDate.After(now):
			next = models.StatusRegistrationClosed
		default:
			continue
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, nil, t.ID, next); err != nil {
			s.logger.Error("failed to auto-update tournament status",
				slog.Int("tournament_id", t.ID),
				slog.String("next", string(next)),
				slog.Any("error", err))
			continue
		}
		s.logger.Info("tournament status auto-updated",
			slog.Int("tournament_id", t.ID),
			slog.String("from", string(t.Status)),
			slog.String("to", string(next)))
	}
	return nil
}
