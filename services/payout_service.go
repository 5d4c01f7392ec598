package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gamebay/tournament-engine/engine"
	"github.com/gamebay/tournament-engine/models"
	"github.com/gamebay/tournament-engine/repositories"
	"github.com/google/uuid"
)

type PayoutService interface {
	ListByTournament(ctx context.Context, tournamentID int, status *models.PayoutStatus) ([]*models.PayoutRecord, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutRecord, error)
	MarkPaid(ctx context.Context, id uuid.UUID, transactionRef string) (*models.PayoutRecord, error)
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) (*models.PayoutRecord, error)
}

type payoutService struct {
	payoutRepo     repositories.PayoutRepository
	tournamentRepo repositories.TournamentRepository
}

func NewPayoutService(
	payoutRepo repositories.PayoutRepository,
	tournamentRepo repositories.TournamentRepository,
) PayoutService {
	return &payoutService{
		payoutRepo:     payoutRepo,
		tournamentRepo: tournamentRepo,
	}
}

func (s *payoutService) ListByTournament(ctx context.Context, tournamentID int, status *models.PayoutStatus) ([]*models.PayoutRecord, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return s.payoutRepo.ListByTournament(ctx, tournamentID, status)
}

func (s *payoutService) GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutRecord, error) {
	return s.payoutRepo.GetByID(ctx, id)
}

func (s *payoutService) MarkPaid(ctx context.Context, id uuid.UUID, transactionRef string) (*models.PayoutRecord, error) {
	if transactionRef == "" {
		return nil, fmt.Errorf("%w: transaction reference is required", ErrInvalidInput)
	}
	if err := s.payoutRepo.MarkPaid(ctx, id, transactionRef, time.Now()); err != nil {
		return nil, err
	}
	return s.payoutRepo.GetByID(ctx, id)
}

func (s *payoutService) MarkFailed(ctx context.Context, id uuid.UUID, reason string) (*models.PayoutRecord, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: failure reason is required", ErrInvalidInput)
	}
	if err := s.payoutRepo.MarkFailed(ctx, id, reason, time.Now()); err != nil {
		return nil, err
	}
	return s.payoutRepo.GetByID(ctx, id)
}

// computePayoutRecords derives prize obligations from final placements.
//
// The tournament's per-rank percentage shares map onto standings positions;
// participants sharing a rank split the combined share of the positions they
// occupy, evenly, rounding down in minor units. Remainder cents stay in the
// pool. Zero-amount records are not created.
func computePayoutRecords(t *models.Tournament, placements []engine.Placement, now time.Time) ([]*models.PayoutRecord, error) {
	if t.PrizePool <= 0 || len(placements) == 0 {
		return nil, nil
	}
	shares := t.PrizeShares()

	ordered := append([]engine.Placement(nil), placements...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Rank != ordered[j].Rank {
			return ordered[i].Rank < ordered[j].Rank
		}
		return ordered[i].ParticipantID < ordered[j].ParticipantID
	})

	var records []*models.PayoutRecord
	var total int64
	position := 1
	for i := 0; i < len(ordered); {
		j := i
		for j < len(ordered) && ordered[j].Rank == ordered[i].Rank {
			j++
		}
		group := ordered[i:j]

		combined := 0
		for k := range group {
			if pos := position + k; pos <= len(shares) {
				combined += shares[pos-1]
			}
		}
		perParticipant := t.PrizePool * int64(combined) / 100 / int64(len(group))

		if perParticipant > 0 {
			for _, p := range group {
				records = append(records, &models.PayoutRecord{
					ID:            uuid.New(),
					TournamentID:  t.ID,
					ParticipantID: p.ParticipantID,
					Placement:     p.Rank,
					Amount:        perParticipant,
					Status:        models.PayoutPending,
					CreatedAt:     now,
				})
				total += perParticipant
			}
		}
		position += len(group)
		i = j
	}

	if total > t.PrizePool {
		return nil, ErrPrizeSharesExceedPool
	}
	return records, nil
}
