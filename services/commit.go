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
)

// Committer persists an engine mutation to the database in one transaction and
// publishes the resulting events afterwards. The engine arena is the source of
// truth during a tournament; the database mirrors it so brackets survive a
// restart.
type Committer struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	submissionRepo repositories.SubmissionRepository
	disputeRepo    repositories.DisputeRepository
	payoutRepo     repositories.PayoutRepository
	hub            *brackets.Hub
	logger         *slog.Logger
}

func NewCommitter(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	submissionRepo repositories.SubmissionRepository,
	disputeRepo repositories.DisputeRepository,
	payoutRepo repositories.PayoutRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) *Committer {
	return &Committer{
		db:             db,
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		submissionRepo: submissionRepo,
		disputeRepo:    disputeRepo,
		payoutRepo:     payoutRepo,
		hub:            hub,
		logger:         logger,
	}
}

// commit writes every match and dispute the operation touched, applies
// completion and rollback side effects on the tournament row, and seeds or
// supersedes payout records as needed. Events publish only after the
// transaction commits; publication is best-effort.
func (c *Committer) commit(ctx context.Context, t *models.Tournament, res *engine.Result) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range res.Updated {
		if err := c.matchRepo.Update(ctx, tx, m); err != nil {
			return fmt.Errorf("failed to persist match %s: %w", m.ID, err)
		}
		if err := c.submissionRepo.ReplaceForMatch(ctx, tx, m.ID, m.Submissions); err != nil {
			return fmt.Errorf("failed to persist submissions for match %s: %w", m.ID, err)
		}
	}

	for _, d := range res.Disputes {
		if err := c.disputeRepo.Update(ctx, tx, d); err != nil {
			if !errors.Is(err, repositories.ErrDisputeNotFound) {
				return fmt.Errorf("failed to persist dispute %s: %w", d.ID, err)
			}
			if err := c.disputeRepo.Create(ctx, tx, d); err != nil {
				return fmt.Errorf("failed to create dispute %s: %w", d.ID, err)
			}
			// Create stores only the open-state columns; a dispute filed and
			// resolved in the same operation needs its resolution written too.
			if d.Status == models.DisputeStatusResolved {
				if err := c.disputeRepo.Update(ctx, tx, d); err != nil {
					return fmt.Errorf("failed to persist dispute %s: %w", d.ID, err)
				}
			}
		}
	}

	events := res.Events

	if res.RolledBack {
		if err := c.tournamentRepo.UpdateStatus(ctx, tx, t.ID, models.StatusInProgress); err != nil {
			return fmt.Errorf("failed to roll back tournament %d status: %w", t.ID, err)
		}
		if err := c.tournamentRepo.UpdateWinner(ctx, tx, t.ID, nil); err != nil {
			return fmt.Errorf("failed to clear tournament %d winner: %w", t.ID, err)
		}
		if err := c.payoutRepo.SupersedePending(ctx, tx, t.ID); err != nil {
			return fmt.Errorf("failed to supersede payouts for tournament %d: %w", t.ID, err)
		}
		t.Status = models.StatusInProgress
		t.WinnerParticipant = nil
	}

	if res.Completed {
		var winnerID *int
		for _, p := range res.Placements {
			if p.Rank == 1 {
				id := p.ParticipantID
				winnerID = &id
				break
			}
		}
		if err := c.tournamentRepo.UpdateStatus(ctx, tx, t.ID, models.StatusCompleted); err != nil {
			return fmt.Errorf("failed to complete tournament %d: %w", t.ID, err)
		}
		if err := c.tournamentRepo.UpdateWinner(ctx, tx, t.ID, winnerID); err != nil {
			return fmt.Errorf("failed to set tournament %d winner: %w", t.ID, err)
		}
		t.Status = models.StatusCompleted
		t.WinnerParticipant = winnerID

		records, err := computePayoutRecords(t, res.Placements, time.Now())
		if err != nil {
			return fmt.Errorf("failed to compute payouts for tournament %d: %w", t.ID, err)
		}
		if len(records) > 0 {
			if err := c.payoutRepo.CreateBatch(ctx, tx, records); err != nil {
				return fmt.Errorf("failed to seed payouts for tournament %d: %w", t.ID, err)
			}
			events = append(events, models.Event{
				Type:         models.EventPayoutPending,
				TournamentID: t.ID,
				Payload:      records,
			})
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	c.publish(events)
	return nil
}

func (c *Committer) publish(events []models.Event) {
	if c.hub == nil {
		return
	}
	for _, ev := range events {
		c.hub.PublishEvent(ev)
		c.logger.Debug("event published",
			slog.String("type", string(ev.Type)),
			slog.Int("tournament_id", ev.TournamentID))
	}
}
