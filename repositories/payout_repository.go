package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrPayoutNotFound   = errors.New("payout record not found")
	ErrPayoutNotPending = errors.New("payout record is not pending")
	ErrPayoutInvalid    = errors.New("payout references an unknown tournament or participant")
)

type PayoutRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, records []*models.PayoutRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutRecord, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.PayoutStatus) ([]*models.PayoutRecord, error)
	// MarkPaid and MarkFailed only move pending records; paid and failed are terminal.
	MarkPaid(ctx context.Context, id uuid.UUID, transactionRef string, settledAt time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string, settledAt time.Time) error
	// SupersedePending flips every still-pending record of a tournament to
	// superseded when arbitration overturns the placements they were seeded from.
	SupersedePending(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresPayoutRepository struct {
	db *sql.DB
}

func NewPostgresPayoutRepository(db *sql.DB) PayoutRepository {
	return &postgresPayoutRepository{db: db}
}

const payoutColumns = `
	id, tournament_id, participant_id, placement, amount, status,
	transaction_ref, failure_reason, created_at, settled_at`

func (r *postgresPayoutRepository) CreateBatch(ctx context.Context, exec SQLExecutor, records []*models.PayoutRecord) error {
	query := `
		INSERT INTO payout_records (id, tournament_id, participant_id, placement, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, p := range records {
		if _, err := exec.ExecContext(ctx, query,
			p.ID, p.TournamentID, p.ParticipantID, p.Placement, p.Amount, p.Status, p.CreatedAt,
		); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) {
				switch pqErr.Constraint {
				case "payout_records_tournament_id_fkey", "payout_records_participant_id_fkey":
					return ErrPayoutInvalid
				}
			}
			return fmt.Errorf("failed to insert payout record %s: %w", p.ID, err)
		}
	}
	return nil
}

func (r *postgresPayoutRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PayoutRecord, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_records WHERE id = $1`

	p := &models.PayoutRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.TournamentID, &p.ParticipantID, &p.Placement, &p.Amount, &p.Status,
		&p.TransactionRef, &p.FailureReason, &p.CreatedAt, &p.SettledAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to scan payout record %s: %w", id, err)
	}
	return p, nil
}

func (r *postgresPayoutRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.PayoutStatus) ([]*models.PayoutRecord, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_records WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY placement ASC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payout records for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	records := make([]*models.PayoutRecord, 0)
	for rows.Next() {
		p := &models.PayoutRecord{}
		if err := rows.Scan(
			&p.ID, &p.TournamentID, &p.ParticipantID, &p.Placement, &p.Amount, &p.Status,
			&p.TransactionRef, &p.FailureReason, &p.CreatedAt, &p.SettledAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payout record row: %w", err)
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

func (r *postgresPayoutRepository) MarkPaid(ctx context.Context, id uuid.UUID, transactionRef string, settledAt time.Time) error {
	query := `
		UPDATE payout_records
		SET status = $1, transaction_ref = $2, settled_at = $3
		WHERE id = $4 AND status = $5`

	result, err := r.db.ExecContext(ctx, query,
		models.PayoutPaid, transactionRef, settledAt, id, models.PayoutPending)
	if err != nil {
		return err
	}
	return r.checkPendingUpdate(ctx, result, id)
}

func (r *postgresPayoutRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string, settledAt time.Time) error {
	query := `
		UPDATE payout_records
		SET status = $1, failure_reason = $2, settled_at = $3
		WHERE id = $4 AND status = $5`

	result, err := r.db.ExecContext(ctx, query,
		models.PayoutFailed, reason, settledAt, id, models.PayoutPending)
	if err != nil {
		return err
	}
	return r.checkPendingUpdate(ctx, result, id)
}

func (r *postgresPayoutRepository) SupersedePending(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	query := `UPDATE payout_records SET status = $1 WHERE tournament_id = $2 AND status = $3`
	_, err := exec.ExecContext(ctx, query, models.PayoutSuperseded, tournamentID, models.PayoutPending)
	return err
}

// checkPendingUpdate distinguishes "no such record" from "record exists but is
// not pending" when a guarded update touched zero rows.
func (r *postgresPayoutRepository) checkPendingUpdate(ctx context.Context, result sql.Result, id uuid.UUID) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrPayoutNotPending
}
