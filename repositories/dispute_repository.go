package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gamebay/tournament-engine/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrDisputeNotFound = errors.New("dispute not found")
	ErrDisputeConflict = errors.New("an open dispute already exists for this match")
	ErrDisputeInvalid  = errors.New("dispute references an unknown match or participant")
)

type DisputeRepository interface {
	Create(ctx context.Context, exec SQLExecutor, dispute *models.Dispute) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error)
	// Update persists the resolution fields of an existing dispute row.
	Update(ctx context.Context, exec SQLExecutor, dispute *models.Dispute) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Dispute, error)
	FindOpenByMatch(ctx context.Context, matchID uuid.UUID) (*models.Dispute, error)
}

type postgresDisputeRepository struct {
	db *sql.DB
}

func NewPostgresDisputeRepository(db *sql.DB) DisputeRepository {
	return &postgresDisputeRepository{db: db}
}

const disputeColumns = `
	id, match_id, tournament_id, reporter_participant_id, reason, evidence,
	status, outcome, resolved_by_user_id, resolution_note, created_at, resolved_at`

func (r *postgresDisputeRepository) Create(ctx context.Context, exec SQLExecutor, d *models.Dispute) error {
	query := `
		INSERT INTO disputes (
			id, match_id, tournament_id, reporter_participant_id, reason, evidence,
			status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := exec.ExecContext(ctx, query,
		d.ID, d.MatchID, d.TournamentID, d.ReporterParticipantID, d.Reason,
		pq.Array(d.Evidence), d.Status, d.CreatedAt,
	)
	return r.handleError(err)
}

func (r *postgresDisputeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresDisputeRepository) Update(ctx context.Context, exec SQLExecutor, d *models.Dispute) error {
	query := `
		UPDATE disputes SET
			status = $1, outcome = $2, resolved_by_user_id = $3,
			resolution_note = $4, resolved_at = $5
		WHERE id = $6`

	result, err := exec.ExecContext(ctx, query,
		d.Status, d.Outcome, d.ResolvedByUserID, d.ResolutionNote, d.ResolvedAt, d.ID)
	if err != nil {
		return r.handleError(err)
	}
	return checkAffectedRows(result, ErrDisputeNotFound)
}

func (r *postgresDisputeRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE tournament_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query disputes for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	disputes := make([]*models.Dispute, 0)
	for rows.Next() {
		d := &models.Dispute{}
		if err := rows.Scan(
			&d.ID, &d.MatchID, &d.TournamentID, &d.ReporterParticipantID, &d.Reason,
			pq.Array(&d.Evidence), &d.Status, &d.Outcome, &d.ResolvedByUserID,
			&d.ResolutionNote, &d.CreatedAt, &d.ResolvedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan dispute row: %w", err)
		}
		disputes = append(disputes, d)
	}
	return disputes, rows.Err()
}

func (r *postgresDisputeRepository) FindOpenByMatch(ctx context.Context, matchID uuid.UUID) (*models.Dispute, error) {
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE match_id = $1 AND status = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, matchID, models.DisputeStatusOpen))
}

func (r *postgresDisputeRepository) scanOne(row *sql.Row) (*models.Dispute, error) {
	d := &models.Dispute{}
	err := row.Scan(
		&d.ID, &d.MatchID, &d.TournamentID, &d.ReporterParticipantID, &d.Reason,
		pq.Array(&d.Evidence), &d.Status, &d.Outcome, &d.ResolvedByUserID,
		&d.ResolutionNote, &d.CreatedAt, &d.ResolvedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDisputeNotFound
		}
		return nil, fmt.Errorf("failed to scan dispute: %w", err)
	}
	return d, nil
}

func (r *postgresDisputeRepository) handleError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "disputes_one_open_per_match":
			return ErrDisputeConflict
		case "disputes_match_id_fkey", "disputes_tournament_id_fkey",
			"disputes_reporter_participant_id_fkey":
			return ErrDisputeInvalid
		}
	}
	return err
}
