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
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchParticipantInvalid = errors.New("match references an unknown participant")
	ErrMatchTournamentInvalid  = errors.New("match references an unknown tournament")
)

type MatchRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	// Update persists every engine-mutable field of one match.
	Update(ctx context.Context, exec SQLExecutor, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
	id, tournament_id, round, order_in_round, slot1_participant_id, slot2_participant_id,
	slot1_bye, slot2_bye, status, winner_participant_id, next_match_id, winner_to_slot,
	voided, created_at`

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	query := `
		INSERT INTO matches (
			id, tournament_id, round, order_in_round, slot1_participant_id, slot2_participant_id,
			slot1_bye, slot2_bye, status, winner_participant_id, next_match_id, winner_to_slot,
			voided, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	for _, m := range matches {
		if _, err := exec.ExecContext(ctx, query,
			m.ID, m.TournamentID, m.Round, m.OrderInRound, m.Slot1ParticipantID, m.Slot2ParticipantID,
			m.Slot1Bye, m.Slot2Bye, m.Status, m.WinnerParticipant, m.NextMatchID, m.WinnerToSlot,
			m.Voided, m.CreatedAt,
		); err != nil {
			return r.handleError(fmt.Errorf("failed to insert match %s: %w", m.ID, err))
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TournamentID, &m.Round, &m.OrderInRound, &m.Slot1ParticipantID, &m.Slot2ParticipantID,
		&m.Slot1Bye, &m.Slot2Bye, &m.Status, &m.WinnerParticipant, &m.NextMatchID, &m.WinnerToSlot,
		&m.Voided, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %s: %w", id, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 ORDER BY round ASC, order_in_round ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m := &models.Match{}
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.Round, &m.OrderInRound, &m.Slot1ParticipantID, &m.Slot2ParticipantID,
			&m.Slot1Bye, &m.Slot2Bye, &m.Status, &m.WinnerParticipant, &m.NextMatchID, &m.WinnerToSlot,
			&m.Voided, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches SET
			slot1_participant_id = $1, slot2_participant_id = $2, status = $3,
			winner_participant_id = $4, voided = $5
		WHERE id = $6`

	result, err := exec.ExecContext(ctx, query,
		m.Slot1ParticipantID, m.Slot2ParticipantID, m.Status, m.WinnerParticipant, m.Voided, m.ID)
	if err != nil {
		return r.handleError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrMatchTournamentInvalid
		case "matches_slot1_participant_id_fkey", "matches_slot2_participant_id_fkey",
			"matches_winner_participant_id_fkey":
			return ErrMatchParticipantInvalid
		}
	}
	return err
}
