package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gamebay/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict for this organizer")
	ErrTournamentInvalidOrg   = errors.New("invalid organizer reference")
)

type ListTournamentsFilter struct {
	OrganizerID *int
	Status      *models.TournamentStatus
	Format      *models.TournamentFormat
	Limit       int
	Offset      int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateWinner(ctx context.Context, exec SQLExecutor, id int, winnerParticipantID *int) error
	MarkBracketGenerated(ctx context.Context, exec SQLExecutor, id int, at time.Time) error
	ListDueForStatusUpdate(ctx context.Context, now time.Time) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) exec(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const tournamentColumns = `
	id, name, description, format, organizer_id, reg_open_date, reg_close_date,
	start_date, status, max_participants, prize_pool, prize_shares,
	winner_participant_id, bracket_generated_at, created_at`

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (
			name, description, format, organizer_id, reg_open_date, reg_close_date,
			start_date, status, max_participants, prize_pool, prize_shares
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Description, t.Format, t.OrganizerID, t.RegOpenDate, t.RegCloseDate,
		t.StartDate, t.Status, t.MaxParticipants, t.PrizePool, t.PrizeSharesJSON,
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.Format, &t.OrganizerID, &t.RegOpenDate,
		&t.RegCloseDate, &t.StartDate, &t.Status, &t.MaxParticipants, &t.PrizePool,
		&t.PrizeSharesJSON, &t.WinnerParticipant, &t.BracketGeneratedAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + tournamentColumns + ` FROM tournaments WHERE 1=1`)

	args := make([]interface{}, 0, 4)
	idx := 1
	if filter.OrganizerID != nil {
		sb.WriteString(" AND organizer_id = $" + strconv.Itoa(idx))
		args = append(args, *filter.OrganizerID)
		idx++
	}
	if filter.Status != nil {
		sb.WriteString(" AND status = $" + strconv.Itoa(idx))
		args = append(args, *filter.Status)
		idx++
	}
	if filter.Format != nil {
		sb.WriteString(" AND format = $" + strconv.Itoa(idx))
		args = append(args, *filter.Format)
		idx++
	}
	sb.WriteString(" ORDER BY start_date DESC, id DESC")
	if filter.Limit > 0 {
		sb.WriteString(" LIMIT $" + strconv.Itoa(idx))
		args = append(args, filter.Limit)
		idx++
	}
	if filter.Offset > 0 {
		sb.WriteString(" OFFSET $" + strconv.Itoa(idx))
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.Format, &t.OrganizerID, &t.RegOpenDate,
			&t.RegCloseDate, &t.StartDate, &t.Status, &t.MaxParticipants, &t.PrizePool,
			&t.PrizeSharesJSON, &t.WinnerParticipant, &t.BracketGeneratedAt, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`
	result, err := r.exec(exec).ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateWinner(ctx context.Context, exec SQLExecutor, id int, winnerParticipantID *int) error {
	query := `UPDATE tournaments SET winner_participant_id = $1 WHERE id = $2`
	result, err := r.exec(exec).ExecContext(ctx, query, winnerParticipantID, id)
	if err != nil {
		return r.handleError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) MarkBracketGenerated(ctx context.Context, exec SQLExecutor, id int, at time.Time) error {
	query := `UPDATE tournaments SET bracket_generated_at = $1 WHERE id = $2 AND bracket_generated_at IS NULL`
	result, err := r.exec(exec).ExecContext(ctx, query, at, id)
	if err != nil {
		return r.handleError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// ListDueForStatusUpdate returns tournaments whose registration window
// boundaries have passed but whose status has not caught up yet.
func (r *postgresTournamentRepository) ListDueForStatusUpdate(ctx context.Context, now time.Time) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments
		WHERE (status = $1 AND reg_open_date <= $3)
		   OR (status = $2 AND reg_close_date <= $3)`

	rows, err := r.db.QueryContext(ctx, query, models.StatusUpcoming, models.StatusRegistrationOpen, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments due for status update: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t := &models.Tournament{}
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.Format, &t.OrganizerID, &t.RegOpenDate,
			&t.RegCloseDate, &t.StartDate, &t.Status, &t.MaxParticipants, &t.PrizePool,
			&t.PrizeSharesJSON, &t.WinnerParticipant, &t.BracketGeneratedAt, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) handleError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "tournaments_organizer_id_fkey":
			return ErrTournamentInvalidOrg
		case "tournaments_name_organizer_key":
			return ErrTournamentNameConflict
		}
	}
	return err
}
