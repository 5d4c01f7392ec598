package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gamebay/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantConflict = errors.New("user is already registered for this tournament")
	ErrParticipantInvalid  = errors.New("participant references an unknown user or tournament")
)

type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	FindByUserAndTournament(ctx context.Context, userID, tournamentID int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int, paymentStatus *models.PaymentStatus) ([]*models.Participant, error)
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
	UpdatePaymentStatus(ctx context.Context, id int, status models.PaymentStatus) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

const participantColumns = `id, user_id, tournament_id, game_tag, payment_status, created_at`

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participants (user_id, tournament_id, game_tag, payment_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.TournamentID, p.GameTag, p.PaymentStatus,
	).Scan(&p.ID, &p.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Constraint {
		case "participants_user_id_tournament_id_key":
			return ErrParticipantConflict
		case "participants_user_id_fkey", "participants_tournament_id_fkey":
			return ErrParticipantInvalid
		}
	}
	return err
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresParticipantRepository) FindByUserAndTournament(ctx context.Context, userID, tournamentID int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE user_id = $1 AND tournament_id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, userID, tournamentID))
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int, paymentStatus *models.PaymentStatus) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if paymentStatus != nil {
		query += ` AND payment_status = $2`
		args = append(args, *paymentStatus)
	}
	query += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p := &models.Participant{}
		if err := rows.Scan(&p.ID, &p.UserID, &p.TournamentID, &p.GameTag, &p.PaymentStatus, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	return count, err
}

func (r *postgresParticipantRepository) UpdatePaymentStatus(ctx context.Context, id int, status models.PaymentStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE participants SET payment_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) scanOne(row *sql.Row) (*models.Participant, error) {
	p := &models.Participant{}
	err := row.Scan(&p.ID, &p.UserID, &p.TournamentID, &p.GameTag, &p.PaymentStatus, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant: %w", err)
	}
	return p, nil
}
