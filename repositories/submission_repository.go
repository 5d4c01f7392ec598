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

var ErrSubmissionInvalid = errors.New("submission references an unknown match or participant")

type SubmissionRepository interface {
	// ReplaceForMatch deletes and re-inserts the submission rows for a match so
	// the stored set always mirrors the engine's view after a mutation.
	ReplaceForMatch(ctx context.Context, exec SQLExecutor, matchID uuid.UUID, submissions []models.ResultSubmission) error
	ListByTournament(ctx context.Context, tournamentID int) (map[uuid.UUID][]models.ResultSubmission, error)
}

type postgresSubmissionRepository struct {
	db *sql.DB
}

func NewPostgresSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &postgresSubmissionRepository{db: db}
}

func (r *postgresSubmissionRepository) ReplaceForMatch(ctx context.Context, exec SQLExecutor, matchID uuid.UUID, submissions []models.ResultSubmission) error {
	if _, err := exec.ExecContext(ctx,
		`DELETE FROM result_submissions WHERE match_id = $1`, matchID); err != nil {
		return fmt.Errorf("failed to clear submissions for match %s: %w", matchID, err)
	}

	query := `
		INSERT INTO result_submissions (id, match_id, participant_id, own_score, opponent_score, evidence_url, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, s := range submissions {
		if _, err := exec.ExecContext(ctx, query,
			s.ID, s.MatchID, s.ParticipantID, s.OwnScore, s.OpponentScore, s.EvidenceURL, s.SubmittedAt,
		); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) {
				switch pqErr.Constraint {
				case "result_submissions_match_id_fkey", "result_submissions_participant_id_fkey":
					return ErrSubmissionInvalid
				}
			}
			return fmt.Errorf("failed to insert submission %s: %w", s.ID, err)
		}
	}
	return nil
}

func (r *postgresSubmissionRepository) ListByTournament(ctx context.Context, tournamentID int) (map[uuid.UUID][]models.ResultSubmission, error) {
	query := `
		SELECT s.id, s.match_id, s.participant_id, s.own_score, s.opponent_score, s.evidence_url, s.submitted_at
		FROM result_submissions s
		JOIN matches m ON m.id = s.match_id
		WHERE m.tournament_id = $1
		ORDER BY s.submitted_at ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	byMatch := make(map[uuid.UUID][]models.ResultSubmission)
	for rows.Next() {
		var s models.ResultSubmission
		if err := rows.Scan(&s.ID, &s.MatchID, &s.ParticipantID, &s.OwnScore, &s.OpponentScore, &s.EvidenceURL, &s.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission row: %w", err)
		}
		byMatch[s.MatchID] = append(byMatch[s.MatchID], s)
	}
	return byMatch, rows.Err()
}
