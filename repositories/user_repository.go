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
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("email address is already in use")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, nickname, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.Nickname, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Constraint == "users_email_key" {
		return ErrUserEmailConflict
	}
	return err
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *postgresUserRepository) getBy(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, email, nickname, password_hash, role, created_at
		FROM users
		WHERE %s`, where)

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.Nickname, &user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}
