package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"study_plan_notifier/internal/domain/user"
)

var ErrUserNotFound = errors.New("user not found")

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	query := `SELECT id, name, email FROM users WHERE id = $1`
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user by ID: %w", err)
	}
	return u, nil
}
