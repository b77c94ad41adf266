package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, name, avatar_url, joined_at, is_admin`

// UserRepository handles database operations for users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID finds a user by id. A miss returns nil without an error.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found is not an error
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// FindByUsername looks a user up by username, ignoring case.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	query := "SELECT " + userColumns + " FROM users WHERE username = ? COLLATE NOCASE"
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return &user, nil
}

// GetAll returns every user, oldest member first.
func (r *UserRepository) GetAll(ctx context.Context) ([]User, error) {
	users := []User{}
	err := r.db.SelectContext(ctx, &users, "SELECT "+userColumns+" FROM users ORDER BY joined_at, username")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Create inserts a new user. The caller supplies the id.
func (r *UserRepository) Create(ctx context.Context, user *User) error {
	user.JoinedAt = user.JoinedAt.UTC()
	query := `INSERT INTO users (id, username, name, avatar_url, joined_at, is_admin)
		VALUES (:id, :username, :name, :avatar_url, :joined_at, :is_admin)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// SetAdmin updates the admin flag of a user.
func (r *UserRepository) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET is_admin = ? WHERE id = ?", isAdmin, id)
	if err != nil {
		return fmt.Errorf("failed to update admin flag: %w", err)
	}
	return expectOneRow(res, "user", id)
}

// Delete removes a user.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return expectOneRow(res, "user", id)
}

// CountContent returns how many topics and posts the user has authored.
func (r *UserRepository) CountContent(ctx context.Context, id string) (int, error) {
	var n int
	query := `SELECT (SELECT COUNT(*) FROM topics WHERE author_id = ?) + (SELECT COUNT(*) FROM posts WHERE author_id = ?)`
	if err := r.db.GetContext(ctx, &n, query, id, id); err != nil {
		return 0, fmt.Errorf("failed to count user content: %w", err)
	}
	return n, nil
}

func expectOneRow(res sql.Result, kind string, id any) error {
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no %s found with id %v", kind, id)
	}
	return nil
}
