package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/bmcallister/trade-journal/internal/models"
)

// ErrDuplicateEmail is returned when signing up with an email that is
// already registered.
var ErrDuplicateEmail = fmt.Errorf("email already registered")

// CreateUser inserts a new account with an already-hashed password.
func (db *DB) CreateUser(email, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}

	_, err := db.conn.Exec(
		`INSERT INTO users (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Email, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetUserByEmail looks up an account for login.
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := db.conn.QueryRow(
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetUserByID resolves a session's user id to an account.
func (db *DB) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := db.conn.QueryRow(
		`SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
