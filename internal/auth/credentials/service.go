package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"irs-responder/internal/db"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyRegistered  = errors.New("credentials already exist")
	ErrInvalidEmail       = errors.New("invalid email")
)

type Service struct {
	db *db.DB
}

func NewService(db *db.DB) *Service {
	return &Service{db: db}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// Register creates a user with password credentials and returns its id.
// Emails that already belong to a user yield ErrAlreadyRegistered.
func (s *Service) Register(
	ctx context.Context,
	email string,
	password string,
) (string, error) {

	email, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}

	// hash before opening a transaction; bcrypt is slow
	hash, version, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("credentials: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// an email that already has a user, however it signed up, never gets a password
	var userID string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&userID)
	switch {
	case err == nil:
		return "", ErrAlreadyRegistered
	case !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("credentials: lookup user: %w", err)
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (email, email_verified)
		VALUES ($1, false)
		RETURNING id
	`, email).Scan(&userID)
	if err != nil {
		return "", fmt.Errorf("credentials: create user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO credentials (user_id, password_hash, hash_version)
		VALUES ($1, $2, $3)
	`, userID, hash, version)
	if err != nil {
		return "", fmt.Errorf("credentials: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("credentials: commit: %w", err)
	}

	return userID, nil
}

// Authenticate returns the user id for a matching email and password.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Authenticate(
	ctx context.Context,
	email string,
	password string,
) (string, error) {

	var c Credential
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, c.password_hash, c.hash_version, c.updated_at
		FROM users u
		JOIN credentials c ON c.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1)
		  AND u.status = 'active'
	`, strings.TrimSpace(email)).Scan(&c.UserID, &c.PasswordHash, &c.HashVersion, &c.UpdatedAt)

	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("credentials: lookup: %w", err)
		}
		return "", ErrInvalidCredentials
	}

	if c.HashVersion != HashVersionBcrypt {
		return "", ErrInvalidCredentials
	}

	if err := VerifyPassword(c.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return c.UserID, nil
}
