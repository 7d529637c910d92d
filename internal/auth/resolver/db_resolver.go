package resolver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"irs-responder/internal/auth"
	"irs-responder/internal/db"
)

var (
	ErrNilIdentity = errors.New("identity is nil")

	// ErrUnverifiedEmail means the email belongs to an existing user but the
	// provider does not vouch for it, so the identity is not linked.
	ErrUnverifiedEmail = errors.New("identity email is not verified")
)

// DBResolver resolves identities using the database.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) Resolve(
	ctx context.Context,
	identity *auth.Identity,
) (string, error) {

	if identity == nil {
		return "", ErrNilIdentity
	}
	if err := identity.Validate(); err != nil {
		return "", err
	}

	// 1. Known identity
	var userID string
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM identities
		WHERE provider = $1
		  AND provider_user_id = $2
	`,
		identity.Provider,
		identity.ProviderUserID,
	).Scan(&userID)

	if err == nil {
		return userID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("resolver: lookup identity: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("resolver: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// 2. Existing user by email, new provider; linking needs a verified email
	err = tx.QueryRowContext(ctx, `
		SELECT id
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`,
		identity.Email,
	).Scan(&userID)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		// 3. New user
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (email, email_verified)
			VALUES ($1, $2)
			RETURNING id
		`,
			identity.Email,
			identity.EmailVerified,
		).Scan(&userID)
		if err != nil {
			return "", fmt.Errorf("resolver: create user: %w", err)
		}
	case err != nil:
		return "", fmt.Errorf("resolver: lookup user: %w", err)
	case !identity.EmailVerified:
		return "", ErrUnverifiedEmail
	}

	// 4. Identity mapping
	_, err = tx.ExecContext(ctx, `
		INSERT INTO identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`,
		userID,
		identity.Provider,
		identity.ProviderUserID,
	)
	if err != nil {
		return "", fmt.Errorf("resolver: link identity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("resolver: commit: %w", err)
	}

	return userID, nil
}
