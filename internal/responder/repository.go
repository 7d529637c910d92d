package responder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"irs-responder/internal/db"
)

// Repository persists drafts. Every read is scoped to the owning user.
type Repository interface {
	Insert(ctx context.Context, d *Draft) error
	ListByUser(ctx context.Context, userID string) ([]Draft, error)
	Get(ctx context.Context, userID, id string) (*Draft, error)
	Delete(ctx context.Context, userID, id string) error
}

type SQLRepository struct {
	db *db.DB
}

func NewSQLRepository(db *db.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Insert(ctx context.Context, d *Draft) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO drafts (user_id, notice_type, tax_year, subject, body)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, d.UserID, string(d.NoticeType), d.TaxYear, d.Subject, d.Body).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("responder: insert draft: %w", err)
	}
	return nil
}

func (r *SQLRepository) ListByUser(ctx context.Context, userID string) ([]Draft, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, notice_type, tax_year, subject, body, created_at
		FROM drafts
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 100
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("responder: list drafts: %w", err)
	}
	defer rows.Close()

	drafts := make([]Draft, 0)
	for rows.Next() {
		var d Draft
		if err := rows.Scan(&d.ID, &d.UserID, &d.NoticeType, &d.TaxYear, &d.Subject, &d.Body, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("responder: scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("responder: list drafts: %w", err)
	}
	return drafts, nil
}

func (r *SQLRepository) Get(ctx context.Context, userID, id string) (*Draft, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}

	var d Draft
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, notice_type, tax_year, subject, body, created_at
		FROM drafts
		WHERE id = $1 AND user_id = $2
	`, id, userID).Scan(&d.ID, &d.UserID, &d.NoticeType, &d.TaxYear, &d.Subject, &d.Body, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("responder: get draft: %w", err)
	}
	return &d, nil
}

func (r *SQLRepository) Delete(ctx context.Context, userID, id string) error {
	if uuid.Validate(id) != nil {
		return ErrNotFound
	}

	res, err := r.db.ExecContext(ctx, `
		DELETE FROM drafts WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("responder: delete draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("responder: delete draft: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
