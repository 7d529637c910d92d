package responder

import (
	"context"
	"time"

	"irs-responder/internal/logger"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Generate validates req, renders the response letter and stores it for userID.
func (s *Service) Generate(ctx context.Context, userID string, req DraftRequest) (*Draft, error) {
	now := s.now()

	v, err := req.validate(now)
	if err != nil {
		return nil, err
	}

	body, err := render(v, now)
	if err != nil {
		return nil, err
	}

	d := &Draft{
		UserID:     userID,
		NoticeType: v.notice.Type,
		TaxYear:    v.req.TaxYear,
		Subject:    subject(v),
		Body:       body,
	}
	if err := s.repo.Insert(ctx, d); err != nil {
		return nil, err
	}

	logger.Info("draft generated", map[string]any{
		"user_id":     userID,
		"draft_id":    d.ID,
		"notice_type": string(d.NoticeType),
	})
	return d, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Draft, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Get returns ErrNotFound for drafts owned by someone else.
func (s *Service) Get(ctx context.Context, userID, id string) (*Draft, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
