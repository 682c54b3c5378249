package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"RiskMonitor/internal/domain"
)

// ErrInvalidStatus is returned for status names outside the workflow.
var ErrInvalidStatus = errors.New("invalid status")

// ParseStatus maps a request value onto a workflow status.
func ParseStatus(s string) (domain.Status, error) {
	switch status := domain.Status(strings.ToLower(strings.TrimSpace(s))); status {
	case domain.StatusPending, domain.StatusReviewing, domain.StatusResolved, domain.StatusIgnored:
		return status, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Store persists workflow changes.
type Store interface {
	Get(ctx context.Context, id int64) (domain.Article, error)
	UpdateStatus(ctx context.Context, id int64, change domain.StatusChange) error
	Assign(ctx context.Context, id int64, assigneeID *int64) error
}

// Service applies reviewer actions to stored articles.
type Service struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

// NewService builds a workflow service. A nil logger disables logging.
func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, now: time.Now, logger: logger}
}

// Transition moves an article to status. Resolving records who resolved it and
// when; any other status clears both.
func (s *Service) Transition(ctx context.Context, id int64, status string, actorID *int64) (domain.StatusChange, error) {
	next, err := ParseStatus(status)
	if err != nil {
		return domain.StatusChange{}, err
	}

	change := domain.StatusChange{Status: next}
	if next == domain.StatusResolved {
		resolvedAt := s.now()
		change.ResolvedAt = &resolvedAt
		change.ResolvedByID = actorID
	}

	if err := s.store.UpdateStatus(ctx, id, change); err != nil {
		return domain.StatusChange{}, fmt.Errorf("update status: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("status changed", "article_id", id, "status", next)
	}
	return change, nil
}

// Assign sets the reviewer of an article; nil unassigns it. Assigning a
// pending article moves it to reviewing.
func (s *Service) Assign(ctx context.Context, id int64, assigneeID *int64) error {
	if err := s.store.Assign(ctx, id, assigneeID); err != nil {
		return fmt.Errorf("assign article: %w", err)
	}
	if assigneeID == nil {
		return nil
	}

	article, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load article: %w", err)
	}
	if article.Status != domain.StatusPending {
		return nil
	}
	if err := s.store.UpdateStatus(ctx, id, domain.StatusChange{Status: domain.StatusReviewing}); err != nil {
		return fmt.Errorf("start review: %w", err)
	}
	return nil
}
