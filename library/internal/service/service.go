package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/repository"
	"github.com/Astemirdum/library-management/pkg/auth"
	"github.com/Astemirdum/library-management/pkg/kafka"
)

type EventPublisher interface {
	Publish(ctx context.Context, event kafka.LoanEvent) error
}

type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

type Service struct {
	log     *zap.Logger
	repo    repository.Repository
	tokens  *auth.TokenManager
	events  EventPublisher
	revoker TokenRevoker
	now     func() time.Time
}

type Option func(*Service)

// WithEvents publishes loan events after every committed borrow and return.
func WithEvents(p EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

// WithRevoker enables logout.
func WithRevoker(r TokenRevoker) Option {
	return func(s *Service) {
		s.revoker = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo repository.Repository, tokens *auth.TokenManager, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:    log.Named("service"),
		repo:   repo,
		tokens: tokens,
		events: noopPublisher{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
