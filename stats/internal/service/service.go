package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/pkg/kafka"
	"github.com/Astemirdum/library-management/stats/internal/model"
	statsRepo "github.com/Astemirdum/library-management/stats/internal/repository"
)

type Service struct {
	log  *zap.Logger
	repo statsRepo.Repository
}

func NewService(repo statsRepo.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

// GetStats returns lending stats grouped by user.
func (s *Service) GetStats(ctx context.Context) (model.StatsInfo, error) {
	return s.repo.GetStats(ctx)
}

// Record is used by the kafka consumer.
func (s *Service) Record(ctx context.Context, event kafka.LoanEvent) error {
	return s.repo.SaveEvent(ctx, event)
}
