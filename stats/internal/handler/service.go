package handler

import (
	"context"

	"github.com/Astemirdum/library-management/stats/internal/model"
	"github.com/Astemirdum/library-management/stats/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type StatsService interface {
	GetStats(ctx context.Context) (model.StatsInfo, error)
}

var _ StatsService = (*service.Service)(nil)
