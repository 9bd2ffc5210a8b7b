package services

import (
	"context"

	"tersys/internal/console"
	"tersys/internal/entities"
	"tersys/internal/repositories"

	"go.uber.org/zap"
)

type DashboardService struct {
	repo   repositories.DashboardRepositoryInterface
	logger *zap.Logger
}

func NewDashboardService(repo repositories.DashboardRepositoryInterface, logger *zap.Logger) *DashboardService {
	return &DashboardService{repo: repo, logger: logger}
}

func (s *DashboardService) Stats(ctx context.Context, session console.Session) (entities.DashboardStats, error) {
	counts, err := s.repo.GetCounts(ctx)
	if err != nil {
		return entities.DashboardStats{}, err
	}
	branch, err := s.repo.GetUserBranch(ctx, session.Username)
	if err != nil {
		return entities.DashboardStats{}, err
	}
	counts.UserBranch = branch
	return *counts, nil
}
