package services

import (
	"context"
	"errors"
	"testing"

	"tersys/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubDashboardRepo struct {
	counts *entities.DashboardStats
	branch string
	err    error
}

func (s stubDashboardRepo) GetCounts(ctx context.Context) (*entities.DashboardStats, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := *s.counts
	return &c, nil
}

func (s stubDashboardRepo) GetUserBranch(ctx context.Context, username string) (string, error) {
	return s.branch, nil
}

func TestDashboardService_Stats(t *testing.T) {
	svc := NewDashboardService(stubDashboardRepo{
		counts: &entities.DashboardStats{EquipmentCount: 3, BranchCount: 2, UserCount: 5},
		branch: "Matriz",
	}, zap.NewNop())

	stats, err := svc.Stats(context.Background(), adminSession)
	require.NoError(t, err)
	assert.Equal(t, entities.DashboardStats{EquipmentCount: 3, BranchCount: 2, UserCount: 5, UserBranch: "Matriz"}, stats)
}

func TestDashboardService_Error(t *testing.T) {
	svc := NewDashboardService(stubDashboardRepo{err: errors.New("sem conexão")}, zap.NewNop())
	_, err := svc.Stats(context.Background(), adminSession)
	assert.Error(t, err)
}
