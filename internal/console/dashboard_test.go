package console

import (
	"context"
	"testing"

	"tersys/internal/authz"
	"tersys/internal/entities"
	apperrors "tersys/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStats struct {
	stats entities.DashboardStats
	err   error
}

func (s stubStats) Stats(ctx context.Context, _ Session) (entities.DashboardStats, error) {
	return s.stats, s.err
}

func TestDashboard_Load(t *testing.T) {
	session := Session{ID: "s1", Username: "ana", Role: authz.RoleDriver}
	d := NewDashboard(session, stubStats{stats: entities.DashboardStats{EquipmentCount: 4, BranchCount: 2, UserCount: 7, UserBranch: "Matriz"}}, &recordingToaster{}, zap.NewNop())

	require.NoError(t, d.Load(context.Background()))
	view := d.View()
	assert.Equal(t, "Bem-vindo, ana!", view.Greeting)
	assert.Equal(t, "Matriz", view.Branch)
	assert.Equal(t, int64(7), view.Stats.UserCount)
	assert.Equal(t, authz.RoleDriver, view.Role)
}

func TestDashboard_NoBranch(t *testing.T) {
	d := NewDashboard(adminSession, stubStats{}, &recordingToaster{}, zap.NewNop())
	require.NoError(t, d.Load(context.Background()))
	assert.Equal(t, "Não atribuído", d.View().Branch)
}

func TestDashboard_Failure(t *testing.T) {
	toast := &recordingToaster{}
	d := NewDashboard(adminSession, stubStats{err: errBackend}, toast, zap.NewNop())

	err := d.Load(context.Background())
	var opErr *apperrors.OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "Erro ao carregar dados do dashboard.", d.View().Error)

	last, _ := toast.last()
	assert.Equal(t, "Erro ao carregar dados.", last.Message)
}
