package services

import (
	"context"
	"testing"

	"tersys/internal/authz"
	"tersys/internal/console"
	"tersys/internal/entities"
	apperrors "tersys/pkg/errors"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func transferFixture() (*fakeEquipmentRepo, *fakeBranchRepo, *fakeTransferRepo, *fakeTxManager) {
	equipment := &fakeEquipmentRepo{rows: []entities.Equipment{
		{ID: 1, Name: "Caminhão 01", BranchID: null.Int64From(10)},
	}, nextID: 1}
	branches := &fakeBranchRepo{rows: []entities.Branch{
		{ID: 10, Name: "Matriz"},
		{ID: 20, Name: "Filial Sul"},
	}, nextID: 20}
	return equipment, branches, &fakeTransferRepo{}, &fakeTxManager{}
}

func TestTransferService_AssignWritesLog(t *testing.T) {
	equipment, branches, transfers, tx := transferFixture()
	svc := NewTransferService(equipment, branches, transfers, tx, zap.NewNop())

	toast := &silentToaster{}
	screen := console.NewAssigner[entities.Equipment](authz.ScreenTransfer, adminSession, svc, TransferMessages, toast, zap.NewNop())
	require.NoError(t, screen.Load(context.Background()))

	require.NoError(t, screen.Assign(context.Background(), 1, 20))

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, int64(20), equipment.rows[0].BranchID.Int64)
	require.Len(t, transfers.history, 1)
	assert.Equal(t, int64(10), transfers.history[0].FromBranchID.Int64)
	assert.Equal(t, int64(20), transfers.history[0].ToBranchID.Int64)
	assert.Equal(t, "admin", transfers.history[0].TransferredBy)
	assert.Equal(t, "Equipamento transferido com sucesso!", toast.last.Message)

	view := screen.View()
	assert.Len(t, view.Lookups["history"], 1)
}

func TestTransferService_SameBranchRejectedInsideTransaction(t *testing.T) {
	equipment, branches, transfers, tx := transferFixture()
	svc := NewTransferService(equipment, branches, transfers, tx, zap.NewNop())

	// Экран мог загрузить устаревшую строку: проверка повторяется под блокировкой.
	stale := entities.Equipment{ID: 1, Name: "Caminhão 01", BranchID: null.Int64From(20)}
	equipment.rows[0].BranchID = null.Int64From(20)

	err := svc.Assign(context.Background(), adminSession, stale, 20)
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "O equipamento já está nesta filial.", validationErr.Inline)
	assert.Zero(t, equipment.moves)
	assert.Empty(t, transfers.history)
}

func TestTransferService_MissingSelection(t *testing.T) {
	equipment, branches, transfers, tx := transferFixture()
	svc := NewTransferService(equipment, branches, transfers, tx, zap.NewNop())
	screen := console.NewAssigner[entities.Equipment](authz.ScreenTransfer, adminSession, svc, TransferMessages, &silentToaster{}, zap.NewNop())
	require.NoError(t, screen.Load(context.Background()))

	err := screen.Assign(context.Background(), 1, 0)
	require.Error(t, err)
	assert.Equal(t, "Selecione um equipamento e uma filial de destino.", screen.View().Error)
	assert.Zero(t, tx.calls)
}

func TestOutsourcingService_SupervisorLimitedToOwnBranches(t *testing.T) {
	branches := &fakeBranchRepo{rows: []entities.Branch{
		{ID: 1, Name: "Centro", Responsible: null.StringFrom("carlos")},
		{ID: 2, Name: "Norte", Responsible: null.StringFrom("outro")},
	}}
	workers := &fakeWorkerRepo{rows: []entities.OutsourcedWorker{{ID: 7, Name: "Pedro"}}}
	svc := NewOutsourcingService(workers, branches, zap.NewNop())

	screen := console.NewAssigner[entities.OutsourcedWorker](authz.ScreenOutsourcing, supervisorSession, svc, OutsourcingMessages, &silentToaster{}, zap.NewNop())
	require.NoError(t, screen.Load(context.Background()))

	view := screen.View()
	require.Len(t, view.Branches, 1)
	assert.Equal(t, "Centro", view.Branches[0].Name)

	err := screen.Assign(context.Background(), 7, 2)
	var validationErr *apperrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Empty(t, workers.assigned)

	require.NoError(t, screen.Assign(context.Background(), 7, 1))
	assert.Equal(t, int64(1), workers.assigned[7])
	assert.Equal(t, int64(1), screen.View().Items[0].BranchID.Int64)
}

type fakeWorkerRepo struct {
	rows     []entities.OutsourcedWorker
	assigned map[int64]int64
}

func (f *fakeWorkerRepo) GetWorkers(ctx context.Context) ([]entities.OutsourcedWorker, error) {
	out := make([]entities.OutsourcedWorker, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeWorkerRepo) CreateWorker(ctx context.Context, worker entities.OutsourcedWorker) (int64, error) {
	worker.ID = int64(len(f.rows) + 1)
	f.rows = append(f.rows, worker)
	return worker.ID, nil
}

func (f *fakeWorkerRepo) AssignBranch(ctx context.Context, workerID, branchID int64) error {
	if f.assigned == nil {
		f.assigned = make(map[int64]int64)
	}
	for i := range f.rows {
		if f.rows[i].ID == workerID {
			f.rows[i].BranchID = null.Int64From(branchID)
			f.assigned[workerID] = branchID
			return nil
		}
	}
	return apperrors.ErrNotFound
}
